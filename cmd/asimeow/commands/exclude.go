package commands

import (
	"github.com/spf13/cobra"
)

func newExcludeCommand(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "exclude <path>",
		Short: "Exclude a path from Time Machine backups",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.Shutdown()

			return a.Exclude(args[0])
		},
	}
	return cmd
}

func newIncludeCommand(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "include <path>",
		Short: "Include a previously excluded path in Time Machine backups",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.Shutdown()

			return a.Include(args[0])
		},
	}
	return cmd
}
