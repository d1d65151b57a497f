package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mdnmdn/asimeow/internal/version"
)

func newVersionCommand() *cobra.Command {
	var showFull bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if showFull {
				fmt.Fprint(cmd.OutOrStdout(), version.FullVersion())
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), version.Short())
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&showFull, "full", "f", false,
		"show full version information")

	return cmd
}
