package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mdnmdn/asimeow/internal/config"
)

func newInitCommand(opts *Options) *cobra.Command {
	var (
		local bool
		path  string
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a default configuration file",
		Long: `Writes the default rule set to ~/.config/asimeow/config.yaml, or to
./config.yaml with --local. An existing file is never overwritten.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.Shutdown()

			written, err := a.Init(initPath(local, path))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "✅ Created default config file at: %s\n", written)
			fmt.Fprintln(out, "You can now edit this file to customize your backup exclusion rules.")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&local, "local", "l", false, "create config.yaml in the current directory")
	cmd.Flags().StringVarP(&path, "path", "p", "", "create the config file at this path")

	return cmd
}

// initPath picks the target: an explicit path, then --local, then the user config
func initPath(local bool, path string) string {
	switch {
	case path != "":
		return path
	case local:
		return config.FileName
	default:
		return config.DefaultPath()
	}
}
