package commands

import (
	"strings"

	"github.com/spf13/cobra"
)

func newListCommand(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "list [path]",
		Short: "Show the Time Machine exclusion status of a path",
		Long: `Without an argument, or with a path ending in '/', lists every entry of the
directory with its exclusion status. Otherwise reports the path itself.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.Shutdown()

			path, wholeDir := listTarget(args)
			return a.List(path, wholeDir)
		},
	}
}

// listTarget maps the optional argument to a path and whether to list its entries
func listTarget(args []string) (string, bool) {
	if len(args) == 0 {
		return ".", true
	}
	return args[0], strings.HasSuffix(args[0], "/")
}
