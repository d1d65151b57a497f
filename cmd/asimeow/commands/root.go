/*
Package commands implements the asimeow command line. The root command runs
the exclusion scan; subcommands manage the config file and single paths.
*/
package commands

import (
	"github.com/spf13/cobra"

	"github.com/mdnmdn/asimeow/cmd/asimeow/app"
	"github.com/mdnmdn/asimeow/internal/config"
	"github.com/mdnmdn/asimeow/internal/version"
)

// Options holds command-line options that apply to all commands
type Options struct {
	ConfigPath string
	Verbose    int
	Threads    int
	RateLimit  int
	DryRun     bool
	NoColor    bool
	NoProgress bool
	Output     string
}

// NewRootCommand creates the root command for the application
func NewRootCommand() *cobra.Command {
	return newRootCommand(&Options{})
}

func newRootCommand(opts *Options) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "asimeow",
		Short: "Exclude project build directories from Time Machine backups",
		Long: `asimeow walks the configured root directories, recognizes projects by their
marker files (package.json, Cargo.toml, go.mod, ...) and excludes their build
and dependency directories from Time Machine backups with tmutil.

Run 'asimeow init' to create a configuration file first.`,
		Version:       version.Version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(cmd, opts)
		},
	}
	rootCmd.SetVersionTemplate(version.Short() + "\n")

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&opts.ConfigPath, "config", "c", "", "path to config file")
	flags.CountVarP(&opts.Verbose, "verbose", "v", "verbose output (can be used multiple times)")
	flags.StringVarP(&opts.Output, "output", "o", string(config.OutputFormatText), "output format: text|json|yaml")
	flags.BoolVar(&opts.NoColor, "no-color", false, "disable colored output")

	rootCmd.Flags().IntVarP(&opts.Threads, "threads", "t", config.DefaultWorkers, "number of worker threads")
	rootCmd.Flags().IntVar(&opts.RateLimit, "rate-limit", 0, "maximum directories visited per second (0 for unlimited)")
	rootCmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "report what would be excluded without changing anything")
	rootCmd.Flags().BoolVar(&opts.NoProgress, "no-progress", false, "disable the progress line")

	rootCmd.AddCommand(
		newInitCommand(opts),
		newVersionCommand(),
		newListCommand(opts),
		newExcludeCommand(opts),
		newIncludeCommand(opts),
	)

	return rootCmd
}

func runScan(cmd *cobra.Command, opts *Options) error {
	a, err := newApp(cmd, opts)
	if err != nil {
		return err
	}
	defer a.Shutdown()

	if err := a.LoadConfig(opts.ConfigPath); err != nil {
		return err
	}
	return a.Scan()
}

// newApp builds the container from environment settings with flag overrides
func newApp(cmd *cobra.Command, opts *Options, extra ...app.Option) (*app.App, error) {
	settings, err := resolveSettings(cmd, opts)
	if err != nil {
		return nil, err
	}
	extra = append([]app.Option{app.WithOutput(cmd.OutOrStdout())}, extra...)
	return app.New(settings, extra...), nil
}

// resolveSettings reads ASIMEOW_* variables, then applies flags the user set
func resolveSettings(cmd *cobra.Command, opts *Options) (config.Settings, error) {
	settings, err := config.LoadSettings()
	if err != nil {
		return config.Settings{}, err
	}

	flags := cmd.Flags()
	if flags.Changed("verbose") {
		settings.Verbose = opts.Verbose
	}
	if flags.Changed("threads") {
		settings.Workers = opts.Threads
	}
	if flags.Changed("rate-limit") {
		settings.RateLimit = opts.RateLimit
	}
	if flags.Changed("dry-run") {
		settings.DryRun = opts.DryRun
	}
	if flags.Changed("no-color") {
		settings.NoColor = opts.NoColor
	}
	if flags.Changed("no-progress") {
		settings.NoProgress = opts.NoProgress
	}
	if flags.Changed("output") {
		settings.Output = opts.Output
	}

	if err := settings.Validate(); err != nil {
		return config.Settings{}, err
	}
	return settings, nil
}
