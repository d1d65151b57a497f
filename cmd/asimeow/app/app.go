/*
Package app provides the application container for asimeow. It wires the
configuration, logger, Time Machine oracle, scanner, console output and
progress line together and owns their lifecycle.

Usage:

	a := app.New(settings)
	defer a.Shutdown()
	if err := a.LoadConfig(path); err != nil {
	    return err
	}
	return a.Scan()
*/
package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"

	"github.com/mdnmdn/asimeow/internal/config"
	"github.com/mdnmdn/asimeow/internal/lock"
	"github.com/mdnmdn/asimeow/pkg/logger"
	"github.com/mdnmdn/asimeow/pkg/oracle"
	"github.com/mdnmdn/asimeow/pkg/output"
	"github.com/mdnmdn/asimeow/pkg/progress"
	"github.com/mdnmdn/asimeow/pkg/runcache"
	"github.com/mdnmdn/asimeow/pkg/scanner"
)

// App represents the main application container
type App struct {
	settings   config.Settings
	cfg        config.Config
	configPath string

	log       logger.Logger
	fs        afero.Fs
	oracle    oracle.Oracle
	status    oracle.Oracle
	formatter output.Formatter
	progress  progress.Progress
	stdout    io.Writer
	lockPath  string
	runID     string

	ctx         context.Context
	cancel      context.CancelFunc
	stopSignals func()
	once        sync.Once
}

// Option customizes an App before its components are built
type Option func(*App)

// WithFs replaces the OS filesystem
func WithFs(fs afero.Fs) Option {
	return func(a *App) { a.fs = fs }
}

// WithOracle replaces the tmutil oracle. Dry run still wraps it.
func WithOracle(o oracle.Oracle) Option {
	return func(a *App) { a.oracle = o }
}

// WithOutput redirects report output from stdout
func WithOutput(w io.Writer) Option {
	return func(a *App) { a.stdout = w }
}

// WithLogger replaces the logger built from settings
func WithLogger(log logger.Logger) Option {
	return func(a *App) { a.log = log }
}

// WithLockPath overrides the run lock location
func WithLockPath(path string) Option {
	return func(a *App) { a.lockPath = path }
}

// New creates a new application instance
func New(settings config.Settings, opts ...Option) *App {
	ctx, cancel := context.WithCancel(context.Background())

	a := &App{
		settings: settings,
		stdout:   os.Stdout,
		runID:    uuid.NewString(),
		ctx:      ctx,
		cancel:   cancel,
	}
	for _, opt := range opts {
		opt(a)
	}

	a.initLogger()
	a.initComponents()
	a.setupSignalHandling()

	a.log.WithFields(logger.Fields{
		"workers": settings.Workers,
		"verbose": settings.Verbose,
		"dryRun":  settings.DryRun,
		"output":  settings.Output,
	}).Debug("Application initialized")

	return a
}

// initLogger builds the run logger. Without -v only warnings reach stderr.
func (a *App) initLogger() {
	if a.log == nil {
		a.log = logger.NewLogger(logger.Config{
			Verbosity: a.settings.Verbose - 1,
			Encoding:  logger.EncodingConsole,
		})
	}
	a.log = a.log.WithFields(logger.Fields{"run_id": a.runID})
}

// initComponents builds everything that depends on settings
func (a *App) initComponents() {
	if a.fs == nil {
		a.fs = afero.NewOsFs()
	}
	if a.oracle == nil {
		a.oracle = oracle.NewTMUtil(oracle.ExecRunner{}, a.log)
	}
	if a.settings.DryRun {
		a.oracle = oracle.NewDryRun(a.oracle)
	}
	a.status = a.oracle
	if a.settings.StatusCacheSize >= 0 {
		if cached, err := runcache.NewStatusCache(a.oracle, a.settings.StatusCacheSize); err == nil {
			a.status = cached
		}
	}
	if a.lockPath == "" {
		a.lockPath = lock.DefaultPath()
	}

	format, err := output.ParseFormat(a.settings.Output)
	if err != nil {
		a.log.WithFields(logger.Fields{
			"output": a.settings.Output,
		}).Warn("Unknown output format, using text")
		format = output.FormatText
	}

	withColors := false
	if f, ok := a.stdout.(*os.File); ok {
		withColors = output.ShouldColor(f, a.settings.NoColor)
	}

	a.formatter = output.NewFormatter(output.Config{
		Format:     format,
		WithColors: withColors,
		Verbose:    a.settings.Verbose > 0,
	}, a.log)

	a.progress = progress.Nop()
	if !a.settings.NoProgress && format == output.FormatText && progress.IsTerminal(os.Stderr) {
		a.progress = progress.New(progress.Config{
			Style:             progress.StyleSpinner,
			NoColor:           !withColors,
			RefreshRate:       100 * time.Millisecond,
			HideAfterComplete: true,
		}, a.log)
	}
}

// LoadConfig locates and loads the configuration file
func (a *App) LoadConfig(explicit string) error {
	path, err := config.Find(a.fs, explicit)
	if err != nil {
		return err
	}

	cfg, err := config.Load(a.fs, path)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.configPath = path

	a.log.WithFields(logger.Fields{
		"path":   path,
		"roots":  len(cfg.Roots),
		"rules":  len(cfg.Rules),
		"ignore": cfg.Ignore,
	}).Debug("Configuration loaded")

	return nil
}

// Scan walks the configured roots and excludes matching build directories
func (a *App) Scan() (err error) {
	defer a.recoverPanic(&err)

	release, err := a.acquireLock()
	if err != nil {
		return err
	}
	defer release()

	printer := output.NewPrinter(a.stdout, a.formatter)

	s := scanner.NewScanner(scanner.Config{
		Workers:         a.settings.Workers,
		RateLimit:       a.settings.RateLimit,
		Roots:           a.cfg.RootPaths(),
		Ignore:          a.cfg.Ignore,
		Rules:           scannerRules(a.cfg.Rules),
		StatusCacheSize: a.settings.StatusCacheSize,
		OnEvent: func(e scanner.Event) {
			a.progress.Suspend(func() { printer.Handle(e) })
		},
	}, a.fs, a.oracle, a.log)

	a.progress.Start("Scanning", func() progress.Status {
		p := s.Progress()
		return progress.Status{
			ProcessedPaths: p.ProcessedPaths,
			ExclusionFound: p.ExclusionFound,
			NewlyExcluded:  p.NewlyExcluded,
		}
	})

	result, scanErr := s.Scan(a.ctx)
	a.progress.Stop()

	if result.StartTime.IsZero() {
		return scanErr
	}

	if err := printer.Summary(result); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}

	a.log.WithFields(logger.Fields{
		"processedPaths": result.ProcessedPaths,
		"exclusionFound": result.ExclusionFound,
		"newlyExcluded":  result.NewlyExcluded,
		"duration":       result.Duration,
	}).Debug("Scan finished")

	return scanErr
}

// Exclude adds a single path to the Time Machine exclusions
func (a *App) Exclude(path string) error {
	return a.change(output.ActionExclude, path, scanner.ExcludePath)
}

// Include removes a single path from the Time Machine exclusions
func (a *App) Include(path string) error {
	return a.change(output.ActionInclude, path, scanner.IncludePath)
}

type changeFunc func(context.Context, afero.Fs, oracle.Oracle, string) (scanner.Change, error)

func (a *App) change(action output.Action, path string, fn changeFunc) error {
	release, err := a.acquireLock()
	if err != nil {
		return err
	}
	defer release()

	abs, err := absPath(path)
	if err != nil {
		return err
	}

	change, err := fn(a.ctx, a.fs, a.status, abs)
	if err != nil {
		return err
	}

	a.log.WithFields(logger.Fields{
		"action":  action,
		"path":    change.Path,
		"changed": change.Kind == scanner.Changed,
	}).Debug("Single path updated")

	out, err := a.formatter.FormatChange(action, change)
	if err != nil {
		return err
	}
	return a.write(out)
}

// List prints the exclusion status of path. With wholeDir set and path a
// directory, each immediate entry is reported.
func (a *App) List(path string, wholeDir bool) error {
	if path == "" {
		path = "."
	}

	abs, err := absPath(path)
	if err != nil {
		return err
	}

	listing, err := scanner.List(a.ctx, a.fs, a.status, abs, wholeDir)
	if err != nil {
		return err
	}

	out, err := a.formatter.FormatListing(listing)
	if err != nil {
		return err
	}
	return a.write(out)
}

// Init writes the default configuration and returns where it went
func (a *App) Init(path string) (string, error) {
	path = config.ExpandHome(path)
	if err := config.WriteDefault(a.fs, path); err != nil {
		return "", err
	}

	a.log.WithFields(logger.Fields{
		"path": path,
	}).Debug("Default configuration written")

	return path, nil
}

// Config returns the loaded configuration
func (a *App) Config() config.Config {
	return a.cfg
}

// ConfigPath returns the file the configuration was loaded from
func (a *App) ConfigPath() string {
	return a.configPath
}

// Shutdown releases signal handlers and cancels anything in flight
func (a *App) Shutdown() {
	a.once.Do(func() {
		a.log.Debug("Shutting down")
		a.cancel()
		a.progress.Stop()
		if a.stopSignals != nil {
			a.stopSignals()
		}
	})
}

func (a *App) acquireLock() (func(), error) {
	l := lock.New(a.lockPath)

	a.log.WithFields(logger.Fields{
		"path": a.lockPath,
	}).Debug("Attempting to acquire lock")

	if err := l.TryLock(); err != nil {
		return nil, err
	}

	return func() {
		if err := l.Unlock(); err != nil {
			a.log.WithFields(logger.Fields{
				"error": err,
			}).Warn("Failed to release lock")
			return
		}
		a.log.Debug("Lock released")
	}, nil
}

func (a *App) write(out string) error {
	if out != "" && !strings.HasSuffix(out, "\n") {
		out += "\n"
	}
	_, err := io.WriteString(a.stdout, out)
	return err
}

func (a *App) recoverPanic(err *error) {
	if r := recover(); r != nil {
		a.log.WithFields(logger.Fields{
			"panic": r,
			"stack": string(debug.Stack()),
		}).Error("Recovered from panic")
		*err = fmt.Errorf("internal error: %v", r)
	}
}

func scannerRules(rules []config.Rule) []scanner.Rule {
	out := make([]scanner.Rule, 0, len(rules))
	for _, r := range rules {
		out = append(out, scanner.Rule{
			Name:       r.Name,
			FileMatch:  r.FileMatch,
			Exclusions: r.Exclusions,
		})
	}
	return out
}

func absPath(path string) (string, error) {
	abs, err := filepath.Abs(config.ExpandHome(path))
	if err != nil {
		return "", fmt.Errorf("failed to resolve path %s: %w", path, err)
	}
	return abs, nil
}
