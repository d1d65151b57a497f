package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Settings holds the runtime knobs that are not part of config.yaml.
// Values come from ASIMEOW_* environment variables and are overridden by
// command line flags.
type Settings struct {
	// Workers is the number of concurrent directory visitors
	Workers int

	// RateLimit is the maximum number of directories visited per second (0 for unlimited)
	RateLimit int

	// Verbose sets the verbosity level
	Verbose int

	// DryRun reports what would be excluded without changing anything
	DryRun bool

	// NoColor disables colored output
	NoColor bool

	// NoProgress disables the progress line
	NoProgress bool

	// Output specifies the output format (text, json, or yaml)
	Output string

	// StatusCacheSize bounds memoized exclusion lookups (negative disables)
	StatusCacheSize int
}

// validOutputFormats contains the list of supported output formats
var validOutputFormats = map[string]bool{
	string(OutputFormatText): true,
	string(OutputFormatJSON): true,
	string(OutputFormatYAML): true,
}

// LoadSettings reads settings from environment variables and validates them
func LoadSettings() (Settings, error) {
	v := viper.New()

	v.SetDefault("workers", DefaultWorkers)
	v.SetDefault("rate_limit", 0)
	v.SetDefault("verbose", 0)
	v.SetDefault("dry_run", false)
	v.SetDefault("no_color", false)
	v.SetDefault("no_progress", false)
	v.SetDefault("output", string(OutputFormatText))
	v.SetDefault("status_cache_size", 0)

	v.SetEnvPrefix(strings.ToUpper(AppName))
	v.AutomaticEnv()

	for _, key := range []string{
		"workers", "rate_limit", "verbose", "dry_run",
		"no_color", "no_progress", "output", "status_cache_size",
	} {
		if err := v.BindEnv(key); err != nil {
			return Settings{}, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	s := Settings{
		Workers:         v.GetInt("workers"),
		RateLimit:       v.GetInt("rate_limit"),
		Verbose:         parseVerbose(v.GetString("verbose")),
		DryRun:          v.GetBool("dry_run"),
		NoColor:         v.GetBool("no_color"),
		NoProgress:      v.GetBool("no_progress"),
		Output:          strings.ToLower(v.GetString("output")),
		StatusCacheSize: v.GetInt("status_cache_size"),
	}

	if err := s.Validate(); err != nil {
		return Settings{}, err
	}

	return s, nil
}

// parseVerbose accepts either a number or a run of 'v's
func parseVerbose(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	if strings.Trim(s, "v") == "" {
		return len(s)
	}
	var n int
	if _, err := fmt.Sscanf(s, "%d", &n); err != nil || n < 0 {
		return 0
	}
	return n
}

// Validate checks if the settings are valid
func (s Settings) Validate() error {
	if s.Workers <= 0 {
		return fmt.Errorf("workers count must be positive")
	}
	if s.Workers > MaxWorkers {
		return fmt.Errorf("workers count cannot exceed %d", MaxWorkers)
	}

	if s.RateLimit < 0 {
		return fmt.Errorf("rate limit must be non-negative")
	}

	if !validOutputFormats[s.Output] {
		return fmt.Errorf("invalid output format: must be one of [text json yaml]")
	}

	return nil
}

// String returns a string representation of the settings
func (s Settings) String() string {
	return fmt.Sprintf(
		"Settings{Workers: %d, RateLimit: %d, Verbose: %d, DryRun: %v, "+
			"NoColor: %v, NoProgress: %v, Output: %s, StatusCacheSize: %d}",
		s.Workers, s.RateLimit, s.Verbose, s.DryRun,
		s.NoColor, s.NoProgress, s.Output, s.StatusCacheSize,
	)
}
