package config

// Root is a directory the scan starts from. A leading "~/" is expanded.
type Root struct {
	Path string `mapstructure:"path" yaml:"path"`
}

// Rule maps a project marker file to the directories to exclude next to it
type Rule struct {
	Name       string   `mapstructure:"name" yaml:"name"`
	FileMatch  string   `mapstructure:"file_match" yaml:"file_match"`
	Exclusions []string `mapstructure:"exclusions" yaml:"exclusions"`
}

// Config is the content of a config.yaml file
type Config struct {
	Roots  []Root   `mapstructure:"roots" yaml:"roots"`
	Ignore []string `mapstructure:"ignore" yaml:"ignore"`
	Rules  []Rule   `mapstructure:"rules" yaml:"rules"`
}

// OutputFormat represents the supported output formats
type OutputFormat string

const (
	// OutputFormatText prints one line per exclusion and a short summary
	OutputFormatText OutputFormat = "text"

	// OutputFormatJSON represents the JSON output format
	OutputFormatJSON OutputFormat = "json"

	// OutputFormatYAML represents the YAML output format
	OutputFormatYAML OutputFormat = "yaml"
)

// Constants for configuration limits and defaults
const (
	// AppName names the config directory and the environment prefix
	AppName = "asimeow"

	// FileName is the config file looked up in each candidate directory
	FileName = "config.yaml"

	// DefaultWorkers is the default number of directory visitors
	DefaultWorkers = 4

	// MaxWorkers caps the worker count
	MaxWorkers = 256
)
