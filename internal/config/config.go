package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

var (
	// ErrNoConfigFile is returned by Find when no candidate exists
	ErrNoConfigFile = errors.New("no configuration file found. Run 'asimeow init' to create one in ~/.config/asimeow/ or 'asimeow init --local' for the current directory")

	// ErrNoRoots is returned by Validate for a config without roots
	ErrNoRoots = errors.New("no root paths defined in config file")

	// ErrConfigExists is returned by WriteDefault instead of overwriting
	ErrConfigExists = errors.New("config file already exists")
)

// DefaultPath is where init writes the user config: ~/.config/asimeow/config.yaml
func DefaultPath() string {
	return filepath.Join(xdg.Home, ".config", AppName, FileName)
}

// Candidates lists the paths Find checks, in order, when no explicit path is given
func Candidates() []string {
	candidates := []string{FileName}

	xdgPath := filepath.Join(xdg.ConfigHome, AppName, FileName)
	candidates = append(candidates, xdgPath)

	if home := DefaultPath(); home != xdgPath {
		candidates = append(candidates, home)
	}
	return candidates
}

// Find locates the config file. An explicit path must exist; otherwise the
// first existing entry of Candidates wins.
func Find(fs afero.Fs, explicit string) (string, error) {
	if explicit != "" {
		path := ExpandHome(explicit)
		exists, err := afero.Exists(fs, path)
		if err != nil {
			return "", fmt.Errorf("failed to check config file %s: %w", path, err)
		}
		if !exists {
			return "", fmt.Errorf("specified config file not found: %s", path)
		}
		return path, nil
	}

	for _, candidate := range Candidates() {
		if exists, _ := afero.Exists(fs, candidate); exists {
			return candidate, nil
		}
	}

	return "", ErrNoConfigFile
}

// Load reads and validates the YAML config at path
func Load(fs afero.Fs, path string) (Config, error) {
	v := viper.New()
	v.SetFs(fs)
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to decode config file %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c Config) Validate() error {
	if len(c.Roots) == 0 {
		return ErrNoRoots
	}
	for i, root := range c.Roots {
		if strings.TrimSpace(root.Path) == "" {
			return fmt.Errorf("root %d has an empty path", i+1)
		}
	}

	for i, rule := range c.Rules {
		if strings.TrimSpace(rule.Name) == "" {
			return fmt.Errorf("rule %d has an empty name", i+1)
		}
		if strings.TrimSpace(rule.FileMatch) == "" {
			return fmt.Errorf("rule %q has an empty file_match", rule.Name)
		}
	}

	return nil
}

// RootPaths returns the root paths with "~/" expanded
func (c Config) RootPaths() []string {
	paths := make([]string, 0, len(c.Roots))
	for _, root := range c.Roots {
		paths = append(paths, ExpandHome(root.Path))
	}
	return paths
}

// String returns a string representation of the configuration
func (c Config) String() string {
	return fmt.Sprintf("Config{Roots: %v, Ignore: %v, Rules: %d}", c.RootPaths(), c.Ignore, len(c.Rules))
}

// ExpandHome resolves a leading "~" or "~/" against the home directory
func ExpandHome(path string) string {
	switch {
	case path == "~":
		return xdg.Home
	case strings.HasPrefix(path, "~/"):
		return filepath.Join(xdg.Home, path[2:])
	default:
		return path
	}
}

// Default returns the rule set written by init
func Default() Config {
	return Config{
		Roots:  []Root{{Path: "~/"}},
		Ignore: []string{".git"},
		Rules: []Rule{
			{Name: "net", FileMatch: "*.csproj", Exclusions: []string{"obj", "bin", "packages"}},
			{Name: "rust", FileMatch: "cargo.toml", Exclusions: []string{"target"}},
			{Name: "go", FileMatch: "go.mod", Exclusions: []string{"vendor"}},
			{Name: "node", FileMatch: "package.json", Exclusions: []string{"node_modules", "dist"}},
			{Name: "python", FileMatch: "requirements.txt", Exclusions: []string{"__pycache__", ".venv"}},
			{Name: "java", FileMatch: "pom.xml", Exclusions: []string{"target"}},
			{Name: "php", FileMatch: "composer.json", Exclusions: []string{"vendor"}},
			{Name: "vagrant", FileMatch: "Vagrantfile", Exclusions: []string{".vagrant"}},
			{Name: "bower", FileMatch: "bower.json", Exclusions: []string{"bower_components"}},
			{Name: "haskell", FileMatch: "stack.yaml", Exclusions: []string{".stack-work"}},
			{Name: "carthage", FileMatch: "Cartfile", Exclusions: []string{"Carthage"}},
			{Name: "cocoapods", FileMatch: "Podfile", Exclusions: []string{"Pods"}},
			{Name: "swift", FileMatch: "Package.swift", Exclusions: []string{".build"}},
			{Name: "elixir", FileMatch: "mix.exs", Exclusions: []string{"_build"}},
			{Name: "project", FileMatch: "*.prj", Exclusions: []string{"bin", "debug"}},
		},
	}
}

// WriteDefault serializes Default to path, creating parent directories.
// An existing file is never overwritten.
func WriteDefault(fs afero.Fs, path string) error {
	exists, err := afero.Exists(fs, path)
	if err != nil {
		return fmt.Errorf("failed to check config file %s: %w", path, err)
	}
	if exists {
		return fmt.Errorf("%w at: %s", ErrConfigExists, path)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := fs.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	data, err := Marshal(Default())
	if err != nil {
		return err
	}

	if err := afero.WriteFile(fs, path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file at %s: %w", path, err)
	}
	return nil
}

// Marshal encodes cfg as YAML with two-space indentation
func Marshal(cfg Config) ([]byte, error) {
	var b strings.Builder
	enc := yaml.NewEncoder(&b)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return nil, fmt.Errorf("failed to serialize config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to serialize config: %w", err)
	}
	return []byte(b.String()), nil
}
