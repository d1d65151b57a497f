// Package config loads the asimeow configuration file and runtime settings.
//
// # Configuration File
//
// The file lists the roots to walk, basename globs to ignore, and the rules
// that recognize projects:
//
//	roots:
//	  - path: ~/
//	ignore:
//	  - .git
//	rules:
//	  - name: node
//	    file_match: package.json
//	    exclusions:
//	      - node_modules
//	      - dist
//
// Find looks for it in this order: the path given with -c, ./config.yaml,
// $XDG_CONFIG_HOME/asimeow/config.yaml, ~/.config/asimeow/config.yaml.
//
// Rule file matches are compared case-insensitively. Ignore patterns are
// compared case-sensitively against a directory's own name. An exclusion of
// "." or ".." excludes the matching directory (or its parent) and stops the
// walk below it.
//
// # Environment Variables
//
//	ASIMEOW_WORKERS            Number of concurrent workers (default: 4)
//	ASIMEOW_RATE_LIMIT         Directories visited per second (0 for unlimited)
//	ASIMEOW_VERBOSE            Verbosity level (number or run of 'v's)
//	ASIMEOW_DRY_RUN            Report without excluding (true/false)
//	ASIMEOW_NO_COLOR           Disable colored output (true/false)
//	ASIMEOW_NO_PROGRESS        Disable the progress line (true/false)
//	ASIMEOW_OUTPUT             Output format: text|json|yaml
//	ASIMEOW_STATUS_CACHE_SIZE  Memoized exclusion lookups (negative disables)
//
// Command line flags take precedence over the environment.
package config
