package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
)

var (
	// These variables are set during build time
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// BuildInfo contains build and runtime information
type BuildInfo struct {
	Version   string `json:"version"`
	SemVer    string `json:"semver"`
	BuildDate string `json:"build_date"`
	GitCommit string `json:"git_commit"`

	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
	NumCPU    int    `json:"num_cpu"`

	BuildDeps []Module `json:"build_deps"`
}

// Module represents a Go module dependency
type Module struct {
	Path    string `json:"path"`
	Version string `json:"version"`
}

// GetBuildInfo returns build information
func GetBuildInfo() BuildInfo {
	info := BuildInfo{
		Version:   Version,
		SemVer:    strings.Split(strings.TrimPrefix(Version, "v"), "-")[0],
		BuildDate: BuildDate,
		GitCommit: GitCommit,
		GoVersion: runtime.Version(),
		Platform:  fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
		NumCPU:    runtime.NumCPU(),
	}

	if bi, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range bi.Settings {
			if setting.Key == "vcs.revision" && info.GitCommit == "unknown" {
				info.GitCommit = setting.Value
			}
		}
		for _, dep := range bi.Deps {
			info.BuildDeps = append(info.BuildDeps, Module{Path: dep.Path, Version: dep.Version})
		}
	}

	return info
}

// Short returns the one-line version string
func Short() string {
	return fmt.Sprintf("Asimeow version %s", Version)
}

// FullVersion returns a formatted string with complete version information
func FullVersion() string {
	info := GetBuildInfo()

	var b strings.Builder
	b.WriteString(Short() + "\n")
	b.WriteString("========================================\n\n")

	fmt.Fprintf(&b, "  Version:      %s\n", info.Version)
	fmt.Fprintf(&b, "  Semantic Ver: %s\n", info.SemVer)
	fmt.Fprintf(&b, "  Build Date:   %s\n", info.BuildDate)
	fmt.Fprintf(&b, "  Commit:       %s\n", info.GitCommit)
	fmt.Fprintf(&b, "  Go Version:   %s\n", info.GoVersion)
	fmt.Fprintf(&b, "  Platform:     %s\n", info.Platform)
	fmt.Fprintf(&b, "  CPUs:         %d\n", info.NumCPU)

	if len(info.BuildDeps) > 0 {
		b.WriteString("\nDependencies:\n")
		for _, dep := range info.BuildDeps {
			fmt.Fprintf(&b, "  - %s@%s\n", dep.Path, dep.Version)
		}
	}

	return b.String()
}
