package progress

import (
	"io"
	"time"
)

// Style represents the type of progress visualization
type Style string

const (
	// StyleSpinner shows a spinning indicator with the counters
	StyleSpinner Style = "spinner"

	// StyleSimple shows the counters only
	StyleSimple Style = "simple"
)

// Config holds the configuration for progress visualization
type Config struct {
	// Style defines how progress should be displayed
	Style Style

	// NoColor disables colored output
	NoColor bool

	// RefreshRate defines how often the display updates
	RefreshRate time.Duration

	// HideAfterComplete removes the line after completion
	HideAfterComplete bool

	// Writer receives the progress line (defaults to os.Stderr)
	Writer io.Writer
}

// Status is a snapshot of the counters shown on the progress line
type Status struct {
	ProcessedPaths int64
	ExclusionFound int64
	NewlyExcluded  int64
}

// Source is polled on every refresh for the current Status
type Source func() Status

// Progress defines the interface for progress visualization
type Progress interface {
	// Start begins progress visualization, polling source on every refresh
	Start(message string, source Source)

	// Suspend clears the progress line, runs fn, then redraws.
	// Use it to print other output to the same terminal.
	Suspend(fn func())

	// Complete renders a final line with message and stops refreshing
	Complete(message string)

	// Stop stops progress visualization and clears the line
	Stop()

	// IsSupportedTerminal checks if the writer is an interactive terminal
	IsSupportedTerminal() bool
}
