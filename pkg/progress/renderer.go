package progress

import (
	"fmt"
	"strings"
	"time"
)

type renderer interface {
	render(Status, string, time.Duration) string
}

type spinnerRenderer struct {
	noColor bool
	frame   int
}

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

func (r *spinnerRenderer) render(status Status, message string, elapsed time.Duration) string {
	r.frame = (r.frame + 1) % len(spinnerFrames)
	spinner := spinnerFrames[r.frame]

	if !r.noColor {
		spinner = fmt.Sprintf("\033[36m%s\033[0m", spinner) // Cyan color
	}

	return fmt.Sprintf("%s %s %s", spinner, message, counters(status, elapsed))
}

type simpleRenderer struct {
	noColor bool
}

func (r *simpleRenderer) render(status Status, message string, elapsed time.Duration) string {
	if !r.noColor && strings.Contains(message, "Complete") {
		message = fmt.Sprintf("\033[32m%s\033[0m", message) // Green for completion
	}
	return fmt.Sprintf("%s %s", message, counters(status, elapsed))
}

func counters(status Status, elapsed time.Duration) string {
	return fmt.Sprintf("%d dirs | %d found | %d new | %s",
		status.ProcessedPaths,
		status.ExclusionFound,
		status.NewlyExcluded,
		formatDuration(elapsed))
}

// Helper functions

func formatDuration(d time.Duration) string {
	if d <= 0 {
		return "0s"
	}
	d = d.Round(time.Second)
	if d < time.Minute {
		return fmt.Sprintf("%.0fs", d.Seconds())
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm%ds",
			int(d.Minutes()),
			int(d.Seconds())%60)
	}
	return fmt.Sprintf("%dh%dm%ds",
		int(d.Hours()),
		int(d.Minutes())%60,
		int(d.Seconds())%60)
}
