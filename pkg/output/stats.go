package output

import (
	"fmt"
	"strings"
	"time"

	"github.com/mdnmdn/asimeow/pkg/scanner"
)

// summary is the structured form of a scan result
type summary struct {
	ProcessedPaths int64          `json:"processedPaths" yaml:"processed_paths"`
	ExclusionFound int64          `json:"exclusionsFound" yaml:"exclusions_found"`
	NewlyExcluded  int64          `json:"newlyExcluded" yaml:"newly_excluded"`
	Duration       string         `json:"duration" yaml:"duration"`
	StartTime      time.Time      `json:"startTime" yaml:"start_time"`
	EndTime        time.Time      `json:"endTime" yaml:"end_time"`
	Exclusions     []eventSummary `json:"exclusions,omitempty" yaml:"exclusions,omitempty"`
}

type eventSummary struct {
	Path   string `json:"path" yaml:"path"`
	Rule   string `json:"rule" yaml:"rule"`
	Status string `json:"status" yaml:"status"`
}

type changeReport struct {
	Action  Action `json:"action" yaml:"action"`
	Path    string `json:"path" yaml:"path"`
	IsDir   bool   `json:"isDir" yaml:"is_dir"`
	Changed bool   `json:"changed" yaml:"changed"`
}

func newSummary(result scanner.Result, events []scanner.Event) *summary {
	s := &summary{
		ProcessedPaths: result.ProcessedPaths,
		ExclusionFound: result.ExclusionFound,
		NewlyExcluded:  result.NewlyExcluded,
		Duration:       result.Duration.Round(time.Millisecond).String(),
		StartTime:      result.StartTime,
		EndTime:        result.EndTime,
	}
	for _, e := range events {
		s.Exclusions = append(s.Exclusions, eventSummary{
			Path:   e.Path,
			Rule:   e.Rule,
			Status: e.Kind.String(),
		})
	}
	return s
}

func newChangeReport(action Action, change scanner.Change) *changeReport {
	return &changeReport{
		Action:  action,
		Path:    change.Path,
		IsDir:   change.IsDir,
		Changed: change.Kind == scanner.Changed,
	}
}

func (f *formatter) summaryText(result scanner.Result) string {
	if !f.config.Verbose && result.ExclusionFound == 0 {
		return ""
	}

	var builder strings.Builder
	builder.WriteString("\n")
	builder.WriteString(fmt.Sprintf("Total paths processed: %d\n", result.ProcessedPaths))
	builder.WriteString(fmt.Sprintf("Total exclusions found: %d\n", result.ExclusionFound))
	builder.WriteString(fmt.Sprintf("Newly excluded from Time Machine: %d\n", result.NewlyExcluded))

	if f.config.Verbose {
		builder.WriteString(fmt.Sprintf("Duration: %s\n", result.Duration.Round(time.Millisecond)))
	}

	return builder.String()
}
