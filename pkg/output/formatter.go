/*
Package output renders scan events, run summaries, listings and single-path
changes as colored text, JSON or YAML.

Basic usage:

	formatter := output.NewFormatter(output.Config{
		Format:     output.FormatText,
		WithColors: output.ShouldColor(os.Stdout, false),
	}, log)

	summary, err := formatter.FormatSummary(result, nil)
*/
package output

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/mdnmdn/asimeow/pkg/logger"
	"github.com/mdnmdn/asimeow/pkg/scanner"
)

// Format represents the output format type
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat validates a user supplied format name
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	case "":
		return FormatText, nil
	default:
		return "", fmt.Errorf("unsupported format: %s", s)
	}
}

// Action names the single-path operation a Change came from
type Action string

const (
	ActionExclude Action = "exclude"
	ActionInclude Action = "include"
)

// Config holds formatter configuration
type Config struct {
	Format     Format
	WithColors bool
	// Verbose forces the text summary even when nothing was found
	Verbose bool
}

// Formatter defines the interface for output formatting
type Formatter interface {
	// FormatEvent renders one exclusion event as a console line
	FormatEvent(scanner.Event) string

	// FormatSummary renders the final counters. Text output is empty
	// when nothing was found and Verbose is off.
	FormatSummary(scanner.Result, []scanner.Event) (string, error)

	// FormatListing renders the result of a list command
	FormatListing(scanner.Listing) (string, error)

	// FormatChange renders the outcome of an exclude or include command
	FormatChange(Action, scanner.Change) (string, error)

	// Format returns the configured format
	Format() Format
}

// formatter implements the Formatter interface
type formatter struct {
	config Config
	log    logger.Logger
}

// NewFormatter creates a new formatter instance
func NewFormatter(config Config, log logger.Logger) Formatter {
	if config.Format == "" {
		config.Format = FormatText
	}
	if log == nil {
		log = logger.Nop()
	}
	return &formatter{
		config: config,
		log:    log,
	}
}

// ShouldColor reports whether f is a terminal and colors were not disabled
func ShouldColor(f *os.File, noColor bool) bool {
	if noColor || os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (f *formatter) Format() Format {
	return f.config.Format
}

func (f *formatter) FormatEvent(e scanner.Event) string {
	if !f.config.WithColors {
		return e.String()
	}

	indicator, attr := "✅", color.FgGreen
	if e.Kind == scanner.EventAlreadyExcluded {
		indicator, attr = "🟡", color.FgYellow
	}
	return fmt.Sprintf("%s %s - %s", indicator, f.paint(e.Path, attr), f.paint(e.Rule, color.Bold))
}

func (f *formatter) FormatSummary(result scanner.Result, events []scanner.Event) (string, error) {
	f.log.WithFields(logger.Fields{
		"format": f.config.Format,
		"events": len(events),
	}).Debug("Formatting summary")

	switch f.config.Format {
	case FormatText:
		return f.summaryText(result), nil
	case FormatJSON:
		return f.marshalJSON(newSummary(result, events))
	case FormatYAML:
		return f.marshalYAML(newSummary(result, events))
	default:
		return "", f.unsupported()
	}
}

func (f *formatter) FormatListing(listing scanner.Listing) (string, error) {
	f.log.WithFields(logger.Fields{
		"format":  f.config.Format,
		"path":    listing.Path,
		"entries": len(listing.Entries),
	}).Debug("Formatting listing")

	switch f.config.Format {
	case FormatText:
		return f.listingText(listing), nil
	case FormatJSON:
		return f.marshalJSON(listing)
	case FormatYAML:
		return f.marshalYAML(listing)
	default:
		return "", f.unsupported()
	}
}

func (f *formatter) FormatChange(action Action, change scanner.Change) (string, error) {
	switch f.config.Format {
	case FormatText:
		return f.changeText(action, change), nil
	case FormatJSON:
		return f.marshalJSON(newChangeReport(action, change))
	case FormatYAML:
		return f.marshalYAML(newChangeReport(action, change))
	default:
		return "", f.unsupported()
	}
}

func (f *formatter) changeText(action Action, change scanner.Change) string {
	changed := change.Kind == scanner.Changed

	switch {
	case action == ActionExclude && changed:
		return fmt.Sprintf("✅ Successfully excluded: %s", f.paint(change.Path, color.FgGreen))
	case action == ActionExclude:
		return fmt.Sprintf("🟡 Already excluded: %s", f.paint(change.Path, color.FgYellow))
	case changed:
		return fmt.Sprintf("✅ Successfully included: %s", f.paint(change.Path, color.FgGreen))
	default:
		return fmt.Sprintf("  Already included: %s", change.Path)
	}
}

// paint applies attrs when colors are enabled. Colors are forced on so the
// decision stays with Config rather than the global color.NoColor.
func (f *formatter) paint(s string, attrs ...color.Attribute) string {
	if !f.config.WithColors {
		return s
	}
	c := color.New(attrs...)
	c.EnableColor()
	return c.Sprint(s)
}

func (f *formatter) unsupported() error {
	msg := fmt.Sprintf("unsupported format: %s", f.config.Format)
	f.log.Error(msg)
	return fmt.Errorf("%s", msg)
}
