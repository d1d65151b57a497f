package output

import (
	"strings"

	"github.com/fatih/color"

	"github.com/mdnmdn/asimeow/pkg/logger"
	"github.com/mdnmdn/asimeow/pkg/scanner"
)

const listingRule = "------------------------------------"

// listingText renders a listing with one status line per entry and a legend
func (f *formatter) listingText(listing scanner.Listing) string {
	var builder strings.Builder

	if listing.WholeDir {
		builder.WriteString("Listing contents of: " + listing.Path + "\n")
	} else {
		kind := "file"
		if listing.IsDir {
			kind = "directory"
		}
		builder.WriteString("Status of " + kind + ": " + listing.Path + "\n")
	}
	builder.WriteString(listingRule + "\n")

	for _, entry := range listing.Entries {
		f.log.WithFields(logger.Fields{
			"entry":    entry.Name,
			"excluded": entry.Excluded,
		}).Trace("Formatting listing entry")

		f.formatEntry(&builder, entry)
	}

	if listing.WholeDir && len(listing.Entries) == 0 {
		builder.WriteString("  (empty directory)\n")
	}

	builder.WriteString("\nLegend:\n")
	builder.WriteString("🟡 - Excluded from Time Machine\n")
	builder.WriteString("  - Included in Time Machine\n")
	if listing.IsDir {
		builder.WriteString("/ - Directory\n")
	}

	return builder.String()
}

func (f *formatter) formatEntry(builder *strings.Builder, entry scanner.ListEntry) {
	indicator := "  "
	if entry.Excluded {
		indicator = "🟡"
	}

	name := entry.Name
	switch {
	case entry.Excluded:
		name = f.paint(name, color.FgYellow)
	case entry.IsDir:
		name = f.paint(name, color.FgBlue, color.Bold)
	}

	builder.WriteString(indicator + " " + name)
	if entry.IsDir {
		builder.WriteString("/")
	}
	builder.WriteString("\n")
}
