package output

import (
	"fmt"
	"io"
	"sync"

	"github.com/mdnmdn/asimeow/pkg/scanner"
)

// Printer writes scan events as they arrive. Text output streams one line per
// event; structured formats collect events for the summary document instead.
type Printer struct {
	mu        sync.Mutex
	w         io.Writer
	formatter Formatter
	events    []scanner.Event
}

// NewPrinter creates a Printer writing to w
func NewPrinter(w io.Writer, formatter Formatter) *Printer {
	return &Printer{
		w:         w,
		formatter: formatter,
	}
}

// Handle is a scanner.EventHandler
func (p *Printer) Handle(e scanner.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.formatter.Format() != FormatText {
		p.events = append(p.events, e)
		return
	}
	fmt.Fprintln(p.w, p.formatter.FormatEvent(e))
}

// Events returns the collected events
func (p *Printer) Events() []scanner.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]scanner.Event(nil), p.events...)
}

// Summary writes the final summary for result
func (p *Printer) Summary(result scanner.Result) error {
	out, err := p.formatter.FormatSummary(result, p.Events())
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	_, err = io.WriteString(p.w, out)
	return err
}
