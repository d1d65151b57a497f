package progress

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"golang.org/x/term"

	"github.com/mdnmdn/asimeow/pkg/logger"
)

type progress struct {
	config Config
	log    logger.Logger
	writer io.Writer

	// State
	source    Source
	startTime time.Time
	message   string
	isActive  bool

	// Rendering
	renderer renderer

	// Synchronization
	mu       sync.Mutex
	stopChan chan struct{}
	doneChan chan struct{}
}

// New creates a new progress visualization instance
func New(config Config, log logger.Logger) Progress {
	if config.RefreshRate == 0 {
		config.RefreshRate = 100 * time.Millisecond
	}
	if config.Writer == nil {
		config.Writer = os.Stderr
	}
	if log == nil {
		log = logger.Nop()
	}

	p := &progress{
		config: config,
		log:    log,
		writer: config.Writer,
	}
	p.renderer = p.createRenderer()

	p.log.WithFields(logger.Fields{
		"style":   p.config.Style,
		"noColor": p.config.NoColor,
		"refresh": p.config.RefreshRate,
	}).Debug("Created new progress instance")

	return p
}

// IsTerminal reports whether w is an interactive terminal
func IsTerminal(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		return term.IsTerminal(int(f.Fd()))
	}
	return false
}

func (p *progress) Start(message string, source Source) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.isActive {
		return
	}

	p.log.WithFields(logger.Fields{
		"message": message,
	}).Debug("Starting progress")

	p.message = message
	p.source = source
	p.startTime = time.Now()
	p.isActive = true
	p.stopChan = make(chan struct{})
	p.doneChan = make(chan struct{})

	go p.renderLoop(p.stopChan, p.doneChan)
}

func (p *progress) Suspend(fn func()) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.isActive {
		p.clearLine()
	}
	fn()
	if p.isActive {
		p.render()
	}
}

func (p *progress) Complete(message string) {
	p.stopLoop()

	p.mu.Lock()
	defer p.mu.Unlock()

	p.log.WithFields(logger.Fields{
		"message": message,
	}).Debug("Completing progress")

	p.message = message
	if p.config.HideAfterComplete {
		p.clearLine()
		return
	}
	p.render()
	fmt.Fprintln(p.writer)
}

func (p *progress) Stop() {
	p.stopLoop()

	p.mu.Lock()
	defer p.mu.Unlock()

	p.log.Debug("Stopping progress")
	p.clearLine()
}

func (p *progress) IsSupportedTerminal() bool {
	return IsTerminal(p.writer)
}

// Internal methods

// stopLoop ends the render loop without holding mu while it drains
func (p *progress) stopLoop() {
	p.mu.Lock()
	if !p.isActive {
		p.mu.Unlock()
		return
	}
	p.isActive = false
	stop, done := p.stopChan, p.doneChan
	p.mu.Unlock()

	close(stop)
	<-done
}

func (p *progress) renderLoop(stop <-chan struct{}, done chan<- struct{}) {
	ticker := time.NewTicker(p.config.RefreshRate)
	defer ticker.Stop()
	defer close(done)

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			p.mu.Lock()
			if p.isActive {
				p.render()
			}
			p.mu.Unlock()
		}
	}
}

// render must be called with mu held
func (p *progress) render() {
	var status Status
	if p.source != nil {
		status = p.source()
	}
	output := p.renderer.render(status, p.message, time.Since(p.startTime))
	p.clearLine()
	fmt.Fprint(p.writer, output)
}

func (p *progress) clearLine() {
	if p.IsSupportedTerminal() {
		fmt.Fprint(p.writer, "\r\033[K") // Clear line
	} else {
		fmt.Fprint(p.writer, "\r") // Just return to start
	}
}

func (p *progress) createRenderer() renderer {
	switch p.config.Style {
	case StyleSimple:
		return &simpleRenderer{
			noColor: p.config.NoColor,
		}
	default:
		return &spinnerRenderer{
			noColor: p.config.NoColor,
		}
	}
}

type nop struct{}

// Nop returns a Progress that draws nothing
func Nop() Progress {
	return nop{}
}

func (nop) Start(string, Source)      {}
func (nop) Suspend(fn func())         { fn() }
func (nop) Complete(string)           {}
func (nop) Stop()                     {}
func (nop) IsSupportedTerminal() bool { return false }
