package app

import (
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/mdnmdn/asimeow/pkg/logger"
)

// exitInterrupted is the conventional status for a run killed by SIGINT
const exitInterrupted = 130

// setupSignalHandling cancels the run context on the first SIGINT or
// SIGTERM. A second signal exits immediately.
func (a *App) setupSignalHandling() {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	done := make(chan struct{})
	a.stopSignals = func() {
		signal.Stop(sigChan)
		close(done)
	}

	go a.handleSignals(sigChan, done)
}

func (a *App) handleSignals(sigChan <-chan os.Signal, done <-chan struct{}) {
	var interrupted atomic.Bool

	for {
		select {
		case <-done:
			return
		case sig := <-sigChan:
			a.log.WithFields(logger.Fields{
				"signal": sig.String(),
			}).Debug("Received system signal")

			if !interrupted.CompareAndSwap(false, true) {
				a.log.Warn("Received second interrupt, exiting")
				a.progress.Stop()
				os.Exit(exitInterrupted)
			}

			a.log.Warn("Interrupted, waiting for in-flight directories to finish")
			a.cancel()
		}
	}
}
