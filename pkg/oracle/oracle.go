/*
Package oracle answers and changes the backup-exclusion state of a path.

The production Oracle shells out to macOS tmutil. Every failure at that
boundary (spawn error, non-zero exit, unexpected output) is reported as a
negative boolean and never as an error: a traversal must not stop because the
backup tool misbehaved on one path.

	o := oracle.NewTMUtil(nil, log)
	if o.Exclude(ctx, "/Users/me/src/app/node_modules") {
	    // state changed
	}
*/
package oracle

import (
	"bytes"
	"context"
	"os/exec"
	"strings"

	"github.com/mdnmdn/asimeow/pkg/logger"
)

// ExcludedMarker is the token tmutil prints for an excluded path.
const ExcludedMarker = "[Excluded]"

// Oracle queries and mutates backup-exclusion state.
//
// Exclude and Include return true only when they changed state. A false
// result means "nothing happened": the path was already in the requested
// state or the underlying tool failed.
type Oracle interface {
	IsExcluded(ctx context.Context, path string) bool
	Exclude(ctx context.Context, path string) bool
	Include(ctx context.Context, path string) bool
}

// CommandRunner executes an external command and returns its stdout.
// A non-nil error covers both spawn failures and non-zero exits.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) (string, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

// Run implements CommandRunner.
func (ExecRunner) Run(ctx context.Context, name string, args ...string) (string, error) {
	var stdout bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	err := cmd.Run()
	return stdout.String(), err
}

// TMUtil is the Oracle backed by the tmutil command line tool.
type TMUtil struct {
	// Binary defaults to "tmutil".
	Binary string

	runner CommandRunner
	log    logger.Logger
}

// NewTMUtil creates a tmutil Oracle. A nil runner uses ExecRunner.
func NewTMUtil(runner CommandRunner, log logger.Logger) *TMUtil {
	if runner == nil {
		runner = ExecRunner{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &TMUtil{
		Binary: "tmutil",
		runner: runner,
		log:    log,
	}
}

// IsExcluded reports whether tmutil lists path as excluded.
func (t *TMUtil) IsExcluded(ctx context.Context, path string) bool {
	out, err := t.runner.Run(ctx, t.Binary, "isexcluded", path)
	if err != nil {
		t.log.WithFields(logger.Fields{
			"path":  path,
			"error": err,
		}).Debug("tmutil isexcluded failed")
		return false
	}
	return strings.Contains(out, ExcludedMarker)
}

// Exclude adds path to the exclusion list unless it is already excluded.
func (t *TMUtil) Exclude(ctx context.Context, path string) bool {
	if t.IsExcluded(ctx, path) {
		return false
	}
	return t.mutate(ctx, "addexclusion", path)
}

// Include removes path from the exclusion list unless it is not excluded.
func (t *TMUtil) Include(ctx context.Context, path string) bool {
	if !t.IsExcluded(ctx, path) {
		return false
	}
	return t.mutate(ctx, "removeexclusion", path)
}

func (t *TMUtil) mutate(ctx context.Context, subcommand, path string) bool {
	if _, err := t.runner.Run(ctx, t.Binary, subcommand, path); err != nil {
		t.log.WithFields(logger.Fields{
			"path":       path,
			"subcommand": subcommand,
			"error":      err,
		}).Debug("tmutil mutation failed")
		return false
	}

	t.log.WithFields(logger.Fields{
		"path":       path,
		"subcommand": subcommand,
	}).Trace("tmutil mutation succeeded")
	return true
}
