// Package lock keeps two asimeow runs from mutating Time Machine exclusions
// at the same time.
package lock

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/gofrs/flock"
)

// ErrLocked is returned by TryLock when another process holds the lock
var ErrLocked = errors.New("another asimeow run is in progress")

const fileName = "asimeow.lock"

// RunLock wraps a flock file lock held for the duration of a run.
type RunLock struct {
	flock *flock.Flock
	path  string
}

// DefaultPath returns the lock file location under the XDG runtime directory,
// creating the parent directory if needed. It falls back to the temp
// directory when the runtime directory is not usable.
func DefaultPath() string {
	path, err := xdg.RuntimeFile(filepath.Join("asimeow", fileName))
	if err != nil {
		return filepath.Join(os.TempDir(), fileName)
	}
	return path
}

// New creates a lock backed by the file at path. Nothing is acquired yet.
func New(path string) *RunLock {
	return &RunLock{
		flock: flock.New(path),
		path:  path,
	}
}

// Path returns the lock file path
func (l *RunLock) Path() string {
	return l.path
}

// TryLock acquires the lock without blocking. ErrLocked means another
// process holds it.
func (l *RunLock) TryLock() error {
	acquired, err := l.flock.TryLock()
	if err != nil {
		return fmt.Errorf("failed to try lock on %s: %w", l.path, err)
	}
	if !acquired {
		return ErrLocked
	}
	return nil
}

// Unlock releases the lock. Releasing a lock that is not held is a no-op.
func (l *RunLock) Unlock() error {
	if err := l.flock.Unlock(); err != nil {
		return fmt.Errorf("failed to release lock on %s: %w", l.path, err)
	}
	return nil
}

// Locked reports whether this handle currently holds the lock
func (l *RunLock) Locked() bool {
	return l.flock.Locked()
}
