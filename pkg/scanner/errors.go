package scanner

import (
	"errors"
	"fmt"
)

// ErrNoRoots is returned by Scan when the configuration names no root path.
var ErrNoRoots = errors.New("no root paths defined in config file")

// NotFoundError is returned by the single-path operations for a missing path
type NotFoundError struct {
	Path string
	Err  error
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("path does not exist: %s", e.Path)
}

func (e *NotFoundError) Unwrap() error {
	return e.Err
}

// ReadDirError represents a directory whose entries could not be listed
type ReadDirError struct {
	Path string
	Err  error
}

func (e *ReadDirError) Error() string {
	return fmt.Sprintf("failed to read directory %s: %v", e.Path, e.Err)
}

func (e *ReadDirError) Unwrap() error {
	return e.Err
}
