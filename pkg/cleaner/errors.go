package cleaner

import (
	"errors"
	"fmt"
)

// Common error variables
var (
	// ErrEmptyRoot is returned when no root directory is provided
	ErrEmptyRoot = errors.New("no root directory provided")

	// ErrRootNotFound is returned when the root directory does not exist
	ErrRootNotFound = errors.New("root directory does not exist")

	// ErrNotDirectory is returned when the root path is not a directory
	ErrNotDirectory = errors.New("path is not a directory")
)

// WalkError represents a failure while preparing or running a walk pass
type WalkError struct {
	Path string
	Op   string
	Err  error
}

func (e *WalkError) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("walk error %q: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("%s %q: %v", e.Op, e.Path, e.Err)
}

func (e *WalkError) Unwrap() error {
	return e.Err
}

// wrapRootNotFound wraps ErrRootNotFound with the missing root path
func wrapRootNotFound(path string) error {
	return &WalkError{
		Path: path,
		Op:   "validate",
		Err:  ErrRootNotFound,
	}
}

// wrapNotDirectory wraps ErrNotDirectory with the offending path
func wrapNotDirectory(path string) error {
	return &WalkError{
		Path: path,
		Op:   "validate",
		Err:  ErrNotDirectory,
	}
}
