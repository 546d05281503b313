package keyfile

import (
	"errors"
	"fmt"
)

// Common error variables
var (
	// ErrNilLine is returned when a nil line is passed to the line filter
	ErrNilLine = errors.New("line is nil")

	// ErrEmptyPath is returned when the rewriter is constructed with an empty path
	ErrEmptyPath = errors.New("file path is empty")

	// ErrFileNotFound is returned when the deck file does not exist
	ErrFileNotFound = errors.New("file not found")

	// ErrInvalidEncoding is returned when deck content is not valid UTF-8 text
	ErrInvalidEncoding = errors.New("content is not valid utf-8 text")
)

// RewriteError represents a failure while reading or writing a deck file
type RewriteError struct {
	Path string
	Op   string
	Err  error
}

func (e *RewriteError) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("rewrite error %q: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("%s %q: %v", e.Op, e.Path, e.Err)
}

func (e *RewriteError) Unwrap() error {
	return e.Err
}

// Error wrapping helpers

// wrapNotFound wraps ErrFileNotFound with the missing path
func wrapNotFound(path string) error {
	return &RewriteError{
		Path: path,
		Op:   "stat",
		Err:  ErrFileNotFound,
	}
}

// wrapDecode wraps ErrInvalidEncoding with the offending path
func wrapDecode(path string) error {
	return &RewriteError{
		Path: path,
		Op:   "decode",
		Err:  ErrInvalidEncoding,
	}
}

// wrapRead wraps an error when reading a deck fails
func wrapRead(path string, err error) error {
	return &RewriteError{
		Path: path,
		Op:   "read",
		Err:  err,
	}
}

// wrapWrite wraps an error when writing a deck fails
func wrapWrite(path string, err error) error {
	return &RewriteError{
		Path: path,
		Op:   "write",
		Err:  err,
	}
}

// wrapArchive wraps an error when archiving the original deck fails
func wrapArchive(path string, err error) error {
	return &RewriteError{
		Path: path,
		Op:   "archive",
		Err:  err,
	}
}
