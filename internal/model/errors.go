package model

import (
	"errors"
	"fmt"
)

// ErrNoSelector reports an absent or empty file selector. It is surfaced
// before any I/O is attempted.
var ErrNoSelector = errors.New("selector is required")

// NoFilesError reports a selector that resolved to zero files. It is
// surfaced before any parsing starts.
type NoFilesError struct {
	Selector string
}

func (e *NoFilesError) Error() string {
	return fmt.Sprintf("no log files found matching: %s", e.Selector)
}

// ReadError reports an I/O failure while streaming a resolved file. The
// whole operation aborts and no partial results are returned.
type ReadError struct {
	File string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("error reading log file %s: %v", e.File, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }
