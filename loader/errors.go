package loader

import (
	"errors"
	"fmt"
)

// ============================================================================
// LOADER ERRORS
// ============================================================================

// ErrNoSources means Load was called with an empty path list.
var ErrNoSources = errors.New("no input sources given")

// ErrAllSourcesRejected means every source failed under the skip-and-continue
// policy, leaving nothing to analyze.
var ErrAllSourcesRejected = errors.New("every input source was rejected")

// SourceReadError wraps a failure to read or resolve one source file.
type SourceReadError struct {
	Source string
	Err    error
}

func (e *SourceReadError) Error() string {
	return fmt.Sprintf("source %s: %v", e.Source, e.Err)
}

func (e *SourceReadError) Unwrap() error { return e.Err }

// DateFilterError reports a malformed date-range bound. Raised before any
// source is opened: a bad filter fails the whole run, never silently narrows
// or widens it.
type DateFilterError struct {
	Bound string // "start" or "end"
	Value string
}

func (e *DateFilterError) Error() string {
	return fmt.Sprintf("invalid %s date %q: want YYYY-MM-DD", e.Bound, e.Value)
}
