// Package parsererror defines the error kinds surfaced at the codec boundary.
package parsererror

import (
	"errors"
	"fmt"
)

// ParseError represents malformed or unreadable input.
// Line is the 1-based line (MT940, XML) or row (CSV) number, 0 when unknown.
type ParseError struct {
	Format   string
	Line     int
	Fragment string
	Msg      string
	Err      error
}

func (e *ParseError) Error() string {
	msg := fmt.Sprintf("%s: parse error", e.Format)
	if e.Line > 0 {
		msg = fmt.Sprintf("%s at line %d", msg, e.Line)
	}
	if e.Msg != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Msg)
	}
	if e.Fragment != "" {
		msg = fmt.Sprintf("%s in '%s'", msg, e.Fragment)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// WriteError represents a failure of the output sink
type WriteError struct {
	Format string
	Err    error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("%s: write failed: %v", e.Format, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// UnknownFormatError is returned when no codec is registered for a format tag
type UnknownFormatError struct {
	Format string
}

func (e *UnknownFormatError) Error() string {
	return fmt.Sprintf("unknown format: %q", e.Format)
}

// ValidationError represents a file that does not look like the declared format
type ValidationError struct {
	FilePath string
	Format   string
	Reason   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %s (%s): %s", e.FilePath, e.Format, e.Reason)
}

// NewParseError is a shorthand for the common line+fragment case
func NewParseError(format string, line int, fragment, msg string) *ParseError {
	return &ParseError{
		Format:   format,
		Line:     line,
		Fragment: fragment,
		Msg:      msg,
	}
}

// IsParseError reports whether err wraps a *ParseError
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}

// IsWriteError reports whether err wraps a *WriteError
func IsWriteError(err error) bool {
	var we *WriteError
	return errors.As(err, &we)
}
