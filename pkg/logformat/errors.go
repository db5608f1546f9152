package logformat

import (
	"errors"
	"fmt"
)

var (
	// ErrFormatMismatch is returned when the caller asks for one dialect but the
	// header clearly belongs to another.
	ErrFormatMismatch = errors.New("log format mismatch")
	// ErrMalformedHeader is returned when a required header row is missing or too short.
	ErrMalformedHeader = errors.New("malformed log header")
	// ErrIO wraps any failure of the underlying row source.
	ErrIO = errors.New("log read failed")
)

// MismatchError carries both sides of a FormatMismatch.
type MismatchError struct {
	Requested Dialect
	Detected  Dialect
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("%v: requested %s but header looks like %s", ErrFormatMismatch, e.Requested, e.Detected)
}

func (e *MismatchError) Unwrap() error { return ErrFormatMismatch }

func malformed(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrMalformedHeader, fmt.Sprintf(format, args...))
}
