package signals

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingSignal means an input a formula needs is not in the log.
	ErrMissingSignal = errors.New("missing signal")
	// ErrCycle means a formula reached its own id while resolving its inputs.
	ErrCycle = errors.New("signal dependency cycle")
	// ErrUnknownSignal means the id is neither a formula nor a raw column.
	ErrUnknownSignal = errors.New("unknown signal")
)

// MissingSignalError names the derived id that failed and the input it lacked.
type MissingSignalError struct {
	ID    string
	Input string
	Err   error // why Input could not be resolved, if it is itself derived
}

func (e *MissingSignalError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %q needs %q: %v", ErrMissingSignal, e.ID, e.Input, e.Err)
	}
	return fmt.Sprintf("%s: %q needs %q", ErrMissingSignal, e.ID, e.Input)
}

func (e *MissingSignalError) Unwrap() error { return ErrMissingSignal }
