package ecux

import "errors"

// Run faults. They are local to one range; CalcFATSAll reports 0 for a run
// that fails with any of them.
var (
	ErrNoRun               = errors.New("no such run")
	ErrRunTooShort         = errors.New("run too short")
	ErrRunNotMonotonic     = errors.New("run RPM is not increasing")
	ErrInterpolationFailed = errors.New("interpolation failed")
	ErrRunNotLongEnough    = errors.New("run not long enough")
	ErrCrossedStreams      = errors.New("don't cross the streams")
)
