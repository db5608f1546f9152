package ecux

import (
	"fmt"

	"github.com/pterm/pterm"
	"gonum.org/v1/gonum/interp"

	"github.com/tosih/ecux-analyzer/pkg/models"
	"github.com/tosih/ecux-analyzer/pkg/vector"
)

// fatsMargin is how far beyond the requested RPM points a run must reach.
const fatsMargin = 100

// run is one pull with its RPM to TIME interpolation. spline is nil when the
// run could not be fitted; err then says why.
type run struct {
	rng    models.Range
	rpm    vector.Vector
	spline *interp.FritschButland
	err    error
}

// fitRun builds the monotone cubic TIME(RPM) interpolation of one range.
func fitRun(rng models.Range, rpm, tm vector.Vector) run {
	out := run{rng: rng, rpm: rpm}
	if len(rpm) == 0 || len(rpm) != len(tm) {
		out.err = fmt.Errorf("%w: %d rpm samples, %d time samples", ErrInterpolationFailed, len(rpm), len(tm))
		pterm.DefaultLogger.Warn("no spline for run",
			pterm.DefaultLogger.Args("start", rng.Start, "end", rng.End, "error", out.err))
		return out
	}
	if len(rpm) < 2 {
		out.err = fmt.Errorf("%w: %d samples", ErrRunTooShort, len(rpm))
		return out
	}

	// keep the strictly increasing envelope; the spline needs increasing x
	xs := []float64{rpm[0]}
	ys := []float64{tm[0]}
	for i := 1; i < len(rpm); i++ {
		if rpm[i] > xs[len(xs)-1] {
			xs = append(xs, rpm[i])
			ys = append(ys, tm[i])
		}
	}
	if len(xs) < 2 {
		out.err = fmt.Errorf("%w: %d increasing samples", ErrRunNotMonotonic, len(xs))
		return out
	}

	var fb interp.FritschButland
	if err := fb.Fit(xs, ys); err != nil {
		out.err = fmt.Errorf("%w: %v", ErrInterpolationFailed, err)
		pterm.DefaultLogger.Warn("no spline for run",
			pterm.DefaultLogger.Args("start", rng.Start, "end", rng.End, "error", err))
		return out
	}
	out.spline = &fb
	return out
}

// elapsed returns the interpolated time from rpmStart to rpmEnd.
func (r *run) elapsed(rpmStart, rpmEnd float64) (float64, error) {
	if r.spline == nil {
		if r.err != nil {
			return 0, r.err
		}
		return 0, ErrInterpolationFailed
	}
	if r.rpm[0]-fatsMargin > rpmStart || r.rpm[len(r.rpm)-1]+fatsMargin < rpmEnd {
		return 0, fmt.Errorf("%w: %.0f-%.0f does not cover %.0f-%.0f",
			ErrRunNotLongEnough, r.rpm[0], r.rpm[len(r.rpm)-1], rpmStart, rpmEnd)
	}
	et := r.spline.Predict(rpmEnd) - r.spline.Predict(rpmStart)
	if et <= 0 {
		return 0, fmt.Errorf("%w: elapsed %.3fs", ErrCrossedStreams, et)
	}
	return et, nil
}
