package ecux

import (
	"errors"
	"math/rand"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tosih/ecux-analyzer/pkg/logformat"
	"github.com/tosih/ecux-analyzer/pkg/models"
)

// ecuxLog builds an ECUx log (TIME in ms) from equally long columns.
func ecuxLog(names []string, cols ...[]float64) logformat.RowReader {
	rows := [][]string{names}
	for r := range cols[0] {
		row := make([]string, len(cols))
		for i, c := range cols {
			row[i] = strconv.FormatFloat(c[r], 'g', -1, 64)
		}
		rows = append(rows, row)
	}
	return logformat.NewSliceReader(rows)
}

func steps(n int, start, step float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	return out
}

func noFilter() models.Filter {
	f := models.DefaultFilter
	f.Enabled = false
	return f
}

func pullFilter() models.Filter {
	f := models.DefaultFilter
	f.MinRPM = 0
	f.MinPoints = 3
	f.MinRPMRange = 1000
	return f
}

func linearPull(t *testing.T, filter models.Filter) *Dataset {
	t.Helper()
	d, err := Load(ecuxLog([]string{"TIME", "RPM"}, steps(11, 0, 100), steps(11, 1000, 500)),
		logformat.Auto, models.DefaultEnv, filter)
	require.NoError(t, err)
	return d
}

func TestSegmentDisabledFilter(t *testing.T) {
	v := &validator{filter: noFilter()}
	assert.Equal(t, []models.Range{{Start: 0, End: 499}}, Segment(500, v.dataValid, v.rangeValid))
	assert.Empty(t, Segment(0, v.dataValid, v.rangeValid))
}

func TestSegmentMinPoints(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	valid := make([]bool, 5000)
	for i := range valid {
		// long stretches of valid samples broken by short gaps
		valid[i] = rng.Intn(60) != 0
	}
	dataValid := func(i int) bool { return valid[i] }
	rangeValid := func(r models.Range) bool { return r.Size() >= 50 }

	ranges := Segment(len(valid), dataValid, rangeValid)
	require.NotEmpty(t, ranges)
	prevEnd := -1
	for _, r := range ranges {
		assert.GreaterOrEqual(t, r.Size(), 50)
		assert.Greater(t, r.Start, prevEnd, "ranges are ordered and disjoint")
		for i := r.Start; i <= r.End; i++ {
			assert.True(t, valid[i], "index %d", i)
		}
		if r.Start > 0 {
			assert.False(t, valid[r.Start-1], "range %v is maximal", r)
		}
		if r.End < len(valid)-1 {
			assert.False(t, valid[r.End+1], "range %v is maximal", r)
		}
		prevEnd = r.End
	}
}

func TestDisabledFilterCoversLog(t *testing.T) {
	d, err := Load(ecuxLog([]string{"TIME", "RPM"}, steps(500, 0, 10), steps(500, 7000, -10)),
		logformat.Auto, models.DefaultEnv, noFilter())
	require.NoError(t, err)
	assert.Equal(t, []models.Range{{Start: 0, End: 499}}, d.Ranges())
}

func TestCalcFATS(t *testing.T) {
	d := linearPull(t, noFilter())
	assert.Equal(t, logformat.ECUx, d.Dialect())
	assert.InDelta(t, 10, d.SamplesPerSec(), 1e-9)

	et, err := d.CalcFATS(0, 2000, 5000)
	require.NoError(t, err)
	assert.InDelta(t, 0.6, et, 1e-3)

	_, err = d.CalcFATS(0, 5000, 2000)
	assert.True(t, errors.Is(err, ErrCrossedStreams))

	_, err = d.CalcFATS(0, 500, 5000)
	assert.True(t, errors.Is(err, ErrRunNotLongEnough))

	_, err = d.CalcFATS(1, 2000, 5000)
	assert.True(t, errors.Is(err, ErrNoRun))
	_, err = d.CalcFATS(-1, 2000, 5000)
	assert.True(t, errors.Is(err, ErrNoRun))
}

func twoPulls(t *testing.T) *Dataset {
	t.Helper()
	rpm := append(steps(11, 1000, 500), steps(5, 2000, 500)...)
	d, err := Load(ecuxLog([]string{"TIME", "RPM", "AcceleratorPedalPosition"},
		steps(16, 0, 100), rpm, make([]float64, 16)),
		logformat.Auto, models.DefaultEnv, pullFilter())
	require.NoError(t, err)
	return d
}

func TestFilterSplitsPulls(t *testing.T) {
	d := twoPulls(t)
	assert.Equal(t, []models.Range{{Start: 0, End: 9}, {Start: 12, End: 15}}, d.Ranges())

	reasons := d.FilterReasons()
	require.Len(t, reasons, 1)
	assert.Contains(t, reasons[0], "fell back")

	rpm, err := d.RangeData("RPM", 1)
	require.NoError(t, err)
	assert.Equal(t, []float64{2500, 3000, 3500, 4000}, []float64(rpm))

	_, err = d.RangeData("RPM", 2)
	assert.True(t, errors.Is(err, ErrNoRun))
}

func TestCalcFATSAllKeepsGoing(t *testing.T) {
	d := twoPulls(t)
	fats := d.CalcFATSAll(2000, 5000)
	require.Len(t, fats, 2)
	assert.InDelta(t, 0.6, fats[0], 1e-3)
	assert.Equal(t, 0.0, fats[1])
}

func TestSetFilterRebuilds(t *testing.T) {
	d := twoPulls(t)
	_, err := d.Get("Calc Velocity")
	require.NoError(t, err)

	d.SetFilter(noFilter())
	assert.False(t, d.Filter().Enabled)
	assert.Equal(t, []models.Range{{Start: 0, End: 15}}, d.Ranges())
	for _, c := range d.Columns() {
		assert.NotEqual(t, "Calc Velocity", c.ID, "derived cache cleared")
	}

	// the run now ends on the second pull's 4000 RPM
	_, err = d.CalcFATS(0, 2000, 5000)
	assert.True(t, errors.Is(err, ErrRunNotLongEnough))
	et, err := d.CalcFATS(0, 2000, 4000)
	require.NoError(t, err)
	assert.InDelta(t, 0.4, et, 1e-3)
}

func TestSetEnvClearsDerived(t *testing.T) {
	d := linearPull(t, noFilter())
	before, err := d.Get("Calc Velocity")
	require.NoError(t, err)

	env := d.Env()
	env.Car.RPMPerMPH *= 2
	d.SetEnv(env)
	after, err := d.Get("Calc Velocity")
	require.NoError(t, err)
	assert.InDelta(t, before.Data[4]/2, after.Data[4], 1e-9)
	assert.Equal(t, env, d.Env())
}

func TestRunFitFaults(t *testing.T) {
	r := fitRun(models.Range{Start: 0, End: 2}, []float64{3000, 3000, 3000}, []float64{0, 0.1, 0.2})
	assert.True(t, errors.Is(r.err, ErrRunNotMonotonic))
	_, err := r.elapsed(2000, 5000)
	assert.True(t, errors.Is(err, ErrRunNotMonotonic))

	r = fitRun(models.Range{}, []float64{3000}, []float64{0})
	assert.True(t, errors.Is(r.err, ErrRunTooShort))

	r = fitRun(models.Range{}, []float64{3000, 3100}, []float64{0})
	assert.True(t, errors.Is(r.err, ErrInterpolationFailed))

	r = fitRun(models.Range{}, nil, nil)
	assert.True(t, errors.Is(r.err, ErrInterpolationFailed))
}

func TestRunUsesIncreasingEnvelope(t *testing.T) {
	r := fitRun(models.Range{Start: 0, End: 4},
		[]float64{2000, 3000, 2900, 4000, 5000},
		[]float64{0, 0.1, 0.2, 0.3, 0.4})
	require.NoError(t, r.err)
	et, err := r.elapsed(2000, 5000)
	require.NoError(t, err)
	assert.InDelta(t, 0.4, et, 1e-9)
}

func TestColumnsRawThenDerived(t *testing.T) {
	d := linearPull(t, noFilter())
	_, err := d.Get("Calc Velocity")
	require.NoError(t, err)

	cols := d.Columns()
	require.GreaterOrEqual(t, len(cols), 3)
	assert.Equal(t, "TIME", cols[0].ID)
	assert.Equal(t, "RPM", cols[1].ID)
	assert.Equal(t, "Calc Velocity", cols[len(cols)-1].ID)
	assert.Equal(t, 11, d.Len())
}

func TestLoadPropagatesHeaderFaults(t *testing.T) {
	_, err := Load(ecuxLog([]string{"TIME", "RPM"}, []float64{0}, []float64{1000}),
		logformat.VCDS, models.DefaultEnv, noFilter())
	assert.True(t, errors.Is(err, logformat.ErrFormatMismatch))

	_, err = Load(logformat.NewSliceReader(nil), logformat.Auto, models.DefaultEnv, noFilter())
	assert.True(t, errors.Is(err, logformat.ErrMalformedHeader))
}

func TestZeitronixVacuumKeepsPull(t *testing.T) {
	// -5 PSI gauge is 668 mBar absolute, which is what the boost check sees
	d, err := Load(ecuxLog([]string{"TIME", "RPM", "Zeitronix Boost"},
		steps(11, 0, 100), steps(11, 1000, 500), steps(11, -5, 0)),
		logformat.Auto, models.DefaultEnv, pullFilter())
	require.NoError(t, err)

	zb, err := d.Get("Zeitronix Boost")
	require.NoError(t, err)
	assert.InDelta(t, 1013-5*68.9475729, zb.Data[0], 1e-9)
	assert.Equal(t, []models.Range{{Start: 0, End: 10}}, d.Ranges())
}
