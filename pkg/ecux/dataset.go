// Package ecux ties a parsed log to its derived signals, its valid pulls and
// the FATS timer.
package ecux

import (
	"fmt"
	"math"
	"sync"

	"github.com/pterm/pterm"

	"github.com/tosih/ecux-analyzer/pkg/logfile"
	"github.com/tosih/ecux-analyzer/pkg/logformat"
	"github.com/tosih/ecux-analyzer/pkg/models"
	"github.com/tosih/ecux-analyzer/pkg/signals"
	"github.com/tosih/ecux-analyzer/pkg/vector"
)

// Dataset is one loaded log.
//
// Reads (Get, Ranges, CalcFATS, ...) may be shared between goroutines.
// Rebuild, SetFilter and SetEnv take exclusive access and replace the ranges
// and splines wholesale.
type Dataset struct {
	mu      sync.RWMutex
	dialect logformat.Dialect
	store   *logfile.Store
	engine  *signals.Engine
	env     models.Env
	filter  models.Filter
	sps     float64
	ticks   float64

	ranges []models.Range
	runs   []run
	v      *validator
}

// Load reads a whole log from r. requested may be logformat.Auto.
func Load(r logformat.RowReader, requested logformat.Dialect, env models.Env, filter models.Filter) (*Dataset, error) {
	hdr, err := logformat.ParseHeader(r, requested)
	if err != nil {
		return nil, err
	}
	store, err := logfile.Build(hdr.IDs, r)
	if err != nil {
		return nil, err
	}

	d := &Dataset{
		dialect: hdr.Dialect,
		store:   store,
		env:     env,
		filter:  filter,
		ticks:   hdr.TimeTicksPerSec,
	}
	d.engine = signals.NewEngine(store, d.params())
	d.sps = samplesPerSec(d.engine.Lookup("TIME"))
	d.engine.SetParams(d.params())

	pterm.DefaultLogger.Debug("log loaded", pterm.DefaultLogger.Args(
		"dialect", d.dialect, "columns", len(hdr.IDs), "samples", store.Len(),
		"skipped", store.Skipped(), "samples_per_sec", d.sps))

	d.Rebuild()
	return d, nil
}

// samplesPerSec is the highest sample rate seen between consecutive rows.
func samplesPerSec(tm *models.Column) float64 {
	if tm == nil {
		return 0
	}
	sps := 0.0
	for i := 1; i < tm.Len(); i++ {
		dt := tm.Data[i] - tm.Data[i-1]
		if dt > 0 {
			sps = math.Max(sps, 1/dt)
		}
	}
	return sps
}

func (d *Dataset) params() signals.Params {
	return signals.Params{
		Env:             d.env,
		Filter:          d.filter,
		SamplesPerSec:   d.sps,
		TimeTicksPerSec: d.ticks,
	}
}

// Rebuild re-segments the log into pulls and refits every run's spline.
func (d *Dataset) Rebuild() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.rebuild()
}

func (d *Dataset) rebuild() {
	e := d.engine
	// zboost is the derived absolute mBar Zeitronix Boost, not the raw PSI
	// gauge reading, so its < 0 check only trips on bad samples.
	d.v = &validator{
		filter:   d.filter,
		pedal:    signal(e.LookupAny(pedalIDs...)),
		throttle: signal(e.LookupAny(throttleIDs...)),
		gear:     signal(e.LookupAny(gearIDs...)),
		zboost:   signal(e.Lookup("Zeitronix Boost")),
		rpm:      signal(e.Lookup("RPM")),
	}
	d.ranges = Segment(d.store.Len(), d.v.dataValid, d.v.rangeValid)

	var rpm, tm vector.Vector
	if c := e.Lookup("RPM"); c != nil {
		rpm = c.Data
	}
	if c := e.Lookup("TIME"); c != nil {
		tm = c.Data
	}
	d.runs = make([]run, len(d.ranges))
	for i, r := range d.ranges {
		var rs, ts vector.Vector
		if rpm != nil {
			rs = rpm.Slice(r.Start, r.End)
		}
		if tm != nil {
			ts = tm.Slice(r.Start, r.End)
		}
		d.runs[i] = fitRun(r, rs, ts)
	}
	pterm.DefaultLogger.Debug("ranges rebuilt",
		pterm.DefaultLogger.Args("ranges", len(d.ranges), "filter", d.filter.Enabled))
}

// Get returns a raw or derived column.
func (d *Dataset) Get(id string) (*models.Column, error) {
	return d.engine.Get(id)
}

// Lookup returns a raw or derived column, or nil if it cannot be produced.
func (d *Dataset) Lookup(id string) *models.Column {
	return d.engine.Lookup(id)
}

// GetAny returns the first of ids that resolves, or nil.
func (d *Dataset) GetAny(ids ...string) *models.Column {
	return d.engine.LookupAny(ids...)
}

// Len returns the number of samples.
func (d *Dataset) Len() int { return d.store.Len() }

// Dialect returns the format the log was read as.
func (d *Dataset) Dialect() logformat.Dialect { return d.dialect }

// SamplesPerSec returns the log's peak sample rate.
func (d *Dataset) SamplesPerSec() float64 { return d.sps }

// Skipped returns the number of data rows dropped while loading.
func (d *Dataset) Skipped() int { return d.store.Skipped() }

// Ranges returns the valid pulls, ordered by start.
func (d *Dataset) Ranges() []models.Range {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append([]models.Range(nil), d.ranges...)
}

// RangeData returns the samples of id inside pull run.
func (d *Dataset) RangeData(id string, run int) (vector.Vector, error) {
	d.mu.RLock()
	if run < 0 || run >= len(d.ranges) {
		d.mu.RUnlock()
		return nil, fmt.Errorf("%w: %d of %d", ErrNoRun, run, len(d.ranges))
	}
	r := d.ranges[run]
	d.mu.RUnlock()

	c, err := d.engine.Get(id)
	if err != nil {
		return nil, err
	}
	return c.Data.Slice(r.Start, r.End), nil
}

// FilterReasons returns why the last rejected sample or range was rejected.
func (d *Dataset) FilterReasons() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.v == nil {
		return nil
	}
	return d.v.Reasons()
}

// Filter returns the current filter.
func (d *Dataset) Filter() models.Filter {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.filter
}

// SetFilter replaces the filter, drops the derived columns and rebuilds the
// ranges.
func (d *Dataset) SetFilter(f models.Filter) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.filter = f
	d.engine.SetParams(d.params())
	d.rebuild()
}

// Env returns the current vehicle constants.
func (d *Dataset) Env() models.Env {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.env
}

// SetEnv replaces the vehicle constants and drops the derived columns.
func (d *Dataset) SetEnv(env models.Env) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.env = env
	d.engine.SetParams(d.params())
}

// CalcFATS returns the time in seconds pull run took from rpmStart to rpmEnd.
func (d *Dataset) CalcFATS(run int, rpmStart, rpmEnd float64) (float64, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if run < 0 || run >= len(d.runs) {
		return 0, fmt.Errorf("%w: %d of %d", ErrNoRun, run, len(d.runs))
	}
	et, err := d.runs[run].elapsed(rpmStart, rpmEnd)
	if err != nil {
		return 0, fmt.Errorf("run %d: %w", run, err)
	}
	return et, nil
}

// CalcFATSAll returns CalcFATS for every pull, with 0 for pulls that fail.
func (d *Dataset) CalcFATSAll(rpmStart, rpmEnd float64) []float64 {
	d.mu.RLock()
	n := len(d.runs)
	d.mu.RUnlock()

	out := make([]float64, n)
	for i := range out {
		et, err := d.CalcFATS(i, rpmStart, rpmEnd)
		if err != nil {
			pterm.DefaultLogger.Debug("fats skipped", pterm.DefaultLogger.Args("run", i, "error", err))
			continue
		}
		out[i] = et
	}
	return out
}

// Columns returns the raw columns followed by the derived columns computed
// so far. A derived column that shares a raw column's id (TIME in seconds,
// say) takes the raw column's place.
func (d *Dataset) Columns() []*models.Column {
	raw := d.store.Columns()
	out := append([]*models.Column(nil), raw...)
	pos := make(map[string]int, len(raw))
	for i, c := range raw {
		if _, dup := pos[c.ID]; !dup {
			pos[c.ID] = i
		}
	}
	for _, c := range d.engine.Cached() {
		if i, ok := pos[c.ID]; ok {
			out[i] = c
			continue
		}
		out = append(out, c)
	}
	return out
}

// IDs returns the normalized header of the log.
func (d *Dataset) IDs() []models.DatasetID { return d.store.IDs() }

// Available returns the derived signal ids this log can produce.
func (d *Dataset) Available() []string { return signals.Available(d.engine) }
