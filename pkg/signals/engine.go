// Package signals computes derived signals (power, torque, boost, fueling,
// a reconstructed boost controller) from the raw columns of a log.
//
// Derived columns are computed on first request and cached. A formula pulls
// its inputs through the engine, so dependencies resolve on demand.
package signals

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/pterm/pterm"

	"github.com/tosih/ecux-analyzer/pkg/models"
)

// Source is the raw column store an engine derives from.
type Source interface {
	Get(name string) *models.Column
	Len() int
	Columns() []*models.Column
}

// Formula describes one derived signal.
type Formula struct {
	// Requires are inputs resolved through the engine, derived or raw.
	Requires []string
	// RequiresRaw must be columns of the log itself.
	RequiresRaw []string
	Compute     func(c *Context) (*models.Column, error)
}

// Params are the evaluation settings handed to every formula.
type Params struct {
	Env             models.Env
	Filter          models.Filter
	SamplesPerSec   float64
	TimeTicksPerSec float64
}

// Engine resolves signal ids against a Source and the formula registry.
// Get is safe for concurrent use. SetParams and Reset drop the cache.
type Engine struct {
	mu       sync.Mutex
	store    Source
	params   Params
	cache    map[string]*models.Column
	order    []string
	visiting map[string]bool
}

// NewEngine returns an engine over store.
func NewEngine(store Source, p Params) *Engine {
	if p.TimeTicksPerSec == 0 {
		p.TimeTicksPerSec = 1
	}
	return &Engine{
		store:    store,
		params:   p,
		cache:    make(map[string]*models.Column),
		visiting: make(map[string]bool),
	}
}

// Params returns the current evaluation settings.
func (e *Engine) Params() Params {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.params
}

// SetParams replaces the evaluation settings and clears the cache.
func (e *Engine) SetParams(p Params) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if p.TimeTicksPerSec == 0 {
		p.TimeTicksPerSec = 1
	}
	e.params = p
	e.reset()
}

// Reset drops every cached derived column.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.reset()
}

func (e *Engine) reset() {
	e.cache = make(map[string]*models.Column)
	e.order = nil
}

// Get returns the column for id. Resolution order: cached derived column,
// formula, "<signal> (ms)" timing synthesis, raw column. A raw "<signal> (ms)"
// column is returned when the synthesis lacks its inputs.
func (e *Engine) Get(id string) (*models.Column, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.get(id)
}

// Lookup is Get for callers that only care whether the column exists.
func (e *Engine) Lookup(id string) *models.Column {
	c, err := e.Get(id)
	if err != nil {
		return nil
	}
	return c
}

// LookupAny returns the first of ids that resolves, or nil.
func (e *Engine) LookupAny(ids ...string) *models.Column {
	for _, id := range ids {
		if c := e.Lookup(id); c != nil {
			return c
		}
	}
	return nil
}

// Cached returns the derived columns computed so far, oldest first.
func (e *Engine) Cached() []*models.Column {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]*models.Column, 0, len(e.order))
	for _, id := range e.order {
		out = append(out, e.cache[id])
	}
	return out
}

func (e *Engine) get(id string) (*models.Column, error) {
	if c, ok := e.cache[id]; ok {
		return c, nil
	}
	if f, ok := registry[id]; ok {
		return e.derive(id, f)
	}
	if strings.HasSuffix(id, timingSuffix) {
		c, err := e.derive(id, timingFormula(strings.TrimSuffix(id, timingSuffix)))
		if err == nil || !errors.Is(err, ErrMissingSignal) {
			return c, err
		}
		// loggers that keep the unit in the name log "<signal> (ms)" directly
		if raw := e.store.Get(id); raw != nil {
			return raw, nil
		}
		return nil, err
	}
	if c := e.store.Get(id); c != nil {
		return c, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownSignal, id)
}

func (e *Engine) derive(id string, f Formula) (*models.Column, error) {
	if e.visiting[id] {
		return nil, fmt.Errorf("%w: %q", ErrCycle, id)
	}
	e.visiting[id] = true
	defer delete(e.visiting, id)

	for _, in := range f.RequiresRaw {
		if e.store.Get(in) == nil {
			return nil, e.missing(id, in, nil)
		}
	}
	for _, in := range f.Requires {
		if _, err := e.get(in); err != nil {
			if errors.Is(err, ErrCycle) {
				return nil, err
			}
			return nil, e.missing(id, in, err)
		}
	}

	ctx := &Context{
		ID:              id,
		Env:             e.params.Env,
		Filter:          e.params.Filter,
		SamplesPerSec:   e.params.SamplesPerSec,
		TimeTicksPerSec: e.params.TimeTicksPerSec,
		engine:          e,
	}
	c, err := f.Compute(ctx)
	if err != nil {
		return nil, fmt.Errorf("compute %q: %w", id, err)
	}
	// a formula may hand back the raw column untouched
	if raw := e.store.Get(id); raw != nil && raw == c {
		return c, nil
	}
	return e.insert(id, c), nil
}

// insert caches c under id unless another column got there first.
func (e *Engine) insert(id string, c *models.Column) *models.Column {
	if prev, ok := e.cache[id]; ok {
		return prev
	}
	e.cache[id] = c
	e.order = append(e.order, id)
	pterm.DefaultLogger.Trace("derived signal", pterm.DefaultLogger.Args("id", id, "unit", c.Unit))
	return c
}

func (e *Engine) missing(id, input string, cause error) error {
	pterm.DefaultLogger.Debug("cannot derive signal",
		pterm.DefaultLogger.Args("id", id, "missing", input))
	if errors.Is(cause, ErrUnknownSignal) {
		cause = nil
	}
	return &MissingSignalError{ID: id, Input: input, Err: cause}
}

// Formulas returns the ids of every registered formula, sorted.
func Formulas() []string {
	return sortedKeys(registry)
}

// Has reports whether id names a registered formula.
func Has(id string) bool {
	_, ok := registry[id]
	return ok
}
