package signals

import (
	"math"

	"github.com/tosih/ecux-analyzer/pkg/models"
	"github.com/tosih/ecux-analyzer/pkg/vector"
)

// Context is everything a formula may read: its inputs, through the engine,
// and the configuration it was asked to evaluate under.
type Context struct {
	ID              string
	Env             models.Env
	Filter          models.Filter
	SamplesPerSec   float64
	TimeTicksPerSec float64

	engine *Engine
}

// MAW is the power/torque moving average window in samples. 10 samples per
// second with HPTQMAW 1.0 is one sample.
func (c *Context) MAW() int {
	return int(math.Floor(c.SamplesPerSec / 10 * c.Filter.HPTQMAW))
}

// Column resolves id through the engine. For ids listed in Formula.Requires
// it never returns nil.
func (c *Context) Column(id string) *models.Column {
	col, err := c.engine.get(id)
	if err != nil {
		return nil
	}
	return col
}

// Get returns the data of a required input.
func (c *Context) Get(id string) vector.Vector {
	if col := c.Column(id); col != nil {
		return col.Data
	}
	return nil
}

// Optional is Column for inputs the formula can do without.
func (c *Context) Optional(id string) *models.Column {
	return c.Column(id)
}

// RawColumn looks id up in the log itself, bypassing formulas.
func (c *Context) RawColumn(id string) *models.Column {
	return c.engine.store.Get(id)
}

// Raw returns the data of a required raw input.
func (c *Context) Raw(id string) vector.Vector {
	if col := c.RawColumn(id); col != nil {
		return col.Data
	}
	return nil
}

// RawOptional is RawColumn for inputs the formula can do without.
func (c *Context) RawOptional(id string) *models.Column {
	return c.RawColumn(id)
}

// Out labels data as the column being computed.
func (c *Context) Out(data vector.Vector, unit string) *models.Column {
	return models.NewColumn(c.ID, unit, data)
}

// Len is the number of samples in the log.
func (c *Context) Len() int { return c.engine.store.Len() }
