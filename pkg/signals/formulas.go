package signals

import (
	"maps"
	"slices"

	"github.com/tosih/ecux-analyzer/pkg/models"
	"github.com/tosih/ecux-analyzer/pkg/vector"
)

const (
	hpPerWatt  = 0.00134102209
	mbarPerPSI = 68.9475729
	mphPerMPS  = 2.23693629
	nmToFtLb   = 0.737562149
	airDensity = 1.293 // kg/m^3, standard
	gravity    = 9.80665
	stdAmbient = 1013.0 // mBar
	stoich     = 14.7
	kumsrl     = 0.001072 // ECU load scaling
	hpTorque   = 5252.0

	timingSuffix = " (ms)"
)

var registry = map[string]Formula{}

func register(id string, f Formula) {
	if _, dup := registry[id]; dup {
		panic("signals: duplicate formula " + id)
	}
	registry[id] = f
}

func sortedKeys(m map[string]Formula) []string {
	return slices.Sorted(maps.Keys(m))
}

func init() {
	register("Sample", Formula{
		Compute: func(c *Context) (*models.Column, error) {
			return c.Out(vector.Index(c.Len()), "#"), nil
		},
	})
	register("TIME", Formula{
		RequiresRaw: []string{"TIME"},
		Compute: func(c *Context) (*models.Column, error) {
			return c.Out(c.Raw("TIME").DivConst(c.TimeTicksPerSec), "s"), nil
		},
	})
	register("RPM", Formula{
		RequiresRaw: []string{"RPM"},
		Compute: func(c *Context) (*models.Column, error) {
			// logged RPM is quantized; only worth smoothing at high sample rates
			if c.SamplesPerSec > 10 {
				return c.Out(c.Raw("RPM").Smooth(), "RPM"), nil
			}
			return c.RawColumn("RPM"), nil
		},
	})
	register("RPM - raw", Formula{
		RequiresRaw: []string{"RPM"},
		Compute: func(c *Context) (*models.Column, error) {
			return c.Out(c.Raw("RPM"), "RPM"), nil
		},
	})
}

// timingFormula converts a crank angle signal to milliseconds at the current RPM.
func timingFormula(signal string) Formula {
	return Formula{
		Requires: []string{signal, "RPM"},
		Compute: func(c *Context) (*models.Column, error) {
			return c.Out(c.Get(signal).Div(c.Get("RPM").Scale(0.006)), "(ms)"), nil
		},
	}
}

// ambient is the logged barometric pressure, or standard pressure when the
// log has none.
func ambient(c *Context, like vector.Vector) vector.Vector {
	if baro := c.RawOptional("BaroPressure"); baro != nil {
		return baro.Data
	}
	return like.Ident(stdAmbient)
}

func toPSI(c *Context, abs vector.Vector) vector.Vector {
	return abs.Sub(ambient(c, abs)).DivConst(mbarPerPSI)
}

func toCelsius(f vector.Vector) vector.Vector {
	return f.AddConst(-32).Scale(5.0 / 9.0)
}

func toFahrenheit(c vector.Vector) vector.Vector {
	return c.Scale(9.0 / 5.0).AddConst(32)
}

// firstRaw returns the first of ids present in the log.
func firstRaw(c *Context, ids ...string) (*models.Column, error) {
	for _, id := range ids {
		if col := c.RawOptional(id); col != nil {
			return col, nil
		}
	}
	return nil, &MissingSignalError{ID: c.ID, Input: ids[0]}
}
