package signals

import (
	"github.com/tosih/ecux-analyzer/pkg/models"
	"github.com/tosih/ecux-analyzer/pkg/vector"
)

// drag returns aerodynamic plus rolling resistance power in watts at
// velocity v (m/s).
func drag(car models.Car, v vector.Vector) vector.Vector {
	wind := v.Pow(3).Scale(0.5 * airDensity * car.Cd * car.FA)
	rolling := v.Scale(car.RollingDrag * car.Mass * gravity)
	return wind.Add(rolling)
}

func powerUnit(c *Context, unit string) string {
	if c.Env.SAE.Enabled {
		return unit + " (SAE)"
	}
	return unit
}

func init() {
	register("Calc Velocity", Formula{
		Requires: []string{"RPM"},
		Compute: func(c *Context) (*models.Column, error) {
			v := c.Get("RPM").DivConst(c.Env.Car.RPMPerMPH).DivConst(mphPerMPS)
			return c.Out(v, "m/s"), nil
		},
	})
	register("Calc Acceleration (RPM/s)", Formula{
		Requires: []string{"RPM", "TIME"},
		Compute: func(c *Context) (*models.Column, error) {
			a := c.Get("RPM").DerivativeMA(c.Get("TIME"), c.MAW()).Max(0)
			return c.Out(a, "RPM/s"), nil
		},
	})
	register("Calc Acceleration - raw (RPM/s)", Formula{
		Requires: []string{"RPM - raw", "TIME"},
		Compute: func(c *Context) (*models.Column, error) {
			return c.Out(c.Get("RPM - raw").Derivative(c.Get("TIME")), "RPM/s"), nil
		},
	})
	register("Calc Acceleration (m/s^2)", Formula{
		Requires: []string{"Calc Velocity", "TIME"},
		Compute: func(c *Context) (*models.Column, error) {
			a := c.Get("Calc Velocity").DerivativeMA(c.Get("TIME"), c.MAW()).Max(0)
			return c.Out(a, "m/s^2"), nil
		},
	})
	register("Calc Acceleration (m/s²)", Formula{
		Requires: []string{"Calc Acceleration (m/s^2)"},
		Compute: func(c *Context) (*models.Column, error) {
			return c.Out(c.Get("Calc Acceleration (m/s^2)"), "m/s^2"), nil
		},
	})
	register("Calc Acceleration (g)", Formula{
		Requires: []string{"Calc Acceleration (m/s^2)"},
		Compute: func(c *Context) (*models.Column, error) {
			return c.Out(c.Get("Calc Acceleration (m/s^2)").DivConst(gravity), "g"), nil
		},
	})

	register("Calc WHP", Formula{
		Requires: []string{"Calc Acceleration (m/s^2)", "Calc Velocity"},
		Compute: func(c *Context) (*models.Column, error) {
			a := c.Get("Calc Acceleration (m/s^2)")
			v := c.Get("Calc Velocity")
			watts := a.Mul(v).Scale(c.Env.Car.Mass).Add(drag(c.Env.Car, v))
			hp := watts.Scale(hpPerWatt)
			if c.Env.SAE.Enabled {
				hp = hp.Scale(c.Env.SAE.Correction)
			}
			return c.Out(hp.MovingAverage(c.MAW()), powerUnit(c, "HP")), nil
		},
	})
	register("Calc HP", Formula{
		Requires: []string{"Calc WHP"},
		Compute: func(c *Context) (*models.Column, error) {
			hp := c.Get("Calc WHP").DivConst(1 - c.Env.Car.DrivelineLoss).AddConst(c.Env.Car.StaticLoss)
			return c.Out(hp, powerUnit(c, "HP")), nil
		},
	})
	register("Calc WTQ", Formula{
		Requires: []string{"Calc WHP", "RPM"},
		Compute: func(c *Context) (*models.Column, error) {
			tq := c.Get("Calc WHP").Scale(hpTorque).Div(c.Get("RPM"))
			return c.Out(tq, powerUnit(c, "ft-lb")), nil
		},
	})
	register("Calc TQ", Formula{
		Requires: []string{"Calc HP", "RPM"},
		Compute: func(c *Context) (*models.Column, error) {
			tq := c.Get("Calc HP").Scale(hpTorque).Div(c.Get("RPM"))
			return c.Out(tq, powerUnit(c, "ft-lb")), nil
		},
	})
	register("Calc Drag", Formula{
		Requires: []string{"Calc Velocity"},
		Compute: func(c *Context) (*models.Column, error) {
			return c.Out(drag(c.Env.Car, c.Get("Calc Velocity")).Scale(hpPerWatt), "HP"), nil
		},
	})

	// logged by some ECUs
	register("Engine torque (ft-lb)", Formula{
		Requires: []string{"Engine torque"},
		Compute: func(c *Context) (*models.Column, error) {
			return c.Out(c.Get("Engine torque").Scale(nmToFtLb), "ft-lb"), nil
		},
	})
	register("Engine HP", Formula{
		Requires: []string{"Engine torque (ft-lb)", "RPM"},
		Compute: func(c *Context) (*models.Column, error) {
			hp := c.Get("Engine torque (ft-lb)").DivConst(hpTorque).Mul(c.Get("RPM"))
			return c.Out(hp, "HP"), nil
		},
	})
}
