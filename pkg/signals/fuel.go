package signals

import (
	"github.com/tosih/ecux-analyzer/pkg/models"
)

// gramsPerSecPerCCMin converts injector flow (cc/min) to fuel mass flow (g/sec).
const gramsPerSecPerCCMin = 0.0114

// dutyCycle converts an injector on time in ms to a duty cycle over one half
// crank revolution.
func dutyCycle(onTime string) Formula {
	return Formula{
		RequiresRaw: []string{onTime},
		Requires:    []string{"RPM"},
		Compute: func(c *Context) (*models.Column, error) {
			ms := c.Raw(onTime).DivConst(60 * 1000)
			halfRev := c.Get("RPM").DivConst(2)
			return c.Out(ms.Mul(halfRev).Scale(100), "%"), nil
		},
	}
}

// toAFR scales a lambda column to gasoline air/fuel ratio.
func toAFR(raw string) Formula {
	return Formula{
		RequiresRaw: []string{raw},
		Compute: func(c *Context) (*models.Column, error) {
			return c.Out(c.Raw(raw).Scale(stoich), "AFR"), nil
		},
	}
}

func init() {
	register("Calc Load", Formula{
		RequiresRaw: []string{"MassAirFlow", "RPM"},
		Compute: func(c *Context) (*models.Column, error) {
			kgPerHour := c.Raw("MassAirFlow").Scale(3.6)
			rpm := c.Raw("RPM").Smooth()
			return c.Out(kgPerHour.Div(rpm).DivConst(kumsrl), "%"), nil
		},
	})
	register("Calc Load Corrected", Formula{
		Requires: []string{"Calc MAF", "RPM"},
		Compute: func(c *Context) (*models.Column, error) {
			kgPerHour := c.Get("Calc MAF").Scale(3.6)
			return c.Out(kgPerHour.Div(c.Get("RPM")).DivConst(kumsrl), "%"), nil
		},
	})
	register("MassAirFlow (kg/hr)", Formula{
		RequiresRaw: []string{"MassAirFlow"},
		Compute: func(c *Context) (*models.Column, error) {
			return c.Out(c.Raw("MassAirFlow").Scale(60.0*60.0/1000.0), "kg/hr"), nil
		},
	})
	register("Calc MAF", Formula{
		RequiresRaw: []string{"MassAirFlow"},
		Compute: func(c *Context) (*models.Column, error) {
			maf := c.Raw("MassAirFlow").Scale(c.Env.Fuel.MAFCorrection).AddConst(c.Env.Fuel.MAFOffset)
			return c.Out(maf, "g/sec"), nil
		},
	})
	register("Calc MassAirFlow df/dt", Formula{
		RequiresRaw: []string{"MassAirFlow"},
		Requires:    []string{"TIME"},
		Compute: func(c *Context) (*models.Column, error) {
			return c.Out(c.Raw("MassAirFlow").Derivative(c.Get("TIME")).Max(0), "g/sec^s"), nil
		},
	})
	register("Calc Turbo Flow", Formula{
		Requires: []string{"Calc MAF"},
		Compute: func(c *Context) (*models.Column, error) {
			turbos := float64(c.Env.Fuel.Turbos)
			return c.Out(c.Get("Calc MAF").DivConst(1225*turbos), "m^3/sec"), nil
		},
	})
	register("Calc Turbo Flow (lb/min)", Formula{
		Requires: []string{"Calc MAF"},
		Compute: func(c *Context) (*models.Column, error) {
			turbos := float64(c.Env.Fuel.Turbos)
			return c.Out(c.Get("Calc MAF").DivConst(7.55*turbos), "lb/min"), nil
		},
	})

	register("FuelInjectorDutyCycle", dutyCycle("FuelInjectorOnTime"))
	register("EffInjectorDutyCycle", dutyCycle("EffInjectionTime"))
	register("EffInjectorDutyCycleBank2", dutyCycle("EffInjectionTimeBank2"))

	register("Calc Fuel Mass", Formula{
		Requires: []string{"EffInjectorDutyCycle"},
		Compute: func(c *Context) (*models.Column, error) {
			duty := c.Get("EffInjectorDutyCycle")
			if bank2 := c.Optional("EffInjectorDutyCycleBank2"); bank2 != nil {
				duty = duty.Add(bank2.Data).DivConst(2)
			}
			gps := c.Env.Fuel.Injector * gramsPerSecPerCCMin
			cylinders := float64(c.Env.Fuel.Cylinders)
			return c.Out(duty.Scale(cylinders*gps/100), "g/sec"), nil
		},
	})

	register("TargetAFRDriverRequest (AFR)", toAFR("TargetAFRDriverRequest"))
	register("AirFuelRatioDesired (AFR)", toAFR("AirFuelRatioDesired"))
	register("AirFuelRatioCurrent (AFR)", toAFR("AirFuelRatioCurrent"))
	register("Zeitronix Lambda (AFR)", toAFR("Zeitronix Lambda"))
	register("Zeitronix AFR (lambda)", Formula{
		RequiresRaw: []string{"Zeitronix AFR"},
		Compute: func(c *Context) (*models.Column, error) {
			return c.Out(c.Raw("Zeitronix AFR").DivConst(stoich), "lambda"), nil
		},
	})

	register("Calc AFR", Formula{
		Requires: []string{"Calc MAF", "Calc Fuel Mass"},
		Compute: func(c *Context) (*models.Column, error) {
			return c.Out(c.Get("Calc MAF").Div(c.Get("Calc Fuel Mass")), "AFR"), nil
		},
	})
	register("Calc lambda", Formula{
		Requires: []string{"Calc AFR"},
		Compute: func(c *Context) (*models.Column, error) {
			return c.Out(c.Get("Calc AFR").DivConst(stoich), "lambda"), nil
		},
	})
	register("Calc lambda error", Formula{
		RequiresRaw: []string{"AirFuelRatioDesired"},
		Requires:    []string{"Calc lambda"},
		Compute: func(c *Context) (*models.Column, error) {
			ratio := c.Raw("AirFuelRatioDesired").Div(c.Get("Calc lambda"))
			return c.Out(ratio.Scale(-1).AddConst(1).Scale(100).Clamp(-25, 25), "%"), nil
		},
	})
}
