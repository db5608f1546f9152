package signals

import (
	"math"
	"strings"

	"github.com/tosih/ecux-analyzer/pkg/models"
	"github.com/tosih/ecux-analyzer/pkg/vector"
)

func boostPSI(raw string) Formula {
	return Formula{
		RequiresRaw: []string{raw},
		Compute: func(c *Context) (*models.Column, error) {
			return c.Out(toPSI(c, c.Raw(raw)), "PSI"), nil
		},
	}
}

func pressureRatio(raw string) Formula {
	return Formula{
		RequiresRaw: []string{raw},
		Compute: func(c *Context) (*models.Column, error) {
			abs := c.Raw(raw)
			return c.Out(abs.Div(ambient(c, abs)), "PR"), nil
		},
	}
}

// ldrDelta is the boost control error desired - actual, in mBar.
func ldrDelta(c *Context) vector.Vector {
	return c.Raw("BoostPressureDesired").Sub(c.Raw("BoostPressureActual"))
}

var ldrInputs = []string{"BoostPressureDesired", "BoostPressureActual"}

func init() {
	register("IntakeAirTemperature", Formula{
		RequiresRaw: []string{"IntakeAirTemperature"},
		Compute: func(c *Context) (*models.Column, error) {
			iat := c.RawColumn("IntakeAirTemperature")
			if strings.HasSuffix(iat.Unit, "C") {
				return c.Out(toFahrenheit(iat.Data), "° F"), nil
			}
			return iat, nil
		},
	})
	register("IntakeAirTemperature (C)", Formula{
		RequiresRaw: []string{"IntakeAirTemperature"},
		Compute: func(c *Context) (*models.Column, error) {
			iat := c.RawColumn("IntakeAirTemperature")
			if strings.HasSuffix(iat.Unit, "F") {
				return c.Out(toCelsius(iat.Data), "° C"), nil
			}
			return c.Out(iat.Data, iat.Unit), nil
		},
	})

	register("BoostPressureDesired (PSI)", boostPSI("BoostPressureDesired"))
	register("BoostPressureActual (PSI)", boostPSI("BoostPressureActual"))
	register("Calc BoostDesired PR", pressureRatio("BoostPressureDesired"))
	register("Calc BoostActual PR", pressureRatio("BoostPressureActual"))

	register("Zeitronix Boost (PSI)", Formula{
		RequiresRaw: []string{"Zeitronix Boost"},
		Compute: func(c *Context) (*models.Column, error) {
			return c.Out(c.Raw("Zeitronix Boost").MovingAverage(c.Filter.ZeitMAW), "PSI"), nil
		},
	})
	register("Zeitronix Boost", Formula{
		Requires: []string{"Zeitronix Boost (PSI)"},
		Compute: func(c *Context) (*models.Column, error) {
			mbar := c.Get("Zeitronix Boost (PSI)").Scale(mbarPerPSI).AddConst(stdAmbient)
			return c.Out(mbar, "mBar"), nil
		},
	})

	register("Calc Boost Spool Rate (RPM)", Formula{
		RequiresRaw: []string{"BoostPressureActual"},
		Requires:    []string{"RPM"},
		Compute: func(c *Context) (*models.Column, error) {
			abs := c.Raw("BoostPressureActual").Smooth()
			return c.Out(abs.Derivative(c.Get("RPM")).Max(0), "mBar/RPM"), nil
		},
	})
	register("Calc Boost Spool Rate Zeit (RPM)", Formula{
		Requires: []string{"Zeitronix Boost", "RPM"},
		Compute: func(c *Context) (*models.Column, error) {
			boost := c.Get("Zeitronix Boost").Smooth()
			rpm := c.Get("RPM").MovingAverage(c.Filter.ZeitMAW).Smooth()
			return c.Out(boost.Derivative(rpm).Max(0), "mBar/RPM"), nil
		},
	})
	register("Calc Boost Spool Rate (time)", Formula{
		Requires: []string{"BoostPressureActual (PSI)", "TIME"},
		Compute: func(c *Context) (*models.Column, error) {
			psi := c.Get("BoostPressureActual (PSI)").Smooth()
			return c.Out(psi.DerivativeMA(c.Get("TIME"), c.MAW()).Max(0), "PSI/sec"), nil
		},
	})

	registerBoostModel()
	registerLDR()
}

// registerBoostModel adds an approximation of the ECU's desired boost
// calculation. The constants stand in for maps that are not logged.
func registerBoostModel() {
	register("Calc evtmod", Formula{
		Requires: []string{"IntakeAirTemperature (C)"},
		Compute: func(c *Context) (*models.Column, error) {
			tans := c.Get("IntakeAirTemperature (C)")
			tmot := tans.Ident(95)
			if coolant := c.Optional("CoolantTemperature"); coolant != nil {
				tmot = coolant.Data
			}
			// KFFWTBR = 0.02
			return c.Out(tans.Add(tmot.Sub(tans).Scale(0.02)), "° C"), nil
		},
	})
	register("Calc ftbr", Formula{
		Requires: []string{"IntakeAirTemperature (C)", "Calc evtmod"},
		Compute: func(c *Context) (*models.Column, error) {
			tans := c.Get("IntakeAirTemperature (C)")
			evtmod := c.Get("Calc evtmod")
			// linear fit to stock FWFTBRTA
			fwft := tans.AddConst(673.425).DivConst(731.334)
			ftbr := evtmod.Ident(273).Div(evtmod.AddConst(273)).Mul(fwft)
			return c.Out(ftbr, ""), nil
		},
	})
	register("Calc SimBoostIATCorrection", Formula{
		Requires: []string{"Calc ftbr"},
		Compute: func(c *Context) (*models.Column, error) {
			return c.Out(c.Get("Calc ftbr").Inverse(), ""), nil
		},
	})
	register("Calc SimBoostPressureDesired", Formula{
		Compute: func(c *Context) (*models.Column, error) {
			loadCol, err := firstRaw(c, "EngineLoadRequested", "EngineLoadCorrected")
			if err != nil {
				return nil, err
			}
			psCol, err := firstRaw(c, "ME7L ps_w", "BoostPressureActual")
			if err != nil {
				return nil, err
			}
			load, ps := loadCol.Data, psCol.Data
			pu := ambient(c, ps)

			fupsrl := load.Ident(0.1037) // KFURL
			if ftbr := c.Optional("Calc ftbr"); ftbr != nil {
				fupsrl = fupsrl.Mul(ftbr.Data)
			}
			// pirg = (pu/1013) * KFPRG
			pirg := pu.Scale(70 / 1013.0)

			// residual gas: rfges = (ps*fpbrkds - pirg) * fupsrl, psagr = 250
			rfges := ps.Scale(1.106).Sub(pirg).Max(0).Mul(fupsrl)
			load = load.Max(0).Add(rfges.Scale(250).Div(ps))

			boost := load.Div(fupsrl)
			boost = boost.DivConst(1.016) // pssol, fpbrkds
			boost = boost.DivConst(1.016) // plsol, vplsspls
			return c.Out(boost.MaxOf(pu), "mBar"), nil
		},
	})
}

// registerLDR adds a reconstruction of the closed loop boost (LDR) PID.
func registerLDR() {
	register("Calc LDR error", Formula{
		RequiresRaw: ldrInputs,
		Compute: func(c *Context) (*models.Column, error) {
			return c.Out(ldrDelta(c).DivConst(100), "100mBar"), nil
		},
	})
	register("Calc LDR de/dt", Formula{
		RequiresRaw: ldrInputs,
		Requires:    []string{"TIME"},
		Compute: func(c *Context) (*models.Column, error) {
			d := ldrDelta(c).DerivativeMA(c.Get("TIME"), c.MAW())
			return c.Out(d.Scale(c.Env.PID.TimeConstant).DivConst(100), "100mBar"), nil
		},
	})
	register("Calc LDR I e dt", Formula{
		RequiresRaw: ldrInputs,
		Requires:    []string{"TIME"},
		Compute: func(c *Context) (*models.Column, error) {
			pid := c.Env.PID
			i := ldrDelta(c).Integral(c.Get("TIME"), 0, pid.ILimit/pid.I*100)
			return c.Out(i.DivConst(pid.TimeConstant).DivConst(100), "100mBar"), nil
		},
	})
	register("Calc LDR PID", Formula{
		Requires: []string{"Calc LDR error", "Calc LDR I e dt", "Calc LDR de/dt"},
		Compute: func(c *Context) (*models.Column, error) {
			pid := c.Env.PID
			e := c.Get("Calc LDR error")
			p := e.Map(func(x float64) float64 {
				if math.Abs(x) < pid.PDeadband/100 {
					return 0
				}
				return x * pid.P
			})
			i := c.Get("Calc LDR I e dt").Scale(pid.I)
			// D gain band follows the size of the error
			d := c.Get("Calc LDR de/dt").Map2(e, func(x, y float64) float64 {
				y = math.Abs(y)
				switch {
				case y < 3:
					return x * pid.D[0]
				case y < 5:
					return x * pid.D[1]
				case y < 7:
					return x * pid.D[2]
				}
				return x * pid.D[3]
			})
			return c.Out(p.Add(i).Add(d).Clamp(0, 95), "%"), nil
		},
	})
	register("Calc pspvds", Formula{
		RequiresRaw: []string{"ME7L ps_w", "BoostPressureActual"},
		Compute: func(c *Context) (*models.Column, error) {
			return c.Out(c.Raw("ME7L ps_w").Div(c.Raw("BoostPressureActual")), ""), nil
		},
	})
}
