package signals

import "regexp"

// related lists the derived signals that become meaningful once a raw
// column is present.
var related = map[string][]string{
	"RPM": {
		"Calc Velocity", "Calc Acceleration (RPM/s)", "Calc Acceleration (m/s^2)",
		"Calc Acceleration (g)", "Calc WHP", "Calc WTQ", "Calc HP", "Calc TQ", "Calc Drag",
	},
	"MassAirFlow": {
		"Calc Load", "Calc Load Corrected", "Calc MAF", "Calc MassAirFlow df/dt",
		"Calc Turbo Flow", "Calc Turbo Flow (lb/min)",
	},
	"AirFuelRatioDesired":    {"AirFuelRatioDesired (AFR)"},
	"AirFuelRatioCurrent":    {"AirFuelRatioCurrent (AFR)"},
	"TargetAFRDriverRequest": {"TargetAFRDriverRequest (AFR)"},
	"FuelInjectorOnTime": {
		"Calc Fuel Mass", "Calc AFR", "Calc lambda", "Calc lambda error", "FuelInjectorDutyCycle",
	},
	"EffInjectionTime":      {"EffInjectorDutyCycle", "Calc Fuel Mass", "Calc AFR", "Calc lambda"},
	"EffInjectionTimeBank2": {"EffInjectorDutyCycleBank2"},
	"BoostPressureDesired":  {"BoostPressureDesired (PSI)", "Calc BoostDesired PR"},
	"BoostPressureActual": {
		"BoostPressureActual (PSI)", "Calc BoostActual PR", "Calc Boost Spool Rate (RPM)",
		"Calc Boost Spool Rate (time)", "Calc LDR error", "Calc LDR de/dt", "Calc LDR I e dt",
		"Calc LDR PID",
	},
	"IgnitionTimingAngleOverall": {"IgnitionTimingAngleOverallDesired"},
	"EngineLoadRequested":        {"Calc SimBoostPressureDesired"},
	"EngineLoadDesired":          {"Calc SimBoostPressureDesired"},
	"EngineLoadCorrected":        {"Calc LoadSpecified correction"},
	"Zeitronix Boost":            {"Zeitronix Boost (PSI)", "Calc Boost Spool Rate Zeit (RPM)"},
	"Zeitronix AFR":              {"Zeitronix AFR (lambda)"},
	"Zeitronix Lambda":           {"Zeitronix Lambda (AFR)"},
	"Engine torque":              {"Engine torque (ft-lb)", "Engine HP"},
	"IntakeAirTemperature": {
		"IntakeAirTemperature (C)", "Calc evtmod", "Calc ftbr", "Calc SimBoostIATCorrection",
	},
	"ME7L ps_w": {"Calc pspvds"},
}

// Related returns the derived signals associated with a raw column id.
func Related(raw string) []string {
	return append([]string(nil), related[raw]...)
}

type groupRule struct {
	pattern *regexp.Regexp
	group   string
}

// groups are tried in order; "Calc ..." has to win over the Load pattern.
var groups = []groupRule{
	{regexp.MustCompile(`^(RPM|MassAirFlow|TIME|Sample)$`), ""},
	{regexp.MustCompile(`^Calc .*`), "Calc"},
	{regexp.MustCompile(`.*(TargetAFR|O2SVoltage|AdaptationPartial|Fuel|Lambda|AirFuelRatio|Inject).*`), "Fuel"},
	{regexp.MustCompile(`^(Boost|Wastegate).*`), "Boost"},
	{regexp.MustCompile(`^(|Eta|Avg)Ign.*`), "Ignition"},
	{regexp.MustCompile(`^Knock.*`), "Knock"},
	{regexp.MustCompile(`^EGT.*`), "EGT"},
	{regexp.MustCompile(`^OXS.*`), "OXS"},
	{regexp.MustCompile(`.*Load.*`), "Load"},
	{regexp.MustCompile(`^Zeitronix.*`), "Zeitronix"},
	{regexp.MustCompile(`^ME7L.*`), "ME7 Logger"},
}

// Group returns the category a signal id is listed under, or "" for top
// level signals.
func Group(id string) string {
	for _, g := range groups {
		if g.pattern.MatchString(id) {
			return g.group
		}
	}
	return ""
}

// Available returns every formula id that can be computed from the engine's
// log, sorted. It computes each of them.
func Available(e *Engine) []string {
	var out []string
	for _, id := range Formulas() {
		if e.Lookup(id) != nil {
			out = append(out, id)
		}
	}
	return out
}
