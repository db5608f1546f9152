package logformat

import "regexp"

type unitRule struct {
	pattern *regexp.Regexp
	unit    string
}

func rule(pattern, unit string) unitRule {
	return unitRule{pattern: regexp.MustCompile(pattern), unit: unit}
}

// unitTable supplies units for columns whose header carries none. The first
// matching pattern wins, so specific names come before broad ones.
var unitTable = []unitRule{
	rule(`^Zeitronix Time$`, "s"),
	rule(`^Zeitronix Boost$`, "PSI"),
	rule(`^Zeitronix AFR$`, "AFR"),
	rule(`^Zeitronix Lambda$`, "lambda"),
	rule(`^Zeitronix EGT$`, "C"),
	rule(`^Zeitronix TPS$`, "%"),
	rule(`^TIME$`, "s"),
	rule(`^Sample$`, "#"),
	rule(`^RPM$`, "RPM"),
	rule(`^(MassAirFlow|MAF)$`, "g/sec"),
	rule(`^(BoostPressure(Actual|Desired)|BaroPressure|ChargePressure.*)$`, "mBar"),
	rule(`^(IntakeAirTemperature|CoolantTemperature|.*Temperature)$`, "C"),
	rule(`^(AcceleratorPedalPosition|AccelPedalPosition|Accelerator position.*|Pedal Position)$`, "%"),
	rule(`^(ThrottlePlateAngle|Throttle Angle|Throttle Valve Angle|TPS)$`, "%"),
	rule(`^(Gear|SelectedGear|Engaged Gear)$`, "gear"),
	rule(`^.*DutyCycle.*$`, "%"),
	rule(`^(EffInjectionTime|FuelInjectorOnTime|InjectionTime).*$`, "ms"),
	rule(`^.*Load.*$`, "%"),
	rule(`^(IgnitionTiming.*|Ignition Timing.*|IgnitionRetard.*)$`, "degrees"),
	rule(`^AirFuelRatio.*$`, "lambda"),
	rule(`^(VehicleSpeed|Vehicle Speed)$`, "km/h"),
	rule(`^(BatteryVoltage|Voltage)$`, "V"),
}

// UnitFor returns the table unit for a canonical column name, or "" when the
// name is not known.
func UnitFor(name string) string {
	for _, r := range unitTable {
		if r.pattern.MatchString(name) {
			return r.unit
		}
	}
	return ""
}
