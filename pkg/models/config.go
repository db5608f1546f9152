package models

// Car holds the vehicle constants used by the power and velocity formulas.
type Car struct {
	Mass          float64 `yaml:"mass"`           // kg, car + driver
	RPMPerMPH     float64 `yaml:"rpm_per_mph"`    // gearing of the logged gear
	Cd            float64 `yaml:"cd"`             // drag coefficient
	FA            float64 `yaml:"fa"`             // frontal area, m^2
	RollingDrag   float64 `yaml:"rolling_drag"`   // rolling resistance coefficient
	DrivelineLoss float64 `yaml:"driveline_loss"` // fraction, 0.15 = 15%
	StaticLoss    float64 `yaml:"static_loss"`    // HP
}

// Fuel holds the fuel system constants.
type Fuel struct {
	Injector      float64 `yaml:"injector"` // cc/min
	Cylinders     int     `yaml:"cylinders"`
	Turbos        int     `yaml:"turbos"`
	MAFCorrection float64 `yaml:"maf_correction"`
	MAFOffset     float64 `yaml:"maf_offset"` // g/sec
}

// SAE toggles the atmospheric power correction.
type SAE struct {
	Enabled    bool    `yaml:"enabled"`
	Correction float64 `yaml:"correction"`
}

// PID holds the boost controller constants used to reconstruct the ECU's
// closed loop wastegate duty.
type PID struct {
	P            float64    `yaml:"p"`
	I            float64    `yaml:"i"`
	D            [4]float64 `yaml:"d"`           // gains for |error| < 3, < 5, < 7, >= 7 (100 mBar)
	PDeadband    float64    `yaml:"p_deadband"`  // mBar
	TimeConstant float64    `yaml:"time_constant"`
	ILimit       float64    `yaml:"i_limit"` // %
}

// Env aggregates every constant the derived signals depend on.
type Env struct {
	Car  Car  `yaml:"car"`
	Fuel Fuel `yaml:"fuel"`
	SAE  SAE  `yaml:"sae"`
	PID  PID  `yaml:"pid"`
}

// Filter configures which samples make up a valid pull.
type Filter struct {
	Enabled          bool    `yaml:"enabled"`
	Gear             int     `yaml:"gear"` // -1 = any gear
	MinPedal         float64 `yaml:"min_pedal"`
	MinThrottle      float64 `yaml:"min_throttle"`
	MinRPM           float64 `yaml:"min_rpm"`
	MaxRPM           float64 `yaml:"max_rpm"`
	MonotonicRPMFuzz float64 `yaml:"monotonic_rpm_fuzz"`
	MinPoints        int     `yaml:"min_points"`
	MinRPMRange      float64 `yaml:"min_rpm_range"`
	HPTQMAW          float64 `yaml:"hptq_maw"` // power/torque smoothing, 1.0 ~ 0.1 sec
	ZeitMAW          int     `yaml:"zeit_maw"` // Zeitronix smoothing, samples
}

// Profile is a named Env/Filter pair as stored in a profile file.
type Profile struct {
	Name   string `yaml:"name"`
	Env    Env    `yaml:"env"`
	Filter Filter `yaml:"filter"`
}

// Stock B5 S4 values.
var DefaultEnv = Env{
	Car: Car{
		Mass:          1700,
		RPMPerMPH:     72.1,
		Cd:            0.31,
		FA:            2.034,
		RollingDrag:   0.015,
		DrivelineLoss: 0.25,
		StaticLoss:    0,
	},
	Fuel: Fuel{
		Injector:      349,
		Cylinders:     6,
		Turbos:        2,
		MAFCorrection: 1,
		MAFOffset:     0,
	},
	SAE: SAE{
		Enabled:    false,
		Correction: 1,
	},
	PID: PID{
		P:            0.33,
		I:            0.13,
		D:            [4]float64{0.03, 0.05, 0.07, 0.09},
		PDeadband:    100,
		TimeConstant: 0.3,
		ILimit:       80,
	},
}

var DefaultFilter = Filter{
	Enabled:          true,
	Gear:             -1,
	MinPedal:         95,
	MinThrottle:      40,
	MinRPM:           2500,
	MaxRPM:           8000,
	MonotonicRPMFuzz: 100,
	MinPoints:        30,
	MinRPMRange:      1300,
	HPTQMAW:          5.0,
	ZeitMAW:          30,
}

// DefaultProfile returns a profile populated with the defaults.
func DefaultProfile() Profile {
	return Profile{Name: "default", Env: DefaultEnv, Filter: DefaultFilter}
}
