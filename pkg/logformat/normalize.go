package logformat

import (
	"regexp"
	"strings"

	"github.com/pterm/pterm"

	"github.com/tosih/ecux-analyzer/pkg/models"
)

// Header is the normalized description of a log's columns.
type Header struct {
	Dialect Dialect
	IDs     []models.DatasetID
	// TimeTicksPerSec scales the raw TIME column to seconds. ECUx logs
	// milliseconds; everything else logs seconds.
	TimeTicksPerSec float64
}

// Names returns the canonical column names in order.
func (h *Header) Names() []string {
	out := make([]string, len(h.IDs))
	for i, id := range h.IDs {
		out[i] = id.Name
	}
	return out
}

// ParseHeader consumes the header rows of a log from r and returns one
// DatasetID per column. After it returns, r is positioned at the first data row.
//
// requested may be Auto. An explicit dialect that disagrees with what the
// header looks like fails with ErrFormatMismatch.
func ParseHeader(r RowReader, requested Dialect) (*Header, error) {
	first, err := nextWhere(r, "CSV headers", func(row []string) bool {
		return blankFirst(row) || isComment(row)
	})
	if err != nil {
		return nil, err
	}

	detected := Detect(first)
	pterm.DefaultLogger.Debug("detected log dialect",
		pterm.DefaultLogger.Args("dialect", detected, "cell", strings.TrimSpace(first[0])))

	use, err := Resolve(requested, detected)
	if err != nil {
		return nil, err
	}

	hdr := &Header{Dialect: use, TimeTicksPerSec: 1}
	var names, units, vars []string

	switch use {
	case VCDS:
		v, err := readVCDSHeader(r)
		if err != nil {
			return nil, err
		}
		names, units, err = v.columns()
		if err != nil {
			return nil, err
		}
	case Zeitronix:
		names, units, err = zeitronixColumns(r, first, detected == Zeitronix)
	case ECUx:
		names, units = parseUnits(first)
		for i := range names {
			names[i] = renameBoost(names[i])
		}
		hdr.TimeTicksPerSec = 1000
	case EvoScan:
		names, units = evoScanColumns(first)
	case ME7Logger:
		names, units, vars, err = me7LoggerColumns(r)
	case VolvoLogger:
		names, units, vars = volvoColumns(first)
	default:
		names, units = parseUnits(first)
		for i, n := range names {
			switch {
			case n == "Time":
				names[i] = "TIME"
			case reEngineSpeed.MatchString(n):
				names[i] = "RPM"
			case n == "Mass air flow":
				names[i] = "MassAirFlow"
			}
		}
	}
	if err != nil {
		return nil, err
	}

	units = padTo(units, len(names))
	hdr.IDs = make([]models.DatasetID, len(names))
	for i, name := range names {
		unit := units[i]
		if name != "" && unit == "" {
			unit = UnitFor(name)
			if unit == "" {
				pterm.DefaultLogger.Debug("no unit for column", pterm.DefaultLogger.Args("column", name))
			}
		}
		id := models.DatasetID{Name: name, Unit: unit}
		if i < len(vars) {
			id.Alias = vars[i]
		}
		hdr.IDs[i] = id
	}
	pterm.DefaultLogger.Debug("parsed log header",
		pterm.DefaultLogger.Args("dialect", use, "columns", len(hdr.IDs)))
	return hdr, nil
}

var (
	reUnits       = regexp.MustCompile(`([\S\s]+)\(([\S\s].*)\)`)
	reVolvoUnits  = regexp.MustCompile(`([\S\s]*)\(([\S\s]+)\)\s*(.*)`)
	reEngineSpeed = regexp.MustCompile(`^Engine [Ss]peed.*`)
)

// parseUnits splits "Name (unit)" cells into a name and a unit. Cells without
// a parenthesized suffix keep their name and get no unit.
func parseUnits(row []string) (names, units []string) {
	names = trimAll(row)
	units = make([]string, len(row))
	for i, cell := range names {
		m := reUnits.FindStringSubmatch(cell)
		if m == nil {
			continue
		}
		names[i] = strings.TrimSpace(m[1])
		units[i] = m[2]
		if strings.HasPrefix(units[i], "PSI/") {
			units[i] = "PSI"
		}
	}
	return names, units
}

func zeitronixColumns(r RowReader, first []string, banner bool) (names, units []string, err error) {
	h := first
	if banner {
		// date exported line, then the real header
		if _, err := next(r, "Zeitronix export date"); err != nil {
			return nil, nil, err
		}
		h, err = nextWhere(r, "Zeitronix headers", func(row []string) bool {
			return len(row) <= 1 || blankFirst(row)
		})
		if err != nil {
			return nil, nil, err
		}
	}
	names, units = parseUnits(h)
	for i, n := range names {
		switch {
		case strings.HasSuffix(n, "RPM"):
			names[i] = "RPM"
		case strings.HasSuffix(n, "Boost"):
			names[i] = "Zeitronix Boost"
		case strings.HasSuffix(n, "TPS"):
			names[i] = "Zeitronix TPS"
		case strings.HasSuffix(n, "AFR"):
			names[i] = "Zeitronix AFR"
		case strings.HasSuffix(n, "Lambda"):
			names[i] = "Zeitronix Lambda"
		case strings.HasSuffix(n, "EGT"):
			names[i] = "Zeitronix EGT"
		case n == "Time":
			names[i] = "Zeitronix Time"
		}
	}
	return names, units, nil
}

var evoScanRenames = map[string]string{
	"LogEntrySeconds": "TIME",
	"TPS":             "ThrottlePlateAngle",
	"APP":             "AccelPedalPosition",
	"IAT":             "IntakeAirTemperature",
}

func evoScanColumns(first []string) (names, units []string) {
	names = trimAll(first)
	for i, n := range names {
		if strings.HasSuffix(n, "RPM") {
			names[i] = "RPM"
		} else if to, ok := evoScanRenames[n]; ok {
			names[i] = to
		}
	}
	return names, make([]string, len(names))
}

var me7Renames = map[string]string{
	"BoostPressureSpecified":       "BoostPressureDesired",
	"EngineLoadCorrectedSpecified": "EngineLoadCorrected",
	"AtmosphericPressure":          "BaroPressure",
	"AirFuelRatioRequired":         "AirFuelRatioDesired",
	"InjectionTime":                "EffInjectionTime",
	"InjectionTimeBank2":           "EffInjectionTimeBank2",
}

var reME7Speed = regexp.MustCompile(`^Engine[Ss]peed.*`)

// me7LoggerColumns reads the variable, unit and alias rows that follow the
// ME7-Logger banner. The alias row supplies the canonical names; the variable
// names become the secondary ids.
func me7LoggerColumns(r RowReader) (names, units, vars []string, err error) {
	v, err := nextWhere(r, "ME7Logger variables", func(row []string) bool {
		return len(row) < 1 || strings.TrimSpace(row[0]) != "TimeStamp"
	})
	if err != nil {
		return nil, nil, nil, err
	}
	u, err := nextWhere(r, "ME7Logger units", blankFirst)
	if err != nil {
		return nil, nil, nil, err
	}
	h, err := nextWhere(r, "ME7Logger aliases", blankFirst)
	if err != nil {
		return nil, nil, nil, err
	}

	vars = trimAll(v)
	units = trimAll(u)
	for i, unit := range units {
		switch unit {
		case "mbar":
			units[i] = "mBar"
		case "-":
			units[i] = ""
		}
	}

	names = trimAll(h)
	for i, n := range names {
		if reME7Speed.MatchString(n) {
			names[i] = "RPM"
		} else if to, ok := me7Renames[n]; ok {
			names[i] = to
		}
		if names[i] == "" && i < len(vars) && vars[i] != "" {
			names[i] = "ME7L " + vars[i]
		}
	}
	return names, units, vars, nil
}

var reVolvoBoost = regexp.MustCompile(`^(Actual )?Boost Pressure$`)

// volvoColumns handles "Name (unit) trailing" cells. The trailing text is
// the ECU variable name and becomes the secondary id.
func volvoColumns(first []string) (names, units, vars []string) {
	names = trimAll(first)
	units = make([]string, len(names))
	vars = make([]string, len(names))
	for i, n := range names {
		if m := reVolvoUnits.FindStringSubmatch(n); m != nil {
			n = strings.TrimSpace(m[1])
			units[i] = strings.TrimSpace(m[2])
			vars[i] = strings.TrimSpace(m[3])
			if n == "" && vars[i] != "" {
				n = "ME7L " + vars[i]
			}
		}
		switch {
		case n == "Time":
			n = "TIME"
		case reEngineSpeed.MatchString(n):
			n = "RPM"
		case reVolvoBoost.MatchString(n):
			n = "BoostPressureActual"
		case n == "Desired Boost Pressure":
			n = "BoostPressureDesired"
		case n == "Mass Air Flow":
			n = "MAF"
		}
		names[i] = n
	}
	return names, units, vars
}
