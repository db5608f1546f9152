package logformat

import (
	"regexp"
	"strings"

	"github.com/pterm/pterm"
)

// vcdsHeader holds the named header rows of a VCDS export. The date row that
// triggered detection has already been consumed.
//
//	ecu      ECU type
//	blank    blank, or GXXX/FXXX block headers
//	group    "Group ..." labels, or blank
//	header1  first header line (or the group row when group is blank)
//	header2  second header line (or the units row)
//	units    units
type vcdsHeader struct {
	ecu, blank, group, header1, header2, units []string
}

func readVCDSHeader(r RowReader) (*vcdsHeader, error) {
	v := &vcdsHeader{}
	slots := []struct {
		name string
		dst  *[]string
	}{
		{"ecu", &v.ecu},
		{"blank", &v.blank},
		{"group", &v.group},
		{"header1", &v.header1},
		{"header2", &v.header2},
		{"units", &v.units},
	}
	for _, s := range slots {
		row, err := next(r, "VCDS "+s.name+" row")
		if err != nil {
			return nil, err
		}
		*s.dst = row
	}

	if len(v.group) <= 1 {
		v.shift()
	}
	return v, nil
}

// shift moves every row after the empty group slot up by one and leaves an
// empty second header line behind.
func (v *vcdsHeader) shift() {
	v.group = v.header1
	v.header1 = v.header2
	v.header2 = make([]string, len(v.header1))
}

var (
	reVCDSZeit     = regexp.MustCompile(`^Zeit$`)
	reVCDSRPM      = regexp.MustCompile(`^(Engine [Ss]peed|Motordrehzahl).*`)
	reVCDSThrottle = regexp.MustCompile(`^Throttle [Aa]ngle.*`)
	reVCDSMAF      = regexp.MustCompile(`^Mass [Aa]ir [Ff]low.*`)
	reVCDSIgn      = regexp.MustCompile(`^Ign timing.*`)
	reVCDSGroup24  = regexp.MustCompile(`^Group 24.*`)
)

// columns merges the header slots into one DatasetID name and unit per column.
func (v *vcdsHeader) columns() (names, units []string, err error) {
	n := len(v.header1)
	if len(v.header2) < n {
		return nil, nil, malformed("VCDS second header line has %d cells, want %d", len(v.header2), n)
	}
	if len(v.units) < n {
		return nil, nil, malformed("VCDS units row has %d cells, want %d", len(v.units), n)
	}
	group := padTo(v.group, n)

	names = make([]string, n)
	units = make([]string, n)
	for i := 0; i < n; i++ {
		g := strings.TrimSpace(group[i])
		h := strings.TrimSpace(v.header1[i])
		h2 := strings.TrimSpace(v.header2[i])
		u := strings.TrimSpace(v.units[i])

		if g == "TIME" && h == "STAMP" {
			g, h = "", "TIME"
		}
		if h2 == u {
			h2 = ""
		}
		if h != "" && h2 != "" {
			h += " "
		}
		h += h2

		switch {
		case reVCDSZeit.MatchString(h):
			h = "TIME"
		case reVCDSRPM.MatchString(h):
			h = "RPM"
		case reVCDSThrottle.MatchString(h):
			h = "Throttle Angle"
		case reVCDSMAF.MatchString(h), h == "Mass Flow":
			h = "MassAirFlow"
		case reVCDSIgn.MatchString(h):
			h = "Ignition Timing Angle"
		}
		h = renameBoost(h)
		if h == "" {
			h = u
		}
		// Group 24 carries a second, differently scaled pedal signal.
		if reVCDSGroup24.MatchString(g) && h == "Accelerator position" {
			h = "Accelerator position (G024)"
		}
		pterm.DefaultLogger.Trace("vcds column",
			pterm.DefaultLogger.Args("index", i, "group", g, "name", h, "unit", u))

		names[i] = h
		units[i] = u
	}
	return names, units, nil
}

// renameBoost maps the short ECUx style boost names onto the canonical ones.
func renameBoost(name string) string {
	switch name {
	case "BstActual":
		return "BoostPressureActual"
	case "BstDesired":
		return "BoostPressureDesired"
	}
	return name
}
