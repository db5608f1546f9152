package logformat

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetect(t *testing.T) {
	cases := []struct {
		cell string
		want Dialect
	}{
		{"VCDS", VCDS},
		{"Tuesday", VCDS},
		{"Dienstag", VCDS},
		{"  Saturday  ", VCDS},
		{`Filename: C:\logs\run1.zto`, Zeitronix},
		{"Filename: pull.zdl", Zeitronix},
		{"Filename: <unnamed file>", Zeitronix},
		{"TIME", ECUx},
		{"ME7-Logger version 1.20", ME7Logger},
		{"LogID", EvoScan},
		{"Time (sec)", VolvoLogger},
		{"Time(sec)", VolvoLogger},
		{"Filename: run.csv", Unknown},
		{"Timestamp", Unknown},
		{"random junk", Unknown},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Detect([]string{tc.cell, "x"}), tc.cell)
		assert.Equal(t, tc.want, Detect([]string{tc.cell, "x"}), "repeat %q", tc.cell)
	}
	assert.Equal(t, Unknown, Detect(nil))
}

func TestResolve(t *testing.T) {
	d, err := Resolve(Auto, VCDS)
	require.NoError(t, err)
	assert.Equal(t, VCDS, d)

	d, err = Resolve(ME7Logger, Unknown)
	require.NoError(t, err)
	assert.Equal(t, ME7Logger, d)

	d, err = Resolve(ECUx, ECUx)
	require.NoError(t, err)
	assert.Equal(t, ECUx, d)

	_, err = Resolve(VCDS, ME7Logger)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrFormatMismatch))
	var mm *MismatchError
	require.True(t, errors.As(err, &mm))
	assert.Equal(t, VCDS, mm.Requested)
	assert.Equal(t, ME7Logger, mm.Detected)
}

func TestParseDialect(t *testing.T) {
	d, err := ParseDialect("ME7Logger")
	require.NoError(t, err)
	assert.Equal(t, ME7Logger, d)

	d, err = ParseDialect("")
	require.NoError(t, err)
	assert.Equal(t, Auto, d)

	_, err = ParseDialect("megalog")
	assert.Error(t, err)
}

func names(h *Header) []string { return h.Names() }

func TestParseHeaderECUx(t *testing.T) {
	r := NewSliceReader([][]string{
		{"# exported by ECUx"},
		{""},
		{"TIME", "RPM", "BstActual (mBar)", "BstDesired", "MassAirFlow (g/sec)"},
		{"0", "2500", "1500", "1600", "100"},
	})
	h, err := ParseHeader(r, Auto)
	require.NoError(t, err)
	assert.Equal(t, ECUx, h.Dialect)
	assert.Equal(t, 1000.0, h.TimeTicksPerSec)
	assert.Equal(t, []string{"TIME", "RPM", "BoostPressureActual", "BoostPressureDesired", "MassAirFlow"}, names(h))
	assert.Equal(t, "mBar", h.IDs[2].Unit)
	assert.Equal(t, "mBar", h.IDs[3].Unit, "filled from the unit table")
	assert.Equal(t, "g/sec", h.IDs[4].Unit)

	row, err := r.Read()
	require.NoError(t, err)
	assert.Equal(t, "0", row[0], "reader is left at the first data row")
}

func TestParseHeaderVCDS(t *testing.T) {
	r := NewSliceReader([][]string{
		{"Montag", "12 March 2012"},
		{"8D0907551M", "ADP"},
		{"", ""},
		{"Group 3", "Group 3", "Group 3", "Group 115", "Group 115", "Group 115"},
		{"Zeit", "Engine Speed", "Mass Air Flow", "Zeit", "BstActual", "BstDesired"},
		{"", "(G28)", "(G70)", "", "", ""},
		{"s", "/min", "g/s", "s", "mbar", "mbar"},
	})
	h, err := ParseHeader(r, Auto)
	require.NoError(t, err)
	assert.Equal(t, VCDS, h.Dialect)
	assert.Equal(t, []string{"TIME", "RPM", "MassAirFlow", "TIME", "BoostPressureActual", "BoostPressureDesired"}, names(h))
	assert.Equal(t, "mbar", h.IDs[4].Unit)
	assert.Equal(t, "s", h.IDs[0].Unit)
}

func TestParseHeaderVCDSGroupRow(t *testing.T) {
	r := NewSliceReader([][]string{
		{"VCDS"},
		{"8D0907551M"},
		{""},
		{"Group 24", "Group 24", "Group 24"},
		{"Zeit", "Accelerator", "Throttle angle"},
		{"", "position", "(G187)"},
		{"s", "%", "%"},
	})
	h, err := ParseHeader(r, VCDS)
	require.NoError(t, err)
	assert.Equal(t, []string{"TIME", "Accelerator position (G024)", "Throttle Angle"}, names(h))
	assert.Equal(t, "%", h.IDs[1].Unit)
}

func TestParseHeaderVCDSBlankGroup(t *testing.T) {
	r := NewSliceReader([][]string{
		{"Freitag"},
		{"ecu"},
		{""},
		{""},
		{"TIME", "Group 1", "Group 1"},
		{"STAMP", "Engine speed", "Ign timing"},
		{"", "/min", "deg"},
	})
	h, err := ParseHeader(r, Auto)
	require.NoError(t, err)
	assert.Equal(t, []string{"TIME", "RPM", "Ignition Timing Angle"}, names(h))
	assert.Equal(t, []string{"s", "/min", "deg"}, []string{h.IDs[0].Unit, h.IDs[1].Unit, h.IDs[2].Unit})
}

func TestVCDSShift(t *testing.T) {
	v := &vcdsHeader{
		group:   []string{""},
		header1: []string{"Group 1", "Group 1"},
		header2: []string{"Engine speed", "Ign timing"},
		units:   []string{"/min", "deg"},
	}
	v.shift()
	assert.Equal(t, []string{"Group 1", "Group 1"}, v.group)
	assert.Equal(t, []string{"Engine speed", "Ign timing"}, v.header1)
	assert.Equal(t, []string{"", ""}, v.header2)

	names, units, err := v.columns()
	require.NoError(t, err)
	assert.Equal(t, []string{"RPM", "Ignition Timing Angle"}, names)
	assert.Equal(t, []string{"/min", "deg"}, units)
}

func TestParseHeaderVCDSShortUnits(t *testing.T) {
	r := NewSliceReader([][]string{
		{"VCDS"},
		{"ecu"},
		{""},
		{"Group 1", "Group 1", "Group 1"},
		{"a", "b", "c"},
		{"d", "e", "f"},
		{"u1"},
	})
	_, err := ParseHeader(r, Auto)
	assert.True(t, errors.Is(err, ErrMalformedHeader))
}

func TestParseHeaderME7Logger(t *testing.T) {
	r := NewSliceReader([][]string{
		{"ME7-Logger version 1.20 (c) 2010"},
		{"Log started at: 12.03.2012"},
		{""},
		{"TimeStamp", "nmot_w", "rlsol_w", "pus_w", "ps_w", "ti_b1"},
		{"s", "1/min", "%", "mbar", "-", "ms"},
		{"TimeStamp", "EngineSpeed", "EngineLoadCorrectedSpecified", "AtmosphericPressure", "", "InjectionTime"},
		{"0.1", "3000", "120", "1000", "1500", "10"},
	})
	h, err := ParseHeader(r, Auto)
	require.NoError(t, err)
	assert.Equal(t, ME7Logger, h.Dialect)
	assert.Equal(t, []string{"TimeStamp", "RPM", "EngineLoadCorrected", "BaroPressure", "ME7L ps_w", "EffInjectionTime"}, names(h))
	assert.Equal(t, "nmot_w", h.IDs[1].Alias)
	assert.Equal(t, "mBar", h.IDs[3].Unit)
	assert.Equal(t, "", h.IDs[4].Unit)
}

func TestParseHeaderME7LoggerMissingRows(t *testing.T) {
	r := NewSliceReader([][]string{
		{"ME7-Logger"},
		{"TimeStamp", "nmot_w"},
		{"s", "1/min"},
	})
	_, err := ParseHeader(r, Auto)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformedHeader))
}

func TestParseHeaderZeitronix(t *testing.T) {
	r := NewSliceReader([][]string{
		{"Filename: C:\\zt\\pull.zto"},
		{"Date exported: 3/12/2012"},
		{""},
		{"Time", "Zeit RPM", "Zeit Boost (PSI/bar)", "Zeit AFR", "Zeit EGT (C)"},
	})
	h, err := ParseHeader(r, Auto)
	require.NoError(t, err)
	assert.Equal(t, []string{"Zeitronix Time", "RPM", "Zeitronix Boost", "Zeitronix AFR", "Zeitronix EGT"}, names(h))
	assert.Equal(t, "PSI", h.IDs[2].Unit)
	assert.Equal(t, "C", h.IDs[4].Unit)
}

func TestParseHeaderEvoScan(t *testing.T) {
	r := NewSliceReader([][]string{
		{"LogID", "LogEntrySeconds", "RPM", "TPS", "APP", "IAT"},
	})
	h, err := ParseHeader(r, EvoScan)
	require.NoError(t, err)
	assert.Equal(t, []string{"LogID", "TIME", "RPM", "ThrottlePlateAngle", "AccelPedalPosition", "IntakeAirTemperature"}, names(h))
}

func TestParseHeaderVolvo(t *testing.T) {
	r := NewSliceReader([][]string{
		{"Time (sec)", "Engine Speed (rpm)", "Boost Pressure (mbar)", "(hPa) pus_w"},
	})
	h, err := ParseHeader(r, Auto)
	require.NoError(t, err)
	assert.Equal(t, VolvoLogger, h.Dialect)
	assert.Equal(t, []string{"TIME", "RPM", "BoostPressureActual", "ME7L pus_w"}, names(h))
	assert.Equal(t, "hPa", h.IDs[3].Unit)
	assert.Equal(t, "pus_w", h.IDs[3].Alias)
}

func TestParseHeaderUnknown(t *testing.T) {
	r := NewSliceReader([][]string{
		{"Time (s)", "Engine speed (rpm)", "Mass air flow", "Oil pressure"},
	})
	h, err := ParseHeader(r, Auto)
	require.NoError(t, err)
	assert.Equal(t, Unknown, h.Dialect)
	assert.Equal(t, []string{"TIME", "RPM", "MassAirFlow", "Oil pressure"}, names(h))
	assert.Equal(t, "s", h.IDs[0].Unit)
	assert.Equal(t, "g/sec", h.IDs[2].Unit)
	assert.Equal(t, "", h.IDs[3].Unit)
}

func TestParseHeaderMismatch(t *testing.T) {
	r := NewSliceReader([][]string{{"TIME", "RPM"}})
	_, err := ParseHeader(r, VCDS)
	assert.True(t, errors.Is(err, ErrFormatMismatch))
}

func TestParseHeaderEmpty(t *testing.T) {
	_, err := ParseHeader(NewSliceReader([][]string{{""}, {"# only comments"}}), Auto)
	assert.True(t, errors.Is(err, ErrMalformedHeader))
}

type failingReader struct{}

func (failingReader) Read() ([]string, error) { return nil, io.ErrUnexpectedEOF }

func TestParseHeaderIOFailure(t *testing.T) {
	_, err := ParseHeader(failingReader{}, Auto)
	assert.True(t, errors.Is(err, ErrIO))
	assert.False(t, errors.Is(err, ErrMalformedHeader))
}

func TestUnitFor(t *testing.T) {
	assert.Equal(t, "RPM", UnitFor("RPM"))
	assert.Equal(t, "mBar", UnitFor("BoostPressureActual"))
	assert.Equal(t, "%", UnitFor("EngineLoadCorrected"))
	assert.Equal(t, "ms", UnitFor("EffInjectionTimeBank2"))
	assert.Equal(t, "", UnitFor("Oil pressure"))
}
