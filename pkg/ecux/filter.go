package ecux

import (
	"fmt"
	"math"
	"strings"

	"github.com/pterm/pterm"

	"github.com/tosih/ecux-analyzer/pkg/models"
	"github.com/tosih/ecux-analyzer/pkg/vector"
)

var (
	pedalIDs    = []string{"AcceleratorPedalPosition", "AccelPedalPosition", "Zeitronix TPS", "Accelerator position", "Pedal Position"}
	throttleIDs = []string{"ThrottlePlateAngle", "Throttle Angle", "Throttle Valve Angle", "TPS"}
	gearIDs     = []string{"Gear", "SelectedGear", "Engaged Gear"}
)

// validator decides which samples and ranges make up a pull. Any of the
// vectors may be nil when the log does not have that signal.
type validator struct {
	filter   models.Filter
	pedal    vector.Vector
	throttle vector.Vector
	gear     vector.Vector
	zboost   vector.Vector
	rpm      vector.Vector

	reasons []string // why the last rejected sample or range failed
	pending []string
}

// signal returns the column data, treating an all-zero column as absent.
func signal(c *models.Column) vector.Vector {
	if c == nil || c.Data.IsZero() {
		return nil
	}
	return c.Data
}

func (v *validator) reject(format string, args ...any) {
	v.pending = append(v.pending, fmt.Sprintf(format, args...))
}

// settle records the pending rejections and reports whether there were none.
func (v *validator) settle() bool {
	if len(v.pending) == 0 {
		return true
	}
	v.reasons = append(v.reasons[:0], v.pending...)
	v.pending = v.pending[:0]
	return false
}

func (v *validator) dataValid(i int) bool {
	if !v.filter.Enabled {
		return true
	}
	f := v.filter
	if f.Gear >= 0 && v.gear != nil && int(math.Round(v.gear[i])) != f.Gear {
		v.reject("gear %d != %d", int(math.Round(v.gear[i])), f.Gear)
	}
	if v.pedal != nil && v.pedal[i] < f.MinPedal {
		v.reject("pedal %.1f < %.1f", v.pedal[i], f.MinPedal)
	}
	if v.throttle != nil && v.throttle[i] < f.MinThrottle {
		v.reject("throttle %.1f < %.1f", v.throttle[i], f.MinThrottle)
	}
	if v.zboost != nil && v.zboost[i] < 0 {
		v.reject("zboost %.1f < 0", v.zboost[i])
	}
	if rpm := v.rpm; rpm != nil {
		if rpm[i] < f.MinRPM {
			v.reject("rpm %.0f < %.0f", rpm[i], f.MinRPM)
		}
		if rpm[i] > f.MaxRPM {
			v.reject("rpm %.0f > %.0f", rpm[i], f.MaxRPM)
		}
		if i > 0 && i+2 < len(rpm) && rpm[i-1]-rpm[i+1] > f.MonotonicRPMFuzz {
			v.reject("rpm fell back %.0f > %.0f", rpm[i-1]-rpm[i+1], f.MonotonicRPMFuzz)
		}
	}

	if !v.settle() {
		pterm.DefaultLogger.Trace("sample rejected",
			pterm.DefaultLogger.Args("index", i, "reasons", strings.Join(v.reasons, ", ")))
		return false
	}
	return true
}

func (v *validator) rangeValid(r models.Range) bool {
	if !v.filter.Enabled {
		return true
	}
	if r.Size() < v.filter.MinPoints {
		v.reject("too few points %d < %d", r.Size(), v.filter.MinPoints)
	}
	if v.rpm != nil && v.rpm[r.End] < v.rpm[r.Start]+v.filter.MinRPMRange {
		v.reject("rpm range %.0f < %.0f", v.rpm[r.End]-v.rpm[r.Start], v.filter.MinRPMRange)
	}

	if !v.settle() {
		pterm.DefaultLogger.Trace("range rejected",
			pterm.DefaultLogger.Args("start", r.Start, "end", r.End, "reasons", strings.Join(v.reasons, ", ")))
		return false
	}
	return true
}

// Reasons returns why the last rejected sample or range failed.
func (v *validator) Reasons() []string {
	return append([]string(nil), v.reasons...)
}
