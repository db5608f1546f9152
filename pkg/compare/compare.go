package compare

import (
	"fmt"
	"math"
	"path/filepath"

	"github.com/pterm/pterm"
	"golang.org/x/sync/errgroup"

	"github.com/tosih/ecux-analyzer/pkg/ecux"
	"github.com/tosih/ecux-analyzer/pkg/logformat"
	"github.com/tosih/ecux-analyzer/pkg/models"
	"github.com/tosih/ecux-analyzer/pkg/reader"
)

// PeakSignals are compared when the caller names none.
var PeakSignals = []string{
	"Calc WHP", "Calc WTQ", "Calc HP", "Calc TQ",
	"BoostPressureActual (PSI)", "Calc Boost Spool Rate (RPM)",
	"IgnitionTimingAngleOverall", "Calc AFR", "IntakeAirTemperature",
}

// Peak is the highest value of one signal in each log. NaN means the log
// cannot produce the signal.
type Peak struct {
	ID   string
	Unit string
	A, B float64
}

// Diff returns B - A.
func (p Peak) Diff() float64 { return p.B - p.A }

// Result is the comparison of two logs.
type Result struct {
	NameA, NameB string
	RunsA, RunsB int
	// best FATS over all pulls, 0 when no pull covers the RPM span
	FATSA, FATSB     float64
	RPMStart, RPMEnd float64
	Peaks            []Peak
}

// LoadPair reads both logs concurrently.
func LoadPair(fileA, fileB string, dialect logformat.Dialect, p models.Profile) (*ecux.Dataset, *ecux.Dataset, error) {
	var a, b *ecux.Dataset
	var g errgroup.Group
	g.Go(func() (err error) {
		a, err = reader.ReadLog(fileA, dialect, p)
		return err
	})
	g.Go(func() (err error) {
		b, err = reader.ReadLog(fileB, dialect, p)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return a, b, nil
}

// Compare computes the best FATS of each log and the peaks of ids, within
// the valid pulls when there are any.
func Compare(nameA, nameB string, a, b *ecux.Dataset, ids []string, rpmStart, rpmEnd float64) Result {
	if len(ids) == 0 {
		ids = PeakSignals
	}
	res := Result{
		NameA: nameA, NameB: nameB,
		RunsA: len(a.Ranges()), RunsB: len(b.Ranges()),
		FATSA: bestFATS(a, rpmStart, rpmEnd), FATSB: bestFATS(b, rpmStart, rpmEnd),
		RPMStart: rpmStart, RPMEnd: rpmEnd,
	}
	for _, id := range ids {
		pa, unitA := peak(a, id)
		pb, unitB := peak(b, id)
		if math.IsNaN(pa) && math.IsNaN(pb) {
			continue
		}
		unit := unitA
		if unit == "" {
			unit = unitB
		}
		res.Peaks = append(res.Peaks, Peak{ID: id, Unit: unit, A: pa, B: pb})
	}
	return res
}

func bestFATS(d *ecux.Dataset, rpmStart, rpmEnd float64) float64 {
	best := 0.0
	for _, et := range d.CalcFATSAll(rpmStart, rpmEnd) {
		if et > 0 && (best == 0 || et < best) {
			best = et
		}
	}
	return best
}

func peak(d *ecux.Dataset, id string) (float64, string) {
	c, err := d.Get(id)
	if err != nil {
		return math.NaN(), ""
	}
	max := math.Inf(-1)
	ranges := d.Ranges()
	if len(ranges) == 0 {
		ranges = []models.Range{{Start: 0, End: c.Len() - 1}}
	}
	for _, r := range ranges {
		for _, v := range c.Data.Slice(r.Start, r.End) {
			if v > max {
				max = v
			}
		}
	}
	if math.IsInf(max, -1) {
		return math.NaN(), c.Unit
	}
	return max, c.Unit
}

// Display prints a comparison.
func Display(res Result) {
	pterm.DefaultHeader.WithFullWidth().Println("Log Comparison")
	pterm.Info.Printf("A: %s (%d pulls)\n", filepath.Base(res.NameA), res.RunsA)
	pterm.Info.Printf("B: %s (%d pulls)\n", filepath.Base(res.NameB), res.RunsB)

	pterm.Println()
	pterm.DefaultSection.Printf("FATS %.0f-%.0f RPM\n", res.RPMStart, res.RPMEnd)
	if res.FATSA > 0 && res.FATSB > 0 {
		pterm.Info.Printf("A: %.3fs  B: %.3fs\n", res.FATSA, res.FATSB)
		switch d := res.FATSB - res.FATSA; {
		case d < 0:
			pterm.Success.Printf("B is %.3fs quicker\n", -d)
		case d > 0:
			pterm.Warning.Printf("B is %.3fs slower\n", d)
		}
	} else {
		pterm.Warning.Println("FATS needs a pull covering the RPM span in both logs")
	}

	if len(res.Peaks) == 0 {
		return
	}
	maxAbs := 0.0
	for _, p := range res.Peaks {
		if d := math.Abs(p.Diff()); !math.IsNaN(d) && d > maxAbs {
			maxAbs = d
		}
	}

	pterm.Println()
	pterm.DefaultSection.Println("Peaks")
	data := [][]string{{"Signal", "Unit", "A", "B", "B - A", ""}}
	for _, p := range res.Peaks {
		data = append(data, []string{
			p.ID, p.Unit, formatPeak(p.A), formatPeak(p.B), formatPeak(p.Diff()), getDiffSymbol(p.Diff(), maxAbs),
		})
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

func formatPeak(v float64) string {
	if math.IsNaN(v) {
		return "-"
	}
	return fmt.Sprintf("%.2f", v)
}

func getDiffSymbol(val, maxAbs float64) string {
	if val == 0 || math.IsNaN(val) || maxAbs == 0 {
		return pterm.FgGray.Sprint("·· ")
	}

	normalized := val / maxAbs

	if normalized < -0.5 {
		return pterm.FgBlue.Sprint("▼▼ ")
	} else if normalized < -0.1 {
		return pterm.FgCyan.Sprint("▼  ")
	} else if normalized > 0.5 {
		return pterm.FgRed.Sprint("▲▲ ")
	} else if normalized > 0.1 {
		return pterm.FgYellow.Sprint("▲  ")
	}

	return pterm.FgGray.Sprint("·  ")
}
