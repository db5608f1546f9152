package renderer

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/pterm/pterm"

	"github.com/tosih/ecux-analyzer/pkg/ecux"
	"github.com/tosih/ecux-analyzer/pkg/models"
	"github.com/tosih/ecux-analyzer/pkg/signals"
)

// RenderSummary prints the header box of a loaded log.
func RenderSummary(filename string, d *ecux.Dataset) {
	title := fmt.Sprintf("%s | %s | %d samples | %.1f samples/s",
		filepath.Base(filename), d.Dialect(), d.Len(), d.SamplesPerSec())

	var b strings.Builder
	fmt.Fprintf(&b, "Columns: %d\n", len(d.IDs()))
	fmt.Fprintf(&b, "Pulls:   %d\n", len(d.Ranges()))
	if n := d.Skipped(); n > 0 {
		fmt.Fprintf(&b, "Skipped: %d rows\n", n)
	}
	f := d.Filter()
	if f.Enabled {
		fmt.Fprintf(&b, "Filter:  gear %s, pedal >= %.0f, throttle >= %.0f, %.0f-%.0f RPM, >= %d points",
			gearName(f.Gear), f.MinPedal, f.MinThrottle, f.MinRPM, f.MaxRPM, f.MinPoints)
	} else {
		b.WriteString("Filter:  off")
	}
	pterm.DefaultBox.WithTitle(title).WithTitleTopLeft().Println(b.String())
}

func gearName(g int) string {
	if g < 0 {
		return "any"
	}
	return fmt.Sprint(g)
}

// ColumnRows returns one table row per column: id, alias, unit, group, min, max.
func ColumnRows(cols []*models.Column) [][]string {
	data := [][]string{{"Signal", "Alias", "Unit", "Group", "Min", "Max"}}
	for _, c := range cols {
		lo, hi := c.Data.Span()
		data = append(data, []string{
			c.ID, c.Alias, c.Unit, signals.Group(c.ID), formatValue(lo), formatValue(hi),
		})
	}
	return data
}

// RenderColumns lists every column with its range of values.
func RenderColumns(cols []*models.Column) {
	pterm.DefaultSection.Println("Signals")
	pterm.DefaultTable.WithHasHeader().WithData(ColumnRows(cols)).Render()
}

// RenderRanges lists the pulls with the RPM span each covers.
func RenderRanges(d *ecux.Dataset) {
	pterm.DefaultSection.Println("Pulls")
	ranges := d.Ranges()
	if len(ranges) == 0 {
		pterm.Warning.Println("No pulls match the filter")
		if reasons := d.FilterReasons(); len(reasons) > 0 {
			pterm.Info.Printf("Last rejection: %s\n", strings.Join(reasons, ", "))
		}
		return
	}

	data := [][]string{{"Run", "Start", "End", "Samples", "RPM from", "RPM to"}}
	for i, r := range ranges {
		lo, hi := "-", "-"
		if rpm, err := d.RangeData("RPM", i); err == nil && len(rpm) > 0 {
			lo, hi = formatValue(rpm[0]), formatValue(rpm[len(rpm)-1])
		}
		data = append(data, []string{
			fmt.Sprint(i), fmt.Sprint(r.Start), fmt.Sprint(r.End), fmt.Sprint(r.Size()), lo, hi,
		})
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

// RenderFATS prints the elapsed time of every pull between two RPM points,
// fastest in green.
func RenderFATS(d *ecux.Dataset, rpmStart, rpmEnd float64) {
	pterm.DefaultSection.Printf("FATS %.0f-%.0f RPM\n", rpmStart, rpmEnd)
	fats := d.CalcFATSAll(rpmStart, rpmEnd)
	if len(fats) == 0 {
		pterm.Warning.Println("No pulls to time")
		return
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, et := range fats {
		if et > 0 {
			lo, hi = math.Min(lo, et), math.Max(hi, et)
		}
	}

	data := [][]string{{"Run", "Seconds"}}
	for i, et := range fats {
		cell := pterm.FgGray.Sprint("-")
		if et > 0 {
			cell = getColorStyle(et, lo, hi).Sprintf("%.3f", et)
		}
		data = append(data, []string{fmt.Sprint(i), cell})
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

// getColorStyle colors lower values green and higher values red.
func getColorStyle(value, min, max float64) *pterm.Style {
	if max == min {
		return pterm.NewStyle(pterm.FgGreen)
	}

	normalized := (value - min) / (max - min)

	switch {
	case normalized < 0.25:
		return pterm.NewStyle(pterm.FgGreen)
	case normalized < 0.5:
		return pterm.NewStyle(pterm.FgCyan)
	case normalized < 0.75:
		return pterm.NewStyle(pterm.FgYellow)
	default:
		return pterm.NewStyle(pterm.FgRed)
	}
}

func formatValue(v float64) string {
	if math.IsNaN(v) {
		return "-"
	}
	return fmt.Sprintf("%.2f", v)
}
