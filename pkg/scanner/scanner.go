package scanner

import (
	"fmt"
	"math"
	"path/filepath"
	"runtime"

	"github.com/pterm/pterm"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/tosih/ecux-analyzer/pkg/ecux"
	"github.com/tosih/ecux-analyzer/pkg/logformat"
	"github.com/tosih/ecux-analyzer/pkg/models"
	"github.com/tosih/ecux-analyzer/pkg/reader"
)

// ScanResult summarizes the pulls found in one log
type ScanResult struct {
	File     string
	Dialect  logformat.Dialect
	Samples  int
	Rate     float64
	Pulls    int
	Timed    int     // pulls covering the FATS span
	BestFATS float64 // 0 when no pull covers the span
	MeanFATS float64
	PeakWHP  float64 // NaN when the log cannot produce power
	Err      error
}

// ScanLogs loads every log in dir and times its pulls between rpmStart and rpmEnd.
// Logs that fail to load are reported in their result, not as an error.
func ScanLogs(dir string, dialect logformat.Dialect, p models.Profile, rpmStart, rpmEnd float64) ([]ScanResult, error) {
	files, err := reader.FindLogs(dir)
	if err != nil {
		return nil, err
	}

	results := make([]ScanResult, len(files))
	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())
	for i, f := range files {
		g.Go(func() error {
			results[i] = scanLog(f, dialect, p, rpmStart, rpmEnd)
			return nil
		})
	}
	g.Wait()
	return results, nil
}

func scanLog(filename string, dialect logformat.Dialect, p models.Profile, rpmStart, rpmEnd float64) ScanResult {
	res := ScanResult{File: filepath.Base(filename), PeakWHP: math.NaN()}
	d, err := reader.ReadLog(filename, dialect, p)
	if err != nil {
		res.Err = err
		return res
	}
	res.Dialect = d.Dialect()
	res.Samples = d.Len()
	res.Rate = d.SamplesPerSec()
	res.Pulls = len(d.Ranges())
	res.BestFATS, res.MeanFATS, res.Timed = calculateStats(d.CalcFATSAll(rpmStart, rpmEnd))
	res.PeakWHP = peakInPulls(d, "Calc WHP")
	return res
}

// calculateStats returns the best and mean of the positive FATS values and
// how many there are.
func calculateStats(fats []float64) (best, mean float64, n int) {
	var timed []float64
	for _, et := range fats {
		if et > 0 {
			timed = append(timed, et)
		}
	}
	if len(timed) == 0 {
		return 0, 0, 0
	}
	return floats.Min(timed), stat.Mean(timed, nil), len(timed)
}

func peakInPulls(d *ecux.Dataset, id string) float64 {
	peak := math.NaN()
	for run := range d.Ranges() {
		data, err := d.RangeData(id, run)
		if err != nil || len(data) == 0 {
			return peak
		}
		if m := floats.Max(data); math.IsNaN(peak) || m > peak {
			peak = m
		}
	}
	return peak
}

// DisplayResults prints one row per scanned log
func DisplayResults(results []ScanResult, rpmStart, rpmEnd float64) {
	if len(results) == 0 {
		pterm.Info.Println("No logs found")
		return
	}

	tableData := pterm.TableData{
		{"File", "Format", "Samples", "Rate", "Pulls", fmt.Sprintf("Best %.0f-%.0f", rpmStart, rpmEnd), "Mean", "Peak WHP"},
	}

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			tableData = append(tableData, []string{r.File, pterm.FgRed.Sprint("error"), "", "", "", "", "", ""})
			continue
		}
		best, mean := "-", "-"
		if r.Timed > 0 {
			best, mean = fmt.Sprintf("%.3f", r.BestFATS), fmt.Sprintf("%.3f", r.MeanFATS)
		}
		peak := "-"
		if !math.IsNaN(r.PeakWHP) {
			peak = fmt.Sprintf("%.0f", r.PeakWHP)
		}
		tableData = append(tableData, []string{
			r.File,
			r.Dialect.String(),
			fmt.Sprint(r.Samples),
			fmt.Sprintf("%.1f/s", r.Rate),
			fmt.Sprint(r.Pulls),
			best,
			mean,
			peak,
		})
	}

	pterm.DefaultTable.WithHasHeader().WithData(tableData).Render()
	pterm.Info.Printf("\nScanned %d log(s)\n", len(results))
	for _, r := range results {
		if r.Err != nil {
			pterm.Warning.Printf("%s: %v\n", r.File, r.Err)
		}
	}
	if failed == len(results) {
		pterm.Error.Println("No log could be read")
	}
}
