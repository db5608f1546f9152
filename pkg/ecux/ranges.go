package ecux

import "github.com/tosih/ecux-analyzer/pkg/models"

// Segment scans sample indices 0..n-1 and returns every maximal run of
// consecutive indices accepted by dataValid that rangeValid also accepts.
// The ranges are disjoint and ordered by start.
func Segment(n int, dataValid func(i int) bool, rangeValid func(r models.Range) bool) []models.Range {
	var out []models.Range
	start := -1
	closeRun := func(end int) {
		if start < 0 {
			return
		}
		r := models.Range{Start: start, End: end}
		if rangeValid(r) {
			out = append(out, r)
		}
		start = -1
	}

	for i := 0; i < n; i++ {
		if dataValid(i) {
			if start < 0 {
				start = i
			}
			continue
		}
		closeRun(i - 1)
	}
	closeRun(n - 1)
	return out
}
