package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/tosih/ecux-analyzer/pkg/ecux"
	"github.com/tosih/ecux-analyzer/pkg/models"
)

// Options selects what WriteCSV emits.
type Options struct {
	Signals []string
	// RangesOnly keeps the samples inside the valid pulls and appends a Run
	// column.
	RangesOnly bool
	// Source is written to the metadata block.
	Source string
}

// ExportSignalsToCSV writes the selected signals of d to filename.
func ExportSignalsToCSV(d *ecux.Dataset, filename string, opts Options) error {
	if dir := filepath.Dir(filename); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create export directory: %w", err)
		}
	}
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := WriteCSV(f, d, opts); err != nil {
		return err
	}
	return f.Close()
}

// WriteCSV writes a "# key: value" metadata block followed by one
// "Name (unit)" header row and the samples. Signals that cannot be
// computed are listed in the metadata and left out.
func WriteCSV(w io.Writer, d *ecux.Dataset, opts Options) error {
	var cols []*models.Column
	var missing []string
	for _, id := range opts.Signals {
		c, err := d.Get(id)
		if err != nil {
			missing = append(missing, id)
			continue
		}
		cols = append(cols, c)
	}
	if len(cols) == 0 {
		return fmt.Errorf("none of %d signals available", len(opts.Signals))
	}

	writer := csv.NewWriter(w)

	// Write metadata as comments
	if opts.Source != "" {
		writer.Write([]string{fmt.Sprintf("# Source: %s", opts.Source)})
	}
	writer.Write([]string{fmt.Sprintf("# Format: %s", d.Dialect())})
	writer.Write([]string{fmt.Sprintf("# Samples per second: %.2f", d.SamplesPerSec())})
	for _, id := range missing {
		writer.Write([]string{fmt.Sprintf("# Unavailable: %s", id)})
	}
	writer.Write([]string{""})

	header := make([]string, 0, len(cols)+1)
	for _, c := range cols {
		if c.Unit == "" {
			header = append(header, c.ID)
		} else {
			header = append(header, fmt.Sprintf("%s (%s)", c.ID, c.Unit))
		}
	}
	if opts.RangesOnly {
		header = append(header, "Run")
	}
	writer.Write(header)

	writeRow := func(i int, run int) {
		row := make([]string, 0, len(header))
		for _, c := range cols {
			row = append(row, strconv.FormatFloat(c.Data[i], 'f', -1, 64))
		}
		if run >= 0 {
			row = append(row, strconv.Itoa(run))
		}
		writer.Write(row)
	}

	if opts.RangesOnly {
		for run, r := range d.Ranges() {
			for i := r.Start; i <= r.End; i++ {
				writeRow(i, run)
			}
		}
	} else {
		for i := 0; i < d.Len(); i++ {
			writeRow(i, -1)
		}
	}

	writer.Flush()
	return writer.Error()
}
