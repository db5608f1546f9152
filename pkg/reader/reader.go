package reader

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/tosih/ecux-analyzer/pkg/ecux"
	"github.com/tosih/ecux-analyzer/pkg/logformat"
	"github.com/tosih/ecux-analyzer/pkg/models"
)

// ReadLog reads the CSV log at filename with the given profile's settings.
func ReadLog(filename string, dialect logformat.Dialect, p models.Profile) (*ecux.Dataset, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", logformat.ErrIO, err)
	}
	defer f.Close()

	d, err := ecux.Load(NewCSVRows(f), dialect, p.Env, p.Filter)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(filename), err)
	}
	return d, nil
}

// maxLine bounds one log line; wide ME7Logger exports run to several KiB.
const maxLine = 4 << 20

// Rows tokenizes comma separated text one line at a time. Unlike a bare
// csv.Reader it keeps empty lines, as []string{""}, because some headers
// are laid out by row position.
type Rows struct {
	sc   *bufio.Scanner
	line int
}

// NewCSVRows returns a row reader over comma separated text. Rows may have
// any number of fields and stray quotes are tolerated.
func NewCSVRows(r io.Reader) *Rows {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLine)
	return &Rows{sc: sc}
}

// Read returns the next line split into fields, or io.EOF.
func (r *Rows) Read() ([]string, error) {
	if !r.sc.Scan() {
		if err := r.sc.Err(); err != nil {
			return nil, fmt.Errorf("line %d: %w", r.line+1, err)
		}
		return nil, io.EOF
	}
	r.line++
	text := r.sc.Text()
	if strings.TrimSpace(text) == "" {
		return []string{""}, nil
	}

	cr := csv.NewReader(strings.NewReader(text))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	row, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("line %d: %w", r.line, err)
	}
	return row, nil
}

// FindLogs returns the .csv files in dir, sorted by name.
func FindLogs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var logs []string
	for _, e := range entries {
		if !e.IsDir() && IsLog(e.Name()) {
			logs = append(logs, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(logs)
	return logs, nil
}

// IsLog reports whether name looks like a log file.
func IsLog(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".csv")
}
