// Package logfile holds the raw columns of one ingested log.
package logfile

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/pterm/pterm"

	"github.com/tosih/ecux-analyzer/pkg/logformat"
	"github.com/tosih/ecux-analyzer/pkg/models"
	"github.com/tosih/ecux-analyzer/pkg/vector"
)

// Store is the set of raw columns of a log, in header order. Columns are
// looked up by canonical name or by secondary alias.
type Store struct {
	ids     []models.DatasetID
	data    []vector.Vector
	cols    []*models.Column
	byName  map[string]*models.Column
	skipped int
}

// New returns an empty store with one column per id.
func New(ids []models.DatasetID) *Store {
	s := &Store{
		ids:  append([]models.DatasetID(nil), ids...),
		data: make([]vector.Vector, len(ids)),
	}
	return s
}

// Build reads every remaining row from r into a new store.
func Build(ids []models.DatasetID, r logformat.RowReader) (*Store, error) {
	s := New(ids)
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: data row %d: %v", logformat.ErrIO, s.Len()+s.skipped+1, err)
		}
		s.Append(row)
	}
	s.Seal()
	return s, nil
}

// Append adds one data row. Blank rows and rows whose first cell is not a
// number (footers, repeated headers) are dropped. Other unparseable or
// missing cells become NaN.
func (s *Store) Append(row []string) {
	if len(row) == 0 || strings.TrimSpace(strings.Join(row, "")) == "" {
		s.skipped++
		return
	}
	if _, ok := parseCell(row[0]); !ok {
		s.skipped++
		pterm.DefaultLogger.Trace("skipping non-numeric row", pterm.DefaultLogger.Args("cell", row[0]))
		return
	}
	for i := range s.data {
		v := math.NaN()
		if i < len(row) {
			if f, ok := parseCell(row[i]); ok {
				v = f
			}
		}
		s.data[i] = append(s.data[i], v)
	}
	s.cols = nil
}

func parseCell(cell string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
	if err != nil {
		return math.NaN(), false
	}
	return f, true
}

// Seal builds the column index. It is called by Build, and lazily by the
// accessors after Append.
func (s *Store) Seal() {
	s.cols = make([]*models.Column, len(s.ids))
	s.byName = make(map[string]*models.Column, 2*len(s.ids))
	for i, id := range s.ids {
		c := &models.Column{ID: id.Name, Alias: id.Alias, Unit: id.Unit, Data: s.data[i]}
		if c.Data == nil {
			c.Data = vector.Vector{}
		}
		s.cols[i] = c
		if id.Name == "" {
			continue
		}
		if _, dup := s.byName[id.Name]; !dup {
			s.byName[id.Name] = c
		}
	}
	// secondary ids never shadow a canonical name
	for _, c := range s.cols {
		if c.Alias == "" {
			continue
		}
		if _, dup := s.byName[c.Alias]; !dup {
			s.byName[c.Alias] = c
		}
	}
	if s.skipped > 0 {
		pterm.DefaultLogger.Debug("skipped data rows", pterm.DefaultLogger.Args("rows", s.skipped))
	}
}

func (s *Store) sealed() {
	if s.cols == nil {
		s.Seal()
	}
}

// Get returns the column with the given name or alias, or nil.
func (s *Store) Get(name string) *models.Column {
	s.sealed()
	return s.byName[name]
}

// GetAny returns the first of names that is present, or nil.
func (s *Store) GetAny(names ...string) *models.Column {
	for _, n := range names {
		if c := s.Get(n); c != nil {
			return c
		}
	}
	return nil
}

// Len returns the number of samples per column.
func (s *Store) Len() int {
	if len(s.data) == 0 {
		return 0
	}
	return len(s.data[0])
}

// Columns returns the raw columns in header order.
func (s *Store) Columns() []*models.Column {
	s.sealed()
	return append([]*models.Column(nil), s.cols...)
}

// IDs returns the header the store was built from.
func (s *Store) IDs() []models.DatasetID {
	return append([]models.DatasetID(nil), s.ids...)
}

// Skipped reports how many rows Append dropped.
func (s *Store) Skipped() int { return s.skipped }
