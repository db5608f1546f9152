package logformat

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

// RowReader supplies already tokenized rows. *csv.Reader satisfies it.
// Read returns io.EOF once the input is exhausted.
type RowReader interface {
	Read() ([]string, error)
}

// SliceReader serves rows from memory.
type SliceReader struct {
	rows [][]string
	pos  int
}

// NewSliceReader returns a RowReader over rows.
func NewSliceReader(rows [][]string) *SliceReader {
	return &SliceReader{rows: rows}
}

func (s *SliceReader) Read() ([]string, error) {
	if s.pos >= len(s.rows) {
		return nil, io.EOF
	}
	row := s.rows[s.pos]
	s.pos++
	return row, nil
}

// next reads one row, turning io.EOF into a MalformedHeader fault naming what
// was being looked for, and any other failure into ErrIO.
func next(r RowReader, want string) ([]string, error) {
	row, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, malformed("input ended while reading %s", want)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIO, err)
	}
	return row, nil
}

// nextWhere keeps reading until skip reports false for a row.
func nextWhere(r RowReader, want string, skip func([]string) bool) ([]string, error) {
	for {
		row, err := next(r, want)
		if err != nil {
			return nil, err
		}
		if !skip(row) {
			return row, nil
		}
	}
}

func blankFirst(row []string) bool {
	return len(row) < 1 || strings.TrimSpace(row[0]) == ""
}

func isComment(row []string) bool {
	return strings.HasPrefix(strings.TrimSpace(row[0]), "#")
}

func trimAll(row []string) []string {
	out := make([]string, len(row))
	for i, s := range row {
		out[i] = strings.TrimSpace(s)
	}
	return out
}

// padTo returns row extended with empty cells to length n.
func padTo(row []string, n int) []string {
	if len(row) >= n {
		return row
	}
	out := make([]string, n)
	copy(out, row)
	return out
}
