package models

import "github.com/tosih/ecux-analyzer/pkg/vector"

// DatasetID names one input column after header normalization, before any
// numeric data has been read.
type DatasetID struct {
	Name  string // canonical signal name
	Alias string // secondary id, e.g. the ME7Logger variable name
	Unit  string
}

// Column is a named signal. Raw columns come straight from the log; derived
// columns are computed on demand and cached. Neither is modified after
// construction.
type Column struct {
	ID    string
	Alias string
	Unit  string
	Data  vector.Vector
}

// NewColumn builds a column without an alias.
func NewColumn(id, unit string, data vector.Vector) *Column {
	return &Column{ID: id, Unit: unit, Data: data}
}

// Len returns the number of samples.
func (c *Column) Len() int { return len(c.Data) }

// Range is an inclusive sample index span [Start, End] covering one pull.
type Range struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Size returns the number of samples in the range.
func (r Range) Size() int { return r.End - r.Start + 1 }
