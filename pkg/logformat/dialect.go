// Package logformat recognizes the header conventions of the supported
// datalogging tools and maps their column names and units onto the
// canonical signal namespace.
package logformat

import (
	"fmt"
	"strings"
)

// Dialect identifies the tool that produced a log.
type Dialect int

const (
	// Auto asks ParseHeader to use whatever Detect finds.
	Auto Dialect = iota
	Unknown
	ECUx
	VCDS
	Zeitronix
	ME7Logger
	EvoScan
	VolvoLogger
)

var dialectNames = map[Dialect]string{
	Auto:        "auto",
	Unknown:     "unknown",
	ECUx:        "ecux",
	VCDS:        "vcds",
	Zeitronix:   "zeitronix",
	ME7Logger:   "me7logger",
	EvoScan:     "evoscan",
	VolvoLogger: "volvologger",
}

func (d Dialect) String() string {
	if n, ok := dialectNames[d]; ok {
		return n
	}
	return fmt.Sprintf("dialect(%d)", int(d))
}

// ParseDialect maps a case-insensitive name ("vcds", "ME7Logger", ...) to a Dialect.
// An empty name selects Auto.
func ParseDialect(name string) (Dialect, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return Auto, nil
	}
	for d, n := range dialectNames {
		if n == name {
			return d, nil
		}
	}
	return Unknown, fmt.Errorf("unknown log dialect %q", name)
}

// Dialects lists the concrete dialects in detection order.
func Dialects() []Dialect {
	return []Dialect{VCDS, Zeitronix, ECUx, ME7Logger, EvoScan, VolvoLogger}
}
