package logformat

import (
	"path/filepath"
	"regexp"
	"strings"
)

type detectRule struct {
	dialect Dialect
	match   func(cell string) bool
}

var (
	reDayTag    = regexp.MustCompile(`^.*(day|tag)$`)
	reVolvoTime = regexp.MustCompile(`^Time\s*\(sec\)$`)
)

// detectRules are tried in order; the first match wins.
var detectRules = []detectRule{
	{VCDS, func(c string) bool { return c == "VCDS" }},
	{VCDS, reDayTag.MatchString},
	{Zeitronix, func(c string) bool {
		if !strings.HasPrefix(c, "Filename:") {
			return false
		}
		switch strings.TrimPrefix(filepath.Ext(c), ".") {
		case "zto", "zdl":
			return true
		}
		return strings.HasSuffix(c, "<unnamed file>")
	}},
	{ECUx, func(c string) bool { return c == "TIME" }},
	{ME7Logger, func(c string) bool { return strings.Contains(c, "ME7-Logger") }},
	{EvoScan, func(c string) bool { return c == "LogID" }},
	{VolvoLogger, reVolvoTime.MatchString},
}

// Detect classifies a header row by its first cell. It never fails: anything
// it does not recognize is Unknown.
func Detect(row []string) Dialect {
	if len(row) == 0 {
		return Unknown
	}
	cell := strings.TrimSpace(row[0])
	for _, rule := range detectRules {
		if rule.match(cell) {
			return rule.dialect
		}
	}
	return Unknown
}

// Resolve checks an explicitly requested dialect against the detected one and
// returns the dialect to use. Auto defers to detection; an explicit request
// wins over Unknown but conflicts with any other detected dialect.
func Resolve(requested, detected Dialect) (Dialect, error) {
	if requested == Auto {
		return detected, nil
	}
	if detected != Unknown && detected != Auto && requested != detected {
		return Unknown, &MismatchError{Requested: requested, Detected: detected}
	}
	return requested, nil
}
