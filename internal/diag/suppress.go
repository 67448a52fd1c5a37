package diag

import (
	"strings"

	"lintel/internal/source"
)

// Suppressor may veto a diagnostic before it reaches the sink.
type Suppressor interface {
	Suppress(file *source.File, d *Diagnostic) bool
}

// SuppressorFunc adapts a function to Suppressor.
type SuppressorFunc func(file *source.File, d *Diagnostic) bool

func (f SuppressorFunc) Suppress(file *source.File, d *Diagnostic) bool {
	return f(file, d)
}

const (
	ignoreMarker   = "lintel:ignore"
	noSonarMarker  = "NOSONAR"
	ruleSeparators = ", \t"
)

// LineSuppressor honours markers on the line where a diagnostic starts:
//
//	x := f() // lintel:ignore
//	y := g() // lintel:ignore S103,S105
//	z := h() // NOSONAR
//
// A bare marker suppresses every rule; a list limits it to the given IDs.
// Internal diagnostics are never suppressed.
type LineSuppressor struct{}

func (LineSuppressor) Suppress(file *source.File, d *Diagnostic) bool {
	if file == nil || d == nil || d.Internal {
		return false
	}
	line := file.GetLine(d.Start.Line)
	if line == "" {
		return false
	}
	if strings.Contains(line, noSonarMarker) {
		return true
	}
	idx := strings.Index(line, ignoreMarker)
	if idx < 0 {
		return false
	}
	rest := line[idx+len(ignoreMarker):]
	// "lintel:ignored" is not a marker
	if rest != "" && !strings.ContainsRune(ruleSeparators, rune(rest[0])) {
		return false
	}
	if end := strings.Index(rest, "*/"); end >= 0 {
		rest = rest[:end]
	}
	ids := strings.FieldsFunc(rest, func(r rune) bool {
		return strings.ContainsRune(ruleSeparators, r)
	})
	if len(ids) == 0 {
		return true
	}
	id := d.RuleID()
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}
