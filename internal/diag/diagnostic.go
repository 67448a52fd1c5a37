package diag

import (
	"lintel/internal/source"
)

// Diagnostic is a finding bound to a location inside one file.
type Diagnostic struct {
	Descriptor *Descriptor
	Severity   Severity
	Path       string
	Span       source.Span
	Start      source.LineCol
	End        source.LineCol
	Args       []any
	Message    string
	// Internal marks engine-internal entries (not user-facing findings).
	Internal bool
}

// RuleID returns the descriptor ID, or "" for a detached diagnostic.
func (d *Diagnostic) RuleID() string {
	if d == nil || d.Descriptor == nil {
		return ""
	}
	return d.Descriptor.ID()
}

// Sink receives diagnostics in the order they are produced. The core never
// queries a sink back.
type Sink interface {
	Emit(d Diagnostic)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(d Diagnostic)

func (f SinkFunc) Emit(d Diagnostic) {
	if f != nil {
		f(d)
	}
}

// NopSink drops everything.
var NopSink Sink = SinkFunc(nil)
