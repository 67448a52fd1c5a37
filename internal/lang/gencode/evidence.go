package gencode

import "lintel/internal/source"

// Signal names where a hint came from.
type Signal uint8

const (
	SignalPath Signal = iota
	SignalHeader
	SignalAttribute
)

func (s Signal) String() string {
	switch s {
	case SignalPath:
		return "path"
	case SignalHeader:
		return "header"
	case SignalAttribute:
		return "attribute"
	default:
		return "unknown"
	}
}

// Hint is a small piece of evidence suggesting the file is generated.
type Hint struct {
	Signal Signal
	Score  int
	Reason string
	Span   source.Span
}

// Evidence aggregates per-file hints.
type Evidence struct {
	hints []Hint
}

// NewEvidence creates a new Evidence container.
func NewEvidence() *Evidence {
	return &Evidence{
		hints: make([]Hint, 0, 4),
	}
}

// Add appends a hint to the evidence collection.
func (e *Evidence) Add(h Hint) {
	if e == nil {
		return
	}
	e.hints = append(e.hints, h)
}

// Hints returns the collected hints.
func (e *Evidence) Hints() []Hint {
	if e == nil {
		return nil
	}
	return e.hints
}
