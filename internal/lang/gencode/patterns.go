package gencode

import (
	"bytes"
	"path/filepath"
	"strings"

	"fortio.org/safecast"

	"lintel/internal/source"
)

// DefaultHeaderBytes bounds how much of a file is scanned for header markers.
const DefaultHeaderBytes = 2048

// PathPattern matches the lower-cased base name of a file.
type PathPattern struct {
	Suffix string
	Prefix string
	Score  int
}

// Marker is text searched for in the file header.
type Marker struct {
	Text            string
	CaseInsensitive bool
	Score           int
}

// Patterns is the language-specific recognition vocabulary.
type Patterns struct {
	Paths       []PathPattern
	Markers     []Marker
	HeaderBytes int
}

// CollectPath records path evidence for path.
func (p Patterns) CollectPath(e *Evidence, path string) {
	base := strings.ToLower(filepath.Base(filepath.ToSlash(path)))
	for _, pat := range p.Paths {
		if pat.Suffix != "" && !strings.HasSuffix(base, pat.Suffix) {
			continue
		}
		if pat.Prefix != "" && !strings.HasPrefix(base, strings.ToLower(pat.Prefix)) {
			continue
		}
		reason := "file name"
		if pat.Suffix != "" {
			reason = "file suffix " + pat.Suffix
		} else if pat.Prefix != "" {
			reason = "file prefix " + pat.Prefix
		}
		e.Add(Hint{Signal: SignalPath, Score: pat.Score, Reason: reason})
	}
}

// CollectHeader records marker evidence found in the first HeaderBytes
// bytes of file.
func (p Patterns) CollectHeader(e *Evidence, file *source.File) {
	if file == nil {
		return
	}
	limit := p.HeaderBytes
	if limit <= 0 {
		limit = DefaultHeaderBytes
	}
	head := file.Content
	if len(head) > limit {
		head = head[:limit]
	}
	lowered := bytes.ToLower(head)
	for _, m := range p.Markers {
		hay, needle := head, []byte(m.Text)
		if m.CaseInsensitive {
			hay, needle = lowered, bytes.ToLower(needle)
		}
		idx := bytes.Index(hay, needle)
		if idx < 0 {
			continue
		}
		start, err := safecast.Conv[uint32](idx)
		if err != nil {
			continue
		}
		e.Add(Hint{
			Signal: SignalHeader,
			Score:  m.Score,
			Reason: "header marker " + m.Text,
			Span:   source.Span{File: file.ID, Start: start, End: start + uint32(len(needle))}, // #nosec G115 -- bounded by limit
		})
	}
}

// Collect runs path and header collection.
func (p Patterns) Collect(file *source.File) *Evidence {
	e := NewEvidence()
	if file == nil {
		return e
	}
	p.CollectPath(e, file.Path)
	p.CollectHeader(e, file)
	return e
}
