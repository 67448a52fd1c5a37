// Package changes restricts findings to the lines added by a unified diff,
// so a review only sees what the change introduced.
package changes

import (
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"

	"fortio.org/safecast"
	"github.com/bluekeyes/go-gitdiff/gitdiff"

	"lintel/internal/diag"
)

// Set holds the added line numbers of every file touched by a diff, keyed by
// the slash-separated new name.
type Set struct {
	files map[string]map[uint32]struct{}
}

// Parse reads a unified (git) diff. Deleted and binary files contribute
// nothing.
func Parse(r io.Reader) (*Set, error) {
	parsed, _, err := gitdiff.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing diff: %w", err)
	}
	s := &Set{files: make(map[string]map[uint32]struct{}, len(parsed))}
	for _, f := range parsed {
		if f.IsDelete || f.IsBinary || f.NewName == "" {
			continue
		}
		added := s.files[clean(f.NewName)]
		if added == nil {
			added = make(map[uint32]struct{})
			s.files[clean(f.NewName)] = added
		}
		for _, frag := range f.TextFragments {
			line := frag.NewPosition
			for _, l := range frag.Lines {
				switch l.Op {
				case gitdiff.OpAdd:
					if n, err := safecast.Conv[uint32](line); err == nil && n > 0 {
						added[n] = struct{}{}
					}
					line++
				case gitdiff.OpContext:
					line++
				}
			}
		}
	}
	return s, nil
}

// Files returns how many files the diff adds lines to.
func (s *Set) Files() int {
	n := 0
	for _, lines := range s.files {
		if len(lines) > 0 {
			n++
		}
	}
	return n
}

// Added reports whether line of name was added. name may be absolute; it is
// then made relative to root first.
func (s *Set) Added(root, name string, line uint32) bool {
	lines, ok := s.files[s.key(root, name)]
	if !ok {
		return false
	}
	_, ok = lines[line]
	return ok
}

// Filter keeps the diagnostics that start on an added line. Internal
// diagnostics are always kept.
func (s *Set) Filter(root string, diags []diag.Diagnostic) []diag.Diagnostic {
	out := make([]diag.Diagnostic, 0, len(diags))
	for _, d := range diags {
		if d.Internal || s.Added(root, d.Path, d.Start.Line) {
			out = append(out, d)
		}
	}
	return out
}

func (s *Set) key(root, name string) string {
	if filepath.IsAbs(name) && root != "" {
		if rel, err := filepath.Rel(root, name); err == nil {
			name = rel
		}
	}
	return clean(filepath.ToSlash(name))
}

func clean(name string) string {
	return strings.TrimPrefix(path.Clean(name), "./")
}
