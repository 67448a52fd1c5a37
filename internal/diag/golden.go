package diag

import (
	"cmp"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
)

// goldenEntry is one FormatShort line before rendering.
type goldenEntry struct {
	sev  string
	id   string
	path string
	at   [2]uint32 // line, column
	msg  string
}

func (e goldenEntry) String() string {
	return fmt.Sprintf("%s %s %s:%d:%d %s", e.sev, e.id, e.path, e.at[0], e.at[1], e.msg)
}

func compareGolden(a, b goldenEntry) int {
	return cmp.Or(
		strings.Compare(a.path, b.path),
		cmp.Compare(a.at[0], b.at[0]),
		cmp.Compare(a.at[1], b.at[1]),
		strings.Compare(a.id, b.id),
		strings.Compare(a.msg, b.msg),
	)
}

// FormatShort renders diagnostics one per line as
// "severity ID path:line:col message", sorted by location. Internal entries
// are kept only when includeInternal is set. Tests compare this output
// verbatim.
func FormatShort(diags []Diagnostic, includeInternal bool) string {
	entries := make([]goldenEntry, 0, len(diags))
	for i := range diags {
		d := &diags[i]
		if d.Internal && !includeInternal {
			continue
		}
		entries = append(entries, goldenEntry{
			sev:  d.Severity.Label(),
			id:   d.RuleID(),
			path: slashPath(d.Path),
			at:   [2]uint32{d.Start.Line, d.Start.Col},
			msg:  oneLine(d.Message),
		})
	}
	slices.SortStableFunc(entries, compareGolden)

	lines := make([]string, len(entries))
	for i, e := range entries {
		lines[i] = e.String()
	}
	return strings.Join(lines, "\n")
}

func slashPath(path string) string {
	p := filepath.ToSlash(path)
	for strings.HasPrefix(p, "./") {
		p = p[2:]
	}
	return p
}

var lineBreaks = strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ")

func oneLine(msg string) string {
	return strings.TrimSpace(lineBreaks.Replace(msg))
}
