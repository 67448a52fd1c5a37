package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"lintel/internal/diag"
	"lintel/internal/source"
)

const tabWidth = 4

// Pretty форматирует диагностики в человекочитаемый вид, в порядке diags.
// Для каждой диагностики печатает
//
//	<path>:<line>:<col>: <SEV> <ID>: <Message>
//
// затем строку исходника с подчёркиванием ^~~~ по Span. Ширина подчёркивания
// считается в колонках терминала. В конце печатается сводка.
func Pretty(w io.Writer, diags []diag.Diagnostic, fs *source.FileSet, opts PrettyOpts) error {
	p := newPalette(opts.Color)
	shown := visible(diags, opts.ShowInternal)

	var b strings.Builder
	var errors, warnings, infos int
	for i := range shown {
		d := &shown[i]
		switch d.Severity {
		case diag.SevError:
			errors++
		case diag.SevWarning:
			warnings++
		default:
			infos++
		}
		path := displayPath(d, fs, opts.PathMode)
		fmt.Fprintf(&b, "%s: %s %s: %s\n",
			p.path.Sprintf("%s:%d:%d", path, d.Start.Line, d.Start.Col),
			p.severity(d.Severity).Sprint(d.Severity.String()),
			p.code.Sprint(d.RuleID()),
			d.Message)
		if f := fileOf(d, fs); f != nil && d.Start.Line > 0 {
			writeSnippet(&b, f, d, opts.Context, p)
		}
	}
	if len(shown) > 0 {
		fmt.Fprintf(&b, "%s\n", summary(errors, warnings, infos))
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func summary(errors, warnings, infos int) string {
	return fmt.Sprintf("%d %s, %d %s, %d %s",
		errors, plural(errors, "error"),
		warnings, plural(warnings, "warning"),
		infos, plural(infos, "info"))
}

func plural(n int, word string) string {
	if n == 1 || word == "info" {
		return word
	}
	return word + "s"
}

func writeSnippet(b *strings.Builder, f *source.File, d *diag.Diagnostic, context int, p palette) {
	count := f.LineCount()
	primary := int(d.Start.Line)
	if primary > count {
		// span at EOF, after the trailing newline
		primary = count
	}
	if primary == 0 {
		return
	}
	first := max(1, primary-context)
	last := min(count, primary+context)
	gutter := len(fmt.Sprint(last))

	lines := make([]string, 0, last-first+1)
	for n := first; n <= last; n++ {
		lines = append(lines, f.GetLine(uint32(n))) // #nosec G115 -- n <= LineCount
	}
	shown := make([]string, len(lines))
	for i, line := range lines {
		shown[i] = expandTabs(line)
	}
	if p.enabled {
		shown = newHighlighter(f.Path).lines(shown)
	}

	for n := first; n <= last; n++ {
		line := lines[n-first]
		fmt.Fprintf(b, " %s %s %s\n", p.gutter.Sprintf("%*d", gutter, n), p.gutter.Sprint("|"), shown[n-first])
		if n != primary {
			continue
		}
		startCol := int(d.Start.Col) - 1
		endCol := len(line)
		if d.End.Line == d.Start.Line && int(d.End.Col)-1 >= startCol {
			endCol = int(d.End.Col) - 1
		}
		startCol = clamp(startCol, 0, len(line))
		endCol = clamp(endCol, startCol, len(line))
		pad := displayWidth(line[:startCol])
		width := displayWidth(line[startCol:endCol])
		marker := "^"
		if width > 1 {
			marker += strings.Repeat("~", width-1)
		}
		fmt.Fprintf(b, " %s %s %s%s\n", strings.Repeat(" ", gutter), p.gutter.Sprint("|"),
			strings.Repeat(" ", pad), p.severity(d.Severity).Sprint(marker))
	}
}

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", strings.Repeat(" ", tabWidth))
}

func displayWidth(s string) int {
	return runewidth.StringWidth(expandTabs(s))
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}

type palette struct {
	enabled              bool
	path, code, gutter   *color.Color
	errs, warns, infoCol *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		enabled: enabled,
		path:    color.New(color.Bold),
		code:    color.New(color.FgMagenta),
		gutter:  color.New(color.FgBlue),
		errs:    color.New(color.FgRed, color.Bold),
		warns:   color.New(color.FgYellow, color.Bold),
		infoCol: color.New(color.FgCyan),
	}
	for _, c := range []*color.Color{p.path, p.code, p.gutter, p.errs, p.warns, p.infoCol} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(s diag.Severity) *color.Color {
	switch s {
	case diag.SevError:
		return p.errs
	case diag.SevWarning:
		return p.warns
	default:
		return p.infoCol
	}
}
