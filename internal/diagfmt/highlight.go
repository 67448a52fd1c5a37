package diagfmt

import (
	"path/filepath"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/lipgloss"
)

const highlightStyle = "dracula"

// highlighter colours snippet lines by file type. A nil lexer leaves the
// text untouched.
type highlighter struct {
	lexer chroma.Lexer
	style *chroma.Style
}

func newHighlighter(path string) highlighter {
	lexer := lexers.Match(path)
	if lexer == nil {
		if ext := filepath.Ext(path); ext != "" {
			lexer = lexers.Match("file" + ext)
		}
	}
	if lexer == nil {
		return highlighter{}
	}
	style := styles.Get(highlightStyle)
	if style == nil {
		style = styles.Fallback
	}
	return highlighter{lexer: chroma.Coalesce(lexer), style: style}
}

// lines highlights a block of consecutive source lines and returns one
// rendered string per input line.
func (h highlighter) lines(src []string) []string {
	if h.lexer == nil {
		return src
	}
	it, err := h.lexer.Tokenise(nil, strings.Join(src, "\n"))
	if err != nil {
		return src
	}
	out := make([]string, 0, len(src))
	var cur strings.Builder
	for _, tok := range it.Tokens() {
		for i, part := range strings.Split(tok.Value, "\n") {
			if i > 0 {
				out = append(out, cur.String())
				cur.Reset()
			}
			if part == "" {
				continue
			}
			entry := h.style.Get(tok.Type)
			if entry.Colour.IsSet() {
				part = lipgloss.NewStyle().Foreground(lipgloss.Color(entry.Colour.String())).Render(part)
			}
			cur.WriteString(part)
		}
	}
	out = append(out, cur.String())
	// chroma appends a trailing newline token; keep the line count stable
	for len(out) < len(src) {
		out = append(out, "")
	}
	return out[:len(src)]
}
