// Package rules holds the built-in rules. Each rule is stateless: per-tree
// state lives in the lint.Context.
package rules

import (
	"lintel/internal/lint"
	"lintel/internal/syntax"
)

// Default returns a fresh instance of every built-in rule in registration
// order.
func Default() []lint.Rule {
	return []lint.Rule{
		NewLineLength(),
		NewFileLines(),
		NewTabCharacter(),
		NewFileHeader(),
		NewStructWithoutEquatable(),
		NewThreadSleep(),
		NewForcedGC(),
	}
}

// calleeText returns the source text of an invocation up to the end of the
// invoked name, e.g. "Thread.Sleep" for "Thread.Sleep(10)".
func calleeText(c *lint.Context, n syntax.Node) string {
	tok, ok := c.Facade().IdentifierOf(n)
	if !ok {
		return ""
	}
	text := c.Tree().Text()
	start, end := n.Span().Start, tok.Span.End
	if end < start || int(end) > len(text) {
		return tok.Text
	}
	return text[start:end]
}
