package lint

import (
	"context"
	"errors"

	"lintel/internal/diag"
	"lintel/internal/lang"
	"lintel/internal/source"
	"lintel/internal/syntax"
)

// Context is handed to every rule callback. It is bound to one rule and one
// tree and must not be retained after the callback returns.
type Context struct {
	run   *run
	entry *ruleEntry
	store map[any]any
}

// Context returns the context.Context of the Analyze call.
func (c *Context) Context() context.Context { return c.run.ctx }

// Tree returns the tree under analysis.
func (c *Context) Tree() *syntax.Tree { return c.run.unit.Tree }

// Model returns the semantic model of the tree; it may be nil.
func (c *Context) Model() syntax.SemanticModel { return c.run.unit.Model }

// Facade returns the facade of the tree's language.
func (c *Context) Facade() lang.Facade { return c.run.table.facade }

// Rule returns the rule the context is bound to.
func (c *Context) Rule() Rule { return c.entry.rule }

// IsGenerated reports whether the tree was classified as generated code.
func (c *Context) IsGenerated() bool { return c.run.generated }

// Params returns the bound parameters of the current rule (nil if none).
func (c *Context) Params() *ParamSet { return c.entry.params }

func (c *Context) ParamInt(name string) int       { return c.entry.params.Int(name) }
func (c *Context) ParamString(name string) string { return c.entry.params.String(name) }
func (c *Context) ParamBool(name string) bool     { return c.entry.params.Bool(name) }

// Store returns storage private to the current rule and tree.
func (c *Context) Store() map[any]any {
	if c.store == nil {
		c.store = make(map[any]any)
	}
	return c.store
}

// Report emits a finding of the current rule at span.
func (c *Context) Report(span source.Span, args ...any) error {
	if c.run.cancelled() {
		return diag.ErrReporterClosed
	}
	err := c.run.reporter.Report(c.entry.desc, span, args...)
	if err != nil && !errors.Is(err, diag.ErrReporterClosed) {
		c.run.fail(ReportingError, c.entry, span, c.Tree().Span().Contains(span), err)
	}
	return err
}

// ReportNode emits a finding covering n.
func (c *Context) ReportNode(n syntax.Node, args ...any) error {
	return c.Report(n.Span(), args...)
}

// ReportToken emits a finding covering tok.
func (c *Context) ReportToken(tok syntax.Token, args ...any) error {
	return c.Report(tok.Span, args...)
}
