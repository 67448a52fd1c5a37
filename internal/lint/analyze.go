package lint

import (
	"context"
	"errors"
	"fmt"

	"lintel/internal/diag"
	"lintel/internal/source"
	"lintel/internal/syntax"
	"lintel/internal/trace"
)

var errNoTree = errors.New("lint: unit without tree")

// Analyze runs every active rule over unit and forwards findings to sink.
// Rule failures are recorded in the error log and do not abort the tree.
// The only errors returned are a malformed unit, an unknown language and
// context cancellation; after cancellation no further diagnostic is emitted.
func (s *Session) Analyze(ctx context.Context, unit Unit, sink diag.Sink) error {
	tree := unit.Tree
	if tree == nil || tree.File == nil {
		return errNoTree
	}
	table, ok := s.tables[tree.Lang]
	if !ok {
		return fmt.Errorf("%w %q", ErrUnknownLanguage, tree.Lang)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	tracer := s.opts.Tracer
	if tracer == nil {
		tracer = trace.FromContext(ctx)
	}
	span := trace.Begin(tracer, trace.ScopeFile, "file:"+tree.Path(), trace.CurrentSpan(ctx).SpanID)

	r := &run{
		session: s,
		ctx:     ctx,
		unit:    unit,
		table:   table,
		tracer:  tracer,
		spanID:  span.ID(),
		active:  make([]bool, len(s.entries)),
	}
	r.reporter = diag.NewReporter(tree.File, sink, s.descriptors, s.opts.Suppressors, nil)

	generated := false
	if rec := table.facade.GeneratedCode(); rec != nil {
		generated = rec.IsGenerated(tree)
	}
	r.generated = generated
	for idx, e := range s.entries {
		r.active[idx] = e.langs[tree.Lang] && (!generated || e.generated || s.opts.IncludeGenerated)
	}

	err := r.execute()
	span.WithExtra("generated", fmt.Sprint(generated)).
		WithExtra("diagnostics", fmt.Sprint(r.reporter.Emitted())).
		End(errString(err))
	return err
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// run is the state of one Analyze call.
type run struct {
	session   *Session
	ctx       context.Context
	unit      Unit
	table     *dispatch
	reporter  *diag.Reporter
	tracer    trace.Tracer
	spanID    uint64
	generated bool
	active    []bool
	contexts  map[int]*Context
}

func (r *run) execute() error {
	for _, idx := range r.table.tree {
		if !r.active[idx] {
			continue
		}
		if r.cancelled() {
			return r.ctx.Err()
		}
		e := r.session.entries[idx]
		r.invoke(idx, nil, func(c *Context) error { return e.caps.tree.VisitTree(c) })
	}

	if len(r.table.byKind) > 0 {
		syntax.Walk(r.unit.Tree.Root, func(n syntax.Node) bool {
			if r.cancelled() {
				return false
			}
			for _, idx := range r.table.byKind[r.table.facade.KindOf(n)] {
				if !r.active[idx] {
					continue
				}
				e := r.session.entries[idx]
				r.invoke(idx, n, func(c *Context) error { return e.caps.node.VisitNode(c, n) })
			}
			return true
		})
	}

	if r.cancelled() {
		return r.ctx.Err()
	}
	return nil
}

// cancelled closes the reporter once cancellation is observed.
func (r *run) cancelled() bool {
	if r.ctx.Err() == nil {
		return false
	}
	r.reporter.Close()
	return true
}

func (r *run) contextFor(idx int) *Context {
	if c, ok := r.contexts[idx]; ok {
		return c
	}
	if r.contexts == nil {
		r.contexts = make(map[int]*Context)
	}
	c := &Context{run: r, entry: r.session.entries[idx]}
	r.contexts[idx] = c
	return c
}

func (r *run) invoke(idx int, node syntax.Node, call func(*Context) error) {
	c := r.contextFor(idx)
	if node != nil && r.tracer.Level().ShouldEmit(trace.ScopeNode) {
		trace.Point(r.tracer, trace.ScopeNode, "rule:"+c.entry.id, node.Kind().String(), r.spanID)
	}
	var span source.Span
	if node != nil {
		span = node.Span()
	}
	defer func() {
		if p := recover(); p != nil {
			r.fail(RuleExecutionError, c.entry, span, node != nil, fmt.Errorf("%w: %v", ErrRulePanic, p))
		}
	}()
	if err := call(c); err != nil && !loggedByReport(err) {
		r.fail(RuleExecutionError, c.entry, span, node != nil, err)
	}
}

// loggedByReport reports whether err came back from Context.Report, which
// has already recorded it (or, when closed, must not record it).
func loggedByReport(err error) bool {
	return errors.Is(err, diag.ErrReporterClosed) ||
		errors.Is(err, diag.ErrSpanOutOfRange) ||
		errors.Is(err, diag.ErrUnregisteredDescriptor)
}

func (r *run) fail(kind ErrorKind, e *ruleEntry, span source.Span, hasPos bool, err error) {
	ee := &EngineError{
		Kind:   kind,
		RuleID: e.id,
		Lang:   r.unit.Tree.Lang,
		Path:   r.unit.Tree.Path(),
		Span:   span,
		HasPos: hasPos,
		Err:    err,
	}
	r.session.record(ee)
	trace.Point(r.tracer, trace.ScopeFile, "engine-error", ee.Error(), r.spanID)
}
