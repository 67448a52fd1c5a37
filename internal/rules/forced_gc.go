package rules

import (
	"lintel/internal/diag"
	"lintel/internal/lang"
	"lintel/internal/lint"
	"lintel/internal/syntax"
)

var forcedGCDesc = diag.MustDescriptor(
	"S1215",
	"Garbage collection should not be forced",
	"Refactor the code to remove this use of '%s'.",
	diag.CategoryPerformance,
	diag.SevWarning,
)

// ForcedGC reports explicit garbage collection requests.
type ForcedGC struct {
	lint.Base
}

func NewForcedGC() *ForcedGC {
	return &ForcedGC{
		Base: lint.MustBase(forcedGCDesc, lint.Interest{Kinds: []string{lang.KindInvocationExpression}}),
	}
}

func (r *ForcedGC) VisitNode(c *lint.Context, n syntax.Node) error {
	f := c.Facade()
	gc, ok := f.KnownType(lang.TypeGC)
	if !ok {
		return nil
	}
	collect, ok := f.KnownMember(lang.MemberGCCollect)
	if !ok || !f.IsMemberAccessOnKnownType(n, collect, gc, c.Model()) {
		return nil
	}
	return c.ReportNode(n, calleeText(c, n))
}
