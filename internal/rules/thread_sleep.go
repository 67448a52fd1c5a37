package rules

import (
	"lintel/internal/diag"
	"lintel/internal/lang"
	"lintel/internal/lint"
	"lintel/internal/syntax"
)

var threadSleepDesc = diag.MustDescriptor(
	"S2925",
	"Thread.Sleep should not be used",
	"Remove this use of '%s'.",
	diag.CategoryReliability,
	diag.SevWarning,
)

// ThreadSleep reports Sleep calls on the known Thread type.
type ThreadSleep struct {
	lint.Base
}

func NewThreadSleep() *ThreadSleep {
	return &ThreadSleep{
		Base: lint.MustBase(threadSleepDesc, lint.Interest{Kinds: []string{lang.KindInvocationExpression}}),
	}
}

func (r *ThreadSleep) VisitNode(c *lint.Context, n syntax.Node) error {
	f := c.Facade()
	thread, ok := f.KnownType(lang.TypeThread)
	if !ok {
		return nil
	}
	sleep, ok := f.KnownMember(lang.MemberThreadSleep)
	if !ok || !f.IsMemberAccessOnKnownType(n, sleep, thread, c.Model()) {
		return nil
	}
	return c.ReportNode(n, calleeText(c, n))
}
