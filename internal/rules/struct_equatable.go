package rules

import (
	"lintel/internal/diag"
	"lintel/internal/lang"
	"lintel/internal/lint"
	"lintel/internal/syntax"
)

var structEquatableDesc = diag.MustDescriptor(
	"S3898",
	"Value types should implement value equality",
	"Implement value equality (IEquatable<T> or Equal(T) bool) on '%s'.",
	diag.CategoryPerformance,
	diag.SevWarning,
)

// StructWithoutEquatable reports struct declarations whose type does not
// implement the known Equatable contract. Ref structs cannot implement
// interfaces and are skipped.
type StructWithoutEquatable struct {
	lint.Base
}

func NewStructWithoutEquatable() *StructWithoutEquatable {
	return &StructWithoutEquatable{
		Base: lint.MustBase(structEquatableDesc, lint.Interest{Kinds: []string{lang.KindStructDeclaration}}),
	}
}

func (r *StructWithoutEquatable) VisitNode(c *lint.Context, n syntax.Node) error {
	f := c.Facade()
	if ref, ok := f.SyntaxKind(lang.KindRefKeyword); ok && f.ModifierKinds(n).Has(ref) {
		return nil
	}
	eq, ok := f.KnownType(lang.TypeEquatable)
	if !ok {
		return nil
	}
	sym, ok := f.DeclaredSymbol(n, c.Model())
	if !ok || sym.Implements(eq) {
		return nil
	}
	tok, ok := f.IdentifierOf(n)
	if !ok {
		return c.ReportNode(n, sym.Name())
	}
	return c.ReportToken(tok, tok.Text)
}
