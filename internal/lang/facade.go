package lang

import (
	"context"
	"errors"

	"lintel/internal/source"
	"lintel/internal/syntax"
)

// Logical kind names understood by the shipped facades. A rule declares its
// interest with these names and the session resolves them per language.
const (
	KindCompilationUnit        = "CompilationUnit"
	KindStructDeclaration      = "StructDeclaration"
	KindClassDeclaration       = "ClassDeclaration"
	KindMethodDeclaration      = "MethodDeclaration"
	KindInvocationExpression   = "InvocationExpression"
	KindMemberAccessExpression = "MemberAccessExpression"
	KindIdentifier             = "Identifier"
	KindRefKeyword             = "RefKeyword"
	KindComment                = "Comment"
)

// Logical known-type names.
const (
	TypeEquatable = "Equatable"
	TypeThread    = "Thread"
	TypeGC        = "GC"
)

// Logical known-member names, resolved per language by KnownMember.
const (
	MemberThreadSleep = "Thread.Sleep"
	MemberGCCollect   = "GC.Collect"
)

// ErrSyntax wraps parse failures reported by a Parser.
var ErrSyntax = errors.New("syntax error")

// GeneratedCodeRecognizer classifies whole trees.
type GeneratedCodeRecognizer interface {
	IsGenerated(t *syntax.Tree) bool
}

// Facade is the language abstraction used by the engine and by rules.
// Implementations are immutable and safe for concurrent use.
type Facade interface {
	Language() string
	// Extensions lists the file extensions (with dot, lower case) owned by
	// the language.
	Extensions() []string
	GeneratedCode() GeneratedCodeRecognizer
	KindOf(n syntax.Node) syntax.Kind
	// SyntaxKind resolves a logical kind name.
	SyntaxKind(name string) (syntax.Kind, bool)
	// KnownType resolves a logical type name to its language-specific ID.
	KnownType(name string) (syntax.TypeID, bool)
	// KnownMember resolves a logical member name to the member's name in
	// the language (Go spells GC.Collect as runtime.GC).
	KnownMember(name string) (string, bool)
	// IsMemberAccessOnKnownType reports whether n is a member access (or an
	// invocation of one) named method whose receiver is typ.
	IsMemberAccessOnKnownType(n syntax.Node, method string, typ syntax.TypeID, model syntax.SemanticModel) bool
	DeclaredSymbol(n syntax.Node, model syntax.SemanticModel) (syntax.Symbol, bool)
	ModifierKinds(n syntax.Node) syntax.KindSet
	IdentifierOf(n syntax.Node) (syntax.Token, bool)
}

// Parser turns a source file into a tree and its semantic model.
type Parser interface {
	Parse(ctx context.Context, file *source.File) (*syntax.Tree, syntax.SemanticModel, error)
}

// Frontend is a facade that parses its own sources.
type Frontend interface {
	Facade
	Parser
}
