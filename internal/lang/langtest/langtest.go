// Package langtest provides an in-memory facade for engine tests that must
// not depend on a real parser.
package langtest

import (
	"context"
	"strings"
	"sync/atomic"

	"lintel/internal/lang"
	"lintel/internal/source"
	"lintel/internal/syntax"
)

// Kind is the node kind of the fake language. It is a distinct type so fake
// kinds never collide with real ones.
type Kind string

func (k Kind) String() string { return string(k) }

// Node is a hand-built syntax node.
type Node struct {
	K        Kind
	Start    uint32
	End      uint32
	Name     string // identifier, or member name for member accesses
	Receiver string // receiver type of a member access / invocation
	Mods     []Kind
	Impl     []syntax.TypeID
	Sub      []*Node

	file   source.FileID
	parent *Node
}

// N builds a node covering [start, end).
func N(k Kind, start, end uint32, children ...*Node) *Node {
	return &Node{K: k, Start: start, End: end, Sub: children}
}

func (n *Node) Kind() syntax.Kind { return n.K }

func (n *Node) Span() source.Span {
	return source.Span{File: n.file, Start: n.Start, End: n.End}
}

func (n *Node) Parent() syntax.Node {
	if n.parent == nil {
		return nil
	}
	return n.parent
}

func (n *Node) Children() []syntax.Node {
	out := make([]syntax.Node, len(n.Sub))
	for i, c := range n.Sub {
		out[i] = c
	}
	return out
}

// Model is the fake semantic model. Resolutions counts DeclaredSymbol calls.
type Model struct {
	Lang        string
	Resolutions int
}

func (m *Model) Language() string { return m.Lang }

type symbol struct {
	name string
	impl []syntax.TypeID
}

func (s symbol) Name() string            { return s.name }
func (s symbol) Kind() syntax.SymbolKind { return syntax.SymbolStruct }

func (s symbol) Implements(typ syntax.TypeID) bool {
	for _, t := range s.impl {
		if t == typ {
			return true
		}
	}
	return false
}

// Facade is a configurable fake lang.Facade that also implements
// lang.Parser.
type Facade struct {
	ID string
	// Kinds lists the logical names the facade understands; nil means all
	// names are accepted and mapped to Kind(name).
	Kinds []string
	// Generated overrides generated-code recognition.
	Generated func(t *syntax.Tree) bool
	// Build produces the root node for Parse; by default a single
	// CompilationUnit covering the file.
	Build func(file *source.File) *Node

	generatedCalls atomic.Int32
}

var _ lang.Frontend = (*Facade)(nil)

// New returns a facade for language id.
func New(id string) *Facade {
	return &Facade{ID: id}
}

func (f *Facade) Language() string     { return f.ID }
func (f *Facade) Extensions() []string { return []string{"." + f.ID} }

func (f *Facade) GeneratedCode() lang.GeneratedCodeRecognizer {
	return recognizer{f}
}

// GeneratedCalls returns how often generated-code recognition ran.
func (f *Facade) GeneratedCalls() int {
	return int(f.generatedCalls.Load())
}

type recognizer struct{ f *Facade }

func (r recognizer) IsGenerated(t *syntax.Tree) bool {
	r.f.generatedCalls.Add(1)
	if r.f.Generated != nil {
		return r.f.Generated(t)
	}
	return strings.Contains(t.Path(), ".gen.")
}

func (f *Facade) KindOf(n syntax.Node) syntax.Kind {
	if n == nil {
		return nil
	}
	return n.Kind()
}

func (f *Facade) SyntaxKind(name string) (syntax.Kind, bool) {
	if f.Kinds == nil {
		return Kind(name), true
	}
	for _, k := range f.Kinds {
		if k == name {
			return Kind(name), true
		}
	}
	return nil, false
}

func (f *Facade) KnownType(name string) (syntax.TypeID, bool) {
	return syntax.TypeID(f.ID + ":" + name), true
}

// KnownMember maps "Type.Member" to "Member".
func (f *Facade) KnownMember(name string) (string, bool) {
	_, member, ok := strings.Cut(name, ".")
	return member, ok
}

func (f *Facade) IsMemberAccessOnKnownType(n syntax.Node, method string, typ syntax.TypeID, _ syntax.SemanticModel) bool {
	fn, ok := n.(*Node)
	if !ok {
		return false
	}
	return fn.Name == method && syntax.TypeID(f.ID+":"+fn.Receiver) == typ
}

func (f *Facade) DeclaredSymbol(n syntax.Node, model syntax.SemanticModel) (syntax.Symbol, bool) {
	fn, ok := n.(*Node)
	if !ok || fn.Name == "" {
		return nil, false
	}
	if m, ok := model.(*Model); ok {
		m.Resolutions++
	}
	return symbol{name: fn.Name, impl: fn.Impl}, true
}

func (f *Facade) ModifierKinds(n syntax.Node) syntax.KindSet {
	fn, ok := n.(*Node)
	if !ok {
		return syntax.KindSet{}
	}
	kinds := make([]syntax.Kind, len(fn.Mods))
	for i, m := range fn.Mods {
		kinds[i] = m
	}
	return syntax.NewKindSet(kinds...)
}

func (f *Facade) IdentifierOf(n syntax.Node) (syntax.Token, bool) {
	fn, ok := n.(*Node)
	if !ok || fn.Name == "" {
		return syntax.Token{}, false
	}
	return syntax.Token{Text: fn.Name, Span: fn.Span()}, true
}

func (f *Facade) Parse(_ context.Context, file *source.File) (*syntax.Tree, syntax.SemanticModel, error) {
	var root *Node
	if f.Build != nil {
		root = f.Build(file)
	} else {
		root = N("CompilationUnit", 0, file.Span().End)
	}
	t := Tree(f.ID, file, root)
	return t, &Model{Lang: f.ID}, nil
}

// Tree links parents and file IDs below root and wraps it into a tree.
func Tree(lang string, file *source.File, root *Node) *syntax.Tree {
	link(root, nil, file.ID)
	return &syntax.Tree{Lang: lang, File: file, Root: root, Raw: root}
}

func link(n, parent *Node, id source.FileID) {
	n.parent = parent
	n.file = id
	for _, c := range n.Sub {
		link(c, n, id)
	}
}
