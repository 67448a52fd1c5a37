// Package csharp is the C# language facade, backed by the tree-sitter C#
// grammar and a syntactic semantic model.
package csharp

import (
	"context"
	"fmt"
	"strings"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
	tscsharp "github.com/smacker/go-tree-sitter/csharp"

	"lintel/internal/lang"
	"lintel/internal/lang/gencode"
	"lintel/internal/source"
	"lintel/internal/syntax"
)

// Language is the facade's language ID.
const Language = "csharp"

const (
	equatableID syntax.TypeID = "System.IEquatable"
	threadID    syntax.TypeID = "System.Threading.Thread"
	gcID        syntax.TypeID = "System.GC"
)

var knownTypes = map[string]syntax.TypeID{
	lang.TypeEquatable: equatableID,
	lang.TypeThread:    threadID,
	lang.TypeGC:        gcID,
}

var knownMembers = map[string]string{
	lang.MemberThreadSleep: "Sleep",
	lang.MemberGCCollect:   "Collect",
}

// DefaultImplicitUsings are the namespaces SDK-style projects import
// without a using directive, limited to those the known types live in.
var DefaultImplicitUsings = []string{"System", "System.Threading"}

// Facade implements lang.Frontend for C#.
type Facade struct {
	language  *sitter.Language
	parsers   sync.Pool
	implicit  map[string]bool
	generated *gencode.Detector
}

var _ lang.Frontend = (*Facade)(nil)

// Option configures the facade.
type Option func(*Facade)

// WithImplicitUsings replaces DefaultImplicitUsings; nil disables them.
func WithImplicitUsings(namespaces []string) Option {
	return func(f *Facade) {
		f.implicit = make(map[string]bool, len(namespaces))
		for _, ns := range namespaces {
			f.implicit[ns] = true
		}
	}
}

// New returns a C# facade.
func New(opts ...Option) *Facade {
	f := &Facade{language: tscsharp.GetLanguage()}
	WithImplicitUsings(DefaultImplicitUsings)(f)
	for _, opt := range opts {
		opt(f)
	}
	f.parsers.New = func() any {
		p := sitter.NewParser()
		p.SetLanguage(f.language)
		return p
	}
	f.generated = newDetector()
	return f
}

func (f *Facade) Language() string     { return Language }
func (f *Facade) Extensions() []string { return []string{".cs"} }

func (f *Facade) GeneratedCode() lang.GeneratedCodeRecognizer { return f.generated }

func (f *Facade) KindOf(n syntax.Node) syntax.Kind {
	if cn, ok := n.(*node); ok {
		return cn.kind
	}
	return nil
}

func (f *Facade) SyntaxKind(name string) (syntax.Kind, bool) {
	k, ok := logical[name]
	if !ok {
		return nil, false
	}
	return k, true
}

func (f *Facade) KnownType(name string) (syntax.TypeID, bool) {
	id, ok := knownTypes[name]
	return id, ok
}

func (f *Facade) KnownMember(name string) (string, bool) {
	m, ok := knownMembers[name]
	return m, ok
}

// parsed is stored in syntax.Tree.Raw; it keeps the tree-sitter tree alive
// as long as the syntax tree.
type parsed struct {
	tree *sitter.Tree
	src  []byte
}

// IsMemberAccessOnKnownType matches Type.Method member accesses and their
// invocations, plus bare calls imported with "using static Type;".
func (f *Facade) IsMemberAccessOnKnownType(n syntax.Node, method string, typ syntax.TypeID, model syntax.SemanticModel) bool {
	m, ok := model.(*Model)
	cn, isNode := n.(*node)
	if !ok || !isNode {
		return false
	}
	ts := cn.ts
	if ts.Type() == "invocation_expression" {
		fn := ts.ChildByFieldName("function")
		if fn == nil {
			return false
		}
		if fn.Type() == "identifier" {
			return text(fn, m.src) == method && m.staticImport(typ)
		}
		ts = fn
	}
	if ts.Type() != "member_access_expression" {
		return false
	}
	name := ts.ChildByFieldName("name")
	if name == nil || normalizeName(text(name, m.src)) != method {
		return false
	}
	return m.resolveType(text(ts.ChildByFieldName("expression"), m.src), typ)
}

func (f *Facade) DeclaredSymbol(n syntax.Node, model syntax.SemanticModel) (syntax.Symbol, bool) {
	m, ok := model.(*Model)
	cn, isNode := n.(*node)
	if !ok || !isNode {
		return nil, false
	}
	name := cn.ts.ChildByFieldName("name")
	if name == nil {
		return nil, false
	}
	kind := syntax.SymbolUnknown
	switch cn.kind {
	case KindStruct:
		kind = syntax.SymbolStruct
	case KindClass, KindRecord:
		kind = syntax.SymbolClass
	case KindInterface:
		kind = syntax.SymbolInterface
	case KindMethod:
		kind = syntax.SymbolMethod
	default:
		return nil, false
	}
	return &symbol{name: text(name, m.src), kind: kind, decl: cn.ts, model: m}, true
}

// ModifierKinds returns the modifier keywords of a declaration.
func (f *Facade) ModifierKinds(n syntax.Node) syntax.KindSet {
	cn, ok := n.(*node)
	if !ok {
		return syntax.KindSet{}
	}
	var kinds []syntax.Kind
	for i := 0; i < int(cn.ts.ChildCount()); i++ {
		child := cn.ts.Child(i)
		if child == nil {
			continue
		}
		word := child.Type()
		if word == "modifier" {
			word = modifierWord(child)
		}
		if k, ok := modifierKinds[word]; ok {
			kinds = append(kinds, k)
		}
	}
	return syntax.NewKindSet(kinds...)
}

// modifierWord reads the keyword of a modifier node from its anonymous child.
func modifierWord(mod *sitter.Node) string {
	if mod.ChildCount() > 0 {
		if kw := mod.Child(0); kw != nil {
			return kw.Type()
		}
	}
	return ""
}

func (f *Facade) IdentifierOf(n syntax.Node) (syntax.Token, bool) {
	cn, ok := n.(*node)
	if !ok {
		return syntax.Token{}, false
	}
	id := cn.ts
	switch cn.ts.Type() {
	case "identifier":
	case "invocation_expression":
		id = cn.ts.ChildByFieldName("function")
		if id != nil && id.Type() == "member_access_expression" {
			id = id.ChildByFieldName("name")
		}
	case "member_access_expression":
		id = cn.ts.ChildByFieldName("name")
	default:
		id = cn.ts.ChildByFieldName("name")
	}
	if id == nil {
		return syntax.Token{}, false
	}
	return syntax.Token{
		Text: text(id, cn.src),
		Span: source.Span{File: cn.span.File, Start: id.StartByte(), End: id.EndByte()},
	}, true
}

// Parse parses file with a pooled tree-sitter parser. Tree-sitter recovers
// from syntax errors, so a tree is always returned; ERROR nodes map to
// KindOther.
func (f *Facade) Parse(ctx context.Context, file *source.File) (*syntax.Tree, syntax.SemanticModel, error) {
	p, _ := f.parsers.Get().(*sitter.Parser)
	defer f.parsers.Put(p)
	tsTree, err := p.ParseCtx(ctx, nil, file.Content)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", file.Path, err)
	}
	root := tsTree.RootNode()
	tree := &syntax.Tree{
		Lang: Language,
		File: file,
		Root: buildTree(root, file),
		Raw:  &parsed{tree: tsTree, src: file.Content},
	}
	return tree, newModel(root, file.Content, f.implicit), nil
}

// symbol is a declared C# type or method.
type symbol struct {
	name  string
	kind  syntax.SymbolKind
	decl  *sitter.Node
	model *Model
}

func (s *symbol) Name() string            { return s.name }
func (s *symbol) Kind() syntax.SymbolKind { return s.kind }

// Implements checks the declaration's base list.
func (s *symbol) Implements(typ syntax.TypeID) bool {
	for i := 0; i < int(s.decl.NamedChildCount()); i++ {
		child := s.decl.NamedChild(i)
		if child == nil || child.Type() != "base_list" {
			continue
		}
		for j := 0; j < int(child.NamedChildCount()); j++ {
			base := child.NamedChild(j)
			if base != nil && s.model.resolveType(text(base, s.model.src), typ) {
				return true
			}
		}
	}
	return false
}

func isAttributeNamed(name string, want ...string) bool {
	name = normalizeName(name)
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}
	name = strings.TrimSuffix(name, "Attribute")
	for _, w := range want {
		if name == w {
			return true
		}
	}
	return false
}
