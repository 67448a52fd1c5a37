// Package golang is the Go language facade. Trees come from go/parser, the
// semantic model from go/types over a single file.
package golang

import (
	"context"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"

	"lintel/internal/lang"
	"lintel/internal/lang/gencode"
	"lintel/internal/source"
	"lintel/internal/syntax"
)

// Language is the facade's language ID.
const Language = "go"

const equatableID syntax.TypeID = "go:Equal(T) bool"

var knownTypes = map[string]syntax.TypeID{
	lang.TypeEquatable: equatableID,
	lang.TypeThread:    "time",
	lang.TypeGC:        "runtime",
}

var knownMembers = map[string]string{
	lang.MemberThreadSleep: "Sleep",
	lang.MemberGCCollect:   "GC",
}

// Facade implements lang.Frontend for Go.
type Facade struct {
	importer  ImporterFunc
	generated *gencode.Detector
}

var _ lang.Frontend = (*Facade)(nil)

// Option configures the facade.
type Option func(*Facade)

// WithImporter replaces the shallow importer, e.g. with
// importer.ForCompiler(fset, "source", nil) for full type information.
func WithImporter(fn ImporterFunc) Option {
	return func(f *Facade) { f.importer = fn }
}

// New returns a Go facade.
func New(opts ...Option) *Facade {
	f := &Facade{
		importer:  ShallowImporter,
		generated: newDetector(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *Facade) Language() string     { return Language }
func (f *Facade) Extensions() []string { return []string{".go"} }

func (f *Facade) GeneratedCode() lang.GeneratedCodeRecognizer { return f.generated }

func (f *Facade) KindOf(n syntax.Node) syntax.Kind {
	if gn, ok := n.(*node); ok {
		return gn.kind
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

// IsMemberAccessOnKnownType matches pkg.Method selectors and calls of them.
// For Go the "type" of a known type is the package path.
func (f *Facade) IsMemberAccessOnKnownType(n syntax.Node, method string, typ syntax.TypeID, model syntax.SemanticModel) bool {
	m, ok := model.(*Model)
	if !ok {
		return false
	}
	expr := AST(n)
	if call, ok := expr.(*ast.CallExpr); ok {
		expr = ast.Unparen(call.Fun)
	}
	sel, ok := expr.(*ast.SelectorExpr)
	if !ok || sel.Sel.Name != method {
		return false
	}
	x, ok := ast.Unparen(sel.X).(*ast.Ident)
	if !ok {
		return false
	}
	p, ok := m.packagePath(x)
	return ok && syntax.TypeID(p) == typ
}

func (f *Facade) DeclaredSymbol(n syntax.Node, model syntax.SemanticModel) (syntax.Symbol, bool) {
	m, ok := model.(*Model)
	if !ok {
		return nil, false
	}
	switch d := AST(n).(type) {
	case *ast.TypeSpec:
		kind := syntax.SymbolUnknown
		switch d.Type.(type) {
		case *ast.StructType:
			kind = syntax.SymbolStruct
		case *ast.InterfaceType:
			kind = syntax.SymbolInterface
		}
		return &symbol{name: d.Name.Name, kind: kind, spec: d, model: m}, true
	case *ast.FuncDecl:
		kind := syntax.SymbolFunction
		if d.Recv != nil {
			kind = syntax.SymbolMethod
		}
		return &symbol{name: d.Name.Name, kind: kind, model: m}, true
	}
	return nil, false
}

// ModifierKinds is always empty: Go declarations carry no modifiers.
func (f *Facade) ModifierKinds(syntax.Node) syntax.KindSet {
	return syntax.KindSet{}
}

func (f *Facade) IdentifierOf(n syntax.Node) (syntax.Token, bool) {
	gn, ok := n.(*node)
	if !ok {
		return syntax.Token{}, false
	}
	var id *ast.Ident
	switch d := gn.ast.(type) {
	case *ast.Ident:
		id = d
	case *ast.TypeSpec:
		id = d.Name
	case *ast.FuncDecl:
		id = d.Name
	case *ast.SelectorExpr:
		id = d.Sel
	case *ast.CallExpr:
		switch fn := ast.Unparen(d.Fun).(type) {
		case *ast.Ident:
			id = fn
		case *ast.SelectorExpr:
			id = fn.Sel
		}
	}
	if id == nil {
		return syntax.Token{}, false
	}
	start := gn.span.Start + uint32(id.Pos()-gn.ast.Pos()) // #nosec G115 -- id lies inside the node
	return syntax.Token{
		Text: id.Name,
		Span: source.Span{File: gn.span.File, Start: start, End: start + uint32(len(id.Name))}, // #nosec G115 -- identifier length
	}, true
}

// parsed is stored in syntax.Tree.Raw.
type parsed struct {
	fset *token.FileSet
	file *ast.File
}

// Parse parses file. Syntax errors are returned wrapped in lang.ErrSyntax.
func (f *Facade) Parse(ctx context.Context, file *source.File) (*syntax.Tree, syntax.SemanticModel, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	fset := token.NewFileSet()
	af, err := parser.ParseFile(fset, file.Path, file.Content, parser.ParseComments|parser.SkipObjectResolution)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w: %w", file.Path, lang.ErrSyntax, err)
	}
	tree := &syntax.Tree{
		Lang: Language,
		File: file,
		Root: buildTree(fset, af, file),
		Raw:  &parsed{fset: fset, file: af},
	}
	return tree, newModel(fset, af, f.importer), nil
}
