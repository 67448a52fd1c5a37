package golang

import (
	"go/ast"
	"go/token"
	"go/types"
	"path"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/tools/go/ast/inspector"
	"golang.org/x/tools/go/types/typeutil"

	"lintel/internal/syntax"
)

// ImporterFunc builds the importer used by a model's type checker.
type ImporterFunc func(fset *token.FileSet) types.Importer

// Model is the semantic model of one Go file. Type checking runs lazily on
// first use and tolerates errors; the partial information it yields is
// complemented by the file's import table.
type Model struct {
	fset     *token.FileSet
	file     *ast.File
	importer ImporterFunc

	once    sync.Once
	info    *types.Info
	imports map[string]string
	methods typeutil.MethodSetCache
}

func newModel(fset *token.FileSet, file *ast.File, importer ImporterFunc) *Model {
	if importer == nil {
		importer = ShallowImporter
	}
	return &Model{fset: fset, file: file, importer: importer}
}

func (m *Model) Language() string { return Language }

func (m *Model) resolve() {
	m.once.Do(func() {
		m.info = &types.Info{
			Types: make(map[ast.Expr]types.TypeAndValue),
			Defs:  make(map[*ast.Ident]types.Object),
			Uses:  make(map[*ast.Ident]types.Object),
		}
		// A non-nil Error keeps the checker going past the first error;
		// the info maps stay usable.
		conf := types.Config{
			Importer:    m.importer(m.fset),
			FakeImportC: true,
			Error:       func(error) {},
		}
		_, _ = conf.Check(m.file.Name.Name, m.fset, []*ast.File{m.file}, m.info)

		m.imports = make(map[string]string)
		in := inspector.New([]*ast.File{m.file})
		in.Preorder([]ast.Node{(*ast.ImportSpec)(nil)}, func(n ast.Node) {
			spec := n.(*ast.ImportSpec)
			p, err := strconv.Unquote(spec.Path.Value)
			if err != nil {
				return
			}
			name := packageName(p)
			if spec.Name != nil {
				name = spec.Name.Name
			}
			m.imports[name] = p
		})
	})
}

// Info returns the (possibly partial) type information.
func (m *Model) Info() *types.Info {
	m.resolve()
	return m.info
}

// packagePath resolves the package an identifier refers to.
func (m *Model) packagePath(id *ast.Ident) (string, bool) {
	m.resolve()
	if obj, ok := m.info.Uses[id]; ok {
		if pn, ok := obj.(*types.PkgName); ok {
			return pn.Imported().Path(), true
		}
		return "", false
	}
	p, ok := m.imports[id.Name]
	return p, ok
}

func (m *Model) typeName(id *ast.Ident) (*types.TypeName, bool) {
	m.resolve()
	tn, ok := m.info.Defs[id].(*types.TypeName)
	return tn, ok && tn != nil
}

// ShallowImporter satisfies every import with an empty package. The checker
// still records package references, which is all the facade needs, and no
// dependency has to be present on disk.
func ShallowImporter(*token.FileSet) types.Importer {
	return shallow{}
}

type shallow struct{}

func (shallow) Import(p string) (*types.Package, error) {
	pkg := types.NewPackage(p, packageName(p))
	pkg.MarkComplete()
	return pkg, nil
}

// packageName guesses the declared name of an import path.
func packageName(p string) string {
	base := path.Base(p)
	if strings.HasPrefix(base, "v") && len(base) > 1 && strings.Trim(base[1:], "0123456789") == "" {
		base = path.Base(path.Dir(p))
	}
	base = strings.TrimPrefix(base, "go-")
	base = strings.TrimSuffix(base, ".go")
	if i := strings.IndexAny(base, ".-"); i > 0 {
		base = base[:i]
	}
	return base
}

// symbol is a declared Go entity.
type symbol struct {
	name  string
	kind  syntax.SymbolKind
	spec  *ast.TypeSpec
	model *Model
}

func (s *symbol) Name() string            { return s.name }
func (s *symbol) Kind() syntax.SymbolKind { return s.kind }

func (s *symbol) Implements(typ syntax.TypeID) bool {
	if s.spec == nil || typ != equatableID {
		return false
	}
	if tn, ok := s.model.typeName(s.spec.Name); ok {
		if named, ok := tn.Type().(*types.Named); ok && hasEqualMethod(named, &s.model.methods) {
			return true
		}
	}
	return hasEqualDecl(s.model.file, s.name)
}

// hasEqualMethod looks for Equal(T) bool or Equal(*T) bool in the method
// sets of T and *T.
func hasEqualMethod(named *types.Named, cache *typeutil.MethodSetCache) bool {
	for _, sel := range typeutil.IntuitiveMethodSet(named, cache) {
		fn, ok := sel.Obj().(*types.Func)
		if !ok || fn.Name() != "Equal" {
			continue
		}
		sig, ok := fn.Type().(*types.Signature)
		if !ok || sig.Params().Len() != 1 || sig.Results().Len() != 1 {
			continue
		}
		param := sig.Params().At(0).Type()
		if ptr, ok := param.(*types.Pointer); ok {
			param = ptr.Elem()
		}
		res, ok := sig.Results().At(0).Type().(*types.Basic)
		if types.Identical(param, named) && ok && res.Kind() == types.Bool {
			return true
		}
	}
	return false
}

// hasEqualDecl is the syntactic fallback used when the type checker gave up.
func hasEqualDecl(f *ast.File, typeName string) bool {
	for _, decl := range f.Decls {
		fd, ok := decl.(*ast.FuncDecl)
		if !ok || fd.Recv == nil || fd.Name.Name != "Equal" || len(fd.Recv.List) != 1 {
			continue
		}
		if baseIdent(fd.Recv.List[0].Type) != typeName {
			continue
		}
		params, results := fd.Type.Params, fd.Type.Results
		if params == nil || params.NumFields() != 1 || results == nil || results.NumFields() != 1 {
			continue
		}
		if baseIdent(params.List[0].Type) != typeName {
			continue
		}
		if id, ok := results.List[0].Type.(*ast.Ident); ok && id.Name == "bool" {
			return true
		}
	}
	return false
}

func baseIdent(e ast.Expr) string {
	for {
		switch t := e.(type) {
		case *ast.StarExpr:
			e = t.X
		case *ast.ParenExpr:
			e = t.X
		case *ast.IndexExpr:
			e = t.X
		case *ast.IndexListExpr:
			e = t.X
		case *ast.Ident:
			return t.Name
		default:
			return ""
		}
	}
}
