package csharp

import (
	"strings"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"

	"lintel/internal/syntax"
)

// Model is a syntactic semantic model: it knows the using directives and the
// type declarations of one file and resolves names against them. It is built
// lazily on first query.
type Model struct {
	root     *sitter.Node
	src      []byte
	implicit map[string]bool

	once sync.Once
	// namespaces imported by "using N;"
	namespaces map[string]bool
	// aliases from "using A = X.Y;"
	aliases map[string]string
	// types imported by "using static X.Y;"
	static []string
	// local type declarations by simple name
	declared map[string]*sitter.Node
}

func newModel(root *sitter.Node, src []byte, implicit map[string]bool) *Model {
	return &Model{root: root, src: src, implicit: implicit}
}

func (m *Model) Language() string { return Language }

func (m *Model) resolve() {
	m.once.Do(func() {
		m.namespaces = make(map[string]bool)
		m.aliases = make(map[string]string)
		m.declared = make(map[string]*sitter.Node)
		visit(m.root, func(n *sitter.Node) bool {
			switch n.Type() {
			case "using_directive":
				m.addUsing(text(n, m.src))
				return false
			case "class_declaration", "struct_declaration", "record_declaration",
				"record_struct_declaration", "interface_declaration", "enum_declaration":
				if name := n.ChildByFieldName("name"); name != nil {
					m.declared[text(name, m.src)] = n
				}
			}
			return true
		})
	})
}

func (m *Model) addUsing(directive string) {
	d := strings.TrimSpace(directive)
	d = strings.TrimPrefix(d, "global ")
	d = strings.TrimSpace(strings.TrimPrefix(d, "using"))
	d = strings.TrimSpace(strings.TrimSuffix(d, ";"))
	switch {
	case strings.HasPrefix(d, "static "):
		m.static = append(m.static, normalizeName(strings.TrimPrefix(d, "static ")))
	case strings.Contains(d, "="):
		parts := strings.SplitN(d, "=", 2)
		m.aliases[strings.TrimSpace(parts[0])] = normalizeName(parts[1])
	default:
		m.namespaces[normalizeName(d)] = true
	}
}

// resolveType maps a type expression to a fully qualified name. Names that
// are not qualified, not aliased and not declared locally resolve through
// the imported namespaces of each known type.
func (m *Model) resolveType(expr string, want syntax.TypeID) bool {
	m.resolve()
	name := normalizeName(expr)
	if full, ok := m.aliases[name]; ok {
		name = full
	}
	target := string(want)
	if name == target {
		return true
	}
	simple := target
	ns := ""
	if i := strings.LastIndexByte(target, '.'); i >= 0 {
		ns, simple = target[:i], target[i+1:]
	}
	if name != simple {
		return false
	}
	if _, shadowed := m.declared[simple]; shadowed {
		return false
	}
	return ns == "" || m.namespaces[ns] || m.implicit[ns]
}

// staticImport reports whether a bare call may resolve through
// "using static T;".
func (m *Model) staticImport(want syntax.TypeID) bool {
	m.resolve()
	for _, s := range m.static {
		if s == string(want) {
			return true
		}
	}
	return false
}

// normalizeName strips "global::", generic arguments and whitespace.
func normalizeName(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "global::")
	if i := strings.IndexByte(s, '<'); i >= 0 {
		s = s[:i]
	}
	return strings.Join(strings.Fields(s), "")
}

// visit walks ts in pre-order; returning false skips children.
func visit(ts *sitter.Node, fn func(*sitter.Node) bool) {
	if ts == nil || !fn(ts) {
		return
	}
	for i := 0; i < int(ts.NamedChildCount()); i++ {
		visit(ts.NamedChild(i), fn)
	}
}
