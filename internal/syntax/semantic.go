package syntax

// TypeID names a type (or type-like capability) in the form a facade
// understands, e.g. "System.IEquatable`1" or "runtime".
type TypeID string

// SemanticModel is the tree-scoped symbol and type resolution facility.
// Implementations resolve lazily and cache per instance; a model is shared
// read-only by every rule visiting its tree.
type SemanticModel interface {
	// Language returns the ID of the facade that understands this model.
	Language() string
}

// SymbolKind coarsely classifies a declared symbol.
type SymbolKind uint8

const (
	SymbolUnknown SymbolKind = iota
	SymbolStruct
	SymbolClass
	SymbolInterface
	SymbolMethod
	SymbolFunction
)

func (k SymbolKind) String() string {
	switch k {
	case SymbolStruct:
		return "struct"
	case SymbolClass:
		return "class"
	case SymbolInterface:
		return "interface"
	case SymbolMethod:
		return "method"
	case SymbolFunction:
		return "function"
	default:
		return "unknown"
	}
}

// Symbol is a declared entity resolved by a semantic model.
type Symbol interface {
	Name() string
	Kind() SymbolKind
	// Implements reports whether the symbol provides the capability named by
	// typ (an interface, or an equivalent structural contract).
	Implements(typ TypeID) bool
}
