package syntax

import "strings"

// Kind identifies a syntactic category within one language.
type Kind interface {
	String() string
}

// KindSet is an immutable set of kinds. The zero value is an empty set.
type KindSet struct {
	index map[Kind]struct{}
	order []Kind
}

// NewKindSet builds a set from kinds, ignoring nils and duplicates.
func NewKindSet(kinds ...Kind) KindSet {
	set := KindSet{index: make(map[Kind]struct{}, len(kinds))}
	for _, k := range kinds {
		if k == nil {
			continue
		}
		if _, dup := set.index[k]; dup {
			continue
		}
		set.index[k] = struct{}{}
		set.order = append(set.order, k)
	}
	return set
}

// Has reports whether k belongs to the set.
func (s KindSet) Has(k Kind) bool {
	if k == nil {
		return false
	}
	_, ok := s.index[k]
	return ok
}

// Len returns the number of kinds.
func (s KindSet) Len() int {
	return len(s.order)
}

// Kinds returns the kinds in insertion order.
func (s KindSet) Kinds() []Kind {
	return append([]Kind(nil), s.order...)
}

func (s KindSet) String() string {
	names := make([]string, len(s.order))
	for i, k := range s.order {
		names[i] = k.String()
	}
	return "{" + strings.Join(names, ", ") + "}"
}
