package csharp

import (
	sitter "github.com/smacker/go-tree-sitter"

	"lintel/internal/source"
	"lintel/internal/syntax"
)

type node struct {
	ts       *sitter.Node
	src      []byte
	kind     Kind
	span     source.Span
	parent   *node
	children []syntax.Node
}

func (n *node) Kind() syntax.Kind       { return n.kind }
func (n *node) Span() source.Span       { return n.span }
func (n *node) Children() []syntax.Node { return n.children }

func (n *node) Parent() syntax.Node {
	if n.parent == nil {
		return nil
	}
	return n.parent
}

// Sitter returns the tree-sitter node behind n, or nil for foreign nodes.
func Sitter(n syntax.Node) *sitter.Node {
	if cn, ok := n.(*node); ok {
		return cn.ts
	}
	return nil
}

// buildTree mirrors the named nodes of root.
func buildTree(root *sitter.Node, file *source.File) *node {
	limit := file.Span().End
	clamp := func(v uint32) uint32 {
		if v > limit {
			return limit
		}
		return v
	}
	var wrap func(ts *sitter.Node, parent *node) *node
	wrap = func(ts *sitter.Node, parent *node) *node {
		n := &node{
			ts:     ts,
			src:    file.Content,
			kind:   byNodeType[ts.Type()],
			span:   source.Span{File: file.ID, Start: clamp(ts.StartByte()), End: clamp(ts.EndByte())},
			parent: parent,
		}
		count := int(ts.NamedChildCount())
		if count > 0 {
			n.children = make([]syntax.Node, 0, count)
		}
		for i := 0; i < count; i++ {
			if child := ts.NamedChild(i); child != nil {
				n.children = append(n.children, wrap(child, n))
			}
		}
		return n
	}
	r := wrap(root, nil)
	r.span = file.Span()
	return r
}

// text returns the source text of ts.
func text(ts *sitter.Node, src []byte) string {
	if ts == nil {
		return ""
	}
	return ts.Content(src)
}
