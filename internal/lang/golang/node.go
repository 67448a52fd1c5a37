package golang

import (
	"cmp"
	"go/ast"
	"go/token"
	"slices"

	"fortio.org/safecast"
	"golang.org/x/tools/go/ast/inspector"

	"lintel/internal/source"
	"lintel/internal/syntax"
)

// node adapts an ast.Node to syntax.Node.
type node struct {
	ast      ast.Node
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

// AST returns the go/ast node behind n, or nil for foreign nodes.
func AST(n syntax.Node) ast.Node {
	if gn, ok := n.(*node); ok {
		return gn.ast
	}
	return nil
}

// buildTree mirrors f as syntax nodes, preserving source order.
func buildTree(fset *token.FileSet, f *ast.File, file *source.File) *node {
	tf := fset.File(f.Pos())
	offset := func(p token.Pos) uint32 {
		if tf == nil || !p.IsValid() {
			return 0
		}
		off := int(p) - tf.Base()
		if off < 0 {
			off = 0
		}
		if off > tf.Size() {
			off = tf.Size()
		}
		v, err := safecast.Conv[uint32](off)
		if err != nil {
			return 0
		}
		return v
	}

	newNode := func(n ast.Node, parent *node) *node {
		nd := &node{
			ast:    n,
			kind:   kindOf(n),
			span:   source.Span{File: file.ID, Start: offset(n.Pos()), End: offset(n.End())},
			parent: parent,
		}
		if nd.span.End < nd.span.Start {
			nd.span.End = nd.span.Start
		}
		if parent != nil {
			parent.children = append(parent.children, nd)
		}
		return nd
	}

	var root *node
	var stack []*node
	walked := make(map[*ast.CommentGroup]bool)
	in := inspector.New([]*ast.File{f})
	in.WithStack(nil, func(n ast.Node, push bool, _ []ast.Node) bool {
		if !push {
			stack = stack[:len(stack)-1]
			return true
		}
		var parent *node
		if len(stack) > 0 {
			parent = stack[len(stack)-1]
		}
		nd := newNode(n, parent)
		switch n := n.(type) {
		case *ast.File:
			nd.span = file.Span()
			root = nd
		case *ast.CommentGroup:
			walked[n] = true
		}
		stack = append(stack, nd)
		return true
	})
	if root == nil {
		return nil
	}

	// ast.File.Comments is not walked: groups inside bodies and between
	// declarations become children of the file node, in source order.
	detached := false
	for _, cg := range f.Comments {
		if walked[cg] {
			continue
		}
		group := newNode(cg, root)
		for _, c := range cg.List {
			newNode(c, group)
		}
		detached = true
	}
	if detached {
		slices.SortStableFunc(root.children, func(a, b syntax.Node) int {
			return cmp.Compare(a.Span().Start, b.Span().Start)
		})
	}
	return root
}
