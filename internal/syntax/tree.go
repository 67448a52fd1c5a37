package syntax

import (
	"lintel/internal/source"
)

// Node is an element of a syntax tree.
type Node interface {
	Kind() Kind
	Span() source.Span
	// Parent returns nil for the root.
	Parent() Node
	// Children returns direct children in source order.
	Children() []Node
}

// Tree is the ownership root for one parsed file.
type Tree struct {
	// Lang is the language ID of the facade that produced the tree.
	Lang string
	File *source.File
	Root Node
	// Raw carries the parser's own representation (e.g. *ast.File) so the
	// producing facade can reach it. Rules must not touch it.
	Raw any
}

// Path returns the file path of the tree.
func (t *Tree) Path() string {
	if t == nil || t.File == nil {
		return ""
	}
	return t.File.Path
}

// Text returns the full file text.
func (t *Tree) Text() string {
	if t == nil || t.File == nil {
		return ""
	}
	return string(t.File.Content)
}

// Lines returns the line sequence of the file.
func (t *Tree) Lines() []source.Line {
	if t == nil || t.File == nil {
		return nil
	}
	return t.File.Lines()
}

// Span returns the span of the whole file.
func (t *Tree) Span() source.Span {
	if t == nil || t.File == nil {
		return source.Span{}
	}
	return t.File.Span()
}

// Token is a leaf taken from the source text, typically an identifier.
type Token struct {
	Text string
	Span source.Span
}

// Walk visits every node below root in pre-order, left to right. When fn
// returns false the children of that node are skipped.
func Walk(root Node, fn func(Node) bool) {
	if root == nil {
		return
	}
	stack := []Node{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !fn(n) {
			continue
		}
		children := n.Children()
		for i := len(children) - 1; i >= 0; i-- {
			if children[i] != nil {
				stack = append(stack, children[i])
			}
		}
	}
}
