package golang_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lintel/internal/lang"
	"lintel/internal/lang/golang"
	"lintel/internal/source"
	"lintel/internal/syntax"
)

const sample = `package demo

import (
	"runtime"
	t "time"
)

type Point struct{ X, Y int }

func (p Point) Equal(o Point) bool { return p == o }

type Plain struct{}

type Ptr struct{ v int }

func (p *Ptr) Equal(o *Ptr) bool { return p.v == o.v }

func run() {
	t.Sleep(10)
	runtime.GC()
	other.Sleep(1)
}
`

func parse(t *testing.T, path, src string) (*golang.Facade, *syntax.Tree, syntax.SemanticModel) {
	t.Helper()
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual(path, []byte(src)))
	f := golang.New()
	tree, model, err := f.Parse(context.Background(), file)
	require.NoError(t, err)
	return f, tree, model
}

func collect(f lang.Facade, tree *syntax.Tree, logical string) []syntax.Node {
	k, ok := f.SyntaxKind(logical)
	if !ok {
		return nil
	}
	var out []syntax.Node
	syntax.Walk(tree.Root, func(n syntax.Node) bool {
		if f.KindOf(n) == k {
			out = append(out, n)
		}
		return true
	})
	return out
}

func TestTreeShape(t *testing.T) {
	f, tree, _ := parse(t, "demo.go", sample)
	assert.Equal(t, golang.KindFile, f.KindOf(tree.Root))
	assert.Equal(t, tree.Span(), tree.Root.Span())
	assert.Nil(t, tree.Root.Parent())

	structs := collect(f, tree, lang.KindStructDeclaration)
	require.Len(t, structs, 3)
	names := make([]string, len(structs))
	for i, s := range structs {
		tok, ok := f.IdentifierOf(s)
		require.True(t, ok)
		names[i] = tok.Text
		assert.Equal(t, tok.Text, sample[tok.Span.Start:tok.Span.End])
		assert.NotNil(t, s.Parent())
	}
	assert.Equal(t, []string{"Point", "Plain", "Ptr"}, names)

	_, ok := f.SyntaxKind(lang.KindRefKeyword)
	assert.False(t, ok, "Go has no ref keyword")
	assert.Equal(t, 0, f.ModifierKinds(structs[0]).Len())
}

func TestEquatable(t *testing.T) {
	f, tree, model := parse(t, "demo.go", sample)
	eq, ok := f.KnownType(lang.TypeEquatable)
	require.True(t, ok)

	want := map[string]bool{"Point": true, "Plain": false, "Ptr": true}
	for _, s := range collect(f, tree, lang.KindStructDeclaration) {
		sym, ok := f.DeclaredSymbol(s, model)
		require.True(t, ok)
		assert.Equal(t, syntax.SymbolStruct, sym.Kind())
		assert.Equal(t, want[sym.Name()], sym.Implements(eq), sym.Name())
	}
}

func TestMemberAccessOnKnownType(t *testing.T) {
	f, tree, model := parse(t, "demo.go", sample)
	thread, _ := f.KnownType(lang.TypeThread)
	gc, _ := f.KnownType(lang.TypeGC)
	sleep, ok := f.KnownMember(lang.MemberThreadSleep)
	require.True(t, ok)
	collectGC, ok := f.KnownMember(lang.MemberGCCollect)
	require.True(t, ok)
	assert.Equal(t, "GC", collectGC)
	_, ok = f.KnownMember("Thread.Join")
	assert.False(t, ok)

	var sleeps, gcs int
	for _, call := range collect(f, tree, lang.KindInvocationExpression) {
		if f.IsMemberAccessOnKnownType(call, sleep, thread, model) {
			sleeps++
		}
		if f.IsMemberAccessOnKnownType(call, collectGC, gc, model) {
			gcs++
		}
	}
	assert.Equal(t, 1, sleeps, "aliased time.Sleep only")
	assert.Equal(t, 1, gcs)
	assert.False(t, f.IsMemberAccessOnKnownType(tree.Root, "Sleep", thread, nil))
}

func TestGeneratedCode(t *testing.T) {
	tests := []struct {
		path string
		src  string
		want bool
	}{
		{"a.go", "package a\n", false},
		{"a.pb.go", "package a\n", true},
		{"a_gen.go", "package a\n", true},
		{"a.go", "// Code generated by stringer; DO NOT EDIT.\n\npackage a\n", true},
		{"a.go", "package a\n\n// Code generated by stringer; DO NOT EDIT.\n", false},
	}
	for _, tt := range tests {
		f, tree, _ := parse(t, tt.path, tt.src)
		assert.Equal(t, tt.want, f.GeneratedCode().IsGenerated(tree), "%s %q", tt.path, tt.src)
	}
}

func TestSyntaxError(t *testing.T) {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("bad.go", []byte("package a\nfunc {")))
	_, _, err := golang.New().Parse(context.Background(), file)
	require.Error(t, err)
	assert.True(t, errors.Is(err, lang.ErrSyntax))
}

func TestCommentsInsideBodiesAreNodes(t *testing.T) {
	src := "// Package demo is documented.\npackage demo\n\n// run has a doc comment.\nfunc run() {\n\t// inside the body\n\tx := 1 /* trailing */\n\t_ = x\n}\n\n// floating between declarations\n\nvar v = 2 // line comment\n"
	f, tree, _ := parse(t, "comments.go", src)

	var texts []string
	var last uint32
	for _, c := range collect(f, tree, lang.KindComment) {
		texts = append(texts, tree.Text()[c.Span().Start:c.Span().End])
		assert.GreaterOrEqual(t, c.Span().Start, last, "comments come in source order")
		last = c.Span().Start
		require.NotNil(t, c.Parent(), "comment nodes hang under a group")
	}
	assert.Equal(t, []string{
		"// Package demo is documented.",
		"// run has a doc comment.",
		"// inside the body",
		"/* trailing */",
		"// floating between declarations",
		"// line comment",
	}, texts)
}
