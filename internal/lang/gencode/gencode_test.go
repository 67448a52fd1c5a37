package gencode_test

import (
	"testing"

	"lintel/internal/lang/gencode"
	"lintel/internal/source"
	"lintel/internal/syntax"
)

var patterns = gencode.Patterns{
	Paths: []gencode.PathPattern{
		{Suffix: ".g.cs", Score: gencode.DefaultThreshold},
		{Prefix: "TemporaryGeneratedFile_", Score: gencode.DefaultThreshold},
	},
	Markers: []gencode.Marker{
		{Text: "<auto-generated", CaseInsensitive: true, Score: gencode.DefaultThreshold},
	},
	HeaderBytes: 64,
}

func tree(path, content string) *syntax.Tree {
	fs := source.NewFileSet()
	id := fs.AddVirtual(path, []byte(content))
	return &syntax.Tree{Lang: "test", File: fs.Get(id)}
}

func TestDetector(t *testing.T) {
	tests := []struct {
		name string
		path string
		body string
		want bool
	}{
		{"plain", "src/Foo.cs", "class Foo {}", false},
		{"suffix", "src/Foo.G.cs", "class Foo {}", true},
		{"prefix", "obj/TemporaryGeneratedFile_123.cs", "", true},
		{"marker", "Foo.cs", "// <Auto-Generated>\nclass Foo {}", true},
		{"marker past header", "Foo.cs", string(make([]byte, 80)) + "<auto-generated>", false},
	}
	d := &gencode.Detector{Patterns: patterns}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := d.IsGenerated(tree(tt.path, tt.body)); got != tt.want {
				t.Fatalf("IsGenerated = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDetectorTreeEvidenceAndThreshold(t *testing.T) {
	d := &gencode.Detector{
		Classifier: gencode.Classifier{Threshold: 5},
		FromTree: func(_ *syntax.Tree, e *gencode.Evidence) {
			e.Add(gencode.Hint{Signal: gencode.SignalAttribute, Score: 3, Reason: "a"})
			e.Add(gencode.Hint{Signal: gencode.SignalAttribute, Score: 2, Reason: "b"})
		},
	}
	c := d.Classify(tree("x.cs", ""))
	if !c.Generated || c.Score != 5 || c.ObservedSignals != 2 {
		t.Fatalf("unexpected classification %+v", c)
	}
	if c.Strongest.Reason != "a" {
		t.Fatalf("strongest hint = %q", c.Strongest.Reason)
	}
}
