package csharp

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"lintel/internal/lang/gencode"
	"lintel/internal/source"
	"lintel/internal/syntax"
)

var csPatterns = gencode.Patterns{
	Paths: []gencode.PathPattern{
		{Suffix: ".g.cs", Score: gencode.DefaultThreshold},
		{Suffix: ".g.i.cs", Score: gencode.DefaultThreshold},
		{Suffix: ".designer.cs", Score: gencode.DefaultThreshold},
		{Suffix: ".generated.cs", Score: gencode.DefaultThreshold},
		{Suffix: "_generated.cs", Score: gencode.DefaultThreshold},
		{Prefix: "TemporaryGeneratedFile_", Score: gencode.DefaultThreshold},
	},
	Markers: []gencode.Marker{
		{Text: "<auto-generated", CaseInsensitive: true, Score: gencode.DefaultThreshold},
		{Text: "<autogenerated", CaseInsensitive: true, Score: gencode.DefaultThreshold},
	},
}

var generatedAttributes = []string{"GeneratedCode", "CompilerGenerated", "DebuggerNonUserCode"}

func newDetector() *gencode.Detector {
	return &gencode.Detector{
		Patterns: csPatterns,
		FromTree: collectAttributes,
	}
}

// collectAttributes adds evidence for code-generation attributes on any
// declaration of the file.
func collectAttributes(t *syntax.Tree, e *gencode.Evidence) {
	p, ok := t.Raw.(*parsed)
	if !ok {
		return
	}
	visit(p.tree.RootNode(), func(n *sitter.Node) bool {
		if n.Type() != "attribute" {
			return true
		}
		name := text(n.ChildByFieldName("name"), p.src)
		if isAttributeNamed(name, generatedAttributes...) {
			e.Add(gencode.Hint{
				Signal: gencode.SignalAttribute,
				Score:  gencode.DefaultThreshold,
				Reason: "attribute " + strings.TrimSpace(name),
				Span:   source.Span{File: t.File.ID, Start: n.StartByte(), End: n.EndByte()},
			})
		}
		return false
	})
}
