package golang

import (
	"go/ast"

	"lintel/internal/lang/gencode"
	"lintel/internal/syntax"
)

var goPatterns = gencode.Patterns{
	Paths: []gencode.PathPattern{
		{Suffix: "_gen.go", Score: gencode.DefaultThreshold},
		{Suffix: "_generated.go", Score: gencode.DefaultThreshold},
		{Suffix: ".pb.go", Score: gencode.DefaultThreshold},
		{Suffix: ".pb.gw.go", Score: gencode.DefaultThreshold},
	},
}

func newDetector() *gencode.Detector {
	return &gencode.Detector{
		Patterns: goPatterns,
		FromTree: func(t *syntax.Tree, e *gencode.Evidence) {
			p, ok := t.Raw.(*parsed)
			if !ok || !ast.IsGenerated(p.file) {
				return
			}
			e.Add(gencode.Hint{
				Signal: gencode.SignalHeader,
				Score:  gencode.DefaultThreshold,
				Reason: "Code generated ... DO NOT EDIT.",
			})
		},
	}
}
