package gencode

import (
	"lintel/internal/syntax"
)

// Detector recognizes generated trees from patterns plus optional
// tree-level evidence supplied by the facade (e.g. attributes).
type Detector struct {
	Patterns   Patterns
	Classifier Classifier
	// FromTree may add evidence found in the parsed tree.
	FromTree func(t *syntax.Tree, e *Evidence)
}

// Classify collects all evidence for t and scores it.
func (d *Detector) Classify(t *syntax.Tree) Classification {
	if t == nil {
		return Classification{}
	}
	e := d.Patterns.Collect(t.File)
	if d.FromTree != nil {
		d.FromTree(t, e)
	}
	return d.Classifier.Classify(e)
}

// IsGenerated reports whether t crosses the generated-code threshold.
func (d *Detector) IsGenerated(t *syntax.Tree) bool {
	return d.Classify(t).Generated
}
