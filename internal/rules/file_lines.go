package rules

import (
	"lintel/internal/diag"
	"lintel/internal/lint"
	"lintel/internal/source"
)

// DefaultMaxFileLines is the default "maximum" of S104.
const DefaultMaxFileLines = 1000

var fileLinesDesc = diag.MustDescriptor(
	"S104",
	"Files should not have too many lines of code",
	"This file has %[2]d lines, which is greater than %[1]d authorized. Split it into smaller files.",
	diag.CategoryDesign,
	diag.SevWarning,
)

// FileLines reports files with more than "maximum" lines.
type FileLines struct {
	lint.Base
	params *lint.ParamSet
}

func NewFileLines() *FileLines {
	return &FileLines{
		Base: lint.MustBase(fileLinesDesc, lint.Interest{Tree: true}),
		params: lint.NewParamSet().
			DeclareIntRange("maximum", DefaultMaxFileLines, 1, 1<<30, "Maximum authorized lines in a file."),
	}
}

func (r *FileLines) Params() *lint.ParamSet { return r.params }

func (r *FileLines) VisitTree(c *lint.Context) error {
	maximum := c.ParamInt("maximum")
	count := c.Tree().File.LineCount()
	if count <= maximum {
		return nil
	}
	return c.Report(source.At(c.Tree().File.ID, 0), maximum, count)
}
