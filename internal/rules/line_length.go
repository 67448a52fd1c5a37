package rules

import (
	"unicode/utf8"

	"fortio.org/safecast"

	"lintel/internal/diag"
	"lintel/internal/lint"
	"lintel/internal/source"
)

// DefaultMaxLineLength is the default "maximum" of S103.
const DefaultMaxLineLength = 200

var lineLengthDesc = diag.MustDescriptor(
	"S103",
	"Lines should not be too long",
	"Split this %[2]d characters long line (which is greater than %[1]d authorized).",
	diag.CategoryStyle,
	diag.SevWarning,
)

// LineLength reports lines longer than "maximum" characters. Length is
// counted in runes.
type LineLength struct {
	lint.Base
	params *lint.ParamSet
}

func NewLineLength() *LineLength {
	return &LineLength{
		Base: lint.MustBase(lineLengthDesc, lint.Interest{Tree: true}),
		params: lint.NewParamSet().
			DeclareIntRange("maximum", DefaultMaxLineLength, 1, 1<<20, "The maximum authorized line length."),
	}
}

func (r *LineLength) Params() *lint.ParamSet { return r.params }

func (r *LineLength) VisitTree(c *lint.Context) error {
	maximum := c.ParamInt("maximum")
	file := c.Tree().File
	for _, line := range c.Tree().Lines() {
		n := utf8.RuneCountInString(line.Text)
		if n <= maximum {
			continue
		}
		width, err := safecast.Conv[uint32](len(line.Text))
		if err != nil {
			return err
		}
		span := source.Span{File: file.ID, Start: line.Start, End: line.Start + width}
		if err := c.Report(span, maximum, n); err != nil {
			return err
		}
	}
	return nil
}
