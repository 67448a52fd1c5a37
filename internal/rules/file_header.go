package rules

import (
	"fmt"
	"regexp"
	"strings"

	"lintel/internal/diag"
	"lintel/internal/lint"
	"lintel/internal/source"
)

var fileHeaderDesc = diag.MustDescriptor(
	"S1451",
	"Track lack of copyright and license headers",
	"Add or update the header of this file.",
	diag.CategoryStyle,
	diag.SevWarning,
)

type headerKey struct{}

// FileHeader reports files that do not start with "header". With "regex"
// set, header is a regular expression anchored at the start of the file.
// Generated files are checked too.
type FileHeader struct {
	lint.Base
	params *lint.ParamSet
}

func NewFileHeader() *FileHeader {
	return &FileHeader{
		Base: lint.MustBase(fileHeaderDesc, lint.Interest{Tree: true}),
		params: lint.NewParamSet().
			DeclareString("header", "", "Expected file header; empty disables the rule.").
			DeclareBool("regex", false, "Whether header is a regular expression."),
	}
}

func (r *FileHeader) Params() *lint.ParamSet       { return r.params }
func (r *FileHeader) AppliesToGeneratedCode() bool { return true }

func (r *FileHeader) VisitTree(c *lint.Context) error {
	header := strings.ReplaceAll(c.ParamString("header"), "\r\n", "\n")
	if header == "" {
		return nil
	}
	text := c.Tree().Text()
	if c.ParamBool("regex") {
		re, err := r.compile(c, header)
		if err != nil {
			return err
		}
		if re.MatchString(text) {
			return nil
		}
	} else if strings.HasPrefix(text, header) {
		return nil
	}
	return c.Report(source.At(c.Tree().File.ID, 0))
}

func (r *FileHeader) compile(c *lint.Context, header string) (*regexp.Regexp, error) {
	if re, ok := c.Store()[headerKey{}].(*regexp.Regexp); ok {
		return re, nil
	}
	re, err := regexp.Compile(`\A(?:` + header + `)`)
	if err != nil {
		return nil, fmt.Errorf("invalid header expression: %w", err)
	}
	c.Store()[headerKey{}] = re
	return re, nil
}
