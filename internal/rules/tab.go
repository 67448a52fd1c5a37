package rules

import (
	"bytes"

	"fortio.org/safecast"

	"lintel/internal/diag"
	"lintel/internal/lint"
	"lintel/internal/source"
)

var tabDesc = diag.MustDescriptor(
	"S105",
	"Tabulation characters should not be used",
	"Replace all tab characters in this file by sequences of white-spaces.",
	diag.CategoryStyle,
	diag.SevInfo,
)

// TabCharacter reports the first tab of a file, once.
type TabCharacter struct {
	lint.Base
}

func NewTabCharacter() *TabCharacter {
	return &TabCharacter{Base: lint.MustBase(tabDesc, lint.Interest{Tree: true})}
}

func (r *TabCharacter) VisitTree(c *lint.Context) error {
	file := c.Tree().File
	idx := bytes.IndexByte(file.Content, '\t')
	if idx < 0 {
		return nil
	}
	off, err := safecast.Conv[uint32](idx)
	if err != nil {
		return err
	}
	return c.Report(source.At(file.ID, off))
}
