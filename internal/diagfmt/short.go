package diagfmt

import (
	"io"

	"lintel/internal/diag"
)

// Short writes one "severity ID path:line:col message" line per diagnostic.
func Short(w io.Writer, diags []diag.Diagnostic, includeInternal bool) error {
	out := diag.FormatShort(diags, includeInternal)
	if out == "" {
		return nil
	}
	_, err := io.WriteString(w, out+"\n")
	return err
}
