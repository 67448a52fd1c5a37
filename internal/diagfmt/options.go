package diagfmt

import (
	"lintel/internal/diag"
	"lintel/internal/source"
)

// PathMode specifies how file paths are displayed.
type PathMode uint8

const (
	// PathModeAuto prints paths as they were given.
	PathModeAuto PathMode = iota
	// PathModeAbsolute always uses absolute paths.
	PathModeAbsolute
	PathModeRelative
	PathModeBasename
)

// ParsePathMode accepts auto|absolute|relative|basename.
func ParsePathMode(s string) (PathMode, bool) {
	switch s {
	case "", "auto":
		return PathModeAuto, true
	case "absolute":
		return PathModeAbsolute, true
	case "relative":
		return PathModeRelative, true
	case "basename":
		return PathModeBasename, true
	}
	return PathModeAuto, false
}

// PrettyOpts configures pretty-printing of diagnostics.
type PrettyOpts struct {
	Color bool
	// Context is the number of source lines shown around the primary line.
	Context  int
	PathMode PathMode
	// ShowInternal includes engine-internal diagnostics.
	ShowInternal bool
}

// JSONOpts configures JSON output of diagnostics.
type JSONOpts struct {
	IncludePositions bool // добавить line/col
	PathMode         PathMode
	Max              int // обрезка вывода, не Bag
	IncludeInternal  bool
}

// SarifRunMeta provides metadata for SARIF output.
type SarifRunMeta struct {
	ToolName       string
	ToolVersion    string
	InformationURI string
	InvocationArgs []string
	// Rules lists every descriptor of the run, reported or not.
	Rules []*diag.Descriptor
}

func displayPath(d *diag.Diagnostic, fs *source.FileSet, mode PathMode) string {
	f := fileOf(d, fs)
	if f == nil {
		f = &source.File{Path: d.Path}
	}
	switch mode {
	case PathModeAbsolute:
		return f.FormatPath("absolute", "")
	case PathModeRelative:
		base := ""
		if fs != nil {
			base = fs.BaseDir()
		}
		return f.FormatPath("relative", base)
	case PathModeBasename:
		return f.FormatPath("basename", "")
	default:
		return f.Path
	}
}

func fileOf(d *diag.Diagnostic, fs *source.FileSet) *source.File {
	if fs == nil || d.Path == "" {
		return nil
	}
	id, ok := fs.GetLatest(d.Path)
	if !ok {
		return nil
	}
	return fs.Get(id)
}

func visible(diags []diag.Diagnostic, internal bool) []diag.Diagnostic {
	if internal {
		return diags
	}
	out := make([]diag.Diagnostic, 0, len(diags))
	for _, d := range diags {
		if !d.Internal {
			out = append(out, d)
		}
	}
	return out
}
