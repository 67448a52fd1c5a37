package diagfmt

import (
	"encoding/json"
	"io"

	"lintel/internal/diag"
	"lintel/internal/source"
)

// LocationJSON представляет местоположение в файле для JSON
type LocationJSON struct {
	File      string `json:"file"`
	StartByte uint32 `json:"start_byte"`
	EndByte   uint32 `json:"end_byte"`
	StartLine uint32 `json:"start_line,omitempty"`
	StartCol  uint32 `json:"start_col,omitempty"`
	EndLine   uint32 `json:"end_line,omitempty"`
	EndCol    uint32 `json:"end_col,omitempty"`
}

// DiagnosticJSON представляет диагностику в JSON формате
type DiagnosticJSON struct {
	Severity string       `json:"severity"`
	Code     string       `json:"code"`
	Title    string       `json:"title,omitempty"`
	Category string       `json:"category,omitempty"`
	Message  string       `json:"message"`
	Internal bool         `json:"internal,omitempty"`
	Location LocationJSON `json:"location"`
	HelpURI  string       `json:"help_uri,omitempty"`
}

// DiagnosticsOutput представляет корневую структуру JSON вывода
type DiagnosticsOutput struct {
	Diagnostics []DiagnosticJSON `json:"diagnostics"`
	Count       int              `json:"count"`
}

func makeLocation(d *diag.Diagnostic, fs *source.FileSet, pathMode PathMode, includePositions bool) LocationJSON {
	loc := LocationJSON{
		File:      displayPath(d, fs, pathMode),
		StartByte: d.Span.Start,
		EndByte:   d.Span.End,
	}
	if includePositions {
		loc.StartLine = d.Start.Line
		loc.StartCol = d.Start.Col
		loc.EndLine = d.End.Line
		loc.EndCol = d.End.Col
	}
	return loc
}

// BuildDiagnosticsOutput формирует структуру JSON-вывода без сериализации.
func BuildDiagnosticsOutput(diags []diag.Diagnostic, fs *source.FileSet, opts JSONOpts) DiagnosticsOutput {
	items := visible(diags, opts.IncludeInternal)
	maxItems := len(items)
	if opts.Max > 0 && opts.Max < maxItems {
		maxItems = opts.Max
	}

	out := make([]DiagnosticJSON, 0, maxItems)
	for i := range maxItems {
		d := &items[i]
		dj := DiagnosticJSON{
			Severity: d.Severity.String(),
			Code:     d.RuleID(),
			Message:  d.Message,
			Internal: d.Internal,
			Location: makeLocation(d, fs, opts.PathMode, opts.IncludePositions),
		}
		if d.Descriptor != nil {
			dj.Title = d.Descriptor.Title()
			dj.Category = string(d.Descriptor.Category())
			dj.HelpURI = d.Descriptor.HelpURI()
		}
		out = append(out, dj)
	}
	return DiagnosticsOutput{Diagnostics: out, Count: len(out)}
}

// JSON форматирует диагностики в JSON формат.
func JSON(w io.Writer, diags []diag.Diagnostic, fs *source.FileSet, opts JSONOpts) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(BuildDiagnosticsOutput(diags, fs, opts))
}
