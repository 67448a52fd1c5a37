package diagfmt

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strings"
	"testing"

	"lintel/internal/diag"
	"lintel/internal/source"
)

var testDesc = diag.MustDescriptor("S1", "Test rule", "found %s", diag.CategoryStyle, diag.SevWarning,
	diag.WithHelpURI("https://example.invalid/S1"))

func report(t *testing.T, path, content string, spans ...source.Span) (*source.FileSet, []diag.Diagnostic) {
	t.Helper()
	fs := source.NewFileSetWithBase("/home/user/project")
	file := fs.Get(fs.AddVirtual(path, []byte(content)))
	bag := diag.NewBag(0)
	r := diag.NewReporter(file, bag, nil, nil, nil)
	for _, sp := range spans {
		sp.File = file.ID
		if err := r.Report(testDesc, sp, content[sp.Start:sp.End]); err != nil {
			t.Fatalf("report: %v", err)
		}
	}
	return fs, bag.Items()
}

func TestPrettyCaretUsesDisplayWidth(t *testing.T) {
	cases := []struct {
		name    string
		content string
		span    source.Span
		caret   string
	}{
		{"ascii", "let bad = 1\n", source.Span{Start: 4, End: 7}, "   |     ^~~"},
		{"two-byte runes", "αβ bad\n", source.Span{Start: 5, End: 8}, "   |    ^~~"},
		{"wide runes", "日本 x\n", source.Span{Start: 7, End: 8}, "   |      ^"},
		{"tab", "\tx\n", source.Span{Start: 1, End: 2}, "   |     ^"},
		{"empty span", "abc\n", source.Span{Start: 1, End: 1}, "   |  ^"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fs, diags := report(t, "a.txt", tc.content, tc.span)
			var buf bytes.Buffer
			if err := Pretty(&buf, diags, fs, PrettyOpts{}); err != nil {
				t.Fatal(err)
			}
			lines := strings.Split(buf.String(), "\n")
			if len(lines) < 4 {
				t.Fatalf("short output:\n%s", buf.String())
			}
			if lines[2] != tc.caret {
				t.Fatalf("caret line = %q, want %q\n%s", lines[2], tc.caret, buf.String())
			}
			if lines[3] != "0 errors, 1 warning, 0 info" {
				t.Fatalf("summary = %q", lines[3])
			}
		})
	}
}

func TestPrettyHeaderAndContext(t *testing.T) {
	fs, diags := report(t, "/home/user/project/src/a.txt", "one\ntwo bad\nthree\n", source.Span{Start: 8, End: 11})
	var buf bytes.Buffer
	if err := Pretty(&buf, diags, fs, PrettyOpts{Context: 1, PathMode: PathModeRelative}); err != nil {
		t.Fatal(err)
	}
	want := strings.Join([]string{
		"src/a.txt:2:5: WARNING S1: found bad",
		" 1 | one",
		" 2 | two bad",
		"   |     ^~~",
		" 3 | three",
		"0 errors, 1 warning, 0 info",
		"",
	}, "\n")
	if buf.String() != want {
		t.Fatalf("got:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestPrettyHidesInternal(t *testing.T) {
	d := diag.Diagnostic{Descriptor: testDesc, Severity: diag.SevError, Path: "x", Message: "engine failure", Internal: true}
	var buf bytes.Buffer
	if err := Pretty(&buf, []diag.Diagnostic{d}, nil, PrettyOpts{}); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != 0 {
		t.Fatalf("internal diagnostic shown: %q", buf.String())
	}
	if err := Pretty(&buf, []diag.Diagnostic{d}, nil, PrettyOpts{ShowInternal: true}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "engine failure") || !strings.Contains(buf.String(), "1 error,") {
		t.Fatalf("internal diagnostic missing: %q", buf.String())
	}
}

func TestJSON(t *testing.T) {
	fs, diags := report(t, "/home/user/project/a.txt", "abc bad\n", source.Span{Start: 4, End: 7}, source.Span{Start: 0, End: 3})
	var buf bytes.Buffer
	if err := JSON(&buf, diags, fs, JSONOpts{IncludePositions: true, PathMode: PathModeBasename, Max: 1}); err != nil {
		t.Fatal(err)
	}
	var out DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if out.Count != 1 || len(out.Diagnostics) != 1 {
		t.Fatalf("Max not applied: %+v", out)
	}
	got := out.Diagnostics[0]
	want := DiagnosticJSON{
		Severity: "WARNING",
		Code:     "S1",
		Title:    "Test rule",
		Category: "style",
		Message:  "found bad",
		Location: LocationJSON{File: "a.txt", StartByte: 4, EndByte: 7, StartLine: 1, StartCol: 5, EndLine: 1, EndCol: 8},
		HelpURI:  "https://example.invalid/S1",
	}
	if got != want {
		t.Fatalf("got %+v\nwant %+v", got, want)
	}
}

func TestSarif(t *testing.T) {
	fs, diags := report(t, "/home/user/project/a.txt", "abc bad\n", source.Span{Start: 4, End: 7})
	other := diag.MustDescriptor("S2", "Unused", "x", diag.CategoryStyle, diag.SevInfo)
	var buf bytes.Buffer
	err := Sarif(&buf, diags, fs, SarifRunMeta{ToolName: "lintel", ToolVersion: "1.0", Rules: []*diag.Descriptor{other}})
	if err != nil {
		t.Fatal(err)
	}
	var log sarifLog
	if err := json.Unmarshal(buf.Bytes(), &log); err != nil {
		t.Fatalf("invalid SARIF: %v", err)
	}
	run := log.Runs[0]
	if len(run.Tool.Driver.Rules) != 2 || run.Tool.Driver.Rules[0].ID != "S2" || run.Tool.Driver.Rules[1].ID != "S1" {
		t.Fatalf("rules = %+v", run.Tool.Driver.Rules)
	}
	if len(run.Results) != 1 {
		t.Fatalf("results = %+v", run.Results)
	}
	res := run.Results[0]
	if res.RuleIndex != 1 || res.Level != "warning" || res.Locations[0].PhysicalLocation.ArtifactLocation.URI != "a.txt" {
		t.Fatalf("result = %+v", res)
	}
	if r := res.Locations[0].PhysicalLocation.Region; r == nil || r.StartColumn != 5 || r.ByteLength != 3 {
		t.Fatalf("region = %+v", r)
	}
	if !run.Invocations[0].ExecutionSuccessful {
		t.Fatalf("run without internal diagnostics must be successful")
	}
}

func TestShort(t *testing.T) {
	_, diags := report(t, "./b.txt", "x\ny\n", source.Span{Start: 2, End: 3}, source.Span{Start: 0, End: 1})
	var buf bytes.Buffer
	if err := Short(&buf, diags, false); err != nil {
		t.Fatal(err)
	}
	want := "warning S1 b.txt:1:1 found x\nwarning S1 b.txt:2:1 found y\n"
	if buf.String() != want {
		t.Fatalf("got %q, want %q", buf.String(), want)
	}
}

var ansi = regexp.MustCompile("\x1b\\[[0-9;]*m")

func TestHighlighterKeepsLines(t *testing.T) {
	src := []string{"func main() {", "    time.Sleep(1)", "}"}
	got := newHighlighter("demo.go").lines(src)
	if len(got) != len(src) {
		t.Fatalf("lines = %d, want %d", len(got), len(src))
	}
	for i := range src {
		if plain := ansi.ReplaceAllString(got[i], ""); plain != src[i] {
			t.Fatalf("line %d = %q, want %q", i, plain, src[i])
		}
	}
	unknown := newHighlighter("notes.unknown-ext").lines(src)
	if unknown[1] != src[1] {
		t.Fatalf("unknown file type must stay plain, got %q", unknown[1])
	}
}
