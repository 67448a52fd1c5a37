package rules_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"lintel/internal/diag"
	"lintel/internal/lang"
	"lintel/internal/lang/csharp"
	"lintel/internal/lang/golang"
	"lintel/internal/lang/langtest"
	"lintel/internal/lint"
	"lintel/internal/rules"
	"lintel/internal/source"
)

func analyze(t *testing.T, f lang.Frontend, path, src string, cfg lint.RuleConfig) (*lint.Session, *diag.Bag) {
	t.Helper()
	reg, err := lang.NewRegistry(f)
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	s, err := lint.NewSession(lint.Options{Registry: reg, Rules: cfg}, rules.Default()...)
	if err != nil {
		t.Fatalf("session: %v", err)
	}
	if errs := s.Errors(); len(errs) != 0 {
		t.Fatalf("setup errors: %v", errs)
	}
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual(path, []byte(src)))
	tree, model, err := f.Parse(context.Background(), file)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	bag := diag.NewBag(0)
	if err := s.Analyze(context.Background(), lint.Unit{Tree: tree, Model: model}, bag); err != nil {
		t.Fatalf("analyze: %v", err)
	}
	return s, bag
}

func expect(t *testing.T, bag *diag.Bag, want ...string) {
	t.Helper()
	got := diag.FormatShort(bag.Items(), false)
	if got != strings.Join(want, "\n") {
		t.Fatalf("diagnostics mismatch\n got:\n%s\nwant:\n%s", got, strings.Join(want, "\n"))
	}
}

func TestDefaultIDsAreUnique(t *testing.T) {
	seen := map[string]bool{}
	for _, r := range rules.Default() {
		id := r.Descriptor().ID()
		if seen[id] {
			t.Fatalf("duplicate rule %s", id)
		}
		seen[id] = true
	}
	for _, id := range []string{"S103", "S104", "S105", "S1451", "S3898", "S2925", "S1215"} {
		if !seen[id] {
			t.Fatalf("missing rule %s", id)
		}
	}
}

const goSample = "package demo\n" +
	"\n" +
	"import (\n" +
	"\t\"runtime\"\n" +
	"\t\"time\"\n" +
	")\n" +
	"\n" +
	"type Point struct{ X int }\n" +
	"\n" +
	"func (p Point) Equal(o Point) bool { return p.X == o.X }\n" +
	"\n" +
	"type Plain struct{ X int }\n" +
	"\n" +
	"func run() {\n" +
	"\ttime.Sleep(time.Millisecond)\n" +
	"\truntime.GC()\n" +
	"}\n"

func TestGoSample(t *testing.T) {
	_, bag := analyze(t, golang.New(), "demo.go", goSample, nil)
	expect(t, bag,
		"info S105 demo.go:4:1 Replace all tab characters in this file by sequences of white-spaces.",
		"warning S3898 demo.go:12:6 Implement value equality (IEquatable<T> or Equal(T) bool) on 'Plain'.",
		"warning S2925 demo.go:15:2 Remove this use of 'time.Sleep'.",
		"warning S1215 demo.go:16:2 Refactor the code to remove this use of 'runtime.GC'.",
	)
}

const csSample = `using System;

namespace Demo
{
    public struct Point : IEquatable<Point>
    {
        public bool Equals(Point other) => true;
    }

    public struct Plain { }

    public ref struct Buffer { }

    class Worker
    {
        void Run()
        {
            System.Threading.Thread.Sleep(10);
            GC.Collect();
        }
    }
}
`

func TestCSharpSample(t *testing.T) {
	_, bag := analyze(t, csharp.New(), "Demo.cs", csSample, nil)
	expect(t, bag,
		"warning S3898 Demo.cs:10:19 Implement value equality (IEquatable<T> or Equal(T) bool) on 'Plain'.",
		"warning S2925 Demo.cs:18:13 Remove this use of 'System.Threading.Thread.Sleep'.",
		"warning S1215 Demo.cs:19:13 Refactor the code to remove this use of 'GC.Collect'.",
	)
}

func TestCSharpGeneratedFileIsSkipped(t *testing.T) {
	_, bag := analyze(t, csharp.New(), "Demo.g.cs", csSample, nil)
	if bag.Len() != 0 {
		t.Fatalf("generated file produced %d diagnostics", bag.Len())
	}
}

func TestLineLength(t *testing.T) {
	src := "short\n" + strings.Repeat("x", 12) + "\nпривет мир!\n"
	_, bag := analyze(t, langtest.New("fake"), "a.fake", src, lint.RuleConfig{
		"S103": {Params: map[string]any{"maximum": 10}},
	})
	expect(t, bag,
		"warning S103 a.fake:2:1 Split this 12 characters long line (which is greater than 10 authorized).",
		"warning S103 a.fake:3:1 Split this 11 characters long line (which is greater than 10 authorized).",
	)
	d := bag.Items()[0]
	if d.End.Line != 2 || d.End.Col != 13 {
		t.Fatalf("line span ends at %d:%d, want 2:13", d.End.Line, d.End.Col)
	}
}

func TestLineLengthAtLimitIsCompliant(t *testing.T) {
	_, bag := analyze(t, langtest.New("fake"), "a.fake", strings.Repeat("y", 10), lint.RuleConfig{
		"S103": {Params: map[string]any{"maximum": 10}},
	})
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %s", diag.FormatShort(bag.Items(), true))
	}
}

func TestLineLengthRejectsZeroMaximum(t *testing.T) {
	reg, err := lang.NewRegistry(langtest.New("fake"))
	if err != nil {
		t.Fatal(err)
	}
	s, err := lint.NewSession(lint.Options{Registry: reg, Rules: lint.RuleConfig{
		"S103": {Params: map[string]any{"maximum": 0}},
	}}, rules.NewLineLength())
	if err != nil {
		t.Fatal(err)
	}
	errs := s.Errors()
	if len(errs) != 1 || errs[0].Kind != lint.ConfigurationError || errs[0].RuleID != "S103" {
		t.Fatalf("expected one configuration error for S103, got %v", errs)
	}
}

func TestFileLines(t *testing.T) {
	cfg := lint.RuleConfig{"S104": {Params: map[string]any{"maximum": 2}}}
	_, bag := analyze(t, langtest.New("fake"), "a.fake", "1\n2\n", cfg)
	if bag.Len() != 0 {
		t.Fatalf("two lines must be compliant: %s", diag.FormatShort(bag.Items(), true))
	}
	_, bag = analyze(t, langtest.New("fake"), "a.fake", "1\n2\n3", cfg)
	expect(t, bag,
		"warning S104 a.fake:1:1 This file has 3 lines, which is greater than 2 authorized. Split it into smaller files.",
	)
}

func TestTabReportedOnce(t *testing.T) {
	_, bag := analyze(t, langtest.New("fake"), "a.fake", "a\n  \tb\n\t\tc\n", nil)
	expect(t, bag,
		"info S105 a.fake:2:3 Replace all tab characters in this file by sequences of white-spaces.",
	)
	if sp := bag.Items()[0].Span; !sp.Empty() {
		t.Fatalf("tab span must be empty, got %s", sp)
	}
}

func TestFileHeader(t *testing.T) {
	const header = "// Copyright (c) Lintel Authors\n"
	cases := []struct {
		name   string
		path   string
		src    string
		params map[string]any
		want   bool
	}{
		{name: "empty header disables", path: "a.fake", src: "package x\n", params: nil, want: false},
		{name: "literal match", path: "a.fake", src: header + "x\n", params: map[string]any{"header": header}, want: false},
		{name: "literal miss", path: "a.fake", src: "x\n" + header, params: map[string]any{"header": header}, want: true},
		{name: "regex match", path: "a.fake", src: "// Copyright (c) 2024 Acme\nx\n", params: map[string]any{"header": `// Copyright \(c\) \d{4} \w+`, "regex": true}, want: false},
		{name: "regex anchored", path: "a.fake", src: "x\n// Copyright (c) 2024 Acme\n", params: map[string]any{"header": `// Copyright \(c\) \d{4} \w+`, "regex": true}, want: true},
		{name: "generated files are checked", path: "a.gen.fake", src: "x\n", params: map[string]any{"header": header}, want: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, bag := analyze(t, langtest.New("fake"), tc.path, tc.src, lint.RuleConfig{"S1451": {Params: tc.params}})
			got := false
			for _, d := range bag.Items() {
				if d.RuleID() == "S1451" {
					got = true
				}
			}
			if got != tc.want {
				t.Fatalf("S1451 reported=%v, want %v", got, tc.want)
			}
		})
	}
}

func TestFileHeaderInvalidRegex(t *testing.T) {
	s, bag := analyze(t, langtest.New("fake"), "a.fake", "x\n", lint.RuleConfig{
		"S1451": {Params: map[string]any{"header": "(", "regex": true}},
	})
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %s", diag.FormatShort(bag.Items(), true))
	}
	errs := s.Errors()
	if len(errs) != 1 || errs[0].Kind != lint.RuleExecutionError || errs[0].RuleID != "S1451" {
		t.Fatalf("expected one execution error for S1451, got %v", errs)
	}
	var ee *lint.EngineError
	if !errors.As(errs[0], &ee) {
		t.Fatalf("expected *lint.EngineError, got %T", errs[0])
	}
}

func TestAnalyzeTwiceGivesSameOrderedDiagnostics(t *testing.T) {
	src := "package demo\n\nimport (\n\t\"runtime\"\n\t\"time\"\n)\n\ntype Plain struct{ A int }\n\n" +
		"func f() {\n\ttime.Sleep(1)\n\truntime.GC()\n\ttime.Sleep(2) // " + strings.Repeat("x", 200) + "\n}\n"
	f := golang.New()
	reg, err := lang.NewRegistry(f)
	if err != nil {
		t.Fatal(err)
	}
	s, err := lint.NewSession(lint.Options{Registry: reg}, rules.Default()...)
	if err != nil {
		t.Fatal(err)
	}
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("demo.go", []byte(src)))
	tree, model, err := f.Parse(context.Background(), file)
	if err != nil {
		t.Fatal(err)
	}
	run := func() []string {
		bag := diag.NewBag(0)
		if err := s.Analyze(context.Background(), lint.Unit{Tree: tree, Model: model}, bag); err != nil {
			t.Fatalf("analyze: %v", err)
		}
		var out []string
		for _, d := range bag.Items() {
			out = append(out, d.RuleID()+"@"+d.Span.String()+" "+d.Message)
		}
		return out
	}
	first, second := run(), run()
	if len(first) < 4 {
		t.Fatalf("expected several findings, got %v", first)
	}
	if strings.Join(first, "\n") != strings.Join(second, "\n") {
		t.Fatalf("runs differ\nfirst:\n%s\nsecond:\n%s", strings.Join(first, "\n"), strings.Join(second, "\n"))
	}
}
