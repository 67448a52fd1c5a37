package driver_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"testing"

	"lintel/internal/diag"
	"lintel/internal/driver"
	"lintel/internal/lang"
	"lintel/internal/lang/csharp"
	"lintel/internal/lang/golang"
	"lintel/internal/lint"
	"lintel/internal/rules"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}
	}
}

func registry(t *testing.T) *lang.Registry {
	t.Helper()
	reg, err := lang.NewRegistry(golang.New(), csharp.New())
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	return reg
}

func session(t *testing.T, reg *lang.Registry, extra ...lint.Rule) *lint.Session {
	t.Helper()
	s, err := lint.NewSession(lint.Options{Registry: reg}, append(rules.Default(), extra...)...)
	if err != nil {
		t.Fatalf("session: %v", err)
	}
	return s
}

func TestCollect(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"a.go":          "package a\n",
		"sub/b.cs":      "class B {}\n",
		"vendor/x.go":   "package x\n",
		".git/y.go":     "package y\n",
		"readme.md":     "# readme\n",
		"api/svc.pb.go": "package api\n",
	})
	files, err := driver.Collect([]string{root}, registry(t), []string{"vendor/*", "*.pb.go"}, root)
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	var rel []string
	for _, f := range files {
		r, err := filepath.Rel(root, f)
		if err != nil {
			t.Fatal(err)
		}
		rel = append(rel, filepath.ToSlash(r))
	}
	if strings.Join(rel, ",") != "a.go,sub/b.cs" {
		t.Fatalf("collected %v", rel)
	}

	if _, err := driver.Collect([]string{filepath.Join(root, "readme.md")}, registry(t), nil, root); err == nil {
		t.Fatalf("expected an error for a file of an unknown language")
	}
	again, err := driver.Collect([]string{filepath.Join(root, "a.go"), root}, registry(t), []string{"vendor", "*.pb.go"}, root)
	if err != nil {
		t.Fatal(err)
	}
	if len(again) != 2 {
		t.Fatalf("duplicates must be collapsed: %v", again)
	}
}

const sleepy = "package a\n\nimport \"time\"\n\nfunc f() { time.Sleep(1) }\n"

func ruleIDs(bag *diag.Bag) []string {
	var out []string
	for _, d := range bag.Items() {
		out = append(out, d.RuleID())
	}
	sort.Strings(out)
	return out
}

func TestAnalyzeReportsAndLoadErrors(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"ok.go":     sleepy,
		"broken.go": "package a\nfunc {\n",
	})
	reg := registry(t)
	files := []string{filepath.Join(root, "broken.go"), filepath.Join(root, "ok.go")}
	res, err := driver.Analyze(context.Background(), driver.Request{
		Files:    files,
		Registry: reg,
		Session:  session(t, reg),
		Jobs:     2,
	})
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if len(res.Files) != 2 {
		t.Fatalf("results = %d", len(res.Files))
	}
	broken, ok := res.Files[0], res.Files[1]
	if broken.LoadErr == nil || !errors.Is(broken.LoadErr, lang.ErrSyntax) {
		t.Fatalf("broken.go: load error = %v", broken.LoadErr)
	}
	if got := ruleIDs(broken.Bag); strings.Join(got, ",") != "LINT0004" {
		t.Fatalf("broken.go diagnostics = %v", got)
	}
	if !broken.Bag.Items()[0].Internal {
		t.Fatalf("load errors must be internal")
	}
	if got := ruleIDs(ok.Bag); strings.Join(got, ",") != "S2925" {
		t.Fatalf("ok.go diagnostics = %v", got)
	}
	if ok.Lang != golang.Language {
		t.Fatalf("ok.go lang = %q", ok.Lang)
	}
	if res.LoadErrors() != 1 || !res.HasWarnings() || res.HasErrors() {
		t.Fatalf("summary: load=%d warnings=%v errors=%v", res.LoadErrors(), res.HasWarnings(), res.HasErrors())
	}
}

func TestAnalyzeUsesDiskCache(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"ok.go": sleepy})
	cache, err := driver.OpenDiskCacheAt(filepath.Join(t.TempDir(), "cache"))
	if err != nil {
		t.Fatal(err)
	}
	reg := registry(t)
	req := driver.Request{
		Files:       []string{filepath.Join(root, "ok.go")},
		Registry:    reg,
		Session:     session(t, reg),
		Cache:       cache,
		Fingerprint: "cfg",
		ToolVersion: "test",
	}
	first, err := driver.Analyze(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	second, err := driver.Analyze(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if first.Files[0].Cached || !second.Files[0].Cached {
		t.Fatalf("cached: first=%v second=%v", first.Files[0].Cached, second.Files[0].Cached)
	}
	a := diag.FormatShort(first.Diagnostics(), true)
	b := diag.FormatShort(second.Diagnostics(), true)
	if a != b || a == "" {
		t.Fatalf("cached diagnostics differ:\n%s\n---\n%s", a, b)
	}

	req.Fingerprint = "other"
	third, err := driver.Analyze(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if third.Files[0].Cached {
		t.Fatalf("a new fingerprint must miss the cache")
	}
}

type panicRule struct{ lint.Base }

func (panicRule) VisitTree(*lint.Context) error { panic("boom") }

func TestEngineErrorsAttachedAndNotCached(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"ok.go": sleepy})
	cache, err := driver.OpenDiskCacheAt(filepath.Join(t.TempDir(), "cache"))
	if err != nil {
		t.Fatal(err)
	}
	reg := registry(t)
	bad := panicRule{lint.MustBase(diag.MustDescriptor("X1", "panics", "never", diag.CategoryStyle, diag.SevWarning), lint.Interest{Tree: true})}
	req := driver.Request{
		Files:    []string{filepath.Join(root, "ok.go")},
		Registry: reg,
		Session:  session(t, reg, bad),
		Cache:    cache,
	}
	for run := 0; run < 2; run++ {
		res, err := driver.Analyze(context.Background(), req)
		if err != nil {
			t.Fatal(err)
		}
		fr := res.Files[0]
		if fr.Cached {
			t.Fatalf("run %d: files with engine errors must not be cached", run)
		}
		if got := strings.Join(ruleIDs(fr.Bag), ","); got != "LINT0002,S2925" {
			t.Fatalf("run %d: diagnostics = %s", run, got)
		}
	}
}

func TestEngineErrorsSurviveDiagnosticLimit(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"twice.go": "package a\n\nimport \"time\"\n\nfunc f() {\n\ttime.Sleep(1)\n\ttime.Sleep(2)\n}\n",
	})
	reg := registry(t)
	bad := panicRule{lint.MustBase(diag.MustDescriptor("X1", "panics", "never", diag.CategoryStyle, diag.SevWarning), lint.Interest{Tree: true})}
	res, err := driver.Analyze(context.Background(), driver.Request{
		Files:          []string{filepath.Join(root, "twice.go")},
		Registry:       reg,
		Session:        session(t, reg, bad),
		MaxDiagnostics: 1,
	})
	if err != nil {
		t.Fatal(err)
	}
	fr := res.Files[0]
	if got := strings.Join(ruleIDs(fr.Bag), ","); got != "LINT0002,S2925" {
		t.Fatalf("diagnostics = %s", got)
	}
	if fr.Bag.Dropped() != 1 {
		t.Fatalf("dropped = %d, want 1", fr.Bag.Dropped())
	}
}

func TestSortOrdersByLocation(t *testing.T) {
	root := t.TempDir()
	src := "package a\n\nimport \"time\"\n\nfunc f() { time.Sleep(1) }\n\n// " + strings.Repeat("x", 220) + "\n"
	writeTree(t, root, map[string]string{"late.go": src})
	reg := registry(t)
	order := func(sorted bool) string {
		res, err := driver.Analyze(context.Background(), driver.Request{
			Files:    []string{filepath.Join(root, "late.go")},
			Registry: reg,
			Session:  session(t, reg),
			Sort:     sorted,
		})
		if err != nil {
			t.Fatal(err)
		}
		var ids []string
		for _, d := range res.Diagnostics() {
			ids = append(ids, d.RuleID())
		}
		return strings.Join(ids, ",")
	}
	// Tree rules report before the node walk.
	if got := order(false); got != "S103,S2925" {
		t.Fatalf("production order = %s", got)
	}
	if got := order(true); got != "S2925,S103" {
		t.Fatalf("sorted order = %s", got)
	}
}

func TestAnalyzeCancelled(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"ok.go": sleepy})
	reg := registry(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := driver.Analyze(ctx, driver.Request{
		Files:    []string{filepath.Join(root, "ok.go")},
		Registry: reg,
		Session:  session(t, reg),
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestProgressEvents(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"a.go": sleepy, "b.cs": "class B {}\n", "c.go": "package"})
	reg := registry(t)
	files := []string{filepath.Join(root, "a.go"), filepath.Join(root, "b.cs"), filepath.Join(root, "c.go")}
	var mu sync.Mutex
	last := map[string]driver.Status{}
	queued := 0
	_, err := driver.Analyze(context.Background(), driver.Request{
		Files:    files,
		Registry: reg,
		Session:  session(t, reg),
		Progress: driver.ProgressFunc(func(ev driver.Event) {
			mu.Lock()
			defer mu.Unlock()
			if ev.Status == driver.StatusQueued {
				queued++
			}
			last[ev.File] = ev.Status
		}),
	})
	if err != nil {
		t.Fatal(err)
	}
	if queued != 3 {
		t.Fatalf("queued events = %d", queued)
	}
	want := map[string]driver.Status{files[0]: driver.StatusDone, files[1]: driver.StatusDone, files[2]: driver.StatusError}
	for f, st := range want {
		if last[f] != st {
			t.Fatalf("%s: last status %q, want %q", filepath.Base(f), last[f], st)
		}
	}
}
