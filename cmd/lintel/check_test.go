package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"lintel/internal/config"
	"lintel/internal/diag"
	"lintel/internal/driver"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestLoadConfigDefaultsAndEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(config.EnvJobs, "3")
	cfg, err := loadConfig("", dir)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Root != dir {
		t.Fatalf("root = %q, want %q", cfg.Root, dir)
	}
	if cfg.Analysis.Jobs != 3 {
		t.Fatalf("jobs = %d, want 3 from environment", cfg.Analysis.Jobs)
	}
	if cfg.Analysis.MaxDiagnostics != config.DefaultMaxDiagnostics {
		t.Fatalf("max diagnostics = %d", cfg.Analysis.MaxDiagnostics)
	}
}

func TestSettingsOverrideConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Analysis.Jobs = 8
	s := checkSettings{jobs: -1, maxDiagnostics: 5, includeGenerated: true}
	s.apply(cfg)
	if cfg.Analysis.Jobs != 8 || cfg.Analysis.MaxDiagnostics != 5 || !cfg.Analysis.IncludeGenerated {
		t.Fatalf("analysis = %+v", cfg.Analysis)
	}
}

func TestExitCode(t *testing.T) {
	warning := diag.Diagnostic{Severity: diag.SevWarning}
	errorDiag := diag.Diagnostic{Severity: diag.SevError}
	internal := diag.Diagnostic{Severity: diag.SevError, Internal: true}

	tests := []struct {
		name   string
		diags  []diag.Diagnostic
		strict bool
		want   int
	}{
		{"clean", nil, false, exitClean},
		{"warning", []diag.Diagnostic{warning}, false, exitClean},
		{"warning strict", []diag.Diagnostic{warning}, true, exitFindings},
		{"error", []diag.Diagnostic{warning, errorDiag}, false, exitFindings},
		{"internal", []diag.Diagnostic{errorDiag, internal}, false, exitFailure},
	}
	for _, tt := range tests {
		if got := exitCode(tt.diags, nil, tt.strict); got != tt.want {
			t.Fatalf("%s: exit code = %d, want %d", tt.name, got, tt.want)
		}
	}
}

func TestCheckPipelineShortOutput(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "lintel.toml"), "[rules.S103]\nmaximum = 20\n")
	writeFile(t, filepath.Join(dir, "main.go"), "package main\n\n// this comment line is longer than twenty\nfunc main() {}\n")
	writeFile(t, filepath.Join(dir, "vendor", "skip.go"), "package skip\n")

	cfg, err := loadConfig(filepath.Join(dir, "lintel.toml"), dir)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	cfg.Analysis.Exclude = []string{"vendor"}
	reg, err := newRegistry()
	if err != nil {
		t.Fatal(err)
	}
	session, err := newSession(cfg, reg)
	if err != nil {
		t.Fatal(err)
	}
	files, err := driver.Collect([]string{dir}, reg, cfg.Analysis.Exclude, cfg.Root)
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 1 {
		t.Fatalf("files = %v", files)
	}
	res, err := analyze(context.Background(), driver.Request{
		Files:          files,
		Registry:       reg,
		Session:        session,
		MaxDiagnostics: cfg.Analysis.MaxDiagnostics,
		BaseDir:        dir,
	}, false)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if len(res.SetupErrors) != 0 {
		t.Fatalf("setup errors: %v", res.SetupErrors)
	}

	diags := res.Diagnostics()
	var out bytes.Buffer
	if err := render(&out, diags, res.FileSet, session, checkSettings{format: "short"}, false); err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(out.String(), "warning S103") || !strings.Contains(out.String(), ":3:1 ") {
		t.Fatalf("short output:\n%s", out.String())
	}
	if got := exitCode(diags, res.SetupErrors, false); got != exitClean {
		t.Fatalf("exit code = %d", got)
	}
	if got := exitCode(diags, res.SetupErrors, true); got != exitFindings {
		t.Fatalf("strict exit code = %d", got)
	}

	patch := "--- a/main.go\n+++ b/main.go\n@@ -4 +4 @@\n-func main() { }\n+func main() {}\n"
	changed, err := readChanges(strings.NewReader(patch), "-")
	if err != nil {
		t.Fatalf("readChanges: %v", err)
	}
	if kept := changed.Filter(dir, diags); len(kept) != 0 {
		t.Fatalf("finding on an unchanged line survived the diff filter: %+v", kept)
	}
}

func TestDescribeRulesShowsBoundParams(t *testing.T) {
	cfg := config.Default()
	cfg.Rules["S104"] = map[string]any{"maximum": int64(50)}
	reg, err := newRegistry()
	if err != nil {
		t.Fatal(err)
	}
	session, err := newSession(cfg, reg)
	if err != nil {
		t.Fatal(err)
	}
	var s104 *ruleJSON
	listing := describeRules(session)
	for i := range listing {
		if listing[i].ID == "S104" {
			s104 = &listing[i]
		}
	}
	if s104 == nil || len(s104.Params) != 1 {
		t.Fatalf("S104 listing = %+v", s104)
	}
	if s104.Params[0].Value != 50 || s104.Params[0].Default != 1000 {
		t.Fatalf("S104 param = %+v", s104.Params[0])
	}
}

func TestReadUIMode(t *testing.T) {
	if m, err := readUIMode(" On "); err != nil || m != uiModeOn {
		t.Fatalf("readUIMode = %q, %v", m, err)
	}
	if _, err := readUIMode("sometimes"); err == nil {
		t.Fatal("expected error")
	}
	if shouldUseTUI(uiModeOff, "pretty") || !shouldUseTUI(uiModeOn, "json") {
		t.Fatal("explicit modes must win")
	}
}

func TestBuildReport(t *testing.T) {
	short, err := collectBuildReport(false, false, false)
	if err != nil {
		t.Fatal(err)
	}
	if short.GitCommit != "" || len(short.Languages) != 0 {
		t.Fatalf("short report carries extras: %+v", short)
	}
	full, err := collectBuildReport(true, true, true)
	if err != nil {
		t.Fatal(err)
	}
	if full.GitCommit == "" || full.BuildDate == "" || full.Rules == 0 || len(full.Languages) != 2 {
		t.Fatalf("full report = %+v", full)
	}
	var buf bytes.Buffer
	writeBuildReport(&buf, full, false)
	if !strings.HasPrefix(buf.String(), "lintel "+full.Version+"\n") || !strings.Contains(buf.String(), "languages: ") {
		t.Fatalf("pretty output:\n%s", buf.String())
	}
}
