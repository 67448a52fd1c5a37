package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"lintel/internal/config"
)

func write(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

const tomlConfig = `
[analysis]
jobs = 4
max_diagnostics = 50
exclude = ["vendor/*", "*.pb.go"]

[rules.S103]
maximum = 120

[rules.S2925]
enabled = false

[rules.S1451]
generated = true
header = "// (c)"
`

func TestLoadTOML(t *testing.T) {
	path := write(t, t.TempDir(), "lintel.toml", tomlConfig)
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Analysis.Jobs != 4 || cfg.Analysis.MaxDiagnostics != 50 || len(cfg.Analysis.Exclude) != 2 {
		t.Fatalf("analysis = %+v", cfg.Analysis)
	}
	opts, err := cfg.RuleOptions()
	if err != nil {
		t.Fatalf("rule options: %v", err)
	}
	if got := opts["S103"].Params["maximum"]; got != int64(120) {
		t.Fatalf("S103 maximum = %#v", got)
	}
	if e := opts["S2925"].Enabled; e == nil || *e {
		t.Fatalf("S2925 must be disabled")
	}
	if opts["S2925"].Params != nil {
		t.Fatalf("reserved keys must not become params: %v", opts["S2925"].Params)
	}
	s1451 := opts["S1451"]
	if s1451.Generated == nil || !*s1451.Generated || s1451.Params["header"] != "// (c)" {
		t.Fatalf("S1451 = %+v", s1451)
	}
}

func TestLoadYAMLMatchesTOMLFingerprint(t *testing.T) {
	dir := t.TempDir()
	tomlPath := write(t, dir, "lintel.toml", "[rules.S103]\nmaximum = 120\n")
	yamlPath := write(t, dir, "lintel.yaml", "rules:\n  S103:\n    maximum: 120\n")
	a, err := config.Load(tomlPath)
	if err != nil {
		t.Fatalf("toml: %v", err)
	}
	b, err := config.Load(yamlPath)
	if err != nil {
		t.Fatalf("yaml: %v", err)
	}
	fa, err := a.Fingerprint()
	if err != nil {
		t.Fatal(err)
	}
	fb, err := b.Fingerprint()
	if err != nil {
		t.Fatal(err)
	}
	if fa != fb {
		t.Fatalf("fingerprints differ: %s vs %s", fa, fb)
	}
	c := config.Default()
	fc, err := c.Fingerprint()
	if err != nil {
		t.Fatal(err)
	}
	if fc == fa {
		t.Fatalf("different rules must fingerprint differently")
	}
}

func TestUnknownKeys(t *testing.T) {
	dir := t.TempDir()
	cases := map[string]string{
		"lintel.toml": "[analysis]\nthreads = 3\n",
		"lintel.yaml": "analysis:\n  threads: 3\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := config.Load(write(t, dir, name, content))
			if err == nil || !strings.Contains(err.Error(), "threads") {
				t.Fatalf("expected unknown key error, got %v", err)
			}
		})
	}
}

func TestValidation(t *testing.T) {
	path := write(t, t.TempDir(), "lintel.toml", "[analysis]\njobs = -1\nexclude = [\"[\"]\n")
	_, err := config.Load(path)
	var cfgErr *config.Error
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected *config.Error, got %v", err)
	}
	if len(cfgErr.Problems) != 2 {
		t.Fatalf("problems = %v", cfgErr.Problems)
	}
}

func TestRuleOptionsRejectsNonBoolEnabled(t *testing.T) {
	cfg := config.Default()
	cfg.Rules["S103"] = map[string]any{"enabled": "yes"}
	_, err := cfg.RuleOptions()
	var cfgErr *config.Error
	if !errors.As(err, &cfgErr) || !strings.Contains(err.Error(), "rules.S103.enabled") {
		t.Fatalf("expected enabled type error, got %v", err)
	}
}

func TestDiscoverWalksUp(t *testing.T) {
	root := t.TempDir()
	write(t, root, ".lintel.yml", "analysis:\n  jobs: 2\n")
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	cfg, ok, err := config.Discover(nested)
	if err != nil || !ok {
		t.Fatalf("discover: ok=%v err=%v", ok, err)
	}
	if cfg.Analysis.Jobs != 2 || cfg.Root != root {
		t.Fatalf("cfg = %+v", cfg)
	}
}

func TestDiscoverPrefersTOML(t *testing.T) {
	root := t.TempDir()
	write(t, root, "lintel.yaml", "analysis:\n  jobs: 2\n")
	write(t, root, "lintel.toml", "[analysis]\njobs = 3\n")
	cfg, _, err := config.Discover(root)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Analysis.Jobs != 3 {
		t.Fatalf("jobs = %d, want the lintel.toml value", cfg.Analysis.Jobs)
	}
}

func TestEnvOverrides(t *testing.T) {
	root := t.TempDir()
	path := write(t, root, "lintel.toml", "[analysis]\njobs = 1\n")
	write(t, root, ".env", "LINTEL_JOBS=6\nLINTEL_INCLUDE_GENERATED=true\n")
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	t.Setenv(config.EnvMaxDiagnostics, "7")
	lookup, err := cfg.EnvLookup()
	if err != nil {
		t.Fatal(err)
	}
	if err := cfg.ApplyEnv(lookup); err != nil {
		t.Fatal(err)
	}
	if cfg.Analysis.Jobs != 6 || cfg.Analysis.MaxDiagnostics != 7 || !cfg.Analysis.IncludeGenerated {
		t.Fatalf("analysis = %+v", cfg.Analysis)
	}

	bad := func(key string) (string, bool) {
		if key == config.EnvJobs {
			return "many", true
		}
		return "", false
	}
	if err := cfg.ApplyEnv(bad); err == nil {
		t.Fatalf("expected error for LINTEL_JOBS=many")
	}
}
