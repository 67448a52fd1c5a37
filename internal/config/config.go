// Package config loads lintel project configuration from lintel.toml,
// lintel.yaml or .lintel.yml.
package config

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/vmihailenco/msgpack/v5"

	"lintel/internal/lint"
)

// File names tried in every directory, in order.
var Names = []string{"lintel.toml", "lintel.yaml", ".lintel.yml"}

// DefaultMaxDiagnostics bounds the diagnostics kept per file.
const DefaultMaxDiagnostics = 1000

// Analysis is the [analysis] section.
type Analysis struct {
	// Jobs is the number of files analyzed in parallel; 0 means GOMAXPROCS.
	Jobs           int      `toml:"jobs" yaml:"jobs" msgpack:"jobs"`
	MaxDiagnostics int      `toml:"max_diagnostics" yaml:"max_diagnostics" msgpack:"max_diagnostics"`
	Exclude        []string `toml:"exclude" yaml:"exclude" msgpack:"exclude"`
	// IncludeGenerated runs every rule on generated files.
	IncludeGenerated bool `toml:"include_generated" yaml:"include_generated" msgpack:"include_generated"`
}

// Config is a loaded project configuration.
type Config struct {
	// Path is the file the configuration came from; empty for defaults.
	Path string `toml:"-" yaml:"-" msgpack:"-"`
	// Root is the directory of Path, used to resolve exclude patterns.
	Root     string                    `toml:"-" yaml:"-" msgpack:"-"`
	Analysis Analysis                  `toml:"analysis" yaml:"analysis" msgpack:"analysis"`
	Rules    map[string]map[string]any `toml:"rules" yaml:"rules" msgpack:"rules"`
}

// Default returns the configuration used when no file is found.
func Default() *Config {
	return &Config{
		Analysis: Analysis{MaxDiagnostics: DefaultMaxDiagnostics},
		Rules:    map[string]map[string]any{},
	}
}

// Error collects the problems of one configuration file.
type Error struct {
	Path     string
	Problems []string
}

func (e *Error) Error() string {
	where := e.Path
	if where == "" {
		where = "configuration"
	}
	return fmt.Sprintf("%s: %s", where, strings.Join(e.Problems, "; "))
}

// Reserved per-rule keys; every other key is a rule parameter.
const (
	keyEnabled   = "enabled"
	keyGenerated = "generated"
)

// RuleOptions converts the [rules.*] sections into session options.
func (c *Config) RuleOptions() (lint.RuleConfig, error) {
	out := make(lint.RuleConfig, len(c.Rules))
	var problems []string
	ids := make([]string, 0, len(c.Rules))
	for id := range c.Rules {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		var opts lint.RuleOptions
		for key, value := range c.Rules[id] {
			switch key {
			case keyEnabled, keyGenerated:
				b, ok := value.(bool)
				if !ok {
					problems = append(problems, fmt.Sprintf("rules.%s.%s: expected a boolean, got %T", id, key, value))
					continue
				}
				if key == keyEnabled {
					opts.Enabled = &b
				} else {
					opts.Generated = &b
				}
			default:
				if opts.Params == nil {
					opts.Params = make(map[string]any)
				}
				opts.Params[key] = value
			}
		}
		out[id] = opts
	}
	if len(problems) > 0 {
		sort.Strings(problems)
		return nil, &Error{Path: c.Path, Problems: problems}
	}
	return out, nil
}

func (c *Config) validate() error {
	var problems []string
	if c.Analysis.Jobs < 0 {
		problems = append(problems, fmt.Sprintf("analysis.jobs: must be >= 0, got %d", c.Analysis.Jobs))
	}
	if c.Analysis.MaxDiagnostics < 0 {
		problems = append(problems, fmt.Sprintf("analysis.max_diagnostics: must be >= 0, got %d", c.Analysis.MaxDiagnostics))
	}
	for _, pattern := range c.Analysis.Exclude {
		if _, err := filepath.Match(pattern, ""); err != nil {
			problems = append(problems, fmt.Sprintf("analysis.exclude: bad pattern %q", pattern))
		}
	}
	if len(problems) > 0 {
		return &Error{Path: c.Path, Problems: problems}
	}
	return nil
}

// Fingerprint identifies the settings that influence analysis results.
// Equal configurations produce equal fingerprints regardless of their
// source format.
func (c *Config) Fingerprint() (string, error) {
	var b strings.Builder
	enc := msgpack.NewEncoder(&b)
	enc.SetSortMapKeys(true)
	view := struct {
		IncludeGenerated bool                      `msgpack:"include_generated"`
		Rules            map[string]map[string]any `msgpack:"rules"`
	}{c.Analysis.IncludeGenerated, normalizeRules(c.Rules)}
	if err := enc.Encode(view); err != nil {
		return "", fmt.Errorf("fingerprint: %w", err)
	}
	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:]), nil
}

// normalizeRules widens integers so TOML (int64) and YAML (int) sources
// fingerprint alike.
func normalizeRules(rules map[string]map[string]any) map[string]map[string]any {
	out := make(map[string]map[string]any, len(rules))
	for id, params := range rules {
		m := make(map[string]any, len(params))
		for k, v := range params {
			if i, ok := v.(int); ok {
				v = int64(i)
			}
			m[k] = v
		}
		out[id] = m
	}
	return out
}
