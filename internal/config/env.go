package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Environment overrides of the [analysis] section.
const (
	EnvJobs             = "LINTEL_JOBS"
	EnvMaxDiagnostics   = "LINTEL_MAX_DIAGNOSTICS"
	EnvIncludeGenerated = "LINTEL_INCLUDE_GENERATED"
)

// LookupFunc is os.LookupEnv compatible.
type LookupFunc func(key string) (string, bool)

// EnvLookup returns a lookup over the process environment falling back to
// the .env file next to the configuration, if any. The process wins.
func (c *Config) EnvLookup() (LookupFunc, error) {
	dotenv := map[string]string{}
	if c.Root != "" {
		path := filepath.Join(c.Root, ".env")
		m, err := godotenv.Read(path)
		switch {
		case err == nil:
			dotenv = m
		case errors.Is(err, os.ErrNotExist):
		default:
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}
	return func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok
	}, nil
}

// ApplyEnv applies LINTEL_* overrides read through lookup.
func (c *Config) ApplyEnv(lookup LookupFunc) error {
	var problems []string
	if v, ok := lookup(EnvJobs); ok {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			problems = append(problems, fmt.Sprintf("%s: expected a non-negative integer, got %q", EnvJobs, v))
		} else {
			c.Analysis.Jobs = n
		}
	}
	if v, ok := lookup(EnvMaxDiagnostics); ok {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			problems = append(problems, fmt.Sprintf("%s: expected a non-negative integer, got %q", EnvMaxDiagnostics, v))
		} else {
			c.Analysis.MaxDiagnostics = n
		}
	}
	if v, ok := lookup(EnvIncludeGenerated); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			problems = append(problems, fmt.Sprintf("%s: expected a boolean, got %q", EnvIncludeGenerated, v))
		} else {
			c.Analysis.IncludeGenerated = b
		}
	}
	if len(problems) > 0 {
		return &Error{Path: "environment", Problems: problems}
	}
	return nil
}
