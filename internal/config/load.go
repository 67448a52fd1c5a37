package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Load reads the configuration at path. The format follows the extension.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	cfg := Default()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = decodeTOML(path, data, cfg)
	case ".yaml", ".yml":
		err = decodeYAML(path, data, cfg)
	default:
		err = fmt.Errorf("%s: unsupported config format", path)
	}
	if err != nil {
		return nil, err
	}
	if cfg.Rules == nil {
		cfg.Rules = map[string]map[string]any{}
	}
	cfg.Path = path
	cfg.Root = filepath.Dir(path)
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decodeTOML(path string, data []byte, cfg *Config) error {
	meta, err := toml.Decode(string(data), cfg)
	if err != nil {
		return fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		problems := make([]string, 0, len(undecoded))
		for _, key := range undecoded {
			problems = append(problems, fmt.Sprintf("unknown key %q", key.String()))
		}
		return &Error{Path: path, Problems: problems}
	}
	return nil
}

func decodeYAML(path string, data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%s: failed to parse YAML: %w", path, err)
	}
	return nil
}

// Find walks up from startDir to locate a configuration file.
func Find(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		for _, name := range Names {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, true, nil
			} else if !errors.Is(err, os.ErrNotExist) {
				return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Discover loads the nearest configuration above startDir, or the defaults
// when there is none. ok reports whether a file was found.
func Discover(startDir string) (cfg *Config, ok bool, err error) {
	path, ok, err := Find(startDir)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return Default(), false, nil
	}
	cfg, err = Load(path)
	if err != nil {
		return nil, true, err
	}
	return cfg, true, nil
}
