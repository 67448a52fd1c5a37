package driver

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"lintel/internal/lang"
)

// Collect expands paths into the sorted list of source files owned by a
// registered language. Directories are walked recursively; hidden
// directories are skipped. exclude holds path.Match patterns checked
// against the slash path relative to base, every parent directory of it
// and the base name. An explicit file argument must belong to a
// registered language.
func Collect(paths []string, reg *lang.Registry, exclude []string, base string) ([]string, error) {
	if reg == nil {
		return nil, fmt.Errorf("collect: nil registry")
	}
	seen := make(map[string]struct{})
	var files []string
	add := func(p string) {
		p = filepath.Clean(p)
		if _, ok := seen[p]; ok {
			return
		}
		seen[p] = struct{}{}
		files = append(files, p)
	}

	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("collect: %w", err)
		}
		if !info.IsDir() {
			if _, ok := reg.ForPath(root); !ok {
				return nil, fmt.Errorf("collect: %s: no language registered for %q", root, filepath.Ext(root))
			}
			if !excluded(relSlash(base, root), exclude) {
				add(root)
			}
			continue
		}
		err = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			rel := relSlash(base, p)
			if d.IsDir() {
				if p != root && (strings.HasPrefix(d.Name(), ".") || excluded(rel, exclude)) {
					return filepath.SkipDir
				}
				return nil
			}
			if _, ok := reg.ForPath(p); !ok || excluded(rel, exclude) {
				return nil
			}
			add(p)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("collect: %w", err)
		}
	}
	sort.Strings(files)
	return files, nil
}

func relSlash(base, p string) string {
	if base != "" {
		if abs, err := filepath.Abs(p); err == nil {
			if rel, err := filepath.Rel(base, abs); err == nil && !strings.HasPrefix(rel, "..") {
				p = rel
			}
		}
	}
	return strings.TrimPrefix(filepath.ToSlash(filepath.Clean(p)), "./")
}

func excluded(rel string, patterns []string) bool {
	if len(patterns) == 0 {
		return false
	}
	candidates := []string{rel, path.Base(rel)}
	for dir := path.Dir(rel); dir != "." && dir != "/"; dir = path.Dir(dir) {
		candidates = append(candidates, dir)
	}
	for _, pattern := range patterns {
		for _, c := range candidates {
			if ok, _ := path.Match(pattern, c); ok {
				return true
			}
		}
	}
	return false
}
