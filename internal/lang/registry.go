package lang

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// Registry maps language IDs and extensions to facades.
type Registry struct {
	mu     sync.RWMutex
	byLang map[string]Facade
	byExt  map[string]Facade
	order  []string
}

// NewRegistry creates a registry with the given facades.
func NewRegistry(facades ...Facade) (*Registry, error) {
	r := &Registry{
		byLang: make(map[string]Facade),
		byExt:  make(map[string]Facade),
	}
	for _, f := range facades {
		if err := r.Register(f); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds f; duplicate languages or extensions are errors.
func (r *Registry) Register(f Facade) error {
	if f == nil {
		return fmt.Errorf("register: nil facade")
	}
	id := f.Language()
	if id == "" {
		return fmt.Errorf("register: facade without language id")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.byLang[id]; dup {
		return fmt.Errorf("register: language %q already registered", id)
	}
	exts := f.Extensions()
	for _, ext := range exts {
		if owner, dup := r.byExt[normalizeExt(ext)]; dup {
			return fmt.Errorf("register: extension %q of %q already owned by %q", ext, id, owner.Language())
		}
	}
	r.byLang[id] = f
	for _, ext := range exts {
		r.byExt[normalizeExt(ext)] = f
	}
	r.order = append(r.order, id)
	return nil
}

// Lookup returns the facade for a language ID.
func (r *Registry) Lookup(id string) (Facade, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.byLang[id]
	return f, ok
}

// ForPath returns the facade owning the extension of path. Compound
// extensions are not special: "x.g.cs" belongs to ".cs".
func (r *Registry) ForPath(path string) (Facade, bool) {
	ext := normalizeExt(filepath.Ext(path))
	if ext == "" {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.byExt[ext]
	return f, ok
}

// ParserFor returns the parser of a language when its facade has one.
func (r *Registry) ParserFor(id string) (Parser, bool) {
	f, ok := r.Lookup(id)
	if !ok {
		return nil, false
	}
	p, ok := f.(Parser)
	return p, ok
}

// Languages returns the registered language IDs in registration order.
func (r *Registry) Languages() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.order...)
}

// Facades returns the registered facades in registration order.
func (r *Registry) Facades() []Facade {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Facade, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byLang[id])
	}
	return out
}

// Extensions returns every registered extension, sorted.
func (r *Registry) Extensions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.byExt))
	for ext := range r.byExt {
		out = append(out, ext)
	}
	sort.Strings(out)
	return out
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
