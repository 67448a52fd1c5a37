package lint

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"lintel/internal/diag"
	"lintel/internal/lang"
	"lintel/internal/syntax"
	"lintel/internal/trace"
)

// RuleOptions configures one rule. Nil pointers keep the rule's defaults.
type RuleOptions struct {
	Enabled   *bool
	Generated *bool
	Params    map[string]any
}

// RuleConfig maps rule IDs to their options.
type RuleConfig map[string]RuleOptions

// Options configure a Session.
type Options struct {
	Registry *lang.Registry
	Rules    RuleConfig
	// IncludeGenerated runs every rule on generated trees.
	IncludeGenerated bool
	Suppressors      []diag.Suppressor
	// Tracer overrides the tracer found in the Analyze context.
	Tracer trace.Tracer
}

// Unit is one tree to analyze with its semantic model.
type Unit struct {
	Tree  *syntax.Tree
	Model syntax.SemanticModel
}

type ruleEntry struct {
	rule      Rule
	id        string
	desc      *diag.Descriptor
	caps      capabilities
	params    *ParamSet
	generated bool
	// langs holds the languages the rule is enabled for.
	langs map[string]bool
}

type dispatch struct {
	facade lang.Facade
	tree   []int
	byKind map[syntax.Kind][]int
}

// Session is the configured engine for one run. It is safe to call Analyze
// concurrently for different trees.
type Session struct {
	opts        Options
	entries     []*ruleEntry
	tables      map[string]*dispatch
	descriptors diag.Descriptors

	mu   sync.Mutex
	errs []*EngineError
}

// NewSession validates and configures rules. Rule problems are recorded as
// configuration errors and disable the affected rule; only a missing facade
// registry is fatal.
func NewSession(opts Options, rules ...Rule) (*Session, error) {
	if opts.Registry == nil {
		return nil, errors.New("lint: session needs a facade registry")
	}
	s := &Session{
		opts:        opts,
		tables:      make(map[string]*dispatch),
		descriptors: diag.Descriptors{},
	}
	known := make(map[string]bool, len(rules))
	for _, r := range rules {
		s.addRule(r, known)
	}
	s.checkUnknownConfig(known)
	s.buildTables()
	return s, nil
}

func (s *Session) addRule(r Rule, known map[string]bool) {
	if r == nil {
		s.record(&EngineError{Kind: ConfigurationError, Err: errors.New("nil rule")})
		return
	}
	caps := discover(r)
	if err := validate(r, caps); err != nil {
		id := ""
		if d := r.Descriptor(); d != nil {
			id = d.ID()
		}
		s.record(&EngineError{Kind: ConfigurationError, RuleID: id, Err: err})
		return
	}
	desc := r.Descriptor()
	id := desc.ID()
	if known[id] {
		s.record(&EngineError{Kind: ConfigurationError, RuleID: id, Err: ErrDuplicateRule})
		return
	}
	known[id] = true

	cfg := s.opts.Rules[id]
	if cfg.Enabled != nil && !*cfg.Enabled {
		return
	}

	var params *ParamSet
	if caps.params != nil {
		params = caps.params.Clone()
		if err := params.Bind(cfg.Params); err != nil {
			var ce *ConfigError
			if errors.As(err, &ce) {
				ce.RuleID = id
			}
			s.record(&EngineError{Kind: ConfigurationError, RuleID: id, Err: err})
			return
		}
	} else if len(cfg.Params) > 0 {
		names := make([]string, 0, len(cfg.Params))
		for name := range cfg.Params {
			names = append(names, fmt.Sprintf("unknown parameter %q", name))
		}
		sort.Strings(names)
		s.record(&EngineError{Kind: ConfigurationError, RuleID: id, Err: &ConfigError{RuleID: id, Problems: names}})
		return
	}

	generated := caps.generated
	if cfg.Generated != nil {
		generated = *cfg.Generated
	}
	if err := s.descriptors.Add(desc); err != nil {
		s.record(&EngineError{Kind: ConfigurationError, RuleID: id, Err: err})
		return
	}
	s.entries = append(s.entries, &ruleEntry{
		rule:      r,
		id:        id,
		desc:      desc,
		caps:      caps,
		params:    params,
		generated: generated,
		langs:     make(map[string]bool),
	})
}

func (s *Session) checkUnknownConfig(known map[string]bool) {
	ids := make([]string, 0, len(s.opts.Rules))
	for id := range s.opts.Rules {
		if !known[id] {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	for _, id := range ids {
		s.record(&EngineError{Kind: ConfigurationError, RuleID: id, Err: errors.New("configuration for unknown rule")})
	}
}

// buildTables resolves kind names per facade. Entry order is registration
// order, so every dispatch list is ordered too.
func (s *Session) buildTables() {
	for _, f := range s.opts.Registry.Facades() {
		table := &dispatch{facade: f, byKind: make(map[syntax.Kind][]int)}
		for idx, e := range s.entries {
			in := e.rule.Interest()
			kinds, missing := resolveKinds(f, in.Kinds)
			if len(missing) > 0 {
				s.record(&EngineError{
					Kind:   ConfigurationError,
					RuleID: e.id,
					Lang:   f.Language(),
					Err:    fmt.Errorf("%w: %v", ErrUnknownKind, missing),
				})
				continue
			}
			e.langs[f.Language()] = true
			if in.Tree {
				table.tree = append(table.tree, idx)
			}
			for _, k := range kinds.Kinds() {
				table.byKind[k] = append(table.byKind[k], idx)
			}
		}
		s.tables[f.Language()] = table
	}
}

func resolveKinds(f lang.Facade, names []string) (syntax.KindSet, []string) {
	kinds := make([]syntax.Kind, 0, len(names))
	var missing []string
	for _, name := range names {
		k, ok := f.SyntaxKind(name)
		if !ok || k == nil {
			missing = append(missing, name)
			continue
		}
		kinds = append(kinds, k)
	}
	return syntax.NewKindSet(kinds...), missing
}

func (s *Session) record(e *EngineError) {
	s.mu.Lock()
	s.errs = append(s.errs, e)
	s.mu.Unlock()
}

// Errors returns a snapshot of the engine error log.
func (s *Session) Errors() []*EngineError {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*EngineError(nil), s.errs...)
}

// Rules returns the active rules in registration order.
func (s *Session) Rules() []Rule {
	out := make([]Rule, len(s.entries))
	for i, e := range s.entries {
		out[i] = e.rule
	}
	return out
}

// Descriptors returns the registered descriptors sorted by ID.
func (s *Session) Descriptors() []*diag.Descriptor {
	out := make([]*diag.Descriptor, 0, len(s.descriptors))
	for _, d := range s.descriptors {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}

// Params returns the bound parameters of rule id.
func (s *Session) Params(id string) (*ParamSet, bool) {
	for _, e := range s.entries {
		if e.id == id {
			return e.params, e.params != nil
		}
	}
	return nil, false
}

// Facade returns the facade used for a language ID.
func (s *Session) Facade(id string) (lang.Facade, bool) {
	t, ok := s.tables[id]
	if !ok {
		return nil, false
	}
	return t.facade, true
}
