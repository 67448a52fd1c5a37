package lint

import (
	"fmt"
	"math"
	"sort"
)

// ParamType is the value type of a rule parameter.
type ParamType uint8

const (
	ParamInt ParamType = iota + 1
	ParamString
	ParamBool
)

func (t ParamType) String() string {
	switch t {
	case ParamInt:
		return "int"
	case ParamString:
		return "string"
	case ParamBool:
		return "bool"
	default:
		return "unknown"
	}
}

// Param declares one configurable rule input.
type Param struct {
	Name        string
	Type        ParamType
	Default     any
	Description string
	HasRange    bool
	Min, Max    int
}

// ParamSet holds parameter declarations and their current values.
// Values are fixed once a session binds them.
type ParamSet struct {
	params []Param
	values map[string]any
}

// NewParamSet returns an empty set.
func NewParamSet() *ParamSet {
	return &ParamSet{values: make(map[string]any)}
}

func (s *ParamSet) declare(p Param) *ParamSet {
	for _, existing := range s.params {
		if existing.Name == p.Name {
			panic(fmt.Sprintf("parameter %q declared twice", p.Name))
		}
	}
	s.params = append(s.params, p)
	s.values[p.Name] = p.Default
	return s
}

// DeclareInt adds an int parameter without range limits.
func (s *ParamSet) DeclareInt(name string, def int, description string) *ParamSet {
	return s.declare(Param{Name: name, Type: ParamInt, Default: def, Description: description})
}

// DeclareIntRange adds an int parameter accepting [min, max].
func (s *ParamSet) DeclareIntRange(name string, def, min, max int, description string) *ParamSet {
	return s.declare(Param{Name: name, Type: ParamInt, Default: def, Description: description, HasRange: true, Min: min, Max: max})
}

// DeclareString adds a string parameter.
func (s *ParamSet) DeclareString(name, def, description string) *ParamSet {
	return s.declare(Param{Name: name, Type: ParamString, Default: def, Description: description})
}

// DeclareBool adds a bool parameter.
func (s *ParamSet) DeclareBool(name string, def bool, description string) *ParamSet {
	return s.declare(Param{Name: name, Type: ParamBool, Default: def, Description: description})
}

// Params returns the declarations in declaration order.
func (s *ParamSet) Params() []Param {
	if s == nil {
		return nil
	}
	return append([]Param(nil), s.params...)
}

// Lookup returns the declaration of name.
func (s *ParamSet) Lookup(name string) (Param, bool) {
	if s == nil {
		return Param{}, false
	}
	for _, p := range s.params {
		if p.Name == name {
			return p, true
		}
	}
	return Param{}, false
}

// Clone copies declarations and current values.
func (s *ParamSet) Clone() *ParamSet {
	if s == nil {
		return nil
	}
	out := &ParamSet{
		params: append([]Param(nil), s.params...),
		values: make(map[string]any, len(s.values)),
	}
	for k, v := range s.values {
		out.values[k] = v
	}
	return out
}

// Bind validates cfg and applies it. Either every value is applied or none:
// on failure the result is a *ConfigError listing each problem.
func (s *ParamSet) Bind(cfg map[string]any) error {
	if len(cfg) == 0 {
		return nil
	}
	names := make([]string, 0, len(cfg))
	for name := range cfg {
		names = append(names, name)
	}
	sort.Strings(names)

	staged := make(map[string]any, len(cfg))
	var problems []string
	for _, name := range names {
		p, ok := s.Lookup(name)
		if !ok {
			problems = append(problems, fmt.Sprintf("unknown parameter %q", name))
			continue
		}
		v, err := coerce(p, cfg[name])
		if err != nil {
			problems = append(problems, fmt.Sprintf("parameter %q: %v", name, err))
			continue
		}
		staged[name] = v
	}
	if len(problems) > 0 {
		return &ConfigError{Problems: problems}
	}
	for k, v := range staged {
		s.values[k] = v
	}
	return nil
}

func coerce(p Param, raw any) (any, error) {
	switch p.Type {
	case ParamInt:
		n, ok := toInt(raw)
		if !ok {
			return nil, fmt.Errorf("expected int, got %T", raw)
		}
		if p.HasRange && (n < p.Min || n > p.Max) {
			return nil, fmt.Errorf("value %d out of range [%d, %d]", n, p.Min, p.Max)
		}
		return n, nil
	case ParamString:
		str, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("expected string, got %T", raw)
		}
		return str, nil
	case ParamBool:
		b, ok := raw.(bool)
		if !ok {
			return nil, fmt.Errorf("expected bool, got %T", raw)
		}
		return b, nil
	default:
		return nil, fmt.Errorf("unsupported parameter type %s", p.Type)
	}
}

// toInt accepts the integer shapes produced by the TOML, YAML and JSON
// decoders.
func toInt(raw any) (int, bool) {
	switch v := raw.(type) {
	case int:
		return v, true
	case int8:
		return int(v), true
	case int16:
		return int(v), true
	case int32:
		return int(v), true
	case int64:
		if v < math.MinInt || v > math.MaxInt {
			return 0, false
		}
		return int(v), true
	case uint8:
		return int(v), true
	case uint16:
		return int(v), true
	case uint32:
		return int(v), true
	case uint:
		if uint64(v) > math.MaxInt {
			return 0, false
		}
		return int(v), true
	case uint64:
		if v > math.MaxInt {
			return 0, false
		}
		return int(v), true
	case float64:
		// float64(math.MaxInt) rounds up to 2^63; -MinInt is exact.
		if v != math.Trunc(v) || v < float64(math.MinInt) || v >= -float64(math.MinInt) {
			return 0, false
		}
		return int(v), true
	default:
		return 0, false
	}
}

// Int returns the current value of an int parameter (0 if undeclared).
func (s *ParamSet) Int(name string) int {
	if s == nil {
		return 0
	}
	v, _ := s.values[name].(int)
	return v
}

// String returns the current value of a string parameter.
func (s *ParamSet) String(name string) string {
	if s == nil {
		return ""
	}
	v, _ := s.values[name].(string)
	return v
}

// Bool returns the current value of a bool parameter.
func (s *ParamSet) Bool(name string) bool {
	if s == nil {
		return false
	}
	v, _ := s.values[name].(bool)
	return v
}

// Value returns the current value of name.
func (s *ParamSet) Value(name string) (any, bool) {
	if s == nil {
		return nil, false
	}
	v, ok := s.values[name]
	return v, ok
}
