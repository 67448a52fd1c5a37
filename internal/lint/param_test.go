package lint

import (
	"errors"
	"math"
	"testing"
)

func TestParamSetBind(t *testing.T) {
	base := NewParamSet().
		DeclareIntRange("maximum", 200, 1, 1000, "").
		DeclareString("header", "", "").
		DeclareBool("regex", false, "")

	tests := []struct {
		name     string
		cfg      map[string]any
		problems int
		maximum  int
	}{
		{"defaults", nil, 0, 200},
		{"yaml int", map[string]any{"maximum": 120}, 0, 120},
		{"toml int64", map[string]any{"maximum": int64(80)}, 0, 80},
		{"json float", map[string]any{"maximum": float64(90)}, 0, 90},
		{"fraction", map[string]any{"maximum": 1.5}, 1, 200},
		{"out of range", map[string]any{"maximum": 0}, 1, 200},
		{"wrong types", map[string]any{"header": 1, "regex": "yes"}, 2, 200},
		{"partial failure keeps values", map[string]any{"maximum": 10, "nope": 1}, 1, 200},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ps := base.Clone()
			err := ps.Bind(tt.cfg)
			var ce *ConfigError
			switch {
			case tt.problems == 0 && err != nil:
				t.Fatalf("unexpected error: %v", err)
			case tt.problems > 0 && (!errors.As(err, &ce) || len(ce.Problems) != tt.problems):
				t.Fatalf("expected %d problems, got %v", tt.problems, err)
			}
			if got := ps.Int("maximum"); got != tt.maximum {
				t.Fatalf("maximum = %d, want %d", got, tt.maximum)
			}
		})
	}
	if base.Int("maximum") != 200 {
		t.Fatalf("clone shares values with the original")
	}
}

func TestToIntBounds(t *testing.T) {
	tests := []struct {
		name string
		raw  any
		want int
		ok   bool
	}{
		{"uint", uint(7), 7, true},
		{"uint64 max", uint64(math.MaxUint64), 0, false},
		{"float 2^63", math.Ldexp(1, 63), 0, false},
		{"float -2^63", -math.Ldexp(1, 63), math.MinInt, true},
		{"float just below 2^63", math.Nextafter(math.Ldexp(1, 63), 0), int(math.Nextafter(math.Ldexp(1, 63), 0)), true},
		{"float fraction", 2.5, 0, false},
		{"string", "3", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := toInt(tt.raw)
			if ok != tt.ok || (ok && got != tt.want) {
				t.Fatalf("toInt(%v) = %d, %v; want %d, %v", tt.raw, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestParamSetAccessors(t *testing.T) {
	ps := NewParamSet().DeclareString("header", "// x", "h").DeclareBool("regex", true, "r")
	if ps.String("header") != "// x" || !ps.Bool("regex") {
		t.Fatalf("defaults not visible")
	}
	if _, ok := ps.Lookup("missing"); ok {
		t.Fatalf("lookup of undeclared parameter succeeded")
	}
	var nilSet *ParamSet
	if nilSet.Int("x") != 0 || nilSet.Params() != nil {
		t.Fatalf("nil set must read as empty")
	}
}
