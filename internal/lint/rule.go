package lint

import (
	"fmt"

	"lintel/internal/diag"
	"lintel/internal/syntax"
)

// Interest declares what a rule wants to be called for. Kinds are logical
// kind names resolved per language by the facade.
type Interest struct {
	Tree  bool
	Kinds []string
}

// Empty reports whether nothing is declared.
func (i Interest) Empty() bool {
	return !i.Tree && len(i.Kinds) == 0
}

// Rule is the contract every rule satisfies. A rule holds no per-tree state;
// anything a rule needs across callbacks of one tree lives in Context.Store.
type Rule interface {
	Descriptor() *diag.Descriptor
	Interest() Interest
}

// TreeVisitor is called once per tree, before the node walk.
type TreeVisitor interface {
	VisitTree(c *Context) error
}

// NodeVisitor is called for every node whose kind is in the interest.
type NodeVisitor interface {
	VisitNode(c *Context, n syntax.Node) error
}

// Parametrized rules expose configurable parameters. The session binds a
// clone, so the returned set is never mutated by the engine.
type Parametrized interface {
	Params() *ParamSet
}

// GeneratedCodeAware rules decide whether they also run on generated trees.
// Rules without it skip generated code.
type GeneratedCodeAware interface {
	AppliesToGeneratedCode() bool
}

// Base is embedded by rules and carries the descriptor and interest.
type Base struct {
	desc     *diag.Descriptor
	interest Interest
}

// NewBase validates desc and interest.
func NewBase(desc *diag.Descriptor, interest Interest) (Base, error) {
	if desc == nil {
		return Base{}, &EngineError{Kind: ConfigurationError, Err: ErrNilDescriptor}
	}
	if interest.Empty() {
		return Base{}, &EngineError{Kind: ConfigurationError, RuleID: desc.ID(), Err: ErrNoInterest}
	}
	interest.Kinds = append([]string(nil), interest.Kinds...)
	return Base{desc: desc, interest: interest}, nil
}

// MustBase is NewBase for rules built from constants.
func MustBase(desc *diag.Descriptor, interest Interest) Base {
	b, err := NewBase(desc, interest)
	if err != nil {
		panic(err)
	}
	return b
}

func (b Base) Descriptor() *diag.Descriptor { return b.desc }

// Interest returns a copy; callers cannot change what the rule declared.
func (b Base) Interest() Interest {
	out := b.interest
	out.Kinds = append([]string(nil), b.interest.Kinds...)
	return out
}

// IncludeGenerated opts rule into generated code.
func IncludeGenerated(rule Rule) Rule {
	return generated{Rule: rule}
}

type generated struct {
	Rule
}

func (generated) AppliesToGeneratedCode() bool { return true }
func (g generated) Unwrap() Rule               { return g.Rule }

// capabilities is what the engine needs to know about a rule, looking
// through decorators.
type capabilities struct {
	tree      TreeVisitor
	node      NodeVisitor
	params    *ParamSet
	generated bool
	hasGenPol bool
}

func discover(rule Rule) capabilities {
	var c capabilities
	for cur := rule; cur != nil; {
		if c.tree == nil {
			if tv, ok := cur.(TreeVisitor); ok {
				c.tree = tv
			}
		}
		if c.node == nil {
			if nv, ok := cur.(NodeVisitor); ok {
				c.node = nv
			}
		}
		if c.params == nil {
			if p, ok := cur.(Parametrized); ok {
				c.params = p.Params()
			}
		}
		if !c.hasGenPol {
			if g, ok := cur.(GeneratedCodeAware); ok {
				c.generated = g.AppliesToGeneratedCode()
				c.hasGenPol = true
			}
		}
		u, ok := cur.(interface{ Unwrap() Rule })
		if !ok {
			break
		}
		cur = u.Unwrap()
	}
	return c
}

func validate(rule Rule, caps capabilities) error {
	if rule.Descriptor() == nil {
		return ErrNilDescriptor
	}
	in := rule.Interest()
	if in.Empty() {
		return ErrNoInterest
	}
	if in.Tree && caps.tree == nil {
		return fmt.Errorf("%w: tree interest without VisitTree", ErrVisitorMismatch)
	}
	if len(in.Kinds) > 0 && caps.node == nil {
		return fmt.Errorf("%w: node interest without VisitNode", ErrVisitorMismatch)
	}
	return nil
}
