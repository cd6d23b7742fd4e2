package codegen

import (
	"github.com/cshunsinger/AsmSauceCore-sub000/internal/typesystem"
)

// Condition is a boolean expression tree consumed by branch constructs.
// Conditions are values: And, Or and Invert build new trees and never
// change their receiver.
type Condition interface {
	And(other Condition) Condition
	Or(other Condition) Condition
	// Invert returns the logical negation, pushed down to the leaves.
	Invert() Condition

	check() error
}

// ValidateCondition reports the first construction error in c.
func ValidateCondition(c Condition) error {
	if c == nil {
		return typesystem.NewUsageError("condition is required")
	}
	return c.check()
}

// Operator is a comparison operator.
type Operator int

const (
	EQ Operator = iota
	NE
	GE
	LE
	GT
	LT
)

var operatorNames = [...]string{"==", "!=", ">=", "<=", ">", "<"}

func (op Operator) String() string {
	if op < EQ || op > LT {
		return "?"
	}
	return operatorNames[op]
}

// Negate returns the operator that holds exactly when op does not.
func (op Operator) Negate() Operator {
	switch op {
	case EQ:
		return NE
	case NE:
		return EQ
	case GE:
		return LT
	case LT:
		return GE
	case LE:
		return GT
	default:
		return LE
	}
}

// IsOrdering reports whether op compares magnitudes rather than identity.
func (op Operator) IsOrdering() bool { return op != EQ && op != NE }

// BoolCheck holds when a boolean value equals Want.
type BoolCheck struct {
	Value Node
	Want  bool
	err   error
}

func IsTrue(value Node) *BoolCheck  { return newBoolCheck(value, true) }
func IsFalse(value Node) *BoolCheck { return newBoolCheck(value, false) }

func newBoolCheck(value Node, want bool) *BoolCheck {
	return &BoolCheck{Value: value, Want: want, err: requireNodes("checked value", value)}
}

func (c *BoolCheck) And(other Condition) Condition { return combine(AllOf, c, other) }
func (c *BoolCheck) Or(other Condition) Condition  { return combine(AnyOf, c, other) }
func (c *BoolCheck) Invert() Condition {
	return &BoolCheck{Value: c.Value, Want: !c.Want, err: c.err}
}
func (c *BoolCheck) check() error { return checkAll(c.err, c.Value) }

// NullCheck holds when a reference value is null, or non-null when Null is
// false.
type NullCheck struct {
	Value Node
	Null  bool
	err   error
}

func IsNull(value Node) *NullCheck  { return newNullCheck(value, true) }
func NotNull(value Node) *NullCheck { return newNullCheck(value, false) }

func newNullCheck(value Node, null bool) *NullCheck {
	return &NullCheck{Value: value, Null: null, err: requireNodes("checked value", value)}
}

func (c *NullCheck) And(other Condition) Condition { return combine(AllOf, c, other) }
func (c *NullCheck) Or(other Condition) Condition  { return combine(AnyOf, c, other) }
func (c *NullCheck) Invert() Condition {
	return &NullCheck{Value: c.Value, Null: !c.Null, err: c.err}
}
func (c *NullCheck) check() error { return checkAll(c.err, c.Value) }

// Comparison compares two values with Op.
type Comparison struct {
	Left, Right Node
	Op          Operator
	err         error
}

func Compare(left Node, op Operator, right Node) *Comparison {
	c := &Comparison{Left: left, Right: right, Op: op}
	if op < EQ || op > LT {
		c.err = usagef("unknown comparison operator %d", op)
	} else {
		c.err = requireNodes("compared value", left, right)
	}
	return c
}

func (c *Comparison) And(other Condition) Condition { return combine(AllOf, c, other) }
func (c *Comparison) Or(other Condition) Condition  { return combine(AnyOf, c, other) }
func (c *Comparison) Invert() Condition {
	return &Comparison{Left: c.Left, Right: c.Right, Op: c.Op.Negate(), err: c.err}
}
func (c *Comparison) check() error { return checkAll(c.err, c.Left, c.Right) }

// Logic is the kind of a compound condition.
type Logic int

const (
	AllOf Logic = iota
	AnyOf
)

func (l Logic) String() string {
	if l == AllOf {
		return "AllOf"
	}
	return "AnyOf"
}

func (l Logic) dual() Logic {
	if l == AllOf {
		return AnyOf
	}
	return AllOf
}

// Compound joins two or more conditions. Joining a compound of the same kind
// absorbs its children unless it was grouped.
type Compound struct {
	Kind     Logic
	Children []Condition
	grouped  bool
	err      error
}

// All holds when every condition holds.
func All(conds ...Condition) *Compound { return newCompound(AllOf, conds) }

// Any holds when at least one condition holds.
func Any(conds ...Condition) *Compound { return newCompound(AnyOf, conds) }

func newCompound(kind Logic, conds []Condition) *Compound {
	c := &Compound{Kind: kind}
	for i, x := range conds {
		if x == nil {
			if c.err == nil {
				c.err = usagef("condition %d of %s is required", i+1, kind)
			}
			continue
		}
		c.add(x)
	}
	if c.err == nil && len(conds) < 2 {
		c.err = usagef("%s needs at least two conditions, got %d", kind, len(conds))
	}
	return c
}

func combine(kind Logic, a, b Condition) Condition {
	return newCompound(kind, []Condition{a, b})
}

func (c *Compound) add(x Condition) {
	if cc, ok := x.(*Compound); ok && cc.Kind == c.Kind && !cc.grouped {
		c.Children = append(c.Children, cc.Children...)
		if c.err == nil {
			c.err = cc.err
		}
		return
	}
	c.Children = append(c.Children, x)
}

// Group returns c marked so that joining it with a compound of the same kind
// keeps it nested. Leaf conditions are returned unchanged.
func Group(c Condition) Condition {
	cc, ok := c.(*Compound)
	if !ok {
		return c
	}
	return &Compound{Kind: cc.Kind, Children: append([]Condition(nil), cc.Children...), grouped: true, err: cc.err}
}

// Grouped reports whether c was passed through Group.
func (c *Compound) Grouped() bool { return c.grouped }

func (c *Compound) And(other Condition) Condition { return combine(AllOf, c, other) }
func (c *Compound) Or(other Condition) Condition  { return combine(AnyOf, c, other) }

// Invert swaps AllOf and AnyOf and inverts every child.
func (c *Compound) Invert() Condition {
	inv := &Compound{Kind: c.Kind.dual(), grouped: c.grouped, err: c.err}
	inv.Children = make([]Condition, len(c.Children))
	for i, x := range c.Children {
		inv.Children[i] = x.Invert()
	}
	return inv
}

func (c *Compound) check() error {
	if c.err != nil {
		return c.err
	}
	for _, x := range c.Children {
		if err := x.check(); err != nil {
			return err
		}
	}
	return nil
}
