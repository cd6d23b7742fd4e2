package codegen

import (
	"github.com/cshunsinger/AsmSauceCore-sub000/internal/build"
	"github.com/cshunsinger/AsmSauceCore-sub000/internal/typesystem"
	"github.com/cshunsinger/AsmSauceCore-sub000/internal/vm"
)

// ArithOp is a binary numeric operator.
type ArithOp int

// Operators in the order of their typed instruction families.
const (
	Add ArithOp = iota
	Sub
	Mul
	Div
	Rem
)

var arithNames = [...]string{"+", "-", "*", "/", "%"}

func (op ArithOp) String() string {
	if op < Add || op > Rem {
		return "?"
	}
	return arithNames[op]
}

// ArithNode applies a binary operator to two numeric values. Boxed operands
// are unboxed and both sides promoted to a common type first.
type ArithNode struct {
	Op          ArithOp
	Left, Right Node
	err         error
}

func Arith(op ArithOp, left, right Node) *ArithNode {
	n := &ArithNode{Op: op, Left: left, Right: right}
	if op < Add || op > Rem {
		n.err = usagef("unknown arithmetic operator %d", op)
	} else {
		n.err = requireNodes("operand", left, right)
	}
	return n
}

func (n *ArithNode) check() error { return checkAll(n.err, n.Left, n.Right) }

func (n *ArithNode) Emit(ctx *build.Context) error {
	if n.err != nil {
		return n.err
	}
	ops, err := emitOperands(ctx, []Node{n.Left, n.Right}, func(i int) string {
		if i == 0 {
			return "left operand of " + n.Op.String()
		}
		return "right operand of " + n.Op.String()
	})
	if err != nil {
		return err
	}
	l, err := numeric(ctx, ops.types[0], n.Op)
	if err != nil {
		return err
	}
	r, err := numeric(ctx, ops.types[1], n.Op)
	if err != nil {
		return err
	}
	result := typesystem.Promote(l, r)
	if err := ops.convert(ctx, promoter(ctx, result)); err != nil {
		return err
	}
	if err := ctx.Emit(vm.Simple(vm.IADD + 4*vm.Opcode(n.Op) + slotOffset(result))); err != nil {
		return err
	}
	if _, err := ctx.PopN(2); err != nil {
		return err
	}
	return ctx.Push(result)
}

// NegateNode flips the sign of a numeric value.
type NegateNode struct {
	Value Node
	err   error
}

func Negate(value Node) *NegateNode {
	return &NegateNode{Value: value, err: requireNodes("negated value", value)}
}

func (n *NegateNode) check() error { return checkAll(n.err, n.Value) }

func (n *NegateNode) Emit(ctx *build.Context) error {
	if n.err != nil {
		return n.err
	}
	ops, err := emitOperands(ctx, []Node{n.Value}, func(int) string { return "negated value" })
	if err != nil {
		return err
	}
	p, err := numeric(ctx, ops.types[0], Sub)
	if err != nil {
		return err
	}
	result := typesystem.Promote(p, p)
	if err := ops.convert(ctx, promoter(ctx, result)); err != nil {
		return err
	}
	if err := ctx.Emit(vm.Simple(vm.INEG + slotOffset(result))); err != nil {
		return err
	}
	if _, err := ctx.Pop(); err != nil {
		return err
	}
	return ctx.Push(result)
}

// numeric returns the primitive t holds, unboxing boxed numbers.
func numeric(env typesystem.Env, t typesystem.Type, op ArithOp) (typesystem.Type, error) {
	if p, ok := t.Unboxed(); ok {
		t = p
	}
	if !t.IsNumeric() {
		return typesystem.Type{}, typesystem.NewConversionError(typesystem.Concrete(env, t), typesystem.Int, false,
			"operand of "+op.String()+" is not numeric")
	}
	return t, nil
}

// promoter unboxes an operand and widens it to the promoted type.
func promoter(env typesystem.Env, to typesystem.Type) func(int, typesystem.Type) ([]vm.Instruction, typesystem.Type, error) {
	return func(_ int, from typesystem.Type) ([]vm.Instruction, typesystem.Type, error) {
		var code []vm.Instruction
		if p, ok := from.Unboxed(); ok {
			code = append(code, unboxCode(env, from, p))
			from = p
		}
		widen, err := ConversionCode(env, from, to, false)
		if err != nil {
			return nil, to, err
		}
		return append(code, widen...), to, nil
	}
}
