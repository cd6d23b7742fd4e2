package codegen

import (
	"github.com/cshunsinger/AsmSauceCore-sub000/internal/build"
	"github.com/cshunsinger/AsmSauceCore-sub000/internal/typesystem"
	"github.com/cshunsinger/AsmSauceCore-sub000/internal/vm"
)

// Compiled is a condition lowered for a branch construct: either a Test or a
// Junction of compiled children.
type Compiled interface {
	compiled()
}

// Test is one compiled leaf. Code pushes the operands and performs any
// comparison that precedes the jump; Jump is the conditional jump taken when
// the condition holds.
type Test struct {
	Code []vm.Instruction
	Jump vm.Opcode
}

// Junction combines compiled children with the logic of the source compound.
type Junction struct {
	Kind     Logic
	Children []Compiled
}

// Otherwise returns the jump taken when the condition does not hold, for
// branch builders that fall through into the guarded code.
func (t *Test) Otherwise() vm.Opcode {
	op, _ := t.Jump.Negate()
	return op
}

func (*Test) compiled()     {}
func (*Junction) compiled() {}

// CompileCondition lowers c against the method being generated. The operand
// code of every leaf is taken out of the method's instruction stream and
// handed back in the Test, and the operand stack is left as it was found.
func CompileCondition(ctx *build.Context, c Condition) (Compiled, error) {
	if err := ValidateCondition(c); err != nil {
		return nil, err
	}
	return compile(ctx, c)
}

func compile(ctx *build.Context, c Condition) (Compiled, error) {
	if cc, ok := c.(*Compound); ok {
		j := &Junction{Kind: cc.Kind}
		for _, x := range cc.Children {
			child, err := compile(ctx, x)
			if err != nil {
				return nil, err
			}
			j.Children = append(j.Children, child)
		}
		return j, nil
	}

	start, err := ctx.CodeLen()
	if err != nil {
		return nil, err
	}
	var (
		jump  vm.Opcode
		count int
	)
	switch c := c.(type) {
	case *BoolCheck:
		jump, err = compileBool(ctx, c)
		count = 1
	case *NullCheck:
		jump, err = compileNull(ctx, c)
		count = 1
	case *Comparison:
		jump, err = compileComparison(ctx, c)
		count = 2
	default:
		err = usagef("unsupported condition %T", c)
	}
	if err != nil {
		return nil, err
	}
	code, err := ctx.Cut(start)
	if err != nil {
		return nil, err
	}
	if _, err := ctx.PopN(count); err != nil {
		return nil, err
	}
	return &Test{Code: code, Jump: jump}, nil
}

func compileBool(ctx *build.Context, c *BoolCheck) (vm.Opcode, error) {
	ops, err := emitOperands(ctx, []Node{c.Value}, func(int) string { return "checked value" })
	if err != nil {
		return 0, err
	}
	t := ops.types[0]
	if p, ok := t.Unboxed(); ok {
		t = p
	}
	if t != typesystem.Boolean {
		return 0, typesystem.NewConversionError(typesystem.Concrete(ctx, ops.types[0]), typesystem.Boolean, false, "condition needs a boolean")
	}
	if err := ops.convert(ctx, promoter(ctx, typesystem.Boolean)); err != nil {
		return 0, err
	}
	if c.Want {
		return vm.IFNE, nil
	}
	return vm.IFEQ, nil
}

func compileNull(ctx *build.Context, c *NullCheck) (vm.Opcode, error) {
	ops, err := emitOperands(ctx, []Node{c.Value}, func(int) string { return "checked value" })
	if err != nil {
		return 0, err
	}
	if t := ops.types[0]; t.IsPrimitive() {
		return 0, typesystem.NewConversionError(t, typesystem.Null, false, "primitive values are never null")
	}
	if c.Null {
		return vm.IFNULL, nil
	}
	return vm.IFNONNULL, nil
}

// zeroJumps maps operators to the jumps comparing an int against zero.
var zeroJumps = [...]vm.Opcode{
	EQ: vm.IFEQ,
	NE: vm.IFNE,
	GE: vm.IFGE,
	LE: vm.IFLE,
	GT: vm.IFGT,
	LT: vm.IFLT,
}

func compileComparison(ctx *build.Context, c *Comparison) (vm.Opcode, error) {
	ops, err := emitOperands(ctx, []Node{c.Left, c.Right}, func(i int) string {
		if i == 0 {
			return "left operand of " + c.Op.String()
		}
		return "right operand of " + c.Op.String()
	})
	if err != nil {
		return 0, err
	}
	l, r := ops.types[0], ops.types[1]

	if !l.IsPrimitive() && !r.IsPrimitive() {
		if c.Op.IsOrdering() {
			return 0, usagef("operator %s cannot compare references %s and %s",
				c.Op, typesystem.Concrete(ctx, l), typesystem.Concrete(ctx, r))
		}
		if c.Op == EQ {
			return vm.IF_ACMPEQ, nil
		}
		return vm.IF_ACMPNE, nil
	}

	// At least one side is primitive; the other must be a primitive or a
	// box that unboxes to one.
	lp, err := comparedAs(ctx, l, r)
	if err != nil {
		return 0, err
	}
	rp, err := comparedAs(ctx, r, l)
	if err != nil {
		return 0, err
	}

	if lp == typesystem.Boolean || rp == typesystem.Boolean {
		if lp != rp {
			return 0, typesystem.NewConversionError(lp, rp, false, "booleans only compare with booleans")
		}
		if c.Op.IsOrdering() {
			return 0, usagef("operator %s cannot compare booleans", c.Op)
		}
		if err := ops.convert(ctx, promoter(ctx, typesystem.Boolean)); err != nil {
			return 0, err
		}
		return zeroJumps[c.Op] + (vm.IF_ICMPEQ - vm.IFEQ), nil
	}

	t := typesystem.Promote(lp, rp)
	if err := ops.convert(ctx, promoter(ctx, t)); err != nil {
		return 0, err
	}
	var cmp vm.Opcode
	switch t {
	case typesystem.Int:
		return zeroJumps[c.Op] + (vm.IF_ICMPEQ - vm.IFEQ), nil
	case typesystem.Long:
		cmp = vm.LCMP
	case typesystem.Float:
		// NaN must make every ordering fail, so < and <= push 1 on NaN.
		cmp = vm.FCMPL
		if c.Op == LT || c.Op == LE {
			cmp = vm.FCMPG
		}
	default:
		cmp = vm.DCMPL
		if c.Op == LT || c.Op == LE {
			cmp = vm.DCMPG
		}
	}
	if err := ctx.Emit(vm.Simple(cmp)); err != nil {
		return 0, err
	}
	return zeroJumps[c.Op], nil
}

// comparedAs returns the primitive t is compared as when the other operand
// is other.
func comparedAs(env typesystem.Env, t, other typesystem.Type) (typesystem.Type, error) {
	if t.IsPrimitive() {
		return t, nil
	}
	if t.IsNull() {
		return typesystem.Type{}, typesystem.NewConversionError(typesystem.Concrete(env, other), typesystem.Null, false,
			"primitive values are never null")
	}
	if p, ok := t.Unboxed(); ok {
		return p, nil
	}
	return typesystem.Type{}, typesystem.NewConversionError(typesystem.Concrete(env, t), typesystem.Concrete(env, other), false, "")
}
