package codegen

import (
	"github.com/cshunsinger/AsmSauceCore-sub000/internal/build"
	"github.com/cshunsinger/AsmSauceCore-sub000/internal/config"
	"github.com/cshunsinger/AsmSauceCore-sub000/internal/typesystem"
	"github.com/cshunsinger/AsmSauceCore-sub000/internal/vm"
)

// ConversionCode returns the instructions converting a value of type from on
// top of the operand stack to type to.
//
// Implicit conversions are identity, reference upcasts (CHECKCAST), boxing
// and unboxing between a primitive and its own boxed type, and primitive
// widening. Explicit conversions add reference downcasts and primitive
// narrowing. Anything else is a ConversionError.
func ConversionCode(env typesystem.Env, from, to typesystem.Type, explicit bool) ([]vm.Instruction, error) {
	fail := func(reason string) error {
		return typesystem.NewConversionError(typesystem.Concrete(env, from), typesystem.Concrete(env, to), explicit, reason)
	}
	switch {
	case from.IsZero() || to.IsZero():
		return nil, fail("type is unset")
	case from.IsVoid() || to.IsVoid():
		return nil, fail("void has no value")
	case typesystem.SameType(env, from, to):
		return nil, nil
	}

	if from.IsPrimitive() && to.IsPrimitive() {
		if from == typesystem.Boolean || to == typesystem.Boolean {
			return nil, fail("")
		}
		if typesystem.IsWidening(from, to) || (explicit && typesystem.IsNarrowing(from, to)) {
			return primitiveCode(from, to), nil
		}
		return nil, fail("")
	}

	if typesystem.IsBoxPair(from, to) {
		if from.IsPrimitive() {
			return []vm.Instruction{boxCode(env, from, to)}, nil
		}
		return []vm.Instruction{unboxCode(env, from, to)}, nil
	}
	if from.IsPrimitive() || to.IsPrimitive() {
		return nil, fail("")
	}

	if from.IsNull() {
		return nil, nil
	}
	if to.IsAssignableFrom(env, from) || (explicit && from.IsAssignableFrom(env, to)) {
		return []vm.Instruction{vm.TypeOp(vm.CHECKCAST, typesystem.InternalName(env, to))}, nil
	}
	return nil, fail("")
}

// boxCode calls the static valueOf factory of the boxed type.
func boxCode(env typesystem.Env, prim, box typesystem.Type) vm.Instruction {
	desc := typesystem.MethodDescriptor(env, []typesystem.Type{prim}, box)
	return vm.Member(vm.INVOKESTATIC, typesystem.InternalName(env, box), config.BoxMethodName, desc)
}

// unboxCode calls the xxxValue accessor of the boxed type, e.g. intValue.
func unboxCode(env typesystem.Env, box, prim typesystem.Type) vm.Instruction {
	desc := typesystem.MethodDescriptor(env, nil, prim)
	return vm.Member(vm.INVOKEVIRTUAL, typesystem.InternalName(env, box), prim.Name()+"Value", desc)
}

var categoryConversions = map[[2]typesystem.Type]vm.Opcode{
	{typesystem.Int, typesystem.Long}:     vm.I2L,
	{typesystem.Int, typesystem.Float}:    vm.I2F,
	{typesystem.Int, typesystem.Double}:   vm.I2D,
	{typesystem.Long, typesystem.Int}:     vm.L2I,
	{typesystem.Long, typesystem.Float}:   vm.L2F,
	{typesystem.Long, typesystem.Double}:  vm.L2D,
	{typesystem.Float, typesystem.Int}:    vm.F2I,
	{typesystem.Float, typesystem.Long}:   vm.F2L,
	{typesystem.Float, typesystem.Double}: vm.F2D,
	{typesystem.Double, typesystem.Int}:   vm.D2I,
	{typesystem.Double, typesystem.Long}:  vm.D2L,
	{typesystem.Double, typesystem.Float}: vm.D2F,
}

var truncations = map[typesystem.Type]vm.Opcode{
	typesystem.Byte:  vm.I2B,
	typesystem.Char:  vm.I2C,
	typesystem.Short: vm.I2S,
}

// primitiveCode converts between numeric primitives: first between stack
// categories, then truncating to byte, char or short where the value range
// of from does not already fit.
func primitiveCode(from, to typesystem.Type) []vm.Instruction {
	var code []vm.Instruction
	fc, tc := typesystem.StackCategory(from), typesystem.StackCategory(to)
	if op, ok := categoryConversions[[2]typesystem.Type{fc, tc}]; ok {
		code = append(code, vm.Simple(op))
	}
	if op, ok := truncations[to]; ok && !(from == typesystem.Byte && to == typesystem.Short) {
		code = append(code, vm.Simple(op))
	}
	return code
}

// convertTop converts the value on top of the operand stack to type to.
func convertTop(ctx *build.Context, to typesystem.Type, explicit bool) error {
	size, err := ctx.StackSize()
	if err != nil {
		return err
	}
	if size == 0 {
		return typesystem.NewUsageError("nothing to convert")
	}
	from, err := ctx.Peek()
	if err != nil {
		return err
	}
	code, err := ConversionCode(ctx, from, to, explicit)
	if err != nil {
		return err
	}
	if err := ctx.Emit(code...); err != nil {
		return err
	}
	if typesystem.SameType(ctx, from, to) {
		return nil
	}
	// Silent widenings and null still change the operand's type.
	return ctx.SetStackAt(size-1, to)
}

// CastNode converts a value to a target type. With no value builder it
// converts whatever is on top of the operand stack.
type CastNode struct {
	Value    Node
	To       typesystem.Type
	Explicit bool
	err      error
}

// Cast explicitly converts value to type to. A nil value converts the
// current top of the operand stack.
func Cast(value Node, to typesystem.Type) *CastNode {
	return newCast(value, to, true)
}

// Convert implicitly converts value to type to. A nil value converts the
// current top of the operand stack.
func Convert(value Node, to typesystem.Type) *CastNode {
	return newCast(value, to, false)
}

func newCast(value Node, to typesystem.Type, explicit bool) *CastNode {
	n := &CastNode{Value: value, To: to, Explicit: explicit}
	if to.IsZero() || to.IsVoid() {
		n.err = usagef("conversion target must be a value type, got %s", to)
	}
	return n
}

func (n *CastNode) check() error { return checkAll(n.err, n.Value) }

func (n *CastNode) Emit(ctx *build.Context) error {
	if n.err != nil {
		return n.err
	}
	if n.Value != nil {
		who := "value of conversion to " + n.To.String()
		if n.Explicit {
			who = "value of cast to " + n.To.String()
		}
		if _, err := emitValue(ctx, n.Value, who); err != nil {
			return err
		}
	}
	return convertTop(ctx, n.To, n.Explicit)
}
