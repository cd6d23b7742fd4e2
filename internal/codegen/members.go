package codegen

import (
	"fmt"

	"github.com/cshunsinger/AsmSauceCore-sub000/internal/build"
	"github.com/cshunsinger/AsmSauceCore-sub000/internal/symbols"
	"github.com/cshunsinger/AsmSauceCore-sub000/internal/typesystem"
	"github.com/cshunsinger/AsmSauceCore-sub000/internal/vm"
)

// GetFieldNode pushes the value of a field. For instance fields the receiver
// is the Receiver builder, or the value already on top of the operand stack
// when Receiver is nil; an unset owner is taken from the receiver's type.
type GetFieldNode struct {
	Ref      typesystem.FieldRef
	Receiver Node
	err      error
}

// GetField reads an instance field of receiver.
func GetField(receiver Node, name string) *GetFieldNode {
	return GetFieldRef(receiver, typesystem.FieldRef{Name: name})
}

// GetStatic reads a static field of owner.
func GetStatic(owner typesystem.Type, name string) *GetFieldNode {
	return GetFieldRef(nil, typesystem.FieldRef{Owner: owner, Name: name, Static: true})
}

func GetFieldRef(receiver Node, ref typesystem.FieldRef) *GetFieldNode {
	n := &GetFieldNode{Ref: ref, Receiver: receiver}
	n.err = fieldRefError(ref, receiver)
	return n
}

func fieldRefError(ref typesystem.FieldRef, receiver Node) error {
	if ref.Static && receiver != nil {
		return usagef("static field %s takes no receiver", ref.Name)
	}
	return ref.Validate()
}

func (n *GetFieldNode) check() error { return checkAll(n.err, n.Receiver) }

func (n *GetFieldNode) Emit(ctx *build.Context) error {
	if n.err != nil {
		return n.err
	}
	f, err := resolveField(ctx, n.Ref, n.Receiver, 0)
	if err != nil {
		return err
	}
	op := vm.GETFIELD
	if n.Ref.Static {
		op = vm.GETSTATIC
	} else if _, err := ctx.Pop(); err != nil {
		return err
	}
	if err := ctx.Emit(fieldCode(ctx, op, f)); err != nil {
		return err
	}
	return ctx.Push(f.Type)
}

// SetFieldNode stores a value into a field, converting it to the field's
// type. The receiver of an instance field follows the rules of GetFieldNode.
type SetFieldNode struct {
	Ref      typesystem.FieldRef
	Receiver Node
	Value    Node
	err      error
}

// SetField writes an instance field of receiver.
func SetField(receiver Node, name string, value Node) *SetFieldNode {
	return SetFieldRef(receiver, typesystem.FieldRef{Name: name}, value)
}

// SetStatic writes a static field of owner.
func SetStatic(owner typesystem.Type, name string, value Node) *SetFieldNode {
	return SetFieldRef(nil, typesystem.FieldRef{Owner: owner, Name: name, Static: true}, value)
}

func SetFieldRef(receiver Node, ref typesystem.FieldRef, value Node) *SetFieldNode {
	n := &SetFieldNode{Ref: ref, Receiver: receiver, Value: value}
	n.err = fieldRefError(ref, receiver)
	if n.err == nil {
		n.err = requireNodes("value of field "+ref.Name, value)
	}
	return n
}

func (n *SetFieldNode) check() error { return checkAll(n.err, n.Receiver, n.Value) }

func (n *SetFieldNode) Emit(ctx *build.Context) error {
	if n.err != nil {
		return n.err
	}
	if n.Receiver != nil {
		if _, err := emitValue(ctx, n.Receiver, "receiver of field "+n.Ref.Name); err != nil {
			return err
		}
	}
	if _, err := emitValue(ctx, n.Value, "value of field "+n.Ref.Name); err != nil {
		return err
	}
	f, err := resolveField(ctx, n.Ref, nil, 1)
	if err != nil {
		return err
	}
	if err := convertTop(ctx, f.Type, false); err != nil {
		return err
	}
	op, consumed := vm.PUTSTATIC, 1
	if !n.Ref.Static {
		op, consumed = vm.PUTFIELD, 2
	}
	if err := ctx.Emit(fieldCode(ctx, op, f)); err != nil {
		return err
	}
	_, err = ctx.PopN(consumed)
	return err
}

// resolveField emits the receiver if one is given and resolves ref. above is
// the number of values sitting on top of an implied receiver.
func resolveField(ctx *build.Context, ref typesystem.FieldRef, receiver Node, above int) (*typesystem.Field, error) {
	if receiver != nil {
		if _, err := emitValue(ctx, receiver, "receiver of field "+ref.Name); err != nil {
			return nil, err
		}
	}
	if ref.Owner.IsZero() {
		stack, err := ctx.Stack()
		if err != nil {
			return nil, err
		}
		owner, err := symbols.ImpliedOwner(stack, above, false)
		if err != nil {
			return nil, err
		}
		ref.Owner = owner
	}
	f, err := symbols.NewResolver(ctx).ResolveField(ref)
	if err != nil {
		return nil, err
	}
	ctx.Tracef("resolved %s", f)
	return f, nil
}

func fieldCode(env typesystem.Env, op vm.Opcode, f *typesystem.Field) vm.Instruction {
	return vm.Member(op, typesystem.InternalName(env, f.Owner), f.Name, typesystem.Descriptor(env, f.Type))
}

// InvokeNode calls an instance or static method.
//
// Instance calls take their receiver from the Receiver builder, or from the
// operand stack below the arguments when Receiver is nil. An unset owner is
// the receiver's type and an unset parameter list is inferred from the
// argument types; the member is resolved during the build and every argument
// is converted to the resolved parameter type.
type InvokeNode struct {
	Ref      typesystem.MethodRef
	Receiver Node
	Args     []Node
	err      error
}

// Invoke calls the instance method name on receiver.
func Invoke(receiver Node, name string, args ...Node) *InvokeNode {
	return InvokeRef(receiver, typesystem.MethodRef{Name: name}, args...)
}

// InvokeStatic calls the static method name of owner.
func InvokeStatic(owner typesystem.Type, name string, args ...Node) *InvokeNode {
	return InvokeRef(nil, typesystem.MethodRef{Owner: owner, Name: name, Static: true}, args...)
}

// InvokeRef calls the method ref denotes. A non-nil ref.Params must have one
// entry per argument builder.
func InvokeRef(receiver Node, ref typesystem.MethodRef, args ...Node) *InvokeNode {
	n := &InvokeNode{Ref: ref, Receiver: receiver, Args: args}
	switch {
	case ref.IsConstructor():
		n.err = usagef("constructors are invoked through New or SuperInit")
	case ref.Static && receiver != nil:
		n.err = usagef("static method %s takes no receiver", ref.Name)
	default:
		n.err = ref.Validate()
	}
	if n.err == nil {
		n.err = argsError(ref, args)
	}
	return n
}

func argsError(ref typesystem.MethodRef, args []Node) error {
	if ref.Params != nil && len(ref.Params) != len(args) {
		return usagef("%s declares %d parameters but %d argument builders were given", ref.Name, len(ref.Params), len(args))
	}
	return requireNodes("argument", args...)
}

func (n *InvokeNode) check() error {
	return checkAll(n.err, append([]Node{n.Receiver}, n.Args...)...)
}

func (n *InvokeNode) Emit(ctx *build.Context) error {
	if n.err != nil {
		return n.err
	}
	if n.Receiver != nil {
		if _, err := emitValue(ctx, n.Receiver, "receiver of "+n.Ref.Name); err != nil {
			return err
		}
	}
	ops, err := emitOperands(ctx, n.Args, argName(n.Ref.Name))
	if err != nil {
		return err
	}

	ref := n.Ref
	var receiver typesystem.Type
	if !ref.Static {
		stack, err := ctx.Stack()
		if err != nil {
			return err
		}
		receiver, err = symbols.ImpliedOwner(stack, len(n.Args), false)
		if err != nil {
			return err
		}
		if ref.Owner.IsZero() {
			ref.Owner = receiver
		}
	}
	m, err := resolveMethod(ctx, ref, ops)
	if err != nil {
		return err
	}

	op, owner := vm.INVOKESTATIC, ref.Owner
	switch {
	case !ref.Static && m.Modifiers.IsPrivate():
		op = vm.INVOKESPECIAL
	case !ref.Static && typesystem.IsInterfaceType(ctx, ref.Owner):
		op = vm.INVOKEINTERFACE
	case !ref.Static:
		op = vm.INVOKEVIRTUAL
	}
	if err := ctx.Emit(methodCode(ctx, op, owner, m)); err != nil {
		return err
	}

	consumed := len(n.Args)
	if !ref.Static {
		consumed++
	}
	if _, err := ctx.PopN(consumed); err != nil {
		return err
	}
	if m.Return.IsVoid() {
		return nil
	}
	return ctx.Push(m.Return)
}

func argName(method string) func(int) string {
	return func(i int) string { return fmt.Sprintf("argument %d of %s", i+1, method) }
}

// resolveMethod resolves ref against the emitted argument types and converts
// every argument to the resolved parameter types.
func resolveMethod(ctx *build.Context, ref typesystem.MethodRef, ops *operands) (*typesystem.Method, error) {
	m, err := symbols.NewResolver(ctx).ResolveMethod(ref, ops.types)
	if err != nil {
		return nil, err
	}
	ctx.Tracef("resolved %s", m)
	if err := ops.coerce(ctx, m.Params); err != nil {
		return nil, err
	}
	return m, nil
}

func methodCode(env typesystem.Env, op vm.Opcode, owner typesystem.Type, m *typesystem.Method) vm.Instruction {
	return vm.Member(op, typesystem.InternalName(env, owner), m.Name, typesystem.MethodDescriptor(env, m.Params, m.Return))
}

// NewNode creates an instance of Type with the constructor matching Args.
type NewNode struct {
	Type   typesystem.Type
	Params []typesystem.Type // optional explicit constructor signature
	Args   []Node
	err    error
}

// New creates an instance of t, passing args to the best matching constructor.
func New(t typesystem.Type, args ...Node) *NewNode {
	return NewWith(t, nil, args...)
}

// NewWith creates an instance of t through the constructor with the given
// parameter types.
func NewWith(t typesystem.Type, params []typesystem.Type, args ...Node) *NewNode {
	n := &NewNode{Type: t, Params: params, Args: args}
	switch {
	case t.IsZero():
		n.err = usagef("type to instantiate is required")
	case t.IsPrimitive() || t.IsVoid() || t.IsArray() || t.IsNull():
		n.err = usagef("cannot instantiate %s", t)
	default:
		n.err = argsError(typesystem.ConstructorRef(t, params...), args)
	}
	return n
}

func (n *NewNode) check() error { return checkAll(n.err, n.Args...) }

func (n *NewNode) Emit(ctx *build.Context) error {
	if n.err != nil {
		return n.err
	}
	def, err := typesystem.Lookup(ctx, n.Type)
	if err != nil {
		return err
	}
	if def.IsInterface() || def.Modifiers.IsAbstract() {
		return usagef("cannot instantiate abstract type %s", typesystem.DisplayName(ctx, n.Type))
	}
	owner := typesystem.InternalName(ctx, n.Type)
	if err := ctx.Emit(vm.TypeOp(vm.NEW, owner), vm.Simple(vm.DUP)); err != nil {
		return err
	}
	// The new reference and its duplicate.
	for i := 0; i < 2; i++ {
		if err := ctx.Push(n.Type); err != nil {
			return err
		}
	}
	ops, err := emitOperands(ctx, n.Args, argName("constructor of "+n.Type.String()))
	if err != nil {
		return err
	}
	ref := typesystem.ConstructorRef(n.Type, n.Params...)
	m, err := resolveMethod(ctx, ref, ops)
	if err != nil {
		return err
	}
	if err := ctx.Emit(methodCode(ctx, vm.INVOKESPECIAL, n.Type, m)); err != nil {
		return err
	}
	_, err = ctx.PopN(len(n.Args) + 1)
	return err
}

// SuperInitNode calls a constructor of the supertype on this. It is only
// valid inside a constructor.
type SuperInitNode struct {
	Params []typesystem.Type
	Args   []Node
	err    error
}

func SuperInit(args ...Node) *SuperInitNode {
	return SuperInitWith(nil, args...)
}

func SuperInitWith(params []typesystem.Type, args ...Node) *SuperInitNode {
	n := &SuperInitNode{Params: params, Args: args}
	n.err = argsError(typesystem.MethodRef{Name: "super", Params: params}, args)
	return n
}

func (n *SuperInitNode) check() error { return checkAll(n.err, n.Args...) }

func (n *SuperInitNode) Emit(ctx *build.Context) error {
	if n.err != nil {
		return n.err
	}
	m, err := ctx.Method()
	if err != nil {
		return err
	}
	if !m.IsConstructor() {
		return usagef("the supertype constructor can only be called from a constructor, not %s", m.Name)
	}
	super, ok, err := typesystem.Supertype(ctx, typesystem.Self)
	if err != nil {
		return err
	}
	if !ok {
		return usagef("%s has no supertype", typesystem.DisplayName(ctx, typesystem.Self))
	}
	if err := ctx.Emit(vm.Local(vm.ALOAD, 0)); err != nil {
		return err
	}
	if err := ctx.Push(typesystem.Self); err != nil {
		return err
	}
	ops, err := emitOperands(ctx, n.Args, argName("constructor of "+super.String()))
	if err != nil {
		return err
	}
	ref := typesystem.ConstructorRef(super, n.Params...)
	ctor, err := resolveMethod(ctx, ref, ops)
	if err != nil {
		return err
	}
	if err := ctx.Emit(methodCode(ctx, vm.INVOKESPECIAL, super, ctor)); err != nil {
		return err
	}
	_, err = ctx.PopN(len(n.Args) + 1)
	return err
}
