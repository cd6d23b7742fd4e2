package codegen

import (
	"math"

	"github.com/cshunsinger/AsmSauceCore-sub000/internal/build"
	"github.com/cshunsinger/AsmSauceCore-sub000/internal/config"
	"github.com/cshunsinger/AsmSauceCore-sub000/internal/typesystem"
	"github.com/cshunsinger/AsmSauceCore-sub000/internal/vm"
)

// ConstNode pushes a constant.
type ConstNode struct {
	Type  typesystem.Type
	Value any // int32, int64, float32, float64, string, bool or nil
}

func Int(v int32) *ConstNode      { return &ConstNode{Type: typesystem.Int, Value: v} }
func Long(v int64) *ConstNode     { return &ConstNode{Type: typesystem.Long, Value: v} }
func Float(v float32) *ConstNode  { return &ConstNode{Type: typesystem.Float, Value: v} }
func Double(v float64) *ConstNode { return &ConstNode{Type: typesystem.Double, Value: v} }
func String(v string) *ConstNode  { return &ConstNode{Type: typesystem.String, Value: v} }
func Bool(v bool) *ConstNode      { return &ConstNode{Type: typesystem.Boolean, Value: v} }
func Null() *ConstNode            { return &ConstNode{Type: typesystem.Null} }

func (n *ConstNode) check() error { return nil }

func (n *ConstNode) Emit(ctx *build.Context) error {
	if err := ctx.Emit(constCode(n.Value)); err != nil {
		return err
	}
	return ctx.Push(n.Type)
}

// constCode picks the shortest instruction loading v.
func constCode(v any) vm.Instruction {
	switch v := v.(type) {
	case nil:
		return vm.Simple(vm.ACONST_NULL)
	case bool:
		if v {
			return vm.Simple(vm.ICONST_1)
		}
		return vm.Simple(vm.ICONST_0)
	case int32:
		switch {
		case v >= -1 && v <= 5:
			return vm.Simple(vm.ICONST_M1 + vm.Opcode(v+1))
		case v >= math.MinInt8 && v <= math.MaxInt8:
			return vm.Instruction{Op: vm.BIPUSH, Arg: int(v)}
		case v >= math.MinInt16 && v <= math.MaxInt16:
			return vm.Instruction{Op: vm.SIPUSH, Arg: int(v)}
		}
	case int64:
		if v == 0 || v == 1 {
			return vm.Simple(vm.LCONST_0 + vm.Opcode(v))
		}
	case float32:
		if (v == 0 || v == 1 || v == 2) && !math.Signbit(float64(v)) {
			return vm.Simple(vm.FCONST_0 + vm.Opcode(v))
		}
	case float64:
		if (v == 0 || v == 1) && !math.Signbit(v) {
			return vm.Simple(vm.DCONST_0 + vm.Opcode(v))
		}
	}
	return vm.Constant(v)
}

// ThisNode pushes the instance the method runs on.
type ThisNode struct{}

func This() *ThisNode { return &ThisNode{} }

func (n *ThisNode) check() error { return nil }

func (n *ThisNode) Emit(ctx *build.Context) error {
	m, err := ctx.Method()
	if err != nil {
		return err
	}
	if m.IsStatic() {
		return usagef("%s is static and has no %s", m.Name, config.ThisLocalName)
	}
	if err := ctx.Emit(vm.Local(vm.ALOAD, 0)); err != nil {
		return err
	}
	return ctx.Push(typesystem.Self)
}

// LocalNode pushes the value of a named local.
type LocalNode struct {
	Name string
	err  error
}

func Local(name string) *LocalNode {
	n := &LocalNode{Name: name}
	if name == "" {
		n.err = usagef("local name is required")
	}
	return n
}

func (n *LocalNode) check() error { return n.err }

func (n *LocalNode) Emit(ctx *build.Context) error {
	if n.err != nil {
		return n.err
	}
	index, err := ctx.LocalIndex(n.Name)
	if err != nil {
		return err
	}
	t, err := ctx.LocalType(index)
	if err != nil {
		return err
	}
	if err := ctx.Emit(vm.Local(loadOp(t), index)); err != nil {
		return err
	}
	return ctx.Push(t)
}

// AssignNode stores a value into an existing local, converting it to the
// local's type.
type AssignNode struct {
	Name  string
	Value Node
	err   error
}

func Assign(name string, value Node) *AssignNode {
	n := &AssignNode{Name: name, Value: value}
	if name == "" {
		n.err = usagef("local name is required")
	} else {
		n.err = requireNodes("assigned value", value)
	}
	return n
}

func (n *AssignNode) check() error { return checkAll(n.err, n.Value) }

func (n *AssignNode) Emit(ctx *build.Context) error {
	if n.err != nil {
		return n.err
	}
	index, err := ctx.LocalIndex(n.Name)
	if err != nil {
		return err
	}
	t, err := ctx.LocalType(index)
	if err != nil {
		return err
	}
	return storeLocal(ctx, n.Value, index, t, "value assigned to "+n.Name)
}

func storeLocal(ctx *build.Context, value Node, index int, t typesystem.Type, who string) error {
	if _, err := emitValue(ctx, value, who); err != nil {
		return err
	}
	if err := convertTop(ctx, t, false); err != nil {
		return err
	}
	if err := ctx.Emit(vm.Local(storeOp(t), index)); err != nil {
		return err
	}
	_, err := ctx.Pop()
	return err
}

// DeclareNode adds a named local in the current scope, optionally
// initialised. Without an explicit type the local takes the type of its
// initial value.
type DeclareNode struct {
	Name  string
	Type  typesystem.Type
	Value Node
	err   error
}

func Declare(name string, t typesystem.Type, value Node) *DeclareNode {
	n := &DeclareNode{Name: name, Type: t, Value: value}
	switch {
	case name == "":
		n.err = usagef("local name is required")
	case t.IsVoid():
		n.err = usagef("local %s cannot be void", name)
	case t.IsZero() && value == nil:
		n.err = usagef("local %s needs a type or an initial value", name)
	}
	return n
}

func (n *DeclareNode) check() error { return checkAll(n.err, n.Value) }

func (n *DeclareNode) Emit(ctx *build.Context) error {
	if n.err != nil {
		return n.err
	}
	t := n.Type
	if n.Value == nil {
		_, err := ctx.AddLocal(n.Name, t)
		return err
	}
	if t.IsZero() {
		// Emit the value first to learn its type, then store it.
		vt, err := emitValue(ctx, n.Value, "initial value of "+n.Name)
		if err != nil {
			return err
		}
		if vt.IsNull() {
			return usagef("cannot infer the type of %s from null", n.Name)
		}
		index, err := ctx.AddLocal(n.Name, vt)
		if err != nil {
			return err
		}
		if err := ctx.Emit(vm.Local(storeOp(vt), index)); err != nil {
			return err
		}
		_, err = ctx.Pop()
		return err
	}
	index, err := ctx.AddLocal(n.Name, t)
	if err != nil {
		return err
	}
	return storeLocal(ctx, n.Value, index, t, "initial value of "+n.Name)
}

// PopNode discards a value. With no value builder it discards the current
// top of the operand stack.
type PopNode struct {
	Value Node
}

func Pop(value Node) *PopNode { return &PopNode{Value: value} }

func (n *PopNode) check() error { return checkAll(nil, n.Value) }

func (n *PopNode) Emit(ctx *build.Context) error {
	if n.Value != nil {
		if _, err := emitValue(ctx, n.Value, "discarded value"); err != nil {
			return err
		}
	}
	t, err := ctx.Pop()
	if err != nil {
		return err
	}
	return ctx.Emit(vm.Simple(popOp(t)))
}

// ReturnNode returns from the method, converting the value to the declared
// return type. Void methods return without a value.
type ReturnNode struct {
	Value Node
}

func Return(value Node) *ReturnNode { return &ReturnNode{Value: value} }

func (n *ReturnNode) check() error { return checkAll(nil, n.Value) }

func (n *ReturnNode) Emit(ctx *build.Context) error {
	m, err := ctx.Method()
	if err != nil {
		return err
	}
	if m.Return.IsVoid() || m.IsConstructor() {
		if n.Value != nil {
			return usagef("%s returns void but a value was given", m.Name)
		}
		return ctx.Emit(vm.Simple(vm.RETURN))
	}
	if n.Value == nil {
		return usagef("%s must return a %s", m.Name, m.Return)
	}
	if _, err := emitValue(ctx, n.Value, "returned value of "+m.Name); err != nil {
		return err
	}
	if err := convertTop(ctx, m.Return, false); err != nil {
		return err
	}
	if err := ctx.Emit(vm.Simple(returnOp(m.Return))); err != nil {
		return err
	}
	_, err = ctx.Pop()
	return err
}

// BlockNode emits statements inside their own lexical scope for locals.
type BlockNode struct {
	Body []Node
	err  error
}

func Block(body ...Node) *BlockNode {
	return &BlockNode{Body: body, err: requireNodes("statement", body...)}
}

func (n *BlockNode) check() error { return checkAll(n.err, n.Body...) }

func (n *BlockNode) Emit(ctx *build.Context) error {
	if n.err != nil {
		return n.err
	}
	if err := ctx.BeginScope(); err != nil {
		return err
	}
	for _, s := range n.Body {
		if err := s.Emit(ctx); err != nil {
			return err
		}
	}
	return ctx.EndScope()
}
