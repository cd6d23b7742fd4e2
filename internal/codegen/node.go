// Package codegen turns trees of instruction nodes into target instructions
// against a build.Context, inserting the conversions and member resolutions
// the nodes leave implicit.
package codegen

import (
	"fmt"

	"github.com/cshunsinger/AsmSauceCore-sub000/internal/build"
	"github.com/cshunsinger/AsmSauceCore-sub000/internal/typesystem"
	"github.com/cshunsinger/AsmSauceCore-sub000/internal/vm"
)

// Node is one instruction builder. The set of nodes is closed: every
// implementation lives in this package.
//
// Emit appends the node's instructions to the method being generated and
// updates the context's operand stack and locals to match.
type Node interface {
	Emit(ctx *build.Context) error

	// check returns the first usage error recorded while the node or any
	// node below it was constructed.
	check() error
}

// Validate reports the first construction error in the tree rooted at n.
// Builds call it before emitting anything, so malformed input fails before
// any instruction is generated.
func Validate(n Node) error {
	if n == nil {
		return typesystem.NewUsageError("node is required")
	}
	return n.check()
}

func usagef(format string, args ...any) error {
	return typesystem.NewUsageError(fmt.Sprintf(format, args...))
}

// checkAll returns err or the first construction error among nodes.
func checkAll(err error, nodes ...Node) error {
	if err != nil {
		return err
	}
	for _, n := range nodes {
		if n == nil {
			continue
		}
		if err := n.check(); err != nil {
			return err
		}
	}
	return nil
}

// requireNodes records a usage error for every missing required builder.
func requireNodes(what string, nodes ...Node) error {
	for i, n := range nodes {
		if n == nil {
			if len(nodes) == 1 {
				return usagef("%s is required", what)
			}
			return usagef("%s %d is required", what, i+1)
		}
	}
	return nil
}

// emitValue emits n and checks that it added exactly one operand stack entry.
func emitValue(ctx *build.Context, n Node, who string) (typesystem.Type, error) {
	before, err := ctx.StackSize()
	if err != nil {
		return typesystem.Type{}, err
	}
	if err := n.Emit(ctx); err != nil {
		return typesystem.Type{}, err
	}
	after, err := ctx.StackSize()
	if err != nil {
		return typesystem.Type{}, err
	}
	if after-before != 1 {
		return typesystem.Type{}, typesystem.NewStackContractViolation(who, 1, after-before)
	}
	return ctx.Peek()
}

// operands records where each of a run of emitted values starts on the
// operand stack and ends in the instruction stream, so conversions can be
// spliced in behind each of them once the target types are known.
type operands struct {
	base  int   // stack position of the first value
	ends  []int // instruction position after each value
	types []typesystem.Type
}

func emitOperands(ctx *build.Context, nodes []Node, who func(i int) string) (*operands, error) {
	base, err := ctx.StackSize()
	if err != nil {
		return nil, err
	}
	ops := &operands{base: base}
	for i, n := range nodes {
		t, err := emitValue(ctx, n, who(i))
		if err != nil {
			return nil, err
		}
		end, err := ctx.CodeLen()
		if err != nil {
			return nil, err
		}
		ops.ends = append(ops.ends, end)
		ops.types = append(ops.types, t)
	}
	return ops, nil
}

// coerce converts every operand to the matching target type, splicing each
// conversion directly after the code of its operand.
func (ops *operands) coerce(ctx *build.Context, targets []typesystem.Type) error {
	return ops.convert(ctx, func(i int, from typesystem.Type) ([]vm.Instruction, typesystem.Type, error) {
		code, err := ConversionCode(ctx, from, targets[i], false)
		return code, targets[i], err
	})
}

// convert splices the code fn returns for each operand directly after the
// code of that operand and retypes its stack entry.
func (ops *operands) convert(ctx *build.Context, fn func(i int, from typesystem.Type) ([]vm.Instruction, typesystem.Type, error)) error {
	if len(ops.ends) == 0 {
		return nil
	}
	from := ops.ends[0]
	tail, err := ctx.Cut(from)
	if err != nil {
		return err
	}
	var code []vm.Instruction
	prev := from
	for i, end := range ops.ends {
		code = append(code, tail[prev-from:end-from]...)
		prev = end
		conv, to, err := fn(i, ops.types[i])
		if err != nil {
			return err
		}
		code = append(code, conv...)
		if !typesystem.SameType(ctx, ops.types[i], to) {
			if err := ctx.SetStackAt(ops.base+i, to); err != nil {
				return err
			}
			ops.types[i] = to
		}
	}
	code = append(code, tail[prev-from:]...)
	return ctx.Splice(from, code)
}

// slotOffset selects the typed variant of an instruction family laid out
// int, long, float, double, reference.
func slotOffset(t typesystem.Type) vm.Opcode {
	switch typesystem.StackCategory(t) {
	case typesystem.Int:
		return 0
	case typesystem.Long:
		return 1
	case typesystem.Float:
		return 2
	case typesystem.Double:
		return 3
	default:
		return 4
	}
}

func loadOp(t typesystem.Type) vm.Opcode   { return vm.ILOAD + slotOffset(t) }
func storeOp(t typesystem.Type) vm.Opcode  { return vm.ISTORE + slotOffset(t) }
func returnOp(t typesystem.Type) vm.Opcode { return vm.IRETURN + slotOffset(t) }

func popOp(t typesystem.Type) vm.Opcode {
	if t.IsWide() {
		return vm.POP2
	}
	return vm.POP
}
