package vm

import (
	"fmt"
	"strings"
)

// Instruction is one target instruction with its operands. Which operand
// fields are meaningful depends on Op.
type Instruction struct {
	Op Opcode

	// Arg is the local slot index or the BIPUSH/SIPUSH immediate.
	Arg int

	// Const is the LDC operand: int32, int64, float32, float64 or string.
	Const any

	// Owner is the internal class name of member and type instructions.
	Owner string
	Name  string
	Desc  string
}

// Simple returns an instruction without operands.
func Simple(op Opcode) Instruction { return Instruction{Op: op} }

// Local returns a load or store of slot index.
func Local(op Opcode, index int) Instruction { return Instruction{Op: op, Arg: index} }

// Member returns a field access or invocation.
func Member(op Opcode, owner, name, desc string) Instruction {
	return Instruction{Op: op, Owner: owner, Name: name, Desc: desc}
}

// TypeOp returns NEW or CHECKCAST of the named class.
func TypeOp(op Opcode, owner string) Instruction { return Instruction{Op: op, Owner: owner} }

// Constant returns an LDC of value.
func Constant(value any) Instruction { return Instruction{Op: LDC, Const: value} }

func (in Instruction) String() string {
	switch {
	case in.Op == BIPUSH || in.Op == SIPUSH || in.Op.IsLocal():
		return fmt.Sprintf("%s %d", in.Op, in.Arg)
	case in.Op == LDC:
		if s, ok := in.Const.(string); ok {
			return fmt.Sprintf("LDC %q", s)
		}
		return fmt.Sprintf("LDC %v", in.Const)
	case in.Op.IsMember():
		return fmt.Sprintf("%s %s.%s %s", in.Op, in.Owner, in.Name, in.Desc)
	case in.Op.IsType():
		return fmt.Sprintf("%s %s", in.Op, in.Owner)
	default:
		return in.Op.String()
	}
}

// Chunk is the instruction stream of one method body.
type Chunk struct {
	Code []Instruction
}

// NewChunk creates a new empty chunk
func NewChunk() *Chunk {
	return &Chunk{Code: make([]Instruction, 0, 64)}
}

// Write appends instructions.
func (c *Chunk) Write(code ...Instruction) {
	c.Code = append(c.Code, code...)
}

// Len returns the number of instructions in the chunk
func (c *Chunk) Len() int {
	return len(c.Code)
}

// Cut removes and returns every instruction from position from onward.
func (c *Chunk) Cut(from int) []Instruction {
	if from < 0 || from > len(c.Code) {
		panic(fmt.Sprintf("vm: cut position %d out of range [0, %d]", from, len(c.Code)))
	}
	tail := append([]Instruction(nil), c.Code[from:]...)
	c.Code = c.Code[:from]
	return tail
}

// Splice replaces every instruction from position from onward with code.
func (c *Chunk) Splice(from int, code []Instruction) {
	c.Cut(from)
	c.Write(code...)
}

// String lists one instruction per line.
func (c *Chunk) String() string {
	var sb strings.Builder
	for i, in := range c.Code {
		fmt.Fprintf(&sb, "%04d %s\n", i, in)
	}
	return sb.String()
}
