// Package vm describes the target runtime's instruction set and the method
// and class artifacts a build produces for the external class writer.
package vm

// Opcode is a single target instruction. Values match the runtime's own
// encoding so the class writer can emit them unchanged.
type Opcode byte

const (
	NOP         Opcode = 0x00
	ACONST_NULL Opcode = 0x01
	ICONST_M1   Opcode = 0x02
	ICONST_0    Opcode = 0x03
	ICONST_1    Opcode = 0x04
	ICONST_2    Opcode = 0x05
	ICONST_3    Opcode = 0x06
	ICONST_4    Opcode = 0x07
	ICONST_5    Opcode = 0x08
	LCONST_0    Opcode = 0x09
	LCONST_1    Opcode = 0x0a
	FCONST_0    Opcode = 0x0b
	FCONST_1    Opcode = 0x0c
	FCONST_2    Opcode = 0x0d
	DCONST_0    Opcode = 0x0e
	DCONST_1    Opcode = 0x0f
	BIPUSH      Opcode = 0x10 // Arg is the byte immediate
	SIPUSH      Opcode = 0x11 // Arg is the short immediate
	LDC         Opcode = 0x12 // Const holds the pooled value

	// Locals; Arg is the slot index
	ILOAD  Opcode = 0x15
	LLOAD  Opcode = 0x16
	FLOAD  Opcode = 0x17
	DLOAD  Opcode = 0x18
	ALOAD  Opcode = 0x19
	ISTORE Opcode = 0x36
	LSTORE Opcode = 0x37
	FSTORE Opcode = 0x38
	DSTORE Opcode = 0x39
	ASTORE Opcode = 0x3a

	// Stack
	POP    Opcode = 0x57
	POP2   Opcode = 0x58
	DUP    Opcode = 0x59
	DUP_X1 Opcode = 0x5a
	DUP2   Opcode = 0x5c
	SWAP   Opcode = 0x5f

	// Arithmetic
	IADD Opcode = 0x60
	LADD Opcode = 0x61
	FADD Opcode = 0x62
	DADD Opcode = 0x63
	ISUB Opcode = 0x64
	LSUB Opcode = 0x65
	FSUB Opcode = 0x66
	DSUB Opcode = 0x67
	IMUL Opcode = 0x68
	LMUL Opcode = 0x69
	FMUL Opcode = 0x6a
	DMUL Opcode = 0x6b
	IDIV Opcode = 0x6c
	LDIV Opcode = 0x6d
	FDIV Opcode = 0x6e
	DDIV Opcode = 0x6f
	IREM Opcode = 0x70
	LREM Opcode = 0x71
	FREM Opcode = 0x72
	DREM Opcode = 0x73
	INEG Opcode = 0x74
	LNEG Opcode = 0x75
	FNEG Opcode = 0x76
	DNEG Opcode = 0x77

	// Primitive conversions
	I2L Opcode = 0x85
	I2F Opcode = 0x86
	I2D Opcode = 0x87
	L2I Opcode = 0x88
	L2F Opcode = 0x89
	L2D Opcode = 0x8a
	F2I Opcode = 0x8b
	F2L Opcode = 0x8c
	F2D Opcode = 0x8d
	D2I Opcode = 0x8e
	D2L Opcode = 0x8f
	D2F Opcode = 0x90
	I2B Opcode = 0x91
	I2C Opcode = 0x92
	I2S Opcode = 0x93

	// Comparisons producing an int
	LCMP  Opcode = 0x94
	FCMPL Opcode = 0x95
	FCMPG Opcode = 0x96
	DCMPL Opcode = 0x97
	DCMPG Opcode = 0x98

	// Conditional jumps; targets are supplied by the external branch builder
	IFEQ      Opcode = 0x99
	IFNE      Opcode = 0x9a
	IFLT      Opcode = 0x9b
	IFGE      Opcode = 0x9c
	IFGT      Opcode = 0x9d
	IFLE      Opcode = 0x9e
	IF_ICMPEQ Opcode = 0x9f
	IF_ICMPNE Opcode = 0xa0
	IF_ICMPLT Opcode = 0xa1
	IF_ICMPGE Opcode = 0xa2
	IF_ICMPGT Opcode = 0xa3
	IF_ICMPLE Opcode = 0xa4
	IF_ACMPEQ Opcode = 0xa5
	IF_ACMPNE Opcode = 0xa6
	GOTO      Opcode = 0xa7

	// Returns
	IRETURN Opcode = 0xac
	LRETURN Opcode = 0xad
	FRETURN Opcode = 0xae
	DRETURN Opcode = 0xaf
	ARETURN Opcode = 0xb0
	RETURN  Opcode = 0xb1

	// Members; Owner, Name and Desc identify the member
	GETSTATIC       Opcode = 0xb2
	PUTSTATIC       Opcode = 0xb3
	GETFIELD        Opcode = 0xb4
	PUTFIELD        Opcode = 0xb5
	INVOKEVIRTUAL   Opcode = 0xb6
	INVOKESPECIAL   Opcode = 0xb7
	INVOKESTATIC    Opcode = 0xb8
	INVOKEINTERFACE Opcode = 0xb9

	// Types; Owner is the internal class name
	NEW       Opcode = 0xbb
	CHECKCAST Opcode = 0xc0
	IFNULL    Opcode = 0xc6
	IFNONNULL Opcode = 0xc7
)

// OpcodeNames maps opcodes to their mnemonics.
var OpcodeNames = map[Opcode]string{
	NOP: "NOP", ACONST_NULL: "ACONST_NULL",
	ICONST_M1: "ICONST_M1", ICONST_0: "ICONST_0", ICONST_1: "ICONST_1", ICONST_2: "ICONST_2",
	ICONST_3: "ICONST_3", ICONST_4: "ICONST_4", ICONST_5: "ICONST_5",
	LCONST_0: "LCONST_0", LCONST_1: "LCONST_1",
	FCONST_0: "FCONST_0", FCONST_1: "FCONST_1", FCONST_2: "FCONST_2",
	DCONST_0: "DCONST_0", DCONST_1: "DCONST_1",
	BIPUSH: "BIPUSH", SIPUSH: "SIPUSH", LDC: "LDC",

	ILOAD: "ILOAD", LLOAD: "LLOAD", FLOAD: "FLOAD", DLOAD: "DLOAD", ALOAD: "ALOAD",
	ISTORE: "ISTORE", LSTORE: "LSTORE", FSTORE: "FSTORE", DSTORE: "DSTORE", ASTORE: "ASTORE",

	POP: "POP", POP2: "POP2", DUP: "DUP", DUP_X1: "DUP_X1", DUP2: "DUP2", SWAP: "SWAP",

	IADD: "IADD", LADD: "LADD", FADD: "FADD", DADD: "DADD",
	ISUB: "ISUB", LSUB: "LSUB", FSUB: "FSUB", DSUB: "DSUB",
	IMUL: "IMUL", LMUL: "LMUL", FMUL: "FMUL", DMUL: "DMUL",
	IDIV: "IDIV", LDIV: "LDIV", FDIV: "FDIV", DDIV: "DDIV",
	IREM: "IREM", LREM: "LREM", FREM: "FREM", DREM: "DREM",
	INEG: "INEG", LNEG: "LNEG", FNEG: "FNEG", DNEG: "DNEG",

	I2L: "I2L", I2F: "I2F", I2D: "I2D",
	L2I: "L2I", L2F: "L2F", L2D: "L2D",
	F2I: "F2I", F2L: "F2L", F2D: "F2D",
	D2I: "D2I", D2L: "D2L", D2F: "D2F",
	I2B: "I2B", I2C: "I2C", I2S: "I2S",

	LCMP: "LCMP", FCMPL: "FCMPL", FCMPG: "FCMPG", DCMPL: "DCMPL", DCMPG: "DCMPG",

	IFEQ: "IFEQ", IFNE: "IFNE", IFLT: "IFLT", IFGE: "IFGE", IFGT: "IFGT", IFLE: "IFLE",
	IF_ICMPEQ: "IF_ICMPEQ", IF_ICMPNE: "IF_ICMPNE", IF_ICMPLT: "IF_ICMPLT",
	IF_ICMPGE: "IF_ICMPGE", IF_ICMPGT: "IF_ICMPGT", IF_ICMPLE: "IF_ICMPLE",
	IF_ACMPEQ: "IF_ACMPEQ", IF_ACMPNE: "IF_ACMPNE", GOTO: "GOTO",

	IRETURN: "IRETURN", LRETURN: "LRETURN", FRETURN: "FRETURN",
	DRETURN: "DRETURN", ARETURN: "ARETURN", RETURN: "RETURN",

	GETSTATIC: "GETSTATIC", PUTSTATIC: "PUTSTATIC", GETFIELD: "GETFIELD", PUTFIELD: "PUTFIELD",
	INVOKEVIRTUAL: "INVOKEVIRTUAL", INVOKESPECIAL: "INVOKESPECIAL",
	INVOKESTATIC: "INVOKESTATIC", INVOKEINTERFACE: "INVOKEINTERFACE",

	NEW: "NEW", CHECKCAST: "CHECKCAST", IFNULL: "IFNULL", IFNONNULL: "IFNONNULL",
}

func (op Opcode) String() string {
	if name, ok := OpcodeNames[op]; ok {
		return name
	}
	return "UNKNOWN"
}

// IsJump reports whether op transfers control to a branch target.
func (op Opcode) IsJump() bool {
	return (op >= IFEQ && op <= GOTO) || op == IFNULL || op == IFNONNULL
}

// IsMember reports whether op refers to a field or method by owner, name and descriptor.
func (op Opcode) IsMember() bool {
	return op >= GETSTATIC && op <= INVOKEINTERFACE
}

// IsType reports whether op takes a class name operand.
func (op Opcode) IsType() bool {
	return op == NEW || op == CHECKCAST
}

// IsLocal reports whether op reads or writes a local slot.
func (op Opcode) IsLocal() bool {
	return (op >= ILOAD && op <= ALOAD) || (op >= ISTORE && op <= ASTORE)
}

var negatedJumps = map[Opcode]Opcode{
	IFEQ: IFNE, IFNE: IFEQ,
	IFLT: IFGE, IFGE: IFLT,
	IFGT: IFLE, IFLE: IFGT,
	IF_ICMPEQ: IF_ICMPNE, IF_ICMPNE: IF_ICMPEQ,
	IF_ICMPLT: IF_ICMPGE, IF_ICMPGE: IF_ICMPLT,
	IF_ICMPGT: IF_ICMPLE, IF_ICMPLE: IF_ICMPGT,
	IF_ACMPEQ: IF_ACMPNE, IF_ACMPNE: IF_ACMPEQ,
	IFNULL: IFNONNULL, IFNONNULL: IFNULL,
}

// Negate returns the conditional jump taken exactly when op is not. Branch
// builders use it to invert the jump of a compiled condition test.
func (op Opcode) Negate() (Opcode, bool) {
	n, ok := negatedJumps[op]
	return n, ok
}
