package vm

import (
	"fmt"
	"math"

	"google.golang.org/protobuf/encoding/protowire"
)

// Wire field numbers. The layout is a plain protobuf message so the class
// writer on the other side can decode it with generated code.
const (
	classBuildID    protowire.Number = 1
	className       protowire.Number = 2
	classSuper      protowire.Number = 3
	classInterfaces protowire.Number = 4
	classModifiers  protowire.Number = 5
	classFields     protowire.Number = 6
	classMethods    protowire.Number = 7

	fieldName      protowire.Number = 1
	fieldDesc      protowire.Number = 2
	fieldModifiers protowire.Number = 3

	methodName      protowire.Number = 1
	methodDesc      protowire.Number = 2
	methodModifiers protowire.Number = 3
	methodMaxStack  protowire.Number = 4
	methodMaxLocals protowire.Number = 5
	methodCode      protowire.Number = 6
	methodLocals    protowire.Number = 7
	methodStack     protowire.Number = 8

	insnOp          protowire.Number = 1
	insnArg         protowire.Number = 2
	insnOwner       protowire.Number = 3
	insnName        protowire.Number = 4
	insnDesc        protowire.Number = 5
	insnConstInt    protowire.Number = 6
	insnConstLong   protowire.Number = 7
	insnConstFloat  protowire.Number = 8
	insnConstDouble protowire.Number = 9
	insnConstString protowire.Number = 10
)

// MarshalWire encodes the class artifact in protobuf wire format.
func (c *Class) MarshalWire() ([]byte, error) {
	var b []byte
	b = appendString(b, classBuildID, c.BuildID)
	b = appendString(b, className, c.Name)
	b = appendString(b, classSuper, c.Super)
	for _, iface := range c.Interfaces {
		b = protowire.AppendTag(b, classInterfaces, protowire.BytesType)
		b = protowire.AppendString(b, iface)
	}
	b = appendVarint(b, classModifiers, uint64(c.Modifiers))

	for _, f := range c.Fields {
		var fb []byte
		fb = appendString(fb, fieldName, f.Name)
		fb = appendString(fb, fieldDesc, f.Desc)
		fb = appendVarint(fb, fieldModifiers, uint64(f.Modifiers))
		b = protowire.AppendTag(b, classFields, protowire.BytesType)
		b = protowire.AppendBytes(b, fb)
	}
	for _, m := range c.Methods {
		mb, err := marshalMethod(m)
		if err != nil {
			return nil, fmt.Errorf("encoding method %s%s: %w", m.Name, m.Desc, err)
		}
		b = protowire.AppendTag(b, classMethods, protowire.BytesType)
		b = protowire.AppendBytes(b, mb)
	}
	return b, nil
}

func marshalMethod(m *Method) ([]byte, error) {
	var b []byte
	b = appendString(b, methodName, m.Name)
	b = appendString(b, methodDesc, m.Desc)
	b = appendVarint(b, methodModifiers, uint64(m.Modifiers))
	b = appendVarint(b, methodMaxStack, uint64(m.MaxStack))
	b = appendVarint(b, methodMaxLocals, uint64(m.MaxLocals))
	if m.Code != nil {
		for i, in := range m.Code.Code {
			ib, err := marshalInstruction(in)
			if err != nil {
				return nil, fmt.Errorf("instruction %d: %w", i, err)
			}
			b = protowire.AppendTag(b, methodCode, protowire.BytesType)
			b = protowire.AppendBytes(b, ib)
		}
	}
	for _, l := range m.Locals {
		b = protowire.AppendTag(b, methodLocals, protowire.BytesType)
		b = protowire.AppendString(b, l)
	}
	for _, s := range m.Stack {
		b = protowire.AppendTag(b, methodStack, protowire.BytesType)
		b = protowire.AppendString(b, s)
	}
	return b, nil
}

func marshalInstruction(in Instruction) ([]byte, error) {
	var b []byte
	b = protowire.AppendTag(b, insnOp, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(in.Op))
	if in.Arg != 0 {
		b = protowire.AppendTag(b, insnArg, protowire.VarintType)
		b = protowire.AppendVarint(b, protowire.EncodeZigZag(int64(in.Arg)))
	}
	b = appendString(b, insnOwner, in.Owner)
	b = appendString(b, insnName, in.Name)
	b = appendString(b, insnDesc, in.Desc)

	switch v := in.Const.(type) {
	case nil:
	case int32:
		b = protowire.AppendTag(b, insnConstInt, protowire.VarintType)
		b = protowire.AppendVarint(b, protowire.EncodeZigZag(int64(v)))
	case int64:
		b = protowire.AppendTag(b, insnConstLong, protowire.VarintType)
		b = protowire.AppendVarint(b, protowire.EncodeZigZag(v))
	case float32:
		b = protowire.AppendTag(b, insnConstFloat, protowire.Fixed32Type)
		b = protowire.AppendFixed32(b, math.Float32bits(v))
	case float64:
		b = protowire.AppendTag(b, insnConstDouble, protowire.Fixed64Type)
		b = protowire.AppendFixed64(b, math.Float64bits(v))
	case string:
		b = protowire.AppendTag(b, insnConstString, protowire.BytesType)
		b = protowire.AppendString(b, v)
	default:
		return nil, fmt.Errorf("unsupported constant type %T", in.Const)
	}
	return b, nil
}

func appendString(b []byte, num protowire.Number, s string) []byte {
	if s == "" {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, s)
}

func appendVarint(b []byte, num protowire.Number, v uint64) []byte {
	if v == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, v)
}

// UnmarshalClass decodes a class artifact written by MarshalWire. Unknown
// fields are skipped.
func UnmarshalClass(data []byte) (*Class, error) {
	c := &Class{}
	err := walk(data, func(num protowire.Number, r *reader) {
		switch num {
		case classBuildID:
			c.BuildID = r.str()
		case className:
			c.Name = r.str()
		case classSuper:
			c.Super = r.str()
		case classInterfaces:
			c.Interfaces = append(c.Interfaces, r.str())
		case classModifiers:
			c.Modifiers = uint16(r.varint())
		case classFields:
			var f Field
			r.message(func(num protowire.Number, r *reader) {
				switch num {
				case fieldName:
					f.Name = r.str()
				case fieldDesc:
					f.Desc = r.str()
				case fieldModifiers:
					f.Modifiers = uint16(r.varint())
				default:
					r.skip()
				}
			})
			c.Fields = append(c.Fields, f)
		case classMethods:
			m := &Method{Code: NewChunk()}
			r.message(func(num protowire.Number, r *reader) { readMethod(m, num, r) })
			c.Methods = append(c.Methods, m)
		default:
			r.skip()
		}
	})
	if err != nil {
		return nil, fmt.Errorf("decoding class: %w", err)
	}
	return c, nil
}

func readMethod(m *Method, num protowire.Number, r *reader) {
	switch num {
	case methodName:
		m.Name = r.str()
	case methodDesc:
		m.Desc = r.str()
	case methodModifiers:
		m.Modifiers = uint16(r.varint())
	case methodMaxStack:
		m.MaxStack = int(r.varint())
	case methodMaxLocals:
		m.MaxLocals = int(r.varint())
	case methodCode:
		var in Instruction
		r.message(func(num protowire.Number, r *reader) { readInstruction(&in, num, r) })
		m.Code.Write(in)
	case methodLocals:
		m.Locals = append(m.Locals, r.str())
	case methodStack:
		m.Stack = append(m.Stack, r.str())
	default:
		r.skip()
	}
}

func readInstruction(in *Instruction, num protowire.Number, r *reader) {
	switch num {
	case insnOp:
		in.Op = Opcode(r.varint())
	case insnArg:
		in.Arg = int(protowire.DecodeZigZag(r.varint()))
	case insnOwner:
		in.Owner = r.str()
	case insnName:
		in.Name = r.str()
	case insnDesc:
		in.Desc = r.str()
	case insnConstInt:
		in.Const = int32(protowire.DecodeZigZag(r.varint()))
	case insnConstLong:
		in.Const = protowire.DecodeZigZag(r.varint())
	case insnConstFloat:
		in.Const = math.Float32frombits(r.fixed32())
	case insnConstDouble:
		in.Const = math.Float64frombits(r.fixed64())
	case insnConstString:
		in.Const = r.str()
	default:
		r.skip()
	}
}

// reader consumes one field value at a time. The first error sticks and
// turns every later read into a no-op.
type reader struct {
	b   []byte
	typ protowire.Type
	num protowire.Number
	err error
}

func walk(data []byte, fn func(protowire.Number, *reader)) error {
	r := &reader{b: data}
	for len(r.b) > 0 && r.err == nil {
		num, typ, n := protowire.ConsumeTag(r.b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		r.b, r.num, r.typ = r.b[n:], num, typ
		fn(num, r)
	}
	return r.err
}

func (r *reader) expect(typ protowire.Type) bool {
	if r.err != nil {
		return false
	}
	if r.typ != typ {
		r.err = fmt.Errorf("field %d has wire type %d, want %d", r.num, r.typ, typ)
		return false
	}
	return true
}

func (r *reader) advance(n int) bool {
	if n < 0 {
		r.err = protowire.ParseError(n)
		return false
	}
	r.b = r.b[n:]
	return true
}

func (r *reader) str() string {
	if !r.expect(protowire.BytesType) {
		return ""
	}
	s, n := protowire.ConsumeString(r.b)
	if !r.advance(n) {
		return ""
	}
	return s
}

func (r *reader) varint() uint64 {
	if !r.expect(protowire.VarintType) {
		return 0
	}
	v, n := protowire.ConsumeVarint(r.b)
	if !r.advance(n) {
		return 0
	}
	return v
}

func (r *reader) fixed32() uint32 {
	if !r.expect(protowire.Fixed32Type) {
		return 0
	}
	v, n := protowire.ConsumeFixed32(r.b)
	if !r.advance(n) {
		return 0
	}
	return v
}

func (r *reader) fixed64() uint64 {
	if !r.expect(protowire.Fixed64Type) {
		return 0
	}
	v, n := protowire.ConsumeFixed64(r.b)
	if !r.advance(n) {
		return 0
	}
	return v
}

func (r *reader) message(fn func(protowire.Number, *reader)) {
	if !r.expect(protowire.BytesType) {
		return
	}
	body, n := protowire.ConsumeBytes(r.b)
	if !r.advance(n) {
		return
	}
	if err := walk(body, fn); err != nil {
		r.err = err
	}
}

func (r *reader) skip() {
	if r.err != nil {
		return
	}
	r.advance(protowire.ConsumeFieldValue(r.num, r.typ, r.b))
}
