package build

import (
	"fmt"

	"github.com/cshunsinger/AsmSauceCore-sub000/internal/config"
	"github.com/cshunsinger/AsmSauceCore-sub000/internal/typesystem"
	"github.com/cshunsinger/AsmSauceCore-sub000/internal/vm"
)

// methodScope is the state of the method currently being generated.
type methodScope struct {
	sig  *typesystem.Method
	code *vm.Chunk

	stack     []typesystem.Type
	stackSize int // in slots
	maxStack  int

	// slots holds one entry per local slot; the upper half of a wide local
	// is the zero Type.
	slots     []typesystem.Type
	names     map[string]int
	scopes    []scopeMark
	maxLocals int
}

type scopeMark struct {
	slots int
	names map[string]int
}

// BeginMethod opens the method scope for sig. Instance methods and
// constructors start with "this" in slot 0; parameters follow in order,
// named by paramNames where given.
func (c *Context) BeginMethod(sig *typesystem.Method, paramNames ...string) error {
	if err := c.requireActive(); err != nil {
		return err
	}
	if sig == nil {
		return typesystem.NewUsageError("method description is required")
	}
	if c.method != nil {
		return typesystem.NewUsageError(fmt.Sprintf("method %s is still being generated", c.method.sig.Name))
	}
	if len(paramNames) > len(sig.Params) {
		return typesystem.NewUsageError(fmt.Sprintf("%d parameter names given for %d parameters of %s", len(paramNames), len(sig.Params), sig.Name))
	}
	c.method = &methodScope{
		sig:   sig,
		code:  vm.NewChunk(),
		names: make(map[string]int),
	}
	c.Tracef("method %s%s", sig.Name, typesystem.TypeList(sig.Params))

	if !sig.IsStatic() {
		if _, err := c.AddLocal(config.ThisLocalName, typesystem.Self); err != nil {
			return err
		}
	}
	for i, p := range sig.Params {
		name := ""
		if i < len(paramNames) {
			name = paramNames[i]
		}
		if _, err := c.AddLocal(name, p); err != nil {
			return err
		}
	}
	return nil
}

// Method returns the signature of the method being generated.
func (c *Context) Method() (*typesystem.Method, error) {
	m, err := c.requireMethod()
	if err != nil {
		return nil, err
	}
	return m.sig, nil
}

// EndMethod closes the method scope and records its artifact.
func (c *Context) EndMethod() (*vm.Method, error) {
	m, err := c.requireMethod()
	if err != nil {
		return nil, err
	}
	c.method = nil

	if m.sig.IsAbstract() || m.sig.Modifiers.Has(typesystem.Native) {
		if m.code.Len() > 0 {
			return nil, typesystem.NewUsageError(fmt.Sprintf("method %s cannot have a body", m.sig.Name))
		}
		m.code = nil
	}

	out := &vm.Method{
		Name:      m.sig.Name,
		Desc:      typesystem.MethodDescriptor(c, m.sig.Params, m.sig.Return),
		Modifiers: uint16(m.sig.Modifiers),
		Code:      m.code,
		MaxStack:  m.maxStack,
		MaxLocals: m.maxLocals,
	}
	for _, t := range m.slots {
		if t.IsZero() {
			out.Locals = append(out.Locals, vm.TopSlot)
			continue
		}
		out.Locals = append(out.Locals, typesystem.Descriptor(c, t))
	}
	for _, t := range m.stack {
		out.Stack = append(out.Stack, typesystem.Descriptor(c, t))
	}
	c.methods = append(c.methods, out)
	c.Tracef("done %s%s stack=%d locals=%d", out.Name, out.Desc, out.MaxStack, out.MaxLocals)
	return out, nil
}

// Emit appends instructions to the method's instruction stream.
func (c *Context) Emit(code ...vm.Instruction) error {
	m, err := c.requireMethod()
	if err != nil {
		return err
	}
	for _, in := range code {
		c.Tracef("%04d %s", m.code.Len(), in)
		m.code.Write(in)
	}
	return nil
}

// CodeLen returns the number of instructions emitted so far.
func (c *Context) CodeLen() (int, error) {
	m, err := c.requireMethod()
	if err != nil {
		return 0, err
	}
	return m.code.Len(), nil
}

// Cut removes and returns the instructions emitted from position from onward.
func (c *Context) Cut(from int) ([]vm.Instruction, error) {
	m, err := c.requireMethod()
	if err != nil {
		return nil, err
	}
	if from < 0 || from > m.code.Len() {
		return nil, typesystem.NewUsageError(fmt.Sprintf("instruction position %d out of range [0, %d]", from, m.code.Len()))
	}
	return m.code.Cut(from), nil
}

// Splice replaces the instructions from position from onward with code.
func (c *Context) Splice(from int, code []vm.Instruction) error {
	m, err := c.requireMethod()
	if err != nil {
		return err
	}
	if from < 0 || from > m.code.Len() {
		return typesystem.NewUsageError(fmt.Sprintf("instruction position %d out of range [0, %d]", from, m.code.Len()))
	}
	m.code.Splice(from, code)
	return nil
}
