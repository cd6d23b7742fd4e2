package build

import (
	"fmt"

	"github.com/cshunsinger/AsmSauceCore-sub000/internal/typesystem"
)

// Push records a value of type t on top of the operand stack.
func (c *Context) Push(t typesystem.Type) error {
	m, err := c.requireMethod()
	if err != nil {
		return err
	}
	if t.IsZero() || t.IsVoid() {
		return typesystem.NewUsageError(fmt.Sprintf("cannot push %s onto the operand stack", t))
	}
	if m.stackSize+t.Width() > c.opts.MaxStack {
		return typesystem.NewUsageError(fmt.Sprintf("operand stack of %s exceeds %d slots", m.sig.Name, c.opts.MaxStack))
	}
	m.stack = append(m.stack, t)
	m.stackSize += t.Width()
	m.maxStack = max(m.maxStack, m.stackSize)
	return nil
}

// Pop removes the top operand stack entry.
func (c *Context) Pop() (typesystem.Type, error) {
	popped, err := c.PopN(1)
	if err != nil {
		return typesystem.Type{}, err
	}
	return popped[0], nil
}

// PopN removes the top n operand stack entries and returns them bottom first.
func (c *Context) PopN(n int) ([]typesystem.Type, error) {
	m, err := c.requireMethod()
	if err != nil {
		return nil, err
	}
	if n < 0 || n > len(m.stack) {
		return nil, typesystem.NewUsageError(fmt.Sprintf("operand stack underflow: popping %d of %d entries", n, len(m.stack)))
	}
	cut := len(m.stack) - n
	popped := append([]typesystem.Type(nil), m.stack[cut:]...)
	for _, t := range popped {
		m.stackSize -= t.Width()
	}
	m.stack = m.stack[:cut]
	return popped, nil
}

// Peek returns the top operand stack entry.
func (c *Context) Peek() (typesystem.Type, error) {
	m, err := c.requireMethod()
	if err != nil {
		return typesystem.Type{}, err
	}
	if len(m.stack) == 0 {
		return typesystem.Type{}, typesystem.NewUsageError("operand stack is empty")
	}
	return m.stack[len(m.stack)-1], nil
}

// StackAt returns the entry at position i, counted from the bottom.
func (c *Context) StackAt(i int) (typesystem.Type, error) {
	m, err := c.requireMethod()
	if err != nil {
		return typesystem.Type{}, err
	}
	if i < 0 || i >= len(m.stack) {
		return typesystem.Type{}, typesystem.NewUsageError(fmt.Sprintf("operand stack position %d out of range [0, %d)", i, len(m.stack)))
	}
	return m.stack[i], nil
}

// SetStackAt replaces the type of the entry at position i, counted from the
// bottom, after a conversion has been spliced in behind it.
func (c *Context) SetStackAt(i int, t typesystem.Type) error {
	m, err := c.requireMethod()
	if err != nil {
		return err
	}
	if i < 0 || i >= len(m.stack) {
		return typesystem.NewUsageError(fmt.Sprintf("operand stack position %d out of range [0, %d)", i, len(m.stack)))
	}
	if t.IsZero() || t.IsVoid() {
		return typesystem.NewUsageError(fmt.Sprintf("cannot place %s on the operand stack", t))
	}
	size := m.stackSize - m.stack[i].Width() + t.Width()
	if size > c.opts.MaxStack {
		return typesystem.NewUsageError(fmt.Sprintf("operand stack of %s exceeds %d slots", m.sig.Name, c.opts.MaxStack))
	}
	m.stack[i] = t
	m.stackSize = size
	m.maxStack = max(m.maxStack, size)
	return nil
}

// StackSize returns the number of operand stack entries.
func (c *Context) StackSize() (int, error) {
	m, err := c.requireMethod()
	if err != nil {
		return 0, err
	}
	return len(m.stack), nil
}

// Stack returns a copy of the operand stack, bottom first.
func (c *Context) Stack() ([]typesystem.Type, error) {
	m, err := c.requireMethod()
	if err != nil {
		return nil, err
	}
	return append([]typesystem.Type(nil), m.stack...), nil
}
