package build

import (
	"fmt"
	"maps"

	"github.com/cshunsinger/AsmSauceCore-sub000/internal/typesystem"
)

// AddLocal allocates the next local slot for a value of type t and returns
// its index. Long and double locals take two slots. An empty name leaves the
// slot anonymous.
func (c *Context) AddLocal(name string, t typesystem.Type) (int, error) {
	m, err := c.requireMethod()
	if err != nil {
		return 0, err
	}
	if t.IsZero() || t.IsVoid() {
		return 0, typesystem.NewUsageError(fmt.Sprintf("cannot declare a local of type %s", t))
	}
	if name != "" {
		if idx, ok := m.names[name]; ok && idx >= m.scopeStart() {
			return 0, typesystem.NewUsageError(fmt.Sprintf("local %s is already declared in this scope", name))
		}
	}
	index := len(m.slots)
	if err := c.checkLocals(m, index+t.Width()); err != nil {
		return 0, err
	}
	m.slots = append(m.slots, t)
	if t.IsWide() {
		m.slots = append(m.slots, typesystem.Type{})
	}
	if name != "" {
		m.names[name] = index
	}
	m.maxLocals = max(m.maxLocals, len(m.slots))
	return index, nil
}

// SetLocal re-types the local at index. Widening a one-slot local to long or
// double inserts its second slot and shifts every later index up by one;
// narrowing a wide local removes the second slot and shifts them down. Index
// may equal the current slot count to append an anonymous local.
func (c *Context) SetLocal(index int, t typesystem.Type) error {
	m, err := c.requireMethod()
	if err != nil {
		return err
	}
	if t.IsZero() || t.IsVoid() {
		return typesystem.NewUsageError(fmt.Sprintf("cannot declare a local of type %s", t))
	}
	if index == len(m.slots) {
		_, err := c.AddLocal("", t)
		return err
	}
	if index < 0 || index > len(m.slots) {
		return typesystem.NewUsageError(fmt.Sprintf("local index %d out of range [0, %d]", index, len(m.slots)))
	}
	old := m.slots[index]
	if old.IsZero() {
		return typesystem.NewUsageError(fmt.Sprintf("local index %d is the second slot of a wide local", index))
	}

	switch delta := t.Width() - old.Width(); {
	case delta > 0:
		if err := c.checkLocals(m, len(m.slots)+1); err != nil {
			return err
		}
		m.slots = append(m.slots[:index+1], append([]typesystem.Type{{}}, m.slots[index+1:]...)...)
		m.shift(index, 1)
	case delta < 0:
		m.slots = append(m.slots[:index+1], m.slots[index+2:]...)
		m.shift(index, -1)
	}
	m.slots[index] = t
	m.maxLocals = max(m.maxLocals, len(m.slots))
	return nil
}

// SetLocalNamed re-types the local bound to name; see SetLocal.
func (c *Context) SetLocalNamed(name string, t typesystem.Type) error {
	index, err := c.LocalIndex(name)
	if err != nil {
		return err
	}
	return c.SetLocal(index, t)
}

// LocalIndex returns the slot index bound to name in the current scope.
func (c *Context) LocalIndex(name string) (int, error) {
	m, err := c.requireMethod()
	if err != nil {
		return 0, err
	}
	index, ok := m.names[name]
	if !ok {
		return 0, typesystem.NewUsageError(fmt.Sprintf("no such local %s", name))
	}
	return index, nil
}

// LocalType returns the type held by the local at index.
func (c *Context) LocalType(index int) (typesystem.Type, error) {
	m, err := c.requireMethod()
	if err != nil {
		return typesystem.Type{}, err
	}
	if index < 0 || index >= len(m.slots) || m.slots[index].IsZero() {
		return typesystem.Type{}, typesystem.NewUsageError(fmt.Sprintf("no local at index %d", index))
	}
	return m.slots[index], nil
}

// LocalCount returns the number of local slots in use.
func (c *Context) LocalCount() (int, error) {
	m, err := c.requireMethod()
	if err != nil {
		return 0, err
	}
	return len(m.slots), nil
}

// BeginScope opens a lexical scope for locals.
func (c *Context) BeginScope() error {
	m, err := c.requireMethod()
	if err != nil {
		return err
	}
	m.scopes = append(m.scopes, scopeMark{slots: len(m.slots), names: maps.Clone(m.names)})
	return nil
}

// EndScope discards every local added since the matching BeginScope along
// with its name, restoring any binding it shadowed.
func (c *Context) EndScope() error {
	m, err := c.requireMethod()
	if err != nil {
		return err
	}
	if len(m.scopes) == 0 {
		return typesystem.NewUsageError("EndScope without a matching BeginScope")
	}
	mark := m.scopes[len(m.scopes)-1]
	m.scopes = m.scopes[:len(m.scopes)-1]
	m.slots = m.slots[:mark.slots]
	m.names = mark.names
	return nil
}

func (c *Context) checkLocals(m *methodScope, size int) error {
	if size > c.opts.MaxLocals {
		return typesystem.NewUsageError(fmt.Sprintf("locals of %s exceed %d slots", m.sig.Name, c.opts.MaxLocals))
	}
	return nil
}

// scopeStart returns the first slot index owned by the innermost scope.
func (m *methodScope) scopeStart() int {
	if len(m.scopes) == 0 {
		return 0
	}
	return m.scopes[len(m.scopes)-1].slots
}

// shift moves every slot index above index by delta, in the live name table
// and in every saved scope.
func (m *methodScope) shift(index, delta int) {
	move := func(names map[string]int) {
		for name, i := range names {
			if i > index {
				names[name] = i + delta
			}
		}
	}
	move(m.names)
	for i := range m.scopes {
		move(m.scopes[i].names)
		if m.scopes[i].slots > index {
			m.scopes[i].slots += delta
		}
	}
}
