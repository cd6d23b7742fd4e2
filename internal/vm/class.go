package vm

// Method is a generated constructor or method body ready for the class writer.
type Method struct {
	Name      string
	Desc      string
	Modifiers uint16
	Code      *Chunk

	// MaxStack and MaxLocals are the deepest operand stack and the largest
	// local slot table seen while generating Code.
	MaxStack  int
	MaxLocals int

	// Locals and Stack are the descriptors of the local slots and operand
	// stack entries when generation ended. The second slot of a wide local
	// is recorded as TopSlot.
	Locals []string
	Stack  []string
}

// TopSlot marks the upper half of a long or double local.
const TopSlot = "-"

// Field is a field declared by the generated class.
type Field struct {
	Name      string
	Desc      string
	Modifiers uint16
}

// Class is the artifact of one build: the generated type and all of its
// method bodies, stamped with the id of the build that produced it.
type Class struct {
	BuildID    string
	Name       string // internal name, e.g. com/example/Circle
	Super      string
	Interfaces []string
	Modifiers  uint16
	Fields     []Field
	Methods    []*Method
}

// Method returns the method with the given name and descriptor.
func (c *Class) Method(name, desc string) (*Method, bool) {
	for _, m := range c.Methods {
		if m.Name == name && m.Desc == desc {
			return m, true
		}
	}
	return nil, false
}
