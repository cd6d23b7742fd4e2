package typesystem

import "testing"

// testEnv is a minimal Env over a fixed set of classes.
type testEnv struct {
	classes map[string]*ClassDef
	self    *ClassDef
}

func (e *testEnv) Class(name string) (*ClassDef, bool) {
	c, ok := e.classes[name]
	return c, ok
}

func (e *testEnv) Self() *ClassDef { return e.self }

func newTestEnv(t *testing.T, self *ClassDef) *testEnv {
	t.Helper()
	env := &testEnv{classes: make(map[string]*ClassDef), self: self}
	add := func(name string, super Type, mods Modifiers, ifaces ...Type) {
		env.classes[name] = &ClassDef{Name: name, Super: super, Interfaces: ifaces, Modifiers: mods}
	}
	iface := Public | Interface | Abstract

	add("java.lang.Object", Type{}, Public)
	add("java.io.Serializable", Type{}, iface)
	add("java.lang.Cloneable", Type{}, iface)
	add("java.lang.Comparable", Type{}, iface)
	add("java.lang.CharSequence", Type{}, iface)
	add("java.lang.Number", Object, Public|Abstract, Serializable)
	add("java.lang.String", Object, Public|Final, Serializable, Class("java.lang.Comparable"), Class("java.lang.CharSequence"))
	for _, p := range []Type{Byte, Short, Char, Int, Long, Float, Double} {
		box, _ := p.Boxed()
		super := Class("java.lang.Number")
		if p == Char {
			super = Object
		}
		add(box.Name(), super, Public|Final, Class("java.lang.Comparable"))
	}
	add("java.lang.Boolean", Object, Public|Final, Serializable, Class("java.lang.Comparable"))

	add("com.example.Shape", Type{}, iface)
	add("com.example.Named", Type{}, iface)
	add("com.example.Base", Object, Public|Abstract, Class("com.example.Named"))
	return env
}

func selfDef() *ClassDef {
	return &ClassDef{
		Name:       "com.example.Circle",
		Super:      Class("com.example.Base"),
		Interfaces: []Type{Class("com.example.Shape")},
		Modifiers:  Public,
	}
}
