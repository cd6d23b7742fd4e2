package typesystem

import (
	"fmt"

	"github.com/cshunsinger/AsmSauceCore-sub000/internal/config"
)

// ClassDef describes a class or interface: either an entry of a catalog or
// the description of the type under construction.
type ClassDef struct {
	Name         string
	Super        Type // unset for java.lang.Object and for interfaces
	Interfaces   []Type
	Modifiers    Modifiers
	Fields       []*Field
	Constructors []*Method
	Methods      []*Method
}

func (c *ClassDef) IsInterface() bool { return c.Modifiers.IsInterface() }

// Catalog gives access to types that already exist in the target runtime.
type Catalog interface {
	Class(name string) (*ClassDef, bool)
}

// Env is the view of the type world used during a build: the catalog plus
// the description of the type under construction. Self returns nil when no
// type is being built.
type Env interface {
	Catalog
	Self() *ClassDef
}

// Lookup returns the description of a class type, resolving the self type
// through env.
func Lookup(env Env, t Type) (*ClassDef, error) {
	if t.IsVoid() || t.IsPrimitive() || t.IsArray() || t.IsNull() || t.IsZero() {
		return nil, NewUsageError(fmt.Sprintf("type %s cannot own members", t))
	}
	if t.IsSelf() {
		self := env.Self()
		if self == nil {
			return nil, NewUsageError("self type referenced outside of an active build")
		}
		return self, nil
	}
	if self := env.Self(); self != nil && self.Name == t.name {
		return self, nil
	}
	def, ok := env.Class(t.name)
	if !ok {
		return nil, NewUsageError(fmt.Sprintf("unknown type %s", t.name))
	}
	return def, nil
}

// Concrete replaces the self placeholder (including arrays of it) by the
// named type under construction.
func Concrete(env Env, t Type) Type {
	if !t.self {
		return t
	}
	self := env.Self()
	if self == nil {
		return t
	}
	return Type{name: self.Name, dims: t.dims}
}

// DisplayName renders t for messages, naming the type under construction.
func DisplayName(env Env, t Type) string {
	return Concrete(env, t).String()
}

// SameType compares two types treating the self placeholder and the concrete
// name of the type under construction as equal.
func SameType(env Env, a, b Type) bool {
	return Concrete(env, a) == Concrete(env, b)
}

// Supertype returns the supertype of t. A class without a declared
// supertype extends java.lang.Object; interfaces and Object itself have none.
func Supertype(env Env, t Type) (Type, bool, error) {
	def, err := Lookup(env, t)
	if err != nil {
		return Type{}, false, err
	}
	if def.Super.IsZero() {
		if def.IsInterface() || def.Name == config.ObjectClassName {
			return Type{}, false, nil
		}
		return Object, true, nil
	}
	return def.Super, true, nil
}

// Interfaces returns the directly implemented interfaces of t.
func Interfaces(env Env, t Type) ([]Type, error) {
	def, err := Lookup(env, t)
	if err != nil {
		return nil, err
	}
	return def.Interfaces, nil
}

// DeclaredFields returns the fields declared directly on t.
func DeclaredFields(env Env, t Type) ([]*Field, error) {
	def, err := Lookup(env, t)
	if err != nil {
		return nil, err
	}
	return def.Fields, nil
}

// DeclaredMethods returns the methods declared directly on t.
func DeclaredMethods(env Env, t Type) ([]*Method, error) {
	def, err := Lookup(env, t)
	if err != nil {
		return nil, err
	}
	return def.Methods, nil
}

// DeclaredConstructors returns the constructors declared directly on t.
func DeclaredConstructors(env Env, t Type) ([]*Method, error) {
	def, err := Lookup(env, t)
	if err != nil {
		return nil, err
	}
	return def.Constructors, nil
}

// IsInterfaceType reports whether t names an interface.
func IsInterfaceType(env Env, t Type) bool {
	if !t.IsReference() || t.IsArray() || t.IsNull() {
		return false
	}
	def, err := Lookup(env, t)
	return err == nil && def.IsInterface()
}

// Validate checks a class description for malformed declarations. Members
// declared without an owner are assigned to c.
func (c *ClassDef) Validate() error {
	if c.Name == "" {
		return NewUsageError("class description requires a name")
	}
	if err := c.Modifiers.Validate(ClassMember); err != nil {
		return err
	}
	if c.IsInterface() && !c.Super.IsZero() {
		return NewUsageError(fmt.Sprintf("interface %s cannot declare a supertype", c.Name))
	}
	if !c.Super.IsZero() && (!c.Super.IsReference() || c.Super.IsArray() || c.Super.IsNull() || c.Super.IsSelf()) {
		return NewUsageError(fmt.Sprintf("%s cannot extend %s", c.Name, c.Super))
	}
	seenFields := make(map[string]bool)
	for _, f := range c.Fields {
		if f == nil || f.Name == "" {
			return NewUsageError(fmt.Sprintf("%s declares a field without a name", c.Name))
		}
		if seenFields[f.Name] {
			return NewUsageError(fmt.Sprintf("%s declares field %s twice", c.Name, f.Name))
		}
		seenFields[f.Name] = true
		if err := c.claim(&f.Owner, f.Name); err != nil {
			return err
		}
		if f.Type.IsZero() || f.Type.IsVoid() || f.Type.IsNull() {
			return NewUsageError(fmt.Sprintf("field %s.%s has invalid type %s", c.Name, f.Name, f.Type))
		}
		if err := f.Modifiers.Validate(FieldMember); err != nil {
			return err
		}
	}
	seenMethods := make(map[string]bool)
	check := func(m *Method, kind MemberKind) error {
		if m == nil || m.Name == "" {
			return NewUsageError(fmt.Sprintf("%s declares a %s without a name", c.Name, kind))
		}
		if err := m.Modifiers.Validate(kind); err != nil {
			return err
		}
		if err := c.claim(&m.Owner, m.Name); err != nil {
			return err
		}
		if m.Return.IsZero() || m.Return.IsNull() {
			return NewUsageError(fmt.Sprintf("%s %s.%s has no return type", kind, c.Name, m.Name))
		}
		for i, p := range m.Params {
			if p.IsZero() || p.IsVoid() || p.IsNull() {
				return NewUsageError(fmt.Sprintf("parameter %d of %s.%s has invalid type %s", i, c.Name, m.Name, p))
			}
		}
		key := m.Name + TypeList(m.Params)
		if seenMethods[key] {
			return NewUsageError(fmt.Sprintf("%s declares %s twice", c.Name, key))
		}
		seenMethods[key] = true
		return nil
	}
	for _, m := range c.Constructors {
		if err := check(m, ConstructorMember); err != nil {
			return err
		}
		if !m.IsConstructor() || !m.Return.IsVoid() {
			return NewUsageError(fmt.Sprintf("constructor of %s must be named <init> and return void", c.Name))
		}
	}
	for _, m := range c.Methods {
		if err := check(m, MethodMember); err != nil {
			return err
		}
		if m.IsConstructor() {
			return NewUsageError(fmt.Sprintf("%s lists a constructor among its methods", c.Name))
		}
	}
	return nil
}

// claim sets an unset member owner to c and rejects an owner naming another type.
func (c *ClassDef) claim(owner *Type, member string) error {
	switch {
	case owner.IsZero():
		*owner = Class(c.Name)
	case owner.IsSelf():
	case *owner == Class(c.Name):
	default:
		return NewUsageError(fmt.Sprintf("%s.%s is declared with owner %s", c.Name, member, *owner))
	}
	return nil
}

