package typesystem

import (
	"fmt"

	"github.com/cshunsinger/AsmSauceCore-sub000/internal/config"
)

// Field describes a declared field.
type Field struct {
	Owner     Type
	Name      string
	Type      Type
	Modifiers Modifiers
}

func (f *Field) IsStatic() bool { return f.Modifiers.IsStatic() }

func (f *Field) String() string {
	return fmt.Sprintf("%s %s.%s", f.Type, f.Owner, f.Name)
}

// Method describes a declared method or constructor. Constructors are
// methods named config.ConstructorName that return void.
type Method struct {
	Owner      Type
	Name       string
	Params     []Type
	Return     Type
	Exceptions []Type
	Modifiers  Modifiers
}

// NewConstructor returns a constructor declared on owner.
func NewConstructor(owner Type, mods Modifiers, params ...Type) *Method {
	return &Method{Owner: owner, Name: config.ConstructorName, Params: params, Return: Void, Modifiers: mods}
}

func (m *Method) IsConstructor() bool { return m.Name == config.ConstructorName }
func (m *Method) IsStatic() bool      { return m.Modifiers.IsStatic() }
func (m *Method) IsAbstract() bool    { return m.Modifiers.IsAbstract() }

// Arity returns the number of declared parameters.
func (m *Method) Arity() int { return len(m.Params) }

func (m *Method) String() string {
	if m.IsConstructor() {
		return fmt.Sprintf("%s%s", m.Owner, TypeList(m.Params))
	}
	return fmt.Sprintf("%s %s.%s%s", m.Return, m.Owner, m.Name, TypeList(m.Params))
}

// MethodRef is a symbolic reference to a method or constructor. It is
// incomplete when Owner is unset (the owner is then read off the operand
// stack) or when Params is nil (the parameter types are then taken from the
// argument builders).
type MethodRef struct {
	Owner  Type
	Name   string
	Params []Type
	Static bool
}

// ConstructorRef returns a reference to a constructor of owner.
func ConstructorRef(owner Type, params ...Type) MethodRef {
	return MethodRef{Owner: owner, Name: config.ConstructorName, Params: params}
}

func (r MethodRef) IsConstructor() bool { return r.Name == config.ConstructorName }

// IsComplete reports whether the reference names its owner and parameters.
func (r MethodRef) IsComplete() bool { return !r.Owner.IsZero() && r.Params != nil }

// Validate reports malformed references before any build starts.
func (r MethodRef) Validate() error {
	if r.Name == "" {
		return NewUsageError("method reference requires a name")
	}
	if r.Static && r.Owner.IsZero() {
		return NewUsageError(fmt.Sprintf("static reference to %s requires an explicit owner", r.Name))
	}
	if r.IsConstructor() {
		if r.Owner.IsZero() {
			return NewUsageError("constructor reference requires an explicit owner")
		}
		if r.Static {
			return NewUsageError("constructors cannot be referenced as static")
		}
	}
	for i, p := range r.Params {
		if p.IsZero() || p.IsVoid() || p.IsNull() {
			return NewUsageError(fmt.Sprintf("parameter %d of %s has invalid type %s", i, r.Name, p))
		}
	}
	return nil
}

// FieldRef is a symbolic reference to a field. Owner may be unset, in which
// case the receiver on top of the operand stack names it.
type FieldRef struct {
	Owner  Type
	Name   string
	Static bool
}

func (r FieldRef) Validate() error {
	if r.Name == "" {
		return NewUsageError("field reference requires a name")
	}
	if r.Static && r.Owner.IsZero() {
		return NewUsageError(fmt.Sprintf("static reference to field %s requires an explicit owner", r.Name))
	}
	return nil
}
