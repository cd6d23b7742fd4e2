package typesystem

import (
	"fmt"
	"strings"

	"github.com/cshunsinger/AsmSauceCore-sub000/internal/config"
)

// Type describes a value type of the target runtime.
//
// A Type is a small comparable value: two descriptors are equal exactly when
// they wrap the same type, so they can be copied, shared and used as map keys.
// The zero Type is "unset" and marks an incomplete member reference.
type Type struct {
	name string // primitive keyword or dotted class name
	dims int    // array dimensions over name (or over the self type)
	self bool   // the type under construction
}

// Primitive and special types.
var (
	Void    = Type{name: "void"}
	Boolean = Type{name: "boolean"}
	Byte    = Type{name: "byte"}
	Short   = Type{name: "short"}
	Char    = Type{name: "char"}
	Int     = Type{name: "int"}
	Long    = Type{name: "long"}
	Float   = Type{name: "float"}
	Double  = Type{name: "double"}

	// Self is the placeholder for the type currently being generated.
	// It is resolved through Env.Self at build time.
	Self = Type{self: true}

	// Null is the type of the null literal. It is assignable to every reference type.
	Null = Type{name: "null"}
)

// Common runtime classes.
var (
	Object       = Class(config.ObjectClassName)
	String       = Class(config.StringClassName)
	Cloneable    = Class(config.CloneableClassName)
	Serializable = Class(config.SerializableClassName)
)

var primitivesByName = map[string]Type{
	"void":    Void,
	"boolean": Boolean,
	"byte":    Byte,
	"short":   Short,
	"char":    Char,
	"int":     Int,
	"long":    Long,
	"float":   Float,
	"double":  Double,
}

// Class returns the descriptor of a class or interface by its dotted name.
func Class(name string) Type {
	return Type{name: name}
}

// ArrayOf returns a one-dimension-deeper array of elem.
func ArrayOf(elem Type) Type {
	elem.dims++
	return elem
}

// Parse reads a type written the way declarative input spells it:
// a primitive keyword, a dotted class name, "self", or any of those
// followed by one or more "[]".
func Parse(s string) (Type, error) {
	s = strings.TrimSpace(s)
	dims := 0
	for strings.HasSuffix(s, "[]") {
		dims++
		s = strings.TrimSpace(strings.TrimSuffix(s, "[]"))
	}
	if s == "" {
		return Type{}, NewUsageError("empty type name")
	}
	var t Type
	switch {
	case s == config.SelfTypeName:
		t = Self
	case s == Null.name:
		if dims > 0 {
			return Type{}, NewUsageError("null cannot be an array element type")
		}
		return Null, nil
	default:
		if p, ok := primitivesByName[s]; ok {
			t = p
		} else {
			if strings.ContainsAny(s, " /;[]") {
				return Type{}, NewUsageError(fmt.Sprintf("malformed type name %q", s))
			}
			t = Class(s)
		}
	}
	if t == Void && dims > 0 {
		return Type{}, NewUsageError("void cannot be an array element type")
	}
	t.dims = dims
	return t, nil
}

// MustParse is like Parse but panics on malformed input. Intended for tests
// and static tables.
func MustParse(s string) Type {
	t, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return t
}

// IsZero reports whether t is unset.
func (t Type) IsZero() bool { return t == Type{} }

// IsSelf reports whether t is the type under construction (not an array of it).
func (t Type) IsSelf() bool { return t.self && t.dims == 0 }

// IsVoid reports whether t is void.
func (t Type) IsVoid() bool { return t == Void }

// IsNull reports whether t is the null literal type.
func (t Type) IsNull() bool { return t == Null }

// IsArray reports whether t is an array type.
func (t Type) IsArray() bool { return t.dims > 0 }

// IsPrimitive reports whether t is one of the eight primitive value types.
func (t Type) IsPrimitive() bool {
	if t.dims > 0 || t.self || t == Void {
		return false
	}
	_, ok := primitivesByName[t.name]
	return ok
}

// IsReference reports whether values of t are object references.
func (t Type) IsReference() bool {
	return !t.IsZero() && !t.IsPrimitive() && !t.IsVoid()
}

// IsNumeric reports whether t is a primitive other than boolean.
func (t Type) IsNumeric() bool {
	return t.IsPrimitive() && t != Boolean
}

// IsWide reports whether t occupies two stack and local slots.
func (t Type) IsWide() bool { return t == Long || t == Double }

// Width returns the number of slots a value of t occupies.
func (t Type) Width() int {
	switch {
	case t.IsVoid() || t.IsZero():
		return 0
	case t.IsWide():
		return 2
	default:
		return 1
	}
}

// Elem returns the element type of an array, or t itself for non-arrays.
func (t Type) Elem() Type {
	if t.dims == 0 {
		return t
	}
	t.dims--
	return t
}

// Dims returns the number of array dimensions of t.
func (t Type) Dims() int { return t.dims }

// Name returns the dotted class name, or the primitive keyword.
// The self type has no name of its own; see Env.Self.
func (t Type) Name() string { return t.name }

// Package returns the package portion of a class name.
func (t Type) Package() string {
	if i := strings.LastIndexByte(t.name, '.'); i >= 0 {
		return t.name[:i]
	}
	return ""
}

func (t Type) String() string {
	if t.IsZero() {
		return "<unset>"
	}
	base := t.name
	if t.self {
		base = config.SelfTypeName
	}
	return base + strings.Repeat("[]", t.dims)
}

// TypeList renders a parameter list the way error messages print it.
func TypeList(types []Type) string {
	parts := make([]string, len(types))
	for i, t := range types {
		parts[i] = t.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
