package typesystem

import (
	"fmt"
	"sort"
	"strings"
)

// Modifiers is the access flag set of a class or member, using the target
// runtime's bit values.
type Modifiers uint16

const (
	Public       Modifiers = 0x0001
	Private      Modifiers = 0x0002
	Protected    Modifiers = 0x0004
	Static       Modifiers = 0x0008
	Final        Modifiers = 0x0010
	Synchronized Modifiers = 0x0020
	Volatile     Modifiers = 0x0040
	Transient    Modifiers = 0x0080
	Native       Modifiers = 0x0100
	Interface    Modifiers = 0x0200
	Abstract     Modifiers = 0x0400
)

var modifierNames = map[string]Modifiers{
	"public":       Public,
	"private":      Private,
	"protected":    Protected,
	"static":       Static,
	"final":        Final,
	"synchronized": Synchronized,
	"volatile":     Volatile,
	"transient":    Transient,
	"native":       Native,
	"interface":    Interface,
	"abstract":     Abstract,
}

// MemberKind says what a modifier set is attached to.
type MemberKind int

const (
	ClassMember MemberKind = iota
	FieldMember
	MethodMember
	ConstructorMember
)

func (k MemberKind) String() string {
	switch k {
	case ClassMember:
		return "class"
	case FieldMember:
		return "field"
	case ConstructorMember:
		return "constructor"
	default:
		return "method"
	}
}

// ParseModifiers reads modifier keywords such as ["public", "static"].
func ParseModifiers(words []string) (Modifiers, error) {
	var m Modifiers
	for _, w := range words {
		bit, ok := modifierNames[strings.ToLower(strings.TrimSpace(w))]
		if !ok {
			return 0, NewUsageError(fmt.Sprintf("unknown modifier %q", w))
		}
		m |= bit
	}
	return m, nil
}

func (m Modifiers) Has(bits Modifiers) bool { return m&bits == bits }

func (m Modifiers) IsStatic() bool    { return m&Static != 0 }
func (m Modifiers) IsPublic() bool    { return m&Public != 0 }
func (m Modifiers) IsPrivate() bool   { return m&Private != 0 }
func (m Modifiers) IsProtected() bool { return m&Protected != 0 }
func (m Modifiers) IsAbstract() bool  { return m&Abstract != 0 }
func (m Modifiers) IsInterface() bool { return m&Interface != 0 }

// IsPackagePrivate reports whether no access modifier is present.
func (m Modifiers) IsPackagePrivate() bool {
	return m&(Public|Private|Protected) == 0
}

func (m Modifiers) String() string {
	var words []string
	for name, bit := range modifierNames {
		if m&bit != 0 {
			words = append(words, name)
		}
	}
	sort.Slice(words, func(i, j int) bool { return modifierNames[words[i]] < modifierNames[words[j]] })
	return strings.Join(words, " ")
}

var allowedModifiers = map[MemberKind]Modifiers{
	ClassMember:       Public | Final | Interface | Abstract,
	FieldMember:       Public | Private | Protected | Static | Final | Volatile | Transient,
	MethodMember:      Public | Private | Protected | Static | Final | Synchronized | Native | Abstract,
	ConstructorMember: Public | Private | Protected,
}

// Validate rejects modifier combinations the target runtime does not accept
// for the given kind of declaration.
func (m Modifiers) Validate(kind MemberKind) error {
	if extra := m &^ allowedModifiers[kind]; extra != 0 {
		return NewUsageError(fmt.Sprintf("modifier %q is not allowed on a %s", extra, kind))
	}
	access := 0
	for _, bit := range []Modifiers{Public, Private, Protected} {
		if m&bit != 0 {
			access++
		}
	}
	if access > 1 {
		return NewUsageError(fmt.Sprintf("conflicting access modifiers %q on a %s", m, kind))
	}
	switch kind {
	case ClassMember:
		if m.Has(Final|Abstract) || m.Has(Final|Interface) {
			return NewUsageError(fmt.Sprintf("illegal class modifiers %q", m))
		}
	case FieldMember:
		if m.Has(Final | Volatile) {
			return NewUsageError("a field cannot be both final and volatile")
		}
	case MethodMember:
		if m.IsAbstract() && m&(Private|Static|Final|Synchronized|Native) != 0 {
			return NewUsageError(fmt.Sprintf("abstract method cannot be %q", m&^Abstract))
		}
	}
	return nil
}
