package typesystem

import "github.com/cshunsinger/AsmSauceCore-sub000/internal/config"

// wideningOrder lists the numeric primitives from narrowest to widest.
// Conversions along it toward the end are widening, toward the start narrowing.
var wideningOrder = []Type{Byte, Short, Char, Int, Long, Float, Double}

var boxes = map[Type]Type{
	Boolean: Class(config.BooleanClassName),
	Byte:    Class(config.ByteClassName),
	Short:   Class(config.ShortClassName),
	Char:    Class(config.CharacterClassName),
	Int:     Class(config.IntegerClassName),
	Long:    Class(config.LongClassName),
	Float:   Class(config.FloatClassName),
	Double:  Class(config.DoubleClassName),
}

var unboxes = func() map[Type]Type {
	m := make(map[Type]Type, len(boxes))
	for p, b := range boxes {
		m[b] = p
	}
	return m
}()

// WideningRank returns the position of t in the numeric widening order.
func WideningRank(t Type) (int, bool) {
	for i, p := range wideningOrder {
		if p == t {
			return i, true
		}
	}
	return -1, false
}

// Boxed returns the boxed counterpart of a primitive type.
func (t Type) Boxed() (Type, bool) {
	b, ok := boxes[t]
	return b, ok
}

// Unboxed returns the primitive counterpart of a boxed type.
func (t Type) Unboxed() (Type, bool) {
	p, ok := unboxes[t]
	return p, ok
}

// IsBoxed reports whether t is the boxed counterpart of some primitive.
func (t Type) IsBoxed() bool {
	_, ok := unboxes[t]
	return ok
}

// IsBoxPair reports whether exactly one of a and b is primitive and the other
// is its boxed counterpart.
func IsBoxPair(a, b Type) bool {
	if box, ok := a.Boxed(); ok && box == b {
		return true
	}
	if box, ok := b.Boxed(); ok && box == a {
		return true
	}
	return false
}

// IsWidening reports whether converting from to to is a primitive widening.
func IsWidening(from, to Type) bool {
	fr, ok1 := WideningRank(from)
	tr, ok2 := WideningRank(to)
	return ok1 && ok2 && fr < tr
}

// IsNarrowing reports whether converting from to to is a primitive narrowing.
func IsNarrowing(from, to Type) bool {
	fr, ok1 := WideningRank(from)
	tr, ok2 := WideningRank(to)
	return ok1 && ok2 && fr > tr
}

// StackCategory returns the primitive type a value of t is held as on the
// operand stack: byte, short, char and boolean are all ints there.
func StackCategory(t Type) Type {
	switch t {
	case Boolean, Byte, Short, Char, Int:
		return Int
	}
	return t
}

// Promote returns the type both operands of a binary numeric operation are
// converted to.
func Promote(a, b Type) Type {
	switch {
	case a == Double || b == Double:
		return Double
	case a == Float || b == Float:
		return Float
	case a == Long || b == Long:
		return Long
	default:
		return Int
	}
}
