package typesystem

// IsAssignableFrom reports whether a value of type other can be stored where
// t is expected without any conversion instruction, following the runtime's
// native rule: primitives only by identity, null into any reference, every
// reference into java.lang.Object, arrays covariantly over reference
// elements, classes along their declared hierarchy. The self type is checked
// through the supertype and interfaces of the type under construction.
func (t Type) IsAssignableFrom(env Env, other Type) bool {
	if t.IsZero() || other.IsZero() || t.IsVoid() || other.IsVoid() {
		return false
	}
	if SameType(env, t, other) {
		return true
	}
	if t.IsPrimitive() || other.IsPrimitive() {
		return false
	}
	if other.IsNull() {
		return t.IsReference()
	}
	if t.IsNull() {
		return false
	}
	if t == Object {
		return true
	}

	if other.IsArray() {
		if !t.IsArray() {
			return t == Cloneable || t == Serializable
		}
		te, oe := t.Elem(), other.Elem()
		if te.IsPrimitive() || oe.IsPrimitive() {
			return te == oe
		}
		return te.IsAssignableFrom(env, oe)
	}
	if t.IsArray() {
		return false
	}

	order, err := Hierarchy(env, other)
	if err != nil {
		return false
	}
	for _, ancestor := range order {
		if SameType(env, ancestor, t) {
			return true
		}
	}
	return false
}

// CanConvert reports whether a value of type from may be implicitly converted
// to type to: identity, reference assignability, boxing or unboxing between a
// primitive and its own boxed counterpart, or primitive widening.
func CanConvert(env Env, from, to Type) bool {
	switch {
	case from.IsZero() || to.IsZero() || from.IsVoid() || to.IsVoid():
		return false
	case SameType(env, from, to):
		return true
	case from.IsPrimitive() && to.IsPrimitive():
		return IsWidening(from, to)
	case IsBoxPair(from, to):
		return true
	case from.IsPrimitive() || to.IsPrimitive():
		return false
	default:
		return to.IsAssignableFrom(env, from)
	}
}

// CanCast reports whether a value of type from may be explicitly converted to
// type to. On top of the implicit conversions this permits reference
// downcasts and primitive narrowing.
func CanCast(env Env, from, to Type) bool {
	if CanConvert(env, from, to) {
		return true
	}
	switch {
	case from.IsZero() || to.IsZero() || from.IsVoid() || to.IsVoid():
		return false
	case from.IsPrimitive() && to.IsPrimitive():
		return IsNarrowing(from, to)
	case from.IsPrimitive() || to.IsPrimitive():
		return false
	case from.IsNull():
		return to.IsReference()
	default:
		return from.IsAssignableFrom(env, to)
	}
}
