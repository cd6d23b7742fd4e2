package typesystem

// boxPenalty is added to the distance of any conversion that boxes or unboxes.
const boxPenalty = 1

// ConversionDistance measures how far a value of type from is from the
// required type to. Smaller is closer; identical types are at 0.
//
// Between primitives and boxed primitives the distance is the number of steps
// along the numeric widening order, plus boxPenalty when exactly one side is
// boxed. Between reference types it is the position of to in from's
// hierarchy order; an array target absent from that order takes the position
// of the first ancestor assignable from it. The second result is false when
// the types are not related.
func ConversionDistance(env Env, from, to Type) (int, bool) {
	if from.IsZero() || to.IsZero() || from.IsVoid() || to.IsVoid() {
		return 0, false
	}
	if SameType(env, from, to) {
		return 0, true
	}
	if from.IsNull() {
		return 0, to.IsReference()
	}

	if from.IsPrimitive() || to.IsPrimitive() {
		return primitiveDistance(from, to)
	}

	if !to.IsAssignableFrom(env, from) {
		return 0, false
	}
	order, err := Hierarchy(env, from)
	if err != nil {
		return 0, false
	}
	for i, ancestor := range order {
		if SameType(env, ancestor, to) {
			return i, true
		}
	}
	// Covariant array targets never appear in the order itself.
	for i, ancestor := range order {
		if ancestor.IsAssignableFrom(env, to) {
			return i, true
		}
	}
	return 0, false
}

func primitiveDistance(from, to Type) (int, bool) {
	fp, fromBoxed := asPrimitive(from)
	tp, toBoxed := asPrimitive(to)
	if fp.IsZero() || tp.IsZero() {
		return 0, false
	}
	penalty := 0
	if fromBoxed != toBoxed {
		penalty = boxPenalty
	}
	if fp == Boolean || tp == Boolean {
		if fp != tp {
			return 0, false
		}
		return penalty, true
	}
	fr, _ := WideningRank(fp)
	tr, _ := WideningRank(tp)
	gap := tr - fr
	if gap < 0 {
		gap = -gap
	}
	return penalty + gap, true
}

// asPrimitive returns the primitive behind t and whether t was boxed.
func asPrimitive(t Type) (Type, bool) {
	if t.IsPrimitive() {
		return t, false
	}
	if p, ok := t.Unboxed(); ok {
		return p, true
	}
	return Type{}, false
}
