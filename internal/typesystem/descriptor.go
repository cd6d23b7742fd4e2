package typesystem

import "strings"

var primitiveDescriptors = map[Type]string{
	Void:    "V",
	Boolean: "Z",
	Byte:    "B",
	Short:   "S",
	Char:    "C",
	Int:     "I",
	Long:    "J",
	Float:   "F",
	Double:  "D",
}

// InternalName returns the slash-separated name the runtime uses for a class,
// or the descriptor for array types.
func InternalName(env Env, t Type) string {
	t = Concrete(env, t)
	if t.IsArray() {
		return Descriptor(env, t)
	}
	return strings.ReplaceAll(t.name, ".", "/")
}

// Descriptor returns the field descriptor of t, e.g. "I", "[J" or
// "Ljava/lang/String;".
func Descriptor(env Env, t Type) string {
	t = Concrete(env, t)
	var sb strings.Builder
	for i := 0; i < t.dims; i++ {
		sb.WriteByte('[')
	}
	elem := Type{name: t.name}
	if d, ok := primitiveDescriptors[elem]; ok {
		sb.WriteString(d)
	} else {
		sb.WriteByte('L')
		sb.WriteString(strings.ReplaceAll(t.name, ".", "/"))
		sb.WriteByte(';')
	}
	return sb.String()
}

// MethodDescriptor returns the descriptor of a method signature, e.g. "(IJ)V".
func MethodDescriptor(env Env, params []Type, ret Type) string {
	var sb strings.Builder
	sb.WriteByte('(')
	for _, p := range params {
		sb.WriteString(Descriptor(env, p))
	}
	sb.WriteByte(')')
	sb.WriteString(Descriptor(env, ret))
	return sb.String()
}
