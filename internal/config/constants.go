package config

// Special member names understood by the target runtime.
const (
	ConstructorName       = "<init>"
	StaticInitializerName = "<clinit>"
	ThisLocalName         = "this"
)

// Runtime class names the engine refers to directly.
const (
	ObjectClassName       = "java.lang.Object"
	StringClassName       = "java.lang.String"
	CloneableClassName    = "java.lang.Cloneable"
	SerializableClassName = "java.io.Serializable"
)

// Boxed counterparts of the primitive types.
const (
	BooleanClassName   = "java.lang.Boolean"
	ByteClassName      = "java.lang.Byte"
	ShortClassName     = "java.lang.Short"
	CharacterClassName = "java.lang.Character"
	IntegerClassName   = "java.lang.Integer"
	LongClassName      = "java.lang.Long"
	FloatClassName     = "java.lang.Float"
	DoubleClassName    = "java.lang.Double"
)

// Name of the static boxing factory on every boxed class.
const BoxMethodName = "valueOf"

// SelfTypeName is how the type under construction is spelled in declarative input.
const SelfTypeName = "self"

// Hard limits of the target method format.
const (
	DefaultMaxStack  = 65535
	DefaultMaxLocals = 65535
)
