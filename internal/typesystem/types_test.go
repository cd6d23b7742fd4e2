package typesystem

import (
	"errors"
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		input string
		want  Type
		str   string
	}{
		{"int", Int, "int"},
		{"void", Void, "void"},
		{"java.lang.String", String, "java.lang.String"},
		{"long[]", ArrayOf(Long), "long[]"},
		{"java.lang.Object[][]", ArrayOf(ArrayOf(Object)), "java.lang.Object[][]"},
		{"self", Self, "self"},
		{"self[]", ArrayOf(Self), "self[]"},
		{"null", Null, "null"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse(%q) failed: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("Parse(%q) = %v, want %v", tt.input, got, tt.want)
			}
			if got.String() != tt.str {
				t.Errorf("String() = %q, want %q", got.String(), tt.str)
			}
		})
	}
}

func TestParse_Errors(t *testing.T) {
	for _, input := range []string{"", "void[]", "null[]", "java/lang/String", "a b"} {
		t.Run(input, func(t *testing.T) {
			_, err := Parse(input)
			var usage *UsageError
			if !errors.As(err, &usage) {
				t.Fatalf("Parse(%q): expected UsageError, got %v", input, err)
			}
		})
	}
}

func TestClassification(t *testing.T) {
	tests := []struct {
		typ                               Type
		primitive, reference, wide, array bool
		width                             int
	}{
		{Int, true, false, false, false, 1},
		{Long, true, false, true, false, 2},
		{Double, true, false, true, false, 2},
		{Boolean, true, false, false, false, 1},
		{Void, false, false, false, false, 0},
		{String, false, true, false, false, 1},
		{Self, false, true, false, false, 1},
		{Null, false, true, false, false, 1},
		{ArrayOf(Long), false, true, false, true, 1},
	}
	for _, tt := range tests {
		t.Run(tt.typ.String(), func(t *testing.T) {
			if tt.typ.IsPrimitive() != tt.primitive {
				t.Errorf("IsPrimitive = %v", tt.typ.IsPrimitive())
			}
			if tt.typ.IsReference() != tt.reference {
				t.Errorf("IsReference = %v", tt.typ.IsReference())
			}
			if tt.typ.IsWide() != tt.wide {
				t.Errorf("IsWide = %v", tt.typ.IsWide())
			}
			if tt.typ.IsArray() != tt.array {
				t.Errorf("IsArray = %v", tt.typ.IsArray())
			}
			if tt.typ.Width() != tt.width {
				t.Errorf("Width = %d, want %d", tt.typ.Width(), tt.width)
			}
		})
	}
}

func TestTypeIsComparableValue(t *testing.T) {
	a := MustParse("java.util.List")
	b := Class("java.util.List")
	if a != b {
		t.Error("descriptors of the same class should be equal")
	}
	seen := map[Type]bool{a: true}
	if !seen[b] {
		t.Error("descriptors should work as map keys")
	}
	if ArrayOf(Int).Elem() != Int {
		t.Error("Elem of int[] should be int")
	}
}

func TestBoxing(t *testing.T) {
	box, ok := Int.Boxed()
	if !ok || box.Name() != "java.lang.Integer" {
		t.Fatalf("Int.Boxed() = %v, %v", box, ok)
	}
	prim, ok := box.Unboxed()
	if !ok || prim != Int {
		t.Errorf("Integer.Unboxed() = %v, %v", prim, ok)
	}
	if !IsBoxPair(Int, box) || !IsBoxPair(box, Int) {
		t.Error("int and Integer should form a box pair")
	}
	longBox, _ := Long.Boxed()
	if IsBoxPair(Int, longBox) {
		t.Error("int and Long should not form a box pair")
	}
}

func TestDescriptors(t *testing.T) {
	env := newTestEnv(t, selfDef())
	tests := []struct {
		typ  Type
		want string
	}{
		{Int, "I"},
		{Boolean, "Z"},
		{ArrayOf(Long), "[J"},
		{String, "Ljava/lang/String;"},
		{Self, "Lcom/example/Circle;"},
		{ArrayOf(ArrayOf(Self)), "[[Lcom/example/Circle;"},
	}
	for _, tt := range tests {
		if got := Descriptor(env, tt.typ); got != tt.want {
			t.Errorf("Descriptor(%v) = %q, want %q", tt.typ, got, tt.want)
		}
	}
	if got := MethodDescriptor(env, []Type{Int, String}, Void); got != "(ILjava/lang/String;)V" {
		t.Errorf("MethodDescriptor = %q", got)
	}
	if got := InternalName(env, Self); got != "com/example/Circle" {
		t.Errorf("InternalName(self) = %q", got)
	}
}

func TestMembersOnNonClassTypes(t *testing.T) {
	env := newTestEnv(t, selfDef())
	for _, typ := range []Type{Void, Int, ArrayOf(String), Null} {
		_, err := DeclaredMethods(env, typ)
		if err == nil || !strings.Contains(err.Error(), "cannot own members") {
			t.Errorf("DeclaredMethods(%v): expected usage error, got %v", typ, err)
		}
	}
}

func TestSelfOutsideBuild(t *testing.T) {
	env := newTestEnv(t, nil)
	_, err := Lookup(env, Self)
	var usage *UsageError
	if !errors.As(err, &usage) {
		t.Fatalf("expected UsageError, got %v", err)
	}
}

func TestMethodRefValidate(t *testing.T) {
	tests := []struct {
		name string
		ref  MethodRef
		want string
	}{
		{"no name", MethodRef{Owner: String}, "requires a name"},
		{"static without owner", MethodRef{Name: "valueOf", Static: true}, "requires an explicit owner"},
		{"ctor without owner", MethodRef{Name: "<init>"}, "constructor reference requires"},
		{"void param", MethodRef{Owner: String, Name: "x", Params: []Type{Void}}, "invalid type void"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.ref.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Validate() = %v, want error containing %q", err, tt.want)
			}
		})
	}
	if err := ConstructorRef(Self, Int).Validate(); err != nil {
		t.Errorf("valid constructor ref rejected: %v", err)
	}
}
