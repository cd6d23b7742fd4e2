package symbols

import (
	"errors"
	"strings"
	"testing"

	"github.com/cshunsinger/AsmSauceCore-sub000/internal/catalog"
	"github.com/cshunsinger/AsmSauceCore-sub000/internal/typesystem"
)

type testEnv struct {
	typesystem.Catalog
	self *typesystem.ClassDef
}

func (e testEnv) Self() *typesystem.ClassDef { return e.self }

const extraYAML = `
classes:
  - name: com.example.Shape
    modifiers: [public, interface, abstract]
    methods:
      - {name: area, returns: double, modifiers: [public, abstract]}
      - {name: describe, returns: java.lang.String}
  - name: com.example.Base
    modifiers: [public, abstract]
    fields:
      - {name: id, type: int, modifiers: [protected]}
      - {name: secret, type: int, modifiers: [private]}
      - {name: COUNT, type: int, modifiers: [public, static]}
    constructors:
      - {modifiers: [protected]}
      - {params: [int], modifiers: [private]}
    methods:
      - {name: name, returns: java.lang.String, modifiers: [public]}
      - {name: hidden, returns: int, modifiers: [private]}
      - {name: local, returns: int}
      - {name: guarded, returns: int, modifiers: [protected]}
      - {name: create, returns: com.example.Base, modifiers: [public, static]}
  - name: org.other.Util
    modifiers: [public]
    methods:
      - {name: local, returns: int}
      - {name: guarded, returns: int, modifiers: [protected]}
`

func newEnv(t *testing.T, self *typesystem.ClassDef) testEnv {
	t.Helper()
	extra, err := catalog.ParseYAML([]byte(extraYAML), "extra.yaml")
	if err != nil {
		t.Fatalf("ParseYAML failed: %v", err)
	}
	return testEnv{Catalog: catalog.Layers{extra, catalog.Core()}, self: self}
}

func circle(methods ...*typesystem.Method) *typesystem.ClassDef {
	return &typesystem.ClassDef{
		Name:       "com.example.Circle",
		Super:      typesystem.Class("com.example.Base"),
		Interfaces: []typesystem.Type{typesystem.Class("com.example.Shape")},
		Modifiers:  typesystem.Public,
		Methods:    methods,
	}
}

func method(name string, ret typesystem.Type, mods typesystem.Modifiers, params ...typesystem.Type) *typesystem.Method {
	return &typesystem.Method{Owner: typesystem.Self, Name: name, Params: params, Return: ret, Modifiers: mods}
}

func TestResolveMethod_SelfArea(t *testing.T) {
	area := method("area", typesystem.Double, typesystem.Public)
	orders := [][]*typesystem.Method{
		{area, method("perimeter", typesystem.Double, typesystem.Public)},
		{method("perimeter", typesystem.Double, typesystem.Public), method("scale", typesystem.Void, typesystem.Public, typesystem.Double), area},
	}
	for i, methods := range orders {
		r := NewResolver(newEnv(t, circle(methods...)))
		got, err := r.ResolveMethod(typesystem.MethodRef{Owner: typesystem.Self, Name: "area"}, []typesystem.Type{})
		if err != nil {
			t.Fatalf("order %d: ResolveMethod failed: %v", i, err)
		}
		if got != area {
			t.Errorf("order %d: resolved %v, want the declared area()", i, got)
		}
	}
}

func TestResolveMethod_WrongArity(t *testing.T) {
	r := NewResolver(newEnv(t, circle(method("area", typesystem.Double, typesystem.Public))))
	_, err := r.ResolveMethod(typesystem.MethodRef{Owner: typesystem.Self, Name: "area"}, []typesystem.Type{typesystem.Int})
	var res *typesystem.ResolutionError
	if !errors.As(err, &res) {
		t.Fatalf("expected ResolutionError, got %v", err)
	}
	if res.Name != "area" || len(res.Params) != 1 || res.Params[0] != typesystem.Int {
		t.Errorf("unexpected error details: %+v", res)
	}
	if !strings.Contains(err.Error(), "com.example.Circle.area(int)") {
		t.Errorf("error %q should name owner, method and parameter list", err)
	}
}

func TestResolveMethod_Overloads(t *testing.T) {
	r := NewResolver(newEnv(t, circle()))
	sb := typesystem.Class("java.lang.StringBuilder")
	integer := typesystem.Class("java.lang.Integer")
	tests := []struct {
		name string
		arg  typesystem.Type
		want typesystem.Type
	}{
		{"exact int", typesystem.Int, typesystem.Int},
		{"exact long", typesystem.Long, typesystem.Long},
		{"string prefers String", typesystem.String, typesystem.String},
		{"builder prefers CharSequence", sb, typesystem.Class("java.lang.CharSequence")},
		{"integer unboxes", integer, typesystem.Int},
		{"boolean", typesystem.Boolean, typesystem.Boolean},
		{"self goes to Object", typesystem.Self, typesystem.Object},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := r.ResolveMethod(typesystem.MethodRef{Owner: sb, Name: "append"}, []typesystem.Type{tt.arg})
			if err != nil {
				t.Fatalf("ResolveMethod failed: %v", err)
			}
			if m.Params[0] != tt.want {
				t.Errorf("append(%v) resolved to append(%v), want append(%v)", tt.arg, m.Params[0], tt.want)
			}
		})
	}
}

func TestResolveMethod_StaticOverloads(t *testing.T) {
	r := NewResolver(newEnv(t, circle()))
	math := typesystem.Class("java.lang.Math")
	m, err := r.ResolveMethod(typesystem.MethodRef{Owner: math, Name: "max", Static: true}, []typesystem.Type{typesystem.Int, typesystem.Long})
	if err != nil {
		t.Fatalf("ResolveMethod failed: %v", err)
	}
	if m.Return != typesystem.Long {
		t.Errorf("max(int, long) resolved to %v, want the long overload", m)
	}

	m, err = r.ResolveMethod(typesystem.MethodRef{Owner: math, Name: "abs", Static: true}, []typesystem.Type{typesystem.Short})
	if err != nil {
		t.Fatalf("ResolveMethod failed: %v", err)
	}
	if m.Params[0] != typesystem.Int {
		t.Errorf("abs(short) resolved to %v, want abs(int)", m)
	}

	m, err = r.ResolveMethod(typesystem.MethodRef{Owner: math, Name: "max", Static: true, Params: []typesystem.Type{typesystem.Double, typesystem.Double}}, []typesystem.Type{typesystem.Int, typesystem.Int})
	if err != nil {
		t.Fatalf("ResolveMethod failed: %v", err)
	}
	if m.Return != typesystem.Double {
		t.Errorf("explicit parameter list should win over argument types, got %v", m)
	}
}

func TestResolveMethod_HierarchyAndAccess(t *testing.T) {
	r := NewResolver(newEnv(t, circle()))
	tests := []struct {
		name  string
		ref   typesystem.MethodRef
		owner string // empty means resolution must fail
	}{
		{"inherited public", typesystem.MethodRef{Owner: typesystem.Self, Name: "name"}, "com.example.Base"},
		{"interface method", typesystem.MethodRef{Owner: typesystem.Self, Name: "area"}, "com.example.Shape"},
		{"interface default access", typesystem.MethodRef{Owner: typesystem.Self, Name: "describe"}, "com.example.Shape"},
		{"object method", typesystem.MethodRef{Owner: typesystem.Self, Name: "hashCode"}, "java.lang.Object"},
		{"protected from subclass", typesystem.MethodRef{Owner: typesystem.Self, Name: "guarded"}, "com.example.Base"},
		{"package-private same package", typesystem.MethodRef{Owner: typesystem.Self, Name: "local"}, "com.example.Base"},
		{"private of supertype", typesystem.MethodRef{Owner: typesystem.Self, Name: "hidden"}, ""},
		{"package-private other package", typesystem.MethodRef{Owner: typesystem.Class("org.other.Util"), Name: "local"}, ""},
		{"protected unrelated", typesystem.MethodRef{Owner: typesystem.Class("org.other.Util"), Name: "guarded"}, ""},
		{"protected clone on object", typesystem.MethodRef{Owner: typesystem.Self, Name: "clone"}, "java.lang.Object"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := r.ResolveMethod(tt.ref, nil)
			if tt.owner == "" {
				var res *typesystem.ResolutionError
				if !errors.As(err, &res) {
					t.Fatalf("expected ResolutionError, got %v, %v", m, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ResolveMethod failed: %v", err)
			}
			if m.Owner.Name() != tt.owner {
				t.Errorf("resolved on %v, want %s", m.Owner, tt.owner)
			}
		})
	}
}

func TestResolveMethod_StaticMismatch(t *testing.T) {
	r := NewResolver(newEnv(t, circle()))
	base := typesystem.Class("com.example.Base")

	_, err := r.ResolveMethod(typesystem.MethodRef{Owner: base, Name: "name", Static: true}, nil)
	var usage *typesystem.UsageError
	if !errors.As(err, &usage) || !strings.Contains(err.Error(), "referenced statically") {
		t.Errorf("expected static usage error, got %v", err)
	}

	_, err = r.ResolveMethod(typesystem.MethodRef{Owner: base, Name: "create"}, nil)
	if !errors.As(err, &usage) || !strings.Contains(err.Error(), "through an instance") {
		t.Errorf("expected instance usage error, got %v", err)
	}
}

func TestResolveConstructor(t *testing.T) {
	r := NewResolver(newEnv(t, circle()))

	m, err := r.ResolveMethod(typesystem.ConstructorRef(typesystem.Class("com.example.Base")), nil)
	if err != nil {
		t.Fatalf("protected constructor of supertype should resolve: %v", err)
	}
	if !m.IsConstructor() {
		t.Errorf("resolved %v", m)
	}

	_, err = r.ResolveMethod(typesystem.MethodRef{Owner: typesystem.Class("com.example.Base"), Name: "<init>"}, []typesystem.Type{typesystem.Int})
	var res *typesystem.ResolutionError
	if !errors.As(err, &res) || !strings.Contains(err.Error(), "constructor com.example.Base(int)") {
		t.Errorf("private constructor should not resolve, got %v", err)
	}

	// Constructors are never inherited.
	_, err = r.ResolveMethod(typesystem.MethodRef{Owner: typesystem.Class("java.lang.Integer"), Name: "<init>"}, nil)
	if !errors.As(err, &res) {
		t.Errorf("Integer() should not resolve through Object(), got %v", err)
	}
}

func TestResolveMethod_ArrayReceiver(t *testing.T) {
	r := NewResolver(newEnv(t, circle()))
	m, err := r.ResolveMethod(typesystem.MethodRef{Owner: typesystem.ArrayOf(typesystem.Int), Name: "hashCode"}, nil)
	if err != nil {
		t.Fatalf("ResolveMethod failed: %v", err)
	}
	if m.Owner != typesystem.Object {
		t.Errorf("resolved %v", m)
	}
}

func TestResolveMethod_PrimitiveOwner(t *testing.T) {
	r := NewResolver(newEnv(t, circle()))
	_, err := r.ResolveMethod(typesystem.MethodRef{Owner: typesystem.Int, Name: "toString"}, nil)
	if err == nil || !strings.Contains(err.Error(), "cannot own members") {
		t.Errorf("expected usage error, got %v", err)
	}
}

func TestResolveField(t *testing.T) {
	r := NewResolver(newEnv(t, circle()))
	base := typesystem.Class("com.example.Base")

	f, err := r.ResolveField(typesystem.FieldRef{Owner: typesystem.Self, Name: "id"})
	if err != nil || f.Type != typesystem.Int {
		t.Errorf("protected inherited field: %v, %v", f, err)
	}

	_, err = r.ResolveField(typesystem.FieldRef{Owner: typesystem.Self, Name: "secret"})
	var res *typesystem.ResolutionError
	if !errors.As(err, &res) || !strings.Contains(err.Error(), "field com.example.Circle.secret") {
		t.Errorf("private field should not resolve, got %v", err)
	}

	if _, err := r.ResolveField(typesystem.FieldRef{Owner: base, Name: "COUNT", Static: true}); err != nil {
		t.Errorf("static field: %v", err)
	}
	var usage *typesystem.UsageError
	if _, err := r.ResolveField(typesystem.FieldRef{Owner: base, Name: "COUNT"}); !errors.As(err, &usage) {
		t.Errorf("expected usage error for static field through instance, got %v", err)
	}
	if _, err := r.ResolveField(typesystem.FieldRef{Owner: base, Name: "id", Static: true}); !errors.As(err, &usage) {
		t.Errorf("expected usage error for instance field referenced statically, got %v", err)
	}
}

func TestImpliedOwner(t *testing.T) {
	stack := []typesystem.Type{typesystem.Int, typesystem.String, typesystem.Long, typesystem.Double}
	got, err := ImpliedOwner(stack, 2, false)
	if err != nil || got != typesystem.String {
		t.Errorf("ImpliedOwner = %v, %v; want java.lang.String", got, err)
	}
	if _, err := ImpliedOwner(stack, 4, false); err == nil {
		t.Error("expected error when the stack is too shallow")
	}
	if _, err := ImpliedOwner(stack, 0, true); err == nil {
		t.Error("expected error for static references")
	}
}

func TestAccessible_NoBuild(t *testing.T) {
	env := newEnv(t, nil)
	if !Accessible(env, typesystem.String, typesystem.Public) {
		t.Error("public members are always accessible")
	}
	if Accessible(env, typesystem.Class("com.example.Base"), typesystem.Protected) {
		t.Error("non-public members need a type under construction")
	}
}
