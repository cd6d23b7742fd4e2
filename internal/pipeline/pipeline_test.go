package pipeline

import (
	"errors"
	"strings"
	"testing"

	"github.com/cshunsinger/AsmSauceCore-sub000/internal/catalog"
	"github.com/cshunsinger/AsmSauceCore-sub000/internal/codegen"
	"github.com/cshunsinger/AsmSauceCore-sub000/internal/typesystem"
	"github.com/cshunsinger/AsmSauceCore-sub000/internal/vm"
)

type circleClass struct {
	def  *typesystem.ClassDef
	ctor *typesystem.Method
	area *typesystem.Method
}

func newCircle() circleClass {
	self := typesystem.Self
	c := circleClass{
		ctor: typesystem.NewConstructor(self, typesystem.Public, typesystem.Double),
		area: &typesystem.Method{Owner: self, Name: "area", Return: typesystem.Double, Modifiers: typesystem.Public},
	}
	c.def = &typesystem.ClassDef{
		Name:      "com.example.Circle",
		Modifiers: typesystem.Public,
		Fields: []*typesystem.Field{
			{Owner: self, Name: "radius", Type: typesystem.Double, Modifiers: typesystem.Private},
		},
		Constructors: []*typesystem.Method{c.ctor},
		Methods:      []*typesystem.Method{c.area},
	}
	return c
}

func (c circleClass) context() *PipelineContext {
	radius := func() codegen.Node { return codegen.GetField(codegen.This(), "radius") }
	return NewPipelineContext(c.def, catalog.Core(), nil).
		AddBody(c.ctor, []string{"r"},
			codegen.SuperInit(),
			codegen.SetField(codegen.This(), "radius", codegen.Local("r")),
			codegen.Return(nil),
		).
		AddBody(c.area, nil,
			codegen.Return(codegen.Arith(codegen.Mul,
				codegen.Arith(codegen.Mul, radius(), radius()),
				codegen.Double(3.14))),
		)
}

func listing(m *vm.Method) string {
	parts := make([]string, len(m.Code.Code))
	for i, in := range m.Code.Code {
		parts[i] = in.String()
	}
	return strings.Join(parts, "; ")
}

func TestPipeline_Circle(t *testing.T) {
	ctx := Default().Run(newCircle().context())
	if ctx.Err != nil {
		t.Fatalf("pipeline failed: %v", ctx.Err)
	}
	cls := ctx.Artifact
	if cls == nil {
		t.Fatal("no artifact")
	}
	if cls.Name != "com/example/Circle" || cls.Super != "java/lang/Object" {
		t.Errorf("class = %s extends %s", cls.Name, cls.Super)
	}
	if cls.BuildID != ctx.Build.ID().String() {
		t.Errorf("build id = %q, want %q", cls.BuildID, ctx.Build.ID())
	}
	if len(cls.Fields) != 1 || cls.Fields[0].Desc != "D" {
		t.Errorf("fields = %+v", cls.Fields)
	}

	tests := []struct {
		name, desc string
		code       string
		maxStack   int
		maxLocals  int
	}{
		{"<init>", "(D)V",
			"ALOAD 0; INVOKESPECIAL java/lang/Object.<init> ()V; ALOAD 0; DLOAD 1; PUTFIELD com/example/Circle.radius D; RETURN",
			3, 3},
		{"area", "()D",
			"ALOAD 0; GETFIELD com/example/Circle.radius D; ALOAD 0; GETFIELD com/example/Circle.radius D; DMUL; LDC 3.14; DMUL; DRETURN",
			4, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, ok := cls.Method(tt.name, tt.desc)
			if !ok {
				t.Fatalf("method %s%s missing from the artifact", tt.name, tt.desc)
			}
			if got := listing(m); got != tt.code {
				t.Errorf("code = %s\nwant   %s", got, tt.code)
			}
			if m.MaxStack != tt.maxStack || m.MaxLocals != tt.maxLocals {
				t.Errorf("max stack/locals = %d/%d, want %d/%d", m.MaxStack, m.MaxLocals, tt.maxStack, tt.maxLocals)
			}
		})
	}

	decoded, err := vm.UnmarshalClass(ctx.Wire)
	if err != nil {
		t.Fatalf("UnmarshalClass failed: %v", err)
	}
	if decoded.Name != cls.Name || len(decoded.Methods) != 2 {
		t.Fatalf("decoded %s with %d methods", decoded.Name, len(decoded.Methods))
	}
	area, ok := decoded.Method("area", "()D")
	if !ok {
		t.Fatal("decoded artifact lost area()")
	}
	if got := listing(area); got != tests[1].code {
		t.Errorf("decoded area = %s", got)
	}
}

func TestPipeline_ValidationStopsTheRun(t *testing.T) {
	c := newCircle()
	stray := &typesystem.Method{Owner: typesystem.Self, Name: "stray", Return: typesystem.Void, Modifiers: typesystem.Public}
	tests := []struct {
		name string
		ctx  *PipelineContext
		want string
	}{
		{"undeclared method", c.context().AddBody(stray, nil, codegen.Return(nil)), "is not declared by com.example.Circle"},
		{"duplicate body", c.context().AddBody(c.area, nil, codegen.Return(codegen.Double(1))), "has more than one body"},
		{"bad node", NewPipelineContext(c.def, catalog.Core(), nil).AddBody(c.area, nil, codegen.Return(codegen.Local(""))), "local name is required"},
		{"too many names", NewPipelineContext(c.def, catalog.Core(), nil).AddBody(c.area, []string{"x"}), "1 parameter names given"},
		{"no class", NewPipelineContext(nil, catalog.Core(), nil), "class description is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := Default().Run(tt.ctx)
			var usage *typesystem.UsageError
			if !errors.As(ctx.Err, &usage) || !strings.Contains(ctx.Err.Error(), tt.want) {
				t.Fatalf("error = %v, want UsageError containing %q", ctx.Err, tt.want)
			}
			if ctx.Build != nil || ctx.Artifact != nil || ctx.Wire != nil {
				t.Error("validation failure should stop before the build")
			}
		})
	}
}

func TestPipeline_BuildFailureLeavesNoArtifact(t *testing.T) {
	c := newCircle()
	ctx := NewPipelineContext(c.def, catalog.Core(), nil).
		AddBody(c.area, nil, codegen.Return(codegen.Invoke(codegen.This(), "perimeter")))
	ctx = Default().Run(ctx)

	var res *typesystem.ResolutionError
	if !errors.As(ctx.Err, &res) {
		t.Fatalf("error = %v, want ResolutionError", ctx.Err)
	}
	if !strings.Contains(ctx.Err.Error(), "no accessible method com.example.Circle.perimeter()") {
		t.Errorf("error = %v", ctx.Err)
	}
	if ctx.Artifact != nil || ctx.Wire != nil {
		t.Error("failed build produced an artifact")
	}
	if ctx.Build.Active() {
		t.Error("build context still active after the failure")
	}
}

func TestEncodeProcessor_RequiresArtifact(t *testing.T) {
	ctx := (&EncodeProcessor{}).Process(NewPipelineContext(newCircle().def, catalog.Core(), nil))
	if ctx.Err == nil || !strings.Contains(ctx.Err.Error(), "nothing to encode") {
		t.Errorf("error = %v, want nothing to encode", ctx.Err)
	}
}

func TestPipeline_MembersWithoutOwner(t *testing.T) {
	get := &typesystem.Method{Name: "get", Return: typesystem.Int, Modifiers: typesystem.Public}
	put := &typesystem.Method{Name: "put", Params: []typesystem.Type{typesystem.Int}, Return: typesystem.Void}
	box := &typesystem.ClassDef{
		Name:    "com.example.Box",
		Fields:  []*typesystem.Field{{Name: "v", Type: typesystem.Int, Modifiers: typesystem.Private}},
		Methods: []*typesystem.Method{get, put},
	}
	ctx := NewPipelineContext(box, catalog.Core(), nil).
		AddBody(get, nil, codegen.Return(codegen.GetField(codegen.This(), "v"))).
		AddBody(put, []string{"x"},
			codegen.SetField(codegen.This(), "v", codegen.Local("x")),
			codegen.Return(nil),
		)
	ctx = Default().Run(ctx)
	if ctx.Err != nil {
		t.Fatalf("pipeline failed: %v", ctx.Err)
	}

	tests := []struct {
		name, desc, code string
	}{
		{"get", "()I", "ALOAD 0; GETFIELD com/example/Box.v I; IRETURN"},
		{"put", "(I)V", "ALOAD 0; ILOAD 1; PUTFIELD com/example/Box.v I; RETURN"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, ok := ctx.Artifact.Method(tt.name, tt.desc)
			if !ok {
				t.Fatalf("method %s%s missing from the artifact", tt.name, tt.desc)
			}
			if got := listing(m); got != tt.code {
				t.Errorf("code = %s\nwant   %s", got, tt.code)
			}
		})
	}
}
