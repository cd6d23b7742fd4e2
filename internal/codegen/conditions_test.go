package codegen

import (
	"reflect"
	"strings"
	"testing"

	"github.com/cshunsinger/AsmSauceCore-sub000/internal/build"
	"github.com/cshunsinger/AsmSauceCore-sub000/internal/typesystem"
	"github.com/cshunsinger/AsmSauceCore-sub000/internal/vm"
)

func TestCondition_Flattening(t *testing.T) {
	a, b, c := IsTrue(Local("a")), IsTrue(Local("b")), IsNull(Local("c"))

	all, ok := a.And(b).And(c).(*Compound)
	if !ok || all.Kind != AllOf {
		t.Fatalf("a AND b AND c = %#v, want an AllOf compound", all)
	}
	if len(all.Children) != 3 || all.Children[0] != Condition(a) || all.Children[2] != Condition(c) {
		t.Errorf("AllOf children = %v, want [a b c]", all.Children)
	}

	mixed := a.And(b).Or(c).(*Compound)
	if mixed.Kind != AnyOf || len(mixed.Children) != 2 {
		t.Fatalf("(a AND b) OR c = %v, want AnyOf with two children", mixed)
	}
	if inner, ok := mixed.Children[0].(*Compound); !ok || inner.Kind != AllOf || len(inner.Children) != 2 {
		t.Errorf("first child = %#v, want the nested AllOf", mixed.Children[0])
	}

	grouped := Group(a.And(b)).And(c).(*Compound)
	if len(grouped.Children) != 2 {
		t.Fatalf("group(a AND b) AND c has %d children, want 2", len(grouped.Children))
	}
	if inner := grouped.Children[0].(*Compound); !inner.Grouped() {
		t.Error("grouped child lost its grouping")
	}
	if Group(a) != Condition(a) {
		t.Error("grouping a leaf should return it unchanged")
	}

	either := Any(a, Any(b, c))
	if len(either.Children) != 3 {
		t.Errorf("Any(a, Any(b, c)) has %d children, want 3", len(either.Children))
	}
}

func TestCondition_Invert(t *testing.T) {
	cmp := Compare(Local("x"), LT, Int(3))
	tree := cmp.And(IsTrue(Local("f"))).Or(IsNull(Local("s")))

	inv := tree.Invert().(*Compound)
	if inv.Kind != AllOf {
		t.Fatalf("inverted kind = %v, want AllOf", inv.Kind)
	}
	inner := inv.Children[0].(*Compound)
	if inner.Kind != AnyOf {
		t.Errorf("inverted inner kind = %v, want AnyOf", inner.Kind)
	}
	if got := inner.Children[0].(*Comparison).Op; got != GE {
		t.Errorf("inverted operator = %v, want >=", got)
	}
	if got := inner.Children[1].(*BoolCheck).Want; got {
		t.Error("inverted IsTrue should be IsFalse")
	}
	if got := inv.Children[1].(*NullCheck).Null; got {
		t.Error("inverted IsNull should be NotNull")
	}

	twice := tree.Invert().Invert()
	if !reflect.DeepEqual(twice, tree) {
		t.Errorf("double inversion changed the tree:\n%#v\n%#v", twice, tree)
	}
	if twice == tree {
		t.Error("double inversion returned the same value")
	}
	if cmp.Op != LT {
		t.Error("inversion modified its receiver")
	}
}

func TestOperator_Negate(t *testing.T) {
	pairs := map[Operator]Operator{EQ: NE, NE: EQ, GE: LT, LT: GE, LE: GT, GT: LE}
	for op, want := range pairs {
		if got := op.Negate(); got != want {
			t.Errorf("%v.Negate() = %v, want %v", op, got, want)
		}
		if op.Negate().Negate() != op {
			t.Errorf("%v does not survive double negation", op)
		}
	}
}

func TestCondition_Validate(t *testing.T) {
	tests := []struct {
		name string
		cond Condition
		want string
	}{
		{"nil", nil, "condition is required"},
		{"missing value", IsTrue(nil), "checked value is required"},
		{"missing operand", Compare(Int(1), EQ, nil), "compared value 2 is required"},
		{"bad operator", Compare(Int(1), Operator(9), Int(2)), "unknown comparison operator 9"},
		{"single child", All(IsTrue(Local("a"))), "AllOf needs at least two conditions"},
		{"nil child", Any(IsTrue(Local("a")), nil), "condition 2 of AnyOf is required"},
		{"nested node", IsTrue(Local("a")).Or(IsNull(Local(""))), "local name is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			requireError[*typesystem.UsageError](t, ValidateCondition(tt.cond), tt.want)
		})
	}
}

// compileIn compiles c inside a static method with a fixed set of locals and
// checks that compilation left the method's code and stack untouched.
func compileIn(t *testing.T, c Condition) (Compiled, error) {
	t.Helper()
	m := sig("check", typesystem.Void, typesystem.Public|typesystem.Static,
		typesystem.Int, typesystem.Long, typesystem.Double, doubleBox, typesystem.String, integerBox, typesystem.Boolean, typesystem.Float)
	ctx := newContext(t)
	var out Compiled
	err := ctx.Generate(func() error {
		if err := ctx.BeginMethod(m, "i", "l", "d", "boxed", "s", "n", "f", "fl"); err != nil {
			return err
		}
		var err error
		if out, err = CompileCondition(ctx, c); err != nil {
			return err
		}
		expectUntouched(t, ctx)
		_, err = ctx.EndMethod()
		return err
	})
	return out, err
}

func expectUntouched(t *testing.T, ctx *build.Context) {
	t.Helper()
	if n, _ := ctx.CodeLen(); n != 0 {
		t.Errorf("compilation left %d instructions in the method", n)
	}
	if n, _ := ctx.StackSize(); n != 0 {
		t.Errorf("compilation left %d stack slots", n)
	}
}

func TestCompileCondition_Tests(t *testing.T) {
	tests := []struct {
		name string
		cond Condition
		code []string
		jump vm.Opcode
	}{
		{"int", Compare(Local("i"), LT, Int(10)), []string{"ILOAD 0", "BIPUSH 10"}, vm.IF_ICMPLT},
		{"long with int", Compare(Local("l"), GE, Local("i")), []string{"LLOAD 1", "ILOAD 0", "I2L", "LCMP"}, vm.IFGE},
		{"double less", Compare(Local("d"), LT, Local("boxed")),
			[]string{"DLOAD 3", "ALOAD 5", "INVOKEVIRTUAL java/lang/Double.doubleValue ()D", "DCMPG"}, vm.IFLT},
		{"boxed double equals", Compare(Local("boxed"), EQ, Double(1.5)),
			[]string{"ALOAD 5", "INVOKEVIRTUAL java/lang/Double.doubleValue ()D", "LDC 1.5", "DCMPL"}, vm.IFEQ},
		{"boxed int with double", Compare(Local("n"), GT, Local("d")),
			[]string{"ALOAD 7", "INVOKEVIRTUAL java/lang/Integer.intValue ()I", "I2D", "DLOAD 3", "DCMPL"}, vm.IFGT},
		{"float", Compare(Local("fl"), LE, Int(2)), []string{"FLOAD 9", "ICONST_2", "I2F", "FCMPG"}, vm.IFLE},
		{"true", IsTrue(Local("f")), []string{"ILOAD 8"}, vm.IFNE},
		{"false", IsFalse(Local("f")), []string{"ILOAD 8"}, vm.IFEQ},
		{"boolean equals", Compare(Local("f"), NE, Bool(true)), []string{"ILOAD 8", "ICONST_1"}, vm.IF_ICMPNE},
		{"null", IsNull(Local("s")), []string{"ALOAD 6"}, vm.IFNULL},
		{"not null", NotNull(Local("s")), []string{"ALOAD 6"}, vm.IFNONNULL},
		{"reference equals null", Compare(Local("s"), EQ, Null()), []string{"ALOAD 6", "ACONST_NULL"}, vm.IF_ACMPEQ},
		{"reference identity", Compare(Local("n"), NE, Local("boxed")), []string{"ALOAD 7", "ALOAD 5"}, vm.IF_ACMPNE},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := compileIn(t, tt.cond)
			if err != nil {
				t.Fatalf("CompileCondition failed: %v", err)
			}
			test, ok := got.(*Test)
			if !ok {
				t.Fatalf("compiled %T, want *Test", got)
			}
			if strings.Join(listing(test.Code), "; ") != strings.Join(tt.code, "; ") {
				t.Errorf("code = %v, want %v", listing(test.Code), tt.code)
			}
			if test.Jump != tt.jump {
				t.Errorf("jump = %v, want %v", test.Jump, tt.jump)
			}
		})
	}
}

func TestCompileCondition_Compound(t *testing.T) {
	cond := Compare(Local("i"), LT, Int(10)).And(Group(IsNull(Local("s")).Or(IsTrue(Local("f")))))
	got, err := compileIn(t, cond)
	if err != nil {
		t.Fatalf("CompileCondition failed: %v", err)
	}
	root, ok := got.(*Junction)
	if !ok || root.Kind != AllOf || len(root.Children) != 2 {
		t.Fatalf("compiled %#v, want AllOf junction with two children", got)
	}
	if first := root.Children[0].(*Test); first.Jump != vm.IF_ICMPLT {
		t.Errorf("first jump = %v, want IF_ICMPLT", first.Jump)
	}
	inner, ok := root.Children[1].(*Junction)
	if !ok || inner.Kind != AnyOf || len(inner.Children) != 2 {
		t.Fatalf("second child %#v, want AnyOf junction", root.Children[1])
	}
	if jump := inner.Children[0].(*Test).Jump; jump != vm.IFNULL {
		t.Errorf("inner jump = %v, want IFNULL", jump)
	}

	inverted, err := compileIn(t, cond.Invert())
	if err != nil {
		t.Fatalf("CompileCondition of inverse failed: %v", err)
	}
	root = inverted.(*Junction)
	if root.Kind != AnyOf || root.Children[0].(*Test).Jump != vm.IF_ICMPGE {
		t.Errorf("inverse compiled to %#v", root)
	}
}

func TestCompileCondition_Errors(t *testing.T) {
	usage := []struct {
		name string
		cond Condition
		want string
	}{
		{"ordering references", Compare(Local("s"), LT, Null()), "cannot compare references"},
		{"ordering booleans", Compare(Local("f"), GT, Bool(false)), "cannot compare booleans"},
		{"invalid tree", All(IsTrue(Local("f"))), "needs at least two conditions"},
	}
	for _, tt := range usage {
		t.Run(tt.name, func(t *testing.T) {
			_, err := compileIn(t, tt.cond)
			requireError[*typesystem.UsageError](t, err, tt.want)
		})
	}

	conversion := []struct {
		name string
		cond Condition
		want string
	}{
		{"primitive null check", IsNull(Local("i")), "cannot implicitly convert int to null"},
		{"primitive against null", Compare(Local("i"), EQ, Null()), "cannot implicitly convert int to null"},
		{"primitive against reference", Compare(Local("i"), EQ, Local("s")), "cannot implicitly convert java.lang.String to int"},
		{"boolean against int", Compare(Local("f"), EQ, Int(1)), "booleans only compare with booleans"},
		{"non-boolean check", IsTrue(Local("i")), "condition needs a boolean"},
	}
	for _, tt := range conversion {
		t.Run(tt.name, func(t *testing.T) {
			_, err := compileIn(t, tt.cond)
			requireError[*typesystem.ConversionError](t, err, tt.want)
		})
	}
}

func TestCompileCondition_NoActiveBuild(t *testing.T) {
	ctx := newContext(t)
	_, err := CompileCondition(ctx, IsTrue(Bool(true)))
	requireError[*typesystem.UsageError](t, err, "no active build")
}

func TestCompileCondition_Otherwise(t *testing.T) {
	tests := []struct {
		cond Condition
		want vm.Opcode
	}{
		{Compare(Local("i"), LT, Int(10)), vm.IF_ICMPGE},
		{Compare(Local("d"), LE, Local("boxed")), vm.IFGT},
		{IsTrue(Local("f")), vm.IFEQ},
		{NotNull(Local("s")), vm.IFNULL},
		{Compare(Local("s"), EQ, Null()), vm.IF_ACMPNE},
	}
	for _, tt := range tests {
		got, err := compileIn(t, tt.cond)
		if err != nil {
			t.Fatalf("CompileCondition failed: %v", err)
		}
		test := got.(*Test)
		if test.Otherwise() != tt.want {
			t.Errorf("Otherwise() after %v = %v, want %v", test.Jump, test.Otherwise(), tt.want)
		}
		inverse, err := compileIn(t, tt.cond.Invert())
		if err != nil {
			t.Fatalf("CompileCondition of inverse failed: %v", err)
		}
		if j := inverse.(*Test).Jump; j != test.Otherwise() {
			t.Errorf("inverse jump = %v, want %v", j, test.Otherwise())
		}
	}
}
