package consteval

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"annocheck/internal/ast"
	"annocheck/internal/diag"
	"annocheck/internal/symbols"
	"annocheck/internal/types"
)

func lit(kind ast.LitKind, text string) *ast.Expr {
	return &ast.Expr{Kind: ast.ExprLiteral, Lit: kind, Text: text}
}

func intLit(text string) *ast.Expr { return lit(ast.LitInt, text) }

func str(s string) *ast.Expr { return lit(ast.LitString, `"`+s+`"`) }

func name(n string) *ast.Expr { return &ast.Expr{Kind: ast.ExprName, Name: n} }

func bin(op string, x, y *ast.Expr) *ast.Expr {
	return &ast.Expr{Kind: ast.ExprBinary, Op: op, X: x, Y: y}
}

func un(op string, x *ast.Expr) *ast.Expr {
	return &ast.Expr{Kind: ast.ExprUnary, Op: op, X: x}
}

func arr(elems ...*ast.Expr) *ast.Expr {
	return &ast.Expr{Kind: ast.ExprArrayInit, Elems: elems}
}

func classLit(t string) *ast.Expr {
	return &ast.Expr{Kind: ast.ExprClassLit, Type: ast.ParseTypeRef(t)}
}

func staticFinal(typ, n string, init *ast.Expr) *ast.FieldDecl {
	return &ast.FieldDecl{Name: n, Type: ast.ParseTypeRef(typ), Modifiers: ast.ModStatic | ast.ModFinal, Init: init}
}

type fixture struct {
	table *symbols.Table
	ev    *Evaluator
	x     *symbols.Type
}

// newFixture declares class X with the given fields plus enum Color in
// package p.
func newFixture(t *testing.T, fields ...*ast.FieldDecl) *fixture {
	t.Helper()
	tab := symbols.NewTable()
	x := &ast.TypeDecl{
		Kind:       ast.KindClass,
		Name:       "X",
		TypeParams: []*ast.TypeParam{{Name: "T"}},
		Fields:     fields,
	}
	color := &ast.TypeDecl{Kind: ast.KindEnum, Name: "Color", Constants: []*ast.EnumConstant{{Name: "RED"}, {Name: "GREEN"}}}
	tab.AddUnit(&ast.CompilationUnit{Path: "X.java", Package: "p", Types: []*ast.TypeDecl{x, color}})
	tab.Link()
	return &fixture{table: tab, ev: New(tab, nil), x: tab.Of(x)}
}

func (f *fixture) ctx() Context {
	return Context{Scope: symbols.Scope{Unit: f.x.Decl.Unit, Type: f.x}, Owner: "Anno", Attr: "value"}
}

type problem struct {
	Code diag.Code
	Args []string
}

func strip(ps []Problem) []problem {
	var out []problem
	for _, p := range ps {
		out = append(out, problem{Code: p.Code, Args: p.Args})
	}
	return out
}

func TestEvaluateValues(t *testing.T) {
	f := newFixture(t,
		staticFinal("int", "B", intLit("2")),
		staticFinal("int", "A", bin("+", name("B"), intLit("1"))),
		staticFinal("String", "S", bin("+", str("a"), name("A"))),
	)
	boolArr := types.ArrayOf(types.Primitive(types.PrimBoolean))
	cases := []struct {
		name     string
		expr     *ast.Expr
		expected types.AttrType
		want     string
	}{
		{"auto-wrap", lit(ast.LitBool, "false"), boolArr, "[false]"},
		{"array initializer", arr(lit(ast.LitBool, "true"), lit(ast.LitBool, "false")), boolArr, "[true, false]"},
		{"empty array", arr(), types.ArrayOf(types.String()), "[]"},
		{"narrow to byte", intLit("100"), types.Primitive(types.PrimByte), "100"},
		{"widen to long", intLit("7"), types.Primitive(types.PrimLong), "7L"},
		{"widen to double", intLit("7"), types.Primitive(types.PrimDouble), "7.0"},
		{"char to int", lit(ast.LitChar, `'A'`), types.Primitive(types.PrimInt), "65"},
		{"int overflow wraps", bin("*", intLit("0x7fffffff"), intLit("2")), types.Primitive(types.PrimInt), "-2"},
		{"shift", bin(">>>", un("-", intLit("1")), intLit("28")), types.Primitive(types.PrimInt), "15"},
		{"string concat", bin("+", bin("+", bin("+", str("a"), intLit("1")), lit(ast.LitChar, `'c'`)), lit(ast.LitFloat, "1.5f")), types.String(), `"a1c1.5"`},
		{"numeric before string", bin("+", bin("+", intLit("1"), intLit("2")), str("x")), types.String(), `"3x"`},
		{"field chain", name("A"), types.Primitive(types.PrimInt), "3"},
		{"qualified field", name("X.S"), types.String(), `"a3"`},
		{"builtin constant", name("Integer.MAX_VALUE"), types.Primitive(types.PrimLong), "2147483647L"},
		{"qualified enum", name("Color.RED"), types.Enum("p.Color", "Color"), "Color.RED"},
		{"unqualified enum", name("GREEN"), types.Enum("p.Color", "Color"), "Color.GREEN"},
		{"class literal", classLit("String"), types.Class("Class<?>"), "String.class"},
		{"primitive class literal", classLit("int"), types.Class("Class<?>"), "int.class"},
		{"cast narrows", &ast.Expr{Kind: ast.ExprCast, Type: ast.ParseTypeRef("byte"), X: intLit("300")}, types.Primitive(types.PrimByte), "44"},
		{"escape", lit(ast.LitString, `"a\tbA"`), types.String(), `"a\tbA"`},
		{"min int", un("-", intLit("2147483648")), types.Primitive(types.PrimInt), "-2147483648"},
		{"min long", un("-", lit(ast.LitLong, "9223372036854775808L")), types.Primitive(types.PrimLong), "-9223372036854775808L"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, problems := f.ev.Evaluate(f.ctx(), tc.expr, tc.expected)
			if len(problems) != 0 {
				t.Fatalf("unexpected problems: %v", strip(problems))
			}
			if got.String() != tc.want {
				t.Errorf("got %s, want %s", got, tc.want)
			}
		})
	}
}

func TestEvaluateProblems(t *testing.T) {
	arrField := &ast.FieldDecl{Name: "VALUES", Type: ast.ParseTypeRef("int[]"), Modifiers: ast.ModStatic | ast.ModFinal, Init: arr(intLit("1"))}
	private := staticFinal("int", "HIDDEN", intLit("1"))
	f := newFixture(t,
		arrField,
		staticFinal("p.Color", "FAV", name("Color.RED")),
		&ast.FieldDecl{Name: "counter", Type: ast.ParseTypeRef("int"), Modifiers: ast.ModStatic, Init: intLit("0")},
	)
	other := &ast.TypeDecl{Kind: ast.KindClass, Name: "Other", Fields: []*ast.FieldDecl{private}}
	private.Modifiers |= ast.ModPrivate
	f.table.AddUnit(&ast.CompilationUnit{Path: "Other.java", Package: "q", Types: []*ast.TypeDecl{other}})
	f.table.Link()

	strT := types.String()
	intT := types.Primitive(types.PrimInt)
	color := types.Enum("p.Color", "Color")
	anno := types.Annotation("p.Foo", "Foo")
	cases := []struct {
		name     string
		expr     *ast.Expr
		expected types.AttrType
		want     []problem
	}{
		{"null string array", &ast.Expr{Kind: ast.ExprNull}, types.ArrayOf(strT), []problem{{diag.AnnotationValueMustBeConstant, []string{"Anno", "value"}}}},
		{"null enum", &ast.Expr{Kind: ast.ExprNull}, color, []problem{{diag.AnnotationValueMustBeAnEnumConstant, []string{"Anno", "value"}}}},
		{"null annotation array", &ast.Expr{Kind: ast.ExprNull}, types.ArrayOf(anno), []problem{{diag.AnnotationValueMustBeAnnotation, []string{"Anno", "value", "Foo"}}}},
		{"string for annotation", str0(), types.ArrayOf(anno), []problem{{diag.AnnotationValueMustBeAnnotation, []string{"Anno", "value", "Foo"}}}},
		{"call", &ast.Expr{Kind: ast.ExprCall}, intT, []problem{{diag.AnnotationValueMustBeConstant, []string{"Anno", "value"}}}},
		{"call for class", &ast.Expr{Kind: ast.ExprCall}, types.Class("Class"), []problem{{diag.AnnotationValueMustBeClassLiteral, []string{"Anno", "value"}}}},
		{"non-final field", name("counter"), intT, []problem{{diag.AnnotationValueMustBeConstant, []string{"Anno", "value"}}}},
		{"enum typed field", name("X.FAV"), color, []problem{{diag.AnnotationValueMustBeAnEnumConstant, []string{"Anno", "value"}}}},
		{"array field", name("VALUES"), types.ArrayOf(intT), []problem{{diag.AnnotationValueMustBeArrayInitializer, []string{"Anno", "value"}}}},
		{"array field to scalar", name("VALUES"), intT, []problem{{diag.TypeMismatch, []string{"int[]", "int"}}}},
		{"new array", &ast.Expr{Kind: ast.ExprNew}, types.ArrayOf(intT), []problem{{diag.AnnotationValueMustBeArrayInitializer, []string{"Anno", "value"}}}},
		{"long to int", lit(ast.LitLong, "1L"), intT, []problem{{diag.TypeMismatch, []string{"long", "int"}}}},
		{"too big for byte", intLit("200"), types.Primitive(types.PrimByte), []problem{{diag.TypeMismatch, []string{"int", "byte"}}}},
		{"empty initializer to scalar", arr(), types.Primitive(types.PrimBoolean), []problem{{diag.TypeMismatch, []string{"Object[]", "boolean"}}}},
		{"int in string array", arr(intLit("0")), types.ArrayOf(strT), []problem{{diag.TypeMismatch, []string{"int", "String"}}}},
		{"nested initializer", arr(arr(intLit("1"), intLit("2")), arr(intLit("3"))), types.ArrayOf(intT), []problem{
			{diag.AnnotationValueMustBeConstant, []string{"Anno", "value"}},
			{diag.AnnotationValueMustBeConstant, []string{"Anno", "value"}},
		}},
		{"unknown name", bin("+", &ast.Expr{Kind: ast.ExprCall}, name("s")), strT, []problem{{diag.UndefinedName, []string{"s"}}}},
		{"unknown field", name("Color.BLUE"), color, []problem{{diag.UndefinedField, []string{"BLUE"}}}},
		{"type variable class literal", classLit("T"), types.Class("Class"), []problem{{diag.IllegalClassLiteralForTypeVariable, []string{"T"}}}},
		{"unknown class literal", classLit("M"), types.Class("Class"), []problem{{diag.UndefinedType, []string{"M"}}}},
		{"generic array class literal", classLit("java.util.List<String>[]"), types.Class("Class"), []problem{{diag.IllegalGenericArray, []string{"java.util.List<String>"}}}},
		{"not visible", name("q.Other.HIDDEN"), intT, []problem{{diag.NotVisibleField, []string{"Other", "HIDDEN"}}}},
		{"enum of wrong kind", intLit("1"), color, []problem{{diag.TypeMismatch, []string{"int", "Color"}}}},
		{"int out of range", intLit("2147483648"), intT, []problem{{diag.NumericValueOutOfRange, []string{"2147483648", "int"}}}},
		{"long out of range", lit(ast.LitLong, "9223372036854775808L"), types.Primitive(types.PrimLong), []problem{{diag.NumericValueOutOfRange, []string{"9223372036854775808L", "long"}}}},
		{"parenthesized min int", un("-", &ast.Expr{Kind: ast.ExprParen, X: intLit("2147483648")}), intT, []problem{{diag.NumericValueOutOfRange, []string{"2147483648", "int"}}}},
		{"too large under minus", un("-", intLit("2147483649")), intT, []problem{{diag.NumericValueOutOfRange, []string{"2147483649", "int"}}}},
		{"in a sum", bin("+", intLit("1"), intLit("2147483648")), intT, []problem{{diag.NumericValueOutOfRange, []string{"2147483648", "int"}}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, problems := f.ev.Evaluate(f.ctx(), tc.expr, tc.expected)
			if diff := cmp.Diff(tc.want, strip(problems)); diff != "" {
				t.Errorf("problems (-want +got):\n%s", diff)
			}
		})
	}
}

func str0() *ast.Expr { return str("") }

func TestForwardReference(t *testing.T) {
	yyy := staticFinal("int", "yyy", intLit("0"))
	zzz := staticFinal("int", "zzz", intLit("0"))
	f := newFixture(t, yyy, zzz)
	ctx := f.ctx()
	ctx.Field = f.x.OwnField("zzz")

	intT := types.Primitive(types.PrimInt)
	_, problems := f.ev.Evaluate(ctx, name("zzz"), intT)
	want := []problem{{Code: diag.ReferenceToForwardField}}
	if diff := cmp.Diff(want, strip(problems)); diff != "" {
		t.Errorf("self reference (-want +got):\n%s", diff)
	}
	if v, problems := f.ev.Evaluate(ctx, name("yyy"), intT); len(problems) != 0 || v.String() != "0" {
		t.Errorf("backward reference: %s %v", v, strip(problems))
	}
	// qualified references are not forward references
	if v, problems := f.ev.Evaluate(ctx, name("X.zzz"), intT); len(problems) != 0 || v.String() != "0" {
		t.Errorf("qualified reference: %s %v", v, strip(problems))
	}
}

func TestFieldCycleIsNotConstant(t *testing.T) {
	f := newFixture(t,
		staticFinal("int", "A", name("B")),
		staticFinal("int", "B", name("A")),
	)
	_, problems := f.ev.Evaluate(f.ctx(), name("A"), types.Primitive(types.PrimInt))
	want := []problem{{diag.AnnotationValueMustBeConstant, []string{"Anno", "value"}}}
	if diff := cmp.Diff(want, strip(problems)); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestLocals(t *testing.T) {
	f := newFixture(t)
	zzz := &ast.LocalVar{Name: "zzz", Type: ast.ParseTypeRef("int"), Modifiers: ast.ModFinal, Init: intLit("0")}
	kkk := &ast.LocalVar{Name: "kkk", Type: ast.ParseTypeRef("int"), Init: intLit("1")}
	ctx := f.ctx()
	ctx.Locals = []*ast.LocalVar{zzz, kkk}
	intT := types.Primitive(types.PrimInt)

	if v, problems := f.ev.Evaluate(ctx, name("zzz"), intT); len(problems) != 0 || v.String() != "0" {
		t.Errorf("final local: %s %v", v, strip(problems))
	}
	_, problems := f.ev.Evaluate(ctx, name("kkk"), intT)
	want := []problem{{diag.AnnotationValueMustBeConstant, []string{"Anno", "value"}}}
	if diff := cmp.Diff(want, strip(problems)); diff != "" {
		t.Errorf("non-final local (-want +got):\n%s", diff)
	}
}

func TestNestedAnnotation(t *testing.T) {
	f := newFixture(t)
	f.ev = New(f.table, func(ctx Context, ann *ast.Annotation) types.Value {
		if ann.Name == "Missing" {
			return types.ErrorValue()
		}
		return types.AnnValue(&types.AnnotationValue{Type: "p." + ann.Name})
	})
	foo := types.Annotation("p.Foo", "Foo")
	nested := func(n string) *ast.Expr {
		return &ast.Expr{Kind: ast.ExprAnnotation, Annotation: &ast.Annotation{Name: n}}
	}
	if v, problems := f.ev.Evaluate(f.ctx(), nested("Foo"), types.ArrayOf(foo)); len(problems) != 0 || v.String() != "[@Foo()]" {
		t.Errorf("nested: %s %v", v, strip(problems))
	}
	_, problems := f.ev.Evaluate(f.ctx(), nested("Bar"), foo)
	want := []problem{{diag.TypeMismatch, []string{"Bar", "Foo"}}}
	if diff := cmp.Diff(want, strip(problems)); diff != "" {
		t.Errorf("wrong nested type (-want +got):\n%s", diff)
	}
	if _, problems := f.ev.Evaluate(f.ctx(), nested("Missing"), foo); len(problems) != 0 {
		t.Errorf("unresolved nested annotation reports through the callback: %v", strip(problems))
	}
}

func TestJavaFloat(t *testing.T) {
	cases := []struct {
		f      float64
		single bool
		want   string
	}{
		{1.5, true, "1.5"},
		{100, false, "100.0"},
		{1e10, false, "1.0E10"},
		{0.0001, false, "1.0E-4"},
		{float64(float32(0.1)), true, "0.1"},
	}
	for _, tc := range cases {
		if got := javaFloat(tc.f, tc.single); got != tc.want {
			t.Errorf("javaFloat(%v) = %q, want %q", tc.f, got, tc.want)
		}
	}
}
