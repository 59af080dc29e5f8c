package javasrc

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"annocheck/internal/ast"
	"annocheck/internal/diag"
	"annocheck/internal/source"
	"annocheck/internal/testkit"
)

func parse(t *testing.T, src string) (*ast.CompilationUnit, *diag.Bag, *source.FileSet) {
	t.Helper()
	fs := source.NewFileSet()
	bag := diag.NewBag(0)
	u, err := ParseSource(fs, "Test.java", []byte(src), Options{Reporter: &diag.BagReporter{Bag: bag}})
	if err != nil {
		t.Fatalf("ParseSource: %v", err)
	}
	if err := testkit.CheckSpanInvariants(u, fs.Get(u.File)); err != nil {
		t.Fatalf("span invariants: %v", err)
	}
	return u, bag, fs
}

func findType(t *testing.T, u *ast.CompilationUnit, name string) *ast.TypeDecl {
	t.Helper()
	var find func([]*ast.TypeDecl) *ast.TypeDecl
	find = func(decls []*ast.TypeDecl) *ast.TypeDecl {
		for _, d := range decls {
			if d.Name == name {
				return d
			}
			if got := find(d.Types); got != nil {
				return got
			}
		}
		return nil
	}
	d := find(u.Types)
	if d == nil {
		t.Fatalf("type %s not found", name)
	}
	return d
}

func findMethod(t *testing.T, d *ast.TypeDecl, name string) *ast.MethodDecl {
	t.Helper()
	for _, m := range d.Methods {
		if m.Name == name {
			return m
		}
	}
	t.Fatalf("method %s not found in %s", name, d.Name)
	return nil
}

func TestPackageAndImports(t *testing.T) {
	u, bag, _ := parse(t, `package a.b;

import java.util.List;
import java.util.Map;
import java.io.*;
import static java.lang.annotation.ElementType.FIELD;

class X {
	List<String> items;
}
`)
	if bag.Len() != 0 || u.SyntaxErrors != 0 {
		t.Fatalf("unexpected syntax errors: %d", u.SyntaxErrors)
	}
	if u.Package != "a.b" {
		t.Errorf("Package = %q", u.Package)
	}
	type imp struct {
		Path             string
		Static, OnDemand bool
		Used             bool
	}
	var got []imp
	for _, i := range u.Imports {
		got = append(got, imp{i.Path, i.Static, i.OnDemand, i.Used})
	}
	want := []imp{
		{"java.util.List", false, false, true},
		{"java.util.Map", false, false, false},
		{"java.io", false, true, true},
		{"java.lang.annotation.ElementType.FIELD", true, false, false},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("imports (-want +got):\n%s", diff)
	}
}

func TestAnnotationTypeDeclaration(t *testing.T) {
	u, _, _ := parse(t, `package p;

import java.lang.annotation.*;

@Target({ElementType.METHOD, ElementType.TYPE})
@Retention(RetentionPolicy.RUNTIME)
public @interface Anno {
	int id() default 1 + 2;
	String[] names() default {"a", "b"};
	Class<? extends Throwable> error();
	Other other() default @Other;
	int LIMIT = 10;
}
`)
	d := findType(t, u, "Anno")
	if d.Kind != ast.KindAnnotation || !d.Modifiers.Has(ast.ModPublic) {
		t.Fatalf("kind %v mods %v", d.Kind, d.Modifiers)
	}
	if len(d.Annotations) != 2 {
		t.Fatalf("annotations = %d", len(d.Annotations))
	}
	target := d.Annotations[0]
	if target.Name != "Target" || target.Form != ast.FormSingle || len(target.Pairs) != 1 {
		t.Fatalf("unexpected @Target %+v", target)
	}
	if v := target.Pairs[0].Value; v.Kind != ast.ExprArrayInit || len(v.Elems) != 2 {
		t.Fatalf("@Target value = %v", v.Kind)
	} else if e := v.Elems[0]; e.Kind != ast.ExprFieldAccess || e.Name != "METHOD" || e.X.Name != "ElementType" {
		t.Errorf("@Target element = %+v", e)
	}

	type attr struct {
		Name, Type string
		Default    ast.ExprKind
	}
	var got []attr
	for _, m := range d.Methods {
		a := attr{Name: m.Name, Type: m.Result.String()}
		if m.Default != nil {
			a.Default = m.Default.Kind
		}
		got = append(got, a)
	}
	want := []attr{
		{"id", "int", ast.ExprBinary},
		{"names", "String[]", ast.ExprArrayInit},
		{"error", "Class<? extends Throwable>", ast.ExprInvalid},
		{"other", "Other", ast.ExprAnnotation},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("attributes (-want +got):\n%s", diff)
	}
	if len(d.Fields) != 1 || d.Fields[0].Name != "LIMIT" || d.Fields[0].Init == nil {
		t.Fatalf("fields = %+v", d.Fields)
	}
}

func TestAnnotationForms(t *testing.T) {
	u, _, _ := parse(t, `class X {
	@A @B() @C(1) @D(x = 'c', y = 2L, z = 1.5f) @java.lang.Deprecated
	void m() {}
}
`)
	m := findMethod(t, findType(t, u, "X"), "m")
	type form struct {
		Name  string
		Form  ast.AnnotationForm
		Pairs []string
	}
	var got []form
	for _, a := range m.Annotations {
		f := form{Name: a.Name, Form: a.Form}
		for _, p := range a.Pairs {
			f.Pairs = append(f.Pairs, p.Name)
		}
		got = append(got, f)
	}
	want := []form{
		{"A", ast.FormMarker, nil},
		{"B", ast.FormNormal, nil},
		{"C", ast.FormSingle, []string{"value"}},
		{"D", ast.FormNormal, []string{"x", "y", "z"}},
		{"java.lang.Deprecated", ast.FormMarker, nil},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("forms (-want +got):\n%s", diff)
	}
	d := m.Annotations[3]
	lits := []ast.LitKind{d.Pairs[0].Value.Lit, d.Pairs[1].Value.Lit, d.Pairs[2].Value.Lit}
	if diff := cmp.Diff([]ast.LitKind{ast.LitChar, ast.LitLong, ast.LitFloat}, lits); diff != "" {
		t.Errorf("literal kinds (-want +got):\n%s", diff)
	}
	if !m.Annotations[2].Pairs[0].NameSpan.Empty() {
		t.Error("single-member pair must have an empty name span")
	}
}

func TestMembersAndLocals(t *testing.T) {
	u, _, _ := parse(t, `class X<T> extends Base implements java.io.Serializable, Comparable<X<T>> {
	private int unused;
	private int read;
	static final long serialVersionUID = 1L;

	X() {}

	@Override
	public <E> int compareTo(X<T> other, E... rest) {
		int a = read;
		int b = 2, c = a;
		@SuppressWarnings("unused") int d;
		class Local {}
		Runnable r = new Runnable() {
			public void run() {
				int hidden = 0;
				class InAnonymous {}
			}
		};
		return c;
	}
}
`)
	x := findType(t, u, "X")
	if x.Superclass == nil || x.Superclass.Name != "Base" {
		t.Fatalf("superclass = %v", x.Superclass)
	}
	var ifaces []string
	for _, i := range x.Interfaces {
		ifaces = append(ifaces, i.String())
	}
	if diff := cmp.Diff([]string{"java.io.Serializable", "Comparable<X<T>>"}, ifaces); diff != "" {
		t.Errorf("interfaces (-want +got):\n%s", diff)
	}
	if len(x.TypeParams) != 1 || x.TypeParams[0].Name != "T" {
		t.Errorf("type params = %+v", x.TypeParams)
	}

	used := map[string]bool{}
	for _, f := range x.Fields {
		used[f.Name] = f.Used
	}
	if used["unused"] || !used["read"] {
		t.Errorf("field usage = %v", used)
	}

	ctor := findMethod(t, x, "X")
	if !ctor.Constructor || ctor.Result != nil {
		t.Errorf("constructor = %+v", ctor)
	}

	m := findMethod(t, x, "compareTo")
	if m.Signature() != "compareTo(X<T>, E[])" {
		t.Errorf("Signature = %q", m.Signature())
	}
	if !m.Params[1].Varargs || len(m.TypeParams) != 1 {
		t.Errorf("params = %+v", m.Params)
	}
	type local struct {
		Name string
		Used bool
		Anns int
	}
	var locals []local
	for _, l := range m.Locals {
		locals = append(locals, local{l.Name, l.Used, len(l.Annotations)})
	}
	want := []local{{"a", true, 0}, {"b", false, 0}, {"c", true, 0}, {"d", false, 1}, {"r", false, 0}}
	if diff := cmp.Diff(want, locals); diff != "" {
		t.Errorf("locals (-want +got):\n%s", diff)
	}
	var localTypes []string
	for _, lt := range m.LocalTypes {
		localTypes = append(localTypes, lt.Name)
	}
	if diff := cmp.Diff([]string{"Local", "InAnonymous"}, localTypes); diff != "" {
		t.Errorf("local types (-want +got):\n%s", diff)
	}
}

func TestEnumAndRecord(t *testing.T) {
	u, _, _ := parse(t, `enum Color implements Runnable {
	@Deprecated RED, GREEN;
	public void run() {}
}
record Point(@Deprecated int x, int y) {}
`)
	color := findType(t, u, "Color")
	if color.Kind != ast.KindEnum || len(color.Constants) != 2 || len(color.Methods) != 1 {
		t.Fatalf("enum = %+v", color)
	}
	if len(color.Constants[0].Annotations) != 1 || color.Constants[1].Name != "GREEN" {
		t.Errorf("constants = %+v", color.Constants)
	}
	point := findType(t, u, "Point")
	if point.Kind != ast.KindRecord || len(point.Fields) != 2 || len(point.Fields[0].Annotations) != 1 {
		t.Fatalf("record = %+v", point)
	}
}

func TestDeprecatedJavadoc(t *testing.T) {
	u, _, _ := parse(t, `/**
 * Old.
 * @deprecated use New
 */
class Old {
	/** @deprecated */
	int f;
	/** Mentions @deprecated inline only. */
	int g;
	/* @deprecated but not javadoc */
	void m() {}
}
`)
	old := findType(t, u, "Old")
	if !old.Deprecated {
		t.Error("class Javadoc @deprecated not seen")
	}
	if !old.Fields[0].Deprecated || old.Fields[1].Deprecated {
		t.Errorf("fields deprecated = %v, %v", old.Fields[0].Deprecated, old.Fields[1].Deprecated)
	}
	if findMethod(t, old, "m").Deprecated {
		t.Error("block comment is not Javadoc")
	}
}

func TestStringLiterals(t *testing.T) {
	u, _, fs := parse(t, `class X {
	@SuppressWarnings("nls")
	String a = "one", b = "two"; //$NON-NLS-2$
	String c = "three"; //$NON-NLS-1$
}
`)
	type lit struct {
		Text   string
		Index  int
		Tagged bool
	}
	f := fs.Get(u.File)
	var got []lit
	for _, l := range u.Literals {
		got = append(got, lit{f.Text(l.Span), l.Index, l.Tagged})
	}
	want := []lit{
		{`"one"`, 1, false},
		{`"two"`, 2, true},
		{`"three"`, 1, true},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("literals (-want +got):\n%s", diff)
	}
}

func TestIdentifiersAreNFC(t *testing.T) {
	u, _, _ := parse(t, "class Cafe\u0301 {}\n")
	if got := u.Types[0].Name; got != "Café" {
		t.Errorf("Name = %q", got)
	}
}

func TestSyntaxErrors(t *testing.T) {
	u, bag, _ := parse(t, `class X {
	int a = 1
	int b;
}
`)
	if u.SyntaxErrors == 0 {
		t.Fatal("missing semicolon not reported")
	}
	if bag.Len() != u.SyntaxErrors {
		t.Errorf("bag has %d diagnostics, unit counts %d", bag.Len(), u.SyntaxErrors)
	}
	for _, d := range bag.Items() {
		if d.Code != diag.ParsingErrorInsertToken && d.Code != diag.ParsingErrorDeleteToken {
			t.Errorf("unexpected code %v", d.Code)
		}
		if !d.Code.Mandatory() || d.Severity != diag.SevError {
			t.Errorf("syntax errors are mandatory errors: %v %v", d.Code, d.Severity)
		}
	}
	findType(t, u, "X")
}

func TestMaxErrors(t *testing.T) {
	fs := source.NewFileSet()
	bag := diag.NewBag(0)
	u, err := ParseSource(fs, "Bad.java", []byte("class X { int a = 1 int b = 2 int c = 3 }"), Options{
		MaxErrors: 1,
		Reporter:  &diag.BagReporter{Bag: bag},
	})
	if err != nil {
		t.Fatal(err)
	}
	if bag.Len() != 1 {
		t.Errorf("reported %d errors, want 1", bag.Len())
	}
	if u.SyntaxErrors < bag.Len() {
		t.Errorf("SyntaxErrors = %d", u.SyntaxErrors)
	}
}

func TestConstruct(t *testing.T) {
	if got := construct(nil); got != "CompilationUnit" {
		t.Errorf("construct(nil) = %q", got)
	}
	if got := firstToken("  foo bar "); got != "foo" {
		t.Errorf("firstToken = %q", got)
	}
}

func TestIllegalAnnotationTypeShapes(t *testing.T) {
	u, bag, fs := parse(t, `public @interface Foo extends Object {
}
@interface Bar implements Cloneable, java.io.Serializable {
	Bar() {}
	int foo(int a, final String... rest);
	<T> T bar();
	String ok() default "(";
}
@interface Gen<T> {}
`)
	if bag.Len() != 0 || u.SyntaxErrors != 0 {
		t.Fatalf("unexpected syntax errors:\n%s", diag.FormatShortDiagnostics(bag.Items(), fs, false))
	}

	foo := findType(t, u, "Foo")
	if foo.Superclass == nil || foo.Superclass.Name != "Object" {
		t.Fatalf("Foo superclass = %+v", foo.Superclass)
	}
	if got := fs.Get(u.File).Content[foo.Superclass.Span.Start:foo.Superclass.Span.End]; string(got) != "Object" {
		t.Errorf("superclass span covers %q", got)
	}

	bar := findType(t, u, "Bar")
	var ifaces []string
	for _, ref := range bar.Interfaces {
		ifaces = append(ifaces, ref.String())
	}
	if diff := cmp.Diff([]string{"Cloneable", "java.io.Serializable"}, ifaces); diff != "" {
		t.Errorf("interfaces (-want +got):\n%s", diff)
	}

	type param struct {
		Name, Type string
		Varargs    bool
	}
	var params []param
	for _, p := range findMethod(t, bar, "foo").Params {
		params = append(params, param{p.Name, p.Type.String(), p.Varargs})
	}
	if diff := cmp.Diff([]param{{"a", "int", false}, {"rest", "String[]", true}}, params); diff != "" {
		t.Errorf("foo params (-want +got):\n%s", diff)
	}

	generic := findMethod(t, bar, "bar")
	if len(generic.TypeParams) != 1 || generic.TypeParams[0].Name != "T" || generic.Result.String() != "T" {
		t.Errorf("bar = %+v", generic)
	}
	ok := findMethod(t, bar, "ok")
	if len(ok.Params) != 0 || ok.Default == nil || ok.Default.Kind != ast.ExprLiteral {
		t.Errorf("ok = %+v", ok)
	}

	var ctors int
	for _, m := range bar.Methods {
		if m.Constructor {
			ctors++
			if m.Name != "Bar" {
				t.Errorf("constructor name = %q", m.Name)
			}
		}
	}
	if ctors != 1 {
		t.Errorf("constructors = %d, want 1", ctors)
	}

	gen := findType(t, u, "Gen")
	if len(gen.TypeParams) != 1 || gen.TypeParams[0].Name != "T" {
		t.Errorf("Gen type params = %+v", gen.TypeParams)
	}
}

func TestLexJava(t *testing.T) {
	var got []string
	for _, tok := range lexJava([]byte("@interface /* x */ A { String s() default \"{\" + 'x'; // }\n int... }")) {
		got = append(got, tok.text)
	}
	want := []string{"@", "interface", "A", "{", "String", "s", "(", ")", "default", "+", ";", "int", "...", "}"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("tokens (-want +got):\n%s", diff)
	}
}
