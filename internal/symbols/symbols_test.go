package symbols

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"annocheck/internal/ast"
)

func unit(pkg string, imports []*ast.Import, types ...*ast.TypeDecl) *ast.CompilationUnit {
	return &ast.CompilationUnit{Path: "X.java", Package: pkg, Imports: imports, Types: types}
}

func TestBuiltinsLinked(t *testing.T) {
	tab := NewTable()
	cases := []struct {
		qname string
		super string
	}{
		{"java.lang.String", "java.lang.Object"},
		{"java.lang.Integer", "java.lang.Number"},
		{"java.lang.annotation.ElementType", "java.lang.Enum"},
		{"java.util.ArrayList", "java.lang.Object"},
	}
	for _, tc := range cases {
		typ := tab.Lookup(tc.qname)
		if typ == nil {
			t.Fatalf("%s not declared", tc.qname)
		}
		if typ.Superclass == nil || typ.Superclass.QName != tc.super {
			t.Errorf("%s: superclass = %v, want %s", tc.qname, typ.Superclass, tc.super)
		}
	}
	if !tab.Lookup("java.lang.String").IsSubtypeOf("java.io.Serializable") {
		t.Error("String should be Serializable")
	}
	sw := tab.Lookup("java.lang.SuppressWarnings")
	if sw == nil || !sw.IsAnnotation() {
		t.Fatal("SuppressWarnings missing")
	}
	if got := sw.Interfaces; len(got) != 1 || got[0].QName != "java.lang.annotation.Annotation" {
		t.Errorf("annotation supertypes = %v", got)
	}
	et := tab.Lookup("java.lang.annotation.ElementType")
	if !et.HasEnumConstant("TYPE_USE") || et.HasEnumConstant("MODULE") {
		t.Errorf("ElementType constants = %v", et.EnumConstants())
	}
	if got := tab.Types(); len(got) != 0 {
		t.Errorf("Types() lists builtins: %d", len(got))
	}
}

func TestResolveType(t *testing.T) {
	tab := NewTable()
	inner := &ast.TypeDecl{Kind: ast.KindAnnotation, Name: "Anno"}
	outer := &ast.TypeDecl{
		Kind:       ast.KindClass,
		Name:       "Test",
		TypeParams: []*ast.TypeParam{{Name: "T"}},
		Types:      []*ast.TypeDecl{inner},
	}
	other := &ast.TypeDecl{Kind: ast.KindClass, Name: "Other"}
	tab.AddUnit(unit("p", []*ast.Import{{Path: "java.util.List"}, {Path: "java.lang.annotation", OnDemand: true}}, outer))
	tab.AddUnit(unit("p", nil, other))
	tab.Link()

	scope := Scope{Unit: outer.Unit, Type: tab.Of(inner)}
	cases := []struct {
		name  string
		qname string
		tvar  string
	}{
		{name: "Anno", qname: "p.Test.Anno"},
		{name: "Test.Anno", qname: "p.Test.Anno"},
		{name: "T", tvar: "T"},
		{name: "Other", qname: "p.Other"},
		{name: "List", qname: "java.util.List"},
		{name: "ElementType", qname: "java.lang.annotation.ElementType"},
		{name: "String", qname: "java.lang.String"},
		{name: "java.util.Map", qname: "java.util.Map"},
		{name: "Missing"},
	}
	for _, tc := range cases {
		res := tab.ResolveType(scope, tc.name)
		got := ""
		if res.Type != nil {
			got = res.Type.QName
		}
		if got != tc.qname || res.TypeVar != tc.tvar {
			t.Errorf("ResolveType(%q) = %q/%q, want %q/%q", tc.name, got, res.TypeVar, tc.qname, tc.tvar)
		}
	}
	if got := tab.Of(inner).Display(); got != "Test<T>.Anno" {
		t.Errorf("Display = %q", got)
	}
}

func TestResolveStaticImport(t *testing.T) {
	tab := NewTable()
	u := unit("p", []*ast.Import{
		{Path: "java.lang.annotation.ElementType", Static: true, OnDemand: true},
		{Path: "java.lang.Integer.MAX_VALUE", Static: true},
	})
	tab.AddUnit(u)
	tab.Link()

	if m := tab.ResolveStaticImport(u, "FIELD"); !m.EnumConstant || m.Owner.QName != "java.lang.annotation.ElementType" {
		t.Errorf("FIELD = %+v", m)
	}
	if m := tab.ResolveStaticImport(u, "MAX_VALUE"); m.Field == nil || m.Field.Owner.QName != "java.lang.Integer" {
		t.Errorf("MAX_VALUE = %+v", m)
	}
	if m := tab.ResolveStaticImport(u, "MIN_VALUE"); m.Found() {
		t.Errorf("MIN_VALUE should not be imported: %+v", m)
	}
}

func TestFieldAccess(t *testing.T) {
	tab := NewTable()
	a := &ast.TypeDecl{Kind: ast.KindClass, Name: "A", Fields: []*ast.FieldDecl{
		{Name: "priv", Modifiers: ast.ModPrivate | ast.ModStatic | ast.ModFinal},
		{Name: "pkg", Modifiers: ast.ModStatic | ast.ModFinal},
		{Name: "pub", Modifiers: ast.ModPublic | ast.ModStatic | ast.ModFinal},
	}}
	b := &ast.TypeDecl{Kind: ast.KindClass, Name: "B"}
	c := &ast.TypeDecl{Kind: ast.KindInterface, Name: "C", Fields: []*ast.FieldDecl{{Name: "K"}}}
	tab.AddUnit(unit("p", nil, a, c))
	tab.AddUnit(unit("q", nil, b))
	tab.Link()

	ta, tb := tab.Of(a), tab.Of(b)
	got := map[string][2]bool{}
	for _, f := range ta.Fields {
		got[f.Name] = [2]bool{f.Accessible(ta), f.Accessible(tb)}
	}
	want := map[string][2]bool{
		"priv": {true, false},
		"pkg":  {true, false},
		"pub":  {true, true},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("accessibility (-want +got):\n%s", diff)
	}
	if ta.OwnField("pub").Index() != 2 {
		t.Errorf("pub index = %d", ta.OwnField("pub").Index())
	}
	k := tab.Of(c).OwnField("K")
	if !k.Static() || !k.Final() {
		t.Error("interface fields are static final")
	}
}

func TestFindOverridden(t *testing.T) {
	tab := NewTable()
	base := &ast.TypeDecl{
		Kind:       ast.KindClass,
		Name:       "Base",
		TypeParams: []*ast.TypeParam{{Name: "T"}},
		Methods: []*ast.MethodDecl{
			{Name: "take", Modifiers: ast.ModPublic, Params: []*ast.Param{{Name: "t", Type: ast.ParseTypeRef("T")}}},
			{Name: "hidden", Modifiers: ast.ModPrivate},
		},
	}
	shape := &ast.TypeDecl{
		Kind:    ast.KindInterface,
		Name:    "Shape",
		Methods: []*ast.MethodDecl{{Name: "area", Modifiers: ast.ModAbstract, Result: ast.ParseTypeRef("double")}},
	}
	derived := &ast.TypeDecl{
		Kind:       ast.KindClass,
		Name:       "Derived",
		Superclass: ast.ParseTypeRef("Base<String>"),
		Interfaces: []*ast.TypeRef{ast.ParseTypeRef("Shape")},
	}
	tab.AddUnit(unit("p", nil, base, shape, derived))
	tab.Link()
	typ := tab.Of(derived)

	mk := func(name string, params ...string) *ast.MethodDecl {
		m := &ast.MethodDecl{Name: name, Modifiers: ast.ModPublic}
		for _, p := range params {
			m.Params = append(m.Params, &ast.Param{Type: ast.ParseTypeRef(p)})
		}
		return m
	}
	cases := []struct {
		m         *ast.MethodDecl
		owner     string
		fromIface bool
	}{
		{m: mk("take", "String"), owner: "p.Base"},
		{m: mk("area"), owner: "p.Shape", fromIface: true},
		{m: mk("toString"), owner: "java.lang.Object"},
		{m: mk("equals", "Object"), owner: "java.lang.Object"},
		{m: mk("equals", "String")},
		{m: mk("hidden")},
		{m: mk("take", "String", "int")},
	}
	for _, tc := range cases {
		got := tab.FindOverridden(typ, tc.m)
		owner := ""
		if got.Found() {
			owner = got.Method.Owner.QName
		}
		if owner != tc.owner || got.Interface != tc.fromIface {
			t.Errorf("%s: got %q/%v, want %q/%v", tc.m.Signature(), owner, got.Interface, tc.owner, tc.fromIface)
		}
	}

	// interfaces see the public methods of Object
	if got := tab.FindOverridden(tab.Of(shape), mk("hashCode")); !got.Found() {
		t.Error("interface hashCode should override Object.hashCode")
	}
	if got := tab.FindOverridden(tab.Of(shape), mk("clone")); got.Found() {
		t.Error("protected Object.clone is not a member of interfaces")
	}
}
