package sema

import (
	"sort"
	"testing"

	"annocheck/internal/ast"
	"annocheck/internal/diag"
	"annocheck/internal/options"
	"annocheck/internal/registry"
	"annocheck/internal/source"
	"annocheck/internal/symbols"
)

var spanPos uint32

// sp hands out distinct spans so diagnostics never collapse by position.
func sp() source.Span {
	spanPos += 4
	return source.Span{File: 1, Start: spanPos, End: spanPos + 2}
}

func tref(s string) *ast.TypeRef {
	r := ast.ParseTypeRef(s)
	if r != nil {
		r.Span = sp()
	}
	return r
}

func unit(decls ...*ast.TypeDecl) *ast.CompilationUnit {
	return &ast.CompilationUnit{
		File:    1,
		Path:    "p/Test.java",
		Package: "p",
		Types:   decls,
		Span:    source.Span{File: 1, Start: 0, End: 1 << 24},
	}
}

func withImports(u *ast.CompilationUnit, paths ...string) *ast.CompilationUnit {
	for _, p := range paths {
		imp := &ast.Import{Path: p, Used: true, Span: sp()}
		if n := len(p); n > 2 && p[n-2:] == ".*" {
			imp.Path, imp.OnDemand = p[:n-2], true
		}
		u.Imports = append(u.Imports, imp)
	}
	return u
}

func typeDecl(kind ast.TypeKind, name string, anns ...*ast.Annotation) *ast.TypeDecl {
	return &ast.TypeDecl{Kind: kind, Name: name, Annotations: anns, Span: sp(), NameSpan: sp()}
}

func annotationType(name string, attrs ...*ast.MethodDecl) *ast.TypeDecl {
	d := typeDecl(ast.KindAnnotation, name)
	d.Methods = attrs
	return d
}

func class(name string, anns ...*ast.Annotation) *ast.TypeDecl {
	return typeDecl(ast.KindClass, name, anns...)
}

func attr(typ, name string) *ast.MethodDecl {
	return &ast.MethodDecl{Name: name, Result: tref(typ), Span: sp(), NameSpan: sp()}
}

func withDefault(m *ast.MethodDecl, e *ast.Expr) *ast.MethodDecl {
	m.Default = e
	return m
}

func method(name string, anns ...*ast.Annotation) *ast.MethodDecl {
	return &ast.MethodDecl{Name: name, Modifiers: ast.ModPublic, Annotations: anns, HasBody: true, Span: sp(), NameSpan: sp()}
}

func field(typ, name string, mods ast.Modifiers, init *ast.Expr, anns ...*ast.Annotation) *ast.FieldDecl {
	return &ast.FieldDecl{Name: name, Type: tref(typ), Modifiers: mods, Init: init, Annotations: anns, Used: true, Span: sp(), NameSpan: sp()}
}

func ann(name string, pairs ...*ast.MemberValuePair) *ast.Annotation {
	form := ast.FormMarker
	if len(pairs) > 0 {
		form = ast.FormNormal
	}
	return &ast.Annotation{Name: name, Form: form, Pairs: pairs, Span: sp(), NameSpan: sp()}
}

func single(name string, v *ast.Expr) *ast.Annotation {
	return &ast.Annotation{
		Name:     name,
		Form:     ast.FormSingle,
		Pairs:    []*ast.MemberValuePair{{Name: "value", Value: v, Span: v.Span}},
		Span:     sp(),
		NameSpan: sp(),
	}
}

func pair(name string, v *ast.Expr) *ast.MemberValuePair {
	return &ast.MemberValuePair{Name: name, Value: v, Span: sp(), NameSpan: sp()}
}

func intLit(text string) *ast.Expr {
	return &ast.Expr{Kind: ast.ExprLiteral, Lit: ast.LitInt, Text: text, Span: sp()}
}

func boolLit(text string) *ast.Expr {
	return &ast.Expr{Kind: ast.ExprLiteral, Lit: ast.LitBool, Text: text, Span: sp()}
}

func str(s string) *ast.Expr {
	return &ast.Expr{Kind: ast.ExprLiteral, Lit: ast.LitString, Text: `"` + s + `"`, Span: sp()}
}

func name(n string) *ast.Expr {
	return &ast.Expr{Kind: ast.ExprName, Name: n, Span: sp()}
}

func arr(elems ...*ast.Expr) *ast.Expr {
	return &ast.Expr{Kind: ast.ExprArrayInit, Elems: elems, Span: sp()}
}

func suppressWarnings(tokens ...string) *ast.Annotation {
	elems := make([]*ast.Expr, 0, len(tokens))
	for _, t := range tokens {
		elems = append(elems, str(t))
	}
	return single("SuppressWarnings", arr(elems...))
}

// checker links units into a fresh table and registers their annotation
// types.
func checker(t *testing.T, opts *options.Options, units ...*ast.CompilationUnit) *Checker {
	t.Helper()
	table := symbols.NewTable()
	for _, u := range units {
		table.AddUnit(u)
	}
	table.Link()
	c := New(table, registry.New(), opts)
	c.RegisterAnnotationTypes(units)
	return c
}

func checkAll(t *testing.T, opts *options.Options, units ...*ast.CompilationUnit) []*Result {
	t.Helper()
	c := checker(t, opts, units...)
	out := make([]*Result, 0, len(units))
	for _, u := range units {
		out = append(out, c.Check(u))
	}
	return out
}

// messages renders "SEVERITY: message" lines, sorted.
func messages(results []*Result) []string {
	out := []string{}
	for _, r := range results {
		for _, d := range r.Diagnostics.Items() {
			out = append(out, d.Severity.String()+": "+d.Message)
		}
	}
	sort.Strings(out)
	return out
}

func check(t *testing.T, opts *options.Options, units ...*ast.CompilationUnit) []string {
	t.Helper()
	return messages(checkAll(t, opts, units...))
}

func codes(r *Result, code diag.Code) []diag.Diagnostic {
	var out []diag.Diagnostic
	for _, d := range r.Diagnostics.Items() {
		if d.Code == code {
			out = append(out, d)
		}
	}
	return out
}

func optionsWith(t *testing.T, assignments ...string) *options.Options {
	t.Helper()
	opts := options.Default()
	for _, a := range assignments {
		if err := opts.ParseAssignment(a); err != nil {
			t.Fatalf("ParseAssignment(%q): %v", a, err)
		}
	}
	return &opts
}
