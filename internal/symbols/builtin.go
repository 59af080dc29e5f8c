package symbols

import (
	"strings"

	"annocheck/internal/ast"
	"annocheck/internal/source"
)

// The JDK surface the checks rely on, declared as synthetic source.

func builtinUnits() []*ast.CompilationUnit {
	annotationPkg := builtinUnit("java.lang.annotation", nil,
		iface("Annotation", nil,
			method("annotationType", "Class<? extends Annotation>"),
			method("equals", "boolean", "Object"),
			method("hashCode", "int"),
			method("toString", "String"),
		),
		enum("ElementType", "TYPE", "FIELD", "METHOD", "PARAMETER", "CONSTRUCTOR",
			"LOCAL_VARIABLE", "ANNOTATION_TYPE", "PACKAGE", "TYPE_PARAMETER", "TYPE_USE"),
		enum("RetentionPolicy", "SOURCE", "CLASS", "RUNTIME"),
		annotationType("Target", documented(meta("RUNTIME", "ANNOTATION_TYPE")), attr("value", "ElementType[]")),
		annotationType("Retention", documented(meta("RUNTIME", "ANNOTATION_TYPE")), attr("value", "RetentionPolicy")),
		annotationType("Inherited", documented(meta("RUNTIME", "ANNOTATION_TYPE"))),
		annotationType("Documented", documented(meta("RUNTIME", "ANNOTATION_TYPE"))),
	)

	langImports := []*ast.Import{{Path: "java.lang.annotation", OnDemand: true}}
	lang := builtinUnit("java.lang", langImports,
		class("Object", "",
			nil,
			method("equals", "boolean", "Object"),
			method("hashCode", "int"),
			method("toString", "String"),
			withMods(method("clone", "Object"), ast.ModProtected),
			withMods(method("finalize", ""), ast.ModProtected),
			withMods(method("getClass", "Class<?>"), ast.ModFinal),
			withMods(method("notify", ""), ast.ModFinal),
			withMods(method("notifyAll", ""), ast.ModFinal),
			withMods(method("wait", ""), ast.ModFinal),
			withMods(method("wait", "", "long"), ast.ModFinal),
			withMods(method("wait", "", "long", "int"), ast.ModFinal),
		),
		generic(class("String", "Object", []string{"java.io.Serializable", "CharSequence", "Comparable<String>"},
			method("length", "int"),
			method("charAt", "char", "int"),
			method("compareTo", "int", "String"),
		)),
		generic(class("Class", "Object", []string{"java.io.Serializable"}), "T"),
		generic(withMods(class("Enum", "Object", []string{"Comparable<E>", "java.io.Serializable"},
			withMods(method("name", "String"), ast.ModFinal),
			withMods(method("ordinal", "int"), ast.ModFinal),
		), ast.ModAbstract), "E"),
		generic(iface("Comparable", nil, method("compareTo", "int", "T")), "T"),
		generic(iface("Iterable", nil, method("iterator", "java.util.Iterator<T>")), "T"),
		iface("CharSequence", nil, method("length", "int"), method("charAt", "char", "int")),
		iface("Runnable", nil, method("run", "")),
		iface("AutoCloseable", nil, method("close", "")),
		iface("Cloneable", nil),
		class("Thread", "Object", []string{"Runnable"}, method("run", ""), method("start", "")),
		class("Throwable", "Object", []string{"java.io.Serializable"}, method("getMessage", "String")),
		class("Exception", "Throwable", nil),
		class("RuntimeException", "Exception", nil),
		class("Error", "Throwable", nil),
		withMods(class("Number", "Object", []string{"java.io.Serializable"},
			withMods(method("intValue", "int"), ast.ModAbstract),
			withMods(method("longValue", "long"), ast.ModAbstract),
		), ast.ModAbstract),
		withFields(class("Integer", "Number", []string{"Comparable<Integer>"}),
			constant("int", "MIN_VALUE", ast.LitInt, "0x80000000"),
			constant("int", "MAX_VALUE", ast.LitInt, "0x7fffffff"),
			constant("int", "SIZE", ast.LitInt, "32"),
		),
		withFields(class("Long", "Number", []string{"Comparable<Long>"}),
			constant("long", "MIN_VALUE", ast.LitLong, "0x8000000000000000L"),
			constant("long", "MAX_VALUE", ast.LitLong, "0x7fffffffffffffffL"),
			constant("int", "SIZE", ast.LitInt, "64"),
		),
		withFields(class("Short", "Number", []string{"Comparable<Short>"}),
			castConstant("short", "MIN_VALUE", "-32768"),
			castConstant("short", "MAX_VALUE", "32767"),
		),
		withFields(class("Byte", "Number", []string{"Comparable<Byte>"}),
			castConstant("byte", "MIN_VALUE", "-128"),
			castConstant("byte", "MAX_VALUE", "127"),
		),
		withFields(class("Character", "Object", []string{"java.io.Serializable", "Comparable<Character>"}),
			constant("char", "MIN_VALUE", ast.LitChar, `'\u0000'`),
			constant("char", "MAX_VALUE", ast.LitChar, `'\uffff'`),
		),
		class("Boolean", "Object", []string{"java.io.Serializable", "Comparable<Boolean>"}),
		withFields(class("Double", "Number", []string{"Comparable<Double>"}),
			constant("double", "MAX_VALUE", ast.LitDouble, "1.7976931348623157E308"),
			constant("double", "MIN_VALUE", ast.LitDouble, "4.9E-324"),
		),
		withFields(class("Float", "Number", []string{"Comparable<Float>"}),
			constant("float", "MAX_VALUE", ast.LitFloat, "3.4028235E38f"),
			constant("float", "MIN_VALUE", ast.LitFloat, "1.4E-45f"),
		),
		withFields(withMods(class("Math", "Object", nil), ast.ModFinal),
			constant("double", "PI", ast.LitDouble, "3.141592653589793"),
			constant("double", "E", ast.LitDouble, "2.718281828459045"),
		),
		class("Void", "Object", nil),
		annotationType("Override", meta("SOURCE", "METHOD")),
		annotationType("Deprecated", documented(metaRetention("RUNTIME"))),
		annotationType("SuppressWarnings",
			meta("SOURCE", "TYPE", "FIELD", "METHOD", "PARAMETER", "CONSTRUCTOR", "LOCAL_VARIABLE"),
			attr("value", "String[]")),
		annotationType("SafeVarargs", meta("RUNTIME", "CONSTRUCTOR", "METHOD")),
		annotationType("FunctionalInterface", meta("RUNTIME", "TYPE")),
	)

	io := builtinUnit("java.io", nil,
		iface("Serializable", nil),
		iface("Closeable", []string{"java.lang.AutoCloseable"}, method("close", "")),
	)

	util := builtinUnit("java.util", nil,
		generic(iface("Iterator", nil, method("hasNext", "boolean"), method("next", "E")), "E"),
		generic(iface("Collection", []string{"java.lang.Iterable<E>"}, method("size", "int"), method("isEmpty", "boolean")), "E"),
		generic(iface("List", []string{"Collection<E>"}, method("get", "E", "int")), "E"),
		generic(iface("Set", []string{"Collection<E>"}), "E"),
		generic(iface("Map", nil, method("size", "int"), method("get", "V", "Object")), "K", "V"),
		generic(class("ArrayList", "Object", []string{"List<E>", "java.io.Serializable", "java.lang.Cloneable"},
			method("size", "int"), method("isEmpty", "boolean"), method("get", "E", "int")), "E"),
	)

	return []*ast.CompilationUnit{annotationPkg, lang, io, util}
}

func builtinUnit(pkg string, imports []*ast.Import, types ...*ast.TypeDecl) *ast.CompilationUnit {
	u := &ast.CompilationUnit{
		File:    source.NoFileID,
		Path:    "<jdk>/" + strings.ReplaceAll(pkg, ".", "/"),
		Package: pkg,
		Imports: imports,
		Types:   types,
	}
	return u
}

func class(name, super string, ifaces []string, methods ...*ast.MethodDecl) *ast.TypeDecl {
	decl := &ast.TypeDecl{Kind: ast.KindClass, Name: name, Modifiers: ast.ModPublic, Methods: methods}
	if super != "" {
		decl.Superclass = ast.ParseTypeRef(super)
	}
	for _, it := range ifaces {
		decl.Interfaces = append(decl.Interfaces, ast.ParseTypeRef(it))
	}
	return decl
}

func iface(name string, supers []string, methods ...*ast.MethodDecl) *ast.TypeDecl {
	decl := &ast.TypeDecl{Kind: ast.KindInterface, Name: name, Modifiers: ast.ModPublic, Methods: methods}
	for _, m := range methods {
		m.Modifiers |= ast.ModAbstract
	}
	for _, it := range supers {
		decl.Interfaces = append(decl.Interfaces, ast.ParseTypeRef(it))
	}
	return decl
}

func enum(name string, constants ...string) *ast.TypeDecl {
	decl := &ast.TypeDecl{Kind: ast.KindEnum, Name: name, Modifiers: ast.ModPublic}
	for _, c := range constants {
		decl.Constants = append(decl.Constants, &ast.EnumConstant{Name: c})
	}
	return decl
}

func annotationType(name string, metas []*ast.Annotation, attrs ...*ast.MethodDecl) *ast.TypeDecl {
	return &ast.TypeDecl{
		Kind:        ast.KindAnnotation,
		Name:        name,
		Modifiers:   ast.ModPublic,
		Annotations: metas,
		Methods:     attrs,
	}
}

func attr(name, typ string) *ast.MethodDecl {
	return &ast.MethodDecl{Name: name, Result: ast.ParseTypeRef(typ), Modifiers: ast.ModPublic | ast.ModAbstract}
}

func method(name, result string, params ...string) *ast.MethodDecl {
	m := &ast.MethodDecl{Name: name, Result: ast.ParseTypeRef(result), Modifiers: ast.ModPublic, HasBody: true}
	for i, p := range params {
		m.Params = append(m.Params, &ast.Param{Name: "arg" + string(rune('0'+i)), Type: ast.ParseTypeRef(p)})
	}
	return m
}

func withMods[T *ast.MethodDecl | *ast.TypeDecl](decl T, mods ast.Modifiers) T {
	switch d := any(decl).(type) {
	case *ast.MethodDecl:
		d.Modifiers = d.Modifiers.Without(ast.ModPublic) | mods
		if mods.Visibility() == 0 {
			d.Modifiers |= ast.ModPublic
		}
	case *ast.TypeDecl:
		d.Modifiers |= mods
	}
	return decl
}

func generic(decl *ast.TypeDecl, params ...string) *ast.TypeDecl {
	for _, p := range params {
		decl.TypeParams = append(decl.TypeParams, &ast.TypeParam{Name: p})
	}
	return decl
}

func withFields(decl *ast.TypeDecl, fields ...*ast.FieldDecl) *ast.TypeDecl {
	decl.Fields = append(decl.Fields, fields...)
	return decl
}

func constant(typ, name string, kind ast.LitKind, text string) *ast.FieldDecl {
	return &ast.FieldDecl{
		Name:      name,
		Type:      ast.ParseTypeRef(typ),
		Modifiers: ast.ModPublic | ast.ModStatic | ast.ModFinal,
		Init:      &ast.Expr{Kind: ast.ExprLiteral, Lit: kind, Text: text},
	}
}

func castConstant(typ, name, text string) *ast.FieldDecl {
	f := constant(typ, name, ast.LitInt, strings.TrimPrefix(text, "-"))
	if strings.HasPrefix(text, "-") {
		f.Init = &ast.Expr{Kind: ast.ExprUnary, Op: "-", X: f.Init}
	}
	f.Init = &ast.Expr{Kind: ast.ExprCast, Type: ast.ParseTypeRef(typ), X: f.Init}
	return f
}

// meta builds @Retention(policy) @Target({targets...}).
func meta(policy string, targets ...string) []*ast.Annotation {
	elems := make([]*ast.Expr, 0, len(targets))
	for _, t := range targets {
		elems = append(elems, &ast.Expr{Kind: ast.ExprName, Name: "ElementType." + t})
	}
	out := metaRetention(policy)
	return append(out, &ast.Annotation{
		Name: "Target",
		Form: ast.FormSingle,
		Pairs: []*ast.MemberValuePair{{
			Name:  "value",
			Value: &ast.Expr{Kind: ast.ExprArrayInit, Elems: elems},
		}},
	})
}

func documented(metas []*ast.Annotation) []*ast.Annotation {
	return append(metas, &ast.Annotation{Name: "Documented", Form: ast.FormMarker})
}

func metaRetention(policy string) []*ast.Annotation {
	out := []*ast.Annotation{{
		Name: "Retention",
		Form: ast.FormSingle,
		Pairs: []*ast.MemberValuePair{{
			Name:  "value",
			Value: &ast.Expr{Kind: ast.ExprName, Name: "RetentionPolicy." + policy},
		}},
	}}
	return out
}
