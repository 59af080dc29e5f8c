package sema

import (
	"strings"

	"annocheck/internal/ast"
	"annocheck/internal/consteval"
	"annocheck/internal/diag"
	"annocheck/internal/registry"
	"annocheck/internal/source"
	"annocheck/internal/symbols"
	"annocheck/internal/types"
)

// inheritedMethod is a method of Annotation or Object an attribute
// would override.
type inheritedMethod struct {
	owner  string
	params []string
}

// forbiddenAttributes lists, by name, the inherited methods an attribute
// may not override. Only a matching parameter list is an override.
var forbiddenAttributes = map[string][]inheritedMethod{
	"equals":         {{"Annotation", []string{"Object"}}},
	"hashCode":       {{"Annotation", nil}},
	"toString":       {{"Annotation", nil}},
	"annotationType": {{"Annotation", nil}},
	"clone":          {{"Object", nil}},
	"finalize":       {{"Object", nil}},
	"getClass":       {{"Object", nil}},
	"notify":         {{"Object", nil}},
	"notifyAll":      {{"Object", nil}},
	"wait":           {{"Object", nil}, {"Object", []string{"long"}}, {"Object", []string{"long", "int"}}},
}

// overriddenMethod finds the inherited method m overrides.
func overriddenMethod(m *ast.MethodDecl) (inheritedMethod, bool) {
	for _, cand := range forbiddenAttributes[m.Name] {
		if sameParams(cand.params, m.Params) {
			return cand, true
		}
	}
	return inheritedMethod{}, false
}

func sameParams(want []string, params []*ast.Param) bool {
	if len(want) != len(params) {
		return false
	}
	for i, p := range params {
		if p.Type == nil || p.Varargs || p.Type.Dims > 0 {
			return false
		}
		name := p.Type.Name
		if want[i] == "Object" && name == "java.lang.Object" {
			name = "Object"
		}
		if name != want[i] {
			return false
		}
	}
	return true
}

const (
	annotationTypeMods       = ast.ModPublic | ast.ModAbstract
	memberAnnotationTypeMods = annotationTypeMods | ast.ModStatic | ast.ModProtected | ast.ModPrivate
	annotationAttributeMods  = ast.ModPublic | ast.ModAbstract
	annotationFieldMods      = ast.ModPublic | ast.ModStatic | ast.ModFinal
)

// checkAnnotationTypeDecl applies the declaration rules of an @interface
// that are not tied to one member. Every rule reports independently.
func (w *walker) checkAnnotationTypeDecl(at *registry.AnnotationType) {
	decl := at.Type.Decl
	if decl.Superclass != nil {
		w.report(diag.AnnotationTypeDeclarationCannotHaveSuperclass, decl.NameSpan)
	}
	if len(decl.Interfaces) > 0 {
		w.report(diag.AnnotationTypeDeclarationCannotHaveSuperinterfaces, decl.NameSpan)
	}
	if len(decl.TypeParams) > 0 {
		w.report(diag.AnnotationTypeDeclarationCannotHaveTypeParameters, decl.TypeParams[0].Span)
	}

	switch {
	case decl.Local || decl.Enclosing != nil && !decl.Enclosing.TopLevel():
		w.report(diag.CannotDefineAnnotationInLocalType, decl.NameSpan, decl.Name)
	case decl.Enclosing != nil:
		if decl.Modifiers.Without(memberAnnotationTypeMods) != 0 {
			w.report(diag.IllegalModifierForAnnotationMemberType, decl.NameSpan, decl.Name)
		}
	default:
		if decl.Modifiers.Without(annotationTypeMods) != 0 {
			w.report(diag.IllegalModifierForAnnotationType, decl.NameSpan, decl.Name)
		}
	}

	for _, edge := range w.c.reg.Cycles(at) {
		span := attributeTypeSpan(edge.Attr.Decl)
		if edge.Self {
			w.report(diag.AnnotationCircularitySelfReference, span, at.Display)
			continue
		}
		var notes []diag.Note
		if target := edge.Target.Type.Decl; !target.NameSpan.Empty() {
			notes = append(notes, diag.Note{Span: target.NameSpan, Msg: edge.Target.Display + " is declared here"})
		}
		w.reportNotes(diag.AnnotationCircularity, span, notes, at.Display, edge.Target.Display)
	}
}

// checkAttribute applies the rules for one method of an annotation type.
func (w *walker) checkAttribute(at *registry.AnnotationType, m *ast.MethodDecl) {
	if m.Constructor {
		w.report(diag.AnnotationTypeDeclarationCannotHaveConstructor, m.NameSpan)
		return
	}
	if len(m.Params) > 0 {
		w.report(diag.AnnotationMembersCannotHaveParameters, m.NameSpan)
	}
	if len(m.TypeParams) > 0 {
		w.report(diag.AnnotationMembersCannotHaveTypeParameters, m.TypeParams[0].Span)
	}
	if m.Modifiers.Without(annotationAttributeMods) != 0 {
		w.report(diag.IllegalModifierForAnnotationMethod, m.NameSpan, at.Display, m.Name)
	}
	if inh, ok := overriddenMethod(m); ok {
		w.report(diag.AnnotationCannotOverrideMethod, m.NameSpan, at.Display, inh.owner, m.Name, strings.Join(inh.params, ", "))
	}

	attr := attributeOf(at, m)
	if attr == nil {
		return
	}
	if attr.Type.Kind == types.AttrInvalid {
		if _, resolved := w.c.attrType(attributeScope(at.Type, m), m.Result); !resolved {
			w.report(diag.UndefinedType, attributeTypeSpan(m), unresolvedName(m.Result))
		} else {
			w.report(diag.InvalidAnnotationMemberType, attributeTypeSpan(m), attr.Type.Display, at.Display, m.Name)
		}
		return
	}
	if m.Default != nil {
		ctx := consteval.Context{
			Scope: memberScope(at.Type),
			Owner: at.Display,
			Attr:  m.Name,
		}
		_, problems := w.ev.Evaluate(ctx, m.Default, attr.Type)
		w.problems(problems)
	}
}

// checkAnnotationField applies the rules for a constant declared in an
// annotation type.
func (w *walker) checkAnnotationField(typ *symbols.Type, f *ast.FieldDecl) {
	if f.Init == nil {
		w.report(diag.UninitializedBlankFinalField, f.NameSpan, f.Name)
	}
	if f.Modifiers.Without(annotationFieldMods) != 0 {
		w.report(diag.IllegalModifierForAnnotationField, f.NameSpan, typ.Display(), f.Name)
	}
}

// checkSupertypes warns about annotation types implemented by classes and
// interfaces, and about raw supertypes.
func (w *walker) checkSupertypes(typ *symbols.Type) {
	decl := typ.Decl
	scope := symbols.Scope{Unit: decl.Unit, Type: typ.Outer, TypeParams: typ.TypeParams()}
	w.rawTypes(scope, decl.Superclass)
	for _, ref := range decl.Interfaces {
		w.rawTypes(scope, ref)
		if it := w.c.table.ResolveType(scope, ref.Name).Type; it != nil && it.IsAnnotation() {
			w.report(diag.AnnotationTypeUsedAsSuperInterface, ref.Span, it.Display(), decl.Name)
		}
	}
}

func attributeOf(at *registry.AnnotationType, m *ast.MethodDecl) *registry.Attribute {
	for _, attr := range at.Attributes {
		if attr.Decl == m {
			return attr
		}
	}
	return nil
}

func attributeTypeSpan(m *ast.MethodDecl) source.Span {
	if m.Result != nil && !m.Result.Span.Empty() {
		return m.Result.Span
	}
	return m.NameSpan
}

// unresolvedName returns the name in ref reported as unknown: the
// element type of arrays, as written.
func unresolvedName(ref *ast.TypeRef) string {
	if ref == nil {
		return "void"
	}
	return ref.Name
}
