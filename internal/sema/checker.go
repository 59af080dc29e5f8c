package sema

import (
	"annocheck/internal/ast"
	"annocheck/internal/consteval"
	"annocheck/internal/options"
	"annocheck/internal/registry"
	"annocheck/internal/symbols"
	"annocheck/internal/types"
)

// Qualified names of the annotation types the checks treat specially.
const (
	qTarget           = "java.lang.annotation.Target"
	qRetention        = "java.lang.annotation.Retention"
	qInherited        = "java.lang.annotation.Inherited"
	qDocumented       = "java.lang.annotation.Documented"
	qElementType      = "java.lang.annotation.ElementType"
	qRetentionPolicy  = "java.lang.annotation.RetentionPolicy"
	qOverride         = "java.lang.Override"
	qDeprecated       = "java.lang.Deprecated"
	qSuppressWarnings = "java.lang.SuppressWarnings"
	qString           = "java.lang.String"
	qClass            = "java.lang.Class"
	qSerializable     = "java.io.Serializable"
)

var (
	elementTypes    = types.ArrayOf(types.Enum(qElementType, "ElementType"))
	retentionPolicy = types.Enum(qRetentionPolicy, "RetentionPolicy")
)

// Checker validates the units of one compile run against a shared symbol
// table and annotation registry.
type Checker struct {
	table *symbols.Table
	reg   *registry.Registry
	opts  *options.Options
}

// New returns a checker and registers the builtin annotation types of
// table in reg.
func New(table *symbols.Table, reg *registry.Registry, opts *options.Options) *Checker {
	if opts == nil {
		def := options.Default()
		opts = &def
	}
	c := &Checker{table: table, reg: reg, opts: opts}
	for _, typ := range table.Builtins() {
		if typ.IsAnnotation() {
			c.reg.Register(c.describe(typ))
		}
	}
	return c
}

// Registry returns the annotation registry the checker fills.
func (c *Checker) Registry() *registry.Registry { return c.reg }

// RegisterAnnotationTypes registers every annotation type declared in
// units, member and local ones included, in source order. It must run
// before any unit is checked and must not run concurrently with Check.
func (c *Checker) RegisterAnnotationTypes(units []*ast.CompilationUnit) []*registry.AnnotationType {
	var out []*registry.AnnotationType
	for _, u := range units {
		for _, decl := range u.Types {
			out = c.registerDecl(decl, out)
		}
	}
	return out
}

func (c *Checker) registerDecl(decl *ast.TypeDecl, out []*registry.AnnotationType) []*registry.AnnotationType {
	if decl.IsAnnotation() {
		if typ := c.table.Of(decl); typ != nil {
			if at, added := c.reg.Register(c.describe(typ)); added {
				out = append(out, at)
			}
		}
	}
	for _, nested := range decl.Types {
		out = c.registerDecl(nested, out)
	}
	for _, m := range decl.Methods {
		for _, local := range m.LocalTypes {
			out = c.registerDecl(local, out)
		}
	}
	return out
}

// describe builds the registry entry of an annotation type: its
// attributes and the meta-annotations it carries. Problems in the
// meta-annotations are reported later, when the declaration is walked.
func (c *Checker) describe(typ *symbols.Type) *registry.AnnotationType {
	decl := typ.Decl
	at := &registry.AnnotationType{
		QName:     typ.QName,
		Display:   typ.Display(),
		Type:      typ,
		Retention: types.RetentionClass,
	}
	for _, m := range decl.Methods {
		if m.Constructor {
			continue
		}
		t, _ := c.attrType(attributeScope(typ, m), m.Result)
		at.Attributes = append(at.Attributes, &registry.Attribute{
			Name:    m.Name,
			Type:    t,
			Default: m.Default,
			Decl:    m,
		})
	}
	c.readMeta(at, outerScope(typ))
	return at
}

func (c *Checker) readMeta(at *registry.AnnotationType, scope symbols.Scope) {
	ev := consteval.New(c.table, nil)
	for _, ann := range at.Type.Decl.Annotations {
		res := c.table.ResolveType(scope, ann.Name)
		if res.Type == nil {
			continue
		}
		switch res.Type.QName {
		case qTarget:
			at.HasTarget = true
			at.Targets = 0
			v := metaValue(ev, scope, ann, elementTypes)
			for _, el := range v.Elems {
				if k, ok := types.ParseElementKind(el.Str); ok && el.Kind == types.ValEnum {
					at.Targets = at.Targets.With(k)
				}
			}
		case qRetention:
			v := metaValue(ev, scope, ann, retentionPolicy)
			if v.Kind == types.ValEnum {
				if r, ok := types.ParseRetention(v.Str); ok {
					at.Retention = r
				}
			}
		case qInherited:
			at.Inherited = true
		case qDocumented:
			at.Documented = true
		}
	}
}

// metaValue evaluates the value member of a meta-annotation, discarding
// problems.
func metaValue(ev *consteval.Evaluator, scope symbols.Scope, ann *ast.Annotation, expected types.AttrType) types.Value {
	var expr *ast.Expr
	for _, p := range ann.Pairs {
		if p.Name == "value" {
			expr = p.Value
		}
	}
	if expr == nil {
		return types.ErrorValue()
	}
	v, _ := ev.Evaluate(consteval.Context{Scope: scope}, expr, expected)
	return v
}

// attrType maps the declared result type of an attribute to its
// attribute type. resolved is false when a name in ref does not resolve;
// shapes that resolve but are not permitted yield an invalid type.
func (c *Checker) attrType(scope symbols.Scope, ref *ast.TypeRef) (t types.AttrType, resolved bool) {
	if ref == nil {
		return types.Invalid("void"), true
	}
	if ref.Dims > 1 {
		return types.Invalid(ref.String()), true
	}
	leaf, ok := c.leafType(scope, ref.Base())
	if !ok {
		return types.Invalid(ref.String()), false
	}
	if leaf.Kind == types.AttrInvalid {
		return types.Invalid(ref.String()), true
	}
	if ref.Dims == 1 {
		return types.ArrayOf(leaf), true
	}
	return leaf, true
}

func (c *Checker) leafType(scope symbols.Scope, ref *ast.TypeRef) (types.AttrType, bool) {
	if p, ok := types.ParsePrim(ref.Name); ok {
		return types.Primitive(p), true
	}
	if ref.Name == "void" {
		return types.Invalid("void"), true
	}
	res := c.table.ResolveType(scope, ref.Name)
	switch {
	case res.TypeVar != "":
		return types.Invalid(ref.String()), true
	case res.Type == nil:
		return types.AttrType{}, false
	}
	typ := res.Type
	switch {
	case typ.QName == qString:
		return types.String(), true
	case typ.QName == qClass:
		return types.Class(ref.String()), true
	case typ.IsEnum():
		return types.Enum(typ.QName, typ.Display()), true
	case typ.IsAnnotation():
		return types.Annotation(typ.QName, typ.Display()), true
	}
	return types.Invalid(ref.String()), true
}

// outerScope is the scope annotations on a type declaration resolve in:
// the type's own members are not visible to them.
func outerScope(typ *symbols.Type) symbols.Scope {
	return symbols.Scope{Unit: typ.Decl.Unit, Type: typ.Outer}
}

// memberScope is the scope inside the body of typ.
func memberScope(typ *symbols.Type) symbols.Scope {
	return symbols.Scope{Unit: typ.Decl.Unit, Type: typ}
}

// attributeScope adds the type variables of a generic attribute to the
// scope of its annotation type.
func attributeScope(typ *symbols.Type, m *ast.MethodDecl) symbols.Scope {
	s := memberScope(typ)
	for _, tp := range m.TypeParams {
		s.TypeParams = append(s.TypeParams, tp.Name)
	}
	return s
}
