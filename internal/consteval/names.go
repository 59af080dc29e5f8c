package consteval

import (
	"strings"

	"annocheck/internal/ast"
	"annocheck/internal/diag"
	"annocheck/internal/symbols"
	"annocheck/internal/types"
)

// name resolves a simple or qualified name used as a value.
func (ev *Evaluator) name(ctx Context, e *ast.Expr, expected types.AttrType) result {
	segs := strings.Split(e.Name, ".")
	if len(segs) == 1 {
		return ev.simpleName(ctx, e, expected.Leaf())
	}
	return ev.qualifiedName(ctx, e, segs)
}

func (ev *Evaluator) simpleName(ctx Context, e *ast.Expr, expected types.AttrType) result {
	name := e.Name
	for i := len(ctx.Locals) - 1; i >= 0; i-- {
		if lv := ctx.Locals[i]; lv.Name == name {
			return ev.local(ctx, lv)
		}
	}
	for enc := ctx.Scope.Type; enc != nil; enc = enc.Outer {
		f := enc.Field(name)
		if f == nil {
			continue
		}
		if ev.forward(ctx, f) {
			ev.report(diag.ReferenceToForwardField, e.Span)
			return failed()
		}
		return ev.field(ctx, e, f)
	}
	if m := ev.table.ResolveStaticImport(ctx.Scope.Unit, name); m.Found() {
		if m.EnumConstant {
			return constant(types.EnumValue(m.Owner.QName, name))
		}
		return ev.field(ctx, e, m.Field)
	}
	if expected.Kind == types.AttrEnum {
		if typ := ev.table.Lookup(expected.Name); typ != nil && typ.HasEnumConstant(name) {
			return constant(types.EnumValue(typ.QName, name))
		}
	}
	ev.report(diag.UndefinedName, e.Span, name)
	return failed()
}

// forward reports a simple-name use of a field of the current type that
// is declared at or after the field being evaluated.
func (ev *Evaluator) forward(ctx Context, f *symbols.Field) bool {
	cur := ctx.Field
	if cur == nil || f.Owner != cur.Owner || f.Owner.IsInterfaceLike() {
		return false
	}
	return f.Index() >= cur.Index()
}

func (ev *Evaluator) qualifiedName(ctx Context, e *ast.Expr, segs []string) result {
	for i := len(segs) - 1; i >= 1; i-- {
		head := strings.Join(segs[:i], ".")
		if i == 1 && ev.isVariable(ctx, head) {
			break
		}
		res := ev.table.ResolveType(ctx.Scope, head)
		if res.Type == nil {
			continue
		}
		rest := segs[i:]
		owner := res.Type
		if owner.HasEnumConstant(rest[0]) {
			if len(rest) > 1 {
				return nonConstant()
			}
			return constant(types.EnumValue(owner.QName, rest[0]))
		}
		f := owner.Field(rest[0])
		if f == nil {
			ev.report(diag.UndefinedField, e.Span, rest[0])
			return failed()
		}
		if len(rest) > 1 {
			return nonConstant()
		}
		return ev.field(ctx, e, f)
	}
	// a.b where a is a variable: member access on a value
	head := &ast.Expr{Kind: ast.ExprName, Name: segs[0], Span: e.Span}
	r := ev.simpleName(ctx, head, types.AttrType{})
	if r.reported {
		return r
	}
	return nonConstant()
}

func (ev *Evaluator) isVariable(ctx Context, name string) bool {
	for _, lv := range ctx.Locals {
		if lv.Name == name {
			return true
		}
	}
	for enc := ctx.Scope.Type; enc != nil; enc = enc.Outer {
		if enc.Field(name) != nil {
			return true
		}
	}
	return false
}

// field evaluates a reference to f. Only final fields of primitive or
// String type with a constant initializer are constants; problems inside
// the initializer itself are left to the initializer's own checks.
func (ev *Evaluator) field(ctx Context, e *ast.Expr, f *symbols.Field) result {
	if !f.Accessible(ctx.Scope.Type) {
		ev.report(diag.NotVisibleField, e.Span, f.Owner.Name(), f.Name)
	}
	ref := f.Decl.Type
	if ref != nil && ref.Dims > 0 {
		return result{val: types.ErrorValue(), array: true, typeName: ref.String()}
	}
	if !f.Final() || f.Decl.Init == nil || !constantType(ref) {
		return nonConstant()
	}
	memo := ev.fields[f.Decl]
	if memo == nil {
		memo = &fieldConst{}
		ev.fields[f.Decl] = memo
	}
	switch memo.state {
	case fieldDone:
		return memo.res
	case fieldVisiting:
		return nonConstant()
	}
	memo.state = fieldVisiting
	inner := Context{
		Scope: symbols.Scope{Unit: f.Owner.Decl.Unit, Type: f.Owner},
		Field: f,
	}
	memo.res = ev.quietFold(inner, f.Decl.Init, ref)
	memo.state = fieldDone
	return memo.res
}

func (ev *Evaluator) local(ctx Context, lv *ast.LocalVar) result {
	if !lv.Modifiers.Has(ast.ModFinal) || lv.Init == nil || !constantType(lv.Type) {
		if lv.Type != nil && lv.Type.Dims > 0 {
			return result{val: types.ErrorValue(), array: true, typeName: lv.Type.String()}
		}
		return nonConstant()
	}
	memo := ev.locals[lv]
	if memo == nil {
		memo = &fieldConst{}
		ev.locals[lv] = memo
	}
	switch memo.state {
	case fieldDone:
		return memo.res
	case fieldVisiting:
		return nonConstant()
	}
	memo.state = fieldVisiting
	inner := ctx
	inner.Field = nil
	for i, other := range ctx.Locals {
		if other == lv {
			inner.Locals = ctx.Locals[:i]
			break
		}
	}
	memo.res = ev.quietFold(inner, lv.Init, lv.Type)
	memo.state = fieldDone
	return memo.res
}

// quietFold folds a variable initializer and converts it to the declared
// type, discarding its problems.
func (ev *Evaluator) quietFold(ctx Context, init *ast.Expr, declared *ast.TypeRef) result {
	ev.muted++
	defer func() { ev.muted-- }()
	r := ev.fold(ctx, init, types.AttrType{})
	if !r.constant {
		return nonConstant()
	}
	if p, ok := types.ParsePrim(declared.Name); ok {
		v, ok := convertConstant(r.val, p)
		if !ok {
			return nonConstant()
		}
		return constant(v)
	}
	if r.val.Kind != types.ValString {
		return nonConstant()
	}
	return r
}

// constantType reports the declared types a constant variable can have.
func constantType(ref *ast.TypeRef) bool {
	if ref == nil || ref.Dims > 0 || len(ref.Args) > 0 {
		return false
	}
	if _, ok := types.ParsePrim(ref.Name); ok {
		return true
	}
	return ref.Name == "String" || ref.Name == "java.lang.String"
}

// classLiteral checks T.class.
func (ev *Evaluator) classLiteral(ctx Context, e *ast.Expr) result {
	ref := e.Type
	if ref == nil {
		return nonConstant()
	}
	written := ref.String() + ".class"
	if len(ref.Args) > 0 || ref.Diamond {
		if ref.Dims > 0 {
			ev.report(diag.IllegalGenericArray, e.Span, ref.Base().String())
			return failed()
		}
		return nonConstant()
	}
	if _, ok := types.ParsePrim(ref.Name); ok || ref.Name == "void" {
		return constant(types.ClassValue(written))
	}
	res := ev.table.ResolveType(ctx.Scope, ref.Name)
	switch {
	case res.TypeVar != "":
		ev.report(diag.IllegalClassLiteralForTypeVariable, e.Span, res.TypeVar)
		return failed()
	case res.Type == nil:
		span := ref.Span
		if span.Empty() {
			span = e.Span
		}
		ev.report(diag.UndefinedType, span, ref.Name)
		return failed()
	}
	return constant(types.ClassValue(written))
}
