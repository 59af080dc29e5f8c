// Package consteval evaluates annotation element values and the
// compile-time constant expressions they are built from.
package consteval

import (
	"annocheck/internal/ast"
	"annocheck/internal/diag"
	"annocheck/internal/source"
	"annocheck/internal/symbols"
	"annocheck/internal/types"
)

// Problem is one evaluation failure. The caller turns problems into
// diagnostics so that suppression and severity stay in one place.
type Problem struct {
	Code diag.Code
	Span source.Span
	Args []string
}

// Context is the position an expression is evaluated from.
type Context struct {
	Scope symbols.Scope
	// Field is set while evaluating the annotations or initializer of a
	// field; simple names of later fields of the same type are forward
	// references.
	Field *symbols.Field
	// Locals are the local variables in scope, the annotated one included.
	Locals []*ast.LocalVar
	// Owner and Attr name the attribute being assigned, for messages.
	Owner string
	Attr  string
}

// NestedFunc resolves a nested annotation used as an element value. It
// reports its own diagnostics and returns an error value when the
// annotation type is unknown.
type NestedFunc func(ctx Context, ann *ast.Annotation) types.Value

type fieldState uint8

const (
	fieldUnvisited fieldState = iota
	fieldVisiting
	fieldDone
)

type fieldConst struct {
	state fieldState
	res   result
}

// Evaluator folds constants for one compilation unit walk. Field
// constants are memoised; it is not safe for concurrent use.
type Evaluator struct {
	table  *symbols.Table
	nested NestedFunc

	fields   map[*ast.FieldDecl]*fieldConst
	locals   map[*ast.LocalVar]*fieldConst
	problems []Problem
	muted    int
}

// New returns an evaluator bound to table. nested may be nil, in which
// case nested annotations evaluate to error values.
func New(table *symbols.Table, nested NestedFunc) *Evaluator {
	return &Evaluator{
		table:  table,
		nested: nested,
		fields: make(map[*ast.FieldDecl]*fieldConst),
		locals: make(map[*ast.LocalVar]*fieldConst),
	}
}

// result is a folded expression. A non-constant result may still carry a
// type for mismatch messages, e.g. a reference to an array field.
type result struct {
	val      types.Value
	constant bool
	// typeName is set for non-constant typed references.
	typeName string
	array    bool
	// reported marks results whose failure was already reported.
	reported bool
}

func constant(v types.Value) result { return result{val: v, constant: true} }

func nonConstant() result { return result{val: types.ErrorValue()} }

func failed() result { return result{val: types.ErrorValue(), reported: true} }

func (ev *Evaluator) report(code diag.Code, span source.Span, args ...string) {
	if ev.muted > 0 {
		return
	}
	ev.problems = append(ev.problems, Problem{Code: code, Span: span, Args: args})
}

// begin starts collecting problems for one call. Nested annotations
// evaluate their members through Evaluate while the outer call is still
// collecting, so the outer problems are set aside and restored by end.
func (ev *Evaluator) begin() []Problem {
	saved := ev.problems
	ev.problems = nil
	return saved
}

func (ev *Evaluator) end(saved []Problem) []Problem {
	out := ev.problems
	ev.problems = saved
	return out
}

// Evaluate checks expr against the attribute type expected and returns
// its value. Array types accept a single element, wrapped into a
// one-element array. Problems are in source order of discovery.
func (ev *Evaluator) Evaluate(ctx Context, expr *ast.Expr, expected types.AttrType) (types.Value, []Problem) {
	if expr == nil {
		return types.ErrorValue(), nil
	}
	saved := ev.begin()
	var v types.Value
	if expected.IsArray() {
		v = ev.evalArray(ctx, expr, expected)
	} else {
		v = ev.evalScalar(ctx, expr, expected, false)
	}
	return v, ev.end(saved)
}

// Fold evaluates expr as a plain constant expression. ok is false when
// it is not constant.
func (ev *Evaluator) Fold(ctx Context, expr *ast.Expr) (types.Value, bool, []Problem) {
	saved := ev.begin()
	r := ev.fold(ctx, expr, types.AttrType{})
	return r.val, r.constant, ev.end(saved)
}

func (ev *Evaluator) evalArray(ctx Context, expr *ast.Expr, expected types.AttrType) types.Value {
	leaf := *expected.Elem
	e := expr.Unparen()
	switch e.Kind {
	case ast.ExprArrayInit:
		elems := make([]types.Value, 0, len(e.Elems))
		ok := true
		for _, el := range e.Elems {
			v := ev.evalScalar(ctx, el, leaf, true)
			if v.IsError() {
				ok = false
			}
			elems = append(elems, v)
		}
		if !ok {
			return types.ErrorValue()
		}
		return types.ArrayValue(elems...)
	case ast.ExprNew:
		ev.report(diag.AnnotationValueMustBeArrayInitializer, e.Span, ctx.Owner, ctx.Attr)
		return types.ErrorValue()
	}
	v := ev.evalScalar(ctx, e, leaf, true)
	if v.IsError() {
		return v
	}
	return types.ArrayValue(v)
}

// evalScalar checks one element value. inArray is set for elements of an
// array-typed attribute, where a reference to an array field needs an
// initializer instead.
func (ev *Evaluator) evalScalar(ctx Context, expr *ast.Expr, expected types.AttrType, inArray bool) types.Value {
	e := expr.Unparen()
	switch e.Kind {
	case ast.ExprNull:
		ev.mustBe(ctx, e.Span, expected)
		return types.ErrorValue()
	case ast.ExprArrayInit:
		if expected.Kind == types.AttrInvalid {
			return types.ErrorValue()
		}
		if inArray && len(e.Elems) > 0 {
			ev.mustBe(ctx, e.Span, expected)
			return types.ErrorValue()
		}
		ev.report(diag.TypeMismatch, e.Span, ev.arrayInitType(ctx, e), expected.String())
		return types.ErrorValue()
	case ast.ExprAnnotation:
		return ev.evalNested(ctx, e, expected)
	case ast.ExprClassLit:
		if expected.Kind == types.AttrClass {
			return ev.classLiteral(ctx, e).val
		}
	}
	if expected.Kind == types.AttrInvalid {
		// reported at the attribute declaration
		ev.muted++
		ev.fold(ctx, e, expected)
		ev.muted--
		return types.ErrorValue()
	}

	r := ev.fold(ctx, e, expected)
	switch {
	case r.reported:
		return types.ErrorValue()
	case r.array && inArray:
		ev.report(diag.AnnotationValueMustBeArrayInitializer, e.Span, ctx.Owner, ctx.Attr)
		return types.ErrorValue()
	case r.array:
		ev.report(diag.TypeMismatch, e.Span, r.typeName, expected.String())
		return types.ErrorValue()
	case !r.constant:
		ev.mustBe(ctx, e.Span, expected)
		return types.ErrorValue()
	}

	switch expected.Kind {
	case types.AttrString:
		if r.val.Kind == types.ValString {
			return r.val
		}
	case types.AttrPrimitive:
		if v, ok := convertConstant(r.val, expected.Prim); ok {
			return v
		}
	case types.AttrEnum:
		if r.val.Kind == types.ValEnum && r.val.Type == expected.Name {
			return r.val
		}
	case types.AttrAnnotation:
		ev.mustBe(ctx, e.Span, expected)
		return types.ErrorValue()
	}
	ev.report(diag.TypeMismatch, e.Span, r.val.TypeName(), expected.String())
	return types.ErrorValue()
}

// mustBe reports the shape error matching the expected leaf type.
func (ev *Evaluator) mustBe(ctx Context, span source.Span, expected types.AttrType) {
	switch expected.Leaf().Kind {
	case types.AttrClass:
		ev.report(diag.AnnotationValueMustBeClassLiteral, span, ctx.Owner, ctx.Attr)
	case types.AttrEnum:
		ev.report(diag.AnnotationValueMustBeAnEnumConstant, span, ctx.Owner, ctx.Attr)
	case types.AttrAnnotation:
		ev.report(diag.AnnotationValueMustBeAnnotation, span, ctx.Owner, ctx.Attr, expected.Leaf().String())
	case types.AttrInvalid:
	default:
		ev.report(diag.AnnotationValueMustBeConstant, span, ctx.Owner, ctx.Attr)
	}
}

// arrayInitType names the type of an array initializer used where a
// scalar is expected, e.g. int[] or Object[] for {}.
func (ev *Evaluator) arrayInitType(ctx Context, e *ast.Expr) string {
	if len(e.Elems) == 0 {
		return "Object[]"
	}
	ev.muted++
	r := ev.fold(ctx, e.Elems[0], types.AttrType{})
	ev.muted--
	if !r.constant {
		return "Object[]"
	}
	return r.val.TypeName() + "[]"
}

func (ev *Evaluator) evalNested(ctx Context, e *ast.Expr, expected types.AttrType) types.Value {
	if ev.nested == nil || e.Annotation == nil {
		return types.ErrorValue()
	}
	v := ev.nested(ctx, e.Annotation)
	if v.IsError() {
		return v
	}
	switch expected.Kind {
	case types.AttrAnnotation:
		if v.Type != expected.Name {
			ev.report(diag.TypeMismatch, e.Span, v.TypeName(), expected.String())
			return types.ErrorValue()
		}
		return v
	case types.AttrInvalid:
		return types.ErrorValue()
	}
	ev.report(diag.TypeMismatch, e.Span, v.TypeName(), expected.String())
	return types.ErrorValue()
}
