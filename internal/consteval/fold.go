package consteval

import (
	"math"
	"strconv"

	"annocheck/internal/ast"
	"annocheck/internal/diag"
	"annocheck/internal/types"
)

// fold evaluates e as a constant expression. expected is only consulted
// for unqualified enum constants.
func (ev *Evaluator) fold(ctx Context, e *ast.Expr, expected types.AttrType) result {
	e = e.Unparen()
	if e == nil {
		return nonConstant()
	}
	switch e.Kind {
	case ast.ExprLiteral:
		return ev.literal(e, false)
	case ast.ExprName:
		return ev.name(ctx, e, expected)
	case ast.ExprFieldAccess:
		if dotted, ok := dottedName(e); ok {
			return ev.name(ctx, &ast.Expr{Kind: ast.ExprName, Name: dotted, Span: e.Span}, expected)
		}
		r := ev.fold(ctx, e.X, types.AttrType{})
		if r.reported {
			return r
		}
		return nonConstant()
	case ast.ExprUnary:
		return ev.unary(ctx, e)
	case ast.ExprBinary:
		return ev.binary(ctx, e)
	case ast.ExprCast:
		return ev.cast(ctx, e)
	case ast.ExprClassLit:
		return ev.classLiteral(ctx, e)
	case ast.ExprAnnotation:
		if ev.nested == nil || e.Annotation == nil {
			return failed()
		}
		v := ev.nested(ctx, e.Annotation)
		if v.IsError() {
			return failed()
		}
		return constant(v)
	case ast.ExprArrayInit:
		for _, el := range e.Elems {
			ev.fold(ctx, el, expected.Leaf())
		}
		return nonConstant()
	case ast.ExprConditional:
		// operands still resolve so unknown names are reported
		reported := false
		for _, sub := range []*ast.Expr{e.X, e.Y} {
			if sub != nil && ev.fold(ctx, sub, expected).reported {
				reported = true
			}
		}
		if reported {
			return failed()
		}
		return nonConstant()
	}
	return nonConstant()
}

// dottedName flattens a.b.c field access chains.
func dottedName(e *ast.Expr) (string, bool) {
	switch e.Kind {
	case ast.ExprName:
		return e.Name, true
	case ast.ExprFieldAccess:
		if e.X == nil {
			return "", false
		}
		head, ok := dottedName(e.X)
		if !ok {
			return "", false
		}
		return head + "." + e.Name, true
	}
	return "", false
}

func (ev *Evaluator) unary(ctx Context, e *ast.Expr) result {
	var r result
	if e.Op == "-" && e.X != nil && e.X.Kind == ast.ExprLiteral {
		r = ev.literal(e.X, true)
	} else {
		r = ev.fold(ctx, e.X, types.AttrType{})
	}
	if !r.constant {
		return r
	}
	v := r.val
	switch e.Op {
	case "!":
		if v.Kind == types.ValBool {
			return constant(types.BoolValue(!v.Bool))
		}
	case "+":
		if v.Kind == types.ValInt || v.Kind == types.ValFloat {
			return constant(promote(v))
		}
	case "-":
		switch v.Kind {
		case types.ValInt:
			p := promote(v)
			return constant(types.IntValue(p.Prim, -p.Int))
		case types.ValFloat:
			return constant(types.FloatValue(v.Prim, -v.Float))
		}
	case "~":
		if v.Kind == types.ValInt {
			p := promote(v)
			return constant(types.IntValue(p.Prim, ^p.Int))
		}
	}
	ev.report(diag.TypeMismatch, e.Span, v.TypeName(), operandType(e.Op))
	return failed()
}

func operandType(op string) string {
	if op == "!" {
		return "boolean"
	}
	return "int"
}

// promote applies unary numeric promotion.
func promote(v types.Value) types.Value {
	if v.Kind == types.ValInt && v.Prim != types.PrimLong {
		return types.IntValue(types.PrimInt, v.Int)
	}
	return v
}

// binaryPromote returns the operand kind of binary numeric promotion.
func binaryPromote(a, b types.Value) types.PrimKind {
	switch {
	case a.Prim == types.PrimDouble || b.Prim == types.PrimDouble:
		return types.PrimDouble
	case a.Prim == types.PrimFloat || b.Prim == types.PrimFloat:
		return types.PrimFloat
	case a.Prim == types.PrimLong || b.Prim == types.PrimLong:
		return types.PrimLong
	}
	return types.PrimInt
}

func isNumeric(v types.Value) bool {
	return v.Kind == types.ValInt || v.Kind == types.ValFloat
}

func (ev *Evaluator) binary(ctx Context, e *ast.Expr) result {
	x := ev.fold(ctx, e.X, types.AttrType{})
	y := ev.fold(ctx, e.Y, types.AttrType{})
	if x.reported || y.reported {
		return failed()
	}
	if !x.constant || !y.constant {
		return nonConstant()
	}
	a, b := x.val, y.val

	if e.Op == "+" && (a.Kind == types.ValString || b.Kind == types.ValString) {
		if !concatenable(a) || !concatenable(b) {
			return nonConstant()
		}
		return constant(types.StringValue(javaString(a) + javaString(b)))
	}

	switch e.Op {
	case "&&", "||":
		if a.Kind != types.ValBool || b.Kind != types.ValBool {
			break
		}
		if e.Op == "&&" {
			return constant(types.BoolValue(a.Bool && b.Bool))
		}
		return constant(types.BoolValue(a.Bool || b.Bool))
	case "&", "|", "^":
		if a.Kind == types.ValBool && b.Kind == types.ValBool {
			switch e.Op {
			case "&":
				return constant(types.BoolValue(a.Bool && b.Bool))
			case "|":
				return constant(types.BoolValue(a.Bool || b.Bool))
			}
			return constant(types.BoolValue(a.Bool != b.Bool))
		}
		if a.Kind == types.ValInt && b.Kind == types.ValInt {
			p := binaryPromote(a, b)
			switch e.Op {
			case "&":
				return constant(types.IntValue(p, a.Int&b.Int))
			case "|":
				return constant(types.IntValue(p, a.Int|b.Int))
			}
			return constant(types.IntValue(p, a.Int^b.Int))
		}
	case "<<", ">>", ">>>":
		if a.Kind == types.ValInt && b.Kind == types.ValInt {
			return constant(shift(e.Op, promote(a), b.Int))
		}
	case "==", "!=":
		if a.Kind == types.ValBool && b.Kind == types.ValBool {
			return constant(types.BoolValue((a.Bool == b.Bool) == (e.Op == "==")))
		}
		if isNumeric(a) && isNumeric(b) {
			eq := compare(a, b, binaryPromote(a, b)) == 0
			return constant(types.BoolValue(eq == (e.Op == "==")))
		}
	case "<", "<=", ">", ">=":
		if isNumeric(a) && isNumeric(b) {
			c := compare(a, b, binaryPromote(a, b))
			if c == cmpUnordered {
				return constant(types.BoolValue(false))
			}
			var out bool
			switch e.Op {
			case "<":
				out = c < 0
			case "<=":
				out = c <= 0
			case ">":
				out = c > 0
			default:
				out = c >= 0
			}
			return constant(types.BoolValue(out))
		}
	case "+", "-", "*", "/", "%":
		if isNumeric(a) && isNumeric(b) {
			return arith(e.Op, a, b)
		}
	}
	return nonConstant()
}

func concatenable(v types.Value) bool {
	switch v.Kind {
	case types.ValString, types.ValBool, types.ValInt, types.ValFloat:
		return true
	}
	return false
}

const cmpUnordered = 2

func compare(a, b types.Value, p types.PrimKind) int {
	if p == types.PrimFloat || p == types.PrimDouble {
		x, y := a.Convert(p).Float, b.Convert(p).Float
		switch {
		case math.IsNaN(x) || math.IsNaN(y):
			return cmpUnordered
		case x < y:
			return -1
		case x > y:
			return 1
		}
		return 0
	}
	x, y := a.Int, b.Int
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	}
	return 0
}

func shift(op string, a types.Value, n int64) types.Value {
	if a.Prim == types.PrimLong {
		n &= 63
		switch op {
		case "<<":
			return types.IntValue(types.PrimLong, a.Int<<n)
		case ">>":
			return types.IntValue(types.PrimLong, a.Int>>n)
		}
		return types.IntValue(types.PrimLong, int64(uint64(a.Int)>>n))
	}
	n &= 31
	x := int32(a.Int)
	switch op {
	case "<<":
		return types.IntValue(types.PrimInt, int64(x<<n))
	case ">>":
		return types.IntValue(types.PrimInt, int64(x>>n))
	}
	return types.IntValue(types.PrimInt, int64(uint32(x)>>n))
}

// arith folds + - * / % with Java wraparound. Integer division by zero is
// not a constant.
func arith(op string, a, b types.Value) result {
	p := binaryPromote(a, b)
	if p == types.PrimFloat || p == types.PrimDouble {
		x, y := a.Convert(p).Float, b.Convert(p).Float
		var z float64
		switch op {
		case "+":
			z = x + y
		case "-":
			z = x - y
		case "*":
			z = x * y
		case "/":
			z = x / y
		default:
			z = math.Mod(x, y)
		}
		return constant(types.FloatValue(p, z))
	}
	x, y := a.Int, b.Int
	if (op == "/" || op == "%") && y == 0 {
		return nonConstant()
	}
	if p == types.PrimInt {
		x, y = int64(int32(x)), int64(int32(y))
	}
	var z int64
	switch op {
	case "+":
		z = x + y
	case "-":
		z = x - y
	case "*":
		z = x * y
	case "/":
		if x == math.MinInt64 && y == -1 {
			z = x
		} else {
			z = x / y
		}
	default:
		if y == -1 {
			z = 0
		} else {
			z = x % y
		}
	}
	return constant(types.IntValue(p, z))
}

func (ev *Evaluator) cast(ctx Context, e *ast.Expr) result {
	r := ev.fold(ctx, e.X, types.AttrType{})
	if !r.constant || e.Type == nil || e.Type.Dims > 0 {
		if r.constant {
			return nonConstant()
		}
		return r
	}
	v := r.val
	if p, ok := types.ParsePrim(e.Type.Name); ok {
		switch {
		case p == types.PrimBoolean && v.Kind == types.ValBool:
			return constant(v)
		case p.IsNumeric() && isNumeric(v):
			return constant(v.Convert(p))
		}
		ev.report(diag.TypeMismatch, e.Span, v.TypeName(), p.String())
		return failed()
	}
	if e.Type.SimpleName() == "String" && v.Kind == types.ValString {
		return constant(v)
	}
	return nonConstant()
}

// convertConstant applies assignment conversion of a constant to p:
// widening, plus narrowing of int-or-smaller constants to byte, short and
// char when the value fits.
func convertConstant(v types.Value, p types.PrimKind) (types.Value, bool) {
	src := v.PrimType()
	if src == types.PrimInvalid {
		return v, false
	}
	if src == types.PrimBoolean || p == types.PrimBoolean {
		return v, src == p
	}
	if src.WidensTo(p) {
		return v.Convert(p), true
	}
	if v.Kind != types.ValInt || src == types.PrimLong {
		return v, false
	}
	var lo, hi int64
	switch p {
	case types.PrimByte:
		lo, hi = math.MinInt8, math.MaxInt8
	case types.PrimShort:
		lo, hi = math.MinInt16, math.MaxInt16
	case types.PrimChar:
		lo, hi = 0, math.MaxUint16
	default:
		return v, false
	}
	if v.Int < lo || v.Int > hi {
		return v, false
	}
	return v.Convert(p), true
}

// javaString renders a constant the way string concatenation does.
func javaString(v types.Value) string {
	switch v.Kind {
	case types.ValString:
		return v.Str
	case types.ValBool:
		if v.Bool {
			return "true"
		}
		return "false"
	case types.ValInt:
		if v.Prim == types.PrimChar {
			return string(rune(v.Int))
		}
		return strconv.FormatInt(v.Int, 10)
	case types.ValFloat:
		return javaFloat(v.Float, v.Prim == types.PrimFloat)
	}
	return v.String()
}
