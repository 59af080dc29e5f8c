package ast

import "annocheck/internal/source"

// ExprKind tags the Expr sum type.
type ExprKind uint8

const (
	ExprInvalid ExprKind = iota
	ExprLiteral
	ExprName
	ExprBinary
	ExprUnary
	ExprParen
	ExprCast
	ExprClassLit
	ExprArrayInit
	ExprAnnotation
	ExprNull
	// non-constant shapes
	ExprCall
	ExprNew
	ExprConditional
	ExprThis
	ExprFieldAccess
	ExprOther
)

func (k ExprKind) String() string {
	switch k {
	case ExprLiteral:
		return "literal"
	case ExprName:
		return "name"
	case ExprBinary:
		return "binary"
	case ExprUnary:
		return "unary"
	case ExprParen:
		return "paren"
	case ExprCast:
		return "cast"
	case ExprClassLit:
		return "class literal"
	case ExprArrayInit:
		return "array initializer"
	case ExprAnnotation:
		return "annotation"
	case ExprNull:
		return "null"
	case ExprCall:
		return "call"
	case ExprNew:
		return "new"
	case ExprConditional:
		return "conditional"
	case ExprThis:
		return "this"
	case ExprFieldAccess:
		return "field access"
	case ExprOther:
		return "expression"
	}
	return "invalid"
}

// LitKind classifies literals.
type LitKind uint8

const (
	LitInt LitKind = iota
	LitLong
	LitFloat
	LitDouble
	LitChar
	LitString
	LitBool
)

// Expr is the constant-expression AST.
//
//	ExprLiteral     Lit, Text (raw source text, quotes included)
//	ExprName        Name (simple or dotted)
//	ExprBinary      Op, X, Y
//	ExprUnary       Op, X
//	ExprParen       X
//	ExprCast        Type, X
//	ExprClassLit    Type
//	ExprArrayInit   Elems
//	ExprAnnotation  Annotation
//	ExprFieldAccess X (receiver), Name (selected field)
//
// Other kinds only keep Span.
type Expr struct {
	Kind       ExprKind
	Lit        LitKind
	Text       string
	Name       string
	Op         string
	X, Y       *Expr
	Type       *TypeRef
	Elems      []*Expr
	Annotation *Annotation
	Span       source.Span
}

// Unparen strips enclosing parentheses.
func (e *Expr) Unparen() *Expr {
	for e != nil && e.Kind == ExprParen {
		e = e.X
	}
	return e
}
