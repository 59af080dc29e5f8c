package javasrc

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"annocheck/internal/ast"
)

// annotation converts annotation and marker_annotation nodes.
func (c *converter) annotation(n *sitter.Node) *ast.Annotation {
	nameNode := n.ChildByFieldName("name")
	ann := &ast.Annotation{
		Name:     c.name(nameNode),
		Form:     ast.FormMarker,
		Span:     c.span(n),
		NameSpan: c.span(nameNode),
	}
	args := n.ChildByFieldName("arguments")
	if args == nil {
		return ann
	}
	ann.Form = ast.FormNormal
	for i := range args.NamedChildCount() {
		child := args.NamedChild(i)
		switch child.Kind() {
		case "element_value_pair":
			key := child.ChildByFieldName("key")
			ann.Pairs = append(ann.Pairs, &ast.MemberValuePair{
				Name:     c.ident(key),
				Value:    c.expr(child.ChildByFieldName("value")),
				Span:     c.span(child),
				NameSpan: c.span(key),
			})
		case "line_comment", "block_comment":
		default:
			v := c.expr(child)
			ann.Form = ast.FormSingle
			ann.Pairs = append(ann.Pairs, &ast.MemberValuePair{
				Name:  "value",
				Value: v,
				Span:  v.Span,
			})
		}
	}
	if len(ann.Pairs) == 0 {
		// @T() is the normal form without pairs
		ann.Form = ast.FormNormal
	}
	return ann
}

var literalKinds = map[string]ast.LitKind{
	"decimal_integer_literal":        ast.LitInt,
	"hex_integer_literal":            ast.LitInt,
	"octal_integer_literal":          ast.LitInt,
	"binary_integer_literal":         ast.LitInt,
	"decimal_floating_point_literal": ast.LitDouble,
	"hex_floating_point_literal":     ast.LitDouble,
	"character_literal":              ast.LitChar,
	"string_literal":                 ast.LitString,
	"true":                           ast.LitBool,
	"false":                          ast.LitBool,
}

// initializer converts a variable initializer; array initializers become
// ExprArrayInit like element value arrays.
func (c *converter) initializer(n *sitter.Node) *ast.Expr {
	if n == nil {
		return nil
	}
	return c.expr(n)
}

// expr converts the constant-expression subset. Everything else keeps
// its kind and span only.
func (c *converter) expr(n *sitter.Node) *ast.Expr {
	if n == nil {
		return nil
	}
	e := &ast.Expr{Span: c.span(n)}
	kind := n.Kind()
	if lit, ok := literalKinds[kind]; ok {
		e.Kind, e.Lit, e.Text = ast.ExprLiteral, lit, c.text(n)
		e.Lit = literalSuffix(lit, e.Text)
		return e
	}
	switch kind {
	case "identifier":
		e.Kind, e.Name = ast.ExprName, c.ident(n)
	case "scoped_identifier":
		e.Kind, e.Name = ast.ExprName, c.name(n)
	case "null_literal":
		e.Kind = ast.ExprNull
	case "parenthesized_expression":
		e.Kind, e.X = ast.ExprParen, c.expr(n.NamedChild(0))
	case "binary_expression":
		e.Kind = ast.ExprBinary
		e.Op = strings.TrimSpace(c.text(n.ChildByFieldName("operator")))
		e.X = c.expr(n.ChildByFieldName("left"))
		e.Y = c.expr(n.ChildByFieldName("right"))
	case "unary_expression":
		e.Kind = ast.ExprUnary
		e.Op = strings.TrimSpace(c.text(n.ChildByFieldName("operator")))
		e.X = c.expr(n.ChildByFieldName("operand"))
	case "cast_expression":
		e.Kind = ast.ExprCast
		e.Type = c.typeRef(n.ChildByFieldName("type"))
		e.X = c.expr(n.ChildByFieldName("value"))
	case "class_literal":
		e.Kind = ast.ExprClassLit
		e.Type = c.typeRef(n.NamedChild(0))
		if e.Type == nil {
			// void.class
			e.Type = &ast.TypeRef{Name: "void", Span: c.span(n.NamedChild(0))}
		}
	case "field_access":
		e.Kind = ast.ExprFieldAccess
		e.X = c.expr(n.ChildByFieldName("object"))
		e.Name = c.ident(n.ChildByFieldName("field"))
	case "element_value_array_initializer", "array_initializer":
		e.Kind = ast.ExprArrayInit
		for i := range n.NamedChildCount() {
			child := n.NamedChild(i)
			if k := child.Kind(); k == "line_comment" || k == "block_comment" {
				continue
			}
			e.Elems = append(e.Elems, c.expr(child))
		}
	case "annotation", "marker_annotation":
		e.Kind, e.Annotation = ast.ExprAnnotation, c.annotation(n)
	case "ternary_expression":
		e.Kind = ast.ExprConditional
		e.X = c.expr(n.ChildByFieldName("consequence"))
		e.Y = c.expr(n.ChildByFieldName("alternative"))
	case "method_invocation":
		e.Kind = ast.ExprCall
	case "object_creation_expression", "array_creation_expression":
		e.Kind = ast.ExprNew
	case "this":
		e.Kind = ast.ExprThis
	default:
		e.Kind = ast.ExprOther
	}
	return e
}

// literalSuffix refines numeric literal kinds by their type suffix.
func literalSuffix(lit ast.LitKind, text string) ast.LitKind {
	if text == "" {
		return lit
	}
	last := text[len(text)-1]
	switch lit {
	case ast.LitInt:
		if last == 'l' || last == 'L' {
			return ast.LitLong
		}
	case ast.LitDouble:
		if last == 'f' || last == 'F' {
			return ast.LitFloat
		}
	}
	return lit
}
