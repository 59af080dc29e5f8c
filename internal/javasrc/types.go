package javasrc

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"annocheck/internal/ast"
)

// typeRef converts a type node. void converts to nil, like the Result of
// a void method.
func (c *converter) typeRef(n *sitter.Node) *ast.TypeRef {
	if n == nil {
		return nil
	}
	switch n.Kind() {
	case "void_type":
		return nil
	case "integral_type", "floating_point_type", "boolean_type":
		return &ast.TypeRef{Name: strings.TrimSpace(c.text(n)), Span: c.span(n)}
	case "type_identifier", "identifier", "scoped_type_identifier", "scoped_identifier":
		return &ast.TypeRef{Name: c.name(n), Span: c.span(n)}
	case "generic_type":
		ref := &ast.TypeRef{Name: c.name(n.NamedChild(0)), Span: c.span(n)}
		if args := lastChildOfKind(n, "type_arguments"); args != nil {
			ref.Args = c.typeArgs(args)
			ref.Diamond = len(ref.Args) == 0
		}
		return ref
	case "array_type":
		ref := c.typeRef(n.ChildByFieldName("element"))
		if ref == nil {
			return nil
		}
		ref.Dims += dims(n.ChildByFieldName("dimensions"), c)
		ref.Span = c.span(n)
		return ref
	case "annotated_type":
		for i := n.NamedChildCount(); i > 0; i-- {
			child := n.NamedChild(i - 1)
			if k := child.Kind(); k != "annotation" && k != "marker_annotation" {
				return c.typeRef(child)
			}
		}
	case "wildcard":
		ref := &ast.TypeRef{Name: "?", Span: c.span(n)}
		for i := range n.ChildCount() {
			switch child := n.Child(i); child.Kind() {
			case "extends":
				ref.Upper = true
			case "super", "annotation", "marker_annotation", "?":
			default:
				if child.IsNamed() {
					ref.Bound = c.typeRef(child)
				}
			}
		}
		return ref
	}
	return nil
}

func (c *converter) typeArgs(n *sitter.Node) []*ast.TypeRef {
	var out []*ast.TypeRef
	for i := range n.NamedChildCount() {
		if ref := c.typeRef(n.NamedChild(i)); ref != nil {
			out = append(out, ref)
		}
	}
	return out
}

// withDims returns ref with the extra dimensions written after a
// declarator name, as in int x[].
func withDims(ref *ast.TypeRef, n *sitter.Node, c *converter) *ast.TypeRef {
	extra := dims(n, c)
	if ref == nil || extra == 0 {
		return ref
	}
	cp := *ref
	cp.Dims += extra
	return &cp
}

func dims(n *sitter.Node, c *converter) int {
	if n == nil {
		return 0
	}
	return strings.Count(c.text(n), "[")
}

func lastChildOfKind(n *sitter.Node, kind string) *sitter.Node {
	for i := n.NamedChildCount(); i > 0; i-- {
		if child := n.NamedChild(i - 1); child.Kind() == kind {
			return child
		}
	}
	return nil
}
