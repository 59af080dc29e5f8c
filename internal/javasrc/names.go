package javasrc

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
	"golang.org/x/text/unicode/norm"
)

// ident returns an identifier in NFC so that differently composed
// spellings of the same name compare equal.
func (c *converter) ident(n *sitter.Node) string {
	return norm.NFC.String(c.text(n))
}

// name flattens identifier and scoped_identifier nodes into a dotted name.
func (c *converter) name(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	switch n.Kind() {
	case "scoped_identifier", "scoped_type_identifier":
		scope := n.ChildByFieldName("scope")
		if scope == nil {
			scope = n.NamedChild(0)
		}
		last := n.ChildByFieldName("name")
		if last == nil {
			last = n.NamedChild(n.NamedChildCount() - 1)
		}
		return c.name(scope) + "." + c.ident(last)
	case "generic_type":
		return c.name(n.NamedChild(0))
	}
	return c.ident(n)
}

// collectRefs counts identifier uses below n. Declaration names, annotation
// member keys and assignment targets are not uses.
func collectRefs(n *sitter.Node, src []byte, into map[string]int) {
	switch n.Kind() {
	case "identifier", "type_identifier":
		if !isDeclName(n) {
			into[norm.NFC.String(n.Utf8Text(src))]++
		}
		return
	case "line_comment", "block_comment":
		return
	}
	for i := range n.NamedChildCount() {
		collectRefs(n.NamedChild(i), src, into)
	}
}

func isDeclName(n *sitter.Node) bool {
	parent := n.Parent()
	if parent == nil {
		return false
	}
	field := ""
	switch parent.Kind() {
	case "variable_declarator", "formal_parameter", "catch_formal_parameter",
		"class_declaration", "interface_declaration", "enum_declaration",
		"record_declaration", "annotation_type_declaration",
		"annotation_type_element_declaration", "method_declaration",
		"constructor_declaration", "compact_constructor_declaration",
		"enum_constant", "resource", "enhanced_for_statement":
		field = "name"
	case "element_value_pair":
		field = "key"
	case "assignment_expression":
		field = "left"
	case "type_parameter":
		return true
	default:
		return false
	}
	return sameNode(parent.ChildByFieldName(field), n)
}

func sameNode(a, b *sitter.Node) bool {
	return a != nil && b != nil && a.StartByte() == b.StartByte() && a.EndByte() == b.EndByte() && a.Kind() == b.Kind()
}
