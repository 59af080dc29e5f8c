package javasrc

import (
	"regexp"
	"strconv"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"annocheck/internal/ast"
)

var (
	nlsTag        = regexp.MustCompile(`\$NON-NLS-(\d+)\$`)
	deprecatedTag = regexp.MustCompile(`(?m)^[\s*]*@deprecated\b`)
)

// literals records every string literal outside annotations with its
// position on its line, and whether a //$NON-NLS-n$ tag on the same line
// claims it.
func (c *converter) literals(root *sitter.Node) {
	var lits []*sitter.Node
	tags := make(map[uint32]map[int]bool)
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		switch n.Kind() {
		case "annotation", "marker_annotation":
			return
		case "string_literal":
			lits = append(lits, n)
			return
		case "line_comment":
			line := c.line(n)
			for _, m := range nlsTag.FindAllStringSubmatch(c.text(n), -1) {
				idx, err := strconv.Atoi(m[1])
				if err != nil {
					continue
				}
				if tags[line] == nil {
					tags[line] = make(map[int]bool)
				}
				tags[line][idx] = true
			}
			return
		case "annotation_type_element_declaration":
			// default values are annotation values
			value := n.ChildByFieldName("value")
			for i := range n.NamedChildCount() {
				if child := n.NamedChild(i); child.Kind() != "modifiers" && !sameNode(child, value) {
					walk(child)
				}
			}
			return
		}
		for i := range n.ChildCount() {
			walk(n.Child(i))
		}
	}
	walk(root)

	var (
		curLine uint32
		index   int
	)
	for _, n := range lits {
		line := c.line(n)
		if line != curLine {
			curLine, index = line, 0
		}
		index++
		c.u.Literals = append(c.u.Literals, ast.StringLiteral{
			Span:   c.span(n),
			Tagged: tags[line][index],
			Index:  index,
		})
	}
}

func (c *converter) line(n *sitter.Node) uint32 {
	start, _ := c.fs.Resolve(c.span(n))
	return start.Line
}

// deprecated reports a Javadoc comment with a @deprecated tag directly in
// front of the declaration n.
func (c *converter) deprecated(n *sitter.Node) bool {
	prev := n.PrevSibling()
	for prev != nil && prev.Kind() == "line_comment" {
		prev = prev.PrevSibling()
	}
	if prev == nil || prev.Kind() != "block_comment" {
		return false
	}
	text := c.text(prev)
	if len(text) < 5 || text[:3] != "/**" {
		return false
	}
	return deprecatedTag.MatchString(text[3 : len(text)-2])
}
