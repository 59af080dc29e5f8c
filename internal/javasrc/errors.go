package javasrc

import (
	"strings"
	"unicode"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"annocheck/internal/diag"
)

// syntaxErrors reports ERROR nodes as tokens to delete and MISSING nodes
// as tokens to insert. Subtrees of an ERROR node are not searched again.
func (c *converter) syntaxErrors(root *sitter.Node) {
	if !root.HasError() {
		return
	}
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		switch {
		case n.IsError():
			c.syntaxError(diag.ParsingErrorDeleteToken, n, firstToken(c.text(n)))
			return
		case n.IsMissing():
			c.syntaxError(diag.ParsingErrorInsertToken, n, n.Kind(), construct(n.Parent()))
			return
		case !n.HasError():
			return
		}
		for i := range n.ChildCount() {
			walk(n.Child(i))
		}
	}
	walk(root)
}

func (c *converter) syntaxError(code diag.Code, n *sitter.Node, args ...string) {
	c.u.SyntaxErrors++
	if c.opts.Reporter == nil || c.opts.MaxErrors > 0 && c.errors >= c.opts.MaxErrors {
		return
	}
	c.errors++
	c.opts.Reporter.Report(diag.New(diag.SevError, code, c.span(n), args...))
}

// firstToken returns the first whitespace-delimited token of s.
func firstToken(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return s
	}
	return fields[0]
}

// construct names the grammar rule a missing token would complete, e.g.
// local_variable_declaration becomes LocalVariableDeclaration.
func construct(n *sitter.Node) string {
	if n == nil {
		return "CompilationUnit"
	}
	var b strings.Builder
	upper := true
	for _, r := range n.Kind() {
		if r == '_' {
			upper = true
			continue
		}
		if upper {
			r = unicode.ToUpper(r)
			upper = false
		}
		b.WriteRune(r)
	}
	if b.Len() == 0 || n.Kind() == "program" {
		return "CompilationUnit"
	}
	return b.String()
}
