package javasrc

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"annocheck/internal/ast"
)

var typeKinds = map[string]ast.TypeKind{
	"class_declaration":           ast.KindClass,
	"interface_declaration":       ast.KindInterface,
	"enum_declaration":            ast.KindEnum,
	"annotation_type_declaration": ast.KindAnnotation,
	"record_declaration":          ast.KindRecord,
}

// typeDecl converts a type declaration node; it returns nil for anything
// else.
func (c *converter) typeDecl(n *sitter.Node) *ast.TypeDecl {
	kind, ok := typeKinds[n.Kind()]
	if !ok {
		return nil
	}
	nameNode := n.ChildByFieldName("name")
	if nameNode == nil {
		return nil
	}
	decl := &ast.TypeDecl{
		Kind:       kind,
		Name:       c.ident(nameNode),
		Deprecated: c.deprecated(n),
		Span:       c.span(n),
		NameSpan:   c.span(nameNode),
	}
	decl.Modifiers, decl.Annotations = c.modifiers(n)
	decl.TypeParams = c.typeParams(n.ChildByFieldName("type_parameters"))

	for i := range n.NamedChildCount() {
		child := n.NamedChild(i)
		switch child.Kind() {
		case "superclass":
			decl.Superclass = c.typeRef(child.NamedChild(0))
		case "super_interfaces", "extends_interfaces":
			decl.Interfaces = append(decl.Interfaces, c.typeList(child)...)
		}
	}
	if kind == ast.KindRecord {
		c.recordComponents(decl, n.ChildByFieldName("parameters"))
	}
	if body := n.ChildByFieldName("body"); body != nil {
		c.body(decl, body)
	}
	if rt, ok := c.recovered[decl.NameSpan.Start]; ok && kind == ast.KindAnnotation {
		rt.attach(decl)
	}
	return decl
}

func (c *converter) typeList(n *sitter.Node) []*ast.TypeRef {
	var out []*ast.TypeRef
	for i := range n.NamedChildCount() {
		child := n.NamedChild(i)
		if child.Kind() == "type_list" {
			return c.typeList(child)
		}
		if ref := c.typeRef(child); ref != nil {
			out = append(out, ref)
		}
	}
	return out
}

// recordComponents turns record components into private final fields.
func (c *converter) recordComponents(decl *ast.TypeDecl, params *sitter.Node) {
	if params == nil {
		return
	}
	for _, p := range c.params(params) {
		decl.Fields = append(decl.Fields, &ast.FieldDecl{
			Name:        p.Name,
			Type:        p.Type,
			Modifiers:   ast.ModPrivate | ast.ModFinal,
			Annotations: p.Annotations,
			Used:        true,
			Span:        p.Span,
			NameSpan:    p.Span,
		})
	}
}

func (c *converter) body(decl *ast.TypeDecl, body *sitter.Node) {
	for i := range body.NamedChildCount() {
		child := body.NamedChild(i)
		switch child.Kind() {
		case "field_declaration", "constant_declaration":
			decl.Fields = append(decl.Fields, c.fields(child)...)
		case "method_declaration", "constructor_declaration", "annotation_type_element_declaration", "compact_constructor_declaration":
			decl.Methods = append(decl.Methods, c.method(child))
		case "enum_constant":
			decl.Constants = append(decl.Constants, c.enumConstant(child))
		case "enum_body_declarations":
			c.body(decl, child)
		default:
			if nested := c.typeDecl(child); nested != nil {
				decl.Types = append(decl.Types, nested)
			}
		}
	}
}

func (c *converter) enumConstant(n *sitter.Node) *ast.EnumConstant {
	_, anns := c.modifiers(n)
	return &ast.EnumConstant{
		Name:        c.ident(n.ChildByFieldName("name")),
		Annotations: anns,
		Span:        c.span(n),
	}
}

// fields expands one field declaration into its declarators. Each
// declarator span starts at the declaration so that it covers the
// modifiers.
func (c *converter) fields(n *sitter.Node) []*ast.FieldDecl {
	mods, anns := c.modifiers(n)
	typ := c.typeRef(n.ChildByFieldName("type"))
	deprecated := c.deprecated(n)
	var out []*ast.FieldDecl
	for _, d := range declarators(n) {
		nameNode := d.ChildByFieldName("name")
		name := c.ident(nameNode)
		out = append(out, &ast.FieldDecl{
			Name:        name,
			Type:        withDims(typ, d.ChildByFieldName("dimensions"), c),
			Modifiers:   mods,
			Annotations: anns,
			Init:        c.initializer(d.ChildByFieldName("value")),
			Used:        c.refs[name] > 0,
			Deprecated:  deprecated,
			Span:        c.spanFrom(n, d),
			NameSpan:    c.span(nameNode),
		})
	}
	return out
}

func declarators(n *sitter.Node) []*sitter.Node {
	var out []*sitter.Node
	for i := range n.NamedChildCount() {
		if child := n.NamedChild(i); child.Kind() == "variable_declarator" {
			out = append(out, child)
		}
	}
	return out
}

func (c *converter) method(n *sitter.Node) *ast.MethodDecl {
	nameNode := n.ChildByFieldName("name")
	m := &ast.MethodDecl{
		Name:        c.ident(nameNode),
		Constructor: n.Kind() == "constructor_declaration" || n.Kind() == "compact_constructor_declaration",
		Deprecated:  c.deprecated(n),
		Span:        c.span(n),
		NameSpan:    c.span(nameNode),
	}
	m.Modifiers, m.Annotations = c.modifiers(n)
	m.TypeParams = c.typeParams(n.ChildByFieldName("type_parameters"))
	if !m.Constructor {
		m.Result = withDims(c.typeRef(n.ChildByFieldName("type")), n.ChildByFieldName("dimensions"), c)
	}
	if params := n.ChildByFieldName("parameters"); params != nil {
		m.Params = c.params(params)
	}
	if n.Kind() == "annotation_type_element_declaration" {
		m.Default = c.expr(n.ChildByFieldName("value"))
	}
	if body := n.ChildByFieldName("body"); body != nil {
		m.HasBody = true
		c.methodBody(m, body)
	}
	return m
}

func (c *converter) params(n *sitter.Node) []*ast.Param {
	var out []*ast.Param
	for i := range n.NamedChildCount() {
		child := n.NamedChild(i)
		switch child.Kind() {
		case "formal_parameter":
			p := &ast.Param{
				Name: c.ident(child.ChildByFieldName("name")),
				Type: withDims(c.typeRef(child.ChildByFieldName("type")), child.ChildByFieldName("dimensions"), c),
				Span: c.span(child),
			}
			p.Modifiers, p.Annotations = c.modifiers(child)
			out = append(out, p)
		case "spread_parameter":
			p := &ast.Param{Varargs: true, Span: c.span(child)}
			p.Modifiers, p.Annotations = c.modifiers(child)
			for j := range child.NamedChildCount() {
				part := child.NamedChild(j)
				switch part.Kind() {
				case "modifiers":
				case "variable_declarator":
					p.Name = c.ident(part.ChildByFieldName("name"))
				default:
					if p.Type == nil {
						p.Type = c.typeRef(part)
					}
				}
			}
			if p.Type != nil {
				p.Type.Dims++
			}
			out = append(out, p)
		}
	}
	return out
}

// methodBody collects the local variables and local types of a body.
// Anonymous class bodies are searched for local types only; their own
// members are not converted.
func (c *converter) methodBody(m *ast.MethodDecl, body *sitter.Node) {
	refs := make(map[string]int)
	collectRefs(body, c.src, refs)
	c.locals(m, body, refs, false)
}

func (c *converter) locals(m *ast.MethodDecl, n *sitter.Node, refs map[string]int, anonymous bool) {
	for i := range n.NamedChildCount() {
		child := n.NamedChild(i)
		if decl := c.typeDecl(child); decl != nil {
			m.LocalTypes = append(m.LocalTypes, decl)
			continue
		}
		switch child.Kind() {
		case "local_variable_declaration":
			if !anonymous {
				m.Locals = append(m.Locals, c.localVars(child, refs)...)
			}
			c.locals(m, child, refs, anonymous)
		case "class_body":
			c.locals(m, child, refs, true)
		default:
			c.locals(m, child, refs, anonymous)
		}
	}
}

func (c *converter) localVars(n *sitter.Node, refs map[string]int) []*ast.LocalVar {
	mods, anns := c.modifiers(n)
	typ := c.typeRef(n.ChildByFieldName("type"))
	var out []*ast.LocalVar
	for _, d := range declarators(n) {
		nameNode := d.ChildByFieldName("name")
		name := c.ident(nameNode)
		out = append(out, &ast.LocalVar{
			Name:        name,
			Type:        withDims(typ, d.ChildByFieldName("dimensions"), c),
			Modifiers:   mods,
			Annotations: anns,
			Init:        c.initializer(d.ChildByFieldName("value")),
			Used:        refs[name] > 0,
			Span:        c.spanFrom(n, d),
			NameSpan:    c.span(nameNode),
		})
	}
	return out
}

func (c *converter) typeParams(n *sitter.Node) []*ast.TypeParam {
	if n == nil {
		return nil
	}
	var out []*ast.TypeParam
	for i := range n.NamedChildCount() {
		child := n.NamedChild(i)
		if child.Kind() != "type_parameter" {
			continue
		}
		tp := &ast.TypeParam{Span: c.span(child)}
		for j := range child.NamedChildCount() {
			part := child.NamedChild(j)
			switch part.Kind() {
			case "annotation", "marker_annotation":
				tp.Annotations = append(tp.Annotations, c.annotation(part))
			case "type_identifier", "identifier":
				tp.Name = c.ident(part)
			}
		}
		out = append(out, tp)
	}
	return out
}

// modifiers reads the modifiers child of a declaration.
func (c *converter) modifiers(n *sitter.Node) (ast.Modifiers, []*ast.Annotation) {
	var mods ast.Modifiers
	var anns []*ast.Annotation
	for i := range n.NamedChildCount() {
		child := n.NamedChild(i)
		if child.Kind() != "modifiers" {
			continue
		}
		for j := range child.ChildCount() {
			part := child.Child(j)
			switch part.Kind() {
			case "annotation", "marker_annotation":
				anns = append(anns, c.annotation(part))
			default:
				if m, ok := ast.ParseModifier(strings.TrimSpace(c.text(part))); ok {
					mods |= m
				}
			}
		}
	}
	return mods, anns
}
