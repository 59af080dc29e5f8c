package javasrc

import (
	"errors"
	"fmt"

	"fortio.org/safecast"
	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_java "github.com/tree-sitter/tree-sitter-java/bindings/go"

	"annocheck/internal/ast"
	"annocheck/internal/diag"
	"annocheck/internal/source"
)

// ErrNoTree is returned when the grammar produced no tree at all.
var ErrNoTree = errors.New("javasrc: parser returned no tree")

var java = sitter.NewLanguage(tree_sitter_java.Language())

type Options struct {
	// MaxErrors caps the syntax diagnostics reported per file; 0 means
	// no limit. SyntaxErrors still counts every error.
	MaxErrors uint
	Reporter  diag.Reporter
}

// ParseFile parses the file id of fs. A tree with syntax errors is still
// converted; the errors go to opts.Reporter.
func ParseFile(fs *source.FileSet, id source.FileID, opts Options) (*ast.CompilationUnit, error) {
	f := fs.Get(id)
	if f == nil {
		return nil, fmt.Errorf("javasrc: unknown file id %d", id)
	}
	if _, err := safecast.Conv[uint32](len(f.Content)); err != nil {
		return nil, fmt.Errorf("javasrc: %s: %w", f.Path, err)
	}

	p := sitter.NewParser()
	defer p.Close()
	if err := p.SetLanguage(java); err != nil {
		return nil, fmt.Errorf("javasrc: set language: %w", err)
	}
	c := &converter{
		fs:   fs,
		file: f,
		src:  f.Content,
		opts: opts,
	}
	c.src, c.recovered = c.recoverAnnotationTypes(f.Content)

	tree := p.Parse(c.src, nil)
	if tree == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoTree, f.Path)
	}
	defer tree.Close()
	return c.unit(tree.RootNode()), nil
}

// ParseSource adds content to fs as a virtual file and parses it.
func ParseSource(fs *source.FileSet, name string, content []byte, opts Options) (*ast.CompilationUnit, error) {
	return ParseFile(fs, fs.AddVirtual(name, content), opts)
}

type converter struct {
	fs   *source.FileSet
	file *source.File
	src  []byte
	opts Options
	u    *ast.CompilationUnit

	// refs counts the identifiers of the unit that are not declaration
	// names, outside imports and the package clause.
	refs   map[string]int
	errors uint
	// recovered holds the @interface parts blanked out of src, keyed by
	// the offset of the type name.
	recovered map[uint32]*recoveredType
}

func (c *converter) unit(root *sitter.Node) *ast.CompilationUnit {
	c.u = &ast.CompilationUnit{
		File: c.file.ID,
		Path: c.file.Path,
		Span: source.Span{File: c.file.ID, End: uint32(len(c.src))}, // #nosec G115
	}
	c.refs = make(map[string]int)
	for i := range root.NamedChildCount() {
		child := root.NamedChild(i)
		switch child.Kind() {
		case "package_declaration", "import_declaration":
		default:
			collectRefs(child, c.src, c.refs)
		}
	}

	for i := range root.NamedChildCount() {
		child := root.NamedChild(i)
		switch child.Kind() {
		case "package_declaration":
			c.packageDecl(child)
		case "import_declaration":
			c.importDecl(child)
		default:
			if decl := c.typeDecl(child); decl != nil {
				c.u.Types = append(c.u.Types, decl)
			}
		}
	}
	for _, imp := range c.u.Imports {
		imp.Used = imp.OnDemand || c.refs[imp.SimpleName()] > 0
	}
	c.literals(root)
	c.syntaxErrors(root)
	return c.u
}

func (c *converter) packageDecl(n *sitter.Node) {
	for i := range n.NamedChildCount() {
		child := n.NamedChild(i)
		switch child.Kind() {
		case "annotation", "marker_annotation":
			c.u.PackageAnnotations = append(c.u.PackageAnnotations, c.annotation(child))
		case "identifier", "scoped_identifier":
			c.u.Package = c.name(child)
		}
	}
}

func (c *converter) importDecl(n *sitter.Node) {
	imp := &ast.Import{Span: c.span(n)}
	for i := range n.ChildCount() {
		child := n.Child(i)
		switch child.Kind() {
		case "static":
			imp.Static = true
		case "identifier", "scoped_identifier":
			imp.Path = c.name(child)
		case "asterisk":
			imp.OnDemand = true
		}
	}
	if imp.Path == "" {
		return
	}
	c.u.Imports = append(c.u.Imports, imp)
}

func (c *converter) span(n *sitter.Node) source.Span {
	if n == nil {
		return source.Span{File: c.file.ID}
	}
	// content length was checked to fit uint32 in ParseFile
	return source.Span{
		File:  c.file.ID,
		Start: uint32(n.StartByte()), // #nosec G115
		End:   uint32(n.EndByte()),   // #nosec G115
	}
}

// spanFrom covers from the start of a to the end of b.
func (c *converter) spanFrom(a, b *sitter.Node) source.Span {
	s := c.span(a)
	s.End = c.span(b).End
	return s
}

func (c *converter) text(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	return n.Utf8Text(c.src)
}
