package ast

import "annocheck/internal/source"

// TypeKind distinguishes the five Java type declaration forms.
type TypeKind uint8

const (
	KindClass TypeKind = iota
	KindInterface
	KindEnum
	KindAnnotation
	KindRecord
)

func (k TypeKind) String() string {
	switch k {
	case KindClass:
		return "class"
	case KindInterface:
		return "interface"
	case KindEnum:
		return "enum"
	case KindAnnotation:
		return "@interface"
	case KindRecord:
		return "record"
	}
	return "type"
}

// CompilationUnit is one parsed source file.
type CompilationUnit struct {
	File    source.FileID
	Path    string
	Package string
	// PackageAnnotations are the annotations of a package-info unit.
	PackageAnnotations []*Annotation
	Imports            []*Import
	Types              []*TypeDecl
	// Literals lists string literals outside annotations, for the
	// externalisation check.
	Literals []StringLiteral
	// SyntaxErrors counts the parse errors the front end reported.
	SyntaxErrors int
	Span         source.Span
}

// Import is a single import declaration.
type Import struct {
	Path     string
	Static   bool
	OnDemand bool
	// Used is set by the front end when the imported simple name is
	// referenced anywhere in the unit.
	Used bool
	Span source.Span
}

// SimpleName returns the last segment of a single-type import.
func (i *Import) SimpleName() string {
	return lastSegment(i.Path)
}

// StringLiteral records a string literal and whether its line carries the
// matching //$NON-NLS-n$ tag.
type StringLiteral struct {
	Span   source.Span
	Tagged bool
	// Index is the 1-based position of the literal on its line.
	Index int
}

// TypeDecl is a class, interface, enum, record or annotation type.
type TypeDecl struct {
	Kind        TypeKind
	Name        string
	Modifiers   Modifiers
	Annotations []*Annotation
	TypeParams  []*TypeParam
	Superclass  *TypeRef
	Interfaces  []*TypeRef
	Fields      []*FieldDecl
	Methods     []*MethodDecl
	Types       []*TypeDecl
	Constants   []*EnumConstant
	// Local is set for types declared inside a method body or an
	// anonymous class body.
	Local bool
	// Deprecated is set when the Javadoc carries @deprecated.
	Deprecated bool

	// Enclosing is the declaring type of member types; set by Link.
	Enclosing *TypeDecl
	// Unit is the owning compilation unit; set by Link.
	Unit *CompilationUnit

	Span     source.Span
	NameSpan source.Span
}

// IsAnnotation reports @interface declarations.
func (t *TypeDecl) IsAnnotation() bool { return t.Kind == KindAnnotation }

// IsInterfaceLike reports interfaces and annotation types.
func (t *TypeDecl) IsInterfaceLike() bool {
	return t.Kind == KindInterface || t.Kind == KindAnnotation
}

// TopLevel reports types declared directly in a compilation unit.
func (t *TypeDecl) TopLevel() bool { return t.Enclosing == nil && !t.Local }

// QualifiedName returns pkg.Outer.Inner.
func (t *TypeDecl) QualifiedName() string {
	name := t.NestedName()
	if t.Unit != nil && t.Unit.Package != "" {
		return t.Unit.Package + "." + name
	}
	return name
}

// NestedName returns Outer.Inner without the package.
func (t *TypeDecl) NestedName() string {
	if t.Enclosing == nil {
		return t.Name
	}
	return t.Enclosing.NestedName() + "." + t.Name
}

// DisplayName is the name used in messages. Generic enclosing types keep
// their type parameters, e.g. Test<T>.Anno.
func (t *TypeDecl) DisplayName() string {
	own := t.Name
	if len(t.TypeParams) > 0 {
		own += "<"
		for i, tp := range t.TypeParams {
			if i > 0 {
				own += ","
			}
			own += tp.Name
		}
		own += ">"
	}
	if t.Enclosing == nil {
		return own
	}
	return t.Enclosing.DisplayName() + "." + own
}

// TypeParam is a declared type variable.
type TypeParam struct {
	Name        string
	Annotations []*Annotation
	Span        source.Span
}

// FieldDecl is one variable declarator of a field declaration.
type FieldDecl struct {
	Name        string
	Type        *TypeRef
	Modifiers   Modifiers
	Annotations []*Annotation
	Init        *Expr
	// Index is the declaration order among the fields of the owning type.
	Index int
	// Used is set when the field is read anywhere in the unit.
	Used       bool
	Deprecated bool
	Span       source.Span
	NameSpan   source.Span
}

// MethodDecl is a method, constructor or annotation attribute.
type MethodDecl struct {
	Name        string
	Modifiers   Modifiers
	Annotations []*Annotation
	TypeParams  []*TypeParam
	// Result is nil for void methods and constructors.
	Result      *TypeRef
	Constructor bool
	Params      []*Param
	// Default is the annotation attribute default value.
	Default    *Expr
	HasBody    bool
	Locals     []*LocalVar
	LocalTypes []*TypeDecl
	Deprecated bool
	Span       source.Span
	NameSpan   source.Span
}

// Signature renders name(T1, T2) with parameter types as written.
func (m *MethodDecl) Signature() string {
	s := m.Name + "("
	for i, p := range m.Params {
		if i > 0 {
			s += ", "
		}
		s += p.Type.String()
	}
	return s + ")"
}

// Param is a formal parameter.
type Param struct {
	Name        string
	Type        *TypeRef
	Modifiers   Modifiers
	Annotations []*Annotation
	Varargs     bool
	Span        source.Span
}

// LocalVar is a local variable declared in a method body.
type LocalVar struct {
	Name        string
	Type        *TypeRef
	Modifiers   Modifiers
	Annotations []*Annotation
	Init        *Expr
	Used        bool
	Span        source.Span
	NameSpan    source.Span
}

// EnumConstant is one constant of an enum declaration.
type EnumConstant struct {
	Name        string
	Annotations []*Annotation
	Span        source.Span
}

// Link fills in the Enclosing and Unit back-links and field indices.
func Link(u *CompilationUnit) {
	for _, t := range u.Types {
		linkType(u, t, nil)
	}
}

func linkType(u *CompilationUnit, t, outer *TypeDecl) {
	t.Unit = u
	t.Enclosing = outer
	for i, f := range t.Fields {
		f.Index = i
	}
	for _, nested := range t.Types {
		linkType(u, nested, t)
	}
	for _, m := range t.Methods {
		for _, local := range m.LocalTypes {
			local.Local = true
			linkType(u, local, t)
		}
	}
}
