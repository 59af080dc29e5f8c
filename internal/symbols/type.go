package symbols

import (
	"strings"

	"annocheck/internal/ast"
)

// Type is the binding of one declared type.
type Type struct {
	QName   string
	Package string
	Decl    *ast.TypeDecl
	Outer   *Type
	Builtin bool

	// Superclass and Interfaces are resolved by Table.Link; unresolved
	// supertypes are left out.
	Superclass *Type
	Interfaces []*Type

	Fields  []*Field
	Methods []*Method

	fields    map[string]*Field
	members   map[string]*Type
	constants map[string]int
}

func (t *Type) Name() string          { return t.Decl.Name }
func (t *Type) Kind() ast.TypeKind    { return t.Decl.Kind }
func (t *Type) IsAnnotation() bool    { return t.Decl.Kind == ast.KindAnnotation }
func (t *Type) IsEnum() bool          { return t.Decl.Kind == ast.KindEnum }
func (t *Type) IsInterfaceLike() bool { return t.Decl.IsInterfaceLike() }

// Display is the name used in messages, e.g. Test<T>.Anno.
func (t *Type) Display() string { return t.Decl.DisplayName() }

// TypeParams returns the names of the declared type variables.
func (t *Type) TypeParams() []string {
	out := make([]string, 0, len(t.Decl.TypeParams))
	for _, tp := range t.Decl.TypeParams {
		out = append(out, tp.Name)
	}
	return out
}

// IsGeneric reports types declaring type variables.
func (t *Type) IsGeneric() bool { return len(t.Decl.TypeParams) > 0 }

// GenericDisplay renders Name<T, U> for raw-type messages.
func (t *Type) GenericDisplay() string {
	if !t.IsGeneric() {
		return t.Name()
	}
	return t.Name() + "<" + strings.Join(t.TypeParams(), ",") + ">"
}

// Outermost returns the top-level type enclosing t.
func (t *Type) Outermost() *Type {
	for t.Outer != nil {
		t = t.Outer
	}
	return t
}

// HasEnumConstant reports whether an enum declares name.
func (t *Type) HasEnumConstant(name string) bool {
	_, ok := t.constants[name]
	return ok
}

// EnumConstants returns the constant names in declaration order.
func (t *Type) EnumConstants() []string {
	out := make([]string, 0, len(t.Decl.Constants))
	for _, c := range t.Decl.Constants {
		out = append(out, c.Name)
	}
	return out
}

// OwnField returns a field declared by t itself.
func (t *Type) OwnField(name string) *Field { return t.fields[name] }

// Field looks name up in t and then in its supertypes.
func (t *Type) Field(name string) *Field {
	return t.field(name, map[*Type]bool{})
}

func (t *Type) field(name string, seen map[*Type]bool) *Field {
	if t == nil || seen[t] {
		return nil
	}
	seen[t] = true
	if f, ok := t.fields[name]; ok {
		return f
	}
	if f := t.Superclass.field(name, seen); f != nil {
		return f
	}
	for _, it := range t.Interfaces {
		if f := it.field(name, seen); f != nil {
			return f
		}
	}
	return nil
}

// Member looks up a member type by simple name in t and its supertypes.
func (t *Type) Member(name string) *Type {
	return t.member(name, map[*Type]bool{})
}

func (t *Type) member(name string, seen map[*Type]bool) *Type {
	if t == nil || seen[t] {
		return nil
	}
	seen[t] = true
	if m, ok := t.members[name]; ok {
		return m
	}
	if m := t.Superclass.member(name, seen); m != nil {
		return m
	}
	for _, it := range t.Interfaces {
		if m := it.member(name, seen); m != nil {
			return m
		}
	}
	return nil
}

// IsSubtypeOf reports whether t is qname or inherits from it.
func (t *Type) IsSubtypeOf(qname string) bool {
	return t.subtypeOf(qname, map[*Type]bool{})
}

func (t *Type) subtypeOf(qname string, seen map[*Type]bool) bool {
	if t == nil || seen[t] {
		return false
	}
	seen[t] = true
	if t.QName == qname {
		return true
	}
	if t.Superclass.subtypeOf(qname, seen) {
		return true
	}
	for _, it := range t.Interfaces {
		if it.subtypeOf(qname, seen) {
			return true
		}
	}
	return false
}

// Field is a field binding.
type Field struct {
	Name  string
	Owner *Type
	Decl  *ast.FieldDecl
}

// Static reports static fields; interface fields are implicitly static.
func (f *Field) Static() bool {
	return f.Decl.Modifiers.Has(ast.ModStatic) || f.Owner.IsInterfaceLike()
}

// Final reports final fields; interface fields are implicitly final.
func (f *Field) Final() bool {
	return f.Decl.Modifiers.Has(ast.ModFinal) || f.Owner.IsInterfaceLike()
}

// Index is the declaration order of f within its owner.
func (f *Field) Index() int { return f.Decl.Index }

// Accessible reports whether f is visible from code inside from.
func (f *Field) Accessible(from *Type) bool {
	mods := f.Decl.Modifiers
	if f.Owner.IsInterfaceLike() {
		return true
	}
	switch {
	case mods.Has(ast.ModPublic):
		return true
	case mods.Has(ast.ModPrivate):
		return from != nil && from.Outermost() == f.Owner.Outermost()
	case mods.Has(ast.ModProtected):
		return from != nil && (from.Package == f.Owner.Package || from.IsSubtypeOf(f.Owner.QName))
	}
	return from != nil && from.Package == f.Owner.Package
}

// Method is a method binding.
type Method struct {
	Name  string
	Owner *Type
	Decl  *ast.MethodDecl
}

// Static reports static methods.
func (m *Method) Static() bool { return m.Decl.Modifiers.Has(ast.ModStatic) }

// Private reports private methods.
func (m *Method) Private() bool { return m.Decl.Modifiers.Has(ast.ModPrivate) }

// Signature renders name(T1, T2).
func (m *Method) Signature() string { return m.Decl.Signature() }

func newType(decl *ast.TypeDecl, pkg string, outer *Type, builtin bool) *Type {
	t := &Type{
		QName:     decl.QualifiedName(),
		Package:   pkg,
		Decl:      decl,
		Outer:     outer,
		Builtin:   builtin,
		fields:    make(map[string]*Field),
		members:   make(map[string]*Type),
		constants: make(map[string]int),
	}
	for _, fd := range decl.Fields {
		f := &Field{Name: fd.Name, Owner: t, Decl: fd}
		t.Fields = append(t.Fields, f)
		if _, dup := t.fields[fd.Name]; !dup {
			t.fields[fd.Name] = f
		}
	}
	for _, md := range decl.Methods {
		t.Methods = append(t.Methods, &Method{Name: md.Name, Owner: t, Decl: md})
	}
	for i, c := range decl.Constants {
		t.constants[c.Name] = i
	}
	return t
}
