package symbols

import (
	"strings"

	"annocheck/internal/ast"
)

// Scope is the context a name is resolved in.
type Scope struct {
	Unit *ast.CompilationUnit
	// Type is the innermost enclosing type, nil at unit level.
	Type *Type
	// TypeParams are the type variables of the enclosing method.
	TypeParams []string
	// LocalTypes are the types declared earlier in the enclosing body.
	LocalTypes []*Type
}

// Resolution is the result of a type name lookup: either a type or a
// type variable.
type Resolution struct {
	Type    *Type
	TypeVar string
}

// Found reports a successful lookup.
func (r Resolution) Found() bool { return r.Type != nil || r.TypeVar != "" }

// ResolveType resolves a simple or dotted type name. Lookup order: type
// variables, local types, enclosing types and their members, the unit's
// own types, single-type imports, the unit's package, on-demand imports,
// java.lang, fully qualified names.
func (t *Table) ResolveType(s Scope, name string) Resolution {
	segs := splitName(name)
	if len(segs) == 1 {
		return t.resolveSimple(s, name)
	}
	if head := t.resolveSimple(s, segs[0]); head.Type != nil {
		if typ := walkMembers(head.Type, segs[1:]); typ != nil {
			return Resolution{Type: typ}
		}
	}
	if typ := t.Lookup(name); typ != nil {
		return Resolution{Type: typ}
	}
	for i := len(segs) - 1; i >= 1; i-- {
		if typ := t.Lookup(strings.Join(segs[:i], ".")); typ != nil {
			if m := walkMembers(typ, segs[i:]); m != nil {
				return Resolution{Type: m}
			}
		}
	}
	return Resolution{}
}

func walkMembers(typ *Type, segs []string) *Type {
	for _, seg := range segs {
		if typ = typ.Member(seg); typ == nil {
			return nil
		}
	}
	return typ
}

func (t *Table) resolveSimple(s Scope, name string) Resolution {
	for _, tp := range s.TypeParams {
		if tp == name {
			return Resolution{TypeVar: name}
		}
	}
	for i := len(s.LocalTypes) - 1; i >= 0; i-- {
		if s.LocalTypes[i].Name() == name {
			return Resolution{Type: s.LocalTypes[i]}
		}
	}
	for enc := s.Type; enc != nil; enc = enc.Outer {
		if enc.Name() == name {
			return Resolution{Type: enc}
		}
		if m := enc.Member(name); m != nil {
			return Resolution{Type: m}
		}
		for _, tp := range enc.TypeParams() {
			if tp == name {
				return Resolution{TypeVar: name}
			}
		}
	}
	u := s.Unit
	if u != nil {
		for _, decl := range u.Types {
			if decl.Name == name {
				if typ := t.Of(decl); typ != nil {
					return Resolution{Type: typ}
				}
			}
		}
		for _, imp := range u.Imports {
			if imp.OnDemand || imp.Static || imp.SimpleName() != name {
				continue
			}
			if res := t.ResolveType(Scope{}, imp.Path); res.Type != nil {
				return res
			}
		}
		if typ := t.Lookup(qualify(u.Package, name)); typ != nil {
			return Resolution{Type: typ}
		}
		for _, imp := range u.Imports {
			if !imp.OnDemand || imp.Static {
				continue
			}
			if typ := t.Lookup(imp.Path + "." + name); typ != nil {
				return Resolution{Type: typ}
			}
			if owner := t.ResolveType(Scope{}, imp.Path).Type; owner != nil {
				if m := owner.Member(name); m != nil {
					return Resolution{Type: m}
				}
			}
		}
	}
	if typ := t.Lookup("java.lang." + name); typ != nil {
		return Resolution{Type: typ}
	}
	if typ := t.Lookup(name); typ != nil {
		return Resolution{Type: typ}
	}
	return Resolution{}
}

// StaticMember is a field or enum constant reachable through a static
// import.
type StaticMember struct {
	Owner        *Type
	Field        *Field
	EnumConstant bool
}

// Found reports a successful lookup.
func (m StaticMember) Found() bool { return m.Field != nil || m.EnumConstant }

// ResolveStaticImport finds a static member called name imported by u.
func (t *Table) ResolveStaticImport(u *ast.CompilationUnit, name string) StaticMember {
	if u == nil {
		return StaticMember{}
	}
	for _, imp := range u.Imports {
		if !imp.Static {
			continue
		}
		ownerPath := imp.Path
		if !imp.OnDemand {
			if imp.SimpleName() != name || len(imp.Path) <= len(name) {
				continue
			}
			ownerPath = imp.Path[:len(imp.Path)-len(name)-1]
		}
		owner := t.ResolveType(Scope{}, ownerPath).Type
		if owner == nil {
			continue
		}
		if f := owner.Field(name); f != nil {
			return StaticMember{Owner: owner, Field: f}
		}
		if owner.HasEnumConstant(name) {
			return StaticMember{Owner: owner, EnumConstant: true}
		}
	}
	return StaticMember{}
}

func qualify(pkg, name string) string {
	if pkg == "" {
		return name
	}
	return pkg + "." + name
}
