// Package symbols is the binding environment the annotation checks query:
// type lookup by simple or qualified name, constant fields, enum constants,
// visibility and the override surface.
package symbols

import (
	"sort"
	"strings"
	"sync"

	"annocheck/internal/ast"
)

// Table holds every known type of a compile run, builtins included.
// Units are added and linked single-threaded; afterwards the table is
// read concurrently.
type Table struct {
	mu       sync.RWMutex
	types    map[string]*Type
	byDecl   map[*ast.TypeDecl]*Type
	packages map[string]bool
	units    []*ast.CompilationUnit
}

// NewTable returns a table preloaded with the java.lang, java.lang.annotation,
// java.io and java.util types the checks need.
func NewTable() *Table {
	t := &Table{
		types:    make(map[string]*Type),
		byDecl:   make(map[*ast.TypeDecl]*Type),
		packages: make(map[string]bool),
	}
	for _, u := range builtinUnits() {
		t.addUnit(u, true)
	}
	t.Link()
	return t
}

// AddUnit declares every type of u. Member types are reachable by their
// dotted qualified name; local types only through Of.
func (t *Table) AddUnit(u *ast.CompilationUnit) []*Type {
	return t.addUnit(u, false)
}

func (t *Table) addUnit(u *ast.CompilationUnit, builtin bool) []*Type {
	ast.Link(u)
	t.mu.Lock()
	defer t.mu.Unlock()
	t.packages[u.Package] = true
	t.units = append(t.units, u)
	var added []*Type
	for _, decl := range u.Types {
		added = t.declare(decl, u.Package, nil, builtin, added)
	}
	return added
}

func (t *Table) declare(decl *ast.TypeDecl, pkg string, outer *Type, builtin bool, added []*Type) []*Type {
	typ := newType(decl, pkg, outer, builtin)
	if decl.Local {
		typ.QName = outer.QName + "$" + decl.Name
	}
	if _, exists := t.types[typ.QName]; !exists {
		t.types[typ.QName] = typ
	}
	t.byDecl[decl] = typ
	if outer != nil && !decl.Local {
		if _, dup := outer.members[decl.Name]; !dup {
			outer.members[decl.Name] = typ
		}
	}
	added = append(added, typ)
	for _, nested := range decl.Types {
		added = t.declare(nested, pkg, typ, builtin, added)
	}
	for _, m := range decl.Methods {
		for _, local := range m.LocalTypes {
			added = t.declare(local, pkg, typ, builtin, added)
		}
	}
	return added
}

// Link resolves the supertypes of every declared type. It may be called
// again after more units were added.
func (t *Table) Link() {
	t.mu.Lock()
	all := make([]*Type, 0, len(t.byDecl))
	for _, typ := range t.byDecl {
		all = append(all, typ)
	}
	t.mu.Unlock()

	for _, typ := range all {
		scope := Scope{Unit: typ.Decl.Unit, Type: typ.Outer, TypeParams: typ.TypeParams()}
		var super *Type
		if ref := typ.Decl.Superclass; ref != nil {
			super = t.ResolveType(scope, ref.Name).Type
		} else if typ.QName != "java.lang.Object" {
			switch typ.Kind() {
			case ast.KindClass, ast.KindRecord:
				super = t.Lookup("java.lang.Object")
			case ast.KindEnum:
				super = t.Lookup("java.lang.Enum")
			}
		}
		ifaces := make([]*Type, 0, len(typ.Decl.Interfaces))
		for _, ref := range typ.Decl.Interfaces {
			if it := t.ResolveType(scope, ref.Name).Type; it != nil {
				ifaces = append(ifaces, it)
			}
		}
		if typ.IsAnnotation() && len(typ.Decl.Interfaces) == 0 {
			if ann := t.Lookup("java.lang.annotation.Annotation"); ann != nil && ann != typ {
				ifaces = append(ifaces, ann)
			}
		}
		t.mu.Lock()
		typ.Superclass = super
		typ.Interfaces = ifaces
		t.mu.Unlock()
	}
}

// Lookup returns the type with the dotted qualified name qname.
func (t *Table) Lookup(qname string) *Type {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.types[qname]
}

// Of returns the binding of decl.
func (t *Table) Of(decl *ast.TypeDecl) *Type {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.byDecl[decl]
}

// HasPackage reports whether any unit declared pkg.
func (t *Table) HasPackage(pkg string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.packages[pkg]
}

// Types returns the non-builtin types sorted by qualified name.
func (t *Table) Types() []*Type {
	return t.filter(false)
}

// Builtins returns the preloaded types sorted by qualified name.
func (t *Table) Builtins() []*Type {
	return t.filter(true)
}

func (t *Table) filter(builtin bool) []*Type {
	t.mu.RLock()
	out := make([]*Type, 0, len(t.byDecl))
	for _, typ := range t.byDecl {
		if typ.Builtin == builtin {
			out = append(out, typ)
		}
	}
	t.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].QName < out[j].QName })
	return out
}

func splitName(name string) []string {
	return strings.Split(name, ".")
}
