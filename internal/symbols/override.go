package symbols

import (
	"strings"

	"annocheck/internal/ast"
)

// Overridden is the supertype method a declaration overrides.
type Overridden struct {
	Method *Method
	// Interface is set when the method comes from an interface rather
	// than a superclass.
	Interface bool
}

// Found reports whether a supertype method was found.
func (o Overridden) Found() bool { return o.Method != nil }

// FindOverridden looks for an inherited method that m overrides or
// implements. Superclasses are searched before interfaces; interfaces
// fall back to the public methods of java.lang.Object.
func (t *Table) FindOverridden(typ *Type, m *ast.MethodDecl) Overridden {
	if typ == nil || m == nil || m.Constructor || m.Modifiers.Has(ast.ModStatic) || m.Modifiers.Has(ast.ModPrivate) {
		return Overridden{}
	}
	seen := map[*Type]bool{typ: true}
	for super := typ.Superclass; super != nil && !seen[super]; super = super.Superclass {
		seen[super] = true
		if found := matchIn(super, typ, m); found != nil {
			return Overridden{Method: found}
		}
	}
	var queue []*Type
	chain := map[*Type]bool{}
	for c := typ; c != nil && !chain[c]; c = c.Superclass {
		chain[c] = true
		queue = append(queue, c.Interfaces...)
	}
	visited := map[*Type]bool{}
	for len(queue) > 0 {
		it := queue[0]
		queue = queue[1:]
		if visited[it] {
			continue
		}
		visited[it] = true
		if found := matchIn(it, typ, m); found != nil {
			return Overridden{Method: found, Interface: true}
		}
		queue = append(queue, it.Interfaces...)
	}
	if typ.IsInterfaceLike() {
		if obj := t.Lookup("java.lang.Object"); obj != nil {
			if found := matchIn(obj, typ, m); found != nil && found.Decl.Modifiers.Has(ast.ModPublic) {
				return Overridden{Method: found}
			}
		}
	}
	return Overridden{}
}

func matchIn(owner, from *Type, m *ast.MethodDecl) *Method {
	for _, cand := range owner.Methods {
		d := cand.Decl
		if d.Constructor || cand.Name != m.Name || len(d.Params) != len(m.Params) {
			continue
		}
		if cand.Private() || cand.Static() {
			continue
		}
		if d.Modifiers.Visibility() == 0 && !owner.IsInterfaceLike() && owner.Package != from.Package {
			continue
		}
		if paramsMatch(cand, m) {
			return cand
		}
	}
	return nil
}

func paramsMatch(cand *Method, m *ast.MethodDecl) bool {
	superVars := append(cand.Owner.TypeParams(), typeParamNames(cand.Decl.TypeParams)...)
	ownVars := typeParamNames(m.TypeParams)
	for i, p := range m.Params {
		sp := cand.Decl.Params[i]
		if isTypeVar(sp.Type, superVars) || isTypeVar(p.Type, ownVars) {
			continue
		}
		if erasure(sp) != erasure(p) {
			return false
		}
	}
	return true
}

func typeParamNames(tps []*ast.TypeParam) []string {
	out := make([]string, 0, len(tps))
	for _, tp := range tps {
		out = append(out, tp.Name)
	}
	return out
}

func isTypeVar(ref *ast.TypeRef, vars []string) bool {
	if ref == nil || ref.Dims > 0 {
		return false
	}
	for _, v := range vars {
		if ref.Name == v {
			return true
		}
	}
	return false
}

// erasure is the simple name plus array dimensions, varargs counted as
// one more dimension.
func erasure(p *ast.Param) string {
	if p.Type == nil {
		return ""
	}
	dims := p.Type.Dims
	if p.Varargs {
		dims++
	}
	return p.Type.SimpleName() + strings.Repeat("[]", dims)
}
