package sema

import (
	"annocheck/internal/ast"
	"annocheck/internal/diag"
	"annocheck/internal/symbols"
	"annocheck/internal/types"
)

// rawTypes flags references to generic types written without type
// arguments, type arguments included.
func (w *walker) rawTypes(scope symbols.Scope, ref *ast.TypeRef) {
	if ref == nil {
		return
	}
	if ref.IsWildcard() {
		w.rawTypes(scope, ref.Bound)
		return
	}
	if _, prim := types.ParsePrim(ref.Name); !prim && !ref.IsGeneric() {
		if typ := w.c.table.ResolveType(scope, ref.Name).Type; typ != nil && typ.IsGeneric() {
			w.report(diag.RawTypeReference, ref.Span, typ.Name(), typ.GenericDisplay())
		}
	}
	for _, arg := range ref.Args {
		w.rawTypes(scope, arg)
	}
}

// checkSerial flags serializable classes without a serialVersionUID.
func (w *walker) checkSerial(typ *symbols.Type) {
	decl := typ.Decl
	if decl.Kind != ast.KindClass || !typ.IsSubtypeOf(qSerializable) {
		return
	}
	for _, f := range decl.Fields {
		if f.Name == "serialVersionUID" &&
			f.Modifiers.Has(ast.ModStatic|ast.ModFinal) &&
			f.Type != nil && f.Type.Name == "long" && f.Type.Dims == 0 {
			return
		}
	}
	w.report(diag.MissingSerialVersion, decl.NameSpan, decl.Name)
}

func (w *walker) checkUnusedField(typ *symbols.Type, f *ast.FieldDecl) {
	if !f.Modifiers.Has(ast.ModPrivate) || f.Used {
		return
	}
	switch f.Name {
	case "serialVersionUID", "serialPersistentFields":
		return
	}
	w.report(diag.UnusedPrivateField, f.NameSpan, typ.Display(), f.Name)
}
