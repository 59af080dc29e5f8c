package sema

import (
	"annocheck/internal/ast"
	"annocheck/internal/diag"
	"annocheck/internal/symbols"
)

// checkOverride validates @Override against the supertypes of typ and
// reports overriding methods that lack it.
func (w *walker) checkOverride(typ *symbols.Type, m *ast.MethodDecl, anns []*ResolvedAnnotation) {
	if m.Constructor {
		return
	}
	opts := w.c.opts
	over := w.c.table.FindOverridden(typ, m)
	if hasAnnotation(anns, qOverride) {
		switch {
		case !over.Found() && opts.ComplianceAtLeast(6):
			w.report(diag.MethodMustOverrideOrImplement, m.NameSpan, m.Signature(), typ.Display())
		case !over.Found(), over.Interface && !opts.ComplianceAtLeast(6):
			w.report(diag.MethodMustOverride, m.NameSpan, m.Signature(), typ.Display())
		}
		return
	}
	switch {
	case !over.Found():
	case !over.Interface:
		w.report(diag.MissingOverrideAnnotation, m.NameSpan, m.Signature(), typ.Display())
	case opts.ReportMissingOverrideForInterfaceImpl && opts.ComplianceAtLeast(6):
		w.report(diag.MissingOverrideAnnotationForInterfaceMethodImplementation, m.NameSpan, m.Signature(), typ.Display())
	}
}
