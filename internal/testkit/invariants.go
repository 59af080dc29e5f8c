package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"annocheck/internal/ast"
	"annocheck/internal/source"
)

// CheckSpanInvariants runs a minimal set of span invariants on a converted
// unit:
// 1) u.Span is non-empty and within file content bounds
// 2) every declaration span is non-empty and inside its parent's span
// 3) every name span and annotation span lies inside its declaration span
func CheckSpanInvariants(u *ast.CompilationUnit, sf *source.File) error {
	if u == nil || sf == nil {
		return fmt.Errorf("nil unit or file")
	}

	// 1) unit span sanity
	if u.Span.End <= u.Span.Start {
		return fmt.Errorf("unit span is empty: %v", u.Span)
	}
	if u.Span.File != sf.ID {
		return fmt.Errorf("unit span points to different file id: got=%d want=%d", u.Span.File, sf.ID)
	}
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	if u.Span.End > lenContent {
		return fmt.Errorf("unit span end beyond content: %d > %d", u.Span.End, lenContent)
	}

	for _, ann := range u.PackageAnnotations {
		if err := within(u.Span, ann.Span, "package annotation @"+ann.Name); err != nil {
			return err
		}
	}
	for _, imp := range u.Imports {
		if err := within(u.Span, imp.Span, "import "+imp.Path); err != nil {
			return err
		}
	}
	for _, t := range u.Types {
		if err := checkType(u.Span, t); err != nil {
			return err
		}
	}
	for i, lit := range u.Literals {
		if err := within(u.Span, lit.Span, fmt.Sprintf("literal #%d", i)); err != nil {
			return err
		}
	}
	return nil
}

func checkType(parent source.Span, t *ast.TypeDecl) error {
	what := "type " + t.Name
	if err := within(parent, t.Span, what); err != nil {
		return err
	}
	if err := decl(t.Span, t.NameSpan, t.Annotations, what); err != nil {
		return err
	}
	for _, f := range t.Fields {
		if err := within(t.Span, f.Span, "field "+f.Name); err != nil {
			return err
		}
		if err := decl(f.Span, f.NameSpan, f.Annotations, "field "+f.Name); err != nil {
			return err
		}
	}
	for _, m := range t.Methods {
		what := "method " + m.Name
		if err := within(t.Span, m.Span, what); err != nil {
			return err
		}
		if err := decl(m.Span, m.NameSpan, m.Annotations, what); err != nil {
			return err
		}
		for _, p := range m.Params {
			if err := within(m.Span, p.Span, what+" param "+p.Name); err != nil {
				return err
			}
		}
		for _, l := range m.Locals {
			if err := within(m.Span, l.Span, what+" local "+l.Name); err != nil {
				return err
			}
		}
		for _, local := range m.LocalTypes {
			if err := checkType(m.Span, local); err != nil {
				return err
			}
		}
	}
	for _, c := range t.Constants {
		if err := within(t.Span, c.Span, "constant "+c.Name); err != nil {
			return err
		}
	}
	for _, nested := range t.Types {
		if err := checkType(t.Span, nested); err != nil {
			return err
		}
	}
	return nil
}

func decl(span, name source.Span, anns []*ast.Annotation, what string) error {
	if err := within(span, name, what+" name"); err != nil {
		return err
	}
	for _, ann := range anns {
		if err := within(span, ann.Span, what+" annotation @"+ann.Name); err != nil {
			return err
		}
	}
	return nil
}

func within(parent, sp source.Span, what string) error {
	if sp.End <= sp.Start {
		return fmt.Errorf("empty %s span: %v", what, sp)
	}
	if sp.File != parent.File {
		return fmt.Errorf("%s span file mismatch: got=%d want=%d", what, sp.File, parent.File)
	}
	if !parent.Contains(sp) {
		return fmt.Errorf("%s span %v is outside %v", what, sp, parent)
	}
	return nil
}
