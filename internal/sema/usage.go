package sema

import (
	"annocheck/internal/ast"
	"annocheck/internal/consteval"
	"annocheck/internal/diag"
	"annocheck/internal/registry"
	"annocheck/internal/source"
	"annocheck/internal/types"
)

// Site is the declaration an annotation is attached to.
type Site struct {
	Kind types.ElementKind
	// Name identifies the declaration: p.X, p.X.f, p.X#m(int) and
	// p.X#m(int)/arg for parameters and locals.
	Name string
}

// MemberValue is one written attribute value.
type MemberValue struct {
	Name  string
	Value types.Value
	Span  source.Span
}

// ResolvedAnnotation is an annotation instance bound to its type.
type ResolvedAnnotation struct {
	Type      *registry.AnnotationType
	Retention types.Retention
	// Members are the written values in source order; a repeated name
	// keeps its last value at the position of its last occurrence.
	Members  []MemberValue
	Site     Site
	Span     source.Span
	NameSpan source.Span
}

// Member returns the written value of name.
func (ra *ResolvedAnnotation) Member(name string) (types.Value, bool) {
	for _, m := range ra.Members {
		if m.Name == name {
			return m.Value, true
		}
	}
	return types.Value{}, false
}

func (ra *ResolvedAnnotation) set(mv MemberValue) {
	for i, m := range ra.Members {
		if m.Name == mv.Name {
			ra.Members = append(ra.Members[:i], ra.Members[i+1:]...)
			break
		}
	}
	ra.Members = append(ra.Members, mv)
}

// annotations resolves the annotations of one declaration and checks
// them against each other and against the site.
func (w *walker) annotations(anns []*ast.Annotation, site Site, ctx consteval.Context) []*ResolvedAnnotation {
	if len(anns) == 0 {
		return nil
	}
	resolved := make([]*ResolvedAnnotation, 0, len(anns))
	for _, ann := range anns {
		ra := w.resolveAnnotation(ann, ctx)
		if ra == nil {
			continue
		}
		ra.Site = site
		if !ra.Type.Allows(site.Kind) {
			w.report(diag.DisallowedTargetForAnnotation, ra.NameSpan, ra.Type.Display)
		}
		resolved = append(resolved, ra)
	}

	counts := make(map[*registry.AnnotationType]int, len(resolved))
	for _, ra := range resolved {
		counts[ra.Type]++
	}
	for _, ra := range resolved {
		if counts[ra.Type] > 1 {
			w.report(diag.DuplicateAnnotation, ra.NameSpan, ra.Type.Display)
		}
	}

	if site.Kind != types.ElemLocalVariable {
		for _, ra := range resolved {
			if ra.Retention.Emitted() {
				w.retained = append(w.retained, ra)
			}
		}
	}
	return resolved
}

// resolveAnnotation binds ann to its annotation type and evaluates its
// members. It returns nil when the type does not resolve.
func (w *walker) resolveAnnotation(ann *ast.Annotation, ctx consteval.Context) *ResolvedAnnotation {
	nameSpan := ann.NameSpan
	if !ann.Span.Empty() && !nameSpan.Empty() {
		nameSpan = source.Span{File: ann.Span.File, Start: ann.Span.Start, End: nameSpan.End}
	}
	res := w.c.table.ResolveType(ctx.Scope, ann.Name)
	switch {
	case res.TypeVar != "":
		w.report(diag.TypeMismatch, ann.NameSpan, res.TypeVar, "Annotation")
		return nil
	case res.Type == nil:
		w.report(diag.UndefinedType, ann.NameSpan, ann.Name)
		return nil
	}
	at := w.c.reg.Lookup(res.Type.QName)
	if at == nil {
		w.report(diag.TypeMismatch, ann.NameSpan, res.Type.Display(), "Annotation")
		return nil
	}
	ra := &ResolvedAnnotation{
		Type:      at,
		Retention: at.Retention,
		Span:      ann.Span,
		NameSpan:  nameSpan,
	}
	w.members(ra, ann, ctx)
	if at.QName == qTarget {
		w.duplicateTargets(ra, ann)
	}
	return ra
}

func (w *walker) members(ra *ResolvedAnnotation, ann *ast.Annotation, ctx consteval.Context) {
	at := ra.Type
	counts := make(map[string]int, len(ann.Pairs))
	for _, p := range ann.Pairs {
		counts[p.Name]++
	}
	ctx.Owner = at.Display
	for _, p := range ann.Pairs {
		nameSpan := p.NameSpan
		if nameSpan.Empty() && p.Value != nil {
			nameSpan = p.Value.Span
		}
		attr := at.Attribute(p.Name)
		if attr == nil {
			w.report(diag.UndefinedAnnotationMember, nameSpan, p.Name, at.Display)
			continue
		}
		if counts[p.Name] > 1 {
			w.report(diag.DuplicateAnnotationMember, nameSpan, p.Name, at.Display)
		}
		if attr.Type.Kind == types.AttrInvalid {
			continue
		}
		ctx.Attr = attr.Name
		v, problems := w.ev.Evaluate(ctx, p.Value, attr.Type)
		w.problems(problems)
		ra.set(MemberValue{Name: attr.Name, Value: v, Span: p.Span})
	}
	for _, attr := range at.Attributes {
		if counts[attr.Name] == 0 && !attr.HasDefault() {
			w.report(diag.MissingValueForAnnotationMember, ra.NameSpan, at.Display, attr.Name)
		}
	}
}

// duplicateTargets flags every repetition of an element type inside a
// @Target value.
func (w *walker) duplicateTargets(ra *ResolvedAnnotation, ann *ast.Annotation) {
	for _, p := range ann.Pairs {
		if p.Name != "value" || p.Value == nil {
			continue
		}
		e := p.Value.Unparen()
		if e.Kind != ast.ExprArrayInit {
			continue
		}
		v, ok := ra.Member("value")
		if !ok || v.Kind != types.ValArray || len(v.Elems) != len(e.Elems) {
			continue
		}
		seen := make(map[string]bool, len(v.Elems))
		for i, el := range v.Elems {
			if el.Kind != types.ValEnum {
				continue
			}
			if seen[el.Str] {
				w.report(diag.DuplicateTargetInTargetAnnotation, e.Elems[i].Span, el.Str, ra.Type.Name())
			}
			seen[el.Str] = true
		}
	}
}

// nestedAnnotation resolves an annotation used as an attribute value.
// Targets do not apply to it.
func (w *walker) nestedAnnotation(ctx consteval.Context, ann *ast.Annotation) types.Value {
	ra := w.resolveAnnotation(ann, ctx)
	if ra == nil {
		return types.ErrorValue()
	}
	av := &types.AnnotationValue{Type: ra.Type.QName}
	for _, m := range ra.Members {
		av.Members = append(av.Members, types.Member{Name: m.Name, Value: m.Value})
	}
	return types.AnnValue(av)
}

func hasAnnotation(anns []*ResolvedAnnotation, qname string) bool {
	return findAnnotation(anns, qname) != nil
}

func findAnnotation(anns []*ResolvedAnnotation, qname string) *ResolvedAnnotation {
	for _, ra := range anns {
		if ra.Type.QName == qname {
			return ra
		}
	}
	return nil
}
