package ast

import "annocheck/internal/source"

// AnnotationForm is the surface syntax of an annotation.
type AnnotationForm uint8

const (
	// FormMarker is @T.
	FormMarker AnnotationForm = iota
	// FormSingle is @T(expr).
	FormSingle
	// FormNormal is @T(a = x, b = y).
	FormNormal
)

func (f AnnotationForm) String() string {
	switch f {
	case FormMarker:
		return "marker"
	case FormSingle:
		return "single-member"
	case FormNormal:
		return "normal"
	}
	return "annotation"
}

// Annotation is one applied annotation.
type Annotation struct {
	// Name is the type name as written, possibly qualified.
	Name string
	Form AnnotationForm
	// Pairs are in source order. The single-member form has one pair
	// named "value" with an empty NameSpan.
	Pairs    []*MemberValuePair
	Span     source.Span
	NameSpan source.Span
}

// SimpleName returns the last segment of Name.
func (a *Annotation) SimpleName() string { return lastSegment(a.Name) }

// MemberValuePair is name = value inside an annotation.
type MemberValuePair struct {
	Name     string
	Value    *Expr
	Span     source.Span
	NameSpan source.Span
}
