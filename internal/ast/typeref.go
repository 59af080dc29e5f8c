package ast

import (
	"strings"

	"annocheck/internal/source"
)

// TypeRef is a type as written in source.
type TypeRef struct {
	// Name is the possibly qualified name, a primitive keyword, or "?" for
	// a wildcard argument.
	Name string
	Args []*TypeRef
	// Bound is the bound of a wildcard; Upper tells extends from super.
	Bound *TypeRef
	Upper bool
	// Dims is the number of array dimensions.
	Dims int
	// Diamond marks an explicit empty argument list.
	Diamond bool
	Span    source.Span
}

// IsWildcard reports "?" arguments.
func (t *TypeRef) IsWildcard() bool { return t != nil && t.Name == "?" }

// IsGeneric reports references written with type arguments.
func (t *TypeRef) IsGeneric() bool { return t != nil && (len(t.Args) > 0 || t.Diamond) }

// Elem returns a copy of t with one array dimension removed.
func (t *TypeRef) Elem() *TypeRef {
	if t == nil || t.Dims == 0 {
		return t
	}
	c := *t
	c.Dims--
	return &c
}

// Base returns a copy of t with every array dimension removed.
func (t *TypeRef) Base() *TypeRef {
	if t == nil {
		return nil
	}
	c := *t
	c.Dims = 0
	return &c
}

// String renders the reference as written, e.g. Class<? extends Throwable>[].
func (t *TypeRef) String() string {
	if t == nil {
		return "void"
	}
	var b strings.Builder
	t.write(&b)
	return b.String()
}

func (t *TypeRef) write(b *strings.Builder) {
	b.WriteString(t.Name)
	if t.IsWildcard() && t.Bound != nil {
		if t.Upper {
			b.WriteString(" extends ")
		} else {
			b.WriteString(" super ")
		}
		t.Bound.write(b)
	}
	if len(t.Args) > 0 || t.Diamond {
		b.WriteByte('<')
		for i, a := range t.Args {
			if i > 0 {
				b.WriteString(", ")
			}
			a.write(b)
		}
		b.WriteByte('>')
	}
	for range t.Dims {
		b.WriteString("[]")
	}
}

// SimpleName returns the last dotted segment of Name.
func (t *TypeRef) SimpleName() string {
	if t == nil {
		return ""
	}
	return lastSegment(t.Name)
}

func lastSegment(name string) string {
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return name[i+1:]
	}
	return name
}
