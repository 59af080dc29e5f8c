// Package emit converts retained annotations into the attribute payloads
// handed to class-file emission, and stores them with msgpack.
package emit

import (
	"fmt"

	"annocheck/internal/sema"
	"annocheck/internal/types"
)

// SchemaVersion is bumped whenever Payload changes shape.
const SchemaVersion uint16 = 1

// Payload is one CLASS or RUNTIME annotation instance.
type Payload struct {
	Schema uint16
	// Type is the qualified name of the annotation type.
	Type string
	// Visible is set for RUNTIME retention, matching the split between
	// RuntimeVisibleAnnotations and RuntimeInvisibleAnnotations.
	Visible  bool
	SiteKind string
	Site     string
	Members  []Element
}

// Element is one written attribute.
type Element struct {
	Name  string
	Value ElementValue
}

// ElementValue mirrors the class-file element_value structure. Tag is the
// class-file tag: B C D F I J S Z for primitives, s for String, e for
// enum constants, c for class literals, @ for nested annotations and [ for
// arrays.
type ElementValue struct {
	Tag   byte
	Int   int64          `msgpack:",omitempty"`
	Float float64        `msgpack:",omitempty"`
	Str   string         `msgpack:",omitempty"`
	Type  string         `msgpack:",omitempty"`
	Ann   *NestedPayload `msgpack:",omitempty"`
	// Len precedes the elements of arrays, including empty ones.
	Len   int
	Elems []ElementValue `msgpack:",omitempty"`
}

// NestedPayload is an annotation used as an attribute value.
type NestedPayload struct {
	Type    string
	Members []Element
}

// Build converts ra. Members stay in source order.
func Build(ra *sema.ResolvedAnnotation) (Payload, error) {
	p := Payload{
		Schema:   SchemaVersion,
		Type:     ra.Type.QName,
		Visible:  ra.Retention == types.RetentionRuntime,
		SiteKind: ra.Site.Kind.String(),
		Site:     ra.Site.Name,
	}
	for _, m := range ra.Members {
		ev, err := elementValue(m.Value)
		if err != nil {
			return Payload{}, fmt.Errorf("emit: @%s.%s: %w", ra.Type.QName, m.Name, err)
		}
		p.Members = append(p.Members, Element{Name: m.Name, Value: ev})
	}
	return p, nil
}

// BuildAll converts every annotation of results in order, skipping values
// that failed to evaluate.
func BuildAll(results []*sema.Result) []Payload {
	var out []Payload
	for _, r := range results {
		for _, ra := range r.Annotations {
			if p, err := Build(ra); err == nil {
				out = append(out, p)
			}
		}
	}
	return out
}

var primTags = map[types.PrimKind]byte{
	types.PrimBoolean: 'Z',
	types.PrimByte:    'B',
	types.PrimShort:   'S',
	types.PrimChar:    'C',
	types.PrimInt:     'I',
	types.PrimLong:    'J',
	types.PrimFloat:   'F',
	types.PrimDouble:  'D',
}

func elementValue(v types.Value) (ElementValue, error) {
	switch v.Kind {
	case types.ValBool:
		ev := ElementValue{Tag: 'Z'}
		if v.Bool {
			ev.Int = 1
		}
		return ev, nil
	case types.ValInt:
		tag, ok := primTags[v.Prim]
		if !ok {
			return ElementValue{}, fmt.Errorf("integral value of kind %s", v.Prim)
		}
		return ElementValue{Tag: tag, Int: v.Int}, nil
	case types.ValFloat:
		tag, ok := primTags[v.Prim]
		if !ok {
			return ElementValue{}, fmt.Errorf("floating value of kind %s", v.Prim)
		}
		return ElementValue{Tag: tag, Float: v.Float}, nil
	case types.ValString:
		return ElementValue{Tag: 's', Str: v.Str}, nil
	case types.ValClass:
		return ElementValue{Tag: 'c', Str: v.Str}, nil
	case types.ValEnum:
		return ElementValue{Tag: 'e', Type: v.Type, Str: v.Str}, nil
	case types.ValAnnotation:
		if v.Ann == nil {
			return ElementValue{}, fmt.Errorf("annotation value without type")
		}
		nested := &NestedPayload{Type: v.Ann.Type}
		for _, m := range v.Ann.Members {
			ev, err := elementValue(m.Value)
			if err != nil {
				return ElementValue{}, err
			}
			nested.Members = append(nested.Members, Element{Name: m.Name, Value: ev})
		}
		return ElementValue{Tag: '@', Type: v.Ann.Type, Ann: nested}, nil
	case types.ValArray:
		ev := ElementValue{Tag: '[', Len: len(v.Elems)}
		for _, el := range v.Elems {
			sub, err := elementValue(el)
			if err != nil {
				return ElementValue{}, err
			}
			ev.Elems = append(ev.Elems, sub)
		}
		return ev, nil
	}
	return ElementValue{}, fmt.Errorf("value of kind %s cannot be emitted", v.Kind)
}
