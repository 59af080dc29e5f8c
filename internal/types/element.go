package types

import "fmt"

// ElementKind is a declaration site an annotation may be attached to.
// Names follow java.lang.annotation.ElementType.
type ElementKind uint8

const (
	ElemType ElementKind = iota
	ElemField
	ElemMethod
	ElemParameter
	ElemConstructor
	ElemLocalVariable
	ElemAnnotationType
	ElemPackage
	ElemTypeParameter
	ElemTypeUse

	elemCount
)

var elementNames = [elemCount]string{
	ElemType:           "TYPE",
	ElemField:          "FIELD",
	ElemMethod:         "METHOD",
	ElemParameter:      "PARAMETER",
	ElemConstructor:    "CONSTRUCTOR",
	ElemLocalVariable:  "LOCAL_VARIABLE",
	ElemAnnotationType: "ANNOTATION_TYPE",
	ElemPackage:        "PACKAGE",
	ElemTypeParameter:  "TYPE_PARAMETER",
	ElemTypeUse:        "TYPE_USE",
}

func (k ElementKind) String() string {
	if k < elemCount {
		return elementNames[k]
	}
	return fmt.Sprintf("ElementKind(%d)", k)
}

// ParseElementKind maps an ElementType constant name to its kind.
func ParseElementKind(name string) (ElementKind, bool) {
	for i, n := range elementNames {
		if n == name {
			return ElementKind(i), true
		}
	}
	return 0, false
}

// ElementSet is a set of ElementKind.
type ElementSet uint16

func ElementsOf(kinds ...ElementKind) ElementSet {
	var s ElementSet
	for _, k := range kinds {
		s |= 1 << k
	}
	return s
}

// DefaultTargets is the set applicable when an annotation type carries no
// @Target: every declaration context, but neither type parameters nor
// type uses.
var DefaultTargets = ElementsOf(ElemType, ElemField, ElemMethod, ElemParameter,
	ElemConstructor, ElemLocalVariable, ElemAnnotationType, ElemPackage)

func (s ElementSet) Has(k ElementKind) bool { return s&(1<<k) != 0 }
func (s ElementSet) With(k ElementKind) ElementSet {
	return s | 1<<k
}

// Allows reports whether an annotation with this target set may appear on k.
// An annotation type declaration is also a type, so TYPE covers it.
func (s ElementSet) Allows(k ElementKind) bool {
	if s.Has(k) {
		return true
	}
	return k == ElemAnnotationType && s.Has(ElemType)
}

// Retention is a java.lang.annotation.RetentionPolicy.
type Retention uint8

const (
	RetentionClass Retention = iota
	RetentionSource
	RetentionRuntime
)

func (r Retention) String() string {
	switch r {
	case RetentionSource:
		return "SOURCE"
	case RetentionClass:
		return "CLASS"
	case RetentionRuntime:
		return "RUNTIME"
	default:
		return fmt.Sprintf("Retention(%d)", r)
	}
}

// ParseRetention maps a RetentionPolicy constant name to its value.
func ParseRetention(name string) (Retention, bool) {
	switch name {
	case "SOURCE":
		return RetentionSource, true
	case "CLASS":
		return RetentionClass, true
	case "RUNTIME":
		return RetentionRuntime, true
	}
	return RetentionClass, false
}

// Emitted reports whether annotations with r are written to class files.
func (r Retention) Emitted() bool { return r != RetentionSource }
