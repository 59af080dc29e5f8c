// Package types models annotation attribute types and compile-time constant
// values as closed sum types.
package types

import (
	"fmt"
	"strings"
)

// PrimKind enumerates the Java primitive types.
type PrimKind uint8

const (
	PrimInvalid PrimKind = iota
	PrimBoolean
	PrimByte
	PrimShort
	PrimChar
	PrimInt
	PrimLong
	PrimFloat
	PrimDouble
)

func (p PrimKind) String() string {
	switch p {
	case PrimBoolean:
		return "boolean"
	case PrimByte:
		return "byte"
	case PrimShort:
		return "short"
	case PrimChar:
		return "char"
	case PrimInt:
		return "int"
	case PrimLong:
		return "long"
	case PrimFloat:
		return "float"
	case PrimDouble:
		return "double"
	default:
		return fmt.Sprintf("PrimKind(%d)", p)
	}
}

// ParsePrim maps a Java primitive keyword to its kind.
func ParsePrim(name string) (PrimKind, bool) {
	switch name {
	case "boolean":
		return PrimBoolean, true
	case "byte":
		return PrimByte, true
	case "short":
		return PrimShort, true
	case "char":
		return PrimChar, true
	case "int":
		return PrimInt, true
	case "long":
		return PrimLong, true
	case "float":
		return PrimFloat, true
	case "double":
		return PrimDouble, true
	}
	return PrimInvalid, false
}

// IsIntegral reports byte, short, char, int and long.
func (p PrimKind) IsIntegral() bool {
	return p >= PrimByte && p <= PrimLong
}

// IsNumeric reports every primitive except boolean.
func (p PrimKind) IsNumeric() bool {
	return p >= PrimByte && p <= PrimDouble
}

// rank orders numeric kinds for widening; char and short share a rank but
// neither widens to the other.
func (p PrimKind) rank() int {
	switch p {
	case PrimByte:
		return 1
	case PrimShort, PrimChar:
		return 2
	case PrimInt:
		return 3
	case PrimLong:
		return 4
	case PrimFloat:
		return 5
	case PrimDouble:
		return 6
	}
	return 0
}

// WidensTo reports whether a value of p converts to q by identity or
// widening primitive conversion.
func (p PrimKind) WidensTo(q PrimKind) bool {
	if p == q {
		return true
	}
	if !p.IsNumeric() || !q.IsNumeric() {
		return false
	}
	if q == PrimChar || p == PrimChar && q == PrimShort {
		return false
	}
	return p.rank() < q.rank()
}

// AttrKind enumerates the shapes an annotation attribute type can take.
type AttrKind uint8

const (
	AttrInvalid AttrKind = iota
	AttrPrimitive
	AttrString
	AttrClass
	AttrEnum
	AttrAnnotation
	AttrArray
)

func (k AttrKind) String() string {
	switch k {
	case AttrInvalid:
		return "invalid"
	case AttrPrimitive:
		return "primitive"
	case AttrString:
		return "String"
	case AttrClass:
		return "Class"
	case AttrEnum:
		return "enum"
	case AttrAnnotation:
		return "annotation"
	case AttrArray:
		return "array"
	default:
		return fmt.Sprintf("AttrKind(%d)", k)
	}
}

// AttrType is the declared type of an annotation attribute. Arrays nest
// exactly one level: Elem is never itself an array.
type AttrType struct {
	Kind AttrKind
	Prim PrimKind
	// Name is the qualified name of enum and annotation types, and the
	// display form of invalid types.
	Name string
	// Display is the type as written, used in messages.
	Display string
	Elem    *AttrType
}

func Primitive(p PrimKind) AttrType {
	return AttrType{Kind: AttrPrimitive, Prim: p, Display: p.String()}
}
func String() AttrType {
	return AttrType{Kind: AttrString, Name: "java.lang.String", Display: "String"}
}
func Class(display string) AttrType {
	return AttrType{Kind: AttrClass, Name: "java.lang.Class", Display: display}
}
func Enum(qname, display string) AttrType {
	return AttrType{Kind: AttrEnum, Name: qname, Display: display}
}
func Annotation(qname, display string) AttrType {
	return AttrType{Kind: AttrAnnotation, Name: qname, Display: display}
}
func Invalid(display string) AttrType {
	return AttrType{Kind: AttrInvalid, Name: display, Display: display}
}

// ArrayOf wraps elem in one array dimension. Wrapping an array yields an
// invalid type.
func ArrayOf(elem AttrType) AttrType {
	if elem.Kind == AttrArray || elem.Kind == AttrInvalid {
		return Invalid(elem.String() + "[]")
	}
	e := elem
	return AttrType{Kind: AttrArray, Display: elem.String() + "[]", Elem: &e}
}

// IsArray reports one-dimensional array types.
func (t AttrType) IsArray() bool { return t.Kind == AttrArray && t.Elem != nil }

// Leaf returns the element type of arrays and t itself otherwise.
func (t AttrType) Leaf() AttrType {
	if t.IsArray() {
		return *t.Elem
	}
	return t
}

func (t AttrType) String() string {
	if t.Display != "" {
		return t.Display
	}
	switch t.Kind {
	case AttrPrimitive:
		return t.Prim.String()
	case AttrString:
		return "String"
	case AttrClass:
		return "Class"
	case AttrArray:
		if t.Elem != nil {
			return t.Elem.String() + "[]"
		}
	}
	if t.Name != "" {
		return simpleName(t.Name)
	}
	return "<invalid>"
}

func simpleName(qname string) string {
	if i := strings.LastIndexByte(qname, '.'); i >= 0 {
		return qname[i+1:]
	}
	return qname
}
