package types

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ValueKind tags the Value sum type.
type ValueKind uint8

const (
	ValError ValueKind = iota
	ValBool
	ValInt
	ValFloat
	ValString
	ValClass
	ValEnum
	ValAnnotation
	ValArray
)

func (k ValueKind) String() string {
	switch k {
	case ValError:
		return "error"
	case ValBool:
		return "bool"
	case ValInt:
		return "int"
	case ValFloat:
		return "float"
	case ValString:
		return "string"
	case ValClass:
		return "class"
	case ValEnum:
		return "enum"
	case ValAnnotation:
		return "annotation"
	case ValArray:
		return "array"
	default:
		return fmt.Sprintf("ValueKind(%d)", k)
	}
}

// Value is a compile-time constant or an annotation element value.
//
//   - ValInt covers byte, short, char, int and long; Prim says which and
//     Int holds the value already wrapped to that width.
//   - ValFloat covers float and double; float values are rounded to
//     float32 precision.
//   - ValClass keeps the class literal as written in Str.
//   - ValEnum keeps the enum qualified name in Type and the constant in Str.
type Value struct {
	Kind  ValueKind
	Prim  PrimKind
	Bool  bool
	Int   int64
	Float float64
	Str   string
	Type  string
	Ann   *AnnotationValue
	Elems []Value
}

// AnnotationValue is a resolved nested annotation.
type AnnotationValue struct {
	Type    string
	Members []Member
}

// Member is one attribute name/value pair.
type Member struct {
	Name  string
	Value Value
}

func ErrorValue() Value               { return Value{Kind: ValError} }
func BoolValue(b bool) Value          { return Value{Kind: ValBool, Prim: PrimBoolean, Bool: b} }
func StringValue(s string) Value      { return Value{Kind: ValString, Str: s} }
func ClassValue(written string) Value { return Value{Kind: ValClass, Str: written} }
func EnumValue(typ, constant string) Value {
	return Value{Kind: ValEnum, Type: typ, Str: constant}
}
func ArrayValue(elems ...Value) Value {
	if elems == nil {
		elems = []Value{}
	}
	return Value{Kind: ValArray, Elems: elems}
}
func AnnValue(a *AnnotationValue) Value { return Value{Kind: ValAnnotation, Ann: a, Type: a.Type} }

// IntValue builds an integral value of kind p, wrapping v to p's width.
func IntValue(p PrimKind, v int64) Value {
	return Value{Kind: ValInt, Prim: p, Int: wrapInt(p, v)}
}

// FloatValue builds a float or double value.
func FloatValue(p PrimKind, v float64) Value {
	if p == PrimFloat {
		v = float64(float32(v))
	}
	return Value{Kind: ValFloat, Prim: p, Float: v}
}

func wrapInt(p PrimKind, v int64) int64 {
	switch p {
	case PrimByte:
		return int64(int8(v))
	case PrimShort:
		return int64(int16(v))
	case PrimChar:
		return int64(uint16(v))
	case PrimInt:
		return int64(int32(v))
	}
	return v
}

// IsError reports a failed evaluation.
func (v Value) IsError() bool { return v.Kind == ValError }

// PrimType returns the primitive kind of a primitive value, or PrimInvalid.
func (v Value) PrimType() PrimKind {
	switch v.Kind {
	case ValBool, ValInt, ValFloat:
		return v.Prim
	}
	return PrimInvalid
}

// TypeName is the Java type of v as used in mismatch messages.
func (v Value) TypeName() string {
	switch v.Kind {
	case ValBool, ValInt, ValFloat:
		return v.Prim.String()
	case ValString:
		return "String"
	case ValClass:
		return "Class<" + strings.TrimSuffix(v.Str, ".class") + ">"
	case ValEnum, ValAnnotation:
		return simpleName(v.Type)
	case ValArray:
		if len(v.Elems) > 0 {
			return v.Elems[0].TypeName() + "[]"
		}
		return "Object[]"
	}
	return "<error>"
}

// Convert applies an assignment conversion of a primitive constant to p.
// Narrowing is the caller's decision; Convert only changes the
// representation.
func (v Value) Convert(p PrimKind) Value {
	switch {
	case v.Kind == ValInt && p.IsIntegral():
		return IntValue(p, v.Int)
	case v.Kind == ValInt && (p == PrimFloat || p == PrimDouble):
		return FloatValue(p, float64(v.Int))
	case v.Kind == ValFloat && (p == PrimFloat || p == PrimDouble):
		return FloatValue(p, v.Float)
	case v.Kind == ValFloat && p.IsIntegral():
		return IntValue(p, floatToLong(v.Float))
	}
	return v
}

func floatToLong(f float64) int64 {
	switch {
	case math.IsNaN(f):
		return 0
	case f >= math.MaxInt64:
		return math.MaxInt64
	case f <= math.MinInt64:
		return math.MinInt64
	}
	return int64(f)
}

// Equal compares two values structurally.
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case ValBool:
		return v.Bool == o.Bool
	case ValInt:
		return v.Prim == o.Prim && v.Int == o.Int
	case ValFloat:
		return v.Prim == o.Prim && v.Float == o.Float
	case ValString, ValClass:
		return v.Str == o.Str
	case ValEnum:
		return v.Type == o.Type && v.Str == o.Str
	case ValAnnotation:
		if v.Ann == nil || o.Ann == nil {
			return v.Ann == o.Ann
		}
		if v.Ann.Type != o.Ann.Type || len(v.Ann.Members) != len(o.Ann.Members) {
			return false
		}
		for i := range v.Ann.Members {
			if v.Ann.Members[i].Name != o.Ann.Members[i].Name || !v.Ann.Members[i].Value.Equal(o.Ann.Members[i].Value) {
				return false
			}
		}
		return true
	case ValArray:
		if len(v.Elems) != len(o.Elems) {
			return false
		}
		for i := range v.Elems {
			if !v.Elems[i].Equal(o.Elems[i]) {
				return false
			}
		}
		return true
	}
	return true
}

// String renders v in Java source form, e.g. [false], "x", E.A, @T(a=1).
func (v Value) String() string {
	var b strings.Builder
	v.write(&b)
	return b.String()
}

func (v Value) write(b *strings.Builder) {
	switch v.Kind {
	case ValBool:
		b.WriteString(strconv.FormatBool(v.Bool))
	case ValInt:
		switch v.Prim {
		case PrimChar:
			b.WriteString(strconv.QuoteRuneToASCII(rune(v.Int)))
		case PrimLong:
			b.WriteString(strconv.FormatInt(v.Int, 10))
			b.WriteByte('L')
		default:
			b.WriteString(strconv.FormatInt(v.Int, 10))
		}
	case ValFloat:
		bitSize := 64
		if v.Prim == PrimFloat {
			bitSize = 32
		}
		s := strconv.FormatFloat(v.Float, 'g', -1, bitSize)
		if !strings.ContainsAny(s, ".eEIN") {
			s += ".0"
		}
		b.WriteString(s)
		if v.Prim == PrimFloat {
			b.WriteByte('f')
		}
	case ValString:
		b.WriteString(strconv.Quote(v.Str))
	case ValClass:
		b.WriteString(v.Str)
	case ValEnum:
		b.WriteString(simpleName(v.Type))
		b.WriteByte('.')
		b.WriteString(v.Str)
	case ValAnnotation:
		b.WriteByte('@')
		if v.Ann == nil {
			b.WriteString("?")
			return
		}
		b.WriteString(simpleName(v.Ann.Type))
		b.WriteByte('(')
		for i, m := range v.Ann.Members {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(m.Name)
			b.WriteByte('=')
			m.Value.write(b)
		}
		b.WriteByte(')')
	case ValArray:
		b.WriteByte('[')
		for i, e := range v.Elems {
			if i > 0 {
				b.WriteString(", ")
			}
			e.write(b)
		}
		b.WriteByte(']')
	default:
		b.WriteString("<error>")
	}
}
