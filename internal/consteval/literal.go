package consteval

import (
	"math"
	"strconv"
	"strings"

	"annocheck/internal/ast"
	"annocheck/internal/diag"
	"annocheck/internal/types"
)

// literal folds a literal. negated is set when the literal is the direct
// operand of unary minus, the only place 2147483648 and
// 9223372036854775808L are in range.
func (ev *Evaluator) literal(e *ast.Expr, negated bool) result {
	v, ok := parseLiteral(e.Lit, e.Text)
	if e.Lit == ast.LitInt || e.Lit == ast.LitLong {
		if !ok || (!negated && minMagnitude(e.Lit, e.Text)) {
			ev.report(diag.NumericValueOutOfRange, e.Span, e.Text, litType(e.Lit))
			return failed()
		}
	}
	if !ok {
		return nonConstant()
	}
	return constant(v)
}

// minMagnitude reports whether text is the decimal magnitude of
// Integer.MIN_VALUE or Long.MIN_VALUE.
func minMagnitude(kind ast.LitKind, text string) bool {
	s := strings.TrimRight(strings.ReplaceAll(text, "_", ""), "lL")
	if kind == ast.LitLong {
		return s == "9223372036854775808"
	}
	return s == "2147483648"
}

func litType(kind ast.LitKind) string {
	if kind == ast.LitLong {
		return "long"
	}
	return "int"
}

// parseLiteral converts the source text of a literal.
func parseLiteral(kind ast.LitKind, text string) (types.Value, bool) {
	switch kind {
	case ast.LitBool:
		switch text {
		case "true":
			return types.BoolValue(true), true
		case "false":
			return types.BoolValue(false), true
		}
	case ast.LitInt:
		n, ok := parseInteger(text, false)
		return types.IntValue(types.PrimInt, n), ok
	case ast.LitLong:
		n, ok := parseInteger(text, true)
		return types.IntValue(types.PrimLong, n), ok
	case ast.LitFloat, ast.LitDouble:
		return parseFloating(text)
	case ast.LitChar:
		s, ok := unquote(text, '\'')
		r := []rune(s)
		if !ok || len(r) != 1 || r[0] > math.MaxUint16 {
			return types.ErrorValue(), false
		}
		return types.IntValue(types.PrimChar, int64(r[0])), true
	case ast.LitString:
		s, ok := unquote(text, '"')
		if !ok {
			return types.ErrorValue(), false
		}
		return types.StringValue(s), true
	}
	return types.ErrorValue(), false
}

// parseInteger accepts decimal, hex, octal and binary literals with
// underscores. Non-decimal int literals may use all 32 bits. The decimal
// magnitude of MIN_VALUE parses here and wraps; literal rejects it
// outside unary minus.
func parseInteger(text string, long bool) (int64, bool) {
	s := strings.ReplaceAll(text, "_", "")
	s = strings.TrimRight(s, "lL")
	base := 10
	switch {
	case strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X"):
		base, s = 16, s[2:]
	case strings.HasPrefix(s, "0b") || strings.HasPrefix(s, "0B"):
		base, s = 2, s[2:]
	case len(s) > 1 && s[0] == '0':
		base, s = 8, s[1:]
	}
	u, err := strconv.ParseUint(s, base, 64)
	if err != nil {
		return 0, false
	}
	switch {
	case long && base == 10:
		if u > 1<<63 {
			return 0, false
		}
	case long:
	case base == 10:
		if u > 1<<31 {
			return 0, false
		}
	default:
		if u > math.MaxUint32 {
			return 0, false
		}
	}
	return int64(u), true
}

func parseFloating(text string) (types.Value, bool) {
	s := strings.ReplaceAll(text, "_", "")
	if s == "" {
		return types.ErrorValue(), false
	}
	prim := types.PrimDouble
	switch s[len(s)-1] {
	case 'f', 'F':
		prim = types.PrimFloat
		s = s[:len(s)-1]
	case 'd', 'D':
		s = s[:len(s)-1]
	}
	bits := 64
	if prim == types.PrimFloat {
		bits = 32
	}
	f, err := strconv.ParseFloat(s, bits)
	if err != nil {
		return types.ErrorValue(), false
	}
	return types.FloatValue(prim, f), true
}

// unquote strips the quotes of a Java char or string literal and
// resolves its escapes.
func unquote(text string, quote byte) (string, bool) {
	if len(text) < 2 || text[0] != quote || text[len(text)-1] != quote {
		return "", false
	}
	body := text[1 : len(text)-1]
	var b strings.Builder
	for i := 0; i < len(body); {
		c := body[i]
		if c != '\\' {
			b.WriteByte(c)
			i++
			continue
		}
		if i+1 >= len(body) {
			return "", false
		}
		i++
		switch e := body[i]; e {
		case 'b':
			b.WriteByte('\b')
		case 't':
			b.WriteByte('\t')
		case 'n':
			b.WriteByte('\n')
		case 'f':
			b.WriteByte('\f')
		case 'r':
			b.WriteByte('\r')
		case 's':
			b.WriteByte(' ')
		case '"', '\'', '\\':
			b.WriteByte(e)
		case 'u':
			for i < len(body) && body[i] == 'u' {
				i++
			}
			if i+4 > len(body) {
				return "", false
			}
			n, err := strconv.ParseUint(body[i:i+4], 16, 16)
			if err != nil {
				return "", false
			}
			b.WriteRune(rune(n))
			i += 4
			continue
		default:
			if e < '0' || e > '7' {
				return "", false
			}
			// octal escapes take up to three digits, the first at most 3
			end := i + 1
			limit := i + 2
			if e <= '3' {
				limit = i + 3
			}
			for end < len(body) && end < limit && body[end] >= '0' && body[end] <= '7' {
				end++
			}
			n, _ := strconv.ParseUint(body[i:end], 8, 8)
			b.WriteRune(rune(n))
			i = end
			continue
		}
		i++
	}
	return b.String(), true
}

// javaFloat renders floating constants like Float.toString and
// Double.toString.
func javaFloat(f float64, single bool) string {
	bits := 64
	if single {
		bits = 32
	}
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		if math.Signbit(f) {
			return "-0.0"
		}
		return "0.0"
	}
	abs := math.Abs(f)
	if abs >= 1e-3 && abs < 1e7 {
		s := strconv.FormatFloat(f, 'f', -1, bits)
		if !strings.Contains(s, ".") {
			s += ".0"
		}
		return s
	}
	s := strconv.FormatFloat(f, 'E', -1, bits)
	mant, exp, _ := strings.Cut(s, "E")
	if !strings.Contains(mant, ".") {
		mant += ".0"
	}
	exp = strings.TrimPrefix(exp, "+")
	neg := strings.HasPrefix(exp, "-")
	exp = strings.TrimLeft(strings.TrimPrefix(exp, "-"), "0")
	if exp == "" {
		exp = "0"
	}
	if neg {
		exp = "-" + exp
	}
	return mant + "E" + exp
}
