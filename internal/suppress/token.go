package suppress

import "sort"

// TokenAll is the token naming every nameable irritant.
const TokenAll = "all"

var (
	tokenSets = buildTokenSets()
	allSet    = buildAllSet()
)

func buildTokenSets() map[string]IrritantSet {
	m := make(map[string]IrritantSet)
	for i := Irritant(1); i < irritantCount; i++ {
		tok := irritantTable[i].token
		if tok == "" {
			continue
		}
		m[tok] = m[tok].With(i)
	}
	return m
}

func buildAllSet() IrritantSet {
	var s IrritantSet
	for _, set := range tokenSets {
		s = s.Union(set)
	}
	return s
}

// AllIrritants returns the set named by "all".
func AllIrritants() IrritantSet { return allSet }

// TokenIrritants maps a @SuppressWarnings token to the irritants it names.
// ok is false for unsupported tokens.
func TokenIrritants(token string) (IrritantSet, bool) {
	if token == TokenAll {
		return allSet, true
	}
	s, ok := tokenSets[token]
	return s, ok
}

// IrritantToken returns the token that names i, or "" when i cannot be
// suppressed by a token.
func IrritantToken(i Irritant) string {
	if i >= irritantCount {
		return ""
	}
	return irritantTable[i].token
}

// Tokens returns every supported token, "all" first, the rest sorted.
func Tokens() []string {
	out := make([]string, 0, len(tokenSets)+1)
	for tok := range tokenSets {
		out = append(out, tok)
	}
	sort.Strings(out)
	return append([]string{TokenAll}, out...)
}
