package ast

import "strings"

// Modifiers is a bit set of Java modifiers.
type Modifiers uint16

const (
	ModPublic Modifiers = 1 << iota
	ModProtected
	ModPrivate
	ModStatic
	ModFinal
	ModAbstract
	ModNative
	ModSynchronized
	ModTransient
	ModVolatile
	ModStrictfp
	ModDefault
	ModSealed
	ModNonSealed
)

var modifierNames = []struct {
	mod  Modifiers
	name string
}{
	{ModPublic, "public"},
	{ModProtected, "protected"},
	{ModPrivate, "private"},
	{ModAbstract, "abstract"},
	{ModStatic, "static"},
	{ModFinal, "final"},
	{ModTransient, "transient"},
	{ModVolatile, "volatile"},
	{ModSynchronized, "synchronized"},
	{ModNative, "native"},
	{ModStrictfp, "strictfp"},
	{ModDefault, "default"},
	{ModSealed, "sealed"},
	{ModNonSealed, "non-sealed"},
}

// ParseModifier maps a modifier keyword to its bit.
func ParseModifier(s string) (Modifiers, bool) {
	for _, m := range modifierNames {
		if m.name == s {
			return m.mod, true
		}
	}
	return 0, false
}

func (m Modifiers) Has(x Modifiers) bool { return m&x == x }

// Without returns m minus the bits of x.
func (m Modifiers) Without(x Modifiers) Modifiers { return m &^ x }

// Visibility returns the access bits of m.
func (m Modifiers) Visibility() Modifiers { return m & (ModPublic | ModProtected | ModPrivate) }

func (m Modifiers) String() string {
	parts := make([]string, 0, 4)
	for _, mn := range modifierNames {
		if m&mn.mod != 0 {
			parts = append(parts, mn.name)
		}
	}
	return strings.Join(parts, " ")
}
