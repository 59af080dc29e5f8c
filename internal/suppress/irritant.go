package suppress

import (
	"math/bits"
	"strings"
)

// Irritant identifies one suppressible/configurable family of problems.
// The zero value means "no irritant": problems without one are mandatory.
type Irritant uint8

const (
	NoIrritant Irritant = iota
	AutoBoxing
	UnnecessaryTypeCheck
	MissingDeprecatedAnnotation
	UsingDeprecatedAPI
	UsingTerminallyDeprecatedAPI
	APILeak
	FallthroughCase
	FinallyBlockNotCompleting
	FieldHiding
	LocalVariableHiding
	MaskedCatchBlock
	TypeHiding
	MissingEnumConstantCase
	MissingDefaultCase
	InvalidJavadoc
	MissingJavadocComments
	MissingJavadocTags
	NonExternalizedString
	NullReference
	PotentialNullReference
	RedundantNullCheck
	RawTypeReference
	UnclosedCloseable
	PotentiallyUnclosedCloseable
	DiscouragedReference
	ForbiddenReference
	MissingSerialVersion
	IndirectStaticAccess
	NonStaticAccessToStatic
	MethodCanBeStatic
	MethodCanBePotentiallyStatic
	OverridingMethodWithoutSuperInvocation
	AccessEmulation
	MissingSynchronizedModifierInInheritedMethod
	UncheckedTypeOperation
	UnlikelyEqualsArgumentType
	UnlikelyCollectionMethodArgumentType
	UnqualifiedFieldAccess
	UnusedLocalVariable
	UnusedArgument
	UnusedImport
	UnusedPrivateMember
	UnusedDeclaredThrownException
	DeadCode
	UnusedLabel
	UnusedTypeArguments
	RedundantSuperinterface
	UnusedObjectAllocation
	UnusedExceptionParameter
	UnusedTypeParameter

	// configurable, not nameable by a token
	MissingOverrideAnnotation
	AnnotationSuperInterface
	UnhandledWarningToken
	UnusedWarningToken

	irritantCount
)

// OptionKey is the long-form compiler option governing an irritant.
type OptionKey string

const optionPrefix = "org.eclipse.jdt.core.compiler.problem."

// Short returns the key without the common problem-option prefix.
func (k OptionKey) Short() string {
	return strings.TrimPrefix(string(k), optionPrefix)
}

// ParseOptionKey accepts either the long form or the short suffix.
func ParseOptionKey(s string) OptionKey {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, optionPrefix) {
		return OptionKey(s)
	}
	return OptionKey(optionPrefix + s)
}

type irritantInfo struct {
	name   string
	token  string
	option OptionKey
}

func key(short string) OptionKey { return OptionKey(optionPrefix + short) }

var irritantTable = [irritantCount]irritantInfo{
	NoIrritant:                                   {name: "None"},
	AutoBoxing:                                   {"AutoBoxing", "boxing", key("autoboxing")},
	UnnecessaryTypeCheck:                         {"UnnecessaryTypeCheck", "cast", key("unnecessaryTypeCheck")},
	MissingDeprecatedAnnotation:                  {"MissingDeprecatedAnnotation", "dep-ann", key("missingDeprecatedAnnotation")},
	UsingDeprecatedAPI:                           {"UsingDeprecatedAPI", "deprecation", key("deprecation")},
	UsingTerminallyDeprecatedAPI:                 {"UsingTerminallyDeprecatedAPI", "removal", key("terminalDeprecation")},
	APILeak:                                      {"APILeak", "exports", key("APILeak")},
	FallthroughCase:                              {"FallthroughCase", "fallthrough", key("fallthroughCase")},
	FinallyBlockNotCompleting:                    {"FinallyBlockNotCompleting", "finally", key("finallyBlockNotCompletingNormally")},
	FieldHiding:                                  {"FieldHiding", "hiding", key("fieldHiding")},
	LocalVariableHiding:                          {"LocalVariableHiding", "hiding", key("localVariableHiding")},
	MaskedCatchBlock:                             {"MaskedCatchBlock", "hiding", key("hiddenCatchBlock")},
	TypeHiding:                                   {"TypeHiding", "hiding", key("typeParameterHiding")},
	MissingEnumConstantCase:                      {"MissingEnumConstantCase", "incomplete-switch", key("incompleteEnumSwitch")},
	MissingDefaultCase:                           {"MissingDefaultCase", "incomplete-switch", key("missingDefaultCase")},
	InvalidJavadoc:                               {"InvalidJavadoc", "javadoc", key("invalidJavadoc")},
	MissingJavadocComments:                       {"MissingJavadocComments", "javadoc", key("missingJavadocComments")},
	MissingJavadocTags:                           {"MissingJavadocTags", "javadoc", key("missingJavadocTags")},
	NonExternalizedString:                        {"NonExternalizedString", "nls", key("nonExternalizedStringLiteral")},
	NullReference:                                {"NullReference", "null", key("nullReference")},
	PotentialNullReference:                       {"PotentialNullReference", "null", key("potentialNullReference")},
	RedundantNullCheck:                           {"RedundantNullCheck", "null", key("redundantNullCheck")},
	RawTypeReference:                             {"RawTypeReference", "rawtypes", key("rawTypeReference")},
	UnclosedCloseable:                            {"UnclosedCloseable", "resource", key("unclosedCloseable")},
	PotentiallyUnclosedCloseable:                 {"PotentiallyUnclosedCloseable", "resource", key("potentiallyUnclosedCloseable")},
	DiscouragedReference:                         {"DiscouragedReference", "restriction", key("discouragedReference")},
	ForbiddenReference:                           {"ForbiddenReference", "restriction", key("forbiddenReference")},
	MissingSerialVersion:                         {"MissingSerialVersion", "serial", key("missingSerialVersion")},
	IndirectStaticAccess:                         {"IndirectStaticAccess", "static-access", key("indirectStaticAccess")},
	NonStaticAccessToStatic:                      {"NonStaticAccessToStatic", "static-access", key("staticAccessReceiver")},
	MethodCanBeStatic:                            {"MethodCanBeStatic", "static-method", key("reportMethodCanBeStatic")},
	MethodCanBePotentiallyStatic:                 {"MethodCanBePotentiallyStatic", "static-method", key("reportMethodCanBePotentiallyStatic")},
	OverridingMethodWithoutSuperInvocation:       {"OverridingMethodWithoutSuperInvocation", "super", key("overridingMethodWithoutSuperInvocation")},
	AccessEmulation:                              {"AccessEmulation", "synthetic-access", key("syntheticAccessEmulation")},
	MissingSynchronizedModifierInInheritedMethod: {"MissingSynchronizedModifierInInheritedMethod", "sync-override", key("missingSynchronizedOnInheritedMethod")},
	UncheckedTypeOperation:                       {"UncheckedTypeOperation", "unchecked", key("uncheckedTypeOperation")},
	UnlikelyEqualsArgumentType:                   {"UnlikelyEqualsArgumentType", "unlikely-arg-type", key("unlikelyEqualsArgumentType")},
	UnlikelyCollectionMethodArgumentType:         {"UnlikelyCollectionMethodArgumentType", "unlikely-arg-type", key("unlikelyCollectionMethodArgumentType")},
	UnqualifiedFieldAccess:                       {"UnqualifiedFieldAccess", "unqualified-field-access", key("unqualifiedFieldAccess")},
	UnusedLocalVariable:                          {"UnusedLocalVariable", "unused", key("unusedLocal")},
	UnusedArgument:                               {"UnusedArgument", "unused", key("unusedParameter")},
	UnusedImport:                                 {"UnusedImport", "unused", key("unusedImport")},
	UnusedPrivateMember:                          {"UnusedPrivateMember", "unused", key("unusedPrivateMember")},
	UnusedDeclaredThrownException:                {"UnusedDeclaredThrownException", "unused", key("unusedDeclaredThrownException")},
	DeadCode:                                     {"DeadCode", "unused", key("deadCode")},
	UnusedLabel:                                  {"UnusedLabel", "unused", key("unusedLabel")},
	UnusedTypeArguments:                          {"UnusedTypeArguments", "unused", key("unusedTypeArgumentsForMethodInvocation")},
	RedundantSuperinterface:                      {"RedundantSuperinterface", "unused", key("redundantSuperinterface")},
	UnusedObjectAllocation:                       {"UnusedObjectAllocation", "unused", key("unusedObjectAllocation")},
	UnusedExceptionParameter:                     {"UnusedExceptionParameter", "unused", key("unusedExceptionParameter")},
	UnusedTypeParameter:                          {"UnusedTypeParameter", "unused", key("unusedTypeParameter")},

	MissingOverrideAnnotation: {"MissingOverrideAnnotation", "", key("missingOverrideAnnotation")},
	AnnotationSuperInterface:  {"AnnotationSuperInterface", "", key("annotationSuperInterface")},
	UnhandledWarningToken:     {"UnhandledWarningToken", "", key("unhandledWarningToken")},
	UnusedWarningToken:        {"UnusedWarningToken", "", key("unusedWarningToken")},
}

func (i Irritant) String() string {
	if i >= irritantCount {
		return "Irritant(?)"
	}
	return irritantTable[i].name
}

// OptionKey returns the option governing i, or "" for NoIrritant.
func (i Irritant) OptionKey() OptionKey {
	if i >= irritantCount {
		return ""
	}
	return irritantTable[i].option
}

// Irritants lists every irritant, nameable or not, in declaration order.
func Irritants() []Irritant {
	out := make([]Irritant, 0, irritantCount-1)
	for i := Irritant(1); i < irritantCount; i++ {
		out = append(out, i)
	}
	return out
}

// IrritantForOption returns the irritant governed by key.
func IrritantForOption(k OptionKey) (Irritant, bool) {
	for i := Irritant(1); i < irritantCount; i++ {
		if irritantTable[i].option == k {
			return i, true
		}
	}
	return NoIrritant, false
}

// IrritantSet is a bit set over Irritant.
type IrritantSet struct {
	bits [2]uint64
}

// SetOf builds a set from the given irritants.
func SetOf(irritants ...Irritant) IrritantSet {
	var s IrritantSet
	for _, i := range irritants {
		s = s.With(i)
	}
	return s
}

func (s IrritantSet) With(i Irritant) IrritantSet {
	if i == NoIrritant || i >= irritantCount {
		return s
	}
	s.bits[i/64] |= 1 << (i % 64)
	return s
}

func (s IrritantSet) Has(i Irritant) bool {
	if i == NoIrritant || i >= irritantCount {
		return false
	}
	return s.bits[i/64]&(1<<(i%64)) != 0
}

func (s IrritantSet) Union(o IrritantSet) IrritantSet {
	s.bits[0] |= o.bits[0]
	s.bits[1] |= o.bits[1]
	return s
}

func (s IrritantSet) Intersects(o IrritantSet) bool {
	return s.bits[0]&o.bits[0] != 0 || s.bits[1]&o.bits[1] != 0
}

func (s IrritantSet) Empty() bool {
	return s.bits[0] == 0 && s.bits[1] == 0
}

func (s IrritantSet) Len() int {
	return bits.OnesCount64(s.bits[0]) + bits.OnesCount64(s.bits[1])
}

// IsAll reports whether s covers every nameable irritant.
func (s IrritantSet) IsAll() bool {
	all := allSet
	return s.bits[0]&all.bits[0] == all.bits[0] && s.bits[1]&all.bits[1] == all.bits[1]
}

// Slice returns the members of s in ascending order.
func (s IrritantSet) Slice() []Irritant {
	out := make([]Irritant, 0, s.Len())
	for i := Irritant(1); i < irritantCount; i++ {
		if s.Has(i) {
			out = append(out, i)
		}
	}
	return out
}
