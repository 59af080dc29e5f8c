package diag

import (
	"fmt"
	"sort"

	"annocheck/internal/suppress"
)

type Code uint16

const (
	UnknownCode Code = 0

	// syntax
	AnnotationTypeDeclarationCannotHaveSuperclass      Code = 1001
	AnnotationTypeDeclarationCannotHaveSuperinterfaces Code = 1002
	AnnotationTypeDeclarationCannotHaveConstructor     Code = 1003
	AnnotationMembersCannotHaveParameters              Code = 1004
	AnnotationMembersCannotHaveTypeParameters          Code = 1005
	AnnotationTypeDeclarationCannotHaveTypeParameters  Code = 1006
	ParsingErrorDeleteToken                            Code = 1007
	ParsingErrorInsertToken                            Code = 1008

	// types
	AnnotationCircularity                  Code = 2001
	AnnotationCircularitySelfReference     Code = 2002
	InvalidAnnotationMemberType            Code = 2003
	IllegalModifierForAnnotationType       Code = 2004
	IllegalModifierForAnnotationMemberType Code = 2005
	DisallowedTargetForAnnotation          Code = 2006
	DuplicateAnnotation                    Code = 2007
	MissingValueForAnnotationMember        Code = 2008
	IllegalClassLiteralForTypeVariable     Code = 2009
	IllegalGenericArray                    Code = 2010
	TypeMismatch                           Code = 2011
	UndefinedType                          Code = 2012

	// members
	AnnotationCannotOverrideMethod     Code = 3001
	IllegalModifierForAnnotationMethod Code = 3002
	UndefinedAnnotationMember          Code = 3003
	NotVisibleField                    Code = 3004
	ReferenceToForwardField            Code = 3005
	UninitializedBlankFinalField       Code = 3006
	MethodMustOverride                 Code = 3007
	MethodMustOverrideOrImplement      Code = 3008
	UndefinedName                      Code = 3009
	UndefinedField                     Code = 3010

	// internal
	AnnotationValueMustBeConstant         Code = 4001
	AnnotationValueMustBeClassLiteral     Code = 4002
	AnnotationValueMustBeAnEnumConstant   Code = 4003
	AnnotationValueMustBeAnnotation       Code = 4004
	AnnotationValueMustBeArrayInitializer Code = 4005
	DuplicateAnnotationMember             Code = 4006
	DuplicateTargetInTargetAnnotation     Code = 4007
	IllegalModifierForAnnotationField     Code = 4008
	CannotDefineAnnotationInLocalType     Code = 4009
	NumericValueOutOfRange                Code = 4010

	// code style
	AnnotationTypeUsedAsSuperInterface                        Code = 5001
	MissingOverrideAnnotation                                 Code = 5002
	MissingOverrideAnnotationForInterfaceMethodImplementation Code = 5003
	TypeMissingDeprecatedAnnotation                           Code = 5004
	FieldMissingDeprecatedAnnotation                          Code = 5005
	MethodMissingDeprecatedAnnotation                         Code = 5006

	// unnecessary code
	UnhandledWarningToken    Code = 6001
	UnusedWarningToken       Code = 6002
	ProblemNotAnalysed       Code = 6003
	UnusedPrivateField       Code = 6004
	LocalVariableIsNeverUsed Code = 6005
	UnusedImport             Code = 6006

	// potential programming problems
	MissingSerialVersion Code = 7001

	// externalisation
	NonExternalizedStringLiteral Code = 8001

	// unchecked / raw
	RawTypeReference Code = 9001
)

type codeInfo struct {
	name     string
	category Category
	irritant suppress.Irritant
	format   string
}

var catalog = map[Code]codeInfo{
	UnknownCode: {"Unknown", CatInternal, suppress.NoIrritant, "unknown problem"},

	AnnotationTypeDeclarationCannotHaveSuperclass:      {"AnnotationTypeDeclarationCannotHaveSuperclass", CatSyntax, suppress.NoIrritant, "Annotation type declaration cannot have an explicit superclass"},
	AnnotationTypeDeclarationCannotHaveSuperinterfaces: {"AnnotationTypeDeclarationCannotHaveSuperinterfaces", CatSyntax, suppress.NoIrritant, "Annotation type declaration cannot have explicit superinterfaces"},
	AnnotationTypeDeclarationCannotHaveConstructor:     {"AnnotationTypeDeclarationCannotHaveConstructor", CatSyntax, suppress.NoIrritant, "Annotation type declaration cannot have a constructor"},
	AnnotationMembersCannotHaveParameters:              {"AnnotationMembersCannotHaveParameters", CatSyntax, suppress.NoIrritant, "Annotation attributes cannot have parameters"},
	AnnotationMembersCannotHaveTypeParameters:          {"AnnotationMembersCannotHaveTypeParameters", CatSyntax, suppress.NoIrritant, "Annotation attributes cannot be generic"},
	AnnotationTypeDeclarationCannotHaveTypeParameters:  {"AnnotationTypeDeclarationCannotHaveTypeParameters", CatSyntax, suppress.NoIrritant, "Syntax error, annotation declaration cannot have type parameters"},
	ParsingErrorDeleteToken:                            {"ParsingErrorDeleteToken", CatSyntax, suppress.NoIrritant, "Syntax error on token \"%s\", delete this token"},
	ParsingErrorInsertToken:                            {"ParsingErrorInsertToken", CatSyntax, suppress.NoIrritant, "Syntax error, insert \"%s\" to complete %s"},

	AnnotationCircularity:                  {"AnnotationCircularity", CatType, suppress.NoIrritant, "Cycle detected: a cycle exists between annotation attributes of %s and %s"},
	AnnotationCircularitySelfReference:     {"AnnotationCircularitySelfReference", CatType, suppress.NoIrritant, "Cycle detected: the annotation type %s cannot contain attributes of the annotation type itself"},
	InvalidAnnotationMemberType:            {"InvalidAnnotationMemberType", CatType, suppress.NoIrritant, "Invalid type %s for the annotation attribute %s.%s; only primitive type, String, Class, annotation, enumeration are permitted or 1-dimensional arrays thereof"},
	IllegalModifierForAnnotationType:       {"IllegalModifierForAnnotationType", CatType, suppress.NoIrritant, "Illegal modifier for the annotation type %s; only public & abstract are permitted"},
	IllegalModifierForAnnotationMemberType: {"IllegalModifierForAnnotationMemberType", CatType, suppress.NoIrritant, "Illegal modifier for the member annotation type %s; only public, protected, private, static & abstract are permitted"},
	DisallowedTargetForAnnotation:          {"DisallowedTargetForAnnotation", CatType, suppress.NoIrritant, "The annotation @%s is disallowed for this location"},
	DuplicateAnnotation:                    {"DuplicateAnnotation", CatType, suppress.NoIrritant, "Duplicate annotation @%s"},
	MissingValueForAnnotationMember:        {"MissingValueForAnnotationMember", CatType, suppress.NoIrritant, "The annotation @%s must define the attribute %s"},
	IllegalClassLiteralForTypeVariable:     {"IllegalClassLiteralForTypeVariable", CatType, suppress.NoIrritant, "Illegal class literal for the type parameter %s"},
	IllegalGenericArray:                    {"IllegalGenericArray", CatType, suppress.NoIrritant, "Cannot create a generic array of %s"},
	TypeMismatch:                           {"TypeMismatch", CatType, suppress.NoIrritant, "Type mismatch: cannot convert from %s to %s"},
	UndefinedType:                          {"UndefinedType", CatType, suppress.NoIrritant, "%s cannot be resolved to a type"},

	AnnotationCannotOverrideMethod:     {"AnnotationCannotOverrideMethod", CatMember, suppress.NoIrritant, "The annotation type %s cannot override the method %s.%s(%s)"},
	IllegalModifierForAnnotationMethod: {"IllegalModifierForAnnotationMethod", CatMember, suppress.NoIrritant, "Illegal modifier for the annotation attribute %s.%s; only public & abstract are permitted"},
	UndefinedAnnotationMember:          {"UndefinedAnnotationMember", CatMember, suppress.NoIrritant, "The attribute %s is undefined for the annotation type %s"},
	NotVisibleField:                    {"NotVisibleField", CatMember, suppress.NoIrritant, "The field %s.%s is not visible"},
	ReferenceToForwardField:            {"ReferenceToForwardField", CatMember, suppress.NoIrritant, "Cannot reference a field before it is defined"},
	UninitializedBlankFinalField:       {"UninitializedBlankFinalField", CatMember, suppress.NoIrritant, "The blank final field %s may not have been initialized"},
	MethodMustOverride:                 {"MethodMustOverride", CatMember, suppress.NoIrritant, "The method %s of type %s must override a superclass method"},
	MethodMustOverrideOrImplement:      {"MethodMustOverrideOrImplement", CatMember, suppress.NoIrritant, "The method %s of type %s must override or implement a supertype method"},
	UndefinedName:                      {"UndefinedName", CatMember, suppress.NoIrritant, "%s cannot be resolved to a variable"},
	UndefinedField:                     {"UndefinedField", CatMember, suppress.NoIrritant, "%s cannot be resolved or is not a field"},

	AnnotationValueMustBeConstant:         {"AnnotationValueMustBeConstant", CatInternal, suppress.NoIrritant, "The value for annotation attribute %s.%s must be a constant expression"},
	AnnotationValueMustBeClassLiteral:     {"AnnotationValueMustBeClassLiteral", CatInternal, suppress.NoIrritant, "The value for annotation attribute %s.%s must be a class literal"},
	AnnotationValueMustBeAnEnumConstant:   {"AnnotationValueMustBeAnEnumConstant", CatInternal, suppress.NoIrritant, "The value for annotation attribute %s.%s must be an enum constant expression"},
	AnnotationValueMustBeAnnotation:       {"AnnotationValueMustBeAnnotation", CatInternal, suppress.NoIrritant, "The value for annotation attribute %s.%s must be some @%s annotation "},
	AnnotationValueMustBeArrayInitializer: {"AnnotationValueMustBeArrayInitializer", CatInternal, suppress.NoIrritant, "The value for annotation attribute %s.%s must be an array initializer"},
	DuplicateAnnotationMember:             {"DuplicateAnnotationMember", CatInternal, suppress.NoIrritant, "Duplicate attribute %s in annotation @%s"},
	DuplicateTargetInTargetAnnotation:     {"DuplicateTargetInTargetAnnotation", CatInternal, suppress.NoIrritant, "Duplicate element %s specified in annotation @%s"},
	IllegalModifierForAnnotationField:     {"IllegalModifierForAnnotationField", CatInternal, suppress.NoIrritant, "Illegal modifier for the annotation field %s.%s; only public, static & final are permitted"},
	CannotDefineAnnotationInLocalType:     {"CannotDefineAnnotationInLocalType", CatInternal, suppress.NoIrritant, "The member annotation %s can only be defined inside a top-level class or interface"},
	NumericValueOutOfRange:                {"NumericValueOutOfRange", CatInternal, suppress.NoIrritant, "The literal %s of type %s is out of range "},

	AnnotationTypeUsedAsSuperInterface:                        {"AnnotationTypeUsedAsSuperInterface", CatCodeStyle, suppress.AnnotationSuperInterface, "The annotation type %s should not be used as a superinterface for %s"},
	MissingOverrideAnnotation:                                 {"MissingOverrideAnnotation", CatCodeStyle, suppress.MissingOverrideAnnotation, "The method %s of type %s should be tagged with @Override since it actually overrides a superclass method"},
	MissingOverrideAnnotationForInterfaceMethodImplementation: {"MissingOverrideAnnotationForInterfaceMethodImplementation", CatCodeStyle, suppress.MissingOverrideAnnotation, "The method %s of type %s should be tagged with @Override since it actually overrides a superinterface method"},
	TypeMissingDeprecatedAnnotation:                           {"TypeMissingDeprecatedAnnotation", CatCodeStyle, suppress.MissingDeprecatedAnnotation, "The deprecated type %s should be annotated with @Deprecated"},
	FieldMissingDeprecatedAnnotation:                          {"FieldMissingDeprecatedAnnotation", CatCodeStyle, suppress.MissingDeprecatedAnnotation, "The deprecated field %s.%s should be annotated with @Deprecated"},
	MethodMissingDeprecatedAnnotation:                         {"MethodMissingDeprecatedAnnotation", CatCodeStyle, suppress.MissingDeprecatedAnnotation, "The deprecated method %s of type %s should be annotated with @Deprecated"},

	UnhandledWarningToken:    {"UnhandledWarningToken", CatUnnecessaryCode, suppress.UnhandledWarningToken, "Unsupported @SuppressWarnings(\"%s\")"},
	UnusedWarningToken:       {"UnusedWarningToken", CatUnnecessaryCode, suppress.UnusedWarningToken, "Unnecessary @SuppressWarnings(\"%s\")"},
	ProblemNotAnalysed:       {"ProblemNotAnalysed", CatUnnecessaryCode, suppress.UnusedWarningToken, "At least one of the problems in category '%s' is not analysed due to a compiler option being ignored"},
	UnusedPrivateField:       {"UnusedPrivateField", CatUnnecessaryCode, suppress.UnusedPrivateMember, "The value of the field %s.%s is not used"},
	LocalVariableIsNeverUsed: {"LocalVariableIsNeverUsed", CatUnnecessaryCode, suppress.UnusedLocalVariable, "The value of the local variable %s is not used"},
	UnusedImport:             {"UnusedImport", CatUnnecessaryCode, suppress.UnusedImport, "The import %s is never used"},

	MissingSerialVersion: {"MissingSerialVersion", CatPotentialProgrammingProblem, suppress.MissingSerialVersion, "The serializable class %s does not declare a static final serialVersionUID field of type long"},

	NonExternalizedStringLiteral: {"NonExternalizedStringLiteral", CatNLS, suppress.NonExternalizedString, "Non-externalized string literal; it should be followed by //$NON-NLS-%s$"},

	RawTypeReference: {"RawTypeReference", CatUncheckedRaw, suppress.RawTypeReference, "%s is a raw type. References to generic type %s should be parameterized"},
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("TYP%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("MEM%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("INT%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("STY%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("UNN%04d", ic)
	case ic >= 7000 && ic < 8000:
		return fmt.Sprintf("PRB%04d", ic)
	case ic >= 8000 && ic < 9000:
		return fmt.Sprintf("NLS%04d", ic)
	case ic >= 9000 && ic < 10000:
		return fmt.Sprintf("RAW%04d", ic)
	}
	return "E0000"
}

// Title returns the JDT-style problem name.
func (c Code) Title() string {
	info, ok := catalog[c]
	if !ok {
		return catalog[UnknownCode].name
	}
	return info.name
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}

// Irritant returns the irritant tagging c, or suppress.NoIrritant.
func (c Code) Irritant() suppress.Irritant {
	return catalog[c].irritant
}

// Mandatory problems have no irritant: they are always errors and can
// never be suppressed.
func (c Code) Mandatory() bool {
	return c.Irritant() == suppress.NoIrritant
}

// Message renders the message template of c with args.
func (c Code) Message(args ...any) string {
	info, ok := catalog[c]
	if !ok {
		info = catalog[UnknownCode]
	}
	if len(args) == 0 {
		return info.format
	}
	return fmt.Sprintf(info.format, args...)
}

// OptionKeyOf returns the option tuning code; ok is false for mandatory
// problems.
func OptionKeyOf(c Code) (suppress.OptionKey, bool) {
	irr := c.Irritant()
	if irr == suppress.NoIrritant {
		return "", false
	}
	return irr.OptionKey(), true
}

// Codes lists every catalogued code in ascending order, UnknownCode excluded.
func Codes() []Code {
	out := make([]Code, 0, len(catalog))
	for c := range catalog {
		if c == UnknownCode {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
