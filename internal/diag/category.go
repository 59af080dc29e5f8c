package diag

// Category groups problems the way IDE problem views do.
type Category uint8

const (
	CatUnspecified Category = iota
	CatSyntax
	CatType
	CatMember
	CatInternal
	CatCodeStyle
	CatUnnecessaryCode
	CatPotentialProgrammingProblem
	CatNLS
	CatUncheckedRaw
)

var categoryNames = [...]string{
	CatUnspecified:                 "UNSPECIFIED",
	CatSyntax:                      "SYNTAX",
	CatType:                        "TYPE",
	CatMember:                      "MEMBER",
	CatInternal:                    "INTERNAL",
	CatCodeStyle:                   "CODE_STYLE",
	CatUnnecessaryCode:             "UNNECESSARY_CODE",
	CatPotentialProgrammingProblem: "POTENTIAL_PROGRAMMING_PROBLEM",
	CatNLS:                         "NLS",
	CatUncheckedRaw:                "UNCHECKED_RAW",
}

// JDT numeric category IDs, kept for machine-readable output.
var categoryIDs = [...]int{
	CatUnspecified:                 0,
	CatSyntax:                      20,
	CatType:                        40,
	CatMember:                      50,
	CatInternal:                    60,
	CatCodeStyle:                   80,
	CatPotentialProgrammingProblem: 90,
	CatUnnecessaryCode:             120,
	CatUncheckedRaw:                130,
	CatNLS:                         140,
}

func (c Category) String() string {
	if int(c) < len(categoryNames) {
		return categoryNames[c]
	}
	return categoryNames[CatUnspecified]
}

// ID returns the numeric category identifier.
func (c Category) ID() int {
	if int(c) < len(categoryIDs) {
		return categoryIDs[c]
	}
	return 0
}

// CategoryOf returns the category of code.
func CategoryOf(code Code) Category {
	if info, ok := catalog[code]; ok {
		return info.category
	}
	return CatUnspecified
}
