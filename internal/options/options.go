// Package options holds the compiler options that tune problem severities
// and @SuppressWarnings handling.
package options

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"annocheck/internal/diag"
	"annocheck/internal/suppress"
)

var (
	// ErrUnknownOption is returned for keys that govern no irritant.
	ErrUnknownOption = errors.New("unknown problem option")
	// ErrBadSeverity is returned for values other than ignore|info|warning|error.
	ErrBadSeverity = errors.New("invalid severity")
	// ErrBadCompliance is returned for unparsable source levels.
	ErrBadCompliance = errors.New("invalid compliance level")
)

// Options is the effective configuration of one compile run.
type Options struct {
	// Severities overrides the default severity per option key.
	Severities map[suppress.OptionKey]diag.Severity
	// SuppressWarnings enables @SuppressWarnings handling.
	SuppressWarnings bool
	// SuppressOptionalErrors lets @SuppressWarnings silence configurable
	// problems whose severity is error.
	SuppressOptionalErrors bool
	// FatalOptionalError promotes every enabled configurable problem to error.
	FatalOptionalError bool
	// ReportMissingOverrideForInterfaceImpl extends the missing @Override
	// check to interface method implementations (compliance 1.6+).
	ReportMissingOverrideForInterfaceImpl bool
	// Compliance is the source level as a minor version: 5 for 1.5, 8 for
	// 1.8, 11 for 11.
	Compliance int
	// MaxDiagnostics caps the diagnostics kept per run; 0 is unbounded.
	MaxDiagnostics int
}

var defaultWarnings = suppress.SetOf(
	suppress.UsingDeprecatedAPI,
	suppress.UsingTerminallyDeprecatedAPI,
	suppress.APILeak,
	suppress.FinallyBlockNotCompleting,
	suppress.MaskedCatchBlock,
	suppress.TypeHiding,
	suppress.MissingEnumConstantCase,
	suppress.NullReference,
	suppress.RawTypeReference,
	suppress.UnclosedCloseable,
	suppress.DiscouragedReference,
	suppress.MissingSerialVersion,
	suppress.NonStaticAccessToStatic,
	suppress.UncheckedTypeOperation,
	suppress.UnlikelyCollectionMethodArgumentType,
	suppress.UnusedLocalVariable,
	suppress.UnusedImport,
	suppress.UnusedPrivateMember,
	suppress.DeadCode,
	suppress.UnusedLabel,
	suppress.UnusedTypeArguments,
	suppress.AnnotationSuperInterface,
	suppress.UnhandledWarningToken,
	suppress.UnusedWarningToken,
)

var defaultErrors = suppress.SetOf(suppress.ForbiddenReference)

var defaultInfos = suppress.SetOf(suppress.UnlikelyEqualsArgumentType)

// Default returns the out-of-the-box configuration.
func Default() Options {
	return Options{
		Severities:                            make(map[suppress.OptionKey]diag.Severity),
		SuppressWarnings:                      true,
		ReportMissingOverrideForInterfaceImpl: true,
		Compliance:                            8,
	}
}

// DefaultSeverity returns the built-in severity of irr.
func DefaultSeverity(irr suppress.Irritant) diag.Severity {
	switch {
	case irr == suppress.NoIrritant:
		return diag.SevError
	case defaultErrors.Has(irr):
		return diag.SevError
	case defaultWarnings.Has(irr):
		return diag.SevWarning
	case defaultInfos.Has(irr):
		return diag.SevInfo
	}
	return diag.SevIgnore
}

// Severity returns the configured severity of irr, before promotion.
func (o *Options) Severity(irr suppress.Irritant) diag.Severity {
	if irr == suppress.NoIrritant {
		return diag.SevError
	}
	if sev, ok := o.Severities[irr.OptionKey()]; ok {
		return sev
	}
	return DefaultSeverity(irr)
}

// SeverityOf returns the severity code is reported with: the default,
// then the option override, then FatalOptionalError promotion.
// Suppression is applied by the caller, see CanSuppress.
func (o *Options) SeverityOf(code diag.Code) diag.Severity {
	irr := code.Irritant()
	if irr == suppress.NoIrritant {
		return diag.SevError
	}
	sev := o.Severity(irr)
	if o.FatalOptionalError && sev != diag.SevIgnore {
		sev = diag.SevError
	}
	return sev
}

// CanSuppress reports whether a problem of code emitted at sev may be
// silenced by an active @SuppressWarnings token.
func (o *Options) CanSuppress(code diag.Code, sev diag.Severity) bool {
	if !o.SuppressWarnings || code.Mandatory() {
		return false
	}
	if sev == diag.SevError && !o.SuppressOptionalErrors {
		return false
	}
	return true
}

// ComplianceAtLeast reports whether the source level is >= minor.
func (o *Options) ComplianceAtLeast(minor int) bool {
	return o.Compliance >= minor
}

// SetSeverity overrides the severity of the option named key (long or short
// form).
func (o *Options) SetSeverity(key, value string) error {
	k := suppress.ParseOptionKey(key)
	if _, ok := suppress.IrritantForOption(k); !ok {
		return fmt.Errorf("%w: %s", ErrUnknownOption, key)
	}
	sev, ok := diag.ParseSeverity(value)
	if !ok {
		return fmt.Errorf("%w %q for %s", ErrBadSeverity, value, key)
	}
	if o.Severities == nil {
		o.Severities = make(map[suppress.OptionKey]diag.Severity)
	}
	o.Severities[k] = sev
	return nil
}

// ParseAssignment applies a "key=severity" string.
func (o *Options) ParseAssignment(s string) error {
	key, value, ok := strings.Cut(s, "=")
	if !ok {
		return fmt.Errorf("expected key=severity, got %q", s)
	}
	return o.SetSeverity(strings.TrimSpace(key), strings.TrimSpace(value))
}

// ParseCompliance converts "1.5".."1.8" or "9", "11", ... to a minor version.
func ParseCompliance(s string) (int, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "1.")
	n, err := strconv.Atoi(s)
	if err != nil || n < 3 {
		return 0, fmt.Errorf("%w: %q", ErrBadCompliance, s)
	}
	return n, nil
}

// Keys lists the configured option keys in sorted order.
func (o *Options) Keys() []suppress.OptionKey {
	keys := make([]suppress.OptionKey, 0, len(o.Severities))
	for k := range o.Severities {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
