package diag

import "strings"

// Severity defines the importance of a diagnostic.
type Severity uint8

const (
	// SevIgnore marks a problem that is computed but never emitted.
	SevIgnore Severity = iota
	// SevInfo is for informational diagnostics.
	SevInfo
	// SevWarning is for warning diagnostics.
	SevWarning
	SevError
)

func (s Severity) String() string {
	switch s {
	case SevIgnore:
		return "IGNORE"
	case SevInfo:
		return "INFO"
	case SevWarning:
		return "WARNING"
	case SevError:
		return "ERROR"
	}
	return "UNKNOWN"
}

// ParseSeverity accepts the option values ignore|info|warning|error.
func ParseSeverity(s string) (Severity, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ignore":
		return SevIgnore, true
	case "info":
		return SevInfo, true
	case "warning":
		return SevWarning, true
	case "error":
		return SevError, true
	}
	return SevIgnore, false
}
