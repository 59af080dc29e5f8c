package diag

import (
	"annocheck/internal/source"
)

type Note struct {
	Span source.Span
	Msg  string
}

type FixEdit struct {
	Span    source.Span
	NewText string
}

type Fix struct {
	Title string
	Edits []FixEdit
}

type Diagnostic struct {
	Severity Severity
	Code     Code
	Category Category
	Message  string
	// Args are the message arguments in template order.
	Args    []string
	Primary source.Span
	Notes   []Note
	Fixes   []Fix
}

func New(sev Severity, code Code, primary source.Span, args ...string) Diagnostic {
	return Diagnostic{
		Severity: sev,
		Code:     code,
		Category: CategoryOf(code),
		Message:  code.Message(toAny(args)...),
		Args:     args,
		Primary:  primary,
	}
}

func (d Diagnostic) WithNote(sp source.Span, msg string) Diagnostic {
	d.Notes = append(d.Notes, Note{Span: sp, Msg: msg})
	return d
}

func (d Diagnostic) WithFix(title string, edits ...FixEdit) Diagnostic {
	d.Fixes = append(d.Fixes, Fix{Title: title, Edits: edits})
	return d
}

func toAny(args []string) []any {
	if len(args) == 0 {
		return nil
	}
	out := make([]any, len(args))
	for i, a := range args {
		out[i] = a
	}
	return out
}
