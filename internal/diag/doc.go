// Package diag defines the diagnostic model and the problem catalog.
//
// # Purpose
//
//   - Provide deterministic data structures for findings produced by the
//     front end and the annotation checks in internal/sema.
//   - Own the static problem catalog: every Code has a JDT-style name, a
//     Category, a message template, and optionally an irritant (see
//     internal/suppress) which makes it configurable and suppressible.
//   - Offer light-weight utilities (Reporter, Bag) that let producers emit
//     diagnostics without coupling to storage or formatting.
//
// # Catalog
//
// Codes are grouped by numeric range; the range also fixes the ID prefix:
//
//	1xxx SYN  syntax              6xxx UNN  unnecessary code
//	2xxx TYP  type                7xxx PRB  potential programming problem
//	3xxx MEM  member              8xxx NLS  externalisation
//	4xxx INT  internal            9xxx RAW  unchecked / raw
//	5xxx STY  code style
//
// A code without an irritant is mandatory: it is always an error and is never
// filtered by @SuppressWarnings. Configurable codes resolve to exactly one
// option key through their irritant; the effective severity is computed by
// internal/options.
//
// # Data model
//
// Diagnostic carries Severity, Code, Category, the rendered Message with its
// Args, the Primary span, optional Notes and optional Fixes (text edits such
// as inserting a missing @Override).
//
// Rendering lives in internal/diagfmt; FormatGoldenDiagnostics and
// FormatShortDiagnostics here are the stable single-line forms used by tests
// and by the short CLI output.
package diag
