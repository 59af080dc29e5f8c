// Package ast is the declaration tree the annotation checks consume.
//
// The tree is deliberately shallow: it keeps every declaration that can carry
// annotations (types, fields, methods, parameters, local variables, type
// parameters, enum constants) and the constant-expression subset needed for
// annotation values and static final initializers. Method bodies are reduced
// to their local declarations and the names they reference.
//
// Front ends (internal/javasrc) build it; internal/sema only reads it, except
// for the Enclosing back-links which Link fills in.
package ast
