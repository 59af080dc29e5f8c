// Package javasrc turns Java source files into ast.CompilationUnit trees.
//
// Parsing is delegated to the tree-sitter Java grammar. The converter keeps
// only what the annotation checks need: declarations, their annotations and
// modifiers, constant expressions, local variables, Javadoc @deprecated tags,
// identifier usage for the unused-declaration lints, and the string literals
// of the unit together with their //$NON-NLS-n$ tags.
//
// Syntax errors found by the grammar are reported as mandatory diagnostics
// and counted in CompilationUnit.SyntaxErrors; the rest of the tree is still
// converted.
package javasrc
