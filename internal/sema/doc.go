// Package sema validates annotation type declarations and annotation
// usages, and runs the declaration checks whose problems can be silenced
// with @SuppressWarnings.
//
// A compile run first registers every annotation type with
// RegisterAnnotationTypes, single-threaded. Units are then checked with
// Check, which is safe to call concurrently for distinct units: each
// call owns its suppression stack, constant evaluator and diagnostics.
package sema
