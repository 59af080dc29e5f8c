// Package suppress implements @SuppressWarnings scoping.
//
// # Irritants
//
// An Irritant tags one family of optional diagnostics (unused private
// members, raw type references, missing serialVersionUID, ...). Every
// nameable irritant belongs to exactly one warning token; a token names a set
// of irritants. TokenIrritants and IrritantToken are exact inverses over the
// nameable irritants and "all" names their union.
//
// Some irritants are configurable through an option key but have no token
// (for example the unused-warning-token irritant itself). They can never be
// suppressed by @SuppressWarnings.
//
// # Scope stack
//
// Stack is threaded explicitly through the declaration walk of one
// compilation unit. Enter pushes a frame whose resolved set is the parent's
// set plus the frame's own tokens. Suppress answers whether an irritant is
// silenced and credits the outermost frame that declared it, so a redundant
// inner token still shows up as unused when the frame is left.
//
// A Stack is not safe for concurrent use; each unit walk owns one.
package suppress
