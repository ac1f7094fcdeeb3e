// Package normalize rewrites generic [script.Token] runs into a canonical
// operator tree by precedence climbing.
//
// The canonical tree is a tagged union of [Node] implementations: binary
// and ternary operations, guarded divisions, unary operations, function
// calls, expression lists, and leaves. A run that cannot be folded is
// returned unmodified as a [*Statement]; normalization never fails.
//
// Rendering a tree with its String method produces canonical text with
// minimal parentheses and single spaces around operators, such that
//
//	Text(Text(src)) == Text(src)
//
// for every input.
package normalize
