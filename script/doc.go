// Package script models conversion expressions as a generic token tree.
//
// Conversion expressions are short snippets in a Perl-like scripting
// language: `$val / 8`, `sprintf("%.1f", $val)`, `$val =~ s/\0+$//; $val`.
// [Tokenize] splits such a snippet into a tree of [Token] values, one per
// lexical element, with bracketed groups nested as children of a
// [ClassList] token. Whitespace and comments are kept as tokens so the
// original text can be reconstructed; consumers skip them with
// [Significant].
//
// The token tree is the input of package normalize, which rewrites it into
// a canonical operator tree.
package script
