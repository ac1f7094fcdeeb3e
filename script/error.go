package script

import "github.com/ardnew/metaconv/pkg"

// Predefined errors (sentinel values).
var (
	ErrUnterminated = pkg.NewError("unterminated token")
	ErrUnexpected   = pkg.NewError("unexpected character")
	ErrUnbalanced   = pkg.NewError("unbalanced delimiter")
)
