package conv

import "github.com/ardnew/metaconv/pkg"

// Predefined errors (sentinel values).
var (
	ErrUnregistered = pkg.NewError("dispatch function not registered")
	ErrNotNumeric   = pkg.NewError("inline conversion of non-numeric value")
)
