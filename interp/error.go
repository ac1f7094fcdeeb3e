package interp

import "github.com/ardnew/metaconv/pkg"

// Predefined errors (sentinel values).
var (
	ErrUnsupported       = pkg.NewError("unsupported expression")
	ErrDivideByZero      = pkg.NewError("illegal division by zero")
	ErrDomain            = pkg.NewError("argument out of domain")
	ErrUndefinedFunction = pkg.NewError("undefined function")
	ErrPattern           = pkg.NewError("invalid pattern")
	ErrAssign            = pkg.NewError("cannot assign")
)
