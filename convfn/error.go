package convfn

import "github.com/ardnew/metaconv/pkg"

// Predefined errors (sentinel values).
var (
	ErrDeclined   = pkg.NewError("conversion declined")
	ErrFunctionID = pkg.NewError("invalid function identifier")
	ErrArgument   = pkg.NewError("invalid argument")
	ErrDuplicate  = pkg.NewError("function already registered")
)
