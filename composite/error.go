package composite

import "github.com/ardnew/metaconv/pkg"

var (
	// ErrDefinition indicates an invalid composite definition.
	ErrDefinition = pkg.NewError("invalid composite definition")

	// ErrDuplicate indicates a catalog with two definitions of one name
	// where that is not allowed.
	ErrDuplicate = pkg.NewError("duplicate composite definition")
)
