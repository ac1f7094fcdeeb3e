package codegen

import "github.com/ardnew/metaconv/pkg"

var (
	// ErrNameCollision indicates two distinct expressions hashed to the
	// same function name.
	ErrNameCollision = pkg.NewError("function name collision")

	// ErrFormat indicates generated source failed to format.
	ErrFormat = pkg.NewError("generated source does not format")

	// ErrReadSource indicates a tag definition source could not be read.
	ErrReadSource = pkg.NewError("read tag definitions")

	// ErrDecodeSource indicates a tag definition source is malformed.
	ErrDecodeSource = pkg.NewError("decode tag definitions")

	// ErrSourceFormat indicates an unrecognized tag definition format.
	ErrSourceFormat = pkg.NewError("unknown tag definition format")
)
