package registry

import "github.com/ardnew/metaconv/pkg"

var (
	// ErrBatchMismatch indicates a batch formatter returned a different
	// number of results than it was given.
	ErrBatchMismatch = pkg.NewError("batch normalization count mismatch")

	// ErrFormatter indicates the formatting tool could not run or failed.
	ErrFormatter = pkg.NewError("formatter failed")

	// ErrInline indicates an inline program failed or produced a
	// non-finite result.
	ErrInline = pkg.NewError("inline evaluation failed")

	// ErrKind indicates an unrecognized expression kind name.
	ErrKind = pkg.NewError("unknown expression kind")
)
