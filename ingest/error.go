package ingest

import "github.com/ardnew/metaconv/pkg"

// Predefined errors (sentinel values).
var (
	ErrDecodeEXIF     = pkg.NewError("decode EXIF")
	ErrDecodeDocument = pkg.NewError("decode pool document")
	ErrOpen           = pkg.NewError("open input")
	ErrEntry          = pkg.NewError("invalid pool entry")
	ErrScalar         = pkg.NewError("invalid scalar")
)
