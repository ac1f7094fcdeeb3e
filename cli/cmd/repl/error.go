package repl

import "github.com/ardnew/metaconv/pkg"

// Sentinel errors.
var (
	ErrOutOfBounds    = pkg.NewError("history index out of range")
	ErrUnknownCommand = pkg.NewError("unknown command (try 'help')")
	ErrUnknownTag     = pkg.NewError("unknown tag")
	ErrUsage          = pkg.NewError("usage")
	ErrNoPool         = pkg.NewError("no pool loaded")
)
