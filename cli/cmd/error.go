package cmd

import "github.com/ardnew/metaconv/pkg"

var (
	ErrWriteConfig      = pkg.NewError("write configuration file")
	ErrFileExists       = pkg.NewError("file exists (use --force to overwrite)")
	ErrMarshal          = pkg.NewError("marshal output")
	ErrNoInput          = pkg.NewError("no input")
	ErrUnknownComposite = pkg.NewError("unknown composite")
	ErrParseValue       = pkg.NewError("parse value")
	ErrEvaluate         = pkg.NewError("evaluate expression")
	ErrWriteGenerated   = pkg.NewError("write generated file")
)
