package ingest

import (
	"bytes"
	"context"
	_ "embed"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/ardnew/metaconv/codegen"
	"github.com/ardnew/metaconv/composite"
	"github.com/ardnew/metaconv/conv"
	"github.com/ardnew/metaconv/convfn"
	"github.com/ardnew/metaconv/log"
	"github.com/ardnew/metaconv/pkg"
	"github.com/ardnew/metaconv/value"
)

//go:embed tags.yaml
var defaultTags []byte

// DefaultDefinitions returns the built-in tag conversions.
var DefaultDefinitions = sync.OnceValue(func() *codegen.Source {
	src, err := codegen.Load(bytes.NewReader(defaultTags), codegen.FormatYAML)
	if err != nil {
		panic(err)
	}

	return src
})

// Reader builds tag pools.
type Reader struct {
	converter *conv.Converter
	defs      map[string]codegen.TagDef
	logger    log.Logger
}

// Option configures a [Reader].
type Option func(*Reader)

// WithConverter sets the converter applied to extracted tags.
func WithConverter(c *conv.Converter) Option {
	return func(r *Reader) { r.converter = c }
}

// WithDefinitions adds tag conversions, replacing built-in ones of the
// same module and name.
func WithDefinitions(src *codegen.Source) Option {
	return func(r *Reader) { r.add(src) }
}

// WithLogger sets the structured logger for trace-level debugging.
// If not provided, the logger is zero-valued and all logging is a no-op.
func WithLogger(logger log.Logger) Option {
	return func(r *Reader) { r.logger = logger }
}

// New returns a reader configured by opts.
func New(opts ...Option) *Reader {
	r := &Reader{defs: make(map[string]codegen.TagDef)}
	r.add(DefaultDefinitions())

	for _, opt := range opts {
		opt(r)
	}

	if r.converter == nil {
		r.converter = conv.New(conv.WithLogger(r.logger))
	}

	return r
}

func (r *Reader) add(src *codegen.Source) {
	if src == nil {
		return
	}

	for _, t := range src.Tables {
		for _, d := range t.Tags {
			r.defs[defKey(t.Module, d.Name)] = d
		}
	}
}

func defKey(module, name string) string { return module + convfn.ModuleSeparator + name }

// Definition returns the conversions of module's tag name.
func (r *Reader) Definition(module, name string) (codegen.TagDef, bool) {
	d, ok := r.defs[defKey(module, name)]

	return d, ok
}

// FromFile reads a pool from path. Files named .yaml, .yml, or .json
// are pool documents; anything else is decoded as EXIF.
func (r *Reader) FromFile(ctx context.Context, path string) (composite.Pool, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, ErrOpen.Wrap(err).With(slog.String("path", path))
	}
	defer f.Close()

	var pool composite.Pool

	if format, ok := DocumentFormatOf(path); ok {
		pool, err = r.FromDocument(ctx, f, format)
	} else {
		pool, err = r.FromEXIF(ctx, f)
	}

	if err != nil {
		return nil, pkg.WrapError(err).With(slog.String("path", path))
	}

	return pool, nil
}

// convert applies the definition of module's tag name to raw.
func (r *Reader) convert(ctx context.Context, module, name string, raw value.Value, fctx *convfn.Context) composite.Entry {
	d, ok := r.Definition(module, name)
	if !ok {
		return composite.Entry{Raw: raw, Val: raw, Prt: raw}
	}

	if !r.converter.Condition(ctx, module, d.Condition, raw, fctx) {
		r.logger.TraceContext(ctx, "condition excludes conversion",
			slog.String("module", module),
			slog.String("tag", name),
		)

		return composite.Entry{Raw: raw, Val: raw, Prt: raw}
	}

	return r.converter.Tag(ctx, module, d.ValueConv, d.PrintConv, raw, fctx)
}

// DocumentFormatOf reports the document format implied by a file
// extension.
func DocumentFormatOf(path string) (DocumentFormat, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, true
	case ".json":
		return FormatJSON, true
	}

	return "", false
}
