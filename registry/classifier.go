package registry

import (
	"context"
	"errors"
	"log/slog"

	"github.com/ardnew/metaconv/convfn"
	"github.com/ardnew/metaconv/log"
	"github.com/ardnew/metaconv/normalize"
)

// Classifier routes expressions to inline programs or dispatch functions.
// The cache and stats it uses belong to the caller, who may share a cache
// between classifiers but should give each independent run its own stats.
type Classifier struct {
	table     *Table
	formatter Formatter
	cache     *Cache
	stats     *Stats
	logger    log.Logger
	inline    bool
}

// Option configures a [Classifier].
type Option func(*Classifier)

// WithTable sets the dispatch table. The default is [DefaultTable].
func WithTable(t *Table) Option {
	return func(c *Classifier) { c.table = t }
}

// WithFormatter sets the normalization formatter. The default is [Native].
func WithFormatter(f Formatter) Option {
	return func(c *Classifier) { c.formatter = f }
}

// WithCache sets the normalization cache.
func WithCache(cache *Cache) Option {
	return func(c *Classifier) { c.cache = cache }
}

// WithStats sets the stats accumulator.
func WithStats(s *Stats) Option {
	return func(c *Classifier) { c.stats = s }
}

// WithLogger sets the structured logger for trace-level debugging.
// If not provided, the logger is zero-valued and all logging is a no-op.
func WithLogger(logger log.Logger) Option {
	return func(c *Classifier) { c.logger = logger }
}

// WithInline enables or disables inline compilation. It is enabled by
// default; when disabled every expression goes through the table.
func WithInline(enable bool) Option {
	return func(c *Classifier) { c.inline = enable }
}

// New returns a classifier configured by opts.
func New(opts ...Option) *Classifier {
	c := &Classifier{inline: true}
	for _, opt := range opts {
		opt(c)
	}

	if c.table == nil {
		c.table = DefaultTable()
	}

	if c.formatter == nil {
		c.formatter = Native{}
	}

	if c.cache == nil {
		c.cache = NewCache()
	}

	if c.stats == nil {
		c.stats = NewStats()
	}

	return c
}

// Stats returns the stats accumulator.
func (c *Classifier) Stats() *Stats { return c.stats }

// Cache returns the normalization cache.
func (c *Classifier) Cache() *Cache { return c.cache }

// Classify decides how src, an expression of kind from module, is
// evaluated. It never fails: an expression that is neither inline nor in
// the table routes to [convfn.Missing].
func (c *Classifier) Classify(ctx context.Context, src, module string, kind Kind) Target {
	t := c.classify(ctx, src, module)
	c.stats.Record(kind, t)

	c.logger.TraceContext(ctx, "classified expression",
		slog.String("kind", kind.String()),
		slog.String("module", module),
		slog.String("source", src),
		slog.Any("target", t),
	)

	return t
}

func (c *Classifier) classify(ctx context.Context, src, module string) Target {
	if c.inline {
		if t, ok := c.compile(ctx, src); ok {
			return t
		}
	}

	if id, ok := c.Lookup(ctx, src, module); ok {
		return Target{Route: RouteDispatch, Source: src, Function: id}
	}

	return Target{Route: RouteMissing, Source: src, Function: convfn.Missing}
}

func (c *Classifier) compile(ctx context.Context, src string) (Target, bool) {
	inline, ok := InlineSource(normalize.Parse(src))
	if !ok {
		return Target{}, false
	}

	prog, err := compileInline(inline)
	if err != nil {
		c.logger.DebugContext(ctx, "inline compile failed",
			slog.String("inline", inline),
			slog.String("error", err.Error()),
		)

		return Target{}, false
	}

	return Target{Route: RouteInline, Source: src, Inline: inline, Program: prog}, true
}

// Lookup searches the table for src: module-scoped as written, unscoped
// as written, then both again with the normalized text.
func (c *Classifier) Lookup(ctx context.Context, src, module string) (convfn.FunctionID, bool) {
	if module != "" {
		if id, ok := c.table.Lookup(scope(module, src)); ok {
			return id, true
		}
	}

	if id, ok := c.table.Lookup(src); ok {
		return id, true
	}

	norm := c.Normalize(ctx, src)

	if module != "" {
		if id, ok := c.table.Lookup(scope(module, norm)); ok {
			return id, true
		}
	}

	return c.table.Lookup(norm)
}

// Normalize returns the canonical form of src. A formatter failure is
// logged and src is returned unchanged.
func (c *Classifier) Normalize(ctx context.Context, src string) string {
	if text, ok := c.cache.Get(src); ok {
		return text
	}

	text, err := c.formatter.Format(ctx, src)
	if err != nil {
		c.logger.WarnContext(ctx, "normalization failed",
			slog.String("source", src),
			slog.Any("error", err),
		)

		return src
	}

	c.cache.Put(src, text)

	return text
}

// NormalizeBatch normalizes srcs with one formatter call for all of the
// uncached ones and returns results in the same order. A batch whose
// result count does not match is a hard [ErrBatchMismatch]; any other
// formatter failure is logged and leaves the affected texts unchanged.
func (c *Classifier) NormalizeBatch(ctx context.Context, srcs []string) ([]string, error) {
	var (
		pending []string
		seen    = make(map[string]bool)
	)

	for _, src := range srcs {
		if _, ok := c.cache.Get(src); !ok && !seen[src] {
			seen[src] = true
			pending = append(pending, src)
		}
	}

	switch len(pending) {
	case 0:
	case 1:
		c.Normalize(ctx, pending[0])
	default:
		texts, err := c.formatter.FormatBatch(ctx, pending)
		if err == nil && len(texts) != len(pending) {
			err = ErrBatchMismatch.With(
				slog.Int("inputs", len(pending)),
				slog.Int("outputs", len(texts)),
			)
		}

		switch {
		case errors.Is(err, ErrBatchMismatch):
			return nil, err
		case err != nil:
			c.logger.WarnContext(ctx, "batch normalization failed",
				slog.Int("count", len(pending)),
				slog.Any("error", err),
			)
		default:
			for i, src := range pending {
				c.cache.Put(src, texts[i])
			}
		}

		c.logger.TraceContext(ctx, "normalized batch",
			slog.Int("count", len(pending)),
			slog.Bool("ok", err == nil),
		)
	}

	out := make([]string, len(srcs))
	for i, src := range srcs {
		if text, ok := c.cache.Get(src); ok {
			out[i] = text
		} else {
			out[i] = src
		}
	}

	return out, nil
}
