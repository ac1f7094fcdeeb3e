package codegen

import (
	"context"
	"log/slog"

	"github.com/ardnew/metaconv/normalize"
	"github.com/ardnew/metaconv/registry"
)

// Build classifies every expression in src with c and registers it with
// r. Expressions are normalized in one batch before classification.
func Build(ctx context.Context, src *Source, c *registry.Classifier, r *Registry) error {
	var exprs []string

	for _, t := range src.Tables {
		for _, d := range t.Tags {
			for k := range registry.Kinds() {
				if e := d.Expr(k); e != "" {
					exprs = append(exprs, e)
				}
			}
		}
	}

	if _, err := c.NormalizeBatch(ctx, exprs); err != nil {
		return err
	}

	for _, t := range src.Tables {
		for _, d := range t.Tags {
			for k := range registry.Kinds() {
				e := d.Expr(k)
				if e == "" {
					continue
				}

				c.Classify(ctx, e, t.Module, k)

				spec, err := r.Register(normalize.Parse(e), k, e)
				if err != nil {
					return err
				}

				r.Use(spec, t.Module+"::"+d.Name+"."+k.String())
			}
		}
	}

	r.logger.DebugContext(ctx, "built tag definitions",
		slog.Int("expressions", len(exprs)),
		slog.Int("functions", r.Len()),
		slog.Any("stats", r.stats),
	)

	return nil
}
