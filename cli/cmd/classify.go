package cmd

import (
	"context"

	"github.com/ardnew/metaconv/registry"
)

// Classify reports how expressions would be evaluated.
type Classify struct {
	Expr []string `arg:"" help:"Expressions; read from --source when omitted" name:"expr" optional:""`

	Module string `help:"Module that owns the expressions" short:"m" default:"Exif"`
	Kind   string `help:"Expression kind"                  short:"k" default:"ValueConv" enum:"ValueConv,PrintConv,Condition"`
}

// Run executes the classify command.
func (c *Classify) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	exprs := expressions(ctx, c.Expr)
	if len(exprs) == 0 {
		return ErrNoInput
	}

	kind, err := registry.ParseKind(c.Kind)
	if err != nil {
		return err
	}

	g := globalsFrom(ctx)
	cl := g.classifier()
	out := &writer{w: g.out()}

	if _, err := cl.NormalizeBatch(ctx, exprs); err != nil {
		return err
	}

	for _, e := range exprs {
		t := cl.Classify(ctx, e, c.Module, kind)

		style := builtStyle
		if t.Route == registry.RouteMissing {
			style = failedStyle
		}

		out.printf("%s\t%s\n", style.Render(t.String()), e)
	}

	return out.err
}
