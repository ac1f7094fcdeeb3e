package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/metaconv/convfn"
	"github.com/ardnew/metaconv/ingest"
	"github.com/ardnew/metaconv/interp"
	"github.com/ardnew/metaconv/value"
)

// Eval evaluates one expression with the interpreter.
type Eval struct {
	Expr string `arg:"" help:"Expression to evaluate" name:"expr"`

	Val   string   `help:"Value of $val (YAML scalar)"              short:"v"`
	Vals  []string `help:"Values of @val for a composite expression"`
	Prts  []string `help:"Values of @prt for a composite expression"`
	Make  string   `help:"Camera make in the expression context"`
	Model string   `help:"Camera model in the expression context"`
}

// Run executes the eval command.
func (e *Eval) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	fctx := &convfn.Context{Make: e.Make, Model: e.Model}

	vals, err := parseValues(e.Vals)
	if err != nil {
		return err
	}

	prts, err := parseValues(e.Prts)
	if err != nil {
		return err
	}

	f := interp.NewCompositeFrame(vals, prts, nil, fctx)

	if e.Val != "" || len(vals) == 0 {
		if f.Val, err = parseValue(e.Val); err != nil {
			return err
		}
	}

	v, err := interp.Evaluate(e.Expr, f)
	if err != nil {
		return ErrEvaluate.Wrap(err).With(slog.String("expr", e.Expr))
	}

	g := globalsFrom(ctx)
	out := &writer{w: g.out()}
	out.println(v.Text())

	g.Logger.DebugContext(ctx, "evaluated expression",
		slog.String("expr", e.Expr),
		slog.String("kind", v.Kind().String()),
	)

	return out.err
}

// parseValue reads s with [ingest.ParseScalar].
func parseValue(s string) (value.Value, error) {
	v, err := ingest.ParseScalar(s)
	if err != nil {
		return value.Empty(), ErrParseValue.Wrap(err).With(slog.String("value", s))
	}

	return v, nil
}

func parseValues(ss []string) ([]value.Value, error) {
	out := make([]value.Value, len(ss))

	for i, s := range ss {
		v, err := parseValue(s)
		if err != nil {
			return nil, err
		}

		out[i] = v
	}

	return out, nil
}
