package cmd

import (
	"context"

	"github.com/ardnew/metaconv/normalize"
)

// Normalize prints the canonical form of expressions.
type Normalize struct {
	Expr []string `arg:"" help:"Expressions; read from --source when omitted" name:"expr" optional:""`

	Tree bool `help:"Print the expression tree instead" short:"T"`
}

// Run executes the normalize command.
func (n *Normalize) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	exprs := expressions(ctx, n.Expr)
	if len(exprs) == 0 {
		return ErrNoInput
	}

	g := globalsFrom(ctx)
	out := &writer{w: g.out()}

	if n.Tree {
		for _, e := range exprs {
			out.println(normalize.Tree(normalize.Parse(e)))
		}

		return out.err
	}

	canon, err := g.classifier().NormalizeBatch(ctx, exprs)
	if err != nil {
		return err
	}

	for _, c := range canon {
		out.println(c)
	}

	return out.err
}
