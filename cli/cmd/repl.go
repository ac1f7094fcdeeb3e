package cmd

import (
	"context"

	"github.com/ardnew/metaconv/cli/cmd/repl"
	"github.com/ardnew/metaconv/composite"
	"github.com/ardnew/metaconv/convfn"
	"github.com/ardnew/metaconv/ingest"
)

// Repl evaluates expressions interactively.
type Repl struct {
	File string `arg:"" help:"JPEG/TIFF image or YAML/JSON pool document to load" name:"file" optional:"" type:"existingfile"`

	History string `help:"History file"                                          default:"${historyFile}" type:"path"`
	Make    string `help:"Camera make; defaults to the Make tag of the file"`
	Model   string `help:"Camera model; defaults to the Model tag of the file"`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	g := globalsFrom(ctx)
	cv := g.converter(g.classifier())

	var pool composite.Pool

	if r.File != "" {
		reader := ingest.New(ingest.WithConverter(cv), ingest.WithLogger(g.Logger))

		if pool, err = reader.FromFile(ctx, r.File); err != nil {
			return err
		}
	}

	return repl.Run(ctx, repl.Config{
		Converter:   cv,
		Pool:        pool,
		Context:     r.context(pool),
		HistoryPath: r.History,
		Logger:      g.Logger,
	})
}

// context returns the camera context of the session, preferring the
// flags over the Make and Model tags of pool.
func (r *Repl) context(pool composite.Pool) *convfn.Context {
	fctx := &convfn.Context{Make: r.Make, Model: r.Model}

	if e, ok := pool["Make"]; ok && fctx.Make == "" {
		fctx.Make = e.Val.Text()
	}

	if e, ok := pool["Model"]; ok && fctx.Model == "" {
		fctx.Model = e.Val.Text()
	}

	return fctx
}
