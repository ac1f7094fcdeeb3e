package cmd

import (
	"context"
	"strings"

	"github.com/ardnew/metaconv/composite"
)

// Catalog lists the composite definitions.
type Catalog struct {
	Name []string `arg:"" help:"Composites to show; all when omitted" name:"name" optional:""`
}

// Run executes the catalog command.
func (c *Catalog) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	cat := composite.DefaultCatalog()

	names := c.Name
	if len(names) == 0 {
		names = cat.Names()
	}

	out := &writer{w: globalsFrom(ctx).out()}

	for _, name := range names {
		defs := cat.Lookup(name)
		if len(defs) == 0 {
			return unknown(ErrUnknownComposite, name, cat.Names())
		}

		for _, d := range defs {
			writeDefinition(out, d)
		}
	}

	return out.err
}

func writeDefinition(out *writer, d *composite.Definition) {
	out.heading(d.Name)

	for _, f := range []struct {
		label string
		names []string
	}{
		{"require", d.Require},
		{"desire", d.Desire},
		{"inhibit", d.Inhibit},
	} {
		if len(f.names) > 0 {
			out.field(f.label, strings.Join(f.names, ", "), nameStyle)
		}
	}

	if d.ValueConv != "" {
		out.field("value", d.ValueConv, hintStyle)
	}

	if d.PrintConv != "" {
		out.field("print", d.PrintConv, hintStyle)
	}
}
