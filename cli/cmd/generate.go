package cmd

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ardnew/metaconv/codegen"
	"github.com/ardnew/metaconv/registry"
)

// defaultFileMode is the permission mode of generated files.
const defaultFileMode os.FileMode = 0o644

// Generate compiles tag definition expressions to Go source.
type Generate struct {
	Sources []string `arg:"" help:"Tag definition files (.yaml, .yml, .toml)" name:"source" type:"existingfile"`

	Output  string `help:"Output root directory"                short:"O" default:"."  type:"path"`
	Dir     string `help:"Directory of generated files in root"           default:"${generateDir}"`
	Package string `help:"Package name of generated files"                default:"${generatePackage}"`
	DryRun  bool   `help:"List generated files without writing"  short:"n"`
}

// Run executes the generate command.
func (gen *Generate) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	g := globalsFrom(ctx)
	c := g.classifier()
	reg := codegen.NewRegistry(codegen.WithLogger(g.Logger))

	for _, path := range gen.Sources {
		src, err := codegen.LoadFile(path)
		if err != nil {
			return err
		}

		if err := codegen.Build(ctx, src, c, reg); err != nil {
			return err
		}
	}

	files, err := reg.Generate(codegen.Layout{Dir: gen.Dir, Package: gen.Package})
	if err != nil {
		return err
	}

	out := &writer{w: g.out()}

	for _, f := range files {
		path := filepath.Join(gen.Output, filepath.FromSlash(f.Path))

		if !gen.DryRun {
			if err := writeFile(path, f.Content); err != nil {
				return err
			}
		}

		out.println(path)
	}

	writeGenerated(out, reg.Stats(), c.Stats())

	g.Logger.DebugContext(ctx, "generated functions",
		slog.Int("files", len(files)),
		slog.Int("functions", reg.Len()),
		slog.Any("classifier", c.Stats()),
	)

	return out.err
}

func writeFile(path string, content []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return ErrWriteGenerated.Wrap(err).With(slog.String("path", path))
	}

	if err := os.WriteFile(path, content, defaultFileMode); err != nil {
		return ErrWriteGenerated.Wrap(err).With(slog.String("path", path))
	}

	return nil
}

// writeGenerated summarizes compiled and fallback functions per kind and
// the expressions left without an implementation.
func writeGenerated(out *writer, gs *codegen.Stats, cs *registry.Stats) {
	out.heading("Functions")

	for k := range registry.Kinds() {
		n := gs.Kind(k)
		out.count(k.String()+" compiled", n.Compiled)
		out.count(k.String()+" fallback", n.Fallback)
	}

	if missing := cs.Missing(); len(missing) > 0 {
		out.heading("Missing conversions")

		for _, m := range missing {
			out.count(m.Source, m.Count)
		}
	}
}
