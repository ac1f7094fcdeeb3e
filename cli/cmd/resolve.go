package cmd

import (
	"context"
	"log/slog"
	"maps"
	"slices"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/metaconv/composite"
	"github.com/ardnew/metaconv/ingest"
	"github.com/ardnew/metaconv/registry"
	"github.com/ardnew/metaconv/value"
)

// Resolve builds the composite tags of image files and pool documents.
type Resolve struct {
	Files []string `arg:"" help:"JPEG/TIFF images or YAML/JSON pool documents" name:"file" type:"existingfile"`

	Tag       []string `help:"Only report the named composites"         short:"t"`
	Format    string   `help:"Output format"                            short:"o" default:"text" enum:"text,yaml,json"`
	MaxPasses int      `help:"Maximum resolution passes"                          default:"${maxPasses}"`
	Native    bool     `help:"Apply conversions through the classifier"           default:"true"           negatable:""`
	All       bool     `help:"Also report the tags read from each file" short:"a"`
}

// fileResult is the outcome of one file.
type fileResult struct {
	File         string                 `yaml:"file"`
	Tags         map[string]entryResult `yaml:"tags,omitempty"`
	Built        map[string]entryResult `yaml:"built"`
	Unresolvable map[string]missingInfo `yaml:"unresolvable,omitempty"`
	Passes       int                    `yaml:"passes"`
}

type entryResult struct {
	Val  value.Value `yaml:"val"`
	Prt  value.Value `yaml:"prt"`
	Pass int         `yaml:"pass,omitempty"`
}

type missingInfo struct {
	Missing   []string `yaml:"missing,omitempty"`
	Inhibited []string `yaml:"inhibited,omitempty"`
	Declined  bool     `yaml:"declined,omitempty"`
}

// Run executes the resolve command.
func (r *Resolve) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	g := globalsFrom(ctx)
	c := g.classifier()
	cv := g.converter(c)

	stats := composite.NewStats()
	opts := []composite.Option{
		composite.WithLogger(g.Logger),
		composite.WithMaxPasses(r.MaxPasses),
		composite.WithStats(stats),
	}
	if r.Native {
		opts = append(opts, composite.WithApplier(cv))
	}

	res := composite.NewResolver(opts...)

	if err := r.checkTags(res.Catalog()); err != nil {
		return err
	}

	reader := ingest.New(ingest.WithConverter(cv), ingest.WithLogger(g.Logger))

	var results []fileResult

	for _, file := range r.Files {
		pool, err := reader.FromFile(ctx, file)
		if err != nil {
			return err
		}

		tags := pool.Clone()

		report, err := res.Resolve(ctx, pool)
		if err != nil {
			return err
		}

		results = append(results, r.result(file, tags, report))
	}

	out := &writer{w: g.out()}

	switch r.Format {
	case "yaml", "json":
		var encOpts []yaml.EncodeOption
		if r.Format == "json" {
			encOpts = append(encOpts, yaml.JSON())
		}

		b, err := yaml.MarshalWithOptions(results, encOpts...)
		if err != nil {
			return ErrMarshal.Wrap(err).With(slog.String("format", r.Format))
		}

		out.printf("%s", b)
	default:
		for _, fr := range results {
			r.writeText(out, fr)
		}

		writeCoverage(out, stats, c.Stats())
	}

	return out.err
}

// checkTags rejects names not in the catalog.
func (r *Resolve) checkTags(cat composite.Catalog) error {
	for _, name := range r.Tag {
		if !cat.Has(name) {
			return unknown(ErrUnknownComposite, name, cat.Names())
		}
	}

	return nil
}

func (r *Resolve) wanted(name string) bool {
	return len(r.Tag) == 0 || slices.Contains(r.Tag, name)
}

func (r *Resolve) result(file string, tags composite.Pool, report *composite.Report) fileResult {
	fr := fileResult{
		File:   file,
		Built:  make(map[string]entryResult),
		Passes: report.Passes,
	}

	if r.All {
		fr.Tags = make(map[string]entryResult, len(tags))
		for name, e := range tags {
			fr.Tags[name] = entryResult{Val: e.Val, Prt: e.Prt}
		}
	}

	for _, o := range report.Built {
		if r.wanted(o.Name) {
			fr.Built[o.Name] = entryResult{Val: o.Entry.Val, Prt: o.Entry.Prt, Pass: o.Pass}
		}
	}

	for _, o := range report.Unresolvable {
		if !r.wanted(o.Name) {
			continue
		}

		if fr.Unresolvable == nil {
			fr.Unresolvable = make(map[string]missingInfo)
		}

		fr.Unresolvable[o.Name] = missingInfo{
			Missing:   o.Missing,
			Inhibited: o.Inhibited,
			Declined:  o.Declined,
		}
	}

	return fr
}

func (r *Resolve) writeText(out *writer, fr fileResult) {
	out.heading(fr.File)

	if r.All {
		for _, name := range sortedKeys(fr.Tags) {
			out.field(name, fr.Tags[name].Prt.Text(), hintStyle)
		}
	}

	for _, name := range sortedKeys(fr.Built) {
		out.field(name, fr.Built[name].Prt.Text(), builtStyle)
	}

	for _, name := range sortedKeys(fr.Unresolvable) {
		info := fr.Unresolvable[name]

		var why string

		switch {
		case len(info.Inhibited) > 0:
			why = "inhibited by " + strings.Join(info.Inhibited, ", ")
		case info.Declined:
			why = "declined"
		default:
			why = "missing " + strings.Join(info.Missing, ", ")
		}

		out.field(name, why, failedStyle)
	}
}

// writeCoverage summarizes every resolution and classification.
func writeCoverage(out *writer, rs *composite.Stats, cs *registry.Stats) {
	out.heading("Coverage")
	out.count("runs", rs.Runs())
	out.count("passes", rs.Passes())
	out.count("built", total(rs.Built()))
	out.count("unresolvable", total(rs.Unresolvable()))

	for _, route := range []registry.Route{registry.RouteInline, registry.RouteDispatch, registry.RouteMissing} {
		out.count("conversions "+route.String(), cs.Total(route))
	}

	if missing := rs.Missing(); len(missing) > 0 {
		out.heading("Missing dependencies")

		for _, m := range missing {
			out.count(m.Name, m.Count)
		}
	}
}

func sortedKeys[V any](m map[string]V) []string {
	return slices.Sorted(maps.Keys(m))
}

func total(counts []composite.Count) int {
	var n int
	for _, c := range counts {
		n += c.Count
	}

	return n
}
