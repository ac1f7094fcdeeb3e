package codegen

import (
	"cmp"
	"fmt"
	"log/slog"
	"maps"
	"slices"

	"github.com/zeebo/xxh3"

	"github.com/ardnew/metaconv/log"
	"github.com/ardnew/metaconv/normalize"
	"github.com/ardnew/metaconv/registry"
)

// FunctionSpec describes one generated function.
type FunctionSpec struct {
	// Name is the Go identifier, "fn_" and sixteen hex digits.
	Name string
	// Canonical is the canonical text of the normalized expression.
	Canonical string
	// Originals are the distinct source texts registered for it.
	Originals []string
	// Kinds are the expression kinds it was registered as.
	Kinds []registry.Kind
	// Uses are the tags that reference it, as "Module::Tag.Kind".
	Uses []string
	// Body is the Go return expression, empty when the tree could not be
	// compiled.
	Body string
	// Imports are the packages Body refers to.
	Imports []string
}

// Compiled reports whether the function has a generated body.
func (s *FunctionSpec) Compiled() bool { return s.Body != "" }

// Bucket is the hash prefix that selects the generated file.
func (s *FunctionSpec) Bucket() string { return s.Name[3:5] }

// Registry deduplicates expressions into function specs.
type Registry struct {
	specs  map[string]*FunctionSpec // by canonical text
	names  map[string]string        // name -> canonical text
	stats  *Stats
	hash   func(string) uint64
	logger log.Logger
}

// Option configures a [Registry].
type Option func(*Registry)

// WithStats sets the stats accumulator.
func WithStats(s *Stats) Option {
	return func(r *Registry) { r.stats = s }
}

// WithLogger sets the structured logger for trace-level debugging.
func WithLogger(logger log.Logger) Option {
	return func(r *Registry) { r.logger = logger }
}

// WithHash replaces the xxh3 name hash.
func WithHash(hash func(string) uint64) Option {
	return func(r *Registry) { r.hash = hash }
}

// NewRegistry returns an empty registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		specs: make(map[string]*FunctionSpec),
		names: make(map[string]string),
		hash:  xxh3.HashString,
	}

	for _, opt := range opts {
		opt(r)
	}

	if r.stats == nil {
		r.stats = NewStats()
	}

	return r
}

// Stats returns the stats accumulator.
func (r *Registry) Stats() *Stats { return r.stats }

// FunctionName returns the name of the function generated for canonical.
func (r *Registry) FunctionName(canonical string) string {
	return fmt.Sprintf("fn_%016x", r.hash(canonical))
}

// Register returns the spec for n, creating it on first sight of its
// canonical text. original is the source text as written.
func (r *Registry) Register(n normalize.Node, kind registry.Kind, original string) (*FunctionSpec, error) {
	canonical := n.String()

	spec, ok := r.specs[canonical]
	if !ok {
		name := r.FunctionName(canonical)
		if prev, taken := r.names[name]; taken {
			return nil, ErrNameCollision.With(
				slog.String("name", name),
				slog.String("expression", canonical),
				slog.String("existing", prev),
			)
		}

		spec = &FunctionSpec{Name: name, Canonical: canonical}
		if body, imports, ok := Compile(n); ok {
			spec.Body, spec.Imports = body, imports
		}

		r.specs[canonical] = spec
		r.names[name] = canonical

		r.logger.Trace("registered function",
			slog.String("name", name),
			slog.String("expression", canonical),
			slog.Bool("compiled", spec.Compiled()),
		)
	}

	if !slices.Contains(spec.Originals, original) {
		spec.Originals = append(spec.Originals, original)
	}

	if !slices.Contains(spec.Kinds, kind) {
		spec.Kinds = append(spec.Kinds, kind)
		slices.Sort(spec.Kinds)
	}

	r.stats.record(kind, spec.Compiled())

	return spec, nil
}

// Use records that tag uses spec.
func (r *Registry) Use(spec *FunctionSpec, tag string) {
	if !slices.Contains(spec.Uses, tag) {
		spec.Uses = append(spec.Uses, tag)
	}
}

// Specs returns every spec in name order.
func (r *Registry) Specs() []*FunctionSpec {
	out := slices.Collect(maps.Values(r.specs))
	slices.SortFunc(out, func(a, b *FunctionSpec) int { return cmp.Compare(a.Name, b.Name) })

	return out
}

// Len returns the number of distinct functions.
func (r *Registry) Len() int { return len(r.specs) }
