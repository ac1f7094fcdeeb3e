package composite

import (
	"context"
	"log/slog"
	"maps"
	"slices"
	"strings"

	"github.com/ardnew/metaconv/convfn"
	"github.com/ardnew/metaconv/log"
	"github.com/ardnew/metaconv/value"
)

// DefaultMaxPasses bounds the passes of one resolution.
const DefaultMaxPasses = 10

// CompositeGroup is the group of built composites in the pool.
const CompositeGroup = "Composite"

// Prefixes are the groups tried, in order, for a bare dependency name
// that is not in the pool as written.
var Prefixes = []string{"EXIF", "GPS", "MakerNotes", CompositeGroup}

// Resolver builds composites into a pool. A Resolver holds no per-run
// state and may run concurrently on distinct pools when its [Applier] is
// safe for concurrent use. The [Evaluator] and conv.Converter are.
type Resolver struct {
	catalog   Catalog
	applier   Applier
	hooks     map[string]Hook
	stats     *Stats
	logger    log.Logger
	maxPasses int
}

// Option configures a [Resolver].
type Option func(*Resolver)

// WithCatalog sets the definitions to resolve. The default is
// [DefaultCatalog].
func WithCatalog(c Catalog) Option {
	return func(r *Resolver) { r.catalog = c }
}

// WithApplier sets the conversion layer. The default is an [Evaluator]
// over [convfn.Default].
func WithApplier(a Applier) Option {
	return func(r *Resolver) { r.applier = a }
}

// WithHook adds or replaces the hook for name. A nil hook removes it.
func WithHook(name string, h Hook) Option {
	return func(r *Resolver) {
		if h == nil {
			delete(r.hooks, name)

			return
		}

		r.hooks[name] = h
	}
}

// WithStats sets an accumulator that receives every report.
func WithStats(s *Stats) Option {
	return func(r *Resolver) { r.stats = s }
}

// WithLogger sets the structured logger for trace-level debugging.
// If not provided, the logger is zero-valued and all logging is a no-op.
func WithLogger(logger log.Logger) Option {
	return func(r *Resolver) { r.logger = logger }
}

// WithMaxPasses bounds the number of passes. Values below one select
// [DefaultMaxPasses].
func WithMaxPasses(n int) Option {
	return func(r *Resolver) { r.maxPasses = n }
}

// NewResolver returns a resolver configured by opts.
func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{hooks: DefaultHooks()}
	for _, opt := range opts {
		opt(r)
	}

	if r.catalog == nil {
		r.catalog = DefaultCatalog()
	}

	if r.applier == nil {
		r.applier = &Evaluator{}
	}

	if r.maxPasses < 1 {
		r.maxPasses = DefaultMaxPasses
	}

	return r
}

// Catalog returns the definitions the resolver builds.
func (r *Resolver) Catalog() Catalog { return r.catalog }

// Resolve builds every composite it can into pool and reports the
// outcome of each definition. Missing data is reported, never returned
// as an error; the error is non-nil only for an invalid catalog.
func (r *Resolver) Resolve(ctx context.Context, pool Pool) (*Report, error) {
	if err := r.catalog.Validate(); err != nil {
		return nil, err
	}

	rs := &resolution{
		Resolver: r,
		pool:     pool,
		built:    make(map[string]bool),
		outcomes: make([]Outcome, len(r.catalog)),
		report:   &Report{},
	}
	rs.context = rs.fileContext()

	pending := make([]int, len(r.catalog))
	for i, d := range r.catalog {
		pending[i] = i
		rs.outcomes[i] = Outcome{Name: d.Name, State: Pending}
	}

	for pass := 1; pass <= r.maxPasses && len(pending) > 0; pass++ {
		rs.report.Passes = pass

		var (
			next     []int
			progress bool
			waited   bool
		)

		for _, i := range pending {
			if rs.built[r.catalog[i].Name] {
				continue
			}

			switch rs.attempt(ctx, i, pass) {
			case Built:
				progress = true
			case Pending:
				waited = true
				next = append(next, i)
			default:
				next = append(next, i)
			}
		}

		pending = rs.unbuilt(next)

		r.logger.TraceContext(ctx, "composite pass",
			slog.Int("pass", pass),
			slog.Bool("progress", progress),
			slog.Bool("relaxed", rs.relaxed),
			slog.Int("pending", len(pending)),
		)

		if len(pending) == 0 || progress {
			continue
		}

		if waited && !rs.relaxed {
			rs.relaxed = true
			rs.report.Relaxed = true

			continue
		}

		break
	}

	for _, i := range rs.unbuilt(pending) {
		o := rs.outcomes[i]
		o.State = Unresolvable
		o.Missing = rs.missing(r.catalog[i])
		rs.report.Unresolvable = append(rs.report.Unresolvable, o)

		r.logger.DebugContext(ctx, "composite unresolvable", slog.Any("outcome", o))
	}

	if r.stats != nil {
		r.stats.Add(rs.report)
	}

	return rs.report, nil
}

// resolution is the state of one [Resolver.Resolve] call.
type resolution struct {
	*Resolver

	pool     Pool
	context  *convfn.Context
	built    map[string]bool
	outcomes []Outcome
	report   *Report
	relaxed  bool
}

// attempt tries definition i once. It returns Built on success, Pending
// when the definition waited on another composite, and Deferred
// otherwise.
func (rs *resolution) attempt(ctx context.Context, i, pass int) State {
	def := rs.catalog[i]
	o := &rs.outcomes[i]
	o.Pass = pass
	o.Inhibited, o.Waiting, o.Declined = nil, nil, false

	if o.Inhibited = rs.present(def.Inhibit); len(o.Inhibited) > 0 {
		return rs.postpone(ctx, o, Deferred, "inhibited")
	}

	if !rs.relaxed {
		if o.Waiting = rs.waiting(def); len(o.Waiting) > 0 {
			return rs.postpone(ctx, o, Pending, "waiting")
		}
	}

	if !rs.satisfied(def) {
		return rs.postpone(ctx, o, Deferred, "unsatisfied")
	}

	in := rs.input(def)

	val, prt, err := rs.applier.Apply(ctx, def, in)
	if err == nil && val.IsEmpty() {
		err = convfn.ErrDeclined
	}

	if err != nil {
		o.State, o.Declined = Deferred, true

		rs.logger.TraceContext(ctx, "composite declined",
			slog.String("name", def.Name),
			slog.Int("pass", pass),
			slog.Any("error", err),
		)

		return Deferred
	}

	e := Computed(val, prt)
	rs.pool.Set(Group(CompositeGroup, def.Name), e)
	rs.pool.Set(def.Name, e)
	rs.built[def.Name] = true

	o.State, o.Entry = Built, e
	rs.report.Built = append(rs.report.Built, *o)

	rs.logger.TraceContext(ctx, "composite built",
		slog.String("name", def.Name),
		slog.Int("pass", pass),
		slog.Any("entry", e),
	)

	return Built
}

func (rs *resolution) postpone(ctx context.Context, o *Outcome, s State, why string) State {
	o.State = Deferred

	rs.logger.TraceContext(ctx, "composite deferred",
		slog.String("name", o.Name),
		slog.Int("pass", o.Pass),
		slog.String("reason", why),
	)

	return s
}

// unbuilt drops definitions whose name some sibling has built.
func (rs *resolution) unbuilt(idx []int) []int {
	return slices.DeleteFunc(idx, func(i int) bool { return rs.built[rs.catalog[i].Name] })
}

// waiting returns the dependencies of def that name another catalog
// composite not yet built.
func (rs *resolution) waiting(def *Definition) []string {
	var out []string

	for _, dep := range def.Deps() {
		name := strings.TrimPrefix(dep, CompositeGroup+GroupSeparator)
		if g, _ := SplitName(name); g != "" {
			continue
		}

		if name == def.Name || rs.built[name] || !rs.catalog.Has(name) {
			continue
		}

		out = append(out, name)
	}

	return out
}

func (rs *resolution) satisfied(def *Definition) bool {
	if len(def.Require) > 0 {
		for _, name := range def.Require {
			if _, ok := rs.lookup(name); !ok {
				return false
			}
		}

		return true
	}

	return slices.ContainsFunc(def.Desire, func(name string) bool {
		_, ok := rs.lookup(name)

		return ok
	})
}

// missing lists the absent dependencies of def.
func (rs *resolution) missing(def *Definition) []string {
	names := def.Require
	if len(names) == 0 {
		names = def.Desire
	}

	var out []string

	for _, name := range names {
		if _, ok := rs.lookup(name); !ok {
			out = append(out, name)
		}
	}

	return out
}

// present returns the names that resolve.
func (rs *resolution) present(names []string) []string {
	var out []string

	for _, name := range names {
		if _, ok := rs.lookup(name); ok {
			out = append(out, name)
		}
	}

	return out
}

// input resolves the positional dependency arrays of def. Absent
// dependencies are empty in all three.
func (rs *resolution) input(def *Definition) Input {
	deps := def.Deps()
	in := Input{
		Vals:    make([]value.Value, len(deps)),
		Prts:    make([]value.Value, len(deps)),
		Raws:    make([]value.Value, len(deps)),
		Context: rs.context,
	}

	for i, name := range deps {
		if e, ok := rs.lookup(name); ok {
			in.Raws[i], in.Vals[i], in.Prts[i] = e.Raw, e.Val, e.Prt
		}
	}

	return in
}

// lookup resolves a dependency name. A composite built in this run is
// found under its group first; then the pool is searched as described
// by [resolution.find]; finally the hook for the name, if any, runs.
func (rs *resolution) lookup(name string) (Entry, bool) {
	if rs.built[name] {
		if e, ok := rs.get(Group(CompositeGroup, name)); ok {
			return e, true
		}
	}

	if e, ok := rs.find(name); ok {
		return e, true
	}

	if h, ok := rs.hooks[name]; ok {
		return h(name, rs.find)
	}

	return Entry{}, false
}

// find looks name up as written, then under each of [Prefixes] when it
// is bare. GPS and EXIF qualified names stand in for each other.
func (rs *resolution) find(name string) (Entry, bool) {
	if e, ok := rs.get(name); ok {
		return e, true
	}

	group, tag := SplitName(name)

	switch group {
	case "":
		for _, p := range Prefixes {
			if e, ok := rs.get(Group(p, name)); ok {
				return e, true
			}
		}
	case "GPS":
		return rs.get(Group("EXIF", tag))
	case "EXIF":
		return rs.get(Group("GPS", tag))
	}

	return Entry{}, false
}

func (rs *resolution) get(name string) (Entry, bool) {
	e, ok := rs.pool[name]
	if !ok || e.IsEmpty() {
		return Entry{}, false
	}

	return e, true
}

// fileContext reads the per-file facts conversions consult.
func (rs *resolution) fileContext() *convfn.Context {
	text := func(name string) string {
		if e, ok := rs.find(name); ok {
			return strings.TrimSpace(e.Val.Text())
		}

		return ""
	}

	return &convfn.Context{
		Make:     text("Make"),
		Model:    text("Model"),
		FileType: text("FileType"),
	}
}

// Names returns the names of every composite in the pool's group, in
// sorted order.
func Names(p Pool) []string {
	prefix := CompositeGroup + GroupSeparator

	var out []string

	for _, k := range slices.Sorted(maps.Keys(p)) {
		if name, ok := strings.CutPrefix(k, prefix); ok {
			out = append(out, name)
		}
	}

	return out
}
