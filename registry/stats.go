package registry

import (
	"cmp"
	"log/slog"
	"maps"
	"slices"
	"sync"
)

// Stats counts classification outcomes per expression kind and the
// expressions that had no implementation. The zero value is ready to use,
// and Stats is safe for concurrent use.
type Stats struct {
	mu      sync.Mutex
	counts  [numKinds][numRoutes]int
	missing map[string]int
}

// NewStats returns empty stats.
func NewStats() *Stats { return &Stats{} }

// Record counts t as an outcome for kind.
func (s *Stats) Record(kind Kind, t Target) {
	if kind < 0 || kind >= numKinds || t.Route < 0 || t.Route >= numRoutes {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.counts[kind][t.Route]++

	if t.Route == RouteMissing {
		if s.missing == nil {
			s.missing = make(map[string]int)
		}

		s.missing[t.Source]++
	}
}

// Count returns how many expressions of kind took route r.
func (s *Stats) Count(kind Kind, r Route) int {
	if kind < 0 || kind >= numKinds || r < 0 || r >= numRoutes {
		return 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.counts[kind][r]
}

// Total returns how many expressions of any kind took route r.
func (s *Stats) Total(r Route) int {
	n := 0
	for k := range Kinds() {
		n += s.Count(k, r)
	}

	return n
}

// Add accumulates o into s.
func (s *Stats) Add(o *Stats) {
	o.mu.Lock()
	counts := o.counts
	missing := maps.Clone(o.missing)
	o.mu.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	for k := range numKinds {
		for r := range numRoutes {
			s.counts[k][r] += counts[k][r]
		}
	}

	for src, n := range missing {
		if s.missing == nil {
			s.missing = make(map[string]int)
		}

		s.missing[src] += n
	}
}

// MissingExpr is an expression without an implementation and the number
// of times it was classified.
type MissingExpr struct {
	Source string
	Count  int
}

// Missing returns the unimplemented expressions, most frequent first.
func (s *Stats) Missing() []MissingExpr {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]MissingExpr, 0, len(s.missing))
	for _, src := range slices.Sorted(maps.Keys(s.missing)) {
		out = append(out, MissingExpr{Source: src, Count: s.missing[src]})
	}

	slices.SortStableFunc(out, func(a, b MissingExpr) int {
		return cmp.Compare(b.Count, a.Count)
	})

	return out
}

// LogValue implements slog.LogValuer.
func (s *Stats) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, numKinds)

	for k := range Kinds() {
		attrs = append(attrs, slog.Group(k.String(),
			slog.Int(RouteInline.String(), s.Count(k, RouteInline)),
			slog.Int(RouteDispatch.String(), s.Count(k, RouteDispatch)),
			slog.Int(RouteMissing.String(), s.Count(k, RouteMissing)),
		))
	}

	return slog.GroupValue(attrs...)
}
