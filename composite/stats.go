package composite

import (
	"cmp"
	"log/slog"
	"maps"
	"slices"
	"sync"
)

// Count pairs a name with a number of occurrences.
type Count struct {
	Name  string
	Count int
}

// Stats accumulates reports across resolution runs. The zero value is
// ready to use. It is safe for concurrent use, so runs on separate pools
// may share one.
type Stats struct {
	mu sync.Mutex

	runs, passes int
	built        map[string]int
	unresolvable map[string]int
	missing      map[string]int
}

// NewStats returns an empty accumulator.
func NewStats() *Stats { return &Stats{} }

// Add records r.
func (s *Stats) Add(r *Report) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.built == nil {
		s.built = make(map[string]int)
		s.unresolvable = make(map[string]int)
		s.missing = make(map[string]int)
	}

	s.runs++
	s.passes += r.Passes

	for _, o := range r.Built {
		s.built[o.Name]++
	}

	for _, o := range r.Unresolvable {
		s.unresolvable[o.Name]++

		for _, m := range o.Missing {
			s.missing[m]++
		}
	}
}

// Runs returns the number of reports added.
func (s *Stats) Runs() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.runs
}

// Passes returns the total number of passes over all runs.
func (s *Stats) Passes() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.passes
}

// Built returns the composites built, most frequent first.
func (s *Stats) Built() []Count { return s.sorted(func() map[string]int { return s.built }) }

// Unresolvable returns the composites left unresolvable, most frequent
// first.
func (s *Stats) Unresolvable() []Count {
	return s.sorted(func() map[string]int { return s.unresolvable })
}

// Missing returns the dependencies reported missing, most frequent first.
func (s *Stats) Missing() []Count { return s.sorted(func() map[string]int { return s.missing }) }

// sorted ranks the counts of the map field selects, read under the lock.
func (s *Stats) sorted(field func() map[string]int) []Count {
	s.mu.Lock()
	defer s.mu.Unlock()

	m := field()

	out := make([]Count, 0, len(m))
	for _, k := range slices.Sorted(maps.Keys(m)) {
		out = append(out, Count{Name: k, Count: m[k]})
	}

	slices.SortStableFunc(out, func(a, b Count) int { return cmp.Compare(b.Count, a.Count) })

	return out
}

// LogValue implements slog.LogValuer.
func (s *Stats) LogValue() slog.Value {
	s.mu.Lock()
	defer s.mu.Unlock()

	return slog.GroupValue(
		slog.Int("runs", s.runs),
		slog.Int("passes", s.passes),
		slog.Int("built", total(s.built)),
		slog.Int("unresolvable", total(s.unresolvable)),
	)
}

func total(m map[string]int) int {
	n := 0
	for _, v := range m {
		n += v
	}

	return n
}
