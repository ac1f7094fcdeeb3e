package codegen

import (
	"log/slog"

	"github.com/ardnew/metaconv/registry"
)

// Counts are the registrations of one expression kind.
type Counts struct {
	Compiled int
	Fallback int
}

// Stats counts registrations handled by generated code versus those left
// to manual dispatch. The zero value is ready to use.
type Stats struct {
	kinds map[registry.Kind]*Counts
}

// NewStats returns empty stats.
func NewStats() *Stats { return &Stats{} }

func (s *Stats) record(kind registry.Kind, compiled bool) {
	if s.kinds == nil {
		s.kinds = make(map[registry.Kind]*Counts)
	}

	c, ok := s.kinds[kind]
	if !ok {
		c = &Counts{}
		s.kinds[kind] = c
	}

	if compiled {
		c.Compiled++
	} else {
		c.Fallback++
	}
}

// Kind returns the counts for kind.
func (s *Stats) Kind(kind registry.Kind) Counts {
	if c, ok := s.kinds[kind]; ok {
		return *c
	}

	return Counts{}
}

// Total sums the counts of every kind.
func (s *Stats) Total() Counts {
	var t Counts
	for _, c := range s.kinds {
		t.Compiled += c.Compiled
		t.Fallback += c.Fallback
	}

	return t
}

// LogValue implements slog.LogValuer.
func (s *Stats) LogValue() slog.Value {
	var attrs []slog.Attr

	for k := range registry.Kinds() {
		c := s.Kind(k)
		attrs = append(attrs, slog.Group(k.String(),
			slog.Int("compiled", c.Compiled),
			slog.Int("fallback", c.Fallback),
		))
	}

	return slog.GroupValue(attrs...)
}
