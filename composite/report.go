package composite

//go:generate go tool stringer --linecomment --type State --output state_string.go

import "log/slog"

// State is the resolution state of one definition.
type State uint8

const (
	Pending State = iota // pending
	Deferred             // deferred
	Built                // built
	Unresolvable         // unresolvable
)

// Outcome is the final state of one definition.
type Outcome struct {
	Name  string
	State State
	// Pass is the pass that built the composite, or the last pass that
	// attempted it.
	Pass int

	// Missing lists the dependencies that could not be found. For a
	// definition with required names these are the absent required
	// names; otherwise every desired name.
	Missing []string
	// Inhibited lists the present tags that blocked the definition.
	Inhibited []string
	// Waiting lists the pending composites the definition waited on in
	// its last attempt.
	Waiting []string
	// Declined is set when the last attempt had its dependencies but the
	// conversion produced nothing.
	Declined bool

	Entry Entry
}

// LogValue implements slog.LogValuer.
func (o Outcome) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("name", o.Name),
		slog.String("state", o.State.String()),
		slog.Int("pass", o.Pass),
	}

	if len(o.Missing) > 0 {
		attrs = append(attrs, slog.Any("missing", o.Missing))
	}

	if len(o.Inhibited) > 0 {
		attrs = append(attrs, slog.Any("inhibited", o.Inhibited))
	}

	if len(o.Waiting) > 0 {
		attrs = append(attrs, slog.Any("waiting", o.Waiting))
	}

	if o.Declined {
		attrs = append(attrs, slog.Bool("declined", true))
	}

	return slog.GroupValue(attrs...)
}

// Report summarizes one resolution run.
type Report struct {
	// Built is in build order.
	Built []Outcome
	// Unresolvable is in catalog order.
	Unresolvable []Outcome

	Passes int
	// Relaxed is set when a pass ignored waits on pending composites.
	Relaxed bool
}

// Outcome returns the outcome of the composite name.
func (r *Report) Outcome(name string) (Outcome, bool) {
	for _, o := range r.Built {
		if o.Name == name {
			return o, true
		}
	}

	for _, o := range r.Unresolvable {
		if o.Name == name {
			return o, true
		}
	}

	return Outcome{}, false
}

// BuiltNames returns the names of built composites in build order.
func (r *Report) BuiltNames() []string {
	names := make([]string, len(r.Built))
	for i, o := range r.Built {
		names[i] = o.Name
	}

	return names
}

// LogValue implements slog.LogValuer.
func (r *Report) LogValue() slog.Value {
	unresolved := make([]string, len(r.Unresolvable))
	for i, o := range r.Unresolvable {
		unresolved[i] = o.Name
	}

	return slog.GroupValue(
		slog.Int("passes", r.Passes),
		slog.Bool("relaxed", r.Relaxed),
		slog.Any("built", r.BuiltNames()),
		slog.Any("unresolvable", unresolved),
	)
}
