package composite

import (
	"log/slog"
	"maps"
	"slices"
	"strings"

	"github.com/ardnew/metaconv/value"
)

// Entry holds the three stages of a tag value: as stored, after value
// conversion, and after print conversion.
type Entry struct {
	Raw, Val, Prt value.Value
}

// Computed returns the entry of a newly built composite, whose raw stage
// is its value.
func Computed(val, prt value.Value) Entry {
	return Entry{Raw: val, Val: val, Prt: prt}
}

// IsEmpty reports whether e has no value at all.
func (e Entry) IsEmpty() bool {
	return e.Raw.IsEmpty() && e.Val.IsEmpty() && e.Prt.IsEmpty()
}

// LogValue implements slog.LogValuer.
func (e Entry) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("raw", e.Raw.Text()),
		slog.String("val", e.Val.Text()),
		slog.String("prt", e.Prt.Text()),
	)
}

// Pool maps tag names to values. Names are bare ("FocalLength") or
// group-qualified ("GPS:GPSLatitude").
type Pool map[string]Entry

// GroupSeparator joins a group and a tag name.
const GroupSeparator = ":"

// Group qualifies name with group.
func Group(group, name string) string { return group + GroupSeparator + name }

// SplitName separates a group-qualified name. The group is empty for a
// bare name.
func SplitName(name string) (group, tag string) {
	if g, t, ok := strings.Cut(name, GroupSeparator); ok {
		return g, t
	}

	return "", name
}

// Clone returns a copy of p that may be resolved independently.
func (p Pool) Clone() Pool { return maps.Clone(p) }

// Set stores e under name.
func (p Pool) Set(name string, e Entry) { p[name] = e }

// SetValue stores a tag whose three stages are all v.
func (p Pool) SetValue(name string, v value.Value) { p[name] = Entry{Raw: v, Val: v, Prt: v} }

// Names returns every name in sorted order.
func (p Pool) Names() []string { return slices.Sorted(maps.Keys(p)) }
