package registry

//go:generate go tool stringer --linecomment --type Kind --output kind_string.go

import (
	"iter"
	"log/slog"
	"strings"
)

// Kind is the role an expression plays in a tag definition.
type Kind int

const (
	KindValueConv Kind = iota // ValueConv
	KindPrintConv             // PrintConv
	KindCondition             // Condition
)

const numKinds = KindCondition + 1

// Kinds yields every expression kind in order.
func Kinds() iter.Seq[Kind] {
	return func(yield func(Kind) bool) {
		for k := range numKinds {
			if !yield(k) {
				return
			}
		}
	}
}

// ParseKind matches name case-insensitively against the kind names.
func ParseKind(name string) (Kind, error) {
	for k := range Kinds() {
		if strings.EqualFold(name, k.String()) {
			return k, nil
		}
	}

	return 0, ErrKind.With(slog.String("kind", name))
}
