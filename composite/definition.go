package composite

import (
	"log/slog"
	"slices"

	"github.com/ardnew/metaconv/convfn"
)

// Definition describes one composite tag. Dependencies are positional:
// index i of the value arrays passed to the conversions is the i-th name
// of Require followed by Desire.
type Definition struct {
	Name string

	// Require must all be available. When it is empty at least one of
	// Desire must be.
	Require []string
	Desire  []string

	// Inhibit blocks the composite while any of its names is available.
	Inhibit []string

	// ValueConv and PrintConv are conversion expressions. An empty
	// ValueConv yields the first dependency; an empty PrintConv prints
	// the value.
	ValueConv string
	PrintConv string

	// Value and Print, when set, are used instead of the expressions.
	Value convfn.ValueFunc
	Print convfn.PrintFunc
}

// Deps returns the dependency names in positional order.
func (d *Definition) Deps() []string {
	return slices.Concat(d.Require, d.Desire)
}

// Validate reports whether d can be resolved.
func (d *Definition) Validate() error {
	switch {
	case d.Name == "":
		return ErrDefinition.With(slog.String("reason", "no name"))
	case len(d.Require) == 0 && len(d.Desire) == 0:
		return ErrDefinition.With(slog.String("name", d.Name), slog.String("reason", "no dependencies"))
	}

	return nil
}

// LogValue implements slog.LogValuer.
func (d *Definition) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("name", d.Name),
		slog.Any("require", d.Require),
		slog.Any("desire", d.Desire),
		slog.Any("inhibit", d.Inhibit),
	)
}

// Catalog is an ordered list of definitions. The order is the order in
// which each pass attempts them. A name may be defined more than once;
// the first definition to build wins.
type Catalog []*Definition

// Validate checks every definition.
func (c Catalog) Validate() error {
	for _, d := range c {
		if err := d.Validate(); err != nil {
			return err
		}
	}

	return nil
}

// Names returns the distinct composite names in catalog order.
func (c Catalog) Names() []string {
	var names []string
	for _, d := range c {
		if !slices.Contains(names, d.Name) {
			names = append(names, d.Name)
		}
	}

	return names
}

// Lookup returns the definitions of name.
func (c Catalog) Lookup(name string) []*Definition {
	var out []*Definition
	for _, d := range c {
		if d.Name == name {
			out = append(out, d)
		}
	}

	return out
}

// Has reports whether name is defined.
func (c Catalog) Has(name string) bool {
	return slices.ContainsFunc(c, func(d *Definition) bool { return d.Name == name })
}
