package registry

//go:generate go tool stringer --linecomment --type Route --output route_string.go

import (
	"log/slog"
	"math"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/ardnew/metaconv/convfn"
)

// Route is how a classified expression is evaluated.
type Route int

const (
	RouteInline   Route = iota // inline
	RouteDispatch              // dispatch
	RouteMissing               // missing
)

const numRoutes = RouteMissing + 1

// Target is the outcome of classifying one expression.
type Target struct {
	Route Route

	// Source is the expression as classified.
	Source string

	// Inline is the expr-lang source of an inline target, and Program its
	// compiled form. Both are empty for other routes.
	Inline  string
	Program *vm.Program

	// Function is the dispatch function. It is [convfn.Missing] for the
	// missing route and zero for inline targets.
	Function convfn.FunctionID
}

// Same reports whether t and o evaluate the same way.
func (t Target) Same(o Target) bool {
	if t.Route != o.Route {
		return false
	}

	if t.Route == RouteInline {
		return t.Inline == o.Inline
	}

	return t.Function == o.Function
}

// Eval runs an inline target with $val bound to val.
func (t Target) Eval(val float64) (float64, error) {
	if t.Program == nil {
		return 0, ErrInline.With(slog.String("route", t.Route.String()))
	}

	out, err := expr.Run(t.Program, map[string]any{inlineVar: val})
	if err != nil {
		return 0, ErrInline.Wrap(err).With(slog.String("inline", t.Inline))
	}

	var f float64

	switch x := out.(type) {
	case float64:
		f = x
	case int:
		f = float64(x)
	default:
		return 0, ErrInline.With(slog.String("inline", t.Inline), slog.Any("result", out))
	}

	if math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, ErrInline.With(slog.String("inline", t.Inline), slog.Float64("result", f))
	}

	return f, nil
}

func (t Target) String() string {
	switch t.Route {
	case RouteInline:
		return "inline(" + t.Inline + ")"
	case RouteDispatch:
		return "dispatch(" + t.Function.String() + ")"
	}

	return t.Route.String()
}

// LogValue implements slog.LogValuer.
func (t Target) LogValue() slog.Value {
	attrs := []slog.Attr{slog.String("route", t.Route.String())}

	switch t.Route {
	case RouteInline:
		attrs = append(attrs, slog.String("inline", t.Inline))
	case RouteDispatch, RouteMissing:
		attrs = append(attrs, slog.String("function", t.Function.String()))
	}

	return slog.GroupValue(attrs...)
}
