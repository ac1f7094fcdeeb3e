package composite

import (
	"context"
	"errors"

	"github.com/ardnew/metaconv/convfn"
	"github.com/ardnew/metaconv/interp"
	"github.com/ardnew/metaconv/value"
)

// Input holds the positional dependency arrays of one attempt.
type Input struct {
	Vals, Prts, Raws []value.Value
	Context          *convfn.Context
}

// Applier performs the value and print conversions of a definition.
// Returning an error declines the attempt; the resolver defers the
// definition and retries it on a later pass. A value that is empty or
// has no finite numeric reading is declined.
type Applier interface {
	Apply(ctx context.Context, def *Definition, in Input) (val, prt value.Value, err error)
}

// Evaluator is the default [Applier]. It calls the native functions of
// a definition when set and otherwise interprets its expressions.
type Evaluator struct {
	// Registry resolves helper calls. Nil means [convfn.Default].
	Registry *convfn.Registry
}

// Apply implements [Applier].
func (e *Evaluator) Apply(_ context.Context, def *Definition, in Input) (value.Value, value.Value, error) {
	val, err := e.value(def, in)
	if err != nil {
		return value.Empty(), value.Empty(), err
	}

	return val, e.print(def, in, val), nil
}

func (e *Evaluator) value(def *Definition, in Input) (value.Value, error) {
	var (
		val value.Value
		err error
	)

	switch {
	case def.Value != nil:
		val, err = def.Value(in.Vals, in.Prts, in.Raws, in.Context)
	case def.ValueConv == "":
		if len(in.Vals) > 0 {
			val = in.Vals[0]
		}
	default:
		val, err = interp.Evaluate(def.ValueConv, e.frame(in))
	}

	switch {
	case errors.Is(err, convfn.ErrDeclined):
		return value.Empty(), err
	case err != nil:
		return value.Empty(), convfn.ErrDeclined.Wrap(err)
	case !convfn.Finite(val):
		return value.Empty(), convfn.ErrDeclined
	}

	return val, nil
}

func (e *Evaluator) print(def *Definition, in Input, val value.Value) value.Value {
	switch {
	case def.Print != nil:
		return def.Print(val, in.Vals, in.Prts, in.Raws, in.Context)
	case def.PrintConv == "":
		return val
	}

	f := e.frame(in)
	f.Val = val

	prt, err := interp.Evaluate(def.PrintConv, f)
	if err != nil || prt.IsEmpty() {
		return val
	}

	return prt
}

func (e *Evaluator) frame(in Input) *interp.Frame {
	f := interp.NewCompositeFrame(in.Vals, in.Prts, in.Raws, in.Context)
	f.Registry = e.Registry

	return f
}
