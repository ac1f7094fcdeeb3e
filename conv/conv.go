package conv

import (
	"context"
	"errors"
	"log/slog"

	"github.com/ardnew/metaconv/composite"
	"github.com/ardnew/metaconv/convfn"
	"github.com/ardnew/metaconv/interp"
	"github.com/ardnew/metaconv/log"
	"github.com/ardnew/metaconv/registry"
	"github.com/ardnew/metaconv/value"
)

// CompositeModule is the module composite expressions are classified in.
const CompositeModule = "Composite"

// Converter runs classified conversions.
type Converter struct {
	classifier *registry.Classifier
	functions  *convfn.Registry
	logger     log.Logger
	interpret  bool
}

// Option configures a [Converter].
type Option func(*Converter)

// WithClassifier sets the classifier. The default is [registry.New]
// with no options.
func WithClassifier(c *registry.Classifier) Option {
	return func(cv *Converter) { cv.classifier = c }
}

// WithFunctions sets the function registry. The default is
// [convfn.Default].
func WithFunctions(r *convfn.Registry) Option {
	return func(cv *Converter) { cv.functions = r }
}

// WithLogger sets the structured logger for trace-level debugging.
// If not provided, the logger is zero-valued and all logging is a no-op.
func WithLogger(logger log.Logger) Option {
	return func(cv *Converter) { cv.logger = logger }
}

// WithInterpreter makes expressions without an implementation evaluate
// with package interp instead of passing their input through.
func WithInterpreter(enable bool) Option {
	return func(cv *Converter) { cv.interpret = enable }
}

// New returns a converter configured by opts.
func New(opts ...Option) *Converter {
	cv := &Converter{}
	for _, opt := range opts {
		opt(cv)
	}

	if cv.classifier == nil {
		cv.classifier = registry.New(registry.WithLogger(cv.logger))
	}

	if cv.functions == nil {
		cv.functions = convfn.Default()
	}

	return cv
}

// Classifier returns the classifier, whose stats count every conversion
// the converter has applied.
func (cv *Converter) Classifier() *registry.Classifier { return cv.classifier }

// Tag converts the stored value of an ordinary tag of module. A stage
// that fails leaves its input unchanged, so an under-converted value
// shows in its earlier form.
func (cv *Converter) Tag(ctx context.Context, module, valueConv, printConv string, raw value.Value, fctx *convfn.Context) composite.Entry {
	val := cv.scalar(ctx, module, valueConv, registry.KindValueConv, raw, fctx)
	prt := cv.scalar(ctx, module, printConv, registry.KindPrintConv, val, fctx)

	return composite.Entry{Raw: raw, Val: val, Prt: prt}
}

// Condition evaluates a tag condition against val. Conditions have no
// native form and are always interpreted; an empty condition holds and
// a failed one does not.
func (cv *Converter) Condition(ctx context.Context, module, src string, val value.Value, fctx *convfn.Context) bool {
	if src == "" {
		return true
	}

	cv.classifier.Classify(ctx, src, module, registry.KindCondition)

	v, err := interp.Evaluate(src, cv.frame(val, fctx))
	if err != nil {
		cv.logger.DebugContext(ctx, "condition failed",
			slog.String("module", module),
			slog.String("source", src),
			slog.Any("error", err),
		)

		return false
	}

	return v.Truthy()
}

func (cv *Converter) scalar(ctx context.Context, module, src string, kind registry.Kind, in value.Value, fctx *convfn.Context) value.Value {
	if src == "" {
		return in
	}

	t := cv.classifier.Classify(ctx, src, module, kind)

	out, err := cv.run(t, in, fctx)
	if err != nil || out.IsEmpty() {
		cv.logger.TraceContext(ctx, "conversion kept input",
			slog.String("kind", kind.String()),
			slog.String("module", module),
			slog.Any("target", t),
			slog.Any("error", err),
		)

		return in
	}

	return out
}

// run applies t to a single value.
func (cv *Converter) run(t registry.Target, in value.Value, fctx *convfn.Context) (value.Value, error) {
	switch t.Route {
	case registry.RouteInline:
		return inline(t, in)
	case registry.RouteDispatch:
		fn, ok := cv.functions.Scalar(t.Function)
		if !ok {
			return value.Empty(), ErrUnregistered.With(slog.String("function", t.Function.String()))
		}

		return fn(in, fctx)
	}

	if !cv.interpret {
		return in, nil
	}

	return interp.Evaluate(t.Source, cv.frame(in, fctx))
}

// inline evaluates t on the numeric reading of in, numified as the
// interpreter does ("50 mm" is 50).
func inline(t registry.Target, in value.Value) (value.Value, error) {
	if !numeric(in) {
		return value.Empty(), ErrNotNumeric.With(slog.String("value", in.Text()))
	}

	out, err := t.Eval(in.Num())
	if err != nil {
		return value.Empty(), err
	}

	return value.F64(out), nil
}

// numeric reports whether in has a number to read: a finite number, or
// text that begins with one. Empty values and rationals with a zero
// denominator have none.
func numeric(in value.Value) bool {
	if _, ok := in.Float(); ok {
		return true
	}

	switch in.Kind() {
	case value.KindString, value.KindArray:
		_, n := value.LeadingNumber(in.Text())

		return n > 0
	}

	return false
}

func (cv *Converter) frame(val value.Value, fctx *convfn.Context) *interp.Frame {
	f := interp.NewFrame(val, fctx)
	f.Registry = cv.functions

	return f
}

// Apply implements [composite.Applier].
func (cv *Converter) Apply(ctx context.Context, def *composite.Definition, in composite.Input) (value.Value, value.Value, error) {
	val, err := cv.compositeValue(ctx, def, in)

	switch {
	case errors.Is(err, convfn.ErrDeclined):
		return value.Empty(), value.Empty(), err
	case err != nil:
		return value.Empty(), value.Empty(), convfn.ErrDeclined.Wrap(err)
	case !convfn.Finite(val):
		return value.Empty(), value.Empty(), convfn.ErrDeclined
	}

	return val, cv.compositePrint(ctx, def, in, val), nil
}

func (cv *Converter) compositeValue(ctx context.Context, def *composite.Definition, in composite.Input) (value.Value, error) {
	first := value.Empty()
	if len(in.Vals) > 0 {
		first = in.Vals[0]
	}

	switch {
	case def.Value != nil:
		return def.Value(in.Vals, in.Prts, in.Raws, in.Context)
	case def.ValueConv == "":
		return first, nil
	}

	t := cv.classifier.Classify(ctx, def.ValueConv, CompositeModule, registry.KindValueConv)

	switch t.Route {
	case registry.RouteInline:
		return inline(t, first)
	case registry.RouteDispatch:
		if fn, ok := cv.functions.Value(t.Function); ok {
			return fn(in.Vals, in.Prts, in.Raws, in.Context)
		}

		if fn, ok := cv.functions.Scalar(t.Function); ok {
			return fn(first, in.Context)
		}

		return value.Empty(), ErrUnregistered.With(slog.String("function", t.Function.String()))
	}

	if !cv.interpret {
		return first, nil
	}

	return interp.Evaluate(def.ValueConv, cv.compositeFrame(in))
}

func (cv *Converter) compositePrint(ctx context.Context, def *composite.Definition, in composite.Input, val value.Value) value.Value {
	switch {
	case def.Print != nil:
		return def.Print(val, in.Vals, in.Prts, in.Raws, in.Context)
	case def.PrintConv == "":
		return val
	}

	t := cv.classifier.Classify(ctx, def.PrintConv, CompositeModule, registry.KindPrintConv)

	var prt value.Value

	switch t.Route {
	case registry.RouteInline:
		prt, _ = inline(t, val)
	case registry.RouteDispatch:
		if fn, ok := cv.functions.Print(t.Function); ok {
			prt = fn(val, in.Vals, in.Prts, in.Raws, in.Context)
		} else if fn, ok := cv.functions.Scalar(t.Function); ok {
			prt = convfn.PrintScalar(fn)(val, in.Vals, in.Prts, in.Raws, in.Context)
		}
	case registry.RouteMissing:
		if cv.interpret {
			f := cv.compositeFrame(in)
			f.Val = val

			if v, err := interp.Evaluate(def.PrintConv, f); err == nil {
				prt = v
			}
		}
	}

	if prt.IsEmpty() {
		return val
	}

	return prt
}

func (cv *Converter) compositeFrame(in composite.Input) *interp.Frame {
	f := interp.NewCompositeFrame(in.Vals, in.Prts, in.Raws, in.Context)
	f.Registry = cv.functions

	return f
}
