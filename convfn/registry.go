package convfn

import (
	"cmp"
	"log/slog"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/ardnew/metaconv/value"
)

// Registry maps function identifiers to implementations. A Registry is
// populated once and then only read, so it is safe for concurrent use
// after construction.
type Registry struct {
	scalars map[FunctionID]ScalarFunc
	values  map[FunctionID]ValueFunc
	prints  map[FunctionID]PrintFunc
	helpers map[string]Helper
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		scalars: make(map[FunctionID]ScalarFunc),
		values:  make(map[FunctionID]ValueFunc),
		prints:  make(map[FunctionID]PrintFunc),
		helpers: make(map[string]Helper),
	}
}

// Default returns the registry of every function in this package.
var Default = sync.OnceValue(func() *Registry {
	r := NewRegistry()
	for _, f := range builtinScalars {
		r.MustRegisterScalar(f.id, f.fn)

		if f.helper {
			r.MustRegisterHelper(f.id.String(), scalarHelper(f.fn))
		}
	}

	for _, f := range builtinValues {
		r.MustRegisterValue(f.id, f.fn)

		if f.helper != "" {
			r.MustRegisterHelper(f.helper, valueHelper(f.fn))
		}
	}

	for _, f := range builtinPrints {
		r.MustRegisterPrint(f.id, f.fn)

		if f.helper != "" {
			r.MustRegisterHelper(f.helper, printHelper(f.fn))
		}
	}

	r.MustRegisterHelper("GPS::ToDMS", func(_ *Context, args []value.Value) (value.Value, error) {
		if len(args) == 0 {
			return value.Empty(), ErrArgument.With(slog.String("function", "GPS::ToDMS"))
		}

		return ToDMS(args[0], at(args, 1).Truthy(), at(args, 2).Text()), nil
	})

	r.MustRegisterHelper("Exif::CalculateLV", func(_ *Context, args []value.Value) (value.Value, error) {
		v, err := CalculateLV(at(args, 0), at(args, 1), at(args, 2))
		if err != nil {
			// Invalid inputs give an undefined light value.
			return value.Empty(), nil
		}

		return v, nil
	})

	return r
})

// RegisterScalar adds fn under id.
func (r *Registry) RegisterScalar(id FunctionID, fn ScalarFunc) error {
	return register(r.scalars, id, fn)
}

// RegisterValue adds fn under id.
func (r *Registry) RegisterValue(id FunctionID, fn ValueFunc) error {
	return register(r.values, id, fn)
}

// RegisterPrint adds fn under id.
func (r *Registry) RegisterPrint(id FunctionID, fn PrintFunc) error {
	return register(r.prints, id, fn)
}

// RegisterHelper adds fn under a qualified name such as "GPS::ToDMS".
func (r *Registry) RegisterHelper(name string, fn Helper) error {
	if _, ok := r.helpers[name]; ok {
		return ErrDuplicate.With(slog.String("helper", name))
	}

	r.helpers[name] = fn

	return nil
}

func (r *Registry) MustRegisterScalar(id FunctionID, fn ScalarFunc) { must(r.RegisterScalar(id, fn)) }
func (r *Registry) MustRegisterValue(id FunctionID, fn ValueFunc)   { must(r.RegisterValue(id, fn)) }
func (r *Registry) MustRegisterPrint(id FunctionID, fn PrintFunc)   { must(r.RegisterPrint(id, fn)) }
func (r *Registry) MustRegisterHelper(name string, fn Helper)       { must(r.RegisterHelper(name, fn)) }

func must(err error) {
	if err != nil {
		panic(err)
	}
}

func register[F any](m map[FunctionID]F, id FunctionID, fn F) error {
	if id.IsZero() {
		return ErrFunctionID
	}

	if _, ok := m[id]; ok {
		return ErrDuplicate.With(slog.String("function", id.String()))
	}

	m[id] = fn

	return nil
}

// Scalar returns the scalar function registered under id.
func (r *Registry) Scalar(id FunctionID) (ScalarFunc, bool) {
	fn, ok := r.scalars[id]

	return fn, ok
}

// ScalarOrMissing returns the function registered under id, or the
// [Missing] passthrough.
func (r *Registry) ScalarOrMissing(id FunctionID) ScalarFunc {
	if fn, ok := r.scalars[id]; ok {
		return fn
	}

	return passthrough
}

// Value returns the composite value function registered under id.
func (r *Registry) Value(id FunctionID) (ValueFunc, bool) {
	fn, ok := r.values[id]

	return fn, ok
}

// Print returns the composite print function registered under id.
func (r *Registry) Print(id FunctionID) (PrintFunc, bool) {
	fn, ok := r.prints[id]

	return fn, ok
}

// HelperPrefix is the package prefix of qualified helper names written in
// expressions. It is optional when looking a helper up.
const HelperPrefix = "Image::ExifTool::"

// Helper finds a helper by the name an expression calls it with. The
// name may carry [HelperPrefix]; a bare name matches the first helper,
// in sorted order, whose last segment equals it.
func (r *Registry) Helper(name string) (Helper, bool) {
	name = strings.TrimPrefix(name, HelperPrefix)
	if fn, ok := r.helpers[name]; ok {
		return fn, true
	}

	if strings.Contains(name, ModuleSeparator) {
		return nil, false
	}

	for _, k := range slices.Sorted(maps.Keys(r.helpers)) {
		if strings.HasSuffix(k, ModuleSeparator+name) {
			return r.helpers[k], true
		}
	}

	return nil, false
}

// Helpers returns the qualified name of every helper in sorted order.
func (r *Registry) Helpers() []string {
	return slices.Sorted(maps.Keys(r.helpers))
}

// IDs returns every registered function identifier in sorted order.
func (r *Registry) IDs() []FunctionID {
	ids := slices.Collect(maps.Keys(r.scalars))
	ids = slices.AppendSeq(ids, maps.Keys(r.values))
	ids = slices.AppendSeq(ids, maps.Keys(r.prints))

	slices.SortFunc(ids, func(a, b FunctionID) int {
		return cmp.Compare(a.String(), b.String())
	})

	return slices.Compact(ids)
}

// passthrough is the implementation behind [Missing].
func passthrough(val value.Value, _ *Context) (value.Value, error) { return val, nil }

func formatScalar(format string) ScalarFunc {
	return func(val value.Value, _ *Context) (value.Value, error) {
		return value.String(Sprintf(format, val)), nil
	}
}

func scalarHelper(fn ScalarFunc) Helper {
	return func(ctx *Context, args []value.Value) (value.Value, error) {
		return fn(at(args, 0), ctx)
	}
}

var builtinScalars = []struct {
	id     FunctionID
	fn     ScalarFunc
	helper bool
}{
	{Missing, passthrough, false},
	{MustFunctionID("Exif", "PrintExposureTime"), PrintExposureTime, true},
	{MustFunctionID("Exif", "PrintFNumber"), PrintFNumber, true},
	{MustFunctionID("Exif", "PrintFraction"), PrintFraction, true},
	{MustFunctionID("GPS", "ToDegrees"), ToDegrees, true},
	{MustFunctionID("Canon", "CanonEv"), CanonEv, true},
	{MustFunctionID("ExifTool", "ConvertDuration"), ConvertDuration, true},
	{MustFunctionID("ExifTool", "ConvertUnixTime"), ConvertUnixTime, true},
	{MustFunctionID("ExifTool", "ConvertDateTime"), ConvertDateTime, true},
	{MustFunctionID("ExifTool", "ConvertFileSize"), ConvertFileSize, true},
	{MustFunctionID("Print", "Decimal1"), formatScalar("%.1f"), false},
	{MustFunctionID("Print", "Millimetres1"), formatScalar("%.1f mm"), false},
	{MustFunctionID("Print", "Millimetres3"), formatScalar("%.3f mm"), false},
	{MustFunctionID("Print", "Metres2"), formatScalar("%.2f m"), false},
	{MustFunctionID("GPS", "PrintDMS"), func(v value.Value, _ *Context) (value.Value, error) {
		return ToDMS(v, true, ""), nil
	}, false},
	{MustFunctionID("GPS", "PrintLatitude"), func(v value.Value, _ *Context) (value.Value, error) {
		return ToDMS(v, true, "N"), nil
	}, false},
	{MustFunctionID("GPS", "PrintLongitude"), func(v value.Value, _ *Context) (value.Value, error) {
		return ToDMS(v, true, "E"), nil
	}, false},
}

var builtinValues = []struct {
	id     FunctionID
	fn     ValueFunc
	helper string
}{
	{MustFunctionID("Composite", "ImageSize"), ImageSize, "Composite::ImageSize"},
	{MustFunctionID("Composite", "Megapixels"), Megapixels, "Composite::Megapixels"},
	{MustFunctionID("Composite", "ShutterSpeed"), ShutterSpeed, ""},
	{MustFunctionID("Composite", "Aperture"), Aperture, ""},
	{MustFunctionID("Composite", "ScaleFactor35efl"), ScaleFactor35efl, "Exif::CalcScaleFactor35efl"},
	{MustFunctionID("Composite", "FocalLength35efl"), FocalLength35efl, ""},
	{MustFunctionID("Composite", "LightValue"), LightValue, ""},
	{MustFunctionID("Composite", "CircleOfConfusion"), CircleOfConfusion, ""},
	{MustFunctionID("Composite", "HyperfocalDistance"), HyperfocalDistance, ""},
	{MustFunctionID("Composite", "FOV"), FOV, "Exif::CalcFOV"},
	{MustFunctionID("Composite", "GPSLatitude"), GPSLatitude, ""},
	{MustFunctionID("Composite", "GPSLongitude"), GPSLongitude, ""},
	{MustFunctionID("Composite", "GPSAltitude"), GPSAltitude, ""},
	{MustFunctionID("Composite", "GPSPosition"), GPSPosition, ""},
	{MustFunctionID("Composite", "SubSecDateTime"), SubSecDateTime, "Composite::SubSecDateTime"},
	{MustFunctionID("Composite", "DateTimeCreated"), DateTimeCreated, ""},
}

var builtinPrints = []struct {
	id     FunctionID
	fn     PrintFunc
	helper string
}{
	{MustFunctionID("Composite", "PrintImageSize"), PrintImageSize, ""},
	{MustFunctionID("Composite", "PrintMegapixels"), PrintMegapixels, ""},
	{MustFunctionID("Composite", "PrintFocalLength35efl"), PrintFocalLength35efl, ""},
	{MustFunctionID("Composite", "PrintFOV"), PrintFOV, "Exif::PrintFOV"},
	{MustFunctionID("Composite", "PrintGPSAltitude"), PrintGPSAltitude, ""},
	{MustFunctionID("Composite", "PrintGPSPosition"), PrintGPSPosition, ""},
	{MustFunctionID("Composite", "PrintLensID"), PrintLensID, "Composite::PrintLensID"},
}
