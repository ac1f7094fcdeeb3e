package convfn

import (
	"log/slog"
	"strings"

	"github.com/ardnew/metaconv/value"
)

// Context carries the per-file facts that conversions may consult.
type Context struct {
	Make     string
	Model    string
	FileType string
}

// LogValue implements slog.LogValuer.
func (c *Context) LogValue() slog.Value {
	if c == nil {
		return slog.GroupValue()
	}

	return slog.GroupValue(
		slog.String("make", c.Make),
		slog.String("model", c.Model),
		slog.String("file_type", c.FileType),
	)
}

// ValueFunc computes a composite value from its dependency arrays. The
// three slices are index-aligned with the composite's dependencies; an
// absent dependency is the empty value in every slice. A ValueFunc that
// has nothing to compute returns [ErrDeclined].
type ValueFunc func(vals, prts, raws []value.Value, ctx *Context) (value.Value, error)

// PrintFunc formats a computed composite value. It never fails; when it
// cannot do better it returns val.
type PrintFunc func(val value.Value, vals, prts, raws []value.Value, ctx *Context) value.Value

// ScalarFunc converts the value of an ordinary tag.
type ScalarFunc func(val value.Value, ctx *Context) (value.Value, error)

// Helper is a named function callable from an expression, for example
// Image::ExifTool::GPS::ToDMS. A leading ExifTool object argument is
// dropped before the call.
type Helper func(ctx *Context, args []value.Value) (value.Value, error)

// FunctionID identifies a conversion function by module and name.
// The zero value is invalid; construct with [NewFunctionID] or
// [ParseFunctionID].
type FunctionID struct {
	module string
	name   string
}

// ModuleSeparator joins the segments of a qualified function name.
const ModuleSeparator = "::"

// Missing identifies the passthrough used for expressions that have no
// implementation.
var Missing = FunctionID{module: "convfn", name: "Missing"}

// NewFunctionID validates module and name. The module is one or more
// identifiers joined by "::" and the name is a single identifier.
func NewFunctionID(module, name string) (FunctionID, error) {
	if !isIdent(name) {
		return FunctionID{}, ErrFunctionID.With(
			slog.String("module", module),
			slog.String("name", name),
		)
	}

	for seg := range strings.SplitSeq(module, ModuleSeparator) {
		if !isIdent(seg) {
			return FunctionID{}, ErrFunctionID.With(
				slog.String("module", module),
				slog.String("name", name),
			)
		}
	}

	return FunctionID{module: module, name: name}, nil
}

// ParseFunctionID splits a qualified name such as "GPS::ToDMS" at its last
// separator.
func ParseFunctionID(qualified string) (FunctionID, error) {
	i := strings.LastIndex(qualified, ModuleSeparator)
	if i < 0 {
		return FunctionID{}, ErrFunctionID.With(slog.String("name", qualified))
	}

	return NewFunctionID(qualified[:i], qualified[i+len(ModuleSeparator):])
}

// MustFunctionID is like [NewFunctionID] but panics on invalid input.
// It is meant for package-level tables.
func MustFunctionID(module, name string) FunctionID {
	id, err := NewFunctionID(module, name)
	if err != nil {
		panic(err)
	}

	return id
}

func (id FunctionID) Module() string { return id.module }
func (id FunctionID) Name() string   { return id.name }

// IsZero reports whether id was never set.
func (id FunctionID) IsZero() bool { return id.name == "" }

// IsMissing reports whether id is the [Missing] passthrough.
func (id FunctionID) IsMissing() bool { return id == Missing }

func (id FunctionID) String() string {
	if id.IsZero() {
		return ""
	}

	return id.module + ModuleSeparator + id.name
}

// MarshalText implements encoding.TextMarshaler.
func (id FunctionID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *FunctionID) UnmarshalText(b []byte) error {
	parsed, err := ParseFunctionID(string(b))
	if err != nil {
		return err
	}

	*id = parsed

	return nil
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}

	for i := range len(s) {
		c := s[i]

		switch {
		case c == '_', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9' && i > 0:
		default:
			return false
		}
	}

	return true
}
