package ingest

import (
	"context"
	"io"
	"log/slog"

	"github.com/goccy/go-yaml"
	"github.com/klauspost/readahead"

	"github.com/ardnew/metaconv/composite"
	"github.com/ardnew/metaconv/pkg"
	"github.com/ardnew/metaconv/value"
)

// DocumentFormat is the encoding of a pool document.
type DocumentFormat string

const (
	FormatYAML DocumentFormat = "yaml"
	FormatJSON DocumentFormat = "json"
)

// FromDocument reads a pool document: a mapping from tag name to value.
// A value that is itself a mapping with any of the keys raw, val, and
// prt gives the stages separately; a stage left out copies the one
// before it. Any other value fills all three stages. JSON is read as
// the YAML subset it is.
func (r *Reader) FromDocument(ctx context.Context, in io.Reader, format DocumentFormat) (composite.Pool, error) {
	ra := readahead.NewReader(in)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return nil, ErrDecodeDocument.Wrap(err)
	}

	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, ErrDecodeDocument.Wrap(err).With(slog.String("format", string(format)))
	}

	pool := make(composite.Pool, len(doc))

	for name, x := range doc {
		e, err := entryOf(x)
		if err != nil {
			return nil, err.With(slog.String("tag", name))
		}

		pool.Set(name, e)
	}

	r.logger.DebugContext(ctx, "read pool document",
		slog.String("format", string(format)),
		slog.Int("tags", len(pool)),
	)

	return pool, nil
}

// ParseScalar reads s as a YAML scalar, so that numbers are numeric and
// everything else is text. The empty string is the empty value, and a
// mapping is kept as its source text.
func ParseScalar(s string) (value.Value, error) {
	if s == "" {
		return value.Empty(), nil
	}

	var x any
	if err := yaml.Unmarshal([]byte(s), &x); err != nil {
		return value.Empty(), ErrScalar.Wrap(err)
	}

	if _, ok := x.(map[string]any); ok {
		return value.String(s), nil
	}

	return value.FromNative(x), nil
}

func entryOf(x any) (composite.Entry, *pkg.Error) {
	m, ok := x.(map[string]any)
	if !ok {
		v := value.FromNative(x)

		return composite.Entry{Raw: v, Val: v, Prt: v}, nil
	}

	var e composite.Entry

	for k, v := range m {
		switch k {
		case "raw":
			e.Raw = value.FromNative(v)
		case "val":
			e.Val = value.FromNative(v)
		case "prt":
			e.Prt = value.FromNative(v)
		default:
			return e, ErrEntry.With(slog.String("key", k))
		}
	}

	if e.Val.IsEmpty() {
		e.Val = e.Raw
	}

	if e.Prt.IsEmpty() {
		e.Prt = e.Val
	}

	if e.Raw.IsEmpty() {
		e.Raw = e.Val
	}

	return e, nil
}
