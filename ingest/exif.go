package ingest

import (
	"cmp"
	"context"
	"io"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/mknote"
	"github.com/rwcarlsen/goexif/tiff"

	"github.com/ardnew/metaconv/composite"
	"github.com/ardnew/metaconv/convfn"
	"github.com/ardnew/metaconv/value"
)

// Groups of extracted tags.
const (
	GroupEXIF       = "EXIF"
	GroupGPS        = "GPS"
	GroupMakerNotes = "MakerNotes"
)

// Aliases renames goexif field names to the names composites depend on.
var Aliases = map[exif.FieldName]string{
	exif.PixelXDimension:       "ExifImageWidth",
	exif.PixelYDimension:       "ExifImageHeight",
	exif.FocalLengthIn35mmFilm: "FocalLengthIn35mmFormat",
	exif.ExposureBiasValue:     "ExposureCompensation",
	exif.DateTimeDigitized:     "CreateDate",
}

var registerParsers sync.Once

// extracted is one decoded tag before conversion.
type extracted struct {
	group, module, name string
	raw                 value.Value
}

// FromEXIF decodes the EXIF block of a JPEG or TIFF image. Tags are
// stored under their group: "EXIF:FNumber", "GPS:GPSLatitude",
// "MakerNotes:LensType".
func (r *Reader) FromEXIF(ctx context.Context, in io.Reader) (composite.Pool, error) {
	registerParsers.Do(func() { exif.RegisterParsers(mknote.All...) })

	x, err := exif.Decode(in)
	if err != nil {
		if x == nil || exif.IsCriticalError(err) {
			return nil, ErrDecodeEXIF.Wrap(err)
		}

		r.logger.WarnContext(ctx, "partial EXIF", slog.Any("error", err))
	}

	var tags []extracted

	walk := walker(func(name exif.FieldName, tag *tiff.Tag) error {
		e, ok := extract(name, tag)
		if ok {
			tags = append(tags, e)
		}

		return nil
	})

	if err := x.Walk(walk); err != nil {
		return nil, ErrDecodeEXIF.Wrap(err)
	}

	// Walk visits fields in map order.
	slices.SortFunc(tags, func(a, b extracted) int {
		return cmp.Or(cmp.Compare(a.group, b.group), cmp.Compare(a.name, b.name))
	})

	fctx := fileContext(tags)
	pool := make(composite.Pool, len(tags))

	for _, t := range tags {
		pool.Set(composite.Group(t.group, t.name), r.convert(ctx, t.module, t.name, t.raw, fctx))
	}

	r.logger.DebugContext(ctx, "decoded EXIF",
		slog.Int("tags", len(pool)),
		slog.Any("context", fctx),
	)

	return pool, nil
}

type walker func(exif.FieldName, *tiff.Tag) error

func (w walker) Walk(name exif.FieldName, tag *tiff.Tag) error { return w(name, tag) }

// extract names and decodes one field. Maker note fields are named
// "Make.Field" by goexif.
func extract(name exif.FieldName, tag *tiff.Tag) (extracted, bool) {
	e := extracted{group: GroupEXIF, module: "Exif", name: string(name)}

	switch mk, field, ok := strings.Cut(string(name), "."); {
	case ok:
		e.group, e.module, e.name = GroupMakerNotes, mk, field
	case strings.HasPrefix(e.name, "GPS"):
		e.group, e.module = GroupGPS, "GPS"
	}

	if alias, ok := Aliases[name]; ok {
		e.name = alias
	}

	switch name {
	case exif.MakerNote, exif.ExifIFDPointer, exif.GPSInfoIFDPointer, exif.InteroperabilityIFDPointer:
		return e, false
	}

	e.raw = tagValue(tag)

	return e, !e.raw.IsEmpty()
}

// tagValue converts a TIFF field to a value of the matching variant.
// Multi-valued fields become arrays.
func tagValue(tag *tiff.Tag) value.Value {
	n := int(tag.Count)

	switch tag.Format() {
	case tiff.StringVal:
		s, err := tag.StringVal()
		if err != nil {
			return value.Empty()
		}

		return value.String(strings.TrimRight(s, "\x00 "))
	case tiff.RatVal:
		return ratValue(tag, n)
	case tiff.FloatVal:
		return each(n, func(i int) (value.Value, bool) {
			f, err := tag.Float(i)

			return value.F64(f), err == nil
		})
	case tiff.IntVal:
		return each(n, func(i int) (value.Value, bool) {
			v, err := tag.Int64(i)

			return intValue(tag.Type, v), err == nil
		})
	}

	return value.Bytes(tag.Val)
}

func ratValue(tag *tiff.Tag, n int) value.Value {
	signed := tag.Type == tiff.DTSRational

	var (
		rats  []value.Rational
		srats []value.SRational
	)

	for i := range n {
		num, den, err := tag.Rat2(i)
		if err != nil {
			break
		}

		if signed {
			srats = append(srats, value.SRational{Num: int32(num), Den: int32(den)})
		} else {
			rats = append(rats, value.Rational{Num: uint32(num), Den: uint32(den)})
		}
	}

	switch {
	case signed && len(srats) > 0:
		return value.SRationals(srats...)
	case len(rats) > 0:
		return value.Rationals(rats...)
	}

	return value.Empty()
}

func intValue(dt tiff.DataType, v int64) value.Value {
	switch dt {
	case tiff.DTByte:
		return value.U8(uint8(v))
	case tiff.DTShort:
		return value.U16(uint16(v))
	case tiff.DTLong:
		return value.U32(uint32(v))
	case tiff.DTSByte:
		return value.I8(int8(v))
	case tiff.DTSShort:
		return value.I16(int16(v))
	case tiff.DTSLong:
		return value.I32(int32(v))
	}

	return value.I64(v)
}

// each decodes n elements, returning a scalar for one.
func each(n int, at func(int) (value.Value, bool)) value.Value {
	vals := make([]value.Value, 0, n)

	for i := range n {
		v, ok := at(i)
		if !ok {
			break
		}

		vals = append(vals, v)
	}

	switch len(vals) {
	case 0:
		return value.Empty()
	case 1:
		return vals[0]
	}

	return value.Array(vals...)
}

func fileContext(tags []extracted) *convfn.Context {
	fctx := &convfn.Context{}

	for _, t := range tags {
		if t.group != GroupEXIF {
			continue
		}

		switch t.name {
		case "Make":
			fctx.Make = t.raw.Text()
		case "Model":
			fctx.Model = t.raw.Text()
		}
	}

	return fctx
}
