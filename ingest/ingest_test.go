package ingest

import (
	"bytes"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ardnew/metaconv/codegen"
	"github.com/ardnew/metaconv/composite"
	"github.com/ardnew/metaconv/conv"
	"github.com/ardnew/metaconv/registry"
	"github.com/ardnew/metaconv/value"
)

// TIFF field types.
const (
	typeASCII    = 2
	typeShort    = 3
	typeLong     = 4
	typeRational = 5
)

type field struct {
	tag, typ uint16
	count    uint32
	data     []byte
}

func ascii(tag uint16, s string) field {
	return field{tag, typeASCII, uint32(len(s) + 1), append([]byte(s), 0)}
}

func short(tag, v uint16) field {
	return field{tag, typeShort, 1, binary.LittleEndian.AppendUint16(nil, v)}
}

func long(tag uint16, v uint32) field {
	return field{tag, typeLong, 1, binary.LittleEndian.AppendUint32(nil, v)}
}

func rational(tag uint16, num, den uint32) field {
	b := binary.LittleEndian.AppendUint32(nil, num)

	return field{tag, typeRational, 1, binary.LittleEndian.AppendUint32(b, den)}
}

// ifd encodes a directory that starts at offset start, followed by the
// values that do not fit in their entries.
func ifd(start uint32, fields []field) []byte {
	le := binary.LittleEndian
	dataStart := start + 2 + 12*uint32(len(fields)) + 4

	var data []byte

	head := le.AppendUint16(nil, uint16(len(fields)))

	for _, f := range fields {
		head = le.AppendUint16(head, f.tag)
		head = le.AppendUint16(head, f.typ)
		head = le.AppendUint32(head, f.count)

		if len(f.data) <= 4 {
			var inline [4]byte
			copy(inline[:], f.data)
			head = append(head, inline[:]...)

			continue
		}

		head = le.AppendUint32(head, dataStart+uint32(len(data)))
		data = append(data, f.data...)

		if len(data)%2 == 1 {
			data = append(data, 0)
		}
	}

	head = le.AppendUint32(head, 0)

	return append(head, data...)
}

// buildTIFF returns a little-endian TIFF with main and EXIF directories.
func buildTIFF(main, sub []field) []byte {
	const exifPointer = 0x8769

	first := ifd(8, append(main, long(exifPointer, 0)))
	subStart := uint32(8 + len(first))
	first = ifd(8, append(main, long(exifPointer, subStart)))

	out := []byte("II*\x00")
	out = binary.LittleEndian.AppendUint32(out, 8)
	out = append(out, first...)

	return append(out, ifd(subStart, sub)...)
}

func sampleTIFF() []byte {
	return buildTIFF(
		[]field{
			ascii(0x010f, "Canon"),
			ascii(0x0110, "Canon EOS R5"),
		},
		[]field{
			rational(0x829a, 1, 250),
			rational(0x829d, 28, 10),
			short(0x8827, 400),
			rational(0x920a, 50, 1),
			long(0xa002, 6000),
			long(0xa003, 4000),
			short(0xa405, 80),
		},
	)
}

func TestFromEXIF(t *testing.T) {
	pool, err := New().FromEXIF(t.Context(), bytes.NewReader(sampleTIFF()))
	if err != nil {
		t.Fatalf("FromEXIF() error = %v", err)
	}

	tests := []struct {
		name     string
		val, prt string
	}{
		{"EXIF:Make", "Canon", "Canon"},
		{"EXIF:Model", "Canon EOS R5", "Canon EOS R5"},
		{"EXIF:ExposureTime", "0.004", "1/250"},
		{"EXIF:FNumber", "2.8", "2.8"},
		{"EXIF:FocalLength", "50", "50.0 mm"},
		{"EXIF:ISOSpeedRatings", "400", "400"},
		{"EXIF:ExifImageWidth", "6000", "6000"},
		{"EXIF:FocalLengthIn35mmFormat", "80", "80"},
	}

	for _, tt := range tests {
		e, ok := pool[tt.name]
		if !ok {
			t.Errorf("%s missing from %v", tt.name, pool.Names())

			continue
		}

		if e.Val.Text() != tt.val || e.Prt.Text() != tt.prt {
			t.Errorf("%s = %q / %q, want %q / %q", tt.name, e.Val.Text(), e.Prt.Text(), tt.val, tt.prt)
		}
	}

	if _, ok := pool["EXIF:ExifIFDPointer"]; ok {
		t.Error("directory pointer stored as a tag")
	}
}

func TestFromEXIFResolves(t *testing.T) {
	pool, err := New().FromEXIF(t.Context(), bytes.NewReader(sampleTIFF()))
	if err != nil {
		t.Fatal(err)
	}

	r, err := composite.NewResolver().Resolve(t.Context(), pool)
	if err != nil {
		t.Fatal(err)
	}

	want := map[string]string{
		"ShutterSpeed":     "1/250",
		"Aperture":         "2.8",
		"ImageSize":        "6000x4000",
		"Megapixels":       "24.0",
		"ScaleFactor35efl": "1.6",
		"FocalLength35efl": "50.0 mm (35 mm equivalent: 80.0 mm)",
	}

	for name, prt := range want {
		o, ok := r.Outcome(name)
		if !ok || o.State != composite.Built {
			t.Errorf("%s not built", name)

			continue
		}

		if got := o.Entry.Prt.Text(); got != prt {
			t.Errorf("%s = %q, want %q", name, got, prt)
		}
	}

	if o, _ := r.Outcome("LightValue"); o.State != composite.Built {
		t.Errorf("LightValue not built from ISOSpeedRatings: %+v", o)
	}
}

func TestFromEXIFInvalid(t *testing.T) {
	if _, err := New().FromEXIF(t.Context(), strings.NewReader("not an image")); err == nil {
		t.Error("FromEXIF() error = nil")
	}
}

func TestWithDefinitions(t *testing.T) {
	src := &codegen.Source{Tables: []codegen.Table{{
		Module: "Exif",
		Tags:   []codegen.TagDef{{Name: "FocalLength", PrintConv: `sprintf("%.3f mm", $val)`}},
	}}}

	c := registry.New()

	pool, err := New(WithDefinitions(src), WithConverter(conv.New(conv.WithClassifier(c)))).
		FromEXIF(t.Context(), bytes.NewReader(sampleTIFF()))
	if err != nil {
		t.Fatal(err)
	}

	if got := pool["EXIF:FocalLength"].Prt.Text(); got != "50.000 mm" {
		t.Errorf("FocalLength = %q, want 50.000 mm", got)
	}

	if c.Stats().Total(registry.RouteDispatch) == 0 {
		t.Error("conversions not classified by the given classifier")
	}
}

func TestFromDocument(t *testing.T) {
	tests := []struct {
		name   string
		format DocumentFormat
		doc    string
	}{
		{"yaml", FormatYAML, "ExposureTime: 0.0005\n\"GPS:GPSLatitude\": 51.5\nLens:\n  raw: 61\n  prt: EF50mm f/1.8\n"},
		{"json", FormatJSON, `{"ExposureTime": 0.0005, "GPS:GPSLatitude": 51.5, "Lens": {"raw": 61, "prt": "EF50mm f/1.8"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pool, err := New().FromDocument(t.Context(), strings.NewReader(tt.doc), tt.format)
			if err != nil {
				t.Fatalf("FromDocument() error = %v", err)
			}

			if f, _ := pool["ExposureTime"].Val.Float(); f != 0.0005 {
				t.Errorf("ExposureTime = %v", pool["ExposureTime"].Val)
			}

			if f, _ := pool["GPS:GPSLatitude"].Prt.Float(); f != 51.5 {
				t.Errorf("GPS:GPSLatitude = %v", pool["GPS:GPSLatitude"].Prt)
			}

			lens := pool["Lens"]
			if f, _ := lens.Val.Float(); f != 61 || lens.Prt.Text() != "EF50mm f/1.8" {
				t.Errorf("Lens = %+v", lens)
			}
		})
	}
}

func TestFromDocumentInvalid(t *testing.T) {
	for _, doc := range []string{"- a\n- b\n", "Lens:\n  bogus: 1\n"} {
		if _, err := New().FromDocument(t.Context(), strings.NewReader(doc), FormatYAML); err == nil {
			t.Errorf("FromDocument(%q) error = nil", doc)
		}
	}
}

func TestFromFile(t *testing.T) {
	dir := t.TempDir()

	doc := filepath.Join(dir, "pool.yaml")
	if err := os.WriteFile(doc, []byte("ExposureTime: 0.0005\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	img := filepath.Join(dir, "image.tif")
	if err := os.WriteFile(img, sampleTIFF(), 0o600); err != nil {
		t.Fatal(err)
	}

	r := New()

	pool, err := r.FromFile(t.Context(), doc)
	if err != nil || len(pool) != 1 {
		t.Errorf("FromFile(yaml) = %v, %v", pool.Names(), err)
	}

	pool, err = r.FromFile(t.Context(), img)
	if err != nil || pool["EXIF:Make"].Val.Text() != "Canon" {
		t.Errorf("FromFile(tif) = %v, %v", pool.Names(), err)
	}

	if _, err := r.FromFile(t.Context(), filepath.Join(dir, "absent.jpg")); err == nil {
		t.Error("FromFile(absent) error = nil")
	}
}

func TestDefaultDefinitions(t *testing.T) {
	r := New()

	for _, name := range []string{"ExposureTime", "FNumber", "FocalLength"} {
		if _, ok := r.Definition("Exif", name); !ok {
			t.Errorf("no definition for Exif::%s", name)
		}
	}

	if d, ok := r.Definition("GPS", "GPSLatitude"); !ok || d.ValueConv == "" {
		t.Errorf("GPS::GPSLatitude = %+v", d)
	}
}

func TestParseScalar(t *testing.T) {
	tests := []struct {
		in   string
		kind value.Kind
		text string
	}{
		{"", value.KindEmpty, ""},
		{"2.8", value.KindF64, "2.8"},
		{"Canon", value.KindString, "Canon"},
		{"{a: 1}", value.KindString, "{a: 1}"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseScalar(tt.in)
			if err != nil {
				t.Fatalf("ParseScalar() error = %v", err)
			}

			if got.Kind() != tt.kind || got.Text() != tt.text {
				t.Errorf("ParseScalar(%q) = %v %q, want %v %q", tt.in, got.Kind(), got.Text(), tt.kind, tt.text)
			}
		})
	}

	if _, err := ParseScalar("[unclosed"); !errors.Is(err, ErrScalar) {
		t.Errorf("ParseScalar([unclosed) error = %v, want ErrScalar", err)
	}
}
