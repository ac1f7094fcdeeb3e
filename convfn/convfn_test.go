package convfn

import (
	"errors"
	"math"
	"slices"
	"testing"

	"github.com/ardnew/metaconv/value"
)

func TestSprintf(t *testing.T) {
	tests := []struct {
		name   string
		format string
		args   []value.Value
		want   string
	}{
		{"float", "%.1f", []value.Value{value.F64(50)}, "50.0"},
		{"string number", "%.1f mm", []value.Value{value.String("24.04")}, "24.0 mm"},
		{"int truncates", "%d", []value.Value{value.F64(-2.9)}, "-2"},
		{"sign", "%+d", []value.Value{value.F64(1)}, "+1"},
		{"hex", "%.4x", []value.Value{value.U16(0xab)}, "00ab"},
		{"upper hex", "%X", []value.Value{value.I64(255)}, "FF"},
		{"g default", "%g", []value.Value{value.F64(0.1234567)}, "0.123457"},
		{"star precision", "%.*f", []value.Value{value.I64(3), value.F64(0.5)}, "0.500"},
		{"star width", "%*s|", []value.Value{value.I64(-4), value.String("ab")}, "ab  |"},
		{"explicit index", "%2$s %1$s", []value.Value{value.String("a"), value.String("b")}, "b a"},
		{"missing arg", "%s-%d", []value.Value{value.String("x")}, "x-0"},
		{"percent", "100%%", nil, "100%"},
		{"trailing percent", "5%", nil, "5%"},
		{"infinity", "%.2f", []value.Value{value.F64(math.Inf(1))}, "Inf"},
		{"char", "%c", []value.Value{value.I64('A')}, "A"},
		{"zero pad", "%.2d:%02d", []value.Value{value.I64(5), value.I64(7)}, "05:07"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Sprintf(tt.format, tt.args...); got != tt.want {
				t.Errorf("Sprintf(%q) = %q, want %q", tt.format, got, tt.want)
			}
		})
	}
}

func TestPrintExposureTime(t *testing.T) {
	tests := []struct {
		in   value.Value
		want string
	}{
		{value.Rat(1, 2000), "1/2000"},
		{value.F64(0.0005), "1/2000"},
		{value.F64(0.25), "1/4"},
		{value.F64(0.5), "0.5"},
		{value.F64(2), "2"},
		{value.F64(1.25), "1.2"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			got, err := PrintExposureTime(tt.in, nil)
			if err != nil {
				t.Fatalf("PrintExposureTime() error = %v", err)
			}

			if got.Text() != tt.want {
				t.Errorf("PrintExposureTime(%v) = %q, want %q", tt.in, got.Text(), tt.want)
			}
		})
	}
}

func TestPrintExposureTime_Declines(t *testing.T) {
	for _, in := range []value.Value{
		value.String("bulb"),
		value.Rat(1, 0),
		value.Rat(0, 0),
		value.F64(math.Inf(1)),
	} {
		got, err := PrintExposureTime(in, nil)
		if !errors.Is(err, ErrDeclined) {
			t.Errorf("PrintExposureTime(%v) error = %v, want %v", in, err, ErrDeclined)
		}

		if !got.Equal(in) {
			t.Errorf("PrintExposureTime(%v) = %v, want input", in, got)
		}
	}
}

func TestShutterSpeed_SkipsNonFinite(t *testing.T) {
	tests := []struct {
		name    string
		vals    []value.Value
		want    string
		decline bool
	}{
		{"exposure", []value.Value{value.Rat(1, 250), value.F64(0.01)}, "0.004", false},
		{"bulb wins", []value.Value{value.Rat(1, 250), value.Empty(), value.F64(30)}, "30", false},
		{"zero denominator falls back", []value.Value{value.Rat(1, 0), value.F64(0.01)}, "0.01", false},
		{"infinite falls back", []value.Value{value.F64(math.Inf(1)), value.Rat(1, 8)}, "0.125", false},
		{"nothing finite", []value.Value{value.Rat(1, 0)}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ShutterSpeed(tt.vals, nil, nil, nil)
			if tt.decline {
				if !errors.Is(err, ErrDeclined) {
					t.Fatalf("ShutterSpeed() error = %v, want %v", err, ErrDeclined)
				}

				return
			}

			if err != nil {
				t.Fatalf("ShutterSpeed() error = %v", err)
			}

			if got.Text() != tt.want {
				t.Errorf("ShutterSpeed() = %q, want %q", got.Text(), tt.want)
			}
		})
	}
}

func TestPrintFNumber(t *testing.T) {
	for in, want := range map[float64]string{2.8: "2.8", 0.95: "0.95", 16: "16.0", 5.66: "5.7"} {
		got, _ := PrintFNumber(value.F64(in), nil)
		if got.Text() != want {
			t.Errorf("PrintFNumber(%v) = %q, want %q", in, got.Text(), want)
		}
	}
}

func TestPrintFraction(t *testing.T) {
	for in, want := range map[float64]string{
		0:          "0",
		1:          "+1",
		-0.5:       "-1/2",
		1.0 / 3:    "+1/3",
		-2.0 / 3:   "-2/3",
		0.3:        "+0.3",
		-1.0000001: "-1",
	} {
		got, _ := PrintFraction(value.F64(in), nil)
		if got.Text() != want {
			t.Errorf("PrintFraction(%v) = %q, want %q", in, got.Text(), want)
		}
	}
}

func TestToDegrees(t *testing.T) {
	tests := []struct {
		name string
		in   value.Value
		want float64
	}{
		{"rationals", value.Rationals(value.Rational{Num: 35, Den: 1}, value.Rational{Num: 30, Den: 1}, value.Rational{Num: 36, Den: 1}), 35.51},
		{"text", value.String("35 deg 30' 36.00\" N"), 35.51},
		{"degrees only", value.String("12.5"), 12.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToDegrees(tt.in, nil)
			if err != nil {
				t.Fatalf("ToDegrees() error = %v", err)
			}

			if f, _ := got.Float(); math.Abs(f-tt.want) > 1e-9 {
				t.Errorf("ToDegrees() = %v, want %v", f, tt.want)
			}
		})
	}

	if got, _ := ToDegrees(value.String("none"), nil); got.Text() != "" {
		t.Errorf("ToDegrees(none) = %q, want empty", got.Text())
	}
}

func TestToDMS(t *testing.T) {
	tests := []struct {
		val     float64
		printed bool
		ref     string
		want    string
	}{
		{35.51, true, "N", `35 deg 30' 36.00" N`},
		{-35.51, true, "N", `35 deg 30' 36.00" S`},
		{-122.25, true, "E", `122 deg 15' 0.00" W`},
		{10.999999, true, "", `11 deg 0' 0.00"`},
		{-1.5, false, "", "-1 30 0.00000000"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := ToDMS(value.F64(tt.val), tt.printed, tt.ref).Text(); got != tt.want {
				t.Errorf("ToDMS(%v) = %q, want %q", tt.val, got, tt.want)
			}
		})
	}
}

func TestConvertDuration(t *testing.T) {
	for in, want := range map[float64]string{
		0:      "0 s",
		12.346: "12.35 s",
		-5:     "-5.00 s",
		83:     "0:01:23",
		90061:  "1 days 1:01:01",
	} {
		got, _ := ConvertDuration(value.F64(in), nil)
		if got.Text() != want {
			t.Errorf("ConvertDuration(%v) = %q, want %q", in, got.Text(), want)
		}
	}
}

func TestConvertUnixTime(t *testing.T) {
	got, _ := ConvertUnixTime(value.I64(1700000000), nil)
	if got.Text() != "2023:11:14 22:13:20" {
		t.Errorf("ConvertUnixTime() = %q", got.Text())
	}
}

func TestConvertDateTime(t *testing.T) {
	got, _ := ConvertDateTime(value.String("2024-05-01T10:00:00Z"), nil)
	if got.Text() != "2024:05:01 10:00:00Z" {
		t.Errorf("ConvertDateTime() = %q", got.Text())
	}

	got, _ = ConvertDateTime(value.String("yesterday"), nil)
	if got.Text() != "yesterday" {
		t.Errorf("ConvertDateTime() = %q, want passthrough", got.Text())
	}
}

func TestCanonEv(t *testing.T) {
	for in, want := range map[int64]float64{0x20: 1, 0x2c: 1 + 1.0/3, -0x34: -(1 + 2.0/3), 0x10: 0.5} {
		got, _ := CanonEv(value.I64(in), nil)
		if f, _ := got.Float(); math.Abs(f-want) > 1e-9 {
			t.Errorf("CanonEv(%#x) = %v, want %v", in, f, want)
		}
	}
}

func TestScaleFactor35efl(t *testing.T) {
	empty := value.Empty()

	tests := []struct {
		name string
		vals []value.Value
		want float64
	}{
		{
			"focal lengths",
			[]value.Value{value.F64(50), value.F64(75)},
			1.5,
		},
		{
			"sensor size",
			[]value.Value{value.F64(50), empty, value.F64(36), value.F64(24)},
			1,
		},
		{
			"extracted fallback",
			[]value.Value{value.F64(50), empty, empty, empty, empty, empty, empty, empty, empty, value.F64(1.6)},
			1.6,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ScaleFactor35efl(tt.vals, nil, nil, nil)
			if err != nil {
				t.Fatalf("ScaleFactor35efl() error = %v", err)
			}

			if f, _ := got.Float(); math.Abs(f-tt.want) > 1e-4 {
				t.Errorf("ScaleFactor35efl() = %v, want %v", f, tt.want)
			}
		})
	}

	if _, err := ScaleFactor35efl([]value.Value{value.F64(50)}, nil, nil, nil); !errors.Is(err, ErrDeclined) {
		t.Errorf("ScaleFactor35efl(focal only) error = %v, want ErrDeclined", err)
	}
}

func TestFocalLength35efl(t *testing.T) {
	vals := []value.Value{value.F64(50), value.F64(1.5)}

	got, err := FocalLength35efl(vals, nil, nil, nil)
	if err != nil {
		t.Fatal(err)
	}

	if got.Text() != "75" {
		t.Errorf("FocalLength35efl() = %q, want 75", got.Text())
	}

	if p := PrintFocalLength35efl(got, vals, nil, nil, nil).Text(); p != "50.0 mm (35 mm equivalent: 75.0 mm)" {
		t.Errorf("PrintFocalLength35efl() = %q", p)
	}

	got, _ = FocalLength35efl([]value.Value{value.F64(50), value.Empty()}, nil, nil, nil)
	if p := PrintFocalLength35efl(got, []value.Value{value.F64(50)}, nil, nil, nil).Text(); p != "50.0 mm" {
		t.Errorf("PrintFocalLength35efl(no factor) = %q", p)
	}
}

func TestLightValue(t *testing.T) {
	vals := []value.Value{value.F64(4), value.F64(1.0 / 100), value.Empty()}
	prts := []value.Value{value.String("4.0"), value.String("1/100"), value.String("100")}

	got, err := LightValue(vals, prts, nil, nil)
	if err != nil {
		t.Fatal(err)
	}

	if f, _ := got.Float(); math.Abs(f-math.Log2(1600)) > 1e-9 {
		t.Errorf("LightValue() = %v", f)
	}

	if _, err := LightValue(vals, []value.Value{{}, {}, value.String("n/a")}, nil, nil); !errors.Is(err, ErrDeclined) {
		t.Errorf("LightValue(bad iso) error = %v", err)
	}
}

func TestImageSize_Megapixels(t *testing.T) {
	size, err := ImageSize([]value.Value{value.U16(6000), value.U16(4000)}, nil, nil, nil)
	if err != nil || size.Text() != "6000 4000" {
		t.Fatalf("ImageSize() = %q, %v", size.Text(), err)
	}

	mp, err := Megapixels([]value.Value{size}, nil, nil, nil)
	if err != nil {
		t.Fatal(err)
	}

	if p := PrintMegapixels(mp, nil, nil, nil, nil).Text(); p != "24.0" {
		t.Errorf("PrintMegapixels() = %q", p)
	}

	if _, err := ImageSize([]value.Value{value.U16(6000)}, nil, nil, nil); !errors.Is(err, ErrDeclined) {
		t.Errorf("ImageSize(width only) error = %v", err)
	}
}

func TestFOV(t *testing.T) {
	got, err := FOV([]value.Value{value.F64(50), value.F64(1)}, nil, nil, nil)
	if err != nil {
		t.Fatal(err)
	}

	if p := PrintFOV(got, nil, nil, nil, nil).Text(); p != "39.6 deg" {
		t.Errorf("PrintFOV() = %q", p)
	}
}

func TestPrintLensID(t *testing.T) {
	canon := &Context{Make: "Canon"}
	if got := PrintLensID(value.U16(1), nil, nil, nil, canon).Text(); got != "Canon EF 50mm f/1.8" {
		t.Errorf("PrintLensID(canon) = %q", got)
	}

	if got := PrintLensID(value.U16(1), nil, nil, nil, &Context{Make: "Leica"}).Text(); got != "Unknown (1)" {
		t.Errorf("PrintLensID(leica) = %q", got)
	}
}

func TestFunctionID(t *testing.T) {
	id, err := ParseFunctionID("Image::ExifTool::GPS::ToDMS")
	if err != nil {
		t.Fatal(err)
	}

	if id.Module() != "Image::ExifTool::GPS" || id.Name() != "ToDMS" {
		t.Errorf("ParseFunctionID() = %q %q", id.Module(), id.Name())
	}

	for _, bad := range []string{"ToDMS", "GPS::", "::ToDMS", "GPS::To DMS", "1GPS::x"} {
		if _, err := ParseFunctionID(bad); !errors.Is(err, ErrFunctionID) {
			t.Errorf("ParseFunctionID(%q) error = %v, want ErrFunctionID", bad, err)
		}
	}

	var u FunctionID
	if err := u.UnmarshalText([]byte("Exif::PrintFNumber")); err != nil || u.String() != "Exif::PrintFNumber" {
		t.Errorf("UnmarshalText() = %v, %v", u, err)
	}

	if !Missing.IsMissing() || (FunctionID{}).String() != "" {
		t.Error("Missing or zero id misbehaves")
	}
}

func TestRegistry_Helpers(t *testing.T) {
	names := Default().Helpers()

	if !slices.IsSorted(names) {
		t.Errorf("Helpers() not sorted: %v", names)
	}

	for _, want := range []string{"Exif::PrintExposureTime", "GPS::ToDMS", "Exif::CalculateLV"} {
		if !slices.Contains(names, want) {
			t.Errorf("Helpers() lacks %s", want)
		}
	}
}

func TestRegistry(t *testing.T) {
	r := Default()

	fn, ok := r.Scalar(MustFunctionID("Exif", "PrintExposureTime"))
	if !ok {
		t.Fatal("PrintExposureTime not registered")
	}

	if got, _ := fn(value.Rat(1, 2000), nil); got.Text() != "1/2000" {
		t.Errorf("PrintExposureTime() = %q", got.Text())
	}

	in := value.String("unchanged")
	if got, _ := r.ScalarOrMissing(MustFunctionID("Nope", "Nothing"))(in, nil); !got.Equal(in) {
		t.Errorf("missing passthrough = %v", got)
	}

	for _, name := range []string{"Image::ExifTool::Exif::PrintFNumber", "Exif::PrintFNumber", "PrintFNumber"} {
		h, ok := r.Helper(name)
		if !ok {
			t.Errorf("Helper(%q) not found", name)

			continue
		}

		if got, _ := h(nil, []value.Value{value.F64(2.8)}); got.Text() != "2.8" {
			t.Errorf("Helper(%q)() = %q", name, got.Text())
		}
	}

	if _, ok := r.Helper("Nope::PrintFNumber"); ok {
		t.Error("qualified lookup must not fall back to the bare name")
	}

	h, _ := r.Helper("ToDMS")
	if got, _ := h(nil, []value.Value{value.F64(-35.51), value.I64(1), value.String("N")}); got.Text() != `35 deg 30' 36.00" S` {
		t.Errorf("ToDMS helper = %q", got.Text())
	}

	if err := r.RegisterScalar(Missing, passthrough); !errors.Is(err, ErrDuplicate) {
		t.Errorf("RegisterScalar(duplicate) error = %v", err)
	}

	if ids := r.IDs(); len(ids) == 0 || ids[0].String() > ids[len(ids)-1].String() {
		t.Errorf("IDs() not sorted: %v", ids)
	}
}
