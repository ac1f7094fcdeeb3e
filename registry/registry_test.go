package registry

import (
	"context"
	"errors"
	"os/exec"
	"slices"
	"sync"
	"testing"

	"github.com/ardnew/metaconv/convfn"
	"github.com/ardnew/metaconv/normalize"
)

func TestClassify_Inline(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		inline string
		val    float64
		want   float64
	}{
		{"divide", "$val / 8", "(val / 8)", 16, 2},
		{"power", "2 ** ($val / 2)", "(2 ** (val / 2))", 4, 4},
		{"negate", "-$val", "(0 - val)", 3, -3},
		{"scale", "$val*25.4", "(val * 25.4)", 2, 50.8},
		{"leading dot", "$val * .5", "(val * 0.5)", 8, 4},
		{"identity", "$val", "val", 7, 7},
		{"constant", "36 / 2", "(36 / 2)", 0, 18},
	}

	c := New()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify(t.Context(), tt.src, "Exif", KindValueConv)
			if got.Route != RouteInline {
				t.Fatalf("Classify(%q) = %v, want inline", tt.src, got)
			}

			if got.Inline != tt.inline {
				t.Errorf("Inline = %q, want %q", got.Inline, tt.inline)
			}

			f, err := got.Eval(tt.val)
			if err != nil {
				t.Fatalf("Eval(%v) error: %v", tt.val, err)
			}

			if f != tt.want {
				t.Errorf("Eval(%v) = %v, want %v", tt.val, f, tt.want)
			}
		})
	}
}

func TestClassify_NotInline(t *testing.T) {
	for _, src := range []string{
		"$val[0] / 2",
		"abs($val)",
		"0x10 * $val",
		"$val % 2",
		`$val . " mm"`,
		"$$self{Make}",
	} {
		t.Run(src, func(t *testing.T) {
			if _, ok := InlineSource(normalize.Parse(src)); ok {
				t.Errorf("InlineSource(%q) accepted", src)
			}
		})
	}
}

func TestTarget_EvalNonFinite(t *testing.T) {
	got := New().Classify(t.Context(), "1 / $val", "", KindValueConv)
	if got.Route != RouteInline {
		t.Fatalf("route = %v, want inline", got.Route)
	}

	if _, err := got.Eval(0); !errors.Is(err, ErrInline) {
		t.Errorf("Eval(0) error = %v, want ErrInline", err)
	}

	missing := Target{Route: RouteMissing, Function: convfn.Missing}
	if _, err := missing.Eval(1); !errors.Is(err, ErrInline) {
		t.Errorf("Eval on missing target error = %v, want ErrInline", err)
	}
}

func TestClassify_Dispatch(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		module string
		want   convfn.FunctionID
	}{
		{"exact", "Image::ExifTool::Exif::PrintExposureTime($val)", "Exif", convfn.MustFunctionID("Exif", "PrintExposureTime")},
		{"normalized", "Image::ExifTool::Exif::PrintExposureTime( $val )", "Exif", convfn.MustFunctionID("Exif", "PrintExposureTime")},
		{"scoped", "Image::ExifTool::Canon::CanonEv($val)", "Canon", convfn.MustFunctionID("Canon", "CanonEv")},
		{"scoped normalized", "Image::ExifTool::Canon::CanonEv ( $val )", "Canon", convfn.MustFunctionID("Canon", "CanonEv")},
		{"method statement", "$self->ConvertDateTime($val)", "", convfn.MustFunctionID("ExifTool", "ConvertDateTime")},
		{"composite", "$val[0]||$val[1]", "Composite", convfn.MustFunctionID("Composite", "Aperture")},
		{"latitude", `Image::ExifTool::GPS::ToDMS($self, $val, 1, "N")`, "GPS", convfn.MustFunctionID("GPS", "PrintLatitude")},
	}

	c := New()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify(t.Context(), tt.src, tt.module, KindPrintConv)
			if got.Route != RouteDispatch || got.Function != tt.want {
				t.Errorf("Classify(%q, %q) = %v, want dispatch(%v)", tt.src, tt.module, got, tt.want)
			}
		})
	}
}

func TestClassify_ScopedOnly(t *testing.T) {
	got := New().Classify(t.Context(), "Image::ExifTool::Canon::CanonEv($val)", "Nikon", KindPrintConv)
	if got.Route != RouteMissing {
		t.Errorf("out-of-scope lookup = %v, want missing", got)
	}
}

func TestClassify_EquivalentForms(t *testing.T) {
	const (
		spacey    = `  sprintf  (  "%.1f"  ,  $val  )  `
		canonical = `sprintf("%.1f", $val)`
	)

	c := New()

	if got := c.Normalize(t.Context(), spacey); got != canonical {
		t.Errorf("Normalize(%q) = %q, want %q", spacey, got, canonical)
	}

	a := c.Classify(t.Context(), spacey, "Exif", KindPrintConv)
	b := c.Classify(t.Context(), canonical, "Exif", KindPrintConv)

	if a.Route != RouteDispatch {
		t.Fatalf("Classify(%q) = %v, want dispatch", spacey, a)
	}

	if !a.Same(b) {
		t.Errorf("targets differ: %v and %v", a, b)
	}

	if want := convfn.MustFunctionID("Print", "Decimal1"); a.Function != want {
		t.Errorf("function = %v, want %v", a.Function, want)
	}
}

func TestClassify_MissingCounted(t *testing.T) {
	stats := NewStats()
	c := New(WithStats(stats))

	const src = `$val =~ /^Canon/ ? 1 : 0`

	for range 2 {
		got := c.Classify(t.Context(), src, "Exif", KindCondition)
		if got.Route != RouteMissing || got.Function != convfn.Missing {
			t.Fatalf("Classify(%q) = %v, want missing", src, got)
		}
	}

	c.Classify(t.Context(), "$val / 2", "Exif", KindValueConv)
	c.Classify(t.Context(), "Image::ExifTool::Exif::PrintFNumber($val)", "Exif", KindPrintConv)

	if n := stats.Count(KindCondition, RouteMissing); n != 2 {
		t.Errorf("missing conditions = %d, want 2", n)
	}

	if n := stats.Count(KindValueConv, RouteInline); n != 1 {
		t.Errorf("inline value conversions = %d, want 1", n)
	}

	if n := stats.Total(RouteDispatch); n != 1 {
		t.Errorf("dispatches = %d, want 1", n)
	}

	want := []MissingExpr{{Source: src, Count: 2}}
	if got := stats.Missing(); !slices.Equal(got, want) {
		t.Errorf("Missing() = %v, want %v", got, want)
	}
}

func TestClassify_InlineDisabled(t *testing.T) {
	got := New(WithInline(false)).Classify(t.Context(), "$val / 8", "", KindValueConv)
	if got.Route != RouteMissing {
		t.Errorf("Classify with inline disabled = %v, want missing", got)
	}
}

type fakeFormatter struct {
	calls   int
	batches [][]string
	err     error
	drop    int
}

func (f *fakeFormatter) Format(_ context.Context, src string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}

	return normalize.Text(src), nil
}

func (f *fakeFormatter) FormatBatch(ctx context.Context, srcs []string) ([]string, error) {
	f.batches = append(f.batches, slices.Clone(srcs))
	if f.err != nil {
		return nil, f.err
	}

	out, _ := Native{}.FormatBatch(ctx, srcs)

	return out[:len(out)-f.drop], nil
}

func TestNormalize_Cached(t *testing.T) {
	f := &fakeFormatter{}
	cache := NewCache()
	c := New(WithFormatter(f), WithCache(cache))

	for range 3 {
		if got := c.Normalize(t.Context(), "$val/8"); got != "$val / 8" {
			t.Errorf("Normalize = %q, want %q", got, "$val / 8")
		}
	}

	if f.calls != 1 {
		t.Errorf("formatter calls = %d, want 1", f.calls)
	}

	if cache.Len() != 1 {
		t.Errorf("cache length = %d, want 1", cache.Len())
	}
}

func TestNormalize_FormatterFailure(t *testing.T) {
	const spacey = `  sprintf  (  "%.1f"  ,  $val  )  `

	f := &fakeFormatter{err: ErrFormatter}
	c := New(WithFormatter(f))

	if got := c.Normalize(t.Context(), spacey); got != spacey {
		t.Errorf("Normalize = %q, want original text", got)
	}

	if got := c.Classify(t.Context(), spacey, "", KindPrintConv); got.Route != RouteMissing {
		t.Errorf("Classify = %v, want missing", got)
	}

	if c.Cache().Len() != 0 {
		t.Error("failed normalization was cached")
	}
}

func TestNormalizeBatch(t *testing.T) {
	f := &fakeFormatter{}
	c := New(WithFormatter(f))

	c.Normalize(t.Context(), "$val*2")

	srcs := []string{"$val*2", "$val/8", "int( $val )", "$val/8"}

	got, err := c.NormalizeBatch(t.Context(), srcs)
	if err != nil {
		t.Fatalf("NormalizeBatch error: %v", err)
	}

	want := []string{"$val * 2", "$val / 8", "int($val)", "$val / 8"}
	if !slices.Equal(got, want) {
		t.Errorf("NormalizeBatch = %q, want %q", got, want)
	}

	wantBatches := [][]string{{"$val/8", "int( $val )"}}
	if !slices.EqualFunc(f.batches, wantBatches, slices.Equal) {
		t.Errorf("batches = %q, want %q", f.batches, wantBatches)
	}
}

func TestNormalizeBatch_Mismatch(t *testing.T) {
	c := New(WithFormatter(&fakeFormatter{drop: 1}))

	_, err := c.NormalizeBatch(t.Context(), []string{"$val/8", "$val*2"})
	if !errors.Is(err, ErrBatchMismatch) {
		t.Fatalf("NormalizeBatch error = %v, want ErrBatchMismatch", err)
	}

	if c.Cache().Len() != 0 {
		t.Error("mismatched batch was cached")
	}
}

func TestNormalizeBatch_FormatterFailure(t *testing.T) {
	c := New(WithFormatter(&fakeFormatter{err: ErrFormatter}))

	srcs := []string{"$val/8", "$val*2"}

	got, err := c.NormalizeBatch(t.Context(), srcs)
	if err != nil {
		t.Fatalf("NormalizeBatch error: %v", err)
	}

	if !slices.Equal(got, srcs) {
		t.Errorf("NormalizeBatch = %q, want originals", got)
	}
}

func TestSubprocess(t *testing.T) {
	if _, err := exec.LookPath("cat"); err != nil {
		t.Skip("cat not available")
	}

	p := Subprocess{Path: "cat"}

	got, err := p.Format(t.Context(), "  $val / 8\n")
	if err != nil {
		t.Fatalf("Format error: %v", err)
	}

	if got != "$val / 8" {
		t.Errorf("Format = %q, want %q", got, "$val / 8")
	}

	batch, err := p.FormatBatch(t.Context(), []string{"$val", "$val * 2", "1"})
	if err != nil {
		t.Fatalf("FormatBatch error: %v", err)
	}

	if want := []string{"$val", "$val * 2", "1"}; !slices.Equal(batch, want) {
		t.Errorf("FormatBatch = %q, want %q", batch, want)
	}
}

func TestSubprocess_Mismatch(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}

	p := Subprocess{Path: "sh", Args: []string{"-c", "echo one"}}

	if _, err := p.FormatBatch(t.Context(), []string{"a", "b"}); !errors.Is(err, ErrBatchMismatch) {
		t.Errorf("FormatBatch error = %v, want ErrBatchMismatch", err)
	}
}

func TestSubprocess_Failure(t *testing.T) {
	p := Subprocess{Path: "/nonexistent/metaconv-formatter"}

	if _, err := p.Format(t.Context(), "$val"); !errors.Is(err, ErrFormatter) {
		t.Errorf("Format error = %v, want ErrFormatter", err)
	}

	c := New(WithFormatter(p))
	if got := c.Normalize(t.Context(), "$val/8"); got != "$val/8" {
		t.Errorf("Normalize = %q, want original text", got)
	}
}

func TestCache(t *testing.T) {
	var c Cache

	if _, ok := c.Get("x"); ok {
		t.Error("Get on empty cache hit")
	}

	c.Put("x", "y")
	c.Put("x", "z")

	if got, ok := c.Get("x"); !ok || got != "z" {
		t.Errorf("Get = %q, %v, want %q, true", got, ok, "z")
	}

	if c.Len() != 1 {
		t.Errorf("Len = %d, want 1", c.Len())
	}
}

func TestDefaultTable_Registered(t *testing.T) {
	reg := convfn.Default()

	for id := range DefaultTable().Functions() {
		_, scalar := reg.Scalar(id)
		_, val := reg.Value(id)
		_, prt := reg.Print(id)

		if !scalar && !val && !prt {
			t.Errorf("table dispatches to unregistered function %v", id)
		}
	}
}

func TestParseKind(t *testing.T) {
	for k := range Kinds() {
		got, err := ParseKind(k.String())
		if err != nil || got != k {
			t.Errorf("ParseKind(%q) = %v, %v", k.String(), got, err)
		}
	}

	if got, err := ParseKind("printconv"); err != nil || got != KindPrintConv {
		t.Errorf("ParseKind(printconv) = %v, %v", got, err)
	}

	if _, err := ParseKind("Bogus"); !errors.Is(err, ErrKind) {
		t.Errorf("ParseKind(Bogus) error = %v, want ErrKind", err)
	}
}

func TestKindAndRouteNames(t *testing.T) {
	tests := []struct {
		got, want string
	}{
		{KindValueConv.String(), "ValueConv"},
		{KindCondition.String(), "Condition"},
		{(numKinds).String(), "Kind(3)"},
		{RouteInline.String(), "inline"},
		{RouteMissing.String(), "missing"},
		{Route(-1).String(), "Route(-1)"},
	}

	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("String() = %q, want %q", tt.got, tt.want)
		}
	}

	if n := slices.Collect(Kinds()); len(n) != int(numKinds) {
		t.Errorf("Kinds() = %v, want %d kinds", n, numKinds)
	}
}

func TestStats_Add(t *testing.T) {
	var a, b Stats

	a.Record(KindValueConv, Target{Route: RouteInline})
	b.Record(KindValueConv, Target{Route: RouteInline})
	b.Record(KindPrintConv, Target{Route: RouteMissing, Source: "x"})

	a.Add(&b)

	if n := a.Count(KindValueConv, RouteInline); n != 2 {
		t.Errorf("inline = %d, want 2", n)
	}

	if got := a.Missing(); len(got) != 1 || got[0].Source != "x" {
		t.Errorf("Missing() = %v", got)
	}
}

func TestStats_Concurrent(t *testing.T) {
	var (
		s, other Stats
		wg       sync.WaitGroup
	)

	for range 8 {
		wg.Go(func() {
			for range 100 {
				s.Record(KindValueConv, Target{Route: RouteInline})
				s.Record(KindPrintConv, Target{Route: RouteMissing, Source: "x"})
				other.Record(KindCondition, Target{Route: RouteDispatch})
				_ = s.Missing()
			}
		})
	}

	wg.Go(func() { s.Add(&other) })
	wg.Wait()

	if n := s.Count(KindValueConv, RouteInline); n != 800 {
		t.Errorf("inline = %d, want 800", n)
	}

	if got := s.Missing(); len(got) != 1 || got[0].Count != 800 {
		t.Errorf("Missing() = %v, want x counted 800 times", got)
	}
}
