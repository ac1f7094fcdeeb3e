package conv

import (
	"sync"
	"testing"

	"github.com/ardnew/metaconv/composite"
	"github.com/ardnew/metaconv/convfn"
	"github.com/ardnew/metaconv/registry"
	"github.com/ardnew/metaconv/value"
)

func TestTag(t *testing.T) {
	tests := []struct {
		name      string
		module    string
		valueConv string
		printConv string
		raw       value.Value
		interpret bool
		val, prt  string
	}{
		{
			name:      "dispatch print",
			module:    "Exif",
			printConv: "Image::ExifTool::Exif::PrintExposureTime($val)",
			raw:       value.Rat(1, 250),
			val:       "0.004",
			prt:       "1/250",
		},
		{
			name:      "inline value",
			module:    "Exif",
			valueConv: "2 ** ($val / 2)",
			printConv: `sprintf("%.1f",$val)`,
			raw:       value.F64(5),
			val:       value.FormatFloat(5.656854249492381),
			prt:       "5.7",
		},
		{
			name:      "scoped dispatch",
			module:    "Canon",
			valueConv: "Image::ExifTool::Canon::CanonEv($val)",
			printConv: `sprintf("%.1f", $val)`,
			raw:       value.I16(0x0c),
			val:       value.FormatFloat(1.0 / 3),
			prt:       "0.3",
		},
		{
			name:      "missing passes through",
			module:    "Exif",
			valueConv: `$val =~ s/ +$//; $val`,
			raw:       value.String("hi  "),
			val:       "hi  ",
			prt:       "hi  ",
		},
		{
			name:      "missing interpreted",
			module:    "Exif",
			valueConv: `$val =~ s/ +$//; $val`,
			raw:       value.String("hi  "),
			interpret: true,
			val:       "hi",
			prt:       "hi",
		},
		{
			name:      "inline numifies leading number",
			module:    "Exif",
			valueConv: "$val * 2",
			raw:       value.String("50 mm"),
			val:       "100",
			prt:       "100",
		},
		{
			name:      "inline numifies exponent",
			module:    "Exif",
			valueConv: "$val / 8",
			raw:       value.String(" 12.5e1 inches"),
			val:       "15.625",
			prt:       "15.625",
		},
		{
			name:      "inline on zero denominator keeps input",
			module:    "Exif",
			valueConv: "$val * 2",
			raw:       value.Rat(1, 0),
			val:       "inf",
			prt:       "inf",
		},
		{
			name:      "inline on text keeps input",
			module:    "Exif",
			valueConv: "$val * 2",
			raw:       value.String("n/a"),
			val:       "n/a",
			prt:       "n/a",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cv := New(WithInterpreter(tt.interpret))

			e := cv.Tag(t.Context(), tt.module, tt.valueConv, tt.printConv, tt.raw, nil)

			if got := e.Val.Text(); got != tt.val {
				t.Errorf("val = %q, want %q", got, tt.val)
			}

			if got := e.Prt.Text(); got != tt.prt {
				t.Errorf("prt = %q, want %q", got, tt.prt)
			}

			if !e.Raw.Equal(tt.raw) {
				t.Errorf("raw = %v, want %v", e.Raw, tt.raw)
			}
		})
	}
}

func TestCondition(t *testing.T) {
	cv := New()
	ctx := &convfn.Context{Make: "Canon", Model: "Canon EOS R5"}

	if !cv.Condition(t.Context(), "Canon", `$$self{Model} =~ /EOS/`, value.Empty(), ctx) {
		t.Error("EOS condition false")
	}

	if cv.Condition(t.Context(), "Canon", `$$self{Model} =~ /PowerShot/`, value.Empty(), ctx) {
		t.Error("PowerShot condition true")
	}

	if !cv.Condition(t.Context(), "Canon", "", value.Empty(), ctx) {
		t.Error("empty condition false")
	}

	if n := cv.Classifier().Stats().Count(registry.KindCondition, registry.RouteMissing); n != 2 {
		t.Errorf("conditions counted = %d, want 2", n)
	}
}

func TestCatalogClassifies(t *testing.T) {
	c := registry.New()

	for _, def := range composite.DefaultCatalog() {
		for kind, src := range map[registry.Kind]string{
			registry.KindValueConv: def.ValueConv,
			registry.KindPrintConv: def.PrintConv,
		} {
			if src == "" {
				continue
			}

			if tg := c.Classify(t.Context(), src, CompositeModule, kind); tg.Route == registry.RouteMissing {
				t.Errorf("%s %s %q has no implementation", def.Name, kind, src)
			}
		}
	}
}

func samplePool() composite.Pool {
	p := composite.Pool{}
	p.SetValue("FNumber", value.F64(2.8))
	p.SetValue("ExposureTime", value.Rat(1, 250))
	p.SetValue("ISO", value.U16(200))
	p.SetValue("FocalLength", value.F64(35))
	p.SetValue("FocalLengthIn35mmFormat", value.U16(52))
	p.SetValue("FocusDistance", value.F64(2.5))
	p.SetValue("ExifImageWidth", value.U32(6000))
	p.SetValue("ExifImageHeight", value.U32(4000))
	p.SetValue("EXIF:GPSLatitude", value.F64(51.5))
	p.SetValue("EXIF:GPSLatitudeRef", value.String("N"))
	p.SetValue("EXIF:GPSLongitude", value.F64(0.125))
	p.SetValue("EXIF:GPSLongitudeRef", value.String("W"))
	p.SetValue("GPS:GPSAltitude", value.F64(35.27))
	p.SetValue("GPS:GPSAltitudeRef", value.U8(0))

	return p
}

func TestApplierAgreesWithEvaluator(t *testing.T) {
	native, interpreted := samplePool(), samplePool()

	nr, err := composite.NewResolver(composite.WithApplier(New())).Resolve(t.Context(), native)
	if err != nil {
		t.Fatal(err)
	}

	ir, err := composite.NewResolver().Resolve(t.Context(), interpreted)
	if err != nil {
		t.Fatal(err)
	}

	if len(nr.Built) == 0 {
		t.Fatal("nothing built")
	}

	for _, o := range nr.Built {
		io, ok := ir.Outcome(o.Name)
		if !ok || io.State != composite.Built {
			t.Errorf("%s built natively but not interpreted", o.Name)

			continue
		}

		if o.Entry.Val.Text() != io.Entry.Val.Text() {
			t.Errorf("%s val: native %q, interpreted %q", o.Name, o.Entry.Val.Text(), io.Entry.Val.Text())
		}

		if o.Entry.Prt.Text() != io.Entry.Prt.Text() {
			t.Errorf("%s prt: native %q, interpreted %q", o.Name, o.Entry.Prt.Text(), io.Entry.Prt.Text())
		}
	}

	if len(nr.Built) != len(ir.Built) {
		t.Errorf("built native %v, interpreted %v", nr.BuiltNames(), ir.BuiltNames())
	}
}

func TestApplierScenarios(t *testing.T) {
	cv := New()
	r := composite.NewResolver(composite.WithApplier(cv))

	pool := composite.Pool{}
	pool.SetValue("ExposureTime", value.F64(0.0005))

	if _, err := r.Resolve(t.Context(), pool); err != nil {
		t.Fatal(err)
	}

	if got := pool["Composite:ShutterSpeed"].Prt.Text(); got != "1/2000" {
		t.Errorf("ShutterSpeed = %q, want 1/2000", got)
	}

	pool = composite.Pool{}
	pool.SetValue("FocalLength", value.F64(50))
	pool.SetValue("ScaleFactor35efl", value.F64(1.5))

	report, err := r.Resolve(t.Context(), pool)
	if err != nil {
		t.Fatal(err)
	}

	o, _ := report.Outcome("FocalLength35efl")
	if f, _ := o.Entry.Val.Float(); o.State != composite.Built || f != 75 {
		t.Errorf("FocalLength35efl = %+v", o)
	}

	if n := cv.Classifier().Stats().Total(registry.RouteMissing); n != 0 {
		t.Errorf("missing conversions = %d, want 0", n)
	}
}

func TestResolver_ConcurrentPoolsShareConverter(t *testing.T) {
	cv := New()
	stats := composite.NewStats()
	r := composite.NewResolver(composite.WithApplier(cv), composite.WithStats(stats))

	var wg sync.WaitGroup

	for range 8 {
		wg.Go(func() {
			pool := samplePool()

			if _, err := r.Resolve(t.Context(), pool); err != nil {
				t.Errorf("Resolve() error = %v", err)

				return
			}

			if got := pool["Composite:ShutterSpeed"].Prt.Text(); got != "1/250" {
				t.Errorf("ShutterSpeed = %q, want 1/250", got)
			}
		})
	}

	wg.Wait()

	if stats.Runs() != 8 {
		t.Errorf("runs = %d, want 8", stats.Runs())
	}

	cs := cv.Classifier().Stats()
	if n := cs.Total(registry.RouteInline) + cs.Total(registry.RouteDispatch); n == 0 {
		t.Error("no conversions counted")
	}
}

func TestShutterSpeed_ZeroDenominatorExposure(t *testing.T) {
	appliers := map[string]composite.Applier{
		"native":      New(),
		"interpreted": New(WithInterpreter(true)),
		"evaluator":   &composite.Evaluator{},
	}

	for name, a := range appliers {
		t.Run(name, func(t *testing.T) {
			pool := composite.Pool{}
			pool.SetValue("EXIF:ExposureTime", value.Rat(1, 0))

			report, err := composite.NewResolver(composite.WithApplier(a)).Resolve(t.Context(), pool)
			if err != nil {
				t.Fatal(err)
			}

			if o, ok := report.Outcome("ShutterSpeed"); ok && o.State == composite.Built {
				t.Errorf("ShutterSpeed built from 1/0: val %q, prt %q", o.Entry.Val.Text(), o.Entry.Prt.Text())
			}

			if _, ok := pool["Composite:ShutterSpeed"]; ok {
				t.Error("Composite:ShutterSpeed stored in pool")
			}
		})
	}
}

func TestApplierDeclines(t *testing.T) {
	cv := New()
	def := &composite.Definition{Name: "Size", Desire: []string{"W"}, ValueConv: "Image::ExifTool::Composite::Megapixels($val)"}

	_, _, err := cv.Apply(t.Context(), def, composite.Input{Vals: []value.Value{value.String("none")}})
	if err == nil {
		t.Error("Apply() error = nil")
	}

	def = &composite.Definition{Name: "Copy", Desire: []string{"W"}}

	val, prt, err := cv.Apply(t.Context(), def, composite.Input{Vals: []value.Value{value.F64(4)}})
	if err != nil || val.Text() != "4" || prt.Text() != "4" {
		t.Errorf("Apply() = %v, %v, %v", val, prt, err)
	}
}
