package cmd

import (
	"errors"
	"strings"
	"testing"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/metaconv/composite"
)

const poolDocument = "ExposureTime: 0.0005\nFNumber: 2.8\nISO: 100\nFocalLength: 50\nScaleFactor35efl: 1.5\n"

type decodedResult struct {
	File  string `yaml:"file"`
	Built map[string]struct {
		Prt  any `yaml:"prt"`
		Pass int `yaml:"pass"`
	} `yaml:"built"`
	Tags         map[string]any `yaml:"tags"`
	Unresolvable map[string]struct {
		Missing []string `yaml:"missing"`
	} `yaml:"unresolvable"`
}

func newResolve(format string, files ...string) *Resolve {
	return &Resolve{
		Files:     files,
		Format:    format,
		MaxPasses: composite.DefaultMaxPasses,
		Native:    true,
	}
}

func TestResolveYAML(t *testing.T) {
	t.Parallel()

	for _, format := range []string{"yaml", "json"} {
		t.Run(format, func(t *testing.T) {
			t.Parallel()

			doc := writeTemp(t, "pool.yaml", poolDocument)
			ctx, buf := testContext(t)

			if err := newResolve(format, doc).Run(ctx); err != nil {
				t.Fatalf("Resolve.Run() error = %v", err)
			}

			var results []decodedResult
			if err := yaml.Unmarshal(buf.Bytes(), &results); err != nil {
				t.Fatalf("output is not %s: %v\n%s", format, err, buf)
			}

			if len(results) != 1 || results[0].File != doc {
				t.Fatalf("results = %+v", results)
			}

			built := results[0].Built
			if got := built["ShutterSpeed"].Prt; got != "1/2000" {
				t.Errorf("ShutterSpeed = %v, want 1/2000", got)
			}

			if _, ok := built["Aperture"]; !ok {
				t.Errorf("Aperture not built: %+v", built)
			}

			if results[0].Tags != nil {
				t.Errorf("tags reported without --all: %v", results[0].Tags)
			}
		})
	}
}

func TestResolveText(t *testing.T) {
	t.Parallel()

	doc := writeTemp(t, "pool.yaml", "ExposureTime: 0.0005\n")
	ctx, buf := testContext(t)

	r := newResolve("text", doc)
	r.All = true

	if err := r.Run(ctx); err != nil {
		t.Fatalf("Resolve.Run() error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{doc, "ExposureTime", "ShutterSpeed", "1/2000", "missing", "Coverage", "runs:"} {
		if !strings.Contains(out, want) {
			t.Errorf("Resolve.Run() output lacks %q:\n%s", want, out)
		}
	}
}

func TestResolveTagFilter(t *testing.T) {
	t.Parallel()

	doc := writeTemp(t, "pool.yaml", poolDocument)
	ctx, buf := testContext(t)

	r := newResolve("yaml", doc)
	r.Tag = []string{"Aperture"}

	if err := r.Run(ctx); err != nil {
		t.Fatalf("Resolve.Run() error = %v", err)
	}

	var results []decodedResult
	if err := yaml.Unmarshal(buf.Bytes(), &results); err != nil {
		t.Fatal(err)
	}

	if len(results) != 1 || len(results[0].Built) != 1 {
		t.Fatalf("results = %+v, want only Aperture", results)
	}

	if _, ok := results[0].Built["Aperture"]; !ok {
		t.Errorf("built = %+v, want Aperture", results[0].Built)
	}
}

func TestResolveUnknownTag(t *testing.T) {
	t.Parallel()

	ctx, _ := testContext(t)

	r := newResolve("text", writeTemp(t, "pool.yaml", poolDocument))
	r.Tag = []string{"Shutterspeed"}

	if err := r.Run(ctx); !errors.Is(err, ErrUnknownComposite) {
		t.Errorf("Resolve.Run() error = %v, want ErrUnknownComposite", err)
	}
}

func TestResolveBadDocument(t *testing.T) {
	t.Parallel()

	ctx, _ := testContext(t)

	if err := newResolve("text", writeTemp(t, "pool.yaml", "- a\n- b\n")).Run(ctx); err == nil {
		t.Error("Resolve.Run() with a list document error = nil")
	}
}
