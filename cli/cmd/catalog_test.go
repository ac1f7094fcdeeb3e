package cmd

import (
	"errors"
	"strings"
	"testing"

	"github.com/ardnew/metaconv/composite"
)

func TestCatalogRun(t *testing.T) {
	t.Parallel()

	ctx, buf := testContext(t)

	if err := (&Catalog{Name: []string{"Megapixels"}}).Run(ctx); err != nil {
		t.Fatalf("Catalog.Run() error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{"Megapixels", "require:", "ImageSize", "value:", "Image::ExifTool::Composite::Megapixels($val)"} {
		if !strings.Contains(out, want) {
			t.Errorf("Catalog.Run() output lacks %q:\n%s", want, out)
		}
	}
}

func TestCatalogRun_PrintsDefinitionSource(t *testing.T) {
	t.Parallel()

	ctx, buf := testContext(t)

	if err := (&Catalog{Name: []string{"Megapixels", "ShutterSpeed"}}).Run(ctx); err != nil {
		t.Fatalf("Catalog.Run() error = %v", err)
	}

	for _, name := range []string{"Megapixels", "ShutterSpeed"} {
		for _, def := range composite.DefaultCatalog().Lookup(name) {
			for _, src := range []string{def.ValueConv, def.PrintConv} {
				if !strings.Contains(buf.String(), src) {
					t.Errorf("Catalog.Run() output lacks %s source %q", name, src)
				}
			}
		}
	}
}

func TestCatalogAll(t *testing.T) {
	t.Parallel()

	ctx, buf := testContext(t)

	if err := (&Catalog{}).Run(ctx); err != nil {
		t.Fatalf("Catalog.Run() error = %v", err)
	}

	for _, name := range composite.DefaultCatalog().Names() {
		if !strings.Contains(buf.String(), name) {
			t.Errorf("Catalog.Run() output lacks %s", name)
		}
	}
}

func TestCatalogUnknown(t *testing.T) {
	t.Parallel()

	ctx, _ := testContext(t)

	err := (&Catalog{Name: []string{"Megapixel"}}).Run(ctx)
	if !errors.Is(err, ErrUnknownComposite) {
		t.Fatalf("Catalog.Run() error = %v, want ErrUnknownComposite", err)
	}
}
