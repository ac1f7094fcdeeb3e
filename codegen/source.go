package codegen

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/klauspost/readahead"
	"github.com/pelletier/go-toml"

	"github.com/ardnew/metaconv/pkg"
	"github.com/ardnew/metaconv/registry"
)

// Format is the encoding of a tag definition source.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// FormatOf returns the format implied by a file extension.
func FormatOf(name string) (Format, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	}

	return "", ErrSourceFormat.With(slog.String("path", name))
}

// Source is a set of tag definition tables.
type Source struct {
	Tables []Table `yaml:"tables" toml:"tables"`
}

// Table is the tag definitions of one module, such as Exif or Canon.
type Table struct {
	Module string   `yaml:"module" toml:"module"`
	Tags   []TagDef `yaml:"tags"   toml:"tags"`
}

// TagDef is one tag and its conversion expressions. Empty expressions
// are absent.
type TagDef struct {
	Name      string `yaml:"name"       toml:"name"`
	ID        string `yaml:"id"         toml:"id"`
	Condition string `yaml:"condition"  toml:"condition"`
	ValueConv string `yaml:"value_conv" toml:"value_conv"`
	PrintConv string `yaml:"print_conv" toml:"print_conv"`
}

// Expr returns the expression of kind.
func (d TagDef) Expr(kind registry.Kind) string {
	switch kind {
	case registry.KindValueConv:
		return d.ValueConv
	case registry.KindPrintConv:
		return d.PrintConv
	case registry.KindCondition:
		return d.Condition
	}

	return ""
}

// Load decodes a source in format from r.
func Load(r io.Reader, format Format) (*Source, error) {
	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return nil, ErrReadSource.Wrap(err)
	}

	var (
		src Source
		dec func([]byte, any) error
	)

	switch format {
	case FormatYAML:
		dec = yaml.Unmarshal
	case FormatTOML:
		dec = toml.Unmarshal
	default:
		return nil, ErrSourceFormat.With(slog.String("format", string(format)))
	}

	if err := dec(data, &src); err != nil {
		return nil, ErrDecodeSource.Wrap(err).With(slog.String("format", string(format)))
	}

	return &src, nil
}

// LoadFile decodes the source at path, choosing the format by extension.
func LoadFile(path string) (*Source, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, ErrReadSource.Wrap(err).With(slog.String("path", path))
	}
	defer f.Close()

	src, err := Load(f, format)
	if err != nil {
		return nil, pkg.WrapError(err).With(slog.String("path", path))
	}

	return src, nil
}
