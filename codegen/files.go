package codegen

import (
	"bytes"
	"cmp"
	"fmt"
	"go/format"
	"log/slog"
	"maps"
	"path"
	"slices"
	"strings"

	"github.com/ardnew/metaconv/pkg"
)

// File is one generated source file.
type File struct {
	Path    string
	Content []byte
}

// Layout places generated files.
type Layout struct {
	// Dir is the directory of every file, relative to the output root.
	Dir string
	// Package is the Go package name.
	Package string
}

// DefaultLayout writes package functions into functions/.
var DefaultLayout = Layout{Dir: "functions", Package: "functions"}

const header = "// Code generated by " + pkg.Name + "; DO NOT EDIT.\n\n"

// GenerateFunctionFiles emits the compiled functions with [DefaultLayout].
func (r *Registry) GenerateFunctionFiles() ([]File, error) {
	return r.Generate(DefaultLayout)
}

// Generate emits one file per hash bucket, named for the bucket, holding
// every compiled function whose name starts with it, and a registry.go
// mapping names to functions, sources, and the tags that use them. Files
// are returned in path order.
func (r *Registry) Generate(layout Layout) ([]File, error) {
	buckets := make(map[string][]*FunctionSpec)

	var compiled []*FunctionSpec

	for _, s := range r.Specs() {
		if s.Compiled() {
			buckets[s.Bucket()] = append(buckets[s.Bucket()], s)
			compiled = append(compiled, s)
		}
	}

	var files []File

	for _, b := range slices.Sorted(maps.Keys(buckets)) {
		f, err := bucketFile(layout, b, buckets[b])
		if err != nil {
			return nil, err
		}

		files = append(files, f)
	}

	f, err := registryFile(layout, compiled)
	if err != nil {
		return nil, err
	}

	files = append(files, f)

	slices.SortFunc(files, func(a, b File) int { return cmp.Compare(a.Path, b.Path) })

	r.logger.Debug("generated function files",
		slog.Int("files", len(files)),
		slog.Int("functions", len(compiled)),
	)

	return files, nil
}

func bucketFile(layout Layout, bucket string, specs []*FunctionSpec) (File, error) {
	var buf bytes.Buffer

	imports := make(map[string]bool)
	for _, s := range specs {
		for _, p := range s.Imports {
			imports[p] = true
		}
	}

	buf.WriteString(header)
	fmt.Fprintf(&buf, "package %s\n\n", layout.Package)
	writeImports(&buf, slices.Sorted(maps.Keys(imports)))

	for _, s := range specs {
		writeDoc(&buf, s)
		fmt.Fprintf(&buf, "func %s(f *interp.Frame) value.Value {\n%s\n}\n\n", s.Name, s.Body)
	}

	return formatFile(path.Join(layout.Dir, "fn_"+bucket+".go"), buf.Bytes())
}

func registryFile(layout Layout, specs []*FunctionSpec) (File, error) {
	var buf bytes.Buffer

	buf.WriteString(header)
	fmt.Fprintf(&buf, "package %s\n\n", layout.Package)
	writeImports(&buf, []string{importInterp, importValue})

	buf.WriteString("// Func evaluates a generated conversion in a frame.\n")
	buf.WriteString("type Func func(*interp.Frame) value.Value\n\n")

	buf.WriteString("// Functions maps generated function names to implementations.\n")
	buf.WriteString("var Functions = map[string]Func{\n")

	for _, s := range specs {
		fmt.Fprintf(&buf, "%q: %s,\n", s.Name, s.Name)
	}

	buf.WriteString("}\n\n")

	buf.WriteString("// Sources maps generated function names to canonical expressions.\n")
	buf.WriteString("var Sources = map[string]string{\n")

	for _, s := range specs {
		fmt.Fprintf(&buf, "%q: %q,\n", s.Name, s.Canonical)
	}

	buf.WriteString("}\n\n")

	uses := make(map[string]string)
	for _, s := range specs {
		for _, u := range s.Uses {
			uses[u] = s.Name
		}
	}

	buf.WriteString("// Tags maps \"Module::Tag.Kind\" to the function it uses.\n")
	buf.WriteString("var Tags = map[string]string{\n")

	for _, u := range slices.Sorted(maps.Keys(uses)) {
		fmt.Fprintf(&buf, "%q: %q,\n", u, uses[u])
	}

	buf.WriteString("}\n")

	return formatFile(path.Join(layout.Dir, "registry.go"), buf.Bytes())
}

func writeImports(buf *bytes.Buffer, imports []string) {
	buf.WriteString("import (\n")

	for _, p := range imports {
		fmt.Fprintf(buf, "%q\n", p)
	}

	buf.WriteString(")\n\n")
}

func writeDoc(buf *bytes.Buffer, s *FunctionSpec) {
	kinds := make([]string, len(s.Kinds))
	for i, k := range s.Kinds {
		kinds[i] = k.String()
	}

	fmt.Fprintf(buf, "// %s implements the %s expression:\n//\n", s.Name, strings.Join(kinds, "/"))
	writeQuoted(buf, s.Canonical)

	var others []string
	for _, o := range s.Originals {
		if o != s.Canonical {
			others = append(others, o)
		}
	}

	if len(others) > 0 {
		buf.WriteString("//\n// Also written as:\n//\n")

		for _, o := range others {
			writeQuoted(buf, o)
		}
	}
}

func writeQuoted(buf *bytes.Buffer, text string) {
	for line := range strings.SplitSeq(strings.TrimSpace(text), "\n") {
		fmt.Fprintf(buf, "//\t%s\n", strings.TrimRight(line, " \t\r"))
	}
}

func formatFile(name string, src []byte) (File, error) {
	out, err := format.Source(src)
	if err != nil {
		return File{}, ErrFormat.Wrap(err).With(slog.String("path", name))
	}

	return File{Path: name, Content: out}, nil
}
