package cmd

import (
	"bufio"
	"context"
	"io"
	"iter"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/ardnew/metaconv/conv"
	"github.com/ardnew/metaconv/log"
	"github.com/ardnew/metaconv/registry"
)

// ContextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

// Globals are the settings shared by every command.
type Globals struct {
	// Interpret evaluates expressions that have no native implementation.
	Interpret bool

	// Formatter is an external normalization command and its arguments.
	// Empty selects the native normalizer.
	Formatter []string

	// Out receives command output. Nil selects os.Stdout.
	Out io.Writer

	Logger log.Logger
}

type globalsKey struct{}

// WithGlobals returns a new context.Context carrying g.
func WithGlobals(ctx context.Context, g *Globals) context.Context {
	return context.WithValue(ctx, globalsKey{}, g)
}

func globalsFrom(ctx context.Context) *Globals {
	g, ok := ctx.Value(globalsKey{}).(*Globals)
	if !ok || g == nil {
		return &Globals{Logger: log.Default()}
	}

	return g
}

func (g *Globals) out() io.Writer {
	if g.Out == nil {
		return os.Stdout
	}

	return g.Out
}

// classifier returns a new classifier using the configured formatter.
func (g *Globals) classifier() *registry.Classifier {
	opts := []registry.Option{registry.WithLogger(g.Logger)}

	if len(g.Formatter) > 0 {
		opts = append(opts, registry.WithFormatter(registry.Subprocess{
			Path: g.Formatter[0],
			Args: g.Formatter[1:],
		}))
	}

	return registry.New(opts...)
}

// converter returns a new converter over c.
func (g *Globals) converter(c *registry.Classifier) *conv.Converter {
	return conv.New(
		conv.WithClassifier(c),
		conv.WithLogger(g.Logger),
		conv.WithInterpreter(g.Interpret),
	)
}

type (
	sourceFilesKey struct{}

	// SourceFiles reads expression files, one expression per line.
	SourceFiles interface {
		IsZero() bool
		Lines() iter.Seq[string]
	}

	sourceFiles struct {
		read     []io.Reader
		hasStdin bool
	}
)

// IsZero reports whether there are no source files.
func (s *sourceFiles) IsZero() bool { return len(s.read) == 0 && !s.hasStdin }

// Lines yields the non-blank lines of every source in order, stdin last.
// Lines starting with "#" are skipped.
func (s *sourceFiles) Lines() iter.Seq[string] {
	return func(yield func(string) bool) {
		readers := s.read
		if s.hasStdin {
			readers = append(readers, os.Stdin)
		}

		sc := bufio.NewScanner(io.MultiReader(readers...))
		for sc.Scan() {
			line := strings.TrimSpace(sc.Text())
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}

			if !yield(line) {
				return
			}
		}
	}
}

// fileKey uniquely identifies a file by its device and inode numbers.
// This handles deduplication across symlinks, absolute/relative paths, and
// special device files.
type fileKey struct {
	dev uint64
	ino uint64
}

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// WithSourceFiles returns a new context.Context containing the expression
// files named by sources.
//
// Files are deduplicated by resolving symlinks and comparing device/inode
// pairs. All occurrences of "-" are replaced with a single stdin reader
// placed last.
func WithSourceFiles(ctx context.Context, sources []string) context.Context {
	return context.WithValue(ctx, sourceFilesKey{}, buildSourceFiles(sources))
}

func buildSourceFiles(sources []string) SourceFiles {
	if len(sources) == 0 {
		return nil
	}

	var srcs sourceFiles

	srcs.read = make([]io.Reader, 0, len(sources))
	seen := make(map[fileKey]struct{})

	stdinInfo, _ := os.Stdin.Stat()
	stdinKey, _ := makeFileKey(stdinInfo)

	for _, src := range sources {
		if src == stdinSource {
			seen[stdinKey] = struct{}{}

			continue
		}

		reader, ok := openUniqueFile(src, seen)
		if !ok {
			continue
		}

		srcs.read = append(srcs.read, reader)
	}

	// Stdin may have been named directly or as "-".
	_, srcs.hasStdin = seen[stdinKey]
	delete(seen, stdinKey)

	if srcs.IsZero() {
		return nil
	}

	return &srcs
}

// openUniqueFile opens the file at path unless a file with the same
// device and inode was already opened.
func openUniqueFile(path string, seen map[fileKey]struct{}) (io.Reader, bool) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, false
	}

	resolved, err := filepath.EvalSymlinks(absPath)
	if err != nil {
		return nil, false
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return nil, false
	}

	key, ok := makeFileKey(info)
	if !ok {
		return nil, false
	}

	if _, exists := seen[key]; exists {
		return nil, false
	}

	seen[key] = struct{}{}

	file, err := os.Open(resolved)
	if err != nil {
		return nil, false
	}

	return file, true
}

// makeFileKey creates a fileKey from os.FileInfo.
// Returns false if the underlying Sys() data is not of type *syscall.Stat_t.
func makeFileKey(info os.FileInfo) (key fileKey, ok bool) {
	if info == nil {
		return key, false
	}

	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return key, false
	}

	return fileKey{dev: uint64(stat.Dev), ino: stat.Ino}, true
}

func sourceFilesFrom(ctx context.Context) SourceFiles {
	r, _ := ctx.Value(sourceFilesKey{}).(SourceFiles)

	return r
}

// expressions returns args, or the lines of the source files when args
// is empty.
func expressions(ctx context.Context, args []string) []string {
	if len(args) > 0 {
		return args
	}

	src := sourceFilesFrom(ctx)
	if src == nil {
		return nil
	}

	var out []string
	for line := range src.Lines() {
		out = append(out, line)
	}

	return out
}
