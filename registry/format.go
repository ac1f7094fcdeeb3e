package registry

import (
	"bytes"
	"context"
	"log/slog"
	"os/exec"
	"strings"

	"github.com/ardnew/metaconv/normalize"
)

// Formatter canonicalizes expression text.
type Formatter interface {
	// Format returns the canonical form of src.
	Format(ctx context.Context, src string) (string, error)

	// FormatBatch formats every element of srcs, returning results in the
	// same order. A result count that differs from len(srcs) is reported
	// as [ErrBatchMismatch].
	FormatBatch(ctx context.Context, srcs []string) ([]string, error)
}

// Native formats with the normalizer's canonical text.
type Native struct{}

func (Native) Format(_ context.Context, src string) (string, error) {
	return normalize.Text(src), nil
}

func (Native) FormatBatch(_ context.Context, srcs []string) ([]string, error) {
	out := make([]string, len(srcs))
	for i, src := range srcs {
		out[i] = normalize.Text(src)
	}

	return out, nil
}

// BatchDelimiter separates expressions in a batched subprocess call. It
// is a comment line in the expression language, so formatters keep it.
const BatchDelimiter = "#__METACONV_BATCH_DELIMITER__#"

// Subprocess formats by piping expressions through an external command
// on stdin and reading the result from stdout.
type Subprocess struct {
	Path string
	Args []string

	// Delimiter overrides [BatchDelimiter].
	Delimiter string
}

func (p Subprocess) Format(ctx context.Context, src string) (string, error) {
	out, err := p.run(ctx, src)
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(out), nil
}

func (p Subprocess) FormatBatch(ctx context.Context, srcs []string) ([]string, error) {
	if len(srcs) == 0 {
		return nil, nil
	}

	delim := p.Delimiter
	if delim == "" {
		delim = BatchDelimiter
	}

	out, err := p.run(ctx, strings.Join(srcs, "\n"+delim+"\n"))
	if err != nil {
		return nil, err
	}

	parts := strings.Split(out, delim)
	if len(parts) != len(srcs) {
		return nil, ErrBatchMismatch.With(
			slog.String("command", p.Path),
			slog.Int("inputs", len(srcs)),
			slog.Int("outputs", len(parts)),
		)
	}

	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	return parts, nil
}

func (p Subprocess) run(ctx context.Context, input string) (string, error) {
	var stdout, stderr bytes.Buffer

	cmd := exec.CommandContext(ctx, p.Path, p.Args...)
	cmd.Stdin = strings.NewReader(input)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", ErrFormatter.Wrap(err).With(
			slog.String("command", p.Path),
			slog.String("stderr", strings.TrimSpace(stderr.String())),
		)
	}

	return stdout.String(), nil
}
