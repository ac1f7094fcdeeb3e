package repl

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/ardnew/metaconv/composite"
	"github.com/ardnew/metaconv/conv"
	"github.com/ardnew/metaconv/convfn"
	"github.com/ardnew/metaconv/ingest"
	"github.com/ardnew/metaconv/interp"
	"github.com/ardnew/metaconv/log"
	"github.com/ardnew/metaconv/registry"
	"github.com/ardnew/metaconv/value"
)

// session is the evaluation state the REPL commands act on.
type session struct {
	conv     *conv.Converter
	resolver *composite.Resolver
	logger   log.Logger

	// functions are the completable function names.
	functions []string

	fctx *convfn.Context
	val  value.Value
	vals []value.Value
	pool composite.Pool
}

func newSession(cfg Config) *session {
	s := &session{
		conv:   cfg.Converter,
		logger: cfg.Logger,
		fctx:   &convfn.Context{},
		pool:   cfg.Pool,
	}

	if s.conv == nil {
		s.conv = conv.New(conv.WithLogger(cfg.Logger), conv.WithInterpreter(true))
	}

	if cfg.Context != nil {
		*s.fctx = *cfg.Context
	}

	s.functions = functionNames(convfn.Default())

	s.resolver = composite.NewResolver(
		composite.WithApplier(s.conv),
		composite.WithLogger(cfg.Logger),
	)

	return s
}

// eval evaluates src with the session's $val, @val, and context.
func (s *session) eval(src string) (value.Value, error) {
	f := interp.NewCompositeFrame(s.vals, nil, nil, s.fctx)
	f.Val = s.val

	return interp.Evaluate(src, f)
}

// command is one control-mode command.
type command struct {
	name, args, help string
	run              func(s *session, ctx context.Context, args []string) (string, error)
}

// commands are the control-mode commands in help order. "quit" and
// "clear" act on the terminal and are handled by the model.
var commands = []command{
	{"help", "", "Print this cruft", nil},
	{"val", "YAML", "Set $val", (*session).setVal},
	{"vals", "YAML...", "Set @val", (*session).setVals},
	{"tag", "NAME", "Set $val to a pool tag", (*session).setTag},
	{"tags", "", "List the pool tags", (*session).listTags},
	{"resolve", "", "Build the composite tags of the pool", (*session).resolve},
	{"catalog", "[NAME]", "List composites or show one definition", (*session).catalog},
	{"route", "EXPR", "Show how an expression is evaluated", (*session).route},
	{"make", "[TEXT]", "Set the camera make", (*session).setMake},
	{"model", "[TEXT]", "Set the camera model", (*session).setModel},
	{"show", "", "Show $val, @val, and the camera", (*session).show},
	{"clear", "", "Clear screen", nil},
	{"quit", "", "Exit REPL", nil},
}

// commandNames returns the control command names in help order.
func commandNames() []string {
	names := make([]string, len(commands))
	for i, c := range commands {
		names[i] = c.name
	}

	return names
}

func lookupCommand(name string) (command, bool) {
	for _, c := range commands {
		if c.name == name {
			return c, true
		}
	}

	return command{}, false
}

// exec runs one control-mode line other than "quit" and "clear".
func (s *session) exec(ctx context.Context, line string) (string, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", nil
	}

	c, ok := lookupCommand(fields[0])
	if !ok {
		err := ErrUnknownCommand.With(slog.String("command", fields[0]))
		if m := fuzzy.Find(fields[0], commandNames()); len(m) > 0 {
			err = err.With(slog.String("suggest", m[0].Str))
		}

		return "", err
	}

	switch {
	case c.name == "help":
		return helpMessage(), nil
	case c.run == nil:
		return "", nil
	}

	// route takes the rest of the line verbatim.
	args := fields[1:]
	if c.name == "route" {
		args = []string{strings.TrimSpace(strings.TrimPrefix(line, fields[0]))}
	}

	s.logger.TraceContext(ctx, "repl exec command",
		slog.String("command", c.name),
		slog.Any("args", args),
	)

	return c.run(s, ctx, args)
}

// usage returns the error for a command given the wrong arguments.
func usage(synopsis string) error {
	return ErrUsage.With(slog.String("command", synopsis))
}

func (s *session) setVal(_ context.Context, args []string) (string, error) {
	v, err := ingest.ParseScalar(strings.Join(args, " "))
	if err != nil {
		return "", err
	}

	s.val = v

	return describe("$val", v), nil
}

func (s *session) setVals(_ context.Context, args []string) (string, error) {
	vals := make([]value.Value, len(args))

	for i, a := range args {
		v, err := ingest.ParseScalar(a)
		if err != nil {
			return "", err
		}

		vals[i] = v
	}

	s.vals = vals
	if len(vals) > 0 {
		s.val = vals[0]
	}

	return describe("@val", value.Array(vals...)), nil
}

// poolEntry finds name in the pool exactly, or else as the tag part of
// a group-qualified name.
func (s *session) poolEntry(name string) (string, composite.Entry, bool) {
	if e, ok := s.pool[name]; ok {
		return name, e, true
	}

	for _, n := range s.pool.Names() {
		if _, tag := composite.SplitName(n); tag == name {
			return n, s.pool[n], true
		}
	}

	return "", composite.Entry{}, false
}

func (s *session) setTag(_ context.Context, args []string) (string, error) {
	if len(args) != 1 {
		return "", usage("tag NAME")
	}

	if len(s.pool) == 0 {
		return "", ErrNoPool
	}

	name, e, ok := s.poolEntry(args[0])
	if !ok {
		err := ErrUnknownTag.With(slog.String("tag", args[0]))
		if m := fuzzy.Find(args[0], s.pool.Names()); len(m) > 0 {
			err = err.With(slog.String("suggest", m[0].Str))
		}

		return "", err
	}

	s.val = e.Val
	s.vals = nil

	return describe(name, e.Val), nil
}

func (s *session) listTags(context.Context, []string) (string, error) {
	if len(s.pool) == 0 {
		return "", ErrNoPool
	}

	var b strings.Builder
	for _, name := range s.pool.Names() {
		fmt.Fprintf(&b, "  %s %s\n", name, hintStyle.Render(s.pool[name].Prt.Text()))
	}

	return strings.TrimSuffix(b.String(), "\n"), nil
}

func (s *session) resolve(ctx context.Context, _ []string) (string, error) {
	if s.pool == nil {
		s.pool = composite.Pool{}
	}

	report, err := s.resolver.Resolve(ctx, s.pool)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for _, o := range report.Built {
		fmt.Fprintf(&b, "  %s %s\n", o.Name, resultStyle.Render(o.Entry.Prt.Text()))
	}

	fmt.Fprintf(&b, "%s", hintStyle.Render(fmt.Sprintf(
		"%d built, %d unresolvable, %d passes",
		len(report.Built), len(report.Unresolvable), report.Passes,
	)))

	return b.String(), nil
}

func (s *session) catalog(_ context.Context, args []string) (string, error) {
	cat := s.resolver.Catalog()

	if len(args) == 0 {
		return "  " + strings.Join(cat.Names(), " "), nil
	}

	defs := cat.Lookup(args[0])
	if len(defs) == 0 {
		return "", ErrUnknownTag.With(slog.String("composite", args[0]))
	}

	var b strings.Builder
	for _, d := range defs {
		for _, f := range []struct{ label, text string }{
			{"require", strings.Join(d.Require, ", ")},
			{"desire", strings.Join(d.Desire, ", ")},
			{"inhibit", strings.Join(d.Inhibit, ", ")},
			{"value", d.ValueConv},
			{"print", d.PrintConv},
		} {
			if f.text != "" {
				fmt.Fprintf(&b, "  %s %s\n", f.label+":", hintStyle.Render(f.text))
			}
		}
	}

	return strings.TrimSuffix(b.String(), "\n"), nil
}

func (s *session) route(ctx context.Context, args []string) (string, error) {
	if len(args) == 0 || args[0] == "" {
		return "", usage("route EXPR")
	}

	t := s.conv.Classifier().Classify(ctx, args[0], conv.CompositeModule, registry.KindValueConv)

	return t.String(), nil
}

func (s *session) setMake(_ context.Context, args []string) (string, error) {
	s.fctx.Make = strings.Join(args, " ")

	return describe("make", value.String(s.fctx.Make)), nil
}

func (s *session) setModel(_ context.Context, args []string) (string, error) {
	s.fctx.Model = strings.Join(args, " ")

	return describe("model", value.String(s.fctx.Model)), nil
}

func (s *session) show(context.Context, []string) (string, error) {
	return strings.Join([]string{
		describe("$val", s.val),
		describe("@val", value.Array(s.vals...)),
		describe("make", value.String(s.fctx.Make)),
		describe("model", value.String(s.fctx.Model)),
	}, "\n"), nil
}

// describe renders one "name = value (kind)" line.
func describe(name string, v value.Value) string {
	return fmt.Sprintf("  %s = %s %s", name, formatValue(v), hintStyle.Render("("+v.Kind().String()+")"))
}

// formatValue renders an evaluation result; the empty value is "undef".
func formatValue(v value.Value) string {
	if v.IsEmpty() {
		return "undef"
	}

	return v.Text()
}
