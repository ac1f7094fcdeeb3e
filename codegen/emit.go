package codegen

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/ardnew/metaconv/interp"
	"github.com/ardnew/metaconv/normalize"
	"github.com/ardnew/metaconv/script"
)

// Import paths referenced by generated code.
const (
	importInterp = "github.com/ardnew/metaconv/interp"
	importScript = "github.com/ardnew/metaconv/script"
	importValue  = "github.com/ardnew/metaconv/value"
)

// frameVar is the frame parameter of every generated function.
const frameVar = "f"

// Compile renders n as the body of a generated function: Go statements
// ending in a return, evaluated against a frame named f. It fails for
// trees holding statements the normalizer left as-is.
func Compile(n normalize.Node) (body string, imports []string, ok bool) {
	e := emitter{imports: map[string]bool{importInterp: true, importValue: true}}

	var sb strings.Builder

	if seq, isSeq := n.(*normalize.Sequence); isSeq && len(seq.Stmts) > 0 {
		last := len(seq.Stmts) - 1
		for _, s := range seq.Stmts[:last] {
			sb.WriteString(e.expr(s))
			sb.WriteByte('\n')
		}

		n = seq.Stmts[last]
	}

	sb.WriteString("return ")
	sb.WriteString(e.expr(n))

	if e.failed {
		return "", nil, false
	}

	for path := range e.imports {
		imports = append(imports, path)
	}

	slices.Sort(imports)

	return sb.String(), imports, true
}

type emitter struct {
	imports map[string]bool
	failed  bool
}

func (e *emitter) call(method string, args ...string) string {
	return frameVar + "." + method + "(" + strings.Join(args, ", ") + ")"
}

func (e *emitter) lazy(n normalize.Node) string {
	return "func() value.Value { return " + e.expr(n) + " }"
}

func (e *emitter) quote(q *script.Quote) string {
	e.imports[importScript] = true

	return fmt.Sprintf("&script.Quote{Op: %q, Open: %q, Close: %q, Body: %q, Repl: %q, Flags: %q}",
		q.Op, q.Open, q.Close, q.Body, q.Repl, q.Flags)
}

func (e *emitter) list(nodes []normalize.Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = e.expr(n)
	}

	return out
}

func (e *emitter) fail() string {
	e.failed = true

	return "value.Empty()"
}

func (e *emitter) expr(n normalize.Node) string {
	switch t := n.(type) {
	case nil:
		return "value.Empty()"
	case *normalize.Statement:
		return e.fail()
	case *normalize.Sequence:
		if len(t.Stmts) == 0 {
			return "value.Empty()"
		}

		var sb strings.Builder

		sb.WriteString("func() value.Value {\n")

		for _, s := range t.Stmts[:len(t.Stmts)-1] {
			sb.WriteString(e.expr(s))
			sb.WriteByte('\n')
		}

		sb.WriteString("return " + e.expr(t.Stmts[len(t.Stmts)-1]) + "\n}()")

		return sb.String()
	case *normalize.List:
		return e.call("List", e.list(t.Items)...)
	case *normalize.Binary:
		return e.binary(t)
	case *normalize.Ternary:
		return e.call("Cond", e.expr(t.Cond), e.lazy(t.Then), e.lazy(t.Else))
	case *normalize.GuardedDivision:
		return e.call("Guard", e.expr(t.Cond), e.lazy(t.Then), e.lazy(t.Else))
	case *normalize.Unary:
		return e.call("Unary", strconv.Quote(t.Op), e.expr(t.X))
	case *normalize.Call:
		return e.function(t)
	case *normalize.Index:
		return e.call("Slice", e.expr(t.X), e.expr(t.I))
	case *normalize.Variable:
		return e.call("Lookup", strconv.Quote(t.Text()))
	case *normalize.Number:
		return e.call("Num", strconv.Quote(t.Text))
	case *normalize.String:
		return e.call("Quote", strconv.Quote(t.Op), strconv.Quote(t.Open), strconv.Quote(t.Body))
	case *normalize.Word:
		return e.call("Word", strconv.Quote(t.Name))
	case *normalize.Pattern:
		return e.call("Bind", `"$_"`, e.call("Lookup", `"$_"`), e.quote(&t.Quote), "false")
	}

	return e.fail()
}

func (e *emitter) binary(t *normalize.Binary) string {
	switch t.Op {
	case "&&", "and":
		return e.call("And", e.expr(t.L), e.lazy(t.R))
	case "||", "or":
		return e.call("Or", e.expr(t.L), e.lazy(t.R))
	case "//":
		return e.call("DefinedOr", e.expr(t.L), e.lazy(t.R))
	case "xor":
		return e.call("Xor", e.expr(t.L), e.expr(t.R))
	case "x":
		if _, ok := t.L.(*normalize.List); ok {
			return e.call("Repeat", e.expr(t.L), e.expr(t.R))
		}
	case "=~", "!~":
		if p, ok := t.R.(*normalize.Pattern); ok {
			return e.call("Bind",
				strconv.Quote(interp.AssignTarget(t.L)),
				e.expr(t.L),
				e.quote(&p.Quote),
				strconv.FormatBool(t.Op == "!~"),
			)
		}
	}

	if interp.IsAssignment(t.Op) {
		text := interp.AssignTarget(t.L)
		if text == "" {
			return e.fail()
		}

		return e.call("Compound", strconv.Quote(t.Op), strconv.Quote(text), e.lazy(t.R))
	}

	return e.call("Binary", strconv.Quote(t.Op), e.expr(t.L), e.expr(t.R))
}

func (e *emitter) function(t *normalize.Call) string {
	args := interp.CallArgs(t)

	if t.Name == "split" && len(args) > 0 {
		limit := "0"
		if len(args) > 2 {
			limit = "int(" + e.expr(args[2]) + ".Num())"
		}

		s := e.call("Lookup", `"$_"`)
		if len(args) > 1 {
			s = e.expr(args[1])
		}

		switch p := args[0].(type) {
		case *normalize.Pattern:
			return e.call("Split", e.call("PatternSource", e.quote(&p.Quote)), "false", s, limit)
		case *normalize.String:
			if p.Body == " " {
				return e.call("Split", `""`, "true", s, limit)
			}
		}

		return e.call("SplitOn", e.expr(args[0]), s, limit)
	}

	return e.call("Call", append([]string{strconv.Quote(t.Name)}, e.list(args)...)...)
}
