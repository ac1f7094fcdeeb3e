package interp

import (
	"log/slog"
	"strings"

	"github.com/ardnew/metaconv/normalize"
	"github.com/ardnew/metaconv/value"
)

// Run evaluates n in f and returns its value and the first error.
func Run(n normalize.Node, f *Frame) (value.Value, error) {
	v := f.Eval(n)

	return v, f.Err()
}

// Evaluate normalizes src and evaluates it in f.
func Evaluate(src string, f *Frame) (value.Value, error) {
	return Run(normalize.Parse(src), f)
}

// Eval evaluates n. Failures are recorded on f; see [Frame.Err].
func (f *Frame) Eval(n normalize.Node) value.Value {
	switch t := n.(type) {
	case nil:
		return value.Empty()
	case *normalize.Statement:
		text := t.Raw
		if text == "" {
			text = t.String()
		}

		return f.fail(ErrUnsupported.With(slog.String("statement", text)))
	case *normalize.Sequence:
		var v value.Value
		for _, s := range t.Stmts {
			v = f.Eval(s)
		}

		return v
	case *normalize.List:
		items := make([]value.Value, len(t.Items))
		for i, it := range t.Items {
			items[i] = f.Eval(it)
		}

		return f.List(items...)
	case *normalize.Binary:
		return f.binary(t)
	case *normalize.Ternary:
		return f.Cond(f.Eval(t.Cond), f.lazy(t.Then), f.lazy(t.Else))
	case *normalize.GuardedDivision:
		return f.Guard(f.Eval(t.Cond), f.lazy(t.Then), f.lazy(t.Else))
	case *normalize.Unary:
		return f.Unary(t.Op, f.Eval(t.X))
	case *normalize.Call:
		return f.call(t)
	case *normalize.Index:
		return f.Slice(f.Eval(t.X), f.Eval(t.I))
	case *normalize.Variable:
		return f.Var(&t.Var)
	case *normalize.Number:
		return f.Num(t.Text)
	case *normalize.String:
		return f.Quote(t.Op, t.Open, t.Body)
	case *normalize.Word:
		return f.Word(t.Name)
	case *normalize.Pattern:
		return f.Bind("$_", f.Lookup("$_"), &t.Quote, false)
	}

	return f.fail(ErrUnsupported.With(slog.String("node", n.Kind().String())))
}

func (f *Frame) lazy(n normalize.Node) func() value.Value {
	return func() value.Value { return f.Eval(n) }
}

func (f *Frame) binary(t *normalize.Binary) value.Value {
	switch t.Op {
	case "&&", "and":
		return f.And(f.Eval(t.L), f.lazy(t.R))
	case "||", "or":
		return f.Or(f.Eval(t.L), f.lazy(t.R))
	case "//":
		return f.DefinedOr(f.Eval(t.L), f.lazy(t.R))
	case "xor":
		return f.Xor(f.Eval(t.L), f.Eval(t.R))
	case "x":
		if _, ok := t.L.(*normalize.List); ok {
			return f.Repeat(f.Eval(t.L), f.Eval(t.R))
		}
	case "=~", "!~":
		target := f.Eval(t.L)
		if p, ok := t.R.(*normalize.Pattern); ok {
			return f.Bind(AssignTarget(t.L), target, &p.Quote, t.Op == "!~")
		}

		return f.Binary(t.Op, target, f.Eval(t.R))
	}

	if IsAssignment(t.Op) {
		text := AssignTarget(t.L)
		if text == "" {
			return f.fail(ErrAssign.With(slog.String("target", t.L.String())))
		}

		return f.Compound(t.Op, text, f.lazy(t.R))
	}

	return f.Binary(t.Op, f.Eval(t.L), f.Eval(t.R))
}

func (f *Frame) call(t *normalize.Call) value.Value {
	args := CallArgs(t)

	if t.Name == "split" && len(args) > 0 {
		// Operands are evaluated in argument order.
		var sep value.Value

		p, isPattern := args[0].(*normalize.Pattern)
		q, isString := args[0].(*normalize.String)
		awk := isString && q.Body == " "

		if !isPattern && !awk {
			sep = f.Eval(args[0])
		}

		s := f.Lookup("$_")
		if len(args) > 1 {
			s = f.Eval(args[1])
		}

		var limit int
		if len(args) > 2 {
			limit = int(f.Eval(args[2]).Num())
		}

		switch {
		case isPattern:
			return f.Split(f.PatternSource(&p.Quote), false, s, limit)
		case awk:
			return f.Split("", true, s, limit)
		}

		return f.SplitOn(sep, s, limit)
	}

	vals := make([]value.Value, len(args))
	for i, a := range args {
		vals[i] = f.Eval(a)
	}

	return f.Call(t.Name, vals...)
}

// IsAssignment reports whether op stores into its left operand.
func IsAssignment(op string) bool {
	switch op {
	case "=":
		return true
	case "==", "!=", "<=", ">=", "<=>":
		return false
	}

	return len(op) >= 2 && strings.HasSuffix(op, "=") && op != "=~"
}

// AssignTarget returns the canonical text of n when it names an
// assignable variable, and "" otherwise.
func AssignTarget(n normalize.Node) string {
	v, ok := n.(*normalize.Variable)
	if !ok || v.Deref || len(v.Subs) > 0 || isSelf(&v.Var) {
		return ""
	}

	return v.Text()
}

// CallArgs returns the arguments of a call without a leading ExifTool
// object ($self or $et), which helpers do not take.
func CallArgs(c *normalize.Call) []normalize.Node {
	args := c.Args
	if len(args) > 0 {
		if v, ok := args[0].(*normalize.Variable); ok && isSelf(&v.Var) && len(v.Subs) == 0 && !v.Deref {
			return args[1:]
		}
	}

	return args
}
