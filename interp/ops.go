package interp

import (
	"errors"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/ardnew/metaconv/value"
)

// True and False are the results of comparisons and logical negation.
var (
	True  = value.I64(1)
	False = value.String("")
)

func truth(b bool) value.Value {
	if b {
		return True
	}

	return False
}

// Num evaluates a numeric literal in its source spelling: decimal, 0x hex,
// 0b binary, or 0-prefixed octal, with optional underscores.
func (f *Frame) Num(text string) value.Value {
	s := strings.ReplaceAll(text, "_", "")

	base := 0
	switch {
	case strings.HasPrefix(s, "0x"), strings.HasPrefix(s, "0X"):
		base = 16
	case strings.HasPrefix(s, "0b"), strings.HasPrefix(s, "0B"):
		base = 2
	case len(s) > 1 && s[0] == '0' && isDigit(s[1]) && !strings.ContainsAny(s, ".eE"):
		base = 8
	}

	if base != 0 {
		n, err := strconv.ParseInt(s, 0, 64)
		if err != nil {
			return f.fail(ErrUnsupported.Wrap(err).With(slog.String("number", text)))
		}

		return value.I64(n)
	}

	x, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return f.fail(ErrUnsupported.Wrap(err).With(slog.String("number", text)))
	}

	return value.F64(x)
}

// Word evaluates a bareword. undef is the empty value; any other word
// stands for its own name.
func (f *Frame) Word(name string) value.Value {
	if name == "undef" {
		return value.Empty()
	}

	return value.String(name)
}

// Binary applies an operator that evaluates both operands. Logical,
// assignment, and binding operators have their own methods.
func (f *Frame) Binary(op string, l, r value.Value) value.Value {
	switch op {
	case "+":
		return value.F64(l.Num() + r.Num())
	case "-":
		return value.F64(l.Num() - r.Num())
	case "*":
		return value.F64(l.Num() * r.Num())
	case "/":
		d := r.Num()
		if d == 0 {
			return f.fail(ErrDivideByZero)
		}

		return value.F64(l.Num() / d)
	case "%":
		return f.modulus(l, r)
	case "**":
		return value.F64(math.Pow(l.Num(), r.Num()))
	case ".":
		return value.String(l.Text() + r.Text())
	case "x":
		n := int(r.Num())
		if n <= 0 {
			return value.String("")
		}

		return value.String(strings.Repeat(l.Text(), n))
	case "==":
		return truth(l.Num() == r.Num())
	case "!=":
		return truth(l.Num() != r.Num())
	case "<":
		return truth(l.Num() < r.Num())
	case ">":
		return truth(l.Num() > r.Num())
	case "<=":
		return truth(l.Num() <= r.Num())
	case ">=":
		return truth(l.Num() >= r.Num())
	case "<=>":
		return value.I64(int64(compare(l.Num(), r.Num())))
	case "eq":
		return truth(l.Text() == r.Text())
	case "ne":
		return truth(l.Text() != r.Text())
	case "lt":
		return truth(l.Text() < r.Text())
	case "gt":
		return truth(l.Text() > r.Text())
	case "le":
		return truth(l.Text() <= r.Text())
	case "ge":
		return truth(l.Text() >= r.Text())
	case "cmp":
		return value.I64(int64(strings.Compare(l.Text(), r.Text())))
	case "&":
		return value.U64(bits(l) & bits(r))
	case "|":
		return value.U64(bits(l) | bits(r))
	case "^":
		return value.U64(bits(l) ^ bits(r))
	case "<<":
		return value.U64(bits(l) << (bits(r) & 63))
	case ">>":
		return value.U64(bits(l) >> (bits(r) & 63))
	case "..", "...":
		return f.span(l, r)
	case "=~", "!~":
		return f.MatchString(l, r.Text(), "", op == "!~")
	}

	return f.fail(ErrUnsupported.With(slog.String("operator", op)))
}

// modulus is integer modulus with the sign of the right operand.
func (f *Frame) modulus(l, r value.Value) value.Value {
	a, b := int64(l.Num()), int64(r.Num())
	if b == 0 {
		return f.fail(ErrDivideByZero.With(slog.String("operator", "%")))
	}

	m := a % b
	if m != 0 && (m < 0) != (b < 0) {
		m += b
	}

	return value.I64(m)
}

func (f *Frame) span(l, r value.Value) value.Value {
	lo, hi := int64(l.Num()), int64(r.Num())
	if hi-lo > 1<<16 {
		return f.fail(ErrDomain.With(slog.String("operator", "..")))
	}

	out := make([]value.Value, 0, max(hi-lo+1, 0))
	for i := lo; i <= hi; i++ {
		out = append(out, value.I64(i))
	}

	return value.Array(out...)
}

func compare(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}

	return 0
}

func bits(v value.Value) uint64 {
	if i, ok := v.Int(); ok {
		return uint64(i)
	}

	return uint64(int64(v.Num()))
}

// Unary applies a prefix operator. Numeric negation is written as a
// subtraction from zero and does not come through here.
func (f *Frame) Unary(op string, x value.Value) value.Value {
	switch op {
	case "!", "not":
		return truth(!x.Truthy())
	case "~":
		return value.U64(^bits(x))
	case "\\":
		// References carry no meaning for conversions; the referent is
		// used directly.
		return x
	}

	return f.fail(ErrUnsupported.With(slog.String("operator", op)))
}

// And is && and "and": r is evaluated only when l is true.
func (f *Frame) And(l value.Value, r func() value.Value) value.Value {
	if !l.Truthy() {
		return l
	}

	return r()
}

// Or is || and "or": r is evaluated only when l is false.
func (f *Frame) Or(l value.Value, r func() value.Value) value.Value {
	if l.Truthy() {
		return l
	}

	return r()
}

// DefinedOr is //: r is evaluated only when l is empty.
func (f *Frame) DefinedOr(l value.Value, r func() value.Value) value.Value {
	if !l.IsEmpty() {
		return l
	}

	return r()
}

// Xor is "xor".
func (f *Frame) Xor(l, r value.Value) value.Value { return truth(l.Truthy() != r.Truthy()) }

// Cond is the ?: operator.
func (f *Frame) Cond(c value.Value, then, els func() value.Value) value.Value {
	if c.Truthy() {
		return then()
	}

	return els()
}

// Guard is a conditional whose branches divide. When the chosen branch
// divides by zero the result is the else branch, or empty when the else
// branch is the one that failed.
func (f *Frame) Guard(c value.Value, then, els func() value.Value) value.Value {
	if c.Truthy() {
		if v, ok := f.guarded(then); ok {
			return v
		}
	}

	v, _ := f.guarded(els)

	return v
}

// guarded runs fn and reports false, clearing the error, when fn divided
// by zero and no error was pending before.
func (f *Frame) guarded(fn func() value.Value) (value.Value, bool) {
	if f.err != nil {
		return fn(), true
	}

	v := fn()
	if f.err != nil && errors.Is(f.err, ErrDivideByZero) {
		f.err = nil

		return value.Empty(), false
	}

	return v, true
}

// List builds a list, flattening nested lists.
func (f *Frame) List(items ...value.Value) value.Value {
	return value.Array(flatten(items)...)
}

// Repeat is (LIST) x N: the elements of list repeated n times.
func (f *Frame) Repeat(list, n value.Value) value.Value {
	elems := list.Elems()
	k := max(int(n.Num()), 0)

	out := make([]value.Value, 0, len(elems)*k)
	for range k {
		out = append(out, elems...)
	}

	return value.Array(out...)
}

// Slice is (LIST)[I]: the element at I, counting from the end when I is
// negative. A list index selects a sub-list.
func (f *Frame) Slice(x, i value.Value) value.Value {
	elems := x.Elems()

	pick := func(k value.Value) value.Value {
		n := int(k.Num())
		if n < 0 {
			n += len(elems)
		}

		if n < 0 || n >= len(elems) {
			return value.Empty()
		}

		return elems[n]
	}

	if i.Kind() == value.KindArray {
		idx := i.Elems()
		out := make([]value.Value, len(idx))

		for k, e := range idx {
			out[k] = pick(e)
		}

		return value.Array(out...)
	}

	return pick(i)
}

// Compound applies an assignment operator such as "+=" to the variable
// written as text.
func (f *Frame) Compound(op, text string, r func() value.Value) value.Value {
	if op == "=" {
		return f.Assign(text, r())
	}

	cur := f.Lookup(text)

	var x value.Value

	switch base := strings.TrimSuffix(op, "="); base {
	case "||":
		x = f.Or(cur, r)
	case "&&":
		x = f.And(cur, r)
	case "//":
		x = f.DefinedOr(cur, r)
	default:
		x = f.Binary(base, cur, r())
	}

	return f.Assign(text, x)
}

func flatten(items []value.Value) []value.Value {
	out := make([]value.Value, 0, len(items))

	for _, it := range items {
		if it.Kind() == value.KindArray {
			out = append(out, flatten(it.Elems())...)
		} else {
			out = append(out, it)
		}
	}

	return out
}
