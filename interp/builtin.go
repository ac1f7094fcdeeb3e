package interp

import (
	"log/slog"
	"maps"
	"math"
	"slices"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dlclark/regexp2"

	"github.com/ardnew/metaconv/convfn"
	"github.com/ardnew/metaconv/value"
)

type builtin func(f *Frame, args []value.Value) value.Value

var builtins map[string]builtin

func init() {
	builtins = map[string]builtin{
		"int":       math1(math.Trunc),
		"abs":       math1(math.Abs),
		"exp":       math1(math.Exp),
		"sin":       math1(math.Sin),
		"cos":       math1(math.Cos),
		"sqrt":      callSqrt,
		"log":       callLog,
		"atan2":     callAtan2,
		"hex":       callHex,
		"oct":       callOct,
		"defined":   callDefined,
		"length":    callLength,
		"uc":        str1(strings.ToUpper),
		"lc":        str1(strings.ToLower),
		"ucfirst":   str1(firstRune(unicode.ToUpper)),
		"lcfirst":   str1(firstRune(unicode.ToLower)),
		"quotemeta": str1(regexp2.Escape),
		"chr":       callChr,
		"ord":       callOrd,
		"join":      callJoin,
		"sprintf":   callSprintf,
		"substr":    callSubstr,
		"index":     callIndex,
		"rindex":    callRindex,
		"reverse":   callReverse,
		"scalar":    callScalar,
		"split":     callSplit,
		"pack":      callPack,
		"unpack":    callUnpack,
		"undef":     func(*Frame, []value.Value) value.Value { return value.Empty() },
		"ref":       func(*Frame, []value.Value) value.Value { return False },
		"IsFloat":   callIsFloat,
		"IsInt":     callIsInt,
		"IsHex":     callIsHex,
		"ToFloat":   callToFloat,
	}
}

// IsBuiltin reports whether name is evaluated by the interpreter itself
// rather than dispatched to a helper.
func IsBuiltin(name string) bool {
	_, ok := builtins[strings.TrimPrefix(name, convfn.HelperPrefix)]

	return ok
}

// Builtins returns the names of the builtin functions in sorted order.
func Builtins() []string {
	return slices.Sorted(maps.Keys(builtins))
}

// Call invokes a builtin or a registered helper.
func (f *Frame) Call(name string, args ...value.Value) value.Value {
	short := strings.TrimPrefix(name, convfn.HelperPrefix)
	if fn, ok := builtins[short]; ok {
		return fn(f, args)
	}

	h, ok := f.registry().Helper(name)
	if !ok {
		return f.fail(ErrUndefinedFunction.With(slog.String("function", name)))
	}

	v, err := h(f.Ctx, args)
	if err != nil {
		return f.fail(err)
	}

	return v
}

func arg(args []value.Value, i int) value.Value {
	if i < len(args) {
		return args[i]
	}

	return value.Empty()
}

func math1(fn func(float64) float64) builtin {
	return func(_ *Frame, args []value.Value) value.Value {
		return value.F64(fn(arg(args, 0).Num()))
	}
}

func str1(fn func(string) string) builtin {
	return func(_ *Frame, args []value.Value) value.Value {
		return value.String(fn(arg(args, 0).Text()))
	}
}

func firstRune(fn func(rune) rune) func(string) string {
	return func(s string) string {
		r, n := utf8.DecodeRuneInString(s)
		if n == 0 {
			return s
		}

		return string(fn(r)) + s[n:]
	}
}

func callSqrt(f *Frame, args []value.Value) value.Value {
	x := arg(args, 0).Num()
	if x < 0 {
		return f.fail(ErrDomain.With(slog.String("function", "sqrt"), slog.Float64("arg", x)))
	}

	return value.F64(math.Sqrt(x))
}

func callLog(f *Frame, args []value.Value) value.Value {
	x := arg(args, 0).Num()
	if x <= 0 {
		return f.fail(ErrDomain.With(slog.String("function", "log"), slog.Float64("arg", x)))
	}

	return value.F64(math.Log(x))
}

func callAtan2(_ *Frame, args []value.Value) value.Value {
	return value.F64(math.Atan2(arg(args, 0).Num(), arg(args, 1).Num()))
}

func callHex(_ *Frame, args []value.Value) value.Value {
	s := strings.TrimSpace(arg(args, 0).Text())
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")

	return value.I64(parsePrefix(s, 16))
}

func callOct(_ *Frame, args []value.Value) value.Value {
	s := strings.ToLower(strings.TrimSpace(arg(args, 0).Text()))

	switch {
	case strings.HasPrefix(s, "0x"), strings.HasPrefix(s, "x"):
		return value.I64(parsePrefix(s[strings.IndexByte(s, 'x')+1:], 16))
	case strings.HasPrefix(s, "0b"), strings.HasPrefix(s, "b"):
		return value.I64(parsePrefix(s[strings.IndexByte(s, 'b')+1:], 2))
	case strings.HasPrefix(s, "0o"):
		return value.I64(parsePrefix(s[2:], 8))
	}

	return value.I64(parsePrefix(s, 8))
}

// parsePrefix parses the longest prefix of s that is valid in base.
func parsePrefix(s string, base int) int64 {
	s = strings.ReplaceAll(s, "_", "")

	end := 0
	for end < len(s) {
		d, err := strconv.ParseInt(s[end:end+1], base, 8)
		if err != nil || d >= int64(base) {
			break
		}

		end++
	}

	n, _ := strconv.ParseUint(s[:end], base, 64)

	return int64(n)
}

func callDefined(_ *Frame, args []value.Value) value.Value {
	return truth(!arg(args, 0).IsEmpty())
}

func callLength(_ *Frame, args []value.Value) value.Value {
	v := arg(args, 0)
	if v.IsEmpty() {
		return v
	}

	return value.I64(int64(utf8.RuneCountInString(v.Text())))
}

func callChr(_ *Frame, args []value.Value) value.Value {
	return value.String(string(rune(arg(args, 0).Num())))
}

func callOrd(_ *Frame, args []value.Value) value.Value {
	r, n := utf8.DecodeRuneInString(arg(args, 0).Text())
	if n == 0 {
		return value.I64(0)
	}

	return value.I64(int64(r))
}

func callJoin(_ *Frame, args []value.Value) value.Value {
	if len(args) == 0 {
		return value.String("")
	}

	items := flatten(args[1:])
	part := make([]string, len(items))

	for i, it := range items {
		part[i] = it.Text()
	}

	return value.String(strings.Join(part, args[0].Text()))
}

func callSprintf(_ *Frame, args []value.Value) value.Value {
	if len(args) == 0 {
		return value.String("")
	}

	return value.String(convfn.Sprintf(args[0].Text(), flatten(args[1:])...))
}

// callSubstr is substr(EXPR, OFFSET, LENGTH) over characters, with
// negative offsets and lengths counting from the end.
func callSubstr(_ *Frame, args []value.Value) value.Value {
	s := []rune(arg(args, 0).Text())
	n := len(s)

	off := int(arg(args, 1).Num())
	if off < 0 {
		off += n
	}

	if off < 0 || off > n {
		return value.Empty()
	}

	end := n
	if len(args) > 2 && !args[2].IsEmpty() {
		l := int(args[2].Num())
		if l < 0 {
			end = max(n+l, off)
		} else {
			end = min(off+l, n)
		}
	}

	return value.String(string(s[off:end]))
}

func callIndex(_ *Frame, args []value.Value) value.Value {
	s, sub := []rune(arg(args, 0).Text()), []rune(arg(args, 1).Text())

	pos := 0
	if len(args) > 2 {
		pos = min(max(int(args[2].Num()), 0), len(s))
	}

	for i := pos; i+len(sub) <= len(s); i++ {
		if slices.Equal(s[i:i+len(sub)], sub) {
			return value.I64(int64(i))
		}
	}

	return value.I64(-1)
}

func callRindex(_ *Frame, args []value.Value) value.Value {
	s, sub := []rune(arg(args, 0).Text()), []rune(arg(args, 1).Text())

	pos := len(s) - len(sub)
	if len(args) > 2 {
		pos = min(int(args[2].Num()), pos)
	}

	for i := pos; i >= 0; i-- {
		if slices.Equal(s[i:i+len(sub)], sub) {
			return value.I64(int64(i))
		}
	}

	return value.I64(-1)
}

// callReverse reverses the characters of a single scalar, or the order
// of a list.
func callReverse(_ *Frame, args []value.Value) value.Value {
	if len(args) == 1 && args[0].Kind() != value.KindArray {
		r := []rune(args[0].Text())
		slices.Reverse(r)

		return value.String(string(r))
	}

	items := flatten(args)
	slices.Reverse(items)

	return value.Array(items...)
}

func callScalar(_ *Frame, args []value.Value) value.Value {
	v := arg(args, 0)
	if v.Kind() == value.KindArray {
		return value.I64(int64(v.Len()))
	}

	return v
}

// callSplit handles split with an already-evaluated pattern. A pattern
// of a single space splits on whitespace.
func callSplit(f *Frame, args []value.Value) value.Value {
	src := arg(args, 0).Text()

	return f.Split(src, src == " ", arg(args, 1), int(arg(args, 2).Num()))
}

func callIsFloat(_ *Frame, args []value.Value) value.Value {
	return truth(value.IsDecimal(arg(args, 0).Text()))
}

func callIsInt(_ *Frame, args []value.Value) value.Value {
	s := strings.TrimLeft(strings.TrimSpace(arg(args, 0).Text()), "+-")
	if s == "" {
		return False
	}

	for i := range len(s) {
		if !isDigit(s[i]) {
			return False
		}
	}

	return True
}

func callIsHex(_ *Frame, args []value.Value) value.Value {
	s := strings.TrimPrefix(strings.TrimSpace(arg(args, 0).Text()), "0x")
	if s == "" {
		return False
	}

	for i := range len(s) {
		if !isHex(s[i]) {
			return False
		}
	}

	return True
}

// callToFloat returns the numeric reading of each argument, leaving
// values without one empty.
func callToFloat(_ *Frame, args []value.Value) value.Value {
	items := flatten(args)
	out := make([]value.Value, len(items))

	for i, it := range items {
		if x, ok := convfn.FirstNumber(it.Text()); ok {
			out[i] = value.F64(x)
		}
	}

	if len(out) == 1 {
		return out[0]
	}

	return value.Array(out...)
}
