package interp

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/ardnew/metaconv/convfn"
	"github.com/ardnew/metaconv/script"
	"github.com/ardnew/metaconv/value"
)

// Frame is the evaluation environment of a single conversion. The zero
// Frame evaluates with every variable empty and helpers from
// [convfn.Default].
type Frame struct {
	// Val is $val. For a composite value conversion it is the first
	// dependency; for a print conversion it is the computed value.
	Val value.Value
	// Vals, Prts, and Raws are @val, @prt, and @raw.
	Vals, Prts, Raws []value.Value
	// Ctx answers $$self{Make}, $$self{Model}, and $$self{FileType}.
	Ctx *convfn.Context
	// Self answers the remaining $$self{...} keys.
	Self map[string]value.Value
	// Registry resolves helper calls. Nil means [convfn.Default].
	Registry *convfn.Registry

	locals map[string]value.Value
	groups []string
	err    error
}

// NewFrame returns a frame for an ordinary tag conversion of val.
func NewFrame(val value.Value, ctx *convfn.Context) *Frame {
	return &Frame{Val: val, Ctx: ctx}
}

// NewCompositeFrame returns a frame for a composite conversion. $val is
// vals[0] until the caller sets it.
func NewCompositeFrame(vals, prts, raws []value.Value, ctx *convfn.Context) *Frame {
	f := &Frame{Vals: vals, Prts: prts, Raws: raws, Ctx: ctx}
	if len(vals) > 0 {
		f.Val = vals[0]
	}

	return f
}

// Err returns the first error recorded during evaluation.
func (f *Frame) Err() error { return f.err }

// fail records err unless an earlier error is pending and returns the
// empty value.
func (f *Frame) fail(err error) value.Value {
	if f.err == nil {
		f.err = err
	}

	return value.Empty()
}

func (f *Frame) registry() *convfn.Registry {
	if f.Registry != nil {
		return f.Registry
	}

	return convfn.Default()
}

// Lookup returns the variable written as text, for example "$val[1]" or
// "$$self{Make}".
func (f *Frame) Lookup(text string) value.Value {
	v, n := scanVar(text)
	if v == nil || n != len(text) {
		return f.fail(ErrUnsupported.With(slog.String("variable", text)))
	}

	return f.Var(v)
}

// Var returns the current value of v.
func (f *Frame) Var(v *script.Var) value.Value {
	if isSelf(v) {
		if len(v.Subs) == 0 {
			return value.Empty()
		}

		return f.self(unquote(v.Subs[0].Key))
	}

	if v.Deref {
		return f.fail(ErrUnsupported.With(slog.String("variable", v.Text())))
	}

	switch v.Sigil {
	case "@":
		return value.Array(f.array(v.Name)...)
	case "$#":
		return value.I64(int64(len(f.array(v.Name)) - 1))
	case "%":
		return f.fail(ErrUnsupported.With(slog.String("variable", v.Text())))
	}

	if len(v.Subs) == 0 {
		return f.scalar(v.Name)
	}

	if len(v.Subs) > 1 || v.Subs[0].Open != '[' {
		return f.fail(ErrUnsupported.With(slog.String("variable", v.Text())))
	}

	i, err := strconv.Atoi(v.Subs[0].Key)
	if err != nil {
		return f.fail(ErrUnsupported.With(slog.String("variable", v.Text())))
	}

	elems := f.array(v.Name)
	if i < 0 {
		i += len(elems)
	}

	if i < 0 || i >= len(elems) {
		return value.Empty()
	}

	return elems[i]
}

func (f *Frame) scalar(name string) value.Value {
	switch {
	case name == "val":
		return f.Val
	case name == "&":
		return f.group(0)
	case len(name) == 1 && name[0] >= '1' && name[0] <= '9':
		return f.group(int(name[0] - '0'))
	}

	return f.locals[name]
}

// array returns the elements of @name. @val, @prt, and @raw are the
// dependency arrays; outside a composite @val is the elements of $val.
func (f *Frame) array(name string) []value.Value {
	switch name {
	case "val":
		if f.Vals != nil {
			return f.Vals
		}

		return f.Val.Elems()
	case "prt":
		return f.Prts
	case "raw":
		return f.Raws
	}

	return f.locals["@"+name].Elems()
}

func (f *Frame) self(key string) value.Value {
	if f.Ctx != nil {
		switch key {
		case "Make":
			return value.String(f.Ctx.Make)
		case "Model":
			return value.String(f.Ctx.Model)
		case "FileType":
			return value.String(f.Ctx.FileType)
		}
	}

	return f.Self[key]
}

func (f *Frame) group(i int) value.Value {
	if i < len(f.groups) {
		return value.String(f.groups[i])
	}

	return value.Empty()
}

// Assign stores x in the variable written as text and returns x. Only
// $val, plain scalars, and plain arrays can be assigned.
func (f *Frame) Assign(text string, x value.Value) value.Value {
	v, n := scanVar(text)
	if v == nil || n != len(text) || v.Deref || len(v.Subs) > 0 || isSelf(v) {
		return f.fail(ErrAssign.With(slog.String("variable", text)))
	}

	switch {
	case v.Sigil == "$" && v.Name == "val":
		f.Val = x
	case v.Sigil == "$":
		f.setLocal(v.Name, x)
	case v.Sigil == "@" && v.Name != "val" && v.Name != "prt" && v.Name != "raw":
		f.setLocal("@"+v.Name, value.Array(flatten([]value.Value{x})...))
	default:
		return f.fail(ErrAssign.With(slog.String("variable", text)))
	}

	return x
}

func (f *Frame) setLocal(name string, x value.Value) {
	if f.locals == nil {
		f.locals = make(map[string]value.Value)
	}

	f.locals[name] = x
}

func isSelf(v *script.Var) bool {
	return v.Sigil == "$" && (v.Name == "self" || v.Name == "et")
}

func unquote(key string) string {
	if len(key) >= 2 && (key[0] == '\'' || key[0] == '"') && key[len(key)-1] == key[0] {
		return key[1 : len(key)-1]
	}

	return key
}

// scanVar reads a variable at the start of s, as it appears in source or
// inside an interpolating string, and returns it with the bytes consumed.
func scanVar(s string) (*script.Var, int) {
	var v script.Var

	i := 0

	switch {
	case strings.HasPrefix(s, "$#"):
		v.Sigil, i = "$#", 2
	case strings.HasPrefix(s, "$"), strings.HasPrefix(s, "@"), strings.HasPrefix(s, "%"):
		v.Sigil, i = s[:1], 1
	default:
		return nil, 0
	}

	if v.Sigil == "$" && i < len(s) && s[i] == '$' && i+1 < len(s) && isIdentStart(s[i+1]) {
		v.Deref = true
		i++
	}

	switch {
	case i < len(s) && s[i] == '{':
		end := strings.IndexByte(s[i:], '}')
		if end < 0 {
			return nil, 0
		}

		v.Name = strings.TrimSpace(s[i+1 : i+end])
		i += end + 1
	case i < len(s) && (s[i] == '&' || s[i] == '_' && (i+1 == len(s) || !isIdent(s[i+1]))):
		v.Name = s[i : i+1]
		i++
	case i < len(s) && isDigit(s[i]):
		j := i
		for j < len(s) && isDigit(s[j]) {
			j++
		}

		v.Name, i = s[i:j], j
	case i < len(s) && isIdentStart(s[i]):
		j := i
		for j < len(s) && (isIdent(s[j]) || s[j] == ':' && j+1 < len(s) && s[j+1] == ':') {
			if s[j] == ':' {
				j++
			}

			j++
		}

		v.Name, i = s[i:j], j
	default:
		return nil, 0
	}

	for i < len(s) {
		j := i
		if strings.HasPrefix(s[j:], "->") {
			j += 2
			v.Deref = true
		}

		if j >= len(s) || (s[j] != '[' && s[j] != '{') {
			break
		}

		closeAt := strings.IndexByte(s[j:], closer(s[j]))
		if closeAt < 0 {
			break
		}

		v.Subs = append(v.Subs, script.Sub{Open: s[j], Key: strings.TrimSpace(s[j+1 : j+closeAt])})
		i = j + closeAt + 1
	}

	return &v, i
}

func closer(open byte) byte {
	if open == '[' {
		return ']'
	}

	return '}'
}

func isDigit(c byte) bool      { return c >= '0' && c <= '9' }
func isIdentStart(c byte) bool { return c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' }
func isIdent(c byte) bool      { return isIdentStart(c) || isDigit(c) }
