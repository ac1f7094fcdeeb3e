package value

import (
	"bytes"
	"slices"
	"strconv"
	"strings"
)

// Value is a tag value. The zero Value is the empty variant.
type Value struct {
	kind  Kind
	u     uint64
	i     int64
	f     float64
	s     string
	rats  []Rational
	srats []SRational
	raw   []byte
	arr   []Value
}

// Empty returns the empty variant.
func Empty() Value { return Value{} }

func U8(v uint8) Value   { return Value{kind: KindU8, u: uint64(v)} }
func U16(v uint16) Value { return Value{kind: KindU16, u: uint64(v)} }
func U32(v uint32) Value { return Value{kind: KindU32, u: uint64(v)} }
func U64(v uint64) Value { return Value{kind: KindU64, u: v} }
func I8(v int8) Value    { return Value{kind: KindI8, i: int64(v)} }
func I16(v int16) Value  { return Value{kind: KindI16, i: int64(v)} }
func I32(v int32) Value  { return Value{kind: KindI32, i: int64(v)} }
func I64(v int64) Value  { return Value{kind: KindI64, i: v} }
func F64(v float64) Value { return Value{kind: KindF64, f: v} }

func String(s string) Value { return Value{kind: KindString, s: s} }

func Bool(b bool) Value {
	v := Value{kind: KindBool}
	if b {
		v.u = 1
	}

	return v
}

// Rat returns an unsigned rational num/den. A zero denominator is stored
// as-is; numeric accessors report it as non-convertible.
func Rat(num, den uint32) Value {
	return Value{kind: KindRational, rats: []Rational{{num, den}}}
}

// SRat returns a signed rational num/den.
func SRat(num, den int32) Value {
	return Value{kind: KindSRational, srats: []SRational{{num, den}}}
}

// Rationals returns an array of unsigned rationals.
func Rationals(r ...Rational) Value {
	return Value{kind: KindRationalArray, rats: slices.Clone(r)}
}

// SRationals returns an array of signed rationals.
func SRationals(r ...SRational) Value {
	return Value{kind: KindSRationalArray, srats: slices.Clone(r)}
}

// Bytes returns an opaque byte array.
func Bytes(b []byte) Value { return Value{kind: KindBytes, raw: bytes.Clone(b)} }

// Array returns a nested array of values.
func Array(v ...Value) Value { return Value{kind: KindArray, arr: slices.Clone(v)} }

// Floats is shorthand for an [Array] of [F64] values.
func Floats(f ...float64) Value {
	arr := make([]Value, len(f))
	for i, x := range f {
		arr[i] = F64(x)
	}

	return Value{kind: KindArray, arr: arr}
}

// Kind returns the stored variant.
func (v Value) Kind() Kind { return v.kind }

// IsEmpty reports whether v is the empty variant.
func (v Value) IsEmpty() bool { return v.kind == KindEmpty }

// Len returns the number of elements of an array kind, the byte length of
// a byte array or string, 0 for the empty variant, and 1 otherwise.
func (v Value) Len() int {
	switch v.kind {
	case KindEmpty:
		return 0
	case KindRationalArray:
		return len(v.rats)
	case KindSRationalArray:
		return len(v.srats)
	case KindBytes:
		return len(v.raw)
	case KindArray:
		return len(v.arr)
	case KindString:
		return len(v.s)
	default:
		return 1
	}
}

// Index returns element i of an array kind, or the empty variant when i is
// out of range or v is not an array. Scalars answer index 0 with themselves.
func (v Value) Index(i int) Value {
	if i < 0 {
		return Value{}
	}

	switch v.kind {
	case KindRationalArray:
		if i < len(v.rats) {
			return Value{kind: KindRational, rats: v.rats[i : i+1 : i+1]}
		}
	case KindSRationalArray:
		if i < len(v.srats) {
			return Value{kind: KindSRational, srats: v.srats[i : i+1 : i+1]}
		}
	case KindBytes:
		if i < len(v.raw) {
			return U8(v.raw[i])
		}
	case KindArray:
		if i < len(v.arr) {
			return v.arr[i]
		}
	case KindEmpty:
	default:
		if i == 0 {
			return v
		}
	}

	return Value{}
}

// Elems returns the elements of an array kind. A scalar is returned as a
// one-element slice and the empty variant as nil.
func (v Value) Elems() []Value {
	switch v.kind {
	case KindEmpty:
		return nil
	case KindRationalArray, KindSRationalArray, KindBytes, KindArray:
		out := make([]Value, v.Len())
		for i := range out {
			out[i] = v.Index(i)
		}

		return out
	default:
		return []Value{v}
	}
}

// Float returns the numeric reading of v.
//
// Integers, floats, and bools convert directly. Rationals convert unless the
// denominator is zero. Strings convert when they are entirely a decimal
// number after trimming space (see [IsDecimal]). Single-element arrays
// convert through their element. Everything else reports false.
func (v Value) Float() (float64, bool) {
	switch v.kind {
	case KindU8, KindU16, KindU32, KindU64, KindBool:
		return float64(v.u), true
	case KindI8, KindI16, KindI32, KindI64:
		return float64(v.i), true
	case KindF64:
		return v.f, true
	case KindRational:
		return v.rats[0].Float()
	case KindSRational:
		return v.srats[0].Float()
	case KindString:
		if !IsDecimal(v.s) {
			return 0, false
		}

		f, err := strconv.ParseFloat(strings.TrimSpace(v.s), 64)
		if err != nil {
			return 0, false
		}

		return f, true
	case KindRationalArray, KindSRationalArray, KindArray:
		if v.Len() == 1 {
			return v.Index(0).Float()
		}
	}

	return 0, false
}

// Int returns the integer reading of v, truncating floats toward zero.
func (v Value) Int() (int64, bool) {
	switch v.kind {
	case KindU8, KindU16, KindU32, KindU64, KindBool:
		return int64(v.u), true
	case KindI8, KindI16, KindI32, KindI64:
		return v.i, true
	}

	f, ok := v.Float()
	if !ok {
		return 0, false
	}

	return int64(f), true
}

// Str returns the stored string and whether v is a string.
func (v Value) Str() (string, bool) { return v.s, v.kind == KindString }

// Raw returns the stored bytes and whether v is a byte array.
func (v Value) Raw() ([]byte, bool) { return v.raw, v.kind == KindBytes }

// Truthy reports whether v is true in a boolean context: not empty, not a
// numeric zero, and not the empty string or "0".
func (v Value) Truthy() bool {
	switch v.kind {
	case KindEmpty:
		return false
	case KindString:
		return v.s != "" && v.s != "0"
	case KindBytes, KindArray, KindRationalArray, KindSRationalArray:
		return v.Len() > 0
	}

	f, ok := v.Float()

	return ok && f != 0
}

// Text returns the default textual form of v. Print conversions that have
// nothing better to say fall back to it.
func (v Value) Text() string {
	switch v.kind {
	case KindEmpty:
		return ""
	case KindU8, KindU16, KindU32, KindU64, KindBool:
		return strconv.FormatUint(v.u, 10)
	case KindI8, KindI16, KindI32, KindI64:
		return strconv.FormatInt(v.i, 10)
	case KindF64:
		return FormatFloat(v.f)
	case KindString:
		return v.s
	case KindRational:
		return v.rats[0].String()
	case KindSRational:
		return v.srats[0].String()
	}

	// Arrays render space-separated, like multi-valued tags.
	elems := v.Elems()
	part := make([]string, len(elems))

	for i, e := range elems {
		part[i] = e.Text()
	}

	return strings.Join(part, " ")
}

// String implements fmt.Stringer.
func (v Value) String() string { return v.Text() }

// Equal reports whether v and o hold the same variant and contents.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}

	switch v.kind {
	case KindEmpty:
		return true
	case KindF64:
		return v.f == o.f
	case KindString:
		return v.s == o.s
	case KindRational, KindRationalArray:
		return slices.Equal(v.rats, o.rats)
	case KindSRational, KindSRationalArray:
		return slices.Equal(v.srats, o.srats)
	case KindBytes:
		return bytes.Equal(v.raw, o.raw)
	case KindArray:
		return slices.EqualFunc(v.arr, o.arr, Value.Equal)
	}

	return v.u == o.u && v.i == o.i
}

// Clone returns a deep copy of v.
func (v Value) Clone() Value {
	c := v
	c.rats = slices.Clone(v.rats)
	c.srats = slices.Clone(v.srats)
	c.raw = bytes.Clone(v.raw)

	if v.arr != nil {
		c.arr = make([]Value, len(v.arr))
		for i, e := range v.arr {
			c.arr[i] = e.Clone()
		}
	}

	return c
}
