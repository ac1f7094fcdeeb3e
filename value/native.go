package value

import (
	"encoding/json"
	"math"
)

// ToNative converts v to its native Go representation: nil, uint64, int64,
// float64, string, bool, []byte, or []any. Rationals become their quotient,
// or their text form ("inf", "undef") when the denominator is zero.
func (v Value) ToNative() any {
	switch v.kind {
	case KindEmpty:
		return nil
	case KindU8, KindU16, KindU32, KindU64:
		return v.u
	case KindI8, KindI16, KindI32, KindI64:
		return v.i
	case KindF64:
		if math.IsInf(v.f, 0) || math.IsNaN(v.f) {
			return FormatFloat(v.f)
		}

		return v.f
	case KindBool:
		return v.u != 0
	case KindString:
		return v.s
	case KindRational, KindSRational:
		if f, ok := v.Float(); ok {
			return f
		}

		return v.Text()
	case KindBytes:
		return v.raw
	}

	elems := v.Elems()
	out := make([]any, len(elems))

	for i, e := range elems {
		out[i] = e.ToNative()
	}

	return out
}

// FromNative builds a Value from a decoded JSON or YAML document node.
// Unsupported types yield the empty variant.
func FromNative(x any) Value {
	switch t := x.(type) {
	case nil:
		return Value{}
	case Value:
		return t
	case bool:
		return Bool(t)
	case string:
		return String(t)
	case float64:
		return F64(t)
	case float32:
		return F64(float64(t))
	case int:
		return I64(int64(t))
	case int64:
		return I64(t)
	case int32:
		return I32(t)
	case uint64:
		return U64(t)
	case uint32:
		return U32(t)
	case uint16:
		return U16(t)
	case uint8:
		return U8(t)
	case uint:
		return U64(uint64(t))
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return I64(i)
		}

		f, _ := t.Float64()

		return F64(f)
	case []byte:
		return Bytes(t)
	case []any:
		arr := make([]Value, len(t))
		for i, e := range t {
			arr[i] = FromNative(e)
		}

		return Value{kind: KindArray, arr: arr}
	}

	return Value{}
}

// MarshalJSON implements json.Marshaler.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.ToNative())
}

// MarshalYAML implements the go-yaml InterfaceMarshaler.
func (v Value) MarshalYAML() (any, error) {
	return v.ToNative(), nil
}
