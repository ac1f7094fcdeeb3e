// Package lookup defines the query shape of manufacturer lookup tables.
//
// Real tables are generated mechanically and number in the thousands; the
// composite and expression layers only ever see them through [Table].
package lookup

import (
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/ardnew/metaconv/value"
)

// Table maps a raw key to its display string.
type Table interface {
	Lookup(key string) (string, bool)
}

// MapTable is a [Table] backed by a map.
type MapTable map[string]string

// Lookup implements [Table].
func (m MapTable) Lookup(key string) (string, bool) {
	s, ok := m[key]

	return s, ok
}

// Keys returns the table keys in sorted order.
func (m MapTable) Keys() []string {
	return slices.Sorted(maps.Keys(m))
}

// Func adapts an ordinary function to [Table].
type Func func(key string) (string, bool)

// Lookup implements [Table].
func (f Func) Lookup(key string) (string, bool) { return f(key) }

// Key renders v as a table key. Integral numbers drop their fraction, so
// F64(3) and U16(3) both look up "3"; arrays join with spaces.
func Key(v value.Value) string {
	if f, ok := v.Float(); ok && v.Len() <= 1 {
		if f == float64(int64(f)) {
			return strconv.FormatInt(int64(f), 10)
		}

		return value.FormatFloat(f)
	}

	return strings.TrimSpace(v.Text())
}

// Value looks up v in t. It returns the display string, or the
// "Unknown (key)" form when the key is absent.
func Value(t Table, v value.Value) value.Value {
	key := Key(v)
	if t != nil {
		if s, ok := t.Lookup(key); ok {
			return value.String(s)
		}
	}

	return value.String("Unknown (" + key + ")")
}
