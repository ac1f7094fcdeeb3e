package lookup

import (
	"testing"

	"github.com/ardnew/metaconv/value"
)

func TestValue(t *testing.T) {
	tests := []struct {
		name string
		v    value.Value
		want string
	}{
		{"integer", value.U16(6), "Rotate 90 CW"},
		{"integral float", value.F64(3), "Rotate 180"},
		{"numeric string", value.String("1"), "Horizontal (normal)"},
		{"absent", value.U16(99), "Unknown (99)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Value(Orientation, tt.v).Text(); got != tt.want {
				t.Errorf("Value() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFunc(t *testing.T) {
	tbl := Func(func(k string) (string, bool) { return "k" + k, k != "" })

	if s, ok := tbl.Lookup("1"); !ok || s != "k1" {
		t.Errorf("Lookup = (%q, %v)", s, ok)
	}
	if got := Value(nil, value.String("x")).Text(); got != "Unknown (x)" {
		t.Errorf("nil table = %q", got)
	}
}

func TestMapTable_Keys(t *testing.T) {
	keys := GPSAltitudeRef.Keys()
	if len(keys) != 2 || keys[0] != "0" || keys[1] != "1" {
		t.Errorf("Keys() = %v", keys)
	}
}
