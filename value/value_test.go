package value

import (
	"encoding/json"
	"testing"

	"github.com/goccy/go-yaml"
)

func TestValue_Float(t *testing.T) {
	tests := []struct {
		name   string
		v      Value
		want   float64
		wantOK bool
	}{
		{"empty", Empty(), 0, false},
		{"u16", U16(300), 300, true},
		{"i32", I32(-7), -7, true},
		{"f64", F64(0.0005), 0.0005, true},
		{"bool", Bool(true), 1, true},
		{"rational", Rat(1, 2000), 0.0005, true},
		{"rational zero den", Rat(1, 0), 0, false},
		{"srational zero den", SRat(0, 0), 0, false},
		{"srational", SRat(-3, 2), -1.5, true},
		{"numeric string", String(" 50 "), 50, true},
		{"word string", String("Auto"), 0, false},
		{"single array", Floats(1.5), 1.5, true},
		{"multi array", Floats(1, 2), 0, false},
		{"bytes", Bytes([]byte{1}), 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.v.Float()
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("Float() = (%v, %v), want (%v, %v)", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestValue_Text(t *testing.T) {
	tests := []struct {
		v    Value
		want string
	}{
		{Empty(), ""},
		{F64(75), "75"},
		{F64(0.0005), "0.0005"},
		{F64(1.0 / 3), "0.333333333333333"},
		{U8(3), "3"},
		{I64(-2), "-2"},
		{Rat(1, 4), "0.25"},
		{Rat(1, 0), "inf"},
		{Rat(0, 0), "undef"},
		{Rationals(Rational{35, 1}, Rational{10, 1}), "35 10"},
		{Array(String("a"), U8(1)), "a 1"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.v.Text(); got != tt.want {
				t.Errorf("Text() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValue_Index(t *testing.T) {
	v := Rationals(Rational{1, 2}, Rational{3, 4})

	if got := v.Index(1); !got.Equal(Rat(3, 4)) {
		t.Errorf("Index(1) = %v", got)
	}
	if got := v.Index(2); !got.IsEmpty() {
		t.Errorf("Index(2) = %v, want empty", got)
	}
	if got := F64(2).Index(0); !got.Equal(F64(2)) {
		t.Errorf("scalar Index(0) = %v", got)
	}
	if got := F64(2).Index(1); !got.IsEmpty() {
		t.Errorf("scalar Index(1) = %v, want empty", got)
	}
}

func TestValue_CloneIsIndependent(t *testing.T) {
	src := []byte{1, 2, 3}
	v := Bytes(src)
	src[0] = 9

	if v.Index(0).Text() != "1" {
		t.Fatal("Bytes aliased its input")
	}

	nested := Array(Bytes([]byte{4}))
	c := nested.Clone()

	if !c.Equal(nested) {
		t.Fatal("clone not equal to original")
	}
}

func TestValue_Truthy(t *testing.T) {
	for _, v := range []Value{Empty(), F64(0), String(""), String("0"), Rat(0, 0)} {
		if v.Truthy() {
			t.Errorf("%v (%v) should be falsy", v, v.Kind())
		}
	}

	for _, v := range []Value{F64(0.1), String("x"), Bool(true), Floats(0)} {
		if !v.Truthy() {
			t.Errorf("%v (%v) should be truthy", v, v.Kind())
		}
	}
}

func TestValue_MarshalJSON(t *testing.T) {
	v := Array(F64(1.5), String("x"), Empty(), Rat(1, 0))

	data, err := json.Marshal(v)
	if err != nil {
		t.Fatal(err)
	}

	if got, want := string(data), `[1.5,"x",null,"inf"]`; got != want {
		t.Errorf("json = %s, want %s", got, want)
	}
}

func TestValue_MarshalYAML(t *testing.T) {
	data, err := yaml.Marshal(map[string]Value{"ShutterSpeed": String("1/2000")})
	if err != nil {
		t.Fatal(err)
	}

	if got, want := string(data), "ShutterSpeed: 1/2000\n"; got != want {
		t.Errorf("yaml = %q, want %q", got, want)
	}
}

func TestFromNative(t *testing.T) {
	var doc any
	if err := json.Unmarshal([]byte(`{"a":[1,"b",true,null]}`), &doc); err != nil {
		t.Fatal(err)
	}

	got := FromNative(doc.(map[string]any)["a"])
	want := Array(F64(1), String("b"), Bool(true), Empty())

	if !got.Equal(want) {
		t.Errorf("FromNative = %v, want %v", got, want)
	}
}

func TestValue_Num(t *testing.T) {
	tests := []struct {
		v    Value
		want float64
	}{
		{String("50 mm"), 50},
		{String("  -1.5e2x"), -150},
		{String("abc"), 0},
		{String(".5"), 0.5},
		{String("7."), 7},
		{Rat(3, 0), 0},
		{Rat(0, 0), 0},
		{SRat(-1, 0), 0},
		{Rationals(Rational{1, 0}, Rational{2, 1}), 0},
		{F64(2.5), 2.5},
		{Rationals(Rational{35, 1}, Rational{10, 1}), 35},
	}

	for _, tt := range tests {
		t.Run(tt.v.Text(), func(t *testing.T) {
			if got := tt.v.Num(); got != tt.want {
				t.Errorf("Num() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsDecimal(t *testing.T) {
	for s, want := range map[string]bool{
		"1":      true,
		" -2.5 ": true,
		"1e-3":   true,
		"0x10":   false,
		"inf":    false,
		"NaN":    false,
		"1 2":    false,
		"":       false,
		".":      false,
	} {
		if got := IsDecimal(s); got != want {
			t.Errorf("IsDecimal(%q) = %v, want %v", s, got, want)
		}
	}
}
