package interp

import (
	"errors"
	"slices"
	"testing"

	"github.com/ardnew/metaconv/convfn"
	"github.com/ardnew/metaconv/normalize"
	"github.com/ardnew/metaconv/value"
)

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		frame *Frame
		want  string
	}{
		{"sprintf", `sprintf("%.1f mm", $val)`, NewFrame(value.F64(50), nil), "50.0 mm"},
		{"division", `$val / 8`, NewFrame(value.U16(16), nil), "2"},
		{"power", `2 ** ($val / 2)`, NewFrame(value.F64(4), nil), "4"},
		{"negation", `-$val`, NewFrame(value.F64(2.5), nil), "-2.5"},
		{"modulus sign", `$val % 3`, NewFrame(value.I64(-7), nil), "2"},
		{"repeat", `"ab" x 3`, NewFrame(value.Empty(), nil), "ababab"},
		{"repeat scalar", `1 x 3`, NewFrame(value.Empty(), nil), "111"},
		{"repeat list", `(1) x 3`, NewFrame(value.Empty(), nil), "1 1 1"},
		{"repeat pair", `join(",", ($val, 0) x 2)`, NewFrame(value.F64(5), nil), "5,0,5,0"},
		{"concat", `$val . " mm"`, NewFrame(value.F64(24), nil), "24 mm"},
		{"guard false branch", `$val ? 10 / $val : 0`, NewFrame(value.F64(0), nil), "0"},
		{"guard true branch", `$val ? 10 / $val : 0`, NewFrame(value.F64(4), nil), "2.5"},
		{"guard zero divisor", `$val > -1 ? 1 / $val : "undef"`, NewFrame(value.F64(0), nil), "undef"},
		{"captures", `$val =~ /^(\d+)x(\d+)$/ ? $1 * $2 : undef`, NewFrame(value.String("10x20"), nil), "200"},
		{"no match", `$val =~ /^(\d+)x(\d+)$/ ? $1 * $2 : "none"`, NewFrame(value.String("wide"), nil), "none"},
		{"negated match", `$val !~ /^\d+$/ ? "text" : "digits"`, NewFrame(value.String("123"), nil), "digits"},
		{"case-insensitive", `$val =~ /^s/i ? "south" : "north"`, NewFrame(value.String("South"), nil), "south"},
		{"composition", `join(" ", unpack("H2H2", $val))`, NewFrame(value.Bytes([]byte{0x12, 0xab}), nil), "12 ab"},
		{"transliterate", `$val =~ tr/ /x/; $val`, NewFrame(value.String("6000 4000"), nil), "6000x4000"},
		{"transliterate count", `$val =~ tr/a-c//`, NewFrame(value.String("abcabd"), nil), "5"},
		{"transliterate delete", `$val =~ tr/0-9//d; $val`, NewFrame(value.String("a1b2"), nil), "ab"},
		{"substitute global", `$val =~ s/(\d+)/<$1>/g; $val`, NewFrame(value.String("a1b22"), nil), "a<1>b<22>"},
		{"substitute return", `$val =~ s/ +$//r`, NewFrame(value.String("Canon   "), nil), "Canon"},
		{"substitute eval", `$val =~ s/(\d+)/$1*2/e; $val`, NewFrame(value.String("x21"), nil), "x42"},
		{
			"altitude",
			`$val = int($val * 10) / 10; ($val =~ s/^-// ? "$val m Below" : "$val m Above") . " Sea Level"`,
			NewFrame(value.F64(-12.34), nil),
			"12.3 m Below Sea Level",
		},
		{"list slice", `(split / /, $val)[1]`, NewFrame(value.String("a b c"), nil), "b"},
		{"split whitespace", `join(",", split(" ", $val))`, NewFrame(value.String("  a  b c"), nil), "a,b,c"},
		{"split limit", `join("|", split(/,/, $val, 2))`, NewFrame(value.String("a,b,c"), nil), "a|b,c"},
		{"named unary", `lc $val eq "canon"`, NewFrame(value.String("CANON"), nil), "1"},
		{"false is empty", `$val == 2`, NewFrame(value.F64(1), nil), ""},
		{"substr", `substr($val, -3)`, NewFrame(value.String("abcdef"), nil), "def"},
		{"substr length", `substr($val, 1, 2)`, NewFrame(value.String("abcdef"), nil), "bc"},
		{"hex", `hex($val)`, NewFrame(value.String("0x1A"), nil), "26"},
		{"oct binary", `oct("0b101")`, NewFrame(value.Empty(), nil), "5"},
		{"hex literal", `$val & 0x0f`, NewFrame(value.U16(0x1f3), nil), "3"},
		{"defined-or", `$val // "none"`, NewFrame(value.Empty(), nil), "none"},
		{"assignment sequence", `$val = $val + 1; $val * 2`, NewFrame(value.F64(1), nil), "4"},
		{"compound assignment", `$val .= "!"; $val`, NewFrame(value.String("hi"), nil), "hi!"},
		{"qw list", `join("-", qw(a b c))`, NewFrame(value.Empty(), nil), "a-b-c"},
		{"single quotes", `'$val\'s'`, NewFrame(value.F64(1), nil), `$val's`},
		{"escapes", `"a\tb"`, NewFrame(value.Empty(), nil), "a\tb"},
		{"pack round trip", `join(" ", unpack("n*", pack("n2", 258, 772)))`, NewFrame(value.Empty(), nil), "258 772"},
		{"sprintf list", `sprintf("%d-%d", split(/:/, $val))`, NewFrame(value.String("3:4"), nil), "3-4"},
		{"helper", `Image::ExifTool::Exif::PrintExposureTime($val)`, NewFrame(value.Rat(1, 2000), nil), "1/2000"},
		{"helper drops self", `Image::ExifTool::GPS::ToDMS($self, $val, 1, "N")`, NewFrame(value.F64(35.51), nil), `35 deg 30' 36.00" N`},
		{"is float", `IsFloat($val) ? "num" : "text"`, NewFrame(value.String("1.5"), nil), "num"},
		{"self make", `$$self{Make} eq "Canon" ? "yes" : "no"`, NewFrame(value.Empty(), &convfn.Context{Make: "Canon"}), "yes"},
		{
			"composite arrays",
			`defined($val[0]) ? $val[0] : $val[1]`,
			NewCompositeFrame([]value.Value{value.Empty(), value.F64(2.8)}, nil, nil, nil),
			"2.8",
		},
		{
			"print arrays",
			`"$prt[0], $prt[1]"`,
			NewCompositeFrame(nil, []value.Value{value.String("35 N"), value.String("120 W")}, nil, nil),
			"35 N, 120 W",
		},
		{
			"array interpolation",
			`"@val"`,
			NewCompositeFrame([]value.Value{value.F64(1), value.F64(2)}, nil, nil, nil),
			"1 2",
		},
		{
			"last index",
			`$#val`,
			NewCompositeFrame([]value.Value{value.F64(1), value.F64(2), value.F64(3)}, nil, nil, nil),
			"2",
		},
		{
			"or chain",
			`$val[0] || $val[1]`,
			NewCompositeFrame([]value.Value{value.F64(0), value.F64(5.6)}, nil, nil, nil),
			"5.6",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Evaluate(tt.src, tt.frame)
			if err != nil {
				t.Fatalf("Evaluate(%q) error = %v", tt.src, err)
			}

			if got.Text() != tt.want {
				t.Errorf("Evaluate(%q) = %q, want %q", tt.src, got.Text(), tt.want)
			}
		})
	}
}

func TestEvaluate_Errors(t *testing.T) {
	tests := []struct {
		src  string
		val  value.Value
		want error
	}{
		{`1 / $val`, value.F64(0), ErrDivideByZero},
		{`$val % 0`, value.F64(3), ErrDivideByZero},
		{`log($val)`, value.F64(0), ErrDomain},
		{`sqrt($val)`, value.F64(-1), ErrDomain},
		{`nosuch($val)`, value.F64(1), ErrUndefinedFunction},
		{`$val =~ /(/`, value.String("x"), ErrPattern},
		{`$val[0] = 1`, value.F64(1), ErrAssign},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			got, err := Evaluate(tt.src, NewFrame(tt.val, nil))
			if !errors.Is(err, tt.want) {
				t.Fatalf("Evaluate(%q) error = %v, want %v", tt.src, err, tt.want)
			}

			if !got.IsEmpty() {
				t.Errorf("Evaluate(%q) = %v, want empty", tt.src, got)
			}
		})
	}
}

func TestEval_Statement(t *testing.T) {
	f := NewFrame(value.F64(1), nil)

	if _, err := Run(&normalize.Statement{Raw: "my @d"}, f); !errors.Is(err, ErrUnsupported) {
		t.Errorf("Run(Statement) error = %v, want ErrUnsupported", err)
	}
}

func TestFrame_FirstErrorWins(t *testing.T) {
	f := NewFrame(value.F64(0), nil)

	f.Binary("/", value.F64(1), value.F64(0))
	f.Call("nosuch")

	if !errors.Is(f.Err(), ErrDivideByZero) {
		t.Errorf("Err() = %v, want ErrDivideByZero", f.Err())
	}
}

func TestFrame_Lookup(t *testing.T) {
	f := NewCompositeFrame(
		[]value.Value{value.F64(1), value.F64(2)},
		[]value.Value{value.String("one")},
		[]value.Value{value.U8(1)},
		&convfn.Context{Model: "EOS R5"},
	)
	f.Self = map[string]value.Value{"TIFF_TYPE": value.String("CR2")}

	tests := map[string]string{
		"$val":              "1",
		"$val[1]":           "2",
		"$val[-1]":          "2",
		"$val[5]":           "",
		"$prt[0]":           "one",
		"$raw[0]":           "1",
		"$$self{Model}":     "EOS R5",
		"$self->{TIFF_TYPE}": "CR2",
		"@val":              "1 2",
		"$#prt":             "0",
		"$other":            "",
	}

	for text, want := range tests {
		if got := f.Lookup(text).Text(); got != want {
			t.Errorf("Lookup(%q) = %q, want %q", text, got, want)
		}
	}

	if err := f.Err(); err != nil {
		t.Fatalf("Err() = %v", err)
	}

	f.Assign("$tmp", value.String("x"))

	if got := f.Lookup("$tmp").Text(); got != "x" {
		t.Errorf("Lookup($tmp) after Assign = %q", got)
	}
}

func TestBuiltins(t *testing.T) {
	names := Builtins()

	for _, want := range []string{"sprintf", "defined", "ToFloat"} {
		if !slices.Contains(names, want) {
			t.Errorf("Builtins() lacks %s", want)
		}

		if !IsBuiltin(want) {
			t.Errorf("IsBuiltin(%s) = false", want)
		}
	}
}

func TestIsAssignment(t *testing.T) {
	for op, want := range map[string]bool{
		"=": true, "+=": true, "**=": true, "||=": true, "x=": true,
		"==": false, "<=": false, ">=": false, "!=": false, "=~": false, "<=>": false,
	} {
		if got := IsAssignment(op); got != want {
			t.Errorf("IsAssignment(%q) = %v, want %v", op, got, want)
		}
	}
}
