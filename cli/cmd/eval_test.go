package cmd

import (
	"errors"
	"strings"
	"testing"
)

func TestEvalRun(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		eval Eval
		want string
	}{
		{"sprintf", Eval{Expr: `sprintf("%.1f mm", $val)`, Val: "50"}, "50.0 mm"},
		{"text value", Eval{Expr: `$val =~ tr/ /x/; $val`, Val: "6000 4000"}, "6000x4000"},
		{"empty value", Eval{Expr: `$val // "none"`}, "none"},
		{"composite", Eval{Expr: `$val[0] || $val[1]`, Vals: []string{"0", "5.6"}}, "5.6"},
		{"print arrays", Eval{Expr: `"$prt[0], $prt[1]"`, Prts: []string{"35 N", "120 W"}}, "35 N, 120 W"},
		{"self", Eval{Expr: `$$self{Make} eq "Canon" ? "yes" : "no"`, Make: "Canon"}, "yes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctx, buf := testContext(t)

			if err := tt.eval.Run(ctx); err != nil {
				t.Fatalf("Eval.Run() error = %v", err)
			}

			if got := strings.TrimSuffix(buf.String(), "\n"); got != tt.want {
				t.Errorf("Eval.Run() output = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEvalInvalidValue(t *testing.T) {
	t.Parallel()

	ctx, _ := testContext(t)

	e := &Eval{Expr: "$val", Val: "[unterminated"}
	if err := e.Run(ctx); !errors.Is(err, ErrParseValue) {
		t.Errorf("Eval.Run() error = %v, want ErrParseValue", err)
	}
}

func TestParseValue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		text    string
		numeric bool
	}{
		{"42", "42", true},
		{"2.8", "2.8", true},
		{"Canon", "Canon", false},
		{"a: b", "a: b", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			v, err := parseValue(tt.in)
			if err != nil {
				t.Fatalf("parseValue(%q) error = %v", tt.in, err)
			}

			if v.Text() != tt.text {
				t.Errorf("parseValue(%q) = %q, want %q", tt.in, v.Text(), tt.text)
			}

			if _, ok := v.Float(); ok != tt.numeric {
				t.Errorf("parseValue(%q) numeric = %v, want %v", tt.in, ok, tt.numeric)
			}
		})
	}

	if v, err := parseValue(""); err != nil || !v.IsEmpty() {
		t.Errorf("parseValue(\"\") = %v, %v, want empty", v, err)
	}
}
