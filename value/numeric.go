package value

import (
	"math"
	"strconv"
	"strings"
)

// Num returns v in numeric context. It is the [Value.Float] reading when
// one exists; otherwise the longest leading decimal number in the text
// form of v ("50 mm" is 50); otherwise 0. A rational reads as its first
// element, and one with a zero denominator reads as 0 rather than the
// "inf" or "undef" of its text form.
func (v Value) Num() float64 {
	if f, ok := v.Float(); ok {
		return f
	}

	switch v.kind {
	case KindRational, KindSRational, KindRationalArray, KindSRationalArray:
		f, _ := v.Index(0).Float()

		return f
	}

	f, _ := LeadingNumber(v.Text())

	return f
}

// LeadingNumber parses the longest decimal number at the start of s after
// leading whitespace. It reports the number of bytes consumed, or 0 when s
// does not begin with a number.
func LeadingNumber(s string) (float64, int) {
	trimmed := strings.TrimLeft(s, " \t\n\r")
	skip := len(s) - len(trimmed)

	if n := matchInfinity(trimmed); n > 0 {
		if trimmed[0] == '-' {
			return math.Inf(-1), skip + n
		}

		return math.Inf(1), skip + n
	}

	n := decimalPrefix(trimmed)
	if n == 0 {
		return 0, 0
	}

	f, err := strconv.ParseFloat(trimmed[:n], 64)
	if err != nil {
		return 0, 0
	}

	return f, skip + n
}

// IsDecimal reports whether s, ignoring surrounding whitespace, is
// entirely a decimal number.
func IsDecimal(s string) bool {
	s = strings.TrimSpace(s)

	return s != "" && decimalPrefix(s) == len(s)
}

// decimalPrefix returns the length of the decimal number at the start of
// s: [+-]? digits [. digits] [eE [+-]? digits], with at least one digit
// before the exponent.
func decimalPrefix(s string) int {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}

	digits := 0
	for i < len(s) && isDigit(s[i]) {
		i++
		digits++
	}

	if i < len(s) && s[i] == '.' {
		j := i + 1
		for j < len(s) && isDigit(s[j]) {
			j++
			digits++
		}

		if digits > 0 {
			i = j
		}
	}

	if digits == 0 {
		return 0
	}

	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}

		k := j
		for k < len(s) && isDigit(s[k]) {
			k++
		}

		if k > j {
			i = k
		}
	}

	return i
}

func matchInfinity(s string) int {
	t := strings.TrimLeft(s, "+-")
	if len(s)-len(t) > 1 {
		return 0
	}

	if len(t) >= 3 && strings.EqualFold(t[:3], "inf") {
		return len(s) - len(t) + 3
	}

	return 0
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
