package interp

import (
	"strconv"
	"strings"

	"github.com/ardnew/metaconv/script"
	"github.com/ardnew/metaconv/value"
)

// Quote evaluates a string literal from its quote operator ("", "q",
// "qq", or "qw"), opening delimiter, and raw body.
func (f *Frame) Quote(op, open, body string) value.Value {
	q := script.Quote{Op: op, Open: open, Body: body}

	switch {
	case op == "qw":
		words := strings.Fields(body)
		out := make([]value.Value, len(words))

		for i, w := range words {
			out[i] = value.String(w)
		}

		return value.Array(out...)
	case q.Interpolates():
		return value.String(f.interpolate(body, true))
	default:
		return value.String(unescapeSingle(body, closingOf(open)))
	}
}

// interpolate substitutes variables into s. With escapes set, backslash
// sequences are decoded as in a double-quoted string; otherwise they are
// kept for the regex engine.
func (f *Frame) interpolate(s string, escapes bool) string {
	var b strings.Builder

	for i := 0; i < len(s); {
		c := s[i]

		switch {
		case c == '\\' && i+1 < len(s):
			if !escapes {
				b.WriteString(s[i : i+2])
				i += 2

				continue
			}

			i += 1 + decodeEscape(&b, s[i+1:])
		case c == '$' || c == '@':
			v, n := scanVar(s[i:])
			if v == nil || v.Sigil == "$#" || c == '@' && !f.hasArray(v.Name) {
				b.WriteByte(c)
				i++

				continue
			}

			b.WriteString(f.Var(v).Text())
			i += n
		default:
			b.WriteByte(c)
			i++
		}
	}

	return b.String()
}

func (f *Frame) hasArray(name string) bool {
	switch name {
	case "val", "prt", "raw":
		return true
	}

	_, ok := f.locals["@"+name]

	return ok
}

// decodeEscape writes the character for the escape sequence at the start
// of s (after the backslash) and returns the bytes consumed.
func decodeEscape(b *strings.Builder, s string) int {
	switch s[0] {
	case 'n':
		b.WriteByte('\n')
	case 't':
		b.WriteByte('\t')
	case 'r':
		b.WriteByte('\r')
	case 'f':
		b.WriteByte('\f')
	case 'a':
		b.WriteByte('\a')
	case 'e':
		b.WriteByte(0x1b)
	case '0':
		j := 1
		for j < len(s) && j < 3 && s[j] >= '0' && s[j] <= '7' {
			j++
		}

		n, _ := strconv.ParseUint(s[:j], 8, 8)
		b.WriteByte(byte(n))

		return j
	case 'x':
		if strings.HasPrefix(s, "x{") {
			end := strings.IndexByte(s, '}')
			if end > 0 {
				n, err := strconv.ParseUint(s[2:end], 16, 32)
				if err == nil {
					b.WriteRune(rune(n))
				}

				return end + 1
			}
		}

		j := 1
		for j < len(s) && j < 3 && isHex(s[j]) {
			j++
		}

		n, _ := strconv.ParseUint(s[1:j], 16, 8)
		b.WriteByte(byte(n))

		return j
	default:
		b.WriteByte(s[0])
	}

	return 1
}

func unescapeSingle(s string, closing byte) string {
	if !strings.Contains(s, `\`) {
		return s
	}

	var b strings.Builder

	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) && (s[i+1] == '\\' || s[i+1] == closing) {
			i++
		}

		b.WriteByte(s[i])
	}

	return b.String()
}

func closingOf(open string) byte {
	if open == "" {
		return '\''
	}

	switch open[0] {
	case '(':
		return ')'
	case '[':
		return ']'
	case '{':
		return '}'
	case '<':
		return '>'
	}

	return open[0]
}

func isHex(c byte) bool {
	return isDigit(c) || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F'
}
