package convfn

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/ardnew/metaconv/value"
)

// Sprintf formats args with a printf-style format in the manner of Perl:
// arguments are coerced to the type each directive wants, missing
// arguments read as empty, "%*d" and "%N$s" are understood, and "%g"
// defaults to six significant digits.
func Sprintf(format string, args ...value.Value) string {
	var b strings.Builder

	next := 0
	take := func(explicit int) value.Value {
		i := next
		if explicit > 0 {
			i = explicit - 1
		} else {
			next++
		}

		if i < len(args) {
			return args[i]
		}

		return value.Empty()
	}

	for i := 0; i < len(format); i++ {
		if format[i] != '%' {
			b.WriteByte(format[i])

			continue
		}

		d, n := parseDirective(format[i+1:])
		if n == 0 {
			b.WriteByte('%')

			continue
		}

		i += n
		if d.verb == '%' {
			b.WriteByte('%')

			continue
		}

		if d.widthArg {
			w := int(take(0).Num())
			if w < 0 {
				d.flags += "-"
				w = -w
			}

			d.width = strconv.Itoa(w)
		}

		if d.precArg {
			d.prec = strconv.Itoa(max(int(take(0).Num()), 0))
			d.hasPrec = true
		}

		b.WriteString(d.format(take(d.index)))
	}

	return b.String()
}

type directive struct {
	index    int
	flags    string
	width    string
	widthArg bool
	prec     string
	precArg  bool
	hasPrec  bool
	verb     byte
}

// parseDirective reads a directive following '%'. It returns the number
// of bytes consumed, or 0 when s does not start a valid directive.
func parseDirective(s string) (directive, int) {
	var d directive

	i := 0

	// %N$
	j := i
	for j < len(s) && s[j] >= '0' && s[j] <= '9' {
		j++
	}

	if j > i && j < len(s) && s[j] == '$' {
		d.index, _ = strconv.Atoi(s[i:j])
		i = j + 1
	}

	for i < len(s) && strings.IndexByte("-+ 0#", s[i]) >= 0 {
		d.flags += s[i : i+1]
		i++
	}

	if i < len(s) && s[i] == '*' {
		d.widthArg = true
		i++
	} else {
		j = i
		for i < len(s) && s[i] >= '0' && s[i] <= '9' {
			i++
		}

		d.width = s[j:i]
	}

	if i < len(s) && s[i] == '.' {
		i++
		d.hasPrec = true

		if i < len(s) && s[i] == '*' {
			d.precArg = true
			i++
		} else {
			j = i
			for i < len(s) && s[i] >= '0' && s[i] <= '9' {
				i++
			}

			d.prec = s[j:i]
			if d.prec == "" {
				d.prec = "0"
			}
		}
	}

	// Size modifiers change nothing here.
	for i < len(s) && strings.IndexByte("hlqLV", s[i]) >= 0 {
		i++
	}

	if i >= len(s) || strings.IndexByte("%csdiuoxXbBeEfFgG", s[i]) < 0 {
		return directive{}, 0
	}

	d.verb = s[i]

	return d, i + 1
}

func (d directive) spec(verb byte) string {
	s := "%" + d.flags + d.width
	if d.hasPrec {
		s += "." + d.prec
	}

	return s + string(verb)
}

func (d directive) format(v value.Value) string {
	switch d.verb {
	case 's':
		return fmt.Sprintf(d.spec('s'), v.Text())
	case 'c':
		return fmt.Sprintf(d.spec('c'), rune(v.Num()))
	}

	f := v.Num()
	if math.IsInf(f, 0) || math.IsNaN(f) {
		pad := ""
		if strings.Contains(d.flags, "-") {
			pad = "-"
		}

		return fmt.Sprintf("%"+pad+d.width+"s", perlSpecial(f))
	}

	switch d.verb {
	case 'd', 'i':
		return fmt.Sprintf(d.spec('d'), int64(f))
	case 'u':
		return fmt.Sprintf(d.spec('d'), uint64(int64(f)))
	case 'o', 'x', 'X', 'b', 'B':
		verb := d.verb
		if verb == 'B' {
			verb = 'b'
		}

		return fmt.Sprintf(d.spec(verb), uint64(int64(f)))
	case 'g', 'G':
		if !d.hasPrec {
			d.hasPrec, d.prec = true, "6"
		}

		return fmt.Sprintf(d.spec(d.verb), f)
	case 'F':
		return fmt.Sprintf(d.spec('f'), f)
	default:
		return fmt.Sprintf(d.spec(d.verb), f)
	}
}

func perlSpecial(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case f < 0:
		return "-Inf"
	default:
		return "Inf"
	}
}
