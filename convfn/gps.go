package convfn

import (
	"math"
	"strings"

	"github.com/ardnew/metaconv/value"
)

// DMSFormat is the printed coordinate layout: degrees, minutes, seconds.
const DMSFormat = `%d deg %d' %.2f"`

// ToDegrees converts a degrees/minutes/seconds triple to decimal degrees.
// Rational arrays are read element-wise; text is scanned for numbers.
// Missing minutes and seconds read as zero.
func ToDegrees(val value.Value, _ *Context) (value.Value, error) {
	var n []float64

	if val.Kind() == value.KindString {
		n = Numbers(val.Text())
	} else {
		for _, e := range val.Elems() {
			f, ok := e.Float()
			if !ok {
				return value.String(""), nil
			}

			n = append(n, f)
		}
	}

	if len(n) == 0 {
		return value.String(""), nil
	}

	n = append(n, 0, 0)

	return value.F64(n[0] + (n[1]+n[2]/60)/60), nil
}

// ToDMS renders decimal degrees. With printed set it uses [DMSFormat],
// otherwise "D M S.ssssssss". A ref of "N" or "E" is appended as the
// hemisphere letter, flipped to "S" or "W" for negative values.
func ToDMS(val value.Value, printed bool, ref string) value.Value {
	if val.Text() == "" {
		return val
	}

	deg := val.Num()

	sign := ""
	if deg < 0 {
		deg = -deg

		switch ref {
		case "N":
			ref = "S"
		case "E":
			ref = "W"
		case "":
			sign = "-"
		}
	}

	if ref != "" {
		ref = " " + ref
	}

	format, secPrec := "%d %d %.8f", 1e8
	if printed {
		format, secPrec = DMSFormat, 100
	}

	d := math.Trunc(deg)
	m := (deg - d) * 60
	s := (m - math.Trunc(m)) * 60
	m = math.Trunc(m)

	// Carry seconds that round up to 60.
	if math.Round(s*secPrec)/secPrec >= 60 {
		s = 0
		m++
	}

	if m >= 60 {
		m -= 60
		d++
	}

	return value.String(sign + Sprintf(format, value.F64(d), value.F64(m), value.F64(s)) + ref)
}

// HemisphereSign returns -1 when ref names the southern or western
// hemisphere and 1 otherwise.
func HemisphereSign(ref value.Value) float64 {
	r := strings.ToUpper(strings.TrimSpace(ref.Text()))
	if strings.HasPrefix(r, "S") || strings.HasPrefix(r, "W") {
		return -1
	}

	return 1
}
