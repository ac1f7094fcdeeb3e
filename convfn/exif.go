package convfn

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/ardnew/metaconv/value"
)

// PrintExposureTime renders an exposure in seconds. Exposures up to a
// quarter second print as a reciprocal ("1/2000"); longer ones print with
// one decimal and a trailing ".0" removed. A value without a finite
// reading is declined.
func PrintExposureTime(val value.Value, _ *Context) (value.Value, error) {
	secs, ok := val.Float()
	if !ok || math.IsInf(secs, 0) || math.IsNaN(secs) {
		return val, ErrDeclined
	}

	if secs > 0 && secs < 0.25001 {
		return value.String("1/" + strconv.FormatInt(int64(0.5+1/secs), 10)), nil
	}

	s := strconv.FormatFloat(secs, 'f', 1, 64)

	return value.String(strings.TrimSuffix(s, ".0")), nil
}

// PrintFNumber rounds an f-number to one decimal place, or two below 1.0.
func PrintFNumber(val value.Value, _ *Context) (value.Value, error) {
	f, ok := val.Float()
	if !ok || f <= 0 {
		return val, nil
	}

	prec := 1
	if f < 1 {
		prec = 2
	}

	return value.String(strconv.FormatFloat(f, 'f', prec, 64)), nil
}

// PrintFraction renders an exposure compensation as a signed integer or a
// signed half or third ("+1/3"). Other values print with three
// significant digits.
func PrintFraction(val value.Value, _ *Context) (value.Value, error) {
	if val.IsEmpty() {
		return val, nil
	}

	f := val.Num() * 1.00001

	var s string

	switch {
	case f == 0:
		s = "0"
	case wholeOf(f, 1):
		s = Sprintf("%+d", value.F64(f))
	case wholeOf(f, 2):
		s = Sprintf("%+d/2", value.F64(f*2))
	case wholeOf(f, 3):
		s = Sprintf("%+d/3", value.F64(f*3))
	default:
		s = Sprintf("%+.3g", value.F64(f))
	}

	return value.String(s), nil
}

// wholeOf reports whether f*n is within 0.1% of an integer below it.
func wholeOf(f, n float64) bool {
	return math.Trunc(f*n)/(f*n) > 0.999
}

// CalculateLV returns the light value for an aperture, exposure time, and
// ISO speed; f/1.0 at one second and ISO 100 is 0. Each argument may
// carry text around its number but must be positive.
func CalculateLV(aperture, exposure, iso value.Value) (value.Value, error) {
	var n [3]float64

	for i, v := range []value.Value{aperture, exposure, iso} {
		f, ok := FirstNumber(v.Text())
		if !ok || f <= 0 {
			return value.Empty(), ErrDeclined
		}

		n[i] = f
	}

	return value.F64(math.Log2(n[0] * n[0] * 100 / (n[1] * n[2]))), nil
}

// CanonEv decodes a Canon EV value, where the low five bits hold a
// fraction in 32nds with 0x0c and 0x14 standing for one and two thirds.
func CanonEv(val value.Value, _ *Context) (value.Value, error) {
	f, ok := val.Float()
	if !ok {
		return val, nil
	}

	sign := 1.0
	if f < 0 {
		f, sign = -f, -1
	}

	frac := float64(int64(f) & 0x1f)
	f -= frac

	switch frac {
	case 0x0c:
		frac = 0x20 / 3.0
	case 0x14:
		frac = 0x40 / 3.0
	}

	return value.F64(sign * (f + frac) / 0x20), nil
}

// ConvertDuration renders seconds as "12.34 s" below half a minute and
// as "[D days ]H:MM:SS" otherwise.
func ConvertDuration(val value.Value, _ *Context) (value.Value, error) {
	t, ok := val.Float()
	if !ok {
		return val, nil
	}

	if t == 0 {
		return value.String("0 s"), nil
	}

	sign := ""
	if t < 0 {
		t, sign = -t, "-"
	}

	if t < 30 {
		return value.String(sign + strconv.FormatFloat(t, 'f', 2, 64) + " s"), nil
	}

	t += 0.5
	h := math.Trunc(t / 3600)
	t -= h * 3600
	m := math.Trunc(t / 60)
	t -= m * 60

	if h > 24 {
		d := math.Trunc(h / 24)
		h -= d * 24
		sign += strconv.FormatFloat(d, 'f', 0, 64) + " days "
	}

	return value.String(sign + Sprintf("%d:%.2d:%.2d",
		value.F64(h), value.F64(m), value.F64(t))), nil
}

// DateTimeLayout is the layout of metadata date/time values.
const DateTimeLayout = "2006:01:02 15:04:05"

// ConvertUnixTime renders seconds since the epoch as a UTC date/time.
// Zero renders as the all-zero date.
func ConvertUnixTime(val value.Value, _ *Context) (value.Value, error) {
	f, ok := val.Float()
	if !ok {
		return val, nil
	}

	if f == 0 {
		return value.String("0000:00:00 00:00:00"), nil
	}

	sec, frac := math.Modf(f)
	t := time.Unix(int64(sec), int64(frac*1e9)).UTC()

	return value.String(t.Format(DateTimeLayout)), nil
}

// ConvertDateTime rewrites an ISO 8601 date/time ("2024-05-01T10:00:00")
// into the metadata layout. Anything else passes through.
func ConvertDateTime(val value.Value, _ *Context) (value.Value, error) {
	s := val.Text()
	if len(s) < 19 || s[4] != '-' || s[7] != '-' || (s[10] != 'T' && s[10] != ' ') {
		return val, nil
	}

	b := []byte(s)
	b[4], b[7], b[10] = ':', ':', ' '

	return value.String(string(b)), nil
}

// ConvertFileSize renders a byte count with a binary unit.
func ConvertFileSize(val value.Value, _ *Context) (value.Value, error) {
	n, ok := val.Float()
	if !ok {
		return val, nil
	}

	var s string

	switch {
	case n < 2048:
		s = value.FormatFloat(n) + " bytes"
	case n < 10240:
		s = Sprintf("%.1f kB", value.F64(n/1024))
	case n < 2097152:
		s = Sprintf("%.0f kB", value.F64(n/1024))
	case n < 10485760:
		s = Sprintf("%.1f MB", value.F64(n/1048576))
	case n < 2147483648:
		s = Sprintf("%.0f MB", value.F64(n/1048576))
	case n < 10737418240:
		s = Sprintf("%.1f GB", value.F64(n/1073741824))
	default:
		s = Sprintf("%.0f GB", value.F64(n/1073741824))
	}

	return value.String(s), nil
}

// FirstNumber returns the first decimal number appearing anywhere in s.
func FirstNumber(s string) (float64, bool) {
	for i := range len(s) {
		if !startsNumber(s[i:]) {
			continue
		}

		if f, n := value.LeadingNumber(s[i:]); n > 0 {
			return f, true
		}
	}

	return 0, false
}

// Numbers returns every decimal number appearing in s, in order.
func Numbers(s string) []float64 {
	var out []float64

	for i := 0; i < len(s); {
		if !startsNumber(s[i:]) {
			i++

			continue
		}

		f, n := value.LeadingNumber(s[i:])
		if n == 0 {
			i++

			continue
		}

		out = append(out, f)
		i += n
	}

	return out
}

func startsNumber(s string) bool {
	if s == "" {
		return false
	}

	c := s[0]
	if c == '+' || c == '-' || c == '.' {
		return len(s) > 1 && (isDigit(s[1]) || s[1] == '.' && len(s) > 2 && isDigit(s[2]))
	}

	return isDigit(c)
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
