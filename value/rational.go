package value

import (
	"math"
	"strconv"
)

// Rational is an unsigned numerator/denominator pair as stored in TIFF IFDs.
type Rational struct {
	Num, Den uint32
}

// Float returns n/d. It reports false when the denominator is zero.
func (r Rational) Float() (float64, bool) {
	if r.Den == 0 {
		return 0, false
	}

	return float64(r.Num) / float64(r.Den), true
}

func (r Rational) String() string { return ratioText(float64(r.Num), r.Den == 0, r.Float) }

// SRational is a signed numerator/denominator pair.
type SRational struct {
	Num, Den int32
}

// Float returns n/d. It reports false when the denominator is zero.
func (r SRational) Float() (float64, bool) {
	if r.Den == 0 {
		return 0, false
	}

	return float64(r.Num) / float64(r.Den), true
}

func (r SRational) String() string { return ratioText(float64(r.Num), r.Den == 0, r.Float) }

// ratioText renders a rational the way extracted metadata shows it: the
// quotient, "inf" for n/0, and "undef" for 0/0.
func ratioText(num float64, zero bool, f func() (float64, bool)) string {
	if zero {
		if num == 0 {
			return "undef"
		}

		return "inf"
	}

	q, _ := f()

	return FormatFloat(q)
}

// FormatFloat renders f with up to 15 significant digits and no trailing
// zeros, which is how numeric tag values are shown by default.
func FormatFloat(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	case math.IsNaN(f):
		return "nan"
	}

	return strconv.FormatFloat(f, 'g', 15, 64)
}
