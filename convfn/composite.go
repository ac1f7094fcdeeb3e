package convfn

import (
	"math"
	"strings"

	"github.com/ardnew/metaconv/lookup"
	"github.com/ardnew/metaconv/value"
)

// Full-frame sensor diagonal in millimetres.
const fullFrameDiagonal = 43.26661

// at returns vals[i], or the empty value past the end.
func at(vals []value.Value, i int) value.Value {
	if i < len(vals) {
		return vals[i]
	}

	return value.Empty()
}

// num returns the positive numeric reading of vals[i], or 0.
func num(vals []value.Value, i int) float64 {
	f, ok := at(vals, i).Float()
	if !ok || f <= 0 || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0
	}

	return f
}

// Finite reports whether v is present and every numeric reading it has
// is a finite number. A rational with a zero denominator has no reading
// and is not finite; strings and mixed arrays are finite when present.
func Finite(v value.Value) bool {
	switch v.Kind() {
	case value.KindEmpty:
		return false
	case value.KindRationalArray, value.KindSRationalArray:
		for i := range v.Len() {
			if !Finite(v.Index(i)) {
				return false
			}
		}

		return v.Len() > 0
	}

	f, ok := v.Float()
	if !ok {
		return !v.Kind().IsNumeric()
	}

	return !math.IsInf(f, 0) && !math.IsNaN(f)
}

// ImageSize joins width and height as "W H". Dependencies: ImageWidth,
// ImageHeight, ExifImageWidth, ExifImageHeight, RawImageCroppedSize. A
// cropped raw size wins, then the main image pair, then the EXIF pair.
func ImageSize(vals, _, _ []value.Value, _ *Context) (value.Value, error) {
	if v := at(vals, 4); v.Truthy() {
		return v, nil
	}

	for _, i := range []int{0, 2} {
		if w, h := num(vals, i), num(vals, i+1); w > 0 && h > 0 {
			return value.String(value.FormatFloat(w) + " " + value.FormatFloat(h)), nil
		}
	}

	return value.Empty(), ErrDeclined
}

// Megapixels multiplies the two numbers of an ImageSize.
func Megapixels(vals, _, _ []value.Value, _ *Context) (value.Value, error) {
	d := Numbers(at(vals, 0).Text())
	if len(d) < 2 {
		return value.Empty(), ErrDeclined
	}

	return value.F64(d[0] * d[1] / 1e6), nil
}

// PrintMegapixels keeps one decimal at or above one megapixel, three at
// or above a kilopixel, and six below.
func PrintMegapixels(val value.Value, _, _, _ []value.Value, _ *Context) value.Value {
	f := val.Num()

	prec := 6
	switch {
	case f >= 1:
		prec = 1
	case f >= 0.001:
		prec = 3
	}

	return value.String(Sprintf("%.*f", value.I64(int64(prec)), val))
}

// ScaleFactor35efl returns the 35 mm equivalent focal length multiplier.
//
// Dependencies, in order: FocalLength, FocalLengthIn35mmFormat,
// FocalPlaneXSize, FocalPlaneYSize, FocalPlaneResolutionUnit,
// FocalPlaneXResolution, FocalPlaneYResolution, ExifImageWidth,
// ExifImageHeight, and an extracted ScaleFactor35efl. The first method
// with enough inputs wins: the two focal lengths, the physical sensor
// size, the focal plane resolution, the extracted factor.
func ScaleFactor35efl(vals, _, _ []value.Value, _ *Context) (value.Value, error) {
	focal, foc35 := num(vals, 0), num(vals, 1)
	if focal > 0 && foc35 > 0 {
		return value.F64(foc35 / focal), nil
	}

	if x, y := num(vals, 2), num(vals, 3); x > 0 && y > 0 {
		return value.F64(fullFrameDiagonal / math.Hypot(x, y)), nil
	}

	if xres := num(vals, 5); xres > 0 {
		yres := num(vals, 6)
		if yres == 0 {
			yres = xres
		}

		if w, h := num(vals, 7), num(vals, 8); w > 0 && h > 0 {
			mm := resolutionUnitMM(num(vals, 4))
			diag := math.Hypot(w/xres*mm, h/yres*mm)

			return value.F64(fullFrameDiagonal / diag), nil
		}
	}

	if sf := num(vals, 9); sf > 0 {
		return value.F64(sf), nil
	}

	return value.Empty(), ErrDeclined
}

// resolutionUnitMM converts a FocalPlaneResolutionUnit code to
// millimetres per unit. Unknown codes read as inches.
func resolutionUnitMM(unit float64) float64 {
	switch unit {
	case 3:
		return 10
	case 4:
		return 1
	case 5:
		return 0.001
	default:
		return 25.4
	}
}

// FocalLength35efl scales FocalLength by ScaleFactor35efl, which defaults
// to 1 when absent.
func FocalLength35efl(vals, _, _ []value.Value, _ *Context) (value.Value, error) {
	sf := num(vals, 1)
	if sf == 0 {
		sf = 1
	}

	return value.F64(num(vals, 0) * sf), nil
}

// PrintFocalLength35efl shows the equivalent alongside the actual focal
// length when a scale factor was known.
func PrintFocalLength35efl(val value.Value, vals, _, _ []value.Value, _ *Context) value.Value {
	if at(vals, 1).Truthy() {
		return value.String(Sprintf("%.1f mm (35 mm equivalent: %.1f mm)", at(vals, 0), val))
	}

	return value.String(Sprintf("%.1f mm", val))
}

// LightValue applies [CalculateLV] to Aperture, ShutterSpeed, and the
// printed ISO.
func LightValue(vals, prts, _ []value.Value, _ *Context) (value.Value, error) {
	return CalculateLV(at(vals, 0), at(vals, 1), at(prts, 2))
}

// HyperfocalDistance returns metres from FocalLength, Aperture, and
// CircleOfConfusion. It is "inf" without an aperture or circle of
// confusion.
func HyperfocalDistance(vals, _, _ []value.Value, _ *Context) (value.Value, error) {
	f, a, c := num(vals, 0), num(vals, 1), num(vals, 2)
	if a == 0 || c == 0 {
		return value.String("inf"), nil
	}

	return value.F64(f * f / (a * c * 1000)), nil
}

// FOV returns the horizontal field of view in degrees from FocalLength,
// ScaleFactor35efl, and FocusDistance. When the focus distance is known
// and finite the field width in metres follows, space-separated.
func FOV(vals, _, _ []value.Value, _ *Context) (value.Value, error) {
	focal, sf, dist := num(vals, 0), num(vals, 1), num(vals, 2)
	if focal == 0 || sf == 0 {
		return value.Empty(), ErrDeclined
	}

	corr := 1.0
	if dist > 0 {
		if d := 1000*dist - focal; d > 0 {
			corr += focal / d
		}
	}

	fd2 := math.Atan2(36, 2*focal*sf*corr)
	fov := []float64{fd2 * 360 / math.Pi}

	if dist > 0 && dist < 10000 {
		fov = append(fov, 2*dist*math.Tan(fd2))
	}

	return value.Floats(fov...), nil
}

// PrintFOV renders "D.d deg" with the optional field width.
func PrintFOV(val value.Value, _, _, _ []value.Value, _ *Context) value.Value {
	v := Numbers(val.Text())
	if len(v) == 0 {
		return val
	}

	s := Sprintf("%.1f deg", value.F64(v[0]))
	if len(v) > 1 && v[1] != 0 {
		s += Sprintf(" (%.2f m)", value.F64(v[1]))
	}

	return value.String(s)
}

// SubSecDateTime appends sub-second digits and a time zone offset to an
// EXIF date/time. Dependencies: DateTime, SubSec, Offset.
func SubSecDateTime(vals, _, _ []value.Value, _ *Context) (value.Value, error) {
	dt := strings.TrimSpace(at(vals, 0).Text())
	if dt == "" {
		return value.Empty(), ErrDeclined
	}

	if ss := strings.TrimSpace(at(vals, 1).Text()); ss != "" {
		dt += "." + ss
	}

	if tz := strings.TrimSpace(at(vals, 2).Text()); tz != "" {
		dt += tz
	}

	return value.String(dt), nil
}

// DateTimeCreated merges separate date and time values, preferring a
// combined value that already has both parts. Dependencies:
// DateTimeCreated, DateCreated, TimeCreated.
func DateTimeCreated(vals, _, _ []value.Value, _ *Context) (value.Value, error) {
	if dt := at(vals, 0).Text(); strings.Contains(dt, " ") {
		return value.String(dt), nil
	}

	date, tm := at(vals, 1).Text(), at(vals, 2).Text()
	if date == "" && tm == "" {
		return value.Empty(), ErrDeclined
	}

	return value.String(date + " " + tm), nil
}

// LensTables selects the lens lookup table by camera make.
var LensTables = map[string]lookup.Table{
	"Canon": lookup.CanonLensType,
	"Nikon": lookup.NikonLensIDs,
}

// PrintLensID looks the lens code up in the table for the camera make.
func PrintLensID(val value.Value, _, _, _ []value.Value, ctx *Context) value.Value {
	var t lookup.Table

	if ctx != nil {
		for mk, table := range LensTables {
			if strings.HasPrefix(strings.ToUpper(ctx.Make), strings.ToUpper(mk)) {
				t = table
			}
		}
	}

	return lookup.Value(t, val)
}

// PrintScalar adapts s to a [PrintFunc]. A failed conversion prints val.
func PrintScalar(s ScalarFunc) PrintFunc {
	return func(val value.Value, _, _, _ []value.Value, ctx *Context) value.Value {
		out, err := s(val, ctx)
		if err != nil {
			return val
		}

		return out
	}
}

// PrintFormat returns a [PrintFunc] that applies [Sprintf] with format
// to the value.
func PrintFormat(format string) PrintFunc {
	return func(val value.Value, _, _, _ []value.Value, _ *Context) value.Value {
		return value.String(Sprintf(format, val))
	}
}

// ShutterSpeed prefers a positive BulbDuration, then ExposureTime, then
// ShutterSpeedValue.
func ShutterSpeed(vals, _, _ []value.Value, _ *Context) (value.Value, error) {
	if num(vals, 2) > 0 {
		return at(vals, 2), nil
	}

	if v := at(vals, 0); Finite(v) {
		return v, nil
	}

	if v := at(vals, 1); Finite(v) {
		return v, nil
	}

	return value.Empty(), ErrDeclined
}

// Aperture is FNumber, or ApertureValue when FNumber is zero or absent.
func Aperture(vals, _, _ []value.Value, _ *Context) (value.Value, error) {
	for i := range 2 {
		if v := at(vals, i); v.Truthy() {
			return v, nil
		}
	}

	return value.Empty(), ErrDeclined
}

// CircleOfConfusion is the 35 mm diagonal over 1440, scaled by
// ScaleFactor35efl.
func CircleOfConfusion(vals, _, _ []value.Value, _ *Context) (value.Value, error) {
	sf := num(vals, 0)
	if sf == 0 {
		return value.Empty(), ErrDeclined
	}

	return value.F64(math.Sqrt(24*24+36*36) / (sf * 1440)), nil
}

// GPSLatitude signs GPS:GPSLatitude by GPS:GPSLatitudeRef.
func GPSLatitude(vals, _, _ []value.Value, _ *Context) (value.Value, error) {
	return signedCoordinate(vals)
}

// GPSLongitude signs GPS:GPSLongitude by GPS:GPSLongitudeRef.
func GPSLongitude(vals, _, _ []value.Value, _ *Context) (value.Value, error) {
	return signedCoordinate(vals)
}

func signedCoordinate(vals []value.Value) (value.Value, error) {
	deg, ok := at(vals, 0).Float()
	if !ok {
		return value.Empty(), ErrDeclined
	}

	return value.F64(HemisphereSign(at(vals, 1)) * deg), nil
}

// GPSAltitude negates GPS:GPSAltitude when GPS:GPSAltitudeRef is set.
func GPSAltitude(vals, _, _ []value.Value, _ *Context) (value.Value, error) {
	alt, ok := at(vals, 0).Float()
	if !ok {
		return value.Empty(), ErrDeclined
	}

	if at(vals, 1).Truthy() {
		alt = -math.Abs(alt)
	}

	return value.F64(alt), nil
}

// PrintGPSAltitude renders metres above or below sea level, truncated to
// one decimal.
func PrintGPSAltitude(val value.Value, _, _, _ []value.Value, _ *Context) value.Value {
	f, ok := val.Float()
	if !ok {
		return val
	}

	f = math.Trunc(f*10) / 10

	where := "Above"
	if f < 0 {
		f, where = -f, "Below"
	}

	return value.String(value.FormatFloat(f) + " m " + where + " Sea Level")
}

// GPSPosition joins GPSLatitude and GPSLongitude.
func GPSPosition(vals, _, _ []value.Value, _ *Context) (value.Value, error) {
	lat, lon := at(vals, 0).Text(), at(vals, 1).Text()
	if lat == "" && lon == "" {
		return value.Empty(), ErrDeclined
	}

	return value.String(lat + " " + lon), nil
}

// PrintGPSPosition joins the printed coordinates.
func PrintGPSPosition(_ value.Value, _, prts, _ []value.Value, _ *Context) value.Value {
	return value.String(at(prts, 0).Text() + ", " + at(prts, 1).Text())
}

// PrintImageSize renders "W H" as "WxH".
func PrintImageSize(val value.Value, _, _, _ []value.Value, _ *Context) value.Value {
	return value.String(strings.ReplaceAll(val.Text(), " ", "x"))
}

// valueHelper exposes a [ValueFunc] to expressions, which pass the
// dependency values as the argument list.
func valueHelper(fn ValueFunc) Helper {
	return func(ctx *Context, args []value.Value) (value.Value, error) {
		var vals []value.Value
		for _, a := range args {
			if a.Kind() == value.KindArray {
				vals = append(vals, a.Elems()...)
			} else {
				vals = append(vals, a)
			}
		}

		v, err := fn(vals, nil, nil, ctx)
		if err != nil {
			// Expressions see a declined computation as undef.
			return value.Empty(), nil
		}

		return v, nil
	}
}

// printHelper exposes a [PrintFunc] to expressions, which pass the value
// to print.
func printHelper(fn PrintFunc) Helper {
	return func(ctx *Context, args []value.Value) (value.Value, error) {
		return fn(at(args, 0), nil, nil, nil, ctx), nil
	}
}
