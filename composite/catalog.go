package composite

import "sync"

const (
	printDateTime = "$self->ConvertDateTime($val)"
	printDecimal1 = `sprintf("%.1f", $val)`
)

// DefaultCatalog returns the built-in composite definitions. The returned
// catalog is shared and must not be modified.
var DefaultCatalog = sync.OnceValue(func() Catalog {
	return Catalog{
		{
			Name:      "ImageSize",
			Desire:    []string{"ImageWidth", "ImageHeight", "ExifImageWidth", "ExifImageHeight", "RawImageCroppedSize"},
			ValueConv: "Image::ExifTool::Composite::ImageSize(@val)",
			PrintConv: "$val =~ tr/ /x/; $val",
		},
		{
			Name:      "Megapixels",
			Require:   []string{"ImageSize"},
			ValueConv: "Image::ExifTool::Composite::Megapixels($val)",
			PrintConv: `sprintf("%.*f", ($val >= 1 ? 1 : ($val >= 0.001 ? 3 : 6)), $val)`,
		},
		{
			Name:      "ShutterSpeed",
			Desire:    []string{"ExposureTime", "ShutterSpeedValue", "BulbDuration"},
			ValueConv: "($val[2] and $val[2] > 0) ? $val[2] : (defined($val[0]) ? $val[0] : $val[1])",
			PrintConv: "Image::ExifTool::Exif::PrintExposureTime($val)",
		},
		{
			Name:      "Aperture",
			Desire:    []string{"FNumber", "ApertureValue"},
			ValueConv: "$val[0] || $val[1]",
			PrintConv: "Image::ExifTool::Exif::PrintFNumber($val)",
		},
		{
			Name:      "LightValue",
			Require:   []string{"Aperture", "ShutterSpeed", "ISO"},
			ValueConv: "Image::ExifTool::Exif::CalculateLV($val[0], $val[1], $prt[2])",
			PrintConv: printDecimal1,
		},
		{
			Name:      "FocalLength35efl",
			Require:   []string{"FocalLength"},
			Desire:    []string{"ScaleFactor35efl"},
			ValueConv: "ToFloat(@val); ($val[0] || 0) * ($val[1] || 1)",
			PrintConv: `$val[1] ? sprintf("%.1f mm (35 mm equivalent: %.1f mm)", $val[0], $val) : sprintf("%.1f mm", $val)`,
		},
		{
			Name:    "ScaleFactor35efl",
			Require: []string{"FocalLength"},
			Desire: []string{
				"FocalLengthIn35mmFormat",
				"FocalPlaneXSize",
				"FocalPlaneYSize",
				"FocalPlaneResolutionUnit",
				"FocalPlaneXResolution",
				"FocalPlaneYResolution",
				"ExifImageWidth",
				"ExifImageHeight",
				"ScaleFactor35efl",
			},
			ValueConv: "Image::ExifTool::Exif::CalcScaleFactor35efl($self, @val)",
			PrintConv: printDecimal1,
		},
		{
			Name:      "CircleOfConfusion",
			Require:   []string{"ScaleFactor35efl"},
			ValueConv: "sqrt(24 * 24 + 36 * 36) / ($val * 1440)",
			PrintConv: `sprintf("%.3f mm", $val)`,
		},
		{
			Name:      "HyperfocalDistance",
			Require:   []string{"FocalLength", "Aperture", "CircleOfConfusion"},
			ValueConv: `$val[1] && $val[2] ? $val[0] * $val[0] / ($val[1] * $val[2] * 1000) : "inf"`,
			PrintConv: `sprintf("%.2f m", $val)`,
		},
		{
			Name:      "FOV",
			Require:   []string{"FocalLength", "ScaleFactor35efl"},
			Desire:    []string{"FocusDistance"},
			ValueConv: "Image::ExifTool::Exif::CalcFOV(@val)",
			PrintConv: "Image::ExifTool::Exif::PrintFOV($val)",
		},
		{
			Name:      "GPSLatitude",
			Require:   []string{"GPS:GPSLatitude", "GPS:GPSLatitudeRef"},
			ValueConv: "$val[1] =~ /^S/i ? -$val[0] : $val[0]",
			PrintConv: `Image::ExifTool::GPS::ToDMS($self, $val, 1, "N")`,
		},
		{
			Name:      "GPSLongitude",
			Require:   []string{"GPS:GPSLongitude", "GPS:GPSLongitudeRef"},
			ValueConv: "$val[1] =~ /^W/i ? -$val[0] : $val[0]",
			PrintConv: `Image::ExifTool::GPS::ToDMS($self, $val, 1, "E")`,
		},
		{
			Name:      "GPSAltitude",
			Require:   []string{"GPS:GPSAltitude"},
			Desire:    []string{"GPS:GPSAltitudeRef"},
			ValueConv: "$val[1] ? -abs($val[0]) : $val[0]",
			PrintConv: `$val = int($val * 10) / 10; ($val =~ s/^-// ? "$val m Below" : "$val m Above") . " Sea Level"`,
		},
		{
			Name:      "GPSPosition",
			Require:   []string{"GPSLatitude", "GPSLongitude"},
			ValueConv: `(length($val[0]) or length($val[1])) ? "$val[0] $val[1]" : undef`,
			PrintConv: `"$prt[0], $prt[1]"`,
		},
		{
			Name:      "DateTimeOriginal",
			Desire:    []string{"DateTimeCreated", "DateCreated", "TimeCreated"},
			Inhibit:   []string{"EXIF:DateTimeOriginal"},
			ValueConv: `$val[0] =~ / / ? $val[0] : "$val[1] $val[2]"`,
			PrintConv: printDateTime,
		},
		{
			Name:      "SubSecDateTimeOriginal",
			Require:   []string{"EXIF:DateTimeOriginal"},
			Desire:    []string{"SubSecTimeOriginal", "OffsetTimeOriginal"},
			ValueConv: "Image::ExifTool::Composite::SubSecDateTime(@val)",
			PrintConv: printDateTime,
		},
		{
			Name:      "LensID",
			Require:   []string{"LensType"},
			PrintConv: "Image::ExifTool::Composite::PrintLensID($val)",
		},
	}
})
