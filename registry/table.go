package registry

import (
	"sync"

	"github.com/ardnew/metaconv/convfn"
	"github.com/ardnew/metaconv/normalize"
)

// Table maps expression text, optionally scoped as "Module::expression",
// to the function that implements it. Each entry is stored as written and
// in normalized form.
type Table struct {
	entries map[string]convfn.FunctionID
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{entries: make(map[string]convfn.FunctionID)}
}

// Add maps src to id for every module.
func (t *Table) Add(src string, id convfn.FunctionID) *Table {
	t.entries[src] = id
	t.entries[normalize.Text(src)] = id

	return t
}

// AddScoped maps src to id for expressions of module only.
func (t *Table) AddScoped(module, src string, id convfn.FunctionID) *Table {
	t.entries[scope(module, src)] = id
	t.entries[scope(module, normalize.Text(src))] = id

	return t
}

// Lookup returns the function mapped to key.
func (t *Table) Lookup(key string) (convfn.FunctionID, bool) {
	id, ok := t.entries[key]

	return id, ok
}

// Len returns the number of stored keys.
func (t *Table) Len() int { return len(t.entries) }

// Functions returns the set of functions the table dispatches to.
func (t *Table) Functions() map[convfn.FunctionID]struct{} {
	out := make(map[convfn.FunctionID]struct{}, len(t.entries))
	for _, id := range t.entries {
		out[id] = struct{}{}
	}

	return out
}

func scope(module, src string) string {
	if module == "" {
		return src
	}

	return module + convfn.ModuleSeparator + src
}

// DefaultTable returns the table of expressions implemented by
// [convfn.Default].
var DefaultTable = sync.OnceValue(func() *Table {
	t := NewTable()

	id := convfn.MustFunctionID

	t.Add("Image::ExifTool::Exif::PrintExposureTime($val)", id("Exif", "PrintExposureTime")).
		Add("Image::ExifTool::Exif::PrintFNumber($val)", id("Exif", "PrintFNumber")).
		Add("Image::ExifTool::Exif::PrintFraction($val)", id("Exif", "PrintFraction")).
		Add("Image::ExifTool::GPS::ToDegrees($val)", id("GPS", "ToDegrees")).
		Add("Image::ExifTool::GPS::ToDMS($self, $val, 1)", id("GPS", "PrintDMS")).
		Add(`Image::ExifTool::GPS::ToDMS($self, $val, 1, "N")`, id("GPS", "PrintLatitude")).
		Add(`Image::ExifTool::GPS::ToDMS($self, $val, 1, "E")`, id("GPS", "PrintLongitude")).
		Add("ConvertDuration($val)", id("ExifTool", "ConvertDuration")).
		Add("ConvertUnixTime($val)", id("ExifTool", "ConvertUnixTime")).
		Add("ConvertFileSize($val)", id("ExifTool", "ConvertFileSize")).
		Add("$self->ConvertDateTime($val)", id("ExifTool", "ConvertDateTime")).
		Add(`sprintf("%.1f", $val)`, id("Print", "Decimal1")).
		Add(`sprintf("%.1f mm", $val)`, id("Print", "Millimetres1")).
		Add(`sprintf("%.3f mm", $val)`, id("Print", "Millimetres3")).
		Add(`sprintf("%.2f m", $val)`, id("Print", "Metres2"))

	t.AddScoped("Canon", "Image::ExifTool::Canon::CanonEv($val)", id("Canon", "CanonEv"))

	for _, e := range compositeExprs {
		t.AddScoped("Composite", e.src, id("Composite", e.name))
	}

	return t
})

// compositeExprs are the conversions of the default composite catalog.
var compositeExprs = []struct {
	src, name string
}{
	{"Image::ExifTool::Composite::ImageSize(@val)", "ImageSize"},
	{"$val =~ tr/ /x/; $val", "PrintImageSize"},
	{"Image::ExifTool::Composite::Megapixels($val)", "Megapixels"},
	{`sprintf("%.*f", ($val >= 1 ? 1 : ($val >= 0.001 ? 3 : 6)), $val)`, "PrintMegapixels"},
	{"($val[2] and $val[2] > 0) ? $val[2] : (defined($val[0]) ? $val[0] : $val[1])", "ShutterSpeed"},
	{"$val[0] || $val[1]", "Aperture"},
	{"Image::ExifTool::Exif::CalculateLV($val[0], $val[1], $prt[2])", "LightValue"},
	{"Image::ExifTool::Exif::CalcScaleFactor35efl($self, @val)", "ScaleFactor35efl"},
	{"ToFloat(@val); ($val[0] || 0) * ($val[1] || 1)", "FocalLength35efl"},
	{`$val[1] ? sprintf("%.1f mm (35 mm equivalent: %.1f mm)", $val[0], $val) : sprintf("%.1f mm", $val)`, "PrintFocalLength35efl"},
	{"sqrt(24 * 24 + 36 * 36) / ($val * 1440)", "CircleOfConfusion"},
	{`$val[1] && $val[2] ? $val[0] * $val[0] / ($val[1] * $val[2] * 1000) : "inf"`, "HyperfocalDistance"},
	{"Image::ExifTool::Exif::CalcFOV(@val)", "FOV"},
	{"Image::ExifTool::Exif::PrintFOV($val)", "PrintFOV"},
	{"$val[1] =~ /^S/i ? -$val[0] : $val[0]", "GPSLatitude"},
	{"$val[1] =~ /^W/i ? -$val[0] : $val[0]", "GPSLongitude"},
	{"$val[1] ? -abs($val[0]) : $val[0]", "GPSAltitude"},
	{`$val = int($val * 10) / 10; ($val =~ s/^-// ? "$val m Below" : "$val m Above") . " Sea Level"`, "PrintGPSAltitude"},
	{`(length($val[0]) or length($val[1])) ? "$val[0] $val[1]" : undef`, "GPSPosition"},
	{`"$prt[0], $prt[1]"`, "PrintGPSPosition"},
	{`$val[0] =~ / / ? $val[0] : "$val[1] $val[2]"`, "DateTimeCreated"},
	{"Image::ExifTool::Composite::SubSecDateTime(@val)", "SubSecDateTime"},
	{"Image::ExifTool::Composite::PrintLensID($val)", "PrintLensID"},
}
