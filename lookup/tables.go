package lookup

// Sample tables. The full generated set lives outside this module.
var (
	// Orientation is EXIF:Orientation.
	Orientation = MapTable{
		"1": "Horizontal (normal)",
		"2": "Mirror horizontal",
		"3": "Rotate 180",
		"4": "Mirror vertical",
		"5": "Mirror horizontal and rotate 270 CW",
		"6": "Rotate 90 CW",
		"7": "Mirror horizontal and rotate 90 CW",
		"8": "Rotate 270 CW",
	}

	// GPSAltitudeRef is GPS:GPSAltitudeRef.
	GPSAltitudeRef = MapTable{
		"0": "Above Sea Level",
		"1": "Below Sea Level",
	}

	// CanonLensType is a subset of MakerNotes:LensType for Canon bodies.
	CanonLensType = MapTable{
		"1":   "Canon EF 50mm f/1.8",
		"2":   "Canon EF 28mm f/2.8",
		"6":   "Canon EF 28-70mm f/3.5-4.5",
		"10":  "Canon EF 50mm f/2.5 Macro",
		"26":  "Canon EF 100mm f/2.8 Macro",
		"28":  "Canon EF 80-200mm f/4.5-5.6",
		"124": "Canon MP-E 65mm f/2.8 1-5x Macro Photo",
		"125": "Canon TS-E 24mm f/3.5L",
		"137": "Canon EF 85mm f/1.2L USM",
		"145": "Canon EF 100-300mm f/4.5-5.6 USM",
		"152": "Canon EF 300mm f/4L IS USM",
		"173": "Canon EF 180mm Macro f/3.5L",
		"235": "Canon EF-S 18-55mm f/3.5-5.6 IS",
		"254": "Canon EF 100mm f/2.8L Macro IS USM",
	}

	// NikonLensIDs is a subset of the composite Nikon LensID table, keyed by
	// the eight hex bytes of the lens data.
	NikonLensIDs = MapTable{
		"01 58 50 50 14 14 02 00": "AF Nikkor 50mm f/1.8",
		"06 54 53 53 24 24 06 00": "AF Micro-Nikkor 55mm f/2.8",
		"7A 3C 1F 37 30 30 7E 06": "AF-S DX Zoom-Nikkor 12-24mm f/4G IF-ED",
		"8D 44 5C 8E 34 3C 8F 0E": "AF-S VR Zoom-Nikkor 70-300mm f/4.5-5.6G IF-ED",
	}
)
