package composite

// Finder looks a name up in the pool without consulting hooks.
type Finder func(name string) (Entry, bool)

// Hook computes a dependency that no single pool entry holds. It is the
// last step of name resolution.
type Hook func(name string, find Finder) (Entry, bool)

// ISOSources lists the tags an ISO dependency may come from, in order.
var ISOSources = []string{
	"EXIF:ISO",
	"ISOSpeedRatings",
	"PhotographicSensitivity",
	"StandardOutputSensitivity",
	"RecommendedExposureIndex",
	"ISOSpeed",
	"MakerNotes:ISO",
	"MakerNotes:ISOSetting",
	"MakerNotes:BaseISO",
	"CameraISO",
}

// FirstOf returns a hook yielding the first of sources that is present.
func FirstOf(sources ...string) Hook {
	return func(_ string, find Finder) (Entry, bool) {
		for _, s := range sources {
			if e, ok := find(s); ok {
				return e, true
			}
		}

		return Entry{}, false
	}
}

// DefaultHooks returns the hooks a [Resolver] starts with.
func DefaultHooks() map[string]Hook {
	return map[string]Hook{
		"ISO": FirstOf(ISOSources...),
	}
}
