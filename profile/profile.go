package profile

// Tag is the build tag required to enable pprof profiling.
const Tag = `pprof`

// Profiler configures one profiling session.
type Profiler struct {
	// Mode is one of [Modes]. Empty disables profiling.
	Mode string
	// Path is the output directory. Empty selects the working directory.
	Path string
	// Quiet suppresses the profiler's own log messages.
	Quiet bool
}

// Start begins profiling and returns the handle that ends it. Without the
// pprof build tag, or with an empty or unknown Mode, Start returns a
// no-op. Both Start and Stop are always safely callable.
func (p Profiler) Start() interface{ Stop() } {
	if p.Mode == "" {
		return ignore{}
	}

	return start(p)
}

// Enabled reports whether profiling was compiled in.
func Enabled() bool { return len(Modes()) > 0 }

type ignore struct{}

func (ignore) Stop() {}
