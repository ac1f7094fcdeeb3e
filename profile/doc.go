// Package profile provides optional runtime profiling for the metaconv
// command.
//
// # Overview
//
// This package integrates [github.com/pkg/profile] to provide runtime profiling
// capabilities with conditional compilation support. Profiling is optional and
// must be enabled at build time using the "pprof" build tag.
//
// When built with profiling disabled (default), all operations are no-ops with
// zero runtime overhead.
//
// # Available Profiling Modes
//
// The following profiling modes are supported when built with the pprof tag:
//
//   - allocs:    Memory allocation profiling (all allocations)
//   - block:     Block (synchronization) profiling
//   - clock:     Wall-clock profiling
//   - cpu:       CPU profiling
//   - goroutine: Goroutine profiling
//   - heap:      Heap memory profiling (live allocations)
//   - mem:       General memory profiling
//   - mutex:     Mutex contention profiling
//   - thread:    Thread creation profiling
//   - trace:     Execution trace profiling
//
// Use [Modes] to retrieve the list of supported modes programmatically.
//
// # Starting a Profiler
//
// A [Profiler] names the mode and output directory and is started with
// [Profiler.Start]:
//
//	p := profile.Profiler{
//	    Mode:  "cpu",
//	    Path:  "/tmp/profiles",
//	    Quiet: true,
//	}
//	defer p.Start().Stop()
//
// Profile files are written to the directory with names matching the
// profiling mode (e.g., cpu.pprof, mem.pprof).
//
// # Command-Line Usage
//
// The metaconv command accepts profiling flags when built with the pprof
// tag. Profiling a large resolve run shows where conversions spend time:
//
//	go build -tags pprof -o metaconv .
//	./metaconv --pprof-mode cpu resolve photos/*.jpg
//	./metaconv --pprof-mode heap --pprof-dir ./profiles generate tags.yaml
//
// The default output directory is:
//
//	$XDG_CACHE_HOME/metaconv/pprof   (Linux/Unix)
//	~/Library/Caches/metaconv/pprof  (macOS)
//	%LocalAppData%\metaconv\pprof    (Windows)
//
// # Analyzing Profile Data
//
// ## Interactive Command-Line Analysis
//
// Use the go tool pprof command to analyze profile data interactively:
//
//	# Analyze a CPU profile
//	go tool pprof /tmp/profiles/cpu.pprof
//
//	# Analyze with the original binary for symbol resolution
//	go tool pprof ./metaconv /tmp/profiles/cpu.pprof
//
// For an interactive web UI with flame graphs:
//
//	go tool pprof -http=: /tmp/profiles/cpu.pprof
//
// Building with the pprof tag also imports [net/http/pprof], which
// registers its handlers on [net/http.DefaultServeMux]. The metaconv
// command does not start a server.
package profile
