// Package cli contains the command line interface for metaconv.
//
// # Usage
//
// Without a command, the arguments are images or pool documents whose
// composite tags are resolved:
//
//	metaconv photo.jpg
//	metaconv resolve --format=yaml pool.json
//
// The remaining commands work on single expressions or definition files:
//
//   - normalize: print the canonical form of expressions
//   - classify: report whether expressions are inlined, dispatched, or missing
//   - eval: evaluate one expression against a value and composite arrays
//   - generate: compile tag definition files to Go source
//   - catalog: list the composite definitions
//   - init: write the current flag values to the configuration file
//
// Expressions are read from the command line or, with --source, from files
// holding one expression per line ("-" reads stdin).
//
// # Configuration
//
// Flags are also read from ~/.config/metaconv/config.yaml (see
// [loadConfig]). Nested keys are joined with "-", so
//
//	log:
//	  level: debug
//
// sets --log-level. The init command writes this file.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (debug, info, warn, error)
//   - --log-format: Set log output format (json, text)
//   - --log-time-layout: Set timestamp format (RFC3339, RFC3339Nano, etc.)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Colorize log output
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o metaconv .
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default:
//     ~/.cache/metaconv/pprof)
//
// # Examples
//
//	# Debug logging with CPU profiling
//	metaconv --log-level=debug --pprof-mode=cpu photo.jpg
//
//	# Evaluate an expression against a value
//	metaconv eval --val=0.004 'sprintf("1/%d", int(1/$val + 0.5))'
//
//	# Generate functions from a definitions file
//	metaconv generate -O ./out tags.yaml
package cli
