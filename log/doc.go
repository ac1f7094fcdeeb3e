// Package log provides a concurrency-safe structured logging interface built
// on [log/slog].
//
// A [Logger] is a small value type. Its zero value discards everything, so
// library packages hold one unconditionally and callers opt in by passing a
// configured logger through a functional option.
//
// # Basic Usage
//
//	logger := log.Make(os.Stderr)
//	logger.Info("resolution finished", slog.Int("built", 12))
//
// # Configuration
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelTrace),
//		log.WithFormat(log.FormatText),
//		log.WithTimeLayout("kitchen"),
//		log.WithCaller(true))
//
// # Levels
//
// Five levels are supported: [LevelTrace], [LevelDebug], [LevelInfo],
// [LevelWarn], and [LevelError]. Trace sits below slog's Debug and is used for
// per-definition resolver transitions and per-expression classifier results.
//
// # Package-Level Logger
//
// The package functions [Debug], [Info], [Warn], and [Error] write to a
// default logger that [Config] reconfigures. The CLI configures it once from
// command-line flags.
package log
