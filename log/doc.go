// Package log provides a concurrency-safe simplified logging interface
// based on [log/slog].
//
// A [Logger] is an immutable value: every configuration change returns a new
// Logger, so a Logger may be copied freely and shared between goroutines.
//
// # Basic Usage
//
//	logger := log.Make(os.Stderr)
//	logger.Info("template parsed", slog.String("name", "base.html"))
//
// # Configuration
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelTrace),
//		log.WithFormat(log.FormatText),
//		log.WithTimeLayout("kitchen"),
//		log.WithCaller(true))
//
// # Package-Level Logger
//
// The package keeps a default Logger used by the package-level functions
// ([Info], [DebugContext], ...). The CLI reconfigures it from flags with
// [Config]; libraries should accept a Logger through their own options and
// fall back to [Default].
//
// # Levels
//
// Five levels are supported: [LevelTrace], [LevelDebug], [LevelInfo],
// [LevelWarn], and [LevelError]. Trace sits below slog's Debug and is used
// for per-token and per-node parser and renderer events.
//
// # Output Formats
//
// [FormatJSON] (default) and [FormatText]. With [WithPretty], text output is
// colorized and unquoted for terminals.
package log
