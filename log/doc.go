// Package log provides a concurrency-safe simplified logging interface
// based on [log/slog].
//
// Loggers are configured at creation time with functional options and
// are otherwise immutable; [Logger.Wrap] and [Logger.With] derive new
// loggers from existing ones.
//
// # Basic Usage
//
//	logger := log.Make(os.Stderr)
//	logger.Info("parse complete", slog.Int("cursor", 12))
//
// # Configuration
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelTrace),
//		log.WithFormat(log.FormatText),
//		log.WithTimeLayout("RFC3339Nano"),
//		log.WithCaller(true))
//
// # Zero Value
//
// The zero [Logger] discards everything. Packages that accept a [Logger]
// through an option may therefore log unconditionally.
//
// # Levels
//
// Five levels are supported: [LevelTrace], [LevelDebug], [LevelInfo],
// [LevelWarn], and [LevelError]. Trace is used by the parsing engine for
// per-dispatch events and is far too verbose for anything but debugging a
// grammar.
//
// # Package Logger
//
// The package-level functions ([Info], [DebugContext], ...) write to a
// default logger that can be reconfigured with [Config].
package log
