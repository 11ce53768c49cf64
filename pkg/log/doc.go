// Package log provides structured signal tracing for countdown timers.
//
// This package defines the Logger interface and Event types for capturing
// every signal a timer controller publishes and every state change its store
// applies. It is separate from operational logging (slog): the trace is a
// complete machine-readable record of a run for debugging and analysis.
//
// # Basic Usage
//
// Applications configure tracing by providing a Logger implementation:
//
//	// For development: log to console via slog
//	cfg.TraceLogger = log.NewSlogAdapter(slog.Default())
//
//	// For production: write to binary file
//	cfg.TraceLogger, _ = log.NewFileLogger("/var/log/countdown/timer.clog")
//
//	// For ad-hoc queries: write to SQLite
//	cfg.TraceLogger, _ = log.NewSQLiteLogger("/var/log/countdown/timer.sqlite3")
//
//	// Several at once: use MultiLogger
//	cfg.TraceLogger = log.NewMultiLogger(
//	    log.NewSlogAdapter(slog.Default()),
//	    fileLogger,
//	)
//
// # Event Types
//
//   - Signal: a signal published by the controller (SignalEvent)
//   - State: a transition applied by the store (StateChangeEvent)
//   - Error: a rejected request, carried with its signal (ErrorEventData)
//
// # File Format
//
// Trace files use CBOR encoding with integer keys and the .clog extension.
// The countdown-log tool provides viewing, statistics and export.
package log
