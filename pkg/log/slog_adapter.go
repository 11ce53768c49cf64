package log

import (
	"context"
	"log/slog"
)

// SlogAdapter writes trace events to an slog.Logger.
// Useful for development when you want to see signals in the console.
type SlogAdapter struct {
	logger *slog.Logger
	level  slog.Level
}

// NewSlogAdapter creates a SlogAdapter that writes to the given slog.Logger
// at Debug level.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger, level: slog.LevelDebug}
}

// WithLevel returns a copy of the adapter that logs at level.
func (a *SlogAdapter) WithLevel(level slog.Level) *SlogAdapter {
	return &SlogAdapter{logger: a.logger, level: level}
}

// Log writes the event to the slog logger.
func (a *SlogAdapter) Log(event Event) {
	attrs := []slog.Attr{
		slog.String("timer_id", event.TimerID),
		slog.String("category", event.Category.String()),
		slog.Int("value", event.Value),
		slog.String("status", event.Status.String()),
	}

	if event.Signal != nil {
		attrs = append(attrs, slog.String("signal", event.Signal.Type.String()))
	}
	if event.StateChange != nil {
		attrs = append(attrs,
			slog.String("transition", event.StateChange.Transition.String()),
			slog.Int("old_value", event.StateChange.OldValue),
			slog.String("old_status", event.StateChange.OldStatus.String()),
		)
	}
	if event.Error != nil {
		attrs = append(attrs, slog.String("error", event.Error.Message))
	}

	a.logger.LogAttrs(context.Background(), a.level, "trace", attrs...)
}

// Compile-time interface satisfaction check.
var _ Logger = (*SlogAdapter)(nil)
