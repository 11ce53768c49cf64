package service

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/countdown-go/countdown/pkg/config"
	"github.com/countdown-go/countdown/pkg/log"
)

// Trace is the set of trace sinks opened from configuration.
type Trace struct {
	log.Logger

	file   *log.FileLogger
	sqlite *log.SQLiteLogger
}

// OpenTrace opens the trace sinks named in tc. When console is non-nil its
// handler also receives every event at Debug level. The returned Trace
// discards events when nothing is configured.
func OpenTrace(tc config.TraceConfig, console *slog.Logger) (*Trace, error) {
	t := &Trace{}
	var sinks []log.Logger

	if tc.File != "" {
		fl, err := log.NewFileLogger(tc.File)
		if err != nil {
			return nil, fmt.Errorf("open trace file: %w", err)
		}
		t.file = fl
		sinks = append(sinks, fl)
	}
	if tc.SQLite != "" {
		sl, err := log.NewSQLiteLogger(tc.SQLite)
		if err != nil {
			t.Close()
			return nil, fmt.Errorf("open trace database: %w", err)
		}
		t.sqlite = sl
		sinks = append(sinks, sl)
	}
	if console != nil {
		sinks = append(sinks, log.NewSlogAdapter(console))
	}

	switch len(sinks) {
	case 0:
		t.Logger = log.NoopLogger{}
	case 1:
		t.Logger = sinks[0]
	default:
		t.Logger = log.NewMultiLogger(sinks...)
	}
	return t, nil
}

// Close flushes and closes every opened sink.
func (t *Trace) Close() error {
	var errs []error
	if t.file != nil {
		errs = append(errs, t.file.Close())
	}
	if t.sqlite != nil {
		errs = append(errs, t.sqlite.Close())
	}
	return errors.Join(errs...)
}
