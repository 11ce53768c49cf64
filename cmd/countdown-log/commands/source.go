// Package commands implements the countdown-log CLI commands.
package commands

import (
	"database/sql"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/countdown-go/countdown/pkg/log"
)

// source yields trace events in recorded order.
type source interface {
	Next() (log.Event, error)
	Close() error
}

// sliceSource replays events already loaded into memory.
type sliceSource struct {
	events []log.Event
}

func (s *sliceSource) Next() (log.Event, error) {
	if len(s.events) == 0 {
		return log.Event{}, io.EOF
	}
	ev := s.events[0]
	s.events = s.events[1:]
	return ev, nil
}

func (s *sliceSource) Close() error { return nil }

// isSQLite reports whether path names a SQLite trace database.
func isSQLite(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".sqlite", ".sqlite3", ".db":
		return true
	}
	return false
}

// openSource opens a CBOR trace file or a SQLite trace database.
func openSource(path string, filter log.Filter) (source, error) {
	if !isSQLite(path) {
		r, err := log.NewFilteredReader(path, filter)
		if err != nil {
			return nil, fmt.Errorf("failed to open trace file: %w", err)
		}
		return r, nil
	}

	db, err := sql.Open("sqlite3", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("failed to open trace database: %w", err)
	}
	defer db.Close()

	events, err := log.QueryEvents(db, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to read trace database: %w", err)
	}
	return &sliceSource{events: events}, nil
}

// each calls fn for every event in src.
func each(src source, fn func(log.Event) error) error {
	for {
		event, err := src.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		if err := fn(event); err != nil {
			return err
		}
	}
}
