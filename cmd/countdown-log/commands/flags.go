package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/countdown-go/countdown/pkg/log"
	"github.com/countdown-go/countdown/pkg/timer"
)

// FilterOptions holds the raw filter flags shared by view, export and filter.
type FilterOptions struct {
	TimerID   string
	Category  string
	Signal    string
	TimeStart string
	TimeEnd   string
}

// Build converts the flags into a log.Filter.
func (o FilterOptions) Build() (log.Filter, error) {
	filter := log.Filter{TimerID: o.TimerID}

	if o.Category != "" {
		c, ok := log.ParseCategory(strings.ToUpper(o.Category))
		if !ok {
			return log.Filter{}, fmt.Errorf("invalid category: %s (valid: signal, state, error)", o.Category)
		}
		filter.Category = &c
	}

	if o.Signal != "" {
		s, err := timer.ParseSignalType(strings.ToUpper(strings.ReplaceAll(o.Signal, "-", "_")))
		if err != nil {
			return log.Filter{}, fmt.Errorf("invalid signal: %s", o.Signal)
		}
		filter.Signal = &s
	}

	if o.TimeStart != "" {
		t, err := time.Parse(time.RFC3339, o.TimeStart)
		if err != nil {
			return log.Filter{}, fmt.Errorf("invalid time-start format: %w", err)
		}
		filter.TimeStart = &t
	}

	if o.TimeEnd != "" {
		t, err := time.Parse(time.RFC3339, o.TimeEnd)
		if err != nil {
			return log.Filter{}, fmt.Errorf("invalid time-end format: %w", err)
		}
		filter.TimeEnd = &t
	}

	return filter, nil
}
