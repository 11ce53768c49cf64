package commands

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/countdown-go/countdown/pkg/log"
	"github.com/countdown-go/countdown/pkg/timer"
)

// Stats holds aggregate statistics about a trace.
type Stats struct {
	TotalEvents      int
	EventsByCategory map[log.Category]int
	EventsBySignal   map[timer.SignalType]int
	Timers           map[string]*TimerStats
	Errors           int
	TimeRange        struct {
		Start time.Time
		End   time.Time
	}
}

// TimerStats holds statistics for a single timer.
type TimerStats struct {
	FirstSeen   time.Time
	LastSeen    time.Time
	Events      int
	Runs        int
	Completed   int
	Cancelled   int
	Decrements  int
	StartErrors int
	LastValue   int
	LastStatus  timer.Status
}

// Collect reads every event from the trace at path.
func Collect(path string) (*Stats, error) {
	src, err := openSource(path, log.Filter{})
	if err != nil {
		return nil, err
	}
	defer src.Close()

	stats := &Stats{
		EventsByCategory: make(map[log.Category]int),
		EventsBySignal:   make(map[timer.SignalType]int),
		Timers:           make(map[string]*TimerStats),
	}
	err = each(src, func(event log.Event) error {
		stats.add(event)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return stats, nil
}

func (s *Stats) add(event log.Event) {
	s.TotalEvents++
	s.EventsByCategory[event.Category]++

	if s.TimeRange.Start.IsZero() || event.Timestamp.Before(s.TimeRange.Start) {
		s.TimeRange.Start = event.Timestamp
	}
	if event.Timestamp.After(s.TimeRange.End) {
		s.TimeRange.End = event.Timestamp
	}

	ts, ok := s.Timers[event.TimerID]
	if !ok {
		ts = &TimerStats{FirstSeen: event.Timestamp, LastSeen: event.Timestamp}
		s.Timers[event.TimerID] = ts
	}
	ts.Events++
	if !event.Timestamp.Before(ts.LastSeen) {
		ts.LastSeen = event.Timestamp
		ts.LastValue = event.Value
		ts.LastStatus = event.Status
	}

	if event.Error != nil {
		s.Errors++
	}
	if event.Signal == nil {
		return
	}

	s.EventsBySignal[event.Signal.Type]++
	switch event.Signal.Type {
	case timer.SignalStart:
		ts.Runs++
	case timer.SignalTimerEnd:
		ts.Completed++
	case timer.SignalCancel:
		ts.Cancelled++
	case timer.SignalDecrement:
		ts.Decrements++
	case timer.SignalStartError:
		ts.StartErrors++
	}
}

// RunStats analyzes the trace and prints statistics.
func RunStats(path string, w io.Writer) error {
	stats, err := Collect(path)
	if err != nil {
		return err
	}
	printStats(w, stats)
	return nil
}

func printStats(w io.Writer, stats *Stats) {
	fmt.Fprintln(w, "=== Countdown Trace Statistics ===")
	fmt.Fprintln(w)

	if stats.TotalEvents > 0 {
		fmt.Fprintf(w, "Time Range: %s to %s\n",
			stats.TimeRange.Start.Format(time.RFC3339),
			stats.TimeRange.End.Format(time.RFC3339))
		fmt.Fprintf(w, "Duration:   %s\n", stats.TimeRange.End.Sub(stats.TimeRange.Start).Round(time.Millisecond))
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Total Events: %d\n", stats.TotalEvents)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Events by Category:")
	for _, cat := range []log.Category{log.CategorySignal, log.CategoryState, log.CategoryError} {
		if count := stats.EventsByCategory[cat]; count > 0 {
			fmt.Fprintf(w, "  %-12s %d\n", cat.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Signals:")
	for st := timer.SignalStart; st <= timer.SignalStartError; st++ {
		if count := stats.EventsBySignal[st]; count > 0 {
			fmt.Fprintf(w, "  %-12s %d\n", st.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Timers: %d\n", len(stats.Timers))
	ids := make([]string, 0, len(stats.Timers))
	for id := range stats.Timers {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return stats.Timers[ids[i]].FirstSeen.Before(stats.Timers[ids[j]].FirstSeen)
	})
	for _, id := range ids {
		ts := stats.Timers[id]
		fmt.Fprintf(w, "  [%s] %d events, duration %s\n",
			shortenID(id), ts.Events, ts.LastSeen.Sub(ts.FirstSeen).Round(time.Millisecond))
		fmt.Fprintf(w, "           Runs: %d (completed %d, cancelled %d)\n", ts.Runs, ts.Completed, ts.Cancelled)
		fmt.Fprintf(w, "           Decrements: %d\n", ts.Decrements)
		if ts.StartErrors > 0 {
			fmt.Fprintf(w, "           Start errors: %d\n", ts.StartErrors)
		}
		fmt.Fprintf(w, "           Last: %d %s\n", ts.LastValue, ts.LastStatus)
	}

	if stats.Errors > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Errors: %d\n", stats.Errors)
	}
}
