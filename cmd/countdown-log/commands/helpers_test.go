package commands

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/countdown-go/countdown/pkg/log"
	"github.com/countdown-go/countdown/pkg/timer"
)

var baseTime = time.Date(2026, 1, 28, 10, 0, 0, 0, time.UTC)

// sampleTrace is one completed run of timer-a from 2 and a rejected start
// of timer-b.
func sampleTrace() []log.Event {
	at := func(ms int) time.Time { return baseTime.Add(time.Duration(ms) * time.Millisecond) }
	started := func(v int) timer.State { return timer.State{Value: v, Status: timer.StatusStarted} }
	idle := func(v int) timer.State { return timer.State{Value: v, Status: timer.StatusIdle} }

	sig := func(ms int, id string, st timer.SignalType, s timer.State, err error) log.Event {
		return log.FromSignal(timer.Signal{Type: st, TimerID: id, Time: at(ms), State: s, Err: err})
	}
	change := func(ms int, id string, from, to timer.State, tr timer.Transition) log.Event {
		ev := log.FromStateChange(id, from, to, tr)
		ev.Timestamp = at(ms)
		return ev
	}

	return []log.Event{
		change(0, "timer-a", idle(2), started(2), timer.StartAccepted()),
		sig(0, "timer-a", timer.SignalStart, started(2), nil),
		change(1000, "timer-a", started(2), started(1), timer.Decremented()),
		sig(1000, "timer-a", timer.SignalDecrement, started(1), nil),
		sig(1500, "timer-b", timer.SignalStartError, idle(0), &timer.StartError{Cause: timer.ErrValueZero}),
		change(2000, "timer-a", started(1), started(0), timer.Decremented()),
		sig(2000, "timer-a", timer.SignalDecrement, started(0), nil),
		change(2000, "timer-a", started(0), idle(0), timer.EndReached()),
		sig(2000, "timer-a", timer.SignalTimerEnd, idle(0), nil),
	}
}

func createTestTrace(t *testing.T, events []log.Event) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test"+log.FileExt)

	logger, err := log.NewFileLogger(path)
	if err != nil {
		t.Fatalf("failed to create test trace: %v", err)
	}
	for _, e := range events {
		logger.Log(e)
	}
	logger.Close()
	return path
}

func createTestDB(t *testing.T, events []log.Event) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.sqlite3")

	logger, err := log.NewSQLiteLogger(path)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	for _, e := range events {
		logger.Log(e)
	}
	if err := logger.Close(); err != nil {
		t.Fatalf("failed to close test database: %v", err)
	}
	return path
}
