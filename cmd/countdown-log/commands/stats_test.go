package commands

import (
	"bytes"
	"strings"
	"testing"

	"github.com/countdown-go/countdown/pkg/log"
	"github.com/countdown-go/countdown/pkg/timer"
)

func TestCollect(t *testing.T) {
	stats, err := Collect(createTestTrace(t, sampleTrace()))
	if err != nil {
		t.Fatalf("Collect failed: %v", err)
	}

	if stats.TotalEvents != 9 {
		t.Errorf("TotalEvents = %d, want 9", stats.TotalEvents)
	}
	if stats.EventsByCategory[log.CategoryState] != 4 {
		t.Errorf("state events = %d, want 4", stats.EventsByCategory[log.CategoryState])
	}
	if stats.EventsBySignal[timer.SignalDecrement] != 2 {
		t.Errorf("decrements = %d, want 2", stats.EventsBySignal[timer.SignalDecrement])
	}
	if stats.Errors != 1 {
		t.Errorf("Errors = %d, want 1", stats.Errors)
	}

	a := stats.Timers["timer-a"]
	if a == nil {
		t.Fatal("timer-a missing")
	}
	if a.Runs != 1 || a.Completed != 1 || a.Cancelled != 0 || a.Decrements != 2 {
		t.Errorf("timer-a = %+v", a)
	}
	if a.LastValue != 0 || a.LastStatus != timer.StatusIdle {
		t.Errorf("timer-a last = %d %v, want 0 IDLE", a.LastValue, a.LastStatus)
	}

	b := stats.Timers["timer-b"]
	if b == nil || b.StartErrors != 1 || b.Runs != 0 {
		t.Errorf("timer-b = %+v", b)
	}
}

func TestStatsOutput(t *testing.T) {
	path := createTestDB(t, sampleTrace())

	var buf bytes.Buffer
	if err := RunStats(path, &buf); err != nil {
		t.Fatalf("RunStats failed: %v", err)
	}
	output := buf.String()

	for _, want := range []string{
		"Total Events: 9",
		"Duration:   2s",
		"SIGNAL:      4",
		"STATE:       4",
		"ERROR:       1",
		"DECREMENT:   2",
		"Timers: 2",
		"[timer-a] 8 events, duration 2s",
		"Runs: 1 (completed 1, cancelled 0)",
		"Start errors: 1",
		"Errors: 1",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q:\n%s", want, output)
		}
	}
}

func TestStatsEmptyTrace(t *testing.T) {
	var buf bytes.Buffer
	if err := RunStats(createTestTrace(t, nil), &buf); err != nil {
		t.Fatalf("RunStats failed: %v", err)
	}
	if !strings.Contains(buf.String(), "Total Events: 0") {
		t.Errorf("output = %q", buf.String())
	}
	if strings.Contains(buf.String(), "Time Range") {
		t.Error("empty trace printed a time range")
	}
}
