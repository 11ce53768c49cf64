package log

import (
	"errors"
	"time"

	"github.com/countdown-go/countdown/pkg/timer"
)

// Event is the top-level trace event.
// Exactly one of Signal, StateChange or Error is set, matching Category.
// Error may accompany Signal when a request was rejected.
type Event struct {
	// Common fields
	Timestamp time.Time    `cbor:"1,keyasint"`
	TimerID   string       `cbor:"2,keyasint"`
	Category  Category     `cbor:"3,keyasint"`
	Value     int          `cbor:"4,keyasint"`
	Status    timer.Status `cbor:"5,keyasint"`

	// Type-specific payload
	Signal      *SignalEvent      `cbor:"10,keyasint,omitempty"`
	StateChange *StateChangeEvent `cbor:"11,keyasint,omitempty"`
	Error       *ErrorEventData   `cbor:"12,keyasint,omitempty"`
}

// Category classifies a trace event.
type Category uint8

const (
	// CategorySignal is a signal published by a controller.
	CategorySignal Category = iota

	// CategoryState is a transition applied by a store.
	CategoryState

	// CategoryError is a rejected request.
	CategoryError
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategorySignal:
		return "SIGNAL"
	case CategoryState:
		return "STATE"
	case CategoryError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseCategory returns the Category named by s.
func ParseCategory(s string) (Category, bool) {
	for c := CategorySignal; c <= CategoryError; c++ {
		if c.String() == s {
			return c, true
		}
	}
	return 0, false
}

// SignalEvent captures a published signal.
type SignalEvent struct {
	Type timer.SignalType `cbor:"1,keyasint"`
}

// StateChangeEvent captures a store transition.
type StateChangeEvent struct {
	Transition timer.TransitionKind `cbor:"1,keyasint"`
	OldValue   int                  `cbor:"2,keyasint"`
	OldStatus  timer.Status         `cbor:"3,keyasint"`
}

// ErrorEventData captures why a request was rejected.
type ErrorEventData struct {
	Message string `cbor:"1,keyasint"`
	Context string `cbor:"2,keyasint,omitempty"`
}

// FromSignal builds the trace event for a published signal.
// Signals carrying an error are categorized as CategoryError.
func FromSignal(sig timer.Signal) Event {
	ev := Event{
		Timestamp: sig.Time,
		TimerID:   sig.TimerID,
		Category:  CategorySignal,
		Value:     sig.State.Value,
		Status:    sig.State.Status,
		Signal:    &SignalEvent{Type: sig.Type},
	}
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now()
	}
	if sig.Err != nil {
		ev.Category = CategoryError
		ev.Error = &ErrorEventData{Message: sig.Err.Error()}

		var se *timer.StartError
		if errors.As(sig.Err, &se) && se.Cause != nil {
			ev.Error.Context = se.Cause.Error()
		}
	}
	return ev
}

// FromStateChange builds the trace event for a store transition.
func FromStateChange(timerID string, oldState, newState timer.State, t timer.Transition) Event {
	return Event{
		Timestamp: time.Now(),
		TimerID:   timerID,
		Category:  CategoryState,
		Value:     newState.Value,
		Status:    newState.Status,
		StateChange: &StateChangeEvent{
			Transition: t.Kind,
			OldValue:   oldState.Value,
			OldStatus:  oldState.Status,
		},
	}
}
