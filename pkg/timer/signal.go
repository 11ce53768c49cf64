package timer

import (
	"errors"
	"fmt"
	"time"
)

// Timer errors.
var (
	// ErrValueZero is the cause carried by a StartError when there is
	// nothing left to count down.
	ErrValueZero = errors.New("value is zero")

	// ErrNegativeValue is returned when a negative counter value is requested.
	ErrNegativeValue = errors.New("value must not be negative")

	// ErrUnknownSignal is returned by Dispatch for signal types it does not accept.
	ErrUnknownSignal = errors.New("unknown signal")
)

// StartError reports a rejected Start. It is recoverable by resetting the
// value and starting again.
type StartError struct {
	// Value is the counter value at the time of the attempt.
	Value int

	// Cause is the reason for the rejection.
	Cause error
}

func (e *StartError) Error() string {
	return fmt.Sprintf("can't start, %v: reset first", e.Cause)
}

func (e *StartError) Unwrap() error {
	return e.Cause
}

// SignalType identifies a signal emitted or accepted by the Controller.
type SignalType uint8

const (
	// SignalStart reports an accepted Start.
	SignalStart SignalType = iota + 1

	// SignalCancel reports a cancelled run.
	SignalCancel

	// SignalReset reports a reset of the value.
	SignalReset

	// SignalDecrement reports one applied decrement.
	SignalDecrement

	// SignalTimerEnd reports the end of a run.
	SignalTimerEnd

	// SignalStartError reports a rejected Start.
	SignalStartError
)

// String returns a human-readable signal name.
func (t SignalType) String() string {
	switch t {
	case SignalStart:
		return "START"
	case SignalCancel:
		return "CANCEL"
	case SignalReset:
		return "RESET"
	case SignalDecrement:
		return "DECREMENT"
	case SignalTimerEnd:
		return "TIMER_END"
	case SignalStartError:
		return "START_ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseSignalType parses a signal name as returned by SignalType.String.
func ParseSignalType(s string) (SignalType, error) {
	for t := SignalStart; t <= SignalStartError; t++ {
		if t.String() == s {
			return t, nil
		}
	}
	return 0, fmt.Errorf("%w: %s", ErrUnknownSignal, s)
}

// Signal is a single event produced by a Controller decision.
type Signal struct {
	Type SignalType

	// TimerID identifies the controller that produced the signal.
	TimerID string

	// Time is when the decision was taken.
	Time time.Time

	// State is the store state after the decision. For SignalReset passed
	// to Dispatch, State.Value carries the requested value.
	State State

	// Err is set for SignalStartError.
	Err error
}

// Publisher receives signals from a Controller.
// Publish is called with the Controller lock held: it must not block and
// must not call back into the Controller.
type Publisher interface {
	Publish(sig Signal)
}

// PublisherFunc adapts a function to the Publisher interface.
type PublisherFunc func(sig Signal)

// Publish calls f(sig).
func (f PublisherFunc) Publish(sig Signal) { f(sig) }

// discardPublisher drops every signal.
type discardPublisher struct{}

func (discardPublisher) Publish(Signal) {}
