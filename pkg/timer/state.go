package timer

import (
	"sync"
)

// Status is the run status of a countdown.
type Status uint8

const (
	// StatusIdle indicates no tick is outstanding.
	StatusIdle Status = iota

	// StatusStarted indicates a run is in progress with one active tick.
	StatusStarted
)

// String returns a human-readable status name.
func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "IDLE"
	case StatusStarted:
		return "STARTED"
	default:
		return "UNKNOWN"
	}
}

// State is a snapshot of a countdown.
type State struct {
	// Value is the remaining count. Never negative.
	Value int

	// Status is the run status.
	Status Status
}

// TransitionKind identifies a state transition.
type TransitionKind uint8

const (
	// TransitionStartAccepted marks a run as started.
	TransitionStartAccepted TransitionKind = iota + 1

	// TransitionDecremented lowers the value by one.
	TransitionDecremented

	// TransitionEndReached ends the run.
	TransitionEndReached

	// TransitionCancelled stops the run without touching the value.
	TransitionCancelled

	// TransitionReset replaces the value and ends any run.
	TransitionReset
)

// String returns a human-readable transition name.
func (k TransitionKind) String() string {
	switch k {
	case TransitionStartAccepted:
		return "START_ACCEPTED"
	case TransitionDecremented:
		return "DECREMENTED"
	case TransitionEndReached:
		return "END_REACHED"
	case TransitionCancelled:
		return "CANCELLED"
	case TransitionReset:
		return "RESET"
	default:
		return "UNKNOWN"
	}
}

// Transition is an approved change to apply to a State.
type Transition struct {
	Kind TransitionKind

	// Value is the new counter value (TransitionReset only).
	Value int
}

// StartAccepted returns the transition for an accepted Start.
func StartAccepted() Transition { return Transition{Kind: TransitionStartAccepted} }

// Decremented returns the transition for one decrement.
func Decremented() Transition { return Transition{Kind: TransitionDecremented} }

// EndReached returns the transition for the end of a run.
func EndReached() Transition { return Transition{Kind: TransitionEndReached} }

// Cancelled returns the transition for a cancelled run.
func Cancelled() Transition { return Transition{Kind: TransitionCancelled} }

// ResetTo returns the transition that sets the value to v.
func ResetTo(v int) Transition { return Transition{Kind: TransitionReset, Value: v} }

// Reduce applies t to s and returns the resulting state.
// Reduce is pure; it keeps Value non-negative whatever it is handed.
func Reduce(s State, t Transition) State {
	switch t.Kind {
	case TransitionStartAccepted:
		s.Status = StatusStarted
	case TransitionDecremented:
		if s.Value > 0 {
			s.Value--
		}
	case TransitionEndReached, TransitionCancelled:
		s.Status = StatusIdle
	case TransitionReset:
		s.Value = max(t.Value, 0)
		s.Status = StatusIdle
	}
	return s
}

// Store holds the state of one countdown.
// Reads are safe from any goroutine; writes happen only through Apply.
type Store struct {
	mu    sync.RWMutex
	state State

	onChange func(oldState, newState State, t Transition)
}

// NewStore creates a store with the given initial value.
func NewStore(initial int) (*Store, error) {
	if initial < 0 {
		return nil, ErrNegativeValue
	}
	return &Store{state: State{Value: initial, Status: StatusIdle}}, nil
}

// Value returns the current counter value.
func (s *Store) Value() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Value
}

// Status returns the current run status.
func (s *Store) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Status
}

// Snapshot returns value and status read together.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Apply reduces the current state with t and returns the new state.
// The change callback, if any, is invoked after the lock is released.
func (s *Store) Apply(t Transition) State {
	s.mu.Lock()
	old := s.state
	s.state = Reduce(old, t)
	next := s.state
	fn := s.onChange
	s.mu.Unlock()

	if fn != nil && old != next {
		fn(old, next, t)
	}
	return next
}

// OnChange sets a callback invoked whenever Apply changes the state.
func (s *Store) OnChange(fn func(oldState, newState State, t Transition)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = fn
}
