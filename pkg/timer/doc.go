// Package timer implements the countdown timer control loop.
//
// A countdown is split into two parts. The Store holds the counter value and
// the run status and only applies transitions it is handed. The Controller
// owns the periodic tick, validates every request against the Store, and
// publishes one Signal per decision it takes.
//
// # Run Lifecycle
//
//	Idle --Start--> Started --(value reaches 0)--> Idle
//	                Started --Cancel / Reset / End--> Idle
//
// Start on a started timer is a silent no-op. Start with a zero value fails
// with a *StartError and leaves the state untouched.
//
// # Tick Handle
//
// Each accepted Start creates one tick handle wrapping a Ticker and a
// goroutine reading from it. The handle is released exactly once, by the
// first of Cancel, Reset, End or the natural end of the run. Releasing stops
// the ticker before the cancelling call returns, and a tick that was already
// in flight is discarded once the handle is released.
//
// # Publishing
//
// Signals are handed to a Publisher while the Controller lock is held so
// that observers see them in decision order. Publishers must therefore not
// block and must not call back into the Controller; bus.Bus queues signals
// for this reason.
//
// # Accuracy
//
// Ticks use a plain fixed interval (default 1 second). There is no drift
// compensation and a missed tick is not replayed.
package timer
