// Package bus delivers timer signals to observers.
//
// A Bus is the timer.Publisher handed to a timer.Controller. Publish only
// appends to an in-memory queue, so it is safe to call with the controller
// lock held. A single goroutine drains the queue and calls every subscribed
// Handler in publish order, outside of any controller lock, which lets
// handlers call back into the controller.
//
// # Ordering
//
// Signals are delivered one at a time in the order they were published.
// Handlers are called in subscription order. A slow handler delays every
// later signal.
//
// # Shutdown
//
// Stop delivers everything still queued before returning. Signals published
// after Stop are dropped and counted.
package bus
