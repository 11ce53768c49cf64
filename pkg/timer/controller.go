package timer

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// tickHandle is the active periodic timer of one run.
type tickHandle struct {
	ticker   Ticker
	done     chan struct{}
	released atomic.Bool
}

// release stops the ticker and ends the tick goroutine.
// Only the first call has an effect; it reports whether it did.
func (h *tickHandle) release() bool {
	if !h.released.CompareAndSwap(false, true) {
		return false
	}
	h.ticker.Stop()
	close(h.done)
	return true
}

// Option configures a Controller.
type Option func(*Controller)

// WithInterval sets the tick interval.
func WithInterval(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.interval = d
		}
	}
}

// WithTicker sets the factory used to create the periodic ticker.
func WithTicker(fn TickerFunc) Option {
	return func(c *Controller) {
		if fn != nil {
			c.newTicker = fn
		}
	}
}

// WithLogger sets the logger for debug and anomaly output.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// WithID sets the timer ID reported in signals. A random UUID is used otherwise.
func WithID(id string) Option {
	return func(c *Controller) {
		if id != "" {
			c.id = id
		}
	}
}

// Controller drives a countdown held in a Store.
// All methods are safe for concurrent use.
type Controller struct {
	mu sync.Mutex

	id    string
	store *Store
	pub   Publisher

	interval  time.Duration
	newTicker TickerFunc

	// Logger for debug output (optional)
	logger *slog.Logger

	// handle is the active tick handle, nil when idle.
	handle *tickHandle

	// wg tracks tick goroutines.
	wg sync.WaitGroup
}

// NewController creates a controller for store that publishes its signals to pub.
// A nil pub discards signals.
func NewController(store *Store, pub Publisher, opts ...Option) *Controller {
	c := &Controller{
		id:        uuid.New().String(),
		store:     store,
		pub:       pub,
		interval:  DefaultInterval,
		newTicker: NewSystemTicker,
	}
	if c.pub == nil {
		c.pub = discardPublisher{}
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ID returns the timer ID.
func (c *Controller) ID() string {
	return c.id
}

// Store returns the store driven by this controller.
func (c *Controller) Store() *Store {
	return c.store
}

// Interval returns the tick interval.
func (c *Controller) Interval() time.Duration {
	return c.interval
}

// Running reports whether a tick handle is active.
func (c *Controller) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.handle != nil
}

// Start begins a run. It returns immediately; the tick runs in the background
// until the run ends or is cancelled.
//
// Start on a started timer does nothing and returns nil. Start with a zero
// value publishes SignalStartError and returns a *StartError.
func (c *Controller) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := c.store.Snapshot()
	if snap.Status == StatusStarted || c.handle != nil {
		c.debugLog("start ignored, already started")
		return nil
	}
	if snap.Value <= 0 {
		err := &StartError{Value: snap.Value, Cause: ErrValueZero}
		c.debugLog("start rejected", "error", err)
		c.emit(SignalStartError, snap, err)
		return err
	}

	h := &tickHandle{
		ticker: c.newTicker(c.interval),
		done:   make(chan struct{}),
	}
	c.handle = h

	state := c.store.Apply(StartAccepted())
	c.emit(SignalStart, state, nil)
	c.debugLog("run started", "value", state.Value, "interval", c.interval)

	c.wg.Add(1)
	go c.run(h)
	return nil
}

// Cancel stops the active run, keeping the current value.
// It reports whether a run was cancelled.
func (c *Controller) Cancel() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.releaseLocked() {
		return false
	}
	state := c.store.Apply(Cancelled())
	c.emit(SignalCancel, state, nil)
	c.debugLog("run cancelled", "value", state.Value)
	return true
}

// Reset sets the value to v and the status to idle, cancelling any active run.
func (c *Controller) Reset(v int) error {
	if v < 0 {
		return ErrNegativeValue
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	cancelled := c.releaseLocked()
	state := c.store.Apply(ResetTo(v))
	c.emit(SignalReset, state, nil)
	c.debugLog("reset", "value", v, "cancelledRun", cancelled)
	return nil
}

// End terminates the active run as if the value had reached zero.
// It reports whether a run was ended.
func (c *Controller) End() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.handle == nil && c.store.Status() != StatusStarted {
		return false
	}
	c.endLocked()
	return true
}

// Dispatch routes sig to the matching operation.
// A SignalDecrement is run through the same validation as a tick and is
// discarded when no run is active.
func (c *Controller) Dispatch(sig Signal) error {
	switch sig.Type {
	case SignalStart:
		return c.Start()
	case SignalCancel:
		c.Cancel()
		return nil
	case SignalReset:
		return c.Reset(sig.State.Value)
	case SignalTimerEnd:
		c.End()
		return nil
	case SignalDecrement:
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.handle == nil {
			c.debugLog("decrement discarded, no active run")
			return nil
		}
		c.decrementLocked()
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrUnknownSignal, sig.Type)
	}
}

// Close releases any active run without publishing and waits for the tick
// goroutine to exit.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.releaseLocked() {
		c.store.Apply(Cancelled())
	}
	c.mu.Unlock()

	c.wg.Wait()
}

// run delivers ticks from h until h is released.
func (c *Controller) run(h *tickHandle) {
	defer c.wg.Done()

	ticks := h.ticker.C()
	for {
		select {
		case <-h.done:
			return
		case <-ticks:
			c.tick(h)
		}
	}
}

// tick handles one firing of h.
func (c *Controller) tick(h *tickHandle) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Released while the tick was in flight.
	if c.handle != h {
		return
	}
	c.decrementLocked()
}

// decrementLocked validates and applies one decrement, ending the run when
// the value reaches zero. Caller must hold c.mu.
func (c *Controller) decrementLocked() {
	if c.store.Value() <= 0 {
		c.warnLog("decrement at zero value, ending run")
		c.endLocked()
		return
	}

	state := c.store.Apply(Decremented())
	c.emit(SignalDecrement, state, nil)
	if state.Value == 0 {
		c.endLocked()
	}
}

// endLocked releases the handle and ends the run. Caller must hold c.mu.
func (c *Controller) endLocked() {
	c.releaseLocked()
	state := c.store.Apply(EndReached())
	c.emit(SignalTimerEnd, state, nil)
	c.debugLog("run ended", "value", state.Value)
}

// releaseLocked releases the active handle, if any. Caller must hold c.mu.
func (c *Controller) releaseLocked() bool {
	h := c.handle
	if h == nil {
		return false
	}
	c.handle = nil
	return h.release()
}

func (c *Controller) emit(t SignalType, state State, err error) {
	c.pub.Publish(Signal{
		Type:    t,
		TimerID: c.id,
		Time:    time.Now(),
		State:   state,
		Err:     err,
	})
}

// debugLog logs a debug message if logging is enabled.
func (c *Controller) debugLog(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Debug(msg, append([]any{"timer", c.id}, args...)...)
	}
}

// warnLog logs an anomaly if logging is enabled.
func (c *Controller) warnLog(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Warn(msg, append([]any{"timer", c.id}, args...)...)
	}
}
