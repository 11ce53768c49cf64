// Package timertest provides a manually driven ticker for tests of code built
// on the timer package.
package timertest

import (
	"sync"
	"time"

	"github.com/countdown-go/countdown/pkg/timer"
)

// Ticker is a timer.Ticker that fires only when Tick is called.
type Ticker struct {
	Interval time.Duration

	c        chan time.Time
	stopped  chan struct{}
	stopOnce sync.Once
}

// NewTicker creates a manual ticker.
func NewTicker(d time.Duration) *Ticker {
	return &Ticker{
		Interval: d,
		c:        make(chan time.Time),
		stopped:  make(chan struct{}),
	}
}

// C implements timer.Ticker.
func (t *Ticker) C() <-chan time.Time { return t.c }

// Stop implements timer.Ticker. It is safe to call more than once.
func (t *Ticker) Stop() {
	t.stopOnce.Do(func() { close(t.stopped) })
}

// Stopped reports whether Stop has been called.
func (t *Ticker) Stopped() bool {
	select {
	case <-t.stopped:
		return true
	default:
		return false
	}
}

// Tick delivers one tick and blocks until it has been received.
// It returns false if the ticker is stopped first.
func (t *Ticker) Tick() bool {
	select {
	case <-t.stopped:
		return false
	default:
	}
	select {
	case t.c <- time.Now():
		return true
	case <-t.stopped:
		return false
	}
}

// Factory creates manual tickers and remembers them.
type Factory struct {
	mu      sync.Mutex
	tickers []*Ticker
}

// NewFactory creates an empty Factory.
func NewFactory() *Factory {
	return &Factory{}
}

// New implements timer.TickerFunc.
func (f *Factory) New(d time.Duration) timer.Ticker {
	t := NewTicker(d)
	f.mu.Lock()
	f.tickers = append(f.tickers, t)
	f.mu.Unlock()
	return t
}

// Count returns how many tickers have been created.
func (f *Factory) Count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.tickers)
}

// Last returns the most recently created ticker, or nil.
func (f *Factory) Last() *Ticker {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.tickers) == 0 {
		return nil
	}
	return f.tickers[len(f.tickers)-1]
}

// Compile-time interface satisfaction check.
var _ timer.Ticker = (*Ticker)(nil)
