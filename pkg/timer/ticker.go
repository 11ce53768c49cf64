package timer

import "time"

// DefaultInterval is the tick interval used when none is configured.
const DefaultInterval = time.Second

// Ticker is a periodic source of ticks.
// This interface allows tests to fire ticks on demand.
type Ticker interface {
	// C returns the channel ticks are delivered on.
	C() <-chan time.Time

	// Stop releases the ticker. Stop does not close C.
	Stop()
}

// TickerFunc creates a Ticker firing every d.
type TickerFunc func(d time.Duration) Ticker

// NewSystemTicker returns a Ticker backed by time.Ticker.
func NewSystemTicker(d time.Duration) Ticker {
	return &systemTicker{ticker: time.NewTicker(d)}
}

type systemTicker struct {
	ticker *time.Ticker
}

func (t *systemTicker) C() <-chan time.Time { return t.ticker.C }

func (t *systemTicker) Stop() { t.ticker.Stop() }
