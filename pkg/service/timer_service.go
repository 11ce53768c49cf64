package service

import (
	"context"
	"log/slog"
	"sync"

	"github.com/countdown-go/countdown/pkg/bus"
	"github.com/countdown-go/countdown/pkg/log"
	"github.com/countdown-go/countdown/pkg/timer"
)

// TimerService runs one countdown timer and delivers its signals.
type TimerService struct {
	mu    sync.RWMutex
	state ServiceState

	config Config
	store  *timer.Store
	ctrl   *timer.Controller
	bus    *bus.Bus

	// Logger for debug output (optional)
	logger *slog.Logger

	// Trace logger for signals and state changes (optional)
	trace log.Logger

	// Context for cancellation
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	stopped chan struct{}
}

// NewTimerService creates a timer service. Signals published before Start
// are queued and delivered once the service starts.
func NewTimerService(config Config) (*TimerService, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	store, err := timer.NewStore(config.Initial)
	if err != nil {
		return nil, err
	}

	svc := &TimerService{
		state:   StateIdle,
		config:  config,
		store:   store,
		bus:     bus.New(),
		logger:  config.Logger,
		trace:   config.TraceLogger,
		stopped: make(chan struct{}),
	}
	if svc.trace == nil {
		svc.trace = log.NoopLogger{}
	}

	opts := []timer.Option{
		timer.WithInterval(config.Interval),
		timer.WithLogger(config.Logger),
		timer.WithID(config.ID),
	}
	if config.NewTicker != nil {
		opts = append(opts, timer.WithTicker(config.NewTicker))
	}
	svc.ctrl = timer.NewController(store, timer.PublisherFunc(svc.publish), opts...)

	// State changes and signals are traced under the controller lock,
	// so the trace follows decision order.
	id := svc.ctrl.ID()
	store.OnChange(func(oldState, newState timer.State, t timer.Transition) {
		svc.trace.Log(log.FromStateChange(id, oldState, newState, t))
	})

	if config.Ringer != nil {
		svc.bus.Subscribe(svc.ringOnEnd)
	}

	return svc, nil
}

// publish traces sig and queues it on the bus.
func (s *TimerService) publish(sig timer.Signal) {
	s.trace.Log(log.FromSignal(sig))
	s.bus.Publish(sig)
}

func (s *TimerService) ringOnEnd(sig timer.Signal) {
	if sig.Type != timer.SignalTimerEnd {
		return
	}
	if err := s.config.Ringer.Ring(); err != nil {
		s.warnLog("alert failed", "error", err)
	}
}

// Controller returns the timer controller.
func (s *TimerService) Controller() *timer.Controller {
	return s.ctrl
}

// Store returns the timer store.
func (s *TimerService) Store() *timer.Store {
	return s.store
}

// State returns the current service state.
func (s *TimerService) State() ServiceState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// OnSignal registers a handler for delivered signals and returns a function
// that removes it. Handlers run on the delivery goroutine and may call the
// controller.
func (s *TimerService) OnSignal(h bus.Handler) (unsubscribe func()) {
	return s.bus.Subscribe(h)
}

// Start begins signal delivery. The service stops when ctx is cancelled.
func (s *TimerService) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.state != StateIdle {
		s.mu.Unlock()
		return ErrAlreadyStarted
	}
	s.state = StateRunning
	s.ctx, s.cancel = context.WithCancel(ctx)
	s.mu.Unlock()

	s.bus.Start()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		<-s.ctx.Done()
		s.shutdown()
	}()

	s.debugLog("service started", "initial", s.store.Value(), "interval", s.ctrl.Interval())
	return nil
}

// Stop releases the timer, delivers queued signals and stops the service.
func (s *TimerService) Stop() error {
	s.mu.Lock()
	if s.state != StateRunning {
		s.mu.Unlock()
		return ErrNotStarted
	}
	cancel := s.cancel
	s.mu.Unlock()

	cancel()
	s.wg.Wait()
	return nil
}

// Done returns a channel closed once the service has stopped.
func (s *TimerService) Done() <-chan struct{} {
	return s.stopped
}

// Flush waits until every signal published so far has been delivered.
func (s *TimerService) Flush(ctx context.Context) error {
	return s.bus.Flush(ctx)
}

func (s *TimerService) shutdown() {
	s.ctrl.Close()
	s.bus.Stop()

	s.mu.Lock()
	s.state = StateStopped
	s.mu.Unlock()
	close(s.stopped)

	s.debugLog("service stopped", "value", s.store.Value(), "dropped", s.bus.Dropped())
}

// debugLog logs a debug message if logging is enabled.
func (s *TimerService) debugLog(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Debug(msg, append([]any{"timer", s.ctrl.ID()}, args...)...)
	}
}

// warnLog logs a warning if logging is enabled.
func (s *TimerService) warnLog(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Warn(msg, append([]any{"timer", s.ctrl.ID()}, args...)...)
	}
}
