package service

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/countdown-go/countdown/pkg/alert"
	"github.com/countdown-go/countdown/pkg/config"
	"github.com/countdown-go/countdown/pkg/log"
	"github.com/countdown-go/countdown/pkg/timer"
)

// Service errors.
var (
	ErrNotStarted     = errors.New("service not started")
	ErrAlreadyStarted = errors.New("service already started")
	ErrInvalidConfig  = errors.New("invalid configuration")
)

// ServiceState represents the service state.
type ServiceState uint8

const (
	// StateIdle - service created but not started.
	StateIdle ServiceState = iota

	// StateRunning - signals are being delivered.
	StateRunning

	// StateStopped - service has stopped; it cannot be restarted.
	StateStopped
)

// String returns the state name.
func (s ServiceState) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateRunning:
		return "RUNNING"
	case StateStopped:
		return "STOPPED"
	default:
		return "UNKNOWN"
	}
}

// Config configures a TimerService.
type Config struct {
	// Initial is the counter value the store starts with.
	Initial int

	// Interval is the time between decrements.
	Interval time.Duration

	// ID names the timer in signals and traces. A random UUID if empty.
	ID string

	// Logger for operational output (optional).
	Logger *slog.Logger

	// TraceLogger receives every signal and state change (optional).
	TraceLogger log.Logger

	// Ringer is rung when a run reaches zero (optional).
	Ringer alert.Ringer

	// NewTicker overrides the tick source (optional, for tests).
	NewTicker timer.TickerFunc
}

// DefaultConfig returns a Config with the built-in defaults.
func DefaultConfig() Config {
	return FromFile(config.Default())
}

// FromFile converts loaded file settings into a service Config.
// Trace sinks and the logger are opened by the caller.
func FromFile(fc config.Config) Config {
	cfg := Config{
		Initial:  fc.Initial,
		Interval: fc.Interval,
	}
	if fc.Alert.Enabled {
		cfg.Ringer = alert.NewBell(fc.Alert.Frequency, fc.Alert.Duration)
	}
	return cfg
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.Initial < 0 {
		return fmt.Errorf("%w: initial value %d is negative", ErrInvalidConfig, c.Initial)
	}
	if c.Interval < 0 {
		return fmt.Errorf("%w: interval %v is negative", ErrInvalidConfig, c.Interval)
	}
	return nil
}
