// Package config loads countdown settings from YAML files.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the settings for one countdown timer.
type Config struct {
	// Initial is the counter value the timer starts with.
	Initial int `yaml:"initial"`

	// Interval is the time between decrements.
	Interval time.Duration `yaml:"interval"`

	// LogLevel is the operational log level: debug, info, warn or error.
	LogLevel string `yaml:"log_level"`

	Trace TraceConfig `yaml:"trace"`
	Alert AlertConfig `yaml:"alert"`
}

// TraceConfig selects where signal traces are written. Empty paths disable
// the corresponding sink.
type TraceConfig struct {
	File   string `yaml:"file,omitempty"`
	SQLite string `yaml:"sqlite,omitempty"`
}

// AlertConfig controls the bell played when a run ends.
type AlertConfig struct {
	Enabled   bool          `yaml:"enabled"`
	Frequency float64       `yaml:"frequency,omitempty"`
	Duration  time.Duration `yaml:"duration,omitempty"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Initial:  10,
		Interval: time.Second,
		LogLevel: "info",
		Alert: AlertConfig{
			Frequency: 880,
			Duration:  300 * time.Millisecond,
		},
	}
}

// LoadError provides details about a configuration loading error.
type LoadError struct {
	// File is the path to the file that failed to load.
	File string

	// Line is the line number where the error occurred (0 if unknown).
	Line int

	// Message describes the error.
	Message string

	// Cause is the underlying error, if any.
	Cause error
}

func (e *LoadError) Error() string {
	var b strings.Builder
	if e.File != "" {
		b.WriteString(e.File)
		if e.Line > 0 {
			b.WriteString(":" + strconv.Itoa(e.Line))
		}
		b.WriteString(": ")
	}
	b.WriteString(e.Message)
	if e.Cause != nil {
		b.WriteString(": " + e.Cause.Error())
	}
	return b.String()
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}

// Parse parses YAML configuration. Fields missing from data keep their
// Default values. Unknown fields are rejected.
func Parse(data []byte) (Config, error) {
	cfg := Default()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, &LoadError{
			Line:    yamlErrorLine(err),
			Message: "failed to parse YAML",
			Cause:   err,
		}
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, &LoadError{
			Message: "invalid configuration",
			Cause:   err,
		}
	}

	return cfg, nil
}

// Load reads and parses the configuration file at path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, &LoadError{
			File:    path,
			Message: "failed to read file",
			Cause:   err,
		}
	}

	cfg, err := Parse(data)
	if err != nil {
		var le *LoadError
		if errors.As(err, &le) {
			le.File = path
			return Config{}, le
		}
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the configuration for values the timer cannot run with.
func (c Config) Validate() error {
	if c.Initial < 0 {
		return fmt.Errorf("initial must not be negative, got %d", c.Initial)
	}
	if c.Interval <= 0 {
		return fmt.Errorf("interval must be positive, got %v", c.Interval)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.Alert.Enabled {
		if c.Alert.Frequency <= 0 {
			return fmt.Errorf("alert frequency must be positive, got %v", c.Alert.Frequency)
		}
		if c.Alert.Duration <= 0 {
			return fmt.Errorf("alert duration must be positive, got %v", c.Alert.Duration)
		}
	}
	return nil
}

// ParseLevel maps a log level name to its slog level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level %q", s)
	}
}

// yamlErrorLine extracts the first line number from a yaml.v3 error.
func yamlErrorLine(err error) int {
	var msg string
	var te *yaml.TypeError
	if errors.As(err, &te) && len(te.Errors) > 0 {
		msg = te.Errors[0]
	} else {
		msg = err.Error()
	}

	_, rest, ok := strings.Cut(msg, "line ")
	if !ok {
		return 0
	}
	end := strings.IndexFunc(rest, func(r rune) bool { return r < '0' || r > '9' })
	if end < 0 {
		end = len(rest)
	}
	n, _ := strconv.Atoi(rest[:end])
	return n
}
