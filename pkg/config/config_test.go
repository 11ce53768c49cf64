package config_test

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/countdown-go/countdown/pkg/config"
)

func TestDefault(t *testing.T) {
	cfg := config.Default()

	assert.Equal(t, 10, cfg.Initial)
	assert.Equal(t, time.Second, cfg.Interval)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.Alert.Enabled)
	assert.NoError(t, cfg.Validate())
}

func TestParse(t *testing.T) {
	data := `
initial: 30
interval: 250ms
log_level: debug
trace:
  file: /tmp/run.clog
  sqlite: /tmp/run.sqlite3
alert:
  enabled: true
  frequency: 440
  duration: 1s
`
	cfg, err := config.Parse([]byte(data))
	require.NoError(t, err)

	assert.Equal(t, 30, cfg.Initial)
	assert.Equal(t, 250*time.Millisecond, cfg.Interval)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "/tmp/run.clog", cfg.Trace.File)
	assert.Equal(t, "/tmp/run.sqlite3", cfg.Trace.SQLite)
	assert.True(t, cfg.Alert.Enabled)
	assert.Equal(t, 440.0, cfg.Alert.Frequency)
	assert.Equal(t, time.Second, cfg.Alert.Duration)
}

func TestParseKeepsDefaults(t *testing.T) {
	cfg, err := config.Parse([]byte("initial: 3\n"))
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Initial)
	assert.Equal(t, time.Second, cfg.Interval)
	assert.Equal(t, 880.0, cfg.Alert.Frequency)
}

func TestParseEmpty(t *testing.T) {
	cfg, err := config.Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		line int
	}{
		{"NegativeInitial", "initial: -1\n", 0},
		{"ZeroInterval", "interval: 0s\n", 0},
		{"BadInterval", "interval: soon\n", 1},
		{"UnknownLevel", "log_level: loud\n", 0},
		{"UnknownField", "initial: 3\nduration: 5\n", 2},
		{"AlertNoFrequency", "alert:\n  enabled: true\n  frequency: 0\n", 0},
		{"Malformed", "initial: [\n", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.Parse([]byte(tt.data))
			require.Error(t, err)

			var le *config.LoadError
			require.True(t, errors.As(err, &le), "error %v is not a LoadError", err)
			if tt.line > 0 {
				assert.Equal(t, tt.line, le.Line)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "countdown.yaml")
	require.NoError(t, os.WriteFile(path, []byte("initial: 5\n"), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Initial)
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := config.Load(filepath.Join(dir, "missing.yaml"))
	var le *config.LoadError
	require.ErrorAs(t, err, &le)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Contains(t, le.File, "missing.yaml")

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("initial: -4\n"), 0o644))
	_, err = config.Load(bad)
	require.ErrorAs(t, err, &le)
	assert.Equal(t, bad, le.File)
	assert.Contains(t, err.Error(), "bad.yaml: invalid configuration")
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"":        slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
	}
	for in, want := range tests {
		got, err := config.ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := config.ParseLevel("trace")
	assert.Error(t, err)
}
