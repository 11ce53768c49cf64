package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/countdown-go/countdown/pkg/log"
	"github.com/countdown-go/countdown/pkg/timer"
)

func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestRunCountsDown(t *testing.T) {
	out, _, err := execute(t, "run", "3", "--interval", "1ms")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 5)
	assert.Contains(t, lines[0], "START ")
	assert.Contains(t, lines[1], "value=2")
	assert.Contains(t, lines[3], "value=0")
	assert.Contains(t, lines[4], "TIMER_END")
}

func TestRunZeroValue(t *testing.T) {
	out, _, err := execute(t, "run", "0", "--interval", "1ms")

	var se *timer.StartError
	require.ErrorAs(t, err, &se)
	assert.NotContains(t, out, "TIMER_END")
}

func TestRunInvalidValue(t *testing.T) {
	_, _, err := execute(t, "run", "ten")
	assert.ErrorContains(t, err, `invalid value "ten"`)

	_, _, err = execute(t, "run", "1", "2")
	assert.Error(t, err)
}

func TestRunFromConfigFile(t *testing.T) {
	dir := t.TempDir()
	tracePath := filepath.Join(dir, "run.clog")
	cfgPath := filepath.Join(dir, "countdown.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`
initial: 2
interval: 1ms
log_level: debug
trace:
  file: `+tracePath+`
`), 0o644))

	out, stderr, err := execute(t, "run", "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, "TIMER_END")
	assert.Contains(t, stderr, "level=DEBUG")

	r, err := log.NewReader(tracePath)
	require.NoError(t, err)
	defer r.Close()
	events, err := r.ReadAll()
	require.NoError(t, err)

	// Start, two decrements and the end, each with its state change.
	assert.Len(t, events, 8)
}

func TestFlagsOverrideConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "countdown.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("initial: 2\ninterval: 1h\nlog_level: debug\n"), 0o644))

	_, stderr, err := execute(t, "run", "--config", cfgPath, "--interval", "1ms", "--log-level", "error")
	require.NoError(t, err)
	assert.NotContains(t, stderr, "level=DEBUG")
}

func TestBadConfig(t *testing.T) {
	_, _, err := execute(t, "run", "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "failed to read file")

	_, _, err = execute(t, "run", "--log-level", "loud")
	assert.ErrorContains(t, err, "invalid configuration")
}
