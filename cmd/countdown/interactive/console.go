// Package interactive provides the readline console for the countdown
// command.
package interactive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chzyer/readline"

	"github.com/countdown-go/countdown/pkg/service"
	"github.com/countdown-go/countdown/pkg/timer"
)

// Console handles interactive control of one timer.
type Console struct {
	svc *service.TimerService
	out io.Writer
	rl  *readline.Instance
}

// New creates a console reading commands from the terminal.
func New(svc *service.TimerService) (*Console, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "countdown> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		AutoComplete: readline.NewPrefixCompleter(
			readline.PcItem("start"),
			readline.PcItem("cancel"),
			readline.PcItem("reset"),
			readline.PcItem("end"),
			readline.PcItem("status"),
			readline.PcItem("help"),
			readline.PcItem("quit"),
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}

	c := newConsole(svc, rl.Stdout())
	c.rl = rl
	return c, nil
}

func newConsole(svc *service.TimerService, out io.Writer) *Console {
	c := &Console{svc: svc, out: out}
	svc.OnSignal(c.handleSignal)
	return c
}

// Stdout returns a writer that coordinates with the readline prompt.
func (c *Console) Stdout() io.Writer {
	return c.out
}

// Run reads and executes commands until quit, EOF or ctx is done.
func (c *Console) Run(ctx context.Context, cancel context.CancelFunc) {
	defer c.rl.Close()

	c.printHelp()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line, err := c.rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				continue
			}
			fmt.Fprintln(c.out, "Exiting...")
			cancel()
			return
		}

		if c.Execute(line) {
			fmt.Fprintln(c.out, "Exiting...")
			cancel()
			return
		}
	}
}

// Execute runs one command line. It returns true when the console should
// exit.
func (c *Console) Execute(line string) (quit bool) {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return false
	}
	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	ctrl := c.svc.Controller()

	switch cmd {
	case "help", "?":
		c.printHelp()

	case "start", "s":
		if err := ctrl.Start(); err != nil {
			fmt.Fprintf(c.out, "Error: %v\n", err)
		}

	case "cancel", "c":
		if !ctrl.Cancel() {
			fmt.Fprintln(c.out, "Timer is not running")
		}

	case "reset", "r":
		c.cmdReset(args)

	case "end", "e":
		if !ctrl.End() {
			fmt.Fprintln(c.out, "Timer is not running")
		}

	case "status", "st":
		c.cmdStatus()

	case "quit", "exit", "q":
		return true

	default:
		fmt.Fprintf(c.out, "Unknown command: %s (type 'help' for commands)\n", cmd)
	}
	return false
}

func (c *Console) cmdReset(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(c.out, "Usage: reset <value>")
		return
	}
	v, err := strconv.Atoi(args[0])
	if err != nil {
		fmt.Fprintf(c.out, "Invalid value %q: %v\n", args[0], err)
		return
	}
	if err := c.svc.Controller().Reset(v); err != nil {
		fmt.Fprintf(c.out, "Error: %v\n", err)
	}
}

func (c *Console) cmdStatus() {
	ctrl := c.svc.Controller()
	snap := c.svc.Store().Snapshot()

	fmt.Fprintf(c.out, "Timer:    %s\n", ctrl.ID())
	fmt.Fprintf(c.out, "Value:    %d\n", snap.Value)
	fmt.Fprintf(c.out, "Status:   %s\n", snap.Status)
	fmt.Fprintf(c.out, "Interval: %v\n", ctrl.Interval())
}

func (c *Console) handleSignal(sig timer.Signal) {
	fmt.Fprintln(c.out, FormatSignal(sig))
}

func (c *Console) printHelp() {
	fmt.Fprintln(c.out, `
Countdown Commands:
  start              - Start counting down from the current value
  cancel             - Stop the run, keeping the current value
  reset <value>      - Stop any run and set a new value
  end                - End the run now
  status             - Show timer state
  help               - Show this help
  quit               - Exit`)
}

// FormatSignal renders a signal as one line of console output.
func FormatSignal(sig timer.Signal) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %-11s value=%d status=%s",
		sig.Time.Format("15:04:05.000"), sig.Type, sig.State.Value, sig.State.Status)
	if sig.Err != nil {
		fmt.Fprintf(&b, " error=%q", sig.Err.Error())
	}
	return b.String()
}
