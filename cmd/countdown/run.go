package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/countdown-go/countdown/cmd/countdown/interactive"
	"github.com/countdown-go/countdown/pkg/alert"
	"github.com/countdown-go/countdown/pkg/service"
	"github.com/countdown-go/countdown/pkg/timer"
)

// errInterrupted is returned when a run is stopped by a signal.
var errInterrupted = errors.New("interrupted")

func newRunCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "run [value]",
		Short: "Count down once and exit when the timer ends",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open(cmd, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer s.trace.Close()

			if len(args) == 1 {
				v, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("invalid value %q: %w", args[0], err)
				}
				s.file.Initial = v
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return runOnce(ctx, cmd, s.serviceConfig())
		},
	}
}

// runOnce starts a run and prints every signal until the timer ends.
func runOnce(ctx context.Context, cmd *cobra.Command, cfg service.Config) error {
	svc, err := service.NewTimerService(cfg)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	ended := make(chan struct{})
	svc.OnSignal(func(sig timer.Signal) {
		fmt.Fprintln(out, interactive.FormatSignal(sig))
		if sig.Type == timer.SignalTimerEnd {
			close(ended)
		}
	})

	if err := svc.Start(ctx); err != nil {
		return err
	}
	defer svc.Stop()

	if err := svc.Controller().Start(); err != nil {
		return err
	}

	select {
	case <-ended:
	case <-ctx.Done():
		return errInterrupted
	}

	if bell, ok := cfg.Ringer.(*alert.Bell); ok {
		bell.Wait(2 * bell.Duration)
	}
	return nil
}
