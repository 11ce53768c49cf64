package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/countdown-go/countdown/cmd/countdown/interactive"
	"github.com/countdown-go/countdown/pkg/service"
)

func newInteractiveCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:     "interactive",
		Aliases: []string{"i"},
		Short:   "Control a timer from a console",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, console, s, err := newConsoleService(cmd, opts)
			if err != nil {
				return err
			}
			defer s.trace.Close()

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			if err := svc.Start(ctx); err != nil {
				return err
			}
			console.Run(ctx, cancel)
			cancel()
			<-svc.Done()
			return nil
		},
	}
}

func newConsoleService(cmd *cobra.Command, opts *options) (*service.TimerService, *interactive.Console, *settings, error) {
	s, err := opts.open(cmd, cmd.ErrOrStderr())
	if err != nil {
		return nil, nil, nil, err
	}

	svc, err := service.NewTimerService(s.serviceConfig())
	if err != nil {
		s.trace.Close()
		return nil, nil, nil, err
	}

	console, err := interactive.New(svc)
	if err != nil {
		s.trace.Close()
		return nil, nil, nil, err
	}
	return svc, console, s, nil
}
