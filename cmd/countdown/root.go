package main

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/countdown-go/countdown/pkg/config"
	"github.com/countdown-go/countdown/pkg/service"
)

// options holds the persistent flags shared by all subcommands.
type options struct {
	configFile  string
	logLevel    string
	interval    time.Duration
	traceFile   string
	traceSQLite string
	traceStderr bool
	alert       bool
}

// settings is the resolved configuration of one invocation.
type settings struct {
	file   config.Config
	logger *slog.Logger
	trace  *service.Trace
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "countdown",
		Short: "Count down from a value, one step per interval.",
		Long: `countdown decrements a counter once per interval until it reaches zero. ` +
			`Runs can be started, cancelled and reset from the interactive console.`,
		SilenceUsage: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&opts.configFile, "config", "", "Configuration file path")
	pf.StringVar(&opts.logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	pf.DurationVar(&opts.interval, "interval", time.Second, "Time between decrements")
	pf.StringVar(&opts.traceFile, "trace-file", "", "Write a CBOR signal trace to this file")
	pf.StringVar(&opts.traceSQLite, "trace-sqlite", "", "Write the signal trace to this SQLite database")
	pf.BoolVar(&opts.traceStderr, "trace-stderr", false, "Also log every trace event to stderr")
	pf.BoolVar(&opts.alert, "alert", false, "Ring a bell when the countdown ends")

	rootCmd.AddCommand(newRunCmd(opts))
	rootCmd.AddCommand(newInteractiveCmd(opts))

	return rootCmd
}

// resolve loads the configuration file and applies flags that were set
// explicitly on the command line.
func (o *options) resolve(cmd *cobra.Command) (config.Config, error) {
	cfg := config.Default()
	if o.configFile != "" {
		loaded, err := config.Load(o.configFile)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.LogLevel = o.logLevel
	}
	if flags.Changed("interval") {
		cfg.Interval = o.interval
	}
	if flags.Changed("trace-file") {
		cfg.Trace.File = o.traceFile
	}
	if flags.Changed("trace-sqlite") {
		cfg.Trace.SQLite = o.traceSQLite
	}
	if flags.Changed("alert") {
		cfg.Alert.Enabled = o.alert
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// open resolves settings and opens the trace sinks. The caller must close
// the returned trace.
func (o *options) open(cmd *cobra.Command, stderr io.Writer) (*settings, error) {
	cfg, err := o.resolve(cmd)
	if err != nil {
		return nil, err
	}

	level, _ := config.ParseLevel(cfg.LogLevel)
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	var console *slog.Logger
	if o.traceStderr {
		console = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	trace, err := service.OpenTrace(cfg.Trace, console)
	if err != nil {
		return nil, err
	}

	return &settings{file: cfg, logger: logger, trace: trace}, nil
}

// serviceConfig builds the timer service configuration.
func (s *settings) serviceConfig() service.Config {
	cfg := service.FromFile(s.file)
	cfg.Logger = s.logger
	cfg.TraceLogger = s.trace
	return cfg
}
