// Command countdown-log is a tool for viewing and analyzing countdown signal
// traces.
//
// Traces are written by countdown with --trace-file (CBOR, .clog) or
// --trace-sqlite (SQLite). Both formats are accepted as input; SQLite is
// detected by the .sqlite, .sqlite3 or .db extension.
//
// Usage:
//
//	countdown-log <command> [flags] <trace>
//
// Examples:
//
//	# View all events
//	countdown-log view run.clog
//
//	# View only decrements of one timer
//	countdown-log view --timer-id 3f2a --signal decrement run.clog
//
//	# Export to CSV
//	countdown-log export --format csv -o run.csv run.sqlite3
//
//	# Copy start errors into a new trace
//	countdown-log filter --category error -o errors.clog run.clog
//
//	# Show statistics
//	countdown-log stats run.clog
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/countdown-go/countdown/cmd/countdown-log/commands"
)

const usage = `countdown-log - Countdown Trace Analyzer

Usage:
  countdown-log <command> [flags] <trace>

Commands:
  view     View trace in human-readable format
  export   Export trace to JSON lines or CSV
  filter   Filter trace and write to new file
  stats    Show statistics about the trace

Use "countdown-log <command> -help" for more information about a command.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	var err error
	switch cmd {
	case "view":
		err = runView(args)
	case "export":
		err = runExport(args)
	case "filter":
		err = runFilter(args)
	case "stats":
		err = runStats(args)
	case "-h", "-help", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newFlagSet creates a flag set with the command's usage text.
func newFlagSet(name, synopsis, summary string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "countdown-log %s - %s\n\nUsage:\n  countdown-log %s\n\nFlags:\n", name, summary, synopsis)
		fs.PrintDefaults()
	}
	return fs
}

// filterFlags registers the shared filter flags on fs.
func filterFlags(fs *flag.FlagSet) *commands.FilterOptions {
	opts := &commands.FilterOptions{}
	fs.StringVar(&opts.TimerID, "timer-id", "", "Filter by timer ID")
	fs.StringVar(&opts.Category, "category", "", "Filter by category (signal, state, error)")
	fs.StringVar(&opts.Signal, "signal", "", "Filter by signal (start, cancel, reset, decrement, timer-end, start-error)")
	fs.StringVar(&opts.TimeStart, "time-start", "", "Filter by start time (RFC3339)")
	fs.StringVar(&opts.TimeEnd, "time-end", "", "Filter by end time (RFC3339)")
	return opts
}

// tracePath returns the single positional argument.
func tracePath(fs *flag.FlagSet) (string, error) {
	if fs.NArg() < 1 {
		fs.Usage()
		return "", fmt.Errorf("trace path required")
	}
	return fs.Arg(0), nil
}

func runView(args []string) error {
	fs := newFlagSet("view", "view [flags] <trace>", "View trace in human-readable format")
	opts := filterFlags(fs)
	_ = fs.Parse(args)

	path, err := tracePath(fs)
	if err != nil {
		return err
	}
	filter, err := opts.Build()
	if err != nil {
		return err
	}
	return commands.RunView(path, filter, os.Stdout)
}

func runExport(args []string) error {
	fs := newFlagSet("export", "export [flags] <trace>", "Export trace to JSON lines or CSV")
	opts := filterFlags(fs)
	format := fs.String("format", "jsonl", "Output format (jsonl, csv)")
	output := fs.String("o", "", "Output file (default: stdout)")
	_ = fs.Parse(args)

	path, err := tracePath(fs)
	if err != nil {
		return err
	}
	filter, err := opts.Build()
	if err != nil {
		return err
	}
	return commands.RunExport(path, *format, *output, filter)
}

func runFilter(args []string) error {
	fs := newFlagSet("filter", "filter [flags] -o <output> <trace>", "Filter trace and write to new file")
	opts := filterFlags(fs)
	output := fs.String("o", "", "Output file (required; .sqlite3 writes SQLite)")
	_ = fs.Parse(args)

	path, err := tracePath(fs)
	if err != nil {
		return err
	}
	if *output == "" {
		fs.Usage()
		return fmt.Errorf("output file (-o) required")
	}
	filter, err := opts.Build()
	if err != nil {
		return err
	}
	return commands.RunFilter(path, *output, filter, os.Stdout)
}

func runStats(args []string) error {
	fs := newFlagSet("stats", "stats <trace>", "Show statistics about the trace")
	_ = fs.Parse(args)

	path, err := tracePath(fs)
	if err != nil {
		return err
	}
	return commands.RunStats(path, os.Stdout)
}
