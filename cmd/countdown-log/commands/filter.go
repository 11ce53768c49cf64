package commands

import (
	"fmt"
	"io"

	"github.com/countdown-go/countdown/pkg/log"
)

// RunFilter copies matching events into a new trace. The output format
// follows the output extension: SQLite for .sqlite/.sqlite3/.db, CBOR
// otherwise.
func RunFilter(path, output string, filter log.Filter, w io.Writer) error {
	src, err := openSource(path, filter)
	if err != nil {
		return err
	}
	defer src.Close()

	var (
		sink      log.Logger
		closeSink func() error
	)
	if isSQLite(output) {
		sl, err := log.NewSQLiteLogger(output)
		if err != nil {
			return fmt.Errorf("failed to create output database: %w", err)
		}
		sink, closeSink = sl, sl.Close
	} else {
		fl, err := log.NewFileLogger(output)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		sink, closeSink = fl, fl.Close
	}

	count := 0
	err = each(src, func(event log.Event) error {
		sink.Log(event)
		count++
		return nil
	})
	if cerr := closeSink(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Filtered %d events to %s\n", count, output)
	return nil
}
