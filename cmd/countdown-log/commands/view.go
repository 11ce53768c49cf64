package commands

import (
	"fmt"
	"io"

	"github.com/countdown-go/countdown/pkg/log"
)

const timeLayout = "2006-01-02T15:04:05.000000Z"

// RunView prints every matching event in human-readable form.
func RunView(path string, filter log.Filter, w io.Writer) error {
	src, err := openSource(path, filter)
	if err != nil {
		return err
	}
	defer src.Close()

	return each(src, func(event log.Event) error {
		formatEvent(w, event)
		return nil
	})
}

// formatEvent writes a human-readable representation of the event to w.
func formatEvent(w io.Writer, event log.Event) {
	ts := event.Timestamp.UTC().Format(timeLayout)
	fmt.Fprintf(w, "%s [timer:%s] %-6s %s\n", ts, shortenID(event.TimerID), event.Category, typeLabel(event))
	fmt.Fprintf(w, "  Value: %d  Status: %s\n", event.Value, event.Status)

	if sc := event.StateChange; sc != nil {
		fmt.Fprintf(w, "  From: %d %s\n", sc.OldValue, sc.OldStatus)
	}
	if e := event.Error; e != nil {
		fmt.Fprintf(w, "  Error: %s\n", e.Message)
		if e.Context != "" {
			fmt.Fprintf(w, "  Cause: %s\n", e.Context)
		}
	}

	fmt.Fprintln(w)
}

// typeLabel names the payload of an event.
func typeLabel(event log.Event) string {
	switch {
	case event.Signal != nil:
		return event.Signal.Type.String()
	case event.StateChange != nil:
		return event.StateChange.Transition.String()
	case event.Error != nil:
		return "Error"
	default:
		return "Unknown"
	}
}

// shortenID returns the first 8 characters of a timer ID.
func shortenID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
