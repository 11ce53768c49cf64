package commands

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/countdown-go/countdown/pkg/log"
)

// record is the flat export form of an event.
type record struct {
	Timestamp  string `json:"timestamp"`
	TimerID    string `json:"timer_id"`
	Category   string `json:"category"`
	Value      int    `json:"value"`
	Status     string `json:"status"`
	Signal     string `json:"signal,omitempty"`
	Transition string `json:"transition,omitempty"`
	OldValue   *int   `json:"old_value,omitempty"`
	OldStatus  string `json:"old_status,omitempty"`
	Error      string `json:"error,omitempty"`
}

var csvHeader = []string{
	"timestamp", "timer_id", "category", "value", "status",
	"signal", "transition", "old_value", "old_status", "error",
}

func toRecord(event log.Event) record {
	r := record{
		Timestamp: event.Timestamp.UTC().Format(timeLayout),
		TimerID:   event.TimerID,
		Category:  event.Category.String(),
		Value:     event.Value,
		Status:    event.Status.String(),
	}
	if event.Signal != nil {
		r.Signal = event.Signal.Type.String()
	}
	if sc := event.StateChange; sc != nil {
		r.Transition = sc.Transition.String()
		old := sc.OldValue
		r.OldValue = &old
		r.OldStatus = sc.OldStatus.String()
	}
	if event.Error != nil {
		r.Error = event.Error.Message
	}
	return r
}

func (r record) row() []string {
	oldValue := ""
	if r.OldValue != nil {
		oldValue = strconv.Itoa(*r.OldValue)
	}
	return []string{
		r.Timestamp, r.TimerID, r.Category, strconv.Itoa(r.Value), r.Status,
		r.Signal, r.Transition, oldValue, r.OldStatus, r.Error,
	}
}

// RunExport writes matching events as JSON lines or CSV to output, or to
// stdout when output is empty.
func RunExport(path, format, output string, filter log.Filter) error {
	if format != "jsonl" && format != "csv" {
		return fmt.Errorf("unknown format: %s (supported: jsonl, csv)", format)
	}

	src, err := openSource(path, filter)
	if err != nil {
		return err
	}
	defer src.Close()

	var w io.Writer = os.Stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	if format == "csv" {
		return exportCSV(src, w)
	}
	return exportJSONL(src, w)
}

func exportJSONL(src source, w io.Writer) error {
	encoder := json.NewEncoder(w)
	return each(src, func(event log.Event) error {
		if err := encoder.Encode(toRecord(event)); err != nil {
			return fmt.Errorf("failed to encode event: %w", err)
		}
		return nil
	})
}

func exportCSV(src source, w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	err := each(src, func(event log.Event) error {
		if err := cw.Write(toRecord(event).row()); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	cw.Flush()
	return cw.Error()
}
