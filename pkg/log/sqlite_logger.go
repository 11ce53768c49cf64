package log

import (
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	// Registers the sqlite3 driver.
	_ "github.com/mattn/go-sqlite3"

	"github.com/countdown-go/countdown/pkg/timer"
)

// DefaultBatchSize is the number of events buffered before a SQLiteLogger
// writes them in one transaction.
const DefaultBatchSize = 64

const createEventsTable = `
	CREATE TABLE IF NOT EXISTS events
	(
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		ts         INTEGER NOT NULL,
		timer_id   TEXT    NOT NULL,
		category   INTEGER NOT NULL,
		value      INTEGER NOT NULL,
		status     INTEGER NOT NULL,
		signal     INTEGER NULL,
		transition INTEGER NULL,
		old_value  INTEGER NULL,
		old_status INTEGER NULL,
		error      TEXT    NULL,
		context    TEXT    NULL
	);
	CREATE INDEX IF NOT EXISTS events_timer_id_index ON events (timer_id);
	CREATE INDEX IF NOT EXISTS events_ts_index ON events (ts);
`

const insertEvent = `INSERT INTO events
	(ts, timer_id, category, value, status, signal, transition, old_value, old_status, error, context)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

// SQLiteLogger writes trace events to a SQLite database.
// Events are buffered and written in batches; call Flush or Close to
// persist buffered events.
type SQLiteLogger struct {
	mu        sync.Mutex
	db        *sql.DB
	insert    *sql.Stmt
	buf       []Event
	batchSize int
	closed    bool
	lastErr   error
}

// NewSQLiteLogger opens (or creates) the database at path and prepares the
// events table.
func NewSQLiteLogger(path string) (*SQLiteLogger, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open trace database: %w", err)
	}
	if _, err := db.Exec(createEventsTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("create events table: %w", err)
	}
	stmt, err := db.Prepare(insertEvent)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("prepare insert: %w", err)
	}
	return &SQLiteLogger{
		db:        db,
		insert:    stmt,
		batchSize: DefaultBatchSize,
	}, nil
}

// SetBatchSize changes the flush threshold. Values below 1 mean every event
// is written immediately.
func (l *SQLiteLogger) SetBatchSize(n int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.batchSize = max(n, 1)
}

// Log buffers the event and writes the batch when it is full.
func (l *SQLiteLogger) Log(event Event) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return
	}
	l.buf = append(l.buf, event)
	if len(l.buf) >= l.batchSize {
		l.lastErr = l.flushLocked()
	}
}

// Flush writes all buffered events.
func (l *SQLiteLogger) Flush() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return nil
	}
	return l.flushLocked()
}

// Err returns the error from the last batch written by Log, if any.
func (l *SQLiteLogger) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lastErr
}

func (l *SQLiteLogger) flushLocked() error {
	if len(l.buf) == 0 {
		return nil
	}

	tx, err := l.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	stmt := tx.Stmt(l.insert)
	for _, ev := range l.buf {
		if _, err := stmt.Exec(eventRow(ev)...); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("insert event: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	l.buf = l.buf[:0]
	return nil
}

// Close flushes buffered events and closes the database.
// It is safe to call Close multiple times.
func (l *SQLiteLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return nil
	}
	l.closed = true

	err := l.flushLocked()
	l.insert.Close()
	if cerr := l.db.Close(); err == nil {
		err = cerr
	}
	return err
}

// Events returns the persisted events matching filter, oldest first.
// Buffered events are not included until flushed.
func (l *SQLiteLogger) Events(filter Filter) ([]Event, error) {
	l.mu.Lock()
	db := l.db
	closed := l.closed
	l.mu.Unlock()

	if closed {
		return nil, sql.ErrConnDone
	}
	return QueryEvents(db, filter)
}

// QueryEvents reads events matching filter from an open trace database.
func QueryEvents(db *sql.DB, filter Filter) ([]Event, error) {
	var (
		where []string
		args  []any
	)
	if filter.TimerID != "" {
		where = append(where, "timer_id = ?")
		args = append(args, filter.TimerID)
	}
	if filter.Category != nil {
		where = append(where, "category = ?")
		args = append(args, int(*filter.Category))
	}
	if filter.Signal != nil {
		where = append(where, "signal = ?")
		args = append(args, int(*filter.Signal))
	}
	if filter.TimeStart != nil {
		where = append(where, "ts >= ?")
		args = append(args, filter.TimeStart.UnixNano())
	}
	if filter.TimeEnd != nil {
		where = append(where, "ts < ?")
		args = append(args, filter.TimeEnd.UnixNano())
	}

	query := `SELECT ts, timer_id, category, value, status, signal,
		transition, old_value, old_status, error, context FROM events`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY id"

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}

func eventRow(ev Event) []any {
	var (
		signal, transition, oldValue, oldStatus sql.NullInt64
		errMsg, errCtx                          sql.NullString
	)
	if ev.Signal != nil {
		signal = sql.NullInt64{Int64: int64(ev.Signal.Type), Valid: true}
	}
	if sc := ev.StateChange; sc != nil {
		transition = sql.NullInt64{Int64: int64(sc.Transition), Valid: true}
		oldValue = sql.NullInt64{Int64: int64(sc.OldValue), Valid: true}
		oldStatus = sql.NullInt64{Int64: int64(sc.OldStatus), Valid: true}
	}
	if ev.Error != nil {
		errMsg = sql.NullString{String: ev.Error.Message, Valid: true}
		errCtx = sql.NullString{String: ev.Error.Context, Valid: ev.Error.Context != ""}
	}
	return []any{
		ev.Timestamp.UnixNano(),
		ev.TimerID,
		int(ev.Category),
		ev.Value,
		int(ev.Status),
		signal,
		transition,
		oldValue,
		oldStatus,
		errMsg,
		errCtx,
	}
}

func scanEvent(rows *sql.Rows) (Event, error) {
	var (
		ts                                      int64
		ev                                      Event
		category, status                        int
		signal, transition, oldValue, oldStatus sql.NullInt64
		errMsg, errCtx                          sql.NullString
	)
	err := rows.Scan(&ts, &ev.TimerID, &category, &ev.Value, &status,
		&signal, &transition, &oldValue, &oldStatus, &errMsg, &errCtx)
	if err != nil {
		return Event{}, fmt.Errorf("scan event: %w", err)
	}

	ev.Timestamp = time.Unix(0, ts)
	ev.Category = Category(category)
	ev.Status = timer.Status(status)
	if signal.Valid {
		ev.Signal = &SignalEvent{Type: timer.SignalType(signal.Int64)}
	}
	if transition.Valid {
		ev.StateChange = &StateChangeEvent{
			Transition: timer.TransitionKind(transition.Int64),
			OldValue:   int(oldValue.Int64),
			OldStatus:  timer.Status(oldStatus.Int64),
		}
	}
	if errMsg.Valid {
		ev.Error = &ErrorEventData{Message: errMsg.String, Context: errCtx.String}
	}
	return ev, nil
}

// Compile-time interface satisfaction check.
var _ Logger = (*SQLiteLogger)(nil)
