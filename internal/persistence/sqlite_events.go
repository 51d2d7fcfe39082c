package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/petrijr/sequencer/pkg/api"
)

// SQLiteEventStore stores sequence events in SQLite.
type SQLiteEventStore struct {
	db *sql.DB
}

// Ensure SQLiteEventStore implements EventStore.
var _ EventStore = (*SQLiteEventStore)(nil)

// NewSQLiteEventStore creates the events table if needed and returns a store
// writing to db.
func NewSQLiteEventStore(db *sql.DB) (*SQLiteEventStore, error) {
	s := &SQLiteEventStore{db: db}
	if err := s.initSchema(); err != nil {
		return nil, fmt.Errorf("init sequence_events schema: %w", err)
	}
	return s, nil
}

func (s *SQLiteEventStore) initSchema() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS sequence_events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			sequence_id TEXT NOT NULL,
			at INTEGER NOT NULL,
			type TEXT NOT NULL,
			title TEXT NOT NULL DEFAULT '',
			step INTEGER NOT NULL DEFAULT -1,
			detail TEXT NOT NULL DEFAULT ''
		);
		CREATE INDEX IF NOT EXISTS idx_sequence_events_sequence_id ON sequence_events(sequence_id, id);
	`)
	return err
}

func (s *SQLiteEventStore) AppendEvent(ctx context.Context, ev api.SequenceEvent) error {
	at := ev.At
	if at.IsZero() {
		at = time.Now()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sequence_events (sequence_id, at, type, title, step, detail)
		VALUES (?, ?, ?, ?, ?, ?)`,
		ev.SequenceID,
		at.UnixNano(),
		string(ev.Type),
		ev.Title,
		ev.Step,
		ev.Detail,
	)
	if err != nil {
		return fmt.Errorf("append %s event for sequence %s: %w", ev.Type, ev.SequenceID, err)
	}
	return nil
}

func (s *SQLiteEventStore) ListEvents(ctx context.Context, sequenceID string) ([]api.SequenceEvent, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT sequence_id, at, type, title, step, detail
		FROM sequence_events
		WHERE sequence_id = ?
		ORDER BY id ASC`, sequenceID)
	if err != nil {
		return nil, fmt.Errorf("list events for sequence %s: %w", sequenceID, err)
	}
	defer rows.Close()

	var out []api.SequenceEvent
	for rows.Next() {
		var (
			id     string
			atN    int64
			typ    string
			title  string
			step   int
			detail string
		)
		if err := rows.Scan(&id, &atN, &typ, &title, &step, &detail); err != nil {
			return nil, err
		}
		out = append(out, api.SequenceEvent{
			SequenceID: id,
			At:         time.Unix(0, atN),
			Type:       api.EventType(typ),
			Title:      title,
			Step:       step,
			Detail:     detail,
		})
	}
	return out, rows.Err()
}
