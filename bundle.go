package sequencer

import (
	"context"
	"database/sql"

	"github.com/petrijr/sequencer/internal/persistence"
)

// SQLiteBundle wires a Director to a sequence journal kept in SQLite, so the
// lifecycle of every sequence survives the process.
type SQLiteBundle struct {
	Director *Director

	// Events is the journal the Director appends to.
	Events EventStore
}

// NewSQLiteBundle constructs a Director whose lifecycle events are recorded
// in db. cfg.Events is replaced by the SQLite journal; everything else in cfg
// is used as given.
//
// Typical usage:
//
//	db, _ := sql.Open("sqlite", "file:sequences.db?_journal=WAL")
//	bundle, err := sequencer.NewSQLiteBundle(db, sequencer.Config{Timer: loop})
//	// build and start sequences on bundle.Director
//	events, err := bundle.History(ctx, seq.ID())
func NewSQLiteBundle(db *sql.DB, cfg Config) (*SQLiteBundle, error) {
	store, err := persistence.NewSQLiteEventStore(db)
	if err != nil {
		return nil, err
	}

	cfg.Events = store
	d, err := NewDirector(cfg)
	if err != nil {
		return nil, err
	}

	return &SQLiteBundle{
		Director: d,
		Events:   store,
	}, nil
}

// History returns the journal of one sequence in the order it was written.
func (b *SQLiteBundle) History(ctx context.Context, sequenceID string) ([]SequenceEvent, error) {
	return b.Events.ListEvents(ctx, sequenceID)
}
