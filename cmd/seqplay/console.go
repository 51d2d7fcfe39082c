package main

import (
	"database/sql"
	"fmt"
	"io"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/petrijr/sequencer/internal/persistence"
	"github.com/petrijr/sequencer/pkg/api"
)

// consoleBindings binds every action name to a printer that writes the name
// and the time elapsed since start.
func consoleBindings(w io.Writer, names []string, start time.Time) map[string]api.Action {
	var mu sync.Mutex
	bindings := make(map[string]api.Action, len(names))
	for _, name := range names {
		name := name
		bindings[name] = func() {
			mu.Lock()
			defer mu.Unlock()
			elapsed := time.Since(start).Round(time.Millisecond)
			_, _ = fmt.Fprintf(w, "%10s  %s\n", elapsed, name)
		}
	}
	return bindings
}

// openJournal returns the event store for --journal. An empty path keeps the
// journal in memory.
func openJournal(path string) (persistence.EventStore, func(), error) {
	if path == "" {
		return persistence.NewInMemoryEventStore(), func() {}, nil
	}
	db, err := sql.Open("sqlite", "file:"+path+"?_journal=WAL")
	if err != nil {
		return nil, nil, fmt.Errorf("open journal %s: %w", path, err)
	}
	store, err := persistence.NewSQLiteEventStore(db)
	if err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("open journal %s: %w", path, err)
	}
	return store, func() { _ = db.Close() }, nil
}
