package store

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"dayplan-cli/internal/model"

	_ "modernc.org/sqlite"
)

const sqliteFileName = "dayplan.sqlite"

// DB is the in-memory workspace state. It is loaded whole (a workspace holds
// one person's tasks and events, so the set stays small), mutated in memory,
// and written back through Store.
type DB struct {
	Tasks  []model.Task  `json:"tasks"`
	Events []model.Event `json:"events"`
}

// Store reads and writes one workspace directory.
type Store struct {
	Dir string
}

func (s Store) sqlitePath() string {
	return filepath.Join(filepath.Clean(s.Dir), sqliteFileName)
}

// Ensure creates the workspace directory if missing.
func (s Store) Ensure() error {
	if strings.TrimSpace(s.Dir) == "" {
		return os.ErrInvalid
	}
	return os.MkdirAll(filepath.Clean(s.Dir), 0o755)
}

func (s Store) openSQLite(ctx context.Context) (*sql.DB, error) {
	if err := s.Ensure(); err != nil {
		return nil, err
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", s.sqlitePath())
	if err != nil {
		return nil, err
	}
	// Pragmas for multi-process local usage.
	// WAL enables one writer + many readers; busy_timeout helps avoid "database is locked" flakiness.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := migrateSQLite(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func (db *DB) FindTask(id string) (model.Task, bool) {
	for _, t := range db.Tasks {
		if t.ID == id {
			return t, true
		}
	}
	return model.Task{}, false
}

func (db *DB) FindEvent(id string) (model.Event, bool) {
	for _, e := range db.Events {
		if e.ID == id {
			return e, true
		}
	}
	return model.Event{}, false
}

// UpsertTask replaces the task with the same id, or appends it.
func (db *DB) UpsertTask(t model.Task) {
	for i := range db.Tasks {
		if db.Tasks[i].ID == t.ID {
			db.Tasks[i] = t
			return
		}
	}
	db.Tasks = append(db.Tasks, t)
}

func (db *DB) RemoveTask(id string) bool {
	for i := range db.Tasks {
		if db.Tasks[i].ID == id {
			db.Tasks = append(db.Tasks[:i], db.Tasks[i+1:]...)
			return true
		}
	}
	return false
}

func (db *DB) UpsertEvent(e model.Event) {
	for i := range db.Events {
		if db.Events[i].ID == e.ID {
			db.Events[i] = e
			return
		}
	}
	db.Events = append(db.Events, e)
}

func (db *DB) RemoveEvent(id string) bool {
	for i := range db.Events {
		if db.Events[i].ID == id {
			db.Events = append(db.Events[:i], db.Events[i+1:]...)
			return true
		}
	}
	return false
}

// EventsOn returns the events for one date, sorted by start.
func (db *DB) EventsOn(date string) []model.Event {
	var out []model.Event
	for _, e := range db.Events {
		if e.Date == date {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].StartMinutes < out[j].StartMinutes })
	return out
}

// TasksScheduledOn returns the tasks that have a concrete start time on date,
// sorted by start.
func (db *DB) TasksScheduledOn(date string) []model.Task {
	var out []model.Task
	for _, t := range db.Tasks {
		if t.Scheduled() && t.When.Date == date {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return *out[i].When.Time < *out[j].When.Time
	})
	return out
}
