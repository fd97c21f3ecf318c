package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"dayplan-cli/internal/model"
)

// Load reads the whole workspace state from the workspace sqlite db.
// A missing or empty db yields an empty state.
func (s Store) Load(ctx context.Context) (*DB, error) {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	st := &DB{}

	rows, err := db.QueryContext(ctx, `SELECT json FROM tasks ORDER BY created_at_unixms, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var t model.Task
		if err := json.Unmarshal([]byte(raw), &t); err != nil {
			return nil, err
		}
		st.Tasks = append(st.Tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	erows, err := db.QueryContext(ctx, `SELECT json FROM events ORDER BY date, start_minutes, id`)
	if err != nil {
		return nil, err
	}
	defer erows.Close()
	for erows.Next() {
		var raw string
		if err := erows.Scan(&raw); err != nil {
			return nil, err
		}
		var e model.Event
		if err := json.Unmarshal([]byte(raw), &e); err != nil {
			return nil, err
		}
		st.Events = append(st.Events, e)
	}
	if err := erows.Err(); err != nil {
		return nil, err
	}

	return st, nil
}

// Save writes the whole state back (replace-all inside one transaction;
// simple and safe for a single user's day of data).
func (s Store) Save(ctx context.Context, st *DB) error {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, t := range []string{"tasks", "events"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+t); err != nil {
			return err
		}
	}

	for _, t := range st.Tasks {
		if err := upsertTaskTx(ctx, tx, t); err != nil {
			return err
		}
	}
	for _, e := range st.Events {
		if err := upsertEventTx(ctx, tx, e); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// SaveTask writes a single task row, leaving everything else untouched.
// Placement persistence uses this so each scheduled task is an independent,
// idempotent-by-id write: one failure must not roll back the others.
func (s Store) SaveTask(ctx context.Context, t model.Task) error {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return err
	}
	defer db.Close()
	return upsertTaskTx(ctx, db, t)
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func upsertTaskTx(ctx context.Context, tx execer, t model.Task) error {
	raw, err := json.Marshal(t)
	if err != nil {
		return err
	}
	whenDate, whenTime := "", ""
	if t.When != nil {
		whenDate = t.When.Date
		if t.When.Time != nil {
			whenTime = *t.When.Time
		}
	}
	_, err = tx.ExecContext(ctx, `INSERT OR REPLACE INTO tasks(
		id, title, duration_minutes, priority, clarity, when_date, when_time, done,
		json, created_at_unixms, updated_at_unixms
	) VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Title, t.DurationMinutes, t.Priority, string(t.Clarity), whenDate, whenTime, boolToInt(t.Done),
		string(raw), t.CreatedAt.UTC().UnixMilli(), time.Now().UTC().UnixMilli(),
	)
	return err
}

func upsertEventTx(ctx context.Context, tx execer, e model.Event) error {
	raw, err := json.Marshal(e)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, `INSERT OR REPLACE INTO events(
		id, title, date, start_minutes, end_minutes, json, updated_at_unixms
	) VALUES(?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Title, e.Date, e.StartMinutes, e.EndMinutes,
		string(raw), time.Now().UTC().UnixMilli(),
	)
	return err
}

func migrateSQLite(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS state_meta (
			k TEXT PRIMARY KEY,
			v TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS tasks (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			duration_minutes INTEGER NOT NULL,
			priority INTEGER NOT NULL,
			clarity TEXT NOT NULL,
			when_date TEXT NOT NULL,
			when_time TEXT NOT NULL,
			done INTEGER NOT NULL,
			json TEXT NOT NULL,
			created_at_unixms INTEGER NOT NULL,
			updated_at_unixms INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_when ON tasks(when_date);`,
		`CREATE TABLE IF NOT EXISTS events (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			date TEXT NOT NULL,
			start_minutes INTEGER NOT NULL,
			end_minutes INTEGER NOT NULL,
			json TEXT NOT NULL,
			updated_at_unixms INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_events_date ON events(date);`,
	}
	for _, st := range stmts {
		if _, err := db.ExecContext(ctx, st); err != nil {
			return err
		}
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
