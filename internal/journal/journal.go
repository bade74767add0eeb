// Package journal persists meeting state transitions in a local SQLite
// database so attendance can be reviewed after the fact.
package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// ErrClosed is returned by operations on a closed Journal.
var ErrClosed = errors.New("journal: closed")

const schema = `
CREATE TABLE IF NOT EXISTS transitions (
    id     INTEGER PRIMARY KEY AUTOINCREMENT,
    day    TEXT    NOT NULL,
    link   TEXT    NOT NULL,
    status TEXT    NOT NULL,
    at     INTEGER NOT NULL,
    note   TEXT    NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS transitions_day ON transitions(day);
`

// Entry is one recorded transition.
type Entry struct {
	ID     int64     `json:"id"`
	Day    string    `json:"day"`
	Link   string    `json:"link"`
	Status string    `json:"status"`
	At     time.Time `json:"at"`
	Note   string    `json:"note,omitempty"`
}

// Journal is an append-only log of transitions.
type Journal struct {
	db *sql.DB
}

// Open opens (or creates) the journal database at path.
func Open(path string) (*Journal, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("error: cannot open journal database: %w", err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("error: failed to initialise journal schema: %w", err)
	}
	return &Journal{db: db}, nil
}

// Record appends e. A zero At is stamped with the current time.
func (j *Journal) Record(ctx context.Context, e Entry) error {
	if j.db == nil {
		return ErrClosed
	}
	if e.At.IsZero() {
		e.At = time.Now()
	}
	_, err := j.db.ExecContext(ctx,
		`INSERT INTO transitions (day, link, status, at, note) VALUES (?, ?, ?, ?, ?)`,
		e.Day, e.Link, e.Status, e.At.UnixNano(), e.Note)
	if err != nil {
		return fmt.Errorf("error: failed to record transition: %w", err)
	}
	return nil
}

// Recent returns up to limit entries, newest first.
func (j *Journal) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if j.db == nil {
		return nil, ErrClosed
	}
	if limit <= 0 {
		limit = 20
	}
	rows, err := j.db.QueryContext(ctx, `
        SELECT id, day, link, status, at, note
        FROM transitions
        ORDER BY at DESC, id DESC
        LIMIT ?
    `, limit)
	if err != nil {
		return nil, fmt.Errorf("error: failed to query journal: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e  Entry
			at int64
		)
		if err := rows.Scan(&e.ID, &e.Day, &e.Link, &e.Status, &at, &e.Note); err != nil {
			return nil, fmt.Errorf("error: failed to scan journal row: %w", err)
		}
		e.At = time.Unix(0, at)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error: failed to iterate journal rows: %w", err)
	}
	return entries, nil
}

// Close closes the database. It is safe to call more than once.
func (j *Journal) Close() error {
	if j.db == nil {
		return nil
	}
	err := j.db.Close()
	j.db = nil
	return err
}
