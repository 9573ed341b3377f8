package stats

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Run is one interpreter invocation as stored in the history.
type Run struct {
	ID        string
	Source    string
	StartedAt time.Time
	ExitCode  int
	Report
}

// History is a SQLite database of past runs.
type History struct {
	conn *sql.DB
}

// OpenHistory opens (or creates) the history database at path.
func OpenHistory(path string) (*History, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Ensure the database is accessible
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			source TEXT NOT NULL,
			started_at INTEGER NOT NULL,
			exit_code INTEGER NOT NULL,
			instructions INTEGER NOT NULL,
			max_vars INTEGER NOT NULL
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("error creating runs table: %w", err)
	}

	return &History{conn: db}, nil
}

// Record stores run and returns its id, generating one when empty.
func (h *History) Record(run Run) (string, error) {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now()
	}

	_, err := h.conn.Exec(`
		INSERT INTO runs (
			id, source, started_at, exit_code, instructions, max_vars
		) VALUES (?, ?, ?, ?, ?, ?)
	`, run.ID, run.Source, run.StartedAt.UnixNano(), run.ExitCode, run.Instructions, run.MaxVars)
	if err != nil {
		return "", fmt.Errorf("error saving run: %w", err)
	}

	return run.ID, nil
}

// Recent returns up to limit runs, newest first.
func (h *History) Recent(limit int) ([]Run, error) {
	rows, err := h.conn.Query(`
		SELECT id, source, started_at, exit_code, instructions, max_vars
		FROM runs ORDER BY started_at DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("error querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			run     Run
			started int64
		)
		if err := rows.Scan(&run.ID, &run.Source, &started, &run.ExitCode, &run.Instructions, &run.MaxVars); err != nil {
			return nil, fmt.Errorf("error reading run: %w", err)
		}
		run.StartedAt = time.Unix(0, started)
		runs = append(runs, run)
	}

	return runs, rows.Err()
}

func (h *History) Close() error {
	return h.conn.Close()
}
