package audit

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

const decisionsSchema = `
CREATE TABLE IF NOT EXISTS decisions (
	id        TEXT PRIMARY KEY,
	at_unix   INTEGER NOT NULL,
	action    TEXT NOT NULL,
	model     TEXT,
	task_kind TEXT,
	reason    TEXT
);
CREATE INDEX IF NOT EXISTS idx_decisions_at ON decisions(at_unix);
`

// SQLiteSink persists decisions to a local database for the external audit
// consumer.
type SQLiteSink struct {
	db *sql.DB
}

// NewSQLiteSink opens (and if needed initializes) the database at path.
func NewSQLiteSink(path string) (*SQLiteSink, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open audit db: %w", err)
	}
	if _, err := db.Exec(decisionsSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init audit schema: %w", err)
	}
	return &SQLiteSink{db: db}, nil
}

func (s *SQLiteSink) Write(d Decision) error {
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO decisions (id, at_unix, action, model, task_kind, reason) VALUES (?, ?, ?, ?, ?, ?)`,
		d.ID, d.Time.Unix(), d.Action, d.Model, d.TaskKind, d.Reason,
	)
	return err
}

// Recent returns the most recent n decisions, newest first.
func (s *SQLiteSink) Recent(n int) ([]Decision, error) {
	rows, err := s.db.Query(
		`SELECT id, at_unix, action, model, task_kind, reason FROM decisions ORDER BY at_unix DESC, id LIMIT ?`, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Decision
	for rows.Next() {
		var d Decision
		var atUnix int64
		if err := rows.Scan(&d.ID, &atUnix, &d.Action, &d.Model, &d.TaskKind, &d.Reason); err != nil {
			return nil, err
		}
		d.Time = time.Unix(atUnix, 0)
		out = append(out, d)
	}
	return out, rows.Err()
}

func (s *SQLiteSink) Close() error { return s.db.Close() }
