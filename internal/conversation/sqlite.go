package conversation

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// #region schema
const schema = `
CREATE TABLE IF NOT EXISTS conversation_turns (
	id              INTEGER PRIMARY KEY AUTOINCREMENT,
	conversation_id TEXT NOT NULL,
	role            TEXT NOT NULL,
	content         TEXT NOT NULL,
	agent           TEXT,
	quality         REAL,
	created_at      TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_conversation_turns_conv
ON conversation_turns(conversation_id, id);
`

// #endregion schema

// #region sqlite-store
// SQLiteStore persists turns so conversations survive restarts.
type SQLiteStore struct {
	db *sql.DB
}

// busyTimeoutMs is how long a connection waits on a lock held by another
// process (inspect, fixture-export) before failing with SQLITE_BUSY.
const busyTimeoutMs = 5000

// OpenSQLite opens (or creates) the database at dbPath and runs migrations.
// Writers in this process are serialized on a single connection.
func OpenSQLite(dbPath string) (*SQLiteStore, error) {
	dsn := fmt.Sprintf("%s?_pragma=busy_timeout(%d)&_pragma=journal_mode(WAL)&_txlock=immediate", dbPath, busyTimeoutMs)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("open db: %w", err)
	}
	s, err := NewSQLiteStore(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// NewSQLiteStore runs migrations on an already open database.
func NewSQLiteStore(db *sql.DB) (*SQLiteStore, error) {
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("migrate conversation_turns: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// DB returns the underlying handle so the attempt log can share it.
func (s *SQLiteStore) DB() *sql.DB {
	return s.db
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// #endregion sqlite-store

// #region append
func (s *SQLiteStore) Append(id string, turns ...Turn) error {
	if id == "" {
		return ErrEmptyID
	}
	if len(turns) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, t := range turns {
		ts := t.Timestamp
		if ts.IsZero() {
			ts = time.Now().UTC()
		}
		var quality any
		if t.Quality != nil {
			quality = *t.Quality
		}
		_, err := tx.Exec(
			`INSERT INTO conversation_turns (conversation_id, role, content, agent, quality, created_at)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			id, t.Role, t.Content, nullIfEmpty(t.Agent), quality, ts.UTC().Format(time.RFC3339Nano),
		)
		if err != nil {
			return fmt.Errorf("insert turn: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// #endregion append

// #region history
func (s *SQLiteStore) History(id string) ([]Turn, error) {
	rows, err := s.db.Query(
		`SELECT role, content, agent, quality, created_at
		 FROM conversation_turns
		 WHERE conversation_id = ?
		 ORDER BY id ASC`, id)
	if err != nil {
		return nil, fmt.Errorf("query turns: %w", err)
	}
	defer rows.Close()

	turns := []Turn{}
	for rows.Next() {
		var (
			t       Turn
			agent   sql.NullString
			quality sql.NullFloat64
			created string
		)
		if err := rows.Scan(&t.Role, &t.Content, &agent, &quality, &created); err != nil {
			return nil, fmt.Errorf("scan turn: %w", err)
		}
		t.Agent = agent.String
		if quality.Valid {
			q := quality.Float64
			t.Quality = &q
		}
		t.Timestamp, err = time.Parse(time.RFC3339Nano, created)
		if err != nil {
			return nil, fmt.Errorf("parse created_at: %w", err)
		}
		turns = append(turns, t)
	}
	return turns, rows.Err()
}

// #endregion history

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
