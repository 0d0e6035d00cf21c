package logging

import (
	"database/sql"
	"fmt"
	"time"
)

// #region schema
const attemptLogSchema = `
CREATE TABLE IF NOT EXISTS attempt_log (
	id              INTEGER PRIMARY KEY AUTOINCREMENT,
	query_id        TEXT NOT NULL,
	conversation_id TEXT NOT NULL,
	provider        TEXT NOT NULL,
	attempt_num     INTEGER NOT NULL,
	stage           TEXT NOT NULL,
	outcome         TEXT NOT NULL,
	quality         REAL NOT NULL DEFAULT 0,
	duration_ms     INTEGER NOT NULL,
	error           TEXT,
	created_at      TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_attempt_log_provider ON attempt_log(provider);
`

// EnsureSchema creates the attempt_log table if missing.
func EnsureSchema(db *sql.DB) error {
	if _, err := db.Exec(attemptLogSchema); err != nil {
		return fmt.Errorf("migrate attempt_log: %w", err)
	}
	return nil
}

// #endregion schema

// #region log-attempt
// LogAttempt writes one attempt row.
func LogAttempt(db *sql.DB, entry AttemptEntry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	_, err := db.Exec(
		`INSERT INTO attempt_log (query_id, conversation_id, provider, attempt_num, stage, outcome, quality, duration_ms, error, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.QueryID,
		entry.ConversationID,
		entry.Provider,
		entry.AttemptNum,
		entry.Stage,
		entry.Outcome,
		entry.Quality,
		entry.DurationMs,
		nullIfEmpty(entry.Error),
		entry.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("log attempt: %w", err)
	}
	return nil
}

// #endregion log-attempt

// #region summaries
// ProviderSummaries aggregates the log per provider, busiest first.
func ProviderSummaries(db *sql.DB) ([]ProviderSummary, error) {
	rows, err := db.Query(`
		SELECT provider,
		       COUNT(*),
		       SUM(CASE WHEN outcome = 'success' THEN 1 ELSE 0 END),
		       COALESCE(AVG(CASE WHEN outcome = 'success' THEN quality END), 0),
		       AVG(duration_ms),
		       MAX(created_at)
		FROM attempt_log
		GROUP BY provider
		ORDER BY COUNT(*) DESC, provider ASC`)
	if err != nil {
		return nil, fmt.Errorf("query summaries: %w", err)
	}
	defer rows.Close()

	var out []ProviderSummary
	for rows.Next() {
		var (
			s    ProviderSummary
			last string
		)
		if err := rows.Scan(&s.Provider, &s.Attempts, &s.Successes, &s.AvgQuality, &s.AvgDurationMs, &last); err != nil {
			return nil, fmt.Errorf("scan summary: %w", err)
		}
		s.Failures = s.Attempts - s.Successes
		s.LastSeen, _ = time.Parse(time.RFC3339Nano, last)
		out = append(out, s)
	}
	return out, rows.Err()
}

// RecentAttempts returns the newest limit rows, newest first.
func RecentAttempts(db *sql.DB, limit int) ([]AttemptEntry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.Query(`
		SELECT query_id, conversation_id, provider, attempt_num, stage, outcome, quality, duration_ms, COALESCE(error, ''), created_at
		FROM attempt_log
		ORDER BY id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query attempts: %w", err)
	}
	defer rows.Close()

	var out []AttemptEntry
	for rows.Next() {
		var (
			e       AttemptEntry
			created string
		)
		if err := rows.Scan(&e.QueryID, &e.ConversationID, &e.Provider, &e.AttemptNum, &e.Stage,
			&e.Outcome, &e.Quality, &e.DurationMs, &e.Error, &created); err != nil {
			return nil, fmt.Errorf("scan attempt: %w", err)
		}
		e.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
		out = append(out, e)
	}
	return out, rows.Err()
}

// #endregion summaries

// #region helpers
func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// #endregion helpers
