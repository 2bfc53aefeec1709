// Package sqlite keeps finished interview reports in a local SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/spigell/hh-interviewer/internal/interview"
)

const (
	driver = "sqlite"
	dsnOpt = "?_pragma=busy_timeout(3000)&_pragma=journal_mode(WAL)"

	defaultListLimit = 20
)

// Summary is a short listing entry for a stored report.
type Summary struct {
	SessionID      string             `json:"session_id" yaml:"session_id"`
	Position       interview.Position `json:"position" yaml:"position"`
	FinalScore     float64            `json:"final_score" yaml:"final_score"`
	Level          string             `json:"level" yaml:"level"`
	Recommendation string             `json:"recommendation" yaml:"recommendation"`
	GeneratedAt    time.Time          `json:"generated_at" yaml:"generated_at"`
}

// Store persists reports. Each session id is written at most once.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path and applies the schema.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("report store: path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("report store: create dir: %w", err)
	}

	db, err := sql.Open(driver, path+dsnOpt)
	if err != nil {
		return nil, fmt.Errorf("report store: open db: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// SaveReport stores the report. A second write for the same session is ignored.
func (s *Store) SaveReport(ctx context.Context, r *interview.Report) error {
	if r == nil || strings.TrimSpace(r.SessionID) == "" {
		return fmt.Errorf("report store: session_id is required")
	}

	body, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("report store: encode report: %w", err)
	}

	at := r.GeneratedAt
	if at.IsZero() {
		at = time.Now()
	}

	const q = `
INSERT INTO reports (session_id, position, final_score, level, recommendation, generated_at, body)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(session_id) DO NOTHING`
	if _, err := s.db.ExecContext(ctx, q,
		r.SessionID, string(r.Position), r.FinalScore, r.Level, r.Recommendation, at.UnixMilli(), string(body),
	); err != nil {
		return fmt.Errorf("report store: save %s: %w", r.SessionID, err)
	}
	return nil
}

// GetReport loads the report of the session.
func (s *Store) GetReport(ctx context.Context, sessionID string) (*interview.Report, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, fmt.Errorf("report store: session_id is required")
	}

	var body string
	err := s.db.QueryRowContext(ctx, `SELECT body FROM reports WHERE session_id = ?`, sessionID).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("report %s: %w", sessionID, interview.ErrSessionNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("report store: load %s: %w", sessionID, err)
	}

	var r interview.Report
	if err := json.Unmarshal([]byte(body), &r); err != nil {
		return nil, fmt.Errorf("report store: decode %s: %w", sessionID, err)
	}
	return &r, nil
}

// ListReports returns the most recent reports first.
func (s *Store) ListReports(ctx context.Context, limit int) ([]Summary, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	const q = `
SELECT session_id, position, final_score, level, recommendation, generated_at
FROM reports
ORDER BY generated_at DESC, session_id
LIMIT ?`
	rows, err := s.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("report store: list: %w", err)
	}
	defer rows.Close()

	out := make([]Summary, 0, limit)
	for rows.Next() {
		var rec Summary
		var position string
		var generatedAt int64
		if err := rows.Scan(&rec.SessionID, &position, &rec.FinalScore, &rec.Level, &rec.Recommendation, &generatedAt); err != nil {
			return nil, err
		}
		rec.Position = interview.Position(position)
		rec.GeneratedAt = time.UnixMilli(generatedAt)
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *Store) migrate(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS reports (
	session_id TEXT PRIMARY KEY,
	position TEXT NOT NULL DEFAULT '',
	final_score REAL NOT NULL DEFAULT 0,
	level TEXT NOT NULL DEFAULT '',
	recommendation TEXT NOT NULL DEFAULT '',
	generated_at INTEGER NOT NULL,
	body TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_reports_generated_at ON reports(generated_at DESC);`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("report store: migrate: %w", err)
	}
	return nil
}
