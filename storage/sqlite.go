package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"snake-boom/game"
	"snake-boom/game/types"
)

// SQLiteStore keeps the high score and every run in a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if needed) the database at path. Call
// Migrate before use.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping sqlite database: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Migrate creates the tables.
func (s *SQLiteStore) Migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS high_score (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			score INTEGER NOT NULL,
			updated_at INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			score INTEGER NOT NULL,
			reason TEXT NOT NULL,
			start_time INTEGER NOT NULL,
			end_time INTEGER NOT NULL,
			elapsed INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_end_time ON runs(end_time)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_score ON runs(score)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

func (s *SQLiteStore) HighScore() (int, error) {
	var score int
	err := s.db.QueryRow(`SELECT score FROM high_score WHERE id = 1`).Scan(&score)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read high score: %w", err)
	}
	return score, nil
}

func (s *SQLiteStore) SetHighScore(score int) error {
	_, err := s.db.Exec(`
		INSERT INTO high_score (id, score, updated_at) VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET score = excluded.score, updated_at = excluded.updated_at`,
		score, time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to save high score: %w", err)
	}
	return nil
}

func (s *SQLiteStore) RecordRun(r game.RunRecord) error {
	_, err := s.db.Exec(`
		INSERT INTO runs (id, score, reason, start_time, end_time, elapsed)
		VALUES (?, ?, ?, ?, ?, ?)`,
		r.ID, r.Score, string(r.Reason), r.StartTime.UnixMilli(), r.EndTime.UnixMilli(), r.Elapsed)
	if err != nil {
		return fmt.Errorf("failed to save run %s: %w", r.ID, err)
	}
	return nil
}

// Runs returns every recorded run, oldest first.
func (s *SQLiteStore) Runs() ([]game.RunRecord, error) {
	rows, err := s.db.Query(`
		SELECT id, score, reason, start_time, end_time, elapsed
		FROM runs ORDER BY end_time ASC, rowid ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	return scanRuns(rows)
}

// Top returns the n best runs, highest score first.
func (s *SQLiteStore) Top(n int) ([]game.RunRecord, error) {
	rows, err := s.db.Query(`
		SELECT id, score, reason, start_time, end_time, elapsed
		FROM runs ORDER BY score DESC, end_time ASC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("failed to query top runs: %w", err)
	}
	return scanRuns(rows)
}

func scanRuns(rows *sql.Rows) ([]game.RunRecord, error) {
	defer rows.Close()

	var runs []game.RunRecord
	for rows.Next() {
		var (
			r          game.RunRecord
			reason     string
			start, end int64
		)
		if err := rows.Scan(&r.ID, &r.Score, &reason, &start, &end, &r.Elapsed); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		r.Reason = types.EndReason(reason)
		r.StartTime = time.UnixMilli(start).UTC()
		r.EndTime = time.UnixMilli(end).UTC()
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
