// Package store persists trainees, collected job postings and recommendation
// runs in a local sqlite database.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Store wraps the sqlite connection pool.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and applies migrations.
func Open(ctx context.Context, path string) (*Store, error) {
	// modernc sqlite DSN: file:foo.db?_pragma=busy_timeout(5000)
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)", path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	// sqlite wants a single writer
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, err
	}

	s := &Store{db: db}
	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) migrate(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var version int
	if err := tx.QueryRowContext(ctx, `PRAGMA user_version;`).Scan(&version); err != nil {
		return err
	}

	if version >= 1 {
		return tx.Commit()
	}

	statements := []string{
		`CREATE TABLE IF NOT EXISTS trainees (
  trainee_id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  course TEXT NOT NULL DEFAULT '',
  training_type TEXT NOT NULL DEFAULT '',
  course_keywords TEXT NOT NULL DEFAULT '',
  preferred_locations TEXT NOT NULL DEFAULT '',
  desired_job TEXT NOT NULL DEFAULT '',
  desired_industry TEXT NOT NULL DEFAULT '',
  desired_pay TEXT NOT NULL DEFAULT '',
  future_plan TEXT NOT NULL DEFAULT '',
  survey_text TEXT NOT NULL DEFAULT ''
);`,
		`CREATE TABLE IF NOT EXISTS jobs (
  job_id TEXT PRIMARY KEY,
  title TEXT NOT NULL,
  company TEXT NOT NULL DEFAULT '',
  company_type TEXT NOT NULL DEFAULT '',
  company_size TEXT NOT NULL DEFAULT '',
  industry TEXT NOT NULL DEFAULT '',
  industry_code TEXT NOT NULL DEFAULT '',
  location TEXT NOT NULL DEFAULT '',
  job_type TEXT NOT NULL DEFAULT '',
  experience TEXT NOT NULL DEFAULT '',
  education TEXT NOT NULL DEFAULT '',
  salary TEXT NOT NULL DEFAULT '',
  keyword_code TEXT NOT NULL DEFAULT '',
  url TEXT NOT NULL DEFAULT '',
  posting_ts INTEGER NOT NULL DEFAULT 0,
  expiration_ts INTEGER NOT NULL DEFAULT 0,
  collected_at TEXT NOT NULL DEFAULT ''
);`,
		`CREATE INDEX IF NOT EXISTS idx_jobs_posting_ts ON jobs(posting_ts);`,
		`CREATE TABLE IF NOT EXISTS recommendations (
  trainee_id TEXT NOT NULL,
  rank INTEGER NOT NULL,
  job_id TEXT NOT NULL,
  semantic_similarity REAL NOT NULL,
  course_industry_score REAL NOT NULL,
  location_score REAL NOT NULL,
  diversity_score REAL NOT NULL,
  freshness_score REAL NOT NULL,
  final_score REAL NOT NULL,
  created_at TEXT NOT NULL,
  PRIMARY KEY (trainee_id, rank)
);`,
		`PRAGMA user_version = 1;`,
	}

	for _, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}

	return tx.Commit()
}
