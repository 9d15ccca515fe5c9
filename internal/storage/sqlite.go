// Package storage provides SQLite-based persistence for training runs: the
// per-trial score log and, optionally, the learned action-value table.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// ErrTableNotFound is returned by LoadTable when no table was saved under the name.
var ErrTableNotFound = errors.New("storage: action-value table not found")

// Store manages the SQLite database connection.
type Store struct {
	db *sql.DB
}

// Run is one invocation of the trainer.
type Run struct {
	ID        int64
	Seed      int64
	TableName string
	StartedAt time.Time
}

// TrialRecord is one finished trial of a run.
type TrialRecord struct {
	RunID     int64
	Trial     int
	Score     int
	Ticks     int
	CreatedAt time.Time
}

// QValue is one persisted entry of an action-value table.
type QValue struct {
	X, Y   int
	Action int
	Value  float64
}

// RunStats contains aggregated statistics for a run.
type RunStats struct {
	RunID      int64
	Trials     int
	BestScore  int
	AvgScore   float64
	TotalTicks int64
	LastTrial  time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}
	// SQLite allows one writer; concurrent SSH sessions share this handle.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			seed INTEGER NOT NULL,
			table_name TEXT NOT NULL,
			started_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS trials (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id INTEGER NOT NULL REFERENCES runs(id),
			trial INTEGER NOT NULL,
			score INTEGER NOT NULL,
			ticks INTEGER NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			UNIQUE (run_id, trial)
		);
		CREATE INDEX IF NOT EXISTS idx_trials_top ON trials(run_id, score DESC);

		CREATE TABLE IF NOT EXISTS q_tables (
			name TEXT PRIMARY KEY,
			x_buckets INTEGER NOT NULL,
			y_buckets INTEGER NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS q_values (
			name TEXT NOT NULL REFERENCES q_tables(name),
			x INTEGER NOT NULL,
			y INTEGER NOT NULL,
			action INTEGER NOT NULL,
			value REAL NOT NULL,
			PRIMARY KEY (name, x, y, action)
		);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// CreateRun records the start of a training run and returns its ID.
func (s *Store) CreateRun(seed int64, tableName string) (int64, error) {
	result, err := s.db.Exec("INSERT INTO runs (seed, table_name) VALUES (?, ?)", seed, tableName)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot create run: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}
	return id, nil
}

// LatestRun returns the most recently started run, or nil if there is none.
func (s *Store) LatestRun() (*Run, error) {
	runs, err := s.Runs(1)
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, nil
	}
	return &runs[0], nil
}

// Runs lists the most recent runs, newest first.
func (s *Store) Runs(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, seed, table_name, started_at
		 FROM runs
		 ORDER BY id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var startedAt any
		if err := rows.Scan(&r.ID, &r.Seed, &r.TableName, &startedAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		r.StartedAt = parseTime(startedAt)
		runs = append(runs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return runs, nil
}

// SaveTrial appends a finished trial to its run. A zero CreatedAt is
// stamped with the current time.
func (s *Store) SaveTrial(rec TrialRecord) error {
	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	_, err := s.db.Exec(
		"INSERT INTO trials (run_id, trial, score, ticks, created_at) VALUES (?, ?, ?, ?, ?)",
		rec.RunID, rec.Trial, rec.Score, rec.Ticks, createdAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save trial %d of run %d: %w", rec.Trial, rec.RunID, err)
	}
	return nil
}

// Trials returns every trial of a run in trial order.
func (s *Store) Trials(runID int64) ([]TrialRecord, error) {
	return s.queryTrials(
		`SELECT run_id, trial, score, ticks, created_at
		 FROM trials
		 WHERE run_id = ?
		 ORDER BY trial ASC`,
		runID,
	)
}

// TopTrials returns the best N trials of a run, earliest first among equal scores.
func (s *Store) TopTrials(runID int64, limit int) ([]TrialRecord, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.queryTrials(
		`SELECT run_id, trial, score, ticks, created_at
		 FROM trials
		 WHERE run_id = ?
		 ORDER BY score DESC, trial ASC
		 LIMIT ?`,
		runID, limit,
	)
}

func (s *Store) queryTrials(query string, args ...any) ([]TrialRecord, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query trials: %w", err)
	}
	defer rows.Close()

	var records []TrialRecord
	for rows.Next() {
		var r TrialRecord
		var createdAt any
		if err := rows.Scan(&r.RunID, &r.Trial, &r.Score, &r.Ticks, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		r.CreatedAt = parseTime(createdAt)
		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return records, nil
}

// RunStats retrieves aggregated statistics for a run.
func (s *Store) RunStats(runID int64) (*RunStats, error) {
	stats := &RunStats{RunID: runID}
	var lastTrial any

	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(MAX(score), 0), COALESCE(AVG(score), 0),
		        COALESCE(SUM(ticks), 0), MAX(created_at)
		 FROM trials WHERE run_id = ?`,
		runID,
	).Scan(&stats.Trials, &stats.BestScore, &stats.AvgScore, &stats.TotalTicks, &lastTrial)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get run stats: %w", err)
	}
	stats.LastTrial = parseTime(lastTrial)

	return stats, nil
}

// SaveTable replaces the stored action-value table under name.
func (s *Store) SaveTable(name string, xBuckets, yBuckets int, values []QValue) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // No-op after Commit

	if _, err := tx.Exec("DELETE FROM q_values WHERE name = ?", name); err != nil {
		return fmt.Errorf("storage: cannot clear table %q: %w", name, err)
	}
	if _, err := tx.Exec(
		`INSERT INTO q_tables (name, x_buckets, y_buckets, updated_at)
		 VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(name) DO UPDATE SET
		   x_buckets = excluded.x_buckets,
		   y_buckets = excluded.y_buckets,
		   updated_at = excluded.updated_at`,
		name, xBuckets, yBuckets,
	); err != nil {
		return fmt.Errorf("storage: cannot save table %q: %w", name, err)
	}

	stmt, err := tx.Prepare("INSERT INTO q_values (name, x, y, action, value) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("storage: cannot prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, v := range values {
		if _, err := stmt.Exec(name, v.X, v.Y, v.Action, v.Value); err != nil {
			return fmt.Errorf("storage: cannot save value (%d, %d, %d): %w", v.X, v.Y, v.Action, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: cannot commit table %q: %w", name, err)
	}
	return nil
}

// LoadTable returns the dimensions and values of the table saved under name.
func (s *Store) LoadTable(name string) (xBuckets, yBuckets int, values []QValue, err error) {
	err = s.db.QueryRow(
		"SELECT x_buckets, y_buckets FROM q_tables WHERE name = ?",
		name,
	).Scan(&xBuckets, &yBuckets)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, 0, nil, fmt.Errorf("%w: %q", ErrTableNotFound, name)
	}
	if err != nil {
		return 0, 0, nil, fmt.Errorf("storage: cannot query table %q: %w", name, err)
	}

	rows, err := s.db.Query(
		`SELECT x, y, action, value
		 FROM q_values
		 WHERE name = ?
		 ORDER BY x, y, action`,
		name,
	)
	if err != nil {
		return 0, 0, nil, fmt.Errorf("storage: cannot query values of %q: %w", name, err)
	}
	defer rows.Close()

	for rows.Next() {
		var v QValue
		if err := rows.Scan(&v.X, &v.Y, &v.Action, &v.Value); err != nil {
			return 0, 0, nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		values = append(values, v)
	}
	if err := rows.Err(); err != nil {
		return 0, 0, nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return xBuckets, yBuckets, values, nil
}

// timeLayout matches SQLite's CURRENT_TIMESTAMP, always UTC.
const timeLayout = "2006-01-02 15:04:05"

// parseTime handles both time.Time and string datetimes returned by the driver.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse(timeLayout, t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
