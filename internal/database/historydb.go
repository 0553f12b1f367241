package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/jthrilly/dead-link-checker/internal/model"
)

// HistoryDB provides SQLite-based storage for past runs, so results can be
// compared across time without re-crawling.
//
// Design decision: We use one database file for all sites rather than one
// per seed. This keeps the history command a single query and simplifies
// backup.
type HistoryDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures HistoryDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent
	// performance.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a HistoryDB in the given directory.
// If CreateIfNotExists is false and the database doesn't exist, an error
// is returned instead of creating an empty history.
func Open(dbDir string, opts Options) (*HistoryDB, error) {
	dbPath := filepath.Join(dbDir, "deadlink.db")

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("history database not found at %s", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite connection strings: mode=rw prevents creating
	// new files, mode=rwc allows creation.
	var dsn string
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	} else {
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	hdb := &HistoryDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close() //nolint:errcheck // Best effort cleanup
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := hdb.createTables(); err != nil {
		_ = db.Close() //nolint:errcheck // Best effort cleanup
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return hdb, nil
}

// Close closes the database connection.
func (hdb *HistoryDB) Close() error {
	return hdb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (hdb *HistoryDB) createTables() error {
	schema := `
	-- One row per completed run
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		seed TEXT NOT NULL,
		origin TEXT NOT NULL,
		started_at DATETIME NOT NULL,
		duration_ms INTEGER NOT NULL,
		total_links INTEGER NOT NULL,
		dead_links INTEGER NOT NULL,
		interrupted INTEGER NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_runs_seed ON runs(seed);
	CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);

	-- One row per checked address within a run
	CREATE TABLE IF NOT EXISTS outcomes (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		url TEXT NOT NULL,
		status INTEGER NOT NULL,
		error TEXT,
		dead INTEGER NOT NULL,
		UNIQUE(run_id, url)
	);

	CREATE INDEX IF NOT EXISTS idx_outcomes_run ON outcomes(run_id);
	CREATE INDEX IF NOT EXISTS idx_outcomes_dead ON outcomes(run_id, dead);
	`

	_, err := hdb.db.ExecContext(context.Background(), schema)
	return err
}

// RunRecord is a stored run summary.
type RunRecord struct {
	ID          int64
	Seed        string
	Origin      string
	StartedAt   time.Time
	Duration    time.Duration
	TotalLinks  int
	DeadLinks   int
	Interrupted bool
}

// SaveRun stores a run report and all its outcomes in one transaction.
// It returns the new run's ID.
func (hdb *HistoryDB) SaveRun(ctx context.Context, report *model.RunReport) (int64, error) {
	tx, err := hdb.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // No-op after commit.

	summary := model.NewSummary(report)

	res, err := tx.ExecContext(ctx, `
		INSERT INTO runs (seed, origin, started_at, duration_ms, total_links, dead_links, interrupted)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		report.Seed,
		report.Origin,
		report.StartedAt.UTC(),
		report.Duration.Milliseconds(),
		summary.Total,
		summary.Dead,
		report.Interrupted,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}

	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get run ID: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO outcomes (run_id, url, status, error, dead)
		VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare outcome insert: %w", err)
	}
	defer stmt.Close() //nolint:errcheck // Statement dies with the transaction.

	for _, o := range report.Outcomes {
		if _, err := stmt.ExecContext(ctx, runID, o.Address, o.Status, o.Err, o.IsDead()); err != nil {
			return 0, fmt.Errorf("failed to insert outcome for %s: %w", o.Address, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit run: %w", err)
	}

	return runID, nil
}

// RecentRuns returns the most recent runs, newest first.
func (hdb *HistoryDB) RecentRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	rows, err := hdb.db.QueryContext(ctx, `
		SELECT id, seed, origin, started_at, duration_ms, total_links, dead_links, interrupted
		FROM runs
		ORDER BY started_at DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close() //nolint:errcheck // Read-only rows.

	var records []RunRecord
	for rows.Next() {
		var r RunRecord
		var durationMS int64
		if err := rows.Scan(&r.ID, &r.Seed, &r.Origin, &r.StartedAt, &durationMS, &r.TotalLinks, &r.DeadLinks, &r.Interrupted); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		r.Duration = time.Duration(durationMS) * time.Millisecond
		records = append(records, r)
	}

	return records, rows.Err()
}

// DeadForRun returns the dead-link outcomes recorded for a run, in
// insertion order.
func (hdb *HistoryDB) DeadForRun(ctx context.Context, runID int64) ([]model.LinkOutcome, error) {
	rows, err := hdb.db.QueryContext(ctx, `
		SELECT url, status, COALESCE(error, '')
		FROM outcomes
		WHERE run_id = ? AND dead = 1
		ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query outcomes: %w", err)
	}
	defer rows.Close() //nolint:errcheck // Read-only rows.

	var outcomes []model.LinkOutcome
	for rows.Next() {
		var o model.LinkOutcome
		if err := rows.Scan(&o.Address, &o.Status, &o.Err); err != nil {
			return nil, fmt.Errorf("failed to scan outcome: %w", err)
		}
		outcomes = append(outcomes, o)
	}

	return outcomes, rows.Err()
}
