package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"goldtracker/internal/model"
)

// SQLiteRecorder persists analysis history to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so dashboards can read while the tracker writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS analysis_runs (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp   INTEGER NOT NULL,
			price       REAL,
			sma10       REAL,
			sma50       REAL,
			rsi14       REAL,
			signal      TEXT,
			report_path TEXT,
			result_len  INTEGER,
			error       TEXT,
			duration_ms INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_ts ON analysis_runs(timestamp)`,

		`CREATE TABLE IF NOT EXISTS price_snapshots (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp INTEGER NOT NULL,
			price     REAL,
			source    TEXT,
			stale     INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_prices_ts ON price_snapshots(timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// RecordRun stores the outcome of one analysis run.
func (r *SQLiteRecorder) RecordRun(rec *RunRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO analysis_runs
		(timestamp, price, sma10, sma50, rsi14, signal, report_path, result_len, error, duration_ms)
		VALUES (?,?,?,?,?,?,?,?,?,?)`,
		time.Now().Unix(), rec.Price, rec.SMA10, rec.SMA50, rec.RSI14,
		rec.Signal, rec.ReportPath, rec.ResultLen, rec.Error, rec.DurationMS,
	)
	return err
}

// RecordPrice stores one observed price point.
func (r *SQLiteRecorder) RecordPrice(pt *model.PricePoint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stale := 0
	if pt.Stale {
		stale = 1
	}
	_, err := r.db.Exec(`INSERT INTO price_snapshots (timestamp, price, source, stale) VALUES (?,?,?,?)`,
		pt.Timestamp.Unix(), pt.Price, pt.Source, stale,
	)
	return err
}

// Close closes the underlying database.
func (r *SQLiteRecorder) Close() error {
	return r.db.Close()
}
