package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// DB wraps the SQLite database holding the pair-stats cache, the
// balance log and the run log.
type DB struct {
	sql *sql.DB
	ttl time.Duration // pair-stats cache freshness window
}

// SetPairStatsTTL overrides how long cached pair histories stay fresh.
func (d *DB) SetPairStatsTTL(ttl time.Duration) {
	if ttl > 0 {
		d.ttl = ttl
	}
}

// DefaultPath resolves the database location: the working directory so
// the file is stable across go run / go build, falling back to the
// executable's directory for deployed builds.
func DefaultPath(name string) string {
	if wd, err := os.Getwd(); err == nil {
		return filepath.Join(wd, name)
	}
	exe, _ := os.Executable()
	return filepath.Join(filepath.Dir(exe), name)
}

// Open opens (or creates) the SQLite database at path and runs migrations.
func Open(path string) (*DB, error) {
	sqlDB, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("ping db: %w", err)
	}
	d := &DB{sql: sqlDB, ttl: time.Hour}
	if err := d.migrate(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("migrate db: %w", err)
	}
	return d, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.sql.Close()
}

func (d *DB) migrate() error {
	version := 0
	d.sql.QueryRow("SELECT version FROM schema_version ORDER BY version DESC LIMIT 1").Scan(&version)

	if version < 1 {
		_, err := d.sql.Exec(`
			CREATE TABLE IF NOT EXISTS schema_version (version INTEGER PRIMARY KEY);

			CREATE TABLE IF NOT EXISTS pair_stats (
				market_name TEXT PRIMARY KEY,
				payload     TEXT NOT NULL,
				updated_at  TEXT NOT NULL
			);

			CREATE TABLE IF NOT EXISTS balance_log (
				id           INTEGER PRIMARY KEY AUTOINCREMENT,
				timestamp    TEXT NOT NULL,
				balance      REAL NOT NULL,
				orders_value REAL NOT NULL,
				total        REAL NOT NULL
			);
			CREATE INDEX IF NOT EXISTS idx_balance_log_ts ON balance_log(timestamp);

			CREATE TABLE IF NOT EXISTS runs (
				id        TEXT PRIMARY KEY,
				timestamp TEXT NOT NULL,
				mode      TEXT NOT NULL,
				results   INTEGER NOT NULL,
				top_score REAL NOT NULL
			);
		`)
		if err != nil {
			return err
		}
		if _, err := d.sql.Exec("INSERT OR REPLACE INTO schema_version (version) VALUES (1)"); err != nil {
			return err
		}
	}
	return nil
}
