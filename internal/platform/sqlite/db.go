package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3" // register sqlite3 driver for database/sql
)

const (
	DriverName = "sqlite3"

	defaultBusyTimeout = 5 * time.Second
)

type OpenConfig struct {
	Path         string
	MaxOpenConns int
	BusyTimeout  time.Duration
}

// Open opens (creating if needed) a WAL-mode database file. A single
// connection is the default: SQLite serialises writers anyway and this keeps
// "database is locked" out of concurrent inserts.
func Open(ctx context.Context, cfg OpenConfig) (*sql.DB, error) {
	if cfg.MaxOpenConns <= 0 {
		cfg.MaxOpenConns = 1
	}

	if cfg.BusyTimeout <= 0 {
		cfg.BusyTimeout = defaultBusyTimeout
	}

	if dir := filepath.Dir(cfg.Path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("sqlite: create dir: %w", err)
		}
	}

	dsn := fmt.Sprintf(
		"file:%s?mode=rwc&_journal_mode=WAL&_busy_timeout=%d",
		cfg.Path,
		cfg.BusyTimeout.Milliseconds(),
	)

	db, err := sql.Open(DriverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()

		return nil, fmt.Errorf("sqlite: ping: %w", err)
	}

	return db, nil
}
