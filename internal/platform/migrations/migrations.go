// Package migrations embeds the schema for every supported SQL engine and
// applies it with goose.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"sync"

	"github.com/pressly/goose/v3"
)

type Dialect string

const (
	Postgres Dialect = "postgres"
	SQLite   Dialect = "sqlite3"
)

//go:embed postgres/*.sql sqlite/*.sql
var files embed.FS

// goose keeps its base FS and dialect in package globals.
var gooseMu sync.Mutex

func dir(d Dialect) (string, error) {
	switch d {
	case Postgres:
		return "postgres", nil
	case SQLite:
		return "sqlite", nil
	default:
		return "", fmt.Errorf("migrations: unsupported dialect %q", d)
	}
}

// Up applies all pending migrations for the given engine.
func Up(ctx context.Context, db *sql.DB, d Dialect) error {
	path, err := dir(d)
	if err != nil {
		return err
	}

	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(files)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect(string(d)); err != nil {
		return fmt.Errorf("migrations: set dialect: %w", err)
	}

	if err := goose.UpContext(ctx, db, path); err != nil {
		return fmt.Errorf("migrations: up: %w", err)
	}

	return nil
}
