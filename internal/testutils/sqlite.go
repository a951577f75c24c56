package testutils

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"qrtrack/internal/platform/migrations"
	"qrtrack/internal/platform/sqlite"
)

// OpenMigratedSQLite creates a fresh database file under t.TempDir.
func OpenMigratedSQLite(t *testing.T) *sql.DB {
	t.Helper()

	ctx := context.Background()

	db, err := sqlite.Open(ctx, sqlite.OpenConfig{
		Path: filepath.Join(t.TempDir(), "qrtrack.sqlite"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, migrations.Up(ctx, db, migrations.SQLite))

	return db
}
