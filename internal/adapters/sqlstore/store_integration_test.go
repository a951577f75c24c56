//go:build integration

package sqlstore_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"qrtrack/internal/adapters/sqlstore"
	"qrtrack/internal/app/links"
	"qrtrack/internal/testutils"
	"qrtrack/internal/testutils/storagetest"
)

func TestPostgresStore_Contract(t *testing.T) {
	dsn := testutils.StartPostgres(t)
	db := testutils.OpenMigratedPostgres(t, dsn)

	storagetest.Run(t, func(t *testing.T) links.Storage {
		_, err := db.ExecContext(context.Background(), "TRUNCATE scans, qr_codes RESTART IDENTITY")
		require.NoError(t, err)

		return sqlstore.New(db, sqlstore.Postgres)
	})
}
