package testdb

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver
	"github.com/phrazzld/task-manager/internal/ciutil"
	"github.com/phrazzld/task-manager/internal/platform/postgres"
	"github.com/stretchr/testify/require"
)

const setupTimeout = 30 * time.Second

// IsIntegrationTestEnvironment reports whether a test database URL is configured.
func IsIntegrationTestEnvironment() bool {
	return ciutil.GetTestDatabaseURL(nil) != ""
}

// SkipIfNoDatabase skips t when no test database is configured.
func SkipIfNoDatabase(t *testing.T) {
	t.Helper()
	if !IsIntegrationTestEnvironment() {
		t.Skipf("Skipping integration test - %s or %s environment variable required",
			ciutil.EnvTestDatabaseURL, ciutil.EnvDatabaseURL)
	}
}

// GetTestDBWithT opens the test database, applies the embedded migrations and
// registers a cleanup that closes the connection. It skips the test when no
// database is configured.
func GetTestDBWithT(t *testing.T) *sql.DB {
	t.Helper()
	SkipIfNoDatabase(t)

	dbURL := ciutil.GetTestDatabaseURL(nil)
	db, err := sql.Open("pgx", dbURL)
	require.NoError(t, err, "failed to open %s", ciutil.MaskSensitiveValue(dbURL))
	t.Cleanup(func() { _ = db.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), setupTimeout)
	defer cancel()

	require.NoError(t, db.PingContext(ctx), "database not reachable")
	require.NoError(t, postgres.Migrate(ctx, db, "up", nil), "failed to apply migrations")

	return db
}

// WithTx runs fn inside a transaction that is rolled back afterwards, so
// tests leave no rows behind.
func WithTx(t *testing.T, db *sql.DB, fn func(t *testing.T, tx *sql.Tx)) {
	t.Helper()

	tx, err := db.BeginTx(context.Background(), nil)
	require.NoError(t, err, "failed to begin transaction")

	defer func() {
		if err := tx.Rollback(); err != nil && err != sql.ErrTxDone {
			t.Logf("failed to roll back test transaction: %v", err)
		}
	}()

	fn(t, tx)
}
