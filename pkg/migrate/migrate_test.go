package migrate_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/angelmondragon/rentpos-backend/pkg/migrate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestMigrationsDirIsValid(t *testing.T) {
	require.NoError(t, migrate.ValidateDir("migrations"))
	require.NoError(t, migrate.ValidateEmbedded())
}

func TestValidateReportsEveryBadFile(t *testing.T) {
	fsys := fstest.MapFS{
		"20240101000000_ok.sql":      {Data: []byte("-- +goose Up\n-- +goose Down\n")},
		"20240101000000_dupe.sql":    {Data: []byte("-- +goose Up\n-- +goose Down\n")},
		"20240102000000_no_down.sql": {Data: []byte("-- +goose Up\n")},
		"add_rental_notes.sql":       {Data: []byte("-- +goose Up\n-- +goose Down\n")},
		"README.md":                  {Data: []byte("ignored")},
	}

	err := migrate.Validate(fsys)
	require.Error(t, err)
	assert.Len(t, multierr.Errors(err), 3)
	assert.Contains(t, err.Error(), "already used by")
	assert.Contains(t, err.Error(), "missing \"-- +goose Down\"")
	assert.Contains(t, err.Error(), "add_rental_notes.sql: expected")
}

func TestLedgerMigrationsContainConstraints(t *testing.T) {
	checks := map[string][]string{
		"*_create_transactions.sql": {
			"CREATE TABLE IF NOT EXISTS transactions",
			"CONSTRAINT transactions_invoice_key UNIQUE (invoice)",
			"FOREIGN KEY (transaction_id) REFERENCES transactions(id) ON DELETE CASCADE",
			"DROP TABLE IF EXISTS transactions",
		},
		"*_create_rentals.sql": {
			"CREATE TABLE IF NOT EXISTS rentals",
			"CONSTRAINT rentals_invoice_key UNIQUE (invoice)",
			"start_date DATE",
			"DROP TABLE IF EXISTS rental_details",
		},
	}

	for pattern, subs := range checks {
		matches, err := filepath.Glob(filepath.Join("migrations", pattern))
		require.NoError(t, err)
		require.Len(t, matches, 1, pattern)

		data, err := os.ReadFile(matches[0])
		require.NoError(t, err)
		for _, sub := range subs {
			assert.Contains(t, string(data), sub, pattern)
		}
	}
}

func TestRunEmbeddedAgainstSQLite(t *testing.T) {
	conn, err := gorm.Open(sqlite.Open("file:migrate_embedded?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	ctx := context.Background()
	require.NoError(t, migrate.RunEmbedded(ctx, sqlDB, migrate.DialectFor("sqlite"), "up"))

	for _, table := range []string{"transactions", "transaction_details", "rentals", "rental_details"} {
		assert.True(t, conn.Migrator().HasTable(table), table)
	}

	require.NoError(t, migrate.RunEmbedded(ctx, sqlDB, "sqlite3", "reset"))
	assert.False(t, conn.Migrator().HasTable("rentals"))
}

func TestCreateSQLMigration(t *testing.T) {
	dir := t.TempDir()

	path, err := migrate.CreateSQLMigration(dir, "Add Rental Notes!")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, "_add_rental_notes.sql"))
	require.NoError(t, migrate.ValidateDir(dir))

	second, err := migrate.CreateSQLMigration(dir, "add rental notes index")
	require.NoError(t, err)
	assert.Less(t, filepath.Base(path), filepath.Base(second))
	require.NoError(t, migrate.ValidateDir(dir))

	_, err = migrate.CreateSQLMigration(dir, "!!!")
	assert.Error(t, err)
}

func TestDialectFor(t *testing.T) {
	assert.Equal(t, "sqlite3", migrate.DialectFor("sqlite"))
	assert.Equal(t, "postgres", migrate.DialectFor("postgres"))
	assert.Equal(t, "postgres", migrate.DialectFor(""))
}
