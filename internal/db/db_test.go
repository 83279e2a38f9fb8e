package db

import (
	"context"
	"database/sql"
	"errors"
	"io/fs"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourorg/pixieauth/internal/config"
)

func TestMigrationSet(t *testing.T) {
	cases := []struct {
		driver  string
		dir     string
		dialect string
	}{
		{config.DriverMySQL, "migrations/mysql", "mysql"},
		{config.DriverPostgres, "migrations/postgres", "postgres"},
		{config.DriverSQLite, "migrations/sqlite", "sqlite3"},
	}
	for _, tc := range cases {
		t.Run(tc.driver, func(t *testing.T) {
			dir, dialect, err := migrationSet(tc.driver)
			require.NoError(t, err)
			assert.Equal(t, tc.dir, dir)
			assert.Equal(t, tc.dialect, dialect)

			// the directory must be embedded and hold at least one migration
			entries, err := fs.ReadDir(migrations, dir)
			require.NoError(t, err)
			assert.NotEmpty(t, entries)
		})
	}

	_, _, err := migrationSet(config.DriverMemory)
	assert.Error(t, err)
}

func TestMySQLMigration_CaseSensitiveIdentity(t *testing.T) {
	raw, err := fs.ReadFile(migrations, "migrations/mysql/00001_create_users.sql")
	require.NoError(t, err)

	ddl := string(raw)
	assert.Contains(t, ddl, "email VARCHAR(255) COLLATE utf8mb4_bin NOT NULL")
	assert.Contains(t, ddl, "username VARCHAR(50) COLLATE utf8mb4_bin NOT NULL")
}

func TestEnsureSchema_UsesDriverMigrations(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	var gotDir string
	orig := gooseUpContext
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		gotDir = dir
		return nil
	}
	defer func() { gooseUpContext = orig }()

	require.NoError(t, EnsureSchema(context.Background(), db, config.DriverPostgres))
	assert.Equal(t, "migrations/postgres", gotDir)
}

func TestEnsureSchema_WrapsMigrationError(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	boom := errors.New("boom")
	orig := gooseUpContext
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		return boom
	}
	defer func() { gooseUpContext = orig }()

	err = EnsureSchema(context.Background(), db, config.DriverMySQL)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "migrate mysql")
}

func TestEnsureSchema_UnknownDriver(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	assert.Error(t, EnsureSchema(context.Background(), db, "oracle"))
}

func TestConnect_SQLite(t *testing.T) {
	cfg := config.DBConfig{Driver: config.DriverSQLite, DSN: "file:" + t.TempDir() + "/c.db"}

	conn, err := Connect(context.Background(), cfg)
	require.NoError(t, err)
	defer conn.Close()

	assert.Equal(t, "sqlite", conn.DriverName())
	assert.Equal(t, 1, conn.Stats().MaxOpenConnections)
}
