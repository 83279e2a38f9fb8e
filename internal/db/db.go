package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"
	"github.com/yourorg/pixieauth/internal/config"
	_ "modernc.org/sqlite"
)

//go:embed migrations
var migrations embed.FS

// Connect opens and pings the configured SQL database.
func Connect(ctx context.Context, cfg config.DBConfig) (*sqlx.DB, error) {
	db, err := sqlx.Open(cfg.DriverName(), cfg.DataSourceName())
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	if cfg.Driver == config.DriverSQLite {
		// a single writer avoids SQLITE_BUSY under concurrent registrations
		db.SetMaxOpenConns(1)
	}
	return db, nil
}

// gooseUpContext is a seam for tests.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// EnsureSchema applies the embedded migrations for driver.
func EnsureSchema(ctx context.Context, db *sql.DB, driver string) error {
	dir, dialect, err := migrationSet(driver)
	if err != nil {
		return err
	}
	goose.SetBaseFS(migrations)
	if err := goose.SetDialect(dialect); err != nil {
		return err
	}
	if err := gooseUpContext(ctx, db, dir); err != nil {
		return fmt.Errorf("migrate %s: %w", driver, err)
	}
	return nil
}

func migrationSet(driver string) (dir, dialect string, err error) {
	switch driver {
	case config.DriverMySQL:
		return "migrations/mysql", "mysql", nil
	case config.DriverPostgres:
		return "migrations/postgres", "postgres", nil
	case config.DriverSQLite:
		return "migrations/sqlite", "sqlite3", nil
	}
	return "", "", fmt.Errorf("no migrations for driver %q", driver)
}
