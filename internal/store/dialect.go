package store

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Unique constraint names created by the migrations.
const (
	usernameConstraint = "uq_users_username"
	emailConstraint    = "uq_users_email"
)

type dialect struct {
	returningID bool
	// duplicate maps a driver uniqueness violation to ErrDuplicateUsername or
	// ErrDuplicateEmail, and returns nil for any other error.
	duplicate func(err error) error
}

func dialectFor(driverName string) (dialect, error) {
	switch driverName {
	case "mysql":
		return dialect{duplicate: mysqlDuplicate}, nil
	case "pgx", "postgres":
		return dialect{returningID: true, duplicate: postgresDuplicate}, nil
	case "sqlite", "sqlite3":
		return dialect{duplicate: sqliteDuplicate}, nil
	default:
		return dialect{}, fmt.Errorf("unsupported driver %q", driverName)
	}
}

// MySQL reports 1062 "Duplicate entry 'x' for key 'users.uq_users_username'".
func mysqlDuplicate(err error) error {
	var me *mysql.MySQLError
	if !errors.As(err, &me) || me.Number != 1062 {
		return nil
	}
	key := me.Message
	if i := strings.LastIndex(key, "for key"); i >= 0 {
		key = key[i:]
	}
	return duplicateByName(key)
}

func postgresDuplicate(err error) error {
	var pe *pgconn.PgError
	if !errors.As(err, &pe) || pe.Code != "23505" {
		return nil
	}
	return duplicateByName(pe.ConstraintName)
}

// SQLite names the column instead of the constraint: "UNIQUE constraint failed: users.username".
func sqliteDuplicate(err error) error {
	var se *sqlite.Error
	if !errors.As(err, &se) || se.Code()&0xff != sqlite3.SQLITE_CONSTRAINT {
		return nil
	}
	msg := se.Error()
	switch {
	case strings.Contains(msg, "UNIQUE constraint failed: users.username"):
		return ErrDuplicateUsername
	case strings.Contains(msg, "UNIQUE constraint failed: users.email"):
		return ErrDuplicateEmail
	}
	return nil
}

func duplicateByName(name string) error {
	switch {
	case strings.Contains(name, usernameConstraint):
		return ErrDuplicateUsername
	case strings.Contains(name, emailConstraint):
		return ErrDuplicateEmail
	}
	return nil
}
