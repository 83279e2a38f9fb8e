package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/yourorg/pixieauth/internal/models"
)

const userColumns = `id, first_name, last_name, email, username, password_hash, avatar_id, date_of_birth`

// SQLStore is the users table on MySQL, PostgreSQL or SQLite.
// Queries are written with '?' placeholders and rebound per driver.
type SQLStore struct {
	db      *sqlx.DB
	dialect dialect
}

// NewSQLStore picks the dialect from db.DriverName().
func NewSQLStore(db *sqlx.DB) (*SQLStore, error) {
	d, err := dialectFor(db.DriverName())
	if err != nil {
		return nil, err
	}
	return &SQLStore{db: db, dialect: d}, nil
}

// ExistsByUsername reports whether a row has this username.
func (s *SQLStore) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return s.exists(ctx, `SELECT COUNT(*) FROM users WHERE username = ?`, username)
}

// ExistsByEmail reports whether a row has this email.
func (s *SQLStore) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return s.exists(ctx, `SELECT COUNT(*) FROM users WHERE email = ?`, email)
}

func (s *SQLStore) exists(ctx context.Context, query string, arg string) (bool, error) {
	var n int
	if err := s.db.GetContext(ctx, &n, s.db.Rebind(query), arg); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return n > 0, nil
}

// FindByUsername returns ErrNotFound when no row matches.
func (s *SQLStore) FindByUsername(ctx context.Context, username string) (models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = ?`

	var u models.User
	if err := s.db.GetContext(ctx, &u, s.db.Rebind(query), username); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, ErrNotFound
		}
		return models.User{}, fmt.Errorf("db error: %w", err)
	}
	return u, nil
}

// FindAll returns every user ordered by id.
func (s *SQLStore) FindAll(ctx context.Context) ([]models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY id`

	users := []models.User{}
	if err := s.db.SelectContext(ctx, &users, query); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return users, nil
}

// Save inserts u and returns it with the generated id. Unique violations
// are reported as ErrDuplicateUsername / ErrDuplicateEmail.
func (s *SQLStore) Save(ctx context.Context, u models.User) (models.User, error) {
	query := `INSERT INTO users (first_name, last_name, email, username, password_hash, avatar_id, date_of_birth)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	args := []any{u.FirstName, u.LastName, u.Email, u.Username, u.Password, u.AvatarID, u.DateOfBirth}

	var id int64
	if s.dialect.returningID {
		err := s.db.QueryRowxContext(ctx, s.db.Rebind(query+` RETURNING id`), args...).Scan(&id)
		if err != nil {
			return models.User{}, s.saveError(err)
		}
		return u.WithID(id), nil
	}

	res, err := s.db.ExecContext(ctx, s.db.Rebind(query), args...)
	if err != nil {
		return models.User{}, s.saveError(err)
	}
	id, err = res.LastInsertId()
	if err != nil {
		return models.User{}, fmt.Errorf("db error: %w", err)
	}
	return u.WithID(id), nil
}

func (s *SQLStore) saveError(err error) error {
	if dup := s.dialect.duplicate(err); dup != nil {
		return dup
	}
	return fmt.Errorf("db error: %w", err)
}

// Ping checks the database connection.
func (s *SQLStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the underlying pool.
func (s *SQLStore) Close() error {
	return s.db.Close()
}
