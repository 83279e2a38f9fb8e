package store

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourorg/pixieauth/internal/models"
)

var userRowColumns = []string{"id", "first_name", "last_name", "email", "username", "password_hash", "avatar_id", "date_of_birth"}

func newStoreWithMock(t *testing.T, driver string) (*SQLStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	s, err := NewSQLStore(sqlx.NewDb(db, driver))
	require.NoError(t, err)
	return s, mock
}

func sampleUser() models.User {
	return models.NewUser("Ann", "Lee", "ann@example.com", "alee", "$2a$hash", "1990-01-01").WithAvatar("avatar-7")
}

func TestNewSQLStore_UnsupportedDriver(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	_, err = NewSQLStore(sqlx.NewDb(db, "oracle"))
	assert.Error(t, err)
}

func TestSQLStore_ExistsByUsername(t *testing.T) {
	s, mock := newStoreWithMock(t, "mysql")

	mock.ExpectQuery(`(?s)^SELECT\s+COUNT\(\*\)\s+FROM\s+users\s+WHERE\s+username\s*=\s*\?$`).
		WithArgs("alee").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	ok, err := s.ExistsByUsername(context.Background(), "alee")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLStore_ExistsByEmail_PostgresPlaceholders(t *testing.T) {
	s, mock := newStoreWithMock(t, "pgx")

	mock.ExpectQuery(`(?s)^SELECT\s+COUNT\(\*\)\s+FROM\s+users\s+WHERE\s+email\s*=\s*\$1$`).
		WithArgs("ann@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	ok, err := s.ExistsByEmail(context.Background(), "ann@example.com")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLStore_ExistsDBError(t *testing.T) {
	s, mock := newStoreWithMock(t, "mysql")

	mock.ExpectQuery(`SELECT COUNT`).WillReturnError(errors.New("db down"))

	_, err := s.ExistsByUsername(context.Background(), "alee")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db error: db down")
}

func TestSQLStore_FindByUsername(t *testing.T) {
	s, mock := newStoreWithMock(t, "mysql")

	mock.ExpectQuery(`(?s)^SELECT\s+id,.*FROM\s+users\s+WHERE\s+username\s*=\s*\?$`).
		WithArgs("alee").
		WillReturnRows(sqlmock.NewRows(userRowColumns).
			AddRow(3, "Ann", "Lee", "ann@example.com", "alee", "$2a$hash", "avatar-7", "1990-01-01"))

	got, err := s.FindByUsername(context.Background(), "alee")
	require.NoError(t, err)
	assert.Equal(t, sampleUser().WithID(3), got)
}

func TestSQLStore_FindByUsername_NotFound(t *testing.T) {
	s, mock := newStoreWithMock(t, "mysql")

	mock.ExpectQuery(`FROM\s+users\s+WHERE\s+username`).
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows(userRowColumns))

	_, err := s.FindByUsername(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLStore_FindAll(t *testing.T) {
	s, mock := newStoreWithMock(t, "mysql")

	mock.ExpectQuery(`(?s)^SELECT\s+id,.*FROM\s+users\s+ORDER\s+BY\s+id$`).
		WillReturnRows(sqlmock.NewRows(userRowColumns).
			AddRow(1, "Ann", "Lee", "ann@example.com", "alee", "h1", "", "1990").
			AddRow(2, "Bob", "Ann", "bob@example.com", "bann", "h2", "a", "1991"))

	users, err := s.FindAll(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, int64(1), users[0].ID)
	assert.Equal(t, "bann", users[1].Username)
	assert.Equal(t, "h2", users[1].Password)
}

func TestSQLStore_FindAll_Empty(t *testing.T) {
	s, mock := newStoreWithMock(t, "mysql")

	mock.ExpectQuery(`ORDER\s+BY\s+id`).WillReturnRows(sqlmock.NewRows(userRowColumns))

	users, err := s.FindAll(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, users)
	assert.Empty(t, users)
}

func TestSQLStore_Save_MySQL(t *testing.T) {
	s, mock := newStoreWithMock(t, "mysql")
	u := sampleUser()

	mock.ExpectExec(`(?s)^INSERT\s+INTO\s+users\s*\(first_name,.*\)\s*VALUES\s*\(\?, \?, \?, \?, \?, \?, \?\)$`).
		WithArgs(u.FirstName, u.LastName, u.Email, u.Username, u.Password, u.AvatarID, u.DateOfBirth).
		WillReturnResult(sqlmock.NewResult(7, 1))

	got, err := s.Save(context.Background(), u)
	require.NoError(t, err)
	assert.Equal(t, int64(7), got.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLStore_Save_PostgresReturning(t *testing.T) {
	s, mock := newStoreWithMock(t, "pgx")
	u := sampleUser()

	mock.ExpectQuery(`(?s)^INSERT\s+INTO\s+users.*VALUES\s*\(\$1, \$2, \$3, \$4, \$5, \$6, \$7\)\s+RETURNING\s+id$`).
		WithArgs(u.FirstName, u.LastName, u.Email, u.Username, u.Password, u.AvatarID, u.DateOfBirth).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(42))

	got, err := s.Save(context.Background(), u)
	require.NoError(t, err)
	assert.Equal(t, int64(42), got.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLStore_Save_Duplicates(t *testing.T) {
	cases := []struct {
		name   string
		driver string
		err    error
		want   error
	}{
		{
			name:   "mysql username",
			driver: "mysql",
			err:    &mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'alee' for key 'users.uq_users_username'"},
			want:   ErrDuplicateUsername,
		},
		{
			name:   "mysql email",
			driver: "mysql",
			err:    &mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'ann@example.com' for key 'uq_users_email'"},
			want:   ErrDuplicateEmail,
		},
		{
			name:   "postgres username",
			driver: "pgx",
			err:    &pgconn.PgError{Code: "23505", ConstraintName: "uq_users_username"},
			want:   ErrDuplicateUsername,
		},
		{
			name:   "postgres email",
			driver: "pgx",
			err:    &pgconn.PgError{Code: "23505", ConstraintName: "uq_users_email"},
			want:   ErrDuplicateEmail,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s, mock := newStoreWithMock(t, tc.driver)
			if tc.driver == "pgx" {
				mock.ExpectQuery(`INSERT\s+INTO\s+users`).WillReturnError(tc.err)
			} else {
				mock.ExpectExec(`INSERT\s+INTO\s+users`).WillReturnError(tc.err)
			}

			_, err := s.Save(context.Background(), sampleUser())
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestSQLStore_Save_OtherErrorsAreWrapped(t *testing.T) {
	s, mock := newStoreWithMock(t, "mysql")

	mock.ExpectExec(`INSERT\s+INTO\s+users`).
		WillReturnError(&mysql.MySQLError{Number: 1048, Message: "Column 'email' cannot be null"})

	_, err := s.Save(context.Background(), sampleUser())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrDuplicateUsername)
	assert.NotErrorIs(t, err, ErrDuplicateEmail)
	assert.Contains(t, err.Error(), "db error:")
}

func TestSQLStore_Ping(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	s, err := NewSQLStore(sqlx.NewDb(db, "mysql"))
	require.NoError(t, err)

	mock.ExpectPing().WillReturnError(errors.New("gone"))
	assert.Error(t, s.Ping(context.Background()))
}
