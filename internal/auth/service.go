// Package auth implements the credential workflow: registration, login and
// the user listing/search used by the client's people picker.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/yourorg/pixieauth/internal/models"
	"github.com/yourorg/pixieauth/internal/store"
)

// UserStore is the persistence the service needs. Save must enforce username
// and email uniqueness itself and report violations with
// store.ErrDuplicateUsername / store.ErrDuplicateEmail.
type UserStore interface {
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	// FindByUsername returns store.ErrNotFound when no user matches.
	FindByUsername(ctx context.Context, username string) (models.User, error)
	FindAll(ctx context.Context) ([]models.User, error)
	Save(ctx context.Context, user models.User) (models.User, error)
}

// Result is the outcome of Register and Login. A successful result has a
// non-empty Token and a User projection; a failed one has only Message and Err.
type Result struct {
	Token   string
	Message string
	User    *models.UserProjection
	Err     error
}

// OK reports whether a token was issued.
func (r Result) OK() bool { return r.Token != "" }

func success(token string, u models.User) Result {
	p := u.Projection()
	return Result{Token: token, Message: msgSuccess, User: &p}
}

func failure(kind error, message string) Result {
	return Result{Message: message, Err: kind}
}

func unexpected(prefix string, err error) Result {
	return Result{
		Message: prefix + err.Error(),
		Err:     fmt.Errorf("%w: %w", ErrUnexpectedFault, err),
	}
}

// maxPasswordBytes is the bcrypt input limit. Longer passwords are never
// stored, so they can never verify.
const maxPasswordBytes = 72

// Service runs the credential workflow over a UserStore.
type Service struct {
	store  UserStore
	hasher PasswordHasher
	tokens TokenIssuer
	logger *zap.Logger
}

// NewService builds a Service. A nil logger discards output.
func NewService(s UserStore, h PasswordHasher, t TokenIssuer, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: s, hasher: h, tokens: t, logger: logger.Named("auth")}
}

// Register creates a user and issues a token. It never returns a Go error:
// every failure is described by the Result.
func (s *Service) Register(ctx context.Context, req models.RegisterRequest) Result {
	log := s.logger.With(zap.String("username", req.Username))

	exists, err := s.store.ExistsByUsername(ctx, req.Username)
	if err != nil {
		log.Error("registration failed", zap.Error(err))
		return unexpected(msgRegisterFailed, err)
	}
	if exists {
		log.Info("registration rejected: duplicate username")
		return failure(ErrDuplicateUsername, msgDuplicateUsername)
	}

	exists, err = s.store.ExistsByEmail(ctx, req.Email)
	if err != nil {
		log.Error("registration failed", zap.Error(err))
		return unexpected(msgRegisterFailed, err)
	}
	if exists {
		log.Info("registration rejected: duplicate email")
		return failure(ErrDuplicateEmail, msgDuplicateEmail)
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		log.Error("registration failed: hashing", zap.Error(err))
		return unexpected(msgRegisterFailed, err)
	}

	user := models.NewUser(req.FirstName, req.LastName, req.Email, req.Username, hash, req.DateOfBirth).
		WithAvatar(req.AvatarID)

	user, err = s.store.Save(ctx, user)
	switch {
	case errors.Is(err, store.ErrDuplicateUsername):
		// lost a race with a concurrent registration
		log.Info("registration rejected by store: duplicate username")
		return failure(ErrDuplicateUsername, msgDuplicateUsername)
	case errors.Is(err, store.ErrDuplicateEmail):
		log.Info("registration rejected by store: duplicate email")
		return failure(ErrDuplicateEmail, msgDuplicateEmail)
	case err != nil:
		log.Error("registration failed: save", zap.Error(err))
		return unexpected(msgRegisterFailed, err)
	}

	token, err := s.tokens.Issue()
	if err != nil {
		log.Error("registration failed: token", zap.Error(err))
		return unexpected(msgRegisterFailed, err)
	}

	log.Info("user registered", zap.Int64("user_id", user.ID))
	return success(token, user)
}

// Login verifies the password against the stored hash and issues a token.
// Like Register, it reports every failure through the Result.
func (s *Service) Login(ctx context.Context, username, password string) Result {
	log := s.logger.With(zap.String("username", username))

	user, err := s.store.FindByUsername(ctx, username)
	if errors.Is(err, store.ErrNotFound) {
		log.Info("login rejected: user not found")
		return failure(ErrUserNotFound, msgUserNotFound)
	}
	if err != nil {
		log.Error("login failed", zap.Error(err))
		return unexpected(msgLoginFailed, err)
	}

	if len(password) > maxPasswordBytes {
		// bcrypt compares only the first 72 bytes
		log.Info("login rejected: password too long")
		return failure(ErrInvalidPassword, msgInvalidPassword)
	}

	if err := s.hasher.Verify(user.Password, password); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			log.Info("login rejected: invalid password")
			return failure(ErrInvalidPassword, msgInvalidPassword)
		}
		log.Error("login failed: verify", zap.Error(err))
		return unexpected(msgLoginFailed, err)
	}

	token, err := s.tokens.Issue()
	if err != nil {
		log.Error("login failed: token", zap.Error(err))
		return unexpected(msgLoginFailed, err)
	}

	log.Info("user logged in", zap.Int64("user_id", user.ID))
	return success(token, user)
}

// ListAllUsers returns every stored user in store order, password hash included.
func (s *Service) ListAllUsers(ctx context.Context) ([]models.User, error) {
	users, err := s.store.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// SearchUsers filters ListAllUsers by a case-insensitive substring of first
// name, last name or username. A blank query returns the full listing.
func (s *Service) SearchUsers(ctx context.Context, query string) ([]models.User, error) {
	users, err := s.ListAllUsers(ctx)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(query) == "" {
		return users, nil
	}

	q := strings.ToLower(query)
	matched := make([]models.User, 0, len(users))
	for _, u := range users {
		if strings.Contains(strings.ToLower(u.FirstName), q) ||
			strings.Contains(strings.ToLower(u.LastName), q) ||
			strings.Contains(strings.ToLower(u.Username), q) {
			matched = append(matched, u)
		}
	}
	return matched, nil
}
