package store

import (
	"context"
	"sync"

	"github.com/yourorg/pixieauth/internal/models"
)

// MemoryStore keeps users in process memory in insertion order.
// Uniqueness is checked and the insert performed under a single lock.
type MemoryStore struct {
	mu     sync.RWMutex
	users  []models.User
	nextID int64
}

// NewMemoryStore returns an empty store whose first id is 1.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{nextID: 1}
}

// ExistsByUsername reports whether a user has exactly this username.
func (s *MemoryStore) ExistsByUsername(_ context.Context, username string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.indexBy(func(u models.User) bool { return u.Username == username })
	return ok, nil
}

// ExistsByEmail reports whether a user has exactly this email.
func (s *MemoryStore) ExistsByEmail(_ context.Context, email string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.indexBy(func(u models.User) bool { return u.Email == email })
	return ok, nil
}

// FindByUsername returns ErrNotFound when no user matches.
func (s *MemoryStore) FindByUsername(_ context.Context, username string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.indexBy(func(u models.User) bool { return u.Username == username })
	if !ok {
		return models.User{}, ErrNotFound
	}
	return s.users[i], nil
}

// FindAll returns a copy of all users in insertion order.
func (s *MemoryStore) FindAll(_ context.Context) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.User, len(s.users))
	copy(out, s.users)
	return out, nil
}

// Save assigns the next id, or fails with ErrDuplicateUsername / ErrDuplicateEmail.
func (s *MemoryStore) Save(ctx context.Context, user models.User) (models.User, error) {
	if err := ctx.Err(); err != nil {
		return models.User{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.indexBy(func(u models.User) bool { return u.Username == user.Username }); ok {
		return models.User{}, ErrDuplicateUsername
	}
	if _, ok := s.indexBy(func(u models.User) bool { return u.Email == user.Email }); ok {
		return models.User{}, ErrDuplicateEmail
	}

	saved := user.WithID(s.nextID)
	s.nextID++
	s.users = append(s.users, saved)
	return saved, nil
}

// Ping always succeeds.
func (s *MemoryStore) Ping(context.Context) error { return nil }

// Close is a no-op.
func (s *MemoryStore) Close() error { return nil }

// indexBy must be called with s.mu held.
func (s *MemoryStore) indexBy(match func(models.User) bool) (int, bool) {
	for i, u := range s.users {
		if match(u) {
			return i, true
		}
	}
	return -1, false
}
