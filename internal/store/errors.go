// Package store persists user records. Callers should use errors.Is to match
// the sentinel errors below.
package store

import "errors"

var (
	ErrNotFound = errors.New("not found")

	// Uniqueness violations detected while saving.
	ErrDuplicateUsername = errors.New("duplicate username")
	ErrDuplicateEmail    = errors.New("duplicate email")
)
