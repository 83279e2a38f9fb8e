package auth

import "errors"

// Failure kinds carried in Result.Err. Match with errors.Is.
var (
	ErrDuplicateUsername = errors.New("username already exists")
	ErrDuplicateEmail    = errors.New("email already exists")
	ErrUserNotFound      = errors.New("user not found")
	ErrInvalidPassword   = errors.New("invalid password")

	// ErrUnexpectedFault wraps any lower-layer fault (store, hashing, token).
	ErrUnexpectedFault = errors.New("unexpected fault")
)

// Messages returned to callers.
const (
	msgSuccess           = "Success"
	msgDuplicateUsername = "Username already exists"
	msgDuplicateEmail    = "Email already exists"
	msgUserNotFound      = "User not found"
	msgInvalidPassword   = "Invalid password"
	msgRegisterFailed    = "Registration failed: "
	msgLoginFailed       = "Login failed: "
)
