// Package validation checks request fields at the HTTP boundary before the
// credential service is called.
package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/yourorg/pixieauth/internal/models"
)

// MinPasswordLength is the shortest password accepted at registration, in characters.
const MinPasswordLength = 6

// MaxPasswordBytes is the bcrypt input limit.
const MaxPasswordBytes = 72

// FieldError describes the first invalid field of a request.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

func required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return &FieldError{Field: field, Message: "is required"}
	}
	return nil
}

// ValidateEmail accepts anything shaped like local@domain with a single '@'.
func ValidateEmail(email string) error {
	local, domain, ok := strings.Cut(email, "@")
	if !ok || local == "" || domain == "" || strings.Contains(domain, "@") || strings.ContainsAny(email, " \t\r\n") {
		return &FieldError{Field: "email", Message: "must look like local@domain"}
	}
	return nil
}

// ValidateRegister checks fields in request order and returns the first failure.
func ValidateRegister(req models.RegisterRequest) error {
	fields := []struct{ name, value string }{
		{"firstName", req.FirstName},
		{"lastName", req.LastName},
		{"email", req.Email},
		{"username", req.Username},
		{"password", req.Password},
		{"dateOfBirth", req.DateOfBirth},
	}
	for _, f := range fields {
		if err := required(f.name, f.value); err != nil {
			return err
		}
	}
	if err := ValidateEmail(req.Email); err != nil {
		return err
	}
	if utf8.RuneCountInString(req.Password) < MinPasswordLength {
		return &FieldError{
			Field:   "password",
			Message: fmt.Sprintf("must be at least %d characters", MinPasswordLength),
		}
	}
	return maxPassword(req.Password)
}

func maxPassword(password string) error {
	if len(password) > MaxPasswordBytes {
		return &FieldError{
			Field:   "password",
			Message: fmt.Sprintf("must be at most %d bytes", MaxPasswordBytes),
		}
	}
	return nil
}

// ValidateLogin requires a username and a password.
func ValidateLogin(req models.LoginRequest) error {
	if err := required("username", req.Username); err != nil {
		return err
	}
	if err := required("password", req.Password); err != nil {
		return err
	}
	return maxPassword(req.Password)
}
