package auth

import "github.com/google/uuid"

// TokenIssuer mints opaque tokens. Tokens carry no claims and are never
// validated by this service.
type TokenIssuer interface {
	Issue() (string, error)
}

// UUIDIssuer issues random (version 4) UUID strings.
type UUIDIssuer struct{}

func (UUIDIssuer) Issue() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
