package auth

import "golang.org/x/crypto/bcrypt"

// PasswordHasher computes and verifies one-way salted password hashes.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	// Verify returns bcrypt.ErrMismatchedHashAndPassword when plain does not match.
	Verify(hash, plain string) error
}

// BcryptHasher is the PasswordHasher backed by bcrypt.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher uses bcrypt.DefaultCost when cost is zero.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Hash(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (h *BcryptHasher) Verify(hash, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
}
