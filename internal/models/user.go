package models

// User represents a registered account as persisted by the store.
// Password always holds a bcrypt hash, never the plaintext.
type User struct {
	ID          int64  `json:"id" db:"id"`
	FirstName   string `json:"firstName" db:"first_name"`
	LastName    string `json:"lastName" db:"last_name"`
	Email       string `json:"email" db:"email"`
	Username    string `json:"username" db:"username"`
	Password    string `json:"password" db:"password_hash"`
	AvatarID    string `json:"avatarId,omitempty" db:"avatar_id"`
	DateOfBirth string `json:"dateOfBirth" db:"date_of_birth"`
}

// NewUser builds an unsaved user. The ID is assigned by the store on Save.
func NewUser(firstName, lastName, email, username, passwordHash, dateOfBirth string) User {
	return User{
		FirstName:   firstName,
		LastName:    lastName,
		Email:       email,
		Username:    username,
		Password:    passwordHash,
		DateOfBirth: dateOfBirth,
	}
}

// WithAvatar returns a copy of u carrying avatarID. An empty id leaves u unchanged.
func (u User) WithAvatar(avatarID string) User {
	if avatarID != "" {
		u.AvatarID = avatarID
	}
	return u
}

// WithID returns a copy of u with the store-assigned identifier.
func (u User) WithID(id int64) User {
	u.ID = id
	return u
}

// Projection returns the public view of u used in register/login responses.
func (u User) Projection() UserProjection {
	return UserProjection{
		ID:          u.ID,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Email:       u.Email,
		Username:    u.Username,
		AvatarID:    u.AvatarID,
		DateOfBirth: u.DateOfBirth,
	}
}

// UserProjection is the user shape returned after register/login (no password).
type UserProjection struct {
	ID          int64  `json:"id"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	Username    string `json:"username"`
	AvatarID    string `json:"avatarId,omitempty"`
	DateOfBirth string `json:"dateOfBirth"`
}

// RegisterRequest holds the data for creating a new user.
type RegisterRequest struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	Username    string `json:"username"`
	Password    string `json:"password"`
	DateOfBirth string `json:"dateOfBirth"`
	AvatarID    string `json:"avatarId,omitempty"`
}
