package models

// LoginRequest represents credentials provided by the client.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthResponse is returned by register and login. On failure only Message is set.
type AuthResponse struct {
	Token   string          `json:"token,omitempty"`
	Message string          `json:"message"`
	User    *UserProjection `json:"user,omitempty"`
}

// ErrorResponse is a message-only error body.
type ErrorResponse struct {
	Message string `json:"message"`
}
