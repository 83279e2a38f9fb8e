package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/yourorg/pixieauth/internal/auth"
	"github.com/yourorg/pixieauth/internal/models"
	"github.com/yourorg/pixieauth/internal/validation"
)

// CredentialService is the part of auth.Service the HTTP layer calls.
type CredentialService interface {
	Register(ctx context.Context, req models.RegisterRequest) auth.Result
	Login(ctx context.Context, username, password string) auth.Result
	ListAllUsers(ctx context.Context) ([]models.User, error)
	SearchUsers(ctx context.Context, query string) ([]models.User, error)
}

// AuthHandler serves the /auth endpoints.
type AuthHandler struct {
	svc            CredentialService
	redactPassword bool
	logger         *zap.Logger
}

// NewAuthHandler wires the credential service. With redactPassword set the
// listing endpoints blank the stored hash.
func NewAuthHandler(svc CredentialService, redactPassword bool, logger *zap.Logger) *AuthHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthHandler{svc: svc, redactPassword: redactPassword, logger: logger.Named("http")}
}

// ============================================================================
// REGISTER / LOGIN
// ============================================================================

// Register handles POST /auth/register
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req models.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{Message: "invalid json"})
	}
	if err := validation.ValidateRegister(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{Message: err.Error()})
	}

	res := h.svc.Register(c.UserContext(), req)
	if !res.OK() {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{Message: res.Message})
	}
	c.Set("Cache-Control", "no-store")
	return c.Status(fiber.StatusOK).JSON(authResponse(res))
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req models.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{Message: "invalid json"})
	}
	if err := validation.ValidateLogin(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{Message: err.Error()})
	}

	res := h.svc.Login(c.UserContext(), req.Username, req.Password)
	if !res.OK() {
		return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse{Message: res.Message})
	}
	c.Set("Cache-Control", "no-store")
	return c.Status(fiber.StatusOK).JSON(authResponse(res))
}

func authResponse(res auth.Result) models.AuthResponse {
	return models.AuthResponse{Token: res.Token, Message: res.Message, User: res.User}
}

// ============================================================================
// LISTING
// ============================================================================

// ListUsers handles GET /auth/users
func (h *AuthHandler) ListUsers(c *fiber.Ctx) error {
	users, err := h.svc.ListAllUsers(c.UserContext())
	if err != nil {
		return h.listingError(c, err)
	}
	return c.JSON(h.present(users))
}

// SearchUsers handles GET /auth/users/search?query=
func (h *AuthHandler) SearchUsers(c *fiber.Ctx) error {
	users, err := h.svc.SearchUsers(c.UserContext(), c.Query("query"))
	if err != nil {
		return h.listingError(c, err)
	}
	return c.JSON(h.present(users))
}

func (h *AuthHandler) listingError(c *fiber.Ctx, err error) error {
	h.logger.Error("listing failed", zap.String("path", c.Path()), zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse{Message: "failed to load users"})
}

func (h *AuthHandler) present(users []models.User) []models.User {
	if !h.redactPassword {
		return users
	}
	out := make([]models.User, len(users))
	for i, u := range users {
		u.Password = ""
		out[i] = u
	}
	return out
}
