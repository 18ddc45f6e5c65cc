package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/job-board/internal/api/dto"
	"github.com/spec-kit/job-board/internal/auth"
	"github.com/spec-kit/job-board/internal/service"
	apperrors "github.com/spec-kit/job-board/pkg/util"
)

// AuthHandler exposes registration, login, logout and whoami endpoints.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	user, err := h.auth.Register(c.UserContext(), service.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(dto.RegisterResponse{
		Username: user.Username,
		Role:     user.Role,
		Message:  "User registered successfully",
	})
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	identifier := req.Username
	if identifier == "" {
		identifier = req.Email
	}

	user, token, exp, err := h.auth.Login(c.UserContext(), identifier, req.Password)
	if err != nil {
		return err
	}

	c.Cookie(h.auth.SessionCookie(token, exp))
	return c.JSON(dto.LoginResponse{
		Username: user.Username,
		Role:     user.Role,
		Token:    token,
	})
}

// Logout handles POST /api/auth/logout. The cookie is cleared client-side;
// an already-issued token stays valid until it expires.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	c.Cookie(h.auth.ClearSessionCookie())
	return c.JSON(fiber.Map{"message": "Logged out successfully"})
}

// Me handles GET /api/auth/me.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthenticated("authentication required")
	}

	user, err := h.auth.CurrentUser(c.UserContext(), principal.Username)
	if err != nil {
		return err
	}

	return c.JSON(dto.WhoamiResponse{
		Username: user.Username,
		Role:     user.Role,
		Email:    user.Email,
	})
}
