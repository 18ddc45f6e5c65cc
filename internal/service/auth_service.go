package service

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/spec-kit/job-board/internal/auth"
	"github.com/spec-kit/job-board/internal/config"
	"github.com/spec-kit/job-board/internal/domain"
	"github.com/spec-kit/job-board/internal/repository"
	apperrors "github.com/spec-kit/job-board/pkg/util"
)

const uniqueViolation = "23505"

// AuthService coordinates registration and login flows.
type AuthService struct {
	users       repository.UserRepository
	tokenMgr    *auth.TokenManager
	bcryptCost  int
	strictRoles bool
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, users repository.UserRepository) *AuthService {
	return &AuthService{
		users:       users,
		tokenMgr:    auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTL()),
		bcryptCost:  cfg.BcryptCost,
		strictRoles: cfg.StrictRoles,
	}
}

// RegisterInput carries registration fields; Username and Email are both
// optional as long as one of them resolves a username.
type RegisterInput struct {
	Username string
	Email    string
	Password string
	Role     string
}

// Register creates a new account. Username falls back to the email when
// absent; the role defaults to JobSeeker and is stored verbatim unless
// strict-roles mode is on. Duplicate checks run username first, then email.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	username := input.Username
	if username == "" && input.Email != "" {
		username = input.Email
	}
	if username == "" || input.Password == "" {
		return nil, apperrors.NewMissingField("username/email and password are required")
	}

	role := input.Role
	if role == "" {
		role = string(domain.RoleJobSeeker)
	}
	if s.strictRoles && !domain.KnownRole(role) {
		return nil, apperrors.NewValidationError("unknown role", map[string]any{"role": role})
	}

	if _, err := s.users.GetByUsername(ctx, username); err == nil {
		return nil, apperrors.NewDuplicateUsername(username)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}
	if input.Email != "" {
		if _, err := s.users.GetByEmail(ctx, input.Email); err == nil {
			return nil, apperrors.NewDuplicateEmail(input.Email)
		} else if !errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:     username,
		Email:        input.Email,
		PasswordHash: hash,
		Role:         role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		// Concurrent registrations race past the lookup; the unique
		// constraint decides the loser.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, apperrors.NewDuplicateUsername(username)
		}
		return nil, err
	}
	return user, nil
}

// Login authenticates by username-or-email and issues a token.
func (s *AuthService) Login(ctx context.Context, identifier, password string) (*domain.User, string, time.Time, error) {
	if identifier == "" || password == "" {
		return nil, "", time.Time{}, apperrors.NewMissingField("username/email and password are required")
	}

	user, err := s.users.GetByUsername(ctx, identifier)
	if errors.Is(err, pgx.ErrNoRows) {
		user, err = s.users.GetByEmail(ctx, identifier)
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, "", time.Time{}, apperrors.NewNotFound("user", map[string]any{"identifier": identifier})
	}
	if err != nil {
		return nil, "", time.Time{}, err
	}

	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, apperrors.NewBadCredential("invalid password")
	}

	token, exp, err := s.tokenMgr.GenerateToken(user.Username, user.Role)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return user, token, exp, nil
}

// SessionCookie builds the ready-to-send cookie carrying the token; its
// max-age tracks the token expiry.
func (s *AuthService) SessionCookie(token string, expiresAt time.Time) *fiber.Cookie {
	return &fiber.Cookie{
		Name:     auth.TokenCookieName,
		Value:    token,
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		MaxAge:   int(time.Until(expiresAt).Seconds()),
		Expires:  expiresAt,
	}
}

// ClearSessionCookie builds the logout cookie. The token itself stays
// valid until natural expiry; there is no revocation list. Deletion rides
// on a past Expires: fasthttp only serializes positive Max-Age values, so
// a negative Max-Age alone would leave the cookie in place.
func (s *AuthService) ClearSessionCookie() *fiber.Cookie {
	return &fiber.Cookie{
		Name:     auth.TokenCookieName,
		Value:    "",
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Expires:  time.Now().Add(-time.Hour),
	}
}

// CurrentUser loads the account backing an authenticated principal.
func (s *AuthService) CurrentUser(ctx context.Context, username string) (*domain.User, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NewNotFound("user", nil)
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
