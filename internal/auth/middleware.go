package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

const principalKey = "auth_principal"

// TokenCookieName is the cookie carrying the JWT for browser-driven requests.
const TokenCookieName = "JWT"

const bearerPrefix = "Bearer "

// Principal represents the authenticated caller, reconstructed per request
// from a validated token. Never persisted.
type Principal struct {
	Username string
	Role     string
}

// Authenticator resolves the current principal from the request token.
// It never rejects a request: a missing, malformed, tampered or expired
// token simply leaves the request anonymous, and authorization failures
// surface later at policy evaluation.
type Authenticator struct {
	tokens *TokenManager
}

// NewAuthenticator constructs the middleware.
func NewAuthenticator(tokens *TokenManager) *Authenticator {
	return &Authenticator{tokens: tokens}
}

// Handle extracts the token from the Authorization header, falling back to
// the JWT cookie, and attaches the principal on successful validation.
func (a *Authenticator) Handle(c *fiber.Ctx) error {
	tokenStr := ""
	if header := c.Get(fiber.HeaderAuthorization); strings.HasPrefix(header, bearerPrefix) {
		tokenStr = header[len(bearerPrefix):]
	} else if cookie := c.Cookies(TokenCookieName); cookie != "" {
		tokenStr = cookie
	}

	if tokenStr != "" {
		if claims, err := a.tokens.ParseToken(tokenStr); err == nil {
			c.Locals(principalKey, &Principal{Username: claims.Subject, Role: claims.Role})
		}
	}
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated principal, if any.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
