package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

/*
Authenticator test cases:
1) No Authorization header → request proceeds anonymous
2) Non-Bearer header → anonymous
3) Garbage bearer token → anonymous, no error surfaced
4) Expired token → anonymous
5) Valid bearer token → principal attached
6) Valid JWT cookie without header → principal attached
7) Header takes precedence over cookie
*/

func newEchoApp(tm *TokenManager) *fiber.App {
	app := fiber.New()
	app.Use(NewAuthenticator(tm).Handle)
	app.Get("/echo", func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return c.JSON(fiber.Map{"anonymous": true})
		}
		return c.JSON(fiber.Map{"username": principal.Username, "role": principal.Role})
	})
	return app
}

func doEcho(t *testing.T, app *fiber.App, decorate func(*http.Request)) map[string]any {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/echo", nil)
	if decorate != nil {
		decorate(req)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	return decodeBody(t, resp)
}

func TestAuthenticatorMissingHeader(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Hour)
	body := doEcho(t, newEchoApp(tm), nil)
	assert.Equal(t, true, body["anonymous"])
}

func TestAuthenticatorNonBearerHeader(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Hour)
	body := doEcho(t, newEchoApp(tm), func(r *http.Request) {
		r.Header.Set("Authorization", "Token abc")
	})
	assert.Equal(t, true, body["anonymous"])
}

func TestAuthenticatorGarbageToken(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Hour)
	body := doEcho(t, newEchoApp(tm), func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer not.a.token")
	})
	assert.Equal(t, true, body["anonymous"])
}

func TestAuthenticatorExpiredToken(t *testing.T) {
	issuer := NewTokenManager("test-secret", time.Nanosecond)
	token, _, err := issuer.GenerateToken("alice", "JobSeeker")
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond)

	verifier := NewTokenManager("test-secret", time.Hour)
	body := doEcho(t, newEchoApp(verifier), func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+token)
	})
	assert.Equal(t, true, body["anonymous"])
}

func TestAuthenticatorValidBearerToken(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Hour)
	token, _, err := tm.GenerateToken("alice", "Employer")
	require.NoError(t, err)

	body := doEcho(t, newEchoApp(tm), func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+token)
	})
	assert.Equal(t, "alice", body["username"])
	assert.Equal(t, "Employer", body["role"])
}

func TestAuthenticatorCookieFallback(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Hour)
	token, _, err := tm.GenerateToken("bob", "JobSeeker")
	require.NoError(t, err)

	body := doEcho(t, newEchoApp(tm), func(r *http.Request) {
		r.AddCookie(&http.Cookie{Name: TokenCookieName, Value: token})
	})
	assert.Equal(t, "bob", body["username"])
}

func TestAuthenticatorHeaderBeatsCookie(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Hour)
	headerToken, _, err := tm.GenerateToken("header-user", "Employer")
	require.NoError(t, err)
	cookieToken, _, err := tm.GenerateToken("cookie-user", "JobSeeker")
	require.NoError(t, err)

	body := doEcho(t, newEchoApp(tm), func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+headerToken)
		r.AddCookie(&http.Cookie{Name: TokenCookieName, Value: cookieToken})
	})
	assert.Equal(t, "header-user", body["username"])
}
