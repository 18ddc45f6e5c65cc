package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/job-board/internal/config"
	"github.com/spec-kit/job-board/internal/domain"
	apperrors "github.com/spec-kit/job-board/pkg/util"
)

func newTestAuthService(users *fakeUserRepo, strict bool) *AuthService {
	return NewAuthService(config.AuthConfig{
		JWTSecret:             "test-secret",
		AccessTokenTTLMinutes: 60,
		BcryptCost:            bcrypt.MinCost,
		StrictRoles:           strict,
	}, users)
}

func TestRegisterDefaults(t *testing.T) {
	users := newFakeUserRepo()
	svc := newTestAuthService(users, false)

	user, err := svc.Register(context.Background(), RegisterInput{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "secret",
	})
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, string(domain.RoleJobSeeker), user.Role)
	assert.NotEqual(t, "secret", user.PasswordHash)
}

func TestRegisterEmailAsUsername(t *testing.T) {
	users := newFakeUserRepo()
	svc := newTestAuthService(users, false)

	user, err := svc.Register(context.Background(), RegisterInput{
		Email:    "bob@example.com",
		Password: "secret",
	})
	require.NoError(t, err)
	assert.Equal(t, "bob@example.com", user.Username)
}

func TestRegisterMissingFields(t *testing.T) {
	svc := newTestAuthService(newFakeUserRepo(), false)

	_, err := svc.Register(context.Background(), RegisterInput{Password: "secret"})
	assertCode(t, err, "MISSING_FIELD")

	_, err = svc.Register(context.Background(), RegisterInput{Username: "alice"})
	assertCode(t, err, "MISSING_FIELD")
}

func TestRegisterDuplicateUsernameBeforeEmail(t *testing.T) {
	users := newFakeUserRepo()
	svc := newTestAuthService(users, false)

	_, err := svc.Register(context.Background(), RegisterInput{Username: "alice", Email: "alice@example.com", Password: "p"})
	require.NoError(t, err)

	// same username and same email: the username conflict wins
	_, err = svc.Register(context.Background(), RegisterInput{Username: "alice", Email: "alice@example.com", Password: "p"})
	assertCode(t, err, "DUPLICATE_USERNAME")

	_, err = svc.Register(context.Background(), RegisterInput{Username: "alice2", Email: "alice@example.com", Password: "p"})
	assertCode(t, err, "DUPLICATE_EMAIL")
}

func TestRegisterArbitraryRolePersistedVerbatim(t *testing.T) {
	users := newFakeUserRepo()
	svc := newTestAuthService(users, false)

	user, err := svc.Register(context.Background(), RegisterInput{Username: "x", Password: "p", Role: "Wizard"})
	require.NoError(t, err)
	assert.Equal(t, "Wizard", user.Role)
}

func TestRegisterStrictRoles(t *testing.T) {
	svc := newTestAuthService(newFakeUserRepo(), true)

	_, err := svc.Register(context.Background(), RegisterInput{Username: "x", Password: "p", Role: "Wizard"})
	assertCode(t, err, "VALIDATION_FAILED")

	_, err = svc.Register(context.Background(), RegisterInput{Username: "y", Password: "p", Role: "Employer"})
	assert.NoError(t, err)
}

func TestLoginByUsernameAndEmail(t *testing.T) {
	users := newFakeUserRepo()
	svc := newTestAuthService(users, false)

	_, err := svc.Register(context.Background(), RegisterInput{Username: "carol", Email: "carol@example.com", Password: "secret", Role: "Employer"})
	require.NoError(t, err)

	user, token, exp, err := svc.Login(context.Background(), "carol", "secret")
	require.NoError(t, err)
	assert.Equal(t, "carol", user.Username)
	assert.NotEmpty(t, token)
	assert.True(t, exp.After(time.Now()))

	_, _, _, err = svc.Login(context.Background(), "carol@example.com", "secret")
	assert.NoError(t, err)
}

func TestLoginUnknownIdentifierIsNotFound(t *testing.T) {
	svc := newTestAuthService(newFakeUserRepo(), false)

	_, _, _, err := svc.Login(context.Background(), "ghost", "whatever")
	assertCode(t, err, "NOT_FOUND")
}

func TestLoginWrongPasswordIsBadCredential(t *testing.T) {
	users := newFakeUserRepo()
	svc := newTestAuthService(users, false)

	_, err := svc.Register(context.Background(), RegisterInput{Username: "dave", Password: "right"})
	require.NoError(t, err)

	_, _, _, err = svc.Login(context.Background(), "dave", "wrong")
	assertCode(t, err, "BAD_CREDENTIAL")

	// repeated failures leave the account usable
	_, _, _, err = svc.Login(context.Background(), "dave", "wrong")
	assertCode(t, err, "BAD_CREDENTIAL")
	_, _, _, err = svc.Login(context.Background(), "dave", "right")
	assert.NoError(t, err)
}

func TestLoginMissingFields(t *testing.T) {
	svc := newTestAuthService(newFakeUserRepo(), false)

	_, _, _, err := svc.Login(context.Background(), "", "p")
	assertCode(t, err, "MISSING_FIELD")
	_, _, _, err = svc.Login(context.Background(), "user", "")
	assertCode(t, err, "MISSING_FIELD")
}

func TestIssuedTokenRoundTrips(t *testing.T) {
	users := newFakeUserRepo()
	svc := newTestAuthService(users, false)

	_, err := svc.Register(context.Background(), RegisterInput{Username: "erin", Password: "p", Role: "Admin"})
	require.NoError(t, err)

	_, token, _, err := svc.Login(context.Background(), "erin", "p")
	require.NoError(t, err)

	claims, err := svc.TokenManager().ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "erin", claims.Subject)
	assert.Equal(t, "Admin", claims.Role)
}

func TestSessionCookie(t *testing.T) {
	svc := newTestAuthService(newFakeUserRepo(), false)

	exp := time.Now().Add(time.Hour)
	cookie := svc.SessionCookie("tok", exp)
	assert.Equal(t, "JWT", cookie.Name)
	assert.Equal(t, "tok", cookie.Value)
	assert.Equal(t, "/", cookie.Path)
	assert.True(t, cookie.HTTPOnly)
	assert.InDelta(t, 3600, cookie.MaxAge, 5)

	cleared := svc.ClearSessionCookie()
	assert.Empty(t, cleared.Value)
	assert.Equal(t, "/", cleared.Path)
	// a past Expires is what actually deletes the cookie
	assert.False(t, cleared.Expires.IsZero())
	assert.True(t, cleared.Expires.Before(time.Now()))
}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	domainErr := apperrors.ToDomainError(err)
	assert.Equal(t, code, domainErr.Code)
}
