package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"chatspace/internal/domain/entity"
	"chatspace/internal/infrastructure/token"
	"chatspace/pkg/errors"
)

type stubUserRepo struct {
	user *entity.User
}

func (r *stubUserRepo) Create(ctx context.Context, user *entity.User) error { return nil }
func (r *stubUserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	if r.user != nil && r.user.ID == id {
		return r.user, nil
	}
	return nil, errors.NotFound("User", nil)
}
func (r *stubUserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return nil, errors.NotFound("User", nil)
}
func (r *stubUserRepo) GetByResetToken(ctx context.Context, hashedToken string) (*entity.User, error) {
	return nil, errors.NotFound("User", nil)
}
func (r *stubUserRepo) Update(ctx context.Context, user *entity.User) error { return nil }

func okHandler(c echo.Context) error {
	return c.String(http.StatusOK, c.Get("uid").(string))
}

func runAuthenticated(t *testing.T, m *AuthMiddleware, decorate func(*http.Request)) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/users/validate", nil)
	decorate(req)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := m.Authenticate(okHandler)(c)
	assert.NoError(t, err)
	return rec
}

func TestAuthenticateBearerHeader(t *testing.T) {
	tokenService := token.NewService("test-secret", time.Hour)
	user := &entity.User{ID: "user-1", Active: true}
	m := NewAuthMiddleware(tokenService, &stubUserRepo{user: user})

	signed, err := tokenService.Generate("user-1")
	assert.NoError(t, err)

	rec := runAuthenticated(t, m, func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+signed)
	})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user-1", rec.Body.String())
}

func TestAuthenticateJWTCookie(t *testing.T) {
	tokenService := token.NewService("test-secret", time.Hour)
	user := &entity.User{ID: "user-1", Active: true}
	m := NewAuthMiddleware(tokenService, &stubUserRepo{user: user})

	signed, err := tokenService.Generate("user-1")
	assert.NoError(t, err)

	rec := runAuthenticated(t, m, func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: "jwt", Value: signed})
	})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthenticateMalformedHeaderFallsBackToCookie(t *testing.T) {
	tokenService := token.NewService("test-secret", time.Hour)
	user := &entity.User{ID: "user-1", Active: true}
	m := NewAuthMiddleware(tokenService, &stubUserRepo{user: user})

	signed, err := tokenService.Generate("user-1")
	assert.NoError(t, err)

	// A stray non-Bearer header must not block the cookie path.
	rec := runAuthenticated(t, m, func(req *http.Request) {
		req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
		req.AddCookie(&http.Cookie{Name: "jwt", Value: signed})
	})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user-1", rec.Body.String())
}

func TestAuthenticateMissingToken(t *testing.T) {
	tokenService := token.NewService("test-secret", time.Hour)
	m := NewAuthMiddleware(tokenService, &stubUserRepo{})

	rec := runAuthenticated(t, m, func(req *http.Request) {})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticateUnknownUser(t *testing.T) {
	tokenService := token.NewService("test-secret", time.Hour)
	m := NewAuthMiddleware(tokenService, &stubUserRepo{})

	signed, err := tokenService.Generate("ghost")
	assert.NoError(t, err)

	rec := runAuthenticated(t, m, func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+signed)
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticateStaleTokenAfterPasswordChange(t *testing.T) {
	tokenService := token.NewService("test-secret", time.Hour)
	user := &entity.User{ID: "user-1", Active: true}
	m := NewAuthMiddleware(tokenService, &stubUserRepo{user: user})

	signed, err := tokenService.Generate("user-1")
	assert.NoError(t, err)

	// A password change after issuance invalidates the token.
	user.PasswordChangedAt = time.Now().Add(time.Minute)

	rec := runAuthenticated(t, m, func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+signed)
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticateGarbageToken(t *testing.T) {
	tokenService := token.NewService("test-secret", time.Hour)
	m := NewAuthMiddleware(tokenService, &stubUserRepo{})

	rec := runAuthenticated(t, m, func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer not.a.token")
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
