package middleware

import (
	"context"
	"strings"

	"github.com/labstack/echo/v4"

	"chatspace/internal/domain/repository"
	"chatspace/internal/infrastructure/token"
	"chatspace/pkg/errors"
	"chatspace/pkg/response"
)

type AuthMiddleware struct {
	tokenService *token.Service
	userRepo     repository.UserRepository
}

func NewAuthMiddleware(tokenService *token.Service, userRepo repository.UserRepository) *AuthMiddleware {
	return &AuthMiddleware{
		tokenService: tokenService,
		userRepo:     userRepo,
	}
}

func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		tokenString := extractToken(c)
		if tokenString == "" {
			return response.Error(c, errors.Unauthorized("You are not logged in. Please log in to get access", nil))
		}

		userID, err := m.ResolveUserID(c.Request().Context(), tokenString)
		if err != nil {
			return response.Error(c, err)
		}

		c.Set("uid", userID)
		return next(c)
	}
}

// ResolveUserID verifies the token and confirms the subject still exists and
// has not changed their password since the token was issued. Used by both the
// HTTP middleware and the websocket upgrade.
func (m *AuthMiddleware) ResolveUserID(ctx context.Context, tokenString string) (string, error) {
	claims, err := m.tokenService.Verify(tokenString)
	if err != nil {
		return "", err
	}

	user, err := m.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return "", errors.Unauthorized("The user belonging to this token no longer exists", nil)
	}

	if claims.IssuedAt != nil && user.ChangedPasswordAfter(claims.IssuedAt.Time) {
		return "", errors.Unauthorized("Password was changed recently. Please log in again", nil)
	}

	return user.ID, nil
}

// extractToken looks for a Bearer Authorization header first, then the jwt
// cookie set at login. A header that does not parse as Bearer does not block
// the cookie path.
func extractToken(c echo.Context) string {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}
	}

	cookie, err := c.Cookie("jwt")
	if err != nil {
		return ""
	}
	return cookie.Value
}
