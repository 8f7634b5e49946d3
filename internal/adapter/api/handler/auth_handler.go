package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"chatspace/internal/domain/entity"
	"chatspace/internal/usecase"
	"chatspace/pkg/response"
)

// CookieSettings controls the jwt cookie issued on login/signup/reset.
type CookieSettings struct {
	Expiry time.Duration
	Secure bool
}

type AuthHandler struct {
	authUseCase *usecase.AuthUseCase
	cookie      CookieSettings
}

func NewAuthHandler(authUseCase *usecase.AuthUseCase, cookie CookieSettings) *AuthHandler {
	return &AuthHandler{
		authUseCase: authUseCase,
		cookie:      cookie,
	}
}

type signupRequest struct {
	Name            string `json:"name" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=6,max=16"`
	PasswordConfirm string `json:"passwordConfirm" validate:"required"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type authResponse struct {
	Token string               `json:"token"`
	User  entity.PublicProfile `json:"user"`
}

func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	result, err := h.authUseCase.Signup(c.Request().Context(), usecase.SignupInput{
		Name:            req.Name,
		Email:           req.Email,
		Password:        req.Password,
		PasswordConfirm: req.PasswordConfirm,
	})
	if err != nil {
		return response.Error(c, err)
	}

	h.setAuthCookie(c, result.Token)
	return response.Created(c, authResponse{
		Token: result.Token,
		User:  result.User.Profile(),
	})
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	result, err := h.authUseCase.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return response.Error(c, err)
	}

	h.setAuthCookie(c, result.Token)
	return response.Success(c, authResponse{
		Token: result.Token,
		User:  result.User.Profile(),
	})
}

func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req struct {
		Email string `json:"email" validate:"required,email"`
	}
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	if err := h.authUseCase.ForgotPassword(c.Request().Context(), req.Email); err != nil {
		return response.Error(c, err)
	}

	return response.SuccessMessage(c, "Token sent to email")
}

func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req struct {
		Password        string `json:"password" validate:"required,min=6,max=16"`
		PasswordConfirm string `json:"passwordConfirm" validate:"required"`
	}
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	result, err := h.authUseCase.ResetPassword(
		c.Request().Context(),
		c.Param("token"),
		req.Password,
		req.PasswordConfirm,
	)
	if err != nil {
		return response.Error(c, err)
	}

	h.setAuthCookie(c, result.Token)
	return response.Success(c, authResponse{
		Token: result.Token,
		User:  result.User.Profile(),
	})
}

// Validate returns the authenticated user's profile; clients call it on load
// to check whether the stored token is still good.
func (h *AuthHandler) Validate(c echo.Context) error {
	userID := c.Get("uid").(string)

	user, err := h.authUseCase.GetUserByID(c.Request().Context(), userID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, user.Profile())
}

func (h *AuthHandler) Logout(c echo.Context) error {
	// Overwrite the cookie with a dead value; the token itself is stateless.
	c.SetCookie(&http.Cookie{
		Name:     "jwt",
		Value:    "loggedout",
		Path:     "/",
		Expires:  time.Now().Add(10 * time.Second),
		HttpOnly: true,
		Secure:   h.cookie.Secure,
	})
	return response.SuccessMessage(c, "Successfully logged out")
}

func (h *AuthHandler) setAuthCookie(c echo.Context, token string) {
	c.SetCookie(&http.Cookie{
		Name:     "jwt",
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(h.cookie.Expiry),
		HttpOnly: true,
		Secure:   h.cookie.Secure,
	})
}
