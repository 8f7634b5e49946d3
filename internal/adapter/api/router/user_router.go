package router

import (
	"github.com/labstack/echo/v4"

	"chatspace/internal/adapter/api/handler"
	"chatspace/internal/adapter/api/middleware"
)

// SetupUserRouter initializes auth and account routes
func SetupUserRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	authHandler := handler.GetAuthHandler()

	// Public routes
	e.POST("/v1/users/signup", authHandler.Signup)
	e.POST("/v1/users/login", authHandler.Login)
	e.POST("/v1/users/forgot-password", authHandler.ForgotPassword)
	e.POST("/v1/users/reset-password/:token", authHandler.ResetPassword)

	// Protected routes
	protected := e.Group("/v1/users")
	protected.Use(authMiddleware.Authenticate)

	protected.GET("/validate", authHandler.Validate)
	protected.GET("/logout", authHandler.Logout)
}
