package router

import (
	"github.com/labstack/echo/v4"

	"chatspace/internal/adapter/api/middleware"
)

func Setup(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	SetupUserRouter(e, authMiddleware)
	SetupChatRouter(e, authMiddleware)
	SetupMessageRouter(e, authMiddleware)
	SetupHealthRouter(e)
}
