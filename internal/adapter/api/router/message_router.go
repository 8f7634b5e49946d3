package router

import (
	"github.com/labstack/echo/v4"

	"chatspace/internal/adapter/api/handler"
	"chatspace/internal/adapter/api/middleware"
)

func SetupMessageRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	messageHandler := handler.GetMessageHandler()

	messageGroup := e.Group("/v1/messages")
	messageGroup.Use(authMiddleware.Authenticate)

	messageGroup.POST("", messageHandler.SendMessage)
	messageGroup.GET("", messageHandler.SearchMessages)
	messageGroup.DELETE("/:messageId", messageHandler.DeleteMessage)
	messageGroup.PATCH("/read/:chatId", messageHandler.MarkChatRead)
}
