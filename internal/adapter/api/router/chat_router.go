package router

import (
	"github.com/labstack/echo/v4"

	"chatspace/internal/adapter/api/handler"
	"chatspace/internal/adapter/api/middleware"
)

// SetupChatRouter sets up all chat routes (excluding WebSocket)
func SetupChatRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	chatHandler := handler.GetChatHandler()
	messageHandler := handler.GetMessageHandler()

	chatGroup := e.Group("/v1/chats")
	chatGroup.Use(authMiddleware.Authenticate)

	chatGroup.POST("", chatHandler.CreateDirectChat)
	chatGroup.GET("", chatHandler.ListChats)
	chatGroup.GET("/:chatId", chatHandler.GetChat)
	chatGroup.GET("/:chatId/messages", messageHandler.ListChatMessages)
	chatGroup.DELETE("/:chatId", chatHandler.LeaveChat)

	// Group chat management, admin-gated in the usecase layer
	chatGroup.POST("/group", chatHandler.CreateGroupChat)
	chatGroup.PATCH("/group/:chatId", chatHandler.UpdateGroupChat)
	chatGroup.PATCH("/group-users/:chatId", chatHandler.SetGroupUsers)
	chatGroup.PATCH("/group-admins/:chatId", chatHandler.SetGroupAdmins)
	chatGroup.POST("/add-group-user/:chatId", chatHandler.AddGroupUser)
	chatGroup.DELETE("/remove-group-user/:chatId", chatHandler.RemoveGroupUser)
}
