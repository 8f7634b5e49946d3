package handler

import (
	"net/http"

	gorillaws "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"chatspace/internal/adapter/api/middleware"
	ws "chatspace/internal/infrastructure/websocket"
	"chatspace/pkg/errors"
	"chatspace/pkg/logger"
	"chatspace/pkg/response"
)

type WebSocketHandler struct {
	wsManager      *ws.Manager
	authMiddleware *middleware.AuthMiddleware
}

var upgrader = gorillaws.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

func NewWebSocketHandler(wsManager *ws.Manager, authMiddleware *middleware.AuthMiddleware) *WebSocketHandler {
	return &WebSocketHandler{
		wsManager:      wsManager,
		authMiddleware: authMiddleware,
	}
}

// HandleWebSocket upgrades the connection for an authenticated user. Browsers
// cannot set headers on a websocket upgrade, so a token query parameter is
// accepted alongside the cookie path handled by the auth middleware.
func (h *WebSocketHandler) HandleWebSocket(c echo.Context) error {
	userID, _ := c.Get("uid").(string)
	if userID == "" {
		token := c.QueryParam("token")
		if token == "" {
			return response.Error(c, errors.Unauthorized("Authentication required", nil))
		}
		resolved, err := h.authMiddleware.ResolveUserID(c.Request().Context(), token)
		if err != nil {
			return response.Error(c, err)
		}
		userID = resolved
	}

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// Upgrade already wrote its own error response.
		logger.Warn("Websocket upgrade failed for %s: %v", userID, err)
		return nil
	}

	client := &ws.Client{
		UserID: userID,
		Conn:   conn,
		Send:   make(chan []byte, 256),
	}

	h.wsManager.Register <- client

	go client.ReadPump(h.wsManager)
	go client.WritePump()

	return nil
}
