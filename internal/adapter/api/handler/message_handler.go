package handler

import (
	"github.com/labstack/echo/v4"

	"chatspace/internal/domain/entity"
	"chatspace/internal/domain/service"
	"chatspace/internal/usecase"
	"chatspace/pkg/response"
)

type MessageHandler struct {
	messageUseCase *usecase.MessageUseCase
}

func NewMessageHandler(messageUseCase *usecase.MessageUseCase) *MessageHandler {
	return &MessageHandler{
		messageUseCase: messageUseCase,
	}
}

type sendMessageRequest struct {
	ChatID  string `json:"chatId" validate:"required"`
	Message string `json:"message" validate:"required"`
}

type chatLogResponse struct {
	Messages []*entity.Message      `json:"messages"`
	Groups   []service.MessageGroup `json:"groups"`
}

func (h *MessageHandler) SendMessage(c echo.Context) error {
	var req sendMessageRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)
	message, err := h.messageUseCase.Send(c.Request().Context(), userID, usecase.SendMessageInput{
		ChatID: req.ChatID,
		Body:   req.Message,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, message)
}

func (h *MessageHandler) SearchMessages(c echo.Context) error {
	messages, err := h.messageUseCase.Search(c.Request().Context(), c.QueryParam("searchTerm"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.SuccessList(c, messages, len(messages))
}

func (h *MessageHandler) DeleteMessage(c echo.Context) error {
	userID := c.Get("uid").(string)
	if err := h.messageUseCase.Delete(c.Request().Context(), userID, c.Param("messageId")); err != nil {
		return response.Error(c, err)
	}

	return response.SuccessMessage(c, "Message deleted")
}

// ListChatMessages returns a chat's messages newest first plus the grouping
// used to render consecutive same-sender runs as one bubble block.
func (h *MessageHandler) ListChatMessages(c echo.Context) error {
	userID := c.Get("uid").(string)
	messages, groups, err := h.messageUseCase.ListForChat(c.Request().Context(), userID, c.Param("chatId"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, chatLogResponse{Messages: messages, Groups: groups})
}

func (h *MessageHandler) MarkChatRead(c echo.Context) error {
	userID := c.Get("uid").(string)
	if err := h.messageUseCase.MarkChatRead(c.Request().Context(), userID, c.Param("chatId")); err != nil {
		return response.Error(c, err)
	}

	return response.SuccessMessage(c, "Messages marked as read")
}
