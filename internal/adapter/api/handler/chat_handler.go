package handler

import (
	"github.com/labstack/echo/v4"

	"chatspace/internal/usecase"
	"chatspace/pkg/response"
)

type ChatHandler struct {
	chatUseCase *usecase.ChatUseCase
}

func NewChatHandler(chatUseCase *usecase.ChatUseCase) *ChatHandler {
	return &ChatHandler{
		chatUseCase: chatUseCase,
	}
}

type createDirectChatRequest struct {
	Users []string `json:"users" validate:"required,min=2"`
}

type createGroupChatRequest struct {
	Users    []string `json:"users" validate:"required,min=2"`
	Admins   []string `json:"admins" validate:"required,min=1"`
	ChatName string   `json:"chatName" validate:"required"`
	GroupImg string   `json:"groupImg"`
}

type updateGroupChatRequest struct {
	ChatName *string `json:"chatName"`
	GroupImg *string `json:"groupImg"`
}

type memberListRequest struct {
	Users []string `json:"users" validate:"required,min=1"`
}

type adminListRequest struct {
	Admins []string `json:"admins" validate:"required,min=1"`
}

type singleUserRequest struct {
	UserID string `json:"userId" validate:"required"`
}

func (h *ChatHandler) CreateDirectChat(c echo.Context) error {
	var req createDirectChatRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)
	chat, err := h.chatUseCase.CreateDirectChat(c.Request().Context(), userID, req.Users)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, chat)
}

func (h *ChatHandler) CreateGroupChat(c echo.Context) error {
	var req createGroupChatRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)
	chat, err := h.chatUseCase.CreateGroupChat(c.Request().Context(), userID, usecase.CreateGroupChatInput{
		Users:    req.Users,
		Admins:   req.Admins,
		ChatName: req.ChatName,
		GroupImg: req.GroupImg,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, chat)
}

func (h *ChatHandler) GetChat(c echo.Context) error {
	userID := c.Get("uid").(string)
	chat, err := h.chatUseCase.GetChat(c.Request().Context(), userID, c.Param("chatId"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, chat)
}

func (h *ChatHandler) ListChats(c echo.Context) error {
	userID := c.Get("uid").(string)
	chats, err := h.chatUseCase.ListChats(c.Request().Context(), userID, c.QueryParam("searchTerm"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.SuccessList(c, chats, len(chats))
}

func (h *ChatHandler) UpdateGroupChat(c echo.Context) error {
	var req updateGroupChatRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)
	chat, err := h.chatUseCase.UpdateGroupChat(c.Request().Context(), userID, c.Param("chatId"), usecase.UpdateGroupChatInput{
		ChatName: req.ChatName,
		GroupImg: req.GroupImg,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, chat)
}

func (h *ChatHandler) SetGroupUsers(c echo.Context) error {
	var req memberListRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)
	chat, err := h.chatUseCase.SetGroupUsers(c.Request().Context(), userID, c.Param("chatId"), req.Users)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, chat)
}

func (h *ChatHandler) SetGroupAdmins(c echo.Context) error {
	var req adminListRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)
	chat, err := h.chatUseCase.SetGroupAdmins(c.Request().Context(), userID, c.Param("chatId"), req.Admins)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, chat)
}

func (h *ChatHandler) AddGroupUser(c echo.Context) error {
	var req singleUserRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)
	chat, err := h.chatUseCase.AddGroupUser(c.Request().Context(), userID, c.Param("chatId"), req.UserID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, chat)
}

func (h *ChatHandler) RemoveGroupUser(c echo.Context) error {
	var req singleUserRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)
	chat, err := h.chatUseCase.RemoveGroupUser(c.Request().Context(), userID, c.Param("chatId"), req.UserID)
	if err != nil {
		return response.Error(c, err)
	}

	if chat == nil {
		// Removing the last member destroyed the chat.
		return response.SuccessMessage(c, "Chat deleted")
	}
	return response.Success(c, chat)
}

func (h *ChatHandler) LeaveChat(c echo.Context) error {
	userID := c.Get("uid").(string)
	if err := h.chatUseCase.LeaveChat(c.Request().Context(), userID, c.Param("chatId")); err != nil {
		return response.Error(c, err)
	}

	return response.SuccessMessage(c, "Left the chat")
}
