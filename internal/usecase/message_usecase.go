package usecase

import (
	"context"
	"encoding/json"
	"log"
	"strings"

	"chatspace/internal/domain/entity"
	"chatspace/internal/domain/repository"
	"chatspace/internal/domain/service"
	"chatspace/internal/infrastructure/ratelimit"
	ws "chatspace/internal/infrastructure/websocket"
	"chatspace/pkg/errors"
)

type MessageUseCase struct {
	messageRepo repository.MessageRepository
	chatRepo    repository.ChatRepository
	userRepo    repository.UserRepository
	wsManager   *ws.Manager
	rateLimiter *ratelimit.RateLimiter
}

func NewMessageUseCase(
	messageRepo repository.MessageRepository,
	chatRepo repository.ChatRepository,
	userRepo repository.UserRepository,
	wsManager *ws.Manager,
	rateLimiter *ratelimit.RateLimiter,
) *MessageUseCase {
	return &MessageUseCase{
		messageRepo: messageRepo,
		chatRepo:    chatRepo,
		userRepo:    userRepo,
		wsManager:   wsManager,
		rateLimiter: rateLimiter,
	}
}

type SendMessageInput struct {
	ChatID string
	Body   string
}

func (uc *MessageUseCase) Send(ctx context.Context, senderID string, input SendMessageInput) (*entity.Message, error) {
	if strings.TrimSpace(input.Body) == "" || input.ChatID == "" {
		return nil, errors.BadRequest("missing information", nil)
	}

	if allowed, wait := uc.rateLimiter.Allow(senderID, "send_message"); !allowed {
		log.Printf("Send Rate Limited: User %s must wait %v", senderID, wait)
		return nil, errors.TooManyRequests("Rate limit exceeded. Please wait before sending another message")
	}

	chat, err := uc.chatRepo.GetByID(ctx, input.ChatID)
	if err != nil {
		return nil, err
	}
	if !chat.HasUser(senderID) {
		return nil, errors.Forbidden("You are not a member of this chat", nil)
	}

	message := &entity.Message{
		ChatID:   input.ChatID,
		SenderID: senderID,
		Body:     input.Body,
		ReadBy:   []string{senderID},
	}
	if err := uc.messageRepo.Create(ctx, message); err != nil {
		return nil, err
	}

	uc.notifyChat(chat, senderID, map[string]interface{}{
		"type":    "new_message",
		"chat_id": chat.ID,
		"message": message,
	})

	return message, nil
}

// Delete soft-deletes a message: in a group chat only an admin may delete,
// in a direct chat only the original sender. Deleting an already deleted
// message succeeds and leaves the tombstone in place.
func (uc *MessageUseCase) Delete(ctx context.Context, requesterID, messageID string) error {
	if messageID == "" {
		return errors.BadRequest("missing information", nil)
	}

	message, err := uc.messageRepo.GetByID(ctx, messageID)
	if err != nil {
		return err
	}

	chat, err := uc.chatRepo.GetByID(ctx, message.ChatID)
	if err != nil {
		return err
	}

	if chat.IsGroupChat {
		if !chat.HasAdmin(requesterID) {
			return errors.Forbidden("You are not authorized to delete this message", nil)
		}
	} else {
		if message.SenderID != requesterID {
			return errors.Forbidden("You are not authorized to delete this message", nil)
		}
	}

	if message.Deleted {
		return nil
	}

	message.MarkDeleted()
	if err := uc.messageRepo.Update(ctx, message); err != nil {
		return err
	}

	uc.notifyChat(chat, requesterID, map[string]interface{}{
		"type":       "message_deleted",
		"chat_id":    chat.ID,
		"message_id": message.ID,
	})

	return nil
}

func (uc *MessageUseCase) Search(ctx context.Context, term string) ([]*entity.Message, error) {
	if strings.TrimSpace(term) == "" {
		return nil, errors.BadRequest("missing information", nil)
	}
	return uc.messageRepo.Search(ctx, term)
}

// ListForChat returns the chat's messages newest first alongside the
// display grouping computed for the viewer. Viewing is member-only since
// the grouping is relative to the viewer's identity.
func (uc *MessageUseCase) ListForChat(ctx context.Context, viewerID, chatID string) ([]*entity.Message, []service.MessageGroup, error) {
	chat, err := uc.chatRepo.GetByID(ctx, chatID)
	if err != nil {
		return nil, nil, err
	}
	if !chat.HasUser(viewerID) {
		return nil, nil, errors.Forbidden("You are not a member of this chat", nil)
	}

	messages, err := uc.messageRepo.ListByChat(ctx, chatID)
	if err != nil {
		return nil, nil, err
	}

	return messages, service.GroupMessages(messages, viewerID), nil
}

func (uc *MessageUseCase) MarkChatRead(ctx context.Context, requesterID, chatID string) error {
	chat, err := uc.chatRepo.GetByID(ctx, chatID)
	if err != nil {
		return err
	}
	if !chat.HasUser(requesterID) {
		return errors.Forbidden("You are not a member of this chat", nil)
	}
	return uc.messageRepo.MarkChatRead(ctx, chatID, requesterID)
}

func (uc *MessageUseCase) notifyChat(chat *entity.Chat, actorID string, event map[string]interface{}) {
	payload, err := json.Marshal(event)
	if err != nil {
		log.Printf("notifyChat: Failed to marshal event for chat %s: %v", chat.ID, err)
		return
	}
	uc.wsManager.SendToUsers(chat.Users, payload, actorID)
}
