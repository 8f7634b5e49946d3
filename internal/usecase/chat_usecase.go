package usecase

import (
	"context"
	"log"
	"strings"

	"chatspace/internal/domain/entity"
	"chatspace/internal/domain/repository"
	"chatspace/internal/domain/service"
	"chatspace/internal/infrastructure/ratelimit"
	"chatspace/pkg/errors"
)

type ChatUseCase struct {
	chatRepo    repository.ChatRepository
	userRepo    repository.UserRepository
	messageRepo repository.MessageRepository
	rateLimiter *ratelimit.RateLimiter
}

func NewChatUseCase(
	chatRepo repository.ChatRepository,
	userRepo repository.UserRepository,
	messageRepo repository.MessageRepository,
	rateLimiter *ratelimit.RateLimiter,
) *ChatUseCase {
	return &ChatUseCase{
		chatRepo:    chatRepo,
		userRepo:    userRepo,
		messageRepo: messageRepo,
		rateLimiter: rateLimiter,
	}
}

type CreateGroupChatInput struct {
	Users    []string
	Admins   []string
	ChatName string
	GroupImg string
}

type UpdateGroupChatInput struct {
	ChatName *string
	GroupImg *string
}

// ChatResponse decorates a chat with read-time projections: resolved member
// profiles, the derived latest message, and for direct chats the other
// member's name and photo standing in for chatName/groupImg. None of it is
// persisted.
type ChatResponse struct {
	*entity.Chat
	Members       []entity.PublicProfile `json:"members"`
	LatestMessage *entity.Message        `json:"latest_message,omitempty"`
}

func (uc *ChatUseCase) CreateDirectChat(ctx context.Context, creatorID string, users []string) (*ChatResponse, error) {
	if allowed, wait := uc.rateLimiter.Allow(creatorID, "create_chat"); !allowed {
		log.Printf("CreateDirectChat Rate Limited: User %s must wait %v", creatorID, wait)
		return nil, errors.TooManyRequests("Rate limit exceeded. Please wait before creating another chat")
	}

	if len(users) < 2 {
		return nil, errors.BadRequest("Please provide at least 2 users", nil)
	}
	if len(users) != 2 || users[0] == users[1] {
		return nil, errors.BadRequest("A direct chat has exactly 2 distinct users", nil)
	}

	if err := uc.requireUsersExist(ctx, users); err != nil {
		return nil, err
	}

	// At most one direct chat per unordered user pair.
	existing, err := uc.chatRepo.ListByUserID(ctx, users[0])
	if err != nil {
		return nil, err
	}
	for _, chat := range existing {
		if !chat.IsGroupChat && service.SameMembers(chat.Users, users) {
			return nil, errors.Conflict("Chat already exists")
		}
	}

	chat := &entity.Chat{
		Users:       users,
		IsGroupChat: false,
	}
	if err := uc.chatRepo.Create(ctx, chat); err != nil {
		return nil, err
	}

	return uc.buildChatResponse(ctx, chat, creatorID), nil
}

func (uc *ChatUseCase) CreateGroupChat(ctx context.Context, creatorID string, input CreateGroupChatInput) (*ChatResponse, error) {
	if len(input.Users) < 2 {
		return nil, errors.BadRequest("Please provide at least 2 users", nil)
	}
	if strings.TrimSpace(input.ChatName) == "" {
		return nil, errors.BadRequest("Please provide a chat name", nil)
	}
	if len(input.Admins) == 0 {
		return nil, errors.BadRequest("Please provide at least one admin", nil)
	}
	for _, admin := range input.Admins {
		found := false
		for _, user := range input.Users {
			if user == admin {
				found = true
				break
			}
		}
		if !found {
			return nil, errors.BadRequest("Admins must be members of the chat", nil)
		}
	}

	if err := uc.requireUsersExist(ctx, input.Users); err != nil {
		return nil, err
	}

	chat := &entity.Chat{
		Users:        input.Users,
		Admins:       input.Admins,
		IsGroupChat:  true,
		ChatName:     strings.TrimSpace(input.ChatName),
		GroupImg:     input.GroupImg,
		GroupCreator: creatorID,
	}
	if err := uc.chatRepo.Create(ctx, chat); err != nil {
		return nil, err
	}

	return uc.buildChatResponse(ctx, chat, creatorID), nil
}

func (uc *ChatUseCase) GetChat(ctx context.Context, requesterID, chatID string) (*ChatResponse, error) {
	chat, err := uc.chatRepo.GetByID(ctx, chatID)
	if err != nil {
		return nil, err
	}
	return uc.buildChatResponse(ctx, chat, requesterID), nil
}

// ListChats returns the chats the user belongs to, newest activity first,
// optionally filtered by a case-insensitive substring on the displayed name.
// The filter runs after the direct-chat display projection so a direct chat
// matches on the other member's name.
func (uc *ChatUseCase) ListChats(ctx context.Context, userID, searchTerm string) ([]*ChatResponse, error) {
	chats, err := uc.chatRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	responses := make([]*ChatResponse, 0, len(chats))
	needle := strings.ToLower(strings.TrimSpace(searchTerm))
	for _, chat := range chats {
		resp := uc.buildChatResponse(ctx, chat, userID)
		if needle != "" && !strings.Contains(strings.ToLower(resp.ChatName), needle) {
			continue
		}
		responses = append(responses, resp)
	}

	return responses, nil
}

func (uc *ChatUseCase) UpdateGroupChat(ctx context.Context, requesterID, chatID string, input UpdateGroupChatInput) (*ChatResponse, error) {
	chat, err := uc.requireGroupChat(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if !chat.HasAdmin(requesterID) {
		return nil, errors.Forbidden("You have no permission to update the group chat", nil)
	}

	if input.ChatName != nil {
		if strings.TrimSpace(*input.ChatName) == "" {
			return nil, errors.BadRequest("Please provide a chat name", nil)
		}
		chat.ChatName = strings.TrimSpace(*input.ChatName)
	}
	if input.GroupImg != nil {
		chat.GroupImg = *input.GroupImg
	}

	if err := uc.chatRepo.Update(ctx, chat); err != nil {
		return nil, err
	}

	return uc.buildChatResponse(ctx, chat, requesterID), nil
}

func (uc *ChatUseCase) SetGroupUsers(ctx context.Context, requesterID, chatID string, users []string) (*ChatResponse, error) {
	chat, err := uc.requireGroupChat(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, errors.BadRequest("Please provide users", nil)
	}
	if err := uc.requireUsersExist(ctx, users); err != nil {
		return nil, err
	}

	next, err := service.SetUsers(service.NewMembership(chat.Users, chat.Admins), users, requesterID)
	if err != nil {
		return nil, err
	}

	chat.Users = next.Users
	chat.Admins = next.Admins
	if err := uc.chatRepo.Update(ctx, chat); err != nil {
		return nil, err
	}

	return uc.buildChatResponse(ctx, chat, requesterID), nil
}

func (uc *ChatUseCase) SetGroupAdmins(ctx context.Context, requesterID, chatID string, admins []string) (*ChatResponse, error) {
	chat, err := uc.requireGroupChat(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if len(admins) == 0 {
		return nil, errors.BadRequest("Please provide admins", nil)
	}

	next, err := service.SetAdmins(service.NewMembership(chat.Users, chat.Admins), admins, requesterID)
	if err != nil {
		return nil, err
	}

	chat.Users = next.Users
	chat.Admins = next.Admins
	if err := uc.chatRepo.Update(ctx, chat); err != nil {
		return nil, err
	}

	return uc.buildChatResponse(ctx, chat, requesterID), nil
}

func (uc *ChatUseCase) AddGroupUser(ctx context.Context, requesterID, chatID, userID string) (*ChatResponse, error) {
	chat, err := uc.requireGroupChat(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if !chat.HasAdmin(requesterID) {
		return nil, errors.Forbidden("You have no permission to update the group chat", nil)
	}
	if _, err := uc.userRepo.GetByID(ctx, userID); err != nil {
		return nil, errors.NotFound("User", err)
	}

	next, err := service.AddUser(service.NewMembership(chat.Users, chat.Admins), userID)
	if err != nil {
		return nil, err
	}

	chat.Users = next.Users
	chat.Admins = next.Admins
	if err := uc.chatRepo.Update(ctx, chat); err != nil {
		return nil, err
	}

	return uc.buildChatResponse(ctx, chat, requesterID), nil
}

func (uc *ChatUseCase) RemoveGroupUser(ctx context.Context, requesterID, chatID, userID string) (*ChatResponse, error) {
	chat, err := uc.requireGroupChat(ctx, chatID)
	if err != nil {
		return nil, err
	}

	next, deleted, err := service.RemoveUser(service.NewMembership(chat.Users, chat.Admins), userID, requesterID)
	if err != nil {
		return nil, err
	}

	if deleted {
		// An empty chat is never persisted.
		return nil, uc.destroyChat(ctx, chat.ID)
	}

	chat.Users = next.Users
	chat.Admins = next.Admins
	if err := uc.chatRepo.Update(ctx, chat); err != nil {
		return nil, err
	}

	return uc.buildChatResponse(ctx, chat, requesterID), nil
}

// LeaveChat removes the requester from the chat, destroying it when they were
// the last member. Works for direct and group chats alike; no admin gate.
func (uc *ChatUseCase) LeaveChat(ctx context.Context, requesterID, chatID string) error {
	chat, err := uc.chatRepo.GetByID(ctx, chatID)
	if err != nil {
		return err
	}

	next, deleted, err := service.Leave(service.NewMembership(chat.Users, chat.Admins), requesterID)
	if err != nil {
		return err
	}

	if deleted {
		return uc.destroyChat(ctx, chat.ID)
	}

	chat.Users = next.Users
	chat.Admins = next.Admins
	return uc.chatRepo.Update(ctx, chat)
}

func (uc *ChatUseCase) destroyChat(ctx context.Context, chatID string) error {
	if err := uc.messageRepo.DeleteByChat(ctx, chatID); err != nil {
		log.Printf("destroyChat: Failed to delete messages for chat %s: %v", chatID, err)
		return err
	}
	return uc.chatRepo.Delete(ctx, chatID)
}

func (uc *ChatUseCase) requireGroupChat(ctx context.Context, chatID string) (*entity.Chat, error) {
	chat, err := uc.chatRepo.GetByID(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if !chat.IsGroupChat {
		return nil, errors.BadRequest("Chat is not a group chat", nil)
	}
	return chat, nil
}

func (uc *ChatUseCase) requireUsersExist(ctx context.Context, userIDs []string) error {
	seen := make(map[string]bool, len(userIDs))
	for _, id := range userIDs {
		if seen[id] {
			return errors.BadRequest("Duplicate user in list", nil)
		}
		seen[id] = true
		if _, err := uc.userRepo.GetByID(ctx, id); err != nil {
			return errors.BadRequest("One or more users don't exist", err)
		}
	}
	return nil
}

func (uc *ChatUseCase) buildChatResponse(ctx context.Context, chat *entity.Chat, viewerID string) *ChatResponse {
	// Work on a copy: the display projection must never leak into storage.
	projected := *chat
	resp := &ChatResponse{Chat: &projected}

	for _, memberID := range chat.Users {
		user, err := uc.userRepo.GetByID(ctx, memberID)
		if err != nil {
			log.Printf("buildChatResponse Warning: Member %s not found for chat %s: %v", memberID, chat.ID, err)
			continue
		}
		resp.Members = append(resp.Members, user.Profile())
	}

	if !chat.IsGroupChat {
		if otherID := chat.OtherUser(viewerID); otherID != "" {
			if other, err := uc.userRepo.GetByID(ctx, otherID); err == nil {
				projected.ChatName = other.Name
				projected.GroupImg = other.Photo
			}
		}
	}

	latest, err := uc.messageRepo.LatestByChat(ctx, chat.ID)
	if err != nil {
		log.Printf("buildChatResponse Warning: Failed to load latest message for chat %s: %v", chat.ID, err)
	} else {
		resp.LatestMessage = latest
	}

	return resp
}
