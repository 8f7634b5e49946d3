package repository

import (
	"context"

	"chatspace/internal/domain/entity"
)

type MessageRepository interface {
	Create(ctx context.Context, message *entity.Message) error
	GetByID(ctx context.Context, id string) (*entity.Message, error)
	Update(ctx context.Context, message *entity.Message) error

	// ListByChat returns the chat's messages newest first.
	ListByChat(ctx context.Context, chatID string) ([]*entity.Message, error)

	// LatestByChat returns the most recent non-deleted message, or nil when
	// the chat has none.
	LatestByChat(ctx context.Context, chatID string) (*entity.Message, error)

	// Search matches term case-insensitively against message bodies.
	Search(ctx context.Context, term string) ([]*entity.Message, error)

	MarkChatRead(ctx context.Context, chatID, userID string) error
	DeleteByChat(ctx context.Context, chatID string) error
}
