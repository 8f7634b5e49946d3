package repository

import (
	"context"

	"chatspace/internal/domain/entity"
)

type ChatRepository interface {
	Create(ctx context.Context, chat *entity.Chat) error
	GetByID(ctx context.Context, id string) (*entity.Chat, error)
	ListByUserID(ctx context.Context, userID string) ([]*entity.Chat, error)

	// Update persists a chat read-modify-write; it fails with Conflict when
	// the stored version no longer matches chat.Version.
	Update(ctx context.Context, chat *entity.Chat) error
	Delete(ctx context.Context, id string) error
}
