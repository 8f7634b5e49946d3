package repository

import (
	"context"

	"chatspace/internal/domain/entity"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	GetByResetToken(ctx context.Context, hashedToken string) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
}
