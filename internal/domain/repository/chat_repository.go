package repository

import (
	"context"

	"unigo/internal/domain/entity"
)

type ChatRepository interface {
	// Create fails with CONFLICT when a chat with the same pair key already
	// exists, so concurrent get-or-create calls converge on one chat.
	Create(ctx context.Context, chat *entity.Chat) error
	GetByID(ctx context.Context, id string) (*entity.Chat, error)
	GetByPairKey(ctx context.Context, pairKey string) (*entity.Chat, error)
	ListByUserID(ctx context.Context, userID string) ([]*entity.Chat, error)
	Update(ctx context.Context, chat *entity.Chat) error
	Delete(ctx context.Context, id string) error

	// Message methods
	CreateMessage(ctx context.Context, message *entity.Message) error
	ListMessagesByChat(ctx context.Context, chatID string) ([]*entity.Message, error)
	DeleteMessagesByChat(ctx context.Context, chatID string) (int, error)
	SweepOrphanedMessages(ctx context.Context, batchSize int) (int, error)
}
