package repository

import (
	"context"

	"unigo/internal/domain/entity"
)

// UserRepository is the read-only slice of the user directory the chat core
// needs: display-name resolution for participants and senders.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*entity.User, error)
}
