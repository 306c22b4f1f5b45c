package repository

import (
	"context"

	"unigo/internal/domain/entity"
)

// MentorRepository resolves the mentor a chat is anchored to. Mentor CRUD
// itself lives outside this service.
type MentorRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Mentor, error)
}
