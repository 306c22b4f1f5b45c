package repository

import (
	"context"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"unigo/internal/domain/entity"
	"unigo/internal/domain/repository"
	"unigo/pkg/errors"
)

type firestoreMentorRepository struct {
	client *firestore.Client
}

func NewFirestoreMentorRepository(client *firestore.Client) repository.MentorRepository {
	return &firestoreMentorRepository{
		client: client,
	}
}

func (r *firestoreMentorRepository) GetByID(ctx context.Context, id string) (*entity.Mentor, error) {
	doc, err := r.client.Collection("mentors").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Mentor", err)
		}
		return nil, errors.Internal("Failed to get mentor", err)
	}

	var mentor entity.Mentor
	if err := doc.DataTo(&mentor); err != nil {
		return nil, errors.Internal("Failed to parse mentor data", err)
	}

	return &mentor, nil
}
