package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"unigo/internal/domain/entity"
)

type ChatRepositoryMock struct {
	mock.Mock
}

func (m *ChatRepositoryMock) Create(ctx context.Context, chat *entity.Chat) error {
	args := m.Called(ctx, chat)
	return args.Error(0)
}

func (m *ChatRepositoryMock) GetByID(ctx context.Context, id string) (*entity.Chat, error) {
	args := m.Called(ctx, id)
	if chat, ok := args.Get(0).(*entity.Chat); ok {
		return chat, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ChatRepositoryMock) GetByPairKey(ctx context.Context, pairKey string) (*entity.Chat, error) {
	args := m.Called(ctx, pairKey)
	if chat, ok := args.Get(0).(*entity.Chat); ok {
		return chat, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ChatRepositoryMock) ListByUserID(ctx context.Context, userID string) ([]*entity.Chat, error) {
	args := m.Called(ctx, userID)
	if chats, ok := args.Get(0).([]*entity.Chat); ok {
		return chats, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ChatRepositoryMock) Update(ctx context.Context, chat *entity.Chat) error {
	args := m.Called(ctx, chat)
	return args.Error(0)
}

func (m *ChatRepositoryMock) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *ChatRepositoryMock) CreateMessage(ctx context.Context, message *entity.Message) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}

func (m *ChatRepositoryMock) ListMessagesByChat(ctx context.Context, chatID string) ([]*entity.Message, error) {
	args := m.Called(ctx, chatID)
	if messages, ok := args.Get(0).([]*entity.Message); ok {
		return messages, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ChatRepositoryMock) DeleteMessagesByChat(ctx context.Context, chatID string) (int, error) {
	args := m.Called(ctx, chatID)
	return args.Int(0), args.Error(1)
}

func (m *ChatRepositoryMock) SweepOrphanedMessages(ctx context.Context, batchSize int) (int, error) {
	args := m.Called(ctx, batchSize)
	return args.Int(0), args.Error(1)
}

type UserRepositoryMock struct {
	mock.Mock
}

func (m *UserRepositoryMock) GetByID(ctx context.Context, id string) (*entity.User, error) {
	args := m.Called(ctx, id)
	if user, ok := args.Get(0).(*entity.User); ok {
		return user, args.Error(1)
	}
	return nil, args.Error(1)
}

type MentorRepositoryMock struct {
	mock.Mock
}

func (m *MentorRepositoryMock) GetByID(ctx context.Context, id string) (*entity.Mentor, error) {
	args := m.Called(ctx, id)
	if mentor, ok := args.Get(0).(*entity.Mentor); ok {
		return mentor, args.Error(1)
	}
	return nil, args.Error(1)
}
