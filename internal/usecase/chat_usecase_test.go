package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"unigo/internal/domain/entity"
	"unigo/internal/mocks"
	apperrors "unigo/pkg/errors"
)

const (
	mentorID = "mentor-1"
	userA    = "user-a"
	userB    = "user-b"
)

func newTestUseCase() (*ChatUseCase, *mocks.ChatRepositoryMock, *mocks.UserRepositoryMock, *mocks.MentorRepositoryMock) {
	chatRepo := new(mocks.ChatRepositoryMock)
	userRepo := new(mocks.UserRepositoryMock)
	mentorRepo := new(mocks.MentorRepositoryMock)
	return NewChatUseCase(chatRepo, userRepo, mentorRepo), chatRepo, userRepo, mentorRepo
}

func stubDirectory(userRepo *mocks.UserRepositoryMock, mentorRepo *mocks.MentorRepositoryMock) {
	userRepo.On("GetByID", mock.Anything, userA).Return(&entity.User{ID: userA, Name: "Alice", Email: "alice@campus.edu"}, nil)
	userRepo.On("GetByID", mock.Anything, userB).Return(&entity.User{ID: userB, Name: "Bob", Email: "bob@campus.edu"}, nil)
	mentorRepo.On("GetByID", mock.Anything, mentorID).Return(&entity.Mentor{ID: mentorID, Name: "Prof. Mentor"}, nil)
}

func participantChat() *entity.Chat {
	return &entity.Chat{
		ID:           "chat-1",
		MentorID:     mentorID,
		Participants: []string{userA, userB},
		PairKey:      entity.ChatPairKey(mentorID, userA, userB),
		CreatedAt:    time.Now().Add(-time.Hour),
		UpdatedAt:    time.Now().Add(-time.Hour),
	}
}

func TestGetOrCreateChatPairSymmetry(t *testing.T) {
	uc, chatRepo, userRepo, mentorRepo := newTestUseCase()
	stubDirectory(userRepo, mentorRepo)

	pairKey := entity.ChatPairKey(mentorID, userA, userB)
	require.Equal(t, pairKey, entity.ChatPairKey(mentorID, userB, userA))

	chatRepo.On("GetByPairKey", mock.Anything, pairKey).Return((*entity.Chat)(nil), apperrors.NotFound("Chat", nil)).Once()
	chatRepo.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		chat := args.Get(1).(*entity.Chat)
		chat.ID = "chat-1"
	}).Return(nil).Once()

	first, err := uc.GetOrCreateChat(context.Background(), userA, GetOrCreateChatInput{MentorID: mentorID, ParticipantID: userB})
	require.NoError(t, err)

	chatRepo.On("GetByPairKey", mock.Anything, pairKey).Return(participantChat(), nil).Once()

	second, err := uc.GetOrCreateChat(context.Background(), userB, GetOrCreateChatInput{MentorID: mentorID, ParticipantID: userA})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "Prof. Mentor", second.Mentor.Name)
	chatRepo.AssertExpectations(t)
}

func TestGetOrCreateChatLostRaceFallsBackToLookup(t *testing.T) {
	uc, chatRepo, userRepo, mentorRepo := newTestUseCase()
	stubDirectory(userRepo, mentorRepo)

	pairKey := entity.ChatPairKey(mentorID, userA, userB)

	chatRepo.On("GetByPairKey", mock.Anything, pairKey).Return((*entity.Chat)(nil), apperrors.NotFound("Chat", nil)).Once()
	chatRepo.On("Create", mock.Anything, mock.Anything).Return(apperrors.Conflict("Chat already exists for this pair", nil)).Once()
	chatRepo.On("GetByPairKey", mock.Anything, pairKey).Return(participantChat(), nil).Once()

	chat, err := uc.GetOrCreateChat(context.Background(), userA, GetOrCreateChatInput{MentorID: mentorID, ParticipantID: userB})
	require.NoError(t, err)
	assert.Equal(t, "chat-1", chat.ID)
	chatRepo.AssertExpectations(t)
}

func TestGetOrCreateChatRejectsSelf(t *testing.T) {
	uc, chatRepo, _, _ := newTestUseCase()

	_, err := uc.GetOrCreateChat(context.Background(), userA, GetOrCreateChatInput{MentorID: mentorID, ParticipantID: userA})
	assert.True(t, apperrors.Is(err, "BAD_REQUEST"))
	chatRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestGetOrCreateChatUnknownMentor(t *testing.T) {
	uc, _, _, mentorRepo := newTestUseCase()

	mentorRepo.On("GetByID", mock.Anything, "missing").Return((*entity.Mentor)(nil), apperrors.NotFound("Mentor", nil)).Once()

	_, err := uc.GetOrCreateChat(context.Background(), userA, GetOrCreateChatInput{MentorID: "missing", ParticipantID: userB})
	assert.True(t, apperrors.Is(err, "NOT_FOUND"))
}

func TestSendMessageMovesLastMessagePointer(t *testing.T) {
	uc, chatRepo, userRepo, _ := newTestUseCase()
	userRepo.On("GetByID", mock.Anything, userA).Return(&entity.User{ID: userA, Name: "Alice"}, nil)

	chat := participantChat()
	before := chat.UpdatedAt

	chatRepo.On("GetByID", mock.Anything, "chat-1").Return(chat, nil).Once()
	chatRepo.On("CreateMessage", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		message := args.Get(1).(*entity.Message)
		message.ID = "msg-1"
		message.CreatedAt = time.Now()
	}).Return(nil).Once()
	chatRepo.On("Update", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		updated := args.Get(1).(*entity.Chat)
		require.NotNil(t, updated.LastMessage)
		assert.Equal(t, "msg-1", updated.LastMessage.ID)
		assert.Equal(t, userA, updated.LastMessage.SenderID)
		assert.False(t, updated.LastMessage.CreatedAt.Before(before))
	}).Return(nil).Once()

	message, err := uc.SendMessage(context.Background(), userA, SendMessageInput{ChatID: "chat-1", Text: "  hello there  "})
	require.NoError(t, err)
	assert.Equal(t, "msg-1", message.ID)
	assert.Equal(t, "hello there", message.Text)
	assert.Equal(t, "Alice", message.SenderName)
	chatRepo.AssertExpectations(t)
}

func TestSendMessageRejectsBlankText(t *testing.T) {
	uc, chatRepo, _, _ := newTestUseCase()

	_, err := uc.SendMessage(context.Background(), userA, SendMessageInput{ChatID: "chat-1", Text: "   "})
	assert.True(t, apperrors.Is(err, "BAD_REQUEST"))
	chatRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	chatRepo.AssertNotCalled(t, "CreateMessage", mock.Anything, mock.Anything)
}

func TestSendMessageNonParticipant(t *testing.T) {
	uc, chatRepo, _, _ := newTestUseCase()

	chatRepo.On("GetByID", mock.Anything, "chat-1").Return(participantChat(), nil).Once()

	_, err := uc.SendMessage(context.Background(), "intruder", SendMessageInput{ChatID: "chat-1", Text: "hi"})
	assert.True(t, apperrors.Is(err, "FORBIDDEN"))
	chatRepo.AssertNotCalled(t, "CreateMessage", mock.Anything, mock.Anything)
}

func TestSendMessageSurvivesStalePointerUpdate(t *testing.T) {
	uc, chatRepo, userRepo, _ := newTestUseCase()
	userRepo.On("GetByID", mock.Anything, userA).Return(&entity.User{ID: userA, Name: "Alice"}, nil)

	chatRepo.On("GetByID", mock.Anything, "chat-1").Return(participantChat(), nil).Once()
	chatRepo.On("CreateMessage", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		args.Get(1).(*entity.Message).ID = "msg-1"
	}).Return(nil).Once()
	chatRepo.On("Update", mock.Anything, mock.Anything).Return(apperrors.Internal("Failed to update chat", nil)).Once()

	// The message is persisted; a stale lastMessage self-corrects on the
	// next send, so the call still succeeds.
	message, err := uc.SendMessage(context.Background(), userA, SendMessageInput{ChatID: "chat-1", Text: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "msg-1", message.ID)
}

func TestGetChatMessagesAscendingOrder(t *testing.T) {
	uc, chatRepo, userRepo, _ := newTestUseCase()
	userRepo.On("GetByID", mock.Anything, userA).Return(&entity.User{ID: userA, Name: "Alice"}, nil)
	userRepo.On("GetByID", mock.Anything, userB).Return(&entity.User{ID: userB, Name: "Bob"}, nil)

	base := time.Now().Add(-time.Minute)
	messages := []*entity.Message{
		{ID: "m1", ChatID: "chat-1", SenderID: userA, Text: "first", CreatedAt: base},
		{ID: "m2", ChatID: "chat-1", SenderID: userB, Text: "second", CreatedAt: base.Add(time.Second)},
		{ID: "m3", ChatID: "chat-1", SenderID: userA, Text: "third", CreatedAt: base.Add(2 * time.Second)},
	}

	chatRepo.On("GetByID", mock.Anything, "chat-1").Return(participantChat(), nil).Once()
	chatRepo.On("ListMessagesByChat", mock.Anything, "chat-1").Return(messages, nil).Once()

	got, err := uc.GetChatMessages(context.Background(), userA, "chat-1")
	require.NoError(t, err)
	require.Len(t, got, 3)

	for i := 1; i < len(got); i++ {
		assert.False(t, got[i].CreatedAt.Before(got[i-1].CreatedAt))
	}
	assert.Equal(t, "Alice", got[0].SenderName)
	assert.Equal(t, "Bob", got[1].SenderName)

	// Sender names are cached per call, one directory lookup per sender.
	userRepo.AssertNumberOfCalls(t, "GetByID", 2)
}

func TestGetChatMessagesNonParticipant(t *testing.T) {
	uc, chatRepo, _, _ := newTestUseCase()

	chatRepo.On("GetByID", mock.Anything, "chat-1").Return(participantChat(), nil).Once()

	_, err := uc.GetChatMessages(context.Background(), "intruder", "chat-1")
	assert.True(t, apperrors.Is(err, "FORBIDDEN"))
	chatRepo.AssertNotCalled(t, "ListMessagesByChat", mock.Anything, mock.Anything)
}

func TestDeleteChatNotFound(t *testing.T) {
	uc, chatRepo, _, _ := newTestUseCase()

	chatRepo.On("GetByID", mock.Anything, "missing").Return((*entity.Chat)(nil), apperrors.NotFound("Chat", nil)).Once()

	err := uc.DeleteChat(context.Background(), userA, "missing")
	assert.True(t, apperrors.Is(err, "NOT_FOUND"))
}

func TestDeleteChatNonParticipantLeavesChatUntouched(t *testing.T) {
	uc, chatRepo, _, _ := newTestUseCase()

	chatRepo.On("GetByID", mock.Anything, "chat-1").Return(participantChat(), nil).Once()

	err := uc.DeleteChat(context.Background(), "intruder", "chat-1")
	assert.True(t, apperrors.Is(err, "FORBIDDEN"))
	chatRepo.AssertNotCalled(t, "DeleteMessagesByChat", mock.Anything, mock.Anything)
	chatRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestDeleteChatCascadesMessagesFirst(t *testing.T) {
	uc, chatRepo, _, _ := newTestUseCase()

	messagesDeleted := false

	chatRepo.On("GetByID", mock.Anything, "chat-1").Return(participantChat(), nil).Once()
	chatRepo.On("DeleteMessagesByChat", mock.Anything, "chat-1").Run(func(mock.Arguments) {
		messagesDeleted = true
	}).Return(4, nil).Once()
	chatRepo.On("Delete", mock.Anything, "chat-1").Run(func(mock.Arguments) {
		assert.True(t, messagesDeleted, "chat must be deleted only after its messages")
	}).Return(nil).Once()

	err := uc.DeleteChat(context.Background(), userB, "chat-1")
	require.NoError(t, err)
	chatRepo.AssertExpectations(t)
}

func TestDeleteChatSurfacesPartialFailure(t *testing.T) {
	uc, chatRepo, _, _ := newTestUseCase()

	chatRepo.On("GetByID", mock.Anything, "chat-1").Return(participantChat(), nil).Once()
	chatRepo.On("DeleteMessagesByChat", mock.Anything, "chat-1").Return(2, apperrors.Internal("Failed to delete message", nil)).Once()

	err := uc.DeleteChat(context.Background(), userA, "chat-1")
	assert.True(t, apperrors.Is(err, "INTERNAL_ERROR"))
	chatRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestGetUserChatsResolvesSummaries(t *testing.T) {
	uc, chatRepo, userRepo, mentorRepo := newTestUseCase()
	stubDirectory(userRepo, mentorRepo)

	chat := participantChat()
	chat.LastMessage = &entity.LastMessage{ID: "m9", SenderID: userB, Text: "latest", CreatedAt: time.Now()}

	chatRepo.On("ListByUserID", mock.Anything, userA).Return([]*entity.Chat{chat}, nil).Once()

	chats, err := uc.GetUserChats(context.Background(), userA)
	require.NoError(t, err)
	require.Len(t, chats, 1)

	assert.Equal(t, "Prof. Mentor", chats[0].Mentor.Name)
	require.Len(t, chats[0].Participants, 2)
	assert.Equal(t, "Alice", chats[0].Participants[0].Name)
	assert.Equal(t, "Bob", chats[0].Participants[1].Name)
	require.NotNil(t, chats[0].LastMessage)
	assert.Equal(t, "m9", chats[0].LastMessage.ID)
}
