package usecase

import (
	"context"
	"strings"
	"time"

	"unigo/internal/domain/entity"
	"unigo/internal/domain/repository"
	"unigo/pkg/errors"
	"unigo/pkg/logger"
)

type ChatUseCase struct {
	chatRepo   repository.ChatRepository
	userRepo   repository.UserRepository
	mentorRepo repository.MentorRepository
}

func NewChatUseCase(
	chatRepo repository.ChatRepository,
	userRepo repository.UserRepository,
	mentorRepo repository.MentorRepository,
) *ChatUseCase {
	return &ChatUseCase{
		chatRepo:   chatRepo,
		userRepo:   userRepo,
		mentorRepo: mentorRepo,
	}
}

type GetOrCreateChatInput struct {
	MentorID      string
	ParticipantID string
}

type SendMessageInput struct {
	ChatID string
	Text   string
}

// ParticipantSummary is the display-friendly slice of a user record exposed
// in chat responses. Full user records never leave the service.
type ParticipantSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

type MentorSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type LastMessageResponse struct {
	ID        string    `json:"id"`
	SenderID  string    `json:"sender_id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

type ChatResponse struct {
	ID           string               `json:"id"`
	Mentor       MentorSummary        `json:"mentor"`
	Participants []ParticipantSummary `json:"participants"`
	LastMessage  *LastMessageResponse `json:"last_message,omitempty"`
	CreatedAt    time.Time            `json:"created_at"`
	UpdatedAt    time.Time            `json:"updated_at"`
}

type MessageResponse struct {
	ID         string    `json:"id"`
	ChatID     string    `json:"chat_id"`
	SenderID   string    `json:"sender_id"`
	SenderName string    `json:"sender_name,omitempty"`
	Text       string    `json:"text"`
	CreatedAt  time.Time `json:"created_at"`
}

// GetOrCreateChat returns the single chat between the caller and the given
// participant in the given mentor context, creating it on first contact.
// Both orderings of the pair resolve to the same chat.
func (uc *ChatUseCase) GetOrCreateChat(ctx context.Context, userID string, input GetOrCreateChatInput) (*ChatResponse, error) {
	if userID == input.ParticipantID {
		logger.Warn("GetOrCreateChat: User %s attempted to create chat with themselves", userID)
		return nil, errors.BadRequest("You cannot create a chat with yourself", nil)
	}

	mentor, err := uc.mentorRepo.GetByID(ctx, input.MentorID)
	if err != nil {
		logger.Error("GetOrCreateChat: Mentor %s not found: %v", input.MentorID, err)
		return nil, err
	}

	if _, err := uc.userRepo.GetByID(ctx, input.ParticipantID); err != nil {
		logger.Error("GetOrCreateChat: Participant %s not found: %v", input.ParticipantID, err)
		return nil, err
	}

	pairKey := entity.ChatPairKey(input.MentorID, userID, input.ParticipantID)

	chat, err := uc.chatRepo.GetByPairKey(ctx, pairKey)
	if err != nil {
		if !errors.Is(err, "NOT_FOUND") {
			logger.Error("GetOrCreateChat: Failed to look up chat by pair key: %v", err)
			return nil, err
		}

		chat = &entity.Chat{
			MentorID:     input.MentorID,
			Participants: []string{userID, input.ParticipantID},
			PairKey:      pairKey,
		}

		if err := uc.chatRepo.Create(ctx, chat); err != nil {
			if !errors.Is(err, "CONFLICT") {
				logger.Error("GetOrCreateChat: Failed to create chat: %v", err)
				return nil, err
			}
			// Lost a first-contact race; the other request created the chat.
			chat, err = uc.chatRepo.GetByPairKey(ctx, pairKey)
			if err != nil {
				logger.Error("GetOrCreateChat: Failed to reload chat after conflict: %v", err)
				return nil, err
			}
		}
	}

	return uc.toChatResponse(ctx, chat, mentor), nil
}

// GetUserChats returns every chat the user participates in, most recently
// active first (repository orders by updatedAt descending).
func (uc *ChatUseCase) GetUserChats(ctx context.Context, userID string) ([]*ChatResponse, error) {
	chats, err := uc.chatRepo.ListByUserID(ctx, userID)
	if err != nil {
		logger.Error("GetUserChats: Failed to list chats for user %s: %v", userID, err)
		return nil, err
	}

	responses := make([]*ChatResponse, 0, len(chats))
	for _, chat := range chats {
		responses = append(responses, uc.toChatResponse(ctx, chat, nil))
	}

	return responses, nil
}

// GetChatMessages returns the full message history in ascending creation
// order. Unlike the service this replaces, it verifies the caller is a
// participant before returning anything.
func (uc *ChatUseCase) GetChatMessages(ctx context.Context, userID, chatID string) ([]*MessageResponse, error) {
	chat, err := uc.chatRepo.GetByID(ctx, chatID)
	if err != nil {
		logger.Error("GetChatMessages: Chat %s not found: %v", chatID, err)
		return nil, err
	}

	if !chat.HasParticipant(userID) {
		logger.Warn("GetChatMessages: User %s is not a participant in chat %s", userID, chatID)
		return nil, errors.Forbidden("User is not a participant in this chat", nil)
	}

	messages, err := uc.chatRepo.ListMessagesByChat(ctx, chatID)
	if err != nil {
		logger.Error("GetChatMessages: Failed to get messages for chat %s: %v", chatID, err)
		return nil, err
	}

	names := make(map[string]string)
	responses := make([]*MessageResponse, 0, len(messages))
	for _, message := range messages {
		responses = append(responses, &MessageResponse{
			ID:         message.ID,
			ChatID:     message.ChatID,
			SenderID:   message.SenderID,
			SenderName: uc.senderName(ctx, message.SenderID, names),
			Text:       message.Text,
			CreatedAt:  message.CreatedAt,
		})
	}

	return responses, nil
}

// SendMessage appends a message to the chat and moves the chat's lastMessage
// pointer to it, bumping updatedAt.
func (uc *ChatUseCase) SendMessage(ctx context.Context, userID string, input SendMessageInput) (*MessageResponse, error) {
	text := strings.TrimSpace(input.Text)
	if text == "" {
		return nil, errors.BadRequest("Message text is required", nil)
	}

	chat, err := uc.chatRepo.GetByID(ctx, input.ChatID)
	if err != nil {
		logger.Error("SendMessage: Chat %s not found: %v", input.ChatID, err)
		return nil, err
	}

	if !chat.HasParticipant(userID) {
		logger.Warn("SendMessage: User %s is not a participant in chat %s", userID, input.ChatID)
		return nil, errors.Forbidden("User is not a participant in this chat", nil)
	}

	message := &entity.Message{
		ChatID:   input.ChatID,
		SenderID: userID,
		Text:     text,
	}

	if err := uc.chatRepo.CreateMessage(ctx, message); err != nil {
		logger.Error("SendMessage: Failed to create message for chat %s: %v", input.ChatID, err)
		return nil, err
	}

	chat.LastMessage = &entity.LastMessage{
		ID:        message.ID,
		SenderID:  message.SenderID,
		Text:      message.Text,
		CreatedAt: message.CreatedAt,
	}

	// The message is already persisted; a failed pointer update leaves
	// lastMessage stale until the next send, which is recoverable, so the
	// send still succeeds.
	if err := uc.chatRepo.Update(ctx, chat); err != nil {
		logger.Error("SendMessage: Failed to update lastMessage for chat %s (stale until next send): %v", chat.ID, err)
	}

	return &MessageResponse{
		ID:         message.ID,
		ChatID:     message.ChatID,
		SenderID:   message.SenderID,
		SenderName: uc.senderName(ctx, userID, nil),
		Text:       message.Text,
		CreatedAt:  message.CreatedAt,
	}, nil
}

// DeleteChat removes a chat and all of its messages. Messages are deleted
// first so a failure between the two steps cannot leave messages pointing at
// a missing chat without the sweep being able to find them.
func (uc *ChatUseCase) DeleteChat(ctx context.Context, userID, chatID string) error {
	chat, err := uc.chatRepo.GetByID(ctx, chatID)
	if err != nil {
		logger.Error("DeleteChat: Chat %s not found: %v", chatID, err)
		return err
	}

	if !chat.HasParticipant(userID) {
		logger.Warn("DeleteChat: User %s is not a participant in chat %s", userID, chatID)
		return errors.Forbidden("User is not a participant in this chat", nil)
	}

	deleted, err := uc.chatRepo.DeleteMessagesByChat(ctx, chatID)
	if err != nil {
		logger.Error("DeleteChat: Failed to delete messages for chat %s after %d deletions: %v", chatID, deleted, err)
		return errors.Internal("Failed to delete chat messages", err)
	}

	if err := uc.chatRepo.Delete(ctx, chatID); err != nil {
		logger.Error("DeleteChat: Messages gone but chat %s not deleted: %v", chatID, err)
		return errors.Internal("Failed to delete chat", err)
	}

	logger.Info("DeleteChat: Chat %s deleted with %d messages by user %s", chatID, deleted, userID)
	return nil
}

// SweepOrphanedMessages deletes messages whose chat no longer exists.
// Exposed on a development-only route.
func (uc *ChatUseCase) SweepOrphanedMessages(ctx context.Context, batchSize int) (int, error) {
	deleted, err := uc.chatRepo.SweepOrphanedMessages(ctx, batchSize)
	if err != nil {
		logger.Error("SweepOrphanedMessages: Sweep failed after %d deletions: %v", deleted, err)
		return deleted, err
	}

	if deleted > 0 {
		logger.Info("SweepOrphanedMessages: Removed %d orphaned messages", deleted)
	}
	return deleted, nil
}

func (uc *ChatUseCase) toChatResponse(ctx context.Context, chat *entity.Chat, mentor *entity.Mentor) *ChatResponse {
	resp := &ChatResponse{
		ID:        chat.ID,
		CreatedAt: chat.CreatedAt,
		UpdatedAt: chat.UpdatedAt,
	}

	if mentor == nil {
		var err error
		mentor, err = uc.mentorRepo.GetByID(ctx, chat.MentorID)
		if err != nil {
			logger.Warn("toChatResponse: Mentor %s not found for chat %s: %v", chat.MentorID, chat.ID, err)
		}
	}
	resp.Mentor = MentorSummary{ID: chat.MentorID}
	if mentor != nil {
		resp.Mentor.Name = mentor.Name
	}

	for _, participantID := range chat.Participants {
		summary := ParticipantSummary{ID: participantID}
		user, err := uc.userRepo.GetByID(ctx, participantID)
		if err != nil {
			logger.Warn("toChatResponse: Participant %s not found for chat %s: %v", participantID, chat.ID, err)
		} else {
			summary.Name = user.Name
			summary.Email = user.Email
		}
		resp.Participants = append(resp.Participants, summary)
	}

	if chat.LastMessage != nil {
		resp.LastMessage = &LastMessageResponse{
			ID:        chat.LastMessage.ID,
			SenderID:  chat.LastMessage.SenderID,
			Text:      chat.LastMessage.Text,
			CreatedAt: chat.LastMessage.CreatedAt,
		}
	}

	return resp
}

func (uc *ChatUseCase) senderName(ctx context.Context, senderID string, cache map[string]string) string {
	if cache != nil {
		if name, ok := cache[senderID]; ok {
			return name
		}
	}

	name := ""
	user, err := uc.userRepo.GetByID(ctx, senderID)
	if err != nil {
		logger.Warn("senderName: Sender %s not found: %v", senderID, err)
	} else {
		name = user.Name
	}

	if cache != nil {
		cache[senderID] = name
	}
	return name
}
