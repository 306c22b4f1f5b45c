package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"unigo/internal/domain/entity"
	"unigo/internal/domain/repository"
	"unigo/pkg/errors"
	"unigo/pkg/logger"
)

type firestoreChatRepository struct {
	client *firestore.Client
}

func NewFirestoreChatRepository(client *firestore.Client) repository.ChatRepository {
	return &firestoreChatRepository{
		client: client,
	}
}

func (r *firestoreChatRepository) Create(ctx context.Context, chat *entity.Chat) error {
	if chat.ID == "" {
		// Deterministic id derived from the pair key: a concurrent create for
		// the same (mentor, pair) targets the same document and fails below.
		chat.ID = uuid.NewSHA1(uuid.NameSpaceOID, []byte(chat.PairKey)).String()
	}

	now := time.Now()
	chat.CreatedAt = now
	chat.UpdatedAt = now

	_, err := r.client.Collection("chats").Doc(chat.ID).Create(ctx, chat)
	if err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return errors.Conflict("Chat already exists for this pair", err)
		}
		return errors.Internal("Failed to create chat", err)
	}

	return nil
}

func (r *firestoreChatRepository) GetByID(ctx context.Context, id string) (*entity.Chat, error) {
	doc, err := r.client.Collection("chats").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Chat", err)
		}
		return nil, errors.Internal("Failed to get chat", err)
	}

	var chat entity.Chat
	if err := doc.DataTo(&chat); err != nil {
		return nil, errors.Internal("Failed to parse chat data", err)
	}

	return &chat, nil
}

func (r *firestoreChatRepository) GetByPairKey(ctx context.Context, pairKey string) (*entity.Chat, error) {
	query := r.client.Collection("chats").Where("pairKey", "==", pairKey).Limit(1)
	iter := query.Documents(ctx)
	doc, err := iter.Next()

	if err != nil {
		if err == iterator.Done {
			return nil, errors.NotFound("Chat", nil)
		}
		return nil, errors.Internal("Failed to query chat by pair key", err)
	}

	var chat entity.Chat
	if err := doc.DataTo(&chat); err != nil {
		return nil, errors.Internal("Failed to parse chat data", err)
	}

	return &chat, nil
}

func (r *firestoreChatRepository) ListByUserID(ctx context.Context, userID string) ([]*entity.Chat, error) {
	query := r.client.Collection("chats").
		Where("participants", "array-contains", userID).
		OrderBy("updatedAt", firestore.Desc)

	docs, err := query.Documents(ctx).GetAll()
	if err != nil {
		logger.Error("Firestore error while fetching chats for user %s: %v", userID, err)
		return nil, errors.Internal("Failed to fetch chats", err)
	}

	var chats []*entity.Chat
	for _, doc := range docs {
		var chat entity.Chat
		if err := doc.DataTo(&chat); err != nil {
			logger.Warn("Skipping malformed chat document %s: %v", doc.Ref.ID, err)
			continue
		}
		chats = append(chats, &chat)
	}

	return chats, nil
}

func (r *firestoreChatRepository) Update(ctx context.Context, chat *entity.Chat) error {
	chat.UpdatedAt = time.Now()

	_, err := r.client.Collection("chats").Doc(chat.ID).Set(ctx, chat)
	if err != nil {
		return errors.Internal("Failed to update chat", err)
	}

	return nil
}

func (r *firestoreChatRepository) Delete(ctx context.Context, id string) error {
	_, err := r.client.Collection("chats").Doc(id).Delete(ctx)
	if err != nil {
		return errors.Internal("Failed to delete chat", err)
	}

	return nil
}

func (r *firestoreChatRepository) CreateMessage(ctx context.Context, message *entity.Message) error {
	if message.ID == "" {
		message.ID = uuid.New().String()
	}

	message.CreatedAt = time.Now()

	_, err := r.client.Collection("messages").Doc(message.ID).Set(ctx, message)
	if err != nil {
		return errors.Internal("Failed to create message", err)
	}

	return nil
}

func (r *firestoreChatRepository) ListMessagesByChat(ctx context.Context, chatID string) ([]*entity.Message, error) {
	query := r.client.Collection("messages").
		Where("chatId", "==", chatID).
		OrderBy("createdAt", firestore.Asc)

	iter := query.Documents(ctx)
	var messages []*entity.Message

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			logger.Error("Firestore error while iterating messages for chat %s: %v", chatID, err)
			return nil, errors.Internal("Failed to iterate messages", err)
		}

		var message entity.Message
		if err := doc.DataTo(&message); err != nil {
			logger.Error("Error parsing message data for chat %s: %v", chatID, err)
			return nil, errors.Internal("Failed to parse message data", err)
		}

		messages = append(messages, &message)
	}

	return messages, nil
}

func (r *firestoreChatRepository) DeleteMessagesByChat(ctx context.Context, chatID string) (int, error) {
	query := r.client.Collection("messages").Where("chatId", "==", chatID).Select()

	docs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return 0, errors.Internal("Failed to fetch messages for deletion", err)
	}

	deleted := 0
	for _, doc := range docs {
		if _, err := doc.Ref.Delete(ctx); err != nil {
			return deleted, errors.Internal("Failed to delete message", err)
		}
		deleted++
	}

	return deleted, nil
}

// SweepOrphanedMessages removes messages whose chat no longer exists. The
// cascade in DeleteChat runs messages-first, so orphans only appear when a
// delete failed between the two steps; this sweep is the cleanup for that.
func (r *firestoreChatRepository) SweepOrphanedMessages(ctx context.Context, batchSize int) (int, error) {
	query := r.client.Collection("messages").Limit(batchSize)

	docs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return 0, errors.Internal("Failed to fetch messages for sweep", err)
	}

	chatExists := make(map[string]bool)
	deleted := 0

	for _, doc := range docs {
		var message entity.Message
		if err := doc.DataTo(&message); err != nil {
			logger.Warn("Skipping malformed message document %s: %v", doc.Ref.ID, err)
			continue
		}

		exists, checked := chatExists[message.ChatID]
		if !checked {
			_, err := r.client.Collection("chats").Doc(message.ChatID).Get(ctx)
			if err != nil {
				if status.Code(err) != codes.NotFound {
					return deleted, errors.Internal("Failed to check chat existence", err)
				}
				exists = false
			} else {
				exists = true
			}
			chatExists[message.ChatID] = exists
		}

		if exists {
			continue
		}

		if _, err := doc.Ref.Delete(ctx); err != nil {
			return deleted, errors.Internal("Failed to delete orphaned message", err)
		}
		deleted++
	}

	return deleted, nil
}
