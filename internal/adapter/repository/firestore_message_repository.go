package repository

import (
	"context"
	"log"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"chatspace/internal/domain/entity"
	"chatspace/internal/domain/repository"
	"chatspace/pkg/errors"
)

// Messages live in a flat collection keyed by their own id, with chatId as a
// weak reference, so a message is addressable without knowing its chat.
type firestoreMessageRepository struct {
	client *firestore.Client
}

func NewFirestoreMessageRepository(client *firestore.Client) repository.MessageRepository {
	return &firestoreMessageRepository{
		client: client,
	}
}

func (r *firestoreMessageRepository) Create(ctx context.Context, message *entity.Message) error {
	if message.ID == "" {
		message.ID = uuid.New().String()
	}

	now := time.Now()
	message.CreatedAt = now
	message.UpdatedAt = now

	_, err := r.client.Collection("messages").Doc(message.ID).Set(ctx, message)
	if err != nil {
		return errors.Internal("Failed to create message", err)
	}

	return nil
}

func (r *firestoreMessageRepository) GetByID(ctx context.Context, id string) (*entity.Message, error) {
	doc, err := r.client.Collection("messages").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Message", err)
		}
		return nil, errors.Internal("Failed to get message", err)
	}

	var message entity.Message
	if err := doc.DataTo(&message); err != nil {
		return nil, errors.Internal("Failed to parse message data", err)
	}

	return &message, nil
}

func (r *firestoreMessageRepository) Update(ctx context.Context, message *entity.Message) error {
	message.UpdatedAt = time.Now()

	_, err := r.client.Collection("messages").Doc(message.ID).Set(ctx, message)
	if err != nil {
		return errors.Internal("Failed to update message", err)
	}

	return nil
}

func (r *firestoreMessageRepository) ListByChat(ctx context.Context, chatID string) ([]*entity.Message, error) {
	query := r.client.Collection("messages").Where("chatId", "==", chatID).OrderBy("createdAt", firestore.Desc)

	iter := query.Documents(ctx)
	var messages []*entity.Message

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			log.Printf("Firestore error while iterating messages for chat %s: %v", chatID, err)
			return nil, errors.Internal("Failed to iterate messages", err)
		}

		var message entity.Message
		if err := doc.DataTo(&message); err != nil {
			log.Printf("Error parsing message data for chat %s: %v", chatID, err)
			return nil, errors.Internal("Failed to parse message data", err)
		}

		messages = append(messages, &message)
	}

	return messages, nil
}

func (r *firestoreMessageRepository) LatestByChat(ctx context.Context, chatID string) (*entity.Message, error) {
	query := r.client.Collection("messages").
		Where("chatId", "==", chatID).
		Where("deleted", "==", false).
		OrderBy("createdAt", firestore.Desc).
		Limit(1)

	iter := query.Documents(ctx)
	doc, err := iter.Next()
	if err != nil {
		if err == iterator.Done {
			return nil, nil
		}
		return nil, errors.Internal("Failed to query latest message", err)
	}

	var message entity.Message
	if err := doc.DataTo(&message); err != nil {
		return nil, errors.Internal("Failed to parse message data", err)
	}

	return &message, nil
}

// Search scans message bodies and filters client-side; Firestore has no
// case-insensitive contains operator.
func (r *firestoreMessageRepository) Search(ctx context.Context, term string) ([]*entity.Message, error) {
	docs, err := r.client.Collection("messages").OrderBy("createdAt", firestore.Desc).Documents(ctx).GetAll()
	if err != nil {
		return nil, errors.Internal("Failed to search messages", err)
	}

	needle := strings.ToLower(term)
	var messages []*entity.Message
	for _, doc := range docs {
		var message entity.Message
		if err := doc.DataTo(&message); err != nil {
			continue
		}
		if strings.Contains(strings.ToLower(message.Body), needle) {
			messages = append(messages, &message)
		}
	}

	return messages, nil
}

func (r *firestoreMessageRepository) MarkChatRead(ctx context.Context, chatID, userID string) error {
	docs, err := r.client.Collection("messages").Where("chatId", "==", chatID).Documents(ctx).GetAll()
	if err != nil {
		return errors.Internal("Failed to fetch messages for read update", err)
	}

	for _, doc := range docs {
		var message entity.Message
		if err := doc.DataTo(&message); err != nil {
			continue
		}
		if message.ReadByUser(userID) {
			continue
		}
		message.ReadBy = append(message.ReadBy, userID)
		message.UpdatedAt = time.Now()
		if _, err := doc.Ref.Set(ctx, &message); err != nil {
			return errors.Internal("Failed to update message read status", err)
		}
	}

	return nil
}

func (r *firestoreMessageRepository) DeleteByChat(ctx context.Context, chatID string) error {
	docs, err := r.client.Collection("messages").Where("chatId", "==", chatID).Documents(ctx).GetAll()
	if err != nil {
		return errors.Internal("Failed to fetch messages for chat deletion", err)
	}

	for _, doc := range docs {
		if _, err := doc.Ref.Delete(ctx); err != nil {
			return errors.Internal("Failed to delete chat messages", err)
		}
	}

	return nil
}
