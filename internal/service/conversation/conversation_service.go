package conversation

import (
	"context"
	"fmt"
	"time"

	"chatbot-backend/internal/config"
	"chatbot-backend/internal/logger"
	"chatbot-backend/internal/repository/db"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// maxTitleLength is how much of the first user message becomes the
// conversation title before truncation.
const maxTitleLength = 30

// Service owns the conversation entity: lookup, creation, message append,
// listing and deletion, all against the minimal persistence interface.
type Service struct {
	store      db.Store
	llmConfig  *config.LLMConfig
	windowSize int
}

// NewService creates a new conversation service.
func NewService(store db.Store, llmConfig *config.LLMConfig) *Service {
	return &Service{
		store:      store,
		llmConfig:  llmConfig,
		windowSize: llmConfig.ContextWindowSize,
	}
}

// Get retrieves a conversation by the exact (userID, conversationID) pair.
// Returns nil when not found.
func (s *Service) Get(ctx context.Context, userID, conversationID string) (*db.Conversation, error) {
	return s.store.FindConversation(ctx, userID, conversationID)
}

// Create persists a new conversation with a generated id, an empty message
// list and a zero token count.
func (s *Service) Create(ctx context.Context, userID, title, model string) (*db.Conversation, error) {
	now := time.Now().UTC()
	conversation := &db.Conversation{
		UserID:         userID,
		ConversationID: uuid.NewString(),
		Title:          title,
		Model:          model,
		Messages:       []db.Message{},
		TokenCount:     0,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.store.InsertConversation(ctx, conversation); err != nil {
		return nil, fmt.Errorf("failed to create conversation: %w", err)
	}

	logger.Log.WithFields(logrus.Fields{
		"user_id":         userID,
		"conversation_id": conversation.ConversationID,
	}).Info("Created conversation")

	return conversation, nil
}

// GetOrCreate resolves an existing conversation or creates a new one when the
// id is empty or unknown. A stale or client-supplied conversation id never
// hard-fails a chat turn.
func (s *Service) GetOrCreate(ctx context.Context, userID, conversationID, model string) (*db.Conversation, error) {
	if conversationID != "" {
		conversation, err := s.Get(ctx, userID, conversationID)
		if err != nil {
			return nil, err
		}
		if conversation != nil {
			return conversation, nil
		}
		logger.Log.WithFields(logrus.Fields{
			"user_id":         userID,
			"conversation_id": conversationID,
		}).Warn("Conversation not found, creating new one")
	}
	return s.Create(ctx, userID, "", model)
}

// AddMessage appends a message to a conversation, accumulating tokenCount
// into the running total and refreshing updated_at. If the conversation does
// not exist it is silently created with the configured default model. The
// first user message sets the title when none is set yet.
func (s *Service) AddMessage(ctx context.Context, userID, conversationID string, message db.Message, tokenCount int) (*db.Conversation, error) {
	conversation, err := s.Get(ctx, userID, conversationID)
	if err != nil {
		return nil, err
	}

	if conversation == nil {
		logger.Log.WithFields(logrus.Fields{
			"user_id":         userID,
			"conversation_id": conversationID,
		}).Warn("Conversation not found for append, creating new one")
		conversation, err = s.Create(ctx, userID, "", s.llmConfig.DefaultModel)
		if err != nil {
			return nil, err
		}
	}

	conversation.Messages = append(conversation.Messages, message)
	conversation.TokenCount += tokenCount
	conversation.UpdatedAt = time.Now().UTC()

	if len(conversation.Messages) == 1 && message.Role == db.RoleUser && conversation.Title == "" {
		conversation.Title = TitleFromContent(message.Content)
	}

	if err := s.store.SaveConversation(ctx, conversation); err != nil {
		return nil, fmt.Errorf("failed to save conversation: %w", err)
	}

	return conversation, nil
}

// List returns a page of the user's conversations, most recently active
// first.
func (s *Service) List(ctx context.Context, userID string, limit, skip int) ([]db.Conversation, error) {
	return s.store.ListConversations(ctx, userID, limit, skip)
}

// Count returns the total number of conversations for a user.
func (s *Service) Count(ctx context.Context, userID string) (int64, error) {
	return s.store.CountConversations(ctx, userID)
}

// Delete hard-deletes a conversation, reporting whether it existed.
func (s *Service) Delete(ctx context.Context, userID, conversationID string) (bool, error) {
	deleted, err := s.store.DeleteConversation(ctx, userID, conversationID)
	if err != nil {
		return false, err
	}
	if deleted {
		logger.Log.WithFields(logrus.Fields{
			"user_id":         userID,
			"conversation_id": conversationID,
		}).Info("Deleted conversation")
	}
	return deleted, nil
}

// TitleFromContent derives a conversation title from the first user message:
// the content verbatim when it fits, else the first 30 characters with a
// trailing ellipsis marker.
func TitleFromContent(content string) string {
	runes := []rune(content)
	if len(runes) > maxTitleLength {
		return string(runes[:maxTitleLength]) + "..."
	}
	return content
}
