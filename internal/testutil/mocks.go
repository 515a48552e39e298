package testutil

import (
	"context"
	"errors"
	"time"

	"chatbot-backend/internal/config"
	"chatbot-backend/internal/repository/db"
	"chatbot-backend/internal/service/llm"
)

// MockStore is a mock implementation of db.Store for testing
type MockStore struct {
	FindConversationFunc   func(ctx context.Context, userID, conversationID string) (*db.Conversation, error)
	InsertConversationFunc func(ctx context.Context, conversation *db.Conversation) error
	SaveConversationFunc   func(ctx context.Context, conversation *db.Conversation) error
	ListConversationsFunc  func(ctx context.Context, userID string, limit, skip int) ([]db.Conversation, error)
	CountConversationsFunc func(ctx context.Context, userID string) (int64, error)
	DeleteConversationFunc func(ctx context.Context, userID, conversationID string) (bool, error)
}

func (m *MockStore) FindConversation(ctx context.Context, userID, conversationID string) (*db.Conversation, error) {
	if m.FindConversationFunc != nil {
		return m.FindConversationFunc(ctx, userID, conversationID)
	}
	return nil, errors.New("not implemented")
}

func (m *MockStore) InsertConversation(ctx context.Context, conversation *db.Conversation) error {
	if m.InsertConversationFunc != nil {
		return m.InsertConversationFunc(ctx, conversation)
	}
	return errors.New("not implemented")
}

func (m *MockStore) SaveConversation(ctx context.Context, conversation *db.Conversation) error {
	if m.SaveConversationFunc != nil {
		return m.SaveConversationFunc(ctx, conversation)
	}
	return errors.New("not implemented")
}

func (m *MockStore) ListConversations(ctx context.Context, userID string, limit, skip int) ([]db.Conversation, error) {
	if m.ListConversationsFunc != nil {
		return m.ListConversationsFunc(ctx, userID, limit, skip)
	}
	return nil, errors.New("not implemented")
}

func (m *MockStore) CountConversations(ctx context.Context, userID string) (int64, error) {
	if m.CountConversationsFunc != nil {
		return m.CountConversationsFunc(ctx, userID)
	}
	return 0, errors.New("not implemented")
}

func (m *MockStore) DeleteConversation(ctx context.Context, userID, conversationID string) (bool, error) {
	if m.DeleteConversationFunc != nil {
		return m.DeleteConversationFunc(ctx, userID, conversationID)
	}
	return false, errors.New("not implemented")
}

// MemoryStore is an in-memory db.Store for tests that exercise multi-step
// flows, keeping conversations keyed by (userID, conversationID).
type MemoryStore struct {
	Conversations map[string]*db.Conversation
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{Conversations: map[string]*db.Conversation{}}
}

func storeKey(userID, conversationID string) string {
	return userID + "/" + conversationID
}

func (m *MemoryStore) FindConversation(ctx context.Context, userID, conversationID string) (*db.Conversation, error) {
	if conv, ok := m.Conversations[storeKey(userID, conversationID)]; ok {
		copied := *conv
		copied.Messages = append([]db.Message{}, conv.Messages...)
		return &copied, nil
	}
	return nil, nil
}

func (m *MemoryStore) InsertConversation(ctx context.Context, conversation *db.Conversation) error {
	copied := *conversation
	m.Conversations[storeKey(conversation.UserID, conversation.ConversationID)] = &copied
	return nil
}

func (m *MemoryStore) SaveConversation(ctx context.Context, conversation *db.Conversation) error {
	copied := *conversation
	copied.Messages = append([]db.Message{}, conversation.Messages...)
	m.Conversations[storeKey(conversation.UserID, conversation.ConversationID)] = &copied
	return nil
}

func (m *MemoryStore) ListConversations(ctx context.Context, userID string, limit, skip int) ([]db.Conversation, error) {
	all := []db.Conversation{}
	for _, conv := range m.Conversations {
		if conv.UserID == userID {
			all = append(all, *conv)
		}
	}
	// Sort by updated_at descending, insertion-order-stable enough for tests.
	for i := 0; i < len(all); i++ {
		for j := i + 1; j < len(all); j++ {
			if all[j].UpdatedAt.After(all[i].UpdatedAt) {
				all[i], all[j] = all[j], all[i]
			}
		}
	}
	if skip >= len(all) {
		return []db.Conversation{}, nil
	}
	all = all[skip:]
	if limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

func (m *MemoryStore) CountConversations(ctx context.Context, userID string) (int64, error) {
	var count int64
	for _, conv := range m.Conversations {
		if conv.UserID == userID {
			count++
		}
	}
	return count, nil
}

func (m *MemoryStore) DeleteConversation(ctx context.Context, userID, conversationID string) (bool, error) {
	key := storeKey(userID, conversationID)
	if _, ok := m.Conversations[key]; !ok {
		return false, nil
	}
	delete(m.Conversations, key)
	return true, nil
}

// MockProvider is a mock implementation of llm.Provider for testing
type MockProvider struct {
	GenerateCompletionFunc func(ctx context.Context, messages []llm.Message, opts llm.Options) *llm.Completion
}

func (m *MockProvider) GenerateCompletion(ctx context.Context, messages []llm.Message, opts llm.Options) *llm.Completion {
	if m.GenerateCompletionFunc != nil {
		return m.GenerateCompletionFunc(ctx, messages, opts)
	}
	return &llm.Completion{
		Message: llm.Message{Role: llm.RoleAssistant, Content: "mock response"},
		Usage:   llm.Usage{},
	}
}

// NewTestConfig creates an AppConfig for tests
func NewTestConfig() *config.AppConfig {
	return &config.AppConfig{
		LLM: config.LLMConfig{
			Provider:            "openrouter",
			OpenRouterAPIKey:    "test-api-key",
			GeminiAPIKey:        "test-api-key",
			DefaultModel:        "openai/gpt-3.5-turbo",
			DefaultTemperature:  0.7,
			MaxTokens:           1000,
			DefaultSystemPrompt: "You are a helpful AI assistant.",
			ContextWindowSize:   10,
			RequestTimeout:      5 * time.Second,
		},
		Models: &config.ModelsConfig{},
	}
}
