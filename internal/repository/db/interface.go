package db

import "context"

// Store defines the minimal persistence surface the conversation service
// depends on. Keeping it this small decouples business rules from the
// document store driver and makes them testable through mocks.
type Store interface {
	// FindConversation looks up a conversation by the exact
	// (userID, conversationID) pair. Returns nil, nil when absent.
	FindConversation(ctx context.Context, userID, conversationID string) (*Conversation, error)

	// InsertConversation persists a newly created conversation.
	InsertConversation(ctx context.Context, conversation *Conversation) error

	// SaveConversation replaces the stored document with the given one.
	// Last write wins; there is no version predicate on the replace.
	SaveConversation(ctx context.Context, conversation *Conversation) error

	// ListConversations returns conversations for a user sorted by
	// updated_at descending, paginated by skip and limit.
	ListConversations(ctx context.Context, userID string, limit, skip int) ([]Conversation, error)

	// CountConversations returns the total number of conversations for a user.
	CountConversations(ctx context.Context, userID string) (int64, error)

	// DeleteConversation hard-deletes a conversation. Returns false when the
	// (userID, conversationID) pair does not exist.
	DeleteConversation(ctx context.Context, userID, conversationID string) (bool, error)
}
