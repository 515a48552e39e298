package db

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Message roles. Conversations only ever contain these three.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a single entry in a conversation. Messages are immutable once
// appended and their order within a conversation is significant.
type Message struct {
	Role    string `bson:"role" json:"role"`
	Content string `bson:"content" json:"content"`
}

// Conversation is the persisted document for one user conversation. Messages
// are embedded and append-only; TokenCount accumulates whatever usage each
// turn reports and is never decremented.
type Conversation struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	UserID         string             `bson:"user_id" json:"user_id"`
	ConversationID string             `bson:"conversation_id" json:"conversation_id"`
	Title          string             `bson:"title,omitempty" json:"title,omitempty"`
	Messages       []Message          `bson:"messages" json:"messages"`
	Model          string             `bson:"model,omitempty" json:"model,omitempty"`
	TokenCount     int                `bson:"token_count" json:"token_count"`
	CreatedAt      time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time          `bson:"updated_at" json:"updated_at"`
}
