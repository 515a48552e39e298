package mongodb

import (
	"context"
	"fmt"

	"chatbot-backend/internal/config"
	"chatbot-backend/internal/logger"
	"chatbot-backend/internal/repository/db"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const conversationsCollection = "conversations"

// Store implements db.Store on top of a MongoDB collection. Each operation
// is its own atomic unit; no multi-step transaction spans a chat turn.
type Store struct {
	client        *mongo.Client
	conversations *mongo.Collection
}

// Connect establishes the MongoDB connection, verifies it with a ping and
// ensures the lookup indexes exist.
func Connect(ctx context.Context, cfg config.MongoConfig) (*Store, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	collection := client.Database(cfg.Database).Collection(conversationsCollection)

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}}},
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "conversation_id", Value: 1}}},
	}
	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		return nil, fmt.Errorf("failed to create indexes: %w", err)
	}

	logger.Log.WithField("database", cfg.Database).Info("Connected to MongoDB")

	return &Store{client: client, conversations: collection}, nil
}

// Close disconnects the underlying client.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func conversationFilter(userID, conversationID string) bson.M {
	return bson.M{"user_id": userID, "conversation_id": conversationID}
}

// FindConversation looks up a conversation by the exact (userID, conversationID) pair.
func (s *Store) FindConversation(ctx context.Context, userID, conversationID string) (*db.Conversation, error) {
	var conversation db.Conversation
	err := s.conversations.FindOne(ctx, conversationFilter(userID, conversationID)).Decode(&conversation)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find conversation: %w", err)
	}
	return &conversation, nil
}

// InsertConversation persists a newly created conversation.
func (s *Store) InsertConversation(ctx context.Context, conversation *db.Conversation) error {
	if _, err := s.conversations.InsertOne(ctx, conversation); err != nil {
		return fmt.Errorf("failed to insert conversation: %w", err)
	}
	return nil
}

// SaveConversation replaces the stored document wholesale. Concurrent turns
// on the same conversation race here: last write wins.
func (s *Store) SaveConversation(ctx context.Context, conversation *db.Conversation) error {
	filter := conversationFilter(conversation.UserID, conversation.ConversationID)
	if _, err := s.conversations.ReplaceOne(ctx, filter, conversation); err != nil {
		return fmt.Errorf("failed to save conversation: %w", err)
	}
	return nil
}

// ListConversations returns a user's conversations sorted by updated_at
// descending, paginated by skip and limit.
func (s *Store) ListConversations(ctx context.Context, userID string, limit, skip int) ([]db.Conversation, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "updated_at", Value: -1}}).
		SetSkip(int64(skip)).
		SetLimit(int64(limit))

	cursor, err := s.conversations.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}
	defer cursor.Close(ctx)

	conversations := []db.Conversation{}
	if err := cursor.All(ctx, &conversations); err != nil {
		return nil, fmt.Errorf("failed to decode conversations: %w", err)
	}
	return conversations, nil
}

// CountConversations returns the total number of conversations for a user.
func (s *Store) CountConversations(ctx context.Context, userID string) (int64, error) {
	count, err := s.conversations.CountDocuments(ctx, bson.M{"user_id": userID})
	if err != nil {
		return 0, fmt.Errorf("failed to count conversations: %w", err)
	}
	return count, nil
}

// DeleteConversation hard-deletes a conversation, reporting whether it existed.
func (s *Store) DeleteConversation(ctx context.Context, userID, conversationID string) (bool, error) {
	result, err := s.conversations.DeleteOne(ctx, conversationFilter(userID, conversationID))
	if err != nil {
		return false, fmt.Errorf("failed to delete conversation: %w", err)
	}
	return result.DeletedCount > 0, nil
}
