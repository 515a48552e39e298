package chat

import (
	"context"
	"fmt"

	"chatbot-backend/internal/config"
	"chatbot-backend/internal/logger"
	"chatbot-backend/internal/repository/db"
	"chatbot-backend/internal/service/conversation"
	"chatbot-backend/internal/service/llm"

	"github.com/sirupsen/logrus"
)

// ChatRequest contains all the parameters for one chat turn.
type ChatRequest struct {
	UserID         string
	ConversationID string
	Model          string
	Temperature    *float64
	MaxTokens      *int
	SystemPrompt   string
	Messages       []llm.Message
}

// ChatResult is the outcome of one chat turn.
type ChatResult struct {
	Message        llm.Message
	Usage          llm.Usage
	ConversationID string
}

// Service ties together conversation resolution, message persistence, context
// building and the completion orchestrator for one chat turn.
type Service struct {
	config        *config.AppConfig
	conversations *conversation.Service
	llm           *llm.Service
}

// NewService creates a new chat service.
func NewService(appConfig *config.AppConfig, conversations *conversation.Service, llmService *llm.Service) *Service {
	return &Service{
		config:        appConfig,
		conversations: conversations,
		llm:           llmService,
	}
}

// ProcessChat runs one chat turn: resolve or create the conversation, persist
// the inbound user message before the network call, build the bounded context
// window, invoke the LLM and persist its reply. Provider failures come back
// as tagged envelopes inside the result; only store failures return an error.
func (s *Service) ProcessChat(ctx context.Context, req ChatRequest) (*ChatResult, error) {
	if len(req.Messages) == 0 {
		return nil, fmt.Errorf("chat request has no messages")
	}

	model := req.Model
	if model == "" {
		model = s.config.LLM.DefaultModel
	}
	if model == "" && s.config.Models != nil {
		model = s.config.Models.GetDefaultModel()
	}
	if s.config.Models != nil && !s.config.Models.IsValidModel(model) {
		return nil, fmt.Errorf("invalid model: %s", model)
	}

	conv, err := s.conversations.GetOrCreate(ctx, req.UserID, req.ConversationID, model)
	if err != nil {
		return nil, fmt.Errorf("failed to get/create conversation: %w", err)
	}

	// The last inbound message is the user turn. It is durable before the
	// provider call begins, so a failed or timed-out call never loses it.
	userTurn := req.Messages[len(req.Messages)-1]
	conv, err = s.conversations.AddMessage(ctx, req.UserID, conv.ConversationID, db.Message{
		Role:    userTurn.Role,
		Content: userTurn.Content,
	}, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to save user message: %w", err)
	}

	systemPrompt := req.SystemPrompt
	if systemPrompt == "" {
		systemPrompt = s.config.LLM.DefaultSystemPrompt
	}

	contextMessages := s.conversations.BuildContext(conv.Messages, systemPrompt)

	logger.Log.WithFields(logrus.Fields{
		"conversation_id": conv.ConversationID,
		"context_size":    len(contextMessages),
		"model":           model,
	}).Debug("Prepared context window for LLM call")

	completion := s.llm.GenerateResponse(ctx, contextMessages, llm.Options{
		Model:       model,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}, "")

	if completion.Failed() {
		logger.Log.WithFields(logrus.Fields{
			"conversation_id": conv.ConversationID,
			"error":           completion.Err,
		}).Warn("LLM call returned an error envelope")
	}

	if _, err := s.conversations.AddMessage(ctx, req.UserID, conv.ConversationID, db.Message{
		Role:    db.RoleAssistant,
		Content: completion.Message.Content,
	}, completion.TotalTokens()); err != nil {
		return nil, fmt.Errorf("failed to save assistant message: %w", err)
	}

	return &ChatResult{
		Message:        completion.Message,
		Usage:          completion.Usage,
		ConversationID: conv.ConversationID,
	}, nil
}
