package handlers

import (
	"encoding/json"
	"net/http"

	"chatbot-backend/internal/app"
	"chatbot-backend/internal/logger"
	chatService "chatbot-backend/internal/service/chat"
	conversationService "chatbot-backend/internal/service/conversation"
	"chatbot-backend/internal/service/llm"
	"chatbot-backend/pkg/validation"
)

// Request/Response types

type ChatRequest struct {
	UserID         string        `json:"user_id"`
	ConversationID string        `json:"conversation_id,omitempty"`
	Model          string        `json:"model,omitempty"`
	Temperature    *float64      `json:"temperature,omitempty"`
	MaxTokens      *int          `json:"max_tokens,omitempty"`
	SystemPrompt   string        `json:"system_prompt,omitempty"`
	Messages       []llm.Message `json:"messages"`
}

type ChatResponse struct {
	Message        llm.Message `json:"message"`
	Usage          llm.Usage   `json:"usage"`
	ConversationID string      `json:"conversation_id"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// ChatHandlers exposes the chat and conversation endpoints over the service
// layer.
type ChatHandlers struct {
	config        *app.Config
	validator     *validation.ChatRequestValidator
	chatService   *chatService.Service
	conversations *conversationService.Service
}

// NewChatHandlers creates the handler set around the given services.
func NewChatHandlers(cfg *app.Config, chat *chatService.Service, conversations *conversationService.Service) *ChatHandlers {
	return &ChatHandlers{
		config:        cfg,
		validator:     validation.NewChatRequestValidator(),
		chatService:   chat,
		conversations: conversations,
	}
}

// ChatHandler handles POST /api/chat
func (ch *ChatHandlers) ChatHandler(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ch.sendError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := ch.validator.ValidateChatRequest(req.UserID, req.Messages, req.Temperature, req.MaxTokens); err != nil {
		ch.sendError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := ch.chatService.ProcessChat(r.Context(), chatService.ChatRequest{
		UserID:         req.UserID,
		ConversationID: req.ConversationID,
		Model:          req.Model,
		Temperature:    req.Temperature,
		MaxTokens:      req.MaxTokens,
		SystemPrompt:   req.SystemPrompt,
		Messages:       req.Messages,
	})
	if err != nil {
		logger.Log.WithError(err).Error("Error processing chat request")
		ch.sendError(w, http.StatusInternalServerError, "Failed to generate response from LLM service")
		return
	}

	ch.sendJSON(w, http.StatusOK, ChatResponse{
		Message:        result.Message,
		Usage:          result.Usage,
		ConversationID: result.ConversationID,
	})
}

// ModelsHandler handles GET /api/models
func (ch *ChatHandlers) ModelsHandler(w http.ResponseWriter, r *http.Request) {
	models := ch.config.AppConfig.Models.GetAvailableModels()
	ch.sendJSON(w, http.StatusOK, map[string]any{"models": models})
}

// HealthHandler handles GET /api/health
func (ch *ChatHandlers) HealthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func (ch *ChatHandlers) sendJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Log.WithError(err).Error("Error encoding response")
	}
}

func (ch *ChatHandlers) sendError(w http.ResponseWriter, status int, message string) {
	ch.sendJSON(w, status, ErrorResponse{Error: message})
}
