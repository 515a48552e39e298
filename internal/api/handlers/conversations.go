package handlers

import (
	"net/http"
	"strconv"
	"time"

	"chatbot-backend/internal/logger"
	"chatbot-backend/internal/repository/db"
	"chatbot-backend/pkg/validation"
)

type ConversationInfo struct {
	ConversationID string `json:"conversation_id"`
	Title          string `json:"title,omitempty"`
	UpdatedAt      string `json:"updated_at"`
	Model          string `json:"model,omitempty"`
	MessageCount   int    `json:"message_count"`
}

type ConversationListResponse struct {
	Conversations []ConversationInfo `json:"conversations"`
	Total         int64              `json:"total"`
}

type MessagesResponse struct {
	Messages []db.Message `json:"messages"`
}

// ListConversationsHandler handles GET /api/conversations
func (ch *ChatHandlers) ListConversationsHandler(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if err := ch.validator.ValidateUserID(userID); err != nil {
		ch.sendError(w, http.StatusBadRequest, err.Error())
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	skip, _ := strconv.Atoi(r.URL.Query().Get("skip"))
	limit, skip = validation.NormalizeListParams(limit, skip)

	conversations, err := ch.conversations.List(r.Context(), userID, limit, skip)
	if err != nil {
		logger.Log.WithError(err).Error("Error listing conversations")
		ch.sendError(w, http.StatusInternalServerError, "Failed to list conversations")
		return
	}

	total, err := ch.conversations.Count(r.Context(), userID)
	if err != nil {
		logger.Log.WithError(err).Error("Error counting conversations")
		ch.sendError(w, http.StatusInternalServerError, "Failed to list conversations")
		return
	}

	infos := make([]ConversationInfo, 0, len(conversations))
	for _, conv := range conversations {
		infos = append(infos, ConversationInfo{
			ConversationID: conv.ConversationID,
			Title:          conv.Title,
			UpdatedAt:      conv.UpdatedAt.Format(time.RFC3339),
			Model:          conv.Model,
			MessageCount:   len(conv.Messages),
		})
	}

	ch.sendJSON(w, http.StatusOK, ConversationListResponse{
		Conversations: infos,
		Total:         total,
	})
}

// GetConversationMessagesHandler handles GET /api/conversations/{id}/messages
func (ch *ChatHandlers) GetConversationMessagesHandler(w http.ResponseWriter, r *http.Request) {
	conversationID := r.PathValue("id")
	userID := r.URL.Query().Get("user_id")
	if err := ch.validator.ValidateUserID(userID); err != nil {
		ch.sendError(w, http.StatusBadRequest, err.Error())
		return
	}

	conv, err := ch.conversations.Get(r.Context(), userID, conversationID)
	if err != nil {
		logger.Log.WithError(err).Error("Error fetching conversation")
		ch.sendError(w, http.StatusInternalServerError, "Failed to fetch conversation")
		return
	}
	if conv == nil {
		ch.sendError(w, http.StatusNotFound, "Conversation not found")
		return
	}

	ch.sendJSON(w, http.StatusOK, MessagesResponse{Messages: conv.Messages})
}

// DeleteConversationHandler handles DELETE /api/conversations/{id}
func (ch *ChatHandlers) DeleteConversationHandler(w http.ResponseWriter, r *http.Request) {
	conversationID := r.PathValue("id")
	userID := r.URL.Query().Get("user_id")
	if err := ch.validator.ValidateUserID(userID); err != nil {
		ch.sendError(w, http.StatusBadRequest, err.Error())
		return
	}

	deleted, err := ch.conversations.Delete(r.Context(), userID, conversationID)
	if err != nil {
		logger.Log.WithError(err).Error("Error deleting conversation")
		ch.sendError(w, http.StatusInternalServerError, "Failed to delete conversation")
		return
	}
	if !deleted {
		ch.sendError(w, http.StatusNotFound, "Conversation not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
