package validation

import (
	"errors"
	"fmt"

	"chatbot-backend/internal/service/llm"
)

// List pagination bounds.
const (
	DefaultListLimit = 10
	MaxListLimit     = 100
)

// ChatRequestValidator validates chat-related requests
type ChatRequestValidator struct{}

// NewChatRequestValidator creates a new ChatRequestValidator
func NewChatRequestValidator() *ChatRequestValidator {
	return &ChatRequestValidator{}
}

// ValidateUserID validates the user identifier
func (v *ChatRequestValidator) ValidateUserID(userID string) error {
	if userID == "" {
		return errors.New("user_id is required")
	}
	return nil
}

// ValidateMessages validates the inbound message list
func (v *ChatRequestValidator) ValidateMessages(messages []llm.Message) error {
	if len(messages) == 0 {
		return errors.New("messages cannot be empty")
	}

	for i, message := range messages {
		switch message.Role {
		case llm.RoleSystem, llm.RoleUser, llm.RoleAssistant:
		default:
			return fmt.Errorf("messages[%d] has invalid role %q", i, message.Role)
		}
	}

	if messages[len(messages)-1].Content == "" {
		return errors.New("last message content cannot be empty")
	}

	return nil
}

// ValidateTemperature validates the temperature parameter
func (v *ChatRequestValidator) ValidateTemperature(temperature *float64) error {
	if temperature == nil {
		return nil // Temperature is optional
	}

	if *temperature < 0 || *temperature > 2 {
		return fmt.Errorf("temperature must be between 0 and 2, got %.2f", *temperature)
	}
	return nil
}

// ValidateMaxTokens validates the max_tokens parameter
func (v *ChatRequestValidator) ValidateMaxTokens(maxTokens *int) error {
	if maxTokens == nil {
		return nil // Max tokens is optional
	}

	if *maxTokens <= 0 {
		return fmt.Errorf("max_tokens must be positive, got %d", *maxTokens)
	}
	return nil
}

// ValidateChatRequest validates a complete chat request
func (v *ChatRequestValidator) ValidateChatRequest(userID string, messages []llm.Message, temperature *float64, maxTokens *int) error {
	if err := v.ValidateUserID(userID); err != nil {
		return err
	}

	if err := v.ValidateMessages(messages); err != nil {
		return err
	}

	if err := v.ValidateTemperature(temperature); err != nil {
		return err
	}

	if err := v.ValidateMaxTokens(maxTokens); err != nil {
		return err
	}

	return nil
}

// NormalizeListParams applies defaults and bounds to conversation listing
// parameters: limit defaults to 10 and is clamped to 1..100, skip to >= 0.
func NormalizeListParams(limit, skip int) (int, int) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	if skip < 0 {
		skip = 0
	}
	return limit, skip
}
