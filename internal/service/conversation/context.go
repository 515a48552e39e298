package conversation

import (
	"chatbot-backend/internal/repository/db"
	"chatbot-backend/internal/service/llm"
)

// BuildContext derives the bounded message list sent to the LLM from the full
// conversation history: the optional system prompt first, then the last
// windowSize history entries in their original order. Pure function, no I/O.
func (s *Service) BuildContext(messages []db.Message, systemPrompt string) []llm.Message {
	return BuildContextWindow(messages, systemPrompt, s.windowSize)
}

// BuildContextWindow is the underlying pure builder for a given window size.
func BuildContextWindow(messages []db.Message, systemPrompt string, windowSize int) []llm.Message {
	context := []llm.Message{}
	if systemPrompt != "" {
		context = append(context, llm.Message{Role: llm.RoleSystem, Content: systemPrompt})
	}

	recent := messages
	if windowSize > 0 && len(messages) > windowSize {
		recent = messages[len(messages)-windowSize:]
	}

	for _, message := range recent {
		context = append(context, llm.Message{Role: message.Role, Content: message.Content})
	}

	return context
}
