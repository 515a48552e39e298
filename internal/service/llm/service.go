package llm

import (
	"context"

	"chatbot-backend/internal/config"
	"chatbot-backend/internal/logger"
)

// Service wraps exactly one Provider, chosen once via the factory from
// configuration. It is the single layer guaranteed never to propagate a
// failure to its caller: provider outages arrive as tagged envelopes from
// the adapter, and any panic below this layer is converted into a
// service_error envelope.
type Service struct {
	config   *config.LLMConfig
	provider Provider
}

// NewService creates the completion orchestrator for the configured provider.
func NewService(llmConfig *config.LLMConfig) (*Service, error) {
	provider, err := NewProvider(llmConfig.Provider, llmConfig)
	if err != nil {
		return nil, err
	}
	return &Service{config: llmConfig, provider: provider}, nil
}

// NewServiceWithProvider creates a Service around an existing provider.
func NewServiceWithProvider(llmConfig *config.LLMConfig, provider Provider) *Service {
	return &Service{config: llmConfig, provider: provider}
}

// GenerateResponse builds the outbound message list (prepending the system
// prompt when given), delegates to the provider and guarantees the returned
// envelope always carries a non-nil usage map.
func (s *Service) GenerateResponse(ctx context.Context, messages []Message, opts Options, systemPrompt string) (completion *Completion) {
	defer func() {
		if r := recover(); r != nil {
			logger.Log.WithField("panic", r).Error("Recovered panic while generating LLM response")
			completion = &Completion{
				Message: Message{
					Role:    RoleAssistant,
					Content: "I'm sorry, but there was an error processing your request. Please try again later.",
				},
				Usage: Usage{},
				Err:   ErrServiceError,
			}
		}
	}()

	processed := make([]Message, 0, len(messages)+1)
	if systemPrompt != "" {
		processed = append(processed, Message{Role: RoleSystem, Content: systemPrompt})
	}
	processed = append(processed, messages...)

	completion = s.provider.GenerateCompletion(ctx, processed, opts)
	if completion == nil {
		logger.Log.Error("Provider returned a nil completion")
		completion = &Completion{
			Message: Message{
				Role:    RoleAssistant,
				Content: "I'm sorry, but there was an error processing your request. Please try again later.",
			},
			Usage: Usage{},
			Err:   ErrServiceError,
		}
	}
	if completion.Usage == nil {
		completion.Usage = Usage{}
	}
	return completion
}
