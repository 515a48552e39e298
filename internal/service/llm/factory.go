package llm

import (
	"fmt"

	"chatbot-backend/internal/config"
	"chatbot-backend/internal/logger"
)

// ProviderType identifies a concrete LLM provider.
type ProviderType string

const (
	ProviderOpenRouter ProviderType = "openrouter"
	ProviderGemini     ProviderType = "gemini"
)

// ParseProviderType parses a string into a ProviderType. An empty string
// defaults to OpenRouter.
func ParseProviderType(s string) (ProviderType, error) {
	switch s {
	case "openrouter", "":
		return ProviderOpenRouter, nil
	case "gemini":
		return ProviderGemini, nil
	default:
		return "", fmt.Errorf("unknown provider type: %s", s)
	}
}

// NewProvider creates a provider by name. An unknown name is a configuration
// error surfaced at construction, not on the first request. Construction
// performs no network call.
func NewProvider(name string, llmConfig *config.LLMConfig) (Provider, error) {
	providerType, err := ParseProviderType(name)
	if err != nil {
		return nil, err
	}

	switch providerType {
	case ProviderOpenRouter:
		logger.Log.Info("Creating OpenRouter provider")
		return NewOpenRouterProvider(llmConfig), nil
	case ProviderGemini:
		logger.Log.Info("Creating Gemini provider")
		return NewGeminiProvider(llmConfig), nil
	default:
		return nil, fmt.Errorf("unsupported provider type: %s", providerType)
	}
}
