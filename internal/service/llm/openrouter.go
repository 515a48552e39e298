package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"chatbot-backend/internal/config"
	"chatbot-backend/internal/logger"

	"github.com/sirupsen/logrus"
)

const openRouterURL = "https://openrouter.ai/api/v1/chat/completions"

// jupyterTextMarker is a non-content artifact some OpenRouter backends echo
// at the start of a reply; it is stripped before the content is returned.
const jupyterTextMarker = "#<jupyter_text>"

// OpenRouterProvider implements Provider against the OpenRouter
// chat-completions API (OpenAI-compatible dict protocol).
type OpenRouterProvider struct {
	config  *config.LLMConfig
	baseURL string
	client  *http.Client
}

// NewOpenRouterProvider creates a new OpenRouter provider with config.
func NewOpenRouterProvider(llmConfig *config.LLMConfig) *OpenRouterProvider {
	return &OpenRouterProvider{
		config:  llmConfig,
		baseURL: openRouterURL,
		client:  &http.Client{Timeout: llmConfig.RequestTimeout},
	}
}

type openRouterRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature *float64  `json:"temperature,omitempty"`
	MaxTokens   *int      `json:"max_tokens,omitempty"`
}

type openRouterError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type openRouterResponse struct {
	ID      string `json:"id"`
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
	Usage map[string]any   `json:"usage,omitempty"`
	Error *openRouterError `json:"error,omitempty"`
}

// GenerateCompletion sends the messages to OpenRouter and normalizes the
// outcome into a Completion envelope. It never returns an error: transport
// failures, non-200 statuses and malformed bodies all come back as tagged
// fail-soft envelopes.
func (p *OpenRouterProvider) GenerateCompletion(ctx context.Context, messages []Message, opts Options) *Completion {
	model := opts.Model
	if model == "" {
		model = p.config.DefaultModel
	}
	temperature := opts.Temperature
	if temperature == nil {
		temperature = &p.config.DefaultTemperature
	}
	maxTokens := opts.MaxTokens
	if maxTokens == nil {
		maxTokens = &p.config.MaxTokens
	}

	logger.Log.WithFields(logrus.Fields{
		"model":         model,
		"message_count": len(messages),
	}).Info("Calling OpenRouter API")

	reqBody := openRouterRequest{
		Model:       model,
		Messages:    messages,
		Temperature: temperature,
		MaxTokens:   maxTokens,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		logger.Log.WithError(err).Error("Error marshaling OpenRouter request")
		return apiErrorCompletion(fmt.Sprintf("Error: %v", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL, bytes.NewBuffer(jsonData))
	if err != nil {
		logger.Log.WithError(err).Error("Error creating OpenRouter request")
		return apiErrorCompletion(fmt.Sprintf("Error: %v", err))
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.config.OpenRouterAPIKey)
	req.Header.Set("HTTP-Referer", "http://localhost:3000")
	req.Header.Set("X-Title", "Chatbot Backend")

	resp, err := p.client.Do(req)
	if err != nil {
		logger.Log.WithError(err).Error("Error sending OpenRouter request")
		if isTimeout(err) {
			return &Completion{
				Message: Message{Role: RoleAssistant, Content: "The AI service did not respond in time. Please try again later."},
				Usage:   Usage{},
				Err:     ErrNoResponse,
			}
		}
		return transportErrorCompletion(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		logger.Log.WithError(err).Error("Error reading OpenRouter response body")
		return transportErrorCompletion(err)
	}

	if resp.StatusCode != http.StatusOK {
		logger.Log.WithFields(logrus.Fields{
			"status_code":     resp.StatusCode,
			"response_length": len(body),
		}).Error("OpenRouter API returned non-200 status")
		return statusErrorCompletion(resp.StatusCode, string(body))
	}

	var chatResp openRouterResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		logger.Log.WithError(err).Error("Error decoding OpenRouter response")
		return apiErrorCompletion("The AI service returned an unreadable response. Please try again later.")
	}

	// OpenRouter can report provider errors inside a 200 body.
	if chatResp.Error != nil {
		logger.Log.WithFields(logrus.Fields{
			"code":    chatResp.Error.Code,
			"message": chatResp.Error.Message,
		}).Error("OpenRouter reported an API error")
		if chatResp.Error.Code == http.StatusTooManyRequests {
			return &Completion{
				Message: Message{Role: RoleAssistant, Content: fmt.Sprintf("Rate limit exceeded. %s", chatResp.Error.Message)},
				Usage:   Usage{},
				Err:     ErrRateLimit,
			}
		}
		return apiErrorCompletion(fmt.Sprintf("API error: %s", chatResp.Error.Message))
	}

	if len(chatResp.Choices) == 0 {
		logger.Log.WithField("response_length", len(body)).Error("No choices in OpenRouter response")
		return &Completion{
			Message: Message{Role: RoleAssistant, Content: "No response received from the API."},
			Usage:   Usage{},
			Err:     ErrNoResponse,
		}
	}

	assistant := chatResp.Choices[0].Message
	content := strings.TrimSpace(strings.TrimPrefix(assistant.Content, jupyterTextMarker))

	usage := Usage{}
	for k, v := range chatResp.Usage {
		usage[k] = v
	}

	logger.Log.WithField("content_length", len(content)).Debug("Extracted content from OpenRouter response")

	role := assistant.Role
	if role == "" {
		role = RoleAssistant
	}

	return &Completion{
		Message: Message{Role: role, Content: content},
		Usage:   usage,
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr interface{ Timeout() bool }
	return errors.As(err, &netErr) && netErr.Timeout()
}

func transportErrorCompletion(err error) *Completion {
	if isRateLimitText(err.Error()) {
		return &Completion{
			Message: Message{Role: RoleAssistant, Content: "Rate limit exceeded. Please try again later."},
			Usage:   Usage{},
			Err:     ErrRateLimit,
		}
	}
	return apiErrorCompletion(fmt.Sprintf("Error: %v", err))
}

func statusErrorCompletion(statusCode int, body string) *Completion {
	if statusCode == http.StatusTooManyRequests || isRateLimitText(body) {
		return &Completion{
			Message: Message{Role: RoleAssistant, Content: "Rate limit exceeded. Please try again later."},
			Usage:   Usage{},
			Err:     ErrRateLimit,
		}
	}
	return apiErrorCompletion(fmt.Sprintf("API error: status %d", statusCode))
}

func apiErrorCompletion(content string) *Completion {
	return &Completion{
		Message: Message{Role: RoleAssistant, Content: content},
		Usage:   Usage{},
		Err:     ErrAPIError,
	}
}

func isRateLimitText(s string) bool {
	lower := strings.ToLower(s)
	return strings.Contains(lower, "rate limit") ||
		strings.Contains(lower, "quota") ||
		strings.Contains(lower, "429")
}
