package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"chatbot-backend/internal/config"
	"chatbot-backend/internal/logger"

	"github.com/sirupsen/logrus"
)

const geminiBaseURL = "https://generativelanguage.googleapis.com/v1beta/models"

// GeminiProvider implements Provider against the Gemini generateContent API.
// Gemini speaks a contents-history protocol rather than a flat message list:
// roles are remapped (user stays user, assistant becomes model), system
// messages travel in the out-of-band systemInstruction field, and the
// contents must end with a user turn.
type GeminiProvider struct {
	config  *config.LLMConfig
	baseURL string
	client  *http.Client
}

// NewGeminiProvider creates a new Gemini provider with config.
func NewGeminiProvider(llmConfig *config.LLMConfig) *GeminiProvider {
	return &GeminiProvider{
		config:  llmConfig,
		baseURL: geminiBaseURL,
		client:  &http.Client{Timeout: llmConfig.RequestTimeout},
	}
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiGenerationConfig struct {
	Temperature     *float64 `json:"temperature,omitempty"`
	MaxOutputTokens *int     `json:"maxOutputTokens,omitempty"`
}

type geminiRequest struct {
	Contents          []geminiContent        `json:"contents"`
	SystemInstruction *geminiContent         `json:"systemInstruction,omitempty"`
	GenerationConfig  geminiGenerationConfig `json:"generationConfig"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error,omitempty"`
}

// GenerateCompletion sends the messages to Gemini and normalizes the outcome
// into a Completion envelope. Gemini does not report per-turn token usage
// through this path, so the usage map is always empty.
func (p *GeminiProvider) GenerateCompletion(ctx context.Context, messages []Message, opts Options) *Completion {
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
	}).Info("Calling Gemini API")

	contents, systemInstruction := buildGeminiContents(messages)

	reqBody := geminiRequest{
		Contents:          contents,
		SystemInstruction: systemInstruction,
		GenerationConfig: geminiGenerationConfig{
			Temperature:     temperature,
			MaxOutputTokens: maxTokens,
		},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		logger.Log.WithError(err).Error("Error marshaling Gemini request")
		return apiErrorCompletion(fmt.Sprintf("Error: %v", err))
	}

	url := fmt.Sprintf("%s/%s:generateContent", p.baseURL, model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		logger.Log.WithError(err).Error("Error creating Gemini request")
		return apiErrorCompletion(fmt.Sprintf("Error: %v", err))
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", p.config.GeminiAPIKey)

	resp, err := p.client.Do(req)
	if err != nil {
		logger.Log.WithError(err).Error("Error sending Gemini request")
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
		logger.Log.WithError(err).Error("Error reading Gemini response body")
		return transportErrorCompletion(err)
	}

	if resp.StatusCode != http.StatusOK {
		logger.Log.WithFields(logrus.Fields{
			"status_code":     resp.StatusCode,
			"response_length": len(body),
		}).Error("Gemini API returned non-200 status")
		return statusErrorCompletion(resp.StatusCode, string(body))
	}

	var genResp geminiResponse
	if err := json.Unmarshal(body, &genResp); err != nil {
		logger.Log.WithError(err).Error("Error decoding Gemini response")
		return apiErrorCompletion("The AI service returned an unreadable response. Please try again later.")
	}

	if genResp.Error != nil {
		logger.Log.WithFields(logrus.Fields{
			"code":   genResp.Error.Code,
			"status": genResp.Error.Status,
		}).Error("Gemini reported an API error")
		if genResp.Error.Code == http.StatusTooManyRequests || isRateLimitText(genResp.Error.Message) {
			return &Completion{
				Message: Message{Role: RoleAssistant, Content: "Rate limit exceeded. Please try again later."},
				Usage:   Usage{},
				Err:     ErrRateLimit,
			}
		}
		return apiErrorCompletion(fmt.Sprintf("API error: %s", genResp.Error.Message))
	}

	if len(genResp.Candidates) == 0 || len(genResp.Candidates[0].Content.Parts) == 0 {
		logger.Log.WithField("response_length", len(body)).Error("No candidates in Gemini response")
		return &Completion{
			Message: Message{Role: RoleAssistant, Content: "No response received from the API."},
			Usage:   Usage{},
			Err:     ErrNoResponse,
		}
	}

	var content strings.Builder
	for _, part := range genResp.Candidates[0].Content.Parts {
		content.WriteString(part.Text)
	}

	logger.Log.WithField("content_length", content.Len()).Debug("Extracted content from Gemini response")

	return &Completion{
		Message: Message{Role: RoleAssistant, Content: content.String()},
		Usage:   Usage{},
	}
}

// buildGeminiContents converts neutral messages into the Gemini contents
// array plus the out-of-band system instruction. Gemini requires the contents
// to end on a user turn, so malformed alternation is repaired before the call
// rather than letting the remote call fail.
func buildGeminiContents(messages []Message) ([]geminiContent, *geminiContent) {
	var systemParts []geminiPart
	contents := []geminiContent{}

	for _, msg := range messages {
		switch msg.Role {
		case RoleSystem:
			systemParts = append(systemParts, geminiPart{Text: msg.Content})
		case RoleUser:
			contents = append(contents, geminiContent{Role: "user", Parts: []geminiPart{{Text: msg.Content}}})
		default:
			contents = append(contents, geminiContent{Role: "model", Parts: []geminiPart{{Text: msg.Content}}})
		}
	}

	if len(contents) == 0 {
		contents = append(contents, geminiContent{Role: "user", Parts: []geminiPart{{Text: "Hello"}}})
	} else if contents[len(contents)-1].Role != "user" {
		contents = append(contents, geminiContent{Role: "user", Parts: []geminiPart{{Text: "Please continue."}}})
	}

	var systemInstruction *geminiContent
	if len(systemParts) > 0 {
		systemInstruction = &geminiContent{Parts: systemParts}
	}

	return contents, systemInstruction
}
