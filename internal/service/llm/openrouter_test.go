package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestOpenRouterProvider(serverURL string) *OpenRouterProvider {
	p := NewOpenRouterProvider(testLLMConfig())
	p.baseURL = serverURL
	p.client = &http.Client{Timeout: 2 * time.Second}
	return p
}

func TestOpenRouter_Success(t *testing.T) {
	var captured openRouterRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Expected bearer auth header, got %q", got)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("Failed to decode request: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": "Hi there"}},
			},
			"usage": map[string]any{"prompt_tokens": 5, "completion_tokens": 7, "total_tokens": 12},
		})
	}))
	defer server.Close()

	provider := newTestOpenRouterProvider(server.URL)
	completion := provider.GenerateCompletion(context.Background(), []Message{{Role: RoleUser, Content: "Hello"}}, Options{})

	if completion.Failed() {
		t.Fatalf("Expected success, got error tag %q", completion.Err)
	}
	if completion.Message.Content != "Hi there" {
		t.Errorf("Expected content 'Hi there', got %q", completion.Message.Content)
	}
	if completion.TotalTokens() != 12 {
		t.Errorf("Expected total tokens 12, got %d", completion.TotalTokens())
	}
	if captured.Model != "openai/gpt-3.5-turbo" {
		t.Errorf("Expected configured default model in request, got %q", captured.Model)
	}
	if captured.Temperature == nil || *captured.Temperature != 0.7 {
		t.Error("Expected configured default temperature in request")
	}
	if captured.MaxTokens == nil || *captured.MaxTokens != 1000 {
		t.Error("Expected configured default max tokens in request")
	}
}

func TestOpenRouter_OptionsOverrideDefaults(t *testing.T) {
	var captured openRouterRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&captured)
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{{"message": map[string]any{"role": "assistant", "content": "ok"}}},
		})
	}))
	defer server.Close()

	temp := 0.2
	maxTokens := 64
	provider := newTestOpenRouterProvider(server.URL)
	provider.GenerateCompletion(context.Background(), nil, Options{
		Model:       "openai/gpt-4o-mini",
		Temperature: &temp,
		MaxTokens:   &maxTokens,
	})

	if captured.Model != "openai/gpt-4o-mini" {
		t.Errorf("Expected override model, got %q", captured.Model)
	}
	if captured.Temperature == nil || *captured.Temperature != 0.2 {
		t.Error("Expected override temperature")
	}
	if captured.MaxTokens == nil || *captured.MaxTokens != 64 {
		t.Error("Expected override max tokens")
	}
}

func TestOpenRouter_StripsJupyterMarker(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": "#<jupyter_text> actual reply"}},
			},
		})
	}))
	defer server.Close()

	provider := newTestOpenRouterProvider(server.URL)
	completion := provider.GenerateCompletion(context.Background(), nil, Options{})

	if completion.Message.Content != "actual reply" {
		t.Errorf("Expected marker stripped, got %q", completion.Message.Content)
	}
}

func TestOpenRouter_RateLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"code":429,"message":"rate limit exceeded"}}`))
	}))
	defer server.Close()

	provider := newTestOpenRouterProvider(server.URL)
	completion := provider.GenerateCompletion(context.Background(), nil, Options{})

	if completion.Err != ErrRateLimit {
		t.Errorf("Expected rate_limit tag, got %q", completion.Err)
	}
	if completion.Message.Content == "" {
		t.Error("Expected a user-safe message")
	}
}

func TestOpenRouter_RateLimitInsideOKBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"code": 429, "message": "quota exhausted"},
		})
	}))
	defer server.Close()

	provider := newTestOpenRouterProvider(server.URL)
	completion := provider.GenerateCompletion(context.Background(), nil, Options{})

	if completion.Err != ErrRateLimit {
		t.Errorf("Expected rate_limit tag, got %q", completion.Err)
	}
}

func TestOpenRouter_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("upstream exploded"))
	}))
	defer server.Close()

	provider := newTestOpenRouterProvider(server.URL)
	completion := provider.GenerateCompletion(context.Background(), nil, Options{})

	if completion.Err != ErrAPIError {
		t.Errorf("Expected api_error tag, got %q", completion.Err)
	}
}

func TestOpenRouter_MalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json at all"))
	}))
	defer server.Close()

	provider := newTestOpenRouterProvider(server.URL)
	completion := provider.GenerateCompletion(context.Background(), nil, Options{})

	if completion.Err != ErrAPIError {
		t.Errorf("Expected api_error tag, got %q", completion.Err)
	}
	if completion.Message.Content == "" {
		t.Error("Expected a user-safe message")
	}
}

func TestOpenRouter_EmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	provider := newTestOpenRouterProvider(server.URL)
	completion := provider.GenerateCompletion(context.Background(), nil, Options{})

	if completion.Err != ErrNoResponse {
		t.Errorf("Expected no_response tag, got %q", completion.Err)
	}
}

func TestOpenRouter_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	provider := newTestOpenRouterProvider(server.URL)
	provider.client = &http.Client{Timeout: 50 * time.Millisecond}
	completion := provider.GenerateCompletion(context.Background(), nil, Options{})

	if completion.Err != ErrNoResponse {
		t.Errorf("Expected no_response tag on timeout, got %q", completion.Err)
	}
	if completion.Message.Content == "" {
		t.Error("Expected a user-safe message on timeout")
	}
}

func TestOpenRouter_NoUsageReported(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{{"message": map[string]any{"role": "assistant", "content": "ok"}}},
		})
	}))
	defer server.Close()

	provider := newTestOpenRouterProvider(server.URL)
	completion := provider.GenerateCompletion(context.Background(), nil, Options{})

	if completion.Usage == nil {
		t.Fatal("Expected empty usage map, got nil")
	}
	if len(completion.Usage) != 0 {
		t.Errorf("Expected empty usage map, got %v", completion.Usage)
	}
}
