package validation

import (
	"testing"

	"chatbot-backend/internal/service/llm"
)

func TestValidateUserID(t *testing.T) {
	v := NewChatRequestValidator()

	if err := v.ValidateUserID(""); err == nil {
		t.Error("Expected error for empty user id")
	}
	if err := v.ValidateUserID("user-1"); err != nil {
		t.Errorf("Expected no error, got: %v", err)
	}
}

func TestValidateMessages(t *testing.T) {
	v := NewChatRequestValidator()

	tests := []struct {
		name     string
		messages []llm.Message
		wantErr  bool
	}{
		{"empty list", nil, true},
		{"valid single user message", []llm.Message{{Role: "user", Content: "hi"}}, false},
		{"valid multi-turn", []llm.Message{
			{Role: "system", Content: "be nice"},
			{Role: "user", Content: "hi"},
			{Role: "assistant", Content: "hello"},
			{Role: "user", Content: "more"},
		}, false},
		{"invalid role", []llm.Message{{Role: "robot", Content: "hi"}}, true},
		{"empty last content", []llm.Message{{Role: "user", Content: ""}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateMessages(tt.messages)
			if tt.wantErr && err == nil {
				t.Error("Expected error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Expected no error, got: %v", err)
			}
		})
	}
}

func TestValidateTemperature(t *testing.T) {
	v := NewChatRequestValidator()

	if err := v.ValidateTemperature(nil); err != nil {
		t.Errorf("Expected nil temperature to be valid, got: %v", err)
	}

	valid := 0.7
	if err := v.ValidateTemperature(&valid); err != nil {
		t.Errorf("Expected 0.7 to be valid, got: %v", err)
	}

	low := -0.1
	if err := v.ValidateTemperature(&low); err == nil {
		t.Error("Expected error for negative temperature")
	}

	high := 2.5
	if err := v.ValidateTemperature(&high); err == nil {
		t.Error("Expected error for temperature above 2")
	}
}

func TestValidateMaxTokens(t *testing.T) {
	v := NewChatRequestValidator()

	if err := v.ValidateMaxTokens(nil); err != nil {
		t.Errorf("Expected nil max tokens to be valid, got: %v", err)
	}

	valid := 500
	if err := v.ValidateMaxTokens(&valid); err != nil {
		t.Errorf("Expected 500 to be valid, got: %v", err)
	}

	zero := 0
	if err := v.ValidateMaxTokens(&zero); err == nil {
		t.Error("Expected error for zero max tokens")
	}
}

func TestNormalizeListParams(t *testing.T) {
	tests := []struct {
		name          string
		limit, skip   int
		wantLimit     int
		wantSkip      int
	}{
		{"defaults applied", 0, 0, 10, 0},
		{"within bounds", 25, 5, 25, 5},
		{"limit clamped to max", 500, 0, 100, 0},
		{"negative limit defaulted", -3, 0, 10, 0},
		{"negative skip zeroed", 10, -1, 10, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			limit, skip := NormalizeListParams(tt.limit, tt.skip)
			if limit != tt.wantLimit || skip != tt.wantSkip {
				t.Errorf("NormalizeListParams(%d, %d) = (%d, %d), want (%d, %d)",
					tt.limit, tt.skip, limit, skip, tt.wantLimit, tt.wantSkip)
			}
		})
	}
}
