package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"chatbot-backend/internal/logger"

	"github.com/sirupsen/logrus"
)

// AppConfig holds all application configuration
type AppConfig struct {
	Server ServerConfig
	Mongo  MongoConfig
	LLM    LLMConfig
	Models *ModelsConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port string
}

// MongoConfig holds document store connection configuration
type MongoConfig struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// LLMConfig holds LLM provider configuration
type LLMConfig struct {
	Provider            string
	OpenRouterAPIKey    string
	GeminiAPIKey        string
	DefaultModel        string
	DefaultTemperature  float64
	MaxTokens           int
	DefaultSystemPrompt string
	ContextWindowSize   int
	RequestTimeout      time.Duration
}

// LoadConfig loads and validates application configuration from environment
func LoadConfig() (*AppConfig, error) {
	config := &AppConfig{}

	config.Server = ServerConfig{
		Port: getEnvOrDefault("SERVER_PORT", "8080"),
	}

	config.Mongo = MongoConfig{
		URI:      getEnvOrDefault("MONGODB_URI", "mongodb://localhost:27017"),
		Database: getEnvOrDefault("MONGODB_DB", "chatbot"),
		Timeout:  getEnvAsDuration("MONGODB_TIMEOUT", 10*time.Second),
	}

	openRouterKey := os.Getenv("OPENROUTER_API_KEY")
	if openRouterKey == "" {
		logger.Log.Warn("OPENROUTER_API_KEY environment variable not set")
	}

	config.LLM = LLMConfig{
		Provider:            getEnvOrDefault("LLM_PROVIDER", "openrouter"),
		OpenRouterAPIKey:    openRouterKey,
		GeminiAPIKey:        os.Getenv("GEMINI_API_KEY"),
		DefaultModel:        getEnvOrDefault("DEFAULT_MODEL", "openai/gpt-3.5-turbo"),
		DefaultTemperature:  getEnvAsFloat("DEFAULT_TEMPERATURE", 0.7),
		MaxTokens:           getEnvAsInt("MAX_TOKENS", 1000),
		DefaultSystemPrompt: getEnvOrDefault("SYSTEM_PROMPT", "You are a helpful AI assistant."),
		ContextWindowSize:   getEnvAsInt("CONTEXT_WINDOW_SIZE", 10),
		RequestTimeout:      getEnvAsDuration("REQUEST_TIMEOUT", 60*time.Second),
	}

	if config.LLM.ContextWindowSize < 1 {
		return nil, fmt.Errorf("CONTEXT_WINDOW_SIZE must be at least 1 (got %d)", config.LLM.ContextWindowSize)
	}

	modelsConfigPath := getEnvOrDefault("MODELS_CONFIG_PATH", "config/models.json")
	modelsConfig, err := NewModelsConfig(modelsConfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load models config: %w", err)
	}
	config.Models = modelsConfig

	return config, nil
}

// Helper functions for environment variable parsing

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		logger.Log.WithFields(logrus.Fields{"key": key, "default": defaultValue}).Warn("Invalid integer value, using default")
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		logger.Log.WithFields(logrus.Fields{"key": key, "default": defaultValue}).Warn("Invalid float value, using default")
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		logger.Log.WithFields(logrus.Fields{"key": key, "default": defaultValue}).Warn("Invalid duration value, using default")
		return defaultValue
	}
	return value
}
