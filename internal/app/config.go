package app

import (
	"chatbot-backend/internal/config"
	"chatbot-backend/internal/repository/db"
)

// Config bundles the application dependencies handed to the API layer.
type Config struct {
	// Store is the document store behind conversation persistence
	Store db.Store
	// AppConfig is the configuration loaded once at process start
	AppConfig *config.AppConfig
}

// NewConfig creates a new application configuration
func NewConfig(store db.Store, appConfig *config.AppConfig) *Config {
	return &Config{
		Store:     store,
		AppConfig: appConfig,
	}
}
