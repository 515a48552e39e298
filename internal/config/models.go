package config

import (
	"encoding/json"
	"os"
)

// Model represents an available LLM model
type Model struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Provider string `json:"provider"`
}

// ModelsConfig holds the available models configuration
type ModelsConfig struct {
	models []Model
}

// NewModelsConfig creates a new models configuration from a file
func NewModelsConfig(configPath string) (*ModelsConfig, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	var models []Model
	if err := json.Unmarshal(data, &models); err != nil {
		return nil, err
	}

	return &ModelsConfig{models: models}, nil
}

// GetAvailableModels returns the list of available models
func (mc *ModelsConfig) GetAvailableModels() []Model {
	return mc.models
}

// GetDefaultModel returns the first model in the catalog, or empty when the
// catalog is empty.
func (mc *ModelsConfig) GetDefaultModel() string {
	if len(mc.models) == 0 {
		return ""
	}
	return mc.models[0].ID
}

// IsValidModel checks if a model ID is in the list of available models.
// An empty models list accepts any model id so the service can run
// without a curated catalog.
func (mc *ModelsConfig) IsValidModel(modelID string) bool {
	if len(mc.models) == 0 {
		return true
	}
	for _, model := range mc.models {
		if model.ID == modelID {
			return true
		}
	}
	return false
}
