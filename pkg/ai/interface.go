package ai

import "context"

// ClassifierService is the interface for the external text classification
// function. Implement this interface to add new AI providers (Gemini,
// Ollama, OpenAI, etc.); the extraction layer only sees raw prompt in,
// free-text response out.
type ClassifierService interface {
	Classify(ctx context.Context, prompt string) (string, error)
}

// ProviderType represents the AI provider type
type ProviderType string

const (
	ProviderGemini ProviderType = "gemini"
	ProviderOllama ProviderType = "ollama"
	ProviderAuto   ProviderType = "auto"
)
