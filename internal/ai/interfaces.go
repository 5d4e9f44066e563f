package ai

import (
	"context"
)

// AIProvider interface for different inference backends
// All methods return token usage information - callers can ignore it if not needed
type AIProvider interface {
	// Complete sends a free-form prompt and returns the raw markdown reply.
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, *TokenUsage, error)
	// CompleteJSON requests a strict-JSON reply. The schema parameter is
	// backend specific; providers that enforce structure at the protocol
	// level may ignore it.
	CompleteJSON(ctx context.Context, systemPrompt, userPrompt string, schema any) (string, *TokenUsage, error)
	GetModelInfo(ctx context.Context) *ModelInfo
	Close() error
}

// TokenUsage represents token usage information from AI responses
type TokenUsage struct {
	InputTokens  int64
	OutputTokens int64
	TotalTokens  int64
}

// ModelInfo represents information about the AI model
type ModelInfo struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName,omitempty"`
	Version     string `json:"version,omitempty"`
	Available   bool   `json:"available"`
	Error       string `json:"error,omitempty"`
}
