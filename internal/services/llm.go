package services

import (
	"context"

	"github.com/hmiyata/story-atlas/pkg/chat"
)

// LLMService is the content proposer: given a structured prompt it returns a
// block of structured text describing locations and features. Parsing and
// fallback behavior belong to the generator, not to the provider.
type LLMService interface {
	// InitModel prepares the model for use on startup.
	InitModel(ctx context.Context, modelName string) error

	// Chat sends a conversation and returns the raw response text.
	Chat(ctx context.Context, messages []chat.ChatMessage) (string, error)
}
