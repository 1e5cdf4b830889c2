package llm

import (
	"context"
	"fmt"
)

// Message is the provider-agnostic chat message shape shared by the prompt
// builder, the orchestrator and every backend client.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Options tune a single generation call.
type Options struct {
	Temperature float32
	// MaxTokens caps the reply length; zero means provider default.
	MaxTokens int
}

// Generator is a minimal abstraction over chat-based LLM backends.
// It intentionally hides concrete providers to preserve dependency direction.
// Implementations strip provider metadata so only plain text crosses this
// boundary, and report failures as *Error.
type Generator interface {
	Generate(ctx context.Context, messages []Message, opts Options) (string, error)
	Name() string
}

// Error carries an upstream provider failure.
type Error struct {
	Provider string
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("llm provider %s: %v", e.Provider, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }
