package ai

import "context"

// ChatResult holds the assistant reply from a chat completion call.
type ChatResult struct {
	Content    string
	TokensUsed int
}

// ChatCompleter is implemented by LLM providers used for minutes generation.
type ChatCompleter interface {
	// Complete sends a system and user message and returns the assistant
	// content. Implementations must respect ctx cancellation.
	Complete(ctx context.Context, systemPrompt, userPrompt string) (*ChatResult, error)

	// Name returns the provider identifier used in logs and metrics.
	Name() string
}
