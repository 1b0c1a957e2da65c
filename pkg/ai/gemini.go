package ai

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"google.golang.org/genai"
)

// GeminiChat is a ChatCompleter backed by the Gemini API. Multiple API keys
// can be supplied comma-separated; the client rotates to the next key when
// the current one is rate limited.
type GeminiChat struct {
	apiKeys    []string
	model      string
	mu         sync.Mutex
	currentKey int
}

// NewGeminiChat creates a Gemini chat client. apiKey may contain several keys
// separated by commas.
func NewGeminiChat(apiKey, model string) *GeminiChat {
	var keys []string
	for _, k := range strings.Split(apiKey, ",") {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	return &GeminiChat{
		apiKeys: keys,
		model:   model,
	}
}

// Complete sends the prompts to Gemini. Rotates API keys on 429 / quota
// errors.
func (g *GeminiChat) Complete(ctx context.Context, systemPrompt, userPrompt string) (*ChatResult, error) {
	if len(g.apiKeys) == 0 {
		return nil, fmt.Errorf("no Gemini API keys configured")
	}

	prompt := userPrompt
	if systemPrompt != "" {
		prompt = systemPrompt + "\n\n" + userPrompt
	}

	attempts := len(g.apiKeys)
	var lastErr error

	for range attempts {
		key := g.pickKey()

		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  key,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			lastErr = fmt.Errorf("create client: %w", err)
			g.rotateKey()
			continue
		}

		result, err := client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
		if err != nil {
			errMsg := err.Error()
			if strings.Contains(errMsg, "429") || strings.Contains(errMsg, "quota") || strings.Contains(errMsg, "RESOURCE_EXHAUSTED") {
				g.rotateKey()
				lastErr = err
				continue
			}
			return nil, fmt.Errorf("generate content: %w", err)
		}

		if result != nil && len(result.Candidates) > 0 && result.Candidates[0].Content != nil {
			var text strings.Builder
			for _, part := range result.Candidates[0].Content.Parts {
				if part.Text != "" {
					text.WriteString(part.Text)
				}
			}
			cr := &ChatResult{Content: text.String()}
			if result.UsageMetadata != nil {
				cr.TokensUsed = int(result.UsageMetadata.TotalTokenCount)
			}
			return cr, nil
		}

		return nil, fmt.Errorf("empty response from Gemini")
	}

	return nil, fmt.Errorf("all API keys exhausted: %w", lastErr)
}

func (g *GeminiChat) pickKey() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.apiKeys[g.currentKey]
}

func (g *GeminiChat) rotateKey() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.currentKey = (g.currentKey + 1) % len(g.apiKeys)
}

// Name returns the provider identifier used in logs and metrics.
func (g *GeminiChat) Name() string {
	return "gemini"
}
