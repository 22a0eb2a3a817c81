package llm

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
)

// NewModel creates a langchaingo model for the configured provider.
func NewModel(ctx context.Context, provider, model, apiKey string) (llms.Model, error) {
	switch provider {
	case "googleai":
		return googleai.New(ctx,
			googleai.WithAPIKey(apiKey),
			googleai.WithDefaultModel(model),
		)
	case "openai":
		opts := []openai.Option{openai.WithModel(model)}
		if apiKey != "" {
			opts = append(opts, openai.WithToken(apiKey))
		}
		return openai.New(opts...)
	case "ollama":
		return ollama.New(ollama.WithModel(model))
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", provider)
	}
}
