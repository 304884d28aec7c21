package llm

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
)

// Client is the model access used by extraction and email generation.
type Client interface {
	// GenerateContent returns the model's text answer to prompt.
	GenerateContent(ctx context.Context, prompt string, tier ModelTier) (string, error)
	// GenerateJSON asks for a JSON answer and strips any code fence around it.
	GenerateJSON(ctx context.Context, prompt string, tier ModelTier) (string, error)
	GetModel(tier ModelTier) string
	Close() error
}

// NewClient creates the client for config.Provider. A nil config uses DefaultConfig.
// opts are passed to the provider SDK.
func NewClient(ctx context.Context, config *Config, apiKey string, opts ...option.ClientOption) (Client, error) {
	if config == nil {
		config = DefaultConfig()
	}
	switch config.Provider {
	case ProviderGemini, "":
		return NewGeminiClient(ctx, config, apiKey, opts...)
	default:
		return nil, fmt.Errorf("unsupported LLM provider %q", config.Provider)
	}
}

// TierGenerator binds a client to one tier and output mode, so callers only
// deal with prompt in, text out.
type TierGenerator struct {
	Client Client
	Tier   ModelTier
	// JSON requests a JSON response.
	JSON bool
}

// Generate sends prompt to the bound tier.
func (g *TierGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	if g.JSON {
		return g.Client.GenerateJSON(ctx, prompt, g.Tier)
	}
	return g.Client.GenerateContent(ctx, prompt, g.Tier)
}
