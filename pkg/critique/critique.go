// Package critique asks a language model to review the docstring of one
// code block and decodes the structured verdict.
package critique

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/panbanda/docaudit/pkg/models"
)

// Critic reviews one code block.
type Critic interface {
	Critique(ctx context.Context, block string) (models.Critique, error)
}

// CriticFunc adapts a function to the Critic interface.
type CriticFunc func(ctx context.Context, block string) (models.Critique, error)

// Critique implements Critic.
func (f CriticFunc) Critique(ctx context.Context, block string) (models.Critique, error) {
	return f(ctx, block)
}

// Provider names a model backend.
type Provider string

const (
	ProviderOpenAI Provider = "openai"
	ProviderGemini Provider = "gemini"
)

// DefaultModel is the model used when none is configured.
const DefaultModel = "gpt-4"

// Options configures a backend.
type Options struct {
	Provider    Provider
	Model       string
	BaseURL     string
	APIKey      string
	Temperature float64
	Timeout     time.Duration
	// JSONMode asks the backend to constrain output to a JSON object. Not
	// every OpenAI model accepts it.
	JSONMode bool
	Style    Style
}

// ResolveProvider returns the configured provider, inferring it from the
// model name when empty.
func ResolveProvider(provider, model string) (Provider, error) {
	switch strings.ToLower(provider) {
	case "":
		if strings.HasPrefix(strings.ToLower(model), "gemini") {
			return ProviderGemini, nil
		}
		return ProviderOpenAI, nil
	case string(ProviderOpenAI):
		return ProviderOpenAI, nil
	case string(ProviderGemini):
		return ProviderGemini, nil
	default:
		return "", fmt.Errorf("unknown model provider %q (want openai or gemini)", provider)
	}
}

// DefaultAPIKeyEnv returns the environment variable holding the API key.
func DefaultAPIKeyEnv(p Provider) string {
	if p == ProviderGemini {
		return "GEMINI_API_KEY"
	}
	return "OPENAI_API_KEY"
}

// New creates the backend selected by opts.
func New(ctx context.Context, opts Options) (Critic, error) {
	if opts.Model == "" {
		opts.Model = DefaultModel
	}
	if opts.Style.Name == "" {
		style, err := LookupStyle(DefaultStyle)
		if err != nil {
			return nil, err
		}
		opts.Style = style
	}
	provider, err := ResolveProvider(string(opts.Provider), opts.Model)
	if err != nil {
		return nil, err
	}
	if opts.APIKey == "" {
		opts.APIKey = os.Getenv(DefaultAPIKeyEnv(provider))
	}

	switch provider {
	case ProviderGemini:
		return NewGeminiClient(ctx, opts)
	default:
		return NewOpenAIClient(opts), nil
	}
}
