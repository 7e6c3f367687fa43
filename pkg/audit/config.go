package audit

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/panbanda/docaudit/internal/cache"
	"github.com/panbanda/docaudit/pkg/config"
	"github.com/panbanda/docaudit/pkg/critique"
	"github.com/panbanda/docaudit/pkg/patch"
)

// CriticFactory builds a backend from options. critique.New is the default.
type CriticFactory func(ctx context.Context, opts critique.Options) (critique.Critic, error)

// CriticOptions converts the model and style sections of cfg to backend options.
func CriticOptions(cfg *config.Config) (critique.Options, error) {
	style, err := critique.LookupStyle(cfg.Style.Name)
	if err != nil {
		return critique.Options{}, err
	}
	provider, err := critique.ResolveProvider(cfg.Model.Provider, cfg.Model.Name)
	if err != nil {
		return critique.Options{}, err
	}

	opts := critique.Options{
		Provider:    provider,
		Model:       cfg.Model.Name,
		Temperature: cfg.Model.Temperature,
		Timeout:     cfg.Model.Timeout(),
		JSONMode:    cfg.Model.JSONMode,
		Style:       style,
	}
	// The default base URL only applies to the OpenAI backend.
	if provider == critique.ProviderOpenAI || cfg.Model.BaseURL != config.DefaultConfig().Model.BaseURL {
		opts.BaseURL = cfg.Model.BaseURL
	}

	env := cfg.Model.APIKeyEnv
	if env == "" {
		env = critique.DefaultAPIKeyEnv(provider)
	}
	opts.APIKey = os.Getenv(env)
	return opts, nil
}

// RetryPolicy converts the retry section of cfg. Retries are reported to logf.
func RetryPolicy(cfg *config.Config, logf func(format string, args ...any)) critique.RetryPolicy {
	policy := critique.RetryPolicy{
		MaxAttempts: cfg.Retry.MaxAttempts,
		BaseDelay:   cfg.Retry.BaseDelay(),
	}
	if logf != nil {
		policy.OnRetry = func(attempt int, err error, delay time.Duration) {
			logf("attempt %d/%d failed: %v (retrying in %s)", attempt, policy.MaxAttempts, err, delay)
		}
	}
	return policy
}

// NewCritic builds the configured backend wrapped in the configured retry
// policy and, when enabled, the critique cache.
func NewCritic(ctx context.Context, cfg *config.Config, factory CriticFactory, logf func(format string, args ...any)) (critique.Critic, error) {
	opts, err := CriticOptions(cfg)
	if err != nil {
		return nil, err
	}
	if factory == nil {
		factory = critique.New
	}
	backend, err := factory(ctx, opts)
	if err != nil {
		return nil, err
	}
	critic := critique.WithRetry(backend, RetryPolicy(cfg, logf))

	if !cfg.Cache.Enabled {
		return critic, nil
	}
	c, err := cache.New(cfg.Cache.Dir, cfg.Cache.TTLHours, true)
	if err != nil {
		return nil, fmt.Errorf("open critique cache: %w", err)
	}
	return cache.Wrap(critic, c, CacheNamespace(opts)), nil
}

// CacheNamespace identifies the settings that shape a verdict besides the block itself.
func CacheNamespace(opts critique.Options) string {
	return fmt.Sprintf("%s:%s:%s:%g", opts.Provider, opts.Model, opts.Style.Name, opts.Temperature)
}

// OptionsFromConfig converts the scan and fix sections of cfg.
func OptionsFromConfig(cfg *config.Config) (Options, error) {
	mode, err := patch.ParseMode(cfg.Fix.Mode)
	if err != nil {
		return Options{}, err
	}
	return Options{
		FixMode:              mode,
		SkipMissingDocstring: cfg.Fix.SkipMissingDocstring,
		Scan:                 cfg.Scan,
	}, nil
}
