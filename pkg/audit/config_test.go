package audit

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/panbanda/docaudit/pkg/config"
	"github.com/panbanda/docaudit/pkg/critique"
	"github.com/panbanda/docaudit/pkg/models"
	"github.com/panbanda/docaudit/pkg/patch"
)

func TestCriticOptions(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("CUSTOM_KEY", "custom")

	cfg := config.DefaultConfig()
	opts, err := CriticOptions(cfg)
	require.NoError(t, err)
	assert.Equal(t, critique.ProviderOpenAI, opts.Provider)
	assert.Equal(t, "gpt-4", opts.Model)
	assert.Equal(t, "sk-test", opts.APIKey)
	assert.Equal(t, "numpydoc", opts.Style.Name)
	assert.Equal(t, 120*time.Second, opts.Timeout)
	assert.Equal(t, cfg.Model.BaseURL, opts.BaseURL)

	cfg.Model.Name = "gemini-2.5-flash"
	cfg.Model.APIKeyEnv = "CUSTOM_KEY"
	cfg.Style.Name = "google"
	opts, err = CriticOptions(cfg)
	require.NoError(t, err)
	assert.Equal(t, critique.ProviderGemini, opts.Provider)
	assert.Equal(t, "custom", opts.APIKey)
	assert.Empty(t, opts.BaseURL, "the OpenAI endpoint is not passed to gemini")
	assert.Equal(t, "Google", opts.Style.Display)

	cfg.Style.Name = "epydoc"
	_, err = CriticOptions(cfg)
	assert.Error(t, err)
}

func TestNewCritic(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Retry.BaseDelayMS = 0

	var got critique.Options
	calls := 0
	factory := func(_ context.Context, opts critique.Options) (critique.Critic, error) {
		got = opts
		return critique.CriticFunc(func(context.Context, string) (models.Critique, error) {
			calls++
			return models.Critique{}, errors.New("unavailable")
		}), nil
	}

	var logs int
	critic, err := NewCritic(context.Background(), cfg, factory, func(string, ...any) { logs++ })
	require.NoError(t, err)
	assert.Equal(t, "gpt-4", got.Model)

	_, err = critic.Critique(context.Background(), "def f(): pass")
	assert.True(t, critique.IsRetriesExhausted(err))
	assert.Equal(t, 3, calls)
	assert.Equal(t, 2, logs)
}

func TestNewCritic_Cache(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Cache.Enabled = true
	cfg.Cache.Dir = filepath.Join(t.TempDir(), "cache")

	calls := 0
	factory := func(context.Context, critique.Options) (critique.Critic, error) {
		return critique.CriticFunc(func(_ context.Context, block string) (models.Critique, error) {
			calls++
			return models.Critique{Function: "f", Warning: "Terse."}, nil
		}), nil
	}

	for range 2 {
		critic, err := NewCritic(context.Background(), cfg, factory, nil)
		require.NoError(t, err)
		got, err := critic.Critique(context.Background(), "def f(): pass")
		require.NoError(t, err)
		assert.Equal(t, "Terse.", got.Warning)
	}
	assert.Equal(t, 1, calls, "second run should be served from disk")

	// A different style is a different verdict.
	cfg.Style.Name = "google"
	critic, err := NewCritic(context.Background(), cfg, factory, nil)
	require.NoError(t, err)
	_, err = critic.Critique(context.Background(), "def f(): pass")
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestCacheNamespace(t *testing.T) {
	style, err := critique.LookupStyle("numpydoc")
	require.NoError(t, err)
	ns := CacheNamespace(critique.Options{Provider: critique.ProviderOpenAI, Model: "gpt-4", Style: style, Temperature: 0.1})
	assert.Equal(t, "openai:gpt-4:numpydoc:0.1", ns)
}

func TestOptionsFromConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	opts, err := OptionsFromConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, patch.ModeSpan, opts.FixMode)
	assert.True(t, opts.SkipMissingDocstring)
	assert.Equal(t, []string{"tests"}, opts.Scan.IgnoreDirs)

	cfg.Fix.Mode = "nearest"
	_, err = OptionsFromConfig(cfg)
	assert.Error(t, err)
}
