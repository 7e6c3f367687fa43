package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config holds all configuration options for docaudit.
type Config struct {
	// Model backend settings
	Model ModelConfig `koanf:"model" toml:"model"`

	// Docstring convention
	Style StyleConfig `koanf:"style" toml:"style"`

	// Critique retry policy
	Retry RetryConfig `koanf:"retry" toml:"retry"`

	// Directory walk settings
	Scan ScanConfig `koanf:"scan" toml:"scan"`

	// Auto-fix settings
	Fix FixConfig `koanf:"fix" toml:"fix"`

	// Output settings
	Output OutputConfig `koanf:"output" toml:"output"`

	// Critique cache settings
	Cache CacheConfig `koanf:"cache" toml:"cache"`
}

// ModelConfig selects the critique backend.
type ModelConfig struct {
	Provider       string  `koanf:"provider" toml:"provider"` // openai, gemini, or empty to infer from name
	Name           string  `koanf:"name" toml:"name"`
	BaseURL        string  `koanf:"base_url" toml:"base_url"`
	APIKeyEnv      string  `koanf:"api_key_env" toml:"api_key_env"`
	Temperature    float64 `koanf:"temperature" toml:"temperature"`
	TimeoutSeconds int     `koanf:"timeout_seconds" toml:"timeout_seconds"`
	JSONMode       bool    `koanf:"json_mode" toml:"json_mode"`
}

// Timeout returns the per-request timeout.
func (m ModelConfig) Timeout() time.Duration {
	return time.Duration(m.TimeoutSeconds) * time.Second
}

// StyleConfig names the docstring convention.
type StyleConfig struct {
	Name string `koanf:"name" toml:"name"`
}

// RetryConfig bounds critique retries.
type RetryConfig struct {
	MaxAttempts int `koanf:"max_attempts" toml:"max_attempts"`
	BaseDelayMS int `koanf:"base_delay_ms" toml:"base_delay_ms"`
}

// BaseDelay returns the delay before the second attempt.
func (r RetryConfig) BaseDelay() time.Duration {
	return time.Duration(r.BaseDelayMS) * time.Millisecond
}

// ScanConfig controls which files a directory walk visits.
type ScanConfig struct {
	IgnoreDirs []string `koanf:"ignore_dirs" toml:"ignore_dirs"`
	Extensions []string `koanf:"extensions" toml:"extensions"`
	Gitignore  bool     `koanf:"gitignore" toml:"gitignore"`
}

// FixConfig controls auto-fix behavior.
type FixConfig struct {
	Mode                 string `koanf:"mode" toml:"mode"` // span, global
	SkipMissingDocstring bool   `koanf:"skip_missing_docstring" toml:"skip_missing_docstring"`
}

// OutputConfig controls output formatting.
type OutputConfig struct {
	Format  string `koanf:"format" toml:"format"` // text, json, markdown, toon
	Color   bool   `koanf:"color" toml:"color"`
	Verbose bool   `koanf:"verbose" toml:"verbose"`
}

// CacheConfig controls the on-disk critique cache.
type CacheConfig struct {
	Enabled  bool   `koanf:"enabled" toml:"enabled"`
	Dir      string `koanf:"dir" toml:"dir"`
	TTLHours int    `koanf:"ttl_hours" toml:"ttl_hours"`
}

var (
	validProviders = []string{"", "openai", "gemini"}
	validStyles    = []string{"google", "numpydoc", "sphinx"}
	validFixModes  = []string{"span", "global"}
	validFormats   = []string{"text", "json", "markdown", "toon"}
)

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Model: ModelConfig{
			Name:           "gpt-4",
			BaseURL:        "https://api.openai.com/v1/chat/completions",
			Temperature:    0.1,
			TimeoutSeconds: 120,
		},
		Style: StyleConfig{
			Name: "numpydoc",
		},
		Retry: RetryConfig{
			MaxAttempts: 3,
			BaseDelayMS: 1000,
		},
		Scan: ScanConfig{
			IgnoreDirs: []string{"tests"},
			Extensions: []string{".py"},
		},
		Fix: FixConfig{
			Mode:                 "span",
			SkipMissingDocstring: true,
		},
		Output: OutputConfig{
			Format: "text",
			Color:  true,
		},
		Cache: CacheConfig{
			Dir:      ".docaudit/cache",
			TTLHours: 168,
		},
	}
}

// Validate reports every invalid value in the config.
func (c *Config) Validate() error {
	var errs []error
	if !slices.Contains(validProviders, strings.ToLower(c.Model.Provider)) {
		errs = append(errs, fmt.Errorf("model.provider: unknown provider %q", c.Model.Provider))
	}
	if c.Model.Name == "" {
		errs = append(errs, errors.New("model.name: must not be empty"))
	}
	if c.Model.Temperature < 0 || c.Model.Temperature > 2 {
		errs = append(errs, fmt.Errorf("model.temperature: %v out of range [0, 2]", c.Model.Temperature))
	}
	if c.Model.TimeoutSeconds <= 0 {
		errs = append(errs, fmt.Errorf("model.timeout_seconds: must be positive, got %d", c.Model.TimeoutSeconds))
	}
	if !slices.Contains(validStyles, strings.ToLower(c.Style.Name)) {
		errs = append(errs, fmt.Errorf("style.name: unknown style %q (want one of %s)", c.Style.Name, strings.Join(validStyles, ", ")))
	}
	if c.Retry.MaxAttempts < 1 {
		errs = append(errs, fmt.Errorf("retry.max_attempts: must be at least 1, got %d", c.Retry.MaxAttempts))
	}
	if c.Retry.BaseDelayMS < 0 {
		errs = append(errs, fmt.Errorf("retry.base_delay_ms: must not be negative, got %d", c.Retry.BaseDelayMS))
	}
	if !slices.Contains(validFixModes, strings.ToLower(c.Fix.Mode)) {
		errs = append(errs, fmt.Errorf("fix.mode: unknown mode %q", c.Fix.Mode))
	}
	if !slices.Contains(validFormats, strings.ToLower(c.Output.Format)) {
		errs = append(errs, fmt.Errorf("output.format: unknown format %q", c.Output.Format))
	}
	if c.Cache.Enabled && c.Cache.Dir == "" {
		errs = append(errs, errors.New("cache.dir: must not be empty when the cache is enabled"))
	}
	if c.Cache.Enabled && c.Cache.TTLHours <= 0 {
		errs = append(errs, fmt.Errorf("cache.ttl_hours: must be positive, got %d", c.Cache.TTLHours))
	}
	for _, ext := range c.Scan.Extensions {
		if !strings.HasPrefix(ext, ".") {
			errs = append(errs, fmt.Errorf("scan.extensions: %q must start with a dot", ext))
		}
	}
	return errors.Join(errs...)
}

// Load loads configuration from a file.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := DefaultConfig()

	// Determine parser based on extension
	var parser koanf.Parser
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		parser = toml.Parser()
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		parser = toml.Parser()
	}

	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// configNames are the file names searched for, in order, in each search dir.
var configNames = []string{
	"docaudit.toml",
	"docaudit.yaml",
	"docaudit.yml",
	"docaudit.json",
	".docaudit.toml",
	".docaudit.yaml",
	".docaudit.yml",
	".docaudit.json",
}

// searchDirs are checked relative to the working directory.
var searchDirs = []string{".", ".docaudit"}

// Find returns the first config file in the standard locations, or "".
func Find() string {
	for _, dir := range searchDirs {
		for _, name := range configNames {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				return path
			}
		}
	}
	return ""
}

// LoadOption customizes LoadConfig.
type LoadOption func(*loadOptions)

type loadOptions struct {
	path string
}

// WithPath loads an explicit file instead of searching.
func WithPath(path string) LoadOption {
	return func(o *loadOptions) { o.path = path }
}

// LoadResult is a validated config and the file it came from.
type LoadResult struct {
	Config *Config
	// Source is empty when defaults were used.
	Source string
}

// LoadConfig loads and validates the configuration. It
// reports errors in a found or explicit file instead of falling back.
func LoadConfig(opts ...LoadOption) (*LoadResult, error) {
	var o loadOptions
	for _, opt := range opts {
		opt(&o)
	}

	path := o.path
	if path == "" {
		path = Find()
	}
	if path == "" {
		cfg := DefaultConfig()
		return &LoadResult{Config: cfg}, cfg.Validate()
	}

	cfg, err := Load(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &LoadResult{Config: cfg, Source: path}, nil
}
