package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg == nil {
		t.Fatal("DefaultConfig() returned nil")
	}

	// Check model defaults
	if cfg.Model.Name != "gpt-4" {
		t.Errorf("Model.Name = %s, want gpt-4", cfg.Model.Name)
	}
	if cfg.Model.Provider != "" {
		t.Errorf("Model.Provider = %q, want empty", cfg.Model.Provider)
	}
	if cfg.Model.Temperature != 0.1 {
		t.Errorf("Model.Temperature = %f, want 0.1", cfg.Model.Temperature)
	}
	if cfg.Model.Timeout() != 120*time.Second {
		t.Errorf("Model.Timeout() = %v, want 2m0s", cfg.Model.Timeout())
	}

	if cfg.Style.Name != "numpydoc" {
		t.Errorf("Style.Name = %s, want numpydoc", cfg.Style.Name)
	}

	// Check retry defaults
	if cfg.Retry.MaxAttempts != 3 {
		t.Errorf("Retry.MaxAttempts = %d, want 3", cfg.Retry.MaxAttempts)
	}
	if cfg.Retry.BaseDelay() != time.Second {
		t.Errorf("Retry.BaseDelay() = %v, want 1s", cfg.Retry.BaseDelay())
	}

	// Check scan defaults
	if len(cfg.Scan.IgnoreDirs) != 1 || cfg.Scan.IgnoreDirs[0] != "tests" {
		t.Errorf("Scan.IgnoreDirs = %v, want [tests]", cfg.Scan.IgnoreDirs)
	}
	if cfg.Scan.Gitignore {
		t.Error("Scan.Gitignore should be false by default")
	}

	if cfg.Fix.Mode != "span" {
		t.Errorf("Fix.Mode = %s, want span", cfg.Fix.Mode)
	}
	if !cfg.Fix.SkipMissingDocstring {
		t.Error("Fix.SkipMissingDocstring should be true by default")
	}

	// Check output defaults
	if cfg.Output.Format != "text" {
		t.Errorf("Output.Format = %s, want text", cfg.Output.Format)
	}
	if !cfg.Output.Color {
		t.Error("Output.Color should be true by default")
	}

	// Check cache defaults
	if cfg.Cache.Enabled {
		t.Error("Cache.Enabled should be false by default")
	}
	if cfg.Cache.Dir != ".docaudit/cache" || cfg.Cache.TTLHours != 168 {
		t.Errorf("Cache = %+v, want .docaudit/cache with 168h TTL", cfg.Cache)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() error: %v", err)
	}
}

func TestLoadTOML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "docaudit.toml")

	content := `
[model]
name = "gemini-2.5-flash"
provider = "gemini"

[style]
name = "google"

[retry]
max_attempts = 5

[scan]
ignore_dirs = ["tests", "migrations"]

[fix]
mode = "global"

[output]
format = "json"
`

	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Model.Name != "gemini-2.5-flash" {
		t.Errorf("Model.Name = %s, want gemini-2.5-flash", cfg.Model.Name)
	}
	if cfg.Model.Provider != "gemini" {
		t.Errorf("Model.Provider = %s, want gemini", cfg.Model.Provider)
	}
	// Unset keys keep their defaults
	if cfg.Model.TimeoutSeconds != 120 {
		t.Errorf("Model.TimeoutSeconds = %d, want 120", cfg.Model.TimeoutSeconds)
	}
	if cfg.Style.Name != "google" {
		t.Errorf("Style.Name = %s, want google", cfg.Style.Name)
	}
	if cfg.Retry.MaxAttempts != 5 {
		t.Errorf("Retry.MaxAttempts = %d, want 5", cfg.Retry.MaxAttempts)
	}
	if len(cfg.Scan.IgnoreDirs) != 2 || cfg.Scan.IgnoreDirs[1] != "migrations" {
		t.Errorf("Scan.IgnoreDirs = %v, want [tests migrations]", cfg.Scan.IgnoreDirs)
	}
	if cfg.Fix.Mode != "global" {
		t.Errorf("Fix.Mode = %s, want global", cfg.Fix.Mode)
	}
	if cfg.Output.Format != "json" {
		t.Errorf("Output.Format = %s, want json", cfg.Output.Format)
	}
}

func TestLoadYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "docaudit.yaml")

	content := `
model:
  name: gpt-4o
  temperature: 0.3

style:
  name: sphinx

output:
  format: markdown
`

	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Model.Name != "gpt-4o" {
		t.Errorf("Model.Name = %s, want gpt-4o", cfg.Model.Name)
	}
	if cfg.Model.Temperature != 0.3 {
		t.Errorf("Model.Temperature = %f, want 0.3", cfg.Model.Temperature)
	}
	if cfg.Style.Name != "sphinx" {
		t.Errorf("Style.Name = %s, want sphinx", cfg.Style.Name)
	}
	if cfg.Output.Format != "markdown" {
		t.Errorf("Output.Format = %s, want markdown", cfg.Output.Format)
	}
}

func TestLoadJSON(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "docaudit.json")

	content := `{
  "retry": {
    "max_attempts": 1,
    "base_delay_ms": 250
  },
  "fix": {
    "skip_missing_docstring": false
  }
}`

	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Retry.MaxAttempts != 1 {
		t.Errorf("Retry.MaxAttempts = %d, want 1", cfg.Retry.MaxAttempts)
	}
	if cfg.Retry.BaseDelay() != 250*time.Millisecond {
		t.Errorf("Retry.BaseDelay() = %v, want 250ms", cfg.Retry.BaseDelay())
	}
	if cfg.Fix.SkipMissingDocstring {
		t.Error("Fix.SkipMissingDocstring should be false")
	}
}

func TestLoadNonExistentFile(t *testing.T) {
	_, err := Load("/nonexistent/path/docaudit.toml")
	if err == nil {
		t.Error("Load() should return error for non-existent file")
	}
}

func TestLoadInvalidFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "docaudit.toml")

	// Invalid TOML
	content := `[model
invalid toml`

	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	_, err := Load(configPath)
	if err == nil {
		t.Error("Load() should return error for invalid config")
	}
}

func TestLoadConfigDiscovery(t *testing.T) {
	tmpDir := t.TempDir()
	oldWd, _ := os.Getwd()
	defer os.Chdir(oldWd)

	if err := os.MkdirAll(filepath.Join(tmpDir, ".docaudit"), 0755); err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}
	content := `
[retry]
max_attempts = 9
`
	if err := os.WriteFile(filepath.Join(tmpDir, ".docaudit", "docaudit.toml"), []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	if err := os.Chdir(tmpDir); err != nil {
		t.Fatalf("Failed to change directory: %v", err)
	}

	result, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	if want := filepath.Join(".docaudit", "docaudit.toml"); result.Source != want {
		t.Errorf("Source = %q, want %q", result.Source, want)
	}
	if result.Config.Retry.MaxAttempts != 9 {
		t.Errorf("MaxAttempts = %d, want 9 from discovered file", result.Config.Retry.MaxAttempts)
	}
}

func TestLoadConfig(t *testing.T) {
	tmpDir := t.TempDir()

	t.Run("explicit path", func(t *testing.T) {
		path := filepath.Join(tmpDir, "custom.toml")
		if err := os.WriteFile(path, []byte("[style]\nname = \"google\"\n"), 0644); err != nil {
			t.Fatalf("Failed to write config file: %v", err)
		}

		result, err := LoadConfig(WithPath(path))
		if err != nil {
			t.Fatalf("LoadConfig() error: %v", err)
		}
		if result.Source != path {
			t.Errorf("Source = %s, want %s", result.Source, path)
		}
		if result.Config.Style.Name != "google" {
			t.Errorf("Style.Name = %s, want google", result.Config.Style.Name)
		}
	})

	t.Run("invalid values", func(t *testing.T) {
		path := filepath.Join(tmpDir, "bad.toml")
		content := "[style]\nname = \"epydoc\"\n\n[fix]\nmode = \"nearest\"\n"
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("Failed to write config file: %v", err)
		}

		_, err := LoadConfig(WithPath(path))
		if err == nil {
			t.Fatal("LoadConfig() should reject invalid values")
		}
		for _, want := range []string{"style.name", "fix.mode", "bad.toml"} {
			if !strings.Contains(err.Error(), want) {
				t.Errorf("error %q should mention %q", err, want)
			}
		}
	})

	t.Run("missing explicit file", func(t *testing.T) {
		if _, err := LoadConfig(WithPath(filepath.Join(tmpDir, "nope.toml"))); err == nil {
			t.Error("LoadConfig() should fail for a missing explicit file")
		}
	})

	t.Run("defaults", func(t *testing.T) {
		oldWd, _ := os.Getwd()
		defer os.Chdir(oldWd)
		empty := t.TempDir()
		if err := os.Chdir(empty); err != nil {
			t.Fatalf("Failed to change directory: %v", err)
		}

		result, err := LoadConfig()
		if err != nil {
			t.Fatalf("LoadConfig() error: %v", err)
		}
		if result.Source != "" {
			t.Errorf("Source = %q, want empty", result.Source)
		}
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"unknown provider", func(c *Config) { c.Model.Provider = "anthropic" }, "model.provider"},
		{"empty model", func(c *Config) { c.Model.Name = "" }, "model.name"},
		{"temperature", func(c *Config) { c.Model.Temperature = 3 }, "model.temperature"},
		{"timeout", func(c *Config) { c.Model.TimeoutSeconds = 0 }, "model.timeout_seconds"},
		{"style", func(c *Config) { c.Style.Name = "epydoc" }, "style.name"},
		{"attempts", func(c *Config) { c.Retry.MaxAttempts = 0 }, "retry.max_attempts"},
		{"delay", func(c *Config) { c.Retry.BaseDelayMS = -1 }, "retry.base_delay_ms"},
		{"fix mode", func(c *Config) { c.Fix.Mode = "nearest" }, "fix.mode"},
		{"format", func(c *Config) { c.Output.Format = "xml" }, "output.format"},
		{"extension", func(c *Config) { c.Scan.Extensions = []string{"py"} }, "scan.extensions"},
		{"cache dir", func(c *Config) { c.Cache.Enabled = true; c.Cache.Dir = "" }, "cache.dir"},
		{"cache ttl", func(c *Config) { c.Cache.Enabled = true; c.Cache.TTLHours = 0 }, "cache.ttl_hours"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatalf("Validate() should fail")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Validate() error = %q, want mention of %q", err, tt.want)
			}
		})
	}

	cfg := DefaultConfig()
	cfg.Model.Provider = "Gemini"
	cfg.Style.Name = "Google"
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() should accept mixed case names: %v", err)
	}
}
