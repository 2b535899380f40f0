package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	t.Setenv("OPENAI_MODEL", "")
	cfg := DefaultConfig()

	if cfg.RepoPath != "." {
		t.Errorf("RepoPath = %q, expected %q", cfg.RepoPath, ".")
	}
	if cfg.OutputPath != "changelog.md" {
		t.Errorf("OutputPath = %q, expected %q", cfg.OutputPath, "changelog.md")
	}
	if cfg.MaxCommits != 50 {
		t.Errorf("MaxCommits = %d, expected 50", cfg.MaxCommits)
	}
	if cfg.Provider != "openai" {
		t.Errorf("Provider = %q, expected %q", cfg.Provider, "openai")
	}
	if cfg.Model != "gpt-4" {
		t.Errorf("Model = %q, expected %q", cfg.Model, "gpt-4")
	}
	if cfg.Format != "markdown" {
		t.Errorf("Format = %q, expected %q", cfg.Format, "markdown")
	}
	if cfg.MaxTokens != 300 {
		t.Errorf("MaxTokens = %d, expected 300", cfg.MaxTokens)
	}
	if cfg.Cache.Dir != ".logchange_cache" {
		t.Errorf("Cache.Dir = %q, expected %q", cfg.Cache.Dir, ".logchange_cache")
	}
	if cfg.Cache.TTLSeconds != 86400 {
		t.Errorf("Cache.TTLSeconds = %d, expected 86400", cfg.Cache.TTLSeconds)
	}
	if cfg.RateLimit.CallsPerMinute != 50 {
		t.Errorf("RateLimit.CallsPerMinute = %d, expected 50", cfg.RateLimit.CallsPerMinute)
	}
}

func TestDefaultConfig_ModelFromEnv(t *testing.T) {
	t.Setenv("OPENAI_MODEL", "gpt-4o-mini")
	cfg := DefaultConfig()
	if cfg.Model != "gpt-4o-mini" {
		t.Errorf("Model = %q, expected env override %q", cfg.Model, "gpt-4o-mini")
	}
}

func TestLoadConfig_MergesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logchange.json")
	content := `{
		"maxCommits": 10,
		"model": "gpt-4-turbo",
		"cache": {"dir": "/tmp/custom", "ttlSeconds": 3600},
		"filters": {"exclude": ["vendor/**"]}
	}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	t.Setenv("OPENAI_MODEL", "")
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.MaxCommits != 10 {
		t.Errorf("MaxCommits = %d, expected file value 10", cfg.MaxCommits)
	}
	if cfg.Model != "gpt-4-turbo" {
		t.Errorf("Model = %q, expected file value", cfg.Model)
	}
	if cfg.Cache.Dir != "/tmp/custom" {
		t.Errorf("Cache.Dir = %q, expected file value", cfg.Cache.Dir)
	}
	if cfg.Cache.TTLSeconds != 3600 {
		t.Errorf("Cache.TTLSeconds = %d, expected file value 3600", cfg.Cache.TTLSeconds)
	}
	if len(cfg.Filters.Exclude) != 1 || cfg.Filters.Exclude[0] != "vendor/**" {
		t.Errorf("Filters.Exclude = %v, expected file value", cfg.Filters.Exclude)
	}

	// Untouched fields keep their defaults.
	if cfg.MaxTokens != 300 {
		t.Errorf("MaxTokens = %d, expected default 300", cfg.MaxTokens)
	}
	if cfg.RateLimit.CallsPerMinute != 50 {
		t.Errorf("RateLimit.CallsPerMinute = %d, expected default 50", cfg.RateLimit.CallsPerMinute)
	}
}

func TestLoadConfig_ExplicitMissingPathFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "does-not-exist.json")

	// A mistyped --config path must not silently fall back to defaults.
	if _, err := LoadConfig(path); err == nil {
		t.Error("expected error for explicitly given missing config file")
	}
}

func TestLoadConfig_MalformedFileFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logchange.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	if _, err := LoadConfig(path); err == nil {
		t.Error("expected error for malformed config file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "defaults are valid", mutate: func(*Config) {}, wantErr: false},
		{name: "zero max commits", mutate: func(c *Config) { c.MaxCommits = 0 }, wantErr: true},
		{name: "negative max tokens", mutate: func(c *Config) { c.MaxTokens = -1 }, wantErr: true},
		{name: "zero rate limit", mutate: func(c *Config) { c.RateLimit.CallsPerMinute = 0 }, wantErr: true},
		{name: "zero cache ttl", mutate: func(c *Config) { c.Cache.TTLSeconds = 0 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logchange.json")
	t.Setenv("OPENAI_MODEL", "")

	original := DefaultConfig()
	original.MaxCommits = 25
	if err := SaveConfig(original, path); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if loaded.MaxCommits != 25 {
		t.Errorf("MaxCommits = %d after round trip, expected 25", loaded.MaxCommits)
	}
}
