package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config is the root configuration structure.
type Config struct {
	RepoPath   string          `json:"repo"`
	OutputPath string          `json:"output"`
	MaxCommits int             `json:"maxCommits"`
	Provider   string          `json:"provider"`
	Model      string          `json:"model"`
	Format     string          `json:"format"`
	MaxTokens  int             `json:"maxTokens"`
	Cache      CacheConfig     `json:"cache"`
	RateLimit  RateLimitConfig `json:"rateLimit"`
	Filters    FilterConfig    `json:"filters"`
	Verbose    bool            `json:"verbose"`
	Stats      bool            `json:"stats"`
}

// CacheConfig holds response cache options.
type CacheConfig struct {
	Dir        string `json:"dir"`
	TTLSeconds int    `json:"ttlSeconds"`
}

// RateLimitConfig holds outbound call throttling options.
type RateLimitConfig struct {
	CallsPerMinute int `json:"callsPerMinute"`
}

// FilterConfig holds diff path filtering options.
type FilterConfig struct {
	Include []string `json:"include"`
	Exclude []string `json:"exclude"`
}

// DefaultConfig returns a configuration with default values.
// The model default honors the OPENAI_MODEL environment variable.
func DefaultConfig() *Config {
	model := os.Getenv("OPENAI_MODEL")
	if model == "" {
		model = "gpt-4"
	}
	return &Config{
		RepoPath:   ".",
		OutputPath: "changelog.md",
		MaxCommits: 50,
		Provider:   "openai",
		Model:      model,
		Format:     "markdown",
		MaxTokens:  300,
		Cache: CacheConfig{
			Dir:        ".logchange_cache",
			TTLSeconds: 86400,
		},
		RateLimit: RateLimitConfig{
			CallsPerMinute: 50,
		},
		Filters: FilterConfig{
			Include: []string{},
			Exclude: []string{},
		},
	}
}

// LoadConfig loads configuration from a file, merging with defaults.
// An explicitly given path must exist; default-candidate paths are
// optional.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	explicit := path != ""

	if !explicit {
		// Try default locations
		candidates := []string{".logchange.json"}
		if home, err := os.UserHomeDir(); err == nil && home != "" {
			candidates = append(candidates, filepath.Join(home, ".logchange.json"))
		} else if envHome := os.Getenv("HOME"); envHome != "" {
			candidates = append(candidates, filepath.Join(envHome, ".logchange.json"))
		}
		for _, p := range candidates {
			if _, err := os.Stat(p); err == nil {
				path = p
				break
			}
		}
	}

	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// SaveConfig saves configuration to a file.
func SaveConfig(cfg *Config, path string) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks configuration values that would fail deep into a run.
func (c *Config) Validate() error {
	if c.MaxCommits <= 0 {
		return fmt.Errorf("maxCommits must be positive, got %d", c.MaxCommits)
	}
	if c.MaxTokens <= 0 {
		return fmt.Errorf("maxTokens must be positive, got %d", c.MaxTokens)
	}
	if c.RateLimit.CallsPerMinute <= 0 {
		return fmt.Errorf("rateLimit.callsPerMinute must be positive, got %d", c.RateLimit.CallsPerMinute)
	}
	if c.Cache.TTLSeconds <= 0 {
		return fmt.Errorf("cache.ttlSeconds must be positive, got %d", c.Cache.TTLSeconds)
	}
	return nil
}
