// Package config loads the application configuration from an optional YAML file
// and the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Supported model providers.
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// Config represents the application configuration.
type Config struct {
	Env            string        `yaml:"env"`
	Addr           string        `yaml:"addr"`
	Provider       string        `yaml:"provider"`
	OpenAI         OpenAI        `yaml:"openai"`
	Gemini         Gemini        `yaml:"gemini"`
	DatabaseURL    string        `yaml:"database_url"`
	AllowedOrigins []string      `yaml:"allowed_origins"`
	MaxUploadBytes int64         `yaml:"max_upload_bytes"`
	ImageMaxWidth  uint          `yaml:"image_max_width"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	SessionIdle    time.Duration `yaml:"session_idle"`
	CacheTTL       time.Duration `yaml:"cache_ttl"`
}

// OpenAI configures the OpenAI-compatible provider.
type OpenAI struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`
}

// Gemini configures the Gemini provider.
type Gemini struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"`
}

// Default returns the configuration used when no file or environment overrides exist.
func Default() Config {
	return Config{
		Env:            "development",
		Addr:           ":8080",
		Provider:       ProviderOpenAI,
		OpenAI:         OpenAI{BaseURL: "https://api.openai.com/v1", Model: "gpt-4o-mini"},
		Gemini:         Gemini{Model: "gemini-1.5-flash"},
		AllowedOrigins: []string{"http://localhost:3000"},
		MaxUploadBytes: 10 << 20,
		ImageMaxWidth:  1024,
		RequestTimeout: 45 * time.Second,
		SessionIdle:    2 * time.Hour,
		CacheTTL:       24 * time.Hour,
	}
}

// Load reads path on top of the defaults, then applies environment overrides.
// A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return Config{}, fmt.Errorf("failed to read %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("failed to unmarshal %s: %w", path, err)
			}
		}
	}

	applyEnv(&cfg, os.Getenv)
	return cfg, cfg.Validate()
}

func applyEnv(cfg *Config, getenv func(string) string) {
	set := func(dst *string, key string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}
	set(&cfg.Env, "ENV")
	set(&cfg.Provider, "MODEL_PROVIDER")
	set(&cfg.OpenAI.APIKey, "OPENAI_API_KEY")
	set(&cfg.OpenAI.BaseURL, "OPENAI_BASE_URL")
	set(&cfg.Gemini.APIKey, "GEMINI_API_KEY")
	set(&cfg.DatabaseURL, "DATABASE_URL")
	if port := getenv("PORT"); port != "" {
		cfg.Addr = ":" + port
	}
}

// Validate checks the values that would otherwise fail at request time.
func (c Config) Validate() error {
	switch c.Provider {
	case ProviderOpenAI, ProviderGemini:
	default:
		return fmt.Errorf("unknown provider %q (want %q or %q)", c.Provider, ProviderOpenAI, ProviderGemini)
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("max_upload_bytes must be positive")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be positive")
	}
	if c.CacheTTL < 0 {
		return fmt.Errorf("cache_ttl must not be negative")
	}
	if len(c.AllowedOrigins) == 0 {
		return fmt.Errorf("allowed_origins must list at least one origin")
	}
	return nil
}
