// Package llm wraps the generative providers behind one streaming interface.
package llm

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Provider represents an LLM provider
type Provider string

// Provider constants define supported LLM providers
const (
	// ProviderGemini is the Google Gemini API
	ProviderGemini Provider = "gemini"
	// ProviderOpenAI is any OpenAI-compatible chat completions gateway
	ProviderOpenAI Provider = "openai"
	// ProviderOllama is a local Ollama server
	ProviderOllama Provider = "ollama"
)

// DefaultTimeout bounds a single completion, streamed or not.
const DefaultTimeout = 2 * time.Minute

var defaultModels = map[Provider]string{
	ProviderGemini: "gemini-2.5-flash",
	ProviderOpenAI: "gpt-4o-mini",
	ProviderOllama: "llama3.2",
}

// Config holds the provider configuration for the application
type Config struct {
	Provider Provider
	Model    string
	BaseURL  string // gateway or Ollama host; empty uses the provider default
	APIKey   string
	Timeout  time.Duration
}

// DefaultConfig returns the default configuration (Gemini)
func DefaultConfig() *Config {
	return &Config{
		Provider: ProviderGemini,
		Model:    defaultModels[ProviderGemini],
		Timeout:  DefaultTimeout,
	}
}

// ConfigFromEnv reads LLM_PROVIDER (default: gemini), LLM_MODEL, LLM_BASE_URL,
// LLM_TIMEOUT_SECONDS and the provider's API key. The key comes from
// LLM_API_KEY, falling back to GEMINI_API_KEY or OPENAI_API_KEY.
func ConfigFromEnv() (*Config, error) {
	config := &Config{
		Provider: Provider(os.Getenv("LLM_PROVIDER")),
		Model:    os.Getenv("LLM_MODEL"),
		BaseURL:  os.Getenv("LLM_BASE_URL"),
		APIKey:   os.Getenv("LLM_API_KEY"),
		Timeout:  DefaultTimeout,
	}
	if config.Provider == "" {
		config.Provider = ProviderGemini
	}
	if config.APIKey == "" {
		switch config.Provider {
		case ProviderGemini:
			config.APIKey = os.Getenv("GEMINI_API_KEY")
		case ProviderOpenAI:
			config.APIKey = os.Getenv("OPENAI_API_KEY")
		}
	}
	if s := os.Getenv("LLM_TIMEOUT_SECONDS"); s != "" {
		secs, err := strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("invalid LLM_TIMEOUT_SECONDS: %v", err)
		}
		config.Timeout = time.Duration(secs) * time.Second
	}

	if err := config.normalize(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) normalize() error {
	model, ok := defaultModels[c.Provider]
	if !ok {
		return fmt.Errorf("unsupported LLM provider: %q", c.Provider)
	}
	if c.Model == "" {
		c.Model = model
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.APIKey == "" && c.Provider != ProviderOllama {
		return fmt.Errorf("API key is required for provider %s", c.Provider)
	}
	return nil
}

// WithModel returns a copy of the config using model.
func (c *Config) WithModel(model string) *Config {
	out := *c
	out.Model = model
	return &out
}
