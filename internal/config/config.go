// Package config provides configuration loading and validation for the CLI and server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the optional configuration file. Every field can also be set by a
// CLI flag; flags win.
type Config struct {
	// Server
	Port           int    `json:"port,omitempty" yaml:"port,omitempty"`
	AllowedOrigins string `json:"allowed_origins,omitempty" yaml:"allowed_origins,omitempty"` // comma separated CORS origins, "*" for any

	// Content storage. DatabaseURL wins over StorePath when both are set.
	DatabaseURL string `json:"database_url,omitempty" yaml:"database_url,omitempty"`
	StorePath   string `json:"store_path,omitempty" yaml:"store_path,omitempty"` // bbolt file for single-binary deployments
	Seed        string `json:"seed,omitempty" yaml:"seed,omitempty"`             // résumé JSON loaded at startup
	WatchSeed   bool   `json:"watch_seed,omitempty" yaml:"watch_seed,omitempty"`

	// Assistant
	LLMProvider string `json:"llm_provider,omitempty" yaml:"llm_provider,omitempty"`
	LLMModel    string `json:"llm_model,omitempty" yaml:"llm_model,omitempty"`
	LLMBaseURL  string `json:"llm_base_url,omitempty" yaml:"llm_base_url,omitempty"`
	APIKey      string `json:"api_key,omitempty" yaml:"api_key,omitempty"`
	UseBrowser  bool   `json:"use_browser,omitempty" yaml:"use_browser,omitempty"` // headless browser for SPA job postings
	// AllowJobURLs lets the public job-fit endpoint fetch postings by URL.
	AllowJobURLs bool `json:"allow_job_urls,omitempty" yaml:"allow_job_urls,omitempty"`

	// CLI
	ServerURL string `json:"server_url,omitempty" yaml:"server_url,omitempty"` // base URL used by `ask`
	OutputDir string `json:"output_dir,omitempty" yaml:"output_dir,omitempty"` // where `render` writes PDFs
	Verbose   bool   `json:"verbose,omitempty" yaml:"verbose,omitempty"`
}

// LoadConfig loads configuration from a JSON or YAML file, chosen by extension.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
// Required fields are checked by the commands after merging with flags.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 0 and 65535, got %d", c.Port)
	}

	switch c.LLMProvider {
	case "", "gemini", "openai", "ollama":
	default:
		return fmt.Errorf("config error: unknown 'llm_provider' %q (want gemini, openai or ollama)", c.LLMProvider)
	}

	if c.WatchSeed && c.Seed == "" {
		return fmt.Errorf("config error: 'watch_seed' requires 'seed'")
	}

	if c.Seed != "" {
		if _, err := os.Stat(c.Seed); os.IsNotExist(err) {
			return fmt.Errorf("config error: seed file not found: %s", c.Seed)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// Config file values are passed as defaults so explicit CLI flags win.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.AllowedOrigins == "" {
		result.AllowedOrigins = defaults.AllowedOrigins
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.StorePath == "" {
		result.StorePath = defaults.StorePath
	}
	if result.Seed == "" {
		result.Seed = defaults.Seed
	}
	if result.LLMProvider == "" {
		result.LLMProvider = defaults.LLMProvider
	}
	if result.LLMModel == "" {
		result.LLMModel = defaults.LLMModel
	}
	if result.LLMBaseURL == "" {
		result.LLMBaseURL = defaults.LLMBaseURL
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.ServerURL == "" {
		result.ServerURL = defaults.ServerURL
	}
	if result.OutputDir == "" {
		result.OutputDir = defaults.OutputDir
	}

	if result.Port == 0 {
		if defaults.Port > 0 {
			result.Port = defaults.Port
		} else {
			result.Port = 8080
		}
	}

	// Bool fields: cannot distinguish unset from false, so a true on either side wins.
	result.WatchSeed = result.WatchSeed || defaults.WatchSeed
	result.UseBrowser = result.UseBrowser || defaults.UseBrowser
	result.AllowJobURLs = result.AllowJobURLs || defaults.AllowJobURLs
	result.Verbose = result.Verbose || defaults.Verbose

	return result
}

// Origins splits AllowedOrigins into a list.
func (c *Config) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
