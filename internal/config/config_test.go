package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfig_ValidJSON(t *testing.T) {
	path := writeConfig(t, "config.json", `{
		"port": 9000,
		"database_url": "postgres://localhost/portfolio",
		"llm_provider": "openai",
		"use_browser": true,
		"allow_job_urls": true
	}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, "postgres://localhost/portfolio", cfg.DatabaseURL)
	assert.Equal(t, "openai", cfg.LLMProvider)
	assert.True(t, cfg.UseBrowser)
	assert.True(t, cfg.AllowJobURLs)
}

func TestLoadConfig_ValidYAML(t *testing.T) {
	for _, name := range []string{"config.yaml", "config.YML"} {
		t.Run(name, func(t *testing.T) {
			path := writeConfig(t, name, "port: 7000\nstore_path: data/portfolio.db\nallowed_origins: https://a.example, https://b.example\n")

			cfg, err := LoadConfig(path)
			require.NoError(t, err)
			assert.Equal(t, 7000, cfg.Port)
			assert.Equal(t, "data/portfolio.db", cfg.StorePath)
			assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Origins())
		})
	}
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, "config.json", `{ invalid json }`))
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse config JSON")
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, "config.yaml", "port: [unterminated"))
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse config YAML")
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.json")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "config path is empty")
}

func TestValidate(t *testing.T) {
	seed := writeConfig(t, "resume.json", `{}`)

	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{name: "empty", cfg: Config{}},
		{name: "full", cfg: Config{Port: 8080, LLMProvider: "gemini", Seed: seed, WatchSeed: true}},
		{name: "bad port", cfg: Config{Port: 70000}, wantErr: "'port'"},
		{name: "unknown provider", cfg: Config{LLMProvider: "anthropic"}, wantErr: "llm_provider"},
		{name: "watch without seed", cfg: Config{WatchSeed: true}, wantErr: "watch_seed"},
		{name: "missing seed", cfg: Config{Seed: "/nonexistent/resume.json"}, wantErr: "seed file not found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestMergeWithDefaults(t *testing.T) {
	flags := Config{DatabaseURL: "postgres://flag", Verbose: false}
	file := Config{
		DatabaseURL: "postgres://file",
		StorePath:   "file.db",
		LLMModel:    "gemini-2.0-flash",
		Port:        9090,
		Verbose:     true,
	}

	merged := flags.MergeWithDefaults(file)
	assert.Equal(t, "postgres://flag", merged.DatabaseURL, "flag wins")
	assert.Equal(t, "file.db", merged.StorePath)
	assert.Equal(t, "gemini-2.0-flash", merged.LLMModel)
	assert.Equal(t, 9090, merged.Port)
	assert.True(t, merged.Verbose)
}

func TestMergeWithDefaults_DefaultPort(t *testing.T) {
	merged := (&Config{}).MergeWithDefaults(Config{})
	assert.Equal(t, 8080, merged.Port)
}
