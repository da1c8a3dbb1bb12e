package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadWithDefaults(t *testing.T) {
	cfg, err := LoadWith(context.Background(), "", envconfig.MapLookuper(nil))
	require.NoError(t, err)

	assert.Equal(t, "https://generativelanguage.googleapis.com/v1beta", cfg.API.BaseURL)
	assert.Equal(t, "gemini-2.5-flash-preview-09-2025", cfg.API.Model)
	assert.Equal(t, HTTPMethodPost, cfg.API.Method)
	assert.Empty(t, cfg.API.Key)
	assert.Equal(t, 5, cfg.Retry.MaxRetries)
	assert.Equal(t, time.Second, cfg.Retry.InitialDelay)
	assert.Equal(t, time.Second, cfg.Retry.MaxJitter)
	assert.False(t, cfg.CircuitBreaker.Enabled)
	assert.Equal(t, 10000, cfg.Prompt.MaxDocumentChars)
	assert.Equal(t, 10, cfg.Planner.SprintDays)
	assert.Equal(t, "Alpha", cfg.Planner.DefaultTeam)
	assert.Equal(t, uint(3), cfg.Planner.FetchAttempts)
}

func TestLoadWithYAMLAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(`
api:
  model: yaml-model
  timeout: 30s
retry:
  max_retries: 3
  initial_delay: 250ms
planner:
  default_team: Beta
`), 0o600))

	cfg, err := LoadWith(context.Background(), path, envconfig.MapLookuper(map[string]string{
		"API_KEY":           "from-env",
		"RETRY_MAX_RETRIES": "7",
		"CB_ENABLE":         "true",
	}))
	require.NoError(t, err)

	assert.Equal(t, "yaml-model", cfg.API.Model)
	assert.Equal(t, 30*time.Second, cfg.API.Timeout)
	assert.Equal(t, "from-env", cfg.API.Key)
	assert.Equal(t, 7, cfg.Retry.MaxRetries)
	assert.Equal(t, 250*time.Millisecond, cfg.Retry.InitialDelay)
	assert.True(t, cfg.CircuitBreaker.Enabled)
	assert.Equal(t, "Beta", cfg.Planner.DefaultTeam)
	// untouched by the file
	assert.Equal(t, "https://generativelanguage.googleapis.com/v1beta", cfg.API.BaseURL)
}

func TestLoadWithMissingFile(t *testing.T) {
	_, err := LoadWith(context.Background(), filepath.Join(t.TempDir(), "nope.yml"), envconfig.MapLookuper(nil))
	assert.ErrorContains(t, err, "loading configuration from")
}

func TestLoadWithInvalidValues(t *testing.T) {
	_, err := LoadWith(context.Background(), "", envconfig.MapLookuper(map[string]string{
		"API_METHOD":        "DELETE",
		"RETRY_MAX_RETRIES": "0",
	}))
	require.Error(t, err)
	assert.ErrorContains(t, err, `api.method "DELETE" is not supported`)
	assert.ErrorContains(t, err, "retry.max_retries must be between 1 and 20, got 0")
}

func TestValidateReportsEverything(t *testing.T) {
	err := (&Config{}).Validate()
	require.Error(t, err)
	for _, want := range []string{
		"api.base_url is empty",
		"api.model is empty",
		"retry.max_retries must be between 1 and 20",
		"prompt.max_document_chars must be positive",
		"planner.sprint_days must be positive",
	} {
		assert.ErrorContains(t, err, want)
	}
}

func TestValidateRejectsTooManyRetries(t *testing.T) {
	_, err := LoadWith(context.Background(), "", envconfig.MapLookuper(map[string]string{
		"RETRY_MAX_RETRIES": "40",
	}))
	assert.ErrorContains(t, err, "retry.max_retries must be between 1 and 20, got 40")
}
