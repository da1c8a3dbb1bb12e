// Package config provides a way to configure the application.
package config

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

type HTTPMethod string

const (
	HTTPMethodGet  HTTPMethod = "GET"
	HTTPMethodPost HTTPMethod = "POST"
)

type Config struct {
	// Connection to the generation endpoint
	API APIConfig `yaml:"api"             env:", prefix=API_"`
	// Backoff settings of the request sender
	Retry RetryConfig `yaml:"retry"           env:", prefix=RETRY_"`
	// Circuit breaker can be configured to stop hammering the API once it
	// keeps failing.
	CircuitBreaker CircuitBreakerConfig `yaml:"circuit_breaker" env:", prefix=CB_"`
	// Logger configuration
	Log LogConfig `yaml:"log"             env:", prefix=LOG_"`
	// System instruction and document limits
	Prompt PromptConfig `yaml:"prompt"          env:", prefix=PROMPT_"`
	// Capacity planner defaults
	Planner PlannerConfig `yaml:"planner"         env:", prefix=PLANNER_"`
}

type APIConfig struct {
	BaseURL string     `yaml:"base_url" env:"BASE_URL, overwrite, default=https://generativelanguage.googleapis.com/v1beta"`
	Model   string     `yaml:"model"    env:"MODEL, overwrite, default=gemini-2.5-flash-preview-09-2025"`
	Method  HTTPMethod `yaml:"method"   env:"METHOD, overwrite, default=POST"`
	// Should be set with env vars
	Key     string        `yaml:"-"        env:"KEY, overwrite"`
	Timeout time.Duration `yaml:"timeout"  env:"TIMEOUT, overwrite, default=2m"`
}

type RetryConfig struct {
	MaxRetries   int           `yaml:"max_retries"   env:"MAX_RETRIES, overwrite, default=5"`
	InitialDelay time.Duration `yaml:"initial_delay" env:"INITIAL_DELAY, overwrite, default=1s"`
	MaxJitter    time.Duration `yaml:"max_jitter"    env:"MAX_JITTER, overwrite, default=1s"`
}

type CircuitBreakerConfig struct {
	Enabled            bool          `yaml:"enabled"             env:"ENABLE, overwrite"`
	MaxRequests        uint32        `yaml:"max_requests"        env:"MAX_REQUESTS, overwrite, default=1"`
	ConsecutiveFailure uint32        `yaml:"consecutive_failure" env:"CONSECUTIVE_FAILURE, overwrite, default=10"`
	Interval           time.Duration `yaml:"interval"            env:"INTERVAL, overwrite, default=60s"`
	Timeout            time.Duration `yaml:"timeout"             env:"TIMEOUT, overwrite, default=60s"`
}

type LogConfig struct {
	Level    zapcore.Level `yaml:"level"    env:"LEVEL, overwrite, default=info"`
	Encoding string        `yaml:"encoding" env:"ENCODING, overwrite, default=console"`
	// Empty means stderr for the CLI and a log file for the TUI
	Output string `yaml:"output" env:"OUTPUT, overwrite"`
}

type PromptConfig struct {
	// Optional text/template file that replaces the built-in system instruction
	SystemInstructionPath string `yaml:"system_instruction_path" env:"SYSTEM_INSTRUCTION_PATH, overwrite"`
	MaxDocumentChars      int    `yaml:"max_document_chars"      env:"MAX_DOCUMENT_CHARS, overwrite, default=10000"`
}

type PlannerConfig struct {
	SprintDays    int    `yaml:"sprint_days"    env:"SPRINT_DAYS, overwrite, default=10"`
	DefaultTeam   string `yaml:"default_team"   env:"DEFAULT_TEAM, overwrite, default=Alpha"`
	FetchAttempts uint   `yaml:"fetch_attempts" env:"FETCH_ATTEMPTS, overwrite, default=3"`
}

// MaxRetriesLimit is the largest accepted retry.max_retries.
const MaxRetriesLimit = 20

var configPath string

func init() {
	flag.StringVar(&configPath, "config", "", "Path to YAML configuration file")
}

// Load reads the configuration from the YAML file given by -config or
// CONFIG_PATH (if any) and applies environment overrides on top of it.
func Load(ctx context.Context) (*Config, error) {
	_ = godotenv.Load() // load the user-defined `.env` file
	if !flag.Parsed() {
		flag.Parse()
	}
	path := configPath
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}

	cfg := &Config{}
	if path != "" {
		var err error
		cfg, err = LoadFromYAML(path)
		if err != nil {
			return nil, fmt.Errorf("loading configuration from %s: %w", path, err)
		}
	}
	if err := envconfig.Process(ctx, cfg); err != nil {
		return nil, fmt.Errorf("processing environment: %w", err)
	}
	return cfg, cfg.Validate()
}

// LoadWith is Load without the flag/env side channels: the YAML file at path
// (skipped when empty) is overridden only by values from lookuper.
func LoadWith(
	ctx context.Context,
	path string,
	lookuper envconfig.Lookuper,
) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		var err error
		cfg, err = LoadFromYAML(path)
		if err != nil {
			return nil, fmt.Errorf("loading configuration from %s: %w", path, err)
		}
	}
	err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   cfg,
		Lookuper: lookuper,
	})
	if err != nil {
		return nil, fmt.Errorf("processing environment: %w", err)
	}
	return cfg, cfg.Validate()
}

func LoadFromYAML(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate reports every invalid setting at once. A missing API key is not a
// configuration error: the sender refuses to issue requests without it.
func (c *Config) Validate() error {
	var errs []error
	if c.API.BaseURL == "" {
		errs = append(errs, errors.New("api.base_url is empty"))
	}
	if c.API.Model == "" {
		errs = append(errs, errors.New("api.model is empty"))
	}
	if c.API.Method != HTTPMethodGet && c.API.Method != HTTPMethodPost {
		errs = append(errs, fmt.Errorf("api.method %q is not supported", c.API.Method))
	}
	if c.Retry.MaxRetries < 1 || c.Retry.MaxRetries > MaxRetriesLimit {
		errs = append(errs, fmt.Errorf(
			"retry.max_retries must be between 1 and %d, got %d",
			MaxRetriesLimit, c.Retry.MaxRetries,
		))
	}
	if c.Retry.InitialDelay < 0 || c.Retry.MaxJitter < 0 {
		errs = append(errs, errors.New("retry delays must not be negative"))
	}
	if c.Prompt.MaxDocumentChars < 1 {
		errs = append(errs, errors.New("prompt.max_document_chars must be positive"))
	}
	if c.Planner.SprintDays < 1 {
		errs = append(errs, errors.New("planner.sprint_days must be positive"))
	}
	return errors.Join(errs...)
}
