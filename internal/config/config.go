// SPDX-License-Identifier: AGPL-3.0-only
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/shanellmusarurwa/LLM-Tools/internal/errors"
	"github.com/shanellmusarurwa/LLM-Tools/internal/logging"
)

// AIConfig holds the completion-endpoint settings.
type AIConfig struct {
	// Provider selects the backend explicitly: "openai" or "anthropic".
	// Empty means "pick by key presence" (OpenAI key wins over Anthropic).
	Provider        string
	APIKey          string // generic key, used when no provider-specific key is set
	OpenAIAPIKey    string
	AnthropicAPIKey string
	BaseURL         string // optional override for OpenAI-compatible endpoints
	Model           string // optional; each provider has its own default model
	// MaxToolIterations bounds the request/tool-dispatch cycles per run.
	MaxToolIterations int
	// RequestTimeout bounds one whole run, including every completion
	// request. Network calls can hang indefinitely without it.
	RequestTimeout time.Duration
	// MCPConfigFilePath optionally points at an mcpServers JSON file whose
	// tools are merged into the built-in registry. Empty disables it.
	MCPConfigFilePath string
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string
}

// StoreConfig holds run-history settings.
type StoreConfig struct {
	DBPath   string
	Disabled bool
}

// Config is the complete application configuration.
type Config struct {
	AI      AIConfig
	Logging LoggingConfig
	Store   StoreConfig
}

// Default models per provider, used when cfg.AI.Model is empty.
const (
	DefaultOpenAIModel    = "gpt-4o"
	DefaultAnthropicModel = "claude-sonnet-4-5-20250929"
)

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return &Config{
		AI: AIConfig{
			MaxToolIterations: 10,
			RequestTimeout:    5 * time.Minute,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Store: StoreConfig{
			DBPath: filepath.Join(home, ".llm-tools", "history.db"),
		},
	}
}

// LoadDotEnv loads a .env file from the working directory if one exists.
// Missing files are not an error; real environment variables win over
// .env values.
func LoadDotEnv() {
	_ = godotenv.Load()
}

// FromEnv overrides cfg fields from environment variables.
func FromEnv(cfg *Config) {
	if v := os.Getenv("LLM_TOOLS_PROVIDER"); v != "" {
		cfg.AI.Provider = v
	}
	if v := os.Getenv("LLM_TOOLS_API_KEY"); v != "" {
		cfg.AI.APIKey = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.AI.OpenAIAPIKey = v
	}
	if v := os.Getenv("ANTHROPIC_API_KEY"); v != "" {
		cfg.AI.AnthropicAPIKey = v
	}
	if v := os.Getenv("LLM_TOOLS_BASE_URL"); v != "" {
		cfg.AI.BaseURL = v
	}
	if v := os.Getenv("LLM_TOOLS_MODEL"); v != "" {
		cfg.AI.Model = v
	}
	if v := os.Getenv("LLM_TOOLS_MAX_ITERATIONS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.AI.MaxToolIterations = n
		}
	}
	if v := os.Getenv("LLM_TOOLS_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.AI.RequestTimeout = d
		}
	}
	if v := os.Getenv("LLM_TOOLS_MCP_CONFIG"); v != "" {
		cfg.AI.MCPConfigFilePath = v
	}
	if v := os.Getenv("LLM_TOOLS_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("LLM_TOOLS_DB_PATH"); v != "" {
		cfg.Store.DBPath = v
	}
}

// Validate checks the configuration for values that can never work.
// Credential presence is deliberately not checked here: provider selection
// owns that decision (an explicit provider only needs its own key).
func (c *Config) Validate() error {
	if c.AI.MaxToolIterations < 1 {
		return errors.InvalidInput("max tool iterations must be at least 1")
	}
	if c.AI.RequestTimeout <= 0 {
		return errors.InvalidInput("request timeout must be positive")
	}
	if !logging.IsValidLevel(c.Logging.Level) {
		return errors.InvalidInput("unknown log level: " + c.Logging.Level)
	}
	switch c.AI.Provider {
	case "", "openai", "anthropic":
	default:
		return errors.InvalidInput("unknown provider: " + c.AI.Provider)
	}
	if !c.Store.Disabled && c.Store.DBPath == "" {
		return errors.InvalidInput("db path must be set when history is enabled")
	}
	return nil
}
