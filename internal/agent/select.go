// SPDX-License-Identifier: AGPL-3.0-only
package agent

import (
	"strings"

	"github.com/shanellmusarurwa/LLM-Tools/internal/config"
	"github.com/shanellmusarurwa/LLM-Tools/internal/errors"
)

// NewChatProvider builds the ChatProvider from cfg.AI.
//
// An explicit cfg.AI.Provider wins and requires a usable key for that
// backend. With no explicit provider, key presence decides: an OpenAI key
// selects OpenAI, else an Anthropic key selects Anthropic, else a generic
// key selects OpenAI. No usable credential at all is a fatal configuration
// error.
func NewChatProvider(cfg *config.Config) (ChatProvider, error) {
	switch strings.ToLower(cfg.AI.Provider) {
	case "anthropic":
		apiKey := cfg.AI.AnthropicAPIKey
		if apiKey == "" {
			apiKey = cfg.AI.APIKey
		}
		if apiKey == "" {
			return nil, errors.InvalidInput("Anthropic API key is not set in configuration")
		}
		return NewAnthropicProvider(apiKey), nil
	case "openai":
		apiKey := cfg.AI.OpenAIAPIKey
		if apiKey == "" {
			apiKey = cfg.AI.APIKey
		}
		if apiKey == "" {
			return nil, errors.InvalidInput("OpenAI API key is not set in configuration")
		}
		return NewOpenAIProvider(apiKey, cfg.AI.BaseURL), nil
	default: // no explicit provider — pick by key presence
		switch {
		case cfg.AI.OpenAIAPIKey != "":
			return NewOpenAIProvider(cfg.AI.OpenAIAPIKey, cfg.AI.BaseURL), nil
		case cfg.AI.AnthropicAPIKey != "":
			return NewAnthropicProvider(cfg.AI.AnthropicAPIKey), nil
		case cfg.AI.APIKey != "":
			return NewOpenAIProvider(cfg.AI.APIKey, cfg.AI.BaseURL), nil
		default:
			return nil, errors.InvalidInput("no API key configured: set OPENAI_API_KEY or ANTHROPIC_API_KEY")
		}
	}
}

// ResolveModel returns the model identifier to request: the configured
// override if set, otherwise the selected provider's default.
func ResolveModel(cfg *config.Config, provider ChatProvider) string {
	if cfg.AI.Model != "" {
		return cfg.AI.Model
	}
	if provider.Name() == "anthropic" {
		return config.DefaultAnthropicModel
	}
	return config.DefaultOpenAIModel
}
