// SPDX-License-Identifier: AGPL-3.0-only
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/shanellmusarurwa/LLM-Tools/internal/agent"
	"github.com/shanellmusarurwa/LLM-Tools/internal/config"
	"github.com/shanellmusarurwa/LLM-Tools/internal/logging"
	"github.com/shanellmusarurwa/LLM-Tools/internal/model"
	"github.com/shanellmusarurwa/LLM-Tools/internal/singleton"
	"github.com/shanellmusarurwa/LLM-Tools/internal/store"
	"github.com/shanellmusarurwa/LLM-Tools/internal/tools"
)

const (
	appName    = "llm-tools"
	appVersion = "0.1.0"
)

var (
	aiProvider      = flag.String("provider", "", "AI provider: openai or anthropic (default: pick by API key presence)")
	aiModel         = flag.String("model", "", "Model to request (default: provider-specific)")
	aiBaseURL       = flag.String("base-url", "", "Custom base URL for OpenAI-compatible endpoints (e.g. Ollama, vLLM, Groq, LiteLLM)")
	aiMaxIterations = flag.Int("max-iterations", 0, "Maximum completion requests per run (default: 10)")
	aiTimeout       = flag.Duration("timeout", 0, "Timeout for a whole run (default: 5m)")
	logLevel        = flag.String("log-level", "", "Logging level: debug, info, warn, error, fatal")
	dbPath          = flag.String("db-path", "", "Path to SQLite database for run history (default: ~/.llm-tools/history.db)")
	noHistory       = flag.Bool("no-history", false, "Disable run history persistence")
	mcpConfigPath   = flag.String("mcp-config", "", "Path to MCP configuration file with extra tool servers")
	historyCount    = flag.Int("history", 0, "Print the last N run records as JSON and exit")
	version         = flag.Bool("version", false, "Show version information and exit")
)

func main() {
	flag.Usage = usage
	flag.Parse()

	if *version {
		fmt.Printf("%s version %s\n", appName, appVersion)
		os.Exit(0)
	}

	cfg := loadConfig()
	logger := newLogger(cfg)

	if *historyCount > 0 {
		showHistory(cfg, logger, *historyCount)
		return
	}

	query := strings.TrimSpace(strings.Join(flag.Args(), " "))
	if query == "" {
		flag.Usage()
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	resultStore, release := openStore(cfg, logger)
	defer release()

	provider, err := agent.NewChatProvider(cfg)
	if err != nil {
		logger.Fatalf("Provider selection failed: %v", err)
	}

	registry := tools.NewBuiltinRegistry()
	if cfg.AI.MCPConfigFilePath != "" {
		closeSessions, err := tools.LoadMCPTools(cfg.AI.MCPConfigFilePath, registry, logger)
		defer closeSessions()
		if err != nil {
			logger.Warnf("Failed to load MCP tools from %s: %v", cfg.AI.MCPConfigFilePath, err)
		}
	}

	executor := agent.NewExecutor(cfg, provider, resultStore, logger)
	result, err := executor.ExecuteQuery(ctx, query, registry.Definitions(), registry.Dispatch)
	if err != nil {
		logger.Fatalf("Run failed: %v", err)
	}

	if result.Answered {
		fmt.Println(result.Answer)
		return
	}
	// Hitting the iteration bound without a plain answer is a normal,
	// reportable outcome.
	fmt.Printf("no answer within %d iterations\n", result.Iterations)
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s [flags] <query>\n\nFlags:\n", appName)
	flag.PrintDefaults()
}

// loadConfig layers defaults, .env, environment variables and flags, in
// that order, then validates the result.
func loadConfig() *config.Config {
	cfg := config.DefaultConfig()
	config.LoadDotEnv()
	config.FromEnv(cfg)
	applyFlags(cfg)
	cfg.AI.Provider = strings.ToLower(cfg.AI.Provider)

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

func applyFlags(cfg *config.Config) {
	if *aiProvider != "" {
		cfg.AI.Provider = *aiProvider
	}
	if *aiModel != "" {
		cfg.AI.Model = *aiModel
	}
	if *aiBaseURL != "" {
		cfg.AI.BaseURL = *aiBaseURL
	}
	if *aiMaxIterations > 0 {
		cfg.AI.MaxToolIterations = *aiMaxIterations
	}
	if *aiTimeout > 0 {
		cfg.AI.RequestTimeout = *aiTimeout
	}
	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}
	if *dbPath != "" {
		cfg.Store.DBPath = *dbPath
	}
	if *noHistory {
		cfg.Store.Disabled = true
	}
	if *mcpConfigPath != "" {
		cfg.AI.MCPConfigFilePath = *mcpConfigPath
	}
}

func newLogger(cfg *config.Config) *logging.Logger {
	logger := logging.New(logging.Options{
		Output: os.Stderr,
		Level:  logging.ParseLevel(cfg.Logging.Level),
	})
	logging.SetDefaultLogger(logger)
	return logger
}

// openStore opens the run-history store behind a singleton lock. Any
// failure degrades to running without history rather than aborting the
// query.
func openStore(cfg *config.Config, logger *logging.Logger) (model.ResultStore, func()) {
	if cfg.Store.Disabled {
		return nil, func() {}
	}

	lock, acquired, err := singleton.TryAcquire(cfg.Store.DBPath)
	if err != nil {
		logger.Warnf("Failed to acquire history lock: %v; continuing without history", err)
		return nil, func() {}
	}
	if !acquired {
		logger.Warnf("Another instance holds the history database; continuing without history")
		return nil, func() {}
	}

	resultStore, err := store.NewSQLiteStore(cfg.Store.DBPath)
	if err != nil {
		logger.Warnf("Failed to open history database: %v; continuing without history", err)
		_ = lock.Release()
		return nil, func() {}
	}

	return resultStore, func() {
		if err := resultStore.Close(); err != nil {
			logger.Errorf("Error closing history database: %v", err)
		}
		_ = lock.Release()
	}
}

// showHistory prints the most recent run records as a JSON array.
func showHistory(cfg *config.Config, logger *logging.Logger, limit int) {
	if cfg.Store.Disabled {
		logger.Fatalf("History is disabled")
	}

	resultStore, err := store.NewSQLiteStore(cfg.Store.DBPath)
	if err != nil {
		logger.Fatalf("Failed to open history database: %v", err)
	}
	defer func() { _ = resultStore.Close() }()

	results, err := resultStore.GetResults(limit)
	if err != nil {
		logger.Fatalf("Failed to read history: %v", err)
	}

	out, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		logger.Fatalf("Failed to encode history: %v", err)
	}
	fmt.Println(string(out))
}
