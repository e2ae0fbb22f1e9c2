// SPDX-License-Identifier: AGPL-3.0-only
package agent

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/shanellmusarurwa/LLM-Tools/internal/config"
	"github.com/shanellmusarurwa/LLM-Tools/internal/logging"
	"github.com/shanellmusarurwa/LLM-Tools/internal/model"
)

// Executor runs one query through the conversation loop and records the
// outcome as a model.Result.
type Executor struct {
	cfg         *config.Config
	provider    ChatProvider
	resultStore model.ResultStore
	logger      *logging.Logger
}

// NewExecutor creates an executor. store may be nil to disable history.
func NewExecutor(cfg *config.Config, provider ChatProvider, store model.ResultStore, logger *logging.Logger) *Executor {
	return &Executor{
		cfg:         cfg,
		provider:    provider,
		resultStore: store,
		logger:      logger,
	}
}

// ExecuteQuery runs a single query to completion under the configured
// timeout and persists the run record best-effort. The returned Result
// always carries the outcome; the error is non-nil only for fatal
// provider-level failures.
func (e *Executor) ExecuteQuery(ctx context.Context, query string, tools []ToolDefinition, dispatch Dispatcher) (*model.Result, error) {
	if query == "" {
		return nil, fmt.Errorf("invalid query: empty")
	}

	modelName := ResolveModel(e.cfg, e.provider)
	result := &model.Result{
		RunID:     "run_" + uuid.NewString(),
		Query:     query,
		Provider:  e.provider.Name(),
		Model:     modelName,
		StartTime: time.Now(),
	}
	logger := e.logger.WithField("run_id", result.RunID)

	execCtx, cancel := context.WithTimeout(ctx, e.cfg.AI.RequestTimeout)
	defer cancel()

	runner := NewRunner(e.provider, modelName, "", tools, dispatch, e.cfg.AI.MaxToolIterations, logger)
	outcome, err := runner.Run(execCtx, query)

	result.EndTime = time.Now()
	result.Duration = result.EndTime.Sub(result.StartTime).String()

	if err != nil {
		result.Error = err.Error()
		result.ExitCode = 1
	} else {
		result.Answer = outcome.Answer
		result.Answered = outcome.Answered
		result.Iterations = outcome.Iterations
		result.ToolCalls = outcome.ToolCalls
		result.ExitCode = 0
	}

	model.PersistAndLogResult(e.resultStore, result, logger)

	return result, err
}
