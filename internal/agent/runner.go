// SPDX-License-Identifier: AGPL-3.0-only
package agent

import (
	"context"
	"encoding/json"

	"github.com/shanellmusarurwa/LLM-Tools/internal/errors"
	"github.com/shanellmusarurwa/LLM-Tools/internal/logging"
)

// RunOutcome is the terminal state of one conversation run. Answered
// distinguishes a final answer from an exhausted iteration bound; an
// exhausted run is a valid outcome, not an error.
type RunOutcome struct {
	Answer     string
	Answered   bool
	Iterations int
	ToolCalls  int
}

// Runner drives a bounded request/dispatch-tools/repeat cycle against a
// chat-completion backend.
type Runner struct {
	provider      ChatProvider
	model         string
	systemMsg     string
	tools         []ToolDefinition
	dispatch      Dispatcher
	maxIterations int
	logger        *logging.Logger
}

// NewRunner creates a Runner. tools and dispatch may come from any source;
// maxIterations must be at least 1.
func NewRunner(provider ChatProvider, model, systemMsg string, tools []ToolDefinition, dispatch Dispatcher, maxIterations int, logger *logging.Logger) *Runner {
	return &Runner{
		provider:      provider,
		model:         model,
		systemMsg:     systemMsg,
		tools:         tools,
		dispatch:      dispatch,
		maxIterations: maxIterations,
		logger:        logger,
	}
}

// toolFailure is the payload fed back to the model when a tool call fails
// with a recoverable kind. The model sees the failure as the tool's result
// and may recover.
type toolFailure struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

// Run drives the conversation for a single user query.
//
// Each iteration sends the entire accumulated history plus the full tool
// definition list. The assistant's reply is appended to the history before
// inspection. A reply without tool calls ends the run with its text as the
// answer. Otherwise every requested tool call is resolved, in the order the
// endpoint returned them, before the next request goes out. If the
// iteration bound is reached first, Run returns an unanswered outcome.
//
// Recoverable dispatch failures (unknown tool, malformed arguments,
// tool-level validation) are serialized back to the model as tool content.
// Provider failures and non-recoverable dispatch failures abort the run.
func (r *Runner) Run(ctx context.Context, query string) (*RunOutcome, error) {
	msgs := []Message{
		{Role: "user", Content: query},
	}

	toolCalls := 0
	for i := 0; i < r.maxIterations; i++ {
		r.logger.Debugf("Conversation iteration %d", i+1)
		resp, err := r.provider.CreateCompletion(ctx, r.model, r.systemMsg, msgs, r.tools)
		if err != nil {
			r.logger.Errorf("Chat completion failed on iteration %d: %v", i+1, err)
			return nil, err
		}

		msgs = append(msgs, *resp)

		// No tool calls: the reply text is the final answer.
		if len(resp.ToolCalls) == 0 {
			r.logger.Infof("Conversation completed in %d iteration(s)", i+1)
			return &RunOutcome{
				Answer:     resp.Content,
				Answered:   true,
				Iterations: i + 1,
				ToolCalls:  toolCalls,
			}, nil
		}

		// Resolve every requested call before the next request goes out.
		r.logger.Debugf("Processing %d tool calls in iteration %d", len(resp.ToolCalls), i+1)
		for j, call := range resp.ToolCalls {
			r.logger.Debugf("Tool call %d: %s", j+1, call.Name)
			out, err := r.dispatch(ctx, call)
			if err != nil {
				if !errors.IsRecoverable(err) {
					r.logger.Errorf("Tool call %s failed: %v", call.Name, err)
					return nil, err
				}
				r.logger.Warnf("Tool call %s failed: %v", call.Name, err)
				out = encodeToolFailure(err)
			}
			msgs = append(msgs, Message{
				Role:       "tool",
				Content:    out,
				ToolCallID: call.ID,
			})
			toolCalls++
		}
	}

	r.logger.Warnf("No final answer within %d iterations", r.maxIterations)
	return &RunOutcome{
		Answered:   false,
		Iterations: r.maxIterations,
		ToolCalls:  toolCalls,
	}, nil
}

// encodeToolFailure serializes a dispatch error as structured tool content.
func encodeToolFailure(err error) string {
	payload := toolFailure{
		Error: err.Error(),
		Kind:  errors.Kind(err),
	}
	out, merr := json.Marshal(payload)
	if merr != nil {
		return `{"error":"tool failed","kind":"internal"}`
	}
	return string(out)
}
