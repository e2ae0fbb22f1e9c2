// SPDX-License-Identifier: AGPL-3.0-only
package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"testing"

	apperrors "github.com/shanellmusarurwa/LLM-Tools/internal/errors"
	"github.com/shanellmusarurwa/LLM-Tools/internal/logging"
)

func testLogger() *logging.Logger {
	return logging.New(logging.Options{Output: io.Discard, Level: logging.Fatal})
}

// scriptedProvider replays a fixed sequence of assistant messages and
// records the message history it received on every call.
type scriptedProvider struct {
	script   []*Message
	calls    int
	received [][]Message
	err      error
}

func (p *scriptedProvider) Name() string { return "scripted" }

func (p *scriptedProvider) CreateCompletion(ctx context.Context, model string, systemMsg string, messages []Message, tools []ToolDefinition) (*Message, error) {
	// Snapshot the history as received.
	snapshot := make([]Message, len(messages))
	copy(snapshot, messages)
	p.received = append(p.received, snapshot)

	if p.err != nil {
		return nil, p.err
	}
	if p.calls >= len(p.script) {
		// Out of script: keep requesting a tool call so the loop cannot end.
		p.calls++
		return &Message{
			Role: "assistant",
			ToolCalls: []ToolCall{
				{ID: fmt.Sprintf("call_%d", p.calls), Name: "echo", Arguments: `{}`},
			},
		}, nil
	}
	msg := p.script[p.calls]
	p.calls++
	return msg, nil
}

// echoDispatch answers every tool call with a fixed payload.
func echoDispatch(ctx context.Context, call ToolCall) (string, error) {
	return `{"ok":true}`, nil
}

func assistantText(content string) *Message {
	return &Message{Role: "assistant", Content: content}
}

func assistantToolCalls(ids ...string) *Message {
	msg := &Message{Role: "assistant"}
	for _, id := range ids {
		msg.ToolCalls = append(msg.ToolCalls, ToolCall{ID: id, Name: "echo", Arguments: `{}`})
	}
	return msg
}

func TestRunDirectAnswer(t *testing.T) {
	provider := &scriptedProvider{script: []*Message{
		assistantText("The flight takes 5.5 hours"),
	}}

	runner := NewRunner(provider, "test-model", "", nil, echoDispatch, 10, testLogger())
	outcome, err := runner.Run(context.Background(), "How long is the flight?")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if !outcome.Answered {
		t.Error("Expected Answered=true")
	}
	if outcome.Answer != "The flight takes 5.5 hours" {
		t.Errorf("Answer = %q", outcome.Answer)
	}
	if outcome.Iterations != 1 {
		t.Errorf("Iterations = %d, want 1", outcome.Iterations)
	}
	if provider.calls != 1 {
		t.Errorf("Expected exactly 1 endpoint request, got %d", provider.calls)
	}
}

func TestRunToolCallsThenAnswer(t *testing.T) {
	// Two tool-call turns (1 call, then 2 calls), then a final answer.
	provider := &scriptedProvider{script: []*Message{
		assistantToolCalls("call_1"),
		assistantToolCalls("call_2", "call_3"),
		assistantText("All done"),
	}}

	runner := NewRunner(provider, "test-model", "", nil, echoDispatch, 10, testLogger())
	outcome, err := runner.Run(context.Background(), "Plan my trip")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if !outcome.Answered {
		t.Error("Expected Answered=true")
	}
	if outcome.Answer != "All done" {
		t.Errorf("Answer = %q, want 'All done'", outcome.Answer)
	}
	if outcome.Iterations != 3 {
		t.Errorf("Iterations = %d, want 3", outcome.Iterations)
	}
	if outcome.ToolCalls != 3 {
		t.Errorf("ToolCalls = %d, want 3", outcome.ToolCalls)
	}

	// History received on the final request: the user message, plus one
	// assistant and one tool message per call from the first two turns.
	// 1 + (1 assistant + 1 tool) + (1 assistant + 2 tool) = 6.
	final := provider.received[len(provider.received)-1]
	if len(final) != 6 {
		t.Fatalf("final request history length = %d, want 6", len(final))
	}
}

func TestRunToolMessagesMatchCallOrder(t *testing.T) {
	provider := &scriptedProvider{script: []*Message{
		assistantToolCalls("call_a", "call_b", "call_c"),
		assistantText("done"),
	}}

	runner := NewRunner(provider, "test-model", "", nil, echoDispatch, 10, testLogger())
	if _, err := runner.Run(context.Background(), "q"); err != nil {
		t.Fatalf("Run: %v", err)
	}

	// Second request history: user, assistant, tool, tool, tool.
	final := provider.received[1]
	if len(final) != 5 {
		t.Fatalf("history length = %d, want 5", len(final))
	}
	wantIDs := []string{"call_a", "call_b", "call_c"}
	for i, want := range wantIDs {
		msg := final[2+i]
		if msg.Role != "tool" {
			t.Errorf("message %d role = %q, want tool", 2+i, msg.Role)
		}
		if msg.ToolCallID != want {
			t.Errorf("tool message %d ToolCallID = %q, want %q", i, msg.ToolCallID, want)
		}
	}
}

func TestRunAssistantReplyAppendedBeforeInspection(t *testing.T) {
	// Even a direct answer must appear in the history snapshot of a
	// hypothetical next request. Verify via the tool-call path: the
	// assistant message with tool calls precedes its tool replies.
	provider := &scriptedProvider{script: []*Message{
		assistantToolCalls("call_1"),
		assistantText("done"),
	}}

	runner := NewRunner(provider, "test-model", "", nil, echoDispatch, 10, testLogger())
	if _, err := runner.Run(context.Background(), "q"); err != nil {
		t.Fatalf("Run: %v", err)
	}

	final := provider.received[1]
	if final[1].Role != "assistant" || len(final[1].ToolCalls) != 1 {
		t.Errorf("expected assistant tool-call message at position 1, got %+v", final[1])
	}
}

func TestRunIterationBound(t *testing.T) {
	// An empty script makes the provider request tools forever.
	provider := &scriptedProvider{}

	const maxIterations = 10
	runner := NewRunner(provider, "test-model", "", nil, echoDispatch, maxIterations, testLogger())
	outcome, err := runner.Run(context.Background(), "never ends")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if outcome.Answered {
		t.Error("Expected Answered=false for exhausted run")
	}
	if outcome.Answer != "" {
		t.Errorf("Expected empty answer for exhausted run, got %q", outcome.Answer)
	}
	if outcome.Iterations != maxIterations {
		t.Errorf("Iterations = %d, want %d", outcome.Iterations, maxIterations)
	}
	if provider.calls != maxIterations {
		t.Errorf("Expected exactly %d endpoint requests, got %d", maxIterations, provider.calls)
	}
}

func TestRunUnknownToolContinues(t *testing.T) {
	provider := &scriptedProvider{script: []*Message{
		{
			Role: "assistant",
			ToolCalls: []ToolCall{
				{ID: "call_1", Name: "nonexistent_tool", Arguments: `{}`},
			},
		},
		assistantText("recovered"),
	}}

	dispatch := func(ctx context.Context, call ToolCall) (string, error) {
		return "", apperrors.UnknownTool(call.Name)
	}

	runner := NewRunner(provider, "test-model", "", nil, dispatch, 10, testLogger())
	outcome, err := runner.Run(context.Background(), "q")
	if err != nil {
		t.Fatalf("Run should not fail on unknown tool: %v", err)
	}
	if !outcome.Answered || outcome.Answer != "recovered" {
		t.Errorf("Expected loop to continue to the final answer, got %+v", outcome)
	}

	// The failure is fed back as structured tool content.
	final := provider.received[1]
	toolMsg := final[2]
	if toolMsg.Role != "tool" || toolMsg.ToolCallID != "call_1" {
		t.Fatalf("expected tool message answering call_1, got %+v", toolMsg)
	}
	var failure struct {
		Error string `json:"error"`
		Kind  string `json:"kind"`
	}
	if err := json.Unmarshal([]byte(toolMsg.Content), &failure); err != nil {
		t.Fatalf("tool failure content is not valid JSON: %v", err)
	}
	if failure.Kind != "unknown_tool" {
		t.Errorf("failure kind = %q, want unknown_tool", failure.Kind)
	}
	if !strings.Contains(failure.Error, "nonexistent_tool") {
		t.Errorf("failure error should name the tool, got %q", failure.Error)
	}
}

func TestRunMalformedArgumentsContinues(t *testing.T) {
	provider := &scriptedProvider{script: []*Message{
		{
			Role: "assistant",
			ToolCalls: []ToolCall{
				{ID: "call_1", Name: "convert_currency", Arguments: `{not json`},
			},
		},
		assistantText("recovered"),
	}}

	dispatch := func(ctx context.Context, call ToolCall) (string, error) {
		return "", apperrors.MalformedArguments(call.Name, fmt.Errorf("invalid character 'n'"))
	}

	runner := NewRunner(provider, "test-model", "", nil, dispatch, 10, testLogger())
	outcome, err := runner.Run(context.Background(), "q")
	if err != nil {
		t.Fatalf("Run should not fail on malformed arguments: %v", err)
	}
	if !outcome.Answered {
		t.Error("Expected the loop to recover and answer")
	}

	var failure struct {
		Kind string `json:"kind"`
	}
	toolMsg := provider.received[1][2]
	if err := json.Unmarshal([]byte(toolMsg.Content), &failure); err != nil {
		t.Fatalf("unmarshal failure payload: %v", err)
	}
	if failure.Kind != "malformed_arguments" {
		t.Errorf("failure kind = %q, want malformed_arguments", failure.Kind)
	}
}

func TestRunInternalToolErrorAborts(t *testing.T) {
	// Only the recoverable kinds are fed back to the model; an internal
	// tool failure aborts the run like a provider failure.
	provider := &scriptedProvider{script: []*Message{
		assistantToolCalls("call_1"),
		assistantText("never reached"),
	}}

	dispatch := func(ctx context.Context, call ToolCall) (string, error) {
		return "", apperrors.Internal(fmt.Errorf("result serialization failed"))
	}

	runner := NewRunner(provider, "test-model", "", nil, dispatch, 10, testLogger())
	outcome, err := runner.Run(context.Background(), "q")
	if err == nil {
		t.Fatal("Expected internal tool error to abort the run")
	}
	if outcome != nil {
		t.Errorf("Expected nil outcome, got %+v", outcome)
	}
	if apperrors.IsRecoverable(err) {
		t.Error("Internal errors must not be recoverable")
	}
	if provider.calls != 1 {
		t.Errorf("Expected no further requests after the abort, got %d", provider.calls)
	}
}

func TestRunProviderErrorAborts(t *testing.T) {
	provider := &scriptedProvider{err: apperrors.Provider(fmt.Errorf("connection refused"))}

	runner := NewRunner(provider, "test-model", "", nil, echoDispatch, 10, testLogger())
	outcome, err := runner.Run(context.Background(), "q")
	if err == nil {
		t.Fatal("Expected provider error to abort the run")
	}
	if outcome != nil {
		t.Errorf("Expected nil outcome on provider error, got %+v", outcome)
	}
}

func TestRunSendsFullToolListEveryIteration(t *testing.T) {
	provider := &scriptedProvider{script: []*Message{
		assistantToolCalls("call_1"),
		assistantText("done"),
	}}

	tools := []ToolDefinition{
		{Name: "get_flight_schedule", Description: "flights"},
		{Name: "get_hotel_schedule", Description: "hotels"},
		{Name: "convert_currency", Description: "currency"},
	}

	var toolCounts []int
	wrapped := &toolListRecorder{inner: provider, counts: &toolCounts}

	runner := NewRunner(wrapped, "test-model", "", tools, echoDispatch, 10, testLogger())
	if _, err := runner.Run(context.Background(), "q"); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(toolCounts) != 2 {
		t.Fatalf("expected 2 requests, got %d", len(toolCounts))
	}
	for i, n := range toolCounts {
		if n != 3 {
			t.Errorf("request %d sent %d tool definitions, want 3", i+1, n)
		}
	}
}

// toolListRecorder records the number of tool definitions per request.
type toolListRecorder struct {
	inner  ChatProvider
	counts *[]int
}

func (r *toolListRecorder) Name() string { return r.inner.Name() }

func (r *toolListRecorder) CreateCompletion(ctx context.Context, model string, systemMsg string, messages []Message, tools []ToolDefinition) (*Message, error) {
	*r.counts = append(*r.counts, len(tools))
	return r.inner.CreateCompletion(ctx, model, systemMsg, messages, tools)
}
