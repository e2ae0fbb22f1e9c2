// SPDX-License-Identifier: AGPL-3.0-only
package tools

import (
	"context"

	"github.com/shanellmusarurwa/LLM-Tools/internal/agent"
	"github.com/shanellmusarurwa/LLM-Tools/internal/errors"
)

// Registry maps tool names to handlers. Registration order is preserved so
// the tool-definition list sent to the model is stable.
type Registry struct {
	order []string
	tools map[string]Tool
}

// NewRegistry creates a registry containing the given tools.
func NewRegistry(tools ...Tool) *Registry {
	r := &Registry{tools: make(map[string]Tool)}
	for _, t := range tools {
		r.Register(t)
	}
	return r
}

// NewBuiltinRegistry creates a registry with the built-in travel tools.
func NewBuiltinRegistry() *Registry {
	return NewRegistry(
		NewFlightScheduleTool(),
		NewHotelScheduleTool(),
		NewConvertCurrencyTool(),
	)
}

// Register adds a tool, replacing any existing tool with the same name.
func (r *Registry) Register(t Tool) {
	if _, exists := r.tools[t.Name()]; !exists {
		r.order = append(r.order, t.Name())
	}
	r.tools[t.Name()] = t
}

// Len returns the number of registered tools.
func (r *Registry) Len() int {
	return len(r.order)
}

// Definitions returns the provider-agnostic definitions for every
// registered tool, in registration order.
func (r *Registry) Definitions() []agent.ToolDefinition {
	defs := make([]agent.ToolDefinition, 0, len(r.order))
	for _, name := range r.order {
		t := r.tools[name]
		defs = append(defs, agent.ToolDefinition{
			Name:        t.Name(),
			Description: t.Description(),
			Parameters:  t.Parameters(),
		})
	}
	return defs
}

// Dispatch routes a model tool call to its handler. An unregistered name
// yields ErrUnknownTool; argument decode failures inside the handler yield
// ErrMalformedArguments. Both are recoverable by the conversation loop.
func (r *Registry) Dispatch(ctx context.Context, call agent.ToolCall) (string, error) {
	t, ok := r.tools[call.Name]
	if !ok {
		return "", errors.UnknownTool(call.Name)
	}
	return t.Call(ctx, call.Arguments)
}
