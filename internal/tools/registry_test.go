// SPDX-License-Identifier: AGPL-3.0-only
package tools

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/shanellmusarurwa/LLM-Tools/internal/agent"
	apperrors "github.com/shanellmusarurwa/LLM-Tools/internal/errors"
)

func TestBuiltinRegistryDefinitions(t *testing.T) {
	reg := NewBuiltinRegistry()

	if reg.Len() != 3 {
		t.Fatalf("Len = %d, want 3", reg.Len())
	}

	defs := reg.Definitions()
	wantNames := []string{"get_flight_schedule", "get_hotel_schedule", "convert_currency"}
	if len(defs) != len(wantNames) {
		t.Fatalf("Expected %d definitions, got %d", len(wantNames), len(defs))
	}
	for i, want := range wantNames {
		if defs[i].Name != want {
			t.Errorf("Definitions[%d].Name = %q, want %q", i, defs[i].Name, want)
		}
		if defs[i].Description == "" {
			t.Errorf("Definitions[%d] has empty description", i)
		}
		if defs[i].Parameters == nil {
			t.Errorf("Definitions[%d] has nil parameters", i)
		}
	}
}

func TestDefinitionsParameterSchema(t *testing.T) {
	defs := NewRegistry(NewConvertCurrencyTool()).Definitions()
	params := defs[0].Parameters

	if params["type"] != "object" {
		t.Errorf(`params["type"] = %v, want "object"`, params["type"])
	}

	props, ok := params["properties"].(map[string]interface{})
	if !ok {
		t.Fatalf("properties missing or wrong type: %T", params["properties"])
	}
	for _, field := range []string{"amount", "from_currency", "to_currency"} {
		if _, ok := props[field]; !ok {
			t.Errorf("properties missing %q", field)
		}
	}

	required, ok := params["required"].([]interface{})
	if !ok {
		t.Fatalf("required missing or wrong type: %T", params["required"])
	}
	if len(required) != 3 {
		t.Errorf("Expected 3 required fields, got %v", required)
	}
}

func TestDispatchRoutesToTool(t *testing.T) {
	reg := NewBuiltinRegistry()

	out, err := reg.Dispatch(context.Background(), agent.ToolCall{
		ID:        "call_1",
		Name:      "get_hotel_schedule",
		Arguments: `{"city":"Accra"}`,
	})
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if out == "" {
		t.Error("Expected non-empty tool result")
	}
}

func TestDispatchUnknownTool(t *testing.T) {
	reg := NewBuiltinRegistry()

	_, err := reg.Dispatch(context.Background(), agent.ToolCall{
		ID:        "call_1",
		Name:      "book_flight",
		Arguments: `{}`,
	})
	if err == nil {
		t.Fatal("Expected error for unknown tool, got nil")
	}
	if !stderrors.Is(err, apperrors.ErrUnknownTool) {
		t.Errorf("Expected ErrUnknownTool, got %v", err)
	}
	if !apperrors.IsRecoverable(err) {
		t.Error("Unknown tool must be recoverable")
	}
}

func TestRegisterReplacesSameName(t *testing.T) {
	reg := NewRegistry(NewFlightScheduleTool())
	reg.Register(NewFlightScheduleTool())

	if reg.Len() != 1 {
		t.Errorf("Len = %d, want 1 after replacing registration", reg.Len())
	}
}
