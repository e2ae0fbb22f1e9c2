// SPDX-License-Identifier: AGPL-3.0-only
package tools

import (
	"context"
	"encoding/json"

	"github.com/invopop/jsonschema"
)

// Tool is a named function the model can invoke during a conversation.
// Call receives the raw serialized argument payload from the model and
// returns a serialized result.
type Tool interface {
	Name() string
	Description() string
	// Parameters returns the JSON-schema map describing the tool's input.
	Parameters() map[string]interface{}
	Call(ctx context.Context, argsJSON string) (string, error)
}

// reflectParameters derives the JSON-schema parameter map for a tool input
// struct. Properties come from the struct's json tags; every field without
// omitempty is required.
func reflectParameters[T any]() map[string]interface{} {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	schema := reflector.Reflect(v)

	raw, err := json.Marshal(schema)
	if err != nil {
		return map[string]interface{}{"type": "object"}
	}
	var params map[string]interface{}
	if err := json.Unmarshal(raw, &params); err != nil {
		return map[string]interface{}{"type": "object"}
	}
	delete(params, "$schema")
	return params
}
