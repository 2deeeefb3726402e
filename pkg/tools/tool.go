package tools

import (
	"context"
	"fmt"
	"strings"
)

// Parameter declares one tool parameter for schema generation and
// argument validation.
type Parameter struct {
	Name        string   `json:"name"`
	Type        string   `json:"type"` // string, number, boolean, object, array
	Description string   `json:"description"`
	Required    bool     `json:"required"`
	Enum        []string `json:"enum,omitempty"`
	Items       string   `json:"items,omitempty"` // item type for arrays
	MinItems    int      `json:"min_items,omitempty"`
	MaxItems    int      `json:"max_items,omitempty"`
}

// Handler is the uniform callable behind a tool. Arguments arrive as the
// decoded JSON payload from the model; the return value is serialized
// back into the conversation as a tool result.
type Handler func(ctx context.Context, args map[string]any) (any, error)

// Tool is an immutable descriptor pairing a callable implementation with
// its machine-readable schema. Constructed once at startup and safe to
// share across concurrent queries.
type Tool struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Parameters  []Parameter `json:"parameters"`
	// ExactlyOneOf lists groups of parameter names of which exactly one
	// must be supplied per call.
	ExactlyOneOf [][]string `json:"-"`
	Handler      Handler    `json:"-"`
}

// Execute validates args against the declared schema and runs the
// handler. Schema violations return an *ArgumentError without ever
// reaching the tool body. A panicking handler is surfaced as an
// *ExecutionError so a single bad tool call cannot crash the process.
func (t *Tool) Execute(ctx context.Context, args map[string]any) (result any, err error) {
	if t.Handler == nil {
		return nil, &ExecutionError{Tool: t.Name, Kind: "ExecutionError", Err: fmt.Errorf("tool %s has no handler", t.Name)}
	}

	if err := t.ValidateArgs(args); err != nil {
		return nil, err
	}

	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = &ExecutionError{Tool: t.Name, Kind: "ExecutionError", Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	return t.Handler(ctx, args)
}

// ValidateArgs checks required parameters, enum membership, and
// exactly-one-of groups.
func (t *Tool) ValidateArgs(args map[string]any) error {
	for _, param := range t.Parameters {
		if param.Required {
			if _, ok := args[param.Name]; !ok {
				return &ArgumentError{Tool: t.Name, Reason: fmt.Sprintf("missing required parameter: %s", param.Name)}
			}
		}
		if len(param.Enum) > 0 {
			if raw, ok := args[param.Name]; ok {
				v, ok := raw.(string)
				if !ok || !contains(param.Enum, v) {
					return &ArgumentError{Tool: t.Name, Reason: fmt.Sprintf("parameter %s must be one of: %s", param.Name, strings.Join(param.Enum, ", "))}
				}
			}
		}
	}

	for _, group := range t.ExactlyOneOf {
		count := 0
		for _, name := range group {
			if v, ok := args[name]; ok && v != nil {
				count++
			}
		}
		if count != 1 {
			return &ArgumentError{Tool: t.Name, Reason: fmt.Sprintf("exactly one of %s must be specified", strings.Join(group, ", "))}
		}
	}

	return nil
}

// ToJSONSchema returns the tool definition in the JSON schema shape the
// completion service expects.
func (t *Tool) ToJSONSchema() map[string]any {
	properties := make(map[string]any)
	required := make([]string, 0)

	for _, param := range t.Parameters {
		prop := map[string]any{
			"type":        param.Type,
			"description": param.Description,
		}
		if len(param.Enum) > 0 {
			prop["enum"] = param.Enum
		}
		if param.Type == "array" && param.Items != "" {
			prop["items"] = map[string]any{"type": param.Items}
			if param.MinItems > 0 {
				prop["minItems"] = param.MinItems
			}
			if param.MaxItems > 0 {
				prop["maxItems"] = param.MaxItems
			}
		}
		properties[param.Name] = prop

		if param.Required {
			required = append(required, param.Name)
		}
	}

	return map[string]any{
		"type": "function",
		"function": map[string]any{
			"name":        t.Name,
			"description": t.Description,
			"parameters": map[string]any{
				"type":       "object",
				"properties": properties,
				"required":   required,
			},
		},
	}
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
