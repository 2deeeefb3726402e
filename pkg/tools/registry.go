package tools

import (
	"context"
	"fmt"
	"sync"
)

// Registry acts as a central inventory for all tools available to the
// agent. The descriptor list is read-only after startup and safe for
// concurrent queries to share.
type Registry struct {
	mu    sync.RWMutex
	order []string // registration order, preserved for schema emission
	tools map[string]*Tool
}

// NewRegistry creates an empty tool registry.
func NewRegistry() *Registry {
	return &Registry{
		tools: make(map[string]*Tool),
	}
}

// Register adds a tool keyed by its name. Registering a duplicate or
// unnamed tool is a programming error and is rejected.
func (r *Registry) Register(tool *Tool) error {
	if tool == nil || tool.Name == "" {
		return fmt.Errorf("tool name cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tools[tool.Name]; exists {
		return fmt.Errorf("tool %s already registered", tool.Name)
	}
	r.tools[tool.Name] = tool
	r.order = append(r.order, tool.Name)
	return nil
}

// Get retrieves a tool by name.
func (r *Registry) Get(name string) (*Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tool, ok := r.tools[name]
	return tool, ok
}

// Describe returns all tool definitions in registration order, in the
// JSON schema shape included with every completion request.
func (r *Registry) Describe() []map[string]any {
	r.mu.RLock()
	defer r.mu.RUnlock()

	schemas := make([]map[string]any, 0, len(r.order))
	for _, name := range r.order {
		schemas = append(schemas, r.tools[name].ToJSONSchema())
	}
	return schemas
}

// All returns the registered tools in registration order.
func (r *Registry) All() []*Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]*Tool, 0, len(r.order))
	for _, name := range r.order {
		list = append(list, r.tools[name])
	}
	return list
}

// Invoke looks up a tool by name and executes it with the supplied
// arguments. An unknown name yields a *NotFoundError; argument and
// execution failures propagate from the tool itself.
func (r *Registry) Invoke(ctx context.Context, name string, args map[string]any) (any, error) {
	tool, ok := r.Get(name)
	if !ok {
		return nil, &NotFoundError{Tool: name}
	}
	return tool.Execute(ctx, args)
}
