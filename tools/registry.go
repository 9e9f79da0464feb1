package tools

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

type Registry struct {
	tools map[string]Tool
	mu    sync.RWMutex
}

func NewRegistry() *Registry {
	return &Registry{
		tools: make(map[string]Tool),
	}
}

func (r *Registry) Register(tool Tool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := tool.Name()
	if _, exists := r.tools[name]; exists {
		return fmt.Errorf("tool %s already exists", name)
	}

	r.tools[name] = tool
	return nil
}

func (r *Registry) Get(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tool, exists := r.tools[name]
	return tool, exists
}

// List returns the registered tools sorted by name.
func (r *Registry) List() []Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tools := make([]Tool, 0, len(r.tools))
	for _, tool := range r.tools {
		tools = append(tools, tool)
	}
	sort.Slice(tools, func(i, j int) bool { return tools[i].Name() < tools[j].Name() })
	return tools
}

func (r *Registry) Execute(ctx context.Context, name string, args map[string]any) (string, error) {
	tool, exists := r.Get(name)
	if !exists {
		return "", fmt.Errorf("%w: %s", ErrToolNotFound, name)
	}
	return tool.Execute(ctx, args)
}

// ToolSchema is the function-calling description handed to the realtime model.
type ToolSchema struct {
	Type     string         `json:"type"`
	Function FunctionSchema `json:"function"`
}

type FunctionSchema struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

func (r *Registry) Schemas() []ToolSchema {
	tools := r.List()
	schemas := make([]ToolSchema, 0, len(tools))
	for _, tool := range tools {
		schemas = append(schemas, ToolSchema{
			Type: "function",
			Function: FunctionSchema{
				Name:        tool.Name(),
				Description: tool.Description(),
				Parameters:  buildParameterSchema(tool.Parameters()),
			},
		})
	}
	return schemas
}

func buildParameterSchema(params []ParameterDef) map[string]any {
	properties := make(map[string]any)
	required := make([]string, 0)

	for _, param := range params {
		properties[param.Name] = map[string]any{
			"type":        param.Type,
			"description": param.Description,
		}
		if param.Required {
			required = append(required, param.Name)
		}
	}

	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}
