package tools

import (
	"fmt"
	"strings"
)

// Registry is the fixed set of tools available to the agent.
// It is immutable after NewRegistry returns, so concurrent readers need no lock.
type Registry struct {
	order []Tool
	tools map[string]Tool
}

// NewRegistry builds a registry from tools, keeping their order.
// Returns an error for empty or duplicate names.
func NewRegistry(tools ...Tool) (*Registry, error) {
	r := &Registry{
		order: make([]Tool, 0, len(tools)),
		tools: make(map[string]Tool, len(tools)),
	}

	for _, tool := range tools {
		name := tool.Name()
		if strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("tool name must not be empty")
		}
		if _, exists := r.tools[name]; exists {
			return nil, fmt.Errorf("tool %q already registered", name)
		}
		r.tools[name] = tool
		r.order = append(r.order, tool)
	}

	return r, nil
}

// Get retrieves a tool by exact, case-sensitive name
func (r *Registry) Get(name string) (Tool, bool) {
	tool, exists := r.tools[name]
	return tool, exists
}

// List returns the tools in registration order
func (r *Registry) List() []Tool {
	ret := make([]Tool, len(r.order))
	copy(ret, r.order)
	return ret
}

// Names returns the tool names in registration order
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.order))
	for _, tool := range r.order {
		names = append(names, tool.Name())
	}
	return names
}

// Count returns the number of registered tools
func (r *Registry) Count() int {
	return len(r.order)
}
