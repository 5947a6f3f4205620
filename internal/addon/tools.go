package addon

import (
	"context"
	"maps"
	"slices"
	"sync"
)

// DefaultToolMaxRetries applies to tools registered without a retry budget.
const DefaultToolMaxRetries = 3

// ToolFunc is a host-supplied function an action may call.
type ToolFunc func(ctx context.Context, args map[string]any) (any, error)

// Tool is a registered tool with its metadata.
type Tool struct {
	Name        string
	Description string
	MaxRetries  int
	Func        ToolFunc
}

// ToolRegistry keeps the tools made available to actions.
// Retry budgets are recorded for the host; the addon never retries itself.
type ToolRegistry struct {
	mu    sync.RWMutex
	tools map[string]Tool
}

// NewToolRegistry creates an empty registry.
func NewToolRegistry() *ToolRegistry {
	return &ToolRegistry{tools: make(map[string]Tool)}
}

// RegisterTools adds every function in funcs. Descriptions and retry budgets
// are looked up by tool name; either map may be nil.
func (r *ToolRegistry) RegisterTools(funcs map[string]ToolFunc, descriptions map[string]string, maxRetries map[string]int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for name, fn := range funcs {
		if fn == nil {
			continue
		}
		retries, ok := maxRetries[name]
		if !ok || retries < 0 {
			retries = DefaultToolMaxRetries
		}
		r.tools[name] = Tool{
			Name:        name,
			Description: descriptions[name],
			MaxRetries:  retries,
			Func:        fn,
		}
	}
}

// GetToolsForAction returns a snapshot of the registered tools.
func (r *ToolRegistry) GetToolsForAction() map[string]Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return maps.Clone(r.tools)
}

// Names returns the sorted names of the registered tools.
func (r *ToolRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.tools))
}

// Clear removes every registered tool.
func (r *ToolRegistry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	clear(r.tools)
}
