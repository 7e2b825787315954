package tool

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
)

// Registry maps action names to tools and dispatches decoded protocol
// messages to them.
type Registry struct {
	logger *slog.Logger
	mu     sync.RWMutex
	tools  map[string]Tool
}

// NewRegistry creates an empty registry.
// A nil logger falls back to slog.Default().
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		logger: logger,
		tools:  make(map[string]Tool),
	}
}

// Register adds a tool to the registry.
// Returns an error if a tool with the same name already exists.
func (r *Registry) Register(t Tool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tools[t.Name()]; exists {
		return fmt.Errorf("tool already registered: %s", t.Name())
	}

	r.tools[t.Name()] = t
	r.logger.Debug("tool registered", slog.String("name", t.Name()))
	return nil
}

// Get retrieves a tool by name.
// Returns an error if the tool is not found.
func (r *Registry) Get(name string) (Tool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tools[name]
	if !ok {
		return nil, fmt.Errorf("tool not found: %s", name)
	}
	return t, nil
}

// Names returns the registered action names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Dispatch routes one decoded action to its tool and returns the tagged
// outcome. An unknown action name yields a StatusUnknownTool outcome; a
// panic inside a recognized tool is recovered and yields StatusError. Both
// carry an error-tagged observation the caller records; neither propagates.
func (r *Registry) Dispatch(ctx context.Context, name, input string) (out Outcome) {
	tool, err := r.Get(name)
	if err != nil {
		r.logger.Warn("unknown tool dispatched", slog.String("name", name))
		return Outcome{
			Tool:        name,
			Status:      StatusUnknownTool,
			Observation: fmt.Sprintf("ERROR: Tool %q is not registered.", name),
		}
	}

	defer func() {
		if cause := recover(); cause != nil {
			r.logger.Error("tool panicked",
				slog.String("name", name),
				"cause", cause,
			)
			out = Outcome{
				Tool:        name,
				Status:      StatusError,
				Observation: fmt.Sprintf("TOOL ERROR: Failed to execute tool %q: %v", name, cause),
				Err:         fmt.Errorf("tool %s panicked: %v", name, cause),
			}
		}
	}()

	return Outcome{
		Tool:        name,
		Status:      StatusOK,
		Observation: tool.Execute(ctx, input),
	}
}
