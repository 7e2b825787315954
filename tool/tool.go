package tool

import (
	"context"
)

// Tool is a single named capability the agent can invoke.
type Tool interface {
	// Name returns the action name the decision source dispatches with.
	Name() string

	// Description returns a human-readable description of what this tool does.
	Description() string

	// Execute runs the tool against its raw argument text and returns an
	// observation. Context is used for cancellation and request-scoped values.
	Execute(ctx context.Context, input string) string
}

// Func adapts a plain function into a Tool.
type Func struct {
	name        string
	description string
	fn          func(ctx context.Context, input string) string
}

// NewFunc creates a function-backed tool.
func NewFunc(name, description string, fn func(ctx context.Context, input string) string) *Func {
	return &Func{name: name, description: description, fn: fn}
}

// Name returns the tool's action name.
func (f *Func) Name() string { return f.name }

// Description returns the tool's description.
func (f *Func) Description() string { return f.description }

// Execute invokes the wrapped function.
func (f *Func) Execute(ctx context.Context, input string) string {
	return f.fn(ctx, input)
}

// Status tags a dispatch outcome.
type Status string

const (
	// StatusOK means the tool ran and produced its observation.
	StatusOK Status = "ok"

	// StatusUnknownTool means no tool is registered under the action name.
	StatusUnknownTool Status = "unknown_tool"

	// StatusError means a recognized tool faulted; the fault was recovered
	// at the dispatch boundary.
	StatusError Status = "error"
)

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}

// IsValid checks if the status is a recognized value.
func (s Status) IsValid() bool {
	switch s {
	case StatusOK, StatusUnknownTool, StatusError:
		return true
	default:
		return false
	}
}

// Outcome is the tagged result of one dispatch. Observation is always
// populated, including for the failure statuses, so the loop can record it
// and continue.
type Outcome struct {
	// Tool is the action name that was dispatched.
	Tool string

	// Status tags how the dispatch went.
	Status Status

	// Observation is the textual result recorded in the conversation history.
	Observation string

	// Err carries the underlying cause for StatusError outcomes.
	Err error
}
