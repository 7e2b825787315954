package agent

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/gridmind-ai/sdk/protocol"
)

// State identifies where the loop is within a single iteration.
type State int

const (
	// StateAwaitingDecision means the loop is about to request the next
	// message from its decision source.
	StateAwaitingDecision State = iota

	// StateDispatching means a decoded action is being executed.
	StateDispatching

	// StateObserving means a tool observation is being recorded and
	// checked against the termination conditions.
	StateObserving

	// StateTerminated means the run has ended.
	StateTerminated
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateAwaitingDecision:
		return "awaiting_decision"
	case StateDispatching:
		return "dispatching"
	case StateObserving:
		return "observing"
	case StateTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// Status indicates how a run ended.
type Status string

const (
	// StatusGoalReached indicates a tool observation matched the success
	// predicate.
	StatusGoalReached Status = "goal_reached"

	// StatusFinalAnswer indicates the decision source emitted a
	// final-answer message and stopped on its own.
	StatusFinalAnswer Status = "final_answer"

	// StatusProtocolFailure indicates a decision-source message could not
	// be decoded, or the source itself failed.
	StatusProtocolFailure Status = "protocol_failure"

	// StatusBudgetExhausted indicates the step budget ran out before any
	// other terminal condition was met.
	StatusBudgetExhausted Status = "budget_exhausted"
)

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}

// IsValid checks if the status is a recognized value.
func (s Status) IsValid() bool {
	switch s {
	case StatusGoalReached, StatusFinalAnswer, StatusProtocolFailure, StatusBudgetExhausted:
		return true
	default:
		return false
	}
}

// IsTerminal returns true if the status represents a final state.
// Every valid status is terminal; the loop has no in-progress statuses.
func (s Status) IsTerminal() bool {
	return s.IsValid()
}

// IsSuccessful returns true if the run ended on a success path.
// Reaching the goal and a voluntary final answer both count.
func (s Status) IsSuccessful() bool {
	return s == StatusGoalReached || s == StatusFinalAnswer
}

// Entry is a single role-tagged record in the conversation history.
// History is append-only and grows monotonically for the life of a run.
type Entry struct {
	// ID uniquely identifies this entry.
	ID string

	// Role tags who produced the content.
	Role protocol.Role

	// Content is the entry text: a prompt, a decision-source message, or
	// a tool observation.
	Content string

	// At is when the entry was appended.
	At time.Time
}

func newEntry(role protocol.Role, content string) Entry {
	return Entry{
		ID:      uuid.NewString(),
		Role:    role,
		Content: content,
		At:      time.Now(),
	}
}

// Result is the outcome of a completed run.
type Result struct {
	// RunID uniquely identifies the run.
	RunID string

	// Status is the terminal state the run ended in.
	Status Status

	// Steps is the number of iterations the loop performed.
	Steps int

	// FinalAnswer holds the answer text when Status is StatusFinalAnswer.
	FinalAnswer string

	// History is the full conversation history of the run.
	History []Entry

	// Err carries the underlying cause for StatusProtocolFailure.
	// It is nil for all other statuses.
	Err error

	// Duration is the wall-clock time the run took.
	Duration time.Duration
}

// DecisionSource produces the next protocol message for the loop.
// Implementations receive the conversation history so far and return a
// single message in the Thought/Action/Action Input format (or a
// final-answer message). The planner package provides a deterministic
// implementation; an LLM-backed source would satisfy the same interface.
type DecisionSource interface {
	Next(ctx context.Context, history []Entry) (string, error)
}

// SourceFunc adapts a plain function to the DecisionSource interface.
type SourceFunc func(ctx context.Context, history []Entry) (string, error)

// Next calls the wrapped function.
func (f SourceFunc) Next(ctx context.Context, history []Entry) (string, error) {
	return f(ctx, history)
}
