package agent

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/gridmind-ai/sdk/grid"
	"github.com/gridmind-ai/sdk/protocol"
	"github.com/gridmind-ai/sdk/tool"
)

// scriptedSource replays a fixed sequence of messages.
type scriptedSource struct {
	messages []string
	calls    int
}

func (s *scriptedSource) Next(_ context.Context, _ []Entry) (string, error) {
	if s.calls >= len(s.messages) {
		return "", errors.New("script exhausted")
	}
	msg := s.messages[s.calls]
	s.calls++
	return msg, nil
}

func newTestRegistry(t *testing.T) *tool.Registry {
	t.Helper()

	layout, err := grid.ParseLayout([]string{
		"WWWWW",
		"W..WW",
		"W.W.T",
		"W...W",
		"WWWWW",
	})
	if err != nil {
		t.Fatalf("ParseLayout() error = %v", err)
	}
	world, err := grid.NewWorld(layout, grid.Position{Row: 1, Col: 1})
	if err != nil {
		t.Fatalf("NewWorld() error = %v", err)
	}
	registry := tool.NewRegistry(nil)
	if err := tool.RegisterWorld(registry, world); err != nil {
		t.Fatalf("RegisterWorld() error = %v", err)
	}
	return registry
}

func moveMessage(direction string) string {
	return protocol.EncodeAction("Continuing along the planned path.", tool.ActionMove, direction)
}

func TestNewLoop_Validation(t *testing.T) {
	registry := newTestRegistry(t)
	source := &scriptedSource{}

	if _, err := NewLoop(nil, registry); !errors.Is(err, ErrNoDecisionSource) {
		t.Errorf("NewLoop(nil source) error = %v, want ErrNoDecisionSource", err)
	}
	if _, err := NewLoop(source, nil); !errors.Is(err, ErrNoRegistry) {
		t.Errorf("NewLoop(nil registry) error = %v, want ErrNoRegistry", err)
	}

	loop, err := NewLoop(source, registry, WithStepBudget(-3))
	if err != nil {
		t.Fatalf("NewLoop() error = %v", err)
	}
	if loop.budget != DefaultStepBudget {
		t.Errorf("budget = %d, want default %d", loop.budget, DefaultStepBudget)
	}
}

func TestLoop_RunReachesGoal(t *testing.T) {
	source := &scriptedSource{messages: []string{
		moveMessage("SOUTH"),
		moveMessage("SOUTH"),
		moveMessage("EAST"),
		moveMessage("EAST"),
		moveMessage("NORTH"),
		moveMessage("EAST"),
	}}
	loop, err := NewLoop(source, newTestRegistry(t))
	if err != nil {
		t.Fatalf("NewLoop() error = %v", err)
	}

	result, err := loop.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result.Status != StatusGoalReached {
		t.Errorf("Status = %v, want goal_reached", result.Status)
	}
	if result.Steps != 6 {
		t.Errorf("Steps = %d, want 6", result.Steps)
	}
	if !result.Status.IsSuccessful() {
		t.Error("goal_reached should be successful")
	}
	if result.RunID == "" {
		t.Error("RunID should be set")
	}

	// Seed entries plus one assistant and one observation per step.
	if got, want := len(result.History), 2+6*2; got != want {
		t.Errorf("history length = %d, want %d", got, want)
	}
	last := result.History[len(result.History)-1]
	if last.Role != protocol.RoleObservation {
		t.Errorf("last entry role = %v, want observation", last.Role)
	}
	if !strings.Contains(last.Content, "SUCCESS") {
		t.Errorf("last observation = %q, want success tag", last.Content)
	}
}

func TestLoop_HistorySeeding(t *testing.T) {
	source := &scriptedSource{messages: []string{"Final Answer: done"}}
	loop, err := NewLoop(source, newTestRegistry(t),
		WithPrompts("be careful", "go now"))
	if err != nil {
		t.Fatalf("NewLoop() error = %v", err)
	}

	result, err := loop.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(result.History) < 2 {
		t.Fatalf("history length = %d, want at least 2", len(result.History))
	}
	if result.History[0].Role != protocol.RoleSystem || result.History[0].Content != "be careful" {
		t.Errorf("first entry = %v %q", result.History[0].Role, result.History[0].Content)
	}
	if result.History[1].Role != protocol.RoleUser || result.History[1].Content != "go now" {
		t.Errorf("second entry = %v %q", result.History[1].Role, result.History[1].Content)
	}
}

func TestLoop_FinalAnswer(t *testing.T) {
	source := &scriptedSource{messages: []string{
		"Final Answer: SUCCESS - reached the goal in 6 moves.",
	}}
	loop, err := NewLoop(source, newTestRegistry(t))
	if err != nil {
		t.Fatalf("NewLoop() error = %v", err)
	}

	result, err := loop.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result.Status != StatusFinalAnswer {
		t.Errorf("Status = %v, want final_answer", result.Status)
	}
	if result.FinalAnswer != "SUCCESS - reached the goal in 6 moves." {
		t.Errorf("FinalAnswer = %q", result.FinalAnswer)
	}
	if result.Steps != 1 {
		t.Errorf("Steps = %d, want 1", result.Steps)
	}
}

func TestLoop_BudgetExhausted(t *testing.T) {
	source := &scriptedSource{messages: []string{
		moveMessage("SOUTH"),
		moveMessage("SOUTH"),
	}}
	loop, err := NewLoop(source, newTestRegistry(t), WithStepBudget(1))
	if err != nil {
		t.Fatalf("NewLoop() error = %v", err)
	}

	result, err := loop.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result.Status != StatusBudgetExhausted {
		t.Errorf("Status = %v, want budget_exhausted", result.Status)
	}
	if result.Status.IsSuccessful() {
		t.Error("budget_exhausted should not be successful")
	}
	if result.Steps != 1 {
		t.Errorf("Steps = %d, want 1", result.Steps)
	}

	// Exactly one action was dispatched.
	var observations int
	for _, e := range result.History {
		if e.Role == protocol.RoleObservation {
			observations++
		}
	}
	if observations != 1 {
		t.Errorf("dispatched actions = %d, want 1", observations)
	}
}

func TestLoop_MalformedMessage(t *testing.T) {
	source := &scriptedSource{messages: []string{
		"I wander aimlessly without any structure.",
	}}
	loop, err := NewLoop(source, newTestRegistry(t))
	if err != nil {
		t.Fatalf("NewLoop() error = %v", err)
	}

	result, err := loop.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result.Status != StatusProtocolFailure {
		t.Errorf("Status = %v, want protocol_failure", result.Status)
	}
	if !errors.Is(result.Err, protocol.ErrMalformedMessage) {
		t.Errorf("Err = %v, want ErrMalformedMessage", result.Err)
	}

	// No tool was dispatched.
	for _, e := range result.History {
		if e.Role == protocol.RoleObservation {
			t.Errorf("unexpected observation entry: %q", e.Content)
		}
	}
}

func TestLoop_SourceError(t *testing.T) {
	cause := errors.New("oracle offline")
	source := SourceFunc(func(context.Context, []Entry) (string, error) {
		return "", cause
	})
	loop, err := NewLoop(source, newTestRegistry(t))
	if err != nil {
		t.Fatalf("NewLoop() error = %v", err)
	}

	result, err := loop.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result.Status != StatusProtocolFailure {
		t.Errorf("Status = %v, want protocol_failure", result.Status)
	}
	if !errors.Is(result.Err, cause) {
		t.Errorf("Err = %v, want %v", result.Err, cause)
	}
}

func TestLoop_UnknownToolContinues(t *testing.T) {
	source := &scriptedSource{messages: []string{
		protocol.EncodeAction("Trying something unsupported.", "teleport", "anywhere"),
		"Final Answer: giving up on shortcuts.",
	}}
	loop, err := NewLoop(source, newTestRegistry(t))
	if err != nil {
		t.Fatalf("NewLoop() error = %v", err)
	}

	result, err := loop.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result.Status != StatusFinalAnswer {
		t.Errorf("Status = %v, want final_answer after recovering", result.Status)
	}
	if result.Steps != 2 {
		t.Errorf("Steps = %d, want 2", result.Steps)
	}

	var sawError bool
	for _, e := range result.History {
		if e.Role == protocol.RoleObservation && strings.Contains(e.Content, "not registered") {
			sawError = true
		}
	}
	if !sawError {
		t.Error("history should record the unknown-tool observation")
	}
}

func TestLoop_ContextCancelled(t *testing.T) {
	source := &scriptedSource{messages: []string{moveMessage("SOUTH")}}
	loop, err := NewLoop(source, newTestRegistry(t))
	if err != nil {
		t.Fatalf("NewLoop() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := loop.Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
	// Seed entries are still reported.
	if len(result.History) != 2 {
		t.Errorf("history length = %d, want 2", len(result.History))
	}
}

func TestLoop_Observer(t *testing.T) {
	source := &scriptedSource{messages: []string{"Final Answer: done"}}

	var seen []protocol.Role
	loop, err := NewLoop(source, newTestRegistry(t),
		WithObserver(func(e Entry) {
			seen = append(seen, e.Role)
		}))
	if err != nil {
		t.Fatalf("NewLoop() error = %v", err)
	}

	result, err := loop.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(seen) != len(result.History) {
		t.Fatalf("observer saw %d entries, history has %d", len(seen), len(result.History))
	}
	want := []protocol.Role{protocol.RoleSystem, protocol.RoleUser, protocol.RoleAssistant}
	for i, role := range want {
		if seen[i] != role {
			t.Errorf("entry %d role = %v, want %v", i, seen[i], role)
		}
	}
}

func TestStatus(t *testing.T) {
	tests := []struct {
		status     Status
		valid      bool
		successful bool
	}{
		{StatusGoalReached, true, true},
		{StatusFinalAnswer, true, true},
		{StatusProtocolFailure, true, false},
		{StatusBudgetExhausted, true, false},
		{Status("exploded"), false, false},
	}

	for _, tt := range tests {
		t.Run(tt.status.String(), func(t *testing.T) {
			if got := tt.status.IsValid(); got != tt.valid {
				t.Errorf("IsValid() = %v, want %v", got, tt.valid)
			}
			if got := tt.status.IsSuccessful(); got != tt.successful {
				t.Errorf("IsSuccessful() = %v, want %v", got, tt.successful)
			}
			if got := tt.status.IsTerminal(); got != tt.valid {
				t.Errorf("IsTerminal() = %v, want %v", got, tt.valid)
			}
		})
	}
}
