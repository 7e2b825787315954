package grid

import (
	"context"
	"strings"
	"testing"
)

// demoRows is the 5x5 world from the reference scenario: walls on the
// border, an interior wall at (2, 2), goal at (2, 4).
var demoRows = []string{
	"WWWWW",
	"W..WW",
	"W.W.T",
	"W...W",
	"WWWWW",
}

func newDemoWorld(t *testing.T) *World {
	t.Helper()

	layout, err := ParseLayout(demoRows)
	if err != nil {
		t.Fatalf("ParseLayout() error = %v", err)
	}
	world, err := NewWorld(layout, Position{Row: 1, Col: 1})
	if err != nil {
		t.Fatalf("NewWorld() error = %v", err)
	}
	return world
}

func TestNewWorld_Validation(t *testing.T) {
	layout, err := ParseLayout(demoRows)
	if err != nil {
		t.Fatalf("ParseLayout() error = %v", err)
	}

	tests := []struct {
		name  string
		start Position
	}{
		{"out of bounds", Position{Row: 9, Col: 9}},
		{"negative", Position{Row: -1, Col: 0}},
		{"on wall", Position{Row: 0, Col: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewWorld(layout, tt.start); err == nil {
				t.Errorf("NewWorld(start=%v) expected error", tt.start)
			}
		})
	}
}

func TestWorld_Move(t *testing.T) {
	tests := []struct {
		name      string
		direction string
		wantTag   string
		wantMoved bool
	}{
		{"open cell", "SOUTH", TagObservation + ": Moved successfully", true},
		{"lowercase direction", "south", TagObservation + ": Moved successfully", true},
		{"into wall", "NORTH", "blocked", false},
		{"invalid direction", "UPWARD", TagError + ": Invalid direction", false},
		{"empty direction", "", TagError + ": Invalid direction", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			world := newDemoWorld(t)
			before := world.CurrentPosition()

			obs := world.Move(tt.direction)
			if !strings.Contains(obs, tt.wantTag) {
				t.Errorf("Move(%q) = %q, want substring %q", tt.direction, obs, tt.wantTag)
			}

			moved := world.CurrentPosition() != before
			if moved != tt.wantMoved {
				t.Errorf("position changed = %v, want %v", moved, tt.wantMoved)
			}
		})
	}
}

func TestWorld_MoveOntoGoal(t *testing.T) {
	layout, err := ParseLayout([]string{".T"})
	if err != nil {
		t.Fatalf("ParseLayout() error = %v", err)
	}
	world, err := NewWorld(layout, Position{Row: 0, Col: 0})
	if err != nil {
		t.Fatalf("NewWorld() error = %v", err)
	}

	obs := world.Move("EAST")
	if !strings.Contains(obs, TagSuccess) {
		t.Errorf("Move onto goal = %q, want substring %q", obs, TagSuccess)
	}
	if world.CurrentPosition() != (Position{Row: 0, Col: 1}) {
		t.Errorf("position = %v, want (0, 1)", world.CurrentPosition())
	}
}

func TestWorld_MoveOutOfBounds(t *testing.T) {
	layout, err := ParseLayout([]string{".."})
	if err != nil {
		t.Fatalf("ParseLayout() error = %v", err)
	}
	world, err := NewWorld(layout, Position{Row: 0, Col: 0})
	if err != nil {
		t.Fatalf("NewWorld() error = %v", err)
	}

	obs := world.Move("WEST")
	if !strings.Contains(obs, "blocked") {
		t.Errorf("Move off-grid = %q, want blocked observation", obs)
	}
	if world.CurrentPosition() != (Position{Row: 0, Col: 0}) {
		t.Errorf("position = %v, want unchanged", world.CurrentPosition())
	}
}

func TestWorld_QueriesAreIdempotent(t *testing.T) {
	world := newDemoWorld(t)

	first := world.LookAround()
	for i := 0; i < 3; i++ {
		if got := world.LookAround(); got != first {
			t.Errorf("LookAround() changed between calls: %q vs %q", got, first)
		}
		if got := world.CurrentPosition(); got != (Position{Row: 1, Col: 1}) {
			t.Errorf("CurrentPosition() = %v, want (1, 1)", got)
		}
	}

	keys, err := world.Memory().Keys(context.Background())
	if err != nil {
		t.Fatalf("Keys() error = %v", err)
	}
	if len(keys) != 0 {
		t.Errorf("queries must not write map memory, got %d keys", len(keys))
	}
}

func TestWorld_LookAroundOnGoal(t *testing.T) {
	layout, err := ParseLayout([]string{"T"})
	if err != nil {
		t.Fatalf("ParseLayout() error = %v", err)
	}
	world, err := NewWorld(layout, Position{Row: 0, Col: 0})
	if err != nil {
		t.Fatalf("NewWorld() error = %v", err)
	}

	if obs := world.LookAround(); !strings.Contains(obs, TagSuccess) {
		t.Errorf("LookAround() on goal = %q, want substring %q", obs, TagSuccess)
	}
}

func TestWorld_RecordObservation(t *testing.T) {
	ctx := context.Background()
	world := newDemoWorld(t)

	obs := world.RecordObservation(ctx, "(1, 1)", "Area is Open.")
	if !strings.Contains(obs, "Map memory updated") {
		t.Errorf("RecordObservation() = %q, want confirmation", obs)
	}

	got, err := world.Memory().Get(ctx, "(1, 1)")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != "Area is Open." {
		t.Errorf("recorded value = %q, want %q", got, "Area is Open.")
	}

	// Overwrite, not duplicate.
	world.RecordObservation(ctx, "(1, 1)", "revisited")
	keys, err := world.Memory().Keys(ctx)
	if err != nil {
		t.Fatalf("Keys() error = %v", err)
	}
	if len(keys) != 1 {
		t.Errorf("got %d keys after overwrite, want 1", len(keys))
	}
}

func TestWorld_RecordObservationPlaceholder(t *testing.T) {
	ctx := context.Background()
	world := newDemoWorld(t)

	world.RecordObservation(ctx, "(1, 2)", "")
	got, err := world.Memory().Get(ctx, "(1, 2)")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != PlaceholderObservation {
		t.Errorf("empty observation recorded as %q, want %q", got, PlaceholderObservation)
	}
}

func TestWorld_RecordObservationEmptyKey(t *testing.T) {
	world := newDemoWorld(t)

	obs := world.RecordObservation(context.Background(), "", "something")
	if !strings.Contains(obs, TagError) {
		t.Errorf("RecordObservation with empty key = %q, want error observation", obs)
	}
}
