package grid

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gridmind-ai/sdk/memory"
)

// Observation tags. The loop's termination check and external decision
// sources match on these substrings, so they are part of the wire contract.
const (
	// TagSuccess marks observations reporting that the agent is on the goal.
	TagSuccess = "SUCCESS"

	// TagObservation marks ordinary observations.
	TagObservation = "OBSERVATION"

	// TagError marks invalid-input observations.
	TagError = "ERROR"
)

// PlaceholderObservation is recorded when an observation text is missing.
// Substituting it keeps RecordObservation total: a sloppy decision source
// still gets its map entry instead of an error.
const PlaceholderObservation = "Unknown"

// World owns the grid layout, the agent's position, and the agent's map
// memory. Position only changes through Move; memory only changes through
// RecordObservation. LookAround and CurrentPosition are pure queries.
//
// World is not safe for concurrent use; the agent loop drives it from a
// single goroutine.
type World struct {
	layout *Layout
	pos    Position
	log    memory.Log
	logger *slog.Logger
}

// WorldOption configures a World.
type WorldOption func(*World)

// WithMemoryLog sets the map memory backing store.
// Defaults to an in-process log.
func WithMemoryLog(log memory.Log) WorldOption {
	return func(w *World) {
		w.log = log
	}
}

// WithLogger sets the structured logger for world events.
func WithLogger(logger *slog.Logger) WorldOption {
	return func(w *World) {
		w.logger = logger
	}
}

// NewWorld creates a world with the agent placed at start.
// The start position must be in bounds and on a walkable cell.
func NewWorld(layout *Layout, start Position, opts ...WorldOption) (*World, error) {
	if layout == nil {
		return nil, fmt.Errorf("grid: layout cannot be nil")
	}
	if !layout.InBounds(start) {
		return nil, fmt.Errorf("grid: start position %s is out of bounds", start)
	}
	if !layout.At(start).Walkable() {
		return nil, fmt.Errorf("grid: start position %s is a wall", start)
	}

	w := &World{
		layout: layout,
		pos:    start,
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.log == nil {
		w.log = memory.NewInMemoryLog()
	}
	if w.logger == nil {
		w.logger = slog.Default()
	}
	return w, nil
}

// Layout returns the world's immutable layout.
func (w *World) Layout() *Layout {
	return w.layout
}

// CurrentPosition returns the agent's position. No side effects.
func (w *World) CurrentPosition() Position {
	return w.pos
}

// Memory returns the agent's map memory log.
func (w *World) Memory() memory.Log {
	return w.log
}

// LookAround describes the cell the agent is standing on. No mutation.
func (w *World) LookAround() string {
	if w.layout.At(w.pos) == CellGoal {
		return TagSuccess + ": You are standing on the goal tile!"
	}
	return fmt.Sprintf("%s: You are at %s. This area is Open.", TagObservation, w.pos)
}

// Move attempts to move the agent one step in the given direction.
//
// The direction token is matched case-insensitively against the four
// cardinal values; anything else yields an invalid-direction observation
// with no state change. Moves whose target is out of bounds or a wall are
// rejected with a blocked observation and no state change. A successful
// move onto the goal returns the distinguished success observation.
func (w *World) Move(direction string) string {
	dir, err := ParseDirection(direction)
	if err != nil {
		return fmt.Sprintf("%s: Invalid direction %q. Use NORTH, SOUTH, EAST, or WEST.", TagError, direction)
	}

	target := dir.Apply(w.pos)
	if !w.layout.Walkable(target) {
		return fmt.Sprintf("%s: Movement blocked by a wall or grid boundary. Position remains unchanged.", TagObservation)
	}

	w.pos = target
	w.logger.Debug("agent moved",
		slog.String("direction", dir.String()),
		slog.String("position", target.String()),
	)

	if w.layout.At(target) == CellGoal {
		return TagSuccess + ": GOAL FOUND. You have reached the goal tile!"
	}
	return fmt.Sprintf("%s: Moved successfully. New position: %s. Area is Open.", TagObservation, target)
}

// RecordObservation writes or overwrites the map memory entry for key.
//
// An empty observation text is replaced with PlaceholderObservation rather
// than rejected, keeping the memory log append-only and total. Only an empty
// key or a storage failure produces an error observation.
func (w *World) RecordObservation(ctx context.Context, key, text string) string {
	if text == "" {
		text = PlaceholderObservation
	}

	if err := w.log.Record(ctx, key, text); err != nil {
		w.logger.Warn("map memory write failed",
			slog.String("key", key),
			"error", err,
		)
		return fmt.Sprintf("%s: Failed to update map memory for location %s: %v", TagError, key, err)
	}
	return fmt.Sprintf("%s: Map memory updated for location %s.", TagObservation, key)
}
