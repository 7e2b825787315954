package tool

import (
	"context"
	"strings"

	"github.com/gridmind-ai/sdk/grid"
)

// Action names for the grid-world capability set.
const (
	ActionMove   = "move_agent"
	ActionLook   = "look_around"
	ActionUpdate = "update_map"
	ActionGetPos = "get_pos"
)

// ForWorld binds the grid-world capability set to a world:
//
//	move_agent   1 arg  direction token, passed through verbatim
//	look_around  0 args input ignored
//	update_map   2 args "key, observation", split on the first comma only
//	get_pos      0 args input ignored
//
// update_map's raw argument is split once: everything before the first comma
// (trimmed) is the location key, the remainder (trimmed) the observation
// text. A missing remainder records the placeholder observation.
func ForWorld(w *grid.World) []Tool {
	return []Tool{
		NewFunc(ActionMove,
			"Attempts to move the agent one step. Directions: NORTH, SOUTH, EAST, or WEST.",
			func(_ context.Context, input string) string {
				return w.Move(input)
			}),
		NewFunc(ActionLook,
			"Describes the state of the agent's current location.",
			func(_ context.Context, _ string) string {
				return w.LookAround()
			}),
		NewFunc(ActionUpdate,
			"Logs a location observation into map memory. Input: '<position>, <observation>'.",
			func(ctx context.Context, input string) string {
				key, text := splitMapInput(input)
				return w.RecordObservation(ctx, key, text)
			}),
		NewFunc(ActionGetPos,
			"Returns the agent's current position as a string tuple, e.g. '(1, 1)'.",
			func(_ context.Context, _ string) string {
				return w.CurrentPosition().String()
			}),
	}
}

// RegisterWorld registers the grid-world capability set on a registry.
func RegisterWorld(r *Registry, w *grid.World) error {
	for _, t := range ForWorld(w) {
		if err := r.Register(t); err != nil {
			return err
		}
	}
	return nil
}

func splitMapInput(input string) (key, text string) {
	parts := strings.SplitN(input, ",", 2)
	key = strings.TrimSpace(parts[0])
	if len(parts) == 2 {
		text = strings.TrimSpace(parts[1])
	}
	return key, text
}
