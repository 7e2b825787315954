package planner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/gridmind-ai/sdk/grid"
	"github.com/gridmind-ai/sdk/protocol"
)

// ActionMove is the tool name the oracle dispatches its moves through.
const ActionMove = "move_agent"

// Oracle is a deterministic decision source that walks the shortest path to
// the goal, emitting one reasoning-step message per call. It lets the full
// agent loop run without an LLM behind it.
//
// The oracle keeps the last computed Plan and consumes it one move at a
// time. Before each move it checks the plan's origin stamp against the
// agent's live position and recomputes on any mismatch, so blocked moves or
// external perturbation never desynchronize it.
type Oracle struct {
	layout   *grid.Layout
	position func() grid.Position
	logger   *slog.Logger

	plan *Plan
}

// OracleOption configures an Oracle.
type OracleOption func(*Oracle)

// WithLogger sets the structured logger for planning events.
func WithLogger(logger *slog.Logger) OracleOption {
	return func(o *Oracle) {
		o.logger = logger
	}
}

// NewOracle creates a decision source over the given layout.
// The position callback reports the agent's current cell; the oracle holds
// no mutable world handle beyond it.
func NewOracle(layout *grid.Layout, position func() grid.Position, opts ...OracleOption) *Oracle {
	o := &Oracle{
		layout:   layout,
		position: position,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	return o
}

// Next returns the next protocol message: a move_agent action while the
// plan has moves left, or a Final Answer when the run is over. Structural
// planning failures (no goal, goal unreachable) become final messages, not
// errors; they terminate the run without crashing the loop.
func (o *Oracle) Next(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	pos := o.position()
	if !o.plan.ValidFor(pos) {
		plan, err := ShortestPath(o.layout, pos)
		switch {
		case errors.Is(err, ErrNoGoal):
			return protocol.EncodeFinal("No goal tile present in the environment grid."), nil
		case errors.Is(err, ErrUnreachable):
			return protocol.EncodeFinal("No path to the goal found (blocked by walls)."), nil
		case err != nil:
			return "", err
		}
		o.plan = plan
		o.logger.Debug("plan computed",
			slog.String("origin", pos.String()),
			slog.Int("length", plan.Len()),
		)
	}

	if o.plan.Len() == 0 {
		if o.layout.At(pos) == grid.CellGoal {
			return protocol.EncodeFinal("SUCCESS - Agent reached the goal."), nil
		}
		return protocol.EncodeFinal("No further steps in plan and not on the goal."), nil
	}

	remaining := o.plan.Len()
	move, _ := o.plan.Next()
	thought := fmt.Sprintf("I computed a path of %d steps to the goal. Next move is %s.", remaining, move)
	return protocol.EncodeAction(thought, ActionMove, move.String()), nil
}
