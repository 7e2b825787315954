package planner

import (
	"errors"

	"github.com/gridmind-ai/sdk/grid"
)

// Structural failures of the input grid. Both are discoverable without side
// effects and terminal for the run: callers surface them as a final message,
// never as a retry or a crash.
var (
	// ErrNoGoal is returned when the layout contains no goal cell.
	ErrNoGoal = errors.New("planner: no goal cell in grid")

	// ErrUnreachable is returned when walls disconnect the goal from the start.
	ErrUnreachable = errors.New("planner: goal unreachable from start")
)

// Plan is an ordered sequence of cardinal moves computed for a specific
// origin position. It is valid only while the agent stands where the plan
// says it should; ValidFor makes that check explicit instead of comparing
// against shared live state.
type Plan struct {
	origin grid.Position
	moves  []grid.Direction
}

// Origin returns the position the remaining moves were computed for.
func (p *Plan) Origin() grid.Position {
	return p.origin
}

// Moves returns a copy of the remaining moves.
func (p *Plan) Moves() []grid.Direction {
	out := make([]grid.Direction, len(p.moves))
	copy(out, p.moves)
	return out
}

// Len returns the number of remaining moves.
func (p *Plan) Len() int {
	return len(p.moves)
}

// ValidFor reports whether the plan may be consumed from pos.
func (p *Plan) ValidFor(pos grid.Position) bool {
	return p != nil && p.origin == pos
}

// Next dequeues the front move and advances the plan's origin one step in
// that direction. If the move then succeeds in the world, the plan stays
// valid for the agent's new position; if the move is blocked, the origin
// mismatch forces a recompute.
func (p *Plan) Next() (grid.Direction, bool) {
	if len(p.moves) == 0 {
		return "", false
	}
	move := p.moves[0]
	p.moves = p.moves[1:]
	p.origin = move.Apply(p.origin)
	return move, true
}

// ShortestPath computes the shortest move sequence from start to the first
// goal cell in row-major scan order, avoiding walls and grid bounds.
func ShortestPath(layout *grid.Layout, start grid.Position) (*Plan, error) {
	goal, ok := layout.FirstGoal()
	if !ok {
		return nil, ErrNoGoal
	}
	if start == goal {
		return &Plan{origin: start}, nil
	}

	type step struct {
		prev grid.Position
		move grid.Direction
	}

	// Standard BFS frontier with a came-from map for path reconstruction.
	frontier := []grid.Position{start}
	cameFrom := map[grid.Position]step{start: {}}
	found := false

	for len(frontier) > 0 && !found {
		node := frontier[0]
		frontier = frontier[1:]

		for _, dir := range grid.Directions {
			next := dir.Apply(node)
			if !layout.Walkable(next) {
				continue
			}
			if _, seen := cameFrom[next]; seen {
				continue
			}
			cameFrom[next] = step{prev: node, move: dir}
			if next == goal {
				found = true
				break
			}
			frontier = append(frontier, next)
		}
	}

	if !found {
		return nil, ErrUnreachable
	}

	// Walk back from the goal, then reverse.
	var moves []grid.Direction
	for cur := goal; cur != start; cur = cameFrom[cur].prev {
		moves = append(moves, cameFrom[cur].move)
	}
	for i, j := 0, len(moves)-1; i < j; i, j = i+1, j-1 {
		moves[i], moves[j] = moves[j], moves[i]
	}

	return &Plan{origin: start, moves: moves}, nil
}
