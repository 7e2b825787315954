package grid

import (
	"errors"
	"fmt"
	"strings"
)

// Cell classifies a grid position.
type Cell string

const (
	// CellOpen is a walkable cell with nothing on it.
	CellOpen Cell = "open"

	// CellWall is an impassable cell.
	CellWall Cell = "wall"

	// CellGoal is the walkable cell the agent is searching for.
	CellGoal Cell = "goal"
)

// String returns the string representation of the cell kind.
func (c Cell) String() string {
	return string(c)
}

// IsValid checks if the cell kind is a recognized value.
func (c Cell) IsValid() bool {
	switch c {
	case CellOpen, CellWall, CellGoal:
		return true
	default:
		return false
	}
}

// Walkable reports whether the agent may occupy this cell kind.
func (c Cell) Walkable() bool {
	return c == CellOpen || c == CellGoal
}

// Layout tokens accepted by ParseLayout. Exactly one token per cell kind.
const (
	TokenOpen = '.'
	TokenWall = 'W'
	TokenGoal = 'T'
)

// Position is a (row, column) pair, 0-indexed from the top-left corner.
type Position struct {
	Row int `json:"row" yaml:"row"`
	Col int `json:"col" yaml:"col"`
}

// String formats the position the way it appears in observations and
// map-memory keys, e.g. "(1, 1)".
func (p Position) String() string {
	return fmt.Sprintf("(%d, %d)", p.Row, p.Col)
}

// Direction is one of the four cardinal moves.
type Direction string

const (
	North Direction = "NORTH"
	South Direction = "SOUTH"
	East  Direction = "EAST"
	West  Direction = "WEST"
)

// Directions is the fixed exploration order applied wherever neighbors are
// expanded. The planner's tie-breaking depends on this order staying fixed.
var Directions = [4]Direction{North, South, East, West}

// ErrInvalidDirection is returned when a direction token is not one of the
// four cardinal values.
var ErrInvalidDirection = errors.New("grid: invalid direction")

// ParseDirection normalizes a direction token. Matching is case-insensitive
// and ignores surrounding whitespace.
func ParseDirection(s string) (Direction, error) {
	switch Direction(strings.ToUpper(strings.TrimSpace(s))) {
	case North:
		return North, nil
	case South:
		return South, nil
	case East:
		return East, nil
	case West:
		return West, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidDirection, s)
	}
}

// Offset returns the unit (row, col) offset for the direction.
func (d Direction) Offset() (dr, dc int) {
	switch d {
	case North:
		return -1, 0
	case South:
		return 1, 0
	case East:
		return 0, 1
	case West:
		return 0, -1
	default:
		return 0, 0
	}
}

// Apply returns the position one step in the direction from p.
func (d Direction) Apply(p Position) Position {
	dr, dc := d.Offset()
	return Position{Row: p.Row + dr, Col: p.Col + dc}
}

// String returns the string representation of the direction.
func (d Direction) String() string {
	return string(d)
}

// Layout is an immutable rectangular matrix of cell kinds.
// It carries no agent state; Worlds and planners receive it read-only.
type Layout struct {
	cells [][]Cell
	rows  int
	cols  int
}

// ParseLayout builds a layout from row strings of cell tokens
// ('.' open, 'W' wall, 'T' goal).
//
// All rows must have the same length and contain only known tokens. A layout
// without a goal cell is valid input; its unsolvability is reported by the
// planner, not here.
func ParseLayout(rows []string) (*Layout, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("grid: layout must have at least one row")
	}

	cols := len(rows[0])
	if cols == 0 {
		return nil, fmt.Errorf("grid: layout rows cannot be empty")
	}

	cells := make([][]Cell, len(rows))
	for r, row := range rows {
		if len(row) != cols {
			return nil, fmt.Errorf("grid: row %d has %d cells, want %d", r, len(row), cols)
		}
		cells[r] = make([]Cell, cols)
		for c, token := range []byte(row) {
			switch token {
			case TokenOpen:
				cells[r][c] = CellOpen
			case TokenWall:
				cells[r][c] = CellWall
			case TokenGoal:
				cells[r][c] = CellGoal
			default:
				return nil, fmt.Errorf("grid: unknown cell token %q at row %d, col %d", token, r, c)
			}
		}
	}

	return &Layout{cells: cells, rows: len(rows), cols: cols}, nil
}

// Rows returns the number of rows in the layout.
func (l *Layout) Rows() int { return l.rows }

// Cols returns the number of columns in the layout.
func (l *Layout) Cols() int { return l.cols }

// InBounds reports whether p lies inside the layout.
func (l *Layout) InBounds(p Position) bool {
	return p.Row >= 0 && p.Row < l.rows && p.Col >= 0 && p.Col < l.cols
}

// At returns the cell kind at p. Out-of-bounds positions read as walls, so
// bounds and walls reject moves identically.
func (l *Layout) At(p Position) Cell {
	if !l.InBounds(p) {
		return CellWall
	}
	return l.cells[p.Row][p.Col]
}

// Walkable reports whether p is in bounds and not a wall.
func (l *Layout) Walkable(p Position) bool {
	return l.InBounds(p) && l.At(p).Walkable()
}

// FirstGoal returns the first goal cell in row-major scan order.
func (l *Layout) FirstGoal() (Position, bool) {
	for r := 0; r < l.rows; r++ {
		for c := 0; c < l.cols; c++ {
			if l.cells[r][c] == CellGoal {
				return Position{Row: r, Col: c}, true
			}
		}
	}
	return Position{}, false
}
