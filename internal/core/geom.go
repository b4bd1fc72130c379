// Package core provides fundamental types shared by the simulation and the
// session layer. It has no external dependencies to keep game logic pure and
// testable.
package core

import (
	"fmt"
	"math/rand"
)

// Direction is a heading on the grid.
type Direction int

const (
	DirUp Direction = iota
	DirDown
	DirLeft
	DirRight
)

// Directions lists every heading in declaration order.
var Directions = [...]Direction{DirUp, DirDown, DirLeft, DirRight}

// RandomDirection picks a heading uniformly.
func RandomDirection(rng *rand.Rand) Direction {
	return Directions[rng.Intn(len(Directions))]
}

// IsVertical reports whether d moves along the row axis.
func (d Direction) IsVertical() bool {
	return d == DirUp || d == DirDown
}

// IsPerpendicular reports whether a turn from d to other is a 90° turn.
// Reversals and "turns" onto the same heading are not.
func (d Direction) IsPerpendicular(other Direction) bool {
	return d.IsVertical() != other.IsVertical()
}

// String returns the lowercase name of the direction.
func (d Direction) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	default:
		return "unknown"
	}
}

// ParseDirection converts a name produced by String back into a Direction.
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "up":
		return DirUp, nil
	case "down":
		return DirDown, nil
	case "left":
		return DirLeft, nil
	case "right":
		return DirRight, nil
	default:
		return DirUp, fmt.Errorf("core: unknown direction %q", s)
	}
}

// Index addresses a grid cell by row and column.
type Index struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Idx is a short constructor for Index.
func Idx(row, col int) Index {
	return Index{Row: row, Col: col}
}

// Neighbor returns the adjacent index in direction d. The result may lie
// outside the grid; use Wrap to bring it back.
func (i Index) Neighbor(d Direction) Index {
	switch d {
	case DirUp:
		return Index{Row: i.Row - 1, Col: i.Col}
	case DirDown:
		return Index{Row: i.Row + 1, Col: i.Col}
	case DirLeft:
		return Index{Row: i.Row, Col: i.Col - 1}
	case DirRight:
		return Index{Row: i.Row, Col: i.Col + 1}
	default:
		return i
	}
}

// Wrap folds an index that stepped one cell past an edge back onto the
// opposite edge of a rows×cols torus.
func (i Index) Wrap(rows, cols int) Index {
	return Index{Row: wrap(i.Row, rows), Col: wrap(i.Col, cols)}
}

func (i Index) String() string {
	return fmt.Sprintf("(%d, %d)", i.Row, i.Col)
}

// wrap maps x into [0, hi) for values at most one step out of range.
func wrap(x, hi int) int {
	switch {
	case x < 0:
		return hi - 1
	case x >= hi:
		return 0
	default:
		return x
	}
}
