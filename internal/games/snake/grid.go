package snake

import (
	"math/rand"

	"github.com/vovakirdan/snuake/internal/core"
)

// Grid is a rows×cols torus where every cell holds at most one entity
// between ticks.
type Grid struct {
	rows  int
	cols  int
	cells []Entity // Row-major
}

// GridData is the snapshot of a grid sent to consumers.
type GridData struct {
	Rows int     `json:"rows"`
	Cols int     `json:"cols"`
	Tags [][]Tag `json:"tags"` // Tags[row][col]
}

// NewGrid creates an empty grid.
func NewGrid(rows, cols int) *Grid {
	return &Grid{
		rows:  rows,
		cols:  cols,
		cells: make([]Entity, rows*cols),
	}
}

// Rows returns the number of rows.
func (g *Grid) Rows() int { return g.rows }

// Cols returns the number of columns.
func (g *Grid) Cols() int { return g.cols }

func (g *Grid) offset(idx core.Index) int {
	return idx.Row*g.cols + idx.Col
}

// InBounds reports whether idx addresses a cell of the grid.
func (g *Grid) InBounds(idx core.Index) bool {
	return idx.Row >= 0 && idx.Row < g.rows && idx.Col >= 0 && idx.Col < g.cols
}

// Wrap folds an index one step past an edge back onto the grid.
func (g *Grid) Wrap(idx core.Index) core.Index {
	return idx.Wrap(g.rows, g.cols)
}

// At returns the occupant of a cell (EntityNone when vacant).
func (g *Grid) At(idx core.Index) Entity {
	return g.cells[g.offset(idx)]
}

// Add places e at idx, overwriting whatever is there.
func (g *Grid) Add(idx core.Index, e Entity) {
	g.cells[g.offset(idx)] = e
}

// Remove vacates a cell.
func (g *Grid) Remove(idx core.Index) {
	g.cells[g.offset(idx)] = Entity{}
}

// Take vacates a cell and returns what was in it.
func (g *Grid) Take(idx core.Index) Entity {
	off := g.offset(idx)
	e := g.cells[off]
	g.cells[off] = Entity{}
	return e
}

// IndexOfNextVacant returns the first vacant cell found from start.
//
// The first pass covers rows start.Row.. and, within each of them, only
// columns start.Col..; the second pass scans the whole grid from the origin.
// Low rows and columns are therefore favoured. Spawn placement depends on
// this exact order.
func (g *Grid) IndexOfNextVacant(start core.Index) (core.Index, bool) {
	for i := start.Row; i < g.rows; i++ {
		for j := start.Col; j < g.cols; j++ {
			if g.cells[i*g.cols+j].IsEmpty() {
				return core.Idx(i, j), true
			}
		}
	}

	for i := 0; i < g.rows; i++ {
		for j := 0; j < g.cols; j++ {
			if g.cells[i*g.cols+j].IsEmpty() {
				return core.Idx(i, j), true
			}
		}
	}

	return core.Index{}, false
}

// IndexOfRandomVacant draws a random starting cell and delegates to
// IndexOfNextVacant.
func (g *Grid) IndexOfRandomVacant(rng *rand.Rand) (core.Index, bool) {
	start := core.Idx(rng.Intn(g.rows), rng.Intn(g.cols))
	return g.IndexOfNextVacant(start)
}

// Occupied returns the number of non-vacant cells.
func (g *Grid) Occupied() int {
	n := 0
	for _, e := range g.cells {
		if !e.IsEmpty() {
			n++
		}
	}
	return n
}

// Data projects the grid into a GridData snapshot.
func (g *Grid) Data() GridData {
	tags := make([][]Tag, g.rows)
	for i := 0; i < g.rows; i++ {
		row := make([]Tag, g.cols)
		for j := 0; j < g.cols; j++ {
			row[j] = g.cells[i*g.cols+j].Tag()
		}
		tags[i] = row
	}

	return GridData{
		Rows: g.rows,
		Cols: g.cols,
		Tags: tags,
	}
}
