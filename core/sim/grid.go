package sim

import (
	"fmt"

	"parkfair/core/model"
)

// Cell is a single parking spot. A cell is either free or owned by exactly
// one occupant; the carryover is prepaid time left behind by the previous
// occupant, in hours.
type Cell struct {
	Occupied  bool
	Occupant  model.AgentID
	Carryover float64
}

// Grid is the fixed-capacity collection of parking spots. Cells are indexed
// row-major from 0 so initial assignment is deterministic.
type Grid struct {
	width  int
	height int
	cells  []Cell
}

// NewGrid creates a width x height grid of free cells.
func NewGrid(width, height int) (*Grid, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("grid dimensions must be positive, got %dx%d", width, height)
	}
	return &Grid{width: width, height: height, cells: make([]Cell, width*height)}, nil
}

// Capacity returns the total number of cells.
func (g *Grid) Capacity() int { return len(g.cells) }

// Cell returns a copy of the cell at idx.
func (g *Grid) Cell(idx int) (Cell, error) {
	if idx < 0 || idx >= len(g.cells) {
		return Cell{}, fmt.Errorf("cell index %d out of range", idx)
	}
	return g.cells[idx], nil
}

// Location converts a cell index into row/column coordinates.
func (g *Grid) Location(idx int) (row, col int) {
	return idx / g.width, idx % g.width
}

// FindFree returns the lowest-index free cell, if any.
func (g *Grid) FindFree() (int, bool) {
	for i := range g.cells {
		if !g.cells[i].Occupied {
			return i, true
		}
	}
	return 0, false
}

// FreeCount returns the number of unoccupied cells.
func (g *Grid) FreeCount() int {
	n := 0
	for i := range g.cells {
		if !g.cells[i].Occupied {
			n++
		}
	}
	return n
}

// OccupiedCount returns the number of occupied cells.
func (g *Grid) OccupiedCount() int {
	return len(g.cells) - g.FreeCount()
}

// Occupy assigns the cell to the agent and consumes the cell's carryover,
// returning it. Occupying a taken cell is an error.
func (g *Grid) Occupy(idx int, id model.AgentID) (carryover float64, err error) {
	if idx < 0 || idx >= len(g.cells) {
		return 0, fmt.Errorf("cell index %d out of range", idx)
	}
	c := &g.cells[idx]
	if c.Occupied {
		return 0, fmt.Errorf("cell %d already occupied by %s", idx, c.Occupant)
	}
	carryover = c.Carryover
	c.Occupied = true
	c.Occupant = id
	c.Carryover = 0
	return carryover, nil
}

// Free releases the cell and records the vacating occupant's unused prepaid
// time as carryover for the next occupant.
func (g *Grid) Free(idx int, carryover float64) error {
	if idx < 0 || idx >= len(g.cells) {
		return fmt.Errorf("cell index %d out of range", idx)
	}
	c := &g.cells[idx]
	if !c.Occupied {
		return fmt.Errorf("cell %d is not occupied", idx)
	}
	if carryover < 0 {
		carryover = 0
	}
	c.Occupied = false
	c.Occupant = ""
	c.Carryover = carryover
	return nil
}
