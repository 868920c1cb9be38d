package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGridOccupyFree(t *testing.T) {
	g, err := NewGrid(5, 4)
	require.NoError(t, err)
	assert.Equal(t, 20, g.Capacity())
	assert.Equal(t, 20, g.FreeCount())

	idx, ok := g.FindFree()
	require.True(t, ok)
	assert.Equal(t, 0, idx)

	carry, err := g.Occupy(idx, "car-0001")
	require.NoError(t, err)
	assert.Zero(t, carry)
	assert.Equal(t, 19, g.FreeCount())
	assert.Equal(t, 1, g.OccupiedCount())

	_, err = g.Occupy(idx, "car-0002")
	assert.Error(t, err)

	require.NoError(t, g.Free(idx, 2.5))
	cell, err := g.Cell(idx)
	require.NoError(t, err)
	assert.False(t, cell.Occupied)
	assert.Empty(t, cell.Occupant)
	assert.Equal(t, 2.5, cell.Carryover)

	// The next occupant inherits the carryover, which is then reset.
	carry, err = g.Occupy(idx, "car-0003")
	require.NoError(t, err)
	assert.Equal(t, 2.5, carry)
	cell, _ = g.Cell(idx)
	assert.Zero(t, cell.Carryover)
}

func TestGridFreeErrors(t *testing.T) {
	g, err := NewGrid(2, 2)
	require.NoError(t, err)
	assert.Error(t, g.Free(0, 0))
	assert.Error(t, g.Free(-1, 0))
	assert.Error(t, g.Free(4, 0))

	_, err = g.Occupy(1, "car-0001")
	require.NoError(t, err)
	require.NoError(t, g.Free(1, -3))
	cell, _ := g.Cell(1)
	assert.Zero(t, cell.Carryover, "negative carryover must be floored")
}

func TestGridFindFreeOrder(t *testing.T) {
	g, err := NewGrid(3, 1)
	require.NoError(t, err)
	_, err = g.Occupy(0, "a")
	require.NoError(t, err)
	idx, ok := g.FindFree()
	require.True(t, ok)
	assert.Equal(t, 1, idx)

	_, err = g.Occupy(1, "b")
	require.NoError(t, err)
	_, err = g.Occupy(2, "c")
	require.NoError(t, err)
	_, ok = g.FindFree()
	assert.False(t, ok)
}

func TestGridInvalidDimensions(t *testing.T) {
	_, err := NewGrid(0, 4)
	assert.Error(t, err)
	_, err = NewGrid(4, -1)
	assert.Error(t, err)
}

func TestGridLocation(t *testing.T) {
	g, err := NewGrid(5, 4)
	require.NoError(t, err)
	row, col := g.Location(0)
	assert.Equal(t, 0, row)
	assert.Equal(t, 0, col)
	row, col = g.Location(7)
	assert.Equal(t, 1, row)
	assert.Equal(t, 2, col)
}
