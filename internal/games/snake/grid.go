package snake

import (
	"errors"
	"fmt"
	"math/rand"
)

// ErrInvalidGrid is returned for grids without at least one cell.
var ErrInvalidGrid = errors.New("snake: grid must have positive width and height")

// Cell is a position on the grid, in cells rather than pixels.
type Cell struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Add returns the neighbouring cell in the given direction.
func (c Cell) Add(d Direction) Cell {
	dx, dy := d.Delta()
	return Cell{X: c.X + dx, Y: c.Y + dy}
}

// Pixels returns the top-left pixel of the cell for a given cell size.
func (c Cell) Pixels(size int) (int, int) {
	return c.X * size, c.Y * size
}

// CellFromPixels converts a pixel position into the cell containing it.
// Negative pixels map to negative cells so off-board positions stay off-board.
func CellFromPixels(x, y, size int) Cell {
	return Cell{X: floorDiv(x, size), Y: floorDiv(y, size)}
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// Grid is the fixed-size playfield.
type Grid struct {
	Width  int
	Height int
}

// NewGrid validates and creates a grid.
func NewGrid(width, height int) (Grid, error) {
	if width <= 0 || height <= 0 {
		return Grid{}, fmt.Errorf("%w: got %dx%d", ErrInvalidGrid, width, height)
	}
	return Grid{Width: width, Height: height}, nil
}

// InBounds reports whether the cell lies on the grid.
func (g Grid) InBounds(c Cell) bool {
	return c.X >= 0 && c.X < g.Width && c.Y >= 0 && c.Y < g.Height
}

// Area returns the number of cells on the grid.
func (g Grid) Area() int {
	return g.Width * g.Height
}

// RandomCell picks a cell uniformly over the whole grid.
func (g Grid) RandomCell(rng *rand.Rand) Cell {
	return Cell{X: rng.Intn(g.Width), Y: rng.Intn(g.Height)}
}
