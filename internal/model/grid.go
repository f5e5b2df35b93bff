package model

import (
	"fmt"
	"strings"
)

// GridSize is the edge length of the square play field.
const GridSize = 8

// Coordinate addresses a grid cell.
type Coordinate struct {
	X, Y int
}

// IsZero reports whether c is the origin, which callers treat as "unset".
func (c Coordinate) IsZero() bool {
	return c.X == 0 && c.Y == 0
}

func (c Coordinate) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// Grid is a fixed GridSize x GridSize field of on/off cells. The zero value
// is an empty grid.
type Grid struct {
	cells [GridSize * GridSize]bool
}

func NewGrid() *Grid {
	return &Grid{}
}

// Valid reports whether c lies inside the grid.
func Valid(c Coordinate) bool {
	return c.X >= 0 && c.X < GridSize && c.Y >= 0 && c.Y < GridSize
}

func index(c Coordinate) int {
	if !Valid(c) {
		panic(fmt.Sprintf("model: coordinate %s out of range", c))
	}
	return c.X*GridSize + c.Y
}

func (g *Grid) GetAt(c Coordinate) bool {
	return g.cells[index(c)]
}

func (g *Grid) SetAt(c Coordinate, on bool) {
	g.cells[index(c)] = on
}

// Toggle flips the cell at c and returns its new value.
func (g *Grid) Toggle(c Coordinate) bool {
	i := index(c)
	g.cells[i] = !g.cells[i]
	return g.cells[i]
}

func (g *Grid) Clear() {
	for i := range g.cells {
		g.cells[i] = false
	}
}

// OffPositions lists every off cell, x major then y.
func (g *Grid) OffPositions() []Coordinate {
	out := make([]Coordinate, 0, len(g.cells))
	for i, on := range g.cells {
		if !on {
			out = append(out, Coordinate{X: i / GridSize, Y: i % GridSize})
		}
	}
	return out
}

// OnAmount counts the cells that are on.
func (g *Grid) OnAmount() int {
	n := 0
	for _, on := range g.cells {
		if on {
			n++
		}
	}
	return n
}

// Matches counts cells that are on in both g and o.
func (g *Grid) Matches(o *Grid) int {
	n := 0
	for i, on := range g.cells {
		if on && o.cells[i] {
			n++
		}
	}
	return n
}

// Equal compares every cell of both grids.
func (g *Grid) Equal(o *Grid) bool {
	return g.cells == o.cells
}

// String renders one line per x with '#' for on and '.' for off.
func (g *Grid) String() string {
	var sb strings.Builder
	for x := 0; x < GridSize; x++ {
		for y := 0; y < GridSize; y++ {
			if g.cells[x*GridSize+y] {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
		if x < GridSize-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}
