/*
Package maze provides tools for creating, carving and solving rectangular mazes.

It defines the `Maze` structure, composed of `Cell` objects with four wall flags. Walls are
only ever removed in matched pairs, so two adjacent cells always agree on the wall between them.

A maze is carved step by step with a `Generator` (randomized depth-first backtracking), can be
given extra cycles with `AddLoops`, and is solved with the breadth-first `ShortestPath`.
*/
package maze

import (
	"errors"
	"strings"
)

const (
	maxMazeDimension = 64
)

var (
	ErrInvalidDimensions = errors.New("invalid maze dimensions")
	ErrOutOfBounds       = errors.New("cell position is out of the maze")
	ErrInvalidDirection  = errors.New("invalid direction")
)

// Dimension is the width and height of a maze in cells.
type Dimension struct {
	Width  int `json:"width" bson:"width"`
	Height int `json:"height" bson:"height"`
}

// Area returns the number of cells of a maze with these dimensions.
func (d Dimension) Area() int {
	return d.Width * d.Height
}

// Maze represents a rectangular maze consisting of cells with walls.
// The start is always the top-left cell and the exit the bottom-right one.
type Maze struct {
	Width  int      // Width of the maze (number of columns)
	Height int      // Height of the maze (number of rows)
	Grid   [][]Cell // 2D grid of cells indexed [row][col]
}

// New creates a width x height maze with every wall standing and no cell visited.
func New(width, height int) (*Maze, error) {
	if min(width, height) <= 0 || max(width, height) > maxMazeDimension {
		return nil, ErrInvalidDimensions
	}

	grid := make([][]Cell, height)
	for i := range grid {
		grid[i] = make([]Cell, width)
		for j := range grid[i] {
			grid[i][j] = Cell{
				NorthWall: true,
				EastWall:  true,
				SouthWall: true,
				WestWall:  true,
			}
		}
	}

	return &Maze{
		Width:  width,
		Height: height,
		Grid:   grid,
	}, nil
}

// Dimension returns the maze's width and height.
func (m *Maze) Dimension() Dimension {
	return Dimension{Width: m.Width, Height: m.Height}
}

// Start returns the start cell position (0,0).
func (m *Maze) Start() CellPosition {
	return CellPosition{Row: 0, Col: 0}
}

// Exit returns the exit cell position (width-1, height-1).
func (m *Maze) Exit() CellPosition {
	return CellPosition{Row: m.Height - 1, Col: m.Width - 1}
}

// InBound reports whether pos lies inside the grid.
func (m *Maze) InBound(pos CellPosition) bool {
	return pos.Row >= 0 && pos.Row < m.Height && pos.Col >= 0 && pos.Col < m.Width
}

// Cell returns the cell at pos.
func (m *Maze) Cell(pos CellPosition) (*Cell, error) {
	if !m.InBound(pos) {
		return nil, ErrOutOfBounds
	}
	return m.cell(pos), nil
}

func (m *Maze) cell(pos CellPosition) *Cell {
	return &m.Grid[pos.Row][pos.Col]
}

// neighbors finds all in-bound moves from a given cell position.
func (m *Maze) neighbors(pos CellPosition) []Move {
	var result []Move
	for _, dir := range Directions {
		neighbor := pos.Step(dir)
		if m.InBound(neighbor) {
			result = append(result, Move{From: pos, To: neighbor, Direction: dir})
		}
	}
	return result
}

// removeWall removes the wall between pos and its neighbor in direction d, on both sides.
// It does nothing when the neighbor is out of bounds.
func (m *Maze) removeWall(pos CellPosition, d Direction) bool {
	to := pos.Step(d)
	if !m.InBound(pos) || !m.InBound(to) {
		return false
	}
	m.cell(pos).setWall(d, false)
	m.cell(to).setWall(d.Opposite(), false)
	return true
}

// CanMove reports whether the wall on side d of pos is open and leads to a cell inside the maze.
func (m *Maze) CanMove(pos CellPosition, d Direction) bool {
	if !d.Valid() || !m.InBound(pos) || !m.InBound(pos.Step(d)) {
		return false
	}
	return !m.cell(pos).HasWall(d)
}

// IsValidMove checks if a move is valid (i.e., the connecting wall is down on both sides).
func (m *Maze) IsValidMove(move Move) bool {
	if move.From.Step(move.Direction) != move.To || !m.CanMove(move.From, move.Direction) {
		return false
	}
	return !m.cell(move.To).HasWall(move.Direction.Opposite())
}

// OpenPaths lists the directions a traveller at pos can take, in North, East, South, West order.
func (m *Maze) OpenPaths(pos CellPosition) []Direction {
	var paths []Direction
	for _, d := range Directions {
		if m.CanMove(pos, d) {
			paths = append(paths, d)
		}
	}
	return paths
}

// StandingWalls counts every wall flag that is still set across the grid.
func (m *Maze) StandingWalls() int {
	count := 0
	for row := range m.Grid {
		for col := range m.Grid[row] {
			count += len(m.Grid[row][col].StandingWalls())
		}
	}
	return count
}

// String provides a textual representation of the maze.
// The start is marked with S and the exit with E.
func (m *Maze) String() string {
	var output strings.Builder

	// Top boundary
	output.WriteString("+")
	for col := 0; col < m.Width; col++ {
		if m.Grid[0][col].NorthWall {
			output.WriteString("---+")
		} else {
			output.WriteString("   +")
		}
	}
	output.WriteString("\n")

	for row := 0; row < m.Height; row++ {
		// Cell rows
		if m.Grid[row][0].WestWall {
			output.WriteString("|")
		} else {
			output.WriteString(" ")
		}
		for col := 0; col < m.Width; col++ {
			cell := m.Grid[row][col]
			switch (CellPosition{Row: row, Col: col}) {
			case m.Start():
				output.WriteString(" S ")
			case m.Exit():
				output.WriteString(" E ")
			default:
				output.WriteString("   ")
			}

			if cell.EastWall {
				output.WriteString("|")
			} else {
				output.WriteString(" ")
			}
		}
		output.WriteString("\n")

		// Wall rows
		output.WriteString("+")
		for col := 0; col < m.Width; col++ {
			if m.Grid[row][col].SouthWall {
				output.WriteString("---+")
			} else {
				output.WriteString("   +")
			}
		}
		output.WriteString("\n")
	}

	return output.String()
}
