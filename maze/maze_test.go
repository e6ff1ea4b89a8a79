package maze

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func carved(t *testing.T, width, height int, seed int64) *Maze {
	t.Helper()
	m, err := New(width, height)
	require.NoError(t, err)
	NewGenerator(m, rand.New(rand.NewSource(seed))).Generate()
	return m
}

func openAll(m *Maze) {
	for row := 0; row < m.Height; row++ {
		for col := 0; col < m.Width; col++ {
			m.removeWall(CellPosition{Row: row, Col: col}, East)
			m.removeWall(CellPosition{Row: row, Col: col}, South)
		}
	}
}

func assertSymmetric(t *testing.T, m *Maze) {
	t.Helper()
	for row := 0; row < m.Height; row++ {
		for col := 0; col < m.Width; col++ {
			pos := CellPosition{Row: row, Col: col}
			for _, move := range m.neighbors(pos) {
				assert.Equal(t, m.cell(pos).HasWall(move.Direction), m.cell(move.To).HasWall(move.Direction.Opposite()),
					"wall between %v and %v", pos, move.To)
			}
		}
	}
}

func TestNew(t *testing.T) {
	t.Run("all walls standing", func(t *testing.T) {
		m, err := New(4, 3)
		require.NoError(t, err)
		assert.Equal(t, 4, m.Width)
		assert.Equal(t, 3, m.Height)
		assert.Equal(t, 4*4*3, m.StandingWalls())
		assert.Equal(t, CellPosition{Row: 2, Col: 3}, m.Exit())
		for _, row := range m.Grid {
			for _, cell := range row {
				assert.False(t, cell.Visited)
				assert.Equal(t, NorthBit|EastBit|SouthBit|WestBit, cell.Walls())
			}
		}
	})

	t.Run("invalid dimensions", func(t *testing.T) {
		for _, d := range []Dimension{{0, 3}, {3, -1}, {maxMazeDimension + 1, 2}} {
			_, err := New(d.Width, d.Height)
			assert.ErrorIs(t, err, ErrInvalidDimensions)
		}
	})

	t.Run("cell out of bounds", func(t *testing.T) {
		m, _ := New(2, 2)
		_, err := m.Cell(CellPosition{Row: 2, Col: 0})
		assert.ErrorIs(t, err, ErrOutOfBounds)
	})
}

func TestGenerator(t *testing.T) {
	t.Run("spanning tree for many seeds", func(t *testing.T) {
		for _, d := range []Dimension{{2, 2}, {5, 5}, {7, 3}, {1, 6}, {20, 20}} {
			for seed := int64(0); seed < 10; seed++ {
				m := carved(t, d.Width, d.Height, seed)

				assert.Len(t, Reachable(m, m.Start()), d.Area())
				removedPairs := (4*d.Area() - m.StandingWalls()) / 2
				assert.Equal(t, d.Area()-1, removedPairs)
				assertSymmetric(t, m)
			}
		}
	})

	t.Run("state transitions", func(t *testing.T) {
		m, _ := New(3, 3)
		g := NewGenerator(m, rand.New(rand.NewSource(1)))
		assert.Equal(t, Idle, g.State())

		assert.False(t, g.Step())
		assert.Equal(t, Generating, g.State())

		for !g.Step() {
		}
		assert.Equal(t, Complete, g.State())
		assert.Empty(t, g.Frontier())

		walls := m.StandingWalls()
		assert.True(t, g.Step())
		assert.Equal(t, walls, m.StandingWalls())
	})

	t.Run("one cell", func(t *testing.T) {
		m, _ := New(1, 1)
		g := NewGenerator(m, rand.New(rand.NewSource(1)))
		assert.True(t, g.Step())
		assert.Equal(t, 4, m.StandingWalls())
	})

	t.Run("same seed same maze", func(t *testing.T) {
		assert.Equal(t, carved(t, 10, 10, 42).String(), carved(t, 10, 10, 42).String())
	})

	t.Run("single stepping matches full generation", func(t *testing.T) {
		m, _ := New(6, 6)
		g := NewGenerator(m, rand.New(rand.NewSource(7)))
		steps := 0
		for !g.Step() {
			steps++
			assert.LessOrEqual(t, len(g.Frontier()), 36)
		}
		assert.Equal(t, carved(t, 6, 6, 7).String(), m.String())
		// every cell is pushed once and popped at most twice
		assert.LessOrEqual(t, steps, 2*36)
	})
}

func TestAddLoops(t *testing.T) {
	t.Run("only removes walls and keeps connectivity", func(t *testing.T) {
		for seed := int64(0); seed < 10; seed++ {
			m := carved(t, 10, 10, seed)
			before := m.StandingWalls()

			removed := AddLoops(m, 4, rand.New(rand.NewSource(seed)))

			assert.LessOrEqual(t, removed, LoopCount(m.Dimension(), 4))
			assert.Equal(t, before-2*removed, m.StandingWalls())
			assert.Len(t, Reachable(m, m.Start()), 100)
			assertSymmetric(t, m)
		}
	})

	t.Run("never touches the outer boundary", func(t *testing.T) {
		m := carved(t, 8, 8, 3)
		AddLoops(m, 10, rand.New(rand.NewSource(3)))
		for i := 0; i < 8; i++ {
			assert.True(t, m.Grid[0][i].NorthWall)
			assert.True(t, m.Grid[7][i].SouthWall)
			assert.True(t, m.Grid[i][0].WestWall)
			assert.True(t, m.Grid[i][7].EastWall)
		}
	})

	t.Run("loop count", func(t *testing.T) {
		assert.Equal(t, 1, LoopCount(Dimension{Width: 5, Height: 5}, 0))
		assert.Equal(t, 20, LoopCount(Dimension{Width: 20, Height: 20}, 0))
		assert.Equal(t, 100, LoopCount(Dimension{Width: 20, Height: 20}, 4))
	})

	t.Run("no interior", func(t *testing.T) {
		m := carved(t, 2, 9, 1)
		before := m.StandingWalls()
		assert.Zero(t, AddLoops(m, 4, rand.New(rand.NewSource(1))))
		assert.Equal(t, before, m.StandingWalls())
	})
}

func TestShortestPath(t *testing.T) {
	t.Run("open grid follows manhattan distance", func(t *testing.T) {
		m, _ := New(3, 3)
		openAll(m)

		moves := ShortestPath(m, CellPosition{0, 0}, CellPosition{2, 2})
		require.Len(t, moves, 4)

		pos := CellPosition{0, 0}
		for _, d := range moves {
			assert.Contains(t, []Direction{South, East}, d)
			pos = pos.Step(d)
		}
		assert.Equal(t, CellPosition{2, 2}, pos)
	})

	t.Run("start equals target", func(t *testing.T) {
		m := carved(t, 4, 4, 1)
		moves := ShortestPath(m, CellPosition{1, 1}, CellPosition{1, 1})
		assert.NotNil(t, moves)
		assert.Empty(t, moves)
	})

	t.Run("unreachable target", func(t *testing.T) {
		m, _ := New(3, 3)
		m.removeWall(CellPosition{0, 0}, East)
		m.removeWall(CellPosition{0, 1}, South)
		assert.Empty(t, ShortestPath(m, m.Start(), m.Exit()))
	})

	t.Run("out of bounds", func(t *testing.T) {
		m := carved(t, 3, 3, 1)
		assert.Empty(t, ShortestPath(m, m.Start(), CellPosition{5, 5}))
	})

	t.Run("replays to the exit in a carved maze", func(t *testing.T) {
		for seed := int64(0); seed < 5; seed++ {
			m := carved(t, 15, 15, seed)
			AddLoops(m, 3, rand.New(rand.NewSource(seed)))

			pos := m.Start()
			for _, d := range ShortestPath(m, m.Start(), m.Exit()) {
				require.True(t, m.CanMove(pos, d))
				pos = pos.Step(d)
			}
			assert.Equal(t, m.Exit(), pos)
		}
	})

	t.Run("shorter than any detour", func(t *testing.T) {
		m, _ := New(3, 2)
		openAll(m)
		m.Grid[0][0].EastWall, m.Grid[0][1].WestWall = true, true
		assert.Equal(t, []Direction{South, East, North}, ShortestPath(m, CellPosition{0, 0}, CellPosition{0, 1}))
	})
}

func TestOpenPathsAndMoves(t *testing.T) {
	m, _ := New(2, 2)
	m.removeWall(CellPosition{0, 0}, East)

	assert.Equal(t, []Direction{East}, m.OpenPaths(CellPosition{0, 0}))
	assert.Equal(t, []Direction{West}, m.OpenPaths(CellPosition{0, 1}))
	assert.Empty(t, m.OpenPaths(CellPosition{1, 1}))

	assert.True(t, m.IsValidMove(Move{From: CellPosition{0, 0}, To: CellPosition{0, 1}, Direction: East}))
	assert.False(t, m.IsValidMove(Move{From: CellPosition{0, 0}, To: CellPosition{1, 0}, Direction: South}))
	assert.False(t, m.IsValidMove(Move{From: CellPosition{0, 0}, To: CellPosition{1, 1}, Direction: East}))
	assert.False(t, m.CanMove(CellPosition{0, 0}, Direction("Up")))
}

func TestString(t *testing.T) {
	m, _ := New(2, 1)
	m.removeWall(CellPosition{0, 0}, East)
	assert.Equal(t, "+---+---+\n| S   E |\n+---+---+\n", m.String())
}

type fixedFloat float64

func (f fixedFloat) Float64() float64 { return float64(f) }

func TestPick(t *testing.T) {
	assert.Equal(t, 0, Pick(fixedFloat(0), 3))
	assert.Equal(t, 1, Pick(fixedFloat(0.5), 3))
	assert.Equal(t, 2, Pick(fixedFloat(0.9999), 3))
	assert.Equal(t, 2, Pick(fixedFloat(1), 3), "out of range draws stay in bounds")

	rng := rand.New(rand.NewSource(5))
	for range 1000 {
		i := Pick(rng, 4)
		assert.GreaterOrEqual(t, i, 0)
		assert.Less(t, i, 4)
	}
}
