package maze

const loopDensity = 0.05

// LoopCount returns how many loop-injection attempts AddLoops makes for a maze of dimension d
// at the given difficulty index.
func LoopCount(d Dimension, difficulty int) int {
	return int(float64(d.Area()) * float64(difficulty+1) * loopDensity)
}

// AddLoops knocks down extra walls of a carved maze to create cycles.
// Each attempt picks a random interior cell (outer ring excluded) and removes one of its standing
// walls chosen uniformly, together with the neighbor's matching wall. It only ever removes walls.
// Mazes without an interior (width or height below 3) are left untouched.
// It returns the number of wall pairs actually removed.
func AddLoops(m *Maze, difficulty int, rng RandomSource) int {
	if m.Width < 3 || m.Height < 3 {
		return 0
	}

	removed := 0
	for i := 0; i < LoopCount(m.Dimension(), difficulty); i++ {
		pos := CellPosition{
			Col: Pick(rng, m.Width-2) + 1,
			Row: Pick(rng, m.Height-2) + 1,
		}

		walls := m.cell(pos).StandingWalls()
		if len(walls) == 0 {
			continue
		}

		if m.removeWall(pos, walls[Pick(rng, len(walls))]) {
			removed++
		}
	}
	return removed
}
