package maze

// RandomSource yields uniform floats in [0,1). *rand.Rand satisfies it.
type RandomSource interface {
	Float64() float64
}

// GenerationState is the lifecycle of a Generator.
type GenerationState int

const (
	Idle GenerationState = iota
	Generating
	Complete
)

func (s GenerationState) String() string {
	switch s {
	case Idle:
		return "idle"
	case Generating:
		return "generating"
	case Complete:
		return "complete"
	default:
		return "unknown"
	}
}

// Generator carves a perfect maze with randomized depth-first backtracking, one cell visit per Step.
// The frontier stack lives here and not in the Maze, so a half-carved maze can be dropped at any time.
type Generator struct {
	maze    *Maze
	rng     RandomSource
	stack   []CellPosition // frontier of visited cells that may still have unvisited neighbors
	current CellPosition
	state   GenerationState
}

// NewGenerator prepares to carve m starting from its start cell.
// m must be freshly created by New.
func NewGenerator(m *Maze, rng RandomSource) *Generator {
	start := m.Start()
	m.cell(start).Visited = true
	return &Generator{
		maze:    m,
		rng:     rng,
		stack:   []CellPosition{start},
		current: start,
		state:   Idle,
	}
}

// Step performs one unit of carving and reports whether generation is complete.
// Once complete, further calls do nothing and keep returning true.
func (g *Generator) Step() bool {
	if len(g.stack) == 0 {
		g.state = Complete
		return true
	}
	g.state = Generating

	g.current = pop(&g.stack)
	neighbors := g.unvisitedNeighbors(g.current)
	if len(neighbors) > 0 {
		g.stack = append(g.stack, g.current)
		next := neighbors[Pick(g.rng, len(neighbors))]
		g.maze.removeWall(next.From, next.Direction)
		g.maze.cell(next.To).Visited = true
		g.stack = append(g.stack, next.To)
	}

	if len(g.stack) == 0 {
		g.state = Complete
	}
	return g.state == Complete
}

// Generate steps until the maze is complete and returns the number of steps taken.
func (g *Generator) Generate() int {
	steps := 0
	for !g.Step() {
		steps++
	}
	return steps + 1
}

// State returns the generator's lifecycle state.
func (g *Generator) State() GenerationState {
	return g.state
}

// Current returns the cell most recently taken off the frontier.
func (g *Generator) Current() CellPosition {
	return g.current
}

// Frontier returns a copy of the backtracking stack, bottom first.
func (g *Generator) Frontier() []CellPosition {
	return append([]CellPosition(nil), g.stack...)
}

// Maze returns the maze being carved.
func (g *Generator) Maze() *Maze {
	return g.maze
}

func (g *Generator) unvisitedNeighbors(pos CellPosition) []Move {
	var result []Move
	for _, move := range g.maze.neighbors(pos) {
		if !g.maze.cell(move.To).Visited {
			result = append(result, move)
		}
	}
	return result
}

// pop removes and returns the last element of a stack of CellPositions.
func pop(s *[]CellPosition) CellPosition {
	lastIndex := len(*s) - 1
	popped := (*s)[lastIndex]
	*s = (*s)[:lastIndex]
	return popped
}

// Pick returns a uniform index in [0, n) drawn from rng. n must be positive.
func Pick(rng RandomSource, n int) int {
	i := int(rng.Float64() * float64(n))
	if i >= n {
		i = n - 1
	}
	return i
}
