package maze

// Direction names one of the four sides of a cell and the move across it.
type Direction string

const (
	North Direction = "North" // up
	East  Direction = "East"  // right
	South Direction = "South" // down
	West  Direction = "West"  // left
)

var (
	// Directions lists the four directions in the order neighbors and open paths are enumerated.
	Directions = []Direction{North, East, South, West}

	deltas = map[Direction]CellPosition{
		North: {Row: -1, Col: 0},
		East:  {Row: 0, Col: 1},
		South: {Row: 1, Col: 0},
		West:  {Row: 0, Col: -1},
	}

	opposites = map[Direction]Direction{
		North: South,
		East:  West,
		South: North,
		West:  East,
	}
)

// Valid reports whether d is one of the four known directions.
func (d Direction) Valid() bool {
	_, ok := deltas[d]
	return ok
}

// Opposite returns the direction facing back across the same wall.
func (d Direction) Opposite() Direction {
	return opposites[d]
}

// Wall bits used by Cell.Walls.
const (
	NorthBit uint8 = 1 << iota
	EastBit
	SouthBit
	WestBit
)

// Cell represents a single cell in a maze grid.
// It includes properties for walls on each side and the generation visit mark.
type Cell struct {
	NorthWall bool // NorthWall indicates whether there is a wall on the north side of the cell.
	EastWall  bool // EastWall indicates whether there is a wall on the east side of the cell.
	SouthWall bool // SouthWall indicates whether there is a wall on the south side of the cell.
	WestWall  bool // WestWall indicates whether there is a wall on the west side of the cell.
	Visited   bool // Visited is only meaningful while the maze is being carved.
}

// HasWall reports whether the wall on side d is standing.
func (c *Cell) HasWall(d Direction) bool {
	switch d {
	case North:
		return c.NorthWall
	case East:
		return c.EastWall
	case South:
		return c.SouthWall
	case West:
		return c.WestWall
	default:
		return true
	}
}

func (c *Cell) setWall(d Direction, standing bool) {
	switch d {
	case North:
		c.NorthWall = standing
	case East:
		c.EastWall = standing
	case South:
		c.SouthWall = standing
	case West:
		c.WestWall = standing
	}
}

// StandingWalls returns the sides whose wall is present, in North, East, South, West order.
func (c *Cell) StandingWalls() []Direction {
	var walls []Direction
	for _, d := range Directions {
		if c.HasWall(d) {
			walls = append(walls, d)
		}
	}
	return walls
}

// Walls packs the four wall flags into a bitmask of NorthBit, EastBit, SouthBit and WestBit.
func (c *Cell) Walls() uint8 {
	var bits uint8
	if c.NorthWall {
		bits |= NorthBit
	}
	if c.EastWall {
		bits |= EastBit
	}
	if c.SouthWall {
		bits |= SouthBit
	}
	if c.WestWall {
		bits |= WestBit
	}
	return bits
}

// CellPosition represents the position of a cell in the maze grid.
type CellPosition struct {
	Row int `json:"row" bson:"row"` // Row index of the cell (y)
	Col int `json:"col" bson:"col"` // Column index of the cell (x)
}

// Step returns the position one cell away in direction d. The result may be out of bounds.
func (p CellPosition) Step(d Direction) CellPosition {
	delta := deltas[d]
	return CellPosition{Row: p.Row + delta.Row, Col: p.Col + delta.Col}
}

// Move represents a movement from one cell to another in a specific direction.
type Move struct {
	From      CellPosition // Starting cell
	To        CellPosition // Destination cell
	Direction Direction    // Direction of the move
}
