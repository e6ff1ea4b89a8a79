package game

import (
	"github.com/beka-birhanu/vinom-maze/difficulty"
	"github.com/beka-birhanu/vinom-maze/maze"
)

// Snapshot is a serializable view of a session for renderers.
// Walls holds one bitmask per cell, indexed [row][col], built from maze.NorthBit and friends.
type Snapshot struct {
	State      State             `json:"state"`
	Mode       difficulty.Mode   `json:"mode"`
	Level      int               `json:"level"`
	Width      int               `json:"width"`
	Height     int               `json:"height"`
	Walls      [][]uint8         `json:"walls"`
	Carving    maze.CellPosition `json:"carving"`
	Exit       maze.CellPosition `json:"exit"`
	Player     Player            `json:"player"`
	OpenPaths  []maze.Direction  `json:"open_paths"`
	ElapsedMs  int64             `json:"elapsed_ms"`
	LoopsAdded int               `json:"loops_added"`
}

// Snapshot captures the current state of the session.
func (s *Session) Snapshot() Snapshot {
	walls := make([][]uint8, s.maze.Height)
	for row := range walls {
		walls[row] = make([]uint8, s.maze.Width)
		for col := range walls[row] {
			walls[row][col] = s.maze.Grid[row][col].Walls()
		}
	}

	return Snapshot{
		State:      s.state,
		Mode:       s.mode,
		Level:      s.level,
		Width:      s.maze.Width,
		Height:     s.maze.Height,
		Walls:      walls,
		Carving:    s.generator.Current(),
		Exit:       s.maze.Exit(),
		Player:     s.player,
		OpenPaths:  s.OpenPaths(),
		ElapsedMs:  s.Elapsed().Milliseconds(),
		LoopsAdded: s.loopsAdded,
	}
}
