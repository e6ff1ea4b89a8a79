package game

import (
	"time"

	"github.com/beka-birhanu/vinom-maze/maze"
)

// Walker is a simulated interactive player. It wanders the maze, avoiding turning back
// unless at a dead end, and now and then bumps into a wall.
type Walker struct {
	rng      maze.RandomSource
	blunder  float64 // probability of trying a random direction, walls included
	previous maze.Direction
}

// NewWalker creates a walker that blunders into a random direction with probability blunder.
func NewWalker(rng maze.RandomSource, blunder float64) *Walker {
	return &Walker{rng: rng, blunder: blunder}
}

// Next picks the walker's next direction from the player's cell.
func (w *Walker) Next(s *Session) maze.Direction {
	if w.rng.Float64() < w.blunder {
		return maze.Directions[maze.Pick(w.rng, len(maze.Directions))]
	}

	open := s.OpenPaths()
	if len(open) == 0 {
		return maze.Directions[maze.Pick(w.rng, len(maze.Directions))]
	}

	forward := make([]maze.Direction, 0, len(open))
	for _, d := range open {
		if w.previous == "" || d != w.previous.Opposite() {
			forward = append(forward, d)
		}
	}
	if len(forward) == 0 {
		forward = open
	}
	return forward[maze.Pick(w.rng, len(forward))]
}

// Play drives s to completion, advancing clock by stepTime for every attempted move.
// It gives up after maxMoves attempts and reports whether the exit was reached.
func (w *Walker) Play(s *Session, clock *ManualClock, stepTime time.Duration, maxMoves int) bool {
	for attempts := 0; attempts < maxMoves && s.State() == Playing; attempts++ {
		d := w.Next(s)
		clock.Advance(stepTime)
		moved, err := s.Move(d)
		if err != nil {
			return false
		}
		if moved {
			w.previous = d
		}
	}
	return s.State() == Complete
}
