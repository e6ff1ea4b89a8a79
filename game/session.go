// Package game drives a single maze playthrough: animated generation, loop injection and the
// traversal by a player or by the solver.
package game

import (
	"errors"
	"time"

	"github.com/beka-birhanu/vinom-maze/difficulty"
	"github.com/beka-birhanu/vinom-maze/maze"
)

// Session-related errors.
var (
	ErrNotPlaying      = errors.New("session is not accepting moves")
	ErrNotComplete     = errors.New("session is not complete")
	ErrAutonomousMoves = errors.New("moves are driven by the solver in autonomous mode")
	ErrInvalidMode     = errors.New("invalid session mode")
	ErrNoRandomSource  = errors.New("random source is required")
)

// State is the phase a session is in.
type State string

const (
	Generating State = "generating" // the maze is being carved, one step per tick
	Playing    State = "playing"    // the maze is final and the player is traversing it
	Complete   State = "complete"   // the player reached the exit
)

// Player tracks the traveller through the maze.
type Player struct {
	Pos        maze.CellPosition `json:"pos"`
	Moves      int               `json:"moves"`
	Collisions int               `json:"collisions"`
}

// Config holds what a new session needs.
type Config struct {
	Level     int               // difficulty index, drives loop injection
	Dimension maze.Dimension    // maze size for the level
	Mode      difficulty.Mode   // who plays
	Rand      maze.RandomSource // randomness for carving and loop injection
	Clock     Clock             // time source, defaults to SystemClock
}

// Session is one maze from its first carving step to the player reaching the exit.
// A Session is not safe for concurrent use; callers serialize Tick and Move.
type Session struct {
	maze       *maze.Maze
	generator  *maze.Generator
	rng        maze.RandomSource
	clock      Clock
	state      State
	mode       difficulty.Mode
	level      int
	player     Player
	solution   []maze.Direction // remaining autonomous moves
	loopsAdded int
	startedAt  time.Time
	finishedAt time.Time
}

// New creates a session whose maze is ready to be carved.
func New(c Config) (*Session, error) {
	if !c.Mode.Valid() {
		return nil, ErrInvalidMode
	}
	if c.Rand == nil {
		return nil, ErrNoRandomSource
	}
	if c.Clock == nil {
		c.Clock = SystemClock{}
	}

	m, err := maze.New(c.Dimension.Width, c.Dimension.Height)
	if err != nil {
		return nil, err
	}

	return &Session{
		maze:      m,
		generator: maze.NewGenerator(m, c.Rand),
		rng:       c.Rand,
		clock:     c.Clock,
		state:     Generating,
		mode:      c.Mode,
		level:     c.Level,
		player:    Player{Pos: m.Start()},
	}, nil
}

// Tick advances the session by one frame: one carving step while generating,
// one solver move while an autonomous session is playing, nothing otherwise.
func (s *Session) Tick() State {
	switch s.state {
	case Generating:
		if s.generator.Step() {
			s.finishGeneration()
		}
	case Playing:
		if s.mode == difficulty.Autonomous && len(s.solution) > 0 {
			next := s.solution[0]
			s.solution = s.solution[1:]
			s.move(next)
		}
	}
	return s.state
}

// finishGeneration injects loops, starts the timer and, for autonomous play, solves the maze once.
func (s *Session) finishGeneration() {
	s.loopsAdded = maze.AddLoops(s.maze, s.level, s.rng)
	s.startedAt = s.clock.Now()
	s.state = Playing

	if s.mode == difficulty.Autonomous {
		s.solution = maze.ShortestPath(s.maze, s.maze.Start(), s.maze.Exit())
	}
	s.checkExit()
}

// Move tries to walk the player one cell in direction d. It reports whether the player moved;
// a blocked direction counts as a collision.
func (s *Session) Move(d maze.Direction) (bool, error) {
	if s.state != Playing {
		return false, ErrNotPlaying
	}
	if s.mode == difficulty.Autonomous {
		return false, ErrAutonomousMoves
	}
	if !d.Valid() {
		return false, maze.ErrInvalidDirection
	}
	return s.move(d), nil
}

func (s *Session) move(d maze.Direction) bool {
	if !s.maze.CanMove(s.player.Pos, d) {
		s.player.Collisions++
		return false
	}

	s.player.Pos = s.player.Pos.Step(d)
	s.player.Moves++
	s.checkExit()
	return true
}

func (s *Session) checkExit() {
	if s.player.Pos == s.maze.Exit() {
		s.finishedAt = s.clock.Now()
		s.state = Complete
	}
}

// Performance returns the traversal metrics once the exit has been reached.
func (s *Session) Performance() (difficulty.Performance, error) {
	if s.state != Complete {
		return difficulty.Performance{}, ErrNotComplete
	}
	return difficulty.Performance{
		CompletionTime: s.finishedAt.Sub(s.startedAt),
		Moves:          s.player.Moves,
		Collisions:     s.player.Collisions,
	}, nil
}

// OpenPaths lists the directions open from the player's cell, the decision point shown to players.
func (s *Session) OpenPaths() []maze.Direction {
	if s.state != Playing {
		return nil
	}
	return s.maze.OpenPaths(s.player.Pos)
}

// State returns the session phase.
func (s *Session) State() State {
	return s.state
}

// Mode returns who plays this session.
func (s *Session) Mode() difficulty.Mode {
	return s.mode
}

// Level returns the difficulty index the maze was built for.
func (s *Session) Level() int {
	return s.level
}

// Maze returns the session's maze. It is final once the state leaves Generating.
func (s *Session) Maze() *maze.Maze {
	return s.maze
}

// Player returns the player's position and counters.
func (s *Session) Player() Player {
	return s.player
}

// Solution returns the autonomous moves that have not been replayed yet.
func (s *Session) Solution() []maze.Direction {
	return append([]maze.Direction(nil), s.solution...)
}

// LoopsAdded returns how many wall pairs loop injection removed.
func (s *Session) LoopsAdded() int {
	return s.loopsAdded
}

// Elapsed returns the traversal time so far, or the final time once complete.
func (s *Session) Elapsed() time.Duration {
	switch s.state {
	case Playing:
		return s.clock.Now().Sub(s.startedAt)
	case Complete:
		return s.finishedAt.Sub(s.startedAt)
	default:
		return 0
	}
}
