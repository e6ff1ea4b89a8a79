package i

import (
	"context"

	"github.com/beka-birhanu/vinom-maze/difficulty"
	"github.com/beka-birhanu/vinom-maze/domain"
	"github.com/beka-birhanu/vinom-maze/game"
	"github.com/beka-birhanu/vinom-maze/maze"
	"github.com/google/uuid"
)

// SessionView is what callers see of a running session.
type SessionView struct {
	ID         uuid.UUID              `json:"id"`
	PlayerID   uuid.UUID              `json:"player_id"`
	Snapshot   game.Snapshot          `json:"snapshot"`
	Transition *difficulty.Transition `json:"transition,omitempty"` // set once the maze is complete
}

// GameSessionManager owns the running maze sessions.
type GameSessionManager interface {
	// NewSession builds a maze at the player's current difficulty.
	NewSession(ctx context.Context, playerID uuid.UUID, mode difficulty.Mode) (SessionView, error)

	// Tick advances a session by up to n frames.
	Tick(ctx context.Context, sessionID uuid.UUID, n int) (SessionView, error)

	// Move walks the player of an interactive session one cell.
	Move(ctx context.Context, sessionID uuid.UUID, d maze.Direction) (SessionView, error)

	// Session returns the current view of a session.
	Session(sessionID uuid.UUID) (SessionView, error)

	// Close discards a session.
	Close(sessionID uuid.UUID) error

	// Owner returns the player a session belongs to.
	Owner(sessionID uuid.UUID) (uuid.UUID, error)
}

// ProgressTracker turns finished mazes into difficulty transitions.
type ProgressTracker interface {
	// Level returns the player's current difficulty index.
	Level(ctx context.Context, playerID uuid.UUID) (int, error)

	// Dimension returns the maze size of a difficulty index.
	Dimension(level int) maze.Dimension

	// Levels returns the number of difficulty levels.
	Levels() int

	// Complete scores a finished maze and moves the player's difficulty.
	Complete(ctx context.Context, playerID uuid.UUID, mode difficulty.Mode, dim maze.Dimension, perf difficulty.Performance) (difficulty.Transition, error)

	// Reset sets the player's difficulty back to zero and forgets what was learned.
	Reset(ctx context.Context, playerID uuid.UUID) error

	// Runs returns up to limit of the player's finished mazes, most recent first.
	Runs(ctx context.Context, playerID uuid.UUID, limit int) ([]*domain.Run, error)
}
