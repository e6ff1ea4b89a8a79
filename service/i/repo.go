package i

import (
	"context"

	"github.com/beka-birhanu/vinom-maze/domain"
	"github.com/google/uuid"
)

// UserRepo defines the interface for user persistence operations.
type UserRepo interface {
	// Save inserts or updates a user in the repository.
	// If the user already exists, it updates the record. Otherwise, it creates a new one.
	Save(ctx context.Context, user *domain.User) error

	// ByID retrieves a user by their unique ID.
	// Returns domain.ErrUserNotFound if the user does not exist.
	ByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// ByUsername retrieves a user by their username.
	// Returns domain.ErrUserNotFound if the user does not exist.
	ByUsername(ctx context.Context, username string) (*domain.User, error)
}

// RunRepo stores the trace of every finished maze.
type RunRepo interface {
	// Save appends a run.
	Save(ctx context.Context, run *domain.Run) error

	// ByPlayer returns up to limit of the player's runs, most recent first.
	ByPlayer(ctx context.Context, playerID uuid.UUID, limit int) ([]*domain.Run, error)
}

// ProgressStore persists the one integer that survives between sessions: the player's difficulty index.
type ProgressStore interface {
	// Load returns the stored level, or zero for a player without progress.
	Load(ctx context.Context, playerID uuid.UUID) (int, error)

	// Update replaces the stored level with fn(current) while holding the player's progress lock
	// and returns the new level.
	Update(ctx context.Context, playerID uuid.UUID, fn func(current int) int) (int, error)

	// Reset forgets the player's progress.
	Reset(ctx context.Context, playerID uuid.UUID) error
}
