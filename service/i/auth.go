package i

import (
	"context"

	"github.com/beka-birhanu/vinom-maze/domain"
)

// Authenticator registers players and signs them in.
type Authenticator interface {
	// Register creates a new player account and returns it.
	Register(ctx context.Context, username, password string) (*domain.User, error)

	// SignIn checks the credentials and returns the player with a fresh access token.
	SignIn(ctx context.Context, username, password string) (*domain.User, string, error)
}
