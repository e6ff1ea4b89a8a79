package service

import (
	"context"
	"errors"
	"time"

	"github.com/beka-birhanu/vinom-maze/domain"
	"github.com/beka-birhanu/vinom-maze/service/i"
	"github.com/google/uuid"
)

const (
	// ClaimUserID is the token claim carrying the player's ID.
	ClaimUserID = "user_id"
	// ClaimUsername is the token claim carrying the player's username.
	ClaimUsername = "username"

	// TokenLifetime is how long an access token stays valid.
	TokenLifetime = 24 * time.Hour
)

// Auth registers players and issues their access tokens.
type Auth struct {
	userRepo   i.UserRepo
	tokenizer  i.Tokenizer
	bcryptCost int
}

var _ i.Authenticator = &Auth{}

// AuthOption customizes an Auth service.
type AuthOption func(*Auth)

// WithBcryptCost overrides the password hashing cost.
func WithBcryptCost(cost int) AuthOption {
	return func(a *Auth) {
		a.bcryptCost = cost
	}
}

// NewAuthService creates an authentication service.
func NewAuthService(ur i.UserRepo, t i.Tokenizer, opts ...AuthOption) (*Auth, error) {
	if ur == nil || t == nil {
		return nil, errors.New("auth service needs a user repository and a tokenizer")
	}

	a := &Auth{
		userRepo:  ur,
		tokenizer: t,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Register implements i.Authenticator.
func (a *Auth) Register(ctx context.Context, username, password string) (*domain.User, error) {
	userConfig := domain.UserConfig{
		ID:            uuid.New(),
		Username:      username,
		PlainPassword: password,
		BcryptCost:    a.bcryptCost,
	}

	user, err := domain.NewUser(userConfig)
	if err != nil {
		return nil, err
	}

	if _, err := a.userRepo.ByUsername(ctx, username); err == nil {
		return nil, domain.ErrUsernameConflict
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	if err := a.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// SignIn implements i.Authenticator.
func (a *Auth) SignIn(ctx context.Context, username, password string) (*domain.User, string, error) {
	user, err := a.userRepo.ByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, "", domain.ErrInvalidCredential
		}
		return nil, "", err
	}

	if !user.VerifyPassword(password) {
		return nil, "", domain.ErrInvalidCredential
	}

	token, err := a.tokenizer.Generate(map[string]interface{}{
		ClaimUserID:   user.ID.String(),
		ClaimUsername: user.Username,
	}, TokenLifetime)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}
