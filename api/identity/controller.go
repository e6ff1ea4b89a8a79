package identity

import (
	"context"
	"errors"
	"net/http"

	"github.com/beka-birhanu/vinom-maze/domain"
	"github.com/beka-birhanu/vinom-maze/service"
	"github.com/beka-birhanu/vinom-maze/service/i"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var ErrMissingDependency = errors.New("player server requires an authenticator and a progress tracker")

// PlayerServer signs players up and in, and tells them where they stand on the difficulty ladder.
type PlayerServer struct {
	auth     i.Authenticator
	progress i.ProgressTracker
}

// NewPlayerServer creates a PlayerServer.
func NewPlayerServer(a i.Authenticator, p i.ProgressTracker) (*PlayerServer, error) {
	if a == nil || p == nil {
		return nil, ErrMissingDependency
	}
	return &PlayerServer{auth: a, progress: p}, nil
}

// RegisterPublic registers public routes.
func (s *PlayerServer) RegisterPublic(route *gin.RouterGroup) {
	auth := route.Group("/auth")
	{
		auth.POST("/register", s.signUp)
		auth.POST("/login", s.signIn)
	}
}

// RegisterProtected registers privileged routes.
func (s *PlayerServer) RegisterProtected(route *gin.RouterGroup) {
	route.GET("/auth/me", s.whoAmI)
}

// signUp creates the account. A new player starts at the easiest level.
func (s *PlayerServer) signUp(c *gin.Context) {
	var request Credentials
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := s.auth.Register(c.Request.Context(), request.Username, request.Password)
	if err != nil {
		c.JSON(credentialStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, s.standing(user.ID, user.Username, 0))
}

// signIn issues an access token along with the player's current standing.
func (s *PlayerServer) signIn(c *gin.Context) {
	var request Credentials
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, token, err := s.auth.SignIn(c.Request.Context(), request.Username, request.Password)
	if err != nil {
		c.JSON(credentialStatus(err), gin.H{"error": err.Error()})
		return
	}

	player, err := s.current(c.Request.Context(), user.ID, user.Username)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, &SignInResponse{
		Player:    player,
		Token:     token,
		ExpiresIn: int64(service.TokenLifetime.Seconds()),
	})
}

// whoAmI reports the authenticated player's standing.
func (s *PlayerServer) whoAmI(c *gin.Context) {
	id, err := PlayerID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	player, err := s.current(c.Request.Context(), id, username(c))
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, player)
}

func (s *PlayerServer) current(ctx context.Context, id uuid.UUID, name string) (Player, error) {
	level, err := s.progress.Level(ctx, id)
	if err != nil {
		return Player{}, err
	}
	return s.standing(id, name, level), nil
}

func (s *PlayerServer) standing(id uuid.UUID, name string, level int) Player {
	return Player{
		ID:       id.String(),
		Username: name,
		Level:    level,
		Levels:   s.progress.Levels(),
		Maze:     s.progress.Dimension(level),
	}
}

// credentialStatus maps account errors to HTTP statuses.
func credentialStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidCredential):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrUsernameConflict):
		return http.StatusConflict
	case errors.Is(err, domain.ErrWeakPassword), errors.Is(err, domain.ErrUsernameTooShort),
		errors.Is(err, domain.ErrUsernameTooLong), errors.Is(err, domain.ErrUsernameFormat):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
