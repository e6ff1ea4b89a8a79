package identity

import "github.com/beka-birhanu/vinom-maze/maze"

// Credentials is the body of the register and login calls.
type Credentials struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Player is a player's identity and current difficulty standing.
type Player struct {
	ID       string         `json:"player_id"`
	Username string         `json:"username,omitempty"`
	Level    int            `json:"level"`
	Levels   int            `json:"levels"`
	Maze     maze.Dimension `json:"maze"`
}

// SignInResponse is returned on a successful login.
type SignInResponse struct {
	Player    Player `json:"player"`
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expires_in"` // seconds
}
