// Package gameapi exposes maze sessions and difficulty progress over HTTP.
package gameapi

import (
	"github.com/beka-birhanu/vinom-maze/difficulty"
	"github.com/beka-birhanu/vinom-maze/maze"
)

// NewSessionRequest starts a maze for the authenticated player.
type NewSessionRequest struct {
	Mode difficulty.Mode `json:"mode" binding:"required"`
}

// TickRequest advances a session by Steps frames; zero means one.
type TickRequest struct {
	Steps int `json:"steps"`
}

// MoveRequest walks the player one cell. It is also the message a stream client sends.
type MoveRequest struct {
	Direction maze.Direction `json:"direction" binding:"required"`
}

// ProgressResponse describes the player's current difficulty.
type ProgressResponse struct {
	Level     int            `json:"level"`
	Levels    int            `json:"levels"`
	Dimension maze.Dimension `json:"dimension"`
}
