package config

import (
	"time"

	"github.com/beka-birhanu/vinom-maze/difficulty"
	"github.com/beka-birhanu/vinom-maze/maze"
)

// Game holds the maze sizes per difficulty and the learning and reward parameters.
type Game struct {
	Levels   []maze.Dimension // easiest first
	Learning difficulty.Config
	Reward   difficulty.RewardConfig
}

// DefaultGame returns the stock difficulty ladder and tuning.
func DefaultGame() Game {
	return Game{
		Levels: []maze.Dimension{
			{Width: 5, Height: 5},
			{Width: 7, Height: 7},
			{Width: 10, Height: 10},
			{Width: 15, Height: 15},
			{Width: 20, Height: 20},
		},
		Learning: difficulty.Config{
			LearningRate:    0.1,
			DiscountFactor:  0.9,
			ExplorationRate: 0.2,
		},
		Reward: difficulty.RewardConfig{
			TargetTime:        10 * time.Second,
			MaxMovesFactor:    1.5,
			CollisionPenalty:  0.1,
			TimeRewardFactor:  0.5,
			MovesRewardFactor: 0.5,
		},
	}
}

// LoadGame returns DefaultGame with the RL_* environment overrides applied.
func LoadGame() Game {
	g := DefaultGame()
	g.Learning.LearningRate = getEnvAsFloatWithDefault("RL_LEARNING_RATE", g.Learning.LearningRate)
	g.Learning.DiscountFactor = getEnvAsFloatWithDefault("RL_DISCOUNT_FACTOR", g.Learning.DiscountFactor)
	g.Learning.ExplorationRate = getEnvAsFloatWithDefault("RL_EXPLORATION_RATE", g.Learning.ExplorationRate)

	targetSec := getEnvAsFloatWithDefault("RL_TARGET_TIME_SEC", g.Reward.TargetTime.Seconds())
	g.Reward.TargetTime = time.Duration(targetSec * float64(time.Second))
	return g
}
