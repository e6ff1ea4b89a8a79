package difficulty

import (
	"math"
	"time"
)

// Performance is what a single traversal of a maze produced.
type Performance struct {
	CompletionTime time.Duration `json:"completion_time"`
	Moves          int           `json:"moves"`
	Collisions     int           `json:"collisions"`
}

// RewardConfig weighs performance into a reward.
type RewardConfig struct {
	TargetTime        time.Duration // completion time that earns the full time factor
	MaxMovesFactor    float64       // move cap = maze area * MaxMovesFactor
	CollisionPenalty  float64       // subtracted per collision
	TimeRewardFactor  float64       // weight of the time factor
	MovesRewardFactor float64       // weight of the moves factor
}

// Reward scores a traversal of a maze with the given area. The result is always in [0,1].
func Reward(p Performance, area int, c RewardConfig) float64 {
	target := c.TargetTime.Seconds()
	timeFactor := math.Max(0, 1-math.Abs(p.CompletionTime.Seconds()-target)/target)
	movesFactor := math.Max(0, 1-float64(p.Moves)/(float64(area)*c.MaxMovesFactor))
	collisionFactor := 1 - float64(p.Collisions)*c.CollisionPenalty

	reward := timeFactor*c.TimeRewardFactor + movesFactor*c.MovesRewardFactor + collisionFactor
	return clampFloat(reward, 0, 1)
}

func clampFloat(value, min, max float64) float64 {
	if math.IsNaN(value) || value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
