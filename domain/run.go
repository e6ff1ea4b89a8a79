package domain

import (
	"time"

	"github.com/beka-birhanu/vinom-maze/difficulty"
	"github.com/beka-birhanu/vinom-maze/maze"
	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// Run is the trace of one finished maze: how it was played and where difficulty went next.
// Runs are what allow adaptive and fixed-escalation play to be compared afterwards.
type Run struct {
	ID             string            `bson:"_id" json:"id"` // ULID text, sorts by completion time
	PlayerID       uuid.UUID         `bson:"playerId" json:"player_id"`
	Mode           difficulty.Mode   `bson:"mode" json:"mode"`
	Dimension      maze.Dimension    `bson:"dimension" json:"dimension"`
	LevelBefore    int               `bson:"levelBefore" json:"level_before"`
	LevelAfter     int               `bson:"levelAfter" json:"level_after"`
	Action         difficulty.Action `bson:"action" json:"action"`
	Change         difficulty.Change `bson:"change" json:"change"`
	Reward         float64           `bson:"reward" json:"reward"`
	CompletionTime time.Duration     `bson:"completionTime" json:"completion_time"`
	Moves          int               `bson:"moves" json:"moves"`
	Collisions     int               `bson:"collisions" json:"collisions"`
	CompletedAt    time.Time         `bson:"completedAt" json:"completed_at"`
}

// NewRun records a transition for a player.
func NewRun(playerID uuid.UUID, mode difficulty.Mode, dim maze.Dimension, perf difficulty.Performance, tr difficulty.Transition, at time.Time) *Run {
	return &Run{
		ID:             ulid.MustNew(ulid.Timestamp(at), ulid.DefaultEntropy()).String(),
		PlayerID:       playerID,
		Mode:           mode,
		Dimension:      dim,
		LevelBefore:    tr.From,
		LevelAfter:     tr.To,
		Action:         tr.Action,
		Change:         tr.Change,
		Reward:         tr.Reward,
		CompletionTime: perf.CompletionTime,
		Moves:          perf.Moves,
		Collisions:     perf.Collisions,
		CompletedAt:    at,
	}
}
