package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/beka-birhanu/vinom-maze/difficulty"
	"github.com/beka-birhanu/vinom-maze/domain"
	"github.com/beka-birhanu/vinom-maze/maze"
	"github.com/beka-birhanu/vinom-maze/service/i"
	"github.com/google/uuid"
)

const (
	defaultRunsLimit = 20
	maxRunsLimit     = 200
)

var (
	ErrNoLevels = errors.New("at least one difficulty level is required")
)

// ProgressConfig holds what a ProgressService needs.
type ProgressConfig struct {
	Levels      []maze.Dimension        // maze size per difficulty index, easiest first
	Learning    difficulty.Config       // Q-learning hyperparameters
	Reward      difficulty.RewardConfig // reward weights
	Store       i.ProgressStore         // persisted difficulty index
	Runs        i.RunRepo               // run history, optional
	Logger      i.Logger
	RandFactory func() difficulty.RandomSource // randomness for each player's agent
	Skill       difficulty.SkillFunc           // optional skill estimate
	Now         func() time.Time               // defaults to time.Now
}

// playerProgress serializes one player's completions and resets around their controller.
type playerProgress struct {
	ctrl *difficulty.Controller
	sync.Mutex
}

// ProgressService keeps one difficulty controller per player and moves the player's level
// after every completed maze. The service lock only guards the player map; store round-trips
// run under the player's own lock.
type ProgressService struct {
	cfg     ProgressConfig
	players map[uuid.UUID]*playerProgress
	sync.Mutex
}

var _ i.ProgressTracker = &ProgressService{}

// NewProgressService creates a progress service.
func NewProgressService(c ProgressConfig) (*ProgressService, error) {
	if len(c.Levels) == 0 {
		return nil, ErrNoLevels
	}
	if c.Now == nil {
		c.Now = time.Now
	}

	return &ProgressService{
		cfg:     c,
		players: make(map[uuid.UUID]*playerProgress),
	}, nil
}

// player returns the player's entry, creating it on first use.
func (p *ProgressService) player(playerID uuid.UUID) *playerProgress {
	p.Lock()
	defer p.Unlock()

	pp, ok := p.players[playerID]
	if !ok {
		agent := difficulty.NewAgent(difficulty.NewQTable(), p.cfg.Learning, p.cfg.RandFactory(), difficulty.WithSkill(p.cfg.Skill))
		pp = &playerProgress{ctrl: difficulty.NewController(agent, len(p.cfg.Levels))}
		p.players[playerID] = pp
	}
	return pp
}

// Level implements i.ProgressTracker.
func (p *ProgressService) Level(ctx context.Context, playerID uuid.UUID) (int, error) {
	level, err := p.cfg.Store.Load(ctx, playerID)
	if err != nil {
		p.cfg.Logger.Error(fmt.Sprintf("loading progress of player %s: %s", playerID, err))
		return 0, err
	}
	return p.clamp(level), nil
}

// Dimension implements i.ProgressTracker.
func (p *ProgressService) Dimension(level int) maze.Dimension {
	return p.cfg.Levels[p.clamp(level)]
}

// Levels implements i.ProgressTracker.
func (p *ProgressService) Levels() int {
	return len(p.cfg.Levels)
}

func (p *ProgressService) clamp(level int) int {
	return min(max(level, 0), len(p.cfg.Levels)-1)
}

// Complete implements i.ProgressTracker.
func (p *ProgressService) Complete(ctx context.Context, playerID uuid.UUID, mode difficulty.Mode, dim maze.Dimension, perf difficulty.Performance) (difficulty.Transition, error) {
	reward := difficulty.Reward(perf, dim.Area(), p.cfg.Reward)

	pp := p.player(playerID)
	pp.Lock()
	defer pp.Unlock()

	// The agent only learns from a transition whose level was stored.
	var transition difficulty.Transition
	_, err := p.cfg.Store.Update(ctx, playerID, func(current int) int {
		transition = pp.ctrl.Decide(current, reward, mode)
		return transition.To
	})
	if err != nil {
		p.cfg.Logger.Error(fmt.Sprintf("saving progress of player %s: %s", playerID, err))
		return difficulty.Transition{}, err
	}
	pp.ctrl.Learn(transition, mode)
	if mode == difficulty.Interactive {
		values, _ := pp.ctrl.Agent().Table().Values(pp.ctrl.Agent().StateFor(transition.From))
		p.cfg.Logger.Debug(fmt.Sprintf("q-values of player %s at level %d: %v", playerID, transition.From, values))
	}

	p.cfg.Logger.Info(fmt.Sprintf("level complete for player %s: mode=%s reward=%.2f level %d -> %d (%s)",
		playerID, mode, reward, transition.From, transition.To, transition.Change))

	if p.cfg.Runs != nil {
		run := domain.NewRun(playerID, mode, dim, perf, transition, p.cfg.Now())
		if err := p.cfg.Runs.Save(ctx, run); err != nil {
			p.cfg.Logger.Warning(fmt.Sprintf("recording run for player %s: %s", playerID, err))
		}
	}

	return transition, nil
}

// Reset implements i.ProgressTracker.
func (p *ProgressService) Reset(ctx context.Context, playerID uuid.UUID) error {
	pp := p.player(playerID)
	pp.Lock()
	defer pp.Unlock()

	if err := p.cfg.Store.Reset(ctx, playerID); err != nil {
		p.cfg.Logger.Error(fmt.Sprintf("resetting progress of player %s: %s", playerID, err))
		return err
	}
	pp.ctrl.Reset()

	p.cfg.Logger.Info(fmt.Sprintf("progress reset for player %s", playerID))
	return nil
}

// Runs implements i.ProgressTracker.
func (p *ProgressService) Runs(ctx context.Context, playerID uuid.UUID, limit int) ([]*domain.Run, error) {
	if p.cfg.Runs == nil {
		return []*domain.Run{}, nil
	}
	if limit <= 0 {
		limit = defaultRunsLimit
	}
	return p.cfg.Runs.ByPlayer(ctx, playerID, min(limit, maxRunsLimit))
}

// Table returns a copy of the player's learned Q-values.
func (p *ProgressService) Table(playerID uuid.UUID) map[difficulty.State]difficulty.ActionValues {
	p.Lock()
	pp, ok := p.players[playerID]
	p.Unlock()
	if !ok {
		return map[difficulty.State]difficulty.ActionValues{}
	}

	pp.Lock()
	defer pp.Unlock()
	return pp.ctrl.Agent().Table().Snapshot()
}
