package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/beka-birhanu/vinom-maze/difficulty"
	"github.com/beka-birhanu/vinom-maze/game"
	"github.com/beka-birhanu/vinom-maze/maze"
	"github.com/beka-birhanu/vinom-maze/service/i"
	"github.com/google/uuid"
)

const (
	maxTicksPerRequest = 4096
)

var (
	ErrSessionNotFound = errors.New("session not found")
)

// sessionEntry is a running session and the transition it produced once finished.
// Its mutex serializes every Tick and Move on the session.
type sessionEntry struct {
	session    *game.Session
	playerID   uuid.UUID
	transition *difficulty.Transition
	sync.Mutex
}

// GameSessionManager owns the running mazes, one per player, and reports finished ones
// to the progress tracker.
type GameSessionManager struct {
	sessions        map[uuid.UUID]*sessionEntry
	playerToSession map[uuid.UUID]uuid.UUID
	progress        i.ProgressTracker
	randFactory     func() maze.RandomSource
	clock           game.Clock
	logger          i.Logger
	sync.RWMutex
}

var _ i.GameSessionManager = &GameSessionManager{}

// Config holds the GameSessionManager's collaborators.
type Config struct {
	Progress    i.ProgressTracker
	RandFactory func() maze.RandomSource // randomness for each new maze
	Clock       game.Clock               // defaults to game.SystemClock
	Logger      i.Logger
}

// NewGameSessionManager creates a session manager.
func NewGameSessionManager(c *Config) (*GameSessionManager, error) {
	if c.Clock == nil {
		c.Clock = game.SystemClock{}
	}

	return &GameSessionManager{
		sessions:        make(map[uuid.UUID]*sessionEntry),
		playerToSession: make(map[uuid.UUID]uuid.UUID),
		progress:        c.Progress,
		randFactory:     c.RandFactory,
		clock:           c.Clock,
		logger:          c.Logger,
	}, nil
}

// NewSession implements i.GameSessionManager. A player's previous session, if any, is abandoned.
func (g *GameSessionManager) NewSession(ctx context.Context, playerID uuid.UUID, mode difficulty.Mode) (i.SessionView, error) {
	level, err := g.progress.Level(ctx, playerID)
	if err != nil {
		return i.SessionView{}, err
	}

	session, err := game.New(game.Config{
		Level:     level,
		Dimension: g.progress.Dimension(level),
		Mode:      mode,
		Rand:      g.randFactory(),
		Clock:     g.clock,
	})
	if err != nil {
		g.logger.Error(fmt.Sprintf("creating maze for player %s: %s", playerID, err))
		return i.SessionView{}, err
	}

	entry := &sessionEntry{session: session, playerID: playerID}
	sessionID := g.saveSession(playerID, entry)
	g.logger.Info(fmt.Sprintf("started %s session %s for player %s at level %d", mode, sessionID, playerID, level))

	entry.Lock()
	defer entry.Unlock()
	return g.view(sessionID, entry), nil
}

// Tick implements i.GameSessionManager.
func (g *GameSessionManager) Tick(ctx context.Context, sessionID uuid.UUID, n int) (i.SessionView, error) {
	entry, err := g.entry(sessionID)
	if err != nil {
		return i.SessionView{}, err
	}
	n = min(max(n, 1), maxTicksPerRequest)

	entry.Lock()
	defer entry.Unlock()

	for t := 0; t < n && entry.session.State() != game.Complete; t++ {
		entry.session.Tick()
	}

	if err := g.completeIfDone(ctx, entry); err != nil {
		return i.SessionView{}, err
	}
	return g.view(sessionID, entry), nil
}

// Move implements i.GameSessionManager.
func (g *GameSessionManager) Move(ctx context.Context, sessionID uuid.UUID, d maze.Direction) (i.SessionView, error) {
	entry, err := g.entry(sessionID)
	if err != nil {
		return i.SessionView{}, err
	}

	entry.Lock()
	defer entry.Unlock()

	if _, err := entry.session.Move(d); err != nil {
		return i.SessionView{}, err
	}

	if err := g.completeIfDone(ctx, entry); err != nil {
		return i.SessionView{}, err
	}
	return g.view(sessionID, entry), nil
}

// Session implements i.GameSessionManager.
func (g *GameSessionManager) Session(sessionID uuid.UUID) (i.SessionView, error) {
	entry, err := g.entry(sessionID)
	if err != nil {
		return i.SessionView{}, err
	}

	entry.Lock()
	defer entry.Unlock()
	return g.view(sessionID, entry), nil
}

// Close implements i.GameSessionManager.
func (g *GameSessionManager) Close(sessionID uuid.UUID) error {
	g.Lock()
	defer g.Unlock()

	entry, ok := g.sessions[sessionID]
	if !ok {
		return ErrSessionNotFound
	}

	if g.playerToSession[entry.playerID] == sessionID {
		delete(g.playerToSession, entry.playerID)
	}
	delete(g.sessions, sessionID)
	g.logger.Info(fmt.Sprintf("closed session %s", sessionID))
	return nil
}

// Owner returns the player a session belongs to.
func (g *GameSessionManager) Owner(sessionID uuid.UUID) (uuid.UUID, error) {
	entry, err := g.entry(sessionID)
	if err != nil {
		return uuid.Nil, err
	}
	return entry.playerID, nil
}

// completeIfDone hands a finished session to the progress tracker exactly once. Callers hold the entry lock.
func (g *GameSessionManager) completeIfDone(ctx context.Context, entry *sessionEntry) error {
	if entry.session.State() != game.Complete || entry.transition != nil {
		return nil
	}

	perf, err := entry.session.Performance()
	if err != nil {
		return err
	}

	transition, err := g.progress.Complete(ctx, entry.playerID, entry.session.Mode(), entry.session.Maze().Dimension(), perf)
	if err != nil {
		return err
	}
	entry.transition = &transition
	return nil
}

func (g *GameSessionManager) entry(sessionID uuid.UUID) (*sessionEntry, error) {
	g.RLock()
	defer g.RUnlock()

	entry, ok := g.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return entry, nil
}

func (g *GameSessionManager) saveSession(playerID uuid.UUID, entry *sessionEntry) uuid.UUID {
	g.Lock()
	defer g.Unlock()

	if previous, ok := g.playerToSession[playerID]; ok {
		delete(g.sessions, previous)
		g.logger.Info(fmt.Sprintf("abandoned session %s of player %s", previous, playerID))
	}

	sessionID := uuid.New()
	for {
		if _, ok := g.sessions[sessionID]; !ok {
			break
		}
		sessionID = uuid.New()
	}

	g.sessions[sessionID] = entry
	g.playerToSession[playerID] = sessionID
	return sessionID
}

// view builds the caller-facing view. Callers hold the entry lock.
func (g *GameSessionManager) view(sessionID uuid.UUID, entry *sessionEntry) i.SessionView {
	return i.SessionView{
		ID:         sessionID,
		PlayerID:   entry.playerID,
		Snapshot:   entry.session.Snapshot(),
		Transition: entry.transition,
	}
}
