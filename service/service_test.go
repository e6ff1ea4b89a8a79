package service

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/beka-birhanu/vinom-maze/difficulty"
	"github.com/beka-birhanu/vinom-maze/domain"
	"github.com/beka-birhanu/vinom-maze/game"
	"github.com/beka-birhanu/vinom-maze/infrastruture/memstore"
	"github.com/beka-birhanu/vinom-maze/infrastruture/token"
	"github.com/beka-birhanu/vinom-maze/maze"
	"github.com/beka-birhanu/vinom-maze/service/i"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type nopLogger struct{}

func (nopLogger) Info(string)    {}
func (nopLogger) Warning(string) {}
func (nopLogger) Error(string)   {}
func (nopLogger) Debug(string)   {}

var levels = []maze.Dimension{
	{Width: 5, Height: 5},
	{Width: 7, Height: 7},
	{Width: 10, Height: 10},
}

func newProgress(t *testing.T, store i.ProgressStore, runs *memstore.RunRepo) *ProgressService {
	t.Helper()
	var runRepo i.RunRepo
	if runs != nil {
		runRepo = runs
	}

	p, err := NewProgressService(ProgressConfig{
		Levels: levels,
		Learning: difficulty.Config{
			LearningRate:    0.1,
			DiscountFactor:  0.9,
			ExplorationRate: 0,
		},
		Reward: difficulty.RewardConfig{
			TargetTime:        10 * time.Second,
			MaxMovesFactor:    1.5,
			CollisionPenalty:  0.1,
			TimeRewardFactor:  0.5,
			MovesRewardFactor: 0.5,
		},
		Store:       store,
		Runs:        runRepo,
		Logger:      nopLogger{},
		RandFactory: func() difficulty.RandomSource { return rand.New(rand.NewSource(1)) },
	})
	require.NoError(t, err)
	return p
}

func TestNewProgressService(t *testing.T) {
	_, err := NewProgressService(ProgressConfig{})
	assert.ErrorIs(t, err, ErrNoLevels)
}

func TestProgressAutonomousEscalation(t *testing.T) {
	ctx := context.Background()
	store, runs := memstore.NewProgressStore(), memstore.NewRunRepo()
	p := newProgress(t, store, runs)
	player := uuid.New()

	var changes []difficulty.Change
	for range 4 {
		level, err := p.Level(ctx, player)
		require.NoError(t, err)

		tr, err := p.Complete(ctx, player, difficulty.Autonomous, p.Dimension(level), difficulty.Performance{CompletionTime: time.Second, Moves: 8})
		require.NoError(t, err)
		changes = append(changes, tr.Change)
	}

	assert.Equal(t, []difficulty.Change{difficulty.Increased, difficulty.Increased, difficulty.Held, difficulty.Held}, changes)
	level, err := p.Level(ctx, player)
	require.NoError(t, err)
	assert.Equal(t, 2, level)
	assert.Empty(t, p.Table(player), "autonomous play must not train the agent")

	history, err := p.Runs(ctx, player, 0)
	require.NoError(t, err)
	require.Len(t, history, 4)
	assert.Equal(t, 2, history[0].LevelBefore)
	assert.Equal(t, 0, history[3].LevelBefore)
	assert.Equal(t, levels[0], history[3].Dimension)
}

func TestProgressInteractiveLearns(t *testing.T) {
	ctx := context.Background()
	store := memstore.NewProgressStore()
	p := newProgress(t, store, nil)
	player := uuid.New()

	_, err := store.Update(ctx, player, func(int) int { return 1 })
	require.NoError(t, err)

	// All-zero Q-values tie, and ties hold the level.
	tr, err := p.Complete(ctx, player, difficulty.Interactive, levels[1], difficulty.Performance{CompletionTime: 5 * time.Second, Moves: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, tr.From)
	assert.Equal(t, 1, tr.To)
	assert.Equal(t, difficulty.Hold, tr.Action)
	assert.Equal(t, difficulty.Held, tr.Change)
	assert.Greater(t, tr.Reward, 0.0)

	table := p.Table(player)
	values, ok := table[difficulty.State{Difficulty: 1}]
	require.True(t, ok)
	assert.InDelta(t, 0.1*tr.Reward, values.Get(difficulty.Hold), 1e-9)
	assert.Zero(t, values.Get(difficulty.Decrease))

	history, err := p.Runs(ctx, player, 10)
	require.NoError(t, err)
	assert.Empty(t, history)
}

// failingStore runs the update function like a real store would, then fails to save.
type failingStore struct {
	*memstore.ProgressStore
	calls int
}

var errSaveFailed = errors.New("save failed")

func (f *failingStore) Update(_ context.Context, _ uuid.UUID, fn func(int) int) (int, error) {
	f.calls++
	fn(1)
	return 0, errSaveFailed
}

func TestProgressFailedSaveDoesNotLearn(t *testing.T) {
	ctx := context.Background()
	store := &failingStore{ProgressStore: memstore.NewProgressStore()}
	runs := memstore.NewRunRepo()
	p := newProgress(t, store, runs)
	player := uuid.New()

	for range 3 {
		_, err := p.Complete(ctx, player, difficulty.Interactive, levels[1], difficulty.Performance{CompletionTime: 5 * time.Second, Moves: 10})
		assert.ErrorIs(t, err, errSaveFailed)
	}
	assert.Equal(t, 3, store.calls)

	for s, values := range p.Table(player) {
		assert.Equal(t, difficulty.ActionValues{}, values, "state %v", s)
	}
	history, err := p.Runs(ctx, player, 0)
	require.NoError(t, err)
	assert.Empty(t, history)

	// Once the store recovers, a single completion trains exactly once.
	recovered := newProgress(t, memstore.NewProgressStore(), nil)
	tr, err := recovered.Complete(ctx, player, difficulty.Interactive, levels[1], difficulty.Performance{CompletionTime: 5 * time.Second, Moves: 10})
	require.NoError(t, err)
	values := recovered.Table(player)[difficulty.State{Difficulty: 0}]
	assert.InDelta(t, 0.1*tr.Reward, values.Get(tr.Action), 1e-9)
}

// gatedStore holds one player's updates until release is closed.
type gatedStore struct {
	*memstore.ProgressStore
	gated   uuid.UUID
	entered chan struct{}
	release chan struct{}
}

func (g *gatedStore) Update(ctx context.Context, playerID uuid.UUID, fn func(int) int) (int, error) {
	if playerID == g.gated {
		close(g.entered)
		<-g.release
	}
	return g.ProgressStore.Update(ctx, playerID, fn)
}

func TestProgressPlayersDoNotBlockEachOther(t *testing.T) {
	ctx := context.Background()
	slow, fast := uuid.New(), uuid.New()
	store := &gatedStore{
		ProgressStore: memstore.NewProgressStore(),
		gated:         slow,
		entered:       make(chan struct{}),
		release:       make(chan struct{}),
	}
	p := newProgress(t, store, nil)
	perf := difficulty.Performance{CompletionTime: time.Second, Moves: 8}

	slowDone := make(chan error, 1)
	go func() {
		_, err := p.Complete(ctx, slow, difficulty.Autonomous, levels[0], perf)
		slowDone <- err
	}()
	<-store.entered

	fastDone := make(chan error, 1)
	go func() {
		_, err := p.Complete(ctx, fast, difficulty.Autonomous, levels[0], perf)
		fastDone <- err
	}()

	select {
	case err := <-fastDone:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("a slow store update for one player blocked another player")
	}
	level, err := p.Level(ctx, fast)
	require.NoError(t, err)
	assert.Equal(t, 1, level)

	close(store.release)
	require.NoError(t, <-slowDone)
	level, err = p.Level(ctx, slow)
	require.NoError(t, err)
	assert.Equal(t, 1, level)
}

func TestProgressLevelClamps(t *testing.T) {
	ctx := context.Background()
	store := memstore.NewProgressStore()
	p := newProgress(t, store, nil)
	player := uuid.New()

	_, err := store.Update(ctx, player, func(int) int { return 99 })
	require.NoError(t, err)

	level, err := p.Level(ctx, player)
	require.NoError(t, err)
	assert.Equal(t, 2, level)
	assert.Equal(t, levels[2], p.Dimension(99))
	assert.Equal(t, levels[0], p.Dimension(-3))
}

func TestProgressReset(t *testing.T) {
	ctx := context.Background()
	store, runs := memstore.NewProgressStore(), memstore.NewRunRepo()
	p := newProgress(t, store, runs)
	player := uuid.New()

	_, err := store.Update(ctx, player, func(int) int { return 2 })
	require.NoError(t, err)
	_, err = p.Complete(ctx, player, difficulty.Interactive, levels[2], difficulty.Performance{CompletionTime: time.Second, Moves: 30})
	require.NoError(t, err)
	require.NotEmpty(t, p.Table(player))

	require.NoError(t, p.Reset(ctx, player))

	level, err := p.Level(ctx, player)
	require.NoError(t, err)
	assert.Zero(t, level)
	assert.Empty(t, p.Table(player))

	history, err := p.Runs(ctx, player, 0)
	require.NoError(t, err)
	assert.Len(t, history, 1, "reset keeps run history")
}

func newManager(t *testing.T) (*GameSessionManager, *ProgressService, *game.ManualClock) {
	t.Helper()
	progress := newProgress(t, memstore.NewProgressStore(), memstore.NewRunRepo())
	clock := game.NewManualClock(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	seed := int64(0)

	m, err := NewGameSessionManager(&Config{
		Progress: progress,
		RandFactory: func() maze.RandomSource {
			seed++
			return rand.New(rand.NewSource(seed))
		},
		Clock:  clock,
		Logger: nopLogger{},
	})
	require.NoError(t, err)
	return m, progress, clock
}

func TestGameSessionManagerAutonomous(t *testing.T) {
	ctx := context.Background()
	m, progress, _ := newManager(t)
	player := uuid.New()

	view, err := m.NewSession(ctx, player, difficulty.Autonomous)
	require.NoError(t, err)
	assert.Equal(t, game.Generating, view.Snapshot.State)
	assert.Equal(t, 5, view.Snapshot.Width)
	assert.Nil(t, view.Transition)

	view, err = m.Tick(ctx, view.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, game.Generating, view.Snapshot.State)

	_, err = m.Move(ctx, view.ID, maze.East)
	assert.ErrorIs(t, err, game.ErrNotPlaying)

	view, err = m.Tick(ctx, view.ID, 10000)
	require.NoError(t, err)
	assert.Equal(t, game.Complete, view.Snapshot.State)
	require.NotNil(t, view.Transition)
	assert.Equal(t, difficulty.Increased, view.Transition.Change)

	// Further ticks do not report the same maze twice.
	view, err = m.Tick(ctx, view.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, 1, view.Transition.To)
	level, err := progress.Level(ctx, player)
	require.NoError(t, err)
	assert.Equal(t, 1, level)

	next, err := m.NewSession(ctx, player, difficulty.Autonomous)
	require.NoError(t, err)
	assert.Equal(t, 7, next.Snapshot.Width)

	_, err = m.Session(view.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound, "a new session replaces the previous one")
}

func TestGameSessionManagerInteractive(t *testing.T) {
	ctx := context.Background()
	m, _, clock := newManager(t)
	player := uuid.New()

	view, err := m.NewSession(ctx, player, difficulty.Interactive)
	require.NoError(t, err)
	view, err = m.Tick(ctx, view.ID, maxTicksPerRequest)
	require.NoError(t, err)
	require.Equal(t, game.Playing, view.Snapshot.State)

	owner, err := m.Owner(view.ID)
	require.NoError(t, err)
	assert.Equal(t, player, owner)

	_, err = m.Move(ctx, view.ID, maze.Direction("Up"))
	assert.ErrorIs(t, err, maze.ErrInvalidDirection)

	m.RLock()
	entry := m.sessions[view.ID]
	m.RUnlock()
	path := maze.ShortestPath(entry.session.Maze(), entry.session.Player().Pos, entry.session.Maze().Exit())
	require.NotEmpty(t, path)

	for _, d := range path {
		clock.Advance(500 * time.Millisecond)
		view, err = m.Move(ctx, view.ID, d)
		require.NoError(t, err)
	}

	assert.Equal(t, game.Complete, view.Snapshot.State)
	require.NotNil(t, view.Transition)
	assert.Equal(t, len(path), view.Snapshot.Player.Moves)

	require.NoError(t, m.Close(view.ID))
	assert.ErrorIs(t, m.Close(view.ID), ErrSessionNotFound)
	_, err = m.Tick(ctx, view.ID, 1)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestAuth(t *testing.T) {
	ctx := context.Background()
	users := memstore.NewUserRepo()
	tokenizer := token.NewJwtService("secret", "vinom-maze")
	auth, err := NewAuthService(users, tokenizer, WithBcryptCost(bcrypt.MinCost))
	require.NoError(t, err)

	_, err = NewAuthService(nil, tokenizer)
	assert.Error(t, err)

	const password = "correct-horse-battery-staple-42"
	registered, err := auth.Register(ctx, "runner", password)
	require.NoError(t, err)
	_, err = auth.Register(ctx, "runner", password)
	assert.ErrorIs(t, err, domain.ErrUsernameConflict)
	_, err = auth.Register(ctx, "walker", "1234")
	assert.ErrorIs(t, err, domain.ErrWeakPassword)
	_, err = auth.Register(ctx, "x", password)
	assert.ErrorIs(t, err, domain.ErrUsernameTooShort)

	user, tok, err := auth.SignIn(ctx, "runner", password)
	require.NoError(t, err)
	assert.Equal(t, "runner", user.Username)
	assert.Equal(t, registered.ID, user.ID)

	claims, err := tokenizer.Decode(tok)
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), claims[ClaimUserID])

	_, _, err = auth.SignIn(ctx, "runner", "wrong-password")
	assert.ErrorIs(t, err, domain.ErrInvalidCredential)
	_, _, err = auth.SignIn(ctx, "nobody", password)
	assert.ErrorIs(t, err, domain.ErrInvalidCredential)
}
