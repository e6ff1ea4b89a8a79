// Package memstore keeps player progress and run history in process memory.
// It backs offline simulation and tests where Redis and MongoDB are not available.
package memstore

import (
	"context"
	"slices"
	"sync"

	"github.com/beka-birhanu/vinom-maze/domain"
	"github.com/beka-birhanu/vinom-maze/service/i"
	"github.com/google/uuid"
)

// ProgressStore is an in-memory i.ProgressStore.
type ProgressStore struct {
	levels map[uuid.UUID]int
	sync.Mutex
}

var _ i.ProgressStore = &ProgressStore{}

// NewProgressStore creates an empty progress store.
func NewProgressStore() *ProgressStore {
	return &ProgressStore{levels: make(map[uuid.UUID]int)}
}

// Load implements i.ProgressStore.
func (p *ProgressStore) Load(_ context.Context, playerID uuid.UUID) (int, error) {
	p.Lock()
	defer p.Unlock()
	return p.levels[playerID], nil
}

// Update implements i.ProgressStore.
func (p *ProgressStore) Update(_ context.Context, playerID uuid.UUID, fn func(current int) int) (int, error) {
	p.Lock()
	defer p.Unlock()

	level := fn(p.levels[playerID])
	p.levels[playerID] = level
	return level, nil
}

// Reset implements i.ProgressStore.
func (p *ProgressStore) Reset(_ context.Context, playerID uuid.UUID) error {
	p.Lock()
	defer p.Unlock()
	delete(p.levels, playerID)
	return nil
}

// RunRepo is an in-memory i.RunRepo.
type RunRepo struct {
	runs map[uuid.UUID][]*domain.Run
	sync.RWMutex
}

var _ i.RunRepo = &RunRepo{}

// NewRunRepo creates an empty run repository.
func NewRunRepo() *RunRepo {
	return &RunRepo{runs: make(map[uuid.UUID][]*domain.Run)}
}

// Save implements i.RunRepo.
func (r *RunRepo) Save(_ context.Context, run *domain.Run) error {
	r.Lock()
	defer r.Unlock()
	r.runs[run.PlayerID] = append(r.runs[run.PlayerID], run)
	return nil
}

// ByPlayer implements i.RunRepo.
func (r *RunRepo) ByPlayer(_ context.Context, playerID uuid.UUID, limit int) ([]*domain.Run, error) {
	r.RLock()
	defer r.RUnlock()

	runs := r.runs[playerID]
	n := len(runs)
	if limit > 0 {
		n = min(n, limit)
	}

	recent := make([]*domain.Run, 0, n)
	for _, run := range slices.Backward(runs) {
		if len(recent) == n {
			break
		}
		recent = append(recent, run)
	}
	return recent, nil
}

// UserRepo is an in-memory i.UserRepo.
type UserRepo struct {
	users map[uuid.UUID]domain.User
	sync.RWMutex
}

var _ i.UserRepo = &UserRepo{}

// NewUserRepo creates an empty user repository.
func NewUserRepo() *UserRepo {
	return &UserRepo{users: make(map[uuid.UUID]domain.User)}
}

// Save implements i.UserRepo.
func (u *UserRepo) Save(_ context.Context, user *domain.User) error {
	u.Lock()
	defer u.Unlock()

	for id, other := range u.users {
		if id != user.ID && other.Username == user.Username {
			return domain.ErrUsernameConflict
		}
	}
	u.users[user.ID] = *user
	return nil
}

// ByID implements i.UserRepo.
func (u *UserRepo) ByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	u.RLock()
	defer u.RUnlock()

	user, ok := u.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &user, nil
}

// ByUsername implements i.UserRepo.
func (u *UserRepo) ByUsername(_ context.Context, username string) (*domain.User, error) {
	u.RLock()
	defer u.RUnlock()

	for _, user := range u.users {
		if user.Username == username {
			return &user, nil
		}
	}
	return nil, domain.ErrUserNotFound
}
