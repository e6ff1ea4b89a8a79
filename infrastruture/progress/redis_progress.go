// Package progress stores each player's difficulty index in Redis.
package progress

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/beka-birhanu/vinom-maze/service/i"
	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix  = "maze:progress:"
	lockSuffix = ":lock"
	lockExpiry = 5 * time.Second
)

var (
	ErrLockNotAcquired = errors.New("progress lock not acquired")
)

// RedisProgressStore keeps the difficulty index under maze:progress:<player> with a sliding TTL.
type RedisProgressStore struct {
	client *redis.Client
	locker *redsync.Redsync
	ttl    time.Duration
}

var _ i.ProgressStore = &RedisProgressStore{}

// NewRedisProgressStore creates a progress store on client. A zero ttl keeps progress forever.
func NewRedisProgressStore(client *redis.Client, ttl time.Duration) *RedisProgressStore {
	store := &RedisProgressStore{
		client: client,
		ttl:    ttl,
	}
	pool := goredis.NewPool(client)
	store.locker = redsync.New(pool)
	return store
}

func key(playerID uuid.UUID) string {
	return keyPrefix + playerID.String()
}

// Load implements i.ProgressStore.
func (r *RedisProgressStore) Load(ctx context.Context, playerID uuid.UUID) (int, error) {
	return r.load(ctx, key(playerID))
}

func (r *RedisProgressStore) load(ctx context.Context, k string) (int, error) {
	value, err := r.client.Get(ctx, k).Result()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	level, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("corrupt progress at %s: %w", k, err)
	}
	return level, nil
}

// Update implements i.ProgressStore.
func (r *RedisProgressStore) Update(ctx context.Context, playerID uuid.UUID, fn func(current int) int) (int, error) {
	k := key(playerID)
	mutex := r.locker.NewMutex(k+lockSuffix, redsync.WithExpiry(lockExpiry))
	if err := mutex.LockContext(ctx); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrLockNotAcquired, err)
	}
	defer func() {
		_, _ = mutex.UnlockContext(ctx)
	}()

	current, err := r.load(ctx, k)
	if err != nil {
		return 0, err
	}

	next := fn(current)
	if err := r.client.Set(ctx, k, next, r.ttl).Err(); err != nil {
		return 0, err
	}
	return next, nil
}

// Reset implements i.ProgressStore.
func (r *RedisProgressStore) Reset(ctx context.Context, playerID uuid.UUID) error {
	return r.client.Del(ctx, key(playerID)).Err()
}
