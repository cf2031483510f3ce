package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ArachnoVa-id/roetix-reservation/pkg/redis"
)

// releaseScript deletes the lock only when this process still owns it,
// so a lock that expired and was re-acquired elsewhere is never removed.
const releaseScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
else
	return 0
end
`

// RedisSweepLockRepository implements SweepLocker on Redis SETNX.
type RedisSweepLockRepository struct {
	client *redis.Client
	owner  string
}

// NewRedisSweepLockRepository creates a new RedisSweepLockRepository
// with a unique owner token per process.
func NewRedisSweepLockRepository(client *redis.Client) *RedisSweepLockRepository {
	return &RedisSweepLockRepository{
		client: client,
		owner:  uuid.New().String(),
	}
}

var _ SweepLocker = (*RedisSweepLockRepository)(nil)

// Acquire attempts to take the lock without blocking. Returns false when
// another process holds it.
func (r *RedisSweepLockRepository) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	ok, err := r.client.SetNX(ctx, key, r.owner, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire sweep lock %s: %w", key, err)
	}
	return ok, nil
}

// Release frees the lock if this process still owns it
func (r *RedisSweepLockRepository) Release(ctx context.Context, key string) error {
	if err := r.client.Eval(ctx, releaseScript, []string{key}, r.owner).Err(); err != nil {
		return fmt.Errorf("failed to release sweep lock %s: %w", key, err)
	}
	return nil
}
