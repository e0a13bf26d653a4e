package journal

import (
	"context"
	"fmt"
	"time"

	"github.com/electionlab/groundwork/pkg/domain"
	"github.com/electionlab/groundwork/pkg/ports"
	backend "github.com/redis/go-redis/v9"
)

// RedisLocker implements ports.Locker using Redis SET NX PX. Unlike a
// session lock there is no point waiting: a second provisioning run on the
// same host is an operator error, so acquisition fails immediately.
type RedisLocker struct {
	client *backend.Client
	prefix string
}

var _ ports.Locker = (*RedisLocker)(nil)

// NewRedisLocker creates a Redis locker.
func NewRedisLocker(client *backend.Client, prefix string) *RedisLocker {
	return &RedisLocker{client: client, prefix: prefix}
}

// Lock attempts a single SET NX acquisition.
func (l *RedisLocker) Lock(ctx context.Context, key string, ttl time.Duration) (ports.UnlockFunc, error) {
	lockKey := l.prefix + "lock:" + key
	val := fmt.Sprintf("%d", time.Now().UnixNano())

	ok, err := l.client.SetNX(ctx, lockKey, val, ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("redis error acquiring lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrLockHeld, lockKey)
	}

	return func(ctx context.Context) error {
		// Safe unlock: only delete the key when we still own it.
		script := `
			if redis.call("get", KEYS[1]) == ARGV[1] then
				return redis.call("del", KEYS[1])
			else
				return 0
			end
		`
		return l.client.Eval(ctx, script, []string{lockKey}, val).Err()
	}, nil
}
