package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var ErrLockNotAcquired = errors.New("request lock not acquired")

// Locker guards the scheduling critical section per request, so concurrent
// volunteers racing for the same request are serialized before the database
// constraint has the final word.
type Locker interface {
	WithRequestLock(ctx context.Context, requestID string, fn func(ctx context.Context) error) error
}

type redisRequestLocker struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRequestLocker creates a locker that uses a per-request Redis key.
func NewRequestLocker(client *redis.Client, ttl time.Duration) Locker {
	return &redisRequestLocker{
		client: client,
		ttl:    ttl,
	}
}

func (l *redisRequestLocker) WithRequestLock(ctx context.Context, requestID string, fn func(ctx context.Context) error) error {
	key := fmt.Sprintf("lock:request:%s", requestID)
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return fmt.Errorf("acquire request lock: %w", err)
	}
	if !ok {
		return ErrLockNotAcquired
	}

	defer func() {
		_ = l.release(ctx, key, token)
	}()

	ctxWithTimeout, cancel := context.WithTimeout(ctx, l.ttl)
	defer cancel()

	return fn(ctxWithTimeout)
}

var unlockScript = redis.NewScript(`
local val = redis.call("GET", KEYS[1])
if val == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0
`)

func (l *redisRequestLocker) release(ctx context.Context, key, token string) error {
	return unlockScript.Run(ctx, l.client, []string{key}, token).Err()
}

// NoopLocker runs the critical section without any coordination. Used when
// Redis is not configured; the partial unique index still enforces the
// single-active-appointment invariant.
type NoopLocker struct{}

func (NoopLocker) WithRequestLock(ctx context.Context, _ string, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
