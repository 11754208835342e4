package lock

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLocker is a SET NX PX lock shared by every API instance. The TTL
// bounds how long a crashed holder can block a barber's day.
type RedisLocker struct {
	rdb     *redis.Client
	ttl     time.Duration
	maxWait time.Duration
	log     *zap.Logger
}

func NewRedisLocker(rdb *redis.Client, ttl time.Duration, log *zap.Logger) *RedisLocker {
	if ttl <= 0 {
		ttl = 10 * time.Second
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &RedisLocker{
		rdb:     rdb,
		ttl:     ttl,
		maxWait: ttl,
		log:     log,
	}
}

func (r *RedisLocker) Acquire(ctx context.Context, key string) (func(), error) {
	token := uuid.NewString()
	deadline := time.Now().Add(r.maxWait)

	for attempt := 0; ; attempt++ {
		ok, err := r.rdb.SetNX(ctx, key, token, r.ttl).Result()
		if err != nil {
			return nil, err
		}
		if ok {
			break
		}
		if time.Now().After(deadline) {
			return nil, ErrLockTimeout
		}

		select {
		case <-time.After(backoff(attempt)):
		case <-ctx.Done():
			return nil, waitErr(ctx)
		}
	}

	return func() {
		// The request context may already be done; release on a fresh one.
		rctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := releaseScript.Run(rctx, r.rdb, []string{key}, token).Err(); err != nil {
			r.log.Warn("booking lock release failed", zap.String("key", key), zap.Error(err))
		}
	}, nil
}
