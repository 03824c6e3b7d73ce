package ledger

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/cinema-boxoffice/internal/errs"
)

// releaseScript deletes the lock key only if it still carries our token,
// so a lock that expired and was re-acquired elsewhere is left alone.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLocker is a Locker shared by every instance pointing at the same
// Redis. Locks are SET NX keys with a TTL so a crashed holder cannot block
// a screening forever.
type RedisLocker struct {
	rdb     *redis.Client
	prefix  string
	timeout time.Duration
	ttl     time.Duration
}

// NewRedisLocker builds a RedisLocker. ttl bounds how long a lock survives
// its holder and must exceed the longest critical section.
func NewRedisLocker(rdb *redis.Client, prefix string, timeout, ttl time.Duration) *RedisLocker {
	if prefix == "" {
		prefix = "lock:screening"
	}
	return &RedisLocker{rdb: rdb, prefix: prefix, timeout: timeout, ttl: ttl}
}

func (l *RedisLocker) key(screeningID uint64) string {
	return fmt.Sprintf("%s:%d", l.prefix, screeningID)
}

// Lock retries SET NX with exponential backoff from 5ms up to 100ms until
// the timeout elapses.
func (l *RedisLocker) Lock(ctx context.Context, screeningID uint64) (func(), error) {
	key := l.key(screeningID)
	token := uuid.NewString()
	deadline := time.Now().Add(l.timeout)
	backoff := 5 * time.Millisecond
	for {
		ok, err := l.rdb.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			return nil, errs.Wrap(err, "acquire screening lock")
		}
		if ok {
			var once sync.Once
			return func() {
				once.Do(func() {
					rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), time.Second)
					defer cancel()
					_ = releaseScript.Run(rctx, l.rdb, []string{key}, token).Err()
				})
			}, nil
		}
		wait := time.Until(deadline)
		if wait <= 0 {
			return nil, ErrLockTimeout
		}
		if backoff < wait {
			wait = backoff
		}
		t := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			t.Stop()
			return nil, ctx.Err()
		case <-t.C:
		}
		if backoff < 100*time.Millisecond {
			backoff *= 2
		}
	}
}
