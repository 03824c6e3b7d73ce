package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/cinema-boxoffice/internal/model"
)

// Cached is a read-through Redis cache in front of another Catalog. Redis
// failures are logged and fall through to the wrapped catalog; not-found
// answers are never cached.
type Cached struct {
	next   Catalog
	rdb    *redis.Client
	ttl    time.Duration
	prefix string
	log    *slog.Logger
}

// NewCached wraps next. With a nil client it returns next unchanged.
func NewCached(next Catalog, rdb *redis.Client, ttl time.Duration, prefix string, log *slog.Logger) Catalog {
	if rdb == nil {
		return next
	}
	if prefix == "" {
		prefix = "catalog"
	}
	return &Cached{next: next, rdb: rdb, ttl: ttl, prefix: prefix, log: log}
}

func (c *Cached) Screening(ctx context.Context, id uint64) (model.Screening, error) {
	key := fmt.Sprintf("%s:screening:%d", c.prefix, id)
	var scr model.Screening
	if c.load(ctx, key, &scr) {
		return scr, nil
	}
	scr, err := c.next.Screening(ctx, id)
	if err != nil {
		return scr, err
	}
	c.store(ctx, key, scr)
	return scr, nil
}

func (c *Cached) Client(ctx context.Context, id uint64) (model.Client, error) {
	key := fmt.Sprintf("%s:client:%d", c.prefix, id)
	var cl model.Client
	if c.load(ctx, key, &cl) {
		return cl, nil
	}
	cl, err := c.next.Client(ctx, id)
	if err != nil {
		return cl, err
	}
	c.store(ctx, key, cl)
	return cl, nil
}

func (c *Cached) load(ctx context.Context, key string, out any) bool {
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.log.Warn("catalog cache read failed", "key", key, "err", err)
		}
		return false
	}
	if err := json.Unmarshal(raw, out); err != nil {
		c.log.Warn("catalog cache entry corrupt", "key", key, "err", err)
		return false
	}
	return true
}

func (c *Cached) store(ctx context.Context, key string, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		c.log.Warn("catalog cache write failed", "key", key, "err", err)
	}
}
