package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Redis keeps entries in a shared Redis so every instance behind the load
// balancer sees the same cached aggregates. Values are stored as JSON and
// come back from Get as []byte; Fetch decodes them into the caller's type.
//
// Redis errors are logged and treated as misses so a cache outage only costs
// extra backend reads.
type Redis struct {
	rdb    *redis.Client
	prefix string
	log    *zap.Logger
}

// NewRedis wraps an existing client. Keys are namespaced with prefix+":".
func NewRedis(rdb *redis.Client, prefix string, logger *zap.Logger) *Redis {
	if prefix == "" {
		prefix = "studyhub"
	}
	return &Redis{rdb: rdb, prefix: prefix, log: logger}
}

func (c *Redis) key(k string) string { return c.prefix + ":" + k }

func (c *Redis) Get(ctx context.Context, key string) (any, bool) {
	b, err := c.rdb.Get(ctx, c.key(key)).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		c.log.Warn("cache get failed", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return b, true
}

func (c *Redis) Set(ctx context.Context, key string, value any, ttl time.Duration) {
	b, err := json.Marshal(value)
	if err != nil {
		c.log.Warn("cache encode failed", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.rdb.Set(ctx, c.key(key), b, ttl).Err(); err != nil {
		c.log.Warn("cache set failed", zap.String("key", key), zap.Error(err))
	}
}

func (c *Redis) Clear(ctx context.Context, keys ...string) {
	if len(keys) > 0 {
		full := make([]string, len(keys))
		for i, k := range keys {
			full[i] = c.key(k)
		}
		if err := c.rdb.Del(ctx, full...).Err(); err != nil {
			c.log.Warn("cache clear failed", zap.Strings("keys", keys), zap.Error(err))
		}
		return
	}

	iter := c.rdb.Scan(ctx, 0, c.prefix+":*", clearBatch).Iterator()
	var batch []string
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == clearBatch {
			c.del(ctx, batch)
			batch = batch[:0]
		}
	}
	if len(batch) > 0 {
		c.del(ctx, batch)
	}
	if err := iter.Err(); err != nil {
		c.log.Warn("cache clear-all scan failed", zap.Error(err))
	}
}

// clearBatch is the SCAN page and DEL size for a full clear.
const clearBatch = 500

func (c *Redis) del(ctx context.Context, keys []string) {
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		c.log.Warn("cache clear-all delete failed", zap.Int("keys", len(keys)), zap.Error(err))
	}
}

// Ping checks connectivity for the health endpoint.
func (c *Redis) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}
