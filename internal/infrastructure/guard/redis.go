package guard

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ololchike/tourpay/internal/domain"
)

const keyPrefix = "webhook_seen:"

// RedisGuard shares the de-duplication window across processes using SETNX
// with a TTL. Still best-effort: callers proceed when Redis is unreachable.
type RedisGuard struct {
	client *redis.Client
	window time.Duration
}

func NewRedisGuard(client *redis.Client, window time.Duration) domain.IdempotencyGuard {
	return &RedisGuard{client: client, window: window}
}

func (g *RedisGuard) TryBegin(ctx context.Context, key string) (bool, error) {
	return g.client.SetNX(ctx, keyPrefix+key, "1", g.window).Result()
}
