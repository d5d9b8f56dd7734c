package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	redisKeyPrefix = "auth-api:ratelimit:"
	redisTimeout   = 250 * time.Millisecond
)

// hitScript increments the counter and, when the key carries no expiry,
// starts its window. Both happen in one server-side step, so a counter can
// never be left without a TTL.
var hitScript = redis.NewScript(`
local hits = redis.call("INCR", KEYS[1])
local ttl = redis.call("PTTL", KEYS[1])
if ttl < 0 then
	redis.call("PEXPIRE", KEYS[1], ARGV[1])
	ttl = tonumber(ARGV[1])
end
return {hits, ttl}
`)

type redisCounter struct {
	client *redis.Client
}

// NewRedis returns a limiter whose counters live in Redis, so every replica
// of the service shares them. Redis failures let the request through.
func NewRedis(ctx context.Context, logger *zerolog.Logger, addr, password string, db int) (Limiter, error) {
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	return &limiter{
		counter: &redisCounter{client: client},
		logger:  logger,
		now:     time.Now,
	}, nil
}

func (c *redisCounter) hit(ctx context.Context, key string, span time.Duration) (int64, time.Duration, error) {
	ctx, cancel := context.WithTimeout(ctx, redisTimeout)
	defer cancel()

	reply, err := hitScript.Run(ctx, c.client, []string{redisKeyPrefix + key}, span.Milliseconds()).Int64Slice()
	if err != nil {
		return 0, 0, err
	}
	if len(reply) != 2 {
		return 0, 0, fmt.Errorf("unexpected rate limit reply %v", reply)
	}

	return reply[0], time.Duration(reply[1]) * time.Millisecond, nil
}

func (c *redisCounter) close() error {
	return c.client.Close()
}
