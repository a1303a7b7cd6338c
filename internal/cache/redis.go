package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/failsafe-go/failsafe-go"
	"github.com/failsafe-go/failsafe-go/retrypolicy"
	"github.com/redis/go-redis/v9"
)

const (
	redisNamespace = "showregistry:"
	redisOpTimeout = 2 * time.Second
)

func init() {
	Register("redis", newRedisCache)
}

// redisCache stores snapshots in Redis or Valkey so several processes can
// share one server. Every cache owns two keys under its prefix:
//
//   - {prefix}snapshots is a hash of snapshot key to encoded body.
//   - {prefix}written is a sorted set of snapshot key scored by the write
//     time in microseconds.
//
// Snapshots never change once written, so expiry and eviction both go by
// write time: a snapshot older than the TTL reads as a miss, and when the
// cache is over Size the oldest snapshots are dropped first. Both keys carry
// the TTL as well, so an abandoned prefix disappears on its own.
type redisCache struct {
	client  *redis.Client
	keys    []string
	ttl     time.Duration
	size    int
	onEvict EvictCallback
	logger  Logger
}

// fetchSnapshot returns the body of a live snapshot and deletes a stale one.
//
// KEYS: snapshots hash, written set. ARGV: member, cutoff µs.
var fetchSnapshot = redis.NewScript(`
local written = redis.call('ZSCORE', KEYS[2], ARGV[1])
if not written then
    return false
end
if tonumber(written) < tonumber(ARGV[2]) then
    redis.call('ZREM', KEYS[2], ARGV[1])
    redis.call('HDEL', KEYS[1], ARGV[1])
    return false
end
return redis.call('HGET', KEYS[1], ARGV[1])
`)

// storeSnapshot writes a snapshot, drops expired ones and trims the cache to
// its size, oldest first. It returns the dropped members.
//
// KEYS: snapshots hash, written set.
// ARGV: member, body, now µs, cutoff µs, size, ttl ms.
var storeSnapshot = redis.NewScript(`
local dropped = {}

local expired = redis.call('ZRANGEBYSCORE', KEYS[2], '-inf', '(' .. ARGV[4])
for _, member in ipairs(expired) do
    redis.call('HDEL', KEYS[1], member)
    table.insert(dropped, member)
end
if #expired > 0 then
    redis.call('ZREMRANGEBYSCORE', KEYS[2], '-inf', '(' .. ARGV[4])
end

redis.call('HSET', KEYS[1], ARGV[1], ARGV[2])
redis.call('ZADD', KEYS[2], ARGV[3], ARGV[1])

local size = tonumber(ARGV[5])
if size > 0 then
    local overflow = redis.call('ZCARD', KEYS[2]) - size
    if overflow > 0 then
        local oldest = redis.call('ZRANGE', KEYS[2], 0, overflow - 1)
        for _, member in ipairs(oldest) do
            redis.call('HDEL', KEYS[1], member)
            table.insert(dropped, member)
        end
        redis.call('ZREMRANGEBYRANK', KEYS[2], 0, overflow - 1)
    end
end

local ttl = tonumber(ARGV[6])
if ttl > 0 then
    redis.call('PEXPIRE', KEYS[1], ttl)
    redis.call('PEXPIRE', KEYS[2], ttl)
end
return dropped
`)

func newRedisCache(cfg ProviderConfig) (Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	// Redis may still be starting when the service comes up.
	retry := retrypolicy.NewBuilder[any]().
		WithMaxRetries(cfg.Redis.ConnectRetries).
		WithBackoff(200*time.Millisecond, 2*time.Second).
		ReturnLastFailure().
		Build()
	err := failsafe.With[any](retry).Run(func() error {
		ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
		defer cancel()
		return client.Ping(ctx).Err()
	})
	if err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	prefix := redisNamespace + cfg.KeyPrefix
	return &redisCache{
		client:  client,
		keys:    []string{prefix + "snapshots", prefix + "written"},
		ttl:     cfg.TTL,
		size:    cfg.Size,
		onEvict: cfg.OnEvict,
		logger:  cfg.Logger,
	}, nil
}

func (r *redisCache) report(msg string, err error) {
	if r.logger != nil {
		r.logger.Error(msg, err)
	}
}

// cutoff is the oldest write time, in µs, that is still live.
func (r *redisCache) cutoff(now time.Time) int64 {
	if r.ttl <= 0 {
		return 0
	}
	return now.Add(-r.ttl).UnixMicro()
}

func (r *redisCache) Get(key string) ([]byte, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	body, err := fetchSnapshot.Run(ctx, r.client, r.keys, key, r.cutoff(time.Now())).Text()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.report("redis cache get failed", err)
		}
		return nil, false
	}
	return []byte(body), true
}

func (r *redisCache) Set(key string, value []byte) {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	now := time.Now()
	dropped, err := storeSnapshot.Run(ctx, r.client, r.keys,
		key,
		value,
		now.UnixMicro(),
		r.cutoff(now),
		r.size,
		r.ttl.Milliseconds(),
	).StringSlice()
	if err != nil {
		r.report("redis cache set failed", err)
		return
	}

	if r.onEvict == nil {
		return
	}
	for _, member := range dropped {
		if member != key {
			r.onEvict(member, nil)
		}
	}
}

func (r *redisCache) Contains(key string) bool {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	written, err := r.client.ZScore(ctx, r.keys[1], key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.report("redis cache contains failed", err)
		}
		return false
	}
	return int64(written) >= r.cutoff(time.Now())
}

func (r *redisCache) Len() int {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	n, err := r.client.ZCount(ctx, r.keys[1], strconv.FormatInt(r.cutoff(time.Now()), 10), "+inf").Result()
	if err != nil {
		r.report("redis cache len failed", err)
		return 0
	}
	return int(n)
}

func (r *redisCache) Close() error {
	return r.client.Close()
}
