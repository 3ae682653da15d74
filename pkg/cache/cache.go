// Package cache is a thin Redis wrapper used to mirror dialog sessions so a
// restart does not abandon half-finished admin flows. Redis is strictly
// optional: when the server is absent or unreachable every operation no-ops,
// and the bot runs with in-memory state only.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/powerpointbreak/storebot/config"
)

var rdb *redis.Client

var ctx = context.Background()

// Connect initialises the Redis client and verifies the connection. On error
// the client is left nil so Get/Set/Del degrade to no-ops.
func Connect() error {
	rdb = redis.NewClient(&redis.Options{
		Addr:     config.RedisAddr(),
		Password: config.RedisPassword(),
		DB:       0,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb = nil
		return fmt.Errorf("cache: redis ping: %w", err)
	}
	return nil
}

// Enabled reports whether a Redis connection is live.
func Enabled() bool { return rdb != nil }

// Get unmarshals the value at key into dest. Returns true only on a hit.
func Get(key string, dest interface{}) bool {
	if rdb == nil {
		return false
	}
	val, err := rdb.Get(ctx, "storebot:"+key).Result()
	if err != nil {
		return false
	}
	return json.Unmarshal([]byte(val), dest) == nil
}

// Set stores value under key for ttl. A zero ttl means no expiry.
func Set(key string, value interface{}, ttl time.Duration) error {
	if rdb == nil {
		return nil
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return rdb.Set(ctx, "storebot:"+key, raw, ttl).Err()
}

// Del removes keys. Missing keys are not an error.
func Del(keys ...string) error {
	if rdb == nil {
		return nil
	}
	prefixed := make([]string, len(keys))
	for i, k := range keys {
		prefixed[i] = "storebot:" + k
	}
	return rdb.Del(ctx, prefixed...).Err()
}
