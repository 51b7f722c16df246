package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"skyhub/internal/middleware"
	"skyhub/internal/observability"

	"github.com/redis/go-redis/v9"
)

const (
	UserKeyPrefix  = "user:%d"
	DroneKeyPrefix = "drone:%d"
)

const (
	UserTTL  = 5 * time.Minute
	DroneTTL = 2 * time.Minute
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func DroneKey(droneID uint) string {
	return fmt.Sprintf(DroneKeyPrefix, droneID)
}

func keyFamily(key string) string {
	if i := strings.IndexByte(key, ':'); i > 0 {
		return key[:i]
	}
	return key
}

// GetJSON loads key into dest. It reports false on a miss, a decode failure or
// when caching is disabled.
func GetJSON(ctx context.Context, key string, dest any) bool {
	if client == nil {
		return false
	}
	raw, err := client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			middleware.Logger.WarnContext(ctx, "cache read failed", "key", key, "error", err)
		}
		return false
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		middleware.Logger.WarnContext(ctx, "cache entry undecodable, dropping", "key", key, "error", err)
		Invalidate(ctx, key)
		return false
	}
	return true
}

// SetJSON stores value under key for ttl. Errors are logged, never returned.
func SetJSON(ctx context.Context, key string, value any, ttl time.Duration) {
	if client == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		middleware.Logger.WarnContext(ctx, "cache encode failed", "key", key, "error", err)
		return
	}
	if err := client.Set(ctx, key, raw, ttl).Err(); err != nil {
		middleware.Logger.WarnContext(ctx, "cache write failed", "key", key, "error", err)
	}
}

// Aside fills dest from the cache, or runs fetch (which must populate dest) and
// caches the result. Errors from fetch are returned as-is and nothing is cached.
func Aside(ctx context.Context, key string, dest any, ttl time.Duration, fetch func() error) error {
	family := keyFamily(key)
	if GetJSON(ctx, key, dest) {
		observability.CacheLookups.WithLabelValues(family, "hit").Inc()
		return nil
	}
	observability.CacheLookups.WithLabelValues(family, "miss").Inc()

	if err := fetch(); err != nil {
		return err
	}
	SetJSON(ctx, key, dest, ttl)
	return nil
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}

func InvalidateDrone(ctx context.Context, droneID uint) {
	Invalidate(ctx, DroneKey(droneID))
}
