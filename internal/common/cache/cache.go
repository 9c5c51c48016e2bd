// internal/common/cache/cache.go
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"investment-assistant/internal/common/config"
	"investment-assistant/internal/common/logger"
	"investment-assistant/internal/common/metrics"
)

// Cache is a best-effort answer cache over Redis. A nil *Cache is a valid
// disabled cache: Get always misses and Set is a no-op. Redis failures are
// logged at debug level and swallowed; answer correctness never depends on
// the cache being reachable.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
	logger logger.Logger
}

// New creates an answer cache, or nil when no address is configured.
func New(cfg config.CacheConfig, log logger.Logger) *Cache {
	if cfg.Address == "" {
		return nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 5,
	})

	return &Cache{
		client: rdb,
		ttl:    config.GetDuration(cfg.TTL),
		logger: log.With(map[string]interface{}{"component": "answer-cache"}),
	}
}

// NewWithClient wraps an existing Redis client; used by tests.
func NewWithClient(client *redis.Client, ttl time.Duration, log logger.Logger) *Cache {
	return &Cache{client: client, ttl: ttl, logger: log}
}

// Get returns a cached answer for the query, if any.
func (c *Cache) Get(ctx context.Context, query string) (string, bool) {
	if c == nil || c.client == nil {
		return "", false
	}

	val, err := c.client.Get(ctx, answerKey(query)).Result()
	if err != nil {
		if err != redis.Nil {
			c.logger.Debug("cache get failed", map[string]interface{}{
				"error": err.Error(),
			})
		}
		return "", false
	}

	metrics.CacheHits.Inc()
	return val, true
}

// Set stores an answer for the query with the configured TTL.
func (c *Cache) Set(ctx context.Context, query, answer string) {
	if c == nil || c.client == nil {
		return
	}

	if err := c.client.Set(ctx, answerKey(query), answer, c.ttl).Err(); err != nil {
		c.logger.Debug("cache set failed", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

// Ping tests the Redis connection.
func (c *Cache) Ping(ctx context.Context) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Ping(ctx).Err()
}

// Close closes the Redis connection.
func (c *Cache) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// answerKey hashes the raw query. Casing is preserved: the classifier's
// ticker-token check is case-sensitive, so differently cased queries are
// distinct cache entries.
func answerKey(query string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(query)))
	return "answer:" + hex.EncodeToString(sum[:])
}
