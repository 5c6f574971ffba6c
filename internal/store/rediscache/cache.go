// Package rediscache is a best-effort Redis cache for raw upstream
// responses. It exists to absorb aggregation re-triggers (toggles, manual
// refreshes) against rate-limited upstreams; a miss or a Redis outage
// simply means the adapter fetches live.
package rediscache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/wrenfield/curator/internal/logger"
)

// KeyPrefixUpstream is the prefix for cached upstream payloads.
const KeyPrefixUpstream = "curator:upstream:"

// Cache wraps a Redis client behind the aggregator's cache contract.
// All errors are swallowed and logged at debug level.
type Cache struct {
	client *redis.Client
	logger logger.Logger
}

// ConnectOptions defines how the cache reaches Redis.
type ConnectOptions struct {
	Addr        string
	User        string
	Password    string
	DB          int
	PingTimeout time.Duration
}

// New dials Redis and verifies the connection with a ping. Unlike the
// subscription store, the cache is optional infrastructure: callers
// should log the error and run uncached rather than exit.
func New(ctx context.Context, opts ConnectOptions, log logger.Logger) (*Cache, error) {
	if opts.PingTimeout <= 0 {
		opts.PingTimeout = 2 * time.Second
	}

	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Username: opts.User,
		Password: opts.Password,
		DB:       opts.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, opts.PingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis at %s: %w", opts.Addr, err)
	}

	log.Info("connected to redis", logger.String("addr", opts.Addr))
	return &Cache{client: client, logger: log}, nil
}

// Get returns the cached payload for the URL, if present.
func (c *Cache) Get(ctx context.Context, url string) ([]byte, bool) {
	payload, err := c.client.Get(ctx, UpstreamKey(url)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Debug("cache get failed", logger.String("url", url), logger.Error(err))
		}
		return nil, false
	}
	return payload, true
}

// Set stores the payload under the URL's key with the given TTL.
func (c *Cache) Set(ctx context.Context, url string, payload []byte, ttl time.Duration) {
	if err := c.client.Set(ctx, UpstreamKey(url), payload, ttl).Err(); err != nil {
		c.logger.Debug("cache set failed", logger.String("url", url), logger.Error(err))
	}
}

// Ping reports whether Redis is reachable. Used by readiness checks.
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close releases the underlying client.
func (c *Cache) Close() error {
	return c.client.Close()
}

// UpstreamKey returns the Redis key for a cached upstream URL. The URL is
// hashed so query strings with embedded API keys never appear in key
// listings.
func UpstreamKey(url string) string {
	sum := sha256.Sum256([]byte(url))
	return KeyPrefixUpstream + hex.EncodeToString(sum[:16])
}
