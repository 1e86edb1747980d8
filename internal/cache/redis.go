// Package cache wraps the façade's optional Redis connectivity check,
// grounded on alert-service's Redis usage (internal/dedup/dedup.go,
// internal/ratelimit/bucket.go): a thin *redis.Client wrapper exposing
// exactly what the caller needs, nothing more.
package cache

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// Client wraps a Redis connection used only for the façade's health
// check; the core reconciliation pipeline (C1-C5) never touches Redis.
type Client struct {
	rdb *redis.Client
}

// New parses redisURL and returns a Client. It does not connect eagerly;
// call Ping to verify connectivity.
func New(redisURL string) (*Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	return &Client{rdb: redis.NewClient(opts)}, nil
}

// Ping verifies the Redis connection is reachable.
func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// Close releases the underlying connection pool.
func (c *Client) Close() error {
	return c.rdb.Close()
}
