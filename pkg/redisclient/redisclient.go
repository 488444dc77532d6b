// Package redisclient holds the small Redis wrapper the read path uses
// as a response cache. The indexer itself never touches Redis.
package redisclient

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/crushack/Reddit-Indexer/pkg/metrics"
)

type Client struct {
	rdb *redis.Client
}

// New constructs a Client with sensible pool defaults.
func New(redisURL string) (*Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	opt.PoolSize = 20
	opt.MinIdleConns = 5
	opt.MaxRetries = 3
	opt.DialTimeout = 5 * time.Second
	opt.ReadTimeout = 3 * time.Second
	opt.WriteTimeout = 3 * time.Second
	opt.IdleTimeout = 5 * time.Minute
	return &Client{rdb: redis.NewClient(opt)}, nil
}

func (c *Client) Ping(ctx context.Context) error {
	return c.withMetrics("ping", func() error {
		return c.rdb.Ping(ctx).Err()
	})
}

// Get returns the cached payload for key, or nil on a miss.
func (c *Client) Get(ctx context.Context, key string) ([]byte, error) {
	var payload []byte
	err := c.withMetrics("get", func() error {
		data, err := c.rdb.Get(ctx, key).Bytes()
		if err == redis.Nil {
			return nil
		}
		if err != nil {
			return err
		}
		payload = data
		return nil
	})
	return payload, err
}

// Set stores payload under key for ttl.
func (c *Client) Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error {
	return c.withMetrics("set", func() error {
		return c.rdb.Set(ctx, key, payload, ttl).Err()
	})
}

func (c *Client) Close() error {
	return c.rdb.Close()
}

// withMetrics wraps operations with metrics collection
func (c *Client) withMetrics(operation string, fn func() error) error {
	start := time.Now()
	err := fn()
	metrics.RedisOperationDuration.
		WithLabelValues(operation, metrics.Status(err)).
		Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.RedisErrors.WithLabelValues(operation).Inc()
	}
	return err
}
