package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Dilyara077/practice-task/pkg/config"
)

const connectTimeout = 2 * time.Second

// RedisClient owns the shared go-redis pool behind the document cache.
type RedisClient struct {
	client *redis.Client
}

// NewRedisClient dials REDIS_URL and pings it before returning, so a
// misconfigured cache stops startup instead of failing the first request.
func NewRedisClient(ctx context.Context, cfg *config.Config) (*RedisClient, error) {
	opts, err := clientOptions(cfg)
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return &RedisClient{client: rdb}, nil
}

// clientOptions parses the URL and applies pool limits sized for short
// GET/SET/DEL calls. Cache misses fall through to storage, so timeouts
// stay well under the request deadline and commands are retried only once.
func clientOptions(cfg *config.Config) (*redis.Options, error) {
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}
	opts.ClientName = cfg.ServiceName
	opts.PoolSize = 10
	opts.MinIdleConns = 2
	opts.MaxRetries = 1
	opts.DialTimeout = 3 * time.Second
	opts.ReadTimeout = 500 * time.Millisecond
	opts.WriteTimeout = 500 * time.Millisecond
	opts.PoolTimeout = time.Second
	return opts, nil
}

// WrapClient adopts an already configured client without pinging it.
func WrapClient(rdb *redis.Client) *RedisClient {
	return &RedisClient{client: rdb}
}

// Ping reports whether Redis answers; used by /health.
func (r *RedisClient) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}

func (r *RedisClient) Close() error {
	if r.client == nil {
		return nil
	}
	if err := r.client.Close(); err != nil {
		return fmt.Errorf("redis close: %w", err)
	}
	return nil
}

// Client exposes the underlying pool to DocumentCache.
func (r *RedisClient) Client() *redis.Client {
	return r.client
}
