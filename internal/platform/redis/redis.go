// Package redis dials the Redis instance backing the product cache and the
// admin session store.
package redis

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// Connect initializes a client from a redis:// URL or a bare host:port and
// verifies it answers PING.
func Connect(ctx context.Context, redisURL string) (*goredis.Client, error) {
	redisURL = strings.TrimSpace(redisURL)
	if redisURL == "" {
		return nil, fmt.Errorf("redis url is empty")
	}
	var client *goredis.Client
	if strings.HasPrefix(redisURL, "redis://") || strings.HasPrefix(redisURL, "rediss://") {
		opt, err := goredis.ParseURL(redisURL)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		client = goredis.NewClient(opt)
	} else {
		client = goredis.NewClient(&goredis.Options{Addr: redisURL})
	}
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

// ConnectOrNil returns nil when REDIS_URL is unset or unreachable.
func ConnectOrNil(ctx context.Context, redisURL string, logger *slog.Logger) (*goredis.Client, func()) {
	if strings.TrimSpace(redisURL) == "" {
		return nil, func() {}
	}
	client, err := Connect(ctx, redisURL)
	if err != nil {
		if logger != nil {
			logger.Warn("failed to connect to redis, using in-process cache and sessions", slog.String("error", err.Error()))
		}
		return nil, func() {}
	}
	if logger != nil {
		logger.Info("redis connection established")
	}
	return client, func() { _ = client.Close() }
}
