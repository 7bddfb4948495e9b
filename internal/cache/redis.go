package cache

import (
	"context"
	"fmt"

	"go_attendance/internal/config"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

// Connect opens a Redis connection. Redis is optional infrastructure here
// (login rate limiter, logout denylist); with no address configured it
// returns (nil, nil) and both features run disabled.
func Connect(cfg config.RedisConfig) (*redis.Client, error) {
	if cfg.Addr == "" {
		logrus.Warn("redis not configured, login rate limiting and logout revocation disabled")
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logrus.WithField("addr", cfg.Addr).Info("redis connected")
	return client, nil
}

// Close closes the Redis connection
func Close(client *redis.Client) error {
	if client != nil {
		return client.Close()
	}
	return nil
}
