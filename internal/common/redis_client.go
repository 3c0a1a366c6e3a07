package common

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"travel-log/globetrotter/internal/config"
	"travel-log/globetrotter/internal/logging"
)

func NewRedisClient(cfg config.Redis) *redis.Client {
	addr := cfg.Addr()
	logging.Info("[Redis] Initializing Redis client", "addr", addr)

	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     cfg.Password,
		DB:           0,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		// the pool keeps retrying, so a cold Redis is not fatal
		logging.Error("[Redis] Failed to ping Redis", "error", err)
		return client
	}

	logging.Info("[Redis] Successfully connected to Redis")
	return client
}
