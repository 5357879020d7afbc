package database

import (
	"context"

	"github.com/go-redis/redis/v8"

	"prfaq-backend/config"
)

// ConnectRedis dials the cache. A nil client is a valid argument everywhere a
// *redis.Client is accepted; callers that cannot reach Redis may run without
// the cache.
func ConnectRedis(cfg *config.Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisFullAddr(),
		Password: cfg.RedisPassword,
		DB:       0, // use default DB
	})

	if _, err := client.Ping(context.Background()).Result(); err != nil {
		return nil, err
	}
	return client, nil
}
