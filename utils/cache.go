// File: utils/cache.go
package utils

import (
	"context"
	"fmt"

	"slotfinder/config"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

var (
	// CacheClient caches upstream location searches.
	CacheClient *redis.Client
	// SessionCacheClient stores search page sessions.
	SessionCacheClient *redis.Client
)

// NewRedisClient connects to Redis and verifies the connection with a ping.
func NewRedisClient(addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	ctx, cancel := context.WithTimeout(context.Background(), RedisPingTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s db=%d: %w", addr, db, err)
	}
	return client, nil
}

// InitCache initializes both Redis clients when caching is enabled. When it is
// disabled the clients stay nil and callers fall back to in-memory state.
func InitCache() error {
	if !config.AppConfig.CacheEnabled {
		GetLogger().Info("Redis cache disabled")
		return nil
	}
	var err error
	CacheClient, err = NewRedisClient(config.AppConfig.RedisAddr, config.AppConfig.RedisPassword, config.AppConfig.RedisCacheDB)
	if err != nil {
		return fmt.Errorf("cache: %w", err)
	}
	SessionCacheClient, err = NewRedisClient(config.AppConfig.RedisAddr, config.AppConfig.RedisPassword, config.AppConfig.RedisSessionDB)
	if err != nil {
		return fmt.Errorf("session cache: %w", err)
	}
	GetLogger().Info("Redis cache connected", zap.String("addr", config.AppConfig.RedisAddr))
	return nil
}

// RedisClients returns the initialized clients, skipping nil ones.
func RedisClients() []*redis.Client {
	var clients []*redis.Client
	for _, c := range []*redis.Client{CacheClient, SessionCacheClient} {
		if c != nil {
			clients = append(clients, c)
		}
	}
	return clients
}
