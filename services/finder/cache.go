package finder

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"slotfinder/models"
	"slotfinder/utils"

	"github.com/go-redis/redis/v8"
)

// LocationCache stores upstream location searches by coordinate.
type LocationCache interface {
	Get(ctx context.Context, lat, lng float64) ([]models.Location, bool, error)
	Set(ctx context.Context, lat, lng float64, locations []models.Location) error
}

type RedisLocationCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisLocationCache(client *redis.Client, ttl time.Duration) *RedisLocationCache {
	return &RedisLocationCache{client: client, ttl: ttl}
}

func locationKey(lat, lng float64) string {
	return fmt.Sprintf("%s%v,%v", utils.LocationCachePrefix, lat, lng)
}

func (c *RedisLocationCache) Get(ctx context.Context, lat, lng float64) ([]models.Location, bool, error) {
	val, err := c.client.Get(ctx, locationKey(lat, lng)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var locations []models.Location
	if err := json.Unmarshal(val, &locations); err != nil {
		return nil, false, err
	}
	return locations, true, nil
}

func (c *RedisLocationCache) Set(ctx context.Context, lat, lng float64, locations []models.Location) error {
	data, err := json.Marshal(locations)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, locationKey(lat, lng), data, c.ttl).Err()
}
