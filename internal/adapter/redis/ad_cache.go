package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"avtobot/internal/domain/entity"
	"avtobot/internal/repository"
)

const adKeyPrefix = "ad:"

type adCache struct {
	client *redis.Client
}

func NewAdCache(client *redis.Client) repository.AdCache {
	return &adCache{client: client}
}

func adKey(id int64) string {
	return adKeyPrefix + strconv.FormatInt(id, 10)
}

// Get returns (nil, nil) on a cache miss.
func (c *adCache) Get(ctx context.Context, id int64) (*entity.Ad, error) {
	data, err := c.client.Get(ctx, adKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read ad %d from cache: %w", id, err)
	}
	var ad entity.Ad
	if err := json.Unmarshal(data, &ad); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached ad %d: %w", id, err)
	}
	return &ad, nil
}

func (c *adCache) Set(ctx context.Context, ad *entity.Ad, ttl time.Duration) error {
	data, err := json.Marshal(ad)
	if err != nil {
		return fmt.Errorf("failed to marshal ad %d: %w", ad.ID, err)
	}
	if err := c.client.Set(ctx, adKey(ad.ID), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache ad %d: %w", ad.ID, err)
	}
	return nil
}

func (c *adCache) Delete(ctx context.Context, id int64) error {
	if err := c.client.Del(ctx, adKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to evict ad %d: %w", id, err)
	}
	return nil
}
