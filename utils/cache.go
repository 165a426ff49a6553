package utils

import (
	"CloudStore/internal/dto"
	"CloudStore/internal/repo"
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

type Cache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, key string) error
}

type RedisCache struct {
	client *redis.Client
}

// NewRedisCache creates a Redis cache client.
func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

// Get reads a cached value.
func (c *RedisCache) Get(ctx context.Context, key string, dest interface{}) error {
	val, err := c.client.Get(ctx, key).Result()
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(val), dest)
}

// Set writes a cached value.
func (c *RedisCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, string(data), expiration).Err()
}

// Delete removes a cache entry.
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, key).Err()
}

type CacheManager struct {
	cache Cache
}

var globalCacheManager *CacheManager
var cacheManagerOnce sync.Once

// InitCacheManager initializes the cache manager.
func InitCacheManager() {
	cacheManagerOnce.Do(func() {
		globalCacheManager = &CacheManager{
			cache: NewRedisCache(repo.Redis),
		}
	})
}

// GetCacheManager returns the cache manager.
func GetCacheManager() *CacheManager {
	if globalCacheManager == nil {
		InitCacheManager()
	}
	return globalCacheManager
}

// BuildCacheKey builds a cache key.
func BuildCacheKey(prefix string, params ...interface{}) string {
	key := prefix
	for _, param := range params {
		key += fmt.Sprintf(":%v", param)
	}
	return key
}

const CacheKeyOwnedFiles = "owner:files"

const ownedFilesCacheTTL = 2 * time.Minute

// GetOwnedFilesFromCache reads a cached file listing for an owner.
func GetOwnedFilesFromCache(ctx context.Context, ownerID uint64) ([]dto.FileSummary, bool) {
	manager := GetCacheManager()
	key := BuildCacheKey(CacheKeyOwnedFiles, ownerID)

	var result []dto.FileSummary
	if err := manager.cache.Get(ctx, key, &result); err != nil {
		return nil, false
	}
	return result, true
}

// SetOwnedFilesToCache writes a cached file listing for an owner.
func SetOwnedFilesToCache(ctx context.Context, ownerID uint64, files []dto.FileSummary) error {
	manager := GetCacheManager()
	key := BuildCacheKey(CacheKeyOwnedFiles, ownerID)
	return manager.cache.Set(ctx, key, files, ownedFilesCacheTTL)
}

// InvalidateOwnedFilesCache clears an owner's cached file listing.
func InvalidateOwnedFilesCache(ctx context.Context, ownerID uint64) error {
	manager := GetCacheManager()
	key := BuildCacheKey(CacheKeyOwnedFiles, ownerID)
	return manager.cache.Delete(ctx, key)
}
