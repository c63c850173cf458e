package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	gocache "github.com/patrickmn/go-cache"
	"github.com/piresc/intranet-notify/internal/pkg/constants"
	"github.com/piresc/intranet-notify/internal/pkg/database"
	"github.com/piresc/intranet-notify/internal/pkg/logger"
	"github.com/piresc/intranet-notify/internal/pkg/models"
	"github.com/piresc/intranet-notify/services/notify"
)

// RedisUserCache keeps resolved users in Redis so restarts and peers share them
type RedisUserCache struct {
	redisClient *database.RedisClient
	ttl         time.Duration
}

// NewRedisUserCache creates a Redis backed user cache
func NewRedisUserCache(redisClient *database.RedisClient, ttl time.Duration) *RedisUserCache {
	return &RedisUserCache{redisClient: redisClient, ttl: ttl}
}

// GetUser returns the cached user or nil on a miss
func (c *RedisUserCache) GetUser(ctx context.Context, id string) (*models.User, error) {
	data, err := c.redisClient.Get(ctx, fmt.Sprintf(constants.KeyUserCache, id))
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read cached user: %w", err)
	}

	var user models.User
	if err := json.Unmarshal([]byte(data), &user); err != nil {
		return nil, fmt.Errorf("failed to decode cached user: %w", err)
	}
	return &user, nil
}

// SetUser caches user under id for the configured TTL
func (c *RedisUserCache) SetUser(ctx context.Context, id string, user *models.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to encode user: %w", err)
	}
	return c.redisClient.Set(ctx, fmt.Sprintf(constants.KeyUserCache, id), data, c.ttl)
}

// DeleteUser evicts a cached user
func (c *RedisUserCache) DeleteUser(ctx context.Context, id string) error {
	return c.redisClient.Delete(ctx, fmt.Sprintf(constants.KeyUserCache, id))
}

// MemoryUserCache keeps resolved users in process memory
type MemoryUserCache struct {
	store *gocache.Cache
}

// NewMemoryUserCache creates an in-process user cache
func NewMemoryUserCache(ttl time.Duration) *MemoryUserCache {
	return &MemoryUserCache{store: gocache.New(ttl, 2*ttl)}
}

func (c *MemoryUserCache) GetUser(_ context.Context, id string) (*models.User, error) {
	v, ok := c.store.Get(id)
	if !ok {
		return nil, nil
	}
	user := v.(models.User)
	return &user, nil
}

func (c *MemoryUserCache) SetUser(_ context.Context, id string, user *models.User) error {
	c.store.SetDefault(id, *user)
	return nil
}

func (c *MemoryUserCache) DeleteUser(_ context.Context, id string) error {
	c.store.Delete(id)
	return nil
}

// CachedUserRepo is a read-through cache in front of a UserRepo.
// Cache failures are logged and fall through to the store.
type CachedUserRepo struct {
	repo  notify.UserRepo
	cache notify.UserCache
}

// NewCachedUserRepo wraps repo with cache
func NewCachedUserRepo(repo notify.UserRepo, cache notify.UserCache) *CachedUserRepo {
	return &CachedUserRepo{repo: repo, cache: cache}
}

// FindUserByID serves from the cache, loading and caching on a miss.
// Entries are keyed by the requested id, which the store may normalize differently.
func (r *CachedUserRepo) FindUserByID(ctx context.Context, id string) (*models.User, error) {
	user, err := r.cache.GetUser(ctx, id)
	if err != nil {
		logger.WarnCtx(ctx, "User cache read failed", logger.String("user_id", id), logger.Err(err))
	}
	if user != nil {
		return user, nil
	}

	user, err = r.repo.FindUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.ID == "" {
		user.ID = id
	}

	if err := r.cache.SetUser(ctx, id, user); err != nil {
		logger.WarnCtx(ctx, "User cache write failed", logger.String("user_id", id), logger.Err(err))
	}
	return user, nil
}

// Ping checks the underlying store
func (r *CachedUserRepo) Ping(ctx context.Context) error {
	return r.repo.Ping(ctx)
}
