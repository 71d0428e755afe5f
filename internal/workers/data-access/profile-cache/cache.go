// Package profilecache puts a Redis cache-aside layer in front of the
// profile and group store. Cache failures fall through to the store.
package profilecache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"dining-search/internal/common/logger"
	"dining-search/internal/models"
)

const (
	Component = "profile-cache"
)

// Source is the store being cached.
type Source interface {
	GetProfile(ctx context.Context, userID string) (*models.MemberPreferences, error)
	GetGroup(ctx context.Context, nameOrID string) (*models.Group, error)
	ListGroupsForUser(ctx context.Context, userID string) ([]models.GroupSummary, error)
}

type Cache struct {
	config *Config
	source Source
	redis  *redis.Client
	logger logger.Logger
}

func New(config *Config, source Source, redisClient *redis.Client, log logger.Logger) *Cache {
	if config == nil {
		config = LoadConfig()
	}
	return &Cache{
		config: config,
		source: source,
		redis:  redisClient,
		logger: logger.Component(log, Component),
	}
}

func (c *Cache) GetProfile(ctx context.Context, userID string) (*models.MemberPreferences, error) {
	key := c.key("profile", userID)

	var cached models.MemberPreferences
	if c.lookup(ctx, key, &cached) {
		return &cached, nil
	}

	profile, err := c.source.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	c.store(ctx, key, profile, c.config.ProfileTTL)
	return profile, nil
}

func (c *Cache) GetGroup(ctx context.Context, nameOrID string) (*models.Group, error) {
	key := c.key("group", strings.ToLower(nameOrID))

	var cached models.Group
	if c.lookup(ctx, key, &cached) {
		return &cached, nil
	}

	group, err := c.source.GetGroup(ctx, nameOrID)
	if err != nil {
		return nil, err
	}
	c.store(ctx, key, group, c.config.GroupTTL)
	return group, nil
}

func (c *Cache) ListGroupsForUser(ctx context.Context, userID string) ([]models.GroupSummary, error) {
	key := c.key("user_groups", userID)

	var cached []models.GroupSummary
	if c.lookup(ctx, key, &cached) {
		return cached, nil
	}

	groups, err := c.source.ListGroupsForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	c.store(ctx, key, groups, c.config.GroupTTL)
	return groups, nil
}

// Invalidate drops the cached profile and group list for a user.
func (c *Cache) Invalidate(ctx context.Context, userID string) error {
	return c.redis.Del(ctx, c.key("profile", userID), c.key("user_groups", userID)).Err()
}

func (c *Cache) key(kind, id string) string {
	return fmt.Sprintf("%s:%s:%s", c.config.KeyPrefix, kind, id)
}

func (c *Cache) lookup(ctx context.Context, key string, dst interface{}) bool {
	val, err := c.redis.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("cache read failed", map[string]interface{}{
				"key":   key,
				"error": err.Error(),
			})
		}
		return false
	}
	if err := json.Unmarshal([]byte(val), dst); err != nil {
		c.logger.Warn("discarding corrupt cache entry", map[string]interface{}{
			"key": key,
		})
		return false
	}
	return true
}

func (c *Cache) store(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := c.redis.Set(ctx, key, data, ttl).Err(); err != nil {
		c.logger.Warn("cache write failed", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
	}
}
