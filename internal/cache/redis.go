// Package cache keeps recently tracked packages in Redis so public tracking
// lookups do not hit the database on every poll.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"track_swiftly/internal/config"
	"track_swiftly/internal/models"
)

// ErrMiss is returned by Get when the key is absent or the cache is disabled.
var ErrMiss = errors.New("cache miss")

// RedisCache provides caching using Redis. A disabled cache misses on every
// read and ignores writes.
type RedisCache struct {
	client  *redis.Client
	enabled bool
	ttl     time.Duration
}

// NewRedisCache connects to Redis when cfg.Enabled is set.
func NewRedisCache(cfg config.RedisConfig) (*RedisCache, error) {
	if !cfg.Enabled {
		return &RedisCache{enabled: false}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := client.Ping(ctx).Result(); err != nil {
		return nil, errors.Wrap(err, "failed to connect to Redis")
	}

	return &RedisCache{client: client, enabled: true, ttl: cfg.TTL}, nil
}

// Disabled returns a cache that never stores anything.
func Disabled() *RedisCache {
	return &RedisCache{enabled: false}
}

func (c *RedisCache) Enabled() bool { return c.enabled }

// Get decodes the cached value for key into value.
func (c *RedisCache) Get(ctx context.Context, key string, value interface{}) error {
	if !c.enabled {
		return ErrMiss
	}
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return ErrMiss
		}
		return errors.Wrap(err, "failed to get value from Redis")
	}
	if err := json.Unmarshal(data, value); err != nil {
		return errors.Wrap(err, "failed to unmarshal cached value")
	}
	return nil
}

// Set stores value under key for the configured TTL.
func (c *RedisCache) Set(ctx context.Context, key string, value interface{}) error {
	if !c.enabled {
		return nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return errors.Wrap(err, "failed to marshal value for caching")
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return errors.Wrap(err, "failed to set value in Redis")
	}
	return nil
}

// SetIfAbsent stores value under key only when the key does not exist yet.
// It reports whether the value was written.
func (c *RedisCache) SetIfAbsent(ctx context.Context, key string, value interface{}) (bool, error) {
	if !c.enabled {
		return false, nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return false, errors.Wrap(err, "failed to marshal value for caching")
	}
	ok, err := c.client.SetNX(ctx, key, data, c.ttl).Result()
	if err != nil {
		return false, errors.Wrap(err, "failed to set value in Redis")
	}
	return ok, nil
}

func (c *RedisCache) Delete(ctx context.Context, key string) error {
	if !c.enabled {
		return nil
	}
	if err := c.client.Del(ctx, key).Err(); err != nil {
		return errors.Wrap(err, "failed to delete value from Redis")
	}
	return nil
}

func (c *RedisCache) Close() error {
	if !c.enabled || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// TrackingKey is the cache key of a package looked up by tracking number.
func TrackingKey(trackingNumber string) string {
	return fmt.Sprintf("tracking:%s", trackingNumber)
}

// TrackingCache adapts RedisCache to package lookups. Redis failures are
// logged and treated as misses so tracking keeps working without Redis.
type TrackingCache struct {
	store *RedisCache
}

func NewTrackingCache(store *RedisCache) *TrackingCache {
	return &TrackingCache{store: store}
}

func (t *TrackingCache) Package(ctx context.Context, trackingNumber string) (*models.Package, bool) {
	var pkg models.Package
	err := t.store.Get(ctx, TrackingKey(trackingNumber), &pkg)
	if err != nil {
		if !errors.Is(err, ErrMiss) {
			logrus.WithError(err).WithField("tracking_number", trackingNumber).Warn("tracking cache read failed")
		}
		return nil, false
	}
	return &pkg, true
}

// Fill caches a package read from the database unless an entry already
// exists. A concurrent status update may have stored a newer row meanwhile.
func (t *TrackingCache) Fill(ctx context.Context, pkg *models.Package) {
	if _, err := t.store.SetIfAbsent(ctx, TrackingKey(pkg.TrackingNumber), pkg); err != nil {
		logrus.WithError(err).WithField("tracking_number", pkg.TrackingNumber).Warn("tracking cache write failed")
	}
}

// Store overwrites the cached entry with a freshly committed row. If the
// write fails the entry is dropped so no older row survives.
func (t *TrackingCache) Store(ctx context.Context, pkg *models.Package) {
	if err := t.store.Set(ctx, TrackingKey(pkg.TrackingNumber), pkg); err != nil {
		logrus.WithError(err).WithField("tracking_number", pkg.TrackingNumber).Warn("tracking cache write failed")
		t.Forget(ctx, pkg.TrackingNumber)
	}
}

func (t *TrackingCache) Forget(ctx context.Context, trackingNumber string) {
	if err := t.store.Delete(ctx, TrackingKey(trackingNumber)); err != nil {
		logrus.WithError(err).WithField("tracking_number", trackingNumber).Warn("tracking cache invalidation failed")
	}
}
