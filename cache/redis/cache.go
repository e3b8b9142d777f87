package redis

import (
	"bytes"
	"context"
	"errors"
	"io"

	goredis "github.com/redis/go-redis/v9"

	"github.com/kbukum/dataprep/cache"
	apperrors "github.com/kbukum/dataprep/errors"
	"github.com/kbukum/dataprep/logger"
	"github.com/kbukum/dataprep/observability"
)

func init() {
	cache.RegisterFactory(cache.ProviderRedis, func(cfg cache.Config, log *logger.Logger) (cache.ContentCache, error) {
		client, err := NewClient(cfg.Redis, log)
		if err != nil {
			return nil, err
		}
		return New(client, cfg, log), nil
	})
}

// Cache stores entries as Redis strings; the policy duration becomes the
// key expiration.
type Cache struct {
	client *Client
	cfg    cache.Config
	log    *logger.Logger
}

// New creates a content cache on top of client.
func New(client *Client, cfg cache.Config, log *logger.Logger) *Cache {
	cfg.ApplyDefaults()
	return &Cache{client: client, cfg: cfg, log: log}
}

func (c *Cache) key(k cache.Key) string {
	return c.cfg.KeyPrefix + k.Key()
}

// Put implements cache.ContentCache.
func (c *Cache) Put(ctx context.Context, key cache.Key, ttl cache.TimeToLive) (io.WriteCloser, error) {
	k := c.key(key)
	expiration := c.cfg.Duration(ttl)
	return cache.NewCommitWriter(func(data []byte) error {
		if err := c.client.rdb.Set(ctx, k, data, expiration).Err(); err != nil {
			return apperrors.Cache(k, err)
		}
		c.log.Debug("cache entry stored", logger.Fields(logger.FieldKey, k, "ttl", ttl.String()))
		return nil
	}), nil
}

// Get implements cache.ContentCache.
func (c *Cache) Get(ctx context.Context, key cache.Key) (io.ReadCloser, error) {
	k := c.key(key)
	data, err := c.client.rdb.Get(ctx, k).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, apperrors.NotFound("cache entry", key.Key())
	}
	if err != nil {
		return nil, apperrors.Cache(k, err)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

// Has implements cache.ContentCache.
func (c *Cache) Has(ctx context.Context, key cache.Key) bool {
	n, err := c.client.rdb.Exists(ctx, c.key(key)).Result()
	if err != nil {
		c.log.Warn("cache lookup failed", logger.ErrorFields("exists", err))
		return false
	}
	return n > 0
}

// Evict implements cache.ContentCache.
func (c *Cache) Evict(ctx context.Context, key cache.Key) error {
	k := c.key(key)
	if err := c.client.rdb.Del(ctx, k).Err(); err != nil {
		return apperrors.Cache(k, err)
	}
	return nil
}

// Close closes the underlying client.
func (c *Cache) Close() error { return c.client.Close() }

// CheckHealth pings the server.
func (c *Cache) CheckHealth(ctx context.Context) observability.Health {
	h := observability.Health{
		Name:    "cache",
		Status:  observability.HealthStatusUp,
		Details: map[string]string{"provider": cache.ProviderRedis},
	}
	if err := c.client.Ping(ctx); err != nil {
		h.Status = observability.HealthStatusDown
		h.Message = err.Error()
	}
	return h
}

var (
	_ cache.ContentCache          = (*Cache)(nil)
	_ observability.HealthChecker = (*Cache)(nil)
)
