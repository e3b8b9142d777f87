// Package memory provides an in-process content cache.
package memory

import (
	"bytes"
	"context"
	"io"
	"sync"
	"time"

	"github.com/kbukum/dataprep/cache"
	apperrors "github.com/kbukum/dataprep/errors"
	"github.com/kbukum/dataprep/logger"
)

func init() {
	cache.RegisterFactory(cache.ProviderMemory, func(cfg cache.Config, log *logger.Logger) (cache.ContentCache, error) {
		return New(cfg, log), nil
	})
}

type entry struct {
	data    []byte
	expires time.Time
}

// Cache is a map-backed ContentCache with lazy expiry.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry
	cfg     cache.Config
	now     func() time.Time
	log     *logger.Logger
}

// New creates an empty in-memory cache.
func New(cfg cache.Config, log *logger.Logger) *Cache {
	cfg.ApplyDefaults()
	return &Cache{
		entries: make(map[string]entry),
		cfg:     cfg,
		now:     time.Now,
		log:     log,
	}
}

// WithClock replaces the time source. Used by tests.
func (c *Cache) WithClock(now func() time.Time) *Cache {
	c.now = now
	return c
}

// Put implements cache.ContentCache.
func (c *Cache) Put(_ context.Context, key cache.Key, ttl cache.TimeToLive) (io.WriteCloser, error) {
	k := key.Key()
	d := c.cfg.Duration(ttl)
	return cache.NewCommitWriter(func(data []byte) error {
		c.mu.Lock()
		c.entries[k] = entry{data: data, expires: c.now().Add(d)}
		c.mu.Unlock()
		c.log.Debug("cache entry stored", logger.Fields(logger.FieldKey, k, "ttl", ttl.String()))
		return nil
	}), nil
}

// Get implements cache.ContentCache.
func (c *Cache) Get(_ context.Context, key cache.Key) (io.ReadCloser, error) {
	e, ok := c.lookup(key.Key())
	if !ok {
		return nil, apperrors.NotFound("cache entry", key.Key())
	}
	return io.NopCloser(bytes.NewReader(e.data)), nil
}

// Has implements cache.ContentCache.
func (c *Cache) Has(_ context.Context, key cache.Key) bool {
	_, ok := c.lookup(key.Key())
	return ok
}

// Evict implements cache.ContentCache.
func (c *Cache) Evict(_ context.Context, key cache.Key) error {
	c.mu.Lock()
	delete(c.entries, key.Key())
	c.mu.Unlock()
	return nil
}

// Len returns the number of stored entries, expired ones included.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *Cache) lookup(k string) (entry, bool) {
	c.mu.RLock()
	e, ok := c.entries[k]
	c.mu.RUnlock()
	if !ok {
		return entry{}, false
	}
	if !c.now().Before(e.expires) {
		c.dropExpired(k)
		return entry{}, false
	}
	return e, true
}

// dropExpired deletes k unless a Put replaced it with a live entry since it
// was read.
func (c *Cache) dropExpired(k string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[k]; ok && !c.now().Before(e.expires) {
		delete(c.entries, k)
	}
}

var _ cache.ContentCache = (*Cache)(nil)
