// Package file provides a content cache stored in a local directory.
//
// Each entry is a data file plus an ".expires" side file holding the
// expiration instant as Unix nanoseconds.
package file

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/kbukum/dataprep/cache"
	apperrors "github.com/kbukum/dataprep/errors"
	"github.com/kbukum/dataprep/logger"
)

func init() {
	cache.RegisterFactory(cache.ProviderFile, func(cfg cache.Config, log *logger.Logger) (cache.ContentCache, error) {
		return New(cfg, log)
	})
}

// Cache implements cache.ContentCache on the local filesystem.
type Cache struct {
	basePath string
	cfg      cache.Config
	now      func() time.Time
	log      *logger.Logger
}

// New creates the base directory and returns the cache.
func New(cfg cache.Config, log *logger.Logger) (*Cache, error) {
	cfg.ApplyDefaults()
	abs, err := filepath.Abs(cfg.BasePath)
	if err != nil {
		return nil, fmt.Errorf("cache: resolve base path: %w", err)
	}
	if err := os.MkdirAll(abs, 0o750); err != nil {
		return nil, fmt.Errorf("cache: create base directory: %w", err)
	}
	return &Cache{basePath: abs, cfg: cfg, now: time.Now, log: log}, nil
}

// WithClock replaces the time source. Used by tests.
func (c *Cache) WithClock(now func() time.Time) *Cache {
	c.now = now
	return c
}

// path maps a key to a file name safe on every filesystem.
func (c *Cache) path(key cache.Key) string {
	k := key.Key()
	sum := sha256.Sum256([]byte(k))
	name := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, k)
	if len(name) > 64 {
		name = name[:64]
	}
	return filepath.Join(c.basePath, name+"-"+hex.EncodeToString(sum[:8]))
}

// Put implements cache.ContentCache. Content is written to a temporary file
// and renamed into place on Close.
func (c *Cache) Put(_ context.Context, key cache.Key, ttl cache.TimeToLive) (io.WriteCloser, error) {
	target := c.path(key)
	f, err := os.CreateTemp(c.basePath, ".entry-*")
	if err != nil {
		return nil, apperrors.Cache(key.Key(), err)
	}
	return &entryWriter{
		f:       f,
		target:  target,
		expires: c.now().Add(c.cfg.Duration(ttl)),
		key:     key.Key(),
	}, nil
}

type entryWriter struct {
	f       *os.File
	target  string
	expires time.Time
	key     string
	closed  bool
}

func (w *entryWriter) Write(p []byte) (int, error) {
	if w.closed {
		return 0, cache.ErrClosed
	}
	return w.f.Write(p)
}

func (w *entryWriter) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	tmp := w.f.Name()
	if err := w.f.Close(); err != nil {
		os.Remove(tmp) //nolint:errcheck // best effort
		return apperrors.Cache(w.key, err)
	}
	expiry := []byte(strconv.FormatInt(w.expires.UnixNano(), 10))
	if err := os.WriteFile(w.target+".expires", expiry, 0o640); err != nil {
		os.Remove(tmp) //nolint:errcheck // best effort
		return apperrors.Cache(w.key, err)
	}
	if err := os.Rename(tmp, w.target); err != nil {
		return apperrors.Cache(w.key, err)
	}
	return nil
}

// Get implements cache.ContentCache.
func (c *Cache) Get(_ context.Context, key cache.Key) (io.ReadCloser, error) {
	p := c.path(key)
	if !c.live(p) {
		return nil, apperrors.NotFound("cache entry", key.Key())
	}
	f, err := os.Open(p)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.NotFound("cache entry", key.Key())
		}
		return nil, apperrors.Cache(key.Key(), err)
	}
	return f, nil
}

// Has implements cache.ContentCache.
func (c *Cache) Has(_ context.Context, key cache.Key) bool {
	p := c.path(key)
	if !c.live(p) {
		return false
	}
	_, err := os.Stat(p)
	return err == nil
}

// Evict implements cache.ContentCache. Missing entries are ignored.
func (c *Cache) Evict(_ context.Context, key cache.Key) error {
	p := c.path(key)
	for _, f := range []string{p, p + ".expires"} {
		if err := os.Remove(f); err != nil && !os.IsNotExist(err) {
			return apperrors.Cache(key.Key(), err)
		}
	}
	return nil
}

// live reads the side file and removes the entry once expired.
func (c *Cache) live(p string) bool {
	raw, err := os.ReadFile(p + ".expires")
	if err != nil {
		return false
	}
	ns, err := strconv.ParseInt(strings.TrimSpace(string(raw)), 10, 64)
	if err != nil || !c.now().Before(time.Unix(0, ns)) {
		for _, f := range []string{p, p + ".expires"} {
			os.Remove(f) //nolint:errcheck // expired
		}
		return false
	}
	return true
}

var _ cache.ContentCache = (*Cache)(nil)
