package cache

import (
	"fmt"
	"sync"

	"github.com/kbukum/dataprep/logger"
)

// Factory creates a ContentCache from configuration.
type Factory func(cfg Config, log *logger.Logger) (ContentCache, error)

var (
	factoriesMu sync.RWMutex
	factories   = make(map[string]Factory)
)

// RegisterFactory registers a cache backend factory for the given provider
// name. Backend packages call this from an init function.
func RegisterFactory(name string, f Factory) {
	factoriesMu.Lock()
	defer factoriesMu.Unlock()
	factories[name] = f
}

// New creates the ContentCache selected by cfg.Provider. The backend package
// must have been imported so its factory is registered.
func New(cfg Config, log *logger.Logger) (ContentCache, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	factoriesMu.RLock()
	f, ok := factories[cfg.Provider]
	factoriesMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("cache: unsupported provider %q (not registered)", cfg.Provider)
	}

	l := log.WithComponent("cache")
	l.Info("initializing content cache", map[string]interface{}{"provider": cfg.Provider})
	return f(cfg, l)
}
