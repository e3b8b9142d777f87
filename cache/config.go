package cache

import (
	"fmt"
	"time"
)

// Provider constants for supported cache backends.
const (
	ProviderMemory = "memory"
	ProviderRedis  = "redis"
	ProviderFile   = "file"
)

// Default configuration values.
const (
	DefaultProvider  = ProviderMemory
	DefaultTTL       = "1h"
	DefaultShortTTL  = "1m"
	DefaultLongTTL   = "24h"
	DefaultImmediate = "1s"
	DefaultBasePath  = "/tmp/dataprep/cache"
	DefaultKeyPrefix = "dataprep:"
)

// TTLConfig maps expiration policies to durations.
type TTLConfig struct {
	Default   string `yaml:"default" mapstructure:"default"`
	Short     string `yaml:"short" mapstructure:"short"`
	Long      string `yaml:"long" mapstructure:"long"`
	Immediate string `yaml:"immediate" mapstructure:"immediate"`
}

// RedisConfig holds the connection settings of the redis backend.
type RedisConfig struct {
	Addr         string `yaml:"addr" mapstructure:"addr"`
	Password     string `yaml:"password" mapstructure:"password"`
	DB           int    `yaml:"db" mapstructure:"db"`
	PoolSize     int    `yaml:"pool_size" mapstructure:"pool_size"`
	MinIdleConns int    `yaml:"min_idle_conns" mapstructure:"min_idle_conns"`
	MaxRetries   int    `yaml:"max_retries" mapstructure:"max_retries"`
	DialTimeout  string `yaml:"dial_timeout" mapstructure:"dial_timeout"`
	ReadTimeout  string `yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout string `yaml:"write_timeout" mapstructure:"write_timeout"`
}

// Config holds content cache configuration.
type Config struct {
	// Provider selects the backend: "memory", "redis" or "file".
	Provider string `yaml:"provider" mapstructure:"provider"`

	// KeyPrefix is prepended to every key by shared backends.
	KeyPrefix string `yaml:"key_prefix" mapstructure:"key_prefix"`

	// BasePath is the root directory of the file backend.
	BasePath string `yaml:"base_path" mapstructure:"base_path"`

	TTL   TTLConfig   `yaml:"ttl" mapstructure:"ttl"`
	Redis RedisConfig `yaml:"redis" mapstructure:"redis"`
}

// ApplyDefaults fills in zero-valued fields with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.Provider == "" {
		c.Provider = DefaultProvider
	}
	if c.KeyPrefix == "" {
		c.KeyPrefix = DefaultKeyPrefix
	}
	if c.BasePath == "" {
		c.BasePath = DefaultBasePath
	}
	if c.TTL.Default == "" {
		c.TTL.Default = DefaultTTL
	}
	if c.TTL.Short == "" {
		c.TTL.Short = DefaultShortTTL
	}
	if c.TTL.Long == "" {
		c.TTL.Long = DefaultLongTTL
	}
	if c.TTL.Immediate == "" {
		c.TTL.Immediate = DefaultImmediate
	}
	if c.Redis.PoolSize <= 0 {
		c.Redis.PoolSize = 10
	}
	if c.Redis.MinIdleConns <= 0 {
		c.Redis.MinIdleConns = 2
	}
	if c.Redis.MaxRetries <= 0 {
		c.Redis.MaxRetries = 3
	}
	if c.Redis.DialTimeout == "" {
		c.Redis.DialTimeout = "5s"
	}
	if c.Redis.ReadTimeout == "" {
		c.Redis.ReadTimeout = "3s"
	}
	if c.Redis.WriteTimeout == "" {
		c.Redis.WriteTimeout = "3s"
	}
}

// Validate checks that the configuration is valid for the selected provider.
func (c *Config) Validate() error {
	for name, v := range map[string]string{
		"ttl.default":   c.TTL.Default,
		"ttl.short":     c.TTL.Short,
		"ttl.long":      c.TTL.Long,
		"ttl.immediate": c.TTL.Immediate,
	} {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("cache: invalid %s %q: %w", name, v, err)
		}
		if d <= 0 {
			return fmt.Errorf("cache: %s must be positive (got: %s)", name, v)
		}
	}
	switch c.Provider {
	case ProviderMemory:
	case ProviderFile:
		if c.BasePath == "" {
			return fmt.Errorf("cache: base_path is required for file provider")
		}
	case ProviderRedis:
		if c.Redis.Addr == "" {
			return fmt.Errorf("cache: redis.addr is required for redis provider")
		}
		for name, v := range map[string]string{
			"redis.dial_timeout":  c.Redis.DialTimeout,
			"redis.read_timeout":  c.Redis.ReadTimeout,
			"redis.write_timeout": c.Redis.WriteTimeout,
		} {
			if _, err := time.ParseDuration(v); err != nil {
				return fmt.Errorf("cache: invalid %s %q: %w", name, v, err)
			}
		}
	default:
		return fmt.Errorf("cache: unsupported provider %q", c.Provider)
	}
	return nil
}

// Duration resolves a policy. Call after ApplyDefaults.
func (c *Config) Duration(ttl TimeToLive) time.Duration {
	var v string
	switch ttl {
	case TTLShort:
		v = c.TTL.Short
	case TTLLong:
		v = c.TTL.Long
	case TTLImmediate:
		v = c.TTL.Immediate
	default:
		v = c.TTL.Default
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		d, _ = time.ParseDuration(DefaultTTL)
	}
	return d
}
