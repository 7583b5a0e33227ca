package cache

import (
	"time"

	"github.com/goliatone/go-career-cache/internal/cacheinfra"
)

// Config exposes cache configuration options for consumers of the cache package.
type Config struct {
	Capacity           int
	NumShards          int
	TTL                time.Duration
	EvictionPercentage int
	EvictionInterval   time.Duration
}

// DefaultConfig returns a Config populated with sensible defaults.
func DefaultConfig() Config {
	return convertFromInternal(cacheinfra.DefaultConfig())
}

// Validate checks whether the configuration values are valid.
func (c Config) Validate() error {
	return c.toInternal().Validate()
}

// NewMemoryStore constructs the in-process Store implementation using the
// provided configuration. Entries are subject to TTL expiry and capacity
// eviction, so every entry is advisory: readers must be prepared to fall
// through to the backing store.
func NewMemoryStore(cfg Config) (Store, error) {
	return cacheinfra.NewMemoryStore(cfg.toInternal())
}

// RedisConfig exposes the Redis backend connection settings.
type RedisConfig struct {
	Addr       string
	Password   string
	DB         int
	DefaultTTL time.Duration
}

// NewRedisStore constructs the Redis-backed Store implementation for shared
// deployments.
func NewRedisStore(cfg RedisConfig) Store {
	return cacheinfra.NewRedisStore(cacheinfra.RedisConfig{
		Addr:       cfg.Addr,
		Password:   cfg.Password,
		DB:         cfg.DB,
		DefaultTTL: cfg.DefaultTTL,
	})
}

func (c Config) toInternal() cacheinfra.Config {
	return cacheinfra.Config{
		Capacity:           c.Capacity,
		NumShards:          c.NumShards,
		TTL:                c.TTL,
		EvictionPercentage: c.EvictionPercentage,
		EvictionInterval:   c.EvictionInterval,
	}
}

func convertFromInternal(cfg cacheinfra.Config) Config {
	return Config{
		Capacity:           cfg.Capacity,
		NumShards:          cfg.NumShards,
		TTL:                cfg.TTL,
		EvictionPercentage: cfg.EvictionPercentage,
		EvictionInterval:   cfg.EvictionInterval,
	}
}
