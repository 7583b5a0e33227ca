// Package config loads process-level configuration from the environment.
package config

import (
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/cockroachdb/errors"
	"github.com/goliatone/go-career-cache/career"
)

// Config aggregates everything the DI container needs to wire the service.
type Config struct {
	Cache  CacheConfig
	Redis  RedisConfig
	DB     DBConfig
	Limits LimitsConfig
}

// CacheConfig tunes the in-memory cache backend.
type CacheConfig struct {
	Capacity           int           `env:"CACHE_CAPACITY" envDefault:"10000"`
	NumShards          int           `env:"CACHE_NUM_SHARDS" envDefault:"256"`
	TTL                time.Duration `env:"CACHE_TTL" envDefault:"5m"`
	EvictionPercentage int           `env:"CACHE_EVICTION_PERCENTAGE" envDefault:"10"`
	EvictionInterval   time.Duration `env:"CACHE_EVICTION_INTERVAL" envDefault:"0s"`
}

// RedisConfig selects and tunes the Redis cache backend. When Enabled is
// false the in-memory backend serves instead.
type RedisConfig struct {
	Enabled    bool          `env:"REDIS_ENABLED" envDefault:"false"`
	Addr       string        `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	Password   string        `env:"REDIS_PASSWORD"`
	DB         int           `env:"REDIS_DB" envDefault:"0"`
	DefaultTTL time.Duration `env:"REDIS_DEFAULT_TTL" envDefault:"24h"`
}

// DBConfig points at the authoritative store. The sqlite default keeps
// local development and tests self-contained; production sets postgres.
type DBConfig struct {
	Driver string `env:"DB_DRIVER" envDefault:"sqlite"`
	DSN    string `env:"DB_DSN" envDefault:"file::memory:?cache=shared"`
}

// LimitsConfig carries the per-tier plan ceilings. A zero PRO value falls
// back to the FREE value for that collection.
type LimitsConfig struct {
	FreeMaxOrganizations int `env:"LIMITS_FREE_MAX_ORGANIZATIONS" envDefault:"4"`
	FreeMaxPositions     int `env:"LIMITS_FREE_MAX_POSITIONS" envDefault:"10"`
	FreeMaxAchievements  int `env:"LIMITS_FREE_MAX_ACHIEVEMENTS" envDefault:"20"`
	FreeMaxChallenges    int `env:"LIMITS_FREE_MAX_CHALLENGES" envDefault:"20"`
	FreeMaxFailures      int `env:"LIMITS_FREE_MAX_FAILURES" envDefault:"20"`
	FreeMaxProjects      int `env:"LIMITS_FREE_MAX_PROJECTS" envDefault:"20"`

	ProMaxOrganizations int `env:"LIMITS_PRO_MAX_ORGANIZATIONS" envDefault:"0"`
	ProMaxPositions     int `env:"LIMITS_PRO_MAX_POSITIONS" envDefault:"0"`
	ProMaxAchievements  int `env:"LIMITS_PRO_MAX_ACHIEVEMENTS" envDefault:"0"`
	ProMaxChallenges    int `env:"LIMITS_PRO_MAX_CHALLENGES" envDefault:"0"`
	ProMaxFailures      int `env:"LIMITS_PRO_MAX_FAILURES" envDefault:"0"`
	ProMaxProjects      int `env:"LIMITS_PRO_MAX_PROJECTS" envDefault:"0"`
}

// Free returns the FREE tier ceilings.
func (l LimitsConfig) Free() career.PlanLimits {
	return career.PlanLimits{
		MaxOrganizations: l.FreeMaxOrganizations,
		MaxPositions:     l.FreeMaxPositions,
		MaxAchievements:  l.FreeMaxAchievements,
		MaxChallenges:    l.FreeMaxChallenges,
		MaxFailures:      l.FreeMaxFailures,
		MaxProjects:      l.FreeMaxProjects,
	}
}

// Pro returns the PRO tier ceilings. All-zero means no PRO overrides are
// configured and callers fall back to Free.
func (l LimitsConfig) Pro() career.PlanLimits {
	return career.PlanLimits{
		MaxOrganizations: l.ProMaxOrganizations,
		MaxPositions:     l.ProMaxPositions,
		MaxAchievements:  l.ProMaxAchievements,
		MaxChallenges:    l.ProMaxChallenges,
		MaxFailures:      l.ProMaxFailures,
		MaxProjects:      l.ProMaxProjects,
	}
}

// Load parses the configuration from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, errors.Wrap(err, "config: parse environment")
	}
	return cfg, nil
}
