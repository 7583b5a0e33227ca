package di

import (
	"context"
	"database/sql"

	"github.com/cockroachdb/errors"
	"github.com/goliatone/go-career-cache/cache"
	"github.com/goliatone/go-career-cache/careercache"
	"github.com/goliatone/go-career-cache/pkg/config"
	"github.com/goliatone/go-career-cache/storage"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"go.uber.org/zap"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Container wires the cache backend, the backing store gateway, and the
// cache-coherent service together. It manages singleton instances; every
// accessor returns the same wired component.
type Container struct {
	cfg     config.Config
	log     *zap.Logger
	cache   cache.Store
	db      *bun.DB
	store   *storage.Store
	service *careercache.Service
}

// NewContainer builds the full dependency graph from cfg. The Redis cache
// backend is used when enabled, otherwise the in-memory backend; the store
// opens sqlite or postgres per the DB driver setting.
func NewContainer(cfg config.Config, log *zap.Logger) (*Container, error) {
	if log == nil {
		log = zap.NewNop()
	}

	cacheStore, err := newCacheStore(cfg)
	if err != nil {
		return nil, err
	}

	db, err := openDB(cfg.DB)
	if err != nil {
		return nil, err
	}

	store := storage.NewStore(db, storage.WithLogger(log))

	limits := careercache.Limits{
		Free: cfg.Limits.Free(),
		Pro:  cfg.Limits.Pro(),
	}
	service := careercache.NewService(cacheStore, store, limits,
		careercache.WithLogger(log))

	return &Container{
		cfg:     cfg,
		log:     log,
		cache:   cacheStore,
		db:      db,
		store:   store,
		service: service,
	}, nil
}

// NewContainerWithDefaults builds the graph from the environment.
func NewContainerWithDefaults() (*Container, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return NewContainer(cfg, nil)
}

func newCacheStore(cfg config.Config) (cache.Store, error) {
	if cfg.Redis.Enabled {
		return cache.NewRedisStore(cache.RedisConfig{
			Addr:       cfg.Redis.Addr,
			Password:   cfg.Redis.Password,
			DB:         cfg.Redis.DB,
			DefaultTTL: cfg.Redis.DefaultTTL,
		}), nil
	}

	return cache.NewMemoryStore(cache.Config{
		Capacity:           cfg.Cache.Capacity,
		NumShards:          cfg.Cache.NumShards,
		TTL:                cfg.Cache.TTL,
		EvictionPercentage: cfg.Cache.EvictionPercentage,
		EvictionInterval:   cfg.Cache.EvictionInterval,
	})
}

func openDB(cfg config.DBConfig) (*bun.DB, error) {
	switch cfg.Driver {
	case "postgres":
		sqldb, err := sql.Open("postgres", cfg.DSN)
		if err != nil {
			return nil, errors.Wrap(err, "di: open postgres")
		}
		return bun.NewDB(sqldb, pgdialect.New()), nil
	case "sqlite", "sqlite3":
		sqldb, err := sql.Open("sqlite3", cfg.DSN)
		if err != nil {
			return nil, errors.Wrap(err, "di: open sqlite")
		}
		return bun.NewDB(sqldb, sqlitedialect.New()), nil
	default:
		return nil, errors.Newf("di: unknown db driver %q", cfg.Driver)
	}
}

// InitSchema creates the store tables when the deployment manages its own
// schema (sqlite development and tests).
func (c *Container) InitSchema(ctx context.Context) error {
	return c.store.InitSchema(ctx)
}

// Service returns the singleton cache-coherent service.
func (c *Container) Service() *careercache.Service {
	return c.service
}

// Reconciler returns a store-driven reconciler over the service.
func (c *Container) Reconciler() careercache.Reconciler {
	return careercache.NewStoreRebuild(c.service)
}

// CacheStore returns the singleton cache backend. This allows direct access
// for advanced use cases.
func (c *Container) CacheStore() cache.Store {
	return c.cache
}

// Store returns the singleton backing store gateway.
func (c *Container) Store() *storage.Store {
	return c.store
}

// Config returns a copy of the configuration used by this container.
func (c *Container) Config() config.Config {
	return c.cfg
}

// Close releases the store's database handle.
func (c *Container) Close() error {
	return c.db.Close()
}
