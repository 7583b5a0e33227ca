package cacheinfra

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/redis/go-redis/v9"
)

// RedisStore is the shared cache backend. It maps the store contract onto
// native Redis structures: hash entries are HSET/HGETALL hashes, list
// entries are RPUSH/LRANGE/LREM lists, plain entries are SET/GET strings,
// and pattern discovery walks SCAN.
type RedisStore struct {
	client     redis.UniversalClient
	defaultTTL time.Duration
}

// RedisConfig holds the connection settings for the Redis backend.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int

	// DefaultTTL is applied to every written entry. Zero disables expiry,
	// leaving invalidation entirely to the coherency layer.
	DefaultTTL time.Duration
}

// NewRedisStore creates a Redis-backed store from the connection settings.
func NewRedisStore(cfg RedisConfig) *RedisStore {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return NewRedisStoreWithClient(client, cfg.DefaultTTL)
}

// NewRedisStoreWithClient wraps an existing client, e.g. a cluster client or
// a test double.
func NewRedisStoreWithClient(client redis.UniversalClient, defaultTTL time.Duration) *RedisStore {
	return &RedisStore{client: client, defaultTTL: defaultTTL}
}

// Ping verifies connectivity.
func (r *RedisStore) Ping(ctx context.Context) error {
	return errors.Wrap(r.client.Ping(ctx).Err(), "cacheinfra: redis ping")
}

// Close releases the underlying client.
func (r *RedisStore) Close() error {
	return r.client.Close()
}

// GetHash returns the field map stored at key. Redis reports missing hashes
// as empty maps; records always carry fields, so empty means absent.
func (r *RedisStore) GetHash(ctx context.Context, key string) (map[string]string, bool, error) {
	fields, err := r.client.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, false, errors.Wrap(err, "cacheinfra: redis hgetall")
	}
	if len(fields) == 0 {
		return nil, false, nil
	}
	return fields, true, nil
}

// SetHash replaces the field map stored at key.
func (r *RedisStore) SetHash(ctx context.Context, key string, fields map[string]string) error {
	pipe := r.client.TxPipeline()
	pipe.Del(ctx, key)
	pipe.HSet(ctx, key, fields)
	if r.defaultTTL > 0 {
		pipe.Expire(ctx, key, r.defaultTTL)
	}
	_, err := pipe.Exec(ctx)
	return errors.Wrap(err, "cacheinfra: redis hset")
}

// GetList returns every item of the list at key, oldest first.
func (r *RedisStore) GetList(ctx context.Context, key string) ([][]byte, error) {
	items, err := r.client.LRange(ctx, key, 0, -1).Result()
	if err != nil {
		return nil, errors.Wrap(err, "cacheinfra: redis lrange")
	}
	out := make([][]byte, len(items))
	for i, item := range items {
		out[i] = []byte(item)
	}
	return out, nil
}

// AppendList appends items to the list at key.
func (r *RedisStore) AppendList(ctx context.Context, key string, items ...[]byte) error {
	if len(items) == 0 {
		return nil
	}
	values := make([]any, len(items))
	for i, item := range items {
		values[i] = item
	}
	pipe := r.client.TxPipeline()
	pipe.RPush(ctx, key, values...)
	if r.defaultTTL > 0 {
		pipe.Expire(ctx, key, r.defaultTTL)
	}
	_, err := pipe.Exec(ctx)
	return errors.Wrap(err, "cacheinfra: redis rpush")
}

// RemoveList removes every list item equal to the encoded value.
func (r *RedisStore) RemoveList(ctx context.Context, key string, item []byte) error {
	err := r.client.LRem(ctx, key, 0, item).Err()
	return errors.Wrap(err, "cacheinfra: redis lrem")
}

// GetValue returns the plain value stored at key.
func (r *RedisStore) GetValue(ctx context.Context, key string) ([]byte, bool, error) {
	value, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrap(err, "cacheinfra: redis get")
	}
	return value, true, nil
}

// SetValue stores a plain value at key. A non-positive ttl falls back to the
// store default.
func (r *RedisStore) SetValue(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = r.defaultTTL
	}
	err := r.client.Set(ctx, key, value, ttl).Err()
	return errors.Wrap(err, "cacheinfra: redis set")
}

// Keys returns every key matching the glob-style pattern via SCAN.
func (r *RedisStore) Keys(ctx context.Context, pattern string) ([]string, error) {
	var out []string
	iter := r.client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		out = append(out, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, errors.Wrap(err, "cacheinfra: redis scan")
	}
	return out, nil
}

// Delete removes the given keys.
func (r *RedisStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	err := r.client.Del(ctx, keys...).Err()
	return errors.Wrap(err, "cacheinfra: redis del")
}
