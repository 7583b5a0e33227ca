package cacheinfra

import (
	"bytes"
	"context"
	"path"
	"sync"
	"time"

	"github.com/puzpuzpuz/xsync/v3"
	"github.com/viccon/sturdyc"
)

// MemoryStore is the in-process cache backend built on a sturdyc client.
// Entries share one keyspace: hash entries hold field maps, list entries hold
// ordered encoded items, plain entries hold raw bytes. TTL expiry and
// capacity eviction are sturdyc's; any entry can vanish between calls, which
// is exactly the advisory-cache behaviour the coherency layer is written for.
//
// sturdyc serializes access per key, but list appends and removals are
// read-modify-write across two client calls, so those take a per-key mutex.
type MemoryStore struct {
	client *sturdyc.Client[any]
	locks  *xsync.MapOf[string, *sync.Mutex]
}

type hashEntry map[string]string

type listEntry [][]byte

// NewMemoryStore creates a memory-backed store from the validated config.
//
// Version compatibility note: this assumes the sturdyc v1.x API. Monitor
// sturdyc version upgrades for constructor signature changes.
func NewMemoryStore(cfg Config) (*MemoryStore, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var opts []sturdyc.Option
	if cfg.EvictionInterval > 0 {
		opts = append(opts, sturdyc.WithEvictionInterval(cfg.EvictionInterval))
	}

	client := sturdyc.New[any](
		cfg.Capacity,
		cfg.NumShards,
		cfg.TTL,
		cfg.EvictionPercentage,
		opts...,
	)

	return &MemoryStore{
		client: client,
		locks:  xsync.NewMapOf[string, *sync.Mutex](),
	}, nil
}

// GetHash returns the field map stored at key.
func (m *MemoryStore) GetHash(ctx context.Context, key string) (map[string]string, bool, error) {
	raw, ok := m.client.Get(key)
	if !ok {
		return nil, false, nil
	}
	entry, ok := raw.(hashEntry)
	if !ok {
		return nil, false, nil
	}

	out := make(map[string]string, len(entry))
	for k, v := range entry {
		out[k] = v
	}
	return out, true, nil
}

// SetHash replaces the field map stored at key.
func (m *MemoryStore) SetHash(ctx context.Context, key string, fields map[string]string) error {
	entry := make(hashEntry, len(fields))
	for k, v := range fields {
		entry[k] = v
	}
	m.client.Set(key, any(entry))
	return nil
}

// GetList returns a copy of the items stored at key, oldest first.
func (m *MemoryStore) GetList(ctx context.Context, key string) ([][]byte, error) {
	raw, ok := m.client.Get(key)
	if !ok {
		return nil, nil
	}
	entry, ok := raw.(listEntry)
	if !ok {
		return nil, nil
	}

	out := make([][]byte, len(entry))
	for i, item := range entry {
		out[i] = append([]byte(nil), item...)
	}
	return out, nil
}

// AppendList appends items to the list at key, creating it if absent.
func (m *MemoryStore) AppendList(ctx context.Context, key string, items ...[]byte) error {
	if len(items) == 0 {
		return nil
	}

	lock := m.keyLock(key)
	lock.Lock()
	defer lock.Unlock()

	var entry listEntry
	if raw, ok := m.client.Get(key); ok {
		if existing, ok := raw.(listEntry); ok {
			entry = existing
		}
	}
	for _, item := range items {
		entry = append(entry, append([]byte(nil), item...))
	}
	m.client.Set(key, any(entry))
	return nil
}

// RemoveList removes every item equal to the encoded value.
func (m *MemoryStore) RemoveList(ctx context.Context, key string, item []byte) error {
	lock := m.keyLock(key)
	lock.Lock()
	defer lock.Unlock()

	raw, ok := m.client.Get(key)
	if !ok {
		return nil
	}
	entry, ok := raw.(listEntry)
	if !ok {
		return nil
	}

	kept := make(listEntry, 0, len(entry))
	for _, existing := range entry {
		if !bytes.Equal(existing, item) {
			kept = append(kept, existing)
		}
	}
	if len(kept) == 0 {
		m.client.Delete(key)
		return nil
	}
	m.client.Set(key, any(kept))
	return nil
}

// GetValue returns the plain bytes stored at key.
func (m *MemoryStore) GetValue(ctx context.Context, key string) ([]byte, bool, error) {
	raw, ok := m.client.Get(key)
	if !ok {
		return nil, false, nil
	}
	value, ok := raw.([]byte)
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), value...), true, nil
}

// SetValue stores plain bytes at key. The per-entry ttl is ignored: sturdyc
// applies the client-wide TTL, matching the "clients own their timeouts"
// contract of the core.
func (m *MemoryStore) SetValue(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.client.Set(key, any(append([]byte(nil), value...)))
	return nil
}

// Keys returns the live keys matching a glob-style pattern.
func (m *MemoryStore) Keys(ctx context.Context, pattern string) ([]string, error) {
	var out []string
	for _, key := range m.client.ScanKeys() {
		matched, err := path.Match(pattern, key)
		if err != nil {
			return nil, err
		}
		if matched {
			out = append(out, key)
		}
	}
	return out, nil
}

// Delete removes the given keys.
func (m *MemoryStore) Delete(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		m.client.Delete(key)
	}
	return nil
}

func (m *MemoryStore) keyLock(key string) *sync.Mutex {
	lock, _ := m.locks.LoadOrCompute(key, func() *sync.Mutex {
		return &sync.Mutex{}
	})
	return lock
}
