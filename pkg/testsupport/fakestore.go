package testsupport

import (
	"context"
	"path"
	"sort"
	"sync"
	"time"
)

// FakeStore is an in-memory cache.Store implementation for tests. Unlike
// the real backends it evicts nothing on its own; tests drive eviction
// explicitly with Evict and EvictAll to simulate TTL expiry, and can force
// failures per operation with FailWith.
type FakeStore struct {
	mu     sync.Mutex
	hashes map[string]map[string]string
	lists  map[string][][]byte
	values map[string][]byte
	fail   map[string]error

	// Ops records every mutating call in order, for assertions on write
	// fan-out behavior.
	Ops []string
}

// NewFakeStore returns an empty FakeStore.
func NewFakeStore() *FakeStore {
	return &FakeStore{
		hashes: make(map[string]map[string]string),
		lists:  make(map[string][][]byte),
		values: make(map[string][]byte),
		fail:   make(map[string]error),
	}
}

// FailWith makes every subsequent call of op (e.g. "SetHash") return err.
// A nil err clears the failure.
func (f *FakeStore) FailWith(op string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err == nil {
		delete(f.fail, op)
		return
	}
	f.fail[op] = err
}

// Evict drops the given keys regardless of entry kind, as TTL expiry would.
func (f *FakeStore) Evict(keys ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, key := range keys {
		delete(f.hashes, key)
		delete(f.lists, key)
		delete(f.values, key)
	}
}

// EvictAll empties the store.
func (f *FakeStore) EvictAll() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hashes = make(map[string]map[string]string)
	f.lists = make(map[string][][]byte)
	f.values = make(map[string][]byte)
}

func (f *FakeStore) failure(op string) error {
	if err, ok := f.fail[op]; ok {
		return err
	}
	return nil
}

func (f *FakeStore) GetHash(_ context.Context, key string) (map[string]string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failure("GetHash"); err != nil {
		return nil, false, err
	}
	entry, ok := f.hashes[key]
	if !ok {
		return nil, false, nil
	}
	out := make(map[string]string, len(entry))
	for k, v := range entry {
		out[k] = v
	}
	return out, true, nil
}

func (f *FakeStore) SetHash(_ context.Context, key string, fields map[string]string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failure("SetHash"); err != nil {
		return err
	}
	entry := make(map[string]string, len(fields))
	for k, v := range fields {
		entry[k] = v
	}
	f.hashes[key] = entry
	f.Ops = append(f.Ops, "SetHash "+key)
	return nil
}

func (f *FakeStore) GetList(_ context.Context, key string) ([][]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failure("GetList"); err != nil {
		return nil, err
	}
	entry := f.lists[key]
	out := make([][]byte, len(entry))
	for i, item := range entry {
		out[i] = append([]byte(nil), item...)
	}
	return out, nil
}

func (f *FakeStore) AppendList(_ context.Context, key string, items ...[]byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failure("AppendList"); err != nil {
		return err
	}
	for _, item := range items {
		f.lists[key] = append(f.lists[key], append([]byte(nil), item...))
	}
	f.Ops = append(f.Ops, "AppendList "+key)
	return nil
}

func (f *FakeStore) RemoveList(_ context.Context, key string, item []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failure("RemoveList"); err != nil {
		return err
	}
	entry := f.lists[key]
	kept := make([][]byte, 0, len(entry))
	for _, existing := range entry {
		if string(existing) != string(item) {
			kept = append(kept, existing)
		}
	}
	if len(kept) == 0 {
		delete(f.lists, key)
	} else {
		f.lists[key] = kept
	}
	f.Ops = append(f.Ops, "RemoveList "+key)
	return nil
}

func (f *FakeStore) GetValue(_ context.Context, key string) ([]byte, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failure("GetValue"); err != nil {
		return nil, false, err
	}
	value, ok := f.values[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), value...), true, nil
}

func (f *FakeStore) SetValue(_ context.Context, key string, value []byte, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failure("SetValue"); err != nil {
		return err
	}
	f.values[key] = append([]byte(nil), value...)
	f.Ops = append(f.Ops, "SetValue "+key)
	return nil
}

func (f *FakeStore) Keys(_ context.Context, pattern string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failure("Keys"); err != nil {
		return nil, err
	}
	var out []string
	match := func(key string) {
		if ok, err := path.Match(pattern, key); err == nil && ok {
			out = append(out, key)
		}
	}
	for key := range f.hashes {
		match(key)
	}
	for key := range f.lists {
		match(key)
	}
	for key := range f.values {
		match(key)
	}
	sort.Strings(out)
	return out, nil
}

func (f *FakeStore) Delete(_ context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failure("Delete"); err != nil {
		return err
	}
	for _, key := range keys {
		delete(f.hashes, key)
		delete(f.lists, key)
		delete(f.values, key)
		f.Ops = append(f.Ops, "Delete "+key)
	}
	return nil
}
