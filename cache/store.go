package cache

import (
	"bytes"
	"context"
	"time"
)

// Store is the narrow contract the core needs from a key-value cache: hash
// entries for singletons, ordered lists for collections, plain values for
// flags and tokens, and pattern-based key discovery for invalidation.
//
// List removal matches by value equality on the encoded item, mirroring the
// LREM semantics of the backing cache. Implementations live in
// internal/cacheinfra; the core always receives a Store as an injected
// dependency so tests can substitute a fake with controllable eviction.
type Store interface {
	// GetHash returns the raw field map for key, or found=false when the
	// entry is absent or expired.
	GetHash(ctx context.Context, key string) (map[string]string, bool, error)

	// SetHash writes the field map under key, replacing prior fields.
	SetHash(ctx context.Context, key string, fields map[string]string) error

	// GetList returns every encoded item of the list at key, in insertion
	// order. A missing list yields an empty slice, not an error.
	GetList(ctx context.Context, key string) ([][]byte, error)

	// AppendList appends encoded items to the list at key, creating it if
	// needed.
	AppendList(ctx context.Context, key string, items ...[]byte) error

	// RemoveList removes every list item equal to the encoded value.
	RemoveList(ctx context.Context, key string, item []byte) error

	// GetValue returns the plain value at key, or found=false when absent.
	GetValue(ctx context.Context, key string) ([]byte, bool, error)

	// SetValue writes a plain value. A non-positive ttl uses the store's
	// configured default.
	SetValue(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Keys returns every live key matching the glob-style pattern.
	Keys(ctx context.Context, pattern string) ([]string, error)

	// Delete removes the given keys. Missing keys are ignored.
	Delete(ctx context.Context, keys ...string) error
}

// Typed wrappers over the raw Store primitives. These pair the Store with
// the field codec so callers deal in records, not byte slices.

// GetHash reads the hash at key into a value of type T.
func GetHash[T any](ctx context.Context, s Store, key string) (T, bool, error) {
	var zero T
	fields, found, err := s.GetHash(ctx, key)
	if err != nil || !found {
		return zero, false, err
	}
	out, err := DecodeFields[T](fields)
	if err != nil {
		return zero, false, err
	}
	return out, true, nil
}

// SetHash writes record as the hash entry at key, one field per exported
// struct field.
func SetHash[T any](ctx context.Context, s Store, key string, record T) error {
	fields, err := EncodeFields(record)
	if err != nil {
		return err
	}
	return s.SetHash(ctx, key, fields)
}

// GetList reads every item of the list at key as values of type T.
func GetList[T any](ctx context.Context, s Store, key string) ([]T, error) {
	raw, err := s.GetList(ctx, key)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(raw))
	for _, item := range raw {
		v, err := DecodeItem[T](item)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// AppendList appends items to the list at key.
func AppendList[T any](ctx context.Context, s Store, key string, items ...T) error {
	encoded := make([][]byte, 0, len(items))
	for _, item := range items {
		b, err := EncodeItem(item)
		if err != nil {
			return err
		}
		encoded = append(encoded, b)
	}
	return s.AppendList(ctx, key, encoded...)
}

// RemoveList removes every list item equal to item. Equality is on the
// canonical encoding, which requires an exact field-for-field match
// including timestamps.
func RemoveList[T any](ctx context.Context, s Store, key string, item T) error {
	b, err := EncodeItem(item)
	if err != nil {
		return err
	}
	return s.RemoveList(ctx, key, b)
}

// GetValue reads the plain value at key as a value of type T.
func GetValue[T any](ctx context.Context, s Store, key string) (T, bool, error) {
	var zero T
	raw, found, err := s.GetValue(ctx, key)
	if err != nil || !found {
		return zero, false, err
	}
	v, err := DecodeItem[T](raw)
	if err != nil {
		return zero, false, err
	}
	return v, true, nil
}

// SetValue writes value as the plain entry at key.
func SetValue[T any](ctx context.Context, s Store, key string, value T, ttl time.Duration) error {
	b, err := EncodeItem(value)
	if err != nil {
		return err
	}
	return s.SetValue(ctx, key, b, ttl)
}

// ItemsEqual reports whether two encoded list items are equal under the
// store's removal semantics.
func ItemsEqual(a, b []byte) bool {
	return bytes.Equal(a, b)
}
