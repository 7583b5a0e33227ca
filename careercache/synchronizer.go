package careercache

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/goliatone/go-career-cache/cache"
	"github.com/goliatone/go-career-cache/career"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// synchronize applies a patch to the resource addressed by slug while
// keeping the list item, the singleton entry, and the store row in
// agreement.
//
// The merge base is assembled store-up: the authoritative record, overlaid
// by the singleton entry when cached, overlaid by the list item's fields
// when cached. The store record is loaded even when both cache entries are
// present; the patched row written back must be complete, and the read is
// what detects a cache-only ghost, at the cost of one authoritative read
// per patch. apply then folds the submitted patch into that base and
// reports whether anything actually changed; an unchanged result is an
// idempotent no-op that touches nothing.
//
// A resource absent from the cache and the store is a silent no-op. A
// resource present only in the cache is a diverged entry: the stale keys
// are dropped and the patch reports NotFound.
//
// The store patch (addressed by the old slug) commits first; the cache
// writes fan out after it. The fan-out removes the exact cached list item
// bytes, deletes every key under the old slug chain, appends the new list
// item, and writes the singleton entry under the updated slug.
func synchronize[R, F any](ctx context.Context, s *Service, e entity[R, F], slug string, apply func(base F) (F, bool, error)) error {
	ref, refBytes, refFound, err := cachedRefBySlug(ctx, s, e, slug)
	if err != nil {
		return err
	}

	hash, hashFound, err := e.getHash(ctx, s, slug)
	if err != nil {
		return err
	}

	stored, err := e.loadStore(ctx, slug)
	if career.IsNotFound(err) {
		if !refFound && !hashFound {
			return nil
		}
		if cleanupErr := dropStale(ctx, s, e, slug, refBytes, refFound); cleanupErr != nil {
			s.log.Warn("stale cache cleanup failed",
				zap.String("collection", e.collection),
				zap.String("slug", slug),
				zap.Error(cleanupErr))
		}
		return err
	}
	if err != nil {
		return err
	}

	base := stored
	if hashFound {
		base = hash
	}
	if refFound {
		base = e.applyRef(base, ref)
	}

	updated, changed, err := apply(base)
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}

	if err := e.patchStore(ctx, slug, updated); err != nil {
		return err
	}

	// Drop phase before write phase: on a non-renaming patch the old key
	// chain and the refreshed singleton share a key.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		keys, err := s.cache.Keys(gctx, e.pattern(slug))
		if err != nil {
			return err
		}
		if len(keys) == 0 {
			return nil
		}
		return s.cache.Delete(gctx, keys...)
	})
	g.Go(func() error {
		if !refFound {
			return nil
		}
		return s.cache.RemoveList(gctx, e.listKey, refBytes)
	})
	err = g.Wait()
	if err == nil {
		g, gctx = errgroup.WithContext(ctx)
		g.Go(func() error {
			return cache.AppendList(gctx, s.cache, e.listKey, e.toRef(updated))
		})
		g.Go(func() error {
			return cache.SetHash(gctx, s.cache, e.itemKey(e.fullSlug(updated)), updated)
		})
		err = g.Wait()
	}
	if err != nil {
		s.log.Error("cache fan-out after patch failed",
			zap.String("collection", e.collection),
			zap.String("slug", slug),
			zap.Error(err))
		return errors.Wrapf(err, "%s patched but cache update failed", e.collection)
	}
	return nil
}

// dropStale removes cache entries for a resource the store no longer has.
func dropStale[R, F any](ctx context.Context, s *Service, e entity[R, F], slug string, refBytes []byte, refFound bool) error {
	keys, err := s.cache.Keys(ctx, e.pattern(slug))
	if err != nil {
		return err
	}
	if len(keys) > 0 {
		if err := s.cache.Delete(ctx, keys...); err != nil {
			return err
		}
	}
	if refFound {
		return s.cache.RemoveList(ctx, e.listKey, refBytes)
	}
	return nil
}
