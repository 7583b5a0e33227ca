package careercache

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/goliatone/go-career-cache/cache"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// entity describes one cached resource class to the generic accessor and
// synchronizer: where its list and singleton entries live, how to project a
// full record to a list item, and how to reach the authoritative store. R is
// the list projection, F the full record.
type entity[R, F any] struct {
	// collection names the resource class in quota and log messages.
	collection string

	listKey string
	itemKey func(slug string) string
	pattern func(slug string) string

	refSlug  func(R) string
	fullSlug func(F) string
	toRef    func(F) R
	// applyRef overlays the list projection's fields onto a full record.
	applyRef func(F, R) F

	// decodeFull overrides hash decoding for resource classes whose full
	// record is an interface with a runtime-picked concrete type. Nil means
	// plain struct decoding.
	decodeFull func(fields map[string]string) (F, error)

	listStore   func(ctx context.Context) ([]F, error)
	loadStore   func(ctx context.Context, slug string) (F, error)
	createStore func(ctx context.Context, full F) error
	patchStore  func(ctx context.Context, oldSlug string, updated F) error
	deleteStore func(ctx context.Context, slug string) error
}

// getHash reads and decodes the singleton entry for slug.
func (e entity[R, F]) getHash(ctx context.Context, s *Service, slug string) (F, bool, error) {
	var zero F
	fields, found, err := s.cache.GetHash(ctx, e.itemKey(slug))
	if err != nil || !found {
		return zero, false, err
	}
	if e.decodeFull != nil {
		full, err := e.decodeFull(fields)
		if err != nil {
			return zero, false, err
		}
		return full, true, nil
	}
	full, err := cache.DecodeFields[F](fields)
	if err != nil {
		return zero, false, err
	}
	return full, true, nil
}

// listThrough serves the list projection from the cache, repopulating it
// from the store on miss. A store miss (absent parent chain) propagates as
// NotFound; an empty collection is an empty slice.
func listThrough[R, F any](ctx context.Context, s *Service, e entity[R, F]) ([]R, error) {
	refs, err := cache.GetList[R](ctx, s.cache, e.listKey)
	if err != nil {
		return nil, err
	}
	if len(refs) > 0 {
		return refs, nil
	}

	fulls, err := e.listStore(ctx)
	if err != nil {
		return nil, err
	}

	refs = make([]R, 0, len(fulls))
	for _, full := range fulls {
		refs = append(refs, e.toRef(full))
	}
	if len(refs) > 0 {
		if err := cache.AppendList(ctx, s.cache, e.listKey, refs...); err != nil {
			s.log.Warn("list repopulation failed",
				zap.String("collection", e.collection),
				zap.String("key", e.listKey),
				zap.Error(err))
		}
	}
	return refs, nil
}

// getThrough serves the full record from the singleton cache entry,
// repopulating it from the store on miss.
func getThrough[R, F any](ctx context.Context, s *Service, e entity[R, F], slug string) (F, error) {
	var zero F

	full, found, err := e.getHash(ctx, s, slug)
	if err != nil {
		return zero, err
	}
	if found {
		return full, nil
	}

	full, err = e.loadStore(ctx, slug)
	if err != nil {
		return zero, err
	}

	if err := cache.SetHash(ctx, s.cache, e.itemKey(slug), full); err != nil {
		s.log.Warn("singleton repopulation failed",
			zap.String("collection", e.collection),
			zap.String("key", e.itemKey(slug)),
			zap.Error(err))
	}
	return full, nil
}

// createThrough commits the record to the store, then fans out the cache
// writes: list append, singleton set, plus any extra writes the caller needs
// in the same join (first-created flags, first-time clearing).
//
// A cache write failing after the store commit leaves the entries to be
// rebuilt by the next read-through or the reconciler; the error still
// surfaces to the caller.
func createThrough[R, F any](ctx context.Context, s *Service, e entity[R, F], full F, extra ...func(ctx context.Context) error) error {
	if err := e.createStore(ctx, full); err != nil {
		return err
	}

	slug := e.fullSlug(full)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return cache.AppendList(gctx, s.cache, e.listKey, e.toRef(full))
	})
	g.Go(func() error {
		return cache.SetHash(gctx, s.cache, e.itemKey(slug), full)
	})
	for _, fn := range extra {
		fn := fn
		g.Go(func() error { return fn(gctx) })
	}
	if err := g.Wait(); err != nil {
		s.log.Error("cache fan-out after create failed",
			zap.String("collection", e.collection),
			zap.String("slug", slug),
			zap.Error(err))
		return errors.Wrapf(err, "%s created but cache update failed", e.collection)
	}
	return nil
}

// deleteThrough removes the record from the store, then clears every cache
// key under the resource's chain and its list item.
func deleteThrough[R, F any](ctx context.Context, s *Service, e entity[R, F], slug string) error {
	if err := e.deleteStore(ctx, slug); err != nil {
		return err
	}

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
		return removeListItemBySlug(gctx, s, e, slug)
	})
	if err := g.Wait(); err != nil {
		s.log.Error("cache fan-out after delete failed",
			zap.String("collection", e.collection),
			zap.String("slug", slug),
			zap.Error(err))
		return errors.Wrapf(err, "%s deleted but cache update failed", e.collection)
	}
	return nil
}

// removeListItemBySlug locates the cached list item carrying slug and
// removes that exact encoded value. Matching the cached bytes, not a
// re-encoding of a merged record, keeps value-equality removal immune to
// field drift.
func removeListItemBySlug[R, F any](ctx context.Context, s *Service, e entity[R, F], slug string) error {
	raw, err := s.cache.GetList(ctx, e.listKey)
	if err != nil {
		return err
	}
	for _, item := range raw {
		ref, err := cache.DecodeItem[R](item)
		if err != nil {
			return err
		}
		if e.refSlug(ref) == slug {
			return s.cache.RemoveList(ctx, e.listKey, item)
		}
	}
	return nil
}

// cachedRefBySlug returns the decoded list item for slug plus its exact
// encoded bytes, if present.
func cachedRefBySlug[R, F any](ctx context.Context, s *Service, e entity[R, F], slug string) (R, []byte, bool, error) {
	var zero R
	raw, err := s.cache.GetList(ctx, e.listKey)
	if err != nil {
		return zero, nil, false, err
	}
	for _, item := range raw {
		ref, err := cache.DecodeItem[R](item)
		if err != nil {
			return zero, nil, false, err
		}
		if e.refSlug(ref) == slug {
			return ref, item, true, nil
		}
	}
	return zero, nil, false, nil
}
