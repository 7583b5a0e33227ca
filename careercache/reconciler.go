package careercache

import (
	"context"

	"github.com/goliatone/go-career-cache/cache"
	"github.com/goliatone/go-career-cache/career"
	"go.uber.org/zap"
)

// Reconciler repairs cache entries that have diverged from the
// authoritative store, for example after a partial multi-write.
type Reconciler interface {
	ReconcileUser(ctx context.Context, email string) error
}

// StoreRebuild implements Reconciler the blunt way: it drops every cache
// key in the email namespace and repopulates the lists and singletons
// through the ordinary read-through paths. Benchmark singletons reappear
// lazily on first read.
type StoreRebuild struct {
	svc *Service
	log *zap.Logger
}

// NewStoreRebuild returns a store-driven Reconciler over svc.
func NewStoreRebuild(svc *Service) *StoreRebuild {
	return &StoreRebuild{svc: svc, log: svc.log}
}

// ReconcileUser rebuilds the email namespace from the store. An email with
// no stored owner just ends up with an empty namespace.
func (r *StoreRebuild) ReconcileUser(ctx context.Context, email string) error {
	if err := requireIdent("email", email); err != nil {
		return err
	}

	keys, err := r.svc.cache.Keys(ctx, cache.UserPattern(email))
	if err != nil {
		return err
	}
	if len(keys) > 0 {
		if err := r.svc.cache.Delete(ctx, keys...); err != nil {
			return err
		}
	}

	orgs, err := r.svc.Organizations(ctx, email)
	if career.IsNotFound(err) {
		r.log.Info("nothing to rebuild", zap.String("email", email))
		return nil
	}
	if err != nil {
		return err
	}

	for _, orgRef := range orgs {
		if _, err := r.svc.Organization(ctx, email, orgRef.Slug); err != nil {
			return err
		}

		positions, err := r.svc.Positions(ctx, email, orgRef.Slug)
		if err != nil {
			return err
		}
		for _, posRef := range positions {
			if _, err := r.svc.Position(ctx, email, orgRef.Slug, posRef.Slug); err != nil {
				return err
			}
			for _, cat := range career.Categories {
				if _, err := r.svc.Benchmarks(ctx, email, orgRef.Slug, posRef.Slug, cat); err != nil {
					return err
				}
			}
		}
	}

	r.log.Info("rebuilt cache namespace",
		zap.String("email", email),
		zap.Int("organizations", len(orgs)))
	return nil
}
