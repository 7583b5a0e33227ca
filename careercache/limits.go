package careercache

import (
	"context"

	"github.com/goliatone/go-career-cache/cache"
	"github.com/goliatone/go-career-cache/career"
	"go.uber.org/zap"
)

// PlanCeilings returns the configured ceilings for a tier, cached under the
// per-tier limits key.
func (s *Service) PlanCeilings(ctx context.Context, tier career.Tier) (career.PlanLimits, error) {
	key := cache.PlanLimitsKey(string(tier))

	limits, found, err := cache.GetValue[career.PlanLimits](ctx, s.cache, key)
	if err != nil {
		return career.PlanLimits{}, err
	}
	if found {
		return limits, nil
	}

	limits = s.limits.For(tier)
	if err := cache.SetValue(ctx, s.cache, key, limits, 0); err != nil {
		s.log.Warn("plan ceilings caching failed",
			zap.String("tier", string(tier)),
			zap.Error(err))
	}
	return limits, nil
}

// ceilingsFor resolves the acting user's ceilings. Tier resolution never
// fails closed: an unresolvable plan reads as FREE.
func (s *Service) ceilingsFor(ctx context.Context, email string) (career.PlanLimits, error) {
	tier := career.TierFree
	if plan, err := s.UserPlan(ctx, email); err == nil {
		tier = plan.Tier
	} else {
		s.log.Warn("plan resolution failed, assuming FREE",
			zap.String("email", email),
			zap.Error(err))
	}
	return s.PlanCeilings(ctx, tier)
}

// checkQuota refuses a creation once the collection has reached its
// ceiling. The cached count decides first: at or above the ceiling the
// refusal is immediate with no store round trip. Only an under-ceiling
// cached count is re-checked against the authoritative store, which
// catches a cache that has evicted entries and under-counts.
//
// A non-positive ceiling means the tier is unlimited for that collection.
func checkQuota(ctx context.Context, collection string, max, cachedCount int, storeCount func(context.Context) (int, error)) error {
	if max <= 0 {
		return nil
	}
	if cachedCount >= max {
		return career.QuotaExceeded(collection)
	}

	n, err := storeCount(ctx)
	if err != nil {
		return err
	}
	if n >= max {
		return career.QuotaExceeded(collection)
	}
	return nil
}

func (s *Service) enforceOrganizationQuota(ctx context.Context, email string) error {
	limits, err := s.ceilingsFor(ctx, email)
	if err != nil {
		return err
	}
	cached, err := s.cache.GetList(ctx, cache.UserOrgsKey(email))
	if err != nil {
		return err
	}
	return checkQuota(ctx, "organizations", limits.MaxOrganizations, len(cached),
		func(ctx context.Context) (int, error) {
			n, err := s.store.CountOrganizations(ctx, email)
			if career.IsNotFound(err) {
				return 0, nil
			}
			return n, err
		})
}

func (s *Service) enforcePositionQuota(ctx context.Context, email, orgSlug string) error {
	limits, err := s.ceilingsFor(ctx, email)
	if err != nil {
		return err
	}
	cached, err := s.cache.GetList(ctx, cache.OrgPositionsKey(email, orgSlug))
	if err != nil {
		return err
	}
	return checkQuota(ctx, "positions", limits.MaxPositions, len(cached),
		func(ctx context.Context) (int, error) {
			return s.store.CountPositions(ctx, email, orgSlug)
		})
}

func (s *Service) enforceBenchmarkQuota(ctx context.Context, email, orgSlug, positionSlug string, cat career.Category) error {
	limits, err := s.ceilingsFor(ctx, email)
	if err != nil {
		return err
	}
	cached, err := s.cache.GetList(ctx, cache.BenchmarkListKey(email, orgSlug, positionSlug, string(cat)))
	if err != nil {
		return err
	}
	return checkQuota(ctx, string(cat), limits.MaxBenchmarks(cat), len(cached),
		func(ctx context.Context) (int, error) {
			return s.store.CountBenchmarks(ctx, email, orgSlug, positionSlug, cat)
		})
}
