package careercache

import (
	"context"
	"time"

	"github.com/goliatone/go-career-cache/cache"
	"github.com/goliatone/go-career-cache/career"
	"go.uber.org/zap"
)

// RegisterUser records a new owner in the store and marks the email
// namespace as no longer first-time.
func (s *Service) RegisterUser(ctx context.Context, u career.User) error {
	if err := requireIdent("email", u.Email); err != nil {
		return err
	}
	if err := s.store.CreateUser(ctx, u); err != nil {
		return err
	}
	if err := cache.SetValue(ctx, s.cache, cache.FirstTimeKey(u.Email), false, 0); err != nil {
		s.log.Warn("first-time flag caching failed",
			zap.String("email", u.Email),
			zap.Error(err))
	}
	return nil
}

// User returns the owner record for an email.
func (s *Service) User(ctx context.Context, email string) (career.User, error) {
	if err := requireIdent("email", email); err != nil {
		return career.User{}, err
	}
	return s.store.LoadUser(ctx, email)
}

// VerifyFirstTime reports whether this email has never been seen before.
// The answer is cached; on miss it falls back to an existence check against
// the store and caches the result.
func (s *Service) VerifyFirstTime(ctx context.Context, email string) (bool, error) {
	if err := requireIdent("email", email); err != nil {
		return false, err
	}

	key := cache.FirstTimeKey(email)
	first, found, err := cache.GetValue[bool](ctx, s.cache, key)
	if err != nil {
		return false, err
	}
	if found {
		return first, nil
	}

	exists, err := s.store.UserExists(ctx, email)
	if err != nil {
		return false, err
	}
	first = !exists
	if err := cache.SetValue(ctx, s.cache, key, first, 0); err != nil {
		s.log.Warn("first-time flag caching failed",
			zap.String("email", email),
			zap.Error(err))
	}
	return first, nil
}

// UserPlan resolves the user's plan: cache, then store, provisioning a FREE
// plan for stored users that lack one. An unresolvable plan reads as FREE.
// The answer is cached either way.
func (s *Service) UserPlan(ctx context.Context, email string) (career.Plan, error) {
	if err := requireIdent("email", email); err != nil {
		return career.Plan{}, err
	}

	key := cache.UserPlanKey(email)
	plan, found, err := cache.GetValue[career.Plan](ctx, s.cache, key)
	if err != nil {
		return career.Plan{}, err
	}
	if found {
		return plan, nil
	}

	plan, err = s.store.LoadPlan(ctx, email)
	if career.IsNotFound(err) {
		plan, err = s.store.CreateFreePlan(ctx, email)
		if career.IsNotFound(err) {
			plan, err = career.Plan{Tier: career.TierFree}, nil
		}
	}
	if err != nil {
		return career.Plan{}, err
	}

	if err := cache.SetValue(ctx, s.cache, key, plan, 0); err != nil {
		s.log.Warn("plan caching failed",
			zap.String("email", email),
			zap.Error(err))
	}
	return plan, nil
}

// SetAccessToken caches an upstream access token for the email namespace.
func (s *Service) SetAccessToken(ctx context.Context, email, token string, ttl time.Duration) error {
	if err := requireChain("email", email, "token", token); err != nil {
		return err
	}
	return cache.SetValue(ctx, s.cache, cache.AccessTokenKey(email), token, ttl)
}

// AccessToken returns the cached access token, if one is live.
func (s *Service) AccessToken(ctx context.Context, email string) (string, bool, error) {
	if err := requireIdent("email", email); err != nil {
		return "", false, err
	}
	return cache.GetValue[string](ctx, s.cache, cache.AccessTokenKey(email))
}

// DeleteUser removes the owner from the store, then clears every cache key
// in the email namespace.
func (s *Service) DeleteUser(ctx context.Context, email string) error {
	if err := requireIdent("email", email); err != nil {
		return err
	}

	if err := s.store.DeleteUser(ctx, email); err != nil {
		return err
	}

	keys, err := s.cache.Keys(ctx, cache.UserPattern(email))
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	if err := s.cache.Delete(ctx, keys...); err != nil {
		s.log.Error("cache cleanup after user delete failed",
			zap.String("email", email),
			zap.Error(err))
		return err
	}
	return nil
}
