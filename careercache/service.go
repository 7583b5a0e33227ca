package careercache

import (
	"context"
	"time"

	"github.com/goliatone/go-career-cache/cache"
	"github.com/goliatone/go-career-cache/career"
	"go.uber.org/zap"
)

// Gateway is the slice of the authoritative store the service depends on.
// storage.Store satisfies it; tests substitute hand-written fakes.
type Gateway interface {
	CreateUser(ctx context.Context, u career.User) error
	LoadUser(ctx context.Context, email string) (career.User, error)
	UserExists(ctx context.Context, email string) (bool, error)
	DeleteUser(ctx context.Context, email string) error
	LoadPlan(ctx context.Context, email string) (career.Plan, error)
	CreateFreePlan(ctx context.Context, email string) (career.Plan, error)

	ListOrganizations(ctx context.Context, email string) ([]career.Organization, error)
	LoadOrganization(ctx context.Context, email, slug string) (career.Organization, error)
	CreateOrganization(ctx context.Context, email string, org career.Organization) error
	PatchOrganization(ctx context.Context, email, oldSlug string, updated career.OrgRef) error
	DeleteOrganization(ctx context.Context, email, slug string) error
	CountOrganizations(ctx context.Context, email string) (int, error)
	MarkPositionCreated(ctx context.Context, email, orgSlug string) error
	MarkBenchmarkCreated(ctx context.Context, email, orgSlug string, cat career.Category) error

	ListPositions(ctx context.Context, email, orgSlug string) ([]career.Position, error)
	LoadPosition(ctx context.Context, email, orgSlug, slug string) (career.Position, error)
	CreatePosition(ctx context.Context, email, orgSlug string, p career.Position) error
	PatchPosition(ctx context.Context, email, orgSlug, oldSlug string, updated career.Position) error
	DeletePosition(ctx context.Context, email, orgSlug, slug string) error
	CountPositions(ctx context.Context, email, orgSlug string) (int, error)

	ListBenchmarks(ctx context.Context, email, orgSlug, positionSlug string, cat career.Category) ([]career.Benchmark, error)
	LoadBenchmark(ctx context.Context, email, orgSlug, positionSlug string, cat career.Category, slug string) (career.Benchmark, error)
	CreateBenchmark(ctx context.Context, email, orgSlug, positionSlug string, b career.Benchmark) error
	PatchBenchmark(ctx context.Context, email, orgSlug, positionSlug string, cat career.Category, oldSlug string, updated career.Benchmark) error
	DeleteBenchmark(ctx context.Context, email, orgSlug, positionSlug string, cat career.Category, slug string) error
	CountBenchmarks(ctx context.Context, email, orgSlug, positionSlug string, cat career.Category) (int, error)
}

// Limits carries the configured ceilings per tier. PRO ceilings are not
// resolved upstream yet; a zero-valued Pro falls back to Free.
type Limits struct {
	Free career.PlanLimits
	Pro  career.PlanLimits
}

// For returns the ceilings for a tier.
func (l Limits) For(tier career.Tier) career.PlanLimits {
	if tier == career.TierPro && l.Pro != (career.PlanLimits{}) {
		return l.Pro
	}
	return l.Free
}

// Service is the cache-coherent facade over the career store. Reads go
// through the cache and repopulate it on miss; writes commit to the store
// first and then fan out the cache updates.
type Service struct {
	cache  cache.Store
	store  Gateway
	limits Limits
	log    *zap.Logger
	now    func() time.Time
	slugFn func(title string) string
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithLogger attaches a structured logger. Defaults to a nop logger.
func WithLogger(log *zap.Logger) ServiceOption {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithSlugger overrides slug generation. Tests pin slugs with this.
func WithSlugger(fn func(title string) string) ServiceOption {
	return func(s *Service) {
		if fn != nil {
			s.slugFn = fn
		}
	}
}

// NewService wires the cache store, the backing store gateway, and the plan
// ceilings together.
func NewService(cacheStore cache.Store, store Gateway, limits Limits, opts ...ServiceOption) *Service {
	s := &Service{
		cache:  cacheStore,
		store:  store,
		limits: limits,
		log:    zap.NewNop(),
		now:    time.Now,
		slugFn: career.GenerateSlug,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// requireIdent rejects blank identifiers before any cache or store I/O.
func requireIdent(name, value string) error {
	if value == "" {
		return career.BadRequestf("missing %s", name)
	}
	return nil
}

func requireChain(pairs ...string) error {
	for i := 0; i+1 < len(pairs); i += 2 {
		if err := requireIdent(pairs[i], pairs[i+1]); err != nil {
			return err
		}
	}
	return nil
}
