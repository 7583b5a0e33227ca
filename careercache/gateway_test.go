package careercache

import (
	"context"
	"fmt"
	"sync"

	"github.com/goliatone/go-career-cache/career"
)

// fakeGateway implements Gateway over in-memory slices. It tracks per-method
// call counts so tests can assert which paths touched the store.
type fakeGateway struct {
	mu    sync.Mutex
	users map[string]career.User
	plans map[string]career.Plan
	// orgs, positions, and benchmarks are ordered per owner key to mirror
	// the store's oldest-first listing.
	orgs       map[string][]career.Organization
	positions  map[string][]career.Position
	benchmarks map[string][]career.Benchmark
	calls      map[string]int
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		users:      make(map[string]career.User),
		plans:      make(map[string]career.Plan),
		orgs:       make(map[string][]career.Organization),
		positions:  make(map[string][]career.Position),
		benchmarks: make(map[string][]career.Benchmark),
		calls:      make(map[string]int),
	}
}

func (g *fakeGateway) track(method string) {
	g.calls[method]++
}

func (g *fakeGateway) callCount(method string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls[method]
}

func posKey(email, orgSlug string) string {
	return email + "/" + orgSlug
}

func benchKey(email, orgSlug, positionSlug string, cat career.Category) string {
	return fmt.Sprintf("%s/%s/%s/%s", email, orgSlug, positionSlug, cat)
}

func (g *fakeGateway) CreateUser(_ context.Context, u career.User) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.track("CreateUser")
	g.users[u.Email] = u
	g.plans[u.Email] = career.Plan{Tier: career.TierFree}
	return nil
}

func (g *fakeGateway) LoadUser(_ context.Context, email string) (career.User, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.track("LoadUser")
	u, ok := g.users[email]
	if !ok {
		return career.User{}, career.NotFoundf("user %s not found", email)
	}
	return u, nil
}

func (g *fakeGateway) UserExists(_ context.Context, email string) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.track("UserExists")
	_, ok := g.users[email]
	return ok, nil
}

func (g *fakeGateway) DeleteUser(_ context.Context, email string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.track("DeleteUser")
	if _, ok := g.users[email]; !ok {
		return career.NotFoundf("user %s not found", email)
	}
	delete(g.users, email)
	delete(g.plans, email)
	delete(g.orgs, email)
	return nil
}

func (g *fakeGateway) LoadPlan(_ context.Context, email string) (career.Plan, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.track("LoadPlan")
	plan, ok := g.plans[email]
	if !ok {
		return career.Plan{}, career.NotFoundf("plan for %s not found", email)
	}
	return plan, nil
}

func (g *fakeGateway) CreateFreePlan(_ context.Context, email string) (career.Plan, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.track("CreateFreePlan")
	if _, ok := g.users[email]; !ok {
		return career.Plan{}, career.NotFoundf("user %s not found", email)
	}
	plan := career.Plan{Tier: career.TierFree}
	g.plans[email] = plan
	return plan, nil
}

func (g *fakeGateway) ListOrganizations(_ context.Context, email string) ([]career.Organization, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.track("ListOrganizations")
	if _, ok := g.users[email]; !ok {
		return nil, career.NotFoundf("user %s not found", email)
	}
	return append([]career.Organization(nil), g.orgs[email]...), nil
}

func (g *fakeGateway) LoadOrganization(_ context.Context, email, slug string) (career.Organization, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.track("LoadOrganization")
	for _, org := range g.orgs[email] {
		if org.Slug == slug {
			return org, nil
		}
	}
	return career.Organization{}, career.NotFoundf("organization %s not found", slug)
}

func (g *fakeGateway) CreateOrganization(_ context.Context, email string, org career.Organization) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.track("CreateOrganization")
	g.orgs[email] = append(g.orgs[email], org)
	return nil
}

func (g *fakeGateway) PatchOrganization(_ context.Context, email, oldSlug string, updated career.OrgRef) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.track("PatchOrganization")
	for i, org := range g.orgs[email] {
		if org.Slug == oldSlug {
			org.Name = updated.Name
			org.Slug = updated.Slug
			g.orgs[email][i] = org
			return nil
		}
	}
	return career.NotFoundf("organization %s not found", oldSlug)
}

func (g *fakeGateway) DeleteOrganization(_ context.Context, email, slug string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.track("DeleteOrganization")
	for i, org := range g.orgs[email] {
		if org.Slug == slug {
			g.orgs[email] = append(g.orgs[email][:i], g.orgs[email][i+1:]...)
			delete(g.positions, posKey(email, slug))
			return nil
		}
	}
	return career.NotFoundf("organization %s not found", slug)
}

func (g *fakeGateway) CountOrganizations(_ context.Context, email string) (int, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.track("CountOrganizations")
	if _, ok := g.users[email]; !ok {
		return 0, career.NotFoundf("user %s not found", email)
	}
	return len(g.orgs[email]), nil
}

func (g *fakeGateway) MarkPositionCreated(_ context.Context, email, orgSlug string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.track("MarkPositionCreated")
	for i, org := range g.orgs[email] {
		if org.Slug == orgSlug {
			org.HasCreatedPositionBefore = true
			g.orgs[email][i] = org
			return nil
		}
	}
	return career.NotFoundf("organization %s not found", orgSlug)
}

func (g *fakeGateway) MarkBenchmarkCreated(_ context.Context, email, orgSlug string, cat career.Category) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.track("MarkBenchmarkCreated")
	for i, org := range g.orgs[email] {
		if org.Slug == orgSlug {
			g.orgs[email][i] = org.WithCreated(cat)
			return nil
		}
	}
	return career.NotFoundf("organization %s not found", orgSlug)
}

func (g *fakeGateway) ListPositions(_ context.Context, email, orgSlug string) ([]career.Position, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.track("ListPositions")
	if err := g.requireOrg(email, orgSlug); err != nil {
		return nil, err
	}
	return append([]career.Position(nil), g.positions[posKey(email, orgSlug)]...), nil
}

func (g *fakeGateway) LoadPosition(_ context.Context, email, orgSlug, slug string) (career.Position, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.track("LoadPosition")
	for _, pos := range g.positions[posKey(email, orgSlug)] {
		if pos.Slug == slug {
			return pos, nil
		}
	}
	return career.Position{}, career.NotFoundf("position %s not found", slug)
}

func (g *fakeGateway) CreatePosition(_ context.Context, email, orgSlug string, p career.Position) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.track("CreatePosition")
	if err := g.requireOrg(email, orgSlug); err != nil {
		return err
	}
	key := posKey(email, orgSlug)
	g.positions[key] = append(g.positions[key], p)
	return nil
}

func (g *fakeGateway) PatchPosition(_ context.Context, email, orgSlug, oldSlug string, updated career.Position) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.track("PatchPosition")
	key := posKey(email, orgSlug)
	for i, pos := range g.positions[key] {
		if pos.Slug == oldSlug {
			g.positions[key][i] = updated
			return nil
		}
	}
	return career.NotFoundf("position %s not found", oldSlug)
}

func (g *fakeGateway) DeletePosition(_ context.Context, email, orgSlug, slug string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.track("DeletePosition")
	key := posKey(email, orgSlug)
	for i, pos := range g.positions[key] {
		if pos.Slug == slug {
			g.positions[key] = append(g.positions[key][:i], g.positions[key][i+1:]...)
			return nil
		}
	}
	return career.NotFoundf("position %s not found", slug)
}

func (g *fakeGateway) CountPositions(_ context.Context, email, orgSlug string) (int, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.track("CountPositions")
	if err := g.requireOrg(email, orgSlug); err != nil {
		return 0, err
	}
	return len(g.positions[posKey(email, orgSlug)]), nil
}

func (g *fakeGateway) ListBenchmarks(_ context.Context, email, orgSlug, positionSlug string, cat career.Category) ([]career.Benchmark, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.track("ListBenchmarks")
	if err := g.requirePosition(email, orgSlug, positionSlug); err != nil {
		return nil, err
	}
	return append([]career.Benchmark(nil), g.benchmarks[benchKey(email, orgSlug, positionSlug, cat)]...), nil
}

func (g *fakeGateway) LoadBenchmark(_ context.Context, email, orgSlug, positionSlug string, cat career.Category, slug string) (career.Benchmark, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.track("LoadBenchmark")
	for _, b := range g.benchmarks[benchKey(email, orgSlug, positionSlug, cat)] {
		if b.Meta().Slug == slug {
			return b, nil
		}
	}
	return nil, career.NotFoundf("%s %s not found", cat, slug)
}

func (g *fakeGateway) CreateBenchmark(_ context.Context, email, orgSlug, positionSlug string, b career.Benchmark) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.track("CreateBenchmark")
	if err := g.requirePosition(email, orgSlug, positionSlug); err != nil {
		return err
	}
	key := benchKey(email, orgSlug, positionSlug, b.Category())
	g.benchmarks[key] = append(g.benchmarks[key], b)
	return nil
}

func (g *fakeGateway) PatchBenchmark(_ context.Context, email, orgSlug, positionSlug string, cat career.Category, oldSlug string, updated career.Benchmark) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.track("PatchBenchmark")
	key := benchKey(email, orgSlug, positionSlug, cat)
	for i, b := range g.benchmarks[key] {
		if b.Meta().Slug == oldSlug {
			g.benchmarks[key][i] = updated
			return nil
		}
	}
	return career.NotFoundf("%s %s not found", cat, oldSlug)
}

func (g *fakeGateway) DeleteBenchmark(_ context.Context, email, orgSlug, positionSlug string, cat career.Category, slug string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.track("DeleteBenchmark")
	key := benchKey(email, orgSlug, positionSlug, cat)
	for i, b := range g.benchmarks[key] {
		if b.Meta().Slug == slug {
			g.benchmarks[key] = append(g.benchmarks[key][:i], g.benchmarks[key][i+1:]...)
			return nil
		}
	}
	return career.NotFoundf("%s %s not found", cat, slug)
}

func (g *fakeGateway) CountBenchmarks(_ context.Context, email, orgSlug, positionSlug string, cat career.Category) (int, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.track("CountBenchmarks")
	if err := g.requirePosition(email, orgSlug, positionSlug); err != nil {
		return 0, err
	}
	return len(g.benchmarks[benchKey(email, orgSlug, positionSlug, cat)]), nil
}

func (g *fakeGateway) requireOrg(email, orgSlug string) error {
	if _, ok := g.users[email]; !ok {
		return career.NotFoundf("user %s not found", email)
	}
	for _, org := range g.orgs[email] {
		if org.Slug == orgSlug {
			return nil
		}
	}
	return career.NotFoundf("organization %s not found", orgSlug)
}

func (g *fakeGateway) requirePosition(email, orgSlug, positionSlug string) error {
	if err := g.requireOrg(email, orgSlug); err != nil {
		return err
	}
	for _, pos := range g.positions[posKey(email, orgSlug)] {
		if pos.Slug == positionSlug {
			return nil
		}
	}
	return career.NotFoundf("position %s not found", positionSlug)
}
