package careercache

import (
	"context"
	"testing"

	"github.com/goliatone/go-career-cache/cache"
	"github.com/goliatone/go-career-cache/career"
)

func TestOrganizationReadThroughPopulatesSingleton(t *testing.T) {
	svc, store, gateway := newTestService(t)
	ctx := context.Background()
	email := "jane@example.com"

	seedUser(gateway, email)
	gateway.orgs[email] = []career.Organization{{Name: "acme corp", Slug: "acme-corp-000000000001"}}

	org, err := svc.Organization(ctx, email, "acme-corp-000000000001")
	if err != nil {
		t.Fatalf("Organization() error: %v", err)
	}
	if org.Name != "acme corp" {
		t.Errorf("unexpected name %q", org.Name)
	}
	if got := gateway.callCount("LoadOrganization"); got != 1 {
		t.Errorf("expected 1 store load, got %d", got)
	}

	// The singleton entry is populated; the second read never hits the
	// store.
	if _, found, _ := store.GetHash(ctx, cache.OrgKey(email, "acme-corp-000000000001")); !found {
		t.Fatal("expected singleton cache entry after read-through")
	}
	if _, err := svc.Organization(ctx, email, "acme-corp-000000000001"); err != nil {
		t.Fatalf("second Organization() error: %v", err)
	}
	if got := gateway.callCount("LoadOrganization"); got != 1 {
		t.Errorf("expected cached read, store loads = %d", got)
	}
}

func TestOrganizationsListRepopulatesAfterEviction(t *testing.T) {
	svc, store, gateway := newTestService(t)
	ctx := context.Background()
	email := "jane@example.com"

	seedUser(gateway, email)
	gateway.orgs[email] = []career.Organization{
		{Name: "acme corp", Slug: "acme-corp-000000000001"},
		{Name: "globex", Slug: "globex-000000000002"},
	}

	refs, err := svc.Organizations(ctx, email)
	if err != nil {
		t.Fatalf("Organizations() error: %v", err)
	}
	if len(refs) != 2 {
		t.Fatalf("expected 2 refs, got %d", len(refs))
	}

	store.Evict(cache.UserOrgsKey(email))

	refs, err = svc.Organizations(ctx, email)
	if err != nil {
		t.Fatalf("Organizations() after eviction error: %v", err)
	}
	if len(refs) != 2 {
		t.Fatalf("expected repopulated list of 2, got %d", len(refs))
	}
	if got := gateway.callCount("ListOrganizations"); got != 2 {
		t.Errorf("expected 2 store listings, got %d", got)
	}
}

func TestCreateOrganizationListAndSingletonAgree(t *testing.T) {
	svc, store, gateway := newTestService(t)
	ctx := context.Background()
	email := "jane@example.com"
	seedUser(gateway, email)

	org, err := svc.CreateOrganization(ctx, email, career.NewOrganization{Name: "Acme Corp"})
	if err != nil {
		t.Fatalf("CreateOrganization() error: %v", err)
	}
	if org.Name != "acme corp" {
		t.Errorf("expected normalized name, got %q", org.Name)
	}

	refs, err := cache.GetList[career.OrgRef](ctx, store, cache.UserOrgsKey(email))
	if err != nil {
		t.Fatalf("reading list cache: %v", err)
	}
	if len(refs) != 1 {
		t.Fatalf("expected 1 list item, got %d", len(refs))
	}

	single, found, err := cache.GetHash[career.Organization](ctx, store, cache.OrgKey(email, org.Slug))
	if err != nil || !found {
		t.Fatalf("reading singleton cache: found=%v err=%v", found, err)
	}

	if refs[0].Slug != single.Slug || refs[0].Name != single.Name {
		t.Errorf("list item %+v disagrees with singleton %+v", refs[0], single)
	}
	if refs[0] != org.Ref() {
		t.Errorf("list item %+v disagrees with created record %+v", refs[0], org.Ref())
	}
	if len(gateway.orgs[email]) != 1 {
		t.Errorf("expected 1 stored org, got %d", len(gateway.orgs[email]))
	}
}

func TestCreateOrganizationClearsFirstTimeFlag(t *testing.T) {
	svc, store, gateway := newTestService(t)
	ctx := context.Background()
	email := "jane@example.com"
	seedUser(gateway, email)

	if _, err := svc.CreateOrganization(ctx, email, career.NewOrganization{Name: "Acme Corp"}); err != nil {
		t.Fatalf("CreateOrganization() error: %v", err)
	}

	first, found, err := cache.GetValue[bool](ctx, store, cache.FirstTimeKey(email))
	if err != nil || !found {
		t.Fatalf("reading first-time flag: found=%v err=%v", found, err)
	}
	if first {
		t.Error("expected first-time flag cleared after first organization")
	}
}

func TestCreatePositionFlipsFlagOnce(t *testing.T) {
	svc, store, gateway := newTestService(t)
	ctx := context.Background()
	email := "jane@example.com"
	seedUser(gateway, email)

	org, err := svc.CreateOrganization(ctx, email, career.NewOrganization{Name: "Acme Corp"})
	if err != nil {
		t.Fatalf("CreateOrganization() error: %v", err)
	}

	newPos := func(title string) career.NewPosition {
		return career.NewPosition{
			Title:    title,
			Timeline: career.Timeline{Month: career.March, Year: 2022},
		}
	}

	if _, err := svc.CreatePosition(ctx, email, org.Slug, newPos("Engineer")); err != nil {
		t.Fatalf("CreatePosition() error: %v", err)
	}

	stored, _ := gateway.LoadOrganization(ctx, email, org.Slug)
	if !stored.HasCreatedPositionBefore {
		t.Error("expected stored has-created-position flag set")
	}
	cached, found, err := cache.GetHash[career.Organization](ctx, store, cache.OrgKey(email, org.Slug))
	if err != nil || !found {
		t.Fatalf("reading org singleton: found=%v err=%v", found, err)
	}
	if !cached.HasCreatedPositionBefore {
		t.Error("expected cached has-created-position flag set")
	}

	// The flag is monotonic: the second creation does not mark again.
	if _, err := svc.CreatePosition(ctx, email, org.Slug, newPos("Manager")); err != nil {
		t.Fatalf("second CreatePosition() error: %v", err)
	}
	if got := gateway.callCount("MarkPositionCreated"); got != 1 {
		t.Errorf("expected 1 mark call, got %d", got)
	}
}

func TestCreateBenchmarkFlipsCategoryFlag(t *testing.T) {
	svc, _, gateway := newTestService(t)
	ctx := context.Background()
	email := "jane@example.com"
	seedUser(gateway, email)

	org, err := svc.CreateOrganization(ctx, email, career.NewOrganization{Name: "Acme Corp"})
	if err != nil {
		t.Fatalf("CreateOrganization() error: %v", err)
	}
	pos, err := svc.CreatePosition(ctx, email, org.Slug, career.NewPosition{
		Title:    "Engineer",
		Timeline: career.Timeline{Month: career.March, Year: 2022},
	})
	if err != nil {
		t.Fatalf("CreatePosition() error: %v", err)
	}

	b, err := svc.CreateBenchmark(ctx, email, org.Slug, pos.Slug,
		career.CategoryFailures, career.NewBenchmark{
			Title:    "Shipped a bad migration",
			Timeline: career.Timeline{Month: career.May, Year: 2023},
		})
	if err != nil {
		t.Fatalf("CreateBenchmark() error: %v", err)
	}
	if b.Category() != career.CategoryFailures {
		t.Errorf("unexpected category %s", b.Category())
	}
	if b.Meta().CreatedAt != testTime {
		t.Errorf("expected pinned creation time, got %v", b.Meta().CreatedAt)
	}

	stored, _ := gateway.LoadOrganization(ctx, email, org.Slug)
	if !stored.HasCreatedFailureBefore {
		t.Error("expected stored has-created-failure flag set")
	}
	if stored.HasCreatedAchievementBefore {
		t.Error("achievement flag must stay false")
	}
}

func TestBenchmarkReadThroughDecodesConcreteType(t *testing.T) {
	svc, store, gateway := newTestService(t)
	ctx := context.Background()
	email := "jane@example.com"
	seedUser(gateway, email)

	org, _ := svc.CreateOrganization(ctx, email, career.NewOrganization{Name: "Acme Corp"})
	pos, _ := svc.CreatePosition(ctx, email, org.Slug, career.NewPosition{
		Title:    "Engineer",
		Timeline: career.Timeline{Month: career.March, Year: 2022},
	})
	created, err := svc.CreateBenchmark(ctx, email, org.Slug, pos.Slug,
		career.CategoryProjects, career.NewBenchmark{
			Title:    "Cache Layer",
			Timeline: career.Timeline{Month: career.July, Year: 2023},
		})
	if err != nil {
		t.Fatalf("CreateBenchmark() error: %v", err)
	}
	slug := created.Meta().Slug

	// Drop the singleton so the next read decodes from the store, then
	// read again from the cache entry it repopulated.
	store.Evict(cache.BenchmarkKey(email, org.Slug, pos.Slug, "pro", slug))

	for i := 0; i < 2; i++ {
		got, err := svc.Benchmark(ctx, email, org.Slug, pos.Slug, career.CategoryProjects, slug)
		if err != nil {
			t.Fatalf("Benchmark() read %d error: %v", i, err)
		}
		project, ok := got.(career.Project)
		if !ok {
			t.Fatalf("read %d: expected career.Project, got %T", i, got)
		}
		if project.MonthStartedAt != career.July || project.YearStartedAt != 2023 {
			t.Errorf("read %d: unexpected timeline %s %d", i, project.MonthStartedAt, project.YearStartedAt)
		}
	}
	if got := gateway.callCount("LoadBenchmark"); got != 1 {
		t.Errorf("expected 1 store load, got %d", got)
	}
}

func TestDeleteOrganizationRemovesKeyChain(t *testing.T) {
	svc, store, gateway := newTestService(t)
	ctx := context.Background()
	email := "jane@example.com"
	seedUser(gateway, email)

	org, _ := svc.CreateOrganization(ctx, email, career.NewOrganization{Name: "Acme Corp"})
	pos, _ := svc.CreatePosition(ctx, email, org.Slug, career.NewPosition{
		Title:    "Engineer",
		Timeline: career.Timeline{Month: career.March, Year: 2022},
	})
	if _, err := svc.CreateBenchmark(ctx, email, org.Slug, pos.Slug,
		career.CategoryAchievements, career.NewBenchmark{
			Title:    "Launched v2",
			Timeline: career.Timeline{Month: career.May, Year: 2023},
		}); err != nil {
		t.Fatalf("CreateBenchmark() error: %v", err)
	}

	if err := svc.DeleteOrganization(ctx, email, org.Slug); err != nil {
		t.Fatalf("DeleteOrganization() error: %v", err)
	}

	keys, err := store.Keys(ctx, cache.OrgPattern(email, org.Slug))
	if err != nil {
		t.Fatalf("Keys() error: %v", err)
	}
	if len(keys) != 0 {
		t.Errorf("expected empty key chain, found %v", keys)
	}

	refs, err := cache.GetList[career.OrgRef](ctx, store, cache.UserOrgsKey(email))
	if err != nil {
		t.Fatalf("reading list cache: %v", err)
	}
	if len(refs) != 0 {
		t.Errorf("expected empty org list, got %v", refs)
	}
	if len(gateway.orgs[email]) != 0 {
		t.Errorf("expected stored orgs removed, got %d", len(gateway.orgs[email]))
	}
}

func TestDeleteAbsentOrganizationReturnsNotFound(t *testing.T) {
	svc, _, gateway := newTestService(t)
	ctx := context.Background()
	seedUser(gateway, "jane@example.com")

	err := svc.DeleteOrganization(ctx, "jane@example.com", "ghost-000000000099")
	if !career.IsNotFound(err) {
		t.Errorf("expected NotFound, got %v", err)
	}
}
