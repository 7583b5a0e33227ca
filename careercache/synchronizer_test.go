package careercache

import (
	"context"
	"testing"

	"github.com/goliatone/go-career-cache/cache"
	"github.com/goliatone/go-career-cache/career"
)

func strptr(s string) *string { return &s }

func TestPatchOrganizationRenameCoherence(t *testing.T) {
	svc, store, gateway := newTestService(t)
	ctx := context.Background()
	email := "jane@example.com"
	seedUser(gateway, email)

	org, err := svc.CreateOrganization(ctx, email, career.NewOrganization{Name: "Acme Corp"})
	if err != nil {
		t.Fatalf("CreateOrganization() error: %v", err)
	}

	if err := svc.PatchOrganization(ctx, email, org.Slug,
		career.OrganizationPatch{Name: strptr("Globex")}); err != nil {
		t.Fatalf("PatchOrganization() error: %v", err)
	}

	refs, err := cache.GetList[career.OrgRef](ctx, store, cache.UserOrgsKey(email))
	if err != nil {
		t.Fatalf("reading list cache: %v", err)
	}
	if len(refs) != 1 {
		t.Fatalf("expected exactly one list item after rename, got %d", len(refs))
	}
	if refs[0].Name != "globex" {
		t.Errorf("expected renamed list item, got %q", refs[0].Name)
	}
	if refs[0].Slug == org.Slug {
		t.Error("expected rename to regenerate the slug")
	}

	// Old singleton is gone; a fresh one lives under the new slug.
	if _, found, _ := store.GetHash(ctx, cache.OrgKey(email, org.Slug)); found {
		t.Error("expected old singleton entry dropped")
	}
	renamed, found, err := cache.GetHash[career.Organization](ctx, store, cache.OrgKey(email, refs[0].Slug))
	if err != nil || !found {
		t.Fatalf("expected singleton at new slug, found=%v err=%v", found, err)
	}
	if renamed.Name != "globex" || renamed.Slug != refs[0].Slug {
		t.Errorf("new singleton carries %+v", renamed)
	}
	stored := gateway.orgs[email][0]
	if stored.Name != "globex" || stored.Slug != refs[0].Slug {
		t.Errorf("store row %+v disagrees with list item %+v", stored, refs[0])
	}
}

func TestPatchOrganizationSameNameIsNoop(t *testing.T) {
	svc, _, gateway := newTestService(t)
	ctx := context.Background()
	email := "jane@example.com"
	seedUser(gateway, email)

	org, err := svc.CreateOrganization(ctx, email, career.NewOrganization{Name: "Acme Corp"})
	if err != nil {
		t.Fatalf("CreateOrganization() error: %v", err)
	}

	if err := svc.PatchOrganization(ctx, email, org.Slug,
		career.OrganizationPatch{Name: strptr("acme corp")}); err != nil {
		t.Fatalf("PatchOrganization() error: %v", err)
	}

	if got := gateway.callCount("PatchOrganization"); got != 0 {
		t.Errorf("expected no store patch for unchanged name, got %d", got)
	}
	stored := gateway.orgs[email][0]
	if stored.Slug != org.Slug {
		t.Errorf("expected slug unchanged, got %q", stored.Slug)
	}
}

func TestPatchAbsentEverywhereIsSilentNoop(t *testing.T) {
	svc, _, gateway := newTestService(t)
	ctx := context.Background()
	seedUser(gateway, "jane@example.com")

	err := svc.PatchOrganization(ctx, "jane@example.com", "ghost-000000000099",
		career.OrganizationPatch{Name: strptr("new name")})
	if err != nil {
		t.Fatalf("expected silent no-op, got %v", err)
	}
	if got := gateway.callCount("PatchOrganization"); got != 0 {
		t.Errorf("expected no store patch, got %d", got)
	}
}

func TestPatchStaleCacheOnlyEntryReportsNotFound(t *testing.T) {
	svc, store, gateway := newTestService(t)
	ctx := context.Background()
	email := "jane@example.com"
	seedUser(gateway, email)

	// A list item and singleton with no backing store row: a diverged
	// cache, as a partial multi-write would leave behind.
	ghost := career.Organization{Name: "ghost co", Slug: "ghost-co-000000000042"}
	if err := cache.AppendList(ctx, store, cache.UserOrgsKey(email), ghost.Ref()); err != nil {
		t.Fatalf("seeding list: %v", err)
	}
	if err := cache.SetHash(ctx, store, cache.OrgKey(email, ghost.Slug), ghost); err != nil {
		t.Fatalf("seeding singleton: %v", err)
	}

	err := svc.PatchOrganization(ctx, email, ghost.Slug,
		career.OrganizationPatch{Name: strptr("new name")})
	if !career.IsNotFound(err) {
		t.Fatalf("expected NotFound for diverged entry, got %v", err)
	}

	// The stale entries are cleaned up.
	if _, found, _ := store.GetHash(ctx, cache.OrgKey(email, ghost.Slug)); found {
		t.Error("expected stale singleton dropped")
	}
	refs, _ := cache.GetList[career.OrgRef](ctx, store, cache.UserOrgsKey(email))
	if len(refs) != 0 {
		t.Errorf("expected stale list item dropped, got %v", refs)
	}
}

func TestPatchPositionDescriptionKeepsSlug(t *testing.T) {
	svc, store, gateway := newTestService(t)
	ctx := context.Background()
	email := "jane@example.com"
	seedUser(gateway, email)

	org, _ := svc.CreateOrganization(ctx, email, career.NewOrganization{Name: "Acme Corp"})
	pos, err := svc.CreatePosition(ctx, email, org.Slug, career.NewPosition{
		Title:       "Engineer",
		Description: "old words",
		Timeline:    career.Timeline{Month: career.March, Year: 2022},
	})
	if err != nil {
		t.Fatalf("CreatePosition() error: %v", err)
	}

	if err := svc.PatchPosition(ctx, email, org.Slug, pos.Slug,
		career.PositionPatch{Description: strptr("New Words")}); err != nil {
		t.Fatalf("PatchPosition() error: %v", err)
	}

	stored, err := gateway.LoadPosition(ctx, email, org.Slug, pos.Slug)
	if err != nil {
		t.Fatalf("expected position still addressable by its slug: %v", err)
	}
	if stored.Description != "new words" {
		t.Errorf("expected normalized description, got %q", stored.Description)
	}
	if stored.Title != "engineer" {
		t.Errorf("title must survive a description patch, got %q", stored.Title)
	}

	refs, _ := cache.GetList[career.PositionRef](ctx, store, cache.OrgPositionsKey(email, org.Slug))
	if len(refs) != 1 || refs[0].Slug != pos.Slug {
		t.Errorf("expected list item keyed by unchanged slug, got %+v", refs)
	}

	// The singleton at the unchanged slug is refreshed, not left deleted.
	cached, found, err := cache.GetHash[career.Position](ctx, store, cache.PositionKey(email, org.Slug, pos.Slug))
	if err != nil || !found {
		t.Fatalf("expected refreshed singleton, found=%v err=%v", found, err)
	}
	if cached.Description != "new words" {
		t.Errorf("singleton carries stale description %q", cached.Description)
	}
}

func TestPatchPositionMergesFromListItemOnly(t *testing.T) {
	svc, store, gateway := newTestService(t)
	ctx := context.Background()
	email := "jane@example.com"
	seedUser(gateway, email)

	org, _ := svc.CreateOrganization(ctx, email, career.NewOrganization{Name: "Acme Corp"})
	pos, _ := svc.CreatePosition(ctx, email, org.Slug, career.NewPosition{
		Title:       "Engineer",
		Description: "keep me",
		Timeline:    career.Timeline{Month: career.March, Year: 2022},
	})

	// Evict the singleton: the merge base falls back to the list item over
	// the store row, and no field is lost.
	store.Evict(cache.PositionKey(email, org.Slug, pos.Slug))

	if err := svc.PatchPosition(ctx, email, org.Slug, pos.Slug,
		career.PositionPatch{Timeline: &career.Timeline{Month: career.June, Year: 2023}}); err != nil {
		t.Fatalf("PatchPosition() error: %v", err)
	}

	stored, err := gateway.LoadPosition(ctx, email, org.Slug, pos.Slug)
	if err != nil {
		t.Fatalf("LoadPosition() error: %v", err)
	}
	if stored.MonthStartedAt != career.June || stored.YearStartedAt != 2023 {
		t.Errorf("unexpected timeline %s %d", stored.MonthStartedAt, stored.YearStartedAt)
	}
	if stored.Description != "keep me" {
		t.Errorf("description lost in merge: %q", stored.Description)
	}
}

func TestPatchBenchmarkTitleRegeneratesSlug(t *testing.T) {
	svc, store, gateway := newTestService(t)
	ctx := context.Background()
	email := "jane@example.com"
	seedUser(gateway, email)

	org, _ := svc.CreateOrganization(ctx, email, career.NewOrganization{Name: "Acme Corp"})
	pos, _ := svc.CreatePosition(ctx, email, org.Slug, career.NewPosition{
		Title:    "Engineer",
		Timeline: career.Timeline{Month: career.March, Year: 2022},
	})
	b, err := svc.CreateBenchmark(ctx, email, org.Slug, pos.Slug,
		career.CategoryAchievements, career.NewBenchmark{
			Title:    "Launched v2",
			Timeline: career.Timeline{Month: career.May, Year: 2023},
		})
	if err != nil {
		t.Fatalf("CreateBenchmark() error: %v", err)
	}
	oldSlug := b.Meta().Slug

	if err := svc.PatchBenchmark(ctx, email, org.Slug, pos.Slug,
		career.CategoryAchievements, oldSlug,
		career.BenchmarkPatch{Title: strptr("Launched v3")}); err != nil {
		t.Fatalf("PatchBenchmark() error: %v", err)
	}

	listKey := cache.BenchmarkListKey(email, org.Slug, pos.Slug, string(career.CategoryAchievements))
	refs, _ := cache.GetList[career.BenchmarkRef](ctx, store, listKey)
	if len(refs) != 1 {
		t.Fatalf("expected one list item, got %d", len(refs))
	}
	if refs[0].Title != "launched v3" || refs[0].Slug == oldSlug {
		t.Errorf("expected renamed item with fresh slug, got %+v", refs[0])
	}

	if _, err := gateway.LoadBenchmark(ctx, email, org.Slug, pos.Slug, career.CategoryAchievements, refs[0].Slug); err != nil {
		t.Errorf("store row not addressable by new slug: %v", err)
	}

	code := career.CategoryAchievements.Code()
	if _, found, _ := store.GetHash(ctx, cache.BenchmarkKey(email, org.Slug, pos.Slug, code, oldSlug)); found {
		t.Error("expected old singleton entry dropped")
	}
	if _, found, _ := store.GetHash(ctx, cache.BenchmarkKey(email, org.Slug, pos.Slug, code, refs[0].Slug)); !found {
		t.Error("expected singleton at new slug")
	}
}

func TestPatchBenchmarkCategoryImmutable(t *testing.T) {
	svc, _, gateway := newTestService(t)
	ctx := context.Background()
	email := "jane@example.com"
	seedUser(gateway, email)

	org, _ := svc.CreateOrganization(ctx, email, career.NewOrganization{Name: "Acme Corp"})
	pos, _ := svc.CreatePosition(ctx, email, org.Slug, career.NewPosition{
		Title:    "Engineer",
		Timeline: career.Timeline{Month: career.March, Year: 2022},
	})
	ach, _ := svc.CreateBenchmark(ctx, email, org.Slug, pos.Slug,
		career.CategoryAchievements, career.NewBenchmark{
			Title:    "Launched v2",
			Timeline: career.Timeline{Month: career.May, Year: 2023},
		})
	proj, _ := svc.CreateBenchmark(ctx, email, org.Slug, pos.Slug,
		career.CategoryProjects, career.NewBenchmark{
			Title:    "Cache Layer",
			Timeline: career.Timeline{Month: career.July, Year: 2023},
		})

	tl := &career.Timeline{Month: career.January, Year: 2024}

	// A started timeline on a non-project is the only way to move a
	// benchmark across categories, and it is refused outright.
	err := svc.PatchBenchmark(ctx, email, org.Slug, pos.Slug,
		career.CategoryAchievements, ach.Meta().Slug,
		career.BenchmarkPatch{Started: tl})
	if !career.IsBadRequest(err) {
		t.Errorf("expected BadRequest for started timeline on achievement, got %v", err)
	}

	err = svc.PatchBenchmark(ctx, email, org.Slug, pos.Slug,
		career.CategoryProjects, proj.Meta().Slug,
		career.BenchmarkPatch{Occurred: tl})
	if !career.IsBadRequest(err) {
		t.Errorf("expected BadRequest for occurred timeline on project, got %v", err)
	}

	if got := gateway.callCount("PatchBenchmark"); got != 0 {
		t.Errorf("expected no store patches, got %d", got)
	}
}

func TestPatchAmbiguousShapeRejected(t *testing.T) {
	svc, _, gateway := newTestService(t)
	ctx := context.Background()
	seedUser(gateway, "jane@example.com")

	err := svc.PatchPosition(ctx, "jane@example.com", "acme-000000000001", "dev-000000000002",
		career.PositionPatch{
			Title:       strptr("new title"),
			Description: strptr("new description"),
		})
	if !career.IsBadRequest(err) {
		t.Errorf("expected BadRequest for two patch shapes, got %v", err)
	}
}
