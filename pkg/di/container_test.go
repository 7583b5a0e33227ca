package di

import (
	"context"
	"testing"
	"time"

	"github.com/goliatone/go-career-cache/career"
	"github.com/goliatone/go-career-cache/pkg/config"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("config.Load() error: %v", err)
	}
	// Every test gets its own private database.
	cfg.DB.Driver = "sqlite"
	cfg.DB.DSN = "file:" + t.Name() + "?mode=memory&cache=shared"
	return cfg
}

func TestContainerWiresEndToEnd(t *testing.T) {
	ctx := context.Background()

	c, err := NewContainer(testConfig(t), nil)
	if err != nil {
		t.Fatalf("NewContainer() error: %v", err)
	}
	t.Cleanup(func() { c.Close() })

	if err := c.InitSchema(ctx); err != nil {
		t.Fatalf("InitSchema() error: %v", err)
	}

	svc := c.Service()
	if svc == nil || svc != c.Service() {
		t.Fatal("Service() must return the same wired instance")
	}

	email := "jane@example.com"
	if err := svc.RegisterUser(ctx, career.User{ID: "usr_1", Email: email}); err != nil {
		t.Fatalf("RegisterUser() error: %v", err)
	}

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
		career.CategoryAchievements, career.NewBenchmark{
			Title:    "Launched v2",
			Timeline: career.Timeline{Month: career.May, Year: 2023},
		})
	if err != nil {
		t.Fatalf("CreateBenchmark() error: %v", err)
	}

	// Read the whole chain back through the wired cache and store.
	got, err := svc.Benchmark(ctx, email, org.Slug, pos.Slug,
		career.CategoryAchievements, b.Meta().Slug)
	if err != nil {
		t.Fatalf("Benchmark() error: %v", err)
	}
	if got.Meta().Title != "launched v2" {
		t.Errorf("read back %+v", got.Meta())
	}

	if err := c.Reconciler().ReconcileUser(ctx, email); err != nil {
		t.Errorf("ReconcileUser() error: %v", err)
	}
}

func TestContainerRejectsUnknownDriver(t *testing.T) {
	cfg := testConfig(t)
	cfg.DB.Driver = "oracle"

	if _, err := NewContainer(cfg, nil); err == nil {
		t.Error("expected unknown driver to be rejected")
	}
}

func TestContainerDefaultConfig(t *testing.T) {
	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("config.Load() error: %v", err)
	}

	if cfg.Cache.Capacity <= 0 || cfg.Cache.TTL <= 0 {
		t.Errorf("unusable cache defaults: %+v", cfg.Cache)
	}
	if cfg.Redis.Enabled {
		t.Error("redis must be opt-in")
	}
	if cfg.Limits.Free().MaxOrganizations <= 0 {
		t.Errorf("free tier must carry a ceiling, got %+v", cfg.Limits.Free())
	}
	if cfg.Redis.DefaultTTL < time.Hour {
		t.Errorf("suspiciously short redis TTL %v", cfg.Redis.DefaultTTL)
	}
}
