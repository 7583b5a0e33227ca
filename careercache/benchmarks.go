package careercache

import (
	"context"
	"strings"

	"github.com/goliatone/go-career-cache/cache"
	"github.com/goliatone/go-career-cache/career"
)

func (s *Service) benchmarkEntity(email, orgSlug, positionSlug string, cat career.Category) entity[career.BenchmarkRef, career.Benchmark] {
	return entity[career.BenchmarkRef, career.Benchmark]{
		collection: string(cat),
		listKey:    cache.BenchmarkListKey(email, orgSlug, positionSlug, string(cat)),
		itemKey: func(slug string) string {
			return cache.BenchmarkKey(email, orgSlug, positionSlug, cat.Code(), slug)
		},
		pattern: func(slug string) string {
			return cache.BenchmarkPattern(email, orgSlug, positionSlug, cat.Code(), slug)
		},
		refSlug:  func(r career.BenchmarkRef) string { return r.Slug },
		fullSlug: func(b career.Benchmark) string { return b.Meta().Slug },
		toRef:    career.Benchmark.Ref,
		applyRef: func(b career.Benchmark, r career.BenchmarkRef) career.Benchmark {
			meta := b.Meta()
			meta.Title = r.Title
			meta.Slug = r.Slug
			meta.CreatedAt = r.CreatedAt
			meta.UpdatedAt = r.UpdatedAt
			return b.WithMeta(meta).WithTimeline(career.Timeline{Month: r.Month, Year: r.Year})
		},
		decodeFull: func(fields map[string]string) (career.Benchmark, error) {
			return career.DecodeBenchmark(cat, func(dest any) error {
				return cache.DecodeFieldsInto(fields, dest)
			})
		},
		listStore: func(ctx context.Context) ([]career.Benchmark, error) {
			return s.store.ListBenchmarks(ctx, email, orgSlug, positionSlug, cat)
		},
		loadStore: func(ctx context.Context, slug string) (career.Benchmark, error) {
			return s.store.LoadBenchmark(ctx, email, orgSlug, positionSlug, cat, slug)
		},
		createStore: func(ctx context.Context, b career.Benchmark) error {
			return s.store.CreateBenchmark(ctx, email, orgSlug, positionSlug, b)
		},
		patchStore: func(ctx context.Context, oldSlug string, b career.Benchmark) error {
			return s.store.PatchBenchmark(ctx, email, orgSlug, positionSlug, cat, oldSlug, b)
		},
		deleteStore: func(ctx context.Context, slug string) error {
			return s.store.DeleteBenchmark(ctx, email, orgSlug, positionSlug, cat, slug)
		},
	}
}

func requireBenchmarkChain(email, orgSlug, positionSlug string, cat career.Category) error {
	if err := requireChain("email", email, "organization slug", orgSlug, "position slug", positionSlug); err != nil {
		return err
	}
	if !cat.Valid() {
		return career.BadRequestf("unrecognized benchmark category %q", cat)
	}
	return nil
}

// Benchmarks lists one category's benchmarks under a position as their list
// projections.
func (s *Service) Benchmarks(ctx context.Context, email, orgSlug, positionSlug string, cat career.Category) ([]career.BenchmarkRef, error) {
	if err := requireBenchmarkChain(email, orgSlug, positionSlug, cat); err != nil {
		return nil, err
	}
	return listThrough(ctx, s, s.benchmarkEntity(email, orgSlug, positionSlug, cat))
}

// Benchmark returns one benchmark's full record.
func (s *Service) Benchmark(ctx context.Context, email, orgSlug, positionSlug string, cat career.Category, slug string) (career.Benchmark, error) {
	if err := requireBenchmarkChain(email, orgSlug, positionSlug, cat); err != nil {
		return nil, err
	}
	if err := requireIdent("benchmark slug", slug); err != nil {
		return nil, err
	}
	return getThrough(ctx, s, s.benchmarkEntity(email, orgSlug, positionSlug, cat), slug)
}

// CreateBenchmark validates the submission, enforces the category ceiling,
// and writes the new benchmark through store and cache. The organization's
// first-created flag for the category flips in the same fan-out the first
// time.
func (s *Service) CreateBenchmark(ctx context.Context, email, orgSlug, positionSlug string, cat career.Category, payload career.NewBenchmark) (career.Benchmark, error) {
	if err := requireBenchmarkChain(email, orgSlug, positionSlug, cat); err != nil {
		return nil, err
	}
	if err := payload.Validate(); err != nil {
		return nil, err
	}
	payload = payload.Normalize()

	org, err := s.Organization(ctx, email, orgSlug)
	if err != nil {
		return nil, err
	}
	if _, err := s.Position(ctx, email, orgSlug, positionSlug); err != nil {
		return nil, err
	}

	if err := s.enforceBenchmarkQuota(ctx, email, orgSlug, positionSlug, cat); err != nil {
		return nil, err
	}

	now := s.now()
	b := career.MakeBenchmark(cat, career.BenchmarkMeta{
		Title:       payload.Title,
		Slug:        s.slugFn(payload.Title),
		Description: payload.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, payload.Timeline)

	var extras []func(ctx context.Context) error
	if !org.HasCreated(cat) {
		flagged := org.WithCreated(cat)
		extras = append(extras,
			func(ctx context.Context) error {
				return s.store.MarkBenchmarkCreated(ctx, email, orgSlug, cat)
			},
			func(ctx context.Context) error {
				return cache.SetHash(ctx, s.cache, cache.OrgKey(email, orgSlug), flagged)
			})
	}

	if err := createThrough(ctx, s, s.benchmarkEntity(email, orgSlug, positionSlug, cat), b, extras...); err != nil {
		return nil, err
	}
	return b, nil
}

// PatchBenchmark applies exactly one of the disjoint benchmark updates for
// the category. Submitting the wrong timeline kind for the category is a
// BadRequest: a benchmark never changes category. A title change
// regenerates the slug; patching a field to its current value is an
// idempotent no-op.
func (s *Service) PatchBenchmark(ctx context.Context, email, orgSlug, positionSlug string, cat career.Category, slug string, patch career.BenchmarkPatch) error {
	if err := requireBenchmarkChain(email, orgSlug, positionSlug, cat); err != nil {
		return err
	}
	if err := requireIdent("benchmark slug", slug); err != nil {
		return err
	}
	if err := patch.Validate(cat); err != nil {
		return err
	}

	return synchronize(ctx, s, s.benchmarkEntity(email, orgSlug, positionSlug, cat), slug,
		func(base career.Benchmark) (career.Benchmark, bool, error) {
			meta := base.Meta()

			switch {
			case patch.Title != nil:
				title := strings.ToLower(strings.TrimSpace(*patch.Title))
				if title == meta.Title {
					return base, false, nil
				}
				meta.Title = title
				meta.Slug = s.slugFn(title)
				meta.UpdatedAt = s.now()
				return base.WithMeta(meta), true, nil

			case patch.Description != nil:
				desc := strings.ToLower(strings.TrimSpace(*patch.Description))
				if desc == meta.Description {
					return base, false, nil
				}
				meta.Description = desc
				meta.UpdatedAt = s.now()
				return base.WithMeta(meta), true, nil

			default:
				tl := patch.TimelineUpdate()
				if *tl == base.Timeline() {
					return base, false, nil
				}
				meta.UpdatedAt = s.now()
				return base.WithMeta(meta).WithTimeline(*tl), true, nil
			}
		})
}

// DeleteBenchmark removes one benchmark from store and cache.
func (s *Service) DeleteBenchmark(ctx context.Context, email, orgSlug, positionSlug string, cat career.Category, slug string) error {
	if err := requireBenchmarkChain(email, orgSlug, positionSlug, cat); err != nil {
		return err
	}
	if err := requireIdent("benchmark slug", slug); err != nil {
		return err
	}
	return deleteThrough(ctx, s, s.benchmarkEntity(email, orgSlug, positionSlug, cat), slug)
}
