package storage

import (
	"context"
	"database/sql"

	"github.com/cockroachdb/errors"
	"github.com/goliatone/go-career-cache/career"
)

// resolvePosition walks the email -> org slug -> position slug chain.
func (s *Store) resolvePosition(ctx context.Context, email, orgSlug, positionSlug string) (PositionRow, error) {
	org, err := s.resolveOrg(ctx, email, orgSlug)
	if err != nil {
		return PositionRow{}, err
	}
	return s.positionBySlug(ctx, org.ID, positionSlug)
}

func (s *Store) benchmarkBySlug(ctx context.Context, positionID int64, cat career.Category, slug string) (BenchmarkRow, error) {
	var row BenchmarkRow
	err := s.db.NewSelect().
		Model(&row).
		Where("b.position_id = ?", positionID).
		Where("b.category = ?", string(cat)).
		Where("b.slug = ?", slug).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return BenchmarkRow{}, career.NotFoundf("%s %s not found", cat, slug)
	}
	if err != nil {
		return BenchmarkRow{}, errors.Wrap(err, "storage: load benchmark")
	}
	return row, nil
}

// ListBenchmarks returns every benchmark of one category under a position,
// oldest first.
func (s *Store) ListBenchmarks(ctx context.Context, email, orgSlug, positionSlug string, cat career.Category) ([]career.Benchmark, error) {
	pos, err := s.resolvePosition(ctx, email, orgSlug, positionSlug)
	if err != nil {
		return nil, err
	}

	var rows []BenchmarkRow
	if err := s.db.NewSelect().
		Model(&rows).
		Where("b.position_id = ?", pos.ID).
		Where("b.category = ?", string(cat)).
		Order("b.id ASC").
		Scan(ctx); err != nil {
		return nil, errors.Wrap(err, "storage: list benchmarks")
	}

	out := make([]career.Benchmark, 0, len(rows))
	for _, row := range rows {
		b, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}

// LoadBenchmark returns one benchmark.
func (s *Store) LoadBenchmark(ctx context.Context, email, orgSlug, positionSlug string, cat career.Category, slug string) (career.Benchmark, error) {
	pos, err := s.resolvePosition(ctx, email, orgSlug, positionSlug)
	if err != nil {
		return nil, err
	}
	row, err := s.benchmarkBySlug(ctx, pos.ID, cat, slug)
	if err != nil {
		return nil, err
	}
	return row.toDomain()
}

// CreateBenchmark inserts a benchmark under a position.
func (s *Store) CreateBenchmark(ctx context.Context, email, orgSlug, positionSlug string, b career.Benchmark) error {
	pos, err := s.resolvePosition(ctx, email, orgSlug, positionSlug)
	if err != nil {
		return err
	}

	row := benchmarkRowOf(pos.ID, b)
	if row.CreatedAt.IsZero() {
		row.CreatedAt = s.now()
	}
	if row.UpdatedAt.IsZero() {
		row.UpdatedAt = row.CreatedAt
	}
	if _, err := s.db.NewInsert().Model(&row).Exec(ctx); err != nil {
		return errors.Wrap(err, "storage: create benchmark")
	}
	return nil
}

// PatchBenchmark replaces the mutable fields of the benchmark addressed by
// oldSlug with the merged record. The category never changes.
func (s *Store) PatchBenchmark(ctx context.Context, email, orgSlug, positionSlug string, cat career.Category, oldSlug string, updated career.Benchmark) error {
	pos, err := s.resolvePosition(ctx, email, orgSlug, positionSlug)
	if err != nil {
		return err
	}
	row, err := s.benchmarkBySlug(ctx, pos.ID, cat, oldSlug)
	if err != nil {
		return err
	}

	meta := updated.Meta()
	tl := updated.Timeline()
	_, err = s.db.NewUpdate().
		Model((*BenchmarkRow)(nil)).
		Set("title = ?", meta.Title).
		Set("slug = ?", meta.Slug).
		Set("description = ?", meta.Description).
		Set("month = ?", string(tl.Month)).
		Set("year = ?", tl.Year).
		Set("updated_at = ?", s.now()).
		Where("id = ?", row.ID).
		Exec(ctx)
	if err != nil {
		return errors.Wrap(err, "storage: patch benchmark")
	}
	return nil
}

// DeleteBenchmark removes one benchmark.
func (s *Store) DeleteBenchmark(ctx context.Context, email, orgSlug, positionSlug string, cat career.Category, slug string) error {
	pos, err := s.resolvePosition(ctx, email, orgSlug, positionSlug)
	if err != nil {
		return err
	}
	row, err := s.benchmarkBySlug(ctx, pos.ID, cat, slug)
	if err != nil {
		return err
	}

	if _, err := s.db.NewDelete().
		Model((*BenchmarkRow)(nil)).
		Where("id = ?", row.ID).
		Exec(ctx); err != nil {
		return errors.Wrap(err, "storage: delete benchmark")
	}
	return nil
}

// CountBenchmarks returns the authoritative count of one category under a
// position for the quota check.
func (s *Store) CountBenchmarks(ctx context.Context, email, orgSlug, positionSlug string, cat career.Category) (int, error) {
	pos, err := s.resolvePosition(ctx, email, orgSlug, positionSlug)
	if err != nil {
		return 0, err
	}

	n, err := s.db.NewSelect().
		Model((*BenchmarkRow)(nil)).
		Where("b.position_id = ?", pos.ID).
		Where("b.category = ?", string(cat)).
		Count(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "storage: count benchmarks")
	}
	return n, nil
}
