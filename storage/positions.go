package storage

import (
	"context"
	"database/sql"

	"github.com/cockroachdb/errors"
	"github.com/goliatone/go-career-cache/career"
	"github.com/uptrace/bun"
)

func (s *Store) positionBySlug(ctx context.Context, orgID int64, slug string) (PositionRow, error) {
	var row PositionRow
	err := s.db.NewSelect().
		Model(&row).
		Where("p.organization_id = ?", orgID).
		Where("p.slug = ?", slug).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return PositionRow{}, career.NotFoundf("position %s not found", slug)
	}
	if err != nil {
		return PositionRow{}, errors.Wrap(err, "storage: load position")
	}
	return row, nil
}

// resolveOrg walks the email -> org slug chain.
func (s *Store) resolveOrg(ctx context.Context, email, orgSlug string) (OrganizationRow, error) {
	user, err := s.userByEmail(ctx, email)
	if err != nil {
		return OrganizationRow{}, err
	}
	return s.orgBySlug(ctx, user.ID, orgSlug)
}

// ListPositions returns every position under an organization, oldest first.
func (s *Store) ListPositions(ctx context.Context, email, orgSlug string) ([]career.Position, error) {
	org, err := s.resolveOrg(ctx, email, orgSlug)
	if err != nil {
		return nil, err
	}

	var rows []PositionRow
	if err := s.db.NewSelect().
		Model(&rows).
		Where("p.organization_id = ?", org.ID).
		Order("p.id ASC").
		Scan(ctx); err != nil {
		return nil, errors.Wrap(err, "storage: list positions")
	}

	out := make([]career.Position, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

// LoadPosition returns one position.
func (s *Store) LoadPosition(ctx context.Context, email, orgSlug, slug string) (career.Position, error) {
	org, err := s.resolveOrg(ctx, email, orgSlug)
	if err != nil {
		return career.Position{}, err
	}
	row, err := s.positionBySlug(ctx, org.ID, slug)
	if err != nil {
		return career.Position{}, err
	}
	return row.toDomain(), nil
}

// CreatePosition inserts a position under an organization.
func (s *Store) CreatePosition(ctx context.Context, email, orgSlug string, p career.Position) error {
	org, err := s.resolveOrg(ctx, email, orgSlug)
	if err != nil {
		return err
	}

	now := s.now()
	row := PositionRow{
		OrganizationID: org.ID,
		Title:          p.Title,
		Slug:           p.Slug,
		Description:    p.Description,
		MonthStartedAt: string(p.MonthStartedAt),
		YearStartedAt:  p.YearStartedAt,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if _, err := s.db.NewInsert().Model(&row).Exec(ctx); err != nil {
		return errors.Wrap(err, "storage: create position")
	}
	return nil
}

// PatchPosition replaces the mutable fields of the position addressed by
// oldSlug with the merged record. The slug only changes on rename.
func (s *Store) PatchPosition(ctx context.Context, email, orgSlug, oldSlug string, updated career.Position) error {
	org, err := s.resolveOrg(ctx, email, orgSlug)
	if err != nil {
		return err
	}
	row, err := s.positionBySlug(ctx, org.ID, oldSlug)
	if err != nil {
		return err
	}

	_, err = s.db.NewUpdate().
		Model((*PositionRow)(nil)).
		Set("title = ?", updated.Title).
		Set("slug = ?", updated.Slug).
		Set("description = ?", updated.Description).
		Set("month_started_at = ?", string(updated.MonthStartedAt)).
		Set("year_started_at = ?", updated.YearStartedAt).
		Set("updated_at = ?", s.now()).
		Where("id = ?", row.ID).
		Exec(ctx)
	if err != nil {
		return errors.Wrap(err, "storage: patch position")
	}
	return nil
}

// DeletePosition removes one position and its benchmarks.
func (s *Store) DeletePosition(ctx context.Context, email, orgSlug, slug string) error {
	org, err := s.resolveOrg(ctx, email, orgSlug)
	if err != nil {
		return err
	}
	row, err := s.positionBySlug(ctx, org.ID, slug)
	if err != nil {
		return err
	}

	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().
			Model((*BenchmarkRow)(nil)).
			Where("position_id = ?", row.ID).
			Exec(ctx); err != nil {
			return errors.Wrap(err, "storage: delete benchmarks")
		}
		if _, err := tx.NewDelete().
			Model((*PositionRow)(nil)).
			Where("id = ?", row.ID).
			Exec(ctx); err != nil {
			return errors.Wrap(err, "storage: delete position")
		}
		return nil
	})
}

// CountPositions returns the authoritative position count under an
// organization for the quota check.
func (s *Store) CountPositions(ctx context.Context, email, orgSlug string) (int, error) {
	org, err := s.resolveOrg(ctx, email, orgSlug)
	if err != nil {
		return 0, err
	}

	n, err := s.db.NewSelect().
		Model((*PositionRow)(nil)).
		Where("p.organization_id = ?", org.ID).
		Count(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "storage: count positions")
	}
	return n, nil
}
