package storage

import (
	"context"
	"database/sql"

	"github.com/cockroachdb/errors"
	"github.com/goliatone/go-career-cache/career"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

func (s *Store) orgBySlug(ctx context.Context, userID int64, slug string) (OrganizationRow, error) {
	var row OrganizationRow
	err := s.db.NewSelect().
		Model(&row).
		Where("o.user_id = ?", userID).
		Where("o.slug = ?", slug).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return OrganizationRow{}, career.NotFoundf("organization %s not found", slug)
	}
	if err != nil {
		return OrganizationRow{}, errors.Wrap(err, "storage: load organization")
	}
	return row, nil
}

func (s *Store) orgState(ctx context.Context, orgID int64) (OrganizationStateRow, error) {
	var state OrganizationStateRow
	err := s.db.NewSelect().
		Model(&state).
		Where("os.organization_id = ?", orgID).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		// State rows are created with the org; a missing one reads as
		// all-false rather than failing the load.
		return OrganizationStateRow{OrganizationID: orgID}, nil
	}
	if err != nil {
		return OrganizationStateRow{}, errors.Wrap(err, "storage: load organization state")
	}
	return state, nil
}

// ListOrganizations returns every organization under an email namespace,
// oldest first.
func (s *Store) ListOrganizations(ctx context.Context, email string) ([]career.Organization, error) {
	user, err := s.userByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	var rows []OrganizationRow
	if err := s.db.NewSelect().
		Model(&rows).
		Where("o.user_id = ?", user.ID).
		Order("o.id ASC").
		Scan(ctx); err != nil {
		return nil, errors.Wrap(err, "storage: list organizations")
	}

	out := make([]career.Organization, 0, len(rows))
	for _, row := range rows {
		state, err := s.orgState(ctx, row.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, row.toDomain(state))
	}
	return out, nil
}

// LoadOrganization returns one organization with its first-created flags.
func (s *Store) LoadOrganization(ctx context.Context, email, slug string) (career.Organization, error) {
	user, err := s.userByEmail(ctx, email)
	if err != nil {
		return career.Organization{}, err
	}
	row, err := s.orgBySlug(ctx, user.ID, slug)
	if err != nil {
		return career.Organization{}, err
	}
	state, err := s.orgState(ctx, row.ID)
	if err != nil {
		return career.Organization{}, err
	}
	return row.toDomain(state), nil
}

// CreateOrganization inserts an organization and its state row.
func (s *Store) CreateOrganization(ctx context.Context, email string, org career.Organization) error {
	user, err := s.userByEmail(ctx, email)
	if err != nil {
		return err
	}

	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		now := s.now()
		row := OrganizationRow{
			UserID:    user.ID,
			Name:      org.Name,
			Slug:      org.Slug,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if _, err := tx.NewInsert().Model(&row).Exec(ctx); err != nil {
			return errors.Wrap(err, "storage: create organization")
		}

		state := OrganizationStateRow{OrganizationID: row.ID}
		if _, err := tx.NewInsert().Model(&state).Exec(ctx); err != nil {
			return errors.Wrap(err, "storage: create organization state")
		}
		return nil
	})
}

// PatchOrganization renames the organization addressed by oldSlug. Child
// rows reference the org by id, so the rename does not touch them.
func (s *Store) PatchOrganization(ctx context.Context, email, oldSlug string, updated career.OrgRef) error {
	user, err := s.userByEmail(ctx, email)
	if err != nil {
		return err
	}
	row, err := s.orgBySlug(ctx, user.ID, oldSlug)
	if err != nil {
		return err
	}

	_, err = s.db.NewUpdate().
		Model((*OrganizationRow)(nil)).
		Set("name = ?", updated.Name).
		Set("slug = ?", updated.Slug).
		Set("updated_at = ?", s.now()).
		Where("id = ?", row.ID).
		Exec(ctx)
	if err != nil {
		return errors.Wrap(err, "storage: patch organization")
	}
	return nil
}

// DeleteOrganization removes the organization and every position and
// benchmark beneath it.
func (s *Store) DeleteOrganization(ctx context.Context, email, slug string) error {
	user, err := s.userByEmail(ctx, email)
	if err != nil {
		return err
	}
	row, err := s.orgBySlug(ctx, user.ID, slug)
	if err != nil {
		return err
	}

	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := deleteOrganizationTree(ctx, tx, row.ID); err != nil {
			return err
		}
		s.log.Info("deleted organization tree",
			zap.String("email", email),
			zap.String("slug", slug))
		return nil
	})
}

// CountOrganizations returns the authoritative organization count for the
// quota check.
func (s *Store) CountOrganizations(ctx context.Context, email string) (int, error) {
	user, err := s.userByEmail(ctx, email)
	if err != nil {
		return 0, err
	}

	n, err := s.db.NewSelect().
		Model((*OrganizationRow)(nil)).
		Where("o.user_id = ?", user.ID).
		Count(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "storage: count organizations")
	}
	return n, nil
}

// MarkPositionCreated flips the organization's has-created-position flag.
// The update is monotonic: it only ever sets the flag to true.
func (s *Store) MarkPositionCreated(ctx context.Context, email, orgSlug string) error {
	return s.markCreated(ctx, email, orgSlug, "has_created_position_before")
}

// MarkBenchmarkCreated flips the organization's first-created flag for one
// benchmark category.
func (s *Store) MarkBenchmarkCreated(ctx context.Context, email, orgSlug string, cat career.Category) error {
	var column string
	switch cat {
	case career.CategoryAchievements:
		column = "has_created_achievement_before"
	case career.CategoryChallenges:
		column = "has_created_challenge_before"
	case career.CategoryFailures:
		column = "has_created_failure_before"
	case career.CategoryProjects:
		column = "has_created_project_before"
	default:
		return career.BadRequestf("unrecognized benchmark category %q", cat)
	}
	return s.markCreated(ctx, email, orgSlug, column)
}

func (s *Store) markCreated(ctx context.Context, email, orgSlug, column string) error {
	user, err := s.userByEmail(ctx, email)
	if err != nil {
		return err
	}
	row, err := s.orgBySlug(ctx, user.ID, orgSlug)
	if err != nil {
		return err
	}

	_, err = s.db.NewUpdate().
		Model((*OrganizationStateRow)(nil)).
		Set(column+" = ?", true).
		Where("organization_id = ?", row.ID).
		Exec(ctx)
	if err != nil {
		return errors.Wrap(err, "storage: mark created")
	}
	return nil
}

// deleteOrganizationTree removes one organization's rows bottom-up inside an
// open transaction.
func deleteOrganizationTree(ctx context.Context, tx bun.Tx, orgID int64) error {
	var posIDs []int64
	if err := tx.NewSelect().
		Model((*PositionRow)(nil)).
		Column("p.id").
		Where("p.organization_id = ?", orgID).
		Scan(ctx, &posIDs); err != nil {
		return errors.Wrap(err, "storage: list position ids")
	}

	if len(posIDs) > 0 {
		if _, err := tx.NewDelete().
			Model((*BenchmarkRow)(nil)).
			Where("position_id IN (?)", bun.In(posIDs)).
			Exec(ctx); err != nil {
			return errors.Wrap(err, "storage: delete benchmarks")
		}
		if _, err := tx.NewDelete().
			Model((*PositionRow)(nil)).
			Where("organization_id = ?", orgID).
			Exec(ctx); err != nil {
			return errors.Wrap(err, "storage: delete positions")
		}
	}

	if _, err := tx.NewDelete().
		Model((*OrganizationStateRow)(nil)).
		Where("organization_id = ?", orgID).
		Exec(ctx); err != nil {
		return errors.Wrap(err, "storage: delete organization state")
	}
	if _, err := tx.NewDelete().
		Model((*OrganizationRow)(nil)).
		Where("id = ?", orgID).
		Exec(ctx); err != nil {
		return errors.Wrap(err, "storage: delete organization")
	}
	return nil
}
