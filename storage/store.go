package storage

import (
	"context"
	"database/sql"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/goliatone/go-career-cache/career"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// Store is the bun-backed gateway to the authoritative relational store.
// Every lookup is scoped by the owning user's email and, below that, by the
// parent slug chain; a missing link anywhere in the chain is a
// career.ErrNotFound.
type Store struct {
	db  *bun.DB
	log *zap.Logger
	now func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithLogger attaches a structured logger.
func WithLogger(log *zap.Logger) Option {
	return func(s *Store) {
		if log != nil {
			s.log = log
		}
	}
}

// WithClock overrides the timestamp source. Tests use this to pin
// created/updated times.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// NewStore wraps an opened bun DB.
func NewStore(db *bun.DB, opts ...Option) *Store {
	s := &Store{
		db:  db,
		log: zap.NewNop(),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// InitSchema creates every table if it does not exist. The sqlite test
// harness and the development wiring call this; production schemas are
// managed externally.
func (s *Store) InitSchema(ctx context.Context) error {
	models := []any{
		(*UserRow)(nil),
		(*PlanRow)(nil),
		(*OrganizationRow)(nil),
		(*OrganizationStateRow)(nil),
		(*PositionRow)(nil),
		(*BenchmarkRow)(nil),
	}
	for _, model := range models {
		if _, err := s.db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return errors.Wrap(err, "storage: create table")
		}
	}
	return nil
}

// userByEmail resolves the owner row for an email namespace.
func (s *Store) userByEmail(ctx context.Context, email string) (UserRow, error) {
	var row UserRow
	err := s.db.NewSelect().Model(&row).Where("u.email = ?", email).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return UserRow{}, career.NotFoundf("user %s not found", email)
	}
	if err != nil {
		return UserRow{}, errors.Wrap(err, "storage: load user")
	}
	return row, nil
}

// CreateUser inserts the owner record. A FREE plan is provisioned in the
// same transaction so plan lookups never observe a user without one.
func (s *Store) CreateUser(ctx context.Context, u career.User) error {
	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		row := UserRow{
			Email:     u.Email,
			ExtID:     u.ID,
			FirstName: u.FirstName,
			LastName:  u.LastName,
			CreatedAt: s.now(),
		}
		if _, err := tx.NewInsert().Model(&row).Exec(ctx); err != nil {
			return errors.Wrap(err, "storage: create user")
		}

		plan := PlanRow{UserID: row.ID, Tier: string(career.TierFree), CreatedAt: s.now()}
		if _, err := tx.NewInsert().Model(&plan).Exec(ctx); err != nil {
			return errors.Wrap(err, "storage: provision plan")
		}
		return nil
	})
}

// LoadUser returns the owner record for an email.
func (s *Store) LoadUser(ctx context.Context, email string) (career.User, error) {
	row, err := s.userByEmail(ctx, email)
	if err != nil {
		return career.User{}, err
	}
	return career.User{
		ID:        row.ExtID,
		Email:     row.Email,
		FirstName: row.FirstName,
		LastName:  row.LastName,
	}, nil
}

// UserExists reports whether the email namespace has an owner record. The
// first-time-user check bottoms out here on cache miss.
func (s *Store) UserExists(ctx context.Context, email string) (bool, error) {
	exists, err := s.db.NewSelect().
		Model((*UserRow)(nil)).
		Where("u.email = ?", email).
		Exists(ctx)
	if err != nil {
		return false, errors.Wrap(err, "storage: user exists")
	}
	return exists, nil
}

// DeleteUser removes the owner record and everything beneath it.
func (s *Store) DeleteUser(ctx context.Context, email string) error {
	user, err := s.userByEmail(ctx, email)
	if err != nil {
		return err
	}

	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		var orgIDs []int64
		if err := tx.NewSelect().
			Model((*OrganizationRow)(nil)).
			Column("o.id").
			Where("o.user_id = ?", user.ID).
			Scan(ctx, &orgIDs); err != nil {
			return errors.Wrap(err, "storage: list org ids")
		}

		for _, orgID := range orgIDs {
			if err := deleteOrganizationTree(ctx, tx, orgID); err != nil {
				return err
			}
		}

		if _, err := tx.NewDelete().
			Model((*PlanRow)(nil)).
			Where("user_id = ?", user.ID).
			Exec(ctx); err != nil {
			return errors.Wrap(err, "storage: delete plan")
		}

		if _, err := tx.NewDelete().
			Model((*UserRow)(nil)).
			Where("id = ?", user.ID).
			Exec(ctx); err != nil {
			return errors.Wrap(err, "storage: delete user")
		}

		s.log.Info("deleted user tree",
			zap.String("email", email),
			zap.Int("organizations", len(orgIDs)))
		return nil
	})
}

// LoadPlan returns the user's plan.
func (s *Store) LoadPlan(ctx context.Context, email string) (career.Plan, error) {
	user, err := s.userByEmail(ctx, email)
	if err != nil {
		return career.Plan{}, err
	}

	var row PlanRow
	err = s.db.NewSelect().Model(&row).Where("pl.user_id = ?", user.ID).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return career.Plan{}, career.NotFoundf("plan for %s not found", email)
	}
	if err != nil {
		return career.Plan{}, errors.Wrap(err, "storage: load plan")
	}
	return career.Plan{Tier: career.ParseTier(row.Tier)}, nil
}

// CreateFreePlan provisions a FREE plan for a user that lacks one. Users
// created before plan provisioning existed hit this path once.
func (s *Store) CreateFreePlan(ctx context.Context, email string) (career.Plan, error) {
	user, err := s.userByEmail(ctx, email)
	if err != nil {
		return career.Plan{}, err
	}

	row := PlanRow{UserID: user.ID, Tier: string(career.TierFree), CreatedAt: s.now()}
	if _, err := s.db.NewInsert().Model(&row).Exec(ctx); err != nil {
		return career.Plan{}, errors.Wrap(err, "storage: create free plan")
	}
	return career.Plan{Tier: career.TierFree}, nil
}
