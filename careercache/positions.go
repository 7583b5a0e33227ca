package careercache

import (
	"context"
	"strings"

	"github.com/goliatone/go-career-cache/cache"
	"github.com/goliatone/go-career-cache/career"
)

func (s *Service) positionEntity(email, orgSlug string) entity[career.PositionRef, career.Position] {
	return entity[career.PositionRef, career.Position]{
		collection: "positions",
		listKey:    cache.OrgPositionsKey(email, orgSlug),
		itemKey:    func(slug string) string { return cache.PositionKey(email, orgSlug, slug) },
		pattern:    func(slug string) string { return cache.PositionPattern(email, orgSlug, slug) },
		refSlug:    func(r career.PositionRef) string { return r.Slug },
		fullSlug:   func(p career.Position) string { return p.Slug },
		toRef:      career.Position.Ref,
		applyRef: func(p career.Position, r career.PositionRef) career.Position {
			p.Title = r.Title
			p.Slug = r.Slug
			p.MonthStartedAt = r.MonthStartedAt
			p.YearStartedAt = r.YearStartedAt
			return p
		},
		listStore: func(ctx context.Context) ([]career.Position, error) {
			return s.store.ListPositions(ctx, email, orgSlug)
		},
		loadStore: func(ctx context.Context, slug string) (career.Position, error) {
			return s.store.LoadPosition(ctx, email, orgSlug, slug)
		},
		createStore: func(ctx context.Context, p career.Position) error {
			return s.store.CreatePosition(ctx, email, orgSlug, p)
		},
		patchStore: func(ctx context.Context, oldSlug string, p career.Position) error {
			return s.store.PatchPosition(ctx, email, orgSlug, oldSlug, p)
		},
		deleteStore: func(ctx context.Context, slug string) error {
			return s.store.DeletePosition(ctx, email, orgSlug, slug)
		},
	}
}

// Positions lists the positions under an organization as their list
// projections.
func (s *Service) Positions(ctx context.Context, email, orgSlug string) ([]career.PositionRef, error) {
	if err := requireChain("email", email, "organization slug", orgSlug); err != nil {
		return nil, err
	}
	return listThrough(ctx, s, s.positionEntity(email, orgSlug))
}

// Position returns one position.
func (s *Service) Position(ctx context.Context, email, orgSlug, slug string) (career.Position, error) {
	if err := requireChain("email", email, "organization slug", orgSlug, "position slug", slug); err != nil {
		return career.Position{}, err
	}
	return getThrough(ctx, s, s.positionEntity(email, orgSlug), slug)
}

// CreatePosition validates the submission, enforces the plan ceiling, and
// writes the new position through store and cache. The organization's
// has-created-position flag flips in the same fan-out the first time.
func (s *Service) CreatePosition(ctx context.Context, email, orgSlug string, payload career.NewPosition) (career.Position, error) {
	if err := requireChain("email", email, "organization slug", orgSlug); err != nil {
		return career.Position{}, err
	}
	if err := payload.Validate(); err != nil {
		return career.Position{}, err
	}
	payload = payload.Normalize()

	// Resolving the parent first surfaces a dangling org slug as NotFound
	// before any quota work.
	org, err := s.Organization(ctx, email, orgSlug)
	if err != nil {
		return career.Position{}, err
	}

	if err := s.enforcePositionQuota(ctx, email, orgSlug); err != nil {
		return career.Position{}, err
	}

	pos := career.Position{
		Title:          payload.Title,
		Slug:           s.slugFn(payload.Title),
		Description:    payload.Description,
		MonthStartedAt: payload.Timeline.Month,
		YearStartedAt:  payload.Timeline.Year,
	}

	var extras []func(ctx context.Context) error
	if !org.HasCreatedPositionBefore {
		flagged := org
		flagged.HasCreatedPositionBefore = true
		extras = append(extras,
			func(ctx context.Context) error {
				return s.store.MarkPositionCreated(ctx, email, orgSlug)
			},
			func(ctx context.Context) error {
				return cache.SetHash(ctx, s.cache, cache.OrgKey(email, orgSlug), flagged)
			})
	}

	if err := createThrough(ctx, s, s.positionEntity(email, orgSlug), pos, extras...); err != nil {
		return career.Position{}, err
	}
	return pos, nil
}

// PatchPosition applies exactly one of the disjoint position updates. A
// title change regenerates the slug and drops the old key chain; patching
// a field to its current value is an idempotent no-op.
func (s *Service) PatchPosition(ctx context.Context, email, orgSlug, slug string, patch career.PositionPatch) error {
	if err := requireChain("email", email, "organization slug", orgSlug, "position slug", slug); err != nil {
		return err
	}
	if err := patch.Validate(); err != nil {
		return err
	}

	return synchronize(ctx, s, s.positionEntity(email, orgSlug), slug,
		func(base career.Position) (career.Position, bool, error) {
			switch {
			case patch.Title != nil:
				title := strings.ToLower(strings.TrimSpace(*patch.Title))
				if title == base.Title {
					return base, false, nil
				}
				base.Title = title
				base.Slug = s.slugFn(title)
				return base, true, nil

			case patch.Description != nil:
				desc := strings.ToLower(strings.TrimSpace(*patch.Description))
				if desc == base.Description {
					return base, false, nil
				}
				base.Description = desc
				return base, true, nil

			default:
				month := career.Month(strings.ToUpper(string(patch.Timeline.Month)))
				if month == base.MonthStartedAt && patch.Timeline.Year == base.YearStartedAt {
					return base, false, nil
				}
				base.MonthStartedAt = month
				base.YearStartedAt = patch.Timeline.Year
				return base, true, nil
			}
		})
}

// DeletePosition removes the position and its benchmarks from store and
// cache.
func (s *Service) DeletePosition(ctx context.Context, email, orgSlug, slug string) error {
	if err := requireChain("email", email, "organization slug", orgSlug, "position slug", slug); err != nil {
		return err
	}
	return deleteThrough(ctx, s, s.positionEntity(email, orgSlug), slug)
}
