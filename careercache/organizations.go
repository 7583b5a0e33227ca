package careercache

import (
	"context"
	"strings"

	"github.com/goliatone/go-career-cache/cache"
	"github.com/goliatone/go-career-cache/career"
)

func (s *Service) orgEntity(email string) entity[career.OrgRef, career.Organization] {
	return entity[career.OrgRef, career.Organization]{
		collection: "organizations",
		listKey:    cache.UserOrgsKey(email),
		itemKey:    func(slug string) string { return cache.OrgKey(email, slug) },
		pattern:    func(slug string) string { return cache.OrgPattern(email, slug) },
		refSlug:    func(r career.OrgRef) string { return r.Slug },
		fullSlug:   func(o career.Organization) string { return o.Slug },
		toRef:      career.Organization.Ref,
		applyRef: func(o career.Organization, r career.OrgRef) career.Organization {
			o.Name, o.Slug = r.Name, r.Slug
			return o
		},
		listStore: func(ctx context.Context) ([]career.Organization, error) {
			return s.store.ListOrganizations(ctx, email)
		},
		loadStore: func(ctx context.Context, slug string) (career.Organization, error) {
			return s.store.LoadOrganization(ctx, email, slug)
		},
		createStore: func(ctx context.Context, o career.Organization) error {
			return s.store.CreateOrganization(ctx, email, o)
		},
		patchStore: func(ctx context.Context, oldSlug string, o career.Organization) error {
			return s.store.PatchOrganization(ctx, email, oldSlug, o.Ref())
		},
		deleteStore: func(ctx context.Context, slug string) error {
			return s.store.DeleteOrganization(ctx, email, slug)
		},
	}
}

// Organizations lists the user's organizations as their list projections,
// repopulating the list cache from the store on miss.
func (s *Service) Organizations(ctx context.Context, email string) ([]career.OrgRef, error) {
	if err := requireIdent("email", email); err != nil {
		return nil, err
	}
	return listThrough(ctx, s, s.orgEntity(email))
}

// Organization returns one organization with its first-created flags,
// repopulating the singleton cache from the store on miss.
func (s *Service) Organization(ctx context.Context, email, slug string) (career.Organization, error) {
	if err := requireChain("email", email, "organization slug", slug); err != nil {
		return career.Organization{}, err
	}
	return getThrough(ctx, s, s.orgEntity(email), slug)
}

// CreateOrganization validates and normalizes the submission, enforces the
// plan ceiling, and writes the new organization through store and cache.
// The email namespace's first-time flag clears in the same fan-out.
func (s *Service) CreateOrganization(ctx context.Context, email string, payload career.NewOrganization) (career.Organization, error) {
	if err := requireIdent("email", email); err != nil {
		return career.Organization{}, err
	}
	if err := payload.Validate(); err != nil {
		return career.Organization{}, err
	}
	payload = payload.Normalize()

	if err := s.enforceOrganizationQuota(ctx, email); err != nil {
		return career.Organization{}, err
	}

	org := career.Organization{
		Name: payload.Name,
		Slug: s.slugFn(payload.Name),
	}

	err := createThrough(ctx, s, s.orgEntity(email), org,
		func(ctx context.Context) error {
			return cache.SetValue(ctx, s.cache, cache.FirstTimeKey(email), false, 0)
		})
	if err != nil {
		return career.Organization{}, err
	}
	return org, nil
}

// PatchOrganization renames the organization addressed by slug. The rename
// regenerates the slug, so every cache key under the old slug chain is
// dropped and rebuilt lazily. Patching a name to its current value is an
// idempotent no-op; patching an organization absent everywhere is a silent
// no-op.
func (s *Service) PatchOrganization(ctx context.Context, email, slug string, patch career.OrganizationPatch) error {
	if err := requireChain("email", email, "organization slug", slug); err != nil {
		return err
	}
	if err := patch.Validate(); err != nil {
		return err
	}

	name := strings.ToLower(strings.TrimSpace(*patch.Name))

	return synchronize(ctx, s, s.orgEntity(email), slug,
		func(base career.Organization) (career.Organization, bool, error) {
			if name == base.Name {
				return base, false, nil
			}
			base.Name = name
			base.Slug = s.slugFn(name)
			return base, true, nil
		})
}

// DeleteOrganization removes the organization and everything beneath it
// from store and cache.
func (s *Service) DeleteOrganization(ctx context.Context, email, slug string) error {
	if err := requireChain("email", email, "organization slug", slug); err != nil {
		return err
	}
	return deleteThrough(ctx, s, s.orgEntity(email), slug)
}
