package career

import "strings"

// Tier is a user's subscription level. PRO ceilings are not resolved upstream
// yet; the limit configuration falls back to FREE values for PRO users.
type Tier string

const (
	TierFree Tier = "FREE"
	TierPro  Tier = "PRO"
)

// ParseTier normalizes s to a known tier, defaulting to FREE when the value
// cannot be resolved. Plan lookups never fail closed.
func ParseTier(s string) Tier {
	switch Tier(strings.ToUpper(strings.TrimSpace(s))) {
	case TierPro:
		return TierPro
	default:
		return TierFree
	}
}

// Plan is the singleton plan record attached to a user.
type Plan struct {
	Tier Tier `json:"tier"`
}

// PlanLimits carries the numeric ceilings for a tier. Ceilings are
// configuration, not code: see pkg/config for the defaults per tier.
type PlanLimits struct {
	MaxOrganizations int `json:"maxOrganizations"`
	MaxPositions     int `json:"maxPositions"`
	MaxAchievements  int `json:"maxAchievements"`
	MaxChallenges    int `json:"maxChallenges"`
	MaxFailures      int `json:"maxFailures"`
	MaxProjects      int `json:"maxProjects"`
}

// MaxBenchmarks returns the ceiling for one benchmark category.
func (l PlanLimits) MaxBenchmarks(cat Category) int {
	switch cat {
	case CategoryAchievements:
		return l.MaxAchievements
	case CategoryChallenges:
		return l.MaxChallenges
	case CategoryFailures:
		return l.MaxFailures
	case CategoryProjects:
		return l.MaxProjects
	default:
		return 0
	}
}

// OrgRef is the lightweight list projection of an organization.
type OrgRef struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Organization is the full singleton record for one organization. The five
// HasCreated*Before flags are monotonic: they transition false to true when
// the first child of the corresponding kind is created and never reset.
type Organization struct {
	Name                        string `json:"name"`
	Slug                        string `json:"slug"`
	HasCreatedPositionBefore    bool   `json:"hasCreatedPositionBefore"`
	HasCreatedAchievementBefore bool   `json:"hasCreatedAchievementBefore"`
	HasCreatedChallengeBefore   bool   `json:"hasCreatedChallengeBefore"`
	HasCreatedFailureBefore     bool   `json:"hasCreatedFailureBefore"`
	HasCreatedProjectBefore     bool   `json:"hasCreatedProjectBefore"`
}

// Ref returns the list projection of o.
func (o Organization) Ref() OrgRef {
	return OrgRef{Name: o.Name, Slug: o.Slug}
}

// HasCreated reports whether the first benchmark of the given category has
// ever been created under this organization.
func (o Organization) HasCreated(cat Category) bool {
	switch cat {
	case CategoryAchievements:
		return o.HasCreatedAchievementBefore
	case CategoryChallenges:
		return o.HasCreatedChallengeBefore
	case CategoryFailures:
		return o.HasCreatedFailureBefore
	case CategoryProjects:
		return o.HasCreatedProjectBefore
	default:
		return false
	}
}

// WithCreated returns a copy of o with the flag for cat flipped to true.
// Flags only ever move false to true.
func (o Organization) WithCreated(cat Category) Organization {
	switch cat {
	case CategoryAchievements:
		o.HasCreatedAchievementBefore = true
	case CategoryChallenges:
		o.HasCreatedChallengeBefore = true
	case CategoryFailures:
		o.HasCreatedFailureBefore = true
	case CategoryProjects:
		o.HasCreatedProjectBefore = true
	}
	return o
}

// PositionRef is the lightweight list projection of a position.
type PositionRef struct {
	Title          string `json:"title"`
	Slug           string `json:"slug"`
	MonthStartedAt Month  `json:"monthStartedAt"`
	YearStartedAt  int    `json:"yearStartedAt"`
}

// Position is the full singleton record for one position.
type Position struct {
	Title          string `json:"title"`
	Slug           string `json:"slug"`
	Description    string `json:"description"`
	MonthStartedAt Month  `json:"monthStartedAt"`
	YearStartedAt  int    `json:"yearStartedAt"`
}

// Ref returns the list projection of p.
func (p Position) Ref() PositionRef {
	return PositionRef{
		Title:          p.Title,
		Slug:           p.Slug,
		MonthStartedAt: p.MonthStartedAt,
		YearStartedAt:  p.YearStartedAt,
	}
}

// Timeline is a single month+year point. Its meaning depends on the owner:
// a position's start, a project's start, or the occurrence of any other
// benchmark category.
type Timeline struct {
	Month Month `json:"month"`
	Year  int   `json:"year"`
}

// User identifies the owner namespace for every cache key and store row.
// Email is the stable identity key across the system.
type User struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}
