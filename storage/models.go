package storage

import (
	"time"

	"github.com/goliatone/go-career-cache/career"
	"github.com/uptrace/bun"
)

// Rows reference their parent by numeric id, not by slug. Slugs change on
// rename; ids do not, so a parent rename never has to rewrite child rows.

// UserRow is the owner record for every other row.
type UserRow struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID        int64     `bun:"id,pk,autoincrement"`
	Email     string    `bun:"email,notnull,unique"`
	ExtID     string    `bun:"ext_id,notnull"`
	FirstName string    `bun:"first_name"`
	LastName  string    `bun:"last_name"`
	CreatedAt time.Time `bun:"created_at,notnull"`
}

// PlanRow is the singleton plan attached to a user.
type PlanRow struct {
	bun.BaseModel `bun:"table:plans,alias:pl"`

	ID        int64     `bun:"id,pk,autoincrement"`
	UserID    int64     `bun:"user_id,notnull,unique"`
	Tier      string    `bun:"tier,notnull"`
	CreatedAt time.Time `bun:"created_at,notnull"`
}

// OrganizationRow holds one organization. The slug is unique per user.
type OrganizationRow struct {
	bun.BaseModel `bun:"table:organizations,alias:o"`

	ID        int64     `bun:"id,pk,autoincrement"`
	UserID    int64     `bun:"user_id,notnull"`
	Name      string    `bun:"name,notnull"`
	Slug      string    `bun:"slug,notnull"`
	CreatedAt time.Time `bun:"created_at,notnull"`
	UpdatedAt time.Time `bun:"updated_at,notnull"`
}

// OrganizationStateRow mirrors the five monotonic first-created flags the
// cache keeps on the organization singleton hash. Flags only move false to
// true.
type OrganizationStateRow struct {
	bun.BaseModel `bun:"table:organization_states,alias:os"`

	OrganizationID              int64 `bun:"organization_id,pk"`
	HasCreatedPositionBefore    bool  `bun:"has_created_position_before,notnull"`
	HasCreatedAchievementBefore bool  `bun:"has_created_achievement_before,notnull"`
	HasCreatedChallengeBefore   bool  `bun:"has_created_challenge_before,notnull"`
	HasCreatedFailureBefore     bool  `bun:"has_created_failure_before,notnull"`
	HasCreatedProjectBefore     bool  `bun:"has_created_project_before,notnull"`
}

// PositionRow holds one position under an organization.
type PositionRow struct {
	bun.BaseModel `bun:"table:positions,alias:p"`

	ID             int64     `bun:"id,pk,autoincrement"`
	OrganizationID int64     `bun:"organization_id,notnull"`
	Title          string    `bun:"title,notnull"`
	Slug           string    `bun:"slug,notnull"`
	Description    string    `bun:"description"`
	MonthStartedAt string    `bun:"month_started_at,notnull"`
	YearStartedAt  int       `bun:"year_started_at,notnull"`
	CreatedAt      time.Time `bun:"created_at,notnull"`
	UpdatedAt      time.Time `bun:"updated_at,notnull"`
}

// BenchmarkRow holds one benchmark of any category under a position. The
// category column discriminates; the nullable columns carry the reserved
// per-category fields.
type BenchmarkRow struct {
	bun.BaseModel `bun:"table:benchmarks,alias:b"`

	ID          int64  `bun:"id,pk,autoincrement"`
	PositionID  int64  `bun:"position_id,notnull"`
	Category    string `bun:"category,notnull"`
	Title       string `bun:"title,notnull"`
	Slug        string `bun:"slug,notnull"`
	Description string `bun:"description"`

	// Occurred-at for achievements, challenges, failures; started-at for
	// projects.
	Month string `bun:"month,notnull"`
	Year  int    `bun:"year,notnull"`

	// Solved-at (challenges) or finished-at (projects). Unset until the
	// resolution features land.
	MonthResolved *string `bun:"month_resolved"`
	YearResolved  *int    `bun:"year_resolved"`

	IsAchievement bool `bun:"is_achievement,notnull,default:false"`
	IsFailure     bool `bun:"is_failure,notnull,default:false"`
	IsProject     bool `bun:"is_project,notnull,default:false"`

	CreatedAt time.Time `bun:"created_at,notnull"`
	UpdatedAt time.Time `bun:"updated_at,notnull"`
}

func (r OrganizationRow) toDomain(state OrganizationStateRow) career.Organization {
	return career.Organization{
		Name:                        r.Name,
		Slug:                        r.Slug,
		HasCreatedPositionBefore:    state.HasCreatedPositionBefore,
		HasCreatedAchievementBefore: state.HasCreatedAchievementBefore,
		HasCreatedChallengeBefore:   state.HasCreatedChallengeBefore,
		HasCreatedFailureBefore:     state.HasCreatedFailureBefore,
		HasCreatedProjectBefore:     state.HasCreatedProjectBefore,
	}
}

func (r PositionRow) toDomain() career.Position {
	return career.Position{
		Title:          r.Title,
		Slug:           r.Slug,
		Description:    r.Description,
		MonthStartedAt: career.Month(r.MonthStartedAt),
		YearStartedAt:  r.YearStartedAt,
	}
}

func (r BenchmarkRow) toDomain() (career.Benchmark, error) {
	cat, err := career.ParseCategory(r.Category)
	if err != nil {
		return nil, err
	}

	meta := career.BenchmarkMeta{
		Title:       r.Title,
		Slug:        r.Slug,
		Description: r.Description,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
	tl := career.Timeline{Month: career.Month(r.Month), Year: r.Year}

	b := career.MakeBenchmark(cat, meta, tl)

	switch v := b.(type) {
	case career.Challenge:
		if r.MonthResolved != nil {
			m := career.Month(*r.MonthResolved)
			v.MonthSolvedAt = &m
		}
		v.YearSolvedAt = r.YearResolved
		v.IsAchievement = r.IsAchievement
		v.IsFailure = r.IsFailure
		v.IsProject = r.IsProject
		return v, nil
	case career.Project:
		if r.MonthResolved != nil {
			m := career.Month(*r.MonthResolved)
			v.MonthFinishedAt = &m
		}
		v.YearFinishedAt = r.YearResolved
		v.IsAchievement = r.IsAchievement
		v.IsFailure = r.IsFailure
		return v, nil
	default:
		return b, nil
	}
}

func benchmarkRowOf(positionID int64, b career.Benchmark) BenchmarkRow {
	meta := b.Meta()
	tl := b.Timeline()

	row := BenchmarkRow{
		PositionID:  positionID,
		Category:    string(b.Category()),
		Title:       meta.Title,
		Slug:        meta.Slug,
		Description: meta.Description,
		Month:       string(tl.Month),
		Year:        tl.Year,
		CreatedAt:   meta.CreatedAt,
		UpdatedAt:   meta.UpdatedAt,
	}

	switch v := b.(type) {
	case career.Challenge:
		if v.MonthSolvedAt != nil {
			m := string(*v.MonthSolvedAt)
			row.MonthResolved = &m
		}
		row.YearResolved = v.YearSolvedAt
		row.IsAchievement = v.IsAchievement
		row.IsFailure = v.IsFailure
		row.IsProject = v.IsProject
	case career.Project:
		if v.MonthFinishedAt != nil {
			m := string(*v.MonthFinishedAt)
			row.MonthResolved = &m
		}
		row.YearResolved = v.YearFinishedAt
		row.IsAchievement = v.IsAchievement
		row.IsFailure = v.IsFailure
	}

	return row
}
