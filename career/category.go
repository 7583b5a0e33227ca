package career

import (
	"strings"
	"time"
)

// Category identifies one of the four benchmark kinds. It is resolved once at
// the boundary (ParseCategory) and threaded through as a typed value; the
// concrete record shape behind it is one of the four Benchmark
// implementations below. A benchmark's category is immutable after creation.
type Category string

const (
	CategoryAchievements Category = "achievements"
	CategoryChallenges   Category = "challenges"
	CategoryFailures     Category = "failures"
	CategoryProjects     Category = "projects"
)

// Categories lists every valid benchmark category.
var Categories = []Category{
	CategoryAchievements,
	CategoryChallenges,
	CategoryFailures,
	CategoryProjects,
}

// ParseCategory normalizes s to a known category.
// Returns ErrBadRequest for unrecognized values.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	switch c {
	case CategoryAchievements, CategoryChallenges, CategoryFailures, CategoryProjects:
		return c, nil
	default:
		return "", BadRequestf("unrecognized benchmark category %q", s)
	}
}

// Code returns the short key segment used in singleton cache keys.
func (c Category) Code() string {
	switch c {
	case CategoryAchievements:
		return "ach"
	case CategoryChallenges:
		return "cha"
	case CategoryFailures:
		return "fai"
	case CategoryProjects:
		return "pro"
	default:
		return ""
	}
}

// Valid reports whether c is one of the four known categories.
func (c Category) Valid() bool {
	return c.Code() != ""
}

// BenchmarkMeta carries the fields every benchmark category shares.
type BenchmarkMeta struct {
	Title       string
	Slug        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// BenchmarkRef is the lightweight list projection shared by all categories.
// The timeline is projected to plain month/year fields; the category is
// implied by the list the ref lives in.
type BenchmarkRef struct {
	Title     string    `json:"title"`
	Slug      string    `json:"slug"`
	Month     Month     `json:"month"`
	Year      int       `json:"year"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Benchmark is the tagged variant over the four category record shapes.
// Implementations are value types; the With* methods return modified copies
// so the synchronizer can merge partial updates without reflection.
type Benchmark interface {
	Category() Category
	Meta() BenchmarkMeta
	Timeline() Timeline
	Ref() BenchmarkRef
	WithMeta(BenchmarkMeta) Benchmark
	WithTimeline(Timeline) Benchmark
}

// MakeBenchmark builds the concrete record for cat from normalized fields.
func MakeBenchmark(cat Category, meta BenchmarkMeta, tl Timeline) Benchmark {
	switch cat {
	case CategoryAchievements:
		return Achievement{benchmarkMeta: metaOf(meta), MonthOccuredAt: tl.Month, YearOccuredAt: tl.Year}
	case CategoryFailures:
		return Failure{benchmarkMeta: metaOf(meta), MonthOccuredAt: tl.Month, YearOccuredAt: tl.Year}
	case CategoryChallenges:
		return Challenge{benchmarkMeta: metaOf(meta), MonthOccuredAt: tl.Month, YearOccuredAt: tl.Year}
	case CategoryProjects:
		return Project{benchmarkMeta: metaOf(meta), MonthStartedAt: tl.Month, YearStartedAt: tl.Year}
	default:
		return nil
	}
}

// DecodeBenchmark decodes a cached or stored record into the concrete shape
// for cat. The decode callback receives a pointer to the concrete struct.
func DecodeBenchmark(cat Category, decode func(dest any) error) (Benchmark, error) {
	switch cat {
	case CategoryAchievements:
		var a Achievement
		if err := decode(&a); err != nil {
			return nil, err
		}
		return a, nil
	case CategoryFailures:
		var f Failure
		if err := decode(&f); err != nil {
			return nil, err
		}
		return f, nil
	case CategoryChallenges:
		var c Challenge
		if err := decode(&c); err != nil {
			return nil, err
		}
		return c, nil
	case CategoryProjects:
		var p Project
		if err := decode(&p); err != nil {
			return nil, err
		}
		return p, nil
	default:
		return nil, BadRequestf("unrecognized benchmark category %q", cat)
	}
}

// benchmarkMeta is embedded by every concrete shape to share the common
// field encoding.
type benchmarkMeta struct {
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func metaOf(m BenchmarkMeta) benchmarkMeta {
	return benchmarkMeta{
		Title:       m.Title,
		Slug:        m.Slug,
		Description: m.Description,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func (m benchmarkMeta) asMeta() BenchmarkMeta {
	return BenchmarkMeta{
		Title:       m.Title,
		Slug:        m.Slug,
		Description: m.Description,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func refOf(m benchmarkMeta, tl Timeline) BenchmarkRef {
	return BenchmarkRef{
		Title:     m.Title,
		Slug:      m.Slug,
		Month:     tl.Month,
		Year:      tl.Year,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// Achievement is a point-in-time benchmark.
type Achievement struct {
	benchmarkMeta
	MonthOccuredAt Month `json:"monthOccuredAt"`
	YearOccuredAt  int   `json:"yearOccuredAt"`
}

func (a Achievement) Category() Category { return CategoryAchievements }
func (a Achievement) Meta() BenchmarkMeta {
	return a.benchmarkMeta.asMeta()
}
func (a Achievement) Timeline() Timeline {
	return Timeline{Month: a.MonthOccuredAt, Year: a.YearOccuredAt}
}
func (a Achievement) Ref() BenchmarkRef { return refOf(a.benchmarkMeta, a.Timeline()) }
func (a Achievement) WithMeta(m BenchmarkMeta) Benchmark {
	a.benchmarkMeta = metaOf(m)
	return a
}
func (a Achievement) WithTimeline(tl Timeline) Benchmark {
	a.MonthOccuredAt, a.YearOccuredAt = tl.Month, tl.Year
	return a
}

// Failure is a point-in-time benchmark.
type Failure struct {
	benchmarkMeta
	MonthOccuredAt Month `json:"monthOccuredAt"`
	YearOccuredAt  int   `json:"yearOccuredAt"`
}

func (f Failure) Category() Category { return CategoryFailures }
func (f Failure) Meta() BenchmarkMeta {
	return f.benchmarkMeta.asMeta()
}
func (f Failure) Timeline() Timeline {
	return Timeline{Month: f.MonthOccuredAt, Year: f.YearOccuredAt}
}
func (f Failure) Ref() BenchmarkRef { return refOf(f.benchmarkMeta, f.Timeline()) }
func (f Failure) WithMeta(m BenchmarkMeta) Benchmark {
	f.benchmarkMeta = metaOf(m)
	return f
}
func (f Failure) WithTimeline(tl Timeline) Benchmark {
	f.MonthOccuredAt, f.YearOccuredAt = tl.Month, tl.Year
	return f
}

// Challenge is a point-in-time benchmark with reserved resolution fields.
// The solved-at timeline and derivation flags are unused today; they are
// kept so cache and store rows round-trip without loss.
type Challenge struct {
	benchmarkMeta
	MonthOccuredAt Month  `json:"monthOccuredAt"`
	YearOccuredAt  int    `json:"yearOccuredAt"`
	MonthSolvedAt  *Month `json:"monthSolvedAt"`
	YearSolvedAt   *int   `json:"yearSolvedAt"`
	IsAchievement  bool   `json:"isAchievement"`
	IsFailure      bool   `json:"isFailure"`
	IsProject      bool   `json:"isProject"`
}

func (c Challenge) Category() Category { return CategoryChallenges }
func (c Challenge) Meta() BenchmarkMeta {
	return c.benchmarkMeta.asMeta()
}
func (c Challenge) Timeline() Timeline {
	return Timeline{Month: c.MonthOccuredAt, Year: c.YearOccuredAt}
}
func (c Challenge) Ref() BenchmarkRef { return refOf(c.benchmarkMeta, c.Timeline()) }
func (c Challenge) WithMeta(m BenchmarkMeta) Benchmark {
	c.benchmarkMeta = metaOf(m)
	return c
}
func (c Challenge) WithTimeline(tl Timeline) Benchmark {
	c.MonthOccuredAt, c.YearOccuredAt = tl.Month, tl.Year
	return c
}

// Project is a started-at benchmark with reserved completion fields.
type Project struct {
	benchmarkMeta
	MonthStartedAt  Month  `json:"monthStartedAt"`
	YearStartedAt   int    `json:"yearStartedAt"`
	MonthFinishedAt *Month `json:"monthFinishedAt"`
	YearFinishedAt  *int   `json:"yearFinishedAt"`
	IsAchievement   bool   `json:"isAchievement"`
	IsFailure       bool   `json:"isFailure"`
}

func (p Project) Category() Category { return CategoryProjects }
func (p Project) Meta() BenchmarkMeta {
	return p.benchmarkMeta.asMeta()
}
func (p Project) Timeline() Timeline {
	return Timeline{Month: p.MonthStartedAt, Year: p.YearStartedAt}
}
func (p Project) Ref() BenchmarkRef { return refOf(p.benchmarkMeta, p.Timeline()) }
func (p Project) WithMeta(m BenchmarkMeta) Benchmark {
	p.benchmarkMeta = metaOf(m)
	return p
}
func (p Project) WithTimeline(tl Timeline) Benchmark {
	p.MonthStartedAt, p.YearStartedAt = tl.Month, tl.Year
	return p
}
