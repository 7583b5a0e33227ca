package career

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// NewOrganization is the pre-validated payload for creating an organization.
type NewOrganization struct {
	Name string `json:"name"`
}

// Validate enforces the submission rules for a new organization.
func (p NewOrganization) Validate() error {
	err := validation.ValidateStruct(&p,
		validation.Field(&p.Name, validation.Required, validation.Length(1, 150)),
	)
	if err != nil {
		return BadRequestf("invalid organization submission: %v", err)
	}
	return nil
}

// Normalize lower-cases the free-text fields, mirroring what both the cache
// and the store persist.
func (p NewOrganization) Normalize() NewOrganization {
	p.Name = strings.ToLower(strings.TrimSpace(p.Name))
	return p
}

// NewPosition is the pre-validated payload for creating a position.
type NewPosition struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Timeline    Timeline `json:"timeline"`
}

// Validate enforces the submission rules for a new position.
func (p NewPosition) Validate() error {
	err := validation.ValidateStruct(&p,
		validation.Field(&p.Title, validation.Required, validation.Length(1, 150)),
		validation.Field(&p.Description, validation.Length(0, 600)),
	)
	if err != nil {
		return BadRequestf("invalid position submission: %v", err)
	}
	return validateTimeline(p.Timeline)
}

// Normalize lower-cases free text and upper-cases the month.
func (p NewPosition) Normalize() NewPosition {
	p.Title = strings.ToLower(strings.TrimSpace(p.Title))
	p.Description = strings.ToLower(strings.TrimSpace(p.Description))
	p.Timeline.Month = Month(strings.ToUpper(string(p.Timeline.Month)))
	return p
}

// NewBenchmark is the pre-validated payload for creating a benchmark of any
// category; the category travels separately as a typed value.
type NewBenchmark struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Timeline    Timeline `json:"timeline"`
}

// Validate enforces the submission rules for a new benchmark.
func (p NewBenchmark) Validate() error {
	err := validation.ValidateStruct(&p,
		validation.Field(&p.Title, validation.Required, validation.Length(1, 150)),
		validation.Field(&p.Description, validation.Length(0, 600)),
	)
	if err != nil {
		return BadRequestf("invalid benchmark submission: %v", err)
	}
	return validateTimeline(p.Timeline)
}

// Normalize lower-cases free text and upper-cases the month.
func (p NewBenchmark) Normalize() NewBenchmark {
	p.Title = strings.ToLower(strings.TrimSpace(p.Title))
	p.Description = strings.ToLower(strings.TrimSpace(p.Description))
	p.Timeline.Month = Month(strings.ToUpper(string(p.Timeline.Month)))
	return p
}

func validateTimeline(tl Timeline) error {
	if !tl.Month.Valid() {
		return BadRequestf("unrecognized month %q", tl.Month)
	}
	if tl.Year < 1900 || tl.Year > 2200 {
		return BadRequestf("year %d out of range", tl.Year)
	}
	return nil
}

// OrganizationPatch is the single patch shape an organization accepts:
// a rename. An empty patch is rejected.
type OrganizationPatch struct {
	Name *string `json:"name"`
}

// Validate rejects empty patches.
func (p OrganizationPatch) Validate() error {
	if p.Name == nil || strings.TrimSpace(*p.Name) == "" {
		return BadRequestf("empty organization patch")
	}
	if len(*p.Name) > 150 {
		return BadRequestf("invalid organization patch: name too long")
	}
	return nil
}

// PositionPatch carries exactly one of the three disjoint update shapes:
// rename, description, or start timeline.
type PositionPatch struct {
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	Timeline    *Timeline `json:"timeline"`
}

// Validate rejects empty and ambiguous patches: exactly one shape must be
// present.
func (p PositionPatch) Validate() error {
	n := 0
	if p.Title != nil {
		n++
	}
	if p.Description != nil {
		n++
	}
	if p.Timeline != nil {
		n++
	}
	if n != 1 {
		return BadRequestf("position patch must carry exactly one of title, description, or timeline")
	}
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		return BadRequestf("position patch title must not be empty")
	}
	if p.Timeline != nil {
		return validateTimeline(*p.Timeline)
	}
	return nil
}

// BenchmarkPatch carries exactly one of the disjoint update shapes. The two
// timeline fields are category-bound: Occurred applies to achievements,
// challenges, and failures; Started applies to projects only. Submitting the
// wrong timeline kind for a category is how a caller would try to move a
// benchmark across categories, and it is rejected outright.
type BenchmarkPatch struct {
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	Occurred    *Timeline `json:"generalTimeline"`
	Started     *Timeline `json:"projectTimeline"`
}

// Validate rejects empty, ambiguous, and category-mismatched patches.
func (p BenchmarkPatch) Validate(cat Category) error {
	if !cat.Valid() {
		return BadRequestf("unrecognized benchmark category %q", cat)
	}

	n := 0
	if p.Title != nil {
		n++
	}
	if p.Description != nil {
		n++
	}
	if p.Occurred != nil {
		n++
	}
	if p.Started != nil {
		n++
	}
	if n != 1 {
		return BadRequestf("benchmark patch must carry exactly one of title, description, or a timeline")
	}
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		return BadRequestf("benchmark patch title must not be empty")
	}
	if p.Started != nil && cat != CategoryProjects {
		return BadRequestf("started timeline is not valid for %s", cat)
	}
	if p.Occurred != nil && cat == CategoryProjects {
		return BadRequestf("occurred timeline is not valid for %s", cat)
	}
	if tl := p.timeline(); tl != nil {
		return validateTimeline(*tl)
	}
	return nil
}

// timeline returns whichever timeline shape the patch carries, if any.
func (p BenchmarkPatch) timeline() *Timeline {
	if p.Occurred != nil {
		return p.Occurred
	}
	return p.Started
}

// TimelineUpdate returns the submitted timeline normalized for persistence.
func (p BenchmarkPatch) TimelineUpdate() *Timeline {
	tl := p.timeline()
	if tl == nil {
		return nil
	}
	norm := Timeline{Month: Month(strings.ToUpper(string(tl.Month))), Year: tl.Year}
	return &norm
}
